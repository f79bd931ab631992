package handler

import (
    "errors"
    "net/http"

    "github.com/labstack/echo/v4"

    "github.com/portgermain/marina-api/internal/model"
    "github.com/portgermain/marina-api/internal/repository"
)

// CatwayHandler exposes the catway registry.  Listing and detail are open
// to any authenticated caller; mutations are restricted to the ADMIN role
// by route middleware.
type CatwayHandler struct {
    Catways *repository.CatwayRepo
}

func NewCatwayHandler(repo *repository.CatwayRepo) *CatwayHandler {
    if repo == nil {
        panic("nil repository passed to NewCatwayHandler")
    }
    return &CatwayHandler{Catways: repo}
}

type createCatwayReq struct {
    CatwayNumber uint64 `json:"catwayNumber"`
    CatwayType   string `json:"catwayType"`
    CatwayState  string `json:"catwayState"`
}

type updateCatwayReq struct {
    CatwayState string `json:"catwayState"`
}

// Create handles POST /v1/catways.  The catway number must be unused and
// the type one of short|long.
func (h *CatwayHandler) Create(c echo.Context) error {
    var req createCatwayReq
    if err := c.Bind(&req); err != nil {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
    }
    if req.CatwayNumber == 0 || req.CatwayState == "" {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "catwayNumber and catwayState required"})
    }
    if !model.ValidCatwayType(req.CatwayType) {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "catwayType must be short or long"})
    }

    cw, err := h.Catways.Create(c.Request().Context(), req.CatwayNumber, req.CatwayType, req.CatwayState)
    if err != nil {
        if errors.Is(err, repository.ErrCatwayExists) {
            return c.JSON(http.StatusConflict, echo.Map{"error": "catway number already exists"})
        }
        return c.JSON(http.StatusInternalServerError, echo.Map{"error": "create catway failed"})
    }
    return c.JSON(http.StatusCreated, cw)
}

// List handles GET /v1/catways.  Responses are cacheable.
func (h *CatwayHandler) List(c echo.Context) error {
    catways, err := h.Catways.List(c.Request().Context())
    if err != nil {
        return c.JSON(http.StatusInternalServerError, echo.Map{"error": "list catways failed"})
    }
    return c.JSON(http.StatusOK, echo.Map{"items": catways})
}

// Get handles GET /v1/catways/:number.
func (h *CatwayHandler) Get(c echo.Context) error {
    number, err := pathNumber(c, "number")
    if err != nil {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid catway number"})
    }
    cw, err := h.Catways.GetByNumber(c.Request().Context(), number)
    if err != nil {
        if errors.Is(err, repository.ErrCatwayNotFound) {
            return c.JSON(http.StatusNotFound, echo.Map{"error": "catway not found"})
        }
        return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
    }
    return c.JSON(http.StatusOK, cw)
}

// UpdateState handles PUT /v1/catways/:number.  Only the state descriptor
// is mutable; number and type are fixed at creation.
func (h *CatwayHandler) UpdateState(c echo.Context) error {
    number, err := pathNumber(c, "number")
    if err != nil {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid catway number"})
    }
    var req updateCatwayReq
    if err := c.Bind(&req); err != nil || req.CatwayState == "" {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "catwayState required"})
    }
    cw, err := h.Catways.UpdateState(c.Request().Context(), number, req.CatwayState)
    if err != nil {
        if errors.Is(err, repository.ErrCatwayNotFound) {
            return c.JSON(http.StatusNotFound, echo.Map{"error": "catway not found"})
        }
        return c.JSON(http.StatusInternalServerError, echo.Map{"error": "update failed"})
    }
    return c.JSON(http.StatusOK, cw)
}

// Delete handles DELETE /v1/catways/:number.  Returns 409 while
// reservations still reference the catway.
func (h *CatwayHandler) Delete(c echo.Context) error {
    number, err := pathNumber(c, "number")
    if err != nil {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid catway number"})
    }
    err = h.Catways.DeleteByNumber(c.Request().Context(), number)
    if err != nil {
        switch {
        case errors.Is(err, repository.ErrCatwayNotFound):
            return c.JSON(http.StatusNotFound, echo.Map{"error": "catway not found"})
        case errors.Is(err, repository.ErrConflict):
            return c.JSON(http.StatusConflict, echo.Map{"error": "catway still has reservations"})
        default:
            return c.JSON(http.StatusInternalServerError, echo.Map{"error": "delete failed"})
        }
    }
    return c.NoContent(http.StatusNoContent)
}
