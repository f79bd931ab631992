package handler

import (
    "errors"
    "log"
    "net/http"
    "strconv"
    "time"

    "github.com/labstack/echo/v4"

    "github.com/portgermain/marina-api/internal/queue"
    "github.com/portgermain/marina-api/internal/repository"
    "github.com/portgermain/marina-api/internal/service"
)

// ReservationHandler exposes the reservation ledger.  All routes sit behind
// the JWT middleware; the caller's account always comes from the explicit
// context identity, never from a body field.
type ReservationHandler struct {
    Reservations *repository.ReservationRepo
    Catways      *repository.CatwayRepo
}

func NewReservationHandler(res *repository.ReservationRepo, cat *repository.CatwayRepo) *ReservationHandler {
    if res == nil || cat == nil {
        panic("nil repository passed to NewReservationHandler")
    }
    return &ReservationHandler{Reservations: res, Catways: cat}
}

type reservationReq struct {
    CatwayNumber *uint64    `json:"catwayNumber"`
    ClientName   *string    `json:"clientName"`
    BoatName     *string    `json:"boatName"`
    StartDate    *time.Time `json:"startDate"`
    EndDate      *time.Time `json:"endDate"`
}

// Create handles POST /v1/reservations.  Validation (range, catway
// existence, overlap) happens in the repository before any row is written;
// a successful booking also publishes a confirmation event.
func (h *ReservationHandler) Create(c echo.Context) error {
    userID, err := getUserID(c)
    if err != nil {
        return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
    }
    var req reservationReq
    if err := c.Bind(&req); err != nil {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
    }
    if req.CatwayNumber == nil || req.ClientName == nil || req.BoatName == nil ||
        req.StartDate == nil || req.EndDate == nil {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "catwayNumber, clientName, boatName, startDate and endDate required"})
    }

    ctx := c.Request().Context()
    created, err := h.Reservations.Create(ctx, *req.CatwayNumber, *req.ClientName, *req.BoatName,
        *req.StartDate, *req.EndDate, userID)
    if err != nil {
        switch {
        case errors.Is(err, repository.ErrInvalidRange):
            return c.JSON(http.StatusBadRequest, echo.Map{"error": "startDate must be before endDate"})
        case errors.Is(err, repository.ErrUnknownCatway):
            return c.JSON(http.StatusNotFound, echo.Map{"error": "catway not found"})
        case errors.Is(err, repository.ErrOverlap):
            return c.JSON(http.StatusConflict, echo.Map{"error": "catway already reserved for this period"})
        default:
            return c.JSON(http.StatusInternalServerError, echo.Map{"error": "create reservation failed"})
        }
    }

    // Publish the confirmation on a best-effort basis; a broker outage must
    // not fail the booking.
    ev := queue.ReservationConfirmedEvent{
        Reference:    created.Reference,
        CatwayNumber: created.CatwayNumber,
        ClientName:   created.ClientName,
        BoatName:     created.BoatName,
        StartDate:    created.StartDate.Format(time.RFC3339),
        EndDate:      created.EndDate.Format(time.RFC3339),
        UserID:       created.UserID,
        ConfirmedAt:  time.Now().UTC().Format(time.RFC3339),
    }
    if err := queue_publisher.PublishReservationConfirmed(ctx, ev); err != nil {
        log.Printf("reservation %s: publish confirmation failed: %v", created.Reference, err)
    }

    return c.JSON(http.StatusCreated, created)
}

// Update handles PUT /v1/reservations/:id.  The resulting record passes the
// same checks as a fresh create, excluding itself from the overlap scan.
func (h *ReservationHandler) Update(c echo.Context) error {
    if _, err := getUserID(c); err != nil {
        return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
    }
    id, err := pathNumber(c, "id")
    if err != nil {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid reservation id"})
    }
    var req reservationReq
    if err := c.Bind(&req); err != nil {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
    }

    upd := repository.ReservationUpdate{
        CatwayNumber: req.CatwayNumber,
        ClientName:   req.ClientName,
        BoatName:     req.BoatName,
        StartDate:    req.StartDate,
        EndDate:      req.EndDate,
    }
    updated, err := h.Reservations.Update(c.Request().Context(), id, upd)
    if err != nil {
        switch {
        case errors.Is(err, repository.ErrReservationNotFound):
            return c.JSON(http.StatusNotFound, echo.Map{"error": "reservation not found"})
        case errors.Is(err, repository.ErrInvalidRange):
            return c.JSON(http.StatusBadRequest, echo.Map{"error": "startDate must be before endDate"})
        case errors.Is(err, repository.ErrUnknownCatway):
            return c.JSON(http.StatusNotFound, echo.Map{"error": "catway not found"})
        case errors.Is(err, repository.ErrOverlap):
            return c.JSON(http.StatusConflict, echo.Map{"error": "catway already reserved for this period"})
        default:
            return c.JSON(http.StatusInternalServerError, echo.Map{"error": "update reservation failed"})
        }
    }
    return c.JSON(http.StatusOK, updated)
}

// Get handles GET /v1/reservations/:id and returns the reservation with its
// catway populated.
func (h *ReservationHandler) Get(c echo.Context) error {
    if _, err := getUserID(c); err != nil {
        return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
    }
    id, err := pathNumber(c, "id")
    if err != nil {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid reservation id"})
    }
    detail, err := h.Reservations.GetDetailByID(c.Request().Context(), id)
    if err != nil {
        if errors.Is(err, repository.ErrReservationNotFound) {
            return c.JSON(http.StatusNotFound, echo.Map{"error": "reservation not found"})
        }
        return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
    }
    return c.JSON(http.StatusOK, echo.Map{"item": detail})
}

// Delete handles DELETE /v1/reservations/:id.  A missing id is reported as
// 404, never swallowed.
func (h *ReservationHandler) Delete(c echo.Context) error {
    if _, err := getUserID(c); err != nil {
        return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
    }
    id, err := pathNumber(c, "id")
    if err != nil {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid reservation id"})
    }
    if err := h.Reservations.Delete(c.Request().Context(), id); err != nil {
        if errors.Is(err, repository.ErrReservationNotFound) {
            return c.JSON(http.StatusNotFound, echo.Map{"error": "reservation not found"})
        }
        return c.JSON(http.StatusInternalServerError, echo.Map{"error": "delete failed"})
    }
    return c.NoContent(http.StatusNoContent)
}

// List handles GET /v1/reservations with ?page and ?limit.  Pages follow a
// stable total order so repeated reads do not shuffle rows.
func (h *ReservationHandler) List(c echo.Context) error {
    if _, err := getUserID(c); err != nil {
        return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
    }
    page, _ := strconv.Atoi(c.QueryParam("page"))
    limit, _ := strconv.Atoi(c.QueryParam("limit"))
    if page < 1 {
        page = 1
    }
    if limit < 1 {
        limit = 10
    }
    items, err := h.Reservations.ListPage(c.Request().Context(), page, limit)
    if err != nil {
        return c.JSON(http.StatusInternalServerError, echo.Map{"error": "list reservations failed"})
    }
    return c.JSON(http.StatusOK, echo.Map{"items": items, "page": page, "limit": limit})
}

// ListByCatway handles GET /v1/catways/:number/reservations.
func (h *ReservationHandler) ListByCatway(c echo.Context) error {
    if _, err := getUserID(c); err != nil {
        return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
    }
    number, err := pathNumber(c, "number")
    if err != nil {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid catway number"})
    }
    if _, err := h.Catways.GetByNumber(c.Request().Context(), number); err != nil {
        if errors.Is(err, repository.ErrCatwayNotFound) {
            return c.JSON(http.StatusNotFound, echo.Map{"error": "catway not found"})
        }
        return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
    }
    items, err := h.Reservations.ListByCatway(c.Request().Context(), number)
    if err != nil {
        return c.JSON(http.StatusInternalServerError, echo.Map{"error": "list reservations failed"})
    }
    return c.JSON(http.StatusOK, echo.Map{"items": items})
}

// ListMine handles GET /v1/my-reservations.
func (h *ReservationHandler) ListMine(c echo.Context) error {
    userID, err := getUserID(c)
    if err != nil {
        return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
    }
    items, err := h.Reservations.ListByUser(c.Request().Context(), userID)
    if err != nil {
        return c.JSON(http.StatusInternalServerError, echo.Map{"error": "list reservations failed"})
    }
    return c.JSON(http.StatusOK, echo.Map{"items": items})
}
