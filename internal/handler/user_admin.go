package handler

import (
    "errors"
    "net/http"

    "github.com/labstack/echo/v4"

    "github.com/portgermain/marina-api/internal/config"
    "github.com/portgermain/marina-api/internal/repository"
)

// UserAdminHandler exposes account administration.  All routes require the
// ADMIN role.  Responses only ever contain the public account projection.
type UserAdminHandler struct {
    Cfg   config.Config
    Users *repository.UserRepo
}

func NewUserAdminHandler(cfg config.Config, u *repository.UserRepo) *UserAdminHandler {
    if u == nil {
        panic("nil repository passed to NewUserAdminHandler")
    }
    return &UserAdminHandler{Cfg: cfg, Users: u}
}

type updateUserReq struct {
    Username *string `json:"username"`
    Email    *string `json:"email"`
    Password *string `json:"password"`
}

// List handles GET /v1/users.
func (h *UserAdminHandler) List(c echo.Context) error {
    users, err := h.Users.List(c.Request().Context())
    if err != nil {
        return c.JSON(http.StatusInternalServerError, echo.Map{"error": "list users failed"})
    }
    return c.JSON(http.StatusOK, echo.Map{"items": users})
}

// Get handles GET /v1/users/:email.
func (h *UserAdminHandler) Get(c echo.Context) error {
    email := c.Param("email")
    u, err := h.Users.GetByEmail(c.Request().Context(), email)
    if err != nil {
        if errors.Is(err, repository.ErrUserNotFound) {
            return c.JSON(http.StatusNotFound, echo.Map{"error": "user not found"})
        }
        return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
    }
    return c.JSON(http.StatusOK, echo.Map{"user": u.Profile()})
}

// Update handles PUT /v1/users/:email.  A supplied password is re-hashed;
// the stored hash is never echoed back.
func (h *UserAdminHandler) Update(c echo.Context) error {
    email := c.Param("email")
    var req updateUserReq
    if err := c.Bind(&req); err != nil {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
    }
    upd := repository.UserUpdate{Username: req.Username, Email: req.Email, Password: req.Password}
    u, err := h.Users.UpdateByEmail(c.Request().Context(), email, upd, h.Cfg.BcryptCost)
    if err != nil {
        switch {
        case errors.Is(err, repository.ErrUserNotFound):
            return c.JSON(http.StatusNotFound, echo.Map{"error": "user not found"})
        case errors.Is(err, repository.ErrEmailExists):
            return c.JSON(http.StatusConflict, echo.Map{"error": "email already exists"})
        default:
            return c.JSON(http.StatusInternalServerError, echo.Map{"error": "update failed"})
        }
    }
    return c.JSON(http.StatusOK, echo.Map{"user": u.Profile()})
}

// Delete handles DELETE /v1/users/:email.  Accounts that still own
// reservations cannot be removed.
func (h *UserAdminHandler) Delete(c echo.Context) error {
    email := c.Param("email")
    err := h.Users.DeleteByEmail(c.Request().Context(), email)
    if err != nil {
        switch {
        case errors.Is(err, repository.ErrUserNotFound):
            return c.JSON(http.StatusNotFound, echo.Map{"error": "user not found"})
        case errors.Is(err, repository.ErrConflict):
            return c.JSON(http.StatusConflict, echo.Map{"error": "user still owns reservations"})
        default:
            return c.JSON(http.StatusInternalServerError, echo.Map{"error": "delete failed"})
        }
    }
    return c.NoContent(http.StatusNoContent)
}
