package handler

import (
    "errors"
    "net/http"
    "time"

    "github.com/labstack/echo/v4"

    "github.com/portgermain/marina-api/internal/model"
    "github.com/portgermain/marina-api/internal/repository"
)

// DashboardHandler assembles the landing view for an authenticated user:
// their profile and their reservations, each flagged as current when the
// booking is in progress right now.  The flag is derived at read time and
// never persisted.
type DashboardHandler struct {
    Users        *repository.UserRepo
    Reservations *repository.ReservationRepo
}

func NewDashboardHandler(u *repository.UserRepo, r *repository.ReservationRepo) *DashboardHandler {
    if u == nil || r == nil {
        panic("nil repository passed to NewDashboardHandler")
    }
    return &DashboardHandler{Users: u, Reservations: r}
}

type dashboardReservation struct {
    model.Reservation
    Current bool `json:"current"`
}

// Show handles GET /v1/dashboard.
func (h *DashboardHandler) Show(c echo.Context) error {
    userID, err := getUserID(c)
    if err != nil {
        return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
    }
    ctx := c.Request().Context()

    u, err := h.Users.GetByID(ctx, userID)
    if err != nil {
        if errors.Is(err, repository.ErrUserNotFound) {
            return c.JSON(http.StatusNotFound, echo.Map{"error": "user not found"})
        }
        return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
    }

    reservations, err := h.Reservations.ListByUser(ctx, userID)
    if err != nil {
        return c.JSON(http.StatusInternalServerError, echo.Map{"error": "list reservations failed"})
    }

    now := time.Now().UTC()
    items := make([]dashboardReservation, 0, len(reservations))
    for _, r := range reservations {
        items = append(items, dashboardReservation{Reservation: r, Current: r.CurrentAt(now)})
    }
    return c.JSON(http.StatusOK, echo.Map{
        "user":         u.Profile(),
        "reservations": items,
    })
}
