package handler

import (
    "net/http"
    "time"

    "github.com/labstack/echo/v4"

    "github.com/portgermain/marina-api/internal/model"
    "github.com/portgermain/marina-api/internal/repository"
)

// ImportHandler implements the bulk-load maintenance endpoints.  Each import
// replaces the entire target collection with the uploaded records inside a
// single transaction: destructive, last-write-wins, ADMIN only, and never
// meant to run against live traffic.
type ImportHandler struct {
    Catways      *repository.CatwayRepo
    Reservations *repository.ReservationRepo
}

func NewImportHandler(cat *repository.CatwayRepo, res *repository.ReservationRepo) *ImportHandler {
    if cat == nil || res == nil {
        panic("nil repository passed to NewImportHandler")
    }
    return &ImportHandler{Catways: cat, Reservations: res}
}

type importCatwayRecord struct {
    CatwayNumber uint64 `json:"catwayNumber"`
    CatwayType   string `json:"catwayType"`
    CatwayState  string `json:"catwayState"`
}

type importReservationRecord struct {
    CatwayNumber uint64    `json:"catwayNumber"`
    ClientName   string    `json:"clientName"`
    BoatName     string    `json:"boatName"`
    StartDate    time.Time `json:"startDate"`
    EndDate      time.Time `json:"endDate"`
    UserID       uint64    `json:"user_id"`
}

// ImportCatways handles PUT /v1/catways/import with a JSON array body.
func (h *ImportHandler) ImportCatways(c echo.Context) error {
    var records []importCatwayRecord
    if err := c.Bind(&records); err != nil {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
    }
    if len(records) == 0 {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "no records to import"})
    }
    catways := make([]model.Catway, 0, len(records))
    seen := make(map[uint64]struct{}, len(records))
    for _, rec := range records {
        if rec.CatwayNumber == 0 || !model.ValidCatwayType(rec.CatwayType) || rec.CatwayState == "" {
            return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid catway record"})
        }
        if _, dup := seen[rec.CatwayNumber]; dup {
            return c.JSON(http.StatusBadRequest, echo.Map{"error": "duplicate catway number in import"})
        }
        seen[rec.CatwayNumber] = struct{}{}
        catways = append(catways, model.Catway{
            CatwayNumber: rec.CatwayNumber,
            CatwayType:   rec.CatwayType,
            CatwayState:  rec.CatwayState,
        })
    }
    n, err := h.Catways.ReplaceAll(c.Request().Context(), catways)
    if err != nil {
        return c.JSON(http.StatusInternalServerError, echo.Map{"error": "import failed"})
    }
    return c.JSON(http.StatusOK, echo.Map{"imported": n})
}

// ImportReservations handles PUT /v1/reservations/import with a JSON array
// body.  Records are loaded as-is; the import path applies no overlap
// checking, matching its replace-the-world semantics.
func (h *ImportHandler) ImportReservations(c echo.Context) error {
    var records []importReservationRecord
    if err := c.Bind(&records); err != nil {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
    }
    if len(records) == 0 {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "no records to import"})
    }
    reservations := make([]model.Reservation, 0, len(records))
    for _, rec := range records {
        if rec.CatwayNumber == 0 || rec.ClientName == "" || rec.BoatName == "" || rec.UserID == 0 {
            return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid reservation record"})
        }
        if !rec.StartDate.Before(rec.EndDate) {
            return c.JSON(http.StatusBadRequest, echo.Map{"error": "startDate must be before endDate"})
        }
        reservations = append(reservations, model.Reservation{
            CatwayNumber: rec.CatwayNumber,
            ClientName:   rec.ClientName,
            BoatName:     rec.BoatName,
            StartDate:    rec.StartDate,
            EndDate:      rec.EndDate,
            UserID:       rec.UserID,
        })
    }
    n, err := h.Reservations.ReplaceAll(c.Request().Context(), reservations)
    if err != nil {
        return c.JSON(http.StatusInternalServerError, echo.Map{"error": "import failed"})
    }
    return c.JSON(http.StatusOK, echo.Map{"imported": n})
}
