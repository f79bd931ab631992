package model

import "time"

// Reservation records a client's booking of a catway for a date range.
// Date ranges are half-open [StartDate, EndDate): a reservation ending on a
// given day does not collide with one starting that same day.  Reference is
// a generated UUID handed to clients; the numeric ID stays internal.
//
// Fields:
//  ID           – primary key identifier.
//  Reference    – public UUID of the reservation.
//  CatwayNumber – number of the booked catway.
//  ClientName   – name of the client the booking is for.
//  BoatName     – name of the moored boat.
//  StartDate    – first day of the booking (inclusive).
//  EndDate      – day the catway becomes free again (exclusive).
//  UserID       – account that created the reservation.
//  CreatedAt    – creation timestamp.
//  UpdatedAt    – last update timestamp.
type Reservation struct {
    ID           uint64    `json:"id"`
    Reference    string    `json:"reference"`
    CatwayNumber uint64    `json:"catwayNumber"`
    ClientName   string    `json:"clientName"`
    BoatName     string    `json:"boatName"`
    StartDate    time.Time `json:"startDate"`
    EndDate      time.Time `json:"endDate"`
    UserID       uint64    `json:"user_id"`
    CreatedAt    time.Time `json:"created_at"`
    UpdatedAt    time.Time `json:"updated_at"`
}

// CurrentAt reports whether the reservation is in progress at the given
// instant.  Display-only derivation, nothing is persisted.
func (r Reservation) CurrentAt(now time.Time) bool {
    return !now.Before(r.StartDate) && now.Before(r.EndDate)
}
