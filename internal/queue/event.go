// Package queue defines message payloads exchanged over the message broker
// and the background consumer that processes them.
package queue

// ReservationConfirmedEvent is published when a catway booking is
// successfully created.  It carries enough information for downstream
// consumers to log or notify without querying the primary database.
type ReservationConfirmedEvent struct {
    Reference    string `json:"reference"`
    CatwayNumber uint64 `json:"catway_number"`
    ClientName   string `json:"client_name"`
    BoatName     string `json:"boat_name"`
    StartDate    string `json:"start_date"`
    EndDate      string `json:"end_date"`
    UserID       uint64 `json:"user_id"`
    ConfirmedAt  string `json:"confirmed_at"`
}
