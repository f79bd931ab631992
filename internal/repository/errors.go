// Package repository implements data access for catways, reservations and
// accounts on top of database/sql.  Sentinel errors defined here and next to
// their repositories let handlers translate failure modes into HTTP status
// codes without inspecting driver errors.
package repository

import "errors"

// ErrInvalidRange is returned when a reservation's start date is not
// strictly before its end date.  Detected before any row is written.
var ErrInvalidRange = errors.New("start date must be before end date")

// ErrUnknownCatway is returned when a reservation references a catway number
// that does not exist in the registry.
var ErrUnknownCatway = errors.New("unknown catway")

// ErrOverlap is returned when a reservation's [start,end) range intersects
// an existing reservation on the same catway.  Handlers translate it into
// an HTTP 409 response.
var ErrOverlap = errors.New("catway already reserved for this period")

// ErrConflict is returned when a delete cannot proceed because dependent
// records still reference the row, such as removing a catway that has
// reservations.  Handlers translate it into an HTTP 409 response.
var ErrConflict = errors.New("conflict")
