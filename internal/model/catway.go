package model

import "time"

// Catway type values.  A catway is either a short or a long mooring slot;
// the registry rejects anything else at creation time.
const (
    CatwayTypeShort = "short"
    CatwayTypeLong  = "long"
)

// Catway represents a mooring slot of the marina as stored in the `catways`
// table.  The catway number is the public identity used throughout the API;
// the numeric ID is only the surrogate primary key.  After creation only
// the state may change.
//
// Fields:
//  ID           – primary key identifier.
//  CatwayNumber – unique public number of the slot.
//  CatwayType   – size category, "short" or "long".
//  CatwayState  – free-text availability/condition descriptor.
//  CreatedAt    – timestamp of creation.
//  UpdatedAt    – timestamp of last update.
type Catway struct {
    ID           uint64    `json:"id"`
    CatwayNumber uint64    `json:"catwayNumber"`
    CatwayType   string    `json:"catwayType"`
    CatwayState  string    `json:"catwayState"`
    CreatedAt    time.Time `json:"created_at"`
    UpdatedAt    time.Time `json:"updated_at"`
}

// ValidCatwayType reports whether t is one of the accepted size categories.
func ValidCatwayType(t string) bool {
    return t == CatwayTypeShort || t == CatwayTypeLong
}
