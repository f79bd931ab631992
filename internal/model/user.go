package model

import "time"

// Role values stored in users.role.  ADMIN manages catways, accounts and
// bulk imports; USER books reservations.
const (
    RoleAdmin = "ADMIN"
    RoleUser  = "USER"
)

// User represents an account record from the `users` table.  The password
// hash never leaves the repository/handler boundary: responses use the
// Profile projection instead.
//
// Fields:
//  ID           – primary key identifier of the user.
//  Username     – display name.
//  Email        – unique email address, the public identity of the account.
//  PasswordHash – bcrypt hashed password.
//  Role         – ADMIN or USER.
//  CreatedAt    – timestamp of creation.
//  UpdatedAt    – timestamp of last update.
type User struct {
    ID           uint64
    Username     string
    Email        string
    PasswordHash string
    Role         string
    CreatedAt    time.Time
    UpdatedAt    time.Time
}

// Profile is the minimal public view of an account projected into session
// contexts and API responses.  It deliberately has no password field.
type Profile struct {
    ID       uint64 `json:"id"`
    Username string `json:"username"`
    Email    string `json:"email"`
}

// Profile returns the public projection of the user.
func (u User) Profile() Profile {
    return Profile{ID: u.ID, Username: u.Username, Email: u.Email}
}

// RefreshToken models a row of the `refresh_tokens` table.  Only the
// SHA-256 digest of the raw token is stored.
//
// Fields:
//  ID        – primary key identifier.
//  UserID    – owner of the token.
//  TokenHash – SHA-256 hex digest of the token value.
//  ExpiresAt – expiration timestamp.
//  RevokedAt – when the token was revoked (null while active).
//  CreatedAt – timestamp of creation.
type RefreshToken struct {
    ID        uint64
    UserID    uint64
    TokenHash string
    ExpiresAt time.Time
    RevokedAt *time.Time
    CreatedAt time.Time
}
