package utils // package utils provides helpers for token creation and hashing

import (
    "crypto/rand"   // secure random bytes for refresh tokens
    "crypto/sha256" // SHA-256 hashing of refresh tokens
    "encoding/hex"  // hex encoding of digests and random bytes
    "time"          // expiration arithmetic

    "github.com/golang-jwt/jwt/v5" // JWT library for signed access tokens
)

// AccessToken is a signed HS256 JWT together with its expiry.  Access tokens
// are short-lived and travel in the Authorization header of protected calls.
type AccessToken struct {
    Token string    // serialized JWT string
    Exp   time.Time // UTC expiration time
}

// RefreshToken is the long-lived counterpart used to obtain new access
// tokens.  Raw goes back to the client; the database keeps only the SHA-256
// digest of it.
type RefreshToken struct {
    Raw string    // raw token string returned to the client
    Exp time.Time // UTC expiration time
}

// NewAccessToken signs an HS256 JWT carrying the user ID as subject and the
// user's role.  ttlMin is the lifetime in minutes.  Claims are the standard
// sub/exp/iat plus a role claim the middleware uses for authorization.
func NewAccessToken(secret string, userID uint64, role string, ttlMin int) (AccessToken, error) {
    now := time.Now().UTC()
    exp := now.Add(time.Duration(ttlMin) * time.Minute)
    claims := jwt.MapClaims{
        "sub":  userID,
        "role": role,
        "exp":  exp.Unix(),
        "iat":  now.Unix(),
    }
    t := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
    signed, err := t.SignedString([]byte(secret))
    if err != nil {
        return AccessToken{}, err
    }
    return AccessToken{Token: signed, Exp: exp}, nil
}

// NewRefreshToken returns a cryptographically random token and its expiry,
// ttlDays in the future.
func NewRefreshToken(ttlDays int) (RefreshToken, error) {
    raw, err := randomHex(48) // 48 bytes -> 96 hex chars
    if err != nil {
        return RefreshToken{}, err
    }
    return RefreshToken{
        Raw: raw,
        Exp: time.Now().UTC().Add(time.Duration(ttlDays) * 24 * time.Hour),
    }, nil
}

// HashRefreshRaw returns the hex SHA-256 of a raw refresh token.  Storing
// only the digest keeps stolen database rows from refreshing sessions.
func HashRefreshRaw(raw string) string {
    sum := sha256.Sum256([]byte(raw))
    return hex.EncodeToString(sum[:])
}

func randomHex(n int) (string, error) {
    buf := make([]byte, n)
    if _, err := rand.Read(buf); err != nil {
        return "", err
    }
    return hex.EncodeToString(buf), nil
}
