package handler

import (
    "errors"
    "strconv"

    "github.com/labstack/echo/v4"
)

// dbTimeout bounds the duration of a single handler's database work.
const dbTimeoutSeconds = 5

// getUserID extracts the authenticated user's ID from the echo context.
// JWT numeric claims arrive as float64; older tokens may carry strings.
func getUserID(c echo.Context) (uint64, error) {
    switch t := c.Get("user_id").(type) {
    case uint64:
        return t, nil
    case int:
        return uint64(t), nil
    case int64:
        return uint64(t), nil
    case float64:
        return uint64(t), nil
    case string:
        if n, err := strconv.ParseUint(t, 10, 64); err == nil {
            return n, nil
        }
    }
    return 0, errors.New("invalid user_id in context")
}

// pathNumber parses a numeric path parameter, rejecting zero.
func pathNumber(c echo.Context, name string) (uint64, error) {
    n, err := strconv.ParseUint(c.Param(name), 10, 64)
    if err != nil || n == 0 {
        return 0, errors.New("invalid " + name)
    }
    return n, nil
}
