package middleware

import (
    "net/http"
    "net/http/httptest"
    "testing"

    "github.com/labstack/echo/v4"
    "github.com/stretchr/testify/assert"
    "github.com/stretchr/testify/require"

    "github.com/portgermain/marina-api/internal/config"
)

func rateCtx(setup func(c echo.Context)) echo.Context {
    e := echo.New()
    req := httptest.NewRequest(http.MethodGet, "/v1/reservations", nil)
    c := e.NewContext(req, httptest.NewRecorder())
    c.SetPath("/v1/reservations")
    if setup != nil {
        setup(c)
    }
    return c
}

func TestBuildRateKey_UsesContextIdentity(t *testing.T) {
    cfg := config.RateLimitConfig{Prefix: "rl", KeyStrategy: "ip_user_route"}

    // authenticated caller: the key carries the user id set by JWTAuth
    authed := buildRateKey(cfg, rateCtx(func(c echo.Context) {
        c.Set("user_id", uint64(42))
    }))
    assert.Contains(t, authed, ":user:42:")

    // no identity in context: anonymous bucket
    anon := buildRateKey(cfg, rateCtx(nil))
    assert.Contains(t, anon, ":user:anon:")
    assert.NotEqual(t, authed, anon)
}

func TestBuildRateKey_Strategies(t *testing.T) {
    ipOnly := config.RateLimitConfig{Prefix: "rl", KeyStrategy: "ip"}
    key := buildRateKey(ipOnly, rateCtx(func(c echo.Context) {
        c.Set("user_id", uint64(42))
    }))
    assert.NotContains(t, key, "user")
    assert.NotContains(t, key, "route")

    perRoute := config.RateLimitConfig{Prefix: "rl", KeyStrategy: "route"}
    key = buildRateKey(perRoute, rateCtx(nil))
    assert.Contains(t, key, "GET /v1/reservations")
}

func TestTokenBucket_DisabledIsPassThrough(t *testing.T) {
    mw := NewTokenBucket(config.RateLimitConfig{Enabled: false}, nil)

    c := rateCtx(nil)
    handler := mw(func(c echo.Context) error {
        return c.String(http.StatusOK, "through")
    })
    require.NoError(t, handler(c))
    assert.Equal(t, http.StatusOK, c.Response().Status)
}
