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

func TestCachePayloadCodec(t *testing.T) {
    hdr := http.Header{}
    hdr.Set("Content-Type", "application/json")
    body := []byte(`{"items":[]}`)

    payload, err := encodePayload(http.StatusOK, hdr, body)
    require.NoError(t, err)

    status, gotHdr, gotBody, ok := decodePayload(payload)
    require.True(t, ok)
    assert.Equal(t, http.StatusOK, status)
    assert.Equal(t, "application/json", gotHdr.Get("Content-Type"))
    assert.Equal(t, body, gotBody)
}

func TestCachePayloadCodec_Truncated(t *testing.T) {
    _, _, _, ok := decodePayload([]byte{0, 0})
    assert.False(t, ok)

    // header length pointing past the buffer
    _, _, _, ok = decodePayload([]byte{0, 0, 0, 200, 0, 0, 0, 99})
    assert.False(t, ok)
}

func TestCacheKeyFrom_Strategies(t *testing.T) {
    e := echo.New()
    newCtx := func() echo.Context {
        req := httptest.NewRequest(http.MethodGet, "/v1/catways?page=2", nil)
        c := e.NewContext(req, httptest.NewRecorder())
        c.SetPath("/v1/catways")
        return c
    }

    base := config.CacheConfig{Prefix: "marina:cache", KeyStrategy: "route_query"}
    withQuery := cacheKeyFrom(base, newCtx())

    routeOnly := base
    routeOnly.KeyStrategy = "route"
    withoutQuery := cacheKeyFrom(routeOnly, newCtx())

    assert.NotEqual(t, withQuery, withoutQuery)
    assert.Contains(t, withQuery, "marina:cache:")

    // same request, same strategy: the key is stable
    assert.Equal(t, withQuery, cacheKeyFrom(base, newCtx()))
}

func TestRedisCache_DisabledIsPassThrough(t *testing.T) {
    mw := NewRedisCache(config.CacheConfig{Enabled: false}, nil)

    e := echo.New()
    req := httptest.NewRequest(http.MethodGet, "/v1/catways", nil)
    rec := httptest.NewRecorder()
    c := e.NewContext(req, rec)

    handler := mw(func(c echo.Context) error {
        return c.String(http.StatusOK, "direct")
    })
    require.NoError(t, handler(c))
    assert.Equal(t, http.StatusOK, rec.Code)
    assert.Equal(t, "direct", rec.Body.String())
    assert.Empty(t, rec.Header().Get("X-Cache"))
}
