package middleware

import (
    "net/http"
    "net/http/httptest"
    "testing"

    "github.com/labstack/echo/v4"
    "github.com/stretchr/testify/assert"
    "github.com/stretchr/testify/require"

    "github.com/portgermain/marina-api/internal/utils"
)

func runProtected(t *testing.T, mw echo.MiddlewareFunc, setup func(c echo.Context, req *http.Request)) *httptest.ResponseRecorder {
    t.Helper()
    e := echo.New()
    req := httptest.NewRequest(http.MethodGet, "/", nil)
    rec := httptest.NewRecorder()
    c := e.NewContext(req, rec)
    if setup != nil {
        setup(c, req)
    }
    handler := mw(func(c echo.Context) error {
        return c.String(http.StatusOK, "reached")
    })
    require.NoError(t, handler(c))
    return rec
}

func TestJWTAuth_MissingHeader(t *testing.T) {
    rec := runProtected(t, JWTAuth("test-secret"), nil)
    assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestJWTAuth_GarbageToken(t *testing.T) {
    rec := runProtected(t, JWTAuth("test-secret"), func(c echo.Context, req *http.Request) {
        req.Header.Set("Authorization", "Bearer not-a-jwt")
    })
    assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestJWTAuth_WrongSecret(t *testing.T) {
    at, err := utils.NewAccessToken("other-secret", 1, "USER", 15)
    require.NoError(t, err)

    rec := runProtected(t, JWTAuth("test-secret"), func(c echo.Context, req *http.Request) {
        req.Header.Set("Authorization", "Bearer "+at.Token)
    })
    assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestJWTAuth_ValidTokenInjectsIdentity(t *testing.T) {
    at, err := utils.NewAccessToken("test-secret", 42, "ADMIN", 15)
    require.NoError(t, err)

    e := echo.New()
    req := httptest.NewRequest(http.MethodGet, "/", nil)
    req.Header.Set("Authorization", "Bearer "+at.Token)
    rec := httptest.NewRecorder()
    c := e.NewContext(req, rec)

    handler := JWTAuth("test-secret")(func(c echo.Context) error {
        assert.EqualValues(t, 42, c.Get("user_id"))
        assert.Equal(t, "ADMIN", c.Get("role"))
        return c.NoContent(http.StatusOK)
    })
    require.NoError(t, handler(c))
    assert.Equal(t, http.StatusOK, rec.Code)
}

func TestRequireRole(t *testing.T) {
    admin := RequireRole("ADMIN")

    rec := runProtected(t, admin, func(c echo.Context, req *http.Request) {
        c.Set("role", "USER")
    })
    assert.Equal(t, http.StatusForbidden, rec.Code)

    rec = runProtected(t, admin, nil) // no role at all
    assert.Equal(t, http.StatusForbidden, rec.Code)

    rec = runProtected(t, admin, func(c echo.Context, req *http.Request) {
        c.Set("role", "ADMIN")
    })
    assert.Equal(t, http.StatusOK, rec.Code)
}
