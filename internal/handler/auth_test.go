package handler

import (
    "encoding/json"
    "net/http"
    "net/http/httptest"
    "strings"
    "testing"

    "github.com/DATA-DOG/go-sqlmock"
    "github.com/labstack/echo/v4"
    "github.com/stretchr/testify/assert"
    "github.com/stretchr/testify/require"
    "golang.org/x/crypto/bcrypt"

    "github.com/portgermain/marina-api/internal/config"
    "github.com/portgermain/marina-api/internal/repository"
    "github.com/portgermain/marina-api/internal/utils"
)

func newAuthTestHandler(t *testing.T) (*AuthHandler, sqlmock.Sqlmock) {
    t.Helper()
    db, mock, err := sqlmock.New()
    require.NoError(t, err)
    t.Cleanup(func() { db.Close() })

    cfg := config.Config{
        JWTSecret:      "test-secret",
        AccessTTLMin:   15,
        RefreshTTLDays: 30,
        BcryptCost:     bcrypt.MinCost,
    }
    return NewAuthHandler(cfg, repository.NewUserRepo(db), repository.NewTokenRepo(db)), mock
}

func postJSON(e *echo.Echo, body string) (echo.Context, *httptest.ResponseRecorder) {
    req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(body))
    req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
    rec := httptest.NewRecorder()
    return e.NewContext(req, rec), rec
}

func TestRegister_Success(t *testing.T) {
    h, mock := newAuthTestHandler(t)

    mock.ExpectExec(`INSERT INTO users`).
        WithArgs("alice", "alice@port.example", sqlmock.AnyArg(), "USER").
        WillReturnResult(sqlmock.NewResult(5, 1))
    mock.ExpectExec(`INSERT INTO refresh_tokens`).
        WillReturnResult(sqlmock.NewResult(1, 1))

    c, rec := postJSON(echo.New(), `{"username":"alice","email":"Alice@Port.Example","password":"barnacle"}`)
    require.NoError(t, h.Register(c))
    assert.Equal(t, http.StatusCreated, rec.Code)

    var resp struct {
        User map[string]interface{} `json:"user"`
        Access struct {
            Token string `json:"token"`
        } `json:"access"`
        Refresh struct {
            Token string `json:"token"`
        } `json:"refresh"`
    }
    require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
    assert.EqualValues(t, 5, resp.User["id"])
    assert.Equal(t, "alice@port.example", resp.User["email"])
    assert.NotEmpty(t, resp.Access.Token)
    assert.NotEmpty(t, resp.Refresh.Token)

    // the session projection never carries credential material
    assert.NotContains(t, resp.User, "password")
    assert.NotContains(t, resp.User, "password_hash")
    assert.NotContains(t, rec.Body.String(), "barnacle")

    assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRegister_DuplicateEmail(t *testing.T) {
    h, mock := newAuthTestHandler(t)

    mock.ExpectExec(`INSERT INTO users`).
        WillReturnError(assert.AnError)

    c, rec := postJSON(echo.New(), `{"username":"alice","email":"alice@port.example","password":"barnacle"}`)
    require.NoError(t, h.Register(c))
    assert.Equal(t, http.StatusInternalServerError, rec.Code)

    h2, mock2 := newAuthTestHandler(t)
    mock2.ExpectExec(`INSERT INTO users`).
        WillReturnError(errDuplicate())
    c2, rec2 := postJSON(echo.New(), `{"username":"alice","email":"alice@port.example","password":"barnacle"}`)
    require.NoError(t, h2.Register(c2))
    assert.Equal(t, http.StatusConflict, rec2.Code)
}

func TestRegister_MissingFields(t *testing.T) {
    h, mock := newAuthTestHandler(t)

    c, rec := postJSON(echo.New(), `{"username":"alice"}`)
    require.NoError(t, h.Register(c))
    assert.Equal(t, http.StatusBadRequest, rec.Code)
    assert.NoError(t, mock.ExpectationsWereMet())
}

func TestLogin_UnknownEmail(t *testing.T) {
    h, mock := newAuthTestHandler(t)

    mock.ExpectQuery(`SELECT id, username, email, password_hash`).
        WithArgs("ghost@port.example").
        WillReturnRows(emptyUserRows())

    c, rec := postJSON(echo.New(), `{"email":"ghost@port.example","password":"whatever"}`)
    require.NoError(t, h.Login(c))
    assert.Equal(t, http.StatusNotFound, rec.Code)
    assert.NoError(t, mock.ExpectationsWereMet())
}

func TestLogin_WrongPassword(t *testing.T) {
    h, mock := newAuthTestHandler(t)

    hash, err := utils.HashPassword("right-password", bcrypt.MinCost)
    require.NoError(t, err)
    mock.ExpectQuery(`SELECT id, username, email, password_hash`).
        WithArgs("alice@port.example").
        WillReturnRows(oneUserRow(5, "alice", "alice@port.example", hash, "USER"))

    c, rec := postJSON(echo.New(), `{"email":"alice@port.example","password":"wrong-password"}`)
    require.NoError(t, h.Login(c))
    assert.Equal(t, http.StatusUnauthorized, rec.Code)
    assert.NoError(t, mock.ExpectationsWereMet())
}

func TestLogin_Success(t *testing.T) {
    h, mock := newAuthTestHandler(t)

    hash, err := utils.HashPassword("right-password", bcrypt.MinCost)
    require.NoError(t, err)
    mock.ExpectQuery(`SELECT id, username, email, password_hash`).
        WithArgs("alice@port.example").
        WillReturnRows(oneUserRow(5, "alice", "alice@port.example", hash, "ADMIN"))
    mock.ExpectExec(`INSERT INTO refresh_tokens`).
        WillReturnResult(sqlmock.NewResult(1, 1))

    c, rec := postJSON(echo.New(), `{"email":"alice@port.example","password":"right-password"}`)
    require.NoError(t, h.Login(c))
    assert.Equal(t, http.StatusOK, rec.Code)
    assert.NotContains(t, rec.Body.String(), hash)
    assert.NotContains(t, rec.Body.String(), "right-password")
    assert.NoError(t, mock.ExpectationsWereMet())
}
