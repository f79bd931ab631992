package handler

import (
    "net/http"
    "net/http/httptest"
    "regexp"
    "strings"
    "testing"
    "time"

    "github.com/DATA-DOG/go-sqlmock"
    "github.com/labstack/echo/v4"
    "github.com/stretchr/testify/assert"
    "github.com/stretchr/testify/require"

    "github.com/portgermain/marina-api/internal/model"
    "github.com/portgermain/marina-api/internal/repository"
)

func newCatwayTestHandler(t *testing.T) (*CatwayHandler, sqlmock.Sqlmock) {
    t.Helper()
    db, mock, err := sqlmock.New()
    require.NoError(t, err)
    t.Cleanup(func() { db.Close() })
    return NewCatwayHandler(repository.NewCatwayRepo(db)), mock
}

func TestCatwayCreateHandler_InvalidType(t *testing.T) {
    h, mock := newCatwayTestHandler(t)

    c, rec := postJSON(echo.New(), `{"catwayNumber":7,"catwayType":"medium","catwayState":"ok"}`)
    require.NoError(t, h.Create(c))
    assert.Equal(t, http.StatusBadRequest, rec.Code)
    assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCatwayCreateHandler_Duplicate(t *testing.T) {
    h, mock := newCatwayTestHandler(t)

    mock.ExpectExec(`INSERT INTO catways`).
        WillReturnError(errDuplicate())

    c, rec := postJSON(echo.New(), `{"catwayNumber":7,"catwayType":"long","catwayState":"ok"}`)
    require.NoError(t, h.Create(c))
    assert.Equal(t, http.StatusConflict, rec.Code)
    assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCatwayCreateHandler_Success(t *testing.T) {
    h, mock := newCatwayTestHandler(t)

    now := time.Now().UTC()
    mock.ExpectExec(`INSERT INTO catways`).
        WithArgs(uint64(7), model.CatwayTypeLong, "bon état").
        WillReturnResult(sqlmock.NewResult(7, 1))
    mock.ExpectQuery(`SELECT id, catway_number`).
        WithArgs(uint64(7)).
        WillReturnRows(sqlmock.NewRows([]string{
            "id", "catway_number", "catway_type", "catway_state", "created_at", "updated_at",
        }).AddRow(7, 7, model.CatwayTypeLong, "bon état", now, now))

    c, rec := postJSON(echo.New(), `{"catwayNumber":7,"catwayType":"long","catwayState":"bon état"}`)
    require.NoError(t, h.Create(c))
    assert.Equal(t, http.StatusCreated, rec.Code)
    assert.Contains(t, rec.Body.String(), `"catwayNumber":7`)
    assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCatwayDeleteHandler_Referenced(t *testing.T) {
    h, mock := newCatwayTestHandler(t)

    mock.ExpectBegin()
    mock.ExpectQuery(regexp.QuoteMeta("SELECT id FROM catways WHERE catway_number=? FOR UPDATE")).
        WithArgs(uint64(7)).
        WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(7))
    mock.ExpectQuery(`SELECT COUNT\(\*\) FROM reservations`).
        WithArgs(uint64(7)).
        WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(3))
    mock.ExpectRollback()

    req := httptest.NewRequest(http.MethodDelete, "/", nil)
    rec := httptest.NewRecorder()
    c := echo.New().NewContext(req, rec)
    c.SetParamNames("number")
    c.SetParamValues("7")

    require.NoError(t, h.Delete(c))
    assert.Equal(t, http.StatusConflict, rec.Code)
    assert.NoError(t, mock.ExpectationsWereMet())
}

func TestImportCatways_RejectsDuplicateNumbers(t *testing.T) {
    db, mock, err := sqlmock.New()
    require.NoError(t, err)
    t.Cleanup(func() { db.Close() })
    h := NewImportHandler(repository.NewCatwayRepo(db), repository.NewReservationRepo(db))

    body := `[{"catwayNumber":1,"catwayType":"short","catwayState":"ok"},
              {"catwayNumber":1,"catwayType":"long","catwayState":"ok"}]`
    req := httptest.NewRequest(http.MethodPut, "/", strings.NewReader(body))
    req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
    rec := httptest.NewRecorder()
    c := echo.New().NewContext(req, rec)

    require.NoError(t, h.ImportCatways(c))
    assert.Equal(t, http.StatusBadRequest, rec.Code)
    assert.NoError(t, mock.ExpectationsWereMet())
}

func TestImportReservations_RejectsInvalidRange(t *testing.T) {
    db, mock, err := sqlmock.New()
    require.NoError(t, err)
    t.Cleanup(func() { db.Close() })
    h := NewImportHandler(repository.NewCatwayRepo(db), repository.NewReservationRepo(db))

    body := `[{"catwayNumber":1,"clientName":"Dupont","boatName":"Calypso",
               "startDate":"2024-07-05T00:00:00Z","endDate":"2024-07-01T00:00:00Z","user_id":1}]`
    req := httptest.NewRequest(http.MethodPut, "/", strings.NewReader(body))
    req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
    rec := httptest.NewRecorder()
    c := echo.New().NewContext(req, rec)

    require.NoError(t, h.ImportReservations(c))
    assert.Equal(t, http.StatusBadRequest, rec.Code)
    assert.NoError(t, mock.ExpectationsWereMet())
}

func TestImportCatways_ReplacesRegistry(t *testing.T) {
    db, mock, err := sqlmock.New()
    require.NoError(t, err)
    t.Cleanup(func() { db.Close() })
    h := NewImportHandler(repository.NewCatwayRepo(db), repository.NewReservationRepo(db))

    mock.ExpectBegin()
    mock.ExpectExec(`DELETE FROM catways`).
        WillReturnResult(sqlmock.NewResult(0, 5))
    mock.ExpectExec(`INSERT INTO catways`).
        WillReturnResult(sqlmock.NewResult(2, 2))
    mock.ExpectCommit()

    body := `[{"catwayNumber":1,"catwayType":"short","catwayState":"ok"},
              {"catwayNumber":2,"catwayType":"long","catwayState":"ok"}]`
    req := httptest.NewRequest(http.MethodPut, "/", strings.NewReader(body))
    req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
    rec := httptest.NewRecorder()
    c := echo.New().NewContext(req, rec)

    require.NoError(t, h.ImportCatways(c))
    assert.Equal(t, http.StatusOK, rec.Code)
    assert.Contains(t, rec.Body.String(), `"imported":2`)
    assert.NoError(t, mock.ExpectationsWereMet())
}
