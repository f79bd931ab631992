package repository

import (
    "context"
    "database/sql"
    "testing"
    "time"

    "github.com/DATA-DOG/go-sqlmock"
    "github.com/stretchr/testify/assert"
    "github.com/stretchr/testify/require"
)

func tokenRows(userID uint64, expiresAt time.Time, revokedAt interface{}) *sqlmock.Rows {
    return sqlmock.NewRows([]string{"user_id", "expires_at", "revoked_at"}).
        AddRow(userID, expiresAt, revokedAt)
}

func TestValidateRefresh_Active(t *testing.T) {
    db, mock, err := sqlmock.New()
    require.NoError(t, err)
    defer db.Close()

    mock.ExpectQuery(`SELECT user_id, expires_at, revoked_at FROM refresh_tokens`).
        WithArgs("digest").
        WillReturnRows(tokenRows(42, time.Now().Add(time.Hour), nil))

    repo := NewTokenRepo(db)
    uid, err := repo.ValidateRefresh(context.Background(), "digest")
    require.NoError(t, err)
    assert.Equal(t, uint64(42), uid)
    assert.NoError(t, mock.ExpectationsWereMet())
}

func TestValidateRefresh_Revoked(t *testing.T) {
    db, mock, err := sqlmock.New()
    require.NoError(t, err)
    defer db.Close()

    mock.ExpectQuery(`SELECT user_id, expires_at, revoked_at FROM refresh_tokens`).
        WithArgs("digest").
        WillReturnRows(tokenRows(42, time.Now().Add(time.Hour), time.Now().Add(-time.Minute)))

    repo := NewTokenRepo(db)
    _, err = repo.ValidateRefresh(context.Background(), "digest")
    assert.ErrorIs(t, err, sql.ErrNoRows)
    assert.NoError(t, mock.ExpectationsWereMet())
}

func TestValidateRefresh_Expired(t *testing.T) {
    db, mock, err := sqlmock.New()
    require.NoError(t, err)
    defer db.Close()

    mock.ExpectQuery(`SELECT user_id, expires_at, revoked_at FROM refresh_tokens`).
        WithArgs("digest").
        WillReturnRows(tokenRows(42, time.Now().Add(-time.Hour), nil))

    repo := NewTokenRepo(db)
    _, err = repo.ValidateRefresh(context.Background(), "digest")
    assert.ErrorIs(t, err, sql.ErrNoRows)
    assert.NoError(t, mock.ExpectationsWereMet())
}

func TestValidateRefresh_Unknown(t *testing.T) {
    db, mock, err := sqlmock.New()
    require.NoError(t, err)
    defer db.Close()

    mock.ExpectQuery(`SELECT user_id, expires_at, revoked_at FROM refresh_tokens`).
        WithArgs("missing").
        WillReturnRows(sqlmock.NewRows([]string{"user_id", "expires_at", "revoked_at"}))

    repo := NewTokenRepo(db)
    _, err = repo.ValidateRefresh(context.Background(), "missing")
    assert.ErrorIs(t, err, sql.ErrNoRows)
    assert.NoError(t, mock.ExpectationsWereMet())
}
