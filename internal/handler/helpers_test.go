package handler

import (
    "errors"
    "time"

    "github.com/DATA-DOG/go-sqlmock"
)

// errDuplicate mimics the MySQL unique-key violation the repositories map
// to their *Exists sentinels.
func errDuplicate() error {
    return errors.New("Error 1062 (23000): Duplicate entry for unique key")
}

func emptyUserRows() *sqlmock.Rows {
    return sqlmock.NewRows([]string{
        "id", "username", "email", "password_hash", "role", "created_at", "updated_at",
    })
}

func oneUserRow(id uint64, username, email, hash, role string) *sqlmock.Rows {
    now := time.Now().UTC()
    return emptyUserRows().AddRow(id, username, email, hash, role, now, now)
}
