package repository

import (
    "context"
    "database/sql"
    "errors"
    "strings"

    "github.com/portgermain/marina-api/internal/model"
)

// ErrCatwayNotFound is returned when a catway lookup by number fails.
var ErrCatwayNotFound = errors.New("catway not found")

// ErrCatwayExists is returned when creating a catway whose number is
// already registered.
var ErrCatwayExists = errors.New("catway number already exists")

// CatwayRepo provides persistence for the catway registry.  All lookups are
// keyed by the public catway number, not the surrogate ID.
type CatwayRepo struct {
    db *sql.DB
}

// NewCatwayRepo constructs a CatwayRepo bound to the given DB handle.
func NewCatwayRepo(db *sql.DB) *CatwayRepo { return &CatwayRepo{db: db} }

// DB exposes the underlying handle so handlers can open transactions that
// span repositories.
func (r *CatwayRepo) DB() *sql.DB { return r.db }

const catwayCols = "id, catway_number, catway_type, catway_state, created_at, updated_at"

func scanCatway(row *sql.Row) (*model.Catway, error) {
    var c model.Catway
    err := row.Scan(&c.ID, &c.CatwayNumber, &c.CatwayType, &c.CatwayState, &c.CreatedAt, &c.UpdatedAt)
    if err != nil {
        if errors.Is(err, sql.ErrNoRows) {
            return nil, ErrCatwayNotFound
        }
        return nil, err
    }
    return &c, nil
}

// Create inserts a new catway and returns the stored record.  The catway
// number is unique; a duplicate insert returns ErrCatwayExists.
func (r *CatwayRepo) Create(ctx context.Context, number uint64, catwayType, state string) (*model.Catway, error) {
    _, err := r.db.ExecContext(ctx,
        "INSERT INTO catways (catway_number, catway_type, catway_state) VALUES (?,?,?)",
        number, catwayType, state)
    if err != nil {
        // MySQL error 1062: duplicate entry for a unique key.
        if strings.Contains(strings.ToLower(err.Error()), "1062") {
            return nil, ErrCatwayExists
        }
        return nil, err
    }
    return r.GetByNumber(ctx, number)
}

// GetByNumber fetches a catway by its public number.
func (r *CatwayRepo) GetByNumber(ctx context.Context, number uint64) (*model.Catway, error) {
    row := r.db.QueryRowContext(ctx,
        "SELECT "+catwayCols+" FROM catways WHERE catway_number=? LIMIT 1", number)
    return scanCatway(row)
}

// List returns all catways ordered by number.
func (r *CatwayRepo) List(ctx context.Context) ([]model.Catway, error) {
    rows, err := r.db.QueryContext(ctx,
        "SELECT "+catwayCols+" FROM catways ORDER BY catway_number")
    if err != nil {
        return nil, err
    }
    defer rows.Close()

    out := make([]model.Catway, 0)
    for rows.Next() {
        var c model.Catway
        if err := rows.Scan(&c.ID, &c.CatwayNumber, &c.CatwayType, &c.CatwayState, &c.CreatedAt, &c.UpdatedAt); err != nil {
            return nil, err
        }
        out = append(out, c)
    }
    if err := rows.Err(); err != nil {
        return nil, err
    }
    return out, nil
}

// UpdateState changes the state descriptor of a catway.  Number and type are
// immutable after creation; this is the only mutation path.  Returns
// ErrCatwayNotFound when no row matches.
func (r *CatwayRepo) UpdateState(ctx context.Context, number uint64, state string) (*model.Catway, error) {
    res, err := r.db.ExecContext(ctx,
        "UPDATE catways SET catway_state=?, updated_at=CURRENT_TIMESTAMP WHERE catway_number=?",
        state, number)
    if err != nil {
        return nil, err
    }
    if n, _ := res.RowsAffected(); n == 0 {
        // RowsAffected is also 0 when the state did not change; re-check
        // existence before reporting not found.
        if _, err := r.GetByNumber(ctx, number); err != nil {
            return nil, err
        }
    }
    return r.GetByNumber(ctx, number)
}

// DeleteByNumber removes a catway.  Deletion is denied with ErrConflict
// while reservations still reference the catway, so the ledger never holds
// dangling catway numbers.
func (r *CatwayRepo) DeleteByNumber(ctx context.Context, number uint64) error {
    tx, err := r.db.BeginTx(ctx, nil)
    if err != nil {
        return err
    }
    committed := false
    defer func() {
        if !committed {
            _ = tx.Rollback()
        }
    }()

    var id uint64
    err = tx.QueryRowContext(ctx,
        "SELECT id FROM catways WHERE catway_number=? FOR UPDATE", number).Scan(&id)
    if err != nil {
        if errors.Is(err, sql.ErrNoRows) {
            return ErrCatwayNotFound
        }
        return err
    }

    var refs int
    err = tx.QueryRowContext(ctx,
        "SELECT COUNT(*) FROM reservations WHERE catway_number=?", number).Scan(&refs)
    if err != nil {
        return err
    }
    if refs > 0 {
        return ErrConflict
    }

    if _, err := tx.ExecContext(ctx, "DELETE FROM catways WHERE id=?", id); err != nil {
        return err
    }
    if err := tx.Commit(); err != nil {
        return err
    }
    committed = true
    return nil
}

// ReplaceAll wipes the registry and loads the given records in one
// transaction.  An empty slice still wipes the registry.  Destructive
// maintenance operation: last write wins, not meant to run against live
// traffic.
func (r *CatwayRepo) ReplaceAll(ctx context.Context, catways []model.Catway) (int, error) {
    tx, err := r.db.BeginTx(ctx, nil)
    if err != nil {
        return 0, err
    }
    committed := false
    defer func() {
        if !committed {
            _ = tx.Rollback()
        }
    }()

    if _, err := tx.ExecContext(ctx, "DELETE FROM catways"); err != nil {
        return 0, err
    }

    if len(catways) > 0 {
        query := "INSERT INTO catways (catway_number, catway_type, catway_state) VALUES "
        args := make([]interface{}, 0, len(catways)*3)
        for i, c := range catways {
            if i > 0 {
                query += ","
            }
            query += "(?,?,?)"
            args = append(args, c.CatwayNumber, c.CatwayType, c.CatwayState)
        }
        if _, err := tx.ExecContext(ctx, query, args...); err != nil {
            return 0, err
        }
    }
    if err := tx.Commit(); err != nil {
        return 0, err
    }
    committed = true
    return len(catways), nil
}
