package repository

import (
    "context"
    "database/sql"
    "errors"
    "time"

    "github.com/google/uuid"

    "github.com/portgermain/marina-api/internal/model"
)

// ErrReservationNotFound is returned when a reservation lookup fails.
var ErrReservationNotFound = errors.New("reservation not found")

// ReservationRepo persists reservations and enforces the booking rules: the
// start date must precede the end date, the referenced catway must exist,
// and no two reservations on one catway may overlap in time.  Writes that
// need the overlap guarantee run in a transaction holding a row lock on the
// catway, so two concurrent overlapping creates cannot both pass the check.
type ReservationRepo struct {
    db *sql.DB
}

// NewReservationRepo returns a ReservationRepo bound to the given database.
func NewReservationRepo(db *sql.DB) *ReservationRepo { return &ReservationRepo{db: db} }

// DB exposes the underlying handle for callers that coordinate with other
// repositories.
func (r *ReservationRepo) DB() *sql.DB { return r.db }

const reservationCols = "id, reference, catway_number, client_name, boat_name, start_date, end_date, user_id, created_at, updated_at"

func scanReservation(s interface {
    Scan(dest ...interface{}) error
}) (model.Reservation, error) {
    var v model.Reservation
    err := s.Scan(&v.ID, &v.Reference, &v.CatwayNumber, &v.ClientName, &v.BoatName,
        &v.StartDate, &v.EndDate, &v.UserID, &v.CreatedAt, &v.UpdatedAt)
    return v, err
}

// ReservationUpdate carries the mutable fields of a reservation.  Nil
// pointers leave the stored value untouched.
type ReservationUpdate struct {
    CatwayNumber *uint64
    ClientName   *string
    BoatName     *string
    StartDate    *time.Time
    EndDate      *time.Time
}

// lockCatway takes a row lock on the catway inside tx and reports whether
// the number resolves.  The lock serializes concurrent bookings of the same
// catway for the lifetime of the transaction.
func lockCatway(ctx context.Context, tx *sql.Tx, number uint64) error {
    var id uint64
    err := tx.QueryRowContext(ctx,
        "SELECT id FROM catways WHERE catway_number=? FOR UPDATE", number).Scan(&id)
    if errors.Is(err, sql.ErrNoRows) {
        return ErrUnknownCatway
    }
    return err
}

// overlapExists reports whether any reservation other than excludeID on the
// given catway intersects the half-open range [start, end).
func overlapExists(ctx context.Context, tx *sql.Tx, number uint64, start, end time.Time, excludeID uint64) (bool, error) {
    var n int
    err := tx.QueryRowContext(ctx,
        `SELECT COUNT(*) FROM reservations
         WHERE catway_number = ? AND id <> ? AND start_date < ? AND end_date > ?`,
        number, excludeID, end, start).Scan(&n)
    if err != nil {
        return false, err
    }
    return n > 0, nil
}

// Create validates and persists a new reservation for the given account.
// It fails with ErrInvalidRange when start >= end, ErrUnknownCatway when the
// catway number does not resolve and ErrOverlap when the range intersects an
// existing booking on the same catway.  On success the stored record, with
// its generated reference, is returned.
func (r *ReservationRepo) Create(ctx context.Context, catwayNumber uint64, clientName, boatName string, start, end time.Time, userID uint64) (*model.Reservation, error) {
    if !start.Before(end) {
        return nil, ErrInvalidRange
    }

    tx, err := r.db.BeginTx(ctx, nil)
    if err != nil {
        return nil, err
    }
    committed := false
    defer func() {
        if !committed {
            _ = tx.Rollback()
        }
    }()

    if err := lockCatway(ctx, tx, catwayNumber); err != nil {
        return nil, err
    }
    taken, err := overlapExists(ctx, tx, catwayNumber, start, end, 0)
    if err != nil {
        return nil, err
    }
    if taken {
        return nil, ErrOverlap
    }

    ref := uuid.NewString()
    res, err := tx.ExecContext(ctx,
        `INSERT INTO reservations (reference, catway_number, client_name, boat_name, start_date, end_date, user_id)
         VALUES (?,?,?,?,?,?,?)`,
        ref, catwayNumber, clientName, boatName, start.UTC(), end.UTC(), userID)
    if err != nil {
        return nil, err
    }
    id, err := res.LastInsertId()
    if err != nil {
        return nil, err
    }

    // Read the row back so timestamps and defaults are populated.
    row := tx.QueryRowContext(ctx,
        "SELECT "+reservationCols+" FROM reservations WHERE id=?", id)
    created, err := scanReservation(row)
    if err != nil {
        return nil, err
    }
    if err := tx.Commit(); err != nil {
        return nil, err
    }
    committed = true
    return &created, nil
}

// Update applies the given field changes to a reservation.  The resulting
// record is validated exactly like a fresh create, with the reservation
// itself excluded from the overlap check.  ErrReservationNotFound is
// returned when the id does not exist.
func (r *ReservationRepo) Update(ctx context.Context, id uint64, upd ReservationUpdate) (*model.Reservation, error) {
    tx, err := r.db.BeginTx(ctx, nil)
    if err != nil {
        return nil, err
    }
    committed := false
    defer func() {
        if !committed {
            _ = tx.Rollback()
        }
    }()

    row := tx.QueryRowContext(ctx,
        "SELECT "+reservationCols+" FROM reservations WHERE id=? FOR UPDATE", id)
    cur, err := scanReservation(row)
    if err != nil {
        if errors.Is(err, sql.ErrNoRows) {
            return nil, ErrReservationNotFound
        }
        return nil, err
    }

    if upd.CatwayNumber != nil {
        cur.CatwayNumber = *upd.CatwayNumber
    }
    if upd.ClientName != nil {
        cur.ClientName = *upd.ClientName
    }
    if upd.BoatName != nil {
        cur.BoatName = *upd.BoatName
    }
    if upd.StartDate != nil {
        cur.StartDate = *upd.StartDate
    }
    if upd.EndDate != nil {
        cur.EndDate = *upd.EndDate
    }

    if !cur.StartDate.Before(cur.EndDate) {
        return nil, ErrInvalidRange
    }
    if err := lockCatway(ctx, tx, cur.CatwayNumber); err != nil {
        return nil, err
    }
    taken, err := overlapExists(ctx, tx, cur.CatwayNumber, cur.StartDate, cur.EndDate, cur.ID)
    if err != nil {
        return nil, err
    }
    if taken {
        return nil, ErrOverlap
    }

    _, err = tx.ExecContext(ctx,
        `UPDATE reservations
         SET catway_number=?, client_name=?, boat_name=?, start_date=?, end_date=?, updated_at=CURRENT_TIMESTAMP
         WHERE id=?`,
        cur.CatwayNumber, cur.ClientName, cur.BoatName, cur.StartDate.UTC(), cur.EndDate.UTC(), cur.ID)
    if err != nil {
        return nil, err
    }

    row = tx.QueryRowContext(ctx,
        "SELECT "+reservationCols+" FROM reservations WHERE id=?", cur.ID)
    updated, err := scanReservation(row)
    if err != nil {
        return nil, err
    }
    if err := tx.Commit(); err != nil {
        return nil, err
    }
    committed = true
    return &updated, nil
}

// GetByID returns a reservation by its internal id.
func (r *ReservationRepo) GetByID(ctx context.Context, id uint64) (*model.Reservation, error) {
    row := r.db.QueryRowContext(ctx,
        "SELECT "+reservationCols+" FROM reservations WHERE id=? LIMIT 1", id)
    v, err := scanReservation(row)
    if err != nil {
        if errors.Is(err, sql.ErrNoRows) {
            return nil, ErrReservationNotFound
        }
        return nil, err
    }
    return &v, nil
}

// ReservationDetail is a reservation joined with its catway record, the
// equivalent of populating the catway reference for detail views.
type ReservationDetail struct {
    model.Reservation
    Catway model.Catway `json:"catway"`
}

// GetDetailByID returns a reservation together with the catway it books.
func (r *ReservationRepo) GetDetailByID(ctx context.Context, id uint64) (*ReservationDetail, error) {
    const q = `SELECT r.id, r.reference, r.catway_number, r.client_name, r.boat_name,
                      r.start_date, r.end_date, r.user_id, r.created_at, r.updated_at,
                      c.id, c.catway_number, c.catway_type, c.catway_state, c.created_at, c.updated_at
               FROM reservations r
               JOIN catways c ON c.catway_number = r.catway_number
               WHERE r.id = ?`
    var d ReservationDetail
    err := r.db.QueryRowContext(ctx, q, id).Scan(
        &d.ID, &d.Reference, &d.CatwayNumber, &d.ClientName, &d.BoatName,
        &d.StartDate, &d.EndDate, &d.UserID, &d.CreatedAt, &d.UpdatedAt,
        &d.Catway.ID, &d.Catway.CatwayNumber, &d.Catway.CatwayType, &d.Catway.CatwayState,
        &d.Catway.CreatedAt, &d.Catway.UpdatedAt,
    )
    if err != nil {
        if errors.Is(err, sql.ErrNoRows) {
            return nil, ErrReservationNotFound
        }
        return nil, err
    }
    return &d, nil
}

// Delete removes a reservation by id.  A missing id is an error, never a
// silent success.
func (r *ReservationRepo) Delete(ctx context.Context, id uint64) error {
    res, err := r.db.ExecContext(ctx, "DELETE FROM reservations WHERE id=?", id)
    if err != nil {
        return err
    }
    if n, _ := res.RowsAffected(); n == 0 {
        return ErrReservationNotFound
    }
    return nil
}

func (r *ReservationRepo) list(ctx context.Context, q string, args ...interface{}) ([]model.Reservation, error) {
    rows, err := r.db.QueryContext(ctx, q, args...)
    if err != nil {
        return nil, err
    }
    defer rows.Close()

    out := make([]model.Reservation, 0)
    for rows.Next() {
        v, err := scanReservation(rows)
        if err != nil {
            return nil, err
        }
        out = append(out, v)
    }
    if err := rows.Err(); err != nil {
        return nil, err
    }
    return out, nil
}

// ListByCatway returns all reservations booked on the given catway, ordered
// by start date.
func (r *ReservationRepo) ListByCatway(ctx context.Context, number uint64) ([]model.Reservation, error) {
    return r.list(ctx,
        "SELECT "+reservationCols+" FROM reservations WHERE catway_number=? ORDER BY start_date, id",
        number)
}

// ListByUser returns all reservations created by the given account, newest
// first.
func (r *ReservationRepo) ListByUser(ctx context.Context, userID uint64) ([]model.Reservation, error) {
    return r.list(ctx,
        "SELECT "+reservationCols+" FROM reservations WHERE user_id=? ORDER BY created_at DESC, id DESC",
        userID)
}

// ListPage returns one page of the ledger.  Ordering by (created_at, id) is
// a stable total order, so paging is deterministic even when many rows share
// a creation timestamp.
func (r *ReservationRepo) ListPage(ctx context.Context, page, limit int) ([]model.Reservation, error) {
    if page < 1 {
        page = 1
    }
    if limit < 1 {
        limit = 10
    }
    return r.list(ctx,
        "SELECT "+reservationCols+" FROM reservations ORDER BY created_at, id LIMIT ? OFFSET ?",
        limit, (page-1)*limit)
}

// ReplaceAll wipes the ledger and loads the given records in one
// transaction.  Each record gets a fresh reference.  An empty slice still
// wipes the ledger.  Destructive maintenance operation, same caveats as the
// catway import.
func (r *ReservationRepo) ReplaceAll(ctx context.Context, reservations []model.Reservation) (int, error) {
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

    if _, err := tx.ExecContext(ctx, "DELETE FROM reservations"); err != nil {
        return 0, err
    }

    if len(reservations) > 0 {
        query := `INSERT INTO reservations (reference, catway_number, client_name, boat_name, start_date, end_date, user_id) VALUES `
        args := make([]interface{}, 0, len(reservations)*7)
        for i, v := range reservations {
            if i > 0 {
                query += ","
            }
            query += "(?,?,?,?,?,?,?)"
            args = append(args, uuid.NewString(), v.CatwayNumber, v.ClientName, v.BoatName,
                v.StartDate.UTC(), v.EndDate.UTC(), v.UserID)
        }
        if _, err := tx.ExecContext(ctx, query, args...); err != nil {
            return 0, err
        }
    }
    if err := tx.Commit(); err != nil {
        return 0, err
    }
    committed = true
    return len(reservations), nil
}
