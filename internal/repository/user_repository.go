package repository

import (
    "context"
    "database/sql"
    "errors"
    "strings"

    "github.com/portgermain/marina-api/internal/model"
    "github.com/portgermain/marina-api/internal/utils"
)

// ErrEmailExists is returned when registering an email that is already taken.
var ErrEmailExists = errors.New("email already exists")

// ErrUserNotFound is returned when an account lookup fails.
var ErrUserNotFound = errors.New("user not found")

// UserRepo provides persistence for accounts.  Emails are normalized to
// lower case before every lookup or insert so uniqueness is case
// insensitive.  Plaintext passwords never reach the database: Create and
// UpdateByEmail hash before writing.
type UserRepo struct {
    db *sql.DB
}

// NewUserRepo constructs a UserRepo with the given DB handle.
func NewUserRepo(db *sql.DB) *UserRepo { return &UserRepo{db: db} }

const userCols = "id, username, email, password_hash, role, created_at, updated_at"

func normalizeEmail(email string) string {
    return strings.ToLower(strings.TrimSpace(email))
}

func (r *UserRepo) scanOne(row *sql.Row) (*model.User, error) {
    var u model.User
    err := row.Scan(&u.ID, &u.Username, &u.Email, &u.PasswordHash, &u.Role, &u.CreatedAt, &u.UpdatedAt)
    if err != nil {
        if errors.Is(err, sql.ErrNoRows) {
            return nil, ErrUserNotFound
        }
        return nil, err
    }
    return &u, nil
}

// Create registers an account with a bcrypt-hashed password and returns its ID.
func (r *UserRepo) Create(ctx context.Context, username, email, password, role string, cost int) (uint64, error) {
    email = normalizeEmail(email)
    hash, err := utils.HashPassword(password, cost)
    if err != nil {
        return 0, err
    }
    res, err := r.db.ExecContext(ctx,
        "INSERT INTO users (username, email, password_hash, role) VALUES (?,?,?,?)",
        username, email, hash, role)
    if err != nil {
        if strings.Contains(strings.ToLower(err.Error()), "1062") {
            return 0, ErrEmailExists
        }
        return 0, err
    }
    id, err := res.LastInsertId()
    if err != nil {
        return 0, err
    }
    return uint64(id), nil
}

// GetByEmail fetches an account by normalized email.
func (r *UserRepo) GetByEmail(ctx context.Context, email string) (*model.User, error) {
    return r.scanOne(r.db.QueryRowContext(ctx,
        "SELECT "+userCols+" FROM users WHERE email=? LIMIT 1", normalizeEmail(email)))
}

// GetByID fetches an account by id.
func (r *UserRepo) GetByID(ctx context.Context, id uint64) (*model.User, error) {
    return r.scanOne(r.db.QueryRowContext(ctx,
        "SELECT "+userCols+" FROM users WHERE id=? LIMIT 1", id))
}

// List returns the public projection of every account.  Password hashes are
// not selected at all, so they cannot leak through this path.
func (r *UserRepo) List(ctx context.Context) ([]model.Profile, error) {
    rows, err := r.db.QueryContext(ctx, "SELECT id, username, email FROM users ORDER BY id")
    if err != nil {
        return nil, err
    }
    defer rows.Close()

    out := make([]model.Profile, 0)
    for rows.Next() {
        var p model.Profile
        if err := rows.Scan(&p.ID, &p.Username, &p.Email); err != nil {
            return nil, err
        }
        out = append(out, p)
    }
    if err := rows.Err(); err != nil {
        return nil, err
    }
    return out, nil
}

// UserUpdate carries the mutable account fields.  Nil pointers leave the
// stored value untouched; a non-nil Password is re-hashed before writing.
type UserUpdate struct {
    Username *string
    Email    *string
    Password *string
}

// UpdateByEmail applies profile changes to the account identified by email
// and returns the updated record.
func (r *UserRepo) UpdateByEmail(ctx context.Context, email string, upd UserUpdate, cost int) (*model.User, error) {
    u, err := r.GetByEmail(ctx, email)
    if err != nil {
        return nil, err
    }
    if upd.Username != nil {
        u.Username = *upd.Username
    }
    if upd.Email != nil {
        u.Email = normalizeEmail(*upd.Email)
    }
    if upd.Password != nil {
        hash, err := utils.HashPassword(*upd.Password, cost)
        if err != nil {
            return nil, err
        }
        u.PasswordHash = hash
    }
    _, err = r.db.ExecContext(ctx,
        "UPDATE users SET username=?, email=?, password_hash=?, updated_at=CURRENT_TIMESTAMP WHERE id=?",
        u.Username, u.Email, u.PasswordHash, u.ID)
    if err != nil {
        if strings.Contains(strings.ToLower(err.Error()), "1062") {
            return nil, ErrEmailExists
        }
        return nil, err
    }
    return r.GetByID(ctx, u.ID)
}

// DeleteByEmail removes an account.  Deletion is denied with ErrConflict
// while the account still owns reservations, mirroring the catway policy.
func (r *UserRepo) DeleteByEmail(ctx context.Context, email string) error {
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
        "SELECT id FROM users WHERE email=? FOR UPDATE", normalizeEmail(email)).Scan(&id)
    if err != nil {
        if errors.Is(err, sql.ErrNoRows) {
            return ErrUserNotFound
        }
        return err
    }

    var owned int
    if err := tx.QueryRowContext(ctx,
        "SELECT COUNT(*) FROM reservations WHERE user_id=?", id).Scan(&owned); err != nil {
        return err
    }
    if owned > 0 {
        return ErrConflict
    }

    if _, err := tx.ExecContext(ctx, "DELETE FROM users WHERE id=?", id); err != nil {
        return err
    }
    if err := tx.Commit(); err != nil {
        return err
    }
    committed = true
    return nil
}
