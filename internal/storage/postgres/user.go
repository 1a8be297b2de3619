package postgres

import (
	"context"

	"github.com/go-faster/errors"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/altruria/farmstore/internal/domain/user"
)

const userColumns = `id, username, email, password_hash, first_name, last_name, is_admin, mobile, address, created_at`

var _ user.Repository = (*UserRepository)(nil)

// UserRepository implements user.Repository backed by PostgreSQL.
type UserRepository struct {
	pool *pgxpool.Pool
}

// NewUserRepository returns a UserRepository that uses the given pool.
func NewUserRepository(pool *pgxpool.Pool) *UserRepository {
	return &UserRepository{pool: pool}
}

// Create inserts a new account. A duplicate email surfaces as
// user.ErrEmailTaken.
func (r *UserRepository) Create(ctx context.Context, u *user.User) error {
	err := r.pool.QueryRow(ctx, `
		INSERT INTO users (id, username, email, password_hash, first_name, last_name, is_admin, mobile, address)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		RETURNING created_at`,
		u.ID, u.Username, u.Email, u.PasswordHash, u.FirstName, u.LastName, u.IsAdmin, u.Mobile, u.Address,
	).Scan(&u.CreatedAt)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
			return user.ErrEmailTaken
		}
		return errors.Wrapf(err, "creating user %q", u.Email)
	}
	return nil
}

// Upsert inserts an account or overwrites it by email. Used by the seed
// tool to provision the admin account idempotently.
func (r *UserRepository) Upsert(ctx context.Context, u *user.User) error {
	err := r.pool.QueryRow(ctx, `
		INSERT INTO users (id, username, email, password_hash, first_name, last_name, is_admin, mobile, address)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		ON CONFLICT (email) DO UPDATE
		SET username = EXCLUDED.username, password_hash = EXCLUDED.password_hash,
		    is_admin = EXCLUDED.is_admin
		RETURNING id, created_at`,
		u.ID, u.Username, u.Email, u.PasswordHash, u.FirstName, u.LastName, u.IsAdmin, u.Mobile, u.Address,
	).Scan(&u.ID, &u.CreatedAt)
	if err != nil {
		return errors.Wrapf(err, "upserting user %q", u.Email)
	}
	return nil
}

// GetByID returns one account by id.
func (r *UserRepository) GetByID(ctx context.Context, id string) (*user.User, error) {
	return r.getBy(ctx, `id`, id)
}

// GetByEmail returns one account by email.
func (r *UserRepository) GetByEmail(ctx context.Context, email string) (*user.User, error) {
	return r.getBy(ctx, `email`, email)
}

func (r *UserRepository) getBy(ctx context.Context, column, value string) (*user.User, error) {
	rows, err := r.pool.Query(ctx, `SELECT `+userColumns+` FROM users WHERE `+column+` = $1`, value)
	if err != nil {
		return nil, errors.Wrapf(err, "getting user by %s", column)
	}

	u, err := pgx.CollectExactlyOneRow(rows, scanUser)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, user.ErrNotFound
		}
		return nil, errors.Wrapf(err, "getting user by %s", column)
	}
	return &u, nil
}

// Update applies the non-nil profile fields and returns the stored account.
func (r *UserRepository) Update(ctx context.Context, id string, p user.UpdateProfile) (*user.User, error) {
	rows, err := r.pool.Query(ctx, `
		UPDATE users SET
			username   = COALESCE($2, username),
			first_name = COALESCE($3, first_name),
			last_name  = COALESCE($4, last_name),
			mobile     = COALESCE($5, mobile),
			address    = COALESCE($6, address)
		WHERE id = $1
		RETURNING `+userColumns,
		id, p.Username, p.FirstName, p.LastName, p.Mobile, p.Address)
	if err != nil {
		return nil, errors.Wrapf(err, "updating user %q", id)
	}

	u, err := pgx.CollectExactlyOneRow(rows, scanUser)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, user.ErrNotFound
		}
		return nil, errors.Wrapf(err, "updating user %q", id)
	}
	return &u, nil
}

func scanUser(row pgx.CollectableRow) (user.User, error) {
	var u user.User
	err := row.Scan(
		&u.ID, &u.Username, &u.Email, &u.PasswordHash, &u.FirstName,
		&u.LastName, &u.IsAdmin, &u.Mobile, &u.Address, &u.CreatedAt,
	)
	return u, err
}
