package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"chatbot-admin/internal/logging"
	"chatbot-admin/internal/models"
	"chatbot-admin/internal/store"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"
)

// Compile-time check to ensure PostgresStore implements store.Store
var _ store.Store = (*PostgresStore)(nil)

type PostgresStore struct {
	db     *pgxpool.Pool
	logger zerolog.Logger
}

func NewPostgresStore(db *pgxpool.Pool) *PostgresStore {
	return &PostgresStore{
		db:     db,
		logger: logging.NewLogger("postgres-store"),
	}
}

// rowScanner is satisfied by both pgx.Row and pgx.Rows.
type rowScanner interface {
	Scan(dest ...any) error
}

// mapError translates driver errors into store sentinels.
func mapError(err error, what string) error {
	if errors.Is(err, pgx.ErrNoRows) {
		return store.ErrNotFound
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch pgErr.Code {
		case "23505": // unique_violation
			return fmt.Errorf("%w: %s", store.ErrConflict, pgErr.ConstraintName)
		case "23503": // foreign_key_violation
			return fmt.Errorf("%w: %s", store.ErrForeignKey, pgErr.ConstraintName)
		}
	}
	return fmt.Errorf("database error %s: %w", what, err)
}

const userColumns = `id, email, hashed_password, email_verified_at, created_at, updated_at`

func scanUser(row rowScanner) (*models.User, error) {
	u := &models.User{}
	err := row.Scan(
		&u.ID,
		&u.Email,
		&u.HashedPassword,
		&u.EmailVerifiedAt,
		&u.CreatedAt,
		&u.UpdatedAt,
	)
	return u, err
}

const createUserQuery = `-- name: CreateUser :one
INSERT INTO users (id, email, hashed_password)
VALUES ($1, $2, $3)
RETURNING ` + userColumns

// CreateUser inserts a new user. A duplicate email yields store.ErrConflict.
func (s *PostgresStore) CreateUser(ctx context.Context, arg store.CreateUserParams) (*models.User, error) {
	u, err := scanUser(s.db.QueryRow(ctx, createUserQuery, arg.ID, arg.Email, arg.HashedPassword))
	if err != nil {
		return nil, mapError(err, "creating user")
	}
	s.logger.Debug().Int64("user_id", u.ID).Msg("user created")
	return u, nil
}

const getUserByEmailQuery = `-- name: GetUserByEmail :one
SELECT ` + userColumns + `
FROM users
WHERE email = $1`

// GetUserByEmail retrieves a user by their email address.
func (s *PostgresStore) GetUserByEmail(ctx context.Context, email string) (*models.User, error) {
	u, err := scanUser(s.db.QueryRow(ctx, getUserByEmailQuery, email))
	if err != nil {
		return nil, mapError(err, "fetching user by email")
	}
	return u, nil
}

const getUserByIDQuery = `-- name: GetUserByID :one
SELECT ` + userColumns + `
FROM users
WHERE id = $1`

func (s *PostgresStore) GetUserByID(ctx context.Context, id int64) (*models.User, error) {
	u, err := scanUser(s.db.QueryRow(ctx, getUserByIDQuery, id))
	if err != nil {
		return nil, mapError(err, "fetching user")
	}
	return u, nil
}

const markUserVerifiedQuery = `-- name: MarkUserVerified :one
UPDATE users
SET email_verified_at = COALESCE(email_verified_at, $2), updated_at = NOW()
WHERE id = $1
RETURNING ` + userColumns

// MarkUserVerified sets email_verified_at unless it is already set.
func (s *PostgresStore) MarkUserVerified(ctx context.Context, id int64, at time.Time) (*models.User, error) {
	u, err := scanUser(s.db.QueryRow(ctx, markUserVerifiedQuery, id, at))
	if err != nil {
		return nil, mapError(err, "verifying user")
	}
	return u, nil
}
