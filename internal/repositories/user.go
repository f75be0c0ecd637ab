package repositories

import (
	"context"
	"database/sql"
	"errors"
	"strings"

	"github.com/jmoiron/sqlx"
	"go.uber.org/zap"

	"github.com/sbilibin2017/auth-gateway/internal/models"
)

// ErrEmailTaken is returned when an insert hits the unique email
// constraint. The constraint, not the pre-check in the service layer, is
// the authoritative duplicate signal: two concurrent registrations with
// the same email can both pass the pre-check, but only one insert wins.
var ErrEmailTaken = errors.New("email already registered")

// UserReadRepository reads user records.
type UserReadRepository struct {
	db  *sqlx.DB
	log *zap.SugaredLogger
}

func NewUserReadRepository(db *sqlx.DB, log *zap.SugaredLogger) *UserReadRepository {
	return &UserReadRepository{db: db, log: log}
}

// GetByEmail returns the user with the given email, or nil if absent.
// The caller is expected to normalize the email before lookup.
func (r *UserReadRepository) GetByEmail(ctx context.Context, email string) (*models.UserDB, error) {
	const query = `
		SELECT user_id, full_name, email, password_hash, created_at
		FROM users
		WHERE email = $1
	`

	var user models.UserDB
	err := r.db.GetContext(ctx, &user, query, email)

	r.log.Debugw("user lookup",
		"query", strings.Join(strings.Fields(query), " "),
		"email", email,
		"error", err,
	)

	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &user, nil
}

// GetByID returns the user with the given id, or nil if absent.
func (r *UserReadRepository) GetByID(ctx context.Context, id int64) (*models.UserDB, error) {
	const query = `
		SELECT user_id, full_name, email, password_hash, created_at
		FROM users
		WHERE user_id = $1
	`

	var user models.UserDB
	err := r.db.GetContext(ctx, &user, query, id)

	r.log.Debugw("user lookup",
		"query", strings.Join(strings.Fields(query), " "),
		"user_id", id,
		"error", err,
	)

	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &user, nil
}

// UserWriteRepository creates user records.
type UserWriteRepository struct {
	db  *sqlx.DB
	log *zap.SugaredLogger
}

func NewUserWriteRepository(db *sqlx.DB, log *zap.SugaredLogger) *UserWriteRepository {
	return &UserWriteRepository{db: db, log: log}
}

// Save inserts a new user and returns the stored record with its
// store-assigned id. ON CONFLICT DO NOTHING makes the duplicate check
// race-safe: when the email is already taken no row comes back and
// ErrEmailTaken is returned.
func (r *UserWriteRepository) Save(ctx context.Context, fullName, email, passwordHash string) (*models.UserDB, error) {
	const query = `
		INSERT INTO users (full_name, email, password_hash)
		VALUES ($1, $2, $3)
		ON CONFLICT (email) DO NOTHING
		RETURNING user_id, full_name, email, password_hash, created_at
	`

	var user models.UserDB
	err := r.db.GetContext(ctx, &user, query, fullName, email, passwordHash)

	r.log.Debugw("user insert",
		"query", strings.Join(strings.Fields(query), " "),
		"email", email,
		"error", err,
	)

	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrEmailTaken
	}
	if err != nil {
		return nil, err
	}
	return &user, nil
}
