package services

import (
	"context"
	"errors"
	"strings"
	"unicode/utf8"

	"go.uber.org/zap"

	"github.com/sbilibin2017/auth-gateway/internal/models"
	"github.com/sbilibin2017/auth-gateway/internal/repositories"
)

// Error variables
var (
	ErrEmailTaken = errors.New("email already registered")
	// ErrInvalidCredentials covers both unknown email and wrong password,
	// so a caller cannot tell which part failed.
	ErrInvalidCredentials = errors.New("invalid email or password")
)

// ValidationError aggregates every failing registration rule. All rules
// are evaluated; nothing short-circuits, so one submission can surface
// several messages at once.
type ValidationError struct {
	Messages []string
}

func (e *ValidationError) Error() string {
	return strings.Join(e.Messages, "; ")
}

// UserReader defines read-only operations for users.
type UserReader interface {
	GetByEmail(ctx context.Context, email string) (*models.UserDB, error)
	GetByID(ctx context.Context, id int64) (*models.UserDB, error)
}

// UserWriter defines write operations for users.
type UserWriter interface {
	Save(ctx context.Context, fullName, email, passwordHash string) (*models.UserDB, error)
}

// PasswordHasher hashes and verifies passwords.
type PasswordHasher interface {
	Hash(password string) (string, error)
	Verify(hash, password string) bool
}

// AuthService handles registration, login and user lookup.
type AuthService struct {
	reader UserReader
	writer UserWriter
	hasher PasswordHasher
	log    *zap.SugaredLogger
}

// NewAuthService creates a new AuthService instance.
func NewAuthService(reader UserReader, writer UserWriter, hasher PasswordHasher, log *zap.SugaredLogger) *AuthService {
	return &AuthService{
		reader: reader,
		writer: writer,
		hasher: hasher,
		log:    log,
	}
}

// NormalizeEmail lower-cases and trims an email for lookup and storage.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// Register validates the submitted form, hashes the password and creates
// the user. Validation failures come back as a *ValidationError carrying
// every message. The duplicate pre-check feeds the aggregated messages;
// the store's unique constraint stays authoritative, so a registration
// that loses a race still fails with ErrEmailTaken.
func (svc *AuthService) Register(ctx context.Context, fullName, email, password, confirm string) error {
	fullName = strings.TrimSpace(fullName)
	email = NormalizeEmail(email)

	var messages []string
	if utf8.RuneCountInString(fullName) < 2 {
		messages = append(messages, "Full name must be at least 2 characters.")
	}
	if !strings.Contains(email, "@") || !strings.Contains(email, ".") {
		messages = append(messages, "Please enter a valid email address.")
	}
	if utf8.RuneCountInString(password) < 6 {
		messages = append(messages, "Password must be at least 6 characters.")
	}
	if password != confirm {
		messages = append(messages, "Passwords do not match.")
	}

	existing, err := svc.reader.GetByEmail(ctx, email)
	if err != nil {
		svc.log.Errorw("failed to check user exists", "err", err)
		return err
	}
	if existing != nil {
		messages = append(messages, "Email already registered. Please log in.")
	}

	if len(messages) > 0 {
		return &ValidationError{Messages: messages}
	}

	passwordHash, err := svc.hasher.Hash(password)
	if err != nil {
		svc.log.Errorw("failed to hash password", "err", err)
		return err
	}

	if _, err := svc.writer.Save(ctx, fullName, email, passwordHash); err != nil {
		if errors.Is(err, repositories.ErrEmailTaken) {
			svc.log.Infow("registration lost duplicate race", "email", email)
			return ErrEmailTaken
		}
		svc.log.Errorw("failed to save user", "err", err)
		return err
	}

	return nil
}

// Login authenticates a user by email and password and returns the user
// record. Unknown email and wrong password are indistinguishable to the
// caller.
func (svc *AuthService) Login(ctx context.Context, email, password string) (*models.UserDB, error) {
	email = NormalizeEmail(email)

	user, err := svc.reader.GetByEmail(ctx, email)
	if err != nil {
		svc.log.Errorw("failed to get user", "err", err)
		return nil, err
	}
	if user == nil {
		svc.log.Infow("login for unknown email", "email", email)
		return nil, ErrInvalidCredentials
	}

	if !svc.hasher.Verify(user.PasswordHash, password) {
		svc.log.Infow("invalid credentials", "email", email)
		return nil, ErrInvalidCredentials
	}

	return user, nil
}

// GetUser returns the user bound to a resolved session, or nil if the
// record no longer exists.
func (svc *AuthService) GetUser(ctx context.Context, id int64) (*models.UserDB, error) {
	return svc.reader.GetByID(ctx, id)
}
