package account

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"golang.org/x/crypto/bcrypt"

	"github.com/physiocare/physiocare/internal/platform/apperr"
	"github.com/physiocare/physiocare/internal/platform/auth"
	"github.com/physiocare/physiocare/internal/platform/db"
)

// ErrInvalidCredentials is returned by Authenticate for an unknown
// login or a wrong password. Callers map it to 401 without revealing
// which of the two failed.
var ErrInvalidCredentials = errors.New("incorrect login")

type Service struct {
	repo   Repository
	secret []byte
	ttl    time.Duration
	log    zerolog.Logger
}

func NewService(repo Repository, secret []byte, ttl time.Duration, log zerolog.Logger) *Service {
	return &Service{repo: repo, secret: secret, ttl: ttl, log: log}
}

// Authenticate checks the credentials and returns a signed token.
func (s *Service) Authenticate(ctx context.Context, login, password string) (string, error) {
	a, err := s.repo.GetByLogin(ctx, login)
	if err != nil {
		if errors.Is(err, apperr.ErrNotFound) {
			return "", ErrInvalidCredentials
		}
		return "", err
	}
	if bcrypt.CompareHashAndPassword([]byte(a.PasswordHash), []byte(password)) != nil {
		return "", ErrInvalidCredentials
	}
	return auth.Issue(a.ID, a.Login, a.Role, s.secret, s.ttl)
}

// Provision creates an account and then invokes create with the new
// account id so the caller can persist the entity that shares it. The
// two writes are strictly ordered; if the entity write fails the
// account is deleted again so no orphan credentials remain.
func (s *Service) Provision(ctx context.Context, login, password, role string, create func(ctx context.Context, id uuid.UUID) error) (uuid.UUID, error) {
	if fields := validateCredentials(login, password); len(fields) > 0 {
		return uuid.Nil, fields
	}
	if !ValidRole(role) {
		return uuid.Nil, apperr.FieldErrors{"role": "Invalid role."}
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return uuid.Nil, err
	}

	a := &Account{ID: uuid.New(), Login: login, PasswordHash: string(hash), Role: role}
	if err := s.repo.Create(ctx, a); err != nil {
		return uuid.Nil, translateUnique(err)
	}

	if err := create(ctx, a.ID); err != nil {
		if delErr := s.repo.Delete(ctx, a.ID); delErr != nil {
			s.log.Error().Err(delErr).
				Str("account_id", a.ID.String()).
				Msg("failed to roll back account after entity create failure")
		}
		return uuid.Nil, err
	}
	return a.ID, nil
}

// Create persists a standalone account, used for seeding admins.
func (s *Service) Create(ctx context.Context, login, password, role string) (*Account, error) {
	if fields := validateCredentials(login, password); len(fields) > 0 {
		return nil, fields
	}
	if !ValidRole(role) {
		return nil, apperr.FieldErrors{"role": "Invalid role."}
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}
	a := &Account{ID: uuid.New(), Login: login, PasswordHash: string(hash), Role: role}
	if err := s.repo.Create(ctx, a); err != nil {
		return nil, translateUnique(err)
	}
	return a, nil
}

// Delete removes an account by id.
func (s *Service) Delete(ctx context.Context, id uuid.UUID) error {
	return s.repo.Delete(ctx, id)
}

func validateCredentials(login, password string) apperr.FieldErrors {
	fields := apperr.FieldErrors{}
	if len(login) < 4 {
		fields["login"] = "Login must be at least 4 characters long."
	}
	if len(password) < 8 {
		fields["password"] = "Password must be at least 8 characters long."
	}
	if len(fields) == 0 {
		return nil
	}
	return fields
}

func translateUnique(err error) error {
	if uv := db.AsUniqueViolation(err); uv != nil && uv.Constraint == "account_login_key" {
		return apperr.FieldErrors{"login": "Login must be unique."}
	}
	return err
}
