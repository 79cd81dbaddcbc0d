package physio

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/physiocare/physiocare/internal/platform/apperr"
	"github.com/physiocare/physiocare/internal/platform/db"
)

// AccountProvisioner creates and removes the login account that backs
// each physio.
type AccountProvisioner interface {
	Provision(ctx context.Context, login, password, role string, create func(ctx context.Context, id uuid.UUID) error) (uuid.UUID, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

// ImageRemover deletes stored profile images.
type ImageRemover interface {
	Remove(name string) error
}

type Service struct {
	repo     Repository
	accounts AccountProvisioner
	images   ImageRemover
	log      zerolog.Logger
}

func NewService(repo Repository, accounts AccountProvisioner, images ImageRemover, log zerolog.Logger) *Service {
	return &Service{repo: repo, accounts: accounts, images: images, log: log}
}

// RegisterInput carries everything needed to create a physio together
// with its login account.
type RegisterInput struct {
	Login         string
	Password      string
	Name          string
	Surname       string
	Specialty     string
	LicenseNumber string
	Image         string
}

// Register creates the account first and then the physio under the
// same id. A failed physio write rolls the account back.
func (s *Service) Register(ctx context.Context, in RegisterInput) (*Physio, error) {
	p := &Physio{
		Name:          in.Name,
		Surname:       in.Surname,
		Specialty:     in.Specialty,
		LicenseNumber: in.LicenseNumber,
		Image:         in.Image,
	}
	if err := p.Validate(); err != nil {
		return nil, err
	}

	id, err := s.accounts.Provision(ctx, in.Login, in.Password, "physio",
		func(ctx context.Context, id uuid.UUID) error {
			p.ID = id
			return s.repo.Create(ctx, p)
		})
	if err != nil {
		return nil, translateUnique(err)
	}
	p.ID = id
	return p, nil
}

func (s *Service) Get(ctx context.Context, id uuid.UUID) (*Physio, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *Service) List(ctx context.Context, specialty string, limit, offset int) ([]*Physio, int, error) {
	return s.repo.List(ctx, specialty, limit, offset)
}

// UpdateInput carries the mutable fields. An empty Image keeps the
// existing one.
type UpdateInput struct {
	Name          string
	Surname       string
	Specialty     string
	LicenseNumber string
	Image         string
}

func (s *Service) Update(ctx context.Context, id uuid.UUID, in UpdateInput) (*Physio, error) {
	p, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	oldImage := p.Image
	p.Name = in.Name
	p.Surname = in.Surname
	p.Specialty = in.Specialty
	p.LicenseNumber = in.LicenseNumber
	if in.Image != "" {
		p.Image = in.Image
	}

	if err := p.Validate(); err != nil {
		return nil, err
	}
	if err := s.repo.Update(ctx, p); err != nil {
		return nil, translateUnique(err)
	}

	if in.Image != "" && oldImage != "" && oldImage != in.Image {
		if err := s.images.Remove(oldImage); err != nil {
			s.log.Warn().Err(err).Str("image", oldImage).Msg("failed to remove replaced physio image")
		}
	}
	return p, nil
}

// Delete removes the physio, its account, and its stored image.
func (s *Service) Delete(ctx context.Context, id uuid.UUID) error {
	p, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}
	if err := s.accounts.Delete(ctx, id); err != nil && !errors.Is(err, apperr.ErrNotFound) {
		s.log.Error().Err(err).Str("physio_id", id.String()).Msg("failed to delete physio account")
	}
	if p.Image != "" {
		if err := s.images.Remove(p.Image); err != nil {
			s.log.Warn().Err(err).Str("image", p.Image).Msg("failed to remove physio image")
		}
	}
	return nil
}

func translateUnique(err error) error {
	if uv := db.AsUniqueViolation(err); uv != nil && uv.Constraint == "physio_license_number_key" {
		return apperr.FieldErrors{"licenseNumber": "License number must be unique."}
	}
	return err
}
