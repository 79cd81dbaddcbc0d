package patient

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/physiocare/physiocare/internal/platform/apperr"
	"github.com/physiocare/physiocare/internal/platform/db"
)

// AccountProvisioner creates and removes the login account that backs
// each patient.
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

// RegisterInput carries everything needed to create a patient together
// with its login account.
type RegisterInput struct {
	Login           string
	Password        string
	Name            string
	Surname         string
	BirthDate       time.Time
	Address         string
	InsuranceNumber string
	Image           string
}

// Register creates the account first and then the patient under the
// same id. A failed patient write rolls the account back.
func (s *Service) Register(ctx context.Context, in RegisterInput) (*Patient, error) {
	p := &Patient{
		Name:            in.Name,
		Surname:         in.Surname,
		BirthDate:       in.BirthDate,
		Address:         in.Address,
		InsuranceNumber: in.InsuranceNumber,
		Image:           in.Image,
	}
	if err := p.Validate(); err != nil {
		return nil, err
	}

	id, err := s.accounts.Provision(ctx, in.Login, in.Password, "patient",
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

func (s *Service) Get(ctx context.Context, id uuid.UUID) (*Patient, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *Service) List(ctx context.Context, name, surname string, limit, offset int) ([]*Patient, int, error) {
	return s.repo.List(ctx, name, surname, limit, offset)
}

// UpdateInput carries the mutable demographic fields. An empty Image
// keeps the existing one.
type UpdateInput struct {
	Name            string
	Surname         string
	BirthDate       time.Time
	Address         string
	InsuranceNumber string
	Image           string
}

func (s *Service) Update(ctx context.Context, id uuid.UUID, in UpdateInput) (*Patient, error) {
	p, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	oldImage := p.Image
	p.Name = in.Name
	p.Surname = in.Surname
	p.BirthDate = in.BirthDate
	p.Address = in.Address
	p.InsuranceNumber = in.InsuranceNumber
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
			s.log.Warn().Err(err).Str("image", oldImage).Msg("failed to remove replaced patient image")
		}
	}
	return p, nil
}

// Delete removes the patient, its account, and its stored image. The
// medical record goes with the patient row via the schema.
func (s *Service) Delete(ctx context.Context, id uuid.UUID) error {
	p, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}
	if err := s.accounts.Delete(ctx, id); err != nil && !errors.Is(err, apperr.ErrNotFound) {
		s.log.Error().Err(err).Str("patient_id", id.String()).Msg("failed to delete patient account")
	}
	if p.Image != "" {
		if err := s.images.Remove(p.Image); err != nil {
			s.log.Warn().Err(err).Str("image", p.Image).Msg("failed to remove patient image")
		}
	}
	return nil
}

func translateUnique(err error) error {
	if uv := db.AsUniqueViolation(err); uv != nil && uv.Constraint == "patient_insurance_number_key" {
		return apperr.FieldErrors{"insuranceNumber": "Insurance number must be unique."}
	}
	return err
}
