package record

import (
	"context"
	"errors"

	"github.com/google/uuid"

	"github.com/physiocare/physiocare/internal/platform/apperr"
	"github.com/physiocare/physiocare/internal/platform/db"
)

type Service struct {
	repo Repository
}

func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

// Create opens the medical record for a patient. Each patient gets at
// most one.
func (s *Service) Create(ctx context.Context, patientID uuid.UUID, medicalRecord string) (*Record, error) {
	rec := &Record{PatientID: patientID, MedicalRecord: medicalRecord}
	if err := rec.Validate(); err != nil {
		return nil, err
	}
	if err := s.repo.Create(ctx, rec); err != nil {
		return nil, translateUnique(err)
	}
	return rec, nil
}

func (s *Service) Get(ctx context.Context, id uuid.UUID) (*Record, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *Service) GetByPatient(ctx context.Context, patientID uuid.UUID) (*Record, error) {
	return s.repo.GetByPatient(ctx, patientID)
}

func (s *Service) List(ctx context.Context, surname string, limit, offset int) ([]*Record, int, error) {
	return s.repo.List(ctx, surname, limit, offset)
}

func (s *Service) Update(ctx context.Context, id uuid.UUID, medicalRecord string) (*Record, error) {
	rec, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	rec.MedicalRecord = medicalRecord
	if err := rec.Validate(); err != nil {
		return nil, err
	}
	if err := s.repo.Update(ctx, rec); err != nil {
		return nil, err
	}
	return rec, nil
}

func (s *Service) Delete(ctx context.Context, id uuid.UUID) error {
	return s.repo.Delete(ctx, id)
}

// AddAppointment appends a visit entry to an existing record.
func (s *Service) AddAppointment(ctx context.Context, recordID uuid.UUID, a *Appointment) (*Record, error) {
	rec, err := s.repo.GetByID(ctx, recordID)
	if err != nil {
		return nil, err
	}
	a.RecordID = rec.ID
	if err := a.Validate(); err != nil {
		return nil, err
	}
	if err := s.repo.AddAppointment(ctx, a); err != nil {
		if errors.Is(err, apperr.ErrNotFound) {
			return nil, apperr.ErrNotFound
		}
		return nil, err
	}
	rec.Appointments = append(rec.Appointments, a)
	return rec, nil
}

func translateUnique(err error) error {
	if uv := db.AsUniqueViolation(err); uv != nil && uv.Constraint == "record_patient_id_key" {
		return apperr.FieldErrors{"patient": "Patient already has a record."}
	}
	return err
}
