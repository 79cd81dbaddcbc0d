package record

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/physiocare/physiocare/internal/platform/apperr"
	"github.com/physiocare/physiocare/internal/platform/db"
)

// -- Mock Repository --

type mockRepo struct {
	records  map[uuid.UUID]*Record
	surnames map[uuid.UUID]string
}

func newMockRepo() *mockRepo {
	return &mockRepo{
		records:  make(map[uuid.UUID]*Record),
		surnames: make(map[uuid.UUID]string),
	}
}

func (m *mockRepo) Create(_ context.Context, r *Record) error {
	for _, existing := range m.records {
		if existing.PatientID == r.PatientID {
			return &db.UniqueViolation{Constraint: "record_patient_id_key"}
		}
	}
	r.ID = uuid.New()
	r.CreatedAt = time.Now()
	r.UpdatedAt = time.Now()
	r.Appointments = []*Appointment{}
	m.records[r.ID] = r
	return nil
}

func (m *mockRepo) GetByID(_ context.Context, id uuid.UUID) (*Record, error) {
	r, ok := m.records[id]
	if !ok {
		return nil, apperr.ErrNotFound
	}
	return r, nil
}

func (m *mockRepo) GetByPatient(_ context.Context, patientID uuid.UUID) (*Record, error) {
	for _, r := range m.records {
		if r.PatientID == patientID {
			return r, nil
		}
	}
	return nil, apperr.ErrNotFound
}

func (m *mockRepo) List(_ context.Context, surname string, limit, offset int) ([]*Record, int, error) {
	var result []*Record
	for _, r := range m.records {
		if strings.Contains(strings.ToLower(m.surnames[r.PatientID]), strings.ToLower(surname)) {
			result = append(result, r)
		}
	}
	return result, len(result), nil
}

func (m *mockRepo) Update(_ context.Context, r *Record) error {
	if _, ok := m.records[r.ID]; !ok {
		return apperr.ErrNotFound
	}
	m.records[r.ID] = r
	return nil
}

func (m *mockRepo) Delete(_ context.Context, id uuid.UUID) error {
	if _, ok := m.records[id]; !ok {
		return apperr.ErrNotFound
	}
	delete(m.records, id)
	return nil
}

func (m *mockRepo) AddAppointment(_ context.Context, a *Appointment) error {
	if _, ok := m.records[a.RecordID]; !ok {
		return apperr.ErrNotFound
	}
	a.ID = uuid.New()
	a.CreatedAt = time.Now()
	return nil
}

func validAppointment() *Appointment {
	return &Appointment{
		Date:      time.Date(2026, 3, 14, 10, 0, 0, 0, time.UTC),
		PhysioID:  uuid.New(),
		Diagnosis: "Chronic lower back pain radiating to the left leg",
		Treatment: "Manual therapy twice a week",
	}
}

// -- Tests --

func TestCreate_OneRecordPerPatient(t *testing.T) {
	repo := newMockRepo()
	svc := NewService(repo)

	patientID := uuid.New()
	if _, err := svc.Create(context.Background(), patientID, "initial notes"); err != nil {
		t.Fatalf("create: %v", err)
	}

	_, err := svc.Create(context.Background(), patientID, "second record")
	fields := apperr.AsFieldErrors(err)
	if fields == nil {
		t.Fatalf("expected field errors, got %v", err)
	}
	if fields["patient"] != "Patient already has a record." {
		t.Errorf("unexpected message %q", fields["patient"])
	}
}

func TestCreate_ValidatesLength(t *testing.T) {
	svc := NewService(newMockRepo())

	_, err := svc.Create(context.Background(), uuid.New(), strings.Repeat("x", 1001))
	fields := apperr.AsFieldErrors(err)
	if fields == nil {
		t.Fatalf("expected field errors, got %v", err)
	}
	if fields["medicalRecord"] == "" {
		t.Error("expected medicalRecord field error")
	}
}

func TestAddAppointment_AppendsInOrder(t *testing.T) {
	repo := newMockRepo()
	svc := NewService(repo)

	rec, err := svc.Create(context.Background(), uuid.New(), "")
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	first := validAppointment()
	if _, err := svc.AddAppointment(context.Background(), rec.ID, first); err != nil {
		t.Fatalf("first appointment: %v", err)
	}
	second := validAppointment()
	second.Diagnosis = "Post-surgical knee rehabilitation, week three"
	updated, err := svc.AddAppointment(context.Background(), rec.ID, second)
	if err != nil {
		t.Fatalf("second appointment: %v", err)
	}

	if len(updated.Appointments) != 2 {
		t.Fatalf("expected 2 appointments, got %d", len(updated.Appointments))
	}
	if updated.Appointments[0].ID != first.ID || updated.Appointments[1].ID != second.ID {
		t.Error("appointments out of insertion order")
	}
}

func TestAddAppointment_MissingRecord(t *testing.T) {
	svc := NewService(newMockRepo())

	_, err := svc.AddAppointment(context.Background(), uuid.New(), validAppointment())
	if !errors.Is(err, apperr.ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}

func TestAddAppointment_Validation(t *testing.T) {
	repo := newMockRepo()
	svc := NewService(repo)

	rec, err := svc.Create(context.Background(), uuid.New(), "")
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	a := validAppointment()
	a.Diagnosis = "too short"
	a.Treatment = ""
	_, err = svc.AddAppointment(context.Background(), rec.ID, a)

	fields := apperr.AsFieldErrors(err)
	if fields == nil {
		t.Fatalf("expected field errors, got %v", err)
	}
	if fields["diagnosis"] == "" || fields["treatment"] == "" {
		t.Errorf("expected diagnosis and treatment errors, got %v", fields)
	}
	if len(repo.records[rec.ID].Appointments) != 0 {
		t.Error("invalid appointment must not be persisted")
	}
}

func TestList_FiltersByPatientSurname(t *testing.T) {
	repo := newMockRepo()
	svc := NewService(repo)

	smith := uuid.New()
	jones := uuid.New()
	repo.surnames[smith] = "Smith"
	repo.surnames[jones] = "Jones"
	svc.Create(context.Background(), smith, "")
	svc.Create(context.Background(), jones, "")

	records, total, err := svc.List(context.Background(), "smi", 20, 0)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if total != 1 || len(records) != 1 {
		t.Fatalf("expected one match, got %d", total)
	}
	if records[0].PatientID != smith {
		t.Error("unexpected record matched")
	}
}

func TestUpdate_ReplacesMedicalRecord(t *testing.T) {
	svc := NewService(newMockRepo())

	rec, err := svc.Create(context.Background(), uuid.New(), "before")
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	updated, err := svc.Update(context.Background(), rec.ID, "after")
	if err != nil {
		t.Fatalf("update: %v", err)
	}
	if updated.MedicalRecord != "after" {
		t.Errorf("expected updated text, got %q", updated.MedicalRecord)
	}
}
