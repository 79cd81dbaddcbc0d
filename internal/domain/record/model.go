// Package record manages per-patient medical records and their
// appended appointment entries.
package record

import (
	"time"

	"github.com/google/uuid"

	"github.com/physiocare/physiocare/internal/platform/apperr"
)

// Record is the single medical record of a patient. Appointments are
// appended over time and never removed individually.
type Record struct {
	ID            uuid.UUID      `json:"id"`
	PatientID     uuid.UUID      `json:"patient"`
	MedicalRecord string         `json:"medicalRecord,omitempty"`
	Appointments  []*Appointment `json:"appointments"`
	CreatedAt     time.Time      `json:"created_at"`
	UpdatedAt     time.Time      `json:"updated_at"`
}

// Appointment is one visit entry inside a record.
type Appointment struct {
	ID           uuid.UUID `json:"id"`
	RecordID     uuid.UUID `json:"-"`
	Date         time.Time `json:"date"`
	PhysioID     uuid.UUID `json:"physio"`
	Diagnosis    string    `json:"diagnosis"`
	Treatment    string    `json:"treatment"`
	Observations string    `json:"observations,omitempty"`
	CreatedAt    time.Time `json:"created_at"`
}

// Validate checks the record fields and returns per-field messages.
func (r *Record) Validate() error {
	fields := apperr.FieldErrors{}
	if r.PatientID == uuid.Nil {
		fields["patient"] = "Patient is required."
	}
	if len(r.MedicalRecord) > 1000 {
		fields["medicalRecord"] = "Medical record must be at most 1000 characters long."
	}
	if len(fields) > 0 {
		return fields
	}
	return nil
}

// Validate checks the appointment fields and returns per-field messages.
func (a *Appointment) Validate() error {
	fields := apperr.FieldErrors{}
	if a.Date.IsZero() {
		fields["date"] = "Date is required."
	}
	if a.PhysioID == uuid.Nil {
		fields["physio"] = "Physio is required."
	}
	if len(a.Diagnosis) < 10 || len(a.Diagnosis) > 500 {
		fields["diagnosis"] = "Diagnosis must be between 10 and 500 characters long."
	}
	if a.Treatment == "" {
		fields["treatment"] = "Treatment is required."
	}
	if len(a.Observations) > 500 {
		fields["observations"] = "Observations must be at most 500 characters long."
	}
	if len(fields) > 0 {
		return fields
	}
	return nil
}
