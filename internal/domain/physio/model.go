// Package physio manages physiotherapists and their linked login
// accounts.
package physio

import (
	"regexp"
	"time"

	"github.com/google/uuid"

	"github.com/physiocare/physiocare/internal/platform/apperr"
)

// Specialties a physio can practice.
const (
	SpecialtySports       = "Sports"
	SpecialtyNeurological = "Neurological"
	SpecialtyPediatric    = "Pediatric"
	SpecialtyGeriatric    = "Geriatric"
	SpecialtyOncological  = "Oncological"
)

var specialties = map[string]bool{
	SpecialtySports:       true,
	SpecialtyNeurological: true,
	SpecialtyPediatric:    true,
	SpecialtyGeriatric:    true,
	SpecialtyOncological:  true,
}

// Physio shares its id with the account that owns it.
type Physio struct {
	ID            uuid.UUID `json:"id"`
	Name          string    `json:"name"`
	Surname       string    `json:"surname"`
	Specialty     string    `json:"specialty"`
	LicenseNumber string    `json:"licenseNumber"`
	Image         string    `json:"image,omitempty"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}

var licenseNumberRe = regexp.MustCompile(`^[a-zA-Z0-9]{8}$`)

// Validate checks the professional fields and returns per-field messages.
func (p *Physio) Validate() error {
	fields := apperr.FieldErrors{}
	if len(p.Name) < 2 || len(p.Name) > 50 {
		fields["name"] = "Name must be between 2 and 50 characters long."
	}
	if len(p.Surname) < 2 || len(p.Surname) > 50 {
		fields["surname"] = "Surname must be between 2 and 50 characters long."
	}
	if !specialties[p.Specialty] {
		fields["specialty"] = "Specialty must be one of Sports, Neurological, Pediatric, Geriatric or Oncological."
	}
	if !licenseNumberRe.MatchString(p.LicenseNumber) {
		fields["licenseNumber"] = "License number must be 8 alphanumeric characters."
	}
	if len(fields) > 0 {
		return fields
	}
	return nil
}
