// Package patient manages patient demographics and their linked
// login accounts.
package patient

import (
	"regexp"
	"time"

	"github.com/google/uuid"

	"github.com/physiocare/physiocare/internal/platform/apperr"
)

// Patient shares its id with the account that owns it.
type Patient struct {
	ID              uuid.UUID `json:"id"`
	Name            string    `json:"name"`
	Surname         string    `json:"surname"`
	BirthDate       time.Time `json:"birthDate"`
	Address         string    `json:"address,omitempty"`
	InsuranceNumber string    `json:"insuranceNumber"`
	Image           string    `json:"image,omitempty"`
	CreatedAt       time.Time `json:"created_at"`
	UpdatedAt       time.Time `json:"updated_at"`
}

var insuranceNumberRe = regexp.MustCompile(`^[a-zA-Z0-9]{9}$`)

// Validate checks the demographic fields and returns per-field messages.
func (p *Patient) Validate() error {
	fields := apperr.FieldErrors{}
	if len(p.Name) < 2 || len(p.Name) > 50 {
		fields["name"] = "Name must be between 2 and 50 characters long."
	}
	if len(p.Surname) < 2 || len(p.Surname) > 50 {
		fields["surname"] = "Surname must be between 2 and 50 characters long."
	}
	if p.BirthDate.IsZero() {
		fields["birthDate"] = "Birth date is required."
	}
	if len(p.Address) > 100 {
		fields["address"] = "Address must be at most 100 characters long."
	}
	if !insuranceNumberRe.MatchString(p.InsuranceNumber) {
		fields["insuranceNumber"] = "Insurance number must be 9 alphanumeric characters."
	}
	if len(fields) > 0 {
		return fields
	}
	return nil
}
