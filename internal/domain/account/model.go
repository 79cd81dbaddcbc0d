// Package account manages login credentials and the provisioning of
// patient and physio accounts.
package account

import (
	"time"

	"github.com/google/uuid"
)

const (
	RoleAdmin   = "admin"
	RolePhysio  = "physio"
	RolePatient = "patient"
)

// Account is a set of login credentials tied to a role. For patient and
// physio accounts the id matches the id of the clinical entity.
type Account struct {
	ID           uuid.UUID `json:"id"`
	Login        string    `json:"login"`
	PasswordHash string    `json:"-"`
	Role         string    `json:"role"`
	CreatedAt    time.Time `json:"created_at"`
}

// ValidRole reports whether role is one of the known roles.
func ValidRole(role string) bool {
	switch role {
	case RoleAdmin, RolePhysio, RolePatient:
		return true
	}
	return false
}
