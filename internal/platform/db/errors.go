package db

import (
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/physiocare/physiocare/internal/platform/apperr"
)

// UniqueViolation reports a unique-constraint conflict. The constraint name
// identifies which field collided; services map it to a field-level message.
// Deciding the offending field here, from the structured pg error, replaces
// sniffing field names out of error message text downstream.
type UniqueViolation struct {
	Constraint string
}

func (e *UniqueViolation) Error() string {
	return fmt.Sprintf("unique constraint violated: %s", e.Constraint)
}

// AsUniqueViolation unwraps err into a *UniqueViolation, or returns nil.
func AsUniqueViolation(err error) *UniqueViolation {
	var uv *UniqueViolation
	if errors.As(err, &uv) {
		return uv
	}
	return nil
}

const pgUniqueViolationCode = "23505"

// Translate converts driver-level errors into the platform taxonomy:
// pgx.ErrNoRows becomes apperr.ErrNotFound and SQLSTATE 23505 becomes a
// *UniqueViolation carrying the constraint name. Other errors pass through.
func Translate(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, pgx.ErrNoRows) {
		return apperr.ErrNotFound
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == pgUniqueViolationCode {
		return &UniqueViolation{Constraint: pgErr.ConstraintName}
	}
	return err
}
