// Package apperr defines the error taxonomy shared by the domain services
// and the HTTP layer: a not-found sentinel and a field-keyed validation
// error type that handlers translate into the response envelope.
package apperr

import (
	"errors"
	"fmt"
	"sort"
	"strings"
)

// ErrNotFound reports that a requested entity does not exist. Services wrap
// it with context: fmt.Errorf("patient %s: %w", id, apperr.ErrNotFound).
var ErrNotFound = errors.New("not found")

// FieldErrors carries per-field validation or uniqueness messages. It is
// returned by domain services and rendered as a 400 response with the field
// map intact.
type FieldErrors map[string]string

func (f FieldErrors) Error() string {
	if len(f) == 0 {
		return "validation failed"
	}
	fields := make([]string, 0, len(f))
	for k := range f {
		fields = append(fields, k)
	}
	sort.Strings(fields)
	return fmt.Sprintf("validation failed: %s", strings.Join(fields, ", "))
}

// AsFieldErrors unwraps err into FieldErrors, or returns nil.
func AsFieldErrors(err error) FieldErrors {
	var f FieldErrors
	if errors.As(err, &f) {
		return f
	}
	return nil
}
