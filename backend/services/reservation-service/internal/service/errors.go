package service

import (
	"errors"
	"sort"
	"strings"

	"ecocharge/backend/services/reservation-service/internal/catalog"
)

var (
	// ErrUnauthenticated is returned when an operation needs a signed-in user.
	ErrUnauthenticated = errors.New("reservation: authentication required")
	// ErrForbidden is returned when a non-admin calls an operator action.
	ErrForbidden = errors.New("reservation: admin role required")
	// ErrStationNotFound aliases the catalog error so callers need one import.
	ErrStationNotFound = catalog.ErrStationNotFound
	// ErrEmailInUse is returned when attempting to register duplicate email.
	ErrEmailInUse = errors.New("auth: email already registered")
	// ErrInvalidCredentials represents login failure.
	ErrInvalidCredentials = errors.New("auth: invalid credentials")
)

// ValidationErrors maps form field names to user facing messages. Every violated field is
// reported at once.
type ValidationErrors map[string]string

func (v ValidationErrors) Error() string {
	fields := v.Fields()
	parts := make([]string, 0, len(fields))
	for _, f := range fields {
		parts = append(parts, f+": "+v[f])
	}
	return "validation failed: " + strings.Join(parts, "; ")
}

// Fields returns the violated field names sorted.
func (v ValidationErrors) Fields() []string {
	fields := make([]string, 0, len(v))
	for f := range v {
		fields = append(fields, f)
	}
	sort.Strings(fields)
	return fields
}

func (v ValidationErrors) add(field, message string) {
	if _, exists := v[field]; !exists {
		v[field] = message
	}
}

// errOrNil keeps a nil map from turning into a non-nil error interface.
func (v ValidationErrors) errOrNil() error {
	if len(v) == 0 {
		return nil
	}
	return v
}

// AsValidation extracts field errors from err.
func AsValidation(err error) (ValidationErrors, bool) {
	var v ValidationErrors
	if errors.As(err, &v) {
		return v, true
	}
	return nil, false
}
