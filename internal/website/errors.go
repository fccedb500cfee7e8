package website

import "errors"

var (
	// ErrNotFound covers both a missing record and one owned by another
	// user.  Callers must not be able to tell the two apart.
	ErrNotFound = errors.New("website not found")

	// ErrDuplicateName is returned by a Store when the unique constraint on
	// website_name rejects an insert.
	ErrDuplicateName = errors.New("website name already exists")
)

// Reason classifies a validation failure.
type Reason string

const (
	ReasonEmpty         Reason = "empty"
	ReasonInvalidFormat Reason = "invalid_format"
	ReasonTooLong       Reason = "too_long"
	ReasonTooLarge      Reason = "too_large"
	ReasonInvalidStatus Reason = "invalid_status"
	ReasonMissingField  Reason = "missing_field"
)

// ValidationError is a user-correctable input problem.  Message is safe to
// return to the client verbatim.
type ValidationError struct {
	Field   string
	Reason  Reason
	Message string
}

func (e *ValidationError) Error() string { return e.Message }

func invalid(field string, reason Reason, msg string) *ValidationError {
	return &ValidationError{Field: field, Reason: reason, Message: msg}
}

// IsValidation reports whether err carries a *ValidationError.
func IsValidation(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve)
}
