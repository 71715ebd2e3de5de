package services

import (
	"errors"
	"fmt"

	"github.com/SAP-F-2025/school-directory/internal/validator"
)

// Sentinel errors matched with errors.Is by the HTTP layer
var (
	ErrValidationFailed  = errors.New("validation failed")
	ErrPersistenceFailed = errors.New("persistence failed")
)

type ValidationKind string

const (
	MissingField   ValidationKind = "MissingField"
	InvalidEmail   ValidationKind = "InvalidEmail"
	InvalidContact ValidationKind = "InvalidContact"
	InvalidName    ValidationKind = "InvalidName"
	ImageTooLarge  ValidationKind = "ImageTooLarge"
)

var validationMessages = map[ValidationKind]string{
	MissingField:   "All fields are required",
	InvalidEmail:   "Invalid email format",
	InvalidContact: "Invalid contact number",
	InvalidName:    "School name should only contain alphabetical characters and spaces",
	ImageTooLarge:  "Image exceeds maximum upload size",
}

// ValidationError is a client-caused submission failure
type ValidationError struct {
	Kind    ValidationKind
	Message string
	Fields  validator.ValidationErrors
}

func NewValidationError(kind ValidationKind, fields validator.ValidationErrors) *ValidationError {
	return &ValidationError{
		Kind:    kind,
		Message: validationMessages[kind],
		Fields:  fields,
	}
}

func (e *ValidationError) Error() string {
	return e.Message
}

func (e *ValidationError) Unwrap() error {
	return ErrValidationFailed
}

type PersistenceKind string

const (
	ImageUploadFailed PersistenceKind = "ImageUploadFailed"
	StoreWriteFailed  PersistenceKind = "StoreWriteFailed"
	StoreReadFailed   PersistenceKind = "StoreReadFailed"
)

var persistenceMessages = map[PersistenceKind]string{
	ImageUploadFailed: "Failed to upload image",
	StoreWriteFailed:  "Failed to add school",
	StoreReadFailed:   "Failed to fetch schools",
}

// PersistenceError is a server-side storage failure. Err holds the cause.
type PersistenceError struct {
	Kind    PersistenceKind
	Message string
	Err     error
}

func NewPersistenceError(kind PersistenceKind, err error) *PersistenceError {
	return &PersistenceError{
		Kind:    kind,
		Message: persistenceMessages[kind],
		Err:     err,
	}
}

func (e *PersistenceError) Error() string {
	if e.Err == nil {
		return e.Message
	}
	return fmt.Sprintf("%s: %v", e.Message, e.Err)
}

func (e *PersistenceError) Unwrap() []error {
	if e.Err == nil {
		return []error{ErrPersistenceFailed}
	}
	return []error{ErrPersistenceFailed, e.Err}
}

// classifyValidationErrors reports the earliest pipeline check that failed:
// presence, then email, then contact, then name.
func classifyValidationErrors(errs validator.ValidationErrors) *ValidationError {
	switch {
	case errs.HasRule("required") || errs.HasRule("min"):
		return NewValidationError(MissingField, errs)
	case errs.HasRule("school_email"):
		return NewValidationError(InvalidEmail, errs)
	case errs.HasRule("contact_number"):
		return NewValidationError(InvalidContact, errs)
	case errs.HasRule("school_name"):
		return NewValidationError(InvalidName, errs)
	default:
		return NewValidationError(MissingField, errs)
	}
}
