package referrals

import (
	"errors"
	"fmt"
)

// Messages returned to the submitting client verbatim.
var (
	ErrEmptyBody          = errors.New("Request body is empty")
	ErrInvalidForm        = errors.New("Invalid form data")
	ErrNoFile             = errors.New("No file uploaded")
	ErrFileTooLarge       = errors.New("File too large (max 10MB)")
	ErrInvalidFormat      = errors.New("Invalid file format. Only PDF files are accepted.")
	ErrMissingCredentials = errors.New("Server configuration error: Missing storage credentials")

	ErrStorage  = errors.New("Storage Error")
	ErrDatabase = errors.New("Database Error")
)

// ErrNotFound is returned when a referral id has no row.
var ErrNotFound = errors.New("referral not found")

// stageError prefixes an infrastructure failure with the stage it came from,
// e.g. "Storage Error: object already exists".
type stageError struct {
	stage error
	err   error
}

func (e *stageError) Error() string {
	return fmt.Sprintf("%s: %s", e.stage.Error(), e.err.Error())
}

func (e *stageError) Unwrap() []error {
	return []error{e.stage, e.err}
}

func storageError(err error) error {
	return &stageError{stage: ErrStorage, err: err}
}

func databaseError(err error) error {
	return &stageError{stage: ErrDatabase, err: err}
}

// IsValidation reports whether err is a rejection of the submitted payload
// rather than an infrastructure failure.
func IsValidation(err error) bool {
	switch {
	case errors.Is(err, ErrEmptyBody),
		errors.Is(err, ErrInvalidForm),
		errors.Is(err, ErrNoFile),
		errors.Is(err, ErrFileTooLarge),
		errors.Is(err, ErrInvalidFormat):
		return true
	}
	return false
}
