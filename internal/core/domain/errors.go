package domain

import (
	"errors"
	"fmt"
)

// Domain errors represent business logic failures.
// These are distinct from infrastructure errors.
var (
	// ErrNotFound indicates a requested entity does not exist.
	ErrNotFound = errors.New("not found")

	// ErrInvalidInput indicates malformed or invalid input.
	ErrInvalidInput = errors.New("invalid input")

	// ErrAlreadyExists indicates the entity is already stored.
	ErrAlreadyExists = errors.New("already exists")

	// Session Errors.

	// ErrNoWallet indicates no wallet could be detected. Every write
	// operation is refused for the rest of the session.
	ErrNoWallet = errors.New("no wallet detected")

	// ErrNotConnected indicates no account is authenticated.
	ErrNotConnected = errors.New("no account connected")

	// ErrNoDocument indicates no file has been selected.
	ErrNoDocument = errors.New("no document selected")

	// ErrNoFingerprint indicates the selected document produced no fingerprint.
	ErrNoFingerprint = errors.New("no fingerprint")

	// ErrSubmissionInFlight indicates another submission is still running.
	ErrSubmissionInFlight = errors.New("submission in flight")

	// Upload Errors.

	// ErrUploadNetwork indicates the pinning service could not be reached.
	ErrUploadNetwork = errors.New("upload network failure")

	// ErrUploadAuth indicates the pinning credential is missing, invalid or expired.
	ErrUploadAuth = errors.New("upload authentication failed")

	// ErrUploadRejected indicates the pinning service refused the upload.
	ErrUploadRejected = errors.New("upload rejected")

	// Ledger Errors.

	// ErrLedger indicates the ledger endpoint or contract call failed.
	ErrLedger = errors.New("ledger call failed")

	// ErrSignatureDeclined indicates the user declined to sign a transaction.
	ErrSignatureDeclined = errors.New("signature declined")

	// ErrTxReverted indicates the transaction was mined but reverted.
	ErrTxReverted = errors.New("transaction reverted")

	// ErrRangeLimited indicates the provider refused an event query because
	// the block range was too large. Older records are unreachable.
	ErrRangeLimited = errors.New("block range exceeds provider limit")
)

// PreconditionError reports a submission refused before any I/O.
// It is a warning: nothing changed and the user can fix the input.
type PreconditionError struct {
	Err error
}

func (e *PreconditionError) Error() string {
	return e.Err.Error()
}

func (e *PreconditionError) Unwrap() error {
	return e.Err
}

// Precondition wraps err as a precondition failure.
func Precondition(err error) error {
	return &PreconditionError{Err: err}
}

// ValidationError reports missing or malformed form fields.
type ValidationError struct {
	Operation ContractMethod
	Message   string
}

func (e *ValidationError) Error() string {
	return e.Message
}

// Unwrap lets errors.Is match ErrInvalidInput.
func (e *ValidationError) Unwrap() error {
	return ErrInvalidInput
}

// NewValidationError builds a ValidationError for an operation.
func NewValidationError(op ContractMethod, format string, args ...any) error {
	return &ValidationError{Operation: op, Message: fmt.Sprintf(format, args...)}
}

// IsPrecondition reports whether err was raised before any I/O took place.
// Both precondition and validation failures qualify.
func IsPrecondition(err error) bool {
	var pe *PreconditionError
	if errors.As(err, &pe) {
		return true
	}
	var ve *ValidationError
	return errors.As(err, &ve)
}

// IsValidation reports whether err is a form validation failure.
func IsValidation(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve)
}
