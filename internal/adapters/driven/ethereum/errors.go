package ethereum

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/custodia-labs/docproof/internal/core/domain"
)

// Error is a failure reported by the node or the contract.
// Its message is the provider's text, unchanged.
type Error struct {
	Method string
	Err    error
}

func (e *Error) Error() string {
	return e.Err.Error()
}

func (e *Error) Unwrap() error {
	return e.Err
}

// Is matches domain.ErrLedger.
func (e *Error) Is(target error) bool {
	return target == domain.ErrLedger
}

// rangeLimitMarkers are fragments providers use when refusing a log query
// that spans too many blocks or returns too many results.
var rangeLimitMarkers = []string{
	"block range",
	"query returned more than",
	"range is too large",
	"too many blocks",
	"exceed maximum block range",
	"query timeout exceeded",
	"response size exceeded",
	"log response size",
}

// IsRangeLimit returns true if the error is a provider refusing a log
// query because of its block range or result size.
func IsRangeLimit(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, domain.ErrRangeLimited) {
		return true
	}
	msg := strings.ToLower(err.Error())
	for _, marker := range rangeLimitMarkers {
		if strings.Contains(msg, marker) {
			return true
		}
	}
	return false
}

// IsSignatureDeclined returns true if the user did not authorise signing.
func IsSignatureDeclined(err error) bool {
	return errors.Is(err, domain.ErrSignatureDeclined)
}

// WrapError classifies an error returned by go-ethereum for a method.
// Context and signing errors pass through unchanged.
func WrapError(method string, err error) error {
	if err == nil {
		return nil
	}
	switch {
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		return err
	case IsSignatureDeclined(err):
		return err
	case errors.Is(err, domain.ErrLedger):
		return err
	}
	return &Error{Method: method, Err: err}
}

// wrapQueryError classifies a log query failure.
func wrapQueryError(err error) error {
	if IsRangeLimit(err) {
		return fmt.Errorf("%w: %s", domain.ErrRangeLimited, err.Error())
	}
	return WrapError(eventHashAdded, err)
}
