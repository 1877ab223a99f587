package service

import (
	"errors"
	"strings"
)

// Booking outcomes other than success.  Handlers map each one to a stable
// outcome code; BadRequest and Conflict need different remediation on the
// client (fix the form vs. pick another slot) and never share a code.
var (
	// ErrSlotConflict means another booking already holds part of the run.
	// Callers should re-query availability before retrying.
	ErrSlotConflict = errors.New("slot already booked")
	// ErrPriceNotFound means the catalog has no price for the requested
	// service and duration.  Nothing was reserved.
	ErrPriceNotFound = errors.New("price not found for service and duration")
	// ErrStoreUnavailable wraps store failures and timeouts.  The outcome of
	// the reservation is unknown; retrying the whole submission is safe.
	ErrStoreUnavailable = errors.New("reservation store unavailable")
)

// ValidationError lists every invalid request field at once so the client
// can highlight all of them.
type ValidationError struct {
	Fields []string
}

func (e *ValidationError) Error() string {
	return "invalid fields: " + strings.Join(e.Fields, ",")
}

// Outcome codes returned to API clients.
const (
	CodeBadRequest       = "BAD_REQUEST"
	CodeConflict         = "CONFLICT"
	CodePriceNotFound    = "PRICE_NOT_FOUND"
	CodeStoreUnavailable = "STORE_UNAVAILABLE"
	CodeServerError      = "SERVER_ERROR"
)

// OutcomeCode classifies err into one of the outcome codes.
func OutcomeCode(err error) string {
	var ve *ValidationError
	switch {
	case errors.As(err, &ve):
		return CodeBadRequest
	case errors.Is(err, ErrSlotConflict):
		return CodeConflict
	case errors.Is(err, ErrPriceNotFound):
		return CodePriceNotFound
	case errors.Is(err, ErrStoreUnavailable):
		return CodeStoreUnavailable
	}
	return CodeServerError
}
