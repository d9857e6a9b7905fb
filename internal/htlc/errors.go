package htlc

import (
	"github.com/pkg/errors"
)

// Kind groups protocol errors by how a caller should react to them.
type Kind string

const (
	KindValidation    Kind = "validation"
	KindAuthorization Kind = "authorization"
	KindLookup        Kind = "lookup"
	KindConflict      Kind = "conflict"
	KindState         Kind = "state"
	KindIntegrity     Kind = "integrity"
	KindResource      Kind = "resource"
)

// Error is a rejected operation. Errors are compared by identity, so use
// errors.Is against the sentinels below.
type Error struct {
	Kind    Kind
	Code    string
	Message string
}

func (e *Error) Error() string {
	return e.Message
}

func newError(kind Kind, code, message string) *Error {
	return &Error{Kind: kind, Code: code, Message: message}
}

var (
	ErrInvalidTimelock    = newError(KindValidation, "InvalidTimelock", "Invalid timelock")
	ErrInvalidAmount      = newError(KindValidation, "InvalidAmount", "Invalid amount")
	ErrAddressInvalid     = newError(KindValidation, "AddressInvalid", "Invalid address")
	ErrUnauthorized       = newError(KindAuthorization, "Unauthorized", "Unauthorized")
	ErrSwapNotFound       = newError(KindLookup, "SwapNotFound", "Swap does not exist")
	ErrSwapAlreadyExists  = newError(KindConflict, "SwapAlreadyExists", "Swap already exists")
	ErrAlreadyWithdrawn   = newError(KindState, "AlreadyWithdrawn", "Already withdrawn")
	ErrAlreadyRefunded    = newError(KindState, "AlreadyRefunded", "Already refunded")
	ErrTimelockExpired    = newError(KindState, "TimelockExpired", "Timelock expired")
	ErrTimelockNotExpired = newError(KindState, "TimelockNotExpired", "Timelock not expired")
	ErrInvalidPreimage    = newError(KindIntegrity, "InvalidPreimage", "Invalid preimage")
	ErrInsufficientFunds  = newError(KindResource, "InsufficientFunds", "Insufficient funds")
)

// AsError returns the protocol error in err's chain. Anything else is an
// infrastructure failure.
func AsError(err error) (*Error, bool) {
	var e *Error
	if errors.As(err, &e) {
		return e, true
	}
	return nil, false
}
