package errors

import (
	stderrors "errors"
	"fmt"
)

type Status string

// The active network profile is incomplete. Fatal, startup-time only.
const Configuration Status = "ConfigurationError"

// A caller-supplied address does not parse or match the ledger's format.
// Surfaced immediately, never retried.
const InvalidAddress Status = "InvalidAddressError"

// A caller-supplied amount is zero, negative, or otherwise unusable.
const InvalidAmount Status = "InvalidAmountError"

// The token has no destination mapping in the active network profile.
const UnsupportedToken Status = "UnsupportedTokenError"

// A transient RPC or indexer failure -- there may be nothing wrong with
// the transfer. Always retryable by the caller with backoff.
const NetworkUnavailable Status = "NetworkUnavailableError"

type Error struct {
	Status  Status
	Message string
}

var _ error = &Error{}

func (e *Error) Error() string {
	return fmt.Sprintf("%s: %s", e.Status, e.Message)
}

func Errorf(status Status, format string, args ...interface{}) error {
	return &Error{
		Status:  status,
		Message: fmt.Sprintf(format, args...),
	}
}

func Configurationf(format string, args ...interface{}) error {
	return Errorf(Configuration, format, args...)
}

func InvalidAddressf(format string, args ...interface{}) error {
	return Errorf(InvalidAddress, format, args...)
}

func InvalidAmountf(format string, args ...interface{}) error {
	return Errorf(InvalidAmount, format, args...)
}

func UnsupportedTokenf(format string, args ...interface{}) error {
	return Errorf(UnsupportedToken, format, args...)
}

func NetworkUnavailablef(format string, args ...interface{}) error {
	return Errorf(NetworkUnavailable, format, args...)
}

// StatusOf returns the engine status of err, or the empty status for
// errors that did not originate here.
func StatusOf(err error) Status {
	var e *Error
	if stderrors.As(err, &e) {
		return e.Status
	}
	return Status("")
}

// IsRetryable reports whether the caller should re-poll or re-try with
// backoff rather than surface a failure. Only transient network errors
// qualify; input and configuration errors never do.
func IsRetryable(err error) bool {
	return StatusOf(err) == NetworkUnavailable
}
