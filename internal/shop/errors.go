package shop

import (
	"errors"
	"fmt"
)

// Kind classifies every failed backend call. The two kinds are exhaustive.
type Kind int

const (
	// KindGeneric covers non-success answers, undecodable payloads and transport failures.
	KindGeneric Kind = iota
	// KindAuthRequired means the backend does not recognise the user (HTTP 401).
	KindAuthRequired
)

func (k Kind) String() string {
	switch k {
	case KindAuthRequired:
		return "auth_required"
	default:
		return "generic"
	}
}

// ErrAuthRequired matches any *Error of KindAuthRequired via errors.Is.
var ErrAuthRequired = errors.New("shop: authentication required")

// ErrMissingID is returned when an operation needs an identifier and none was given.
var ErrMissingID = errors.New("shop: missing identifier")

// ErrInvalidID is returned for identifiers that would change the backend path
// they are placed in, such as "..", "." or anything containing a slash.
var ErrInvalidID = errors.New("shop: invalid identifier")

// Error describes a failed backend call.
type Error struct {
	Op      string
	Kind    Kind
	Status  int
	Message string // backend-supplied, human readable; may be empty
	Err     error
}

func (e *Error) Error() string {
	msg := fmt.Sprintf("shop: %s: %s", e.Op, e.Kind)
	if e.Status != 0 {
		msg += fmt.Sprintf(" (status %d)", e.Status)
	}
	if e.Message != "" {
		msg += ": " + e.Message
	}
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

func (e *Error) Unwrap() error { return e.Err }

// Is lets errors.Is(err, ErrAuthRequired) match auth failures.
func (e *Error) Is(target error) bool {
	return target == ErrAuthRequired && e.Kind == KindAuthRequired
}

// MessageOr prefers the backend message and falls back otherwise.
func (e *Error) MessageOr(fallback string) string {
	if e != nil && e.Message != "" {
		return e.Message
	}
	return fallback
}

// AsError extracts the *Error from err. Errors that did not come from a
// backend call are reported as generic failures.
func AsError(err error) *Error {
	if err == nil {
		return nil
	}
	var shopErr *Error
	if errors.As(err, &shopErr) {
		return shopErr
	}
	return &Error{Op: "unknown", Kind: KindGeneric, Err: err}
}
