package inventoryservice

import (
	"errors"
	"fmt"
)

// Error kinds. Match with errors.Is; the Error wrapping them carries the
// message shown to the user.
var (
	ErrValidation        = errors.New("validation failed")
	ErrUnavailable       = errors.New("equipment unavailable")
	ErrInvalidTransition = errors.New("invalid status transition")
	ErrNotFound          = errors.New("not found")
	ErrForbidden         = errors.New("forbidden")
	ErrUnauthenticated   = errors.New("not logged in")
	ErrInFlight          = errors.New("action already in progress")
)

type Error struct {
	Kind error
	Msg  string
}

func (e *Error) Error() string {
	return e.Msg
}

func (e *Error) Unwrap() error {
	return e.Kind
}

func newError(kind error, format string, args ...interface{}) error {
	return &Error{Kind: kind, Msg: fmt.Sprintf(format, args...)}
}
