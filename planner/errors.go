package planner

import (
	"fmt"

	"github.com/pkg/errors"
)

// Kind classifies a planner error so the HTTP layer can pick a status code.
type Kind int

const (
	Internal Kind = iota
	Validation
	NotFound
	Forbidden
	InvalidState
	Invariant
)

func (k Kind) String() string {
	switch k {
	case Validation:
		return "validation"
	case NotFound:
		return "not found"
	case Forbidden:
		return "forbidden"
	case InvalidState:
		return "invalid state"
	case Invariant:
		return "invariant violation"
	}
	return "internal"
}

// Error is a domain error. Its message is safe to show to the caller.
type Error struct {
	Kind Kind
	Msg  string
}

func (e *Error) Error() string {
	return e.Msg
}

func newError(kind Kind, format string, args ...interface{}) *Error {
	return &Error{Kind: kind, Msg: fmt.Sprintf(format, args...)}
}

// KindOf returns the kind of the first *Error in err's chain, or Internal.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return Internal
}

var (
	errEventNotFound    = &Error{NotFound, "event not found"}
	errInviteNotFound   = &Error{NotFound, "invite not found"}
	errPollNotFound     = &Error{NotFound, "poll not found"}
	errDayNotFound      = &Error{NotFound, "day not found"}
	errActivityNotFound = &Error{NotFound, "activity not found"}
	errUserNotFound     = &Error{NotFound, "user not found"}
)
