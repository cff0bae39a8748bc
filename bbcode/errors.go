package bbcode

import (
	"errors"
	"fmt"
)

// Sentinel errors. Every error returned by the package wraps one of them, so callers
// can use [errors.Is].
var (
	ErrOutOfRange            = errors.New("position out of range")
	ErrDuplicateRegistration = errors.New("tag is already registered")
	ErrUnknownClass          = errors.New("unknown item class")
	ErrMalformedTag          = errors.New("malformed tag")
	ErrUnterminatedTag       = errors.New("unterminated tag")
	ErrEmptyStack            = errors.New("no open item to pop")
	ErrReentrantParse        = errors.New("parse pass is already running")
)

// Error describes a failure of a [Registry] or [Parser] operation.
type Error struct {
	Issue Issue // Issue is a kind of the problem occured.
	Err   error // Err contains the original error.
}

func (e *Error) Unwrap() error {
	return e.Err
}

func (e *Error) Error() string {
	return fmt.Sprintf("%s: %v", e.Issue, e.Err)
}

// NewError is a factory function for creating an *Error.
func NewError(issue Issue, err error) *Error {
	return &Error{
		Issue: issue,
		Err:   err,
	}
}

func newDuplicateRegistrationError(tag, kind string) error {
	return NewError(
		IssueDuplicateRegistration,
		fmt.Errorf("%w: %q is registered as a %s", ErrDuplicateRegistration, tag, kind),
	)
}

func newOutOfRangeError(i, end int) error {
	return NewError(
		IssueOutOfRange,
		fmt.Errorf("%w: %d is not in [0, %d)", ErrOutOfRange, i, end),
	)
}
