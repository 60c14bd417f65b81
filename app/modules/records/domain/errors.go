package recordsdomain

import (
	"errors"
	"fmt"
)

// Error kinds returned by the records store. Every failure is one of these, wrapped in
// an *Error that carries a readable message. Match with errors.Is.
var (
	// ErrDuplicateName indicates a create or rename collides with another record's name.
	ErrDuplicateName = errors.New("duplicate name")

	// ErrNotFound indicates the target id does not exist in its collection.
	ErrNotFound = errors.New("not found")

	// ErrTooManyDefaults indicates more than MaxDefaultPlayers players would be default.
	ErrTooManyDefaults = errors.New("too many default players")

	// ErrInvalidReference indicates a foreign key in the payload does not resolve.
	ErrInvalidReference = errors.New("invalid reference")

	// ErrInvalidConfiguration indicates required or mutually exclusive fields are violated.
	ErrInvalidConfiguration = errors.New("invalid configuration")

	// ErrMalformedFile indicates an import payload is not a JSON object.
	ErrMalformedFile = errors.New("malformed file")
)

// Error is a validation failure for one entity kind.
type Error struct {
	Kind    error
	Entity  string
	Message string
	Err     error
}

// NewError builds an *Error of the given kind.
func NewError(kind error, entity, format string, args ...any) *Error {
	return &Error{Kind: kind, Entity: entity, Message: fmt.Sprintf(format, args...)}
}

func (e *Error) Error() string {
	if e == nil {
		return ""
	}
	if e.Entity == "" {
		return e.Message
	}
	return fmt.Sprintf("%s: %s", e.Entity, e.Message)
}

// Is lets errors.Is match the error kind.
func (e *Error) Is(target error) bool {
	return e != nil && e.Kind == target
}

func (e *Error) Unwrap() error { return e.Err }
