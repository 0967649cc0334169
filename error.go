package droplet

import "fmt"

// ErrorKind describes the type of filter error.
type ErrorKind int

const (
	// ErrInvalidArgument means an argument's coerced value is unusable
	// for the operation, such as a divisor resolving to zero.
	ErrInvalidArgument ErrorKind = iota

	// ErrUnknownFilter means a filter name has no registered
	// implementation.
	ErrUnknownFilter
)

func (k ErrorKind) String() string {
	switch k {
	case ErrInvalidArgument:
		return "invalid argument"
	case ErrUnknownFilter:
		return "unknown filter"
	default:
		return "error"
	}
}

// Error represents an error produced while applying a filter. Errors
// are returned to the caller uninterpreted; this package never logs
// them or substitutes a default value.
type Error struct {
	Kind    ErrorKind
	Message string
	Filter  string // filter name, when known
}

func (e *Error) Error() string {
	if e.Filter != "" {
		return fmt.Sprintf("%s: %s (in %s)", e.Kind, e.Message, e.Filter)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

// NewError creates a new error.
func NewError(kind ErrorKind, msg string) *Error {
	return &Error{Kind: kind, Message: msg}
}

// WithFilter adds the originating filter name to an error.
func (e *Error) WithFilter(name string) *Error {
	e.Filter = name
	return e
}
