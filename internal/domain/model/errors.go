package model

import "errors"

// Sentinel error kinds shared by the domain packages. Callers match with errors.Is.
var (
	ErrValidation = errors.New("validation failed")
	ErrCapacity   = errors.New("at capacity")
	ErrNotFound   = errors.New("not found")
	ErrState      = errors.New("invalid state")
)

// Error carries the failing operation, its kind and an optional cause.
type Error struct {
	Op   string
	Kind error
	Err  error
}

func (e *Error) Error() string {
	msg := e.Op + ": " + e.Kind.Error()
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

// Unwrap exposes both the kind and the cause to errors.Is and errors.As.
func (e *Error) Unwrap() []error {
	if e.Err == nil {
		return []error{e.Kind}
	}
	return []error{e.Kind, e.Err}
}

// NewKind returns an error of kind for op without a cause.
func NewKind(op string, kind error) error {
	return &Error{Op: op, Kind: kind}
}

// WrapKind returns an error of kind for op wrapping err.
func WrapKind(op string, kind, err error) error {
	return &Error{Op: op, Kind: kind, Err: err}
}

// KindOf returns the domain kind of err, or nil when err carries none.
func KindOf(err error) error {
	for _, k := range []error{ErrValidation, ErrCapacity, ErrNotFound, ErrState} {
		if errors.Is(err, k) {
			return k
		}
	}
	return nil
}
