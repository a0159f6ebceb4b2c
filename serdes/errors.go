package serdes

import (
	"errors"
	"fmt"
	"strings"
)

var (
	ErrMissingField   = errors.New("missing field")
	ErrDuplicateField = errors.New("duplicate field")
	ErrUnknownField   = errors.New("unknown field")
	ErrInvalidLength  = errors.New("invalid length")
	ErrInvalidType    = errors.New("invalid type")
	ErrInvalidOrder   = errors.New("invalid order")
	ErrInvalidSpan    = errors.New("invalid bit-span")
	ErrTrailingData   = errors.New("trailing data")
	ErrVisitorReused  = errors.New("visitor already used")
)

// FieldError reports a missing, repeated or unrecognized field.
type FieldError struct {
	// Kind is one of ErrMissingField, ErrDuplicateField, ErrUnknownField.
	Kind  error
	Field string
	// Expected lists the recognized fields for ErrUnknownField.
	Expected []string
}

func (e *FieldError) Error() string {
	if e.Kind == ErrUnknownField {
		return fmt.Sprintf("%v: %s; expected one of: %s", e.Kind, e.Field, strings.Join(e.Expected, ", "))
	}
	return fmt.Sprintf("%v: %s", e.Kind, e.Field)
}

func (e *FieldError) Unwrap() error { return e.Kind }

// LengthError reports a positional structure that ended early. Index is the
// position of the first absent element.
type LengthError struct {
	Index     int
	Expecting string
}

func (e *LengthError) Error() string {
	return fmt.Sprintf("%v %d, missing `%s`; expected: %s", ErrInvalidLength, e.Index, Fields[e.Index], e.Expecting)
}

func (e *LengthError) Unwrap() error { return ErrInvalidLength }

// OrderError reports an order tag other than the expected one.
type OrderError struct {
	Found     string
	Expecting string
}

func (e *OrderError) Error() string {
	return fmt.Sprintf("%v: found `%s`; expected: %s", ErrInvalidOrder, e.Found, e.Expecting)
}

func (e *OrderError) Unwrap() error { return ErrInvalidOrder }

// SpanError reports head, bits and data that do not form a valid bit-span.
// Err is a *ptr.SpanError or an index.IdxError.
type SpanError struct {
	Err error
}

func (e *SpanError) Error() string {
	return fmt.Sprintf("%v: %v", ErrInvalidSpan, e.Err)
}

func (e *SpanError) Unwrap() []error { return []error{ErrInvalidSpan, e.Err} }

// TypeError reports a value whose shape does not match its field.
type TypeError struct {
	Found    string
	Expected string
}

func (e *TypeError) Error() string {
	return fmt.Sprintf("%v: found %s; expected: %s", ErrInvalidType, e.Found, e.Expected)
}

func (e *TypeError) Unwrap() error { return ErrInvalidType }
