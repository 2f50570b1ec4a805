package wire

import (
	"errors"
	"fmt"
	"strings"
)

// Error taxonomy for wire-level and codec-level failures.
var (
	// ErrMalformedVarint indicates a varint whose 10th byte still carries a
	// continuation bit, or one that would overflow 64 bits.
	ErrMalformedVarint = errors.New("malformed varint")

	// ErrUnexpectedEOF indicates the buffer ended inside a value.
	ErrUnexpectedEOF = errors.New("unexpected EOF")

	// ErrInvalidWireType indicates a tag whose wire type is 6 or 7.
	ErrInvalidWireType = errors.New("invalid wire type")

	// ErrInvalidFieldValue indicates a value incompatible with its declared
	// field type during schema-driven encoding or decoding.
	ErrInvalidFieldValue = errors.New("invalid field value")

	// ErrResourceLimit indicates a configured ceiling (nesting depth or
	// buffer size) was breached. It always surfaces to the caller.
	ErrResourceLimit = errors.New("resource limit exceeded")
)

// FieldError represents an encoding/decoding error with a field path.
type FieldError struct {
	FieldPath []string // e.g., ["order", "items", "unit_price"]
	Err       error    // underlying error
}

// Error implements the error interface.
func (e *FieldError) Error() string {
	if len(e.FieldPath) == 0 {
		return e.Err.Error()
	}

	return fmt.Sprintf("error at proto path %s: %v", strings.Join(e.FieldPath, "."), e.Err)
}

// Unwrap returns the underlying error.
func (e *FieldError) Unwrap() error {
	return e.Err
}

// Is implements errors.Is for compatibility.
func (e *FieldError) Is(target error) bool {
	_, ok := target.(*FieldError)
	return ok
}

// WrapWithField wraps an error with a field name, prepending to the path when
// the error already carries one.
func WrapWithField(err error, fieldName string) error {
	if err == nil {
		return nil
	}

	var fe *FieldError
	if errors.As(err, &fe) {
		return &FieldError{
			FieldPath: append([]string{fieldName}, fe.FieldPath...),
			Err:       fe.Err,
		}
	}

	return &FieldError{
		FieldPath: []string{fieldName},
		Err:       err,
	}
}
