package zkecdsa

import (
	"errors"
	"fmt"

	"github.com/smallyu/go-zkecdsa/internal/crypto/curves"
	"github.com/smallyu/go-zkecdsa/internal/crypto/generator"
	"github.com/smallyu/go-zkecdsa/internal/crypto/transcript"
)

// Common errors returned by the zkecdsa library
var (
	ErrGeneratorExhausted = generator.ErrExhausted
	ErrUnknownCurve       = curves.ErrUnknownCurve
	ErrUnknownTranscript  = transcript.ErrUnknownKind
	ErrInvalidEncoding    = errors.New("invalid encoding")
	ErrCurveMismatch      = errors.New("curve does not match system")
)

// FieldError reports which field of an encoded statement could not be used.
type FieldError struct {
	Field string
	Err   error
}

func (e *FieldError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("field %s: %v", e.Field, e.Err)
	}
	return fmt.Sprintf("field %s: invalid", e.Field)
}

func (e *FieldError) Unwrap() error {
	return e.Err
}

func fieldErr(field string, err error) *FieldError {
	return &FieldError{Field: field, Err: err}
}
