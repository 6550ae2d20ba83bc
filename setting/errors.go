package setting

import (
	"errors"
	"fmt"
)

var (
	ErrOutOfRange   = errors.New("value out of range")
	ErrUnknownEnum  = errors.New("unknown enum value")
	ErrInvalidHex   = errors.New("invalid hex value")
	ErrMissingValue = errors.New("missing value")
)

// RangeError reports a value outside its legal domain.
type RangeError struct {
	Setting string
	Value   int
	Lower   int
	Upper   int
}

func (e *RangeError) Error() string {
	return fmt.Sprintf("%s must be between %#x and %#x, found %#x", e.Setting, e.Lower, e.Upper, e.Value)
}

func (e *RangeError) Unwrap() error { return ErrOutOfRange }

// UnknownEnumError reports a string that is not one of an enum's literals.
type UnknownEnumError struct {
	Setting string
	Value   string
}

func (e *UnknownEnumError) Error() string {
	return fmt.Sprintf("%s: unknown value %q", e.Setting, e.Value)
}

func (e *UnknownEnumError) Unwrap() error { return ErrUnknownEnum }
