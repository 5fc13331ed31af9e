package base

import (
	"errors"
	"fmt"
)

var (
	ErrVersionMismatch  = errors.New("version mismatch")
	ErrMissingField     = errors.New("missing field")
	ErrWrongType        = errors.New("wrong tag type")
	ErrPaletteSize      = errors.New("palette size does not match declared size")
	ErrUnknownPaletteID = errors.New("id not declared in palette")
	ErrTruncated        = errors.New("varint extends beyond data")
	ErrVarIntTooLong    = errors.New("varint too long")
	ErrTrailingData     = errors.New("trailing data after last value")
	ErrInvalidDimension = errors.New("invalid dimensions")
)

// FormatError reports a malformed container. It aborts the whole read or write.
type FormatError struct {
	Field string
	Err   error
}

func (e *FormatError) Error() string {
	if e.Field == "" {
		return "invalid schematic: " + e.Err.Error()
	}
	return fmt.Sprintf("invalid schematic: %s: %v", e.Field, e.Err)
}

func (e *FormatError) Unwrap() error {
	return e.Err
}

// Malformed returns a *FormatError for field wrapping err.
func Malformed(field string, err error) error {
	return &FormatError{Field: field, Err: err}
}

// Malformedf returns a *FormatError for field wrapping a formatted cause.
// The format may use %w.
func Malformedf(field, format string, args ...any) error {
	return &FormatError{Field: field, Err: fmt.Errorf(format, args...)}
}

// SizeLimitError is returned by writers when a region dimension cannot be
// represented in 16 unsigned bits.
type SizeLimitError struct {
	Axis  string
	Size  int
	Limit int
}

func (e *SizeLimitError) Error() string {
	return fmt.Sprintf("%s of region too large for a schematic: %d > %d", e.Axis, e.Size, e.Limit)
}
