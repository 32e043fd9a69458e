// internal/calc/field.go
package calc

import (
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"
)

var (
	// ErrUnavailable marks a computation that cannot produce a result.
	// Every error returned by an engine wraps it.
	ErrUnavailable = errors.New("computation unavailable")

	ErrInputParse       = errors.New("not a number")
	ErrMissingField     = errors.New("value is required")
	ErrOutOfRange       = errors.New("value out of range")
	ErrPriceUnavailable = errors.New("no price available")
	ErrDivisionByZero   = errors.New("division by zero")
)

// FieldError reports which input field made a computation unavailable.
type FieldError struct {
	Field string
	Err   error
}

func (e *FieldError) Error() string {
	return fmt.Sprintf("%s: %v", e.Field, e.Err)
}

func (e *FieldError) Unwrap() []error {
	return []error{e.Err, ErrUnavailable}
}

// Bound restricts the accepted range of a parsed value.
type Bound int

const (
	Any Bound = iota
	NonNegative
	Positive
	Divisor // positive, zero reported as division by zero
	Percent // 0..100 inclusive
)

func (b Bound) check(v float64) error {
	switch b {
	case NonNegative:
		if v < 0 {
			return fmt.Errorf("%w: must not be negative", ErrOutOfRange)
		}
	case Positive:
		if v <= 0 {
			return fmt.Errorf("%w: must be greater than zero", ErrOutOfRange)
		}
	case Divisor:
		if v == 0 {
			return fmt.Errorf("%w: must not be zero", ErrDivisionByZero)
		}
		if v < 0 {
			return fmt.Errorf("%w: must be greater than zero", ErrOutOfRange)
		}
	case Percent:
		if v < 0 || v > 100 {
			return fmt.Errorf("%w: must be between 0 and 100", ErrOutOfRange)
		}
	}
	return nil
}

// FieldSpec describes how a free-text field turns into a number.
// A field with a Default never fails to parse: empty or garbage text yields the default.
// With Lenient set, a value outside Bound also yields the default.
type FieldSpec struct {
	Name     string
	Required bool
	Default  *float64
	Bound    Bound
	Lenient  bool
}

// Required returns a spec for a mandatory field.
func Required(name string, bound Bound) FieldSpec {
	return FieldSpec{Name: name, Required: true, Bound: bound}
}

// WithDefault returns a spec for a field that falls back to def when absent or invalid.
func WithDefault(name string, def float64, bound Bound) FieldSpec {
	return FieldSpec{Name: name, Default: &def, Bound: bound}
}

// Fallback returns a spec whose default also replaces out-of-range values.
func Fallback(name string, def float64, bound Bound) FieldSpec {
	return FieldSpec{Name: name, Default: &def, Bound: bound, Lenient: true}
}

// Optional returns a spec for a field that may be left empty.
func Optional(name string, bound Bound) FieldSpec {
	return FieldSpec{Name: name, Bound: bound}
}

// Parse converts raw text according to the spec. The bool result is false
// when an optional field without default was left empty.
func (s FieldSpec) Parse(raw string) (float64, bool, error) {
	text := strings.TrimSpace(raw)

	v, err := parseNumber(text)
	if err != nil {
		if s.Default != nil {
			return *s.Default, true, nil
		}
		if text == "" {
			if s.Required {
				return 0, false, &FieldError{Field: s.Name, Err: ErrMissingField}
			}
			return 0, false, nil
		}
		return 0, false, &FieldError{Field: s.Name, Err: err}
	}

	if err := s.Bound.check(v); err != nil {
		if s.Lenient && s.Default != nil {
			return *s.Default, true, nil
		}
		return 0, false, &FieldError{Field: s.Name, Err: err}
	}
	return v, true, nil
}

// MustHave parses a field and treats an empty optional value as an error.
func (s FieldSpec) MustHave(raw string) (float64, error) {
	v, ok, err := s.Parse(raw)
	if err != nil {
		return 0, err
	}
	if !ok {
		return 0, &FieldError{Field: s.Name, Err: ErrMissingField}
	}
	return v, nil
}

func parseNumber(text string) (float64, error) {
	if text == "" {
		return 0, ErrMissingField
	}
	v, err := strconv.ParseFloat(text, 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, fmt.Errorf("%w: %q", ErrInputParse, text)
	}
	return v, nil
}

// parseCount reads a whole, non-negative count such as days or months. Empty means zero.
func parseCount(name, raw string) (int, error) {
	text := strings.TrimSpace(raw)
	if text == "" {
		return 0, nil
	}
	n, err := strconv.Atoi(text)
	if err != nil {
		return 0, &FieldError{Field: name, Err: fmt.Errorf("%w: %q", ErrInputParse, text)}
	}
	if n < 0 {
		return 0, &FieldError{Field: name, Err: fmt.Errorf("%w: must not be negative", ErrOutOfRange)}
	}
	return n, nil
}

func unavailable(err error) error {
	return fmt.Errorf("%w: %w", ErrUnavailable, err)
}
