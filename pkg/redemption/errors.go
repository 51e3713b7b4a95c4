package redemption

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidInput is wrapped by every ValidationError raised for a
	// calculation input.
	ErrInvalidInput = errors.New("invalid numeric input")

	// ErrInvalidConstants is wrapped by every ValidationError raised for the
	// scheme constants.
	ErrInvalidConstants = errors.New("invalid scheme constants")
)

// ValidationError names the first field that failed validation. No
// computation is performed once one is returned.
type ValidationError struct {
	Field string
	Rule  string
	Param string
	Value float64
	kind  error
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%v: %s %s (got %v)", e.kind, e.Field, e.describe(), e.Value)
}

// Unwrap exposes ErrInvalidInput or ErrInvalidConstants to errors.Is.
func (e *ValidationError) Unwrap() error {
	return e.kind
}

func (e *ValidationError) describe() string {
	switch e.Rule {
	case "finite":
		return "must be a finite number"
	case "gt":
		return "must be greater than " + e.Param
	case "gte":
		return "must be at least " + e.Param
	case "lte":
		return "must be at most " + e.Param
	case ruleRange:
		return "is too large to price"
	case ruleCapRange:
		return "must be between 0 and 100 for premature redemption"
	default:
		return "failed " + e.Rule
	}
}
