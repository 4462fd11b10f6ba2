package domain

import (
	"errors"
	"fmt"
)

// ErrInvalidInputs matches every *ValidationError.
var ErrInvalidInputs = errors.New("invalid simulation inputs")

// Validation rules. Each *ValidationError matches exactly one of these with errors.Is.
var (
	ErrNegativePopulation = errors.New("population size must not be negative")
	ErrNegativeCost       = errors.New("drug annual cost must not be negative")
	ErrRebateOutOfRange   = errors.New("rebate percent must be between 0 and 100")
	ErrUptakeLength       = errors.New("uptake rate must be defined for exactly 5 years")
)

// ErrEmptyPopulation is returned when a projection is asked to scale an empty
// sample; the scaling factor would be a division by zero.
var ErrEmptyPopulation = errors.New("population sample is empty: cannot derive scaling factor")

// ErrNonFiniteResult is returned when a projection overflows or produces NaN.
var ErrNonFiniteResult = errors.New("projection produced a non-finite value")

// ValidationError identifies the field and rule a SimulationInputs violated.
type ValidationError struct {
	Field string
	Rule  error
	Value any
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s (%v): %v", e.Field, e.Value, e.Rule)
}

// Unwrap exposes both the specific rule and ErrInvalidInputs.
func (e *ValidationError) Unwrap() []error {
	return []error{e.Rule, ErrInvalidInputs}
}

// RuleName returns a stable identifier for the violated rule.
func (e *ValidationError) RuleName() string {
	switch e.Rule {
	case ErrNegativePopulation:
		return "negative_population"
	case ErrNegativeCost:
		return "negative_cost"
	case ErrRebateOutOfRange:
		return "rebate_out_of_range"
	case ErrUptakeLength:
		return "uptake_length"
	default:
		return "unknown"
	}
}

// NewValidationError creates a ValidationError for field.
func NewValidationError(field string, rule error, value any) error {
	return &ValidationError{Field: field, Rule: rule, Value: value}
}
