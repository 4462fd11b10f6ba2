package transform

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/rgehrsitz/bia/internal/domain"
)

// ScaleUptake multiplies every year's uptake rate by Factor. Scaled rates
// are capped at Cap, which defaults to 1.
type ScaleUptake struct {
	Factor decimal.Decimal
	Cap    decimal.Decimal
}

func (su *ScaleUptake) Name() string { return "scale_uptake" }

func (su *ScaleUptake) Description() string {
	return fmt.Sprintf("Scale uptake by %sx", su.Factor.String())
}

func (su *ScaleUptake) Validate(base *domain.Scenario) error {
	if su.Factor.IsNegative() {
		return NewTransformError(su.Name(), "validate", fmt.Sprintf("factor cannot be negative, got %s", su.Factor), nil)
	}
	if su.Cap.IsNegative() {
		return NewTransformError(su.Name(), "validate", fmt.Sprintf("cap cannot be negative, got %s", su.Cap), nil)
	}
	if err := requireBase(su.Name(), base); err != nil {
		return err
	}
	for _, rate := range base.Inputs.UptakeRate {
		if err := requireFinite(su.Name(), "uptake rate", rate); err != nil {
			return err
		}
	}
	return nil
}

func (su *ScaleUptake) Apply(base *domain.Scenario) (*domain.Scenario, error) {
	limit := su.Cap
	if limit.IsZero() {
		limit = decimal.NewFromInt(1)
	}

	modified := base.DeepCopy()
	for i, rate := range modified.Inputs.UptakeRate {
		scaled := decimal.Min(decimal.NewFromFloat(rate).Mul(su.Factor), limit)
		modified.Inputs.UptakeRate[i] = scaled.InexactFloat64()
	}
	return modified, nil
}

// SetUptakeCurve replaces the uptake ramp with explicit yearly rates.
type SetUptakeCurve struct {
	Rates []float64
}

func (sc *SetUptakeCurve) Name() string { return "set_uptake_curve" }

func (sc *SetUptakeCurve) Description() string {
	parts := make([]string, len(sc.Rates))
	for i, r := range sc.Rates {
		parts[i] = strconv.FormatFloat(r*100, 'f', 0, 64) + "%"
	}
	return "Set uptake curve to " + strings.Join(parts, ", ")
}

func (sc *SetUptakeCurve) Validate(base *domain.Scenario) error {
	if len(sc.Rates) != domain.ProjectionYears {
		return NewTransformError(sc.Name(), "validate",
			fmt.Sprintf("expected %d yearly rates, got %d", domain.ProjectionYears, len(sc.Rates)), domain.ErrUptakeLength)
	}
	for i, r := range sc.Rates {
		if !(r >= 0 && r <= 1) {
			return NewTransformError(sc.Name(), "validate", fmt.Sprintf("year %d rate must be between 0 and 1, got %g", i+1, r), nil)
		}
	}
	return requireBase(sc.Name(), base)
}

func (sc *SetUptakeCurve) Apply(base *domain.Scenario) (*domain.Scenario, error) {
	modified := base.DeepCopy()
	modified.Inputs.UptakeRate = append([]float64(nil), sc.Rates...)
	return modified, nil
}

// FlattenUptake holds uptake at the final year's rate from year one.
type FlattenUptake struct{}

func (FlattenUptake) Name() string { return "flatten_uptake" }

func (FlattenUptake) Description() string {
	return "Reach steady-state uptake in year 1"
}

func (f FlattenUptake) Validate(base *domain.Scenario) error {
	if err := requireBase(f.Name(), base); err != nil {
		return err
	}
	if len(base.Inputs.UptakeRate) == 0 {
		return NewTransformError(f.Name(), "validate", "base scenario has no uptake curve", domain.ErrUptakeLength)
	}
	return nil
}

func (FlattenUptake) Apply(base *domain.Scenario) (*domain.Scenario, error) {
	modified := base.DeepCopy()
	final := modified.Inputs.UptakeRate[len(modified.Inputs.UptakeRate)-1]
	for i := range modified.Inputs.UptakeRate {
		modified.Inputs.UptakeRate[i] = final
	}
	return modified, nil
}
