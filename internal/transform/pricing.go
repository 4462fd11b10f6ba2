package transform

import (
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/rgehrsitz/bia/internal/domain"
)

var hundred = decimal.NewFromInt(100)

// SetDrugCost replaces the annual list price of the drug.
type SetDrugCost struct {
	Cost decimal.Decimal
}

func (sc *SetDrugCost) Name() string { return "set_drug_cost" }

func (sc *SetDrugCost) Description() string {
	return fmt.Sprintf("Set annual drug cost to $%s", sc.Cost.StringFixed(2))
}

func (sc *SetDrugCost) Validate(base *domain.Scenario) error {
	if sc.Cost.IsNegative() {
		return NewTransformError(sc.Name(), "validate", fmt.Sprintf("cost cannot be negative, got %s", sc.Cost), nil)
	}
	return requireBase(sc.Name(), base)
}

func (sc *SetDrugCost) Apply(base *domain.Scenario) (*domain.Scenario, error) {
	modified := base.DeepCopy()
	modified.Inputs.DrugAnnualCost = sc.Cost.InexactFloat64()
	return modified, nil
}

// ScaleDrugCost multiplies the list price, e.g. 0.8 for a 20% price cut.
type ScaleDrugCost struct {
	Factor decimal.Decimal
}

func (sc *ScaleDrugCost) Name() string { return "scale_drug_cost" }

func (sc *ScaleDrugCost) Description() string {
	change := sc.Factor.Sub(decimal.NewFromInt(1)).Mul(hundred)
	return fmt.Sprintf("Change annual drug cost by %s%%", change.StringFixed(0))
}

func (sc *ScaleDrugCost) Validate(base *domain.Scenario) error {
	if sc.Factor.IsNegative() {
		return NewTransformError(sc.Name(), "validate", fmt.Sprintf("factor cannot be negative, got %s", sc.Factor), nil)
	}
	if err := requireBase(sc.Name(), base); err != nil {
		return err
	}
	return requireFinite(sc.Name(), "drug annual cost", base.Inputs.DrugAnnualCost)
}

func (sc *ScaleDrugCost) Apply(base *domain.Scenario) (*domain.Scenario, error) {
	modified := base.DeepCopy()
	cost := decimal.NewFromFloat(base.Inputs.DrugAnnualCost).Mul(sc.Factor)
	modified.Inputs.DrugAnnualCost = cost.InexactFloat64()
	return modified, nil
}

// SetRebate replaces the negotiated manufacturer rebate percentage.
type SetRebate struct {
	Percent decimal.Decimal // 0-100
}

func (sr *SetRebate) Name() string { return "set_rebate" }

func (sr *SetRebate) Description() string {
	return fmt.Sprintf("Set manufacturer rebate to %s%%", sr.Percent.StringFixed(1))
}

func (sr *SetRebate) Validate(base *domain.Scenario) error {
	if sr.Percent.IsNegative() || sr.Percent.GreaterThan(hundred) {
		return NewTransformError(sr.Name(), "validate", fmt.Sprintf("rebate must be between 0 and 100, got %s", sr.Percent), nil)
	}
	return requireBase(sr.Name(), base)
}

func (sr *SetRebate) Apply(base *domain.Scenario) (*domain.Scenario, error) {
	modified := base.DeepCopy()
	modified.Inputs.RebatePercent = sr.Percent.InexactFloat64()
	return modified, nil
}

// SetPopulationSize changes the number of covered members.
type SetPopulationSize struct {
	Size decimal.Decimal
}

func (sp *SetPopulationSize) Name() string { return "set_population" }

func (sp *SetPopulationSize) Description() string {
	return fmt.Sprintf("Set covered population to %s members", sp.Size.StringFixed(0))
}

func (sp *SetPopulationSize) Validate(base *domain.Scenario) error {
	if sp.Size.IsNegative() {
		return NewTransformError(sp.Name(), "validate", fmt.Sprintf("population cannot be negative, got %s", sp.Size), nil)
	}
	return requireBase(sp.Name(), base)
}

func (sp *SetPopulationSize) Apply(base *domain.Scenario) (*domain.Scenario, error) {
	modified := base.DeepCopy()
	modified.Inputs.TargetPopulationSize = sp.Size.InexactFloat64()
	return modified, nil
}
