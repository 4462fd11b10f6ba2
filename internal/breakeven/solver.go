// Package breakeven finds the prices at which a scenario's drug spend is
// exactly offset by averted cardiovascular events.
//
// The model is linear in treated patients, so the threshold has a closed
// form and does not depend on uptake or plan size. Each answer is checked by
// projecting the scenario at the break-even list price.
package breakeven

import (
	"context"
	"fmt"
	"math"

	"github.com/shopspring/decimal"

	"github.com/rgehrsitz/bia/internal/calculation"
	"github.com/rgehrsitz/bia/internal/domain"
)

var hundred = decimal.NewFromInt(100)

// Solver computes break-even prices for scenarios.
type Solver struct {
	CalcEngine *calculation.ProjectionEngine
	Tolerance  decimal.Decimal // largest residual accepted as break-even
}

// NewSolver creates a solver. A nil engine uses the default engine.
func NewSolver(calcEngine *calculation.ProjectionEngine) *Solver {
	if calcEngine == nil {
		calcEngine = calculation.NewProjectionEngine()
	}
	return &Solver{
		CalcEngine: calcEngine,
		Tolerance:  decimal.NewFromInt(1),
	}
}

// BreakEvenNetPrice is baseline risk times risk reduction times event cost.
// Adherence scales cost and offsets alike and cancels out.
func BreakEvenNetPrice(c domain.ModelConstants) decimal.Decimal {
	return decimal.NewFromFloat(c.BaselineCVRiskHighBMI).
		Mul(decimal.NewFromFloat(c.CVRiskReduction)).
		Mul(decimal.NewFromFloat(c.AcuteMICost))
}

// Solve computes the break-even position of one scenario against sample.
func (s *Solver) Solve(scenario *domain.Scenario, sample []domain.Member) (*Result, error) {
	if scenario == nil {
		return nil, &BreakEvenError{Operation: "solve", Message: "scenario cannot be nil"}
	}
	if err := s.CalcEngine.ValidateInputs(scenario.Inputs); err != nil {
		return nil, &BreakEvenError{Operation: "solve", Scenario: scenario.Name, Message: "invalid inputs", Cause: err}
	}
	if math.IsInf(scenario.Inputs.DrugAnnualCost, 0) {
		return nil, &BreakEvenError{Operation: "solve", Scenario: scenario.Name, Message: "invalid inputs",
			Cause: fmt.Errorf("%w: drug annual cost %v", domain.ErrNonFiniteResult, scenario.Inputs.DrugAnnualCost)}
	}

	listPrice := decimal.NewFromFloat(scenario.Inputs.DrugAnnualCost)
	rebate := decimal.NewFromFloat(scenario.Inputs.RebatePercent)
	keep := decimal.NewFromInt(1).Sub(rebate.Div(hundred))
	netPrice := listPrice.Mul(keep)
	breakEven := BreakEvenNetPrice(s.CalcEngine.Constants())

	result := &Result{
		ScenarioName:      scenario.Name,
		ListPrice:         listPrice,
		RebatePercent:     rebate,
		NetPrice:          netPrice,
		BreakEvenNetPrice: breakEven,
		RequiredRebate:    requiredRebate(listPrice, breakEven),
		Margin:            netPrice.Sub(breakEven),
	}

	if keep.IsPositive() {
		listAtBreakEven := breakEven.DivRound(keep, 8)
		result.BreakEvenListPrice = &listAtBreakEven

		inputs := scenario.Inputs.DeepCopy()
		inputs.DrugAnnualCost = listAtBreakEven.InexactFloat64()
		projection, err := s.CalcEngine.RunProjection(inputs, sample)
		if err != nil {
			return nil, &BreakEvenError{Operation: "solve", Scenario: scenario.Name, Message: "verification projection failed", Cause: err}
		}
		totals, err := domain.Totals(projection, inputs.TargetPopulationSize)
		if err != nil {
			return nil, &BreakEvenError{Operation: "solve", Scenario: scenario.Name, Message: "verification projection failed", Cause: err}
		}
		result.Residual = totals.CumulativeNetImpact
		result.Verified = result.Residual.Abs().LessThanOrEqual(s.Tolerance)
	}

	return result, nil
}

// SolveAll solves every scenario in config.
func (s *Solver) SolveAll(ctx context.Context, config *domain.Configuration, sample []domain.Member) ([]Result, error) {
	results := make([]Result, 0, len(config.Scenarios))
	for i := range config.Scenarios {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		r, err := s.Solve(&config.Scenarios[i], sample)
		if err != nil {
			return nil, err
		}
		results = append(results, *r)
	}
	return results, nil
}

func requiredRebate(listPrice, breakEven decimal.Decimal) decimal.Decimal {
	if listPrice.LessThanOrEqual(breakEven) {
		return decimal.Zero
	}
	return decimal.NewFromInt(1).Sub(breakEven.Div(listPrice)).Mul(hundred)
}
