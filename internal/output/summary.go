package output

import (
	"fmt"
	"math"

	"github.com/shopspring/decimal"

	"github.com/rgehrsitz/bia/internal/calculation"
	"github.com/rgehrsitz/bia/internal/domain"
)

// ScenarioReport is a projected scenario together with its headline totals.
type ScenarioReport struct {
	Name        string                    `json:"name"`
	Description string                    `json:"description,omitempty"`
	Inputs      domain.SimulationInputs   `json:"inputs"`
	Results     []domain.SimulationResult `json:"results"`
	Totals      domain.ProjectionTotals   `json:"totals"`
}

// Summarize attaches totals to a scenario summary. A projection that
// overflowed returns domain.ErrNonFiniteResult.
func Summarize(s domain.ScenarioSummary) (ScenarioReport, error) {
	totals, err := domain.Totals(s.Results, s.Inputs.TargetPopulationSize)
	if err != nil {
		return ScenarioReport{}, fmt.Errorf("scenario %q: %w", s.Name, err)
	}
	return ScenarioReport{
		Name:        s.Name,
		Description: s.Description,
		Inputs:      s.Inputs,
		Results:     s.Results,
		Totals:      totals,
	}, nil
}

// SummarizeAll summarizes every scenario of a comparison in order. It fails
// before anything is rendered if any scenario cannot be totalled.
func SummarizeAll(results *domain.ScenarioComparison) ([]ScenarioReport, error) {
	if results == nil {
		return nil, nil
	}
	reports := make([]ScenarioReport, 0, len(results.Scenarios))
	for _, s := range results.Scenarios {
		r, err := Summarize(s)
		if err != nil {
			return nil, err
		}
		if !finiteInputs(s.Inputs) {
			return nil, fmt.Errorf("scenario %q: %w: inputs", s.Name, domain.ErrNonFiniteResult)
		}
		reports = append(reports, r)
	}
	return reports, nil
}

func finiteInputs(in domain.SimulationInputs) bool {
	values := append([]float64{in.TargetPopulationSize, in.DrugAnnualCost, in.RebatePercent}, in.UptakeRate...)
	for _, v := range values {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return false
		}
	}
	return true
}

// Recommendation names the scenario with the lowest five year net impact.
type Recommendation struct {
	ScenarioName        string
	CumulativeNetImpact decimal.Decimal
	SavingsVsHighest    decimal.Decimal
}

// AnalyzeScenarios picks the cheapest scenario for the payer. The zero value
// is returned when there are no scenarios.
func AnalyzeScenarios(reports []ScenarioReport) Recommendation {
	var rec Recommendation
	if len(reports) == 0 {
		return rec
	}

	var highest decimal.Decimal
	for i, r := range reports {
		impact := r.Totals.CumulativeNetImpact
		if i == 0 || impact.LessThan(rec.CumulativeNetImpact) {
			rec.ScenarioName = r.Name
			rec.CumulativeNetImpact = impact
		}
		if i == 0 || impact.GreaterThan(highest) {
			highest = impact
		}
	}
	rec.SavingsVsHighest = highest.Sub(rec.CumulativeNetImpact)
	return rec
}

// assumptionsFor returns the comparison's assumptions, falling back to the
// engine defaults.
func assumptionsFor(results *domain.ScenarioComparison) []string {
	if len(results.Assumptions) > 0 {
		return results.Assumptions
	}
	return calculation.NewProjectionEngine().Assumptions()
}

// FormatCurrency formats a decimal as currency
func FormatCurrency(amount decimal.Decimal) string {
	if amount.IsNegative() {
		return "-$" + addThousands(amount.Abs().StringFixed(2))
	}
	return "$" + addThousands(amount.StringFixed(2))
}

// FormatPercentage formats a decimal as percentage
func FormatPercentage(amount decimal.Decimal) string {
	return amount.StringFixed(2) + "%"
}

// FormatFloatCurrency formats an engine value as currency.
func FormatFloatCurrency(amount float64) string {
	return FormatCurrency(decimal.NewFromFloat(amount))
}

// addThousands inserts comma separators into an unsigned fixed-point string.
func addThousands(s string) string {
	intPart, frac := s, ""
	for i := 0; i < len(s); i++ {
		if s[i] == '.' {
			intPart, frac = s[:i], s[i:]
			break
		}
	}
	if len(intPart) <= 3 {
		return s
	}

	out := make([]byte, 0, len(intPart)+len(intPart)/3+len(frac))
	lead := len(intPart) % 3
	if lead > 0 {
		out = append(out, intPart[:lead]...)
	}
	for i := lead; i < len(intPart); i += 3 {
		if len(out) > 0 {
			out = append(out, ',')
		}
		out = append(out, intPart[i:i+3]...)
	}
	return string(out) + frac
}
