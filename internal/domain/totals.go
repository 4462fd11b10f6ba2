package domain

import (
	"fmt"
	"math"

	"github.com/shopspring/decimal"
)

var decimalTwelve = decimal.NewFromInt(12)

// ProjectionTotals are the headline figures derived from a five year projection.
type ProjectionTotals struct {
	CumulativeGrossCost      decimal.Decimal `json:"cumulative_gross_cost"`
	CumulativeMedicalOffsets decimal.Decimal `json:"cumulative_medical_offsets"`
	CumulativeNetImpact      decimal.Decimal `json:"cumulative_net_impact"`
	TotalEventsAvoided       decimal.Decimal `json:"total_events_avoided"`
	FinalYearNetImpact       decimal.Decimal `json:"final_year_net_impact"`
	FinalYearPMPM            decimal.Decimal `json:"final_year_pmpm"` // net impact per member per month
}

// Totals sums a projection. PMPM is the final year's net impact spread over
// every covered member for twelve months; it is zero for an empty plan.
// Results holding NaN or an infinity return ErrNonFiniteResult.
func Totals(results []SimulationResult, populationSize float64) (ProjectionTotals, error) {
	var t ProjectionTotals
	if !finite(populationSize) {
		return t, fmt.Errorf("%w: population size %v", ErrNonFiniteResult, populationSize)
	}
	for _, r := range results {
		if err := r.checkFinite(); err != nil {
			return ProjectionTotals{}, err
		}
		t.CumulativeGrossCost = t.CumulativeGrossCost.Add(decimal.NewFromFloat(r.GrossCost))
		t.CumulativeMedicalOffsets = t.CumulativeMedicalOffsets.Add(decimal.NewFromFloat(r.MedicalOffsets))
		t.CumulativeNetImpact = t.CumulativeNetImpact.Add(decimal.NewFromFloat(r.NetBudgetImpact))
		t.TotalEventsAvoided = t.TotalEventsAvoided.Add(decimal.NewFromFloat(r.CVEventsAvoided))
	}
	if len(results) == 0 {
		return t, nil
	}

	t.FinalYearNetImpact = decimal.NewFromFloat(results[len(results)-1].NetBudgetImpact)
	if populationSize > 0 {
		t.FinalYearPMPM = t.FinalYearNetImpact.Div(decimal.NewFromFloat(populationSize)).Div(decimalTwelve)
	}
	return t, nil
}

func (r SimulationResult) checkFinite() error {
	fields := []struct {
		name  string
		value float64
	}{
		{"gross_cost", r.GrossCost},
		{"medical_offsets", r.MedicalOffsets},
		{"net_budget_impact", r.NetBudgetImpact},
		{"cumulative_uptake", r.CumulativeUptake},
		{"eligible_patients", r.EligiblePatients},
		{"treated_patients", r.TreatedPatients},
		{"cv_events_avoided", r.CVEventsAvoided},
	}
	for _, f := range fields {
		if !finite(f.value) {
			return fmt.Errorf("%w: year %d %s is %v", ErrNonFiniteResult, r.Year, f.name, f.value)
		}
	}
	return nil
}

func finite(f float64) bool {
	return !math.IsNaN(f) && !math.IsInf(f, 0)
}
