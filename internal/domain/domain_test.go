package domain

import (
	"errors"
	"math"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMember_IsEligible(t *testing.T) {
	tests := []struct {
		name   string
		member Member
		want   bool
	}{
		{"obese", Member{BMI: 32}, true},
		{"obese threshold", Member{BMI: 30}, true},
		{"overweight diabetic", Member{BMI: 28, HasDiabetes: true}, true},
		{"overweight threshold diabetic", Member{BMI: 27, HasDiabetes: true}, true},
		{"overweight non-diabetic", Member{BMI: 28}, false},
		{"healthy diabetic", Member{BMI: 22, HasDiabetes: true}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.member.IsEligible())
		})
	}
}

func TestMember_RiskScore(t *testing.T) {
	m := Member{Age: 60, BMI: 30, HasDiabetes: true}
	assert.InDelta(t, 6+6+5, m.RiskScore(), 1e-9)

	m.HasDiabetes = false
	assert.InDelta(t, 12, m.RiskScore(), 1e-9)
}

func TestSex(t *testing.T) {
	assert.Equal(t, "male", SexMale.String())
	assert.Equal(t, "female", SexFemale.String())
	assert.Equal(t, "Sex(3)", Sex(3).String())
	assert.True(t, SexFemale.Valid())
	assert.False(t, Sex(0).Valid())
}

func TestSimulationInputs_UptakeFor(t *testing.T) {
	in := SimulationInputs{UptakeRate: []float64{0.1, 0.2}}

	assert.Equal(t, 0.1, in.UptakeFor(1))
	assert.Equal(t, 0.2, in.UptakeFor(2))
	assert.Zero(t, in.UptakeFor(3), "Missing years have no uptake")
	assert.Zero(t, in.UptakeFor(0))
}

func TestSimulationInputs_NetDrugPrice(t *testing.T) {
	in := SimulationInputs{DrugAnnualCost: 4500, RebatePercent: 25}
	assert.Equal(t, 3375.0, in.NetDrugPrice())
}

func TestSimulationInputs_DeepCopy(t *testing.T) {
	in := DefaultInputs()
	out := in.DeepCopy()
	out.UptakeRate[0] = 0.9

	assert.Equal(t, 0.02, in.UptakeRate[0])
	assert.Len(t, in.UptakeRate, ProjectionYears)
}

func TestValidationError(t *testing.T) {
	err := NewValidationError("rebate_percent", ErrRebateOutOfRange, 110.0)

	assert.ErrorIs(t, err, ErrRebateOutOfRange)
	assert.ErrorIs(t, err, ErrInvalidInputs)
	assert.NotErrorIs(t, err, ErrNegativeCost)
	assert.Contains(t, err.Error(), "rebate_percent")
	assert.Contains(t, err.Error(), "110")

	var vErr *ValidationError
	require.True(t, errors.As(err, &vErr))
	assert.Equal(t, "rebate_out_of_range", vErr.RuleName())
}

func TestValidationError_RuleNames(t *testing.T) {
	rules := map[error]string{
		ErrNegativePopulation: "negative_population",
		ErrNegativeCost:       "negative_cost",
		ErrRebateOutOfRange:   "rebate_out_of_range",
		ErrUptakeLength:       "uptake_length",
		errors.New("other"):   "unknown",
	}
	for rule, name := range rules {
		e := &ValidationError{Field: "f", Rule: rule}
		assert.Equal(t, name, e.RuleName())
	}
}

func TestTotals(t *testing.T) {
	results := []SimulationResult{
		{Year: 1, GrossCost: 100, MedicalOffsets: 40, NetBudgetImpact: 60, CVEventsAvoided: 0.5},
		{Year: 2, GrossCost: 200, MedicalOffsets: 80, NetBudgetImpact: 120, CVEventsAvoided: 1.5},
	}

	totals, err := Totals(results, 10)
	require.NoError(t, err)

	assert.True(t, totals.CumulativeGrossCost.Equal(decimal.NewFromInt(300)))
	assert.True(t, totals.CumulativeMedicalOffsets.Equal(decimal.NewFromInt(120)))
	assert.True(t, totals.CumulativeNetImpact.Equal(decimal.NewFromInt(180)))
	assert.True(t, totals.TotalEventsAvoided.Equal(decimal.NewFromInt(2)))
	assert.True(t, totals.FinalYearNetImpact.Equal(decimal.NewFromInt(120)))
	assert.True(t, totals.FinalYearPMPM.Equal(decimal.NewFromInt(1)), "120 / 10 members / 12 months")
}

func TestTotals_EmptyPlan(t *testing.T) {
	totals, err := Totals([]SimulationResult{{NetBudgetImpact: 50}}, 0)
	require.NoError(t, err)
	assert.True(t, totals.FinalYearPMPM.IsZero())

	empty, err := Totals(nil, 100)
	require.NoError(t, err)
	assert.True(t, empty.CumulativeNetImpact.IsZero())
}

func TestTotals_NonFinite(t *testing.T) {
	tests := []struct {
		name       string
		results    []SimulationResult
		population float64
	}{
		{"infinite gross cost", []SimulationResult{{Year: 1, GrossCost: math.Inf(1), NetBudgetImpact: math.Inf(1)}}, 10},
		{"nan net impact", []SimulationResult{{Year: 2, NetBudgetImpact: math.NaN()}}, 10},
		{"infinite eligible", []SimulationResult{{Year: 1, EligiblePatients: math.Inf(1)}}, 10},
		{"nan uptake", []SimulationResult{{Year: 3, CumulativeUptake: math.NaN()}}, 10},
		{"infinite population", []SimulationResult{{Year: 1}}, math.Inf(1)},
		{"nan population", nil, math.NaN()},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			totals, err := Totals(tt.results, tt.population)
			assert.ErrorIs(t, err, ErrNonFiniteResult)
			assert.Equal(t, ProjectionTotals{}, totals)
		})
	}
}

func TestConfiguration_FindScenario(t *testing.T) {
	cfg := Configuration{Scenarios: []Scenario{{Name: "a"}, {Name: "b"}}}

	s, ok := cfg.FindScenario("b")
	require.True(t, ok)
	assert.Equal(t, "b", s.Name)

	_, ok = cfg.FindScenario("missing")
	assert.False(t, ok)
}

func TestScenarioSummary_FinalYear(t *testing.T) {
	s := ScenarioSummary{}
	_, ok := s.FinalYear()
	assert.False(t, ok)

	s.Results = []SimulationResult{{Year: 1}, {Year: 5}}
	last, ok := s.FinalYear()
	require.True(t, ok)
	assert.Equal(t, 5, last.Year)
}
