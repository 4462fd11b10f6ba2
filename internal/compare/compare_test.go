package compare

import (
	"context"
	"strings"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	json "github.com/goccy/go-json"

	"github.com/rgehrsitz/bia/internal/calculation"
	"github.com/rgehrsitz/bia/internal/domain"
)

func testSample() []domain.Member {
	return []domain.Member{
		{ID: 1, Age: 50, Sex: domain.SexMale, BMI: 32},
		{ID: 2, Age: 40, Sex: domain.SexFemale, BMI: 25},
		{ID: 3, Age: 60, Sex: domain.SexMale, BMI: 28, HasDiabetes: true},
		{ID: 4, Age: 30, Sex: domain.SexFemale, BMI: 22},
	}
}

func testConfig() *domain.Configuration {
	flat := domain.SimulationInputs{
		TargetPopulationSize: 1000,
		DrugAnnualCost:       4500,
		RebatePercent:        25,
		UptakeRate:           []float64{0.1, 0.1, 0.1, 0.1, 0.1},
	}
	rebate := flat.DeepCopy()
	rebate.RebatePercent = 40
	return &domain.Configuration{
		Population: domain.PopulationSource{Path: "sample.json"},
		Scenarios: []domain.Scenario{
			{Name: "Baseline", Inputs: flat},
			{Name: "Negotiated", Description: "40% rebate", Inputs: rebate},
		},
	}
}

func dec(t *testing.T, d decimal.Decimal) float64 {
	t.Helper()
	return d.InexactFloat64()
}

func TestMetricsCalculator_CalculateMetrics(t *testing.T) {
	summary, err := calculation.NewProjectionEngine().RunScenario(&testConfig().Scenarios[0], testSample())
	require.NoError(t, err)

	result, err := NewMetricsCalculator().CalculateMetrics(summary)
	require.NoError(t, err)

	assert.Equal(t, "Baseline", result.ScenarioName)
	assert.InDelta(t, 5*75937.5, dec(t, result.CumulativeGrossCost), 1e-6)
	assert.InDelta(t, 5*9000.0, dec(t, result.CumulativeOffsets), 1e-6)
	assert.InDelta(t, 5*66937.5, dec(t, result.CumulativeNetImpact), 1e-6)
	assert.InDelta(t, 1.8, dec(t, result.EventsAvoided), 1e-9)
	assert.InDelta(t, 66937.5, dec(t, result.FinalYearNetImpact), 1e-6)
	assert.InDelta(t, 66937.5/1000/12, dec(t, result.FinalYearPMPM), 1e-9)
	assert.Equal(t, 0.1, result.FinalYearUptake)
	assert.Equal(t, 25.0, result.RebatePercent)
}

func TestMetricsCalculator_CalculateComparison(t *testing.T) {
	mc := NewMetricsCalculator()
	base := ComparisonResult{
		CumulativeNetImpact: decimal.NewFromInt(1000),
		EventsAvoided:       decimal.NewFromInt(2),
		FinalYearPMPM:       decimal.NewFromFloat(1.5),
	}
	alt := ComparisonResult{
		CumulativeNetImpact: decimal.NewFromInt(750),
		EventsAvoided:       decimal.NewFromInt(3),
		FinalYearPMPM:       decimal.NewFromFloat(1.25),
	}

	got := mc.CalculateComparison(alt, base)
	assert.True(t, got.NetImpactDiffFromBase.Equal(decimal.NewFromInt(-250)))
	assert.True(t, got.NetImpactPctFromBase.Equal(decimal.NewFromInt(-25)))
	assert.True(t, got.EventsAvoidedDiff.Equal(decimal.NewFromInt(1)))
	assert.True(t, got.PMPMDiffFromBase.Equal(decimal.NewFromFloat(-0.25)))

	base.CumulativeNetImpact = decimal.Zero
	got = mc.CalculateComparison(alt, base)
	assert.True(t, got.NetImpactPctFromBase.IsZero(), "percent change from a zero base is reported as zero")
}

func TestCompareEngine_CompareWithTemplates(t *testing.T) {
	ce := NewCompareEngine(nil)

	compSet, err := ce.Compare(context.Background(), testConfig(), testSample(), CompareOptions{
		Templates: []string{"deep_rebate", "fast_uptake"},
	})
	require.NoError(t, err)

	assert.Equal(t, "Baseline", compSet.BaseScenarioName)
	assert.Equal(t, 4, compSet.SampleSize)
	require.Len(t, compSet.AlternativeResults, 2)

	rebate := compSet.AlternativeResults[0]
	assert.Equal(t, "Baseline_deep_rebate", rebate.ScenarioName)
	assert.InDelta(t, -5*(75937.5-60750), dec(t, rebate.NetImpactDiffFromBase), 1e-6)
	assert.InDelta(t, 0, dec(t, rebate.EventsAvoidedDiff), 1e-9)

	fast := compSet.AlternativeResults[1]
	assert.Equal(t, "Baseline_fast_uptake", fast.ScenarioName)
	assert.InDelta(t, 0.9, dec(t, fast.EventsAvoidedDiff), 1e-9)
	assert.InDelta(t, 0.15, fast.FinalYearUptake, 1e-12)

	require.Len(t, compSet.Recommendations, 3)
	assert.Contains(t, compSet.Recommendations[0], "Lowest Budget Impact: Baseline_deep_rebate")
	assert.Contains(t, compSet.Recommendations[1], "Most Events Avoided: Baseline_fast_uptake")
	assert.Contains(t, compSet.Recommendations[2], "Lowest Premium Pressure: Baseline_deep_rebate")
	assert.Contains(t, compSet.Recommendations[2], "$4.31")
}

func TestCompareEngine_CompareScenarios(t *testing.T) {
	ce := NewCompareEngine(calculation.NewProjectionEngine())

	compSet, err := ce.CompareScenarios(context.Background(), testConfig(), testSample(), "Baseline", []string{"Negotiated"})
	require.NoError(t, err)
	require.Len(t, compSet.AlternativeResults, 1)
	assert.Equal(t, "Negotiated", compSet.AlternativeResults[0].ScenarioName)
	assert.Equal(t, "40% rebate", compSet.AlternativeResults[0].Description)
	assert.True(t, compSet.AlternativeResults[0].NetImpactDiffFromBase.IsNegative())
}

func TestCompareEngine_CompareWithTransforms(t *testing.T) {
	ce := NewCompareEngine(nil)

	compSet, err := ce.Compare(context.Background(), testConfig(), testSample(), CompareOptions{
		BaseScenarioName: "Baseline",
		Transforms:       []string{"set_drug_cost:cost=0", "set_rebate:percent=0"},
	})
	require.NoError(t, err)
	require.Len(t, compSet.AlternativeResults, 1)

	custom := compSet.AlternativeResults[0]
	assert.Equal(t, "Baseline_custom", custom.ScenarioName)
	assert.Contains(t, custom.Description, "Set annual drug cost to $0.00")
	assert.True(t, custom.CumulativeGrossCost.IsZero())
	assert.True(t, custom.CumulativeNetImpact.IsNegative(), "a free drug is pure savings")
}

func TestCompareEngine_Errors(t *testing.T) {
	ce := NewCompareEngine(nil)
	ctx := context.Background()

	tests := []struct {
		name    string
		config  *domain.Configuration
		sample  []domain.Member
		options CompareOptions
		wantErr string
	}{
		{"no scenarios", &domain.Configuration{}, testSample(), CompareOptions{}, "no scenarios provided"},
		{"unknown base", testConfig(), testSample(), CompareOptions{BaseScenarioName: "Nope"}, "base scenario Nope not found"},
		{"unknown alternative", testConfig(), testSample(), CompareOptions{Scenarios: []string{"Nope"}}, "alternative scenario Nope not found"},
		{"unknown template", testConfig(), testSample(), CompareOptions{Templates: []string{"moonshot"}}, "template moonshot not found"},
		{"bad transform", testConfig(), testSample(), CompareOptions{Transforms: []string{"set_rebate"}}, "invalid transform"},
		{"transform out of range", testConfig(), testSample(), CompareOptions{Transforms: []string{"set_rebate:percent=101"}}, "rebate must be between 0 and 100"},
		{"empty sample", testConfig(), nil, CompareOptions{}, "failed to calculate base scenario"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ce.Compare(ctx, tt.config, tt.sample, tt.options)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}

	_, err := ce.Compare(ctx, testConfig(), nil, CompareOptions{})
	assert.ErrorIs(t, err, domain.ErrEmptyPopulation)
}

func TestCompareEngine_NonFiniteScenario(t *testing.T) {
	config := testConfig()
	overflow := config.Scenarios[0].Inputs.DeepCopy()
	overflow.TargetPopulationSize = 1e308
	overflow.DrugAnnualCost = 1e308
	overflow.RebatePercent = 0
	overflow.UptakeRate = []float64{1, 1, 1, 1, 1}
	config.Scenarios = append(config.Scenarios, domain.Scenario{Name: "Overflow", Inputs: overflow})

	_, err := NewCompareEngine(nil).Compare(context.Background(), config, testSample(), CompareOptions{
		BaseScenarioName: "Baseline",
		Scenarios:        []string{"Overflow"},
	})
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrNonFiniteResult)
	assert.Contains(t, err.Error(), "Overflow")

	_, err = NewCompareEngine(nil).Compare(context.Background(), config, testSample(), CompareOptions{
		BaseScenarioName: "Overflow",
		Scenarios:        []string{"Baseline"},
	})
	assert.ErrorIs(t, err, domain.ErrNonFiniteResult)
}

func TestCompareEngine_Cancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := NewCompareEngine(nil).Compare(ctx, testConfig(), testSample(), CompareOptions{Templates: []string{"no_rebate"}})
	assert.ErrorIs(t, err, context.Canceled)
}

func TestGenerateRecommendations_NoAlternatives(t *testing.T) {
	base := ComparisonResult{ScenarioName: "Baseline"}
	assert.Empty(t, GenerateRecommendations(&ComparisonSet{BaseResult: &base}))
	assert.Empty(t, GenerateRecommendations(&ComparisonSet{}))
}

func TestToScenarioComparison(t *testing.T) {
	compSet, err := NewCompareEngine(nil).Compare(context.Background(), testConfig(), testSample(), CompareOptions{
		Scenarios: []string{"Negotiated"},
	})
	require.NoError(t, err)

	sc := compSet.ToScenarioComparison([]string{"note"})
	require.Len(t, sc.Scenarios, 2)
	assert.Equal(t, "Baseline", sc.Scenarios[0].Name)
	assert.Equal(t, "Negotiated", sc.Scenarios[1].Name)
	assert.Equal(t, 4, sc.SampleSize)
	assert.Equal(t, []string{"note"}, sc.Assumptions)
}

func sampleComparisonSet(t *testing.T) *ComparisonSet {
	t.Helper()
	compSet, err := NewCompareEngine(nil).Compare(context.Background(), testConfig(), testSample(), CompareOptions{
		Templates: []string{"deep_rebate"},
	})
	require.NoError(t, err)
	compSet.ConfigPath = "scenarios.yaml"
	return compSet
}

func TestTableFormatter_Format(t *testing.T) {
	out := (&TableFormatter{}).Format(sampleComparisonSet(t))

	assert.Contains(t, out, "BUDGET IMPACT SCENARIO COMPARISON")
	assert.Contains(t, out, "Base Scenario: Baseline")
	assert.Contains(t, out, "Configuration: scenarios.yaml")
	assert.Contains(t, out, "Baseline (base)")
	assert.Contains(t, out, "$334.7K")
	assert.Contains(t, out, "COMPARISON TO BASE")
	assert.Contains(t, out, "Net Impact:       -$75.9K")
	assert.Contains(t, out, "RECOMMENDATIONS")
}

func TestTableFormatter_Helpers(t *testing.T) {
	tf := &TableFormatter{}
	assert.Equal(t, "1.50M", tf.formatDecimal(decimal.NewFromInt(1500000)))
	assert.Equal(t, "-2.5K", tf.formatDecimal(decimal.NewFromInt(-2500)))
	assert.Equal(t, "999", tf.formatDecimal(decimal.NewFromInt(999)))
	assert.Equal(t, "+", tf.deltaSymbol(decimal.NewFromInt(1)))
	assert.Equal(t, "-", tf.deltaSymbol(decimal.NewFromInt(-1)))
	assert.Equal(t, " ", tf.deltaSymbol(decimal.Zero))
	assert.Equal(t, "abcdefg...", tf.truncate("abcdefghijklmnop", 10))
	assert.Equal(t, "short", tf.truncate("short", 10))
}

func TestTableFormatter_FormatCompact(t *testing.T) {
	out := (&TableFormatter{}).FormatCompact(sampleComparisonSet(t))
	assert.Equal(t, "Base: Baseline | Baseline_deep_rebate: -$75.9K", out)
}

func TestCSVFormatter_Format(t *testing.T) {
	out, err := (&CSVFormatter{}).Format(sampleComparisonSet(t))
	require.NoError(t, err)

	lines := strings.Split(strings.TrimSpace(out), "\n")
	require.Len(t, lines, 3)
	assert.True(t, strings.HasPrefix(lines[0], "Scenario,Type,Drug Annual Cost"))
	assert.True(t, strings.HasPrefix(lines[1], "Baseline,base,4500,25,0.1,"))
	assert.True(t, strings.HasPrefix(lines[2], "Baseline_deep_rebate,alternative,4500,40,0.1,"))
}

func TestJSONFormatter_Format(t *testing.T) {
	compSet := sampleComparisonSet(t)

	for _, pretty := range []bool{false, true} {
		out, err := (&JSONFormatter{Pretty: pretty}).Format(compSet)
		require.NoError(t, err)
		assert.Equal(t, pretty, strings.Contains(out, "\n  "))

		var decoded map[string]any
		require.NoError(t, json.Unmarshal([]byte(out), &decoded))
		assert.Equal(t, "Baseline", decoded["baseScenarioName"])
		assert.Len(t, decoded["alternativeResults"], 1)
	}
}
