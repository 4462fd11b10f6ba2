package integration

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rgehrsitz/bia/internal/breakeven"
	"github.com/rgehrsitz/bia/internal/calculation"
	"github.com/rgehrsitz/bia/internal/compare"
	"github.com/rgehrsitz/bia/internal/config"
	"github.com/rgehrsitz/bia/internal/domain"
	"github.com/rgehrsitz/bia/internal/output"
	"github.com/rgehrsitz/bia/internal/population"
)

const exampleConfig = "../../examples/scenarios.yaml"

func loadExample(t *testing.T) (*domain.Configuration, []domain.Member) {
	t.Helper()
	cfg, err := config.NewInputParser().LoadFromFile(exampleConfig)
	require.NoError(t, err)

	sample, err := population.Load(cfg.Population.Path)
	require.NoError(t, err)
	return cfg, sample
}

func TestExampleProjection(t *testing.T) {
	cfg, sample := loadExample(t)
	require.Len(t, cfg.Scenarios, 4)

	results, err := calculation.NewProjectionEngine().RunScenarios(cfg, sample)
	require.NoError(t, err)
	require.Len(t, results.Scenarios, 4)

	stats := population.Describe(sample)
	wantEligible := float64(stats.Eligible) * 1000000 / float64(stats.Count)

	totals := map[string]domain.ProjectionTotals{}
	for _, s := range results.Scenarios {
		require.Len(t, s.Results, domain.ProjectionYears, s.Name)
		for i, r := range s.Results {
			assert.Equal(t, i+1, r.Year)
			assert.InDelta(t, wantEligible, r.EligiblePatients, 1e-6, s.Name)
			assert.InDelta(t, r.GrossCost-r.MedicalOffsets, r.NetBudgetImpact, 1e-6, s.Name)
		}
		sum, err := domain.Totals(s.Results, s.Inputs.TargetPopulationSize)
		require.NoError(t, err, s.Name)
		totals[s.Name] = sum
	}

	baseline := totals["Baseline"].CumulativeNetImpact
	assert.True(t, totals["Deep Rebate"].CumulativeNetImpact.LessThan(baseline))
	assert.True(t, totals["Fast Uptake"].CumulativeNetImpact.GreaterThan(baseline))
	assert.True(t, totals["Generic Entry"].CumulativeNetImpact.LessThan(totals["Deep Rebate"].CumulativeNetImpact))
}

func TestExampleProjectionIsDeterministic(t *testing.T) {
	cfg, sample := loadExample(t)
	engine := calculation.NewProjectionEngine()

	first, err := engine.RunScenarios(cfg, sample)
	require.NoError(t, err)
	second, err := engine.RunScenarios(cfg, sample)
	require.NoError(t, err)
	assert.Equal(t, first, second)
}

func TestCSVAndJSONSamplesAgree(t *testing.T) {
	_, sample := loadExample(t)

	csvSample, err := population.Load(filepath.Join("..", "..", "data", "population_sample.csv"))
	require.NoError(t, err)
	require.NotEmpty(t, csvSample)
	require.LessOrEqual(t, len(csvSample), len(sample))

	for i, m := range csvSample {
		assert.Equal(t, sample[i], m, "member %d", m.ID)
	}
}

func TestExampleReports(t *testing.T) {
	cfg, sample := loadExample(t)
	results, err := calculation.NewProjectionEngine().RunScenarios(cfg, sample)
	require.NoError(t, err)

	for _, name := range output.AvailableFormatterNames() {
		t.Run(name, func(t *testing.T) {
			data, err := output.GetFormatterByName(name).Format(results)
			require.NoError(t, err)
			assert.NotEmpty(t, data)
		})
	}
}

func TestExampleComparison(t *testing.T) {
	cfg, sample := loadExample(t)

	set, err := compare.NewCompareEngine(nil).Compare(context.Background(), cfg, sample, compare.CompareOptions{
		Scenarios:  []string{"Deep Rebate", "Generic Entry"},
		Templates:  []string{"fast_uptake", "price_cut_20"},
		Transforms: []string{"set_rebate:percent=30"},
	})
	require.NoError(t, err)
	assert.Equal(t, "Baseline", set.BaseScenarioName)
	assert.Len(t, set.AlternativeResults, 5)
	assert.NotEmpty(t, set.Recommendations)

	table := (&compare.TableFormatter{}).Format(set)
	assert.Contains(t, table, "Baseline_fast_uptake")
	assert.Contains(t, table, "Baseline_custom")
}

func TestExampleSensitivity(t *testing.T) {
	cfg, sample := loadExample(t)

	analysis, err := calculation.NewSensitivityAnalyzer(nil).AnalyzeMultipleParameters(
		&cfg.Scenarios[0], domain.GetCommonParameters(), sample)
	require.NoError(t, err)
	assert.Equal(t, "multi", analysis.AnalysisType)
	assert.NotEmpty(t, analysis.Summary.MostSensitiveParameter)
}

func TestExampleBreakEven(t *testing.T) {
	cfg, sample := loadExample(t)

	results, err := breakeven.NewSolver(nil).SolveAll(context.Background(), cfg, sample)
	require.NoError(t, err)
	require.Len(t, results, len(cfg.Scenarios))
	for _, r := range results {
		assert.True(t, r.Verified, "%s residual %s", r.ScenarioName, r.Residual)
	}
}
