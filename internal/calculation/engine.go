package calculation

import (
	"fmt"
	"math"

	"github.com/rgehrsitz/bia/internal/domain"
)

// ProjectionEngine runs the budget impact model. It holds no projection
// state; the same inputs always produce the same results.
type ProjectionEngine struct {
	constants domain.ModelConstants
	Logger    Logger
}

// NewProjectionEngine creates an engine using the fixed model constants.
func NewProjectionEngine() *ProjectionEngine {
	return &ProjectionEngine{
		constants: domain.Constants,
		Logger:    NopLogger{},
	}
}

// Constants returns the model constants the engine projects with.
func (pe *ProjectionEngine) Constants() domain.ModelConstants {
	return pe.constants
}

// SetLogger replaces the engine logger. A nil logger disables logging.
func (pe *ProjectionEngine) SetLogger(l Logger) {
	if l == nil {
		pe.Logger = NopLogger{}
		return
	}
	pe.Logger = l
}

var defaultEngine = NewProjectionEngine()

// ValidateInputs checks inputs with the default engine.
func ValidateInputs(inputs domain.SimulationInputs) error {
	return defaultEngine.ValidateInputs(inputs)
}

// RunProjection runs a projection with the default engine.
func RunProjection(inputs domain.SimulationInputs, sample []domain.Member) ([]domain.SimulationResult, error) {
	return defaultEngine.RunProjection(inputs, sample)
}

// ValidateInputs rejects structurally invalid inputs. The returned error is a
// *domain.ValidationError naming the first violated rule. NaN never passes.
func (pe *ProjectionEngine) ValidateInputs(inputs domain.SimulationInputs) error {
	if inputs.TargetPopulationSize < 0 || math.IsNaN(inputs.TargetPopulationSize) {
		return domain.NewValidationError("target_population_size", domain.ErrNegativePopulation, inputs.TargetPopulationSize)
	}
	if inputs.DrugAnnualCost < 0 || math.IsNaN(inputs.DrugAnnualCost) {
		return domain.NewValidationError("drug_annual_cost", domain.ErrNegativeCost, inputs.DrugAnnualCost)
	}
	if !(inputs.RebatePercent >= 0 && inputs.RebatePercent <= 100) {
		return domain.NewValidationError("rebate_percent", domain.ErrRebateOutOfRange, inputs.RebatePercent)
	}
	if len(inputs.UptakeRate) != domain.ProjectionYears {
		return domain.NewValidationError("uptake_rate", domain.ErrUptakeLength, len(inputs.UptakeRate))
	}
	return nil
}

// RunProjection computes the five year budget impact of covering the drug
// for a plan of inputs.TargetPopulationSize members, extrapolated from sample.
// Either all five yearly results are returned or an error is.
func (pe *ProjectionEngine) RunProjection(inputs domain.SimulationInputs, sample []domain.Member) ([]domain.SimulationResult, error) {
	if err := pe.ValidateInputs(inputs); err != nil {
		return nil, err
	}

	cohort, err := ScaleCohort(inputs.TargetPopulationSize, sample)
	if err != nil {
		return nil, err
	}
	pe.Logger.Debugf("cohort: sample=%d eligible=%d scaling=%.4f total_eligible=%.2f",
		cohort.SampleSize, cohort.EligibleInSample, cohort.ScalingFactor, cohort.TotalEligible)

	results := make([]domain.SimulationResult, 0, domain.ProjectionYears)
	for year := 1; year <= domain.ProjectionYears; year++ {
		r := pe.projectYear(year, cohort.TotalEligible, inputs)
		pe.Logger.Debugf("year %d: treated=%.2f gross=%.2f offsets=%.2f net=%.2f",
			r.Year, r.TreatedPatients, r.GrossCost, r.MedicalOffsets, r.NetBudgetImpact)
		results = append(results, r)
	}

	return results, nil
}

// projectYear applies the per-year cost model. Adherence discounts both the
// drug cost exposure and the averted event credit.
func (pe *ProjectionEngine) projectYear(year int, totalEligible float64, inputs domain.SimulationInputs) domain.SimulationResult {
	c := pe.constants

	uptake := inputs.UptakeFor(year)
	treated := totalEligible * uptake

	grossCost := treated * inputs.NetDrugPrice() * c.AdherenceRate

	eventsAvoided := treated * c.BaselineCVRiskHighBMI * c.CVRiskReduction * c.AdherenceRate
	offsets := eventsAvoided * c.AcuteMICost

	return domain.SimulationResult{
		Year:             year,
		GrossCost:        grossCost,
		MedicalOffsets:   offsets,
		NetBudgetImpact:  grossCost - offsets,
		CumulativeUptake: uptake,
		EligiblePatients: totalEligible,
		TreatedPatients:  treated,
		CVEventsAvoided:  eventsAvoided,
	}
}

// RunScenario projects a single named scenario.
func (pe *ProjectionEngine) RunScenario(scenario *domain.Scenario, sample []domain.Member) (*domain.ScenarioSummary, error) {
	results, err := pe.RunProjection(scenario.Inputs, sample)
	if err != nil {
		return nil, fmt.Errorf("scenario %q: %w", scenario.Name, err)
	}
	return &domain.ScenarioSummary{
		Name:        scenario.Name,
		Description: scenario.Description,
		Inputs:      scenario.Inputs.DeepCopy(),
		Results:     results,
	}, nil
}

// RunScenarios projects every scenario in config against the same sample.
func (pe *ProjectionEngine) RunScenarios(config *domain.Configuration, sample []domain.Member) (*domain.ScenarioComparison, error) {
	if len(config.Scenarios) == 0 {
		return nil, fmt.Errorf("no scenarios provided")
	}

	comparison := &domain.ScenarioComparison{
		Scenarios:   make([]domain.ScenarioSummary, 0, len(config.Scenarios)),
		SampleSize:  len(sample),
		Assumptions: pe.Assumptions(),
	}
	for i := range config.Scenarios {
		summary, err := pe.RunScenario(&config.Scenarios[i], sample)
		if err != nil {
			return nil, err
		}
		comparison.Scenarios = append(comparison.Scenarios, *summary)
	}
	return comparison, nil
}

// Assumptions describes the fixed model parameters in report-ready form.
func (pe *ProjectionEngine) Assumptions() []string {
	c := pe.constants
	return []string{
		fmt.Sprintf("Eligibility: BMI >= %.0f, or BMI >= %.0f with diabetes", domain.ObesityBMIThreshold, domain.OverweightBMIThreshold),
		fmt.Sprintf("Adherence rate: %.0f%% (applied to drug cost and to averted events)", c.AdherenceRate*100),
		fmt.Sprintf("Baseline annual CV event risk: %.0f%%", c.BaselineCVRiskHighBMI*100),
		fmt.Sprintf("Relative CV risk reduction on treatment: %.0f%%", c.CVRiskReduction*100),
		fmt.Sprintf("Cost per acute CV event: $%.0f", c.AcuteMICost),
	}
}
