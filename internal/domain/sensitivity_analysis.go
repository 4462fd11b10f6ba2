package domain

import (
	"github.com/shopspring/decimal"
)

// Parameter names understood by the sensitivity analyzer.
const (
	ParamDrugAnnualCost       = "drug_annual_cost"
	ParamRebatePercent        = "rebate_percent"
	ParamTargetPopulationSize = "target_population_size"
	ParamUptakeScale          = "uptake_scale"
)

// SensitivityParameter represents a parameter to sweep in sensitivity analysis
type SensitivityParameter struct {
	Name        string          `yaml:"name" json:"name"`
	MinValue    decimal.Decimal `yaml:"min_value" json:"min_value"`
	MaxValue    decimal.Decimal `yaml:"max_value" json:"max_value"`
	Steps       int             `yaml:"steps" json:"steps"`
	BaseValue   decimal.Decimal `yaml:"base_value" json:"base_value"`
	Unit        string          `yaml:"unit" json:"unit"` // "dollars", "percent", "members", "multiplier"
	Description string          `yaml:"description" json:"description"`
}

// ParameterSensitivityAnalysis represents a complete parameter sensitivity analysis
type ParameterSensitivityAnalysis struct {
	BaseScenarioName string                 `json:"base_scenario_name"`
	Parameters       []SensitivityParameter `json:"parameters"`
	Results          []SensitivityResult    `json:"results"`
	Summary          SensitivitySummary     `json:"summary"`
	AnalysisType     string                 `json:"analysis_type"` // "single", "multi"
}

// SensitivityResult is one point of a sweep.
type SensitivityResult struct {
	ParameterValues map[string]decimal.Decimal `json:"parameter_values"`
	ScenarioName    string                     `json:"scenario_name"`
	Results         []SimulationResult         `json:"results"`
	KeyMetrics      SensitivityMetrics         `json:"key_metrics"`
}

// SensitivityMetrics are the headline numbers tracked across a sweep.
type SensitivityMetrics struct {
	CumulativeNetImpact decimal.Decimal `json:"cumulative_net_impact"`
	Year5NetImpact      decimal.Decimal `json:"year5_net_impact"`
	TotalEventsAvoided  decimal.Decimal `json:"total_events_avoided"`
	NetImpactChange     decimal.Decimal `json:"net_impact_change"` // vs. the base scenario
}

// SensitivitySummary provides overall analysis summary
type SensitivitySummary struct {
	MostSensitiveParameter string                     `json:"most_sensitive_parameter"`
	Swings                 map[string]decimal.Decimal `json:"swings"` // parameter -> max minus min cumulative impact
	Recommendations        []string                   `json:"recommendations"`
	RiskLevel              string                     `json:"risk_level"` // "LOW", "MEDIUM", "HIGH"
}

// Default sweep ranges cover typical negotiation bounds.
var (
	DrugAnnualCostParam = SensitivityParameter{
		Name:        ParamDrugAnnualCost,
		MinValue:    decimal.NewFromInt(1000),
		MaxValue:    decimal.NewFromInt(15000),
		Steps:       8,
		BaseValue:   decimal.NewFromInt(4500),
		Unit:        "dollars",
		Description: "List price per patient per year before rebates",
	}

	RebatePercentParam = SensitivityParameter{
		Name:        ParamRebatePercent,
		MinValue:    decimal.Zero,
		MaxValue:    decimal.NewFromInt(60),
		Steps:       7,
		BaseValue:   decimal.NewFromInt(25),
		Unit:        "percent",
		Description: "Confidential discount negotiated with the manufacturer",
	}

	TargetPopulationParam = SensitivityParameter{
		Name:        ParamTargetPopulationSize,
		MinValue:    decimal.NewFromInt(10000),
		MaxValue:    decimal.NewFromInt(5000000),
		Steps:       6,
		BaseValue:   decimal.NewFromInt(1000000),
		Unit:        "members",
		Description: "Total covered lives in the plan",
	}

	UptakeScaleParam = SensitivityParameter{
		Name:        ParamUptakeScale,
		MinValue:    decimal.NewFromFloat(0.5),
		MaxValue:    decimal.NewFromFloat(1.5),
		Steps:       5,
		BaseValue:   decimal.NewFromInt(1),
		Unit:        "multiplier",
		Description: "Multiplier applied to every year of the uptake curve",
	}
)

// GetCommonParameters returns a list of common sensitivity parameters
func GetCommonParameters() []SensitivityParameter {
	return []SensitivityParameter{
		DrugAnnualCostParam,
		RebatePercentParam,
		UptakeScaleParam,
	}
}

// DetermineRiskLevel grades the largest swing relative to the base cumulative impact.
func (ss *SensitivitySummary) DetermineRiskLevel(baseImpact decimal.Decimal) string {
	maxSwing := decimal.Zero
	for _, swing := range ss.Swings {
		if swing.GreaterThan(maxSwing) {
			maxSwing = swing
		}
	}
	if baseImpact.IsZero() {
		if maxSwing.IsZero() {
			return "LOW"
		}
		return "HIGH"
	}

	ratio := maxSwing.Div(baseImpact.Abs())
	switch {
	case ratio.LessThan(decimal.NewFromFloat(0.25)):
		return "LOW"
	case ratio.LessThan(decimal.NewFromInt(1)):
		return "MEDIUM"
	default:
		return "HIGH"
	}
}

// GenerateRecommendations generates recommendations based on sensitivity analysis
func (ss *SensitivitySummary) GenerateRecommendations() []string {
	recommendations := []string{}

	switch ss.RiskLevel {
	case "LOW":
		recommendations = append(recommendations, "Budget impact is robust across the swept range")
	case "MEDIUM":
		recommendations = append(recommendations, "Budget impact moves materially across the swept range")
		recommendations = append(recommendations, "Revisit the assumption at each contract renewal")
	case "HIGH":
		recommendations = append(recommendations, "Budget impact is dominated by the swept assumption")
		recommendations = append(recommendations, "Consider presenting a range rather than a point estimate")
	}

	switch ss.MostSensitiveParameter {
	case ParamDrugAnnualCost, ParamRebatePercent:
		recommendations = append(recommendations, "Net price negotiation is the main budget lever")
	case ParamUptakeScale:
		recommendations = append(recommendations, "Consider utilization management to control uptake")
	case ParamTargetPopulationSize:
		recommendations = append(recommendations, "Impact scales linearly with plan size; compare on a PMPM basis")
	}

	return recommendations
}
