package domain

// ProjectionYears is the fixed horizon of every projection.
const ProjectionYears = 5

// ModelConstants holds the fixed clinical and cost parameters of the model.
type ModelConstants struct {
	AcuteMICost           float64 `json:"acute_mi_cost"`             // cost of one acute cardiovascular event
	AdherenceRate         float64 `json:"adherence_rate"`            // fraction of treated patients who stay on therapy
	CVRiskReduction       float64 `json:"cv_risk_reduction"`         // relative risk reduction from treatment
	BaselineCVRiskHighBMI float64 `json:"baseline_cv_risk_high_bmi"` // annual event risk in the eligible cohort
}

// Constants are the CIHI 2024 / Canadian payer reference values. They are not
// configurable.
var Constants = ModelConstants{
	AcuteMICost:           25000,
	AdherenceRate:         0.45,
	CVRiskReduction:       0.20,
	BaselineCVRiskHighBMI: 0.08,
}
