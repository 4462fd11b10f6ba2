package domain

// SimulationResult is the projected budget impact for a single year.
type SimulationResult struct {
	Year             int     `json:"year"`
	GrossCost        float64 `json:"gross_cost"`
	MedicalOffsets   float64 `json:"medical_offsets"`
	NetBudgetImpact  float64 `json:"net_budget_impact"` // negative means net savings
	CumulativeUptake float64 `json:"cumulative_uptake"`
	EligiblePatients float64 `json:"eligible_patients"`
	TreatedPatients  float64 `json:"treated_patients"`
	CVEventsAvoided  float64 `json:"cv_events_avoided"`
}

// ScenarioSummary bundles a named scenario with its projection.
type ScenarioSummary struct {
	Name        string             `json:"name"`
	Description string             `json:"description,omitempty"`
	Inputs      SimulationInputs   `json:"inputs"`
	Results     []SimulationResult `json:"results"`
}

// FinalYear returns the last projected year, or false when there are no results.
func (s *ScenarioSummary) FinalYear() (SimulationResult, bool) {
	if len(s.Results) == 0 {
		return SimulationResult{}, false
	}
	return s.Results[len(s.Results)-1], true
}

// ScenarioComparison holds every scenario run from a configuration.
type ScenarioComparison struct {
	Scenarios   []ScenarioSummary `json:"scenarios"`
	SampleSize  int               `json:"sample_size"`
	Assumptions []string          `json:"assumptions"`
}
