package domain

// SimulationInputs is the plan-level scenario configuration for a projection.
type SimulationInputs struct {
	TargetPopulationSize float64   `yaml:"target_population_size" json:"target_population_size"`
	DrugAnnualCost       float64   `yaml:"drug_annual_cost" json:"drug_annual_cost"`
	RebatePercent        float64   `yaml:"rebate_percent" json:"rebate_percent"` // 0-100
	UptakeRate           []float64 `yaml:"uptake_rate" json:"uptake_rate"`       // one fraction per projection year
}

// DefaultInputs returns the reference payer assumptions: a one million member
// plan, a 4,500 list price, a 25% negotiated rebate and a five year uptake ramp.
func DefaultInputs() SimulationInputs {
	return SimulationInputs{
		TargetPopulationSize: 1000000,
		DrugAnnualCost:       4500,
		RebatePercent:        25,
		UptakeRate:           []float64{0.02, 0.05, 0.10, 0.15, 0.20},
	}
}

// UptakeFor returns the uptake fraction for a 1-based projection year.
// Years without an entry have zero uptake.
func (in SimulationInputs) UptakeFor(year int) float64 {
	if year < 1 || year > len(in.UptakeRate) {
		return 0
	}
	return in.UptakeRate[year-1]
}

// NetDrugPrice is the annual list price after the manufacturer rebate.
func (in SimulationInputs) NetDrugPrice() float64 {
	return in.DrugAnnualCost * (1 - in.RebatePercent/100)
}

// DeepCopy returns a copy that shares no backing arrays with in.
func (in SimulationInputs) DeepCopy() SimulationInputs {
	out := in
	if in.UptakeRate != nil {
		out.UptakeRate = make([]float64, len(in.UptakeRate))
		copy(out.UptakeRate, in.UptakeRate)
	}
	return out
}
