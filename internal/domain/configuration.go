package domain

// Scenario is a named set of plan assumptions.
type Scenario struct {
	Name        string           `yaml:"name" json:"name"`
	Description string           `yaml:"description,omitempty" json:"description,omitempty"`
	Inputs      SimulationInputs `yaml:"inputs" json:"inputs"`
}

// PopulationSource says where the representative sample comes from. Exactly
// one of Path or DatabaseURL is expected.
type PopulationSource struct {
	Path        string `yaml:"path,omitempty" json:"path,omitempty"`               // .json or .csv file
	DatabaseURL string `yaml:"database_url,omitempty" json:"database_url,omitempty"` // postgres DSN
}

// Configuration is the top-level scenario file.
type Configuration struct {
	Population PopulationSource `yaml:"population" json:"population"`
	Scenarios  []Scenario       `yaml:"scenarios" json:"scenarios"`
}

// FindScenario returns the scenario with the given name.
func (c *Configuration) FindScenario(name string) (*Scenario, bool) {
	for i := range c.Scenarios {
		if c.Scenarios[i].Name == name {
			return &c.Scenarios[i], true
		}
	}
	return nil, false
}

// DeepCopy returns a scenario that shares no state with s.
func (s *Scenario) DeepCopy() *Scenario {
	if s == nil {
		return nil
	}
	out := *s
	out.Inputs = s.Inputs.DeepCopy()
	return &out
}
