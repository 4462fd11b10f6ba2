package output

import (
	json "github.com/goccy/go-json"

	"github.com/rgehrsitz/bia/internal/domain"
)

// JSONFormatter emits every scenario with its totals and the model assumptions.
type JSONFormatter struct {
	Pretty bool
}

func (j JSONFormatter) Name() string { return "json" }

type jsonReport struct {
	SampleSize     int              `json:"sample_size"`
	Scenarios      []ScenarioReport `json:"scenarios"`
	Recommendation string           `json:"recommendation,omitempty"`
	Assumptions    []string         `json:"assumptions"`
}

func (j JSONFormatter) Format(results *domain.ScenarioComparison) ([]byte, error) {
	reports, err := SummarizeAll(results)
	if err != nil {
		return nil, err
	}
	report := jsonReport{
		SampleSize:  results.SampleSize,
		Scenarios:   reports,
		Assumptions: assumptionsFor(results),
	}
	if len(reports) > 1 {
		report.Recommendation = AnalyzeScenarios(reports).ScenarioName
	}

	if j.Pretty {
		return json.MarshalIndent(report, "", "  ")
	}
	return json.Marshal(report)
}
