package output

import (
	"bytes"
	"encoding/csv"
	"strconv"

	"github.com/rgehrsitz/bia/internal/domain"
)

// CSVFormatter writes one row per scenario and projection year.
type CSVFormatter struct{}

func (c CSVFormatter) Name() string { return "csv" }

func (c CSVFormatter) Format(results *domain.ScenarioComparison) ([]byte, error) {
	if _, err := SummarizeAll(results); err != nil {
		return nil, err
	}
	var buf bytes.Buffer
	w := csv.NewWriter(&buf)

	header := []string{
		"scenario", "year", "gross_cost", "medical_offsets", "net_budget_impact",
		"cumulative_uptake", "eligible_patients", "treated_patients", "cv_events_avoided",
	}
	if err := w.Write(header); err != nil {
		return nil, err
	}

	for _, s := range results.Scenarios {
		for _, y := range s.Results {
			row := []string{
				s.Name,
				strconv.Itoa(y.Year),
				fmtFloat(y.GrossCost),
				fmtFloat(y.MedicalOffsets),
				fmtFloat(y.NetBudgetImpact),
				fmtFloat(y.CumulativeUptake),
				fmtFloat(y.EligiblePatients),
				fmtFloat(y.TreatedPatients),
				fmtFloat(y.CVEventsAvoided),
			}
			if err := w.Write(row); err != nil {
				return nil, err
			}
		}
	}

	w.Flush()
	if err := w.Error(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// CSVSummarizer writes one totals row per scenario.
type CSVSummarizer struct{}

func (c CSVSummarizer) Name() string { return "summary-csv" }

func (c CSVSummarizer) Format(results *domain.ScenarioComparison) ([]byte, error) {
	reports, err := SummarizeAll(results)
	if err != nil {
		return nil, err
	}
	var buf bytes.Buffer
	w := csv.NewWriter(&buf)

	header := []string{
		"scenario", "target_population_size", "drug_annual_cost", "rebate_percent",
		"cumulative_gross_cost", "cumulative_medical_offsets", "cumulative_net_impact",
		"total_events_avoided", "final_year_net_impact", "final_year_pmpm",
	}
	if err := w.Write(header); err != nil {
		return nil, err
	}

	for _, r := range reports {
		t := r.Totals
		row := []string{
			r.Name,
			fmtFloat(r.Inputs.TargetPopulationSize),
			fmtFloat(r.Inputs.DrugAnnualCost),
			fmtFloat(r.Inputs.RebatePercent),
			t.CumulativeGrossCost.StringFixed(2),
			t.CumulativeMedicalOffsets.StringFixed(2),
			t.CumulativeNetImpact.StringFixed(2),
			t.TotalEventsAvoided.StringFixed(4),
			t.FinalYearNetImpact.StringFixed(2),
			t.FinalYearPMPM.StringFixed(4),
		}
		if err := w.Write(row); err != nil {
			return nil, err
		}
	}

	w.Flush()
	if err := w.Error(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func fmtFloat(f float64) string {
	return strconv.FormatFloat(f, 'f', -1, 64)
}
