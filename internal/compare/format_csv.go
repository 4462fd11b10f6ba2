package compare

import (
	"encoding/csv"
	"strconv"
	"strings"
)

// CSVFormatter formats comparison results as CSV
type CSVFormatter struct{}

// Format generates CSV output for comparison results
func (cf *CSVFormatter) Format(compSet *ComparisonSet) (string, error) {
	var sb strings.Builder
	writer := csv.NewWriter(&sb)

	header := []string{
		"Scenario",
		"Type",
		"Drug Annual Cost",
		"Rebate %",
		"Final Year Uptake",
		"Cumulative Gross Cost",
		"Cumulative Offsets",
		"Cumulative Net Impact",
		"Events Avoided",
		"Year 5 PMPM",
		"Net Impact Diff from Base",
		"Net Impact % Change",
		"Events Avoided Diff",
		"PMPM Diff from Base",
	}
	if err := writer.Write(header); err != nil {
		return "", err
	}

	if compSet.BaseResult != nil {
		if err := writer.Write(cf.formatRow(compSet.BaseResult, "base")); err != nil {
			return "", err
		}
	}

	for _, alt := range compSet.AlternativeResults {
		if err := writer.Write(cf.formatRow(&alt, "alternative")); err != nil {
			return "", err
		}
	}

	writer.Flush()
	if err := writer.Error(); err != nil {
		return "", err
	}

	return sb.String(), nil
}

// formatRow formats a comparison result as a CSV row
func (cf *CSVFormatter) formatRow(result *ComparisonResult, scenarioType string) []string {
	return []string{
		result.ScenarioName,
		scenarioType,
		formatFloat(result.DrugAnnualCost),
		formatFloat(result.RebatePercent),
		formatFloat(result.FinalYearUptake),
		result.CumulativeGrossCost.StringFixed(2),
		result.CumulativeOffsets.StringFixed(2),
		result.CumulativeNetImpact.StringFixed(2),
		result.EventsAvoided.StringFixed(2),
		result.FinalYearPMPM.StringFixed(4),
		result.NetImpactDiffFromBase.StringFixed(2),
		result.NetImpactPctFromBase.StringFixed(2),
		result.EventsAvoidedDiff.StringFixed(2),
		result.PMPMDiffFromBase.StringFixed(4),
	}
}

func formatFloat(f float64) string {
	return strconv.FormatFloat(f, 'f', -1, 64)
}
