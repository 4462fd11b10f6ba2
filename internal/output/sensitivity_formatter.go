package output

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"sort"
	"strings"

	json "github.com/goccy/go-json"
	"github.com/shopspring/decimal"

	"github.com/rgehrsitz/bia/internal/domain"
)

// SensitivityFormatter defines a formatter for sensitivity analysis
type SensitivityFormatter interface {
	FormatSensitivityAnalysis(analysis *domain.ParameterSensitivityAnalysis) (string, error)
	Name() string
}

// SensitivityConsoleFormatter formats sensitivity analysis output for console
type SensitivityConsoleFormatter struct{}

func (scf SensitivityConsoleFormatter) Name() string { return "console" }

func (scf SensitivityConsoleFormatter) FormatSensitivityAnalysis(analysis *domain.ParameterSensitivityAnalysis) (string, error) {
	if len(analysis.Parameters) == 0 || len(analysis.Results) == 0 {
		return "", fmt.Errorf("no parameters or results in analysis")
	}

	var buf bytes.Buffer
	fmt.Fprintf(&buf, "SENSITIVITY ANALYSIS: %s\n", analysis.BaseScenarioName)
	fmt.Fprintln(&buf, strings.Repeat("=", 80))

	for _, param := range analysis.Parameters {
		fmt.Fprintln(&buf)
		fmt.Fprintln(&buf, strings.ToUpper(strings.ReplaceAll(param.Name, "_", " ")))
		fmt.Fprintf(&buf, "Range: %s to %s (%d steps)\n",
			formatParamValue(param, param.MinValue), formatParamValue(param, param.MaxValue), param.Steps)
		if param.Description != "" {
			fmt.Fprintf(&buf, "Description: %s\n", param.Description)
		}
		fmt.Fprintln(&buf)

		fmt.Fprintf(&buf, "%-16s %18s %18s %18s %10s\n",
			"Value", "5yr Net Impact", "Year 5 Net", "Change vs Base", "Events")
		fmt.Fprintln(&buf, strings.Repeat("-", 84))

		for _, result := range analysis.Results {
			value, ok := result.ParameterValues[param.Name]
			if !ok {
				continue
			}
			label := formatParamValue(param, value)
			if value.Equal(param.BaseValue) {
				label += " ← BASE"
			}
			fmt.Fprintf(&buf, "%-16s %18s %18s %18s %10s\n",
				label,
				FormatCurrency(result.KeyMetrics.CumulativeNetImpact),
				FormatCurrency(result.KeyMetrics.Year5NetImpact),
				FormatCurrency(result.KeyMetrics.NetImpactChange),
				result.KeyMetrics.TotalEventsAvoided.StringFixed(1))
		}

		if swing, ok := analysis.Summary.Swings[param.Name]; ok {
			fmt.Fprintf(&buf, "\nSwing in five year net impact: %s\n", FormatCurrency(swing))
		}
	}

	fmt.Fprintln(&buf)
	if analysis.AnalysisType == "multi" {
		fmt.Fprintf(&buf, "MOST SENSITIVE PARAMETER: %s\n", analysis.Summary.MostSensitiveParameter)
	}

	riskEmoji := ""
	switch analysis.Summary.RiskLevel {
	case "LOW":
		riskEmoji = "✅"
	case "MEDIUM":
		riskEmoji = "⚠️"
	case "HIGH":
		riskEmoji = "🔴"
	}
	fmt.Fprintf(&buf, "RISK LEVEL: %s %s\n\n", riskEmoji, analysis.Summary.RiskLevel)

	fmt.Fprintln(&buf, "RECOMMENDATIONS:")
	for _, rec := range analysis.Summary.Recommendations {
		fmt.Fprintf(&buf, "  • %s\n", rec)
	}

	return buf.String(), nil
}

// formatParamValue renders a swept value in its parameter's unit.
func formatParamValue(param domain.SensitivityParameter, v decimal.Decimal) string {
	switch param.Unit {
	case "dollars":
		return FormatCurrency(v)
	case "percent":
		return v.StringFixed(1) + "%"
	case "multiplier":
		return v.StringFixed(2) + "x"
	default:
		return v.StringFixed(0)
	}
}

// SensitivityCSVFormatter formats sensitivity analysis output as CSV
type SensitivityCSVFormatter struct{}

func (scf SensitivityCSVFormatter) Name() string { return "csv" }

func (scf SensitivityCSVFormatter) FormatSensitivityAnalysis(analysis *domain.ParameterSensitivityAnalysis) (string, error) {
	var buf bytes.Buffer
	w := csv.NewWriter(&buf)

	if err := w.Write([]string{
		"parameter_name", "parameter_value", "cumulative_net_impact",
		"year_5_net_impact", "net_impact_change", "total_events_avoided",
	}); err != nil {
		return "", err
	}

	for _, result := range analysis.Results {
		names := make([]string, 0, len(result.ParameterValues))
		for name := range result.ParameterValues {
			names = append(names, name)
		}
		sort.Strings(names)

		for _, name := range names {
			if err := w.Write([]string{
				name,
				result.ParameterValues[name].String(),
				result.KeyMetrics.CumulativeNetImpact.StringFixed(2),
				result.KeyMetrics.Year5NetImpact.StringFixed(2),
				result.KeyMetrics.NetImpactChange.StringFixed(2),
				result.KeyMetrics.TotalEventsAvoided.StringFixed(4),
			}); err != nil {
				return "", err
			}
		}
	}

	w.Flush()
	if err := w.Error(); err != nil {
		return "", err
	}
	return buf.String(), nil
}

// SensitivityJSONFormatter formats sensitivity analysis output as JSON
type SensitivityJSONFormatter struct{}

func (sjf SensitivityJSONFormatter) Name() string { return "json" }

func (sjf SensitivityJSONFormatter) FormatSensitivityAnalysis(analysis *domain.ParameterSensitivityAnalysis) (string, error) {
	data, err := json.MarshalIndent(analysis, "", "  ")
	if err != nil {
		return "", err
	}
	return string(data), nil
}

// NewSensitivityFormatter creates a sensitivity formatter based on the format name
func NewSensitivityFormatter(format string) SensitivityFormatter {
	switch NormalizeFormatName(format) {
	case "console":
		return SensitivityConsoleFormatter{}
	case "csv":
		return SensitivityCSVFormatter{}
	case "json":
		return SensitivityJSONFormatter{}
	default:
		return SensitivityConsoleFormatter{}
	}
}
