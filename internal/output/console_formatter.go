package output

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/rgehrsitz/bia/internal/domain"
)

// ConsoleFormatter prints every scenario's yearly projection as a styled table.
type ConsoleFormatter struct{}

func (c ConsoleFormatter) Name() string { return "console" }

func (c ConsoleFormatter) Format(results *domain.ScenarioComparison) ([]byte, error) {
	reports, err := SummarizeAll(results)
	if err != nil {
		return nil, err
	}
	var buf bytes.Buffer

	fmt.Fprintln(&buf, titleStyle.Render("PAYER BUDGET IMPACT PROJECTION"))
	fmt.Fprintln(&buf, strings.Repeat("=", 100))
	fmt.Fprintf(&buf, "%s %d members\n\n", labelStyle.Render("Representative sample:"), results.SampleSize)

	for i, r := range reports {
		writeScenario(&buf, i+1, r)
	}

	if len(reports) > 1 {
		rec := AnalyzeScenarios(reports)
		fmt.Fprintln(&buf, sectionStyle.Render("RECOMMENDATION"))
		fmt.Fprintf(&buf, "Lowest five year budget impact: %s (%s), %s below the most expensive scenario\n\n",
			rec.ScenarioName, FormatCurrency(rec.CumulativeNetImpact), FormatCurrency(rec.SavingsVsHighest))
	}

	fmt.Fprintln(&buf, sectionStyle.Render("ASSUMPTIONS"))
	for _, a := range assumptionsFor(results) {
		fmt.Fprintf(&buf, "  • %s\n", a)
	}

	return buf.Bytes(), nil
}

func writeScenario(buf *bytes.Buffer, n int, r ScenarioReport) {
	fmt.Fprintln(buf, sectionStyle.Render(fmt.Sprintf("SCENARIO %d: %s", n, r.Name)))
	if r.Description != "" {
		fmt.Fprintf(buf, "%s\n", labelStyle.Render(r.Description))
	}
	in := r.Inputs
	fmt.Fprintf(buf, "Covered lives: %s | List price: %s | Rebate: %s | Net price: %s\n\n",
		decimal.NewFromFloat(in.TargetPopulationSize).StringFixed(0),
		FormatFloatCurrency(in.DrugAnnualCost),
		FormatPercentage(decimal.NewFromFloat(in.RebatePercent)),
		FormatFloatCurrency(in.NetDrugPrice()))

	header := fmt.Sprintf("%-5s %8s %12s %12s %16s %16s %16s %10s",
		"Year", "Uptake", "Eligible", "Treated", "Gross Cost", "Offsets", "Net Impact", "Events")
	fmt.Fprintln(buf, tableHeaderStyle.Render(header))
	fmt.Fprintln(buf, strings.Repeat("-", 100))

	for _, y := range r.Results {
		net := fmt.Sprintf("%16s", FormatFloatCurrency(y.NetBudgetImpact))
		fmt.Fprintf(buf, "%-5d %8s %12.0f %12.0f %16s %16s %s %10.2f\n",
			y.Year,
			FormatPercentage(decimal.NewFromFloat(y.CumulativeUptake).Mul(decimal.NewFromInt(100))),
			y.EligiblePatients,
			y.TreatedPatients,
			FormatFloatCurrency(y.GrossCost),
			FormatFloatCurrency(y.MedicalOffsets),
			netImpactStyle(y.NetBudgetImpact < 0).Render(net),
			y.CVEventsAvoided)
	}

	t := r.Totals
	fmt.Fprintln(buf, strings.Repeat("-", 100))
	fmt.Fprintf(buf, "%s %s   %s %s   %s %s\n\n",
		labelStyle.Render("5-year net impact:"),
		netImpactStyle(t.CumulativeNetImpact.IsNegative()).Render(FormatCurrency(t.CumulativeNetImpact)),
		labelStyle.Render("Events avoided:"),
		t.TotalEventsAvoided.StringFixed(1),
		labelStyle.Render("Year 5 PMPM:"),
		FormatCurrency(t.FinalYearPMPM))
}

// ConsoleLiteFormatter prints one summary line per scenario.
type ConsoleLiteFormatter struct{}

func (c ConsoleLiteFormatter) Name() string { return "console-lite" }

func (c ConsoleLiteFormatter) Format(results *domain.ScenarioComparison) ([]byte, error) {
	reports, err := SummarizeAll(results)
	if err != nil {
		return nil, err
	}
	var buf bytes.Buffer

	fmt.Fprintln(&buf, "BUDGET IMPACT SUMMARY")
	fmt.Fprintln(&buf, strings.Repeat("=", 80))
	fmt.Fprintf(&buf, "%-28s %18s %18s %12s\n", "Scenario", "5yr Net Impact", "Year 5 Net", "Yr5 PMPM")

	for _, r := range reports {
		t := r.Totals
		fmt.Fprintf(&buf, "%-28s %18s %18s %12s\n",
			r.Name,
			FormatCurrency(t.CumulativeNetImpact),
			FormatCurrency(t.FinalYearNetImpact),
			FormatCurrency(t.FinalYearPMPM))
	}

	if len(reports) > 1 {
		rec := AnalyzeScenarios(reports)
		fmt.Fprintf(&buf, "\nRecommended: %s\n", rec.ScenarioName)
	}

	return buf.Bytes(), nil
}
