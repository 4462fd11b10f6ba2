package breakeven

import (
	"fmt"
	"strings"

	json "github.com/goccy/go-json"
	"github.com/shopspring/decimal"
)

// TableFormatter formats break-even results as a console table
type TableFormatter struct{}

// Format generates a table with one row per scenario
func (tf *TableFormatter) Format(results []Result) string {
	var sb strings.Builder

	sb.WriteString("BREAK-EVEN DRUG PRICING\n")
	sb.WriteString(strings.Repeat("=", 80) + "\n")
	if len(results) > 0 {
		sb.WriteString(fmt.Sprintf("Break-even net price: $%s per treated patient per year\n\n",
			results[0].BreakEvenNetPrice.StringFixed(2)))
	}

	sb.WriteString(fmt.Sprintf("%-22s %12s %10s %12s %16s %12s\n",
		"Scenario", "List Price", "Rebate", "Net Price", "Break-even List", "Req. Rebate"))
	sb.WriteString(strings.Repeat("-", 80) + "\n")

	for _, r := range results {
		breakEvenList := "n/a"
		if r.BreakEvenListPrice != nil {
			breakEvenList = "$" + tf.formatCurrency(*r.BreakEvenListPrice)
		}
		sb.WriteString(fmt.Sprintf("%-22s %12s %10s %12s %16s %12s\n",
			tf.truncate(r.ScenarioName, 22),
			"$"+tf.formatCurrency(r.ListPrice),
			r.RebatePercent.StringFixed(1)+"%",
			"$"+tf.formatCurrency(r.NetPrice),
			breakEvenList,
			r.RequiredRebate.StringFixed(1)+"%"))
	}
	sb.WriteString("\n")

	sb.WriteString("POSITION\n")
	sb.WriteString(strings.Repeat("-", 80) + "\n")
	for _, r := range results {
		status := "net cost"
		if r.SavesMoney() {
			status = "net saving"
		}
		sb.WriteString(fmt.Sprintf("• %s: %s of $%s per treated patient per year before adherence",
			r.ScenarioName, status, tf.formatCurrency(r.Margin.Abs())))
		if r.BreakEvenListPrice != nil && !r.Verified {
			sb.WriteString(fmt.Sprintf(" (residual $%s)", r.Residual.StringFixed(2)))
		}
		sb.WriteString("\n")
	}

	return sb.String()
}

func (tf *TableFormatter) formatCurrency(d decimal.Decimal) string {
	s := d.StringFixed(2)
	intPart, frac, _ := strings.Cut(s, ".")
	neg := strings.HasPrefix(intPart, "-")
	intPart = strings.TrimPrefix(intPart, "-")

	var b strings.Builder
	for i, c := range intPart {
		if i > 0 && (len(intPart)-i)%3 == 0 {
			b.WriteByte(',')
		}
		b.WriteRune(c)
	}
	out := b.String() + "." + frac
	if neg {
		out = "-" + out
	}
	return out
}

func (tf *TableFormatter) truncate(s string, maxLen int) string {
	if len(s) <= maxLen {
		return s
	}
	return s[:maxLen-3] + "..."
}

// JSONFormatter formats results as JSON
type JSONFormatter struct {
	Pretty bool
}

// Format generates JSON output
func (jf *JSONFormatter) Format(results []Result) (string, error) {
	var data []byte
	var err error

	if jf.Pretty {
		data, err = json.MarshalIndent(results, "", "  ")
	} else {
		data, err = json.Marshal(results)
	}
	if err != nil {
		return "", err
	}
	return string(data), nil
}
