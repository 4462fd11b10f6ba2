package output

import (
	"bytes"
	_ "embed"
	"html/template"

	"github.com/shopspring/decimal"

	"github.com/rgehrsitz/bia/internal/domain"
)

// HTMLFormatter produces a standalone HTML report.
type HTMLFormatter struct{}

func (h HTMLFormatter) Name() string { return "html" }

//go:embed templates/report.html.tmpl
var htmlTemplateSource string

var htmlTemplate = template.Must(template.New("report").Funcs(template.FuncMap{
	"curr":  FormatCurrency,
	"fcurr": FormatFloatCurrency,
	"pct":   FormatPercentage,
	"rate": func(f float64) string {
		return FormatPercentage(decimal.NewFromFloat(f))
	},
	"upct": func(f float64) string {
		return FormatPercentage(decimal.NewFromFloat(f).Mul(decimal.NewFromInt(100)))
	},
	"num": func(f float64) string {
		return decimal.NewFromFloat(f).StringFixed(0)
	},
	"events": func(f float64) string {
		return decimal.NewFromFloat(f).StringFixed(2)
	},
	"saving": func(d decimal.Decimal) bool { return d.IsNegative() },
}).Parse(htmlTemplateSource))

func (h HTMLFormatter) Format(results *domain.ScenarioComparison) ([]byte, error) {
	reports, err := SummarizeAll(results)
	if err != nil {
		return nil, err
	}

	data := struct {
		SampleSize     int
		Scenarios      []ScenarioReport
		Recommendation Recommendation
		ShowRecommend  bool
		Assumptions    []string
	}{
		SampleSize:     results.SampleSize,
		Scenarios:      reports,
		Recommendation: AnalyzeScenarios(reports),
		ShowRecommend:  len(reports) > 1,
		Assumptions:    assumptionsFor(results),
	}

	var buf bytes.Buffer
	if err := htmlTemplate.Execute(&buf, data); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
