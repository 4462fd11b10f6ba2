package output

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/rgehrsitz/bia/internal/domain"
)

// Formatter renders a scenario comparison in one output format.
type Formatter interface {
	Name() string
	Format(results *domain.ScenarioComparison) ([]byte, error)
}

// FormatterFunc adapts a plain function to Formatter.
type FormatterFunc struct {
	ID string
	F  func(results *domain.ScenarioComparison) ([]byte, error)
}

func (f FormatterFunc) Name() string { return f.ID }

func (f FormatterFunc) Format(results *domain.ScenarioComparison) ([]byte, error) {
	return f.F(results)
}

var formatters = map[string]Formatter{}

var formatAliases = map[string]string{
	"table":       "console",
	"text":        "console",
	"summary":     "console-lite",
	"lite":        "console-lite",
	"csv-summary": "summary-csv",
}

func register(f Formatter) {
	formatters[f.Name()] = f
}

func init() {
	register(ConsoleFormatter{})
	register(ConsoleLiteFormatter{})
	register(CSVFormatter{})
	register(CSVSummarizer{})
	register(JSONFormatter{Pretty: true})
	register(HTMLFormatter{})
}

// NormalizeFormatName lowercases name and resolves aliases.
func NormalizeFormatName(name string) string {
	name = strings.ToLower(strings.TrimSpace(name))
	if canonical, ok := formatAliases[name]; ok {
		return canonical
	}
	return name
}

// GetFormatterByName returns the formatter registered under name or alias,
// or nil when there is none.
func GetFormatterByName(name string) Formatter {
	return formatters[NormalizeFormatName(name)]
}

// AvailableFormatterNames lists registered formatter names in sorted order.
func AvailableFormatterNames() []string {
	names := make([]string, 0, len(formatters))
	for name := range formatters {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// AvailableFormatAliases lists accepted aliases in sorted order.
func AvailableFormatAliases() []string {
	aliases := make([]string, 0, len(formatAliases))
	for alias := range formatAliases {
		aliases = append(aliases, alias)
	}
	sort.Strings(aliases)
	return aliases
}

var extensions = map[string]string{
	"console":      "txt",
	"console-lite": "txt",
	"csv":          "csv",
	"summary-csv":  "csv",
	"json":         "json",
	"html":         "html",
}

// FileExtension returns the report file extension for a formatter name or
// alias, defaulting to txt.
func FileExtension(name string) string {
	if ext, ok := extensions[NormalizeFormatName(name)]; ok {
		return ext
	}
	return "txt"
}

// WriteFormatted renders results with f and writes them to a timestamped
// file in dir, returning the file path. dir is created if missing.
func WriteFormatted(f Formatter, results *domain.ScenarioComparison, dir, ext string) (string, error) {
	data, err := f.Format(results)
	if err != nil {
		return "", err
	}

	if dir == "" {
		dir = "."
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("failed to create output directory %s: %w", dir, err)
	}
	filename := filepath.Join(dir, fmt.Sprintf("budget_impact_report_%s.%s", time.Now().Format("20060102_150405"), ext))
	if err := os.WriteFile(filename, data, 0o644); err != nil {
		return "", fmt.Errorf("failed to write %s: %w", filename, err)
	}
	return filename, nil
}
