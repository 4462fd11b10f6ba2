package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/rgehrsitz/bia/internal/compare"
	"github.com/rgehrsitz/bia/internal/transform"
)

var compareCmd = &cobra.Command{
	Use:   "compare [input-file]",
	Short: "Compare budget impact scenarios against a base",
	Long: `Compare a base scenario against other configured scenarios, built-in
templates, or custom transforms.

Examples:
  bia compare scenarios.yaml --base Baseline --templates deep_rebate,fast_uptake
  bia compare scenarios.yaml --scenarios "Deep Rebate" --format csv
  bia compare scenarios.yaml --transform set_rebate:percent=40 --transform scale_uptake:factor=1.2
  bia compare --list-templates
`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if listTemplates, _ := cmd.Flags().GetBool("list-templates"); listTemplates {
			fmt.Fprint(cmd.OutOrStdout(), transform.GetTemplateHelp(transform.CreateBuiltInTemplates()))
			return nil
		}

		if len(args) == 0 {
			return fmt.Errorf("input file required for comparison (use --list-templates to see available templates)")
		}
		inputFile := args[0]

		cfg, sample, err := loadConfig(cmd.Context(), inputFile)
		if err != nil {
			return err
		}

		baseScenarioName, _ := cmd.Flags().GetString("base")
		scenariosStr, _ := cmd.Flags().GetString("scenarios")
		templatesStr, _ := cmd.Flags().GetString("templates")
		transforms, _ := cmd.Flags().GetStringArray("transform")
		outputFormat, _ := cmd.Flags().GetString("format")
		debugMode, _ := cmd.Flags().GetBool("debug")

		options := compare.CompareOptions{
			BaseScenarioName: baseScenarioName,
			Scenarios:        transform.ParseTemplateList(scenariosStr),
			Templates:        transform.ParseTemplateList(templatesStr),
			Transforms:       transforms,
		}
		if len(options.Scenarios)+len(options.Templates)+len(options.Transforms) == 0 {
			// every other configured scenario
			base := baseScenarioName
			if base == "" {
				base = cfg.Scenarios[0].Name
			}
			for _, s := range cfg.Scenarios {
				if s.Name != base {
					options.Scenarios = append(options.Scenarios, s.Name)
				}
			}
		}
		if len(options.Scenarios)+len(options.Templates)+len(options.Transforms) == 0 {
			return fmt.Errorf("nothing to compare: add scenarios to %s or pass --scenarios, --templates or --transform", inputFile)
		}

		compareEngine := compare.NewCompareEngine(newEngine(debugMode))
		comparisonSet, err := compareEngine.Compare(cmd.Context(), cfg, sample, options)
		if err != nil {
			return fmt.Errorf("comparison failed: %w", err)
		}
		comparisonSet.ConfigPath = inputFile

		out := cmd.OutOrStdout()
		switch strings.ToLower(outputFormat) {
		case "csv":
			formatter := &compare.CSVFormatter{}
			s, err := formatter.Format(comparisonSet)
			if err != nil {
				return fmt.Errorf("failed to format CSV: %w", err)
			}
			fmt.Fprint(out, s)

		case "json":
			formatter := &compare.JSONFormatter{Pretty: true}
			s, err := formatter.Format(comparisonSet)
			if err != nil {
				return fmt.Errorf("failed to format JSON: %w", err)
			}
			fmt.Fprint(out, s)

		case "compact":
			fmt.Fprintln(out, (&compare.TableFormatter{}).FormatCompact(comparisonSet))

		case "table", "console", "":
			fmt.Fprint(out, (&compare.TableFormatter{}).Format(comparisonSet))

		default:
			return fmt.Errorf("unknown output format: %s (valid: table, compact, csv, json)", outputFormat)
		}
		return nil
	},
}

func init() {
	compareCmd.Flags().String("base", "", "Base scenario name to compare against (default: first scenario)")
	compareCmd.Flags().String("scenarios", "", "Comma-separated list of configured scenarios to compare")
	compareCmd.Flags().String("templates", "", "Comma-separated list of built-in templates to apply to the base")
	compareCmd.Flags().StringArray("transform", nil, "Transform spec applied to the base (repeatable, e.g. set_rebate:percent=40)")
	compareCmd.Flags().StringP("format", "f", "table", "Output format (table, compact, csv, json)")
	compareCmd.Flags().Bool("list-templates", false, "List all available scenario templates")
	compareCmd.Flags().Bool("debug", false, "Enable debug logging for the projection engine")

	rootCmd.AddCommand(compareCmd)
}
