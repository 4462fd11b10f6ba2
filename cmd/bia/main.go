package main

import (
	"context"
	"fmt"
	"os"
	"runtime/debug"
	"strings"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/rgehrsitz/bia/internal/calculation"
	"github.com/rgehrsitz/bia/internal/config"
	"github.com/rgehrsitz/bia/internal/domain"
	"github.com/rgehrsitz/bia/internal/logging"
	"github.com/rgehrsitz/bia/internal/output"
	"github.com/rgehrsitz/bia/internal/population"
)

var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

func versionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "bia %s (commit %s, built %s)\n", version, commit, date)
			if info := buildInfo(); info != "" {
				fmt.Fprintln(cmd.OutOrStdout(), info)
			}
		},
	}
}

func buildInfo() string {
	if bi, ok := debug.ReadBuildInfo(); ok && bi != nil {
		return bi.String()
	}
	return ""
}

var rootCmd = &cobra.Command{
	Use:   "bia",
	Short: "Payer budget impact model CLI",
	Long: `Project the five year budget impact to a health plan of covering an
obesity and diabetes therapy, using a representative member sample scaled
to the plan's covered lives.`,
	SilenceUsage: true,
}

// newEngine returns a projection engine that logs to stderr when debug is set.
func newEngine(debugMode bool) *calculation.ProjectionEngine {
	engine := calculation.NewProjectionEngine()
	if debugMode {
		engine.SetLogger(logging.NewEngineLogger(logging.New(os.Stderr, logrus.DebugLevel.String())))
	}
	return engine
}

// loadConfig parses a scenario file and loads the population it points at.
func loadConfig(ctx context.Context, inputFile string) (*domain.Configuration, []domain.Member, error) {
	parser := config.NewInputParser()
	cfg, err := parser.LoadFromFile(inputFile)
	if err != nil {
		return nil, nil, err
	}

	sample, err := loadSample(ctx, cfg.Population)
	if err != nil {
		return nil, nil, err
	}
	return cfg, sample, nil
}

func loadSample(ctx context.Context, src domain.PopulationSource) ([]domain.Member, error) {
	if src.DatabaseURL != "" {
		db, err := population.ConnectPostgres(ctx, src.DatabaseURL)
		if err != nil {
			return nil, err
		}
		defer db.Close()
		return db.Load(ctx)
	}

	sample, err := population.Load(src.Path)
	if err != nil {
		return nil, fmt.Errorf("failed to load population: %w", err)
	}
	return sample, nil
}

var projectCmd = &cobra.Command{
	Use:   "project [input-file]",
	Short: "Project the budget impact of every scenario in a configuration",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		inputFile := args[0]

		cfg, sample, err := loadConfig(cmd.Context(), inputFile)
		if err != nil {
			return err
		}

		if name, _ := cmd.Flags().GetString("scenario"); name != "" {
			scenario, ok := cfg.FindScenario(name)
			if !ok {
				return fmt.Errorf("scenario %q not found in %s", name, inputFile)
			}
			cfg.Scenarios = []domain.Scenario{*scenario}
		}

		debugMode, _ := cmd.Flags().GetBool("debug")
		engine := newEngine(debugMode)
		results, err := engine.RunScenarios(cfg, sample)
		if err != nil {
			return err
		}

		outputFormat, _ := cmd.Flags().GetString("format")
		f := output.GetFormatterByName(outputFormat)
		if f == nil {
			return fmt.Errorf("unknown output format %q (valid: %s)", outputFormat, strings.Join(output.AvailableFormatterNames(), ", "))
		}

		if dir, _ := cmd.Flags().GetString("output-dir"); dir != "" {
			path, err := output.WriteFormatted(f, results, dir, output.FileExtension(outputFormat))
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Report written to %s\n", path)
			return nil
		}

		data, err := f.Format(results)
		if err != nil {
			return err
		}
		_, err = cmd.OutOrStdout().Write(data)
		return err
	},
}

var validateCmd = &cobra.Command{
	Use:   "validate [input-file]",
	Short: "Validate a configuration file",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		inputFile := args[0]

		parser := config.NewInputParser()
		if _, err := parser.LoadFromFile(inputFile); err != nil {
			return err
		}

		fmt.Fprintf(cmd.OutOrStdout(), "Configuration file %s is valid\n", inputFile)
		return nil
	},
}

var populationCmd = &cobra.Command{
	Use:   "population [sample-file]",
	Short: "Describe a population sample file",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		sample, err := population.Load(args[0])
		if err != nil {
			return err
		}

		stats := population.Describe(sample)
		out := cmd.OutOrStdout()
		fmt.Fprintf(out, "Sample:          %s\n", args[0])
		fmt.Fprintf(out, "Members:         %d\n", stats.Count)
		fmt.Fprintf(out, "Eligible:        %d (%.1f%%)\n", stats.Eligible, stats.EligibleShare()*100)
		fmt.Fprintf(out, "Diabetic:        %d\n", stats.Diabetic)
		fmt.Fprintf(out, "Female:          %d\n", stats.Female)
		fmt.Fprintf(out, "Mean age:        %.1f\n", stats.MeanAge)
		fmt.Fprintf(out, "Mean BMI:        %.1f\n", stats.MeanBMI)
		fmt.Fprintf(out, "Mean risk score: %.2f\n", stats.MeanRiskScore)
		return nil
	},
}

var exampleCmd = &cobra.Command{
	Use:   "example [output-file]",
	Short: "Write an example scenario configuration",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		populationPath, _ := cmd.Flags().GetString("population")
		if err := config.SaveConfiguration(config.NewExampleConfiguration(populationPath), args[0]); err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Example configuration written to %s\n", args[0])
		return nil
	},
}

func init() {
	projectCmd.Flags().StringP("format", "f", "console", "Output format (console, console-lite, csv, summary-csv, json, html)")
	projectCmd.Flags().String("scenario", "", "Only project the named scenario")
	projectCmd.Flags().Bool("debug", false, "Enable debug logging for the projection engine")
	projectCmd.Flags().String("output-dir", "", "Write a timestamped report file to this directory instead of stdout")

	exampleCmd.Flags().String("population", "data/population_sample.json", "Population sample path written into the example")

	rootCmd.AddCommand(projectCmd)
	rootCmd.AddCommand(validateCmd)
	rootCmd.AddCommand(populationCmd)
	rootCmd.AddCommand(exampleCmd)
	rootCmd.AddCommand(versionCmd())
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
