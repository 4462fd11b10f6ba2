package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/rgehrsitz/bia/internal/breakeven"
	"github.com/rgehrsitz/bia/internal/domain"
)

var breakEvenCmd = &cobra.Command{
	Use:   "break-even [input-file]",
	Short: "Show the drug prices at which each scenario is budget neutral",
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
		solver := breakeven.NewSolver(newEngine(debugMode))
		results, err := solver.SolveAll(cmd.Context(), cfg, sample)
		if err != nil {
			return err
		}

		outputFormat, _ := cmd.Flags().GetString("format")
		switch strings.ToLower(outputFormat) {
		case "json":
			s, err := (&breakeven.JSONFormatter{Pretty: true}).Format(results)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), s)
		case "table", "":
			fmt.Fprint(cmd.OutOrStdout(), (&breakeven.TableFormatter{}).Format(results))
		default:
			return fmt.Errorf("unknown output format: %s (valid: table, json)", outputFormat)
		}
		return nil
	},
}

func init() {
	breakEvenCmd.Flags().String("scenario", "", "Only solve the named scenario")
	breakEvenCmd.Flags().StringP("format", "f", "table", "Output format (table, json)")
	breakEvenCmd.Flags().Bool("debug", false, "Enable debug logging for the projection engine")

	rootCmd.AddCommand(breakEvenCmd)
}
