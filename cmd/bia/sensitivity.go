package main

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"

	"github.com/rgehrsitz/bia/internal/calculation"
	"github.com/rgehrsitz/bia/internal/domain"
	"github.com/rgehrsitz/bia/internal/output"
)

var sensitivityCmd = &cobra.Command{
	Use:   "sensitivity [input-file]",
	Short: "Sweep one assumption at a time and report the budget impact swing",
	Long: `Project a base scenario over an evenly spaced grid of values for one or
more assumptions. Each point is an independent projection.

Parameters: drug_annual_cost, rebate_percent, target_population_size, uptake_scale

Examples:
  # Default sweeps of cost, rebate and uptake
  bia sensitivity scenarios.yaml

  # Single parameter sweep
  bia sensitivity scenarios.yaml --parameter rebate_percent:0-60:7

  # Several parameters against a named base
  bia sensitivity scenarios.yaml --parameter drug_annual_cost:2000-8000:7 --parameter uptake_scale --base-scenario Baseline --output csv`,
	Args: cobra.ExactArgs(1),
	RunE: runSensitivityAnalysis,
}

var (
	sensitivityParameter    []string
	sensitivityBaseScenario string
	sensitivityOutputFormat string
)

func init() {
	sensitivityCmd.Flags().StringArrayVar(&sensitivityParameter, "parameter", nil, "Parameter to analyze (format: name[:min-max:steps])")
	sensitivityCmd.Flags().StringVar(&sensitivityBaseScenario, "base-scenario", "", "Base scenario name for analysis (default: first scenario)")
	sensitivityCmd.Flags().StringVar(&sensitivityOutputFormat, "output", "table", "Output format (table, csv, json)")

	rootCmd.AddCommand(sensitivityCmd)
}

func runSensitivityAnalysis(cmd *cobra.Command, args []string) error {
	inputFile := args[0]

	cfg, sample, err := loadConfig(cmd.Context(), inputFile)
	if err != nil {
		return fmt.Errorf("error loading configuration: %w", err)
	}

	base := &cfg.Scenarios[0]
	if sensitivityBaseScenario != "" {
		var ok bool
		if base, ok = cfg.FindScenario(sensitivityBaseScenario); !ok {
			return fmt.Errorf("base scenario %q not found in %s", sensitivityBaseScenario, inputFile)
		}
	}

	parameters := domain.GetCommonParameters()
	if len(sensitivityParameter) > 0 {
		parameters, err = parseCustomParameters(sensitivityParameter)
		if err != nil {
			return err
		}
	}
	for i := range parameters {
		if parameters[i].BaseValue, err = baseValue(base.Inputs, parameters[i].Name); err != nil {
			return fmt.Errorf("scenario %q: %w", base.Name, err)
		}
	}

	analyzer := calculation.NewSensitivityAnalyzer(calculation.NewProjectionEngine())

	var analysis *domain.ParameterSensitivityAnalysis
	if len(parameters) == 1 {
		analysis, err = analyzer.AnalyzeSingleParameter(base, parameters[0], sample)
	} else {
		analysis, err = analyzer.AnalyzeMultipleParameters(base, parameters, sample)
	}
	if err != nil {
		return fmt.Errorf("error performing sensitivity analysis: %w", err)
	}

	formatter := output.NewSensitivityFormatter(sensitivityOutputFormat)
	s, err := formatter.FormatSensitivityAnalysis(analysis)
	if err != nil {
		return fmt.Errorf("error formatting output: %w", err)
	}

	fmt.Fprint(cmd.OutOrStdout(), s)
	return nil
}

func knownParameters() []domain.SensitivityParameter {
	return []domain.SensitivityParameter{
		domain.DrugAnnualCostParam,
		domain.RebatePercentParam,
		domain.TargetPopulationParam,
		domain.UptakeScaleParam,
	}
}

func parseCustomParameters(paramStrings []string) ([]domain.SensitivityParameter, error) {
	parameters := make([]domain.SensitivityParameter, 0, len(paramStrings))
	for _, paramStr := range paramStrings {
		param, err := parseParameterString(paramStr)
		if err != nil {
			return nil, fmt.Errorf("error parsing parameter '%s': %w", paramStr, err)
		}
		parameters = append(parameters, param)
	}
	return parameters, nil
}

// parseParameterString accepts "name" for the default range or
// "name:min-max:steps" to override it.
func parseParameterString(paramStr string) (domain.SensitivityParameter, error) {
	parts := strings.Split(paramStr, ":")
	if len(parts) != 1 && len(parts) != 3 {
		return domain.SensitivityParameter{}, fmt.Errorf("invalid parameter format: %s (expected name:min-max:steps)", paramStr)
	}

	var param domain.SensitivityParameter
	found := false
	for _, p := range knownParameters() {
		if p.Name == parts[0] {
			param, found = p, true
			break
		}
	}
	if !found {
		return domain.SensitivityParameter{}, fmt.Errorf("unknown parameter %q", parts[0])
	}
	if len(parts) == 1 {
		return param, nil
	}

	minMax := strings.Split(parts[1], "-")
	if len(minMax) != 2 {
		return domain.SensitivityParameter{}, fmt.Errorf("invalid range format: %s (expected min-max)", parts[1])
	}

	minValue, err := decimal.NewFromString(strings.TrimSpace(minMax[0]))
	if err != nil {
		return domain.SensitivityParameter{}, fmt.Errorf("invalid min value: %w", err)
	}
	maxValue, err := decimal.NewFromString(strings.TrimSpace(minMax[1]))
	if err != nil {
		return domain.SensitivityParameter{}, fmt.Errorf("invalid max value: %w", err)
	}
	if maxValue.LessThan(minValue) {
		return domain.SensitivityParameter{}, fmt.Errorf("max value %s is below min value %s", maxValue, minValue)
	}

	steps, err := strconv.Atoi(parts[2])
	if err != nil {
		return domain.SensitivityParameter{}, fmt.Errorf("invalid steps value: %w", err)
	}
	if steps < 1 {
		return domain.SensitivityParameter{}, fmt.Errorf("steps must be at least 1, got %d", steps)
	}

	param.MinValue = minValue
	param.MaxValue = maxValue
	param.Steps = steps
	return param, nil
}

func baseValue(inputs domain.SimulationInputs, name string) (decimal.Decimal, error) {
	var v float64
	switch name {
	case domain.ParamDrugAnnualCost:
		v = inputs.DrugAnnualCost
	case domain.ParamRebatePercent:
		v = inputs.RebatePercent
	case domain.ParamTargetPopulationSize:
		v = inputs.TargetPopulationSize
	default:
		return decimal.NewFromInt(1), nil
	}
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return decimal.Zero, fmt.Errorf("%w: %s is %v", domain.ErrNonFiniteResult, name, v)
	}
	return decimal.NewFromFloat(v), nil
}
