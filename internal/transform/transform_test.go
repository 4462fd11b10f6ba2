package transform

import (
	"errors"
	"math"
	"testing"

	"github.com/shopspring/decimal"

	"github.com/rgehrsitz/bia/internal/domain"
)

// Helper function to create a basic test scenario
func createTestScenario() *domain.Scenario {
	return &domain.Scenario{
		Name:        "Baseline",
		Description: "Reference assumptions",
		Inputs:      domain.DefaultInputs(),
	}
}

func TestApplyTransforms_NilScenario(t *testing.T) {
	_, err := ApplyTransforms(nil, []ScenarioTransform{&SetRebate{Percent: decimal.NewFromInt(10)}})
	if err == nil {
		t.Error("Expected error for nil scenario, got nil")
	}
}

func TestApplyTransforms_EmptyTransforms(t *testing.T) {
	base := createTestScenario()

	result, err := ApplyTransforms(base, nil)
	if err != nil {
		t.Fatalf("Expected no error for empty transforms, got: %v", err)
	}
	if result == base {
		t.Error("Expected a copy, got same instance")
	}
	if result.Name != base.Name {
		t.Errorf("Expected name %s, got %s", base.Name, result.Name)
	}

	result.Inputs.UptakeRate[0] = 0.9
	if base.Inputs.UptakeRate[0] == 0.9 {
		t.Error("Copy shares uptake slice with base")
	}
}

func TestApplyTransforms_NilTransform(t *testing.T) {
	_, err := ApplyTransforms(createTestScenario(), []ScenarioTransform{nil})
	if err == nil {
		t.Error("Expected error for nil transform")
	}
}

func TestApplyTransforms_Chain(t *testing.T) {
	base := createTestScenario()
	transforms := []ScenarioTransform{
		&SetDrugCost{Cost: decimal.NewFromInt(6000)},
		&SetRebate{Percent: decimal.NewFromInt(40)},
		&SetPopulationSize{Size: decimal.NewFromInt(250000)},
	}

	result, err := ApplyTransforms(base, transforms)
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}

	if result.Inputs.DrugAnnualCost != 6000 {
		t.Errorf("Expected cost 6000, got %v", result.Inputs.DrugAnnualCost)
	}
	if result.Inputs.RebatePercent != 40 {
		t.Errorf("Expected rebate 40, got %v", result.Inputs.RebatePercent)
	}
	if result.Inputs.TargetPopulationSize != 250000 {
		t.Errorf("Expected population 250000, got %v", result.Inputs.TargetPopulationSize)
	}
	if base.Inputs.DrugAnnualCost != 4500 || base.Inputs.RebatePercent != 25 {
		t.Error("Base scenario was modified")
	}
}

func TestApplyTransforms_ValidationFailure(t *testing.T) {
	_, err := ApplyTransforms(createTestScenario(), []ScenarioTransform{
		&SetRebate{Percent: decimal.NewFromInt(120)},
	})
	if err == nil {
		t.Fatal("Expected validation error")
	}
	var te *TransformError
	if !errors.As(err, &te) {
		t.Fatalf("Expected TransformError, got %T", err)
	}
	if te.TransformName != "set_rebate" {
		t.Errorf("Expected set_rebate, got %s", te.TransformName)
	}
}

func TestScaleDrugCost(t *testing.T) {
	result, err := ApplyTransforms(createTestScenario(), []ScenarioTransform{
		&ScaleDrugCost{Factor: decimal.NewFromFloat(0.8)},
	})
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if result.Inputs.DrugAnnualCost != 3600 {
		t.Errorf("Expected 3600, got %v", result.Inputs.DrugAnnualCost)
	}
}

func TestScaleUptake(t *testing.T) {
	tests := []struct {
		name   string
		factor float64
		cap    float64
		input  []float64
		want   []float64
	}{
		{"double", 2, 0, []float64{0.1, 0.2, 0.3, 0.4, 0.5}, []float64{0.2, 0.4, 0.6, 0.8, 1}},
		{"capped at one", 3, 0, []float64{0.1, 0.2, 0.3, 0.4, 0.5}, []float64{0.3, 0.6, 0.9, 1, 1}},
		{"custom cap", 2, 0.5, []float64{0.1, 0.2, 0.3, 0.4, 0.5}, []float64{0.2, 0.4, 0.5, 0.5, 0.5}},
		{"halve", 0.5, 0, []float64{0.02, 0.05, 0.1, 0.15, 0.2}, []float64{0.01, 0.025, 0.05, 0.075, 0.1}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			base := createTestScenario()
			base.Inputs.UptakeRate = tt.input
			transform := &ScaleUptake{Factor: decimal.NewFromFloat(tt.factor), Cap: decimal.NewFromFloat(tt.cap)}

			result, err := ApplyTransforms(base, []ScenarioTransform{transform})
			if err != nil {
				t.Fatalf("Unexpected error: %v", err)
			}
			for i, want := range tt.want {
				if got := result.Inputs.UptakeRate[i]; got != want {
					t.Errorf("year %d: expected %v, got %v", i+1, want, got)
				}
			}
		})
	}
}

func TestSetUptakeCurve(t *testing.T) {
	curve := &SetUptakeCurve{Rates: []float64{0.1, 0.1, 0.1, 0.1, 0.1}}
	result, err := ApplyTransforms(createTestScenario(), []ScenarioTransform{curve})
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if len(result.Inputs.UptakeRate) != 5 || result.Inputs.UptakeRate[4] != 0.1 {
		t.Errorf("Unexpected curve: %v", result.Inputs.UptakeRate)
	}

	curve.Rates[0] = 0.9
	if result.Inputs.UptakeRate[0] != 0.1 {
		t.Error("Result shares rates with transform")
	}

	short := &SetUptakeCurve{Rates: []float64{0.1}}
	if err := short.Validate(createTestScenario()); !errors.Is(err, domain.ErrUptakeLength) {
		t.Errorf("Expected ErrUptakeLength, got %v", err)
	}

	outOfRange := &SetUptakeCurve{Rates: []float64{0.1, 0.1, 1.2, 0.1, 0.1}}
	if err := outOfRange.Validate(createTestScenario()); err == nil {
		t.Error("Expected error for rate above 1")
	}
}

func TestNonFiniteValuesRejected(t *testing.T) {
	infCost := createTestScenario()
	infCost.Inputs.DrugAnnualCost = math.Inf(1)
	_, err := ApplyTransforms(infCost, []ScenarioTransform{&ScaleDrugCost{Factor: decimal.NewFromFloat(0.8)}})
	if !errors.Is(err, domain.ErrNonFiniteResult) {
		t.Errorf("Expected ErrNonFiniteResult for infinite cost, got %v", err)
	}

	infUptake := createTestScenario()
	infUptake.Inputs.UptakeRate[2] = math.Inf(1)
	_, err = ApplyTransforms(infUptake, []ScenarioTransform{&ScaleUptake{Factor: decimal.NewFromInt(2)}})
	if !errors.Is(err, domain.ErrNonFiniteResult) {
		t.Errorf("Expected ErrNonFiniteResult for infinite uptake, got %v", err)
	}

	nanCurve := &SetUptakeCurve{Rates: []float64{0.1, math.NaN(), 0.1, 0.1, 0.1}}
	if err := nanCurve.Validate(createTestScenario()); err == nil {
		t.Error("Expected error for NaN rate")
	}
	if got := nanCurve.Description(); got == "" {
		t.Error("Expected a description for a NaN curve")
	}
}

func TestFlattenUptake(t *testing.T) {
	result, err := ApplyTransforms(createTestScenario(), []ScenarioTransform{FlattenUptake{}})
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	for i, r := range result.Inputs.UptakeRate {
		if r != 0.20 {
			t.Errorf("year %d: expected 0.20, got %v", i+1, r)
		}
	}

	empty := createTestScenario()
	empty.Inputs.UptakeRate = nil
	if _, err := ApplyTransforms(empty, []ScenarioTransform{FlattenUptake{}}); err == nil {
		t.Error("Expected error for empty uptake curve")
	}
}

func TestDescriptions(t *testing.T) {
	tests := []struct {
		transform ScenarioTransform
		want      string
	}{
		{&SetDrugCost{Cost: decimal.NewFromInt(6000)}, "Set annual drug cost to $6000.00"},
		{&ScaleDrugCost{Factor: decimal.NewFromFloat(0.8)}, "Change annual drug cost by -20%"},
		{&SetRebate{Percent: decimal.NewFromInt(40)}, "Set manufacturer rebate to 40.0%"},
		{&SetPopulationSize{Size: decimal.NewFromInt(500000)}, "Set covered population to 500000 members"},
		{&ScaleUptake{Factor: decimal.NewFromFloat(1.5)}, "Scale uptake by 1.5x"},
		{&SetUptakeCurve{Rates: []float64{0.05, 0.1, 0.15, 0.2, 0.25}}, "Set uptake curve to 5%, 10%, 15%, 20%, 25%"},
	}
	for _, tt := range tests {
		if got := tt.transform.Description(); got != tt.want {
			t.Errorf("%s: expected %q, got %q", tt.transform.Name(), tt.want, got)
		}
	}
}
