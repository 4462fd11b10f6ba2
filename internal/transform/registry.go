package transform

import (
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"
)

// TransformRegistry provides a central registry for all available transforms.
// It enables creation of transforms from string parameters, useful for CLI commands.
type TransformRegistry struct {
	factories map[string]TransformFactory
}

// TransformFactory is a function that creates a transform from parameters.
type TransformFactory func(params map[string]string) (ScenarioTransform, error)

// NewTransformRegistry creates a new registry with all built-in transforms registered.
func NewTransformRegistry() *TransformRegistry {
	registry := &TransformRegistry{
		factories: make(map[string]TransformFactory),
	}

	registry.Register("set_drug_cost", createSetDrugCost)
	registry.Register("scale_drug_cost", createScaleDrugCost)
	registry.Register("set_rebate", createSetRebate)
	registry.Register("set_population", createSetPopulationSize)
	registry.Register("scale_uptake", createScaleUptake)
	registry.Register("set_uptake_curve", createSetUptakeCurve)
	registry.Register("flatten_uptake", func(map[string]string) (ScenarioTransform, error) {
		return FlattenUptake{}, nil
	})

	return registry
}

// Register adds a transform factory to the registry.
func (r *TransformRegistry) Register(name string, factory TransformFactory) {
	r.factories[name] = factory
}

// Create creates a transform by name with the given parameters.
func (r *TransformRegistry) Create(name string, params map[string]string) (ScenarioTransform, error) {
	factory, exists := r.factories[name]
	if !exists {
		return nil, fmt.Errorf("unknown transform: %s", name)
	}

	return factory(params)
}

// List returns the names of all registered transforms in sorted order.
func (r *TransformRegistry) List() []string {
	names := make([]string, 0, len(r.factories))
	for name := range r.factories {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// ParseTransformSpec parses a transform specification string.
// Format: "transform_name:param1=value1,param2=value2"
// Example: "set_rebate:percent=40"
func (r *TransformRegistry) ParseTransformSpec(spec string) (ScenarioTransform, error) {
	parts := strings.SplitN(spec, ":", 2)
	if len(parts) != 2 {
		return nil, fmt.Errorf("invalid transform spec format, expected 'name:params', got: %s", spec)
	}

	name := strings.TrimSpace(parts[0])
	paramsStr := strings.TrimSpace(parts[1])

	params := make(map[string]string)
	if paramsStr != "" {
		for _, paramPair := range strings.Split(paramsStr, ",") {
			kv := strings.SplitN(paramPair, "=", 2)
			if len(kv) != 2 {
				return nil, fmt.Errorf("invalid parameter format, expected 'key=value', got: %s", paramPair)
			}
			params[strings.TrimSpace(kv[0])] = strings.TrimSpace(kv[1])
		}
	}

	return r.Create(name, params)
}

func decimalParam(transform, key string, params map[string]string) (decimal.Decimal, error) {
	raw, ok := params[key]
	if !ok {
		return decimal.Zero, fmt.Errorf("%s requires '%s' parameter", transform, key)
	}
	value, err := decimal.NewFromString(raw)
	if err != nil {
		return decimal.Zero, fmt.Errorf("invalid %s value: %w", key, err)
	}
	return value, nil
}

func createSetDrugCost(params map[string]string) (ScenarioTransform, error) {
	cost, err := decimalParam("set_drug_cost", "cost", params)
	if err != nil {
		return nil, err
	}
	return &SetDrugCost{Cost: cost}, nil
}

func createScaleDrugCost(params map[string]string) (ScenarioTransform, error) {
	factor, err := decimalParam("scale_drug_cost", "factor", params)
	if err != nil {
		return nil, err
	}
	return &ScaleDrugCost{Factor: factor}, nil
}

func createSetRebate(params map[string]string) (ScenarioTransform, error) {
	percent, err := decimalParam("set_rebate", "percent", params)
	if err != nil {
		return nil, err
	}
	return &SetRebate{Percent: percent}, nil
}

func createSetPopulationSize(params map[string]string) (ScenarioTransform, error) {
	size, err := decimalParam("set_population", "size", params)
	if err != nil {
		return nil, err
	}
	return &SetPopulationSize{Size: size}, nil
}

func createScaleUptake(params map[string]string) (ScenarioTransform, error) {
	factor, err := decimalParam("scale_uptake", "factor", params)
	if err != nil {
		return nil, err
	}

	t := &ScaleUptake{Factor: factor}
	if _, ok := params["cap"]; ok {
		if t.Cap, err = decimalParam("scale_uptake", "cap", params); err != nil {
			return nil, err
		}
	}
	return t, nil
}

// createSetUptakeCurve reads rates separated by '/', since ',' separates parameters.
// Example: "set_uptake_curve:rates=0.05/0.1/0.15/0.2/0.25"
func createSetUptakeCurve(params map[string]string) (ScenarioTransform, error) {
	ratesStr, ok := params["rates"]
	if !ok {
		return nil, fmt.Errorf("set_uptake_curve requires 'rates' parameter")
	}

	var rates []float64
	for _, part := range strings.Split(ratesStr, "/") {
		rate, err := strconv.ParseFloat(strings.TrimSpace(part), 64)
		if err != nil {
			return nil, fmt.Errorf("invalid rate value: %w", err)
		}
		rates = append(rates, rate)
	}

	return &SetUptakeCurve{Rates: rates}, nil
}
