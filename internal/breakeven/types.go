package breakeven

import (
	"github.com/shopspring/decimal"
)

// Result is the break-even position of one scenario. Every price is per
// treated patient per year.
type Result struct {
	ScenarioName  string          `json:"scenario_name"`
	ListPrice     decimal.Decimal `json:"list_price"`
	RebatePercent decimal.Decimal `json:"rebate_percent"`
	NetPrice      decimal.Decimal `json:"net_price"`

	// BreakEvenNetPrice is the net price at which drug spend equals the
	// medical offsets it earns. It depends only on the model constants.
	BreakEvenNetPrice decimal.Decimal `json:"break_even_net_price"`

	// BreakEvenListPrice holds the scenario's rebate fixed. Nil when the
	// rebate is 100%, since every list price then nets to zero.
	BreakEvenListPrice *decimal.Decimal `json:"break_even_list_price,omitempty"`

	// RequiredRebate holds the list price fixed. Zero when the list price is
	// already at or below break-even.
	RequiredRebate decimal.Decimal `json:"required_rebate"`

	// Margin is NetPrice minus BreakEvenNetPrice; positive means a net cost.
	Margin decimal.Decimal `json:"margin"`

	// Residual is the cumulative net impact projected at BreakEvenListPrice.
	Residual decimal.Decimal `json:"residual"`
	Verified bool            `json:"verified"`
}

// SavesMoney reports whether the scenario's net price is below break-even.
func (r Result) SavesMoney() bool {
	return r.Margin.IsNegative()
}

// BreakEvenError represents errors from the break-even solver
type BreakEvenError struct {
	Operation string
	Scenario  string
	Message   string
	Cause     error
}

func (e *BreakEvenError) Error() string {
	msg := e.Operation
	if e.Scenario != "" {
		msg += " " + e.Scenario
	}
	msg += ": " + e.Message
	if e.Cause != nil {
		msg += ": " + e.Cause.Error()
	}
	return msg
}

func (e *BreakEvenError) Unwrap() error {
	return e.Cause
}
