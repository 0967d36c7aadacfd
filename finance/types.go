/*
Package finance provides the ERP investment simulation engine.

PURPOSE:
  Turns a set of ERP-implementation cost/benefit assumptions into
  investment-decision metrics: total cost of ownership, NPV, IRR, payback,
  ROI, risk-adjusted ROI, Monte Carlo distributions, and one-factor
  sensitivity. Every calculation is a pure function of an AssumptionSet.

KEY CONCEPTS IN THIS FILE (types.go):
  - Money helpers: decimal constructors shared by the engine
  - ResultSet: the output record of a single calculation
  - Warning: a coded, non-fatal condition attached to a ResultSet

CALCULATION FLOW:
  AssumptionSet
    → TotalCosts + BenefitEstimator
    → CashFlowBuilder (CashFlowVector)
    → NPV, IRR, payback, risk-adjusted ROI
    → ResultSet
  MonteCarloSimulator and SensitivityAnalyzer run over the same set.

DESIGN PRINCIPLES:
  1. Immutability: AssumptionSet is a value; every derivation returns a copy
  2. Precision: monetary values use decimal.Decimal
  3. Single source: NPV, IRR and payback only accept a CashFlowVector
  4. Explicit failure: undefined metrics are nil plus a Warning, never Inf/NaN

USAGE:
  calc := finance.NewCalculator()
  result, err := calc.Calculate(set)
  if err != nil {
      // ValidationError: fix the inputs and retry
  }

SEE ALSO:
  - assumptions.go: Input model and validation
  - engine.go: Calculator
  - errors.go: Error taxonomy
*/
package finance

import (
	"time"

	"github.com/shopspring/decimal"
)

// =============================================================================
// MONEY HELPERS
// =============================================================================

var (
	one     = decimal.NewFromInt(1)
	hundred = decimal.NewFromInt(100)
)

// Money returns a monetary amount from a float literal.
func Money(v float64) decimal.Decimal { return decimal.NewFromFloat(v) }

// Rate returns a ratio (0.08 = 8%) from a float literal.
func Rate(v float64) decimal.Decimal { return decimal.NewFromFloat(v) }

// =============================================================================
// RESULT SET - Output of a single calculation
// =============================================================================

// ROISchedule holds ROI (percent) over the standard reporting periods.
type ROISchedule struct {
	Year1 decimal.Decimal `json:"year_1"`
	Year3 decimal.Decimal `json:"year_3"`
	Year5 decimal.Decimal `json:"year_5"`
}

// ResultSet is produced fresh per calculation. It carries no identity
// beyond its ID and timestamp.
type ResultSet struct {
	ID           string       `json:"id"`
	Scenario     ScenarioName `json:"scenario,omitempty"`
	CalculatedAt time.Time    `json:"calculated_at"`

	TotalCosts decimal.Decimal `json:"total_costs"`
	TCO        decimal.Decimal `json:"tco"`

	Benefits         BenefitEstimate   `json:"benefits"`
	NetAnnualBenefit decimal.Decimal   `json:"net_annual_benefit"`
	CashFlows        []decimal.Decimal `json:"cash_flows"`

	NPV         decimal.Decimal `json:"npv"`
	NPVAtWACC   decimal.Decimal `json:"npv_at_wacc"`
	AfterTaxNPV decimal.Decimal `json:"after_tax_npv"`

	// Nil when the metric is undefined; see Warnings for the reason.
	IRRPercent        *float64         `json:"irr_percent"`
	PaybackYears      *decimal.Decimal `json:"payback_years"`
	DiscountedPayback *decimal.Decimal `json:"discounted_payback_years"`

	ROI             ROISchedule     `json:"roi"`
	OverallRisk     decimal.Decimal `json:"overall_risk"`
	RiskAdjustedROI decimal.Decimal `json:"risk_adjusted_roi"`

	Benchmark BenchmarkResult `json:"benchmark"`
	Warnings  []Warning       `json:"warnings,omitempty"`
}

// HasWarning reports whether a warning with the given code was recorded.
func (r ResultSet) HasWarning(code WarningCode) bool {
	for _, w := range r.Warnings {
		if w.Code == code {
			return true
		}
	}
	return false
}

// =============================================================================
// WARNINGS
// =============================================================================

type WarningCode string

const (
	WarnDegenerateCashFlow  WarningCode = "degenerate_cash_flow"
	WarnIRRNotFound         WarningCode = "irr_not_found"
	WarnNoDiscountedPayback WarningCode = "no_discounted_payback"
)

// Warning records a metric that could not be computed.
type Warning struct {
	Code    WarningCode `json:"code"`
	Message string      `json:"message"`
}
