/*
benefits.go - Annual benefit estimation from independent value streams

PURPOSE:
  Derives the annual benefit total from nine value streams and returns both
  the total and a labelled breakdown. The breakdown is consumed verbatim by
  charts, so all nine fields are always present.

VALUE STREAMS:
  1. operational      annual savings (direct input)
  2. revenue          current revenue × revenue increase %
  3. productivity     employees × salary × max(0, target − current efficiency)
  4. automation       direct input
  5. compliance       direct input
  6. inventory        direct input
  7. error_reduction  current revenue × ErrorReductionRatio
  8. integration      system consolidation + reporting + reconciliation
  9. strategic        current revenue × StrategicRatio + time-to-market + customer satisfaction

POLICY CONSTANTS:
  The ratios and fixed values in BenefitPolicy are business policy, not
  derived math. Fixed integration and strategic values only apply to an
  organisation with a revenue base (CurrentRevenue > 0).

SEE ALSO:
  - cashflow.go: Uses the total as the annual inflow
*/
package finance

import "github.com/shopspring/decimal"

// =============================================================================
// BENEFIT POLICY
// =============================================================================

// BenefitPolicy holds the policy constants used by the estimator.
type BenefitPolicy struct {
	ErrorReductionRatio decimal.Decimal

	SystemConsolidation decimal.Decimal
	ReportingEfficiency decimal.Decimal
	ReconciliationSaves decimal.Decimal

	StrategicRatio       decimal.Decimal
	TimeToMarketValue    decimal.Decimal
	CustomerSatisfaction decimal.Decimal
}

// DefaultBenefitPolicy returns the standard policy constants.
func DefaultBenefitPolicy() BenefitPolicy {
	return BenefitPolicy{
		ErrorReductionRatio:  Rate(0.035),
		SystemConsolidation:  Money(120000),
		ReportingEfficiency:  Money(85000),
		ReconciliationSaves:  Money(65000),
		StrategicRatio:       Rate(0.015),
		TimeToMarketValue:    Money(150000),
		CustomerSatisfaction: Money(95000),
	}
}

// =============================================================================
// BREAKDOWN
// =============================================================================

// BenefitBreakdown keeps every value stream by name.
type BenefitBreakdown struct {
	Operational    decimal.Decimal `json:"operational"`
	Revenue        decimal.Decimal `json:"revenue"`
	Productivity   decimal.Decimal `json:"productivity"`
	Automation     decimal.Decimal `json:"automation"`
	Compliance     decimal.Decimal `json:"compliance"`
	Inventory      decimal.Decimal `json:"inventory"`
	ErrorReduction decimal.Decimal `json:"error_reduction"`
	Integration    decimal.Decimal `json:"integration"`
	Strategic      decimal.Decimal `json:"strategic"`
}

// BenefitItem is one labelled stream.
type BenefitItem struct {
	Name  string
	Value decimal.Decimal
}

// Items returns the streams in their canonical order.
func (b BenefitBreakdown) Items() []BenefitItem {
	return []BenefitItem{
		{"operational", b.Operational},
		{"revenue", b.Revenue},
		{"productivity", b.Productivity},
		{"automation", b.Automation},
		{"compliance", b.Compliance},
		{"inventory", b.Inventory},
		{"error_reduction", b.ErrorReduction},
		{"integration", b.Integration},
		{"strategic", b.Strategic},
	}
}

// Map returns the streams keyed by name.
func (b BenefitBreakdown) Map() map[string]decimal.Decimal {
	items := b.Items()
	m := make(map[string]decimal.Decimal, len(items))
	for _, it := range items {
		m[it.Name] = it.Value
	}
	return m
}

// BenefitEstimate is the estimator's output.
type BenefitEstimate struct {
	Total     decimal.Decimal  `json:"total"`
	Breakdown BenefitBreakdown `json:"breakdown"`
}

// =============================================================================
// ESTIMATOR
// =============================================================================

// BenefitEstimator sums the value streams under a policy.
type BenefitEstimator struct {
	Policy BenefitPolicy
}

// NewBenefitEstimator returns an estimator using DefaultBenefitPolicy.
func NewBenefitEstimator() BenefitEstimator {
	return BenefitEstimator{Policy: DefaultBenefitPolicy()}
}

// Estimate derives the annual benefit estimate for a.
func (e BenefitEstimator) Estimate(a AssumptionSet) BenefitEstimate {
	d := a.Benefits
	p := e.Policy

	var b BenefitBreakdown
	b.Operational = d.AnnualSavings
	b.Revenue = d.CurrentRevenue.Mul(d.RevenueIncreasePct).Div(hundred)
	b.Productivity = productivityValue(d)
	b.Automation = d.AutomationSavings
	b.Compliance = d.ComplianceSavings
	b.Inventory = d.InventorySavings
	b.ErrorReduction = d.CurrentRevenue.Mul(p.ErrorReductionRatio)
	b.Strategic = d.CurrentRevenue.Mul(p.StrategicRatio)

	if d.CurrentRevenue.IsPositive() {
		b.Integration = decimal.Sum(p.SystemConsolidation, p.ReportingEfficiency, p.ReconciliationSaves)
		b.Strategic = decimal.Sum(b.Strategic, p.TimeToMarketValue, p.CustomerSatisfaction)
	}

	total := decimal.Zero
	for _, it := range b.Items() {
		total = total.Add(it.Value)
	}
	return BenefitEstimate{Total: total, Breakdown: b}
}

// productivityValue never subtracts: an efficiency regression floors at zero.
func productivityValue(d BenefitDrivers) decimal.Decimal {
	gain := d.TargetEfficiency.Sub(d.CurrentEfficiency)
	if d.TargetEfficiency.IsZero() && d.CurrentEfficiency.IsZero() {
		gain = d.ProductivityGainPct.Div(hundred)
	}
	if !gain.IsPositive() {
		return decimal.Zero
	}
	return decimal.NewFromInt(int64(d.EmployeeCount)).Mul(d.AverageSalary).Mul(gain)
}
