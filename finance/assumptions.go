/*
assumptions.go - The validated input snapshot of a calculation

PURPOSE:
  AssumptionSet is the single structured input the engine consumes:
  cost categories, benefit drivers, financial parameters and risk
  probabilities. It is a plain value made of value structs, so assigning it
  copies everything. Callers own the "current assumptions" and pass a new
  snapshot per calculation instead of mutating a shared one.

INVARIANTS (checked by Validate, never clamped):
  - all monetary amounts >= 0
  - discount, inflation, tax, WACC rates and risk probabilities in [0,1)
  - efficiency ratios in [0,1], percentages in [0,100]
  - horizon >= 1 year
  - total initial investment > 0 (ROI and payback divide by it)

SEE ALSO:
  - costs.go: Sums the cost categories
  - benefits.go: Derives the annual benefit total
  - scenario.go: Derives new sets from a base set
*/
package finance

import (
	"strconv"

	"github.com/shopspring/decimal"
)

// =============================================================================
// INDUSTRY
// =============================================================================

type Industry string

const (
	IndustryManufacturing Industry = "manufacturing"
	IndustryRetail        Industry = "retail"
	IndustryServices      Industry = "services"
)

// Industries lists the industries with benchmark references.
func Industries() []Industry {
	return []Industry{IndustryManufacturing, IndustryRetail, IndustryServices}
}

// orDefault maps the empty industry to manufacturing.
func (i Industry) orDefault() Industry {
	if i == "" {
		return IndustryManufacturing
	}
	return i
}

// =============================================================================
// ASSUMPTION GROUPS
// =============================================================================

// CostCategories are the one-off implementation costs plus the recurring
// operational cost.
type CostCategories struct {
	License        decimal.Decimal `json:"license"`
	Implementation decimal.Decimal `json:"implementation"`
	Infrastructure decimal.Decimal `json:"infrastructure"`
	Training       decimal.Decimal `json:"training"`
	Maintenance    decimal.Decimal `json:"maintenance"`
	Consulting     decimal.Decimal `json:"consulting"`
	Migration      decimal.Decimal `json:"migration"`

	// Operational is recurring per year, not part of the initial outlay.
	Operational decimal.Decimal `json:"operational"`
}

// BenefitDrivers feed the BenefitEstimator.
type BenefitDrivers struct {
	AnnualSavings       decimal.Decimal `json:"annual_savings"`
	RevenueIncreasePct  decimal.Decimal `json:"revenue_increase_pct"`
	ProductivityGainPct decimal.Decimal `json:"productivity_gain_pct"`
	AutomationSavings   decimal.Decimal `json:"automation_savings"`
	ComplianceSavings   decimal.Decimal `json:"compliance_savings"`
	InventorySavings    decimal.Decimal `json:"inventory_savings"`
	CurrentRevenue      decimal.Decimal `json:"current_revenue"`
	EmployeeCount       int             `json:"employee_count"`
	AverageSalary       decimal.Decimal `json:"average_salary"`
	CurrentEfficiency   decimal.Decimal `json:"current_efficiency"`
	TargetEfficiency    decimal.Decimal `json:"target_efficiency"`
}

// FinancialParameters control discounting and the analysis window.
type FinancialParameters struct {
	DiscountRate  decimal.Decimal `json:"discount_rate"`
	HorizonYears  int             `json:"horizon_years"`
	InflationRate decimal.Decimal `json:"inflation_rate"`
	TaxRate       decimal.Decimal `json:"tax_rate"`
	WACC          decimal.Decimal `json:"wacc"`
}

// RiskProfile holds five independent risk probabilities.
type RiskProfile struct {
	Implementation decimal.Decimal `json:"implementation"`
	Adoption       decimal.Decimal `json:"adoption"`
	Technology     decimal.Decimal `json:"technology"`
	Budget         decimal.Decimal `json:"budget"`
	Timeline       decimal.Decimal `json:"timeline"`
}

// All returns the probabilities in a fixed order.
func (r RiskProfile) All() []decimal.Decimal {
	return []decimal.Decimal{r.Implementation, r.Adoption, r.Technology, r.Budget, r.Timeline}
}

// =============================================================================
// ASSUMPTION SET
// =============================================================================

// AssumptionSet is an immutable-per-calculation snapshot of all inputs.
type AssumptionSet struct {
	Costs     CostCategories      `json:"costs"`
	Benefits  BenefitDrivers      `json:"benefits"`
	Financial FinancialParameters `json:"financial"`
	Risks     RiskProfile         `json:"risks"`
	Industry  Industry            `json:"industry,omitempty"`
}

// Validate checks every invariant and returns the first violation as a
// *ValidationError.
func (a AssumptionSet) Validate() error {
	money := []struct {
		field string
		v     decimal.Decimal
	}{
		{"costs.license", a.Costs.License},
		{"costs.implementation", a.Costs.Implementation},
		{"costs.infrastructure", a.Costs.Infrastructure},
		{"costs.training", a.Costs.Training},
		{"costs.maintenance", a.Costs.Maintenance},
		{"costs.consulting", a.Costs.Consulting},
		{"costs.migration", a.Costs.Migration},
		{"costs.operational", a.Costs.Operational},
		{"benefits.annual_savings", a.Benefits.AnnualSavings},
		{"benefits.automation_savings", a.Benefits.AutomationSavings},
		{"benefits.compliance_savings", a.Benefits.ComplianceSavings},
		{"benefits.inventory_savings", a.Benefits.InventorySavings},
		{"benefits.current_revenue", a.Benefits.CurrentRevenue},
		{"benefits.average_salary", a.Benefits.AverageSalary},
	}
	for _, m := range money {
		if m.v.IsNegative() {
			return invalid(m.field, m.v, "must be >= 0")
		}
	}

	percents := []struct {
		field string
		v     decimal.Decimal
	}{
		{"benefits.revenue_increase_pct", a.Benefits.RevenueIncreasePct},
		{"benefits.productivity_gain_pct", a.Benefits.ProductivityGainPct},
	}
	for _, p := range percents {
		if p.v.IsNegative() || p.v.GreaterThan(hundred) {
			return invalid(p.field, p.v, "must be in [0,100]")
		}
	}

	ratios := []struct {
		field string
		v     decimal.Decimal
	}{
		{"benefits.current_efficiency", a.Benefits.CurrentEfficiency},
		{"benefits.target_efficiency", a.Benefits.TargetEfficiency},
	}
	for _, r := range ratios {
		if r.v.IsNegative() || r.v.GreaterThan(one) {
			return invalid(r.field, r.v, "must be in [0,1]")
		}
	}

	if a.Benefits.EmployeeCount < 0 {
		return &ValidationError{
			Field:  "benefits.employee_count",
			Value:  strconv.Itoa(a.Benefits.EmployeeCount),
			Reason: "must be >= 0",
		}
	}

	rates := []struct {
		field string
		v     decimal.Decimal
	}{
		{"financial.discount_rate", a.Financial.DiscountRate},
		{"financial.inflation_rate", a.Financial.InflationRate},
		{"financial.tax_rate", a.Financial.TaxRate},
		{"financial.wacc", a.Financial.WACC},
		{"risks.implementation", a.Risks.Implementation},
		{"risks.adoption", a.Risks.Adoption},
		{"risks.technology", a.Risks.Technology},
		{"risks.budget", a.Risks.Budget},
		{"risks.timeline", a.Risks.Timeline},
	}
	for _, r := range rates {
		if r.v.IsNegative() || r.v.GreaterThanOrEqual(one) {
			return invalid(r.field, r.v, "must be in [0,1)")
		}
	}

	if a.Financial.HorizonYears < 1 {
		return &ValidationError{
			Field:  "financial.horizon_years",
			Value:  strconv.Itoa(a.Financial.HorizonYears),
			Reason: "must be >= 1",
		}
	}

	if total := TotalCosts(a); !total.IsPositive() {
		return invalid("costs", total, "total initial investment must be > 0")
	}

	if !a.Industry.known() {
		return &ValidationError{Field: "industry", Value: string(a.Industry), Reason: "unknown industry"}
	}

	return nil
}

func (i Industry) known() bool {
	for _, k := range Industries() {
		if i.orDefault() == k {
			return true
		}
	}
	return false
}

// Equal compares two sets numerically, so 1.0 and 1.00 are equal.
func (a AssumptionSet) Equal(b AssumptionSet) bool {
	if a.Industry.orDefault() != b.Industry.orDefault() ||
		a.Financial.HorizonYears != b.Financial.HorizonYears ||
		a.Benefits.EmployeeCount != b.Benefits.EmployeeCount {
		return false
	}
	av, bv := a.decimals(), b.decimals()
	for i := range av {
		if !av[i].Equal(bv[i]) {
			return false
		}
	}
	return true
}

func (a AssumptionSet) decimals() []decimal.Decimal {
	c, b, f := a.Costs, a.Benefits, a.Financial
	out := []decimal.Decimal{
		c.License, c.Implementation, c.Infrastructure, c.Training,
		c.Maintenance, c.Consulting, c.Migration, c.Operational,
		b.AnnualSavings, b.RevenueIncreasePct, b.ProductivityGainPct,
		b.AutomationSavings, b.ComplianceSavings, b.InventorySavings,
		b.CurrentRevenue, b.AverageSalary, b.CurrentEfficiency, b.TargetEfficiency,
		f.DiscountRate, f.InflationRate, f.TaxRate, f.WACC,
	}
	return append(out, a.Risks.All()...)
}
