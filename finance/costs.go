package finance

import "github.com/shopspring/decimal"

// =============================================================================
// COST AGGREGATOR
// =============================================================================

// TotalCosts sums the seven initial cost categories. The result is the
// nominal initial outlay; nothing is discounted.
func TotalCosts(a AssumptionSet) decimal.Decimal {
	c := a.Costs
	return decimal.Sum(c.License, c.Implementation, c.Infrastructure,
		c.Training, c.Maintenance, c.Consulting, c.Migration)
}

// TCO is the total cost of ownership over years: the initial outlay plus
// recurring operational and maintenance cost inflated per year.
//
//	TCO = totalCosts + Σ_{y=1..years} (operational + maintenance) × (1+inflation)^y
func TCO(a AssumptionSet, years int) decimal.Decimal {
	recurring := a.Costs.Operational.Add(a.Costs.Maintenance)
	base := one.Add(a.Financial.InflationRate)

	total := TotalCosts(a)
	factor := one
	for y := 1; y <= years; y++ {
		factor = factor.Mul(base)
		total = total.Add(recurring.Mul(factor))
	}
	return total
}
