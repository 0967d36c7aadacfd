package finance

import (
	"fmt"

	"github.com/shopspring/decimal"
)

// =============================================================================
// DISCOUNTED CASH FLOW
// =============================================================================

// NPV discounts every flow of v at rate:
//
//	NPV = Σ_{t=0..N} v[t] / (1+rate)^t
//
// At rate 0 this is exactly v.Sum().
func NPV(v CashFlowVector, rate decimal.Decimal) decimal.Decimal {
	base := one.Add(rate)
	factor := one
	total := decimal.Zero
	for t, f := range v.flows {
		if t > 0 {
			factor = factor.Mul(base)
		}
		total = total.Add(f.Div(factor))
	}
	return total
}

// PaybackPeriod is the simple, undiscounted payback in years:
// initial investment / net annual benefit. It ignores inflation growth
// within the payback year, so it is an approximation.
//
// A net annual benefit <= 0 never pays back and returns a
// *DegenerateCashFlowError.
func PaybackPeriod(v CashFlowVector) (decimal.Decimal, error) {
	if !v.netAnnualBenefit.IsPositive() {
		return decimal.Zero, &DegenerateCashFlowError{Metric: "payback", NetAnnualBenefit: v.netAnnualBenefit}
	}
	return v.InitialInvestment().Div(v.netAnnualBenefit), nil
}

// DiscountedPayback accumulates discounted flows and returns the year in
// which they recover the initial investment, interpolated linearly inside
// that year. It returns ErrNotRecovered if the horizon ends first.
func DiscountedPayback(v CashFlowVector, rate decimal.Decimal) (decimal.Decimal, error) {
	if !v.netAnnualBenefit.IsPositive() {
		return decimal.Zero, &DegenerateCashFlowError{Metric: "discounted payback", NetAnnualBenefit: v.netAnnualBenefit}
	}

	base := one.Add(rate)
	factor := one
	cumulative := v.flows[0]
	for t := 1; t < len(v.flows); t++ {
		factor = factor.Mul(base)
		discounted := v.flows[t].Div(factor)
		next := cumulative.Add(discounted)
		if !next.IsNegative() {
			// fraction of year t needed to close the remaining gap
			fraction := cumulative.Neg().Div(discounted)
			return decimal.NewFromInt(int64(t - 1)).Add(fraction), nil
		}
		cumulative = next
	}
	return decimal.Zero, fmt.Errorf("discounted payback at %s: %w", rate.String(), ErrNotRecovered)
}
