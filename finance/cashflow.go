package finance

import "github.com/shopspring/decimal"

// =============================================================================
// CASH FLOW VECTOR
// =============================================================================

// CashFlowVector is the ordered net cash flow for years 0..N. Index 0 is
// the negated initial investment; indices 1..N are the net annual benefit
// inflated by (1+inflation)^year.
//
// The flows are unexported: NPV, IRR and payback accept only a vector, so
// all three are always computed against the same assumptions. Build one
// with BuildCashFlows.
type CashFlowVector struct {
	flows            []decimal.Decimal
	netAnnualBenefit decimal.Decimal
}

// BuildCashFlows assembles the vector for a validated set and its annual
// benefit total.
func BuildCashFlows(a AssumptionSet, benefits BenefitEstimate) CashFlowVector {
	return buildCashFlows(TotalCosts(a), benefits.Total, a.Costs.Operational,
		a.Financial.InflationRate, a.Financial.HorizonYears)
}

func buildCashFlows(totalCosts, annualBenefit, operational, inflation decimal.Decimal, horizon int) CashFlowVector {
	net := annualBenefit.Sub(operational)
	flows := make([]decimal.Decimal, horizon+1)
	flows[0] = totalCosts.Neg()

	base := one.Add(inflation)
	factor := one
	for y := 1; y <= horizon; y++ {
		factor = factor.Mul(base)
		flows[y] = net.Mul(factor)
	}
	return CashFlowVector{flows: flows, netAnnualBenefit: net}
}

// Len returns N+1.
func (v CashFlowVector) Len() int { return len(v.flows) }

// Horizon returns N.
func (v CashFlowVector) Horizon() int { return len(v.flows) - 1 }

// At returns the flow for year t.
func (v CashFlowVector) At(t int) decimal.Decimal { return v.flows[t] }

// InitialInvestment returns the positive year-0 outlay.
func (v CashFlowVector) InitialInvestment() decimal.Decimal {
	if len(v.flows) == 0 {
		return decimal.Zero
	}
	return v.flows[0].Neg()
}

// NetAnnualBenefit returns the un-inflated benefit minus operational cost.
func (v CashFlowVector) NetAnnualBenefit() decimal.Decimal { return v.netAnnualBenefit }

// Flows returns a copy of the flows.
func (v CashFlowVector) Flows() []decimal.Decimal {
	out := make([]decimal.Decimal, len(v.flows))
	copy(out, v.flows)
	return out
}

// Sum returns the undiscounted sum of all flows.
func (v CashFlowVector) Sum() decimal.Decimal {
	total := decimal.Zero
	for _, f := range v.flows {
		total = total.Add(f)
	}
	return total
}

func (v CashFlowVector) floats() []float64 {
	out := make([]float64, len(v.flows))
	for i, f := range v.flows {
		out[i] = f.InexactFloat64()
	}
	return out
}
