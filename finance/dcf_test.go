package finance_test

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/warp/roi-engine/finance"
)

func buildVector(a finance.AssumptionSet) finance.CashFlowVector {
	return finance.BuildCashFlows(a, finance.NewBenefitEstimator().Estimate(a))
}

// =============================================================================
// CASH FLOW VECTOR TESTS
// =============================================================================

func TestBuildCashFlows_Shape(t *testing.T) {
	v := buildVector(referenceSet())

	assert.Equal(t, 6, v.Len())
	assert.Equal(t, 5, v.Horizon())
	assert.True(t, v.At(0).Equal(finance.Money(-1470000)))
	for y := 1; y <= 5; y++ {
		assert.True(t, v.At(y).Equal(finance.Money(840000)), "year %d: %s", y, v.At(y))
	}
	assert.True(t, v.NetAnnualBenefit().Equal(finance.Money(840000)))
	assert.True(t, v.InitialInvestment().Equal(finance.Money(1470000)))
}

func TestBuildCashFlows_AppliesInflation(t *testing.T) {
	a := referenceSet()
	a.Financial.InflationRate = finance.Rate(0.05)
	v := buildVector(a)

	assertDecimal(t, 882000, v.At(1), 1e-6)
	assertDecimal(t, 926100, v.At(2), 1e-6)
	assert.True(t, v.NetAnnualBenefit().Equal(finance.Money(840000)), "net benefit stays un-inflated")
}

func TestBuildCashFlows_FlowsIsACopy(t *testing.T) {
	v := buildVector(referenceSet())
	flows := v.Flows()
	flows[1] = finance.Money(0)

	assert.True(t, v.At(1).Equal(finance.Money(840000)))
}

// =============================================================================
// NPV / PAYBACK TESTS
// =============================================================================

func TestNPV_ReferenceExample(t *testing.T) {
	// −1,470,000 + Σ_{1..5} 840,000/1.08^t
	npv := finance.NPV(buildVector(referenceSet()), finance.Rate(0.08))
	assertDecimal(t, 1883876.43, npv, 0.01)
	assert.True(t, npv.IsPositive())
}

func TestNPV_ZeroRateEqualsSimpleSum(t *testing.T) {
	for _, a := range []finance.AssumptionSet{referenceSet(), enterpriseSet()} {
		v := buildVector(a)
		assert.True(t, finance.NPV(v, finance.Rate(0)).Equal(v.Sum()))
	}
}

func TestPaybackPeriod_ConstantBenefit(t *testing.T) {
	payback, err := finance.PaybackPeriod(buildVector(referenceSet()))
	require.NoError(t, err)
	assert.True(t, payback.Equal(finance.Rate(1.75)), "got %s", payback)
}

func TestPaybackPeriod_DegenerateCashFlow(t *testing.T) {
	// GIVEN: Operational cost equal to the annual benefit
	// THEN: Payback is reported as undefined, not Inf or a negative number
	a := referenceSet()
	a.Costs.Operational = finance.Money(890000)

	_, err := finance.PaybackPeriod(buildVector(a))
	require.Error(t, err)
	assert.True(t, errors.Is(err, finance.ErrDegenerateCashFlow))

	var derr *finance.DegenerateCashFlowError
	require.ErrorAs(t, err, &derr)
	assert.Equal(t, "payback", derr.Metric)
	assert.True(t, derr.NetAnnualBenefit.IsZero())
}

func TestDiscountedPayback_InterpolatesWithinYear(t *testing.T) {
	dp, err := finance.DiscountedPayback(buildVector(referenceSet()), finance.Rate(0.08))
	require.NoError(t, err)
	assertDecimal(t, 1.9612, dp, 1e-4)
}

func TestDiscountedPayback_NotRecovered(t *testing.T) {
	// GIVEN: 100k net benefit for 2 years against 1.47M
	a := referenceSet()
	a.Benefits.AnnualSavings = finance.Money(150000)
	a.Financial.HorizonYears = 2

	_, err := finance.DiscountedPayback(buildVector(a), finance.Rate(0.08))
	assert.ErrorIs(t, err, finance.ErrNotRecovered)
}

// =============================================================================
// IRR TESTS
// =============================================================================

func TestSolveIRR_ReferenceExample(t *testing.T) {
	irr, err := finance.SolveIRR(buildVector(referenceSet()))
	require.NoError(t, err)
	assert.InDelta(t, 49.488, irr, 0.01)
}

func TestSolveIRR_RoundTripThroughNPV(t *testing.T) {
	for _, a := range []finance.AssumptionSet{referenceSet(), enterpriseSet()} {
		v := buildVector(a)

		rate, err := finance.DefaultIRRSolver().Solve(v)
		require.NoError(t, err)

		npv := finance.NPV(v, finance.Rate(rate))
		assert.Less(t, npv.Abs().InexactFloat64(), 1e-3, "NPV at IRR: %s", npv)
	}
}

func TestSolveIRR_NoSignChange(t *testing.T) {
	// GIVEN: Operating cost exceeds benefit, every flow is negative
	a := referenceSet()
	a.Costs.Operational = finance.Money(1000000)

	_, err := finance.SolveIRR(buildVector(a))
	assert.ErrorIs(t, err, finance.ErrDegenerateCashFlow)
}

func TestSolveIRR_DivergenceReported(t *testing.T) {
	// GIVEN: 1 invested, 1,000 returned after one year (IRR = 99,900%)
	// THEN: Rate leaves the solver bounds and the failure is explicit
	a := finance.AssumptionSet{
		Costs:     finance.CostCategories{License: finance.Money(1), Operational: finance.Money(1)},
		Benefits:  finance.BenefitDrivers{AnnualSavings: finance.Money(1001)},
		Financial: finance.FinancialParameters{HorizonYears: 1},
	}
	require.NoError(t, a.Validate())

	_, err := finance.SolveIRR(buildVector(a))
	require.Error(t, err)
	assert.ErrorIs(t, err, finance.ErrIRRNotFound)

	var cerr *finance.IRRConvergenceError
	require.ErrorAs(t, err, &cerr)
	assert.Greater(t, cerr.LastRate, 10.0)
}

func TestSolveIRR_IterationLimit(t *testing.T) {
	solver := finance.DefaultIRRSolver()
	solver.MaxIterations = 1

	_, err := solver.Solve(buildVector(referenceSet()))
	assert.ErrorIs(t, err, finance.ErrIRRNotFound)
}

// =============================================================================
// ROI / RISK TESTS
// =============================================================================

func TestROIForPeriod(t *testing.T) {
	// ((890k×3 − 50k×3 − 1.47M) / 1.47M) × 100
	roi := finance.ROIForPeriod(3, finance.Money(1470000), finance.Money(890000), finance.Money(50000))
	assertDecimal(t, 71.428571, roi, 1e-5)

	roi1 := finance.ROIForPeriod(1, finance.Money(1000), finance.Money(500), finance.Money(0))
	assertDecimal(t, -50, roi1, 1e-9)
}

func TestCombinedRisk(t *testing.T) {
	assert.True(t, finance.CombinedRisk(finance.RiskProfile{}).IsZero())

	// 1 − sqrt(0.9^5)
	overall := finance.CombinedRisk(enterpriseSet().Risks)
	assertDecimal(t, 0.231567, overall, 1e-5)
}

func TestRiskAdjustedROI(t *testing.T) {
	adjusted := finance.RiskAdjustedROI(finance.Rate(100), enterpriseSet().Risks)
	assertDecimal(t, 76.8433, adjusted, 1e-3)

	unchanged := finance.RiskAdjustedROI(finance.Rate(100), finance.RiskProfile{})
	assertDecimal(t, 100, unchanged, 1e-9)
}
