package finance_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/warp/roi-engine/finance"
)

func fixedCalculator() *finance.Calculator {
	c := finance.NewCalculator()
	c.Now = func() time.Time { return time.Date(2025, 1, 15, 9, 0, 0, 0, time.UTC) }
	c.NewID = func() string { return "result-1" }
	return c
}

// =============================================================================
// CALCULATE
// =============================================================================

func TestCalculate_ReferenceProject(t *testing.T) {
	// GIVEN: 1.47M invested, 890k savings, 50k operating cost, 8% over 5 years
	// WHEN: Calculated
	// THEN: Every headline metric matches the hand-worked figures
	r, err := fixedCalculator().Calculate(referenceSet())
	require.NoError(t, err)

	assert.Equal(t, "result-1", r.ID)
	assert.Equal(t, time.Date(2025, 1, 15, 9, 0, 0, 0, time.UTC), r.CalculatedAt)
	assertDecimal(t, 1470000, r.TotalCosts, 1e-6)
	assertDecimal(t, 2145000, r.TCO, 1e-6)
	assertDecimal(t, 840000, r.NetAnnualBenefit, 1e-6)
	require.Len(t, r.CashFlows, 6)
	assertDecimal(t, -1470000, r.CashFlows[0], 1e-6)

	assertDecimal(t, 1883876.43, r.NPV, 0.01)
	require.NotNil(t, r.PaybackYears)
	assertDecimal(t, 1.75, *r.PaybackYears, 1e-9)
	require.NotNil(t, r.DiscountedPayback)
	assertDecimal(t, 1.9612, *r.DiscountedPayback, 1e-3)
	require.NotNil(t, r.IRRPercent)
	assert.InDelta(t, 49.488, *r.IRRPercent, 0.01)

	assertDecimal(t, 71.428571, r.ROI.Year3, 1e-4)
	assert.True(t, r.ROI.Year1.LessThan(r.ROI.Year3))
	assert.True(t, r.ROI.Year3.LessThan(r.ROI.Year5))
	assert.True(t, r.OverallRisk.IsZero())
	assert.True(t, r.RiskAdjustedROI.Equal(r.ROI.Year3), "zero risk leaves ROI unchanged")

	assert.Equal(t, finance.IndustryManufacturing, r.Benchmark.Reference.Industry)
	assert.Equal(t, finance.RatingBelow, r.Benchmark.Rating)
	assert.Empty(t, r.Warnings)
}

func TestCalculate_AfterTaxAndWACC(t *testing.T) {
	r, err := fixedCalculator().Calculate(enterpriseSet())
	require.NoError(t, err)

	assert.True(t, r.AfterTaxNPV.LessThan(r.NPV), "tax reduces NPV")
	assert.True(t, r.NPVAtWACC.LessThan(r.NPV), "higher rate reduces NPV")
	assert.True(t, r.RiskAdjustedROI.LessThan(r.ROI.Year3))
	require.NotNil(t, r.IRRPercent)
	assert.Greater(t, *r.IRRPercent, 100.0)
}

func TestCalculate_DegenerateCashFlowWarnsInsteadOfFailing(t *testing.T) {
	// GIVEN: Operating cost above the annual benefit
	// THEN: NPV is still reported; payback and IRR are nil with warnings
	a := referenceSet()
	a.Costs.Operational = finance.Money(1000000)

	r, err := fixedCalculator().Calculate(a)
	require.NoError(t, err)

	assert.True(t, r.NPV.IsNegative())
	assert.Nil(t, r.PaybackYears)
	assert.Nil(t, r.DiscountedPayback)
	assert.Nil(t, r.IRRPercent)
	assert.True(t, r.HasWarning(finance.WarnDegenerateCashFlow))
	assert.True(t, r.HasWarning(finance.WarnIRRNotFound))
	assert.False(t, r.HasWarning(finance.WarnNoDiscountedPayback))
}

func TestCalculate_NotRecoveredWithinHorizon(t *testing.T) {
	// GIVEN: A one-year horizon that cannot repay 1.47M from 840k
	a := referenceSet()
	a.Financial.HorizonYears = 1

	r, err := fixedCalculator().Calculate(a)
	require.NoError(t, err)

	require.NotNil(t, r.PaybackYears)
	assert.Nil(t, r.DiscountedPayback)
	assert.True(t, r.HasWarning(finance.WarnNoDiscountedPayback))
}

func TestCalculate_InvalidInputs(t *testing.T) {
	a := referenceSet()
	a.Financial.DiscountRate = finance.Rate(-0.01)

	_, err := fixedCalculator().Calculate(a)

	var verr *finance.ValidationError
	require.True(t, errors.As(err, &verr))
	assert.Equal(t, "financial.discount_rate", verr.Field)
	assert.True(t, finance.IsClientError(err))
}

func TestCalculate_Deterministic(t *testing.T) {
	c := fixedCalculator()
	first, err := c.Calculate(enterpriseSet())
	require.NoError(t, err)
	second, err := c.Calculate(enterpriseSet())
	require.NoError(t, err)

	assert.Equal(t, first, second)
}

// =============================================================================
// SCENARIOS
// =============================================================================

func TestCompareScenarios_OrderedMostConservativeFirst(t *testing.T) {
	results, err := fixedCalculator().CompareScenarios(enterpriseSet())
	require.NoError(t, err)
	require.Len(t, results, 4)

	names := []finance.ScenarioName{
		finance.ScenarioPessimistic,
		finance.ScenarioRealistic,
		finance.ScenarioOptimistic,
		finance.ScenarioAggressive,
	}
	for i, n := range names {
		assert.Equal(t, n, results[i].Scenario)
	}
	for i := 1; i < len(results); i++ {
		assert.True(t, results[i-1].NPV.LessThan(results[i].NPV), "%s < %s", names[i-1], names[i])
	}

	base, err := fixedCalculator().Calculate(enterpriseSet())
	require.NoError(t, err)
	assert.True(t, results[1].NPV.Equal(base.NPV), "realistic equals the base calculation")
}

func TestCalculateScenario_Unknown(t *testing.T) {
	_, err := fixedCalculator().CalculateScenario(referenceSet(), "apocalyptic")
	assert.ErrorIs(t, err, finance.ErrUnknownScenario)
}

// =============================================================================
// ANALYZE
// =============================================================================

func TestAnalyze_AllParts(t *testing.T) {
	mc := finance.NewMonteCarloSimulator()
	mc.Iterations = 200
	mc.Seed = 7

	out, err := fixedCalculator().Analyze(context.Background(), enterpriseSet(), finance.AnalysisOptions{
		Scenario:    finance.ScenarioOptimistic,
		MonteCarlo:  mc,
		Sensitivity: finance.NewSensitivityAnalyzer(),
	})
	require.NoError(t, err)

	assert.Equal(t, finance.ScenarioOptimistic, out.Result.Scenario)
	require.NotNil(t, out.MonteCarlo)
	assert.Equal(t, 200, out.MonteCarlo.ROI.Samples)
	assert.Len(t, out.Sensitivity, 4)
	assert.True(t, out.Sensitivity[0].BaseROI.Equal(out.Result.ROI.Year3), "sensitivity runs on the derived set")
}

func TestAnalyze_DeterministicOnly(t *testing.T) {
	out, err := fixedCalculator().Analyze(context.Background(), referenceSet(), finance.AnalysisOptions{})
	require.NoError(t, err)

	assert.Nil(t, out.MonteCarlo)
	assert.Nil(t, out.Sensitivity)
	assert.Empty(t, out.Result.Scenario)
}

func TestAnalyze_CancelledMonteCarlo(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := fixedCalculator().Analyze(ctx, referenceSet(), finance.AnalysisOptions{
		MonteCarlo: finance.NewMonteCarloSimulator(),
	})
	assert.ErrorIs(t, err, context.Canceled)
}
