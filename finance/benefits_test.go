package finance_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/warp/roi-engine/finance"
)

func TestEstimate_SavingsOnly(t *testing.T) {
	// GIVEN: Only annual savings, no revenue base
	// THEN: Total equals savings; fixed integration/strategic values don't apply
	est := finance.NewBenefitEstimator().Estimate(referenceSet())

	assert.True(t, est.Total.Equal(finance.Money(890000)), "got %s", est.Total)
	assert.True(t, est.Breakdown.Integration.IsZero())
	assert.True(t, est.Breakdown.Strategic.IsZero())
}

func TestEstimate_AllNineStreams(t *testing.T) {
	est := finance.NewBenefitEstimator().Estimate(enterpriseSet())
	b := est.Breakdown

	assertDecimal(t, 890000, b.Operational, 0.001)
	assertDecimal(t, 500000, b.Revenue, 0.001)       // 10M × 5%
	assertDecimal(t, 2400000, b.Productivity, 0.001) // 200 × 60k × 0.2
	assertDecimal(t, 120000, b.Automation, 0.001)
	assertDecimal(t, 45000, b.Compliance, 0.001)
	assertDecimal(t, 60000, b.Inventory, 0.001)
	assertDecimal(t, 350000, b.ErrorReduction, 0.001) // 10M × 3.5%
	assertDecimal(t, 270000, b.Integration, 0.001)    // 120k + 85k + 65k
	assertDecimal(t, 395000, b.Strategic, 0.001)      // 10M × 1.5% + 150k + 95k

	assertDecimal(t, 5030000, est.Total, 0.001)
}

func TestEstimate_BreakdownKeepsEveryLabel(t *testing.T) {
	est := finance.NewBenefitEstimator().Estimate(referenceSet())

	items := est.Breakdown.Items()
	assert.Len(t, items, 9)
	assert.Equal(t, "operational", items[0].Name)
	assert.Equal(t, "strategic", items[8].Name)

	m := est.Breakdown.Map()
	assert.Len(t, m, 9)
	assert.Contains(t, m, "error_reduction")
	assert.True(t, m["inventory"].IsZero())
}

func TestEstimate_EfficiencyRegressionFloorsAtZero(t *testing.T) {
	// GIVEN: Target efficiency below current efficiency
	// THEN: Productivity contributes zero, it never subtracts
	a := enterpriseSet()
	a.Benefits.CurrentEfficiency = finance.Rate(0.9)
	a.Benefits.TargetEfficiency = finance.Rate(0.7)

	est := finance.NewBenefitEstimator().Estimate(a)
	assert.True(t, est.Breakdown.Productivity.IsZero())
	assertDecimal(t, 5030000-2400000, est.Total, 0.001)
}

func TestEstimate_ProductivityGainPctFallback(t *testing.T) {
	// GIVEN: No efficiency ratios, 10% productivity gain
	a := referenceSet()
	a.Benefits.EmployeeCount = 50
	a.Benefits.AverageSalary = finance.Money(40000)
	a.Benefits.ProductivityGainPct = finance.Rate(10)

	est := finance.NewBenefitEstimator().Estimate(a)
	assertDecimal(t, 200000, est.Breakdown.Productivity, 0.001)
}

func TestEstimate_CustomPolicy(t *testing.T) {
	policy := finance.DefaultBenefitPolicy()
	policy.ErrorReductionRatio = finance.Rate(0.01)

	est := finance.BenefitEstimator{Policy: policy}.Estimate(enterpriseSet())
	assertDecimal(t, 100000, est.Breakdown.ErrorReduction, 0.001)
}
