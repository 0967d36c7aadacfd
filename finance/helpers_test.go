package finance_test

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/warp/roi-engine/finance"
)

// =============================================================================
// TEST HELPERS
// =============================================================================

// referenceSet is the worked example: 1,470,000 invested, 840,000 net
// annual benefit, 8% discount over 5 years, no inflation.
func referenceSet() finance.AssumptionSet {
	return finance.AssumptionSet{
		Costs: finance.CostCategories{
			License:        finance.Money(420000),
			Implementation: finance.Money(380000),
			Infrastructure: finance.Money(240000),
			Training:       finance.Money(120000),
			Maintenance:    finance.Money(85000),
			Consulting:     finance.Money(150000),
			Migration:      finance.Money(75000),
			Operational:    finance.Money(50000),
		},
		Benefits: finance.BenefitDrivers{
			AnnualSavings: finance.Money(890000),
		},
		Financial: finance.FinancialParameters{
			DiscountRate: finance.Rate(0.08),
			HorizonYears: 5,
		},
	}
}

// enterpriseSet exercises every benefit stream and a non-zero risk profile.
func enterpriseSet() finance.AssumptionSet {
	a := referenceSet()
	a.Benefits = finance.BenefitDrivers{
		AnnualSavings:      finance.Money(890000),
		RevenueIncreasePct: finance.Rate(5),
		AutomationSavings:  finance.Money(120000),
		ComplianceSavings:  finance.Money(45000),
		InventorySavings:   finance.Money(60000),
		CurrentRevenue:     finance.Money(10000000),
		EmployeeCount:      200,
		AverageSalary:      finance.Money(60000),
		CurrentEfficiency:  finance.Rate(0.6),
		TargetEfficiency:   finance.Rate(0.8),
	}
	a.Financial.InflationRate = finance.Rate(0.03)
	a.Financial.TaxRate = finance.Rate(0.25)
	a.Financial.WACC = finance.Rate(0.09)
	a.Risks = finance.RiskProfile{
		Implementation: finance.Rate(0.1),
		Adoption:       finance.Rate(0.1),
		Technology:     finance.Rate(0.1),
		Budget:         finance.Rate(0.1),
		Timeline:       finance.Rate(0.1),
	}
	return a
}

func assertDecimal(t *testing.T, expected float64, actual decimal.Decimal, delta float64, msgAndArgs ...any) {
	t.Helper()
	assert.InDelta(t, expected, actual.InexactFloat64(), delta, msgAndArgs...)
}
