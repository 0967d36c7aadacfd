package finance

import (
	"math"

	"github.com/shopspring/decimal"
)

// =============================================================================
// ROI
// =============================================================================

// ROIForPeriod returns ROI in percent over years:
//
//	((benefit×years − operational×years − cost) / cost) × 100
//
// cost must be positive; Validate guarantees that for a set's total costs.
func ROIForPeriod(years int, cost, annualBenefit, operational decimal.Decimal) decimal.Decimal {
	y := decimal.NewFromInt(int64(years))
	gain := annualBenefit.Mul(y).Sub(operational.Mul(y)).Sub(cost)
	return gain.Div(cost).Mul(hundred)
}

// =============================================================================
// RISK ADJUSTMENT
// =============================================================================

// CombinedRisk folds the five risk probabilities into one:
//
//	overall = 1 − sqrt(Π(1 − rᵢ))
//
// This is a heuristic inherited from product: it assumes the risks are
// independent, and the square root has no statistical derivation. Real
// project risks are often correlated. Do not change it without product
// sign-off.
func CombinedRisk(r RiskProfile) decimal.Decimal {
	survival := one
	for _, p := range r.All() {
		survival = survival.Mul(one.Sub(p))
	}
	return one.Sub(decimal.NewFromFloat(math.Sqrt(survival.InexactFloat64())))
}

// RiskAdjustedROI scales baseROI by (1 − overall risk).
func RiskAdjustedROI(baseROI decimal.Decimal, r RiskProfile) decimal.Decimal {
	return baseROI.Mul(one.Sub(CombinedRisk(r)))
}
