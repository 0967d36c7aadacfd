package finance

import (
	"sort"

	"github.com/shopspring/decimal"
)

// =============================================================================
// SENSITIVITY ANALYZER
// =============================================================================

type SensitivityFactor string

const (
	FactorLicenseCost        SensitivityFactor = "license_cost"
	FactorImplementationCost SensitivityFactor = "implementation_cost"
	FactorAnnualSavings      SensitivityFactor = "annual_savings"
	FactorRevenueIncrease    SensitivityFactor = "revenue_increase_pct"
)

// factorAccess reads a factor from a set and returns a copy of the set with
// the factor replaced. The original set is never touched, so one factor's
// perturbation cannot leak into the next.
type factorAccess struct {
	factor SensitivityFactor
	get    func(AssumptionSet) decimal.Decimal
	with   func(AssumptionSet, decimal.Decimal) AssumptionSet
}

var trackedFactors = []factorAccess{
	{
		factor: FactorLicenseCost,
		get:    func(a AssumptionSet) decimal.Decimal { return a.Costs.License },
		with: func(a AssumptionSet, v decimal.Decimal) AssumptionSet {
			a.Costs.License = v
			return a
		},
	},
	{
		factor: FactorImplementationCost,
		get:    func(a AssumptionSet) decimal.Decimal { return a.Costs.Implementation },
		with: func(a AssumptionSet, v decimal.Decimal) AssumptionSet {
			a.Costs.Implementation = v
			return a
		},
	},
	{
		factor: FactorAnnualSavings,
		get:    func(a AssumptionSet) decimal.Decimal { return a.Benefits.AnnualSavings },
		with: func(a AssumptionSet, v decimal.Decimal) AssumptionSet {
			a.Benefits.AnnualSavings = v
			return a
		},
	},
	{
		factor: FactorRevenueIncrease,
		get:    func(a AssumptionSet) decimal.Decimal { return a.Benefits.RevenueIncreasePct },
		with: func(a AssumptionSet, v decimal.Decimal) AssumptionSet {
			a.Benefits.RevenueIncreasePct = v
			return a
		},
	},
}

// SensitivityResult is the ROI response to one factor. Deltas are in ROI
// percentage points.
type SensitivityResult struct {
	Factor         SensitivityFactor `json:"factor"`
	BaseValue      decimal.Decimal   `json:"base_value"`
	PerturbedValue decimal.Decimal   `json:"perturbed_value"`
	BaseROI        decimal.Decimal   `json:"base_roi"`
	PerturbedROI   decimal.Decimal   `json:"perturbed_roi"`
	ROIDelta       decimal.Decimal   `json:"roi_delta"`
	DownsideDelta  decimal.Decimal   `json:"downside_delta"`
}

// SensitivityAnalyzer perturbs one factor at a time.
type SensitivityAnalyzer struct {
	Benefits     BenefitEstimator
	Perturbation decimal.Decimal
}

// NewSensitivityAnalyzer returns an analyzer with a 10% perturbation.
func NewSensitivityAnalyzer() *SensitivityAnalyzer {
	return &SensitivityAnalyzer{Benefits: NewBenefitEstimator(), Perturbation: Rate(0.10)}
}

// Analyze scales each tracked factor by (1+p) and (1−p), recomputes the
// 3-year ROI, and ranks factors by |upside delta| descending.
func (s *SensitivityAnalyzer) Analyze(a AssumptionSet) ([]SensitivityResult, error) {
	if err := a.Validate(); err != nil {
		return nil, err
	}
	if !s.Perturbation.IsPositive() || s.Perturbation.GreaterThanOrEqual(one) {
		return nil, invalid("perturbation", s.Perturbation, "must be in (0,1)")
	}

	baseROI := s.roi3(a)
	up := one.Add(s.Perturbation)
	down := one.Sub(s.Perturbation)

	results := make([]SensitivityResult, 0, len(trackedFactors))
	for _, f := range trackedFactors {
		base := f.get(a)
		upROI := s.roi3(f.with(a, base.Mul(up)))
		downROI := s.roi3(f.with(a, base.Mul(down)))
		results = append(results, SensitivityResult{
			Factor:         f.factor,
			BaseValue:      base,
			PerturbedValue: base.Mul(up),
			BaseROI:        baseROI,
			PerturbedROI:   upROI,
			ROIDelta:       upROI.Sub(baseROI),
			DownsideDelta:  downROI.Sub(baseROI),
		})
	}

	sort.SliceStable(results, func(i, j int) bool {
		return results[i].ROIDelta.Abs().GreaterThan(results[j].ROIDelta.Abs())
	})
	return results, nil
}

func (s *SensitivityAnalyzer) roi3(a AssumptionSet) decimal.Decimal {
	return ROIForPeriod(3, TotalCosts(a), s.Benefits.Estimate(a).Total, a.Costs.Operational)
}
