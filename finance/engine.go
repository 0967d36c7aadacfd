/*
engine.go - Calculator: AssumptionSet in, ResultSet out

PURPOSE:
  Runs the deterministic pipeline for one AssumptionSet and returns a fresh
  ResultSet. The Calculator holds configuration only; it keeps no state
  between calls and can be shared by concurrent callers.

PIPELINE:
  1. Validate (ValidationError aborts the calculation)
  2. TotalCosts, BenefitEstimator.Estimate
  3. BuildCashFlows (single vector for every metric below)
  4. NPV at discount rate and at WACC, after-tax NPV
  5. Payback, discounted payback, IRR
  6. ROI 1/3/5, combined risk, risk-adjusted ROI
  7. Benchmark classification

UNDEFINED METRICS:
  A degenerate cash flow or a failed IRR does not abort the calculation.
  The metric is left nil and a Warning carries the reason, so the caller
  still gets NPV and TCO for the inputs it sent.

SEE ALSO:
  - montecarlo.go, sensitivity.go: Run alongside via Analyze
*/
package finance

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Calculator computes ResultSets.
type Calculator struct {
	Benefits BenefitEstimator
	IRR      IRRSolver
	Now      func() time.Time
	NewID    func() string
}

// NewCalculator returns a Calculator with the default policy and solver.
func NewCalculator() *Calculator {
	return &Calculator{
		Benefits: NewBenefitEstimator(),
		IRR:      DefaultIRRSolver(),
		Now:      func() time.Time { return time.Now().UTC() },
		NewID:    uuid.NewString,
	}
}

// Calculate runs the deterministic pipeline on a.
func (c *Calculator) Calculate(a AssumptionSet) (ResultSet, error) {
	if err := a.Validate(); err != nil {
		return ResultSet{}, err
	}

	totalCosts := TotalCosts(a)
	benefits := c.Benefits.Estimate(a)
	v := BuildCashFlows(a, benefits)
	fin := a.Financial

	r := ResultSet{
		ID:               c.NewID(),
		CalculatedAt:     c.Now(),
		TotalCosts:       totalCosts,
		TCO:              TCO(a, fin.HorizonYears),
		Benefits:         benefits,
		NetAnnualBenefit: v.NetAnnualBenefit(),
		CashFlows:        v.Flows(),
		NPV:              NPV(v, fin.DiscountRate),
		NPVAtWACC:        NPV(v, fin.WACC),
		AfterTaxNPV:      NPV(afterTax(v, fin.TaxRate), fin.DiscountRate),
	}

	if payback, err := PaybackPeriod(v); err != nil {
		r.Warnings = append(r.Warnings, Warning{Code: WarnDegenerateCashFlow, Message: err.Error()})
	} else {
		r.PaybackYears = &payback
	}

	if dp, err := DiscountedPayback(v, fin.DiscountRate); err == nil {
		r.DiscountedPayback = &dp
	} else if errors.Is(err, ErrNotRecovered) {
		r.Warnings = append(r.Warnings, Warning{Code: WarnNoDiscountedPayback, Message: err.Error()})
	}

	if irr, err := c.IRR.Solve(v); err != nil {
		r.Warnings = append(r.Warnings, Warning{Code: WarnIRRNotFound, Message: err.Error()})
	} else {
		pct := irr * 100
		r.IRRPercent = &pct
	}

	op := a.Costs.Operational
	r.ROI = ROISchedule{
		Year1: ROIForPeriod(1, totalCosts, benefits.Total, op),
		Year3: ROIForPeriod(3, totalCosts, benefits.Total, op),
		Year5: ROIForPeriod(5, totalCosts, benefits.Total, op),
	}
	r.OverallRisk = CombinedRisk(a.Risks)
	r.RiskAdjustedROI = RiskAdjustedROI(r.ROI.Year3, a.Risks)
	r.Benchmark = Classify(a.Industry, r.ROI.Year3, r.PaybackYears)

	return r, nil
}

// CalculateScenario applies a preset to base and calculates the result.
func (c *Calculator) CalculateScenario(base AssumptionSet, name ScenarioName) (ResultSet, error) {
	derived, err := ApplyScenario(base, name)
	if err != nil {
		return ResultSet{}, err
	}
	r, err := c.Calculate(derived)
	if err != nil {
		return ResultSet{}, err
	}
	r.Scenario = name
	return r, nil
}

// CompareScenarios calculates every preset against base.
func (c *Calculator) CompareScenarios(base AssumptionSet) ([]ResultSet, error) {
	presets := Scenarios()
	out := make([]ResultSet, 0, len(presets))
	for _, s := range presets {
		r, err := c.CalculateScenario(base, s.Name)
		if err != nil {
			return nil, err
		}
		out = append(out, r)
	}
	return out, nil
}

// afterTax applies the flat tax rate to positive annual flows.
func afterTax(v CashFlowVector, rate decimal.Decimal) CashFlowVector {
	keep := one.Sub(rate)
	flows := v.Flows()
	for t := 1; t < len(flows); t++ {
		if flows[t].IsPositive() {
			flows[t] = flows[t].Mul(keep)
		}
	}
	net := v.netAnnualBenefit
	if net.IsPositive() {
		net = net.Mul(keep)
	}
	return CashFlowVector{flows: flows, netAnnualBenefit: net}
}

// =============================================================================
// ANALYSIS - Deterministic result plus distributions
// =============================================================================

// AnalysisOptions selects the optional parts of Analyze.
type AnalysisOptions struct {
	Scenario    ScenarioName
	MonteCarlo  *MonteCarloSimulator
	Sensitivity *SensitivityAnalyzer
}

// Analysis bundles a ResultSet with its distributional results.
type Analysis struct {
	Result      ResultSet           `json:"result"`
	MonteCarlo  *MonteCarloResult   `json:"monte_carlo,omitempty"`
	Sensitivity []SensitivityResult `json:"sensitivity,omitempty"`
}

// Analyze calculates a (after applying opts.Scenario, if set) and runs the
// requested Monte Carlo and sensitivity passes over the same set.
func (c *Calculator) Analyze(ctx context.Context, a AssumptionSet, opts AnalysisOptions) (Analysis, error) {
	set := a
	if opts.Scenario != "" {
		derived, err := ApplyScenario(a, opts.Scenario)
		if err != nil {
			return Analysis{}, err
		}
		set = derived
	}

	result, err := c.Calculate(set)
	if err != nil {
		return Analysis{}, err
	}
	result.Scenario = opts.Scenario
	out := Analysis{Result: result}

	if opts.MonteCarlo != nil {
		mc, err := opts.MonteCarlo.Run(ctx, set)
		if err != nil {
			return Analysis{}, fmt.Errorf("monte carlo: %w", err)
		}
		out.MonteCarlo = &mc
	}

	if opts.Sensitivity != nil {
		sens, err := opts.Sensitivity.Analyze(set)
		if err != nil {
			return Analysis{}, fmt.Errorf("sensitivity: %w", err)
		}
		out.Sensitivity = sens
	}

	return out, nil
}
