/*
scenario.go - Named multiplier presets over a base AssumptionSet

PURPOSE:
  A Scenario scales a base set to express a planning stance. Application is
  multiplicative and never mutates the base: the derived set is a new value.

MULTIPLIER TARGETS:
  CostMultiplier     → license and implementation cost
  BenefitMultiplier  → annual operational savings
  RiskMultiplier     → all five risk probabilities
  TimelineMultiplier → consulting and migration cost (a longer rollout
                       extends consultant and migration billing)

PRESETS:
  pessimistic  1.30 / 0.70 / 1.50 / 1.40
  realistic    1.00 / 1.00 / 1.00 / 1.00
  optimistic   0.90 / 1.20 / 0.80 / 0.90
  aggressive   0.80 / 1.40 / 0.60 / 0.80

  The derived set is validated, so a risk multiplier that pushes a
  probability to 1 or above is reported as a ValidationError.

SEE ALSO:
  - engine.go: Calculator.CalculateScenario
*/
package finance

import (
	"fmt"

	"github.com/shopspring/decimal"
)

type ScenarioName string

const (
	ScenarioPessimistic ScenarioName = "pessimistic"
	ScenarioRealistic   ScenarioName = "realistic"
	ScenarioOptimistic  ScenarioName = "optimistic"
	ScenarioAggressive  ScenarioName = "aggressive"
)

// Scenario is a named multiplier tuple.
type Scenario struct {
	Name               ScenarioName    `json:"name"`
	Description        string          `json:"description"`
	CostMultiplier     decimal.Decimal `json:"cost_multiplier"`
	BenefitMultiplier  decimal.Decimal `json:"benefit_multiplier"`
	RiskMultiplier     decimal.Decimal `json:"risk_multiplier"`
	TimelineMultiplier decimal.Decimal `json:"timeline_multiplier"`
}

var scenarios = []Scenario{
	{
		Name:               ScenarioPessimistic,
		Description:        "Cost overruns, slower adoption and a delayed rollout",
		CostMultiplier:     Rate(1.3),
		BenefitMultiplier:  Rate(0.7),
		RiskMultiplier:     Rate(1.5),
		TimelineMultiplier: Rate(1.4),
	},
	{
		Name:               ScenarioRealistic,
		Description:        "Base assumptions as entered",
		CostMultiplier:     one,
		BenefitMultiplier:  one,
		RiskMultiplier:     one,
		TimelineMultiplier: one,
	},
	{
		Name:               ScenarioOptimistic,
		Description:        "Negotiated licensing and strong adoption",
		CostMultiplier:     Rate(0.9),
		BenefitMultiplier:  Rate(1.2),
		RiskMultiplier:     Rate(0.8),
		TimelineMultiplier: Rate(0.9),
	},
	{
		Name:               ScenarioAggressive,
		Description:        "Best-case delivery with full benefit capture",
		CostMultiplier:     Rate(0.8),
		BenefitMultiplier:  Rate(1.4),
		RiskMultiplier:     Rate(0.6),
		TimelineMultiplier: Rate(0.8),
	},
}

// Scenarios returns the presets in order from most to least conservative.
func Scenarios() []Scenario {
	out := make([]Scenario, len(scenarios))
	copy(out, scenarios)
	return out
}

// LookupScenario finds a preset by name.
func LookupScenario(name ScenarioName) (Scenario, error) {
	for _, s := range scenarios {
		if s.Name == name {
			return s, nil
		}
	}
	return Scenario{}, fmt.Errorf("%w: %q", ErrUnknownScenario, name)
}

// Apply returns the derived set. base is not modified.
func (s Scenario) Apply(base AssumptionSet) (AssumptionSet, error) {
	d := base

	d.Costs.License = base.Costs.License.Mul(s.CostMultiplier)
	d.Costs.Implementation = base.Costs.Implementation.Mul(s.CostMultiplier)
	d.Benefits.AnnualSavings = base.Benefits.AnnualSavings.Mul(s.BenefitMultiplier)

	d.Risks = RiskProfile{
		Implementation: base.Risks.Implementation.Mul(s.RiskMultiplier),
		Adoption:       base.Risks.Adoption.Mul(s.RiskMultiplier),
		Technology:     base.Risks.Technology.Mul(s.RiskMultiplier),
		Budget:         base.Risks.Budget.Mul(s.RiskMultiplier),
		Timeline:       base.Risks.Timeline.Mul(s.RiskMultiplier),
	}

	d.Costs.Consulting = base.Costs.Consulting.Mul(s.TimelineMultiplier)
	d.Costs.Migration = base.Costs.Migration.Mul(s.TimelineMultiplier)

	if err := d.Validate(); err != nil {
		return AssumptionSet{}, fmt.Errorf("scenario %s: %w", s.Name, err)
	}
	return d, nil
}

// ApplyScenario looks up name and applies it to base.
func ApplyScenario(base AssumptionSet, name ScenarioName) (AssumptionSet, error) {
	s, err := LookupScenario(name)
	if err != nil {
		return AssumptionSet{}, err
	}
	return s.Apply(base)
}
