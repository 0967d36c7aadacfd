/*
Package factory provides JSON/YAML to AssumptionSet conversion.

PURPOSE:
  Converts assumption files and request bodies into finance.AssumptionSet
  values. Analysts keep project assumptions as JSON or YAML next to the
  business case; the factory turns them into the decimal-based input model
  and validates the result.

WHY FLOATS ON THE WIRE?
  - Spreadsheets and admin UIs export plain numbers
  - Precision loss stops here: every value becomes a decimal.Decimal once
  - The engine never sees a float for a monetary amount

JSON SCHEMA:
  {
    "industry": "manufacturing",
    "costs": {
      "license": 420000, "implementation": 380000, "infrastructure": 240000,
      "training": 120000, "maintenance": 85000, "consulting": 150000,
      "migration": 75000, "operational": 50000
    },
    "benefits": {"annual_savings": 890000},
    "financial": {"discount_rate": 0.08, "horizon_years": 5},
    "risks": {"implementation": 0.1, "adoption": 0.15}
  }

  YAML uses the same keys.

DEFAULTS:
  - horizon_years: 5 when absent (an explicit 0 fails validation)
  - industry: manufacturing
  Everything else is explicit; a missing value is zero.

NON-FINITE VALUES:
  YAML accepts .inf and .nan. They are rejected with a ValidationError
  naming the field before any decimal conversion.

USAGE:
  f := factory.NewAssumptionFactory()
  set, err := f.ParseAssumptions(jsonString)
  set, err = f.LoadAssumptionsFile("project.yaml")

SEE ALSO:
  - finance/assumptions.go: AssumptionSet and Validate
  - erp/profiles.go: Demo projects built on this schema
*/
package factory

import (
	"encoding/json"
	"fmt"
	"math"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"
	"github.com/warp/roi-engine/finance"
	"gopkg.in/yaml.v3"
)

// DefaultHorizonYears applies when horizon_years is omitted.
const DefaultHorizonYears = 5

// =============================================================================
// SCHEMA TYPES
// =============================================================================

// AssumptionJSON is the wire representation of an AssumptionSet.
type AssumptionJSON struct {
	Industry  string        `json:"industry,omitempty" yaml:"industry,omitempty"`
	Costs     CostsJSON     `json:"costs" yaml:"costs"`
	Benefits  BenefitsJSON  `json:"benefits" yaml:"benefits"`
	Financial FinancialJSON `json:"financial" yaml:"financial"`
	Risks     RisksJSON     `json:"risks" yaml:"risks"`
}

// CostsJSON represents cost categories.
type CostsJSON struct {
	License        float64 `json:"license" yaml:"license"`
	Implementation float64 `json:"implementation" yaml:"implementation"`
	Infrastructure float64 `json:"infrastructure" yaml:"infrastructure"`
	Training       float64 `json:"training" yaml:"training"`
	Maintenance    float64 `json:"maintenance" yaml:"maintenance"`
	Consulting     float64 `json:"consulting" yaml:"consulting"`
	Migration      float64 `json:"migration" yaml:"migration"`
	Operational    float64 `json:"operational" yaml:"operational"` // per year
}

// BenefitsJSON represents benefit drivers.
type BenefitsJSON struct {
	AnnualSavings       float64 `json:"annual_savings" yaml:"annual_savings"`
	RevenueIncreasePct  float64 `json:"revenue_increase_pct,omitempty" yaml:"revenue_increase_pct,omitempty"`
	ProductivityGainPct float64 `json:"productivity_gain_pct,omitempty" yaml:"productivity_gain_pct,omitempty"`
	AutomationSavings   float64 `json:"automation_savings,omitempty" yaml:"automation_savings,omitempty"`
	ComplianceSavings   float64 `json:"compliance_savings,omitempty" yaml:"compliance_savings,omitempty"`
	InventorySavings    float64 `json:"inventory_savings,omitempty" yaml:"inventory_savings,omitempty"`
	CurrentRevenue      float64 `json:"current_revenue,omitempty" yaml:"current_revenue,omitempty"`
	EmployeeCount       int     `json:"employee_count,omitempty" yaml:"employee_count,omitempty"`
	AverageSalary       float64 `json:"average_salary,omitempty" yaml:"average_salary,omitempty"`
	CurrentEfficiency   float64 `json:"current_efficiency,omitempty" yaml:"current_efficiency,omitempty"`
	TargetEfficiency    float64 `json:"target_efficiency,omitempty" yaml:"target_efficiency,omitempty"`
}

// FinancialJSON represents discounting parameters. Rates are fractions.
type FinancialJSON struct {
	DiscountRate  float64 `json:"discount_rate" yaml:"discount_rate"`
	HorizonYears  *int    `json:"horizon_years,omitempty" yaml:"horizon_years,omitempty"` // nil → DefaultHorizonYears
	InflationRate float64 `json:"inflation_rate,omitempty" yaml:"inflation_rate,omitempty"`
	TaxRate       float64 `json:"tax_rate,omitempty" yaml:"tax_rate,omitempty"`
	WACC          float64 `json:"wacc,omitempty" yaml:"wacc,omitempty"`
}

// RisksJSON represents the five risk probabilities.
type RisksJSON struct {
	Implementation float64 `json:"implementation" yaml:"implementation"`
	Adoption       float64 `json:"adoption" yaml:"adoption"`
	Technology     float64 `json:"technology" yaml:"technology"`
	Budget         float64 `json:"budget" yaml:"budget"`
	Timeline       float64 `json:"timeline" yaml:"timeline"`
}

// =============================================================================
// ASSUMPTION FACTORY
// =============================================================================

// AssumptionFactory converts wire documents to AssumptionSets.
type AssumptionFactory struct{}

// NewAssumptionFactory creates a new assumption factory.
func NewAssumptionFactory() *AssumptionFactory {
	return &AssumptionFactory{}
}

// ParseAssumptions parses a JSON document into a validated AssumptionSet.
func (f *AssumptionFactory) ParseAssumptions(jsonStr string) (finance.AssumptionSet, error) {
	var aj AssumptionJSON
	if err := json.Unmarshal([]byte(jsonStr), &aj); err != nil {
		return finance.AssumptionSet{}, fmt.Errorf("failed to parse assumptions JSON: %w", err)
	}
	return f.FromJSON(aj)
}

// ParseAssumptionsYAML parses a YAML document into a validated AssumptionSet.
func (f *AssumptionFactory) ParseAssumptionsYAML(data []byte) (finance.AssumptionSet, error) {
	var aj AssumptionJSON
	if err := yaml.Unmarshal(data, &aj); err != nil {
		return finance.AssumptionSet{}, fmt.Errorf("failed to parse assumptions YAML: %w", err)
	}
	return f.FromJSON(aj)
}

// LoadAssumptionsFile reads a .json, .yaml or .yml file.
func (f *AssumptionFactory) LoadAssumptionsFile(path string) (finance.AssumptionSet, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return finance.AssumptionSet{}, fmt.Errorf("read assumptions: %w", err)
	}

	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return f.ParseAssumptionsYAML(data)
	case ".json":
		return f.ParseAssumptions(string(data))
	default:
		return finance.AssumptionSet{}, fmt.Errorf("unsupported assumptions file type %q", filepath.Ext(path))
	}
}

// FromJSON converts the wire form, applies defaults and validates.
func (f *AssumptionFactory) FromJSON(aj AssumptionJSON) (finance.AssumptionSet, error) {
	a, err := f.Build(aj)
	if err != nil {
		return finance.AssumptionSet{}, err
	}
	if err := a.Validate(); err != nil {
		return finance.AssumptionSet{}, err
	}
	return a, nil
}

// Build converts the wire form and applies defaults. It only rejects
// values that have no decimal form; range checks are left to Validate.
func (f *AssumptionFactory) Build(aj AssumptionJSON) (finance.AssumptionSet, error) {
	if err := checkFinite(aj); err != nil {
		return finance.AssumptionSet{}, err
	}

	horizon := DefaultHorizonYears
	if aj.Financial.HorizonYears != nil {
		horizon = *aj.Financial.HorizonYears
	}
	industry := finance.Industry(strings.ToLower(strings.TrimSpace(aj.Industry)))
	if industry == "" {
		industry = finance.IndustryManufacturing
	}

	return finance.AssumptionSet{
		Industry: industry,
		Costs: finance.CostCategories{
			License:        dec(aj.Costs.License),
			Implementation: dec(aj.Costs.Implementation),
			Infrastructure: dec(aj.Costs.Infrastructure),
			Training:       dec(aj.Costs.Training),
			Maintenance:    dec(aj.Costs.Maintenance),
			Consulting:     dec(aj.Costs.Consulting),
			Migration:      dec(aj.Costs.Migration),
			Operational:    dec(aj.Costs.Operational),
		},
		Benefits: finance.BenefitDrivers{
			AnnualSavings:       dec(aj.Benefits.AnnualSavings),
			RevenueIncreasePct:  dec(aj.Benefits.RevenueIncreasePct),
			ProductivityGainPct: dec(aj.Benefits.ProductivityGainPct),
			AutomationSavings:   dec(aj.Benefits.AutomationSavings),
			ComplianceSavings:   dec(aj.Benefits.ComplianceSavings),
			InventorySavings:    dec(aj.Benefits.InventorySavings),
			CurrentRevenue:      dec(aj.Benefits.CurrentRevenue),
			EmployeeCount:       aj.Benefits.EmployeeCount,
			AverageSalary:       dec(aj.Benefits.AverageSalary),
			CurrentEfficiency:   dec(aj.Benefits.CurrentEfficiency),
			TargetEfficiency:    dec(aj.Benefits.TargetEfficiency),
		},
		Financial: finance.FinancialParameters{
			DiscountRate:  dec(aj.Financial.DiscountRate),
			HorizonYears:  horizon,
			InflationRate: dec(aj.Financial.InflationRate),
			TaxRate:       dec(aj.Financial.TaxRate),
			WACC:          dec(aj.Financial.WACC),
		},
		Risks: finance.RiskProfile{
			Implementation: dec(aj.Risks.Implementation),
			Adoption:       dec(aj.Risks.Adoption),
			Technology:     dec(aj.Risks.Technology),
			Budget:         dec(aj.Risks.Budget),
			Timeline:       dec(aj.Risks.Timeline),
		},
	}, nil
}

// ToJSON converts an AssumptionSet to its wire form.
func (f *AssumptionFactory) ToJSON(a finance.AssumptionSet) AssumptionJSON {
	c, b, fin, r := a.Costs, a.Benefits, a.Financial, a.Risks
	return AssumptionJSON{
		Industry: string(a.Industry),
		Costs: CostsJSON{
			License:        c.License.InexactFloat64(),
			Implementation: c.Implementation.InexactFloat64(),
			Infrastructure: c.Infrastructure.InexactFloat64(),
			Training:       c.Training.InexactFloat64(),
			Maintenance:    c.Maintenance.InexactFloat64(),
			Consulting:     c.Consulting.InexactFloat64(),
			Migration:      c.Migration.InexactFloat64(),
			Operational:    c.Operational.InexactFloat64(),
		},
		Benefits: BenefitsJSON{
			AnnualSavings:       b.AnnualSavings.InexactFloat64(),
			RevenueIncreasePct:  b.RevenueIncreasePct.InexactFloat64(),
			ProductivityGainPct: b.ProductivityGainPct.InexactFloat64(),
			AutomationSavings:   b.AutomationSavings.InexactFloat64(),
			ComplianceSavings:   b.ComplianceSavings.InexactFloat64(),
			InventorySavings:    b.InventorySavings.InexactFloat64(),
			CurrentRevenue:      b.CurrentRevenue.InexactFloat64(),
			EmployeeCount:       b.EmployeeCount,
			AverageSalary:       b.AverageSalary.InexactFloat64(),
			CurrentEfficiency:   b.CurrentEfficiency.InexactFloat64(),
			TargetEfficiency:    b.TargetEfficiency.InexactFloat64(),
		},
		Financial: FinancialJSON{
			DiscountRate:  fin.DiscountRate.InexactFloat64(),
			HorizonYears:  Years(fin.HorizonYears),
			InflationRate: fin.InflationRate.InexactFloat64(),
			TaxRate:       fin.TaxRate.InexactFloat64(),
			WACC:          fin.WACC.InexactFloat64(),
		},
		Risks: RisksJSON{
			Implementation: r.Implementation.InexactFloat64(),
			Adoption:       r.Adoption.InexactFloat64(),
			Technology:     r.Technology.InexactFloat64(),
			Budget:         r.Budget.InexactFloat64(),
			Timeline:       r.Timeline.InexactFloat64(),
		},
	}
}

// Years returns a horizon for FinancialJSON.HorizonYears.
func Years(n int) *int {
	return &n
}

// checkFinite rejects Inf and NaN, which decimal cannot represent.
func checkFinite(aj AssumptionJSON) error {
	c, b, fin, r := aj.Costs, aj.Benefits, aj.Financial, aj.Risks
	fields := []struct {
		name string
		v    float64
	}{
		{"costs.license", c.License},
		{"costs.implementation", c.Implementation},
		{"costs.infrastructure", c.Infrastructure},
		{"costs.training", c.Training},
		{"costs.maintenance", c.Maintenance},
		{"costs.consulting", c.Consulting},
		{"costs.migration", c.Migration},
		{"costs.operational", c.Operational},
		{"benefits.annual_savings", b.AnnualSavings},
		{"benefits.revenue_increase_pct", b.RevenueIncreasePct},
		{"benefits.productivity_gain_pct", b.ProductivityGainPct},
		{"benefits.automation_savings", b.AutomationSavings},
		{"benefits.compliance_savings", b.ComplianceSavings},
		{"benefits.inventory_savings", b.InventorySavings},
		{"benefits.current_revenue", b.CurrentRevenue},
		{"benefits.average_salary", b.AverageSalary},
		{"benefits.current_efficiency", b.CurrentEfficiency},
		{"benefits.target_efficiency", b.TargetEfficiency},
		{"financial.discount_rate", fin.DiscountRate},
		{"financial.inflation_rate", fin.InflationRate},
		{"financial.tax_rate", fin.TaxRate},
		{"financial.wacc", fin.WACC},
		{"risks.implementation", r.Implementation},
		{"risks.adoption", r.Adoption},
		{"risks.technology", r.Technology},
		{"risks.budget", r.Budget},
		{"risks.timeline", r.Timeline},
	}
	for _, f := range fields {
		if math.IsInf(f.v, 0) || math.IsNaN(f.v) {
			return &finance.ValidationError{
				Field:  f.name,
				Value:  strconv.FormatFloat(f.v, 'g', -1, 64),
				Reason: "must be a finite number",
			}
		}
	}
	return nil
}

func dec(v float64) decimal.Decimal {
	return decimal.NewFromFloat(v)
}
