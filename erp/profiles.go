/*
Package erp provides ERP business-case presets.

These functions build assumption documents for typical ERP programmes so a
new user can load a realistic project and see every metric populated. Each
returns JSON in the factory schema; parse it with factory.ParseAssumptions.

USAGE:
  import "github.com/warp/roi-engine/erp"

  jsonStr := erp.MidMarketManufacturerJSON(250, 45_000_000)
  set, err := factory.NewAssumptionFactory().ParseAssumptions(jsonStr)

PROFILES:
  reference-rollout:      The worked example; savings only, no risk
  mid-market-manufacturer: Full benefit model, inventory-heavy
  retail-chain:           Revenue-driven, short horizon, high adoption risk
  professional-services:  Productivity-driven, people-heavy
*/
package erp

import (
	"encoding/json"
	"fmt"

	"github.com/warp/roi-engine/factory"
)

// Profile describes a loadable demo project.
type Profile struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`
	Industry    string `json:"industry"`
}

var profiles = []Profile{
	{
		ID:          "reference-rollout",
		Name:        "Reference Rollout",
		Description: "1.47M programme with 890k annual savings over five years",
		Industry:    "manufacturing",
	},
	{
		ID:          "mid-market-manufacturer",
		Name:        "Mid-Market Manufacturer",
		Description: "250 staff, 45M revenue, inventory and automation gains",
		Industry:    "manufacturing",
	},
	{
		ID:          "retail-chain",
		Name:        "Retail Chain",
		Description: "Omnichannel rollout driven by revenue uplift",
		Industry:    "retail",
	},
	{
		ID:          "professional-services",
		Name:        "Professional Services",
		Description: "Consultancy replacing spreadsheets with project accounting",
		Industry:    "services",
	},
}

// Profiles returns the demo projects in display order.
func Profiles() []Profile {
	out := make([]Profile, len(profiles))
	copy(out, profiles)
	return out
}

// ProfileJSON returns the assumption document for a profile ID.
func ProfileJSON(id string) (string, error) {
	switch id {
	case "reference-rollout":
		return ReferenceRolloutJSON(), nil
	case "mid-market-manufacturer":
		return MidMarketManufacturerJSON(250, 45_000_000), nil
	case "retail-chain":
		return RetailChainJSON(38_000_000), nil
	case "professional-services":
		return ProfessionalServicesJSON(120, 95_000), nil
	default:
		return "", fmt.Errorf("unknown profile %q", id)
	}
}

// ReferenceRolloutJSON returns the worked example: 1.47M invested,
// 890k savings, 50k operating cost, 8% over five years.
func ReferenceRolloutJSON() string {
	return encode(factory.AssumptionJSON{
		Industry: "manufacturing",
		Costs: factory.CostsJSON{
			License:        420_000,
			Implementation: 380_000,
			Infrastructure: 240_000,
			Training:       120_000,
			Maintenance:    85_000,
			Consulting:     150_000,
			Migration:      75_000,
			Operational:    50_000,
		},
		Benefits:  factory.BenefitsJSON{AnnualSavings: 890_000},
		Financial: factory.FinancialJSON{DiscountRate: 0.08, HorizonYears: factory.Years(5)},
	})
}

// MidMarketManufacturerJSON returns a manufacturer with the full benefit
// model. Costs scale with headcount.
func MidMarketManufacturerJSON(employees int, revenue float64) string {
	perSeat := float64(employees)
	return encode(factory.AssumptionJSON{
		Industry: "manufacturing",
		Costs: factory.CostsJSON{
			License:        perSeat * 2_400,
			Implementation: 650_000,
			Infrastructure: 180_000,
			Training:       perSeat * 600,
			Maintenance:    perSeat * 480,
			Consulting:     220_000,
			Migration:      140_000,
			Operational:    perSeat * 360,
		},
		Benefits: factory.BenefitsJSON{
			AnnualSavings:      420_000,
			RevenueIncreasePct: 2.5,
			AutomationSavings:  160_000,
			ComplianceSavings:  40_000,
			InventorySavings:   310_000,
			CurrentRevenue:     revenue,
			EmployeeCount:      employees,
			AverageSalary:      58_000,
			CurrentEfficiency:  0.62,
			TargetEfficiency:   0.74,
		},
		Financial: factory.FinancialJSON{
			DiscountRate:  0.09,
			HorizonYears:  factory.Years(7),
			InflationRate: 0.025,
			TaxRate:       0.25,
			WACC:          0.095,
		},
		Risks: factory.RisksJSON{
			Implementation: 0.15,
			Adoption:       0.10,
			Technology:     0.05,
			Budget:         0.12,
			Timeline:       0.15,
		},
	})
}

// RetailChainJSON returns a revenue-driven retail rollout.
func RetailChainJSON(revenue float64) string {
	return encode(factory.AssumptionJSON{
		Industry: "retail",
		Costs: factory.CostsJSON{
			License:        540_000,
			Implementation: 480_000,
			Infrastructure: 260_000,
			Training:       150_000,
			Maintenance:    90_000,
			Consulting:     120_000,
			Migration:      110_000,
			Operational:    95_000,
		},
		Benefits: factory.BenefitsJSON{
			AnnualSavings:      260_000,
			RevenueIncreasePct: 3,
			InventorySavings:   220_000,
			CurrentRevenue:     revenue,
		},
		Financial: factory.FinancialJSON{
			DiscountRate:  0.10,
			HorizonYears:  factory.Years(5),
			InflationRate: 0.03,
			TaxRate:       0.21,
			WACC:          0.10,
		},
		Risks: factory.RisksJSON{
			Implementation: 0.10,
			Adoption:       0.25,
			Technology:     0.08,
			Budget:         0.10,
			Timeline:       0.12,
		},
	})
}

// ProfessionalServicesJSON returns a people-heavy services firm where
// productivity carries the case.
func ProfessionalServicesJSON(employees int, salary float64) string {
	return encode(factory.AssumptionJSON{
		Industry: "services",
		Costs: factory.CostsJSON{
			License:        float64(employees) * 1_800,
			Implementation: 210_000,
			Infrastructure: 40_000,
			Training:       float64(employees) * 900,
			Maintenance:    35_000,
			Consulting:     90_000,
			Migration:      45_000,
			Operational:    float64(employees) * 240,
		},
		Benefits: factory.BenefitsJSON{
			AnnualSavings:       120_000,
			ProductivityGainPct: 6,
			ComplianceSavings:   25_000,
			EmployeeCount:       employees,
			AverageSalary:       salary,
		},
		Financial: factory.FinancialJSON{
			DiscountRate: 0.08,
			HorizonYears: factory.Years(5),
			TaxRate:      0.25,
			WACC:         0.085,
		},
		Risks: factory.RisksJSON{
			Implementation: 0.08,
			Adoption:       0.20,
			Technology:     0.05,
			Budget:         0.05,
			Timeline:       0.08,
		},
	})
}

func encode(aj factory.AssumptionJSON) string {
	b, _ := json.MarshalIndent(aj, "", "  ")
	return string(b)
}
