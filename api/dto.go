/*
dto.go - Data Transfer Objects for API requests and responses

PURPOSE:
  Defines the JSON structures for API communication. The engine computes
  in decimal.Decimal; these types carry plain numbers so browser clients
  and spreadsheets can consume them directly. Assumptions travel in the
  factory schema (factory.AssumptionJSON), the same one used by files.

NAMING CONVENTION:
  - *DTO: Response types returned to clients
  - *Request: Request body types from clients

TYPES:
  Calculation:
    CalculateRequest, MonteCarloRequest, SensitivityRequest, AnalyzeRequest
    ResultDTO, SensitivityDTO, AnalysisDTO

  Reference data:
    ScenarioDTO, BenchmarkDTO, DemoDTO

  Projects:
    ProjectRequest, ProjectCalculateRequest, ProjectDTO, ArchivedResultDTO

VALIDATION:
  Validation is done by the factory and the engine, not in DTOs. DTOs are
  pure data carriers.

SEE ALSO:
  - handlers.go: Uses these types
  - factory/assumptions.go: AssumptionJSON type
*/
package api

import (
	"time"

	"github.com/shopspring/decimal"
	"github.com/warp/roi-engine/erp"
	"github.com/warp/roi-engine/factory"
	"github.com/warp/roi-engine/finance"
)

// =============================================================================
// REQUEST TYPES
// =============================================================================

// CalculateRequest is the body of POST /api/calculate.
type CalculateRequest struct {
	Assumptions factory.AssumptionJSON `json:"assumptions"`
	Scenario    string                 `json:"scenario,omitempty"`
}

// VariationDTO overrides the Monte Carlo standard deviations.
type VariationDTO struct {
	CostStdDev     float64 `json:"cost_std_dev"`
	BenefitStdDev  float64 `json:"benefit_std_dev"`
	TimelineStdDev float64 `json:"timeline_std_dev"`
}

// MonteCarloRequest is the body of POST /api/montecarlo.
type MonteCarloRequest struct {
	Assumptions factory.AssumptionJSON `json:"assumptions"`
	Scenario    string                 `json:"scenario,omitempty"`
	Iterations  int                    `json:"iterations,omitempty"`
	Seed        uint64                 `json:"seed,omitempty"`
	Variation   *VariationDTO          `json:"variation,omitempty"`
}

// SensitivityRequest is the body of POST /api/sensitivity.
type SensitivityRequest struct {
	Assumptions  factory.AssumptionJSON `json:"assumptions"`
	Scenario     string                 `json:"scenario,omitempty"`
	Perturbation float64                `json:"perturbation,omitempty"` // default 0.10
}

// AnalyzeRequest is the body of POST /api/analyze.
type AnalyzeRequest struct {
	Assumptions  factory.AssumptionJSON `json:"assumptions"`
	Scenario     string                 `json:"scenario,omitempty"`
	Iterations   int                    `json:"iterations,omitempty"`
	Seed         uint64                 `json:"seed,omitempty"`
	Variation    *VariationDTO          `json:"variation,omitempty"`
	Perturbation float64                `json:"perturbation,omitempty"`
}

// CompareRequest is the body of POST /api/scenarios/compare.
type CompareRequest struct {
	Assumptions factory.AssumptionJSON `json:"assumptions"`
}

// ProjectRequest creates or replaces a project.
type ProjectRequest struct {
	ID          string                 `json:"id,omitempty"` // generated when empty
	Name        string                 `json:"name"`
	Description string                 `json:"description,omitempty"`
	Assumptions factory.AssumptionJSON `json:"assumptions"`
}

// ProjectCalculateRequest is the body of POST /api/projects/{id}/calculate.
// An empty body runs the deterministic calculation only.
type ProjectCalculateRequest struct {
	Scenario     string  `json:"scenario,omitempty"`
	MonteCarlo   bool    `json:"monte_carlo,omitempty"`
	Iterations   int     `json:"iterations,omitempty"`
	Seed         uint64  `json:"seed,omitempty"`
	Sensitivity  bool    `json:"sensitivity,omitempty"`
	Perturbation float64 `json:"perturbation,omitempty"`
}

// LoadDemoRequest is the body of POST /api/demos/load.
type LoadDemoRequest struct {
	DemoID string `json:"demo_id"`
}

// =============================================================================
// RESPONSE TYPES
// =============================================================================

// ResultDTO represents a ResultSet in API responses.
type ResultDTO struct {
	ID           string    `json:"id"`
	Scenario     string    `json:"scenario,omitempty"`
	CalculatedAt time.Time `json:"calculated_at"`

	TotalCosts       float64            `json:"total_costs"`
	TCO              float64            `json:"tco"`
	TotalBenefits    float64            `json:"total_benefits"`
	BenefitBreakdown map[string]float64 `json:"benefit_breakdown"`
	NetAnnualBenefit float64            `json:"net_annual_benefit"`
	CashFlows        []float64          `json:"cash_flows"`

	NPV         float64 `json:"npv"`
	NPVAtWACC   float64 `json:"npv_at_wacc"`
	AfterTaxNPV float64 `json:"after_tax_npv"`

	IRRPercent             *float64 `json:"irr_percent"`
	PaybackYears           *float64 `json:"payback_years"`
	DiscountedPaybackYears *float64 `json:"discounted_payback_years"`

	ROI1Year        float64 `json:"roi_1_year"`
	ROI3Year        float64 `json:"roi_3_year"`
	ROI5Year        float64 `json:"roi_5_year"`
	OverallRisk     float64 `json:"overall_risk"`
	RiskAdjustedROI float64 `json:"risk_adjusted_roi"`

	Benchmark BenchmarkRatingDTO `json:"benchmark"`
	Warnings  []finance.Warning  `json:"warnings"`
}

// BenchmarkRatingDTO is the industry comparison attached to a result.
type BenchmarkRatingDTO struct {
	Rating                string  `json:"rating"`
	Industry              string  `json:"industry"`
	ReferenceROI3Year     float64 `json:"reference_roi_3_year"`
	ReferencePaybackYears float64 `json:"reference_payback_years"`
	ROIGapPoints          float64 `json:"roi_gap_points"`
}

// SensitivityDTO represents one factor's ROI response.
type SensitivityDTO struct {
	Factor         string  `json:"factor"`
	BaseValue      float64 `json:"base_value"`
	PerturbedValue float64 `json:"perturbed_value"`
	BaseROI        float64 `json:"base_roi"`
	PerturbedROI   float64 `json:"perturbed_roi"`
	ROIDelta       float64 `json:"roi_delta"`
	DownsideDelta  float64 `json:"downside_delta"`
}

// AnalysisDTO bundles a result with its distributions.
type AnalysisDTO struct {
	Result      ResultDTO                 `json:"result"`
	MonteCarlo  *finance.MonteCarloResult `json:"monte_carlo,omitempty"`
	Sensitivity []SensitivityDTO          `json:"sensitivity,omitempty"`
}

// ScenarioDTO represents a scenario preset.
type ScenarioDTO struct {
	Name               string  `json:"name"`
	Description        string  `json:"description"`
	CostMultiplier     float64 `json:"cost_multiplier"`
	BenefitMultiplier  float64 `json:"benefit_multiplier"`
	RiskMultiplier     float64 `json:"risk_multiplier"`
	TimelineMultiplier float64 `json:"timeline_multiplier"`
}

// BenchmarkDTO represents an industry reference.
type BenchmarkDTO struct {
	Industry     string  `json:"industry"`
	ROI3Year     float64 `json:"roi_3_year"`
	PaybackYears float64 `json:"payback_years"`
}

// ProjectDTO represents a stored project.
type ProjectDTO struct {
	ID          string                 `json:"id"`
	Name        string                 `json:"name"`
	Description string                 `json:"description,omitempty"`
	Assumptions factory.AssumptionJSON `json:"assumptions"`
	CreatedAt   time.Time              `json:"created_at"`
	UpdatedAt   time.Time              `json:"updated_at"`
}

// ArchivedResultDTO represents an archived calculation.
type ArchivedResultDTO struct {
	ProjectID   string                    `json:"project_id"`
	Result      ResultDTO                 `json:"result"`
	MonteCarlo  *finance.MonteCarloResult `json:"monte_carlo,omitempty"`
	Sensitivity []SensitivityDTO          `json:"sensitivity,omitempty"`
}

// DemoDTO represents a loadable demo project.
type DemoDTO struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`
	Industry    string `json:"industry"`
}

// ErrorResponse is the standard error response.
type ErrorResponse struct {
	Error   string `json:"error"`
	Code    string `json:"code,omitempty"`
	Details any    `json:"details,omitempty"`
}

// =============================================================================
// CONVERSION HELPERS
// =============================================================================

func toResultDTO(r finance.ResultSet) ResultDTO {
	dto := ResultDTO{
		ID:               r.ID,
		Scenario:         string(r.Scenario),
		CalculatedAt:     r.CalculatedAt,
		TotalCosts:       r.TotalCosts.InexactFloat64(),
		TCO:              r.TCO.InexactFloat64(),
		TotalBenefits:    r.Benefits.Total.InexactFloat64(),
		BenefitBreakdown: make(map[string]float64),
		NetAnnualBenefit: r.NetAnnualBenefit.InexactFloat64(),
		CashFlows:        make([]float64, len(r.CashFlows)),
		NPV:              r.NPV.InexactFloat64(),
		NPVAtWACC:        r.NPVAtWACC.InexactFloat64(),
		AfterTaxNPV:      r.AfterTaxNPV.InexactFloat64(),
		IRRPercent:       r.IRRPercent,
		PaybackYears:     floatPtr(r.PaybackYears),

		DiscountedPaybackYears: floatPtr(r.DiscountedPayback),

		ROI1Year:        r.ROI.Year1.InexactFloat64(),
		ROI3Year:        r.ROI.Year3.InexactFloat64(),
		ROI5Year:        r.ROI.Year5.InexactFloat64(),
		OverallRisk:     r.OverallRisk.InexactFloat64(),
		RiskAdjustedROI: r.RiskAdjustedROI.InexactFloat64(),
		Benchmark: BenchmarkRatingDTO{
			Rating:                string(r.Benchmark.Rating),
			Industry:              string(r.Benchmark.Reference.Industry),
			ReferenceROI3Year:     r.Benchmark.Reference.ROI3Year.InexactFloat64(),
			ReferencePaybackYears: r.Benchmark.Reference.PaybackYears.InexactFloat64(),
			ROIGapPoints:          r.Benchmark.ROIGapPoints.InexactFloat64(),
		},
		Warnings: r.Warnings,
	}
	for name, v := range r.Benefits.Breakdown.Map() {
		dto.BenefitBreakdown[name] = v.InexactFloat64()
	}
	for i, cf := range r.CashFlows {
		dto.CashFlows[i] = cf.InexactFloat64()
	}
	if dto.Warnings == nil {
		dto.Warnings = []finance.Warning{}
	}
	return dto
}

func toSensitivityDTOs(results []finance.SensitivityResult) []SensitivityDTO {
	if results == nil {
		return nil
	}
	out := make([]SensitivityDTO, len(results))
	for i, s := range results {
		out[i] = SensitivityDTO{
			Factor:         string(s.Factor),
			BaseValue:      s.BaseValue.InexactFloat64(),
			PerturbedValue: s.PerturbedValue.InexactFloat64(),
			BaseROI:        s.BaseROI.InexactFloat64(),
			PerturbedROI:   s.PerturbedROI.InexactFloat64(),
			ROIDelta:       s.ROIDelta.InexactFloat64(),
			DownsideDelta:  s.DownsideDelta.InexactFloat64(),
		}
	}
	return out
}

func toScenarioDTO(s finance.Scenario) ScenarioDTO {
	return ScenarioDTO{
		Name:               string(s.Name),
		Description:        s.Description,
		CostMultiplier:     s.CostMultiplier.InexactFloat64(),
		BenefitMultiplier:  s.BenefitMultiplier.InexactFloat64(),
		RiskMultiplier:     s.RiskMultiplier.InexactFloat64(),
		TimelineMultiplier: s.TimelineMultiplier.InexactFloat64(),
	}
}

func toBenchmarkDTO(b finance.Benchmark) BenchmarkDTO {
	return BenchmarkDTO{
		Industry:     string(b.Industry),
		ROI3Year:     b.ROI3Year.InexactFloat64(),
		PaybackYears: b.PaybackYears.InexactFloat64(),
	}
}

func toProjectDTO(f *factory.AssumptionFactory, p finance.Project) ProjectDTO {
	return ProjectDTO{
		ID:          p.ID,
		Name:        p.Name,
		Description: p.Description,
		Assumptions: f.ToJSON(p.Assumptions),
		CreatedAt:   p.CreatedAt,
		UpdatedAt:   p.UpdatedAt,
	}
}

func toArchivedResultDTO(r finance.ArchivedResult) ArchivedResultDTO {
	return ArchivedResultDTO{
		ProjectID:   r.ProjectID,
		Result:      toResultDTO(r.Result),
		MonteCarlo:  r.MonteCarlo,
		Sensitivity: toSensitivityDTOs(r.Sensitivity),
	}
}

func toDemoDTO(p erp.Profile) DemoDTO {
	return DemoDTO{ID: p.ID, Name: p.Name, Description: p.Description, Industry: p.Industry}
}

func floatPtr(d *decimal.Decimal) *float64 {
	if d == nil {
		return nil
	}
	v := d.InexactFloat64()
	return &v
}
