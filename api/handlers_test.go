/*
handlers_test.go - HTTP tests for the API handlers

Tests run the full router against an in-memory store:
- Stateless calculation endpoints and their error mapping
- Project lifecycle and the result archive
- Demo loading, health and metrics
*/
package api

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/warp/roi-engine/erp"
	"github.com/warp/roi-engine/factory"
	"github.com/warp/roi-engine/finance"
	"github.com/warp/roi-engine/finance/store"
)

type testServer struct {
	handler *Handler
	router  http.Handler
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()
	h := NewHandler(store.NewMemory())
	h.MCIterations = 200
	return &testServer{
		handler: h,
		router:  NewRouter(h, RouterOptions{Logger: zerolog.Nop(), AllowedOrigins: []string{"*"}}),
	}
}

func (s *testServer) do(t *testing.T, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	switch b := body.(type) {
	case nil:
	case string:
		buf.WriteString(b)
	default:
		require.NoError(t, json.NewEncoder(&buf).Encode(b))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	s.router.ServeHTTP(rec, req)
	return rec
}

func decodeBody[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &v), rec.Body.String())
	return v
}

func referenceAssumptions(t *testing.T) factory.AssumptionJSON {
	t.Helper()
	var aj factory.AssumptionJSON
	require.NoError(t, json.Unmarshal([]byte(erp.ReferenceRolloutJSON()), &aj))
	return aj
}

// =============================================================================
// CALCULATION ENDPOINTS
// =============================================================================

func TestCalculate_ReferenceProject(t *testing.T) {
	// GIVEN: The reference rollout
	// WHEN: POST /api/calculate
	// THEN: The headline metrics come back as plain numbers
	s := newTestServer(t)

	rec := s.do(t, http.MethodPost, "/api/calculate", CalculateRequest{Assumptions: referenceAssumptions(t)})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	res := decodeBody[ResultDTO](t, rec)
	assert.NotEmpty(t, res.ID)
	assert.InDelta(t, 1470000, res.TotalCosts, 1e-6)
	assert.InDelta(t, 1883876.43, res.NPV, 0.01)
	require.NotNil(t, res.PaybackYears)
	assert.InDelta(t, 1.75, *res.PaybackYears, 1e-9)
	require.NotNil(t, res.IRRPercent)
	assert.InDelta(t, 49.488, *res.IRRPercent, 0.01)
	assert.Len(t, res.CashFlows, 6)
	assert.Equal(t, "below", res.Benchmark.Rating)
	assert.Empty(t, res.Warnings)
}

func TestCalculate_WithScenario(t *testing.T) {
	s := newTestServer(t)

	rec := s.do(t, http.MethodPost, "/api/calculate", CalculateRequest{
		Assumptions: referenceAssumptions(t),
		Scenario:    "pessimistic",
	})
	require.Equal(t, http.StatusOK, rec.Code)

	res := decodeBody[ResultDTO](t, rec)
	assert.Equal(t, "pessimistic", res.Scenario)
	assert.Less(t, res.NPV, 1883876.43)
}

func TestCalculate_DegenerateReturnsWarnings(t *testing.T) {
	s := newTestServer(t)
	aj := referenceAssumptions(t)
	aj.Costs.Operational = 1_000_000

	rec := s.do(t, http.MethodPost, "/api/calculate", CalculateRequest{Assumptions: aj})
	require.Equal(t, http.StatusOK, rec.Code)

	res := decodeBody[ResultDTO](t, rec)
	assert.Nil(t, res.PaybackYears)
	assert.Nil(t, res.IRRPercent)
	require.NotEmpty(t, res.Warnings)
	assert.Equal(t, finance.WarnDegenerateCashFlow, res.Warnings[0].Code)
}

func TestCalculate_Errors(t *testing.T) {
	s := newTestServer(t)

	t.Run("malformed body", func(t *testing.T) {
		rec := s.do(t, http.MethodPost, "/api/calculate", `{"assumptions":`)
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("validation error names the field", func(t *testing.T) {
		aj := referenceAssumptions(t)
		aj.Risks.Budget = 1.2
		rec := s.do(t, http.MethodPost, "/api/calculate", CalculateRequest{Assumptions: aj})
		require.Equal(t, http.StatusBadRequest, rec.Code)

		body := decodeBody[ErrorResponse](t, rec)
		assert.Equal(t, "validation_error", body.Code)
		details, ok := body.Details.(map[string]any)
		require.True(t, ok)
		assert.Equal(t, "risks.budget", details["field"])
	})

	t.Run("unknown scenario", func(t *testing.T) {
		rec := s.do(t, http.MethodPost, "/api/calculate", CalculateRequest{
			Assumptions: referenceAssumptions(t),
			Scenario:    "apocalyptic",
		})
		require.Equal(t, http.StatusBadRequest, rec.Code)
		assert.Equal(t, "unknown_scenario", decodeBody[ErrorResponse](t, rec).Code)
	})
}

func TestMonteCarlo_SeededRunIsReproducible(t *testing.T) {
	s := newTestServer(t)
	req := MonteCarloRequest{Assumptions: referenceAssumptions(t), Iterations: 300, Seed: 99}

	first := s.do(t, http.MethodPost, "/api/montecarlo", req)
	second := s.do(t, http.MethodPost, "/api/montecarlo", req)
	require.Equal(t, http.StatusOK, first.Code, first.Body.String())

	res := decodeBody[finance.MonteCarloResult](t, first)
	assert.Equal(t, 300, res.Iterations)
	assert.Equal(t, uint64(99), res.Seed)
	assert.LessOrEqual(t, res.NPV.P10, res.NPV.Median)
	assert.LessOrEqual(t, res.NPV.Median, res.NPV.P90)
	assert.JSONEq(t, first.Body.String(), second.Body.String())
}

func TestMonteCarlo_ZeroVariationMatchesCalculate(t *testing.T) {
	s := newTestServer(t)
	aj := referenceAssumptions(t)

	calc := decodeBody[ResultDTO](t, s.do(t, http.MethodPost, "/api/calculate", CalculateRequest{Assumptions: aj}))
	rec := s.do(t, http.MethodPost, "/api/montecarlo", MonteCarloRequest{
		Assumptions: aj,
		Iterations:  50,
		Variation:   &VariationDTO{},
	})
	require.Equal(t, http.StatusOK, rec.Code)

	mc := decodeBody[finance.MonteCarloResult](t, rec)
	assert.InDelta(t, calc.NPV, mc.NPV.Median, 1e-6)
	assert.InDelta(t, calc.ROI3Year, mc.ROI.Median, 1e-9)
	assert.Equal(t, 1.0, mc.NPVPositiveProbability)
}

func TestMonteCarlo_IterationBounds(t *testing.T) {
	s := newTestServer(t)
	s.handler.MaxIterations = 1000

	rec := s.do(t, http.MethodPost, "/api/montecarlo", MonteCarloRequest{Assumptions: referenceAssumptions(t), Iterations: 5000})
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = s.do(t, http.MethodPost, "/api/montecarlo", MonteCarloRequest{Assumptions: referenceAssumptions(t), Iterations: -1})
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = s.do(t, http.MethodPost, "/api/montecarlo", MonteCarloRequest{
		Assumptions: referenceAssumptions(t),
		Variation:   &VariationDTO{CostStdDev: -0.1},
	})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestSensitivity_Ranked(t *testing.T) {
	s := newTestServer(t)

	rec := s.do(t, http.MethodPost, "/api/sensitivity", SensitivityRequest{Assumptions: referenceAssumptions(t)})
	require.Equal(t, http.StatusOK, rec.Code)

	res := decodeBody[[]SensitivityDTO](t, rec)
	require.Len(t, res, 4)
	assert.Equal(t, "annual_savings", res[0].Factor)
	assert.InDelta(t, 18.1633, res[0].ROIDelta, 1e-3)

	rec = s.do(t, http.MethodPost, "/api/sensitivity", SensitivityRequest{Assumptions: referenceAssumptions(t), Perturbation: 1.5})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestAnalyze_AllParts(t *testing.T) {
	s := newTestServer(t)

	rec := s.do(t, http.MethodPost, "/api/analyze", AnalyzeRequest{
		Assumptions: referenceAssumptions(t),
		Scenario:    "optimistic",
		Seed:        3,
	})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	res := decodeBody[AnalysisDTO](t, rec)
	assert.Equal(t, "optimistic", res.Result.Scenario)
	require.NotNil(t, res.MonteCarlo)
	assert.Equal(t, 200, res.MonteCarlo.Iterations, "handler default applies")
	assert.Len(t, res.Sensitivity, 4)
}

// =============================================================================
// REFERENCE DATA
// =============================================================================

func TestScenariosAndBenchmarks(t *testing.T) {
	s := newTestServer(t)

	scenarios := decodeBody[[]ScenarioDTO](t, s.do(t, http.MethodGet, "/api/scenarios", nil))
	require.Len(t, scenarios, 4)
	assert.Equal(t, "pessimistic", scenarios[0].Name)
	assert.Equal(t, 1.3, scenarios[0].CostMultiplier)

	rec := s.do(t, http.MethodPost, "/api/scenarios/compare", CompareRequest{Assumptions: referenceAssumptions(t)})
	require.Equal(t, http.StatusOK, rec.Code)
	compared := decodeBody[[]ResultDTO](t, rec)
	require.Len(t, compared, 4)
	assert.Less(t, compared[0].NPV, compared[3].NPV)

	bench := decodeBody[struct {
		Benchmarks          []BenchmarkDTO `json:"benchmarks"`
		AveragePaybackYears float64        `json:"average_payback_years"`
	}](t, s.do(t, http.MethodGet, "/api/benchmarks", nil))
	assert.Len(t, bench.Benchmarks, 3)
	assert.Equal(t, 2.5, bench.AveragePaybackYears)
}

// =============================================================================
// PROJECTS AND ARCHIVE
// =============================================================================

func TestProjects_Lifecycle(t *testing.T) {
	// GIVEN: A saved project
	// WHEN: It is calculated twice and listed
	// THEN: Both results are archived newest first and removed with the project
	s := newTestServer(t)

	rec := s.do(t, http.MethodPost, "/api/projects", ProjectRequest{
		Name:        "Warehouse ERP",
		Assumptions: referenceAssumptions(t),
	})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	project := decodeBody[ProjectDTO](t, rec)
	require.NotEmpty(t, project.ID)
	require.NotNil(t, project.Assumptions.Financial.HorizonYears)
	assert.Equal(t, 5, *project.Assumptions.Financial.HorizonYears)

	base := "/api/projects/" + project.ID

	got := decodeBody[ProjectDTO](t, s.do(t, http.MethodGet, base, nil))
	assert.Equal(t, "Warehouse ERP", got.Name)

	rec = s.do(t, http.MethodPost, base+"/calculate", nil)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	first := decodeBody[ArchivedResultDTO](t, rec)
	assert.Nil(t, first.MonteCarlo)

	rec = s.do(t, http.MethodPost, base+"/calculate", ProjectCalculateRequest{
		Scenario:    "pessimistic",
		MonteCarlo:  true,
		Iterations:  100,
		Seed:        5,
		Sensitivity: true,
	})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	second := decodeBody[ArchivedResultDTO](t, rec)
	require.NotNil(t, second.MonteCarlo)
	assert.Len(t, second.Sensitivity, 4)

	results := decodeBody[[]ArchivedResultDTO](t, s.do(t, http.MethodGet, base+"/results", nil))
	require.Len(t, results, 2)
	assert.Equal(t, second.Result.ID, results[0].Result.ID)

	filtered := decodeBody[[]ArchivedResultDTO](t, s.do(t, http.MethodGet, base+"/results?scenario=pessimistic&limit=5", nil))
	require.Len(t, filtered, 1)

	one := decodeBody[ArchivedResultDTO](t, s.do(t, http.MethodGet, "/api/results/"+first.Result.ID, nil))
	assert.Equal(t, project.ID, one.ProjectID)
	assert.InDelta(t, 1883876.43, one.Result.NPV, 0.01)

	rec = s.do(t, http.MethodDelete, base, nil)
	assert.Equal(t, http.StatusNoContent, rec.Code)
	assert.Equal(t, http.StatusNotFound, s.do(t, http.MethodGet, base, nil).Code)
	assert.Equal(t, http.StatusNotFound, s.do(t, http.MethodGet, "/api/results/"+first.Result.ID, nil).Code)
}

func TestProjects_Errors(t *testing.T) {
	s := newTestServer(t)

	rec := s.do(t, http.MethodPost, "/api/projects", ProjectRequest{Assumptions: referenceAssumptions(t)})
	assert.Equal(t, http.StatusBadRequest, rec.Code, "name is required")

	assert.Equal(t, http.StatusNotFound, s.do(t, http.MethodPost, "/api/projects/nope/calculate", nil).Code)
	assert.Equal(t, http.StatusNotFound, s.do(t, http.MethodGet, "/api/projects/nope/results", nil).Code)
	assert.Equal(t, http.StatusNotFound, s.do(t, http.MethodDelete, "/api/projects/nope", nil).Code)

	rec = s.do(t, http.MethodPost, "/api/projects", ProjectRequest{ID: "p1", Name: "A", Assumptions: referenceAssumptions(t)})
	require.Equal(t, http.StatusCreated, rec.Code)
	assert.Equal(t, http.StatusBadRequest, s.do(t, http.MethodGet, "/api/projects/p1/results?limit=x", nil).Code)
}

func TestProjects_ReplaceKeepsCreatedAt(t *testing.T) {
	s := newTestServer(t)

	first := decodeBody[ProjectDTO](t, s.do(t, http.MethodPost, "/api/projects",
		ProjectRequest{ID: "p1", Name: "A", Assumptions: referenceAssumptions(t)}))
	second := decodeBody[ProjectDTO](t, s.do(t, http.MethodPost, "/api/projects",
		ProjectRequest{ID: "p1", Name: "B", Assumptions: referenceAssumptions(t)}))

	assert.Equal(t, "B", second.Name)
	assert.True(t, first.CreatedAt.Equal(second.CreatedAt))

	list := decodeBody[[]ProjectDTO](t, s.do(t, http.MethodGet, "/api/projects", nil))
	assert.Len(t, list, 1)
}

// =============================================================================
// DEMOS, HEALTH, METRICS
// =============================================================================

func TestDemos_ListAndLoad(t *testing.T) {
	s := newTestServer(t)

	demos := decodeBody[[]DemoDTO](t, s.do(t, http.MethodGet, "/api/demos", nil))
	require.Len(t, demos, len(erp.Profiles()))

	for _, d := range demos {
		rec := s.do(t, http.MethodPost, "/api/demos/load", LoadDemoRequest{DemoID: d.ID})
		require.Equal(t, http.StatusOK, rec.Code, "%s: %s", d.ID, rec.Body.String())
		body := decodeBody[map[string]string](t, rec)
		assert.Equal(t, d.ID, body["project_id"])
		assert.NotEmpty(t, body["result_id"])
	}

	projects := decodeBody[[]ProjectDTO](t, s.do(t, http.MethodGet, "/api/projects", nil))
	assert.Len(t, projects, len(demos))

	rec := s.do(t, http.MethodPost, "/api/demos/load", LoadDemoRequest{DemoID: "space-agency"})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestHealthAndMetrics(t *testing.T) {
	s := newTestServer(t)

	rec := s.do(t, http.MethodGet, "/healthz", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	s.do(t, http.MethodPost, "/api/calculate", CalculateRequest{Assumptions: referenceAssumptions(t)})
	s.do(t, http.MethodPost, "/api/montecarlo", MonteCarloRequest{Assumptions: referenceAssumptions(t), Iterations: 10})

	rec = s.do(t, http.MethodGet, "/metrics", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	body := rec.Body.String()
	assert.True(t, strings.Contains(body, `roi_calculations_total{kind="calculate",outcome="ok"} 1`), body)
	assert.Contains(t, body, "roi_monte_carlo_trials_total 10")
	assert.Contains(t, body, "go_goroutines")
}
