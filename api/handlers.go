/*
handlers.go - HTTP API handlers for the ROI engine

PURPOSE:
  Exposes the financial engine via REST API. Handles HTTP request/response,
  JSON serialization, and delegates to the finance package. The engine is
  stateless; only the project endpoints touch the store.

ENDPOINTS:
  Calculation:
    POST   /api/calculate              Deterministic ResultSet
    POST   /api/montecarlo             ROI/NPV/payback distributions
    POST   /api/sensitivity            One-factor sensitivity ranking
    POST   /api/analyze                All three over the same set

  Reference data:
    GET    /api/scenarios              Scenario presets
    POST   /api/scenarios/compare      Every preset against one base set
    GET    /api/benchmarks             Industry references

  Projects:
    GET    /api/projects               List projects
    POST   /api/projects               Create or replace a project
    GET    /api/projects/{id}          Project details
    DELETE /api/projects/{id}          Delete project and its results
    POST   /api/projects/{id}/calculate Calculate and archive
    GET    /api/projects/{id}/results  Archived results, newest first
    GET    /api/results/{id}           One archived result

ARCHITECTURE:
  Handler struct holds all dependencies:
  - Store: Project and result archive
  - Calculator: Deterministic engine (shared, stateless)
  - Factory: Wire schema to AssumptionSet conversion
  - Metrics: Prometheus collectors on a per-handler registry

ERROR HANDLING:
  Errors are returned as JSON with appropriate HTTP status:
  - 400: Malformed body, ValidationError, unknown scenario
  - 404: Project or result not found
  - 503: Request cancelled during a simulation
  - 500: Internal errors

SECURITY NOTE:
  No authentication. All endpoints are public.

SEE ALSO:
  - dto.go: Request/response data structures
  - demos.go: Demo project loaders
  - server.go: Router setup and middleware
*/
package api

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog/hlog"
	"github.com/shopspring/decimal"
	"github.com/warp/roi-engine/factory"
	"github.com/warp/roi-engine/finance"
)

// =============================================================================
// HANDLER CONTEXT
// =============================================================================

// Handler holds all dependencies for HTTP handlers.
type Handler struct {
	Store      finance.Store
	Calculator *finance.Calculator
	Factory    *factory.AssumptionFactory
	Metrics    *Metrics
	Registry   *prometheus.Registry

	// Monte Carlo defaults for requests that do not set them
	MCIterations  int
	MCWorkers     int
	MaxIterations int

	NewID func() string
}

// NewHandler creates a new handler with the given store.
func NewHandler(store finance.Store) *Handler {
	reg := newRegistry()
	return &Handler{
		Store:         store,
		Calculator:    finance.NewCalculator(),
		Factory:       factory.NewAssumptionFactory(),
		Metrics:       NewMetrics(reg),
		Registry:      reg,
		MCIterations:  1000,
		MaxIterations: 1_000_000,
		NewID:         uuid.NewString,
	}
}

// =============================================================================
// CALCULATION HANDLERS
// =============================================================================

// Calculate runs the deterministic pipeline.
func (h *Handler) Calculate(w http.ResponseWriter, r *http.Request) {
	var req CalculateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}

	start := time.Now()
	result, err := h.calculate(req.Assumptions, req.Scenario)
	h.Metrics.observe("calculate", start, err)
	if err != nil {
		h.fail(w, r, "Calculation failed", err)
		return
	}

	writeJSON(w, http.StatusOK, toResultDTO(result))
}

// MonteCarlo runs a simulation and returns the distributions.
func (h *Handler) MonteCarlo(w http.ResponseWriter, r *http.Request) {
	var req MonteCarloRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}

	start := time.Now()
	res, err := h.runMonteCarlo(r.Context(), req)
	h.Metrics.observe("monte_carlo", start, err)
	if err != nil {
		h.fail(w, r, "Simulation failed", err)
		return
	}

	h.Metrics.MonteCarloTrials.Add(float64(res.Iterations))
	writeJSON(w, http.StatusOK, res)
}

func (h *Handler) runMonteCarlo(ctx context.Context, req MonteCarloRequest) (finance.MonteCarloResult, error) {
	set, err := h.assumptions(req.Assumptions, req.Scenario)
	if err != nil {
		return finance.MonteCarloResult{}, err
	}
	sim, err := h.simulator(req.Iterations, req.Seed, req.Variation)
	if err != nil {
		return finance.MonteCarloResult{}, err
	}
	return sim.Run(ctx, set)
}

// Sensitivity ranks the tracked factors by ROI impact.
func (h *Handler) Sensitivity(w http.ResponseWriter, r *http.Request) {
	var req SensitivityRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}

	start := time.Now()
	results, err := h.runSensitivity(req)
	h.Metrics.observe("sensitivity", start, err)
	if err != nil {
		h.fail(w, r, "Sensitivity analysis failed", err)
		return
	}

	writeJSON(w, http.StatusOK, toSensitivityDTOs(results))
}

func (h *Handler) runSensitivity(req SensitivityRequest) ([]finance.SensitivityResult, error) {
	set, err := h.assumptions(req.Assumptions, req.Scenario)
	if err != nil {
		return nil, err
	}
	return h.sensitivity(req.Perturbation).Analyze(set)
}

// Analyze runs the deterministic calculation, Monte Carlo and sensitivity.
func (h *Handler) Analyze(w http.ResponseWriter, r *http.Request) {
	var req AnalyzeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}

	start := time.Now()
	analysis, err := h.runAnalysis(r.Context(), req)
	h.Metrics.observe("analyze", start, err)
	if err != nil {
		h.fail(w, r, "Analysis failed", err)
		return
	}

	h.Metrics.MonteCarloTrials.Add(float64(analysis.MonteCarlo.Iterations))
	writeJSON(w, http.StatusOK, AnalysisDTO{
		Result:      toResultDTO(analysis.Result),
		MonteCarlo:  analysis.MonteCarlo,
		Sensitivity: toSensitivityDTOs(analysis.Sensitivity),
	})
}

func (h *Handler) runAnalysis(ctx context.Context, req AnalyzeRequest) (finance.Analysis, error) {
	set, err := h.Factory.FromJSON(req.Assumptions)
	if err != nil {
		return finance.Analysis{}, err
	}
	sim, err := h.simulator(req.Iterations, req.Seed, req.Variation)
	if err != nil {
		return finance.Analysis{}, err
	}
	return h.Calculator.Analyze(ctx, set, finance.AnalysisOptions{
		Scenario:    finance.ScenarioName(req.Scenario),
		MonteCarlo:  sim,
		Sensitivity: h.sensitivity(req.Perturbation),
	})
}

// =============================================================================
// REFERENCE DATA HANDLERS
// =============================================================================

// ListScenarios returns the presets.
func (h *Handler) ListScenarios(w http.ResponseWriter, r *http.Request) {
	presets := finance.Scenarios()
	dtos := make([]ScenarioDTO, len(presets))
	for i, s := range presets {
		dtos[i] = toScenarioDTO(s)
	}
	writeJSON(w, http.StatusOK, dtos)
}

// CompareScenarios calculates every preset against one base set.
func (h *Handler) CompareScenarios(w http.ResponseWriter, r *http.Request) {
	var req CompareRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}

	start := time.Now()
	results, err := h.compare(req.Assumptions)
	h.Metrics.observe("compare", start, err)
	if err != nil {
		h.fail(w, r, "Scenario comparison failed", err)
		return
	}

	dtos := make([]ResultDTO, len(results))
	for i, res := range results {
		dtos[i] = toResultDTO(res)
	}
	writeJSON(w, http.StatusOK, dtos)
}

func (h *Handler) compare(aj factory.AssumptionJSON) ([]finance.ResultSet, error) {
	set, err := h.Factory.FromJSON(aj)
	if err != nil {
		return nil, err
	}
	return h.Calculator.CompareScenarios(set)
}

// ListBenchmarks returns the industry references.
func (h *Handler) ListBenchmarks(w http.ResponseWriter, r *http.Request) {
	refs := finance.Benchmarks()
	dtos := make([]BenchmarkDTO, len(refs))
	for i, b := range refs {
		dtos[i] = toBenchmarkDTO(b)
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"benchmarks":            dtos,
		"average_payback_years": finance.AveragePaybackYears.InexactFloat64(),
	})
}

// =============================================================================
// PROJECT HANDLERS
// =============================================================================

// ListProjects returns all projects.
func (h *Handler) ListProjects(w http.ResponseWriter, r *http.Request) {
	projects, err := h.Store.ListProjects(r.Context())
	if err != nil {
		h.fail(w, r, "Failed to list projects", err)
		return
	}

	dtos := make([]ProjectDTO, len(projects))
	for i, p := range projects {
		dtos[i] = toProjectDTO(h.Factory, p)
	}
	writeJSON(w, http.StatusOK, dtos)
}

// CreateProject creates a project, or replaces it when the ID exists.
func (h *Handler) CreateProject(w http.ResponseWriter, r *http.Request) {
	var req ProjectRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}

	p, err := h.saveProject(r.Context(), req)
	if err != nil {
		h.fail(w, r, "Failed to save project", err)
		return
	}

	writeJSON(w, http.StatusCreated, toProjectDTO(h.Factory, p))
}

func (h *Handler) saveProject(ctx context.Context, req ProjectRequest) (finance.Project, error) {
	if req.Name == "" {
		return finance.Project{}, &finance.ValidationError{Field: "name", Reason: "is required"}
	}
	set, err := h.Factory.FromJSON(req.Assumptions)
	if err != nil {
		return finance.Project{}, err
	}

	now := time.Now().UTC()
	p := finance.Project{
		ID:          req.ID,
		Name:        req.Name,
		Description: req.Description,
		Assumptions: set,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if p.ID == "" {
		p.ID = h.NewID()
	} else if existing, err := h.Store.GetProject(ctx, p.ID); err == nil {
		p.CreatedAt = existing.CreatedAt
	} else if !errors.Is(err, finance.ErrProjectNotFound) {
		return finance.Project{}, err
	}

	if err := h.Store.SaveProject(ctx, p); err != nil {
		return finance.Project{}, err
	}
	h.Metrics.ProjectsSaved.Inc()
	return p, nil
}

// GetProject returns a project by ID.
func (h *Handler) GetProject(w http.ResponseWriter, r *http.Request) {
	p, err := h.Store.GetProject(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		h.fail(w, r, "Failed to get project", err)
		return
	}
	writeJSON(w, http.StatusOK, toProjectDTO(h.Factory, p))
}

// DeleteProject removes a project and its archived results.
func (h *Handler) DeleteProject(w http.ResponseWriter, r *http.Request) {
	if err := h.Store.DeleteProject(r.Context(), chi.URLParam(r, "id")); err != nil {
		h.fail(w, r, "Failed to delete project", err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// CalculateProject calculates a stored project and archives the result.
func (h *Handler) CalculateProject(w http.ResponseWriter, r *http.Request) {
	var req ProjectCalculateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil && !errors.Is(err, io.EOF) {
		writeError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}

	start := time.Now()
	archived, err := h.calculateProject(r.Context(), chi.URLParam(r, "id"), req)
	h.Metrics.observe("project", start, err)
	if err != nil {
		h.fail(w, r, "Project calculation failed", err)
		return
	}

	hlog.FromRequest(r).Info().
		Str("project_id", archived.ProjectID).
		Str("result_id", archived.Result.ID).
		Msg("Result archived")
	writeJSON(w, http.StatusCreated, toArchivedResultDTO(archived))
}

func (h *Handler) calculateProject(ctx context.Context, id string, req ProjectCalculateRequest) (finance.ArchivedResult, error) {
	p, err := h.Store.GetProject(ctx, id)
	if err != nil {
		return finance.ArchivedResult{}, err
	}

	opts := finance.AnalysisOptions{Scenario: finance.ScenarioName(req.Scenario)}
	if req.MonteCarlo {
		if opts.MonteCarlo, err = h.simulator(req.Iterations, req.Seed, nil); err != nil {
			return finance.ArchivedResult{}, err
		}
	}
	if req.Sensitivity {
		opts.Sensitivity = h.sensitivity(req.Perturbation)
	}

	analysis, err := h.Calculator.Analyze(ctx, p.Assumptions, opts)
	if err != nil {
		return finance.ArchivedResult{}, err
	}
	if analysis.MonteCarlo != nil {
		h.Metrics.MonteCarloTrials.Add(float64(analysis.MonteCarlo.Iterations))
	}

	archived := finance.ArchivedResult{
		ProjectID:   p.ID,
		Result:      analysis.Result,
		MonteCarlo:  analysis.MonteCarlo,
		Sensitivity: analysis.Sensitivity,
	}
	if err := h.Store.SaveResult(ctx, archived); err != nil {
		return finance.ArchivedResult{}, fmt.Errorf("archive result: %w", err)
	}
	h.Metrics.ResultsArchived.Inc()
	return archived, nil
}

// ListProjectResults returns a project's archived results, newest first.
// Query parameters: scenario, limit.
func (h *Handler) ListProjectResults(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	id := chi.URLParam(r, "id")

	if _, err := h.Store.GetProject(ctx, id); err != nil {
		h.fail(w, r, "Failed to get project", err)
		return
	}

	filter := finance.ResultFilter{ProjectID: id}
	if s := r.URL.Query().Get("scenario"); s != "" {
		name := finance.ScenarioName(s)
		filter.Scenario = &name
	}
	if l := r.URL.Query().Get("limit"); l != "" {
		n, err := strconv.Atoi(l)
		if err != nil || n < 0 {
			writeError(w, http.StatusBadRequest, "Invalid limit", err)
			return
		}
		filter.Limit = n
	}

	results, err := h.Store.ListResults(ctx, filter)
	if err != nil {
		h.fail(w, r, "Failed to list results", err)
		return
	}

	dtos := make([]ArchivedResultDTO, len(results))
	for i, res := range results {
		dtos[i] = toArchivedResultDTO(res)
	}
	writeJSON(w, http.StatusOK, dtos)
}

// GetResult returns one archived result.
func (h *Handler) GetResult(w http.ResponseWriter, r *http.Request) {
	res, err := h.Store.GetResult(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		h.fail(w, r, "Failed to get result", err)
		return
	}
	writeJSON(w, http.StatusOK, toArchivedResultDTO(res))
}

// =============================================================================
// HEALTH
// =============================================================================

type pinger interface {
	Ping(ctx context.Context) error
}

// Health reports whether the store is reachable.
func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	if p, ok := h.Store.(pinger); ok {
		if err := p.Ping(r.Context()); err != nil {
			writeError(w, http.StatusServiceUnavailable, "Store unavailable", err)
			return
		}
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// =============================================================================
// HELPERS
// =============================================================================

// calculate converts, validates and calculates, applying scenario if set.
func (h *Handler) calculate(aj factory.AssumptionJSON, scenario string) (finance.ResultSet, error) {
	set, err := h.Factory.FromJSON(aj)
	if err != nil {
		return finance.ResultSet{}, err
	}
	if scenario == "" {
		return h.Calculator.Calculate(set)
	}
	return h.Calculator.CalculateScenario(set, finance.ScenarioName(scenario))
}

// assumptions converts and validates, returning the derived set if scenario
// is set.
func (h *Handler) assumptions(aj factory.AssumptionJSON, scenario string) (finance.AssumptionSet, error) {
	set, err := h.Factory.FromJSON(aj)
	if err != nil {
		return finance.AssumptionSet{}, err
	}
	if scenario == "" {
		return set, nil
	}
	return finance.ApplyScenario(set, finance.ScenarioName(scenario))
}

func (h *Handler) simulator(iterations int, seed uint64, v *VariationDTO) (*finance.MonteCarloSimulator, error) {
	sim := finance.NewMonteCarloSimulator()
	sim.Benefits = h.Calculator.Benefits
	sim.Workers = h.MCWorkers
	sim.Seed = seed
	sim.Iterations = h.MCIterations
	if iterations != 0 {
		sim.Iterations = iterations
	}
	if sim.Iterations < 1 || sim.Iterations > h.MaxIterations {
		return nil, &finance.ValidationError{
			Field:  "iterations",
			Value:  strconv.Itoa(sim.Iterations),
			Reason: fmt.Sprintf("must be in [1,%d]", h.MaxIterations),
		}
	}

	if v != nil {
		if v.CostStdDev < 0 || v.BenefitStdDev < 0 || v.TimelineStdDev < 0 {
			return nil, &finance.ValidationError{Field: "variation", Reason: "standard deviations must be >= 0"}
		}
		sim.Variation = finance.VariationModel{
			CostStdDev:     v.CostStdDev,
			BenefitStdDev:  v.BenefitStdDev,
			TimelineStdDev: v.TimelineStdDev,
		}
	}
	return sim, nil
}

func (h *Handler) sensitivity(perturbation float64) *finance.SensitivityAnalyzer {
	s := finance.NewSensitivityAnalyzer()
	s.Benefits = h.Calculator.Benefits
	if perturbation != 0 {
		s.Perturbation = decimal.NewFromFloat(perturbation)
	}
	return s
}

// fail maps an engine or store error to a status code and writes it.
func (h *Handler) fail(w http.ResponseWriter, r *http.Request, message string, err error) {
	var verr *finance.ValidationError
	switch {
	case errors.As(err, &verr):
		writeJSON(w, http.StatusBadRequest, ErrorResponse{
			Error: message,
			Code:  "validation_error",
			Details: map[string]string{
				"field":  verr.Field,
				"value":  verr.Value,
				"reason": verr.Reason,
			},
		})
	case errors.Is(err, finance.ErrUnknownScenario):
		writeJSON(w, http.StatusBadRequest, ErrorResponse{Error: message, Code: "unknown_scenario", Details: err.Error()})
	case finance.IsNotFound(err):
		writeJSON(w, http.StatusNotFound, ErrorResponse{Error: message, Code: "not_found", Details: err.Error()})
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		writeJSON(w, http.StatusServiceUnavailable, ErrorResponse{Error: message, Code: "cancelled", Details: err.Error()})
	default:
		hlog.FromRequest(r).Error().Err(err).Msg(message)
		writeError(w, http.StatusInternalServerError, message, err)
	}
}

func outcome(err error) string {
	switch {
	case err == nil:
		return "ok"
	case finance.IsClientError(err):
		return "client_error"
	default:
		return "error"
	}
}

func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

func writeError(w http.ResponseWriter, status int, message string, err error) {
	resp := ErrorResponse{Error: message}
	if err != nil {
		resp.Details = err.Error()
	}
	writeJSON(w, status, resp)
}
