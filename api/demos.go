/*
demos.go - Demo project loaders for testing and demonstrations

PURPOSE:
  Provides pre-built ERP business cases that populate the store with a
  realistic project and one archived realistic-scenario result, so every
  screen has data on first start.

AVAILABLE DEMOS (see erp/profiles.go):
  reference-rollout, mid-market-manufacturer, retail-chain,
  professional-services

HOW DEMOS WORK:
 1. Build the assumption document from the erp profile
 2. Parse it through the factory (same path as a user upload)
 3. Save the project under the demo ID (replacing any earlier load)
 4. Calculate and archive the realistic scenario

USAGE VIA API:

	POST /api/demos/load
	{"demo_id": "retail-chain"}

SEE ALSO:
  - erp/profiles.go: Profile definitions
  - handlers.go: Project endpoints
*/
package api

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/warp/roi-engine/erp"
	"github.com/warp/roi-engine/finance"
)

// ListDemos returns available demo projects.
func (h *Handler) ListDemos(w http.ResponseWriter, r *http.Request) {
	profiles := erp.Profiles()
	dtos := make([]DemoDTO, len(profiles))
	for i, p := range profiles {
		dtos[i] = toDemoDTO(p)
	}
	writeJSON(w, http.StatusOK, dtos)
}

// LoadDemo saves a demo project and archives its realistic result.
func (h *Handler) LoadDemo(w http.ResponseWriter, r *http.Request) {
	var req LoadDemoRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}

	profile, ok := findProfile(req.DemoID)
	if !ok {
		writeError(w, http.StatusBadRequest, "Unknown demo", nil)
		return
	}

	archived, err := h.loadDemo(r.Context(), profile)
	if err != nil {
		h.fail(w, r, "Failed to load demo", err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{
		"status":     "loaded",
		"demo":       profile.ID,
		"project_id": archived.ProjectID,
		"result_id":  archived.Result.ID,
	})
}

func (h *Handler) loadDemo(ctx context.Context, profile erp.Profile) (finance.ArchivedResult, error) {
	doc, err := erp.ProfileJSON(profile.ID)
	if err != nil {
		return finance.ArchivedResult{}, err
	}

	var req ProjectRequest
	if err := json.Unmarshal([]byte(doc), &req.Assumptions); err != nil {
		return finance.ArchivedResult{}, err
	}
	req.ID = profile.ID
	req.Name = profile.Name
	req.Description = profile.Description

	if _, err := h.saveProject(ctx, req); err != nil {
		return finance.ArchivedResult{}, err
	}

	return h.calculateProject(ctx, profile.ID, ProjectCalculateRequest{
		Scenario: string(finance.ScenarioRealistic),
	})
}

func findProfile(id string) (erp.Profile, bool) {
	for _, p := range erp.Profiles() {
		if p.ID == id {
			return p, true
		}
	}
	return erp.Profile{}, false
}
