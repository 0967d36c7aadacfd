/*
store.go - Archive interfaces for projects and calculated results

PURPOSE:
  The engine never persists anything. Callers that want to keep named
  assumption sets ("projects") or archive ResultSets use these interfaces.
  The engine has no dependency on any implementation's schema.

KEY INTERFACES:
  ProjectStore:  Named AssumptionSets, replaced on save
  ResultArchive: Append-only archive of calculated results
  Store:         Both, as implemented by the SQLite and in-memory stores

IMPLEMENTATIONS:
  - store/sqlite/sqlite.go: SQLite
  - finance/store/memory.go: In-memory for tests and dev

SEE ALSO:
  - api/handlers.go: The only caller that persists
*/
package finance

import (
	"context"
	"time"
)

// =============================================================================
// PROJECTS
// =============================================================================

// Project is a named AssumptionSet kept by a caller.
type Project struct {
	ID          string
	Name        string
	Description string
	Assumptions AssumptionSet
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// ProjectStore persists projects.
type ProjectStore interface {
	// SaveProject inserts or replaces a project by ID.
	SaveProject(ctx context.Context, p Project) error

	// GetProject returns ErrProjectNotFound if the ID is unknown.
	GetProject(ctx context.Context, id string) (Project, error)

	// ListProjects returns all projects ordered by name.
	ListProjects(ctx context.Context) ([]Project, error)

	// DeleteProject removes a project and its archived results.
	DeleteProject(ctx context.Context, id string) error
}

// =============================================================================
// RESULT ARCHIVE - Append-only
// =============================================================================

// ArchivedResult is a ResultSet saved against a project.
type ArchivedResult struct {
	ProjectID   string
	Result      ResultSet
	MonteCarlo  *MonteCarloResult
	Sensitivity []SensitivityResult
}

// ResultFilter narrows ListResults.
type ResultFilter struct {
	ProjectID string
	Scenario  *ScenarioName
	Limit     int // 0 means no limit
}

// ResultArchive stores results. There is no update: a recalculation is a
// new result.
type ResultArchive interface {
	// SaveResult returns ErrProjectNotFound if ProjectID is unknown and
	// ErrDuplicateResult if the result ID is already archived.
	SaveResult(ctx context.Context, r ArchivedResult) error

	// GetResult returns ErrResultNotFound if the ID is unknown.
	GetResult(ctx context.Context, id string) (ArchivedResult, error)

	// ListResults returns matches newest first.
	ListResults(ctx context.Context, filter ResultFilter) ([]ArchivedResult, error)
}

// Store is implemented by every archive backend.
type Store interface {
	ProjectStore
	ResultArchive
}
