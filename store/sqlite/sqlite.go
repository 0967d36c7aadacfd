/*
Package sqlite provides a SQLite-backed implementation of finance.Store.

PURPOSE:
  Keeps named projects and the archive of calculated results in a single
  local database file. The engine itself never persists; the API layer
  uses this store when a caller saves a project or archives a calculation.

INTERFACES IMPLEMENTED:
  finance.ProjectStore:  Named AssumptionSets
  finance.ResultArchive: Append-only result archive

APPEND-ONLY ENFORCEMENT:
  The results table is an archive:
  - No UPDATE statements on results (a trigger rejects them)
  - A recalculation is a new row with a new ID
  - Rows leave the table only when their project is deleted (cascade)

KEY TABLES:
  projects: Named assumption sets, replaced on save
  results:  ResultSets with optional Monte Carlo and sensitivity output

ENCODING:
  Assumptions and results are stored as JSON. Decimals serialise as
  strings, so a reloaded AssumptionSet is numerically identical to the one
  that was saved. Headline metrics (npv, roi_3y) are also kept in columns
  for ad-hoc SQL.

CONCURRENCY:
  Uses sync.RWMutex for thread-safety. ":memory:" databases are pinned to
  one connection so every caller sees the same database.

USAGE:
  store, err := sqlite.New("./data/roi.db")
  if err != nil {
      log.Fatal(err)
  }
  defer store.Close()

SEE ALSO:
  - finance/store.go: Interface definitions
  - finance/store/memory.go: In-memory implementation for testing
*/
package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	_ "github.com/mattn/go-sqlite3"
	"github.com/warp/roi-engine/finance"
)

// ErrDuplicateResult is returned when a result ID is archived twice.
var ErrDuplicateResult = finance.ErrDuplicateResult

// Store implements finance.Store using SQLite.
type Store struct {
	db *sql.DB
	mu sync.RWMutex
}

// New creates a new SQLite store with the given database path.
// Use ":memory:" for an in-memory database.
func New(dbPath string) (*Store, error) {
	db, err := sql.Open("sqlite3", dbPath+"?_foreign_keys=on&_journal_mode=WAL")
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	if dbPath == ":memory:" {
		db.SetMaxOpenConns(1)
	}

	store := &Store{db: db}
	if err := store.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to migrate database: %w", err)
	}

	return store, nil
}

// Close closes the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

// Ping checks the database connection.
func (s *Store) Ping(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

// migrate creates the database schema.
func (s *Store) migrate() error {
	schema := `
	-- Projects (named assumption sets)
	CREATE TABLE IF NOT EXISTS projects (
		id TEXT PRIMARY KEY,
		name TEXT NOT NULL,
		description TEXT,
		industry TEXT NOT NULL,
		assumptions_json TEXT NOT NULL,
		created_at TEXT NOT NULL,
		updated_at TEXT NOT NULL
	);

	CREATE INDEX IF NOT EXISTS idx_projects_name
		ON projects(name);

	-- Results (append-only archive)
	CREATE TABLE IF NOT EXISTS results (
		seq INTEGER PRIMARY KEY AUTOINCREMENT,
		id TEXT NOT NULL UNIQUE,
		project_id TEXT NOT NULL REFERENCES projects(id) ON DELETE CASCADE,
		scenario TEXT NOT NULL DEFAULT '',
		calculated_at TEXT NOT NULL,
		npv TEXT NOT NULL,
		roi_3y TEXT NOT NULL,
		result_json TEXT NOT NULL,
		monte_carlo_json TEXT,
		sensitivity_json TEXT
	);

	-- Newest-first listing per project (hot path)
	CREATE INDEX IF NOT EXISTS idx_results_project_seq
		ON results(project_id, seq DESC);

	CREATE INDEX IF NOT EXISTS idx_results_scenario
		ON results(scenario);

	CREATE TRIGGER IF NOT EXISTS results_append_only
	BEFORE UPDATE ON results
	BEGIN
		SELECT RAISE(ABORT, 'results are append-only');
	END;
	`

	_, err := s.db.Exec(schema)
	return err
}

// =============================================================================
// PROJECT STORE (finance.ProjectStore interface)
// =============================================================================

// SaveProject inserts or replaces a project. created_at survives updates.
func (s *Store) SaveProject(ctx context.Context, p finance.Project) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	assumptions, err := json.Marshal(p.Assumptions)
	if err != nil {
		return fmt.Errorf("failed to encode assumptions: %w", err)
	}

	now := time.Now().UTC()
	created := p.CreatedAt
	if created.IsZero() {
		created = now
	}
	updated := p.UpdatedAt
	if updated.IsZero() {
		updated = now
	}

	query := `
		INSERT INTO projects (id, name, description, industry, assumptions_json, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			name = excluded.name,
			description = excluded.description,
			industry = excluded.industry,
			assumptions_json = excluded.assumptions_json,
			updated_at = excluded.updated_at
	`

	_, err = s.db.ExecContext(ctx, query,
		p.ID, p.Name, nullString(p.Description), string(p.Assumptions.Industry),
		string(assumptions), formatTime(created), formatTime(updated),
	)
	if err != nil {
		return fmt.Errorf("failed to save project: %w", err)
	}
	return nil
}

// GetProject retrieves a project by ID.
func (s *Store) GetProject(ctx context.Context, id string) (finance.Project, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	row := s.db.QueryRowContext(ctx,
		"SELECT id, name, description, assumptions_json, created_at, updated_at FROM projects WHERE id = ?",
		id,
	)
	p, err := scanProject(row)
	if errors.Is(err, sql.ErrNoRows) {
		return finance.Project{}, finance.ErrProjectNotFound
	}
	return p, err
}

// ListProjects returns all projects ordered by name.
func (s *Store) ListProjects(ctx context.Context) ([]finance.Project, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rows, err := s.db.QueryContext(ctx,
		"SELECT id, name, description, assumptions_json, created_at, updated_at FROM projects ORDER BY name, id",
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var projects []finance.Project
	for rows.Next() {
		p, err := scanProject(rows)
		if err != nil {
			return nil, err
		}
		projects = append(projects, p)
	}
	return projects, rows.Err()
}

// DeleteProject removes a project. Its results go with it.
func (s *Store) DeleteProject(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	res, err := s.db.ExecContext(ctx, "DELETE FROM projects WHERE id = ?", id)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return finance.ErrProjectNotFound
	}
	return nil
}

type scanner interface {
	Scan(dest ...any) error
}

func scanProject(row scanner) (finance.Project, error) {
	var p finance.Project
	var description sql.NullString
	var assumptions, createdAt, updatedAt string

	if err := row.Scan(&p.ID, &p.Name, &description, &assumptions, &createdAt, &updatedAt); err != nil {
		return finance.Project{}, err
	}
	if err := json.Unmarshal([]byte(assumptions), &p.Assumptions); err != nil {
		return finance.Project{}, fmt.Errorf("corrupt assumptions for project %s: %w", p.ID, err)
	}
	p.Description = description.String
	p.CreatedAt = parseTime(createdAt)
	p.UpdatedAt = parseTime(updatedAt)
	return p, nil
}

// =============================================================================
// RESULT ARCHIVE (finance.ResultArchive interface)
// =============================================================================

// SaveResult archives a result against its project.
func (s *Store) SaveResult(ctx context.Context, r finance.ArchivedResult) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	result, err := json.Marshal(r.Result)
	if err != nil {
		return fmt.Errorf("failed to encode result: %w", err)
	}
	mc, err := optionalJSON(r.MonteCarlo, r.MonteCarlo != nil)
	if err != nil {
		return fmt.Errorf("failed to encode monte carlo result: %w", err)
	}
	sens, err := optionalJSON(r.Sensitivity, len(r.Sensitivity) > 0)
	if err != nil {
		return fmt.Errorf("failed to encode sensitivity result: %w", err)
	}

	query := `
		INSERT INTO results
		(id, project_id, scenario, calculated_at, npv, roi_3y, result_json, monte_carlo_json, sensitivity_json)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
	`

	_, err = s.db.ExecContext(ctx, query,
		r.Result.ID,
		r.ProjectID,
		string(r.Result.Scenario),
		formatTime(r.Result.CalculatedAt),
		r.Result.NPV.String(),
		r.Result.ROI.Year3.String(),
		string(result),
		mc,
		sens,
	)
	if err != nil {
		switch {
		case isUniqueConstraintError(err):
			return ErrDuplicateResult
		case isForeignKeyError(err):
			return finance.ErrProjectNotFound
		}
		return fmt.Errorf("failed to archive result: %w", err)
	}
	return nil
}

// GetResult retrieves an archived result by ID.
func (s *Store) GetResult(ctx context.Context, id string) (finance.ArchivedResult, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	row := s.db.QueryRowContext(ctx,
		"SELECT project_id, result_json, monte_carlo_json, sensitivity_json FROM results WHERE id = ?",
		id,
	)
	r, err := scanResult(row)
	if errors.Is(err, sql.ErrNoRows) {
		return finance.ArchivedResult{}, finance.ErrResultNotFound
	}
	return r, err
}

// ListResults returns matching results newest first.
func (s *Store) ListResults(ctx context.Context, f finance.ResultFilter) ([]finance.ArchivedResult, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var where []string
	var args []any
	if f.ProjectID != "" {
		where = append(where, "project_id = ?")
		args = append(args, f.ProjectID)
	}
	if f.Scenario != nil {
		where = append(where, "scenario = ?")
		args = append(args, string(*f.Scenario))
	}

	query := "SELECT project_id, result_json, monte_carlo_json, sensitivity_json FROM results"
	if len(where) > 0 {
		query += " WHERE " + strings.Join(where, " AND ")
	}
	query += " ORDER BY seq DESC"
	if f.Limit > 0 {
		query += " LIMIT ?"
		args = append(args, f.Limit)
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var results []finance.ArchivedResult
	for rows.Next() {
		r, err := scanResult(rows)
		if err != nil {
			return nil, err
		}
		results = append(results, r)
	}
	return results, rows.Err()
}

func scanResult(row scanner) (finance.ArchivedResult, error) {
	var r finance.ArchivedResult
	var result string
	var mc, sens sql.NullString

	if err := row.Scan(&r.ProjectID, &result, &mc, &sens); err != nil {
		return finance.ArchivedResult{}, err
	}
	if err := json.Unmarshal([]byte(result), &r.Result); err != nil {
		return finance.ArchivedResult{}, fmt.Errorf("corrupt result: %w", err)
	}
	if mc.Valid {
		r.MonteCarlo = &finance.MonteCarloResult{}
		if err := json.Unmarshal([]byte(mc.String), r.MonteCarlo); err != nil {
			return finance.ArchivedResult{}, fmt.Errorf("corrupt monte carlo result: %w", err)
		}
	}
	if sens.Valid {
		if err := json.Unmarshal([]byte(sens.String), &r.Sensitivity); err != nil {
			return finance.ArchivedResult{}, fmt.Errorf("corrupt sensitivity result: %w", err)
		}
	}
	return r, nil
}

var _ finance.Store = (*Store)(nil)

// Helper functions

func nullString(s string) sql.NullString {
	if s == "" {
		return sql.NullString{}
	}
	return sql.NullString{String: s, Valid: true}
}

func optionalJSON(v any, present bool) (sql.NullString, error) {
	if !present {
		return sql.NullString{}, nil
	}
	b, err := json.Marshal(v)
	if err != nil {
		return sql.NullString{}, err
	}
	return sql.NullString{String: string(b), Valid: true}, nil
}

func formatTime(t time.Time) string {
	return t.UTC().Format(time.RFC3339Nano)
}

func parseTime(s string) time.Time {
	t, _ := time.Parse(time.RFC3339Nano, s)
	return t
}

func isUniqueConstraintError(err error) bool {
	return err != nil && strings.Contains(err.Error(), "UNIQUE constraint failed")
}

func isForeignKeyError(err error) bool {
	return err != nil && strings.Contains(err.Error(), "FOREIGN KEY constraint failed")
}
