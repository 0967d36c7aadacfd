/*
errors.go - Centralized error types for the finance engine

PURPOSE:
  All error types in one place for consistency and discoverability.
  Callers match categories with errors.Is and inspect details with errors.As.

ERROR CATEGORIES:
  1. Validation errors - Inputs rejected before any computation
  2. Degenerate cash flow - Payback/IRR mathematically undefined
  3. IRR convergence - Newton-Raphson failed within its limits
  4. Lookup errors - Unknown scenario, missing project or result

USAGE:
  if errors.Is(err, finance.ErrValidation) {
      var verr *finance.ValidationError
      errors.As(err, &verr)
      // verr.Field names the offending input
  }

SEE ALSO:
  - assumptions.go: Produces ValidationError
  - dcf.go, irr.go: Produce DegenerateCashFlowError and IRRConvergenceError
*/
package finance

import (
	"errors"
	"fmt"

	"github.com/shopspring/decimal"
)

// =============================================================================
// SENTINEL ERRORS - Use with errors.Is()
// =============================================================================

var (
	// ErrValidation is returned when an AssumptionSet violates an invariant.
	ErrValidation = errors.New("invalid assumptions")

	// ErrDegenerateCashFlow is returned when the net annual benefit is not
	// positive, which leaves payback and IRR undefined.
	ErrDegenerateCashFlow = errors.New("degenerate cash flow")

	// ErrNotRecovered is returned when discounted flows never recover the
	// initial investment within the horizon.
	ErrNotRecovered = errors.New("investment not recovered within horizon")

	// ErrIRRNotFound is returned when the IRR solver cannot find a root.
	ErrIRRNotFound = errors.New("IRR not found")

	// ErrUnknownScenario is returned for a scenario name with no preset.
	ErrUnknownScenario = errors.New("unknown scenario")

	// ErrProjectNotFound is returned when a stored project doesn't exist.
	ErrProjectNotFound = errors.New("project not found")

	// ErrResultNotFound is returned when an archived result doesn't exist.
	ErrResultNotFound = errors.New("result not found")

	// ErrDuplicateResult is returned when a result ID is archived twice.
	ErrDuplicateResult = errors.New("result already archived")
)

// =============================================================================
// STRUCTURED ERRORS - Carry additional context
// =============================================================================

// ValidationError names the field that failed validation.
type ValidationError struct {
	Field  string
	Value  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s (%s): %s", e.Field, e.Value, e.Reason)
}

func (e *ValidationError) Unwrap() error {
	return ErrValidation
}

func invalid(field string, value decimal.Decimal, reason string) *ValidationError {
	return &ValidationError{Field: field, Value: value.String(), Reason: reason}
}

// DegenerateCashFlowError reports why a cash-flow metric is undefined.
type DegenerateCashFlowError struct {
	Metric           string
	NetAnnualBenefit decimal.Decimal
}

func (e *DegenerateCashFlowError) Error() string {
	return fmt.Sprintf("%s undefined: net annual benefit %s is not positive",
		e.Metric, e.NetAnnualBenefit.StringFixed(2))
}

func (e *DegenerateCashFlowError) Unwrap() error {
	return ErrDegenerateCashFlow
}

// IRRConvergenceError reports why Newton-Raphson stopped without a root.
type IRRConvergenceError struct {
	Iterations int
	LastRate   float64
	Reason     string
}

func (e *IRRConvergenceError) Error() string {
	return fmt.Sprintf("IRR not found after %d iterations (last rate %.6f): %s",
		e.Iterations, e.LastRate, e.Reason)
}

func (e *IRRConvergenceError) Unwrap() error {
	return ErrIRRNotFound
}

// =============================================================================
// ERROR HELPERS
// =============================================================================

// IsClientError returns true if the error is due to invalid caller input.
func IsClientError(err error) bool {
	return errors.Is(err, ErrValidation) ||
		errors.Is(err, ErrUnknownScenario)
}

// IsNotFound returns true if the error indicates a missing record.
func IsNotFound(err error) bool {
	return errors.Is(err, ErrProjectNotFound) ||
		errors.Is(err, ErrResultNotFound)
}
