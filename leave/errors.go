/*
errors.go - Error taxonomy for the leave system

CATEGORIES:
  Violation          - expected, user-facing rule rejection; no mutation
                       happened, resubmission with corrected input recovers
  ConfigurationError - unknown employee / profile / status row; fatal to
                       the request, not retried
  StoreUnavailable   - transient store failure on the hard path (ledger
                       read or append); safe to retry, nothing persisted
  best-effort paths  - status-cell sync and notification failures are
                       logged and swallowed by the processor, never
                       surfaced past it

USAGE:
  var v *leave.Violation
  if errors.As(err, &v) { ... 422 ... }
  if errors.Is(err, leave.ErrStoreUnavailable) { ... 502 ... }
*/
package leave

import (
	"errors"
	"fmt"
)

// =============================================================================
// SENTINEL ERRORS - Use with errors.Is()
// =============================================================================

var (
	// ErrStoreUnavailable is returned when a ledger read or append fails.
	// Nothing was persisted; the submission is safe to retry.
	ErrStoreUnavailable = errors.New("leave store unavailable")

	// ErrUnknownEmployee is the sentinel under ConfigurationError.
	ErrUnknownEmployee = errors.New("unknown employee")
)

// =============================================================================
// VIOLATION - Rule rejection, user facing
// =============================================================================

// RuleCode identifies which validation rule rejected a request.
type RuleCode string

const (
	RuleKindNotAllowed RuleCode = "kind_not_allowed"
	RuleBonusExpired   RuleCode = "bonus_expired"
	RuleBonusUsed      RuleCode = "bonus_already_used"
	RuleEmergencyKind  RuleCode = "emergency_kind"
	RuleShortNotice    RuleCode = "short_notice"
)

// Violation is a terminal rejection of one submission. It is an expected
// outcome, not an infrastructure failure: the ledger was not touched.
type Violation struct {
	Rule    RuleCode
	Message string
}

func (v *Violation) Error() string { return v.Message }

// AsViolation unwraps a Violation from an error chain.
func AsViolation(err error) (*Violation, bool) {
	var v *Violation
	ok := errors.As(err, &v)
	return v, ok
}

// =============================================================================
// CONFIGURATION ERROR - Programmer/config mistakes
// =============================================================================

// ConfigurationError reports a precondition failure: an employee with no
// entitlement profile, a missing status row, an unknown kind. These are
// wiring mistakes, not user input problems.
type ConfigurationError struct {
	Employee string
	Detail   string
}

func (e *ConfigurationError) Error() string {
	if e.Employee != "" {
		return fmt.Sprintf("configuration error for %q: %s", e.Employee, e.Detail)
	}
	return "configuration error: " + e.Detail
}

func (e *ConfigurationError) Unwrap() error { return ErrUnknownEmployee }

// =============================================================================
// STORE ERROR - Transient infrastructure failure
// =============================================================================

// StoreUnavailableError wraps a failed store operation on the hard path.
type StoreUnavailableError struct {
	Op  string
	Err error
}

func (e *StoreUnavailableError) Error() string {
	return fmt.Sprintf("store unavailable during %s: %v", e.Op, e.Err)
}

func (e *StoreUnavailableError) Unwrap() error { return ErrStoreUnavailable }
