/*
Package leave implements the clinic's paid-leave accounting.

PURPOSE:
  Tracks entitlement and consumption for the clinic staff. The ledger (an
  append-only tab in the workbook) is the single source of truth; balances
  are always recomputed by replaying it. A denormalized balance cell in the
  status tab is kept as a cache for cheap dashboard reads, never trusted as
  authoritative.

KEY CONCEPTS IN THIS FILE (types.go):
  - Kind:    the closed set of leave kinds and their unit cost
  - Record:  one immutable ledger row
  - Request: a proposed submission, before validation
  - Confirmation: the result of an accepted submission

DESIGN PRINCIPLES:
  1. Ledger-as-truth: balances are derived, the cache is refreshed after
     every accepted append and self-heals on the next sync.
  2. Immutability: a Record is appended exactly once, never edited.
  3. Precision: decimal.Decimal for units, half days are exact.
  4. Data-driven policy: entitlement shapes live in Profile, not in
     per-employee branches (see profile.go).

SEE ALSO:
  - rules.go:     submission-time validation and the Saturday advisory
  - balance.go:   ledger replay
  - processor.go: the submission orchestration
  - reminder.go:  the daily notification job
*/
package leave

import (
	"strings"

	"github.com/shopspring/decimal"
)

// =============================================================================
// KIND - Closed set of leave kinds
// =============================================================================

type Kind string

const (
	// KindAnnual is a full annual-leave day.
	KindAnnual Kind = "annual"
	// KindMonthly is a full monthly-leave day.
	KindMonthly Kind = "monthly"
	// KindHalfAnnual is a half annual-leave day.
	KindHalfAnnual Kind = "half-annual"
	// KindBonusMorning is the bonus half-day morning. It logs 0.5 units for
	// audit but draws from no pool, and expires each month.
	KindBonusMorning Kind = "bonus-morning"
)

// Kinds lists every valid kind.
var Kinds = []Kind{KindAnnual, KindMonthly, KindHalfAnnual, KindBonusMorning}

// ParseKind validates a kind string from the outside world.
func ParseKind(s string) (Kind, error) {
	for _, k := range Kinds {
		if string(k) == s {
			return k, nil
		}
	}
	return "", &ConfigurationError{Detail: "unknown leave kind: " + s}
}

var (
	fullDay = decimal.NewFromInt(1)
	halfDay = decimal.NewFromFloat(0.5)
)

// Units returns the audit units a kind logs in the ledger. Half-day kinds
// log 0.5, including the bonus half-day, which logs its units even though
// it draws from no pool.
func (k Kind) Units() decimal.Decimal {
	switch k {
	case KindHalfAnnual, KindBonusMorning:
		return halfDay
	default:
		return fullDay
	}
}

// emergencyTag is the suffix persisted on the kind field of emergency rows.
// Kept stable: the reminder job matches on it across runs.
const emergencyTag = " (emergency)"

// =============================================================================
// RECORD - One immutable ledger row
// =============================================================================

// Record is one ledger row. Created exactly once on an accepted submission,
// never mutated or deleted. Insertion order in the ledger is authoritative;
// ordering by Date is a display concern.
type Record struct {
	Date      Date
	Employee  string
	Kind      Kind
	Emergency bool
	Reason    string
	Units     decimal.Decimal
}

// kindField serializes Kind plus the emergency tag for the ledger row.
func (r Record) kindField() string {
	if r.Emergency {
		return string(r.Kind) + emergencyTag
	}
	return string(r.Kind)
}

// parseKindField splits a stored kind field into kind and emergency flag.
func parseKindField(s string) (Kind, bool) {
	if rest, ok := strings.CutSuffix(s, emergencyTag); ok {
		return Kind(rest), true
	}
	return Kind(s), false
}

// =============================================================================
// REQUEST / CONFIRMATION
// =============================================================================

// Request is a proposed leave submission.
type Request struct {
	Employee  string
	Date      Date
	Kind      Kind
	Emergency bool
	Reason    string
}

// Confirmation is the result of an accepted submission.
type Confirmation struct {
	Record Record

	// Deducted is false for non-drawing kinds (the bonus half-day); when
	// false, PoolLabel and Remaining are zero values.
	Deducted  bool
	PoolLabel string
	Remaining decimal.Decimal

	// Advisory is the non-blocking consecutive-Saturday warning, "" when
	// none applies.
	Advisory string
}

// BalanceView is one dashboard cell: an employee pool and its remaining
// entitlement.
type BalanceView struct {
	Employee  string
	Pool      string
	Label     string
	Remaining decimal.Decimal
}
