/*
rules.go - Submission-time validation and the Saturday advisory

PURPOSE:
  State-free predicates checked against a proposed request plus a ledger
  snapshot. The first failing rule wins and short-circuits the rest; a
  rejection is terminal for that submission.

RULE ORDER:
  0. kind allowed for this employee (profile-driven, keeps "bonus only
     for employees that have it" out of hard-coded branches)
  1. bonus eligibility: day-of-month >= 25 expired; at most one bonus use
     per employee per calendar month
  2. emergency restriction: an emergency request may only be full annual
  3. advance notice: monthly and half-annual need >= 7 calendar days of
     notice (emergency never reaches this check - rule 2 already decided)

ADVISORY:
  The consecutive-Saturday check is NOT a rule. It never blocks; it
  produces a warning attached to the confirmation when the target is a
  Saturday and the employee's most recent prior Saturday record is within
  14 days. The just-appended row is excluded from the "prior" search so a
  record cannot warn about itself.
*/
package leave

import "fmt"

const (
	// NoticeDays is the minimum advance notice for plannable kinds.
	// Boundary inclusive: exactly 7 days out is accepted.
	NoticeDays = 7

	// bonusCutoffDay: the bonus half-day expires before month end; from
	// the 25th on it can no longer be taken.
	bonusCutoffDay = 25

	// saturdayWindowDays: a prior Saturday within this many days triggers
	// the advisory. Inclusive; 15 days apart is fine.
	saturdayWindowDays = 14
)

// Validate checks a request against the employee's profile and the current
// ledger snapshot. Returns nil on pass or the first Violation in rule
// order. State-free: today is a parameter, not a clock read.
func Validate(profile Profile, req Request, records []Record, today Date) *Violation {
	if !profile.Allows(req.Kind) {
		return &Violation{
			Rule:    RuleKindNotAllowed,
			Message: fmt.Sprintf("%s is not available for %s", req.Kind, req.Employee),
		}
	}

	if req.Kind == KindBonusMorning {
		if req.Date.Day() >= bonusCutoffDay {
			return &Violation{
				Rule:    RuleBonusExpired,
				Message: fmt.Sprintf("the bonus half-day expires before month end and cannot be taken on or after the %dth", bonusCutoffDay),
			}
		}
		for _, rec := range records {
			if rec.Employee == req.Employee && rec.Kind == KindBonusMorning && rec.Date.SameMonth(req.Date) {
				return &Violation{
					Rule:    RuleBonusUsed,
					Message: fmt.Sprintf("the bonus half-day was already used in %d-%02d", req.Date.Year(), req.Date.Month()),
				}
			}
		}
	}

	if req.Emergency && req.Kind != KindAnnual {
		return &Violation{
			Rule:    RuleEmergencyKind,
			Message: "emergency leave must be taken as full annual leave; other kinds require advance booking",
		}
	}

	if !req.Emergency && (req.Kind == KindMonthly || req.Kind == KindHalfAnnual) {
		if today.DaysUntil(req.Date) < NoticeDays {
			return &Violation{
				Rule:    RuleShortNotice,
				Message: fmt.Sprintf("%s must be requested at least %d days in advance", req.Kind, NoticeDays),
			}
		}
	}

	return nil
}

// SaturdayAdvisory returns the consecutive-Saturday warning, or "" when it
// does not apply. records must not include the row being confirmed; only
// strictly earlier Saturdays qualify, and only the most recent one is
// considered.
func SaturdayAdvisory(employee string, target Date, records []Record) string {
	if !target.IsSaturday() {
		return ""
	}

	var last Date
	for _, rec := range records {
		if rec.Employee != employee || !rec.Date.IsSaturday() || !rec.Date.Before(target) {
			continue
		}
		if last.IsZero() || rec.Date.After(last) {
			last = rec.Date
		}
	}
	if last.IsZero() {
		return ""
	}

	if last.DaysUntil(target) <= saturdayWindowDays {
		return fmt.Sprintf("warning: consecutive Saturday use detected (previous Saturday leave on %s)", last)
	}
	return ""
}
