/*
profile.go - Entitlement profiles (the data-driven policy table)

PURPOSE:
  Describes each employee's entitlement shape as data: which pools they
  have, what each pool's annual total is, which kinds draw it down, and
  which kinds they may request at all. The validator and calculator read
  this table; nothing in them branches on an employee name, so adding an
  employee means adding a Profile, not touching rule code.

POOL SHAPES:
  Variant A: a single monthly-leave pool (fixed annual total, whole days).
  Variant B: an annual-leave pool (whole and half days) plus the
             non-cumulative bonus half-day, which belongs to no pool -
             it expires monthly and never reduces a balance.

STATUS COLUMNS:
  Each pool names the 1-based column in the status tab that caches its
  balance. Column 1 holds the employee name; the annual and monthly pool
  caches occupy the next two fixed columns.
*/
package leave

import (
	"github.com/shopspring/decimal"
)

// Status tab layout. Fixed, shared by every profile.
const (
	StatusNameColumn    = 1
	StatusAnnualColumn  = 2
	StatusMonthlyColumn = 3
)

// =============================================================================
// POOL - One bounded entitlement bucket
// =============================================================================

// Pool is a bounded entitlement bucket with a fixed annual total.
type Pool struct {
	Name         string
	Label        string // human label used on the dashboard and in pushes
	Total        decimal.Decimal
	DrawingKinds []Kind
	StatusColumn int // column caching this pool's balance in the status tab
}

// Draws reports whether consuming kind reduces this pool.
func (p Pool) Draws(kind Kind) bool {
	for _, k := range p.DrawingKinds {
		if k == kind {
			return true
		}
	}
	return false
}

// =============================================================================
// PROFILE - Static per-employee entitlement configuration
// =============================================================================

// Profile is an employee's static entitlement configuration. It is
// configuration, never derived state.
type Profile struct {
	Employee string
	Pools    []Pool

	// AllowedKinds is the closed set of kinds this employee may request.
	// The bonus half-day appears here only for profiles that have it.
	AllowedKinds []Kind
}

// Allows reports whether the employee may request kind at all.
func (p Profile) Allows(kind Kind) bool {
	for _, k := range p.AllowedKinds {
		if k == kind {
			return true
		}
	}
	return false
}

// PoolFor returns the pool a kind draws from, or nil for non-drawing kinds
// (the bonus half-day).
func (p Profile) PoolFor(kind Kind) *Pool {
	for i := range p.Pools {
		if p.Pools[i].Draws(kind) {
			return &p.Pools[i]
		}
	}
	return nil
}

// =============================================================================
// ROSTER - Profile lookup
// =============================================================================

// Roster maps employee names to profiles, preserving declaration order for
// stable dashboard output.
type Roster struct {
	order    []string
	profiles map[string]Profile
}

func NewRoster(profiles ...Profile) *Roster {
	r := &Roster{profiles: make(map[string]Profile, len(profiles))}
	for _, p := range profiles {
		r.order = append(r.order, p.Employee)
		r.profiles[p.Employee] = p
	}
	return r
}

// Profile looks up an employee's profile. Unknown names are a
// ConfigurationError: the roster is static config, callers must not probe
// it with user input without surfacing the failure.
func (r *Roster) Profile(name string) (Profile, error) {
	p, ok := r.profiles[name]
	if !ok {
		return Profile{}, &ConfigurationError{Employee: name, Detail: "no entitlement profile"}
	}
	return p, nil
}

// Names returns employee names in declaration order.
func (r *Roster) Names() []string {
	return append([]string(nil), r.order...)
}

// =============================================================================
// CLINIC ROSTER - The two fixed staff profiles
// =============================================================================

// ClinicRoster returns the clinic's staff profiles:
//   - Dohee Jung:  monthly-leave only, 12 days a year.
//   - Mijin Jeon:  annual leave (16 days, half days allowed) plus the
//     monthly bonus half-day morning.
func ClinicRoster() *Roster {
	return NewRoster(
		Profile{
			Employee: "Dohee Jung",
			Pools: []Pool{{
				Name:         "monthly",
				Label:        "remaining monthly leave",
				Total:        decimal.NewFromInt(12),
				DrawingKinds: []Kind{KindMonthly},
				StatusColumn: StatusMonthlyColumn,
			}},
			AllowedKinds: []Kind{KindAnnual, KindMonthly, KindHalfAnnual},
		},
		Profile{
			Employee: "Mijin Jeon",
			Pools: []Pool{{
				Name:         "annual",
				Label:        "remaining annual leave",
				Total:        decimal.NewFromInt(16),
				DrawingKinds: []Kind{KindAnnual, KindHalfAnnual},
				StatusColumn: StatusAnnualColumn,
			}},
			AllowedKinds: []Kind{KindAnnual, KindMonthly, KindHalfAnnual, KindBonusMorning},
		},
	)
}
