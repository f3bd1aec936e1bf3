/*
balance.go - Balance calculation by ledger replay

PURPOSE:
  Answers "how much does this employee have left?" by replaying the full
  ledger against one pool. There is no incremental bookkeeping and no
  trusted stored balance: the replay IS the balance.

ALGORITHM:
  remaining = pool.Total
            - sum(units of records where employee matches
                  and record.Kind is in pool.DrawingKinds)

  Non-drawing kinds (the bonus half-day) never match a pool's drawing
  set, so their audit units cannot contaminate a balance. Per-pool
  calls keep Variant-B employees' annual pool and bonus usage apart.

EDGE CASES:
  - Empty ledger: full entitlement.
  - No error conditions: an unknown employee is caught earlier at
    profile lookup (ConfigurationError); here it just sums zero rows.
*/
package leave

import "github.com/shopspring/decimal"

// Remaining computes one pool's remaining entitlement from a ledger
// snapshot. Monotonically non-increasing as matching records are added.
func Remaining(pool Pool, employee string, records []Record) decimal.Decimal {
	remaining := pool.Total
	for _, rec := range records {
		if rec.Employee != employee || !pool.Draws(rec.Kind) {
			continue
		}
		remaining = remaining.Sub(rec.Units)
	}
	return remaining
}
