package leave_test

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"

	"github.com/sejongcare/leave-ledger/leave"
)

func dec(s string) decimal.Decimal {
	d, _ := decimal.NewFromString(s)
	return d
}

func TestRemaining_EmptyLedgerReturnsFullEntitlement(t *testing.T) {
	pool := variantA(t).Pools[0]
	got := leave.Remaining(pool, "Dohee Jung", nil)
	assert.True(t, got.Equal(dec("12")), "got %s", got)
}

func TestRemaining_MonotonicallyNonIncreasing(t *testing.T) {
	pool := variantA(t).Pools[0]
	var records []leave.Record
	prev := leave.Remaining(pool, "Dohee Jung", records)

	for day := 1; day <= 5; day++ {
		records = append(records, record("Dohee Jung", leave.NewDate(2026, time.February, day), leave.KindMonthly))
		got := leave.Remaining(pool, "Dohee Jung", records)
		assert.True(t, got.LessThanOrEqual(prev), "balance increased: %s -> %s", prev, got)
		prev = got
	}
	assert.True(t, prev.Equal(dec("7")))
}

func TestRemaining_OnlyDrawingKindsCount(t *testing.T) {
	// GIVEN: Mijin's ledger mixes annual, half annual, a bonus half-day and
	// a (non-drawing for her) monthly day
	records := []leave.Record{
		record("Mijin Jeon", leave.NewDate(2026, time.March, 2), leave.KindAnnual),
		record("Mijin Jeon", leave.NewDate(2026, time.March, 9), leave.KindHalfAnnual),
		record("Mijin Jeon", leave.NewDate(2026, time.March, 10), leave.KindBonusMorning),
		record("Mijin Jeon", leave.NewDate(2026, time.March, 16), leave.KindMonthly),
	}
	pool := variantB(t).Pools[0]

	// THEN: only annual (1.0) and half annual (0.5) draw the pool
	got := leave.Remaining(pool, "Mijin Jeon", records)
	assert.True(t, got.Equal(dec("14.5")), "got %s", got)
}

func TestRemaining_IsolatedPerEmployee(t *testing.T) {
	records := []leave.Record{
		record("Mijin Jeon", leave.NewDate(2026, time.March, 2), leave.KindMonthly),
	}
	pool := variantA(t).Pools[0]
	got := leave.Remaining(pool, "Dohee Jung", records)
	assert.True(t, got.Equal(dec("12")))
}
