package leave_test

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sejongcare/leave-ledger/leave"
	"github.com/sejongcare/leave-ledger/sheet/memory"
)

// =============================================================================
// TEST SETUP
// =============================================================================

type captureSender struct {
	mu     sync.Mutex
	pushes []string
	fail   int // fail the next n pushes
}

func (s *captureSender) Push(_ context.Context, _, text string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.fail > 0 {
		s.fail--
		return errors.New("push failed")
	}
	s.pushes = append(s.pushes, text)
	return nil
}

func (s *captureSender) sent() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]string(nil), s.pushes...)
}

func newTestProcessor(t *testing.T) (*leave.Processor, *memory.Workbook, *captureSender) {
	t.Helper()
	wb := memory.New("records", "status")
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	recTab, err := wb.Tab("records")
	require.NoError(t, err)
	stTab, err := wb.Tab("status")
	require.NoError(t, err)

	sender := &captureSender{}
	p := leave.NewProcessor(
		leave.ClinicRoster(),
		leave.NewLedger(recTab, logger),
		leave.NewStatusBook(stTab),
		sender, "group-1", logger,
	)
	p.SetClock(testToday) // Monday 2026-01-05
	require.NoError(t, p.SyncAll(context.Background()))
	return p, wb, sender
}

func ledgerLen(t *testing.T, wb *memory.Workbook) int {
	t.Helper()
	tab, err := wb.Tab("records")
	require.NoError(t, err)
	rows, err := tab.Rows(context.Background())
	require.NoError(t, err)
	return len(rows)
}

func statusCell(t *testing.T, wb *memory.Workbook, row, col int) string {
	t.Helper()
	tab, err := wb.Tab("status")
	require.NoError(t, err)
	v, err := tab.Cell(context.Background(), row, col)
	require.NoError(t, err)
	return v
}

// =============================================================================
// END-TO-END SCENARIOS
// =============================================================================

func TestSubmit_MonthlyLeaveDeductsPool(t *testing.T) {
	// GIVEN: Dohee (monthly pool, 12), empty ledger
	// WHEN: monthly leave 10 days out
	// THEN: accepted, remaining 11, status cell synced, push sent

	p, wb, sender := newTestProcessor(t)
	ctx := context.Background()

	conf, err := p.Submit(ctx, leave.Request{
		Employee: "Dohee Jung",
		Date:     leave.NewDate(2026, time.January, 15),
		Kind:     leave.KindMonthly,
		Reason:   "family trip",
	})
	require.NoError(t, err)

	assert.True(t, conf.Deducted)
	assert.Equal(t, "remaining monthly leave", conf.PoolLabel)
	assert.True(t, conf.Remaining.Equal(dec("11")), "got %s", conf.Remaining)
	assert.Empty(t, conf.Advisory)

	// Dohee is the first status row; monthly cache is column 3.
	assert.Equal(t, "11", statusCell(t, wb, 1, leave.StatusMonthlyColumn))

	pushes := sender.sent()
	require.Len(t, pushes, 1)
	assert.Contains(t, pushes[0], "Dohee Jung")
	assert.Contains(t, pushes[0], "2026-01-15")
	assert.Contains(t, pushes[0], "11")
	assert.Contains(t, pushes[0], "family trip")
}

func TestSubmit_BonusHalfDayDrawsNoPool(t *testing.T) {
	// GIVEN: Mijin (annual 16 + bonus), empty ledger
	// WHEN: bonus half-day on the 20th
	// THEN: accepted, annual balance unchanged, units 0.5 logged

	p, wb, sender := newTestProcessor(t)
	ctx := context.Background()

	conf, err := p.Submit(ctx, leave.Request{
		Employee: "Mijin Jeon",
		Date:     leave.NewDate(2026, time.January, 20),
		Kind:     leave.KindBonusMorning,
	})
	require.NoError(t, err)
	assert.False(t, conf.Deducted)
	assert.True(t, conf.Record.Units.Equal(dec("0.5")))

	views, err := p.CurrentBalances(ctx)
	require.NoError(t, err)
	for _, v := range views {
		if v.Employee == "Mijin Jeon" && v.Pool == "annual" {
			assert.True(t, v.Remaining.Equal(dec("16")), "annual pool must be untouched, got %s", v.Remaining)
		}
	}
	assert.Equal(t, "16", statusCell(t, wb, 2, leave.StatusAnnualColumn))

	require.Len(t, sender.sent(), 1)
	assert.Contains(t, sender.sent()[0], "No deduction")

	// WHEN: a second bonus the same month
	_, err = p.Submit(ctx, leave.Request{
		Employee: "Mijin Jeon",
		Date:     leave.NewDate(2026, time.January, 22),
		Kind:     leave.KindBonusMorning,
	})
	// THEN: rejected with the bonus-eligibility violation, no new row
	v, ok := leave.AsViolation(err)
	require.True(t, ok, "expected violation, got %v", err)
	assert.Equal(t, leave.RuleBonusUsed, v.Rule)
	assert.Equal(t, 1, ledgerLen(t, wb))
}

func TestSubmit_EmergencyMonthlyRejectedBeforeAppend(t *testing.T) {
	p, wb, sender := newTestProcessor(t)

	_, err := p.Submit(context.Background(), leave.Request{
		Employee:  "Dohee Jung",
		Date:      testToday(),
		Kind:      leave.KindMonthly,
		Emergency: true,
	})

	v, ok := leave.AsViolation(err)
	require.True(t, ok)
	assert.Equal(t, leave.RuleEmergencyKind, v.Rule)
	assert.Equal(t, 0, ledgerLen(t, wb), "rejection must not touch the ledger")
	assert.Empty(t, sender.sent())
}

func TestSubmit_UnknownEmployee(t *testing.T) {
	p, wb, _ := newTestProcessor(t)

	_, err := p.Submit(context.Background(), leave.Request{
		Employee: "nobody",
		Date:     testToday().AddDays(10),
		Kind:     leave.KindAnnual,
	})

	var confErr *leave.ConfigurationError
	require.ErrorAs(t, err, &confErr)
	assert.ErrorIs(t, err, leave.ErrUnknownEmployee)
	assert.Equal(t, 0, ledgerLen(t, wb))
}

// =============================================================================
// ADVISORY WIRING
// =============================================================================

func TestSubmit_SaturdayAdvisoryExcludesJustAppendedRow(t *testing.T) {
	// GIVEN: an empty ledger
	// WHEN: the first Saturday request is submitted
	// THEN: no advisory - the new row must not warn about itself

	p, _, _ := newTestProcessor(t)
	ctx := context.Background()

	conf, err := p.Submit(ctx, leave.Request{
		Employee: "Mijin Jeon",
		Date:     leave.NewDate(2026, time.January, 10), // Saturday
		Kind:     leave.KindAnnual,
	})
	require.NoError(t, err)
	assert.Empty(t, conf.Advisory)

	// WHEN: a second Saturday 14 days later
	conf, err = p.Submit(ctx, leave.Request{
		Employee: "Mijin Jeon",
		Date:     leave.NewDate(2026, time.January, 24), // Saturday, +14d
		Kind:     leave.KindAnnual,
	})
	// THEN: the advisory names the prior Saturday and rides the push
	require.NoError(t, err)
	assert.Contains(t, conf.Advisory, "2026-01-10")
	assert.Contains(t, conf.Message(), "consecutive Saturday")
}

// =============================================================================
// BEST-EFFORT STEPS
// =============================================================================

func TestSubmit_PushFailureDoesNotFailSubmission(t *testing.T) {
	p, wb, sender := newTestProcessor(t)
	sender.fail = 2 // first attempt and its retry both fail

	conf, err := p.Submit(context.Background(), leave.Request{
		Employee: "Mijin Jeon",
		Date:     testToday().AddDays(10),
		Kind:     leave.KindAnnual,
	})
	require.NoError(t, err, "notification failure must not fail an accepted submission")
	assert.True(t, conf.Deducted)
	assert.Equal(t, 1, ledgerLen(t, wb))
}

func TestSubmit_PushRetriesOnce(t *testing.T) {
	p, _, sender := newTestProcessor(t)
	sender.fail = 1 // first attempt fails, retry succeeds

	_, err := p.Submit(context.Background(), leave.Request{
		Employee: "Mijin Jeon",
		Date:     testToday().AddDays(10),
		Kind:     leave.KindAnnual,
	})
	require.NoError(t, err)
	assert.Len(t, sender.sent(), 1)
}

// =============================================================================
// READ PATHS
// =============================================================================

func TestCurrentBalances_IdempotentReads(t *testing.T) {
	p, _, _ := newTestProcessor(t)
	ctx := context.Background()

	_, err := p.Submit(ctx, leave.Request{
		Employee: "Dohee Jung",
		Date:     testToday().AddDays(10),
		Kind:     leave.KindMonthly,
	})
	require.NoError(t, err)

	first, err := p.CurrentBalances(ctx)
	require.NoError(t, err)
	second, err := p.CurrentBalances(ctx)
	require.NoError(t, err)
	require.Equal(t, len(first), len(second))
	for i := range first {
		assert.Equal(t, first[i].Employee, second[i].Employee)
		assert.True(t, first[i].Remaining.Equal(second[i].Remaining))
	}
}

func TestHistory_NewestFirst(t *testing.T) {
	p, _, _ := newTestProcessor(t)
	ctx := context.Background()

	dates := []leave.Date{
		leave.NewDate(2026, time.February, 2),
		leave.NewDate(2026, time.January, 19),
		leave.NewDate(2026, time.March, 2),
	}
	for _, d := range dates {
		_, err := p.Submit(ctx, leave.Request{Employee: "Mijin Jeon", Date: d, Kind: leave.KindAnnual})
		require.NoError(t, err)
	}

	history, err := p.History(ctx)
	require.NoError(t, err)
	require.Len(t, history, 3)
	assert.Equal(t, "2026-03-02", history[0].Date.String())
	assert.Equal(t, "2026-02-02", history[1].Date.String())
	assert.Equal(t, "2026-01-19", history[2].Date.String())
}

func TestSyncAll_HealsTamperedStatusCell(t *testing.T) {
	p, wb, _ := newTestProcessor(t)
	ctx := context.Background()

	_, err := p.Submit(ctx, leave.Request{
		Employee: "Dohee Jung",
		Date:     testToday().AddDays(10),
		Kind:     leave.KindMonthly,
	})
	require.NoError(t, err)

	// Someone edits the cached cell by hand.
	stTab, err := wb.Tab("status")
	require.NoError(t, err)
	require.NoError(t, stTab.UpdateCell(ctx, 1, leave.StatusMonthlyColumn, "99"))

	// SyncAll rebuilds it from the ledger.
	require.NoError(t, p.SyncAll(ctx))
	assert.Equal(t, "11", statusCell(t, wb, 1, leave.StatusMonthlyColumn))
}

// =============================================================================
// CONCURRENCY
// =============================================================================

func TestSubmit_ConcurrentSameEmployeeSerialized(t *testing.T) {
	// Two goroutines race a bonus request for the same month; exactly one
	// may win.
	p, wb, _ := newTestProcessor(t)
	ctx := context.Background()

	var wg sync.WaitGroup
	results := make(chan error, 2)
	for i := 0; i < 2; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := p.Submit(ctx, leave.Request{
				Employee: "Mijin Jeon",
				Date:     leave.NewDate(2026, time.January, 20),
				Kind:     leave.KindBonusMorning,
			})
			results <- err
		}()
	}
	wg.Wait()
	close(results)

	var accepted, rejected int
	for err := range results {
		if err == nil {
			accepted++
			continue
		}
		if _, ok := leave.AsViolation(err); ok {
			rejected++
		}
	}
	assert.Equal(t, 1, accepted)
	assert.Equal(t, 1, rejected)
	assert.Equal(t, 1, ledgerLen(t, wb))
}
