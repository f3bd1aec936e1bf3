/*
processor.go - Submission orchestration

PURPOSE:
  Runs one submission start to finish as a single logical transaction:

    validate -> append -> recompute balance -> sync status cell
             -> Saturday advisory -> push notification

  The ledger append is the durability point. Once it succeeds the request
  is accepted; everything after it is best effort and can only degrade
  the confirmation, never roll it back.

CONCURRENCY:
  Steps 1-5 are serialized per employee: the read-then-decide rules
  (bonus once a month, advance notice) and the read-after-write balance
  recompute race under concurrent submissions for the same employee.
  Different employees proceed independently. A per-employee mutex is
  enough at this traffic level; no queue, no transaction manager.

ERROR FLOW:
  - Violation / ConfigurationError / StoreUnavailable before the append:
    returned to the caller, nothing persisted.
  - Failures after the append (re-read, cache sync, push): logged,
    counted, swallowed. The caller still gets a Confirmation.
*/
package leave

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/sejongcare/leave-ledger/metrics"
	"github.com/sejongcare/leave-ledger/notify"
)

// bestEffortTimeout bounds the status sync and notification steps so a
// hung collaborator cannot stall an already-accepted submission.
const bestEffortTimeout = 15 * time.Second

// Processor orchestrates submissions and dashboard reads.
type Processor struct {
	roster *Roster
	ledger *Ledger
	status *StatusBook
	sender notify.Sender
	dest   string
	logger *slog.Logger

	// now is injectable for rule boundary tests.
	now func() Date

	mu    sync.Mutex
	locks map[string]*sync.Mutex
}

func NewProcessor(roster *Roster, ledger *Ledger, status *StatusBook, sender notify.Sender, dest string, logger *slog.Logger) *Processor {
	if logger == nil {
		logger = slog.Default()
	}
	return &Processor{
		roster: roster,
		ledger: ledger,
		status: status,
		sender: sender,
		dest:   dest,
		logger: logger,
		now:    Today,
		locks:  make(map[string]*sync.Mutex),
	}
}

// SetClock overrides the submission-date clock (tests).
func (p *Processor) SetClock(now func() Date) { p.now = now }

func (p *Processor) lockEmployee(name string) func() {
	p.mu.Lock()
	l, ok := p.locks[name]
	if !ok {
		l = &sync.Mutex{}
		p.locks[name] = l
	}
	p.mu.Unlock()
	l.Lock()
	return l.Unlock
}

// =============================================================================
// SUBMIT - One submission, start to finish
// =============================================================================

// Submit validates and records one leave request. It returns a
// Confirmation on acceptance; otherwise a *Violation, *ConfigurationError
// or error wrapping ErrStoreUnavailable, in which cases nothing was
// persisted.
func (p *Processor) Submit(ctx context.Context, req Request) (*Confirmation, error) {
	profile, err := p.roster.Profile(req.Employee)
	if err != nil {
		return nil, err
	}

	unlock := p.lockEmployee(req.Employee)
	defer unlock()

	snapshot, err := p.ledger.Records(ctx)
	if err != nil {
		return nil, err
	}

	if v := Validate(profile, req, snapshot, p.now()); v != nil {
		metrics.SubmissionsRejected.WithLabelValues(string(v.Rule)).Inc()
		return nil, v
	}

	rec := Record{
		Date:      req.Date,
		Employee:  req.Employee,
		Kind:      req.Kind,
		Emergency: req.Emergency,
		Reason:    req.Reason,
		Units:     req.Kind.Units(),
	}

	// Durability point. A failure here aborts the submission.
	if err := p.ledger.Append(ctx, rec); err != nil {
		return nil, err
	}

	conf := &Confirmation{Record: rec}

	// Recompute from a post-append read so the new row is included. If the
	// re-read fails the request is already accepted; fall back to the
	// pre-append snapshot plus the row we just wrote.
	after, err := p.ledger.Records(ctx)
	if err != nil {
		p.logger.Warn("post-append ledger re-read failed, using local snapshot", "error", err)
		after = append(append([]Record(nil), snapshot...), rec)
	}

	if pool := profile.PoolFor(req.Kind); pool != nil {
		remaining := Remaining(*pool, req.Employee, after)
		conf.Deducted = true
		conf.PoolLabel = pool.Label
		conf.Remaining = remaining

		syncCtx, cancel := context.WithTimeout(ctx, bestEffortTimeout)
		if err := p.status.SyncBalance(syncCtx, req.Employee, pool.StatusColumn, remaining); err != nil {
			metrics.BalanceSyncFailures.Inc()
			p.logger.Warn("balance cache sync failed; ledger remains authoritative",
				"employee", req.Employee, "pool", pool.Name, "error", err)
		}
		cancel()
	}

	// The advisory searches prior records only: the pre-append snapshot is
	// exactly the post-append ledger minus the just-inserted row.
	conf.Advisory = SaturdayAdvisory(req.Employee, req.Date, snapshot)

	p.push(ctx, conf.Message())
	metrics.SubmissionsAccepted.WithLabelValues(req.Employee).Inc()
	return conf, nil
}

// push sends a notification with one retry. Best effort: failures are
// logged and counted, never returned.
func (p *Processor) push(ctx context.Context, text string) {
	pushCtx, cancel := context.WithTimeout(ctx, bestEffortTimeout)
	defer cancel()

	err := p.sender.Push(pushCtx, p.dest, text)
	if err != nil {
		p.logger.Warn("notification push failed, retrying once", "error", err)
		err = p.sender.Push(pushCtx, p.dest, text)
	}
	if err != nil {
		metrics.Notifications.WithLabelValues("failed").Inc()
		p.logger.Warn("notification push failed", "error", err)
		return
	}
	metrics.Notifications.WithLabelValues("sent").Inc()
}

// Message renders the confirmation push text.
func (c *Confirmation) Message() string {
	var b strings.Builder
	b.WriteString("[leave request]")
	if c.Record.Emergency {
		b.WriteString(" (emergency)")
	}
	fmt.Fprintf(&b, "\n%s requested %s (%s).", c.Record.Employee, c.Record.Date, c.Record.Kind)
	if c.Deducted {
		fmt.Fprintf(&b, " %s: %s", c.PoolLabel, c.Remaining)
	} else {
		b.WriteString(" No deduction.")
	}
	if c.Advisory != "" {
		b.WriteString("\n" + c.Advisory)
	}
	if c.Record.Reason != "" {
		fmt.Fprintf(&b, "\nReason: %s", c.Record.Reason)
	}
	return b.String()
}

// =============================================================================
// READ PATHS
// =============================================================================

// CurrentBalances replays the ledger for every configured pool. Pure read:
// calling it twice with no intervening submission yields identical results.
func (p *Processor) CurrentBalances(ctx context.Context) ([]BalanceView, error) {
	records, err := p.ledger.Records(ctx)
	if err != nil {
		return nil, err
	}

	var views []BalanceView
	for _, name := range p.roster.Names() {
		profile, err := p.roster.Profile(name)
		if err != nil {
			return nil, err
		}
		for _, pool := range profile.Pools {
			views = append(views, BalanceView{
				Employee:  name,
				Pool:      pool.Name,
				Label:     pool.Label,
				Remaining: Remaining(pool, name, records),
			})
		}
	}
	return views, nil
}

// History returns all records ordered by date descending, newest first.
// Insertion order breaks ties, later rows first.
func (p *Processor) History(ctx context.Context) ([]Record, error) {
	records, err := p.ledger.Records(ctx)
	if err != nil {
		return nil, err
	}
	// reverse insertion order, then stable-sort by date descending
	out := make([]Record, 0, len(records))
	for i := len(records) - 1; i >= 0; i-- {
		out = append(out, records[i])
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Date.After(out[j].Date)
	})
	return out, nil
}

// SyncAll recomputes every pool balance and rewrites the status cells,
// creating missing rows. Run at startup: the cache self-heals from the
// ledger no matter what state the status tab is in.
func (p *Processor) SyncAll(ctx context.Context) error {
	records, err := p.ledger.Records(ctx)
	if err != nil {
		return err
	}
	for _, name := range p.roster.Names() {
		profile, err := p.roster.Profile(name)
		if err != nil {
			return err
		}
		if err := p.status.EnsureRow(ctx, name); err != nil {
			return err
		}
		for _, pool := range profile.Pools {
			remaining := Remaining(pool, name, records)
			if err := p.status.SyncBalance(ctx, name, pool.StatusColumn, remaining); err != nil {
				return err
			}
		}
	}
	return nil
}
