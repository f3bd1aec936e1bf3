/*
reminder.go - Daily reminder job

PURPOSE:
  A ledger-only scan, run once a day (in-process scheduler or external
  cron), producing up to two pushes:

    1. tomorrow's leave: everyone with a record dated tomorrow
    2. emergency reminder: emergency-tagged records dated today or later

  Zero, one or two notifications depending on which lists are non-empty;
  never an empty push. Duplicate runs duplicate notifications - there is
  deliberately no dedup state.
*/
package leave

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/sejongcare/leave-ledger/metrics"
	"github.com/sejongcare/leave-ledger/notify"
)

// Reminder is the daily notification job.
type Reminder struct {
	ledger *Ledger
	sender notify.Sender
	dest   string
	logger *slog.Logger
	now    func() Date
}

func NewReminder(ledger *Ledger, sender notify.Sender, dest string, logger *slog.Logger) *Reminder {
	if logger == nil {
		logger = slog.Default()
	}
	return &Reminder{ledger: ledger, sender: sender, dest: dest, logger: logger, now: Today}
}

// SetClock overrides the job's clock (tests).
func (r *Reminder) SetClock(now func() Date) { r.now = now }

// Run scans the ledger and pushes the day's reminders. A ledger read
// failure aborts the run; push failures are logged per message and do not
// stop the other message.
func (r *Reminder) Run(ctx context.Context) error {
	records, err := r.ledger.Records(ctx)
	if err != nil {
		return err
	}

	today := r.now()
	tomorrow := today.AddDays(1)

	if msg := tomorrowMessage(records, tomorrow); msg != "" {
		r.send(ctx, msg)
	}
	if msg := emergencyMessage(records, today); msg != "" {
		r.send(ctx, msg)
	}

	metrics.ReminderRuns.Inc()
	return nil
}

func (r *Reminder) send(ctx context.Context, text string) {
	if err := r.sender.Push(ctx, r.dest, text); err != nil {
		metrics.Notifications.WithLabelValues("failed").Inc()
		r.logger.Warn("reminder push failed", "error", err)
		return
	}
	metrics.Notifications.WithLabelValues("sent").Inc()
}

// tomorrowMessage lists everyone with a record dated tomorrow, or "" when
// nobody is off. Names keep ledger order, deduplicated.
func tomorrowMessage(records []Record, tomorrow Date) string {
	var names []string
	seen := make(map[string]bool)
	for _, rec := range records {
		if !rec.Date.Equal(tomorrow) || seen[rec.Employee] {
			continue
		}
		seen[rec.Employee] = true
		names = append(names, rec.Employee)
	}
	if len(names) == 0 {
		return ""
	}
	return fmt.Sprintf("[leave tomorrow]\n%s: %s on leave tomorrow", tomorrow, strings.Join(names, ", "))
}

// emergencyMessage lists emergency-tagged records dated today or later,
// or "" when there are none.
func emergencyMessage(records []Record, today Date) string {
	var lines []string
	for _, rec := range records {
		if !rec.Emergency || rec.Date.Before(today) {
			continue
		}
		line := fmt.Sprintf("- %s %s", rec.Date, rec.Employee)
		if rec.Reason != "" {
			line += fmt.Sprintf(" (reason: %s)", rec.Reason)
		}
		lines = append(lines, line)
	}
	if len(lines) == 0 {
		return ""
	}
	return "[emergency leave reminder]\nUpcoming emergency leave:\n" + strings.Join(lines, "\n")
}
