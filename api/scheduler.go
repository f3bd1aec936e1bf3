/*
scheduler.go - Daily reminder scheduler

PURPOSE:
  Runs the reminder job once a day at a configured local hour while the
  server is up. Deployments that prefer cron run `leavectl remind`
  instead and leave this disabled.

DESIGN:
  - Background goroutine sleeping on a timer until the next occurrence
    of the configured hour, then running the job and rearming.
  - Stop() is synchronous: it cancels the timer and waits for the
    goroutine to exit.
  - No catch-up: a run missed while the server was down is simply
    skipped. Duplicate notifications are harmless, missing one day of
    reminders is too.
*/
package api

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/sejongcare/leave-ledger/leave"
)

// ReminderScheduler triggers the reminder job daily.
type ReminderScheduler struct {
	Job    *leave.Reminder
	Hour   int // local hour of day, 0-23
	Logger *slog.Logger

	stop chan struct{}
	wg   sync.WaitGroup
	once sync.Once
}

func NewReminderScheduler(job *leave.Reminder, hour int, logger *slog.Logger) *ReminderScheduler {
	if logger == nil {
		logger = slog.Default()
	}
	return &ReminderScheduler{Job: job, Hour: hour, Logger: logger, stop: make(chan struct{})}
}

// Start launches the background loop.
func (s *ReminderScheduler) Start() {
	s.wg.Add(1)
	go s.run()
	s.Logger.Info("reminder scheduler started", "hour", s.Hour)
}

// Stop halts the loop and waits for it to exit.
func (s *ReminderScheduler) Stop() {
	s.once.Do(func() { close(s.stop) })
	s.wg.Wait()
	s.Logger.Info("reminder scheduler stopped")
}

func (s *ReminderScheduler) run() {
	defer s.wg.Done()

	for {
		next := nextRun(time.Now(), s.Hour)
		timer := time.NewTimer(time.Until(next))

		select {
		case <-timer.C:
			ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
			if err := s.Job.Run(ctx); err != nil {
				s.Logger.Error("reminder run failed", "error", err)
			}
			cancel()
		case <-s.stop:
			timer.Stop()
			return
		}
	}
}

// nextRun returns the next occurrence of hour strictly after now.
func nextRun(now time.Time, hour int) time.Time {
	next := time.Date(now.Year(), now.Month(), now.Day(), hour, 0, 0, 0, now.Location())
	if !next.After(now) {
		next = next.AddDate(0, 0, 1)
	}
	return next
}
