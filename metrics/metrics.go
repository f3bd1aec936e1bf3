/*
Package metrics exposes Prometheus counters for the leave system.

PURPOSE:
  Operational visibility into the submission path and the reminder job.
  Counters only - this is a two-user system, latency histograms would be
  noise. Scraped via the /metrics endpoint registered in api/server.go.
*/
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// SubmissionsAccepted counts accepted leave submissions per employee.
	SubmissionsAccepted = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "leave_submissions_accepted_total",
		Help: "Accepted leave submissions.",
	}, []string{"employee"})

	// SubmissionsRejected counts rule rejections by rule code.
	SubmissionsRejected = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "leave_submissions_rejected_total",
		Help: "Leave submissions rejected by a policy rule.",
	}, []string{"rule"})

	// Notifications counts push attempts by outcome (sent / failed).
	Notifications = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "leave_notifications_total",
		Help: "Push notification attempts.",
	}, []string{"outcome"})

	// BalanceSyncFailures counts best-effort status-cell sync failures.
	BalanceSyncFailures = promauto.NewCounter(prometheus.CounterOpts{
		Name: "leave_balance_sync_failures_total",
		Help: "Failed writes of the cached balance cell.",
	})

	// ReminderRuns counts completed reminder job runs.
	ReminderRuns = promauto.NewCounter(prometheus.CounterOpts{
		Name: "leave_reminder_runs_total",
		Help: "Completed reminder job runs.",
	})
)
