// Package metrics defines the Prometheus collectors for splitbot.
// Collectors register on the default registry; cmd/server exposes them
// through promhttp.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// ExpensesCreated counts expenses successfully created and persisted.
	ExpensesCreated = promauto.NewCounter(prometheus.CounterOpts{
		Name: "splitbot_expenses_created_total",
		Help: "Number of expenses created.",
	})

	// PaymentsConfirmed counts debts confirmed paid.
	PaymentsConfirmed = promauto.NewCounter(prometheus.CounterOpts{
		Name: "splitbot_payments_confirmed_total",
		Help: "Number of debt payments confirmed.",
	})

	// RemindersSent counts reminder notifications delivered, by sweep kind.
	RemindersSent = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "splitbot_reminders_sent_total",
		Help: "Number of reminder notifications delivered.",
	}, []string{"mode"})

	// RemindersFailed counts reminder dispatch failures, by sweep kind.
	RemindersFailed = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "splitbot_reminders_failed_total",
		Help: "Number of reminder notifications that failed to send.",
	}, []string{"mode"})

	// DispatchFailures counts non-reminder notification failures, by kind.
	DispatchFailures = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "splitbot_dispatch_failures_total",
		Help: "Number of outbound notification failures.",
	}, []string{"kind"})
)
