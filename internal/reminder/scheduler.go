// Package reminder implements the periodic reminder sweep over pending debts.
package reminder

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/mmynk/splitbot/internal/metrics"
	"github.com/mmynk/splitbot/internal/notify"
	"github.com/mmynk/splitbot/internal/storage"
)

const (
	// DefaultPollInterval is how often the scheduler sweeps pending debts.
	DefaultPollInterval = time.Hour

	// DefaultReminderInterval is the minimum gap between two automatic
	// reminders for the same debt.
	DefaultReminderInterval = 24 * time.Hour
)

// Summary reports the outcome of a manual reminder sweep.
type Summary struct {
	Sent   int
	Failed int
	Total  int
}

// Scheduler periodically reminds debtors about unpaid debts. One background
// goroutine sweeps every pollInterval while running; each sweep is
// independent, so a late sweep runs once rather than catching up. Dispatch
// failures are isolated per debt and never abort a sweep.
type Scheduler struct {
	store    storage.Store
	notifier notify.Notifier

	pollInterval     time.Duration
	reminderInterval time.Duration
	now              func() time.Time

	mu       sync.Mutex
	running  bool
	stopChan chan struct{}
	ticker   *time.Ticker
}

// New creates a stopped Scheduler. Zero intervals fall back to the defaults
// (1h poll, 24h between automatic reminders per debt).
func New(store storage.Store, notifier notify.Notifier, pollInterval, reminderInterval time.Duration) *Scheduler {
	if pollInterval <= 0 {
		pollInterval = DefaultPollInterval
	}
	if reminderInterval <= 0 {
		reminderInterval = DefaultReminderInterval
	}
	return &Scheduler{
		store:            store,
		notifier:         notifier,
		pollInterval:     pollInterval,
		reminderInterval: reminderInterval,
		now:              time.Now,
	}
}

// SetNotifier replaces the dispatch target. Call before Start.
func (s *Scheduler) SetNotifier(n notify.Notifier) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.notifier = n
}

// Start launches the sweep loop. Starting a running scheduler is a no-op.
func (s *Scheduler) Start() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.running {
		return
	}
	s.running = true
	s.stopChan = make(chan struct{})
	s.ticker = time.NewTicker(s.pollInterval)
	go s.loop(s.stopChan, s.ticker)
	slog.Info("Reminder scheduler started",
		"poll_interval", s.pollInterval,
		"reminder_interval", s.reminderInterval,
	)
}

// Stop halts the sweep loop. An in-flight sweep finishes; no new sweep is
// scheduled. Stopping a stopped scheduler is a no-op.
func (s *Scheduler) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.running {
		return
	}
	s.running = false
	close(s.stopChan)
	s.ticker.Stop()
	slog.Info("Reminder scheduler stopped")
}

// Running reports whether the sweep loop is active.
func (s *Scheduler) Running() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.running
}

func (s *Scheduler) loop(stop <-chan struct{}, ticker *time.Ticker) {
	ctx := context.Background()
	for {
		select {
		case <-ticker.C:
			s.runSweep(ctx)
		case <-stop:
			return
		}
	}
}

// runSweep shields the loop from a bad sweep: any error or panic is logged
// and the next tick proceeds as usual.
func (s *Scheduler) runSweep(ctx context.Context) {
	defer func() {
		if r := recover(); r != nil {
			slog.Error("Reminder sweep panicked", "panic", r)
		}
	}()
	if err := s.Sweep(ctx); err != nil {
		slog.Error("Reminder sweep failed", "error", err)
	}
}

// Sweep sends automatic reminders for every pending debt that has never
// been reminded or whose last reminder is at least reminderInterval old.
func (s *Scheduler) Sweep(ctx context.Context) error {
	pending, err := s.store.PendingDebts(ctx)
	if err != nil {
		return err
	}

	now := s.now()
	for _, p := range pending {
		if p.Debt.LastReminderAt != nil && now.Sub(*p.Debt.LastReminderAt) < s.reminderInterval {
			continue
		}
		s.remind(ctx, p, "auto")
	}
	return nil
}

// SendManualReminders reminds every pending debt regardless of when the
// last reminder went out, and reports how many sends succeeded. Successful
// sends still stamp the reminder timestamp, so a manual sweep resets the
// automatic clock.
func (s *Scheduler) SendManualReminders(ctx context.Context) (Summary, error) {
	pending, err := s.store.PendingDebts(ctx)
	if err != nil {
		return Summary{}, err
	}

	var sum Summary
	for _, p := range pending {
		if s.remind(ctx, p, "manual") {
			sum.Sent++
		} else {
			sum.Failed++
		}
	}
	sum.Total = sum.Sent + sum.Failed
	return sum, nil
}

// remind dispatches one reminder and, only on success, stamps the debt's
// reminder timestamp. The stamp is conditional on the debt still being
// unpaid, so a debt settled mid-sweep is left alone.
func (s *Scheduler) remind(ctx context.Context, p storage.PendingDebt, mode string) bool {
	if err := s.notifier.ReminderNotice(ctx, p.Expense, p.Debt); err != nil {
		metrics.RemindersFailed.WithLabelValues(mode).Inc()
		slog.Warn("Reminder dispatch failed",
			"expense_id", p.ExpenseID,
			"debtor_id", p.Debt.DebtorID,
			"error", err,
		)
		return false
	}
	metrics.RemindersSent.WithLabelValues(mode).Inc()

	ok, err := s.store.UpdateReminderSent(ctx, p.ExpenseID, p.Debt.DebtorID, p.Debt.PayerID)
	if err != nil {
		slog.Warn("Failed to stamp reminder timestamp",
			"expense_id", p.ExpenseID,
			"debtor_id", p.Debt.DebtorID,
			"error", err,
		)
	} else if !ok {
		slog.Debug("Debt settled mid-sweep, reminder stamp skipped",
			"expense_id", p.ExpenseID,
			"debtor_id", p.Debt.DebtorID,
		)
	}
	return true
}
