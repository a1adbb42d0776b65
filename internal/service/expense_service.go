// Package service implements the expense workflows on top of the storage
// and notification boundaries.
package service

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/mmynk/splitbot/internal/calculator"
	"github.com/mmynk/splitbot/internal/metrics"
	"github.com/mmynk/splitbot/internal/models"
	"github.com/mmynk/splitbot/internal/notify"
	"github.com/mmynk/splitbot/internal/storage"
)

// ErrNoPayers is returned when an expense is created without any payments.
var ErrNoPayers = errors.New("expense must have at least one payer")

// ExpenseService owns the expense lifecycle: creation with settlement,
// payment confirmation, and queries. Validation errors propagate to the
// caller; notification failures are logged and counted but never fail the
// operation that triggered them.
type ExpenseService struct {
	store    storage.Store
	notifier notify.Notifier
}

// NewExpenseService creates an ExpenseService with the given backends. The
// notifier may be nil at construction and supplied later with SetNotifier,
// which lets the chat adapter depend on the service while also acting as its
// notifier.
func NewExpenseService(store storage.Store, notifier notify.Notifier) *ExpenseService {
	return &ExpenseService{store: store, notifier: notifier}
}

// SetNotifier replaces the dispatch target. Call before serving traffic.
func (s *ExpenseService) SetNotifier(n notify.Notifier) {
	s.notifier = n
}

// CreateParams carries the validated command input for a new expense.
type CreateParams struct {
	TotalAmount models.Money
	Payments    []models.Payment
	Attendees   []string
	Description string
	ChannelID   string
	CreatedBy   string
}

// CreateExpense settles a new expense, persists it, announces it in the
// origin channel and notifies every debtor.
func (s *ExpenseService) CreateExpense(ctx context.Context, p CreateParams) (*models.Expense, error) {
	if len(p.Payments) == 0 {
		return nil, ErrNoPayers
	}

	debts, err := calculator.Settle(p.TotalAmount, p.Payments, p.Attendees)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	payments := make([]models.Payment, len(p.Payments))
	for i, payment := range p.Payments {
		payments[i] = payment
		if payments[i].Timestamp.IsZero() {
			payments[i].Timestamp = now
		}
	}

	expense := &models.Expense{
		TotalAmount: p.TotalAmount,
		Payments:    payments,
		Attendees:   p.Attendees,
		Description: p.Description,
		ChannelID:   p.ChannelID,
		CreatedBy:   p.CreatedBy,
		Debts:       debts,
	}
	if err := s.store.CreateExpense(ctx, expense); err != nil {
		return nil, err
	}
	metrics.ExpensesCreated.Inc()
	slog.Info("Expense created",
		"expense_id", expense.ID,
		"total", expense.TotalAmount,
		"attendees", len(expense.Attendees),
		"debts", len(expense.Debts),
	)

	if err := s.notifier.ExpenseCreated(ctx, expense); err != nil {
		s.dispatchFailed("expense_created", expense.ID, err)
	}
	for _, debt := range expense.Debts {
		if err := s.notifier.DebtNotice(ctx, expense, debt); err != nil {
			s.dispatchFailed("debt_notice", expense.ID, err)
		}
	}

	return expense, nil
}

// ConfirmPayment marks the debt matching (debtorID, payerID) as paid. It
// reports false when the expense or a matching unpaid debt does not exist,
// so a repeated confirmation is a no-op rather than an error. On success it
// notifies the payer and re-posts the summary to the origin channel, and
// returns the fresh expense state.
func (s *ExpenseService) ConfirmPayment(ctx context.Context, expenseID, debtorID, payerID string) (*models.Expense, bool, error) {
	ok, err := s.store.MarkDebtPaid(ctx, expenseID, debtorID, payerID)
	if err != nil {
		return nil, false, err
	}
	if !ok {
		return nil, false, nil
	}
	metrics.PaymentsConfirmed.Inc()

	expense, err := s.store.GetExpense(ctx, expenseID)
	if err != nil {
		return nil, false, err
	}
	debt := expense.FindDebt(debtorID, payerID)
	slog.Info("Payment confirmed",
		"expense_id", expenseID,
		"debtor_id", debtorID,
		"payer_id", payerID,
	)

	if debt != nil {
		if err := s.notifier.PaymentConfirmed(ctx, expense, *debt); err != nil {
			s.dispatchFailed("payment_confirmed", expenseID, err)
		}
	}
	if err := s.notifier.ExpenseUpdated(ctx, expense); err != nil {
		s.dispatchFailed("expense_updated", expenseID, err)
	}

	return expense, true, nil
}

// GetExpense retrieves an expense by ID.
func (s *ExpenseService) GetExpense(ctx context.Context, expenseID string) (*models.Expense, error) {
	return s.store.GetExpense(ctx, expenseID)
}

// ListExpenses retrieves all expenses, oldest first.
func (s *ExpenseService) ListExpenses(ctx context.Context) ([]*models.Expense, error) {
	return s.store.ListExpenses(ctx)
}

func (s *ExpenseService) dispatchFailed(kind, expenseID string, err error) {
	metrics.DispatchFailures.WithLabelValues(kind).Inc()
	slog.Warn("Notification dispatch failed",
		"kind", kind,
		"expense_id", expenseID,
		"error", err,
	)
}
