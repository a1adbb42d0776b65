// Package storage provides abstractions for persistent expense storage.
package storage

import (
	"context"
	"errors"

	"github.com/mmynk/splitbot/internal/models"
)

// ErrNotFound is returned by GetExpense when no expense has the given ID.
var ErrNotFound = errors.New("expense not found")

// PendingDebt is one unpaid debt together with the expense it belongs to.
type PendingDebt struct {
	ExpenseID string
	Expense   *models.Expense
	Debt      models.Debt
}

// Store defines the interface for expense storage operations.
// This abstraction allows swapping storage backends (SQLite for production,
// in-memory for tests) without changing the service layer.
//
// Expenses are append-only: there is no delete. The only mutations after
// creation are the per-debt paid and reminder bookkeeping fields, and every
// implementation must apply those atomically with respect to concurrent
// reads and writes of the same expense.
type Store interface {
	// CreateExpense persists a new expense. The ID and CreatedAt fields
	// are populated by the store if unset.
	CreateExpense(ctx context.Context, expense *models.Expense) error

	// GetExpense retrieves an expense by ID.
	// Returns ErrNotFound if no such expense exists.
	GetExpense(ctx context.Context, expenseID string) (*models.Expense, error)

	// ListExpenses retrieves all expenses, oldest first.
	ListExpenses(ctx context.Context) ([]*models.Expense, error)

	// MarkDebtPaid marks the unpaid debt matching (debtorID, payerID)
	// within the expense as paid and stamps PaidAt. It reports whether a
	// matching unpaid debt was found; false is "nothing to do", not an
	// error, so a second confirmation of the same debt reports false.
	MarkDebtPaid(ctx context.Context, expenseID, debtorID, payerID string) (bool, error)

	// UpdateReminderSent stamps LastReminderAt on the unpaid debt
	// matching (debtorID, payerID) within the expense. It reports whether
	// a matching unpaid debt was found.
	UpdateReminderSent(ctx context.Context, expenseID, debtorID, payerID string) (bool, error)

	// PendingDebts returns every unpaid debt across all expenses,
	// oldest expense first.
	PendingDebts(ctx context.Context) ([]PendingDebt, error)

	// Close releases any resources held by the store.
	Close() error
}
