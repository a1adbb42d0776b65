// Package notify defines the outbound notification contract.
//
// The core produces semantic notification records; a boundary implementation
// (the Discord adapter in production, fakes in tests) turns them into
// platform messages. A failed dispatch is a per-item failure: callers log
// and count it, and never let it abort a batch or a reminder sweep.
package notify

import (
	"context"

	"github.com/mmynk/splitbot/internal/models"
)

// Notifier is implemented by the chat boundary. Each method corresponds to
// one outbound notification kind.
type Notifier interface {
	// ExpenseCreated announces a new expense in its origin channel.
	ExpenseCreated(ctx context.Context, expense *models.Expense) error

	// DebtNotice tells a debtor what they owe, with a confirmation
	// callback carrying (expenseID, debtorID, payerID).
	DebtNotice(ctx context.Context, expense *models.Expense, debt models.Debt) error

	// PaymentConfirmed tells a payer that a debtor has settled up.
	PaymentConfirmed(ctx context.Context, expense *models.Expense, debt models.Debt) error

	// ExpenseUpdated re-posts the expense summary to its origin channel.
	ExpenseUpdated(ctx context.Context, expense *models.Expense) error

	// ReminderNotice nudges a debtor about an outstanding debt, with the
	// same confirmation callback shape as DebtNotice.
	ReminderNotice(ctx context.Context, expense *models.Expense, debt models.Debt) error
}
