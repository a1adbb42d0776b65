// Package memory provides an in-memory implementation of the storage.Store
// interface. It backs tests and a no-persistence development mode.
package memory

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/mmynk/splitbot/internal/models"
	"github.com/mmynk/splitbot/internal/storage"
)

// Ensure MemoryStore implements storage.Store
var _ storage.Store = (*MemoryStore)(nil)

// MemoryStore implements storage.Store with a mutex-guarded map.
// All reads return deep copies, so callers never share memory with the
// store's own state.
type MemoryStore struct {
	mu       sync.Mutex
	expenses map[string]*models.Expense
	order    []string

	// Now is the clock used for PaidAt and LastReminderAt stamps.
	// Tests override it to control time.
	Now func() time.Time
}

// New creates an empty MemoryStore.
func New() *MemoryStore {
	return &MemoryStore{
		expenses: make(map[string]*models.Expense),
		Now:      time.Now,
	}
}

// Close is a no-op for the in-memory store.
func (s *MemoryStore) Close() error {
	return nil
}

// CreateExpense stores a copy of the expense, assigning ID and CreatedAt
// if unset.
func (s *MemoryStore) CreateExpense(_ context.Context, expense *models.Expense) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if expense.ID == "" {
		expense.ID = uuid.New().String()
	}
	if expense.CreatedAt.IsZero() {
		expense.CreatedAt = s.Now()
	}

	s.expenses[expense.ID] = clone(expense)
	s.order = append(s.order, expense.ID)
	return nil
}

// GetExpense returns a copy of the expense with the given ID.
func (s *MemoryStore) GetExpense(_ context.Context, expenseID string) (*models.Expense, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	expense, ok := s.expenses[expenseID]
	if !ok {
		return nil, storage.ErrNotFound
	}
	return clone(expense), nil
}

// ListExpenses returns copies of all expenses in creation order.
func (s *MemoryStore) ListExpenses(_ context.Context) ([]*models.Expense, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	expenses := make([]*models.Expense, 0, len(s.order))
	for _, id := range s.order {
		expenses = append(expenses, clone(s.expenses[id]))
	}
	return expenses, nil
}

// MarkDebtPaid marks the matching unpaid debt as paid under the store lock.
func (s *MemoryStore) MarkDebtPaid(_ context.Context, expenseID, debtorID, payerID string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	debt := s.findUnpaid(expenseID, debtorID, payerID)
	if debt == nil {
		return false, nil
	}
	now := s.Now()
	debt.Paid = true
	debt.PaidAt = &now
	return true, nil
}

// UpdateReminderSent stamps LastReminderAt on the matching unpaid debt.
func (s *MemoryStore) UpdateReminderSent(_ context.Context, expenseID, debtorID, payerID string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	debt := s.findUnpaid(expenseID, debtorID, payerID)
	if debt == nil {
		return false, nil
	}
	now := s.Now()
	debt.LastReminderAt = &now
	return true, nil
}

// PendingDebts returns every unpaid debt across all expenses, oldest
// expense first.
func (s *MemoryStore) PendingDebts(_ context.Context) ([]storage.PendingDebt, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var pending []storage.PendingDebt
	for _, id := range s.order {
		expense := s.expenses[id]
		for _, d := range expense.Debts {
			if !d.Paid {
				pending = append(pending, storage.PendingDebt{
					ExpenseID: id,
					Expense:   clone(expense),
					Debt:      d,
				})
			}
		}
	}
	return pending, nil
}

// findUnpaid locates the unpaid debt for (debtorID, payerID) in an expense.
// Callers must hold the lock.
func (s *MemoryStore) findUnpaid(expenseID, debtorID, payerID string) *models.Debt {
	expense, ok := s.expenses[expenseID]
	if !ok {
		return nil
	}
	for i := range expense.Debts {
		d := &expense.Debts[i]
		if d.DebtorID == debtorID && d.PayerID == payerID && !d.Paid {
			return d
		}
	}
	return nil
}

// clone deep-copies an expense so callers and the store never alias slices.
func clone(e *models.Expense) *models.Expense {
	c := *e
	c.Payments = append([]models.Payment(nil), e.Payments...)
	c.Attendees = append([]string(nil), e.Attendees...)
	c.Debts = append([]models.Debt(nil), e.Debts...)
	for i := range c.Debts {
		if e.Debts[i].PaidAt != nil {
			t := *e.Debts[i].PaidAt
			c.Debts[i].PaidAt = &t
		}
		if e.Debts[i].LastReminderAt != nil {
			t := *e.Debts[i].LastReminderAt
			c.Debts[i].LastReminderAt = &t
		}
	}
	return &c
}
