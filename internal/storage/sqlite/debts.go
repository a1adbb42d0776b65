package sqlite

import (
	"context"
	"fmt"
	"time"

	"github.com/mmynk/splitbot/internal/storage"
)

// MarkDebtPaid marks the matching unpaid debt as paid.
// The conditional UPDATE is atomic: of two concurrent confirmations for the
// same debt, exactly one sees a row change and reports true.
func (s *SQLiteStore) MarkDebtPaid(ctx context.Context, expenseID, debtorID, payerID string) (bool, error) {
	res, err := s.db.ExecContext(ctx,
		"UPDATE debts SET paid = 1, paid_at = ? WHERE expense_id = ? AND debtor_id = ? AND payer_id = ? AND paid = 0",
		time.Now().Unix(), expenseID, debtorID, payerID,
	)
	if err != nil {
		return false, fmt.Errorf("failed to mark debt paid: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("failed to read rows affected: %w", err)
	}
	return n > 0, nil
}

// UpdateReminderSent stamps the reminder timestamp on the matching unpaid debt.
// A debt confirmed paid between enumeration and this call is left untouched
// and reported as false.
func (s *SQLiteStore) UpdateReminderSent(ctx context.Context, expenseID, debtorID, payerID string) (bool, error) {
	res, err := s.db.ExecContext(ctx,
		"UPDATE debts SET last_reminder_at = ? WHERE expense_id = ? AND debtor_id = ? AND payer_id = ? AND paid = 0",
		time.Now().Unix(), expenseID, debtorID, payerID,
	)
	if err != nil {
		return false, fmt.Errorf("failed to update reminder timestamp: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("failed to read rows affected: %w", err)
	}
	return n > 0, nil
}

// PendingDebts returns every unpaid debt across all expenses, oldest expense
// first and in debt position order within an expense.
func (s *SQLiteStore) PendingDebts(ctx context.Context) ([]storage.PendingDebt, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT d.expense_id FROM debts d
		 JOIN expenses e ON e.id = d.expense_id
		 WHERE d.paid = 0
		 GROUP BY d.expense_id
		 ORDER BY e.created_at, e.id`,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to query pending debts: %w", err)
	}
	defer rows.Close()

	var expenseIDs []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("failed to scan expense id: %w", err)
		}
		expenseIDs = append(expenseIDs, id)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate pending expenses: %w", err)
	}

	var pending []storage.PendingDebt
	for _, id := range expenseIDs {
		expense, err := s.GetExpense(ctx, id)
		if err != nil {
			return nil, err
		}
		for _, d := range expense.Debts {
			if !d.Paid {
				pending = append(pending, storage.PendingDebt{
					ExpenseID: id,
					Expense:   expense,
					Debt:      d,
				})
			}
		}
	}
	return pending, nil
}
