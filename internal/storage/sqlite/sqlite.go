// Package sqlite provides a SQLite-backed implementation of the storage.Store interface.
package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite" // Pure Go SQLite driver (no CGO)

	"github.com/mmynk/splitbot/internal/models"
	"github.com/mmynk/splitbot/internal/storage"
)

// Ensure SQLiteStore implements storage.Store
var _ storage.Store = (*SQLiteStore)(nil)

// SQLiteStore implements storage.Store using SQLite.
type SQLiteStore struct {
	db *sql.DB
}

// New creates a new SQLiteStore with the given database path.
// It creates the parent directories and runs migrations automatically.
func New(dbPath string) (*SQLiteStore, error) {
	// Create parent directory if it doesn't exist
	dir := filepath.Dir(dbPath)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create database directory: %w", err)
	}

	// Open database with pure Go driver
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	// Enable foreign keys
	if _, err := db.Exec("PRAGMA foreign_keys = ON"); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to enable foreign keys: %w", err)
	}

	// Run migrations
	if err := runMigrations(db); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to run migrations: %w", err)
	}

	return &SQLiteStore{db: db}, nil
}

// Close closes the database connection.
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

// CreateExpense persists a new expense with its payments, attendees and debts.
func (s *SQLiteStore) CreateExpense(ctx context.Context, expense *models.Expense) error {
	// Generate ID and timestamp if not set
	if expense.ID == "" {
		expense.ID = uuid.New().String()
	}
	if expense.CreatedAt.IsZero() {
		expense.CreatedAt = time.Now()
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	_, err = tx.ExecContext(ctx,
		"INSERT INTO expenses (id, total_amount, description, channel_id, created_by, created_at) VALUES (?, ?, ?, ?, ?, ?)",
		expense.ID, int64(expense.TotalAmount), expense.Description, expense.ChannelID, expense.CreatedBy, expense.CreatedAt.Unix(),
	)
	if err != nil {
		return fmt.Errorf("failed to insert expense: %w", err)
	}

	for i, p := range expense.Payments {
		ts := p.Timestamp
		if ts.IsZero() {
			ts = expense.CreatedAt
		}
		_, err = tx.ExecContext(ctx,
			"INSERT INTO payments (expense_id, position, payer_id, amount, paid_at) VALUES (?, ?, ?, ?, ?)",
			expense.ID, i, p.PayerID, int64(p.Amount), ts.Unix(),
		)
		if err != nil {
			return fmt.Errorf("failed to insert payment: %w", err)
		}
	}

	for i, userID := range expense.Attendees {
		_, err = tx.ExecContext(ctx,
			"INSERT INTO attendees (expense_id, position, user_id) VALUES (?, ?, ?)",
			expense.ID, i, userID,
		)
		if err != nil {
			return fmt.Errorf("failed to insert attendee: %w", err)
		}
	}

	for i, d := range expense.Debts {
		_, err = tx.ExecContext(ctx,
			"INSERT INTO debts (expense_id, position, debtor_id, payer_id, amount, paid) VALUES (?, ?, ?, ?, ?, 0)",
			expense.ID, i, d.DebtorID, d.PayerID, int64(d.Amount),
		)
		if err != nil {
			return fmt.Errorf("failed to insert debt: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}

	return nil
}

// GetExpense retrieves an expense by ID, including payments, attendees and debts.
func (s *SQLiteStore) GetExpense(ctx context.Context, expenseID string) (*models.Expense, error) {
	expense := &models.Expense{}
	var total, createdAt int64
	err := s.db.QueryRowContext(ctx,
		"SELECT id, total_amount, description, channel_id, created_by, created_at FROM expenses WHERE id = ?",
		expenseID,
	).Scan(&expense.ID, &total, &expense.Description, &expense.ChannelID, &expense.CreatedBy, &createdAt)
	if err == sql.ErrNoRows {
		return nil, storage.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get expense: %w", err)
	}
	expense.TotalAmount = models.Money(total)
	expense.CreatedAt = time.Unix(createdAt, 0)

	if err := s.loadExpenseParts(ctx, expense); err != nil {
		return nil, err
	}
	return expense, nil
}

// ListExpenses retrieves all expenses, oldest first.
func (s *SQLiteStore) ListExpenses(ctx context.Context) ([]*models.Expense, error) {
	rows, err := s.db.QueryContext(ctx,
		"SELECT id, total_amount, description, channel_id, created_by, created_at FROM expenses ORDER BY created_at, id",
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list expenses: %w", err)
	}
	defer rows.Close()

	var expenses []*models.Expense
	for rows.Next() {
		expense := &models.Expense{}
		var total, createdAt int64
		if err := rows.Scan(&expense.ID, &total, &expense.Description, &expense.ChannelID, &expense.CreatedBy, &createdAt); err != nil {
			return nil, fmt.Errorf("failed to scan expense: %w", err)
		}
		expense.TotalAmount = models.Money(total)
		expense.CreatedAt = time.Unix(createdAt, 0)
		expenses = append(expenses, expense)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate expenses: %w", err)
	}

	for _, expense := range expenses {
		if err := s.loadExpenseParts(ctx, expense); err != nil {
			return nil, err
		}
	}
	return expenses, nil
}

// loadExpenseParts fills in the payments, attendees and debts of an expense.
func (s *SQLiteStore) loadExpenseParts(ctx context.Context, expense *models.Expense) error {
	payRows, err := s.db.QueryContext(ctx,
		"SELECT payer_id, amount, paid_at FROM payments WHERE expense_id = ? ORDER BY position",
		expense.ID,
	)
	if err != nil {
		return fmt.Errorf("failed to get payments: %w", err)
	}
	defer payRows.Close()

	for payRows.Next() {
		var p models.Payment
		var amount, ts int64
		if err := payRows.Scan(&p.PayerID, &amount, &ts); err != nil {
			return fmt.Errorf("failed to scan payment: %w", err)
		}
		p.Amount = models.Money(amount)
		p.Timestamp = time.Unix(ts, 0)
		expense.Payments = append(expense.Payments, p)
	}
	if err := payRows.Err(); err != nil {
		return fmt.Errorf("failed to iterate payments: %w", err)
	}

	attendeeRows, err := s.db.QueryContext(ctx,
		"SELECT user_id FROM attendees WHERE expense_id = ? ORDER BY position",
		expense.ID,
	)
	if err != nil {
		return fmt.Errorf("failed to get attendees: %w", err)
	}
	defer attendeeRows.Close()

	for attendeeRows.Next() {
		var userID string
		if err := attendeeRows.Scan(&userID); err != nil {
			return fmt.Errorf("failed to scan attendee: %w", err)
		}
		expense.Attendees = append(expense.Attendees, userID)
	}
	if err := attendeeRows.Err(); err != nil {
		return fmt.Errorf("failed to iterate attendees: %w", err)
	}

	debtRows, err := s.db.QueryContext(ctx,
		"SELECT debtor_id, payer_id, amount, paid, paid_at, last_reminder_at FROM debts WHERE expense_id = ? ORDER BY position",
		expense.ID,
	)
	if err != nil {
		return fmt.Errorf("failed to get debts: %w", err)
	}
	defer debtRows.Close()

	for debtRows.Next() {
		var d models.Debt
		var amount int64
		var paidAt, lastReminderAt sql.NullInt64
		if err := debtRows.Scan(&d.DebtorID, &d.PayerID, &amount, &d.Paid, &paidAt, &lastReminderAt); err != nil {
			return fmt.Errorf("failed to scan debt: %w", err)
		}
		d.Amount = models.Money(amount)
		if paidAt.Valid {
			t := time.Unix(paidAt.Int64, 0)
			d.PaidAt = &t
		}
		if lastReminderAt.Valid {
			t := time.Unix(lastReminderAt.Int64, 0)
			d.LastReminderAt = &t
		}
		expense.Debts = append(expense.Debts, d)
	}
	if err := debtRows.Err(); err != nil {
		return fmt.Errorf("failed to iterate debts: %w", err)
	}

	return nil
}
