package sqlite

import "database/sql"

// schema contains the SQL statements to set up the database schema.
// These run on startup to ensure tables exist.
// Position columns preserve input order: payment order drives debt
// allocation, so it must survive a round trip through the database.
const schema = `
CREATE TABLE IF NOT EXISTS expenses (
    id TEXT PRIMARY KEY,
    total_amount INTEGER NOT NULL,
    description TEXT NOT NULL,
    channel_id TEXT NOT NULL,
    created_by TEXT NOT NULL,
    created_at INTEGER NOT NULL
);

CREATE TABLE IF NOT EXISTS payments (
    expense_id TEXT NOT NULL,
    position INTEGER NOT NULL,
    payer_id TEXT NOT NULL,
    amount INTEGER NOT NULL,
    paid_at INTEGER NOT NULL,
    PRIMARY KEY (expense_id, position),
    FOREIGN KEY (expense_id) REFERENCES expenses(id) ON DELETE CASCADE
);

CREATE TABLE IF NOT EXISTS attendees (
    expense_id TEXT NOT NULL,
    position INTEGER NOT NULL,
    user_id TEXT NOT NULL,
    PRIMARY KEY (expense_id, user_id),
    FOREIGN KEY (expense_id) REFERENCES expenses(id) ON DELETE CASCADE
);

CREATE TABLE IF NOT EXISTS debts (
    expense_id TEXT NOT NULL,
    position INTEGER NOT NULL,
    debtor_id TEXT NOT NULL,
    payer_id TEXT NOT NULL,
    amount INTEGER NOT NULL,
    paid INTEGER NOT NULL DEFAULT 0,
    paid_at INTEGER,
    last_reminder_at INTEGER,
    PRIMARY KEY (expense_id, debtor_id, payer_id),
    FOREIGN KEY (expense_id) REFERENCES expenses(id) ON DELETE CASCADE
);

CREATE INDEX IF NOT EXISTS idx_payments_expense_id ON payments(expense_id);
CREATE INDEX IF NOT EXISTS idx_attendees_expense_id ON attendees(expense_id);
CREATE INDEX IF NOT EXISTS idx_debts_expense_id ON debts(expense_id);
CREATE INDEX IF NOT EXISTS idx_debts_paid ON debts(paid);
`

// runMigrations executes the schema setup.
func runMigrations(db *sql.DB) error {
	_, err := db.Exec(schema)
	return err
}
