package models

import "time"

// Payment represents one contribution toward an expense.
// Payments are immutable once created.
type Payment struct {
	// PayerID is the chat-platform ID of the user who paid.
	PayerID string

	// Amount is how much this payer contributed, in minor units.
	Amount Money

	// Timestamp is when the payment was recorded.
	Timestamp time.Time
}

// Debt represents a one-shot obligation: the debtor owes the payer Amount.
// DebtorID and PayerID are always distinct. Once Paid flips to true the
// debt is settled for good; only PaidAt is set alongside it.
type Debt struct {
	// DebtorID is the user who owes money.
	DebtorID string

	// PayerID is the user who is owed money.
	PayerID string

	// Amount is the obligation in minor units.
	Amount Money

	// Paid reports whether the debtor has confirmed payment.
	// Transitions false -> true exactly once.
	Paid bool

	// PaidAt is when the payment was confirmed. Nil while unpaid.
	PaidAt *time.Time

	// LastReminderAt is when the debtor was last reminded about this
	// debt. Nil until the first reminder goes out.
	LastReminderAt *time.Time
}

// Expense represents a shared expense split among attendees.
// The store owns every Expense; expenses are never deleted.
type Expense struct {
	// ID is the unique identifier for the expense (UUID format).
	// Assigned by the store at creation.
	ID string

	// TotalAmount is the full expense amount. Always equal to the sum
	// of Payments amounts; enforced at creation.
	TotalAmount Money

	// Payments lists who paid what, in the order they were given.
	// That order matters: the settlement calculator allocates debts to
	// payers in first-appearance order.
	Payments []Payment

	// Attendees are the users splitting the expense. Never empty.
	Attendees []string

	// Description is the human-readable note for the expense.
	Description string

	// ChannelID is the chat channel the expense was created in.
	// Summaries and updates are posted back there.
	ChannelID string

	// CreatedBy is the user who issued the split command.
	CreatedBy string

	// CreatedAt is when the expense was created.
	CreatedAt time.Time

	// Debts is the settlement result: the pairwise obligations left
	// after netting payments against equal shares. Derived once at
	// creation; only per-debt bookkeeping fields mutate afterwards.
	Debts []Debt
}

// FindDebt returns the debt between the given debtor and payer, or nil.
// The calculator emits at most one debt per (debtor, payer) pair, so the
// first match is the only match.
func (e *Expense) FindDebt(debtorID, payerID string) *Debt {
	for i := range e.Debts {
		d := &e.Debts[i]
		if d.DebtorID == debtorID && d.PayerID == payerID {
			return d
		}
	}
	return nil
}

// PendingDebts returns the debts that have not been confirmed paid yet.
func (e *Expense) PendingDebts() []Debt {
	var pending []Debt
	for _, d := range e.Debts {
		if !d.Paid {
			pending = append(pending, d)
		}
	}
	return pending
}
