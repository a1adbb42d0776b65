// Package calculator implements the settlement math for shared expenses.
package calculator

import (
	"errors"

	"github.com/mmynk/splitbot/internal/models"
)

var (
	// ErrNoAttendees is returned when an expense has nobody to split among.
	ErrNoAttendees = errors.New("expense must have at least one attendee")

	// ErrPaymentMismatch is returned when the recorded payments do not add
	// up to the total amount.
	ErrPaymentMismatch = errors.New("sum of payments does not equal the total amount")
)

// Settle computes the pairwise debts left after splitting total equally among
// attendees and netting each attendee's own payments against their share.
//
// Shares use largest-remainder rounding: every attendee owes total/n minor
// units, and the first total%n attendees (in list order) carry one extra unit,
// so the shares sum to the total exactly.
//
// Debts are allocated greedily: each attendee still short of their share pays
// positive-excess payers in the order those payers first appear in payments,
// one debt per (debtor, payer) pair, until the shortfall is covered. The
// result is deterministic for a given input order. Finding the globally
// minimal transaction count is NP-hard and not attempted; the per-attendee
// greedy order is part of the contract.
func Settle(total models.Money, payments []models.Payment, attendees []string) ([]models.Debt, error) {
	if len(attendees) == 0 {
		return nil, ErrNoAttendees
	}

	var paid models.Money
	for _, p := range payments {
		paid += p.Amount
	}
	if paid != total {
		return nil, ErrPaymentMismatch
	}

	// Per-attendee share, largest-remainder.
	n := models.Money(len(attendees))
	base, rem := total/n, total%n
	shareOf := make(map[string]models.Money, len(attendees))
	for i, a := range attendees {
		share := base
		if models.Money(i) < rem {
			share++
		}
		shareOf[a] = share
	}

	// Aggregate payments per payer, keeping first-appearance order.
	paidBy := make(map[string]models.Money, len(payments))
	var payerOrder []string
	for _, p := range payments {
		if _, seen := paidBy[p.PayerID]; !seen {
			payerOrder = append(payerOrder, p.PayerID)
		}
		paidBy[p.PayerID] += p.Amount
	}

	// Only payers who paid beyond their own share can receive debts.
	// A payer who is not an attendee owes no share at all.
	excess := make(map[string]models.Money, len(payerOrder))
	for _, id := range payerOrder {
		if e := paidBy[id] - shareOf[id]; e > 0 {
			excess[id] = e
		}
	}

	var debts []models.Debt
	for _, attendee := range attendees {
		owed := shareOf[attendee] - paidBy[attendee]
		if owed <= 0 {
			continue
		}
		for _, payerID := range payerOrder {
			if payerID == attendee || excess[payerID] <= 0 {
				continue
			}
			amount := owed
			if excess[payerID] < amount {
				amount = excess[payerID]
			}
			debts = append(debts, models.Debt{
				DebtorID: attendee,
				PayerID:  payerID,
				Amount:   amount,
			})
			excess[payerID] -= amount
			owed -= amount
			if owed == 0 {
				break
			}
		}
	}

	return debts, nil
}
