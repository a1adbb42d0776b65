package calculator

import (
	"errors"
	"reflect"
	"testing"

	"github.com/mmynk/splitbot/internal/models"
)

func pay(payerID string, amount models.Money) models.Payment {
	return models.Payment{PayerID: payerID, Amount: amount}
}

// checkInvariants verifies the properties every settlement must satisfy:
// no self-debts, no zero debts, and total debt equal to total shortfall.
func checkInvariants(t *testing.T, total models.Money, payments []models.Payment, attendees []string, debts []models.Debt) {
	t.Helper()

	paidBy := make(map[string]models.Money)
	for _, p := range payments {
		paidBy[p.PayerID] += p.Amount
	}

	n := models.Money(len(attendees))
	base, rem := total/n, total%n
	var shortfall models.Money
	for i, a := range attendees {
		share := base
		if models.Money(i) < rem {
			share++
		}
		if owed := share - paidBy[a]; owed > 0 {
			shortfall += owed
		}
	}

	var debtTotal models.Money
	for _, d := range debts {
		if d.DebtorID == d.PayerID {
			t.Errorf("self-debt emitted for %s", d.DebtorID)
		}
		if d.Amount <= 0 {
			t.Errorf("non-positive debt %s -> %s: %d", d.DebtorID, d.PayerID, d.Amount)
		}
		debtTotal += d.Amount
	}
	if debtTotal != shortfall {
		t.Errorf("total debt = %d, want shortfall %d", debtTotal, shortfall)
	}
}

func TestSettle(t *testing.T) {
	tests := []struct {
		name      string
		total     models.Money
		payments  []models.Payment
		attendees []string
		wantErr   error
		want      []models.Debt
	}{
		{
			name:      "single payer covers total",
			total:     100000,
			payments:  []models.Payment{pay("A", 100000)},
			attendees: []string{"A", "B", "C"},
			want: []models.Debt{
				{DebtorID: "B", PayerID: "A", Amount: 33333},
				{DebtorID: "C", PayerID: "A", Amount: 33333},
			},
		},
		{
			name:      "two payers split a third attendee's share",
			total:     100000,
			payments:  []models.Payment{pay("A", 50000), pay("B", 50000)},
			attendees: []string{"A", "B", "C"},
			want: []models.Debt{
				// A's share carries the remainder unit, so A's excess is
				// one cent smaller than B's. C pays A first, then B.
				{DebtorID: "C", PayerID: "A", Amount: 16666},
				{DebtorID: "C", PayerID: "B", Amount: 16667},
			},
		},
		{
			name:      "everyone paid their own share",
			total:     9000,
			payments:  []models.Payment{pay("A", 3000), pay("B", 3000), pay("C", 3000)},
			attendees: []string{"A", "B", "C"},
			want:      nil,
		},
		{
			name:      "partial payer owes the rest of their share",
			total:     10000,
			payments:  []models.Payment{pay("A", 8000), pay("B", 2000)},
			attendees: []string{"A", "B"},
			want: []models.Debt{
				{DebtorID: "B", PayerID: "A", Amount: 3000},
			},
		},
		{
			name:      "remainder units go to the first attendees",
			total:     100,
			payments:  []models.Payment{pay("C", 100)},
			attendees: []string{"A", "B", "C"},
			want: []models.Debt{
				{DebtorID: "A", PayerID: "C", Amount: 34},
				{DebtorID: "B", PayerID: "C", Amount: 33},
			},
		},
		{
			name:      "debtor exhausts first payer before moving on",
			total:     12000,
			payments:  []models.Payment{pay("A", 5000), pay("B", 7000)},
			attendees: []string{"A", "B", "C", "D"},
			want: []models.Debt{
				{DebtorID: "C", PayerID: "A", Amount: 2000},
				{DebtorID: "C", PayerID: "B", Amount: 1000},
				{DebtorID: "D", PayerID: "B", Amount: 3000},
			},
		},
		{
			name:      "zero attendees",
			total:     5000,
			payments:  []models.Payment{pay("A", 5000)},
			attendees: nil,
			wantErr:   ErrNoAttendees,
		},
		{
			name:      "payments do not cover the total",
			total:     5000,
			payments:  []models.Payment{pay("A", 4000)},
			attendees: []string{"A", "B"},
			wantErr:   ErrPaymentMismatch,
		},
		{
			name:      "payments exceed the total",
			total:     5000,
			payments:  []models.Payment{pay("A", 4000), pay("B", 2000)},
			attendees: []string{"A", "B"},
			wantErr:   ErrPaymentMismatch,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			debts, err := Settle(tt.total, tt.payments, tt.attendees)
			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Fatalf("Settle() error = %v, want %v", err, tt.wantErr)
				}
				return
			}
			if err != nil {
				t.Fatalf("Settle() unexpected error: %v", err)
			}
			if !reflect.DeepEqual(debts, tt.want) {
				t.Errorf("Settle() = %+v, want %+v", debts, tt.want)
			}
			checkInvariants(t, tt.total, tt.payments, tt.attendees, debts)
		})
	}
}

func TestSettleDeterministic(t *testing.T) {
	total := models.Money(100000)
	payments := []models.Payment{pay("A", 60000), pay("B", 40000)}
	attendees := []string{"A", "B", "C", "D"}

	first, err := Settle(total, payments, attendees)
	if err != nil {
		t.Fatalf("Settle() failed: %v", err)
	}
	second, err := Settle(total, payments, attendees)
	if err != nil {
		t.Fatalf("Settle() failed: %v", err)
	}
	if !reflect.DeepEqual(first, second) {
		t.Errorf("identical input produced different debt lists:\n%+v\n%+v", first, second)
	}
}

func TestSettleAggregatesRepeatedPayers(t *testing.T) {
	// Two payments by the same payer count as one payer with their sum.
	debts, err := Settle(6000,
		[]models.Payment{pay("A", 2000), pay("A", 4000)},
		[]string{"A", "B", "C"},
	)
	if err != nil {
		t.Fatalf("Settle() failed: %v", err)
	}
	want := []models.Debt{
		{DebtorID: "B", PayerID: "A", Amount: 2000},
		{DebtorID: "C", PayerID: "A", Amount: 2000},
	}
	if !reflect.DeepEqual(debts, want) {
		t.Errorf("Settle() = %+v, want %+v", debts, want)
	}
}

func TestSettleOneDebtPerPair(t *testing.T) {
	debts, err := Settle(20000,
		[]models.Payment{pay("A", 12000), pay("B", 8000)},
		[]string{"A", "B", "C", "D", "E"},
	)
	if err != nil {
		t.Fatalf("Settle() failed: %v", err)
	}
	seen := make(map[[2]string]bool)
	for _, d := range debts {
		key := [2]string{d.DebtorID, d.PayerID}
		if seen[key] {
			t.Errorf("duplicate debt pair %s -> %s", d.DebtorID, d.PayerID)
		}
		seen[key] = true
	}
}
