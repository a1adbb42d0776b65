package discord

import (
	"strings"
	"testing"

	"github.com/mmynk/splitbot/internal/models"
	"github.com/mmynk/splitbot/internal/reminder"
)

func testExpense() *models.Expense {
	return &models.Expense{
		ID:          "exp-1",
		TotalAmount: 10000,
		Attendees:   []string{"100", "200", "300"},
		Description: "Team lunch",
		ChannelID:   "chan-1",
		CreatedBy:   "100",
		Debts: []models.Debt{
			{DebtorID: "200", PayerID: "100", Amount: 3333},
			{DebtorID: "300", PayerID: "100", Amount: 3333, Paid: true},
		},
	}
}

func TestSummaryContent(t *testing.T) {
	got := summaryContent(testExpense())

	for _, want := range []string{
		"**Team lunch**",
		"*Total:* $100.00",
		"*Attendees:* 3 people",
		"*Each person owes:* $33.33",
		"⏳ <@200> owes <@100> $33.33",
		"✅ <@300> owes <@100> $33.33",
	} {
		if !strings.Contains(got, want) {
			t.Errorf("summary missing %q:\n%s", want, got)
		}
	}
}

func TestSummaryContentSettled(t *testing.T) {
	e := testExpense()
	e.Debts = nil
	got := summaryContent(e)
	if !strings.Contains(got, "Everyone is settled up") {
		t.Errorf("expected settled message, got:\n%s", got)
	}
}

func TestDebtMessages(t *testing.T) {
	e := testExpense()
	d := e.Debts[0]

	if got := debtNoticeContent(e, d); !strings.Contains(got, "You owe <@100> $33.33 for *Team lunch*") {
		t.Errorf("unexpected debt notice: %s", got)
	}
	if got := reminderContent(e, d); !strings.Contains(got, "Don't forget to pay your share for *Team lunch*") {
		t.Errorf("unexpected reminder: %s", got)
	}
	if got := paymentConfirmedContent(e, d); !strings.Contains(got, "<@200> has confirmed payment of $33.33") {
		t.Errorf("unexpected confirmation: %s", got)
	}
	if got := paidAckContent(e, d); !strings.Contains(got, "You paid <@100> $33.33") {
		t.Errorf("unexpected ack: %s", got)
	}
}

func TestReminderSummaryContent(t *testing.T) {
	got := reminderSummaryContent(reminder.Summary{Sent: 2, Failed: 1, Total: 3})
	for _, want := range []string{"Sent: 2", "Failed: 1", "Total: 3"} {
		if !strings.Contains(got, want) {
			t.Errorf("summary missing %q: %s", want, got)
		}
	}
}

func TestCallbackRoundTrip(t *testing.T) {
	id := callbackID("exp-1", "200", "100")
	expenseID, debtorID, payerID, ok := parseCallback(id)
	if !ok {
		t.Fatalf("parseCallback(%q) failed", id)
	}
	if expenseID != "exp-1" || debtorID != "200" || payerID != "100" {
		t.Errorf("got %q %q %q", expenseID, debtorID, payerID)
	}
}

func TestParseCallbackRejectsMalformed(t *testing.T) {
	for _, id := range []string{
		"something_else:a|b|c",
		"confirm_payment:a|b",
		"confirm_payment:a||c",
		"confirm_payment:",
	} {
		if _, _, _, ok := parseCallback(id); ok {
			t.Errorf("parseCallback(%q) unexpectedly succeeded", id)
		}
	}
}
