package discord

import (
	"fmt"
	"strings"

	"github.com/bwmarrin/discordgo"
	"github.com/shopspring/decimal"

	"github.com/mmynk/splitbot/internal/models"
	"github.com/mmynk/splitbot/internal/reminder"
)

const callbackPrefix = "confirm_payment:"

func formatMoney(m models.Money) string {
	return "$" + m.String()
}

// callbackID encodes the debt coordinates into a component custom ID so the
// confirmation button round-trips without server-side session state.
func callbackID(expenseID, debtorID, payerID string) string {
	return callbackPrefix + expenseID + "|" + debtorID + "|" + payerID
}

func parseCallback(customID string) (expenseID, debtorID, payerID string, ok bool) {
	rest, found := strings.CutPrefix(customID, callbackPrefix)
	if !found {
		return "", "", "", false
	}
	parts := strings.Split(rest, "|")
	if len(parts) != 3 || parts[0] == "" || parts[1] == "" || parts[2] == "" {
		return "", "", "", false
	}
	return parts[0], parts[1], parts[2], true
}

// summaryContent renders the channel-facing expense summary: the headline
// figures followed by every debt grouped under its payer, with a check mark
// once a debt is settled.
func summaryContent(e *models.Expense) string {
	var sb strings.Builder

	fmt.Fprintf(&sb, "**%s**\n", e.Description)
	share := e.TotalAmount.Decimal().Div(decimal.NewFromInt(int64(len(e.Attendees))))
	fmt.Fprintf(&sb, "*Total:* %s\n*Attendees:* %d people\n*Each person owes:* $%s\n",
		formatMoney(e.TotalAmount), len(e.Attendees), share.StringFixed(2))

	if len(e.Debts) == 0 {
		sb.WriteString("\nEveryone is settled up. 🎉")
		return sb.String()
	}

	// Group debts by payer, preserving debt order.
	payerOrder := make([]string, 0, len(e.Debts))
	byPayer := make(map[string][]models.Debt)
	for _, d := range e.Debts {
		if _, seen := byPayer[d.PayerID]; !seen {
			payerOrder = append(payerOrder, d.PayerID)
		}
		byPayer[d.PayerID] = append(byPayer[d.PayerID], d)
	}

	sb.WriteString("\n")
	for _, payerID := range payerOrder {
		for _, d := range byPayer[payerID] {
			status := "⏳"
			if d.Paid {
				status = "✅"
			}
			fmt.Fprintf(&sb, "%s <@%s> owes <@%s> %s\n", status, d.DebtorID, d.PayerID, formatMoney(d.Amount))
		}
	}

	return strings.TrimRight(sb.String(), "\n")
}

func debtNoticeContent(e *models.Expense, d models.Debt) string {
	return fmt.Sprintf("You owe <@%s> %s for *%s*. Have you paid this amount?",
		d.PayerID, formatMoney(d.Amount), e.Description)
}

func reminderContent(e *models.Expense, d models.Debt) string {
	return fmt.Sprintf("Hey! Don't forget to pay your share for *%s* 😄\nYou owe <@%s> %s",
		e.Description, d.PayerID, formatMoney(d.Amount))
}

func paymentConfirmedContent(e *models.Expense, d models.Debt) string {
	return fmt.Sprintf("Good news! <@%s> has confirmed payment of %s for *%s*.",
		d.DebtorID, formatMoney(d.Amount), e.Description)
}

func paidAckContent(e *models.Expense, d models.Debt) string {
	return fmt.Sprintf("You paid <@%s> %s for *%s*. Thank you! 🎉",
		d.PayerID, formatMoney(d.Amount), e.Description)
}

func reminderSummaryContent(sum reminder.Summary) string {
	return fmt.Sprintf("**Reminder Summary**\nSent: %d\nFailed: %d\nTotal: %d",
		sum.Sent, sum.Failed, sum.Total)
}

// confirmButton builds the action row holding the "I've paid" button that
// accompanies debt notices and reminders.
func confirmButton(expenseID string, d models.Debt) []discordgo.MessageComponent {
	return []discordgo.MessageComponent{
		discordgo.ActionsRow{
			Components: []discordgo.MessageComponent{
				discordgo.Button{
					Label:    "Yes, I've paid",
					Style:    discordgo.SuccessButton,
					CustomID: callbackID(expenseID, d.DebtorID, d.PayerID),
				},
			},
		},
	}
}
