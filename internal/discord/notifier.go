package discord

import (
	"context"
	"fmt"

	"github.com/bwmarrin/discordgo"

	"github.com/mmynk/splitbot/internal/models"
)

// Bot implements notify.Notifier. Channel-facing notifications go to the
// expense's channel; per-debt notifications go to the debtor's or payer's DM.

func (b *Bot) ExpenseCreated(ctx context.Context, e *models.Expense) error {
	_, err := b.session.ChannelMessageSend(e.ChannelID, summaryContent(e), discordgo.WithContext(ctx))
	if err != nil {
		return fmt.Errorf("failed to post expense summary: %w", err)
	}
	return nil
}

func (b *Bot) ExpenseUpdated(ctx context.Context, e *models.Expense) error {
	_, err := b.session.ChannelMessageSend(e.ChannelID, summaryContent(e), discordgo.WithContext(ctx))
	if err != nil {
		return fmt.Errorf("failed to post expense update: %w", err)
	}
	return nil
}

func (b *Bot) DebtNotice(ctx context.Context, e *models.Expense, d models.Debt) error {
	return b.dm(ctx, d.DebtorID, &discordgo.MessageSend{
		Content:    debtNoticeContent(e, d),
		Components: confirmButton(e.ID, d),
	})
}

func (b *Bot) ReminderNotice(ctx context.Context, e *models.Expense, d models.Debt) error {
	return b.dm(ctx, d.DebtorID, &discordgo.MessageSend{
		Content:    reminderContent(e, d),
		Components: confirmButton(e.ID, d),
	})
}

func (b *Bot) PaymentConfirmed(ctx context.Context, e *models.Expense, d models.Debt) error {
	return b.dm(ctx, d.PayerID, &discordgo.MessageSend{
		Content: paymentConfirmedContent(e, d),
	})
}

func (b *Bot) dm(ctx context.Context, userID string, msg *discordgo.MessageSend) error {
	channel, err := b.session.UserChannelCreate(userID, discordgo.WithContext(ctx))
	if err != nil {
		return fmt.Errorf("failed to open DM channel for %s: %w", userID, err)
	}
	_, err = b.session.ChannelMessageSendComplex(channel.ID, msg, discordgo.WithContext(ctx))
	if err != nil {
		return fmt.Errorf("failed to send DM to %s: %w", userID, err)
	}
	return nil
}
