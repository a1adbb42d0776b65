// Package discord adapts the Discord gateway to splitbot: the /split slash
// command and confirmation buttons come in, notifications go out.
package discord

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/bwmarrin/discordgo"

	"github.com/mmynk/splitbot/internal/command"
	"github.com/mmynk/splitbot/internal/reminder"
	"github.com/mmynk/splitbot/internal/service"
)

// Bot owns the Discord session and routes interactions to the expense
// service and the reminder scheduler.
type Bot struct {
	session   *discordgo.Session
	service   *service.ExpenseService
	scheduler *reminder.Scheduler
}

// New creates a Bot for the given bot token. The session is not opened
// until Start.
func New(token string, svc *service.ExpenseService, scheduler *reminder.Scheduler) (*Bot, error) {
	session, err := discordgo.New("Bot " + token)
	if err != nil {
		return nil, fmt.Errorf("failed to create discord session: %w", err)
	}

	bot := &Bot{
		session:   session,
		service:   svc,
		scheduler: scheduler,
	}

	session.AddHandler(bot.onReady)
	session.AddHandler(bot.onGuildCreate)
	session.AddHandler(bot.onInteractionCreate)

	session.Identify.Intents = discordgo.IntentsGuilds | discordgo.IntentsGuildMessages | discordgo.IntentsDirectMessages

	return bot, nil
}

// Start opens the gateway session.
func (b *Bot) Start() error {
	if err := b.session.Open(); err != nil {
		return fmt.Errorf("failed to open discord session: %w", err)
	}
	slog.Info("Discord bot is running")
	return nil
}

// Stop closes the gateway session.
func (b *Bot) Stop() error {
	return b.session.Close()
}

func (b *Bot) onReady(_ *discordgo.Session, event *discordgo.Ready) {
	slog.Info("Connected to Discord", "user", event.User.Username)
	for _, guild := range event.Guilds {
		if err := b.registerGuildCommands(guild.ID); err != nil {
			slog.Error("Failed to register commands", "guild_id", guild.ID, "error", err)
		}
	}
}

func (b *Bot) onGuildCreate(_ *discordgo.Session, event *discordgo.GuildCreate) {
	if err := b.registerGuildCommands(event.ID); err != nil {
		slog.Error("Failed to register commands", "guild_id", event.ID, "error", err)
	}
}

func (b *Bot) registerGuildCommands(guildID string) error {
	commands := []*discordgo.ApplicationCommand{
		{
			Name:        "split",
			Description: "Split an expense among attendees",
			Options: []*discordgo.ApplicationCommandOption{
				{
					Type:        discordgo.ApplicationCommandOptionString,
					Name:        "command",
					Description: "total <amt> paid_by <@user> [amt]... attendees <@user>... note <text> (or: remind)",
					Required:    true,
				},
			},
		},
	}

	_, err := b.session.ApplicationCommandBulkOverwrite(b.session.State.User.ID, guildID, commands)
	if err != nil {
		return err
	}
	slog.Debug("Registered application commands", "guild_id", guildID)
	return nil
}

func (b *Bot) onInteractionCreate(s *discordgo.Session, i *discordgo.InteractionCreate) {
	switch i.Type {
	case discordgo.InteractionApplicationCommand:
		b.handleApplicationCommand(s, i)
	case discordgo.InteractionMessageComponent:
		b.handleComponent(s, i)
	}
}

func (b *Bot) handleApplicationCommand(s *discordgo.Session, i *discordgo.InteractionCreate) {
	data := i.ApplicationCommandData()
	if data.Name != "split" {
		return
	}

	var text string
	for _, opt := range data.Options {
		if opt.Name == "command" {
			text = opt.StringValue()
		}
	}

	if strings.EqualFold(strings.TrimSpace(text), "remind") {
		b.handleManualReminders(s, i)
		return
	}
	b.handleSplit(s, i, text)
}

func (b *Bot) handleManualReminders(s *discordgo.Session, i *discordgo.InteractionCreate) {
	sum, err := b.scheduler.SendManualReminders(context.Background())
	if err != nil {
		slog.Error("Manual reminder sweep failed", "error", err)
		b.respondEphemeral(s, i, "Error: could not send reminders right now.")
		return
	}
	b.respondEphemeral(s, i, reminderSummaryContent(sum))
}

func (b *Bot) handleSplit(s *discordgo.Session, i *discordgo.InteractionCreate, text string) {
	parsed, err := command.Parse(text)
	if err != nil {
		b.respondEphemeral(s, i, fmt.Sprintf("Error: %v", err))
		return
	}
	if parsed.Total == nil {
		b.respondEphemeral(s, i, "Error: Total amount is required")
		return
	}
	if len(parsed.Payers) == 0 {
		b.respondEphemeral(s, i, "Error: At least one payer is required")
		return
	}
	if len(parsed.Attendees) == 0 {
		b.respondEphemeral(s, i, "Error: At least one attendee is required")
		return
	}

	expense, err := b.service.CreateExpense(context.Background(), service.CreateParams{
		TotalAmount: *parsed.Total,
		Payments:    parsed.Payments(),
		Attendees:   parsed.Attendees,
		Description: parsed.Description,
		ChannelID:   i.ChannelID,
		CreatedBy:   interactionUserID(i),
	})
	if err != nil {
		slog.Warn("Failed to create expense", "error", err)
		b.respondEphemeral(s, i, fmt.Sprintf("Error: %v", err))
		return
	}

	// The channel summary and debtor DMs go out through the notifier;
	// the interaction itself just gets a quiet acknowledgement.
	b.respondEphemeral(s, i, fmt.Sprintf(
		"Created *%s*: total %s split %d ways.",
		expense.Description, formatMoney(expense.TotalAmount), len(expense.Attendees),
	))
}

func (b *Bot) handleComponent(s *discordgo.Session, i *discordgo.InteractionCreate) {
	customID := i.MessageComponentData().CustomID
	expenseID, debtorID, payerID, ok := parseCallback(customID)
	if !ok {
		return
	}

	// The button lives in the debtor's DM, but the identity check keeps a
	// forwarded message from confirming someone else's debt.
	if userID := interactionUserID(i); userID != debtorID {
		b.respondEphemeral(s, i, "Only the debtor can confirm this payment.")
		return
	}

	expense, confirmed, err := b.service.ConfirmPayment(context.Background(), expenseID, debtorID, payerID)
	if err != nil {
		slog.Error("Failed to confirm payment", "expense_id", expenseID, "error", err)
		b.respondEphemeral(s, i, "Error: could not confirm the payment right now.")
		return
	}
	if !confirmed {
		b.respondEphemeral(s, i, "This debt is already settled.")
		return
	}

	debt := expense.FindDebt(debtorID, payerID)
	if debt == nil {
		return
	}

	// Replace the DM prompt with a thank-you and drop the button.
	err = s.InteractionRespond(i.Interaction, &discordgo.InteractionResponse{
		Type: discordgo.InteractionResponseUpdateMessage,
		Data: &discordgo.InteractionResponseData{
			Content:    paidAckContent(expense, *debt),
			Components: []discordgo.MessageComponent{},
		},
	})
	if err != nil {
		slog.Warn("Failed to update confirmation message", "error", err)
	}
}

func (b *Bot) respondEphemeral(s *discordgo.Session, i *discordgo.InteractionCreate, content string) {
	err := s.InteractionRespond(i.Interaction, &discordgo.InteractionResponse{
		Type: discordgo.InteractionResponseChannelMessageWithSource,
		Data: &discordgo.InteractionResponseData{
			Content: content,
			Flags:   discordgo.MessageFlagsEphemeral,
		},
	})
	if err != nil {
		slog.Warn("Failed to respond to interaction", "error", err)
	}
}

// interactionUserID returns the acting user's ID for both guild and DM
// interactions.
func interactionUserID(i *discordgo.InteractionCreate) string {
	if i.Member != nil && i.Member.User != nil {
		return i.Member.User.ID
	}
	if i.User != nil {
		return i.User.ID
	}
	return ""
}
