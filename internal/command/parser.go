// Package command parses the split command text into a validated request.
//
// The grammar is keyword-sectioned:
//
//	total <amount> paid_by <@id> [amount] ... attendees <@id> ... note <text>
//
// Amounts are decimal ("1200" or "33.50"). Mentions use the chat platform's
// <@123456789> syntax. The sections may appear in any order; the first
// occurrence of each keyword wins.
package command

import (
	"errors"
	"fmt"
	"regexp"
	"strings"

	"github.com/mmynk/splitbot/internal/models"
)

// DefaultDescription is used when the command has no note section.
const DefaultDescription = "Expense"

// ErrPayerSumMismatch is returned when explicit payer amounts do not add up
// to the total.
var ErrPayerSumMismatch = errors.New("payer amounts do not add up to the total")

// Payer is one "<@id> [amount]" entry from the paid_by section.
type Payer struct {
	ID     string
	Amount models.Money
}

// ParsedCommand is the validated tuple the expense service consumes.
// Total is nil when the command carried no total section; the boundary
// rejects that before anything reaches the service.
type ParsedCommand struct {
	Total       *models.Money
	Payers      []Payer
	Attendees   []string
	Description string
}

var (
	sectionRe = regexp.MustCompile(`\b(total|paid_by|attendees|note)\b`)
	amountRe  = regexp.MustCompile(`\d+(?:\.\d+)?`)
	payerRe   = regexp.MustCompile(`<@!?(\d+)>\s*(\d+(?:\.\d+)?)?`)
	mentionRe = regexp.MustCompile(`<@!?(\d+)>`)
)

// Parse splits the command text into sections and extracts the expense
// request. A single payer with no explicit amount is treated as having paid
// the entire total; with multiple payers every amount must be explicit and
// their sum must match the total exactly.
func Parse(text string) (*ParsedCommand, error) {
	parsed := &ParsedCommand{Description: DefaultDescription}

	for keyword, body := range sections(text) {
		switch keyword {
		case "total":
			m := amountRe.FindString(body)
			if m == "" {
				continue
			}
			total, err := models.ParseMoney(m)
			if err != nil {
				return nil, fmt.Errorf("total: %w", err)
			}
			parsed.Total = &total
		case "attendees":
			for _, match := range mentionRe.FindAllStringSubmatch(body, -1) {
				parsed.Attendees = append(parsed.Attendees, match[1])
			}
		case "note":
			if note := strings.TrimSpace(body); note != "" {
				parsed.Description = note
			}
		}
	}

	// paid_by is parsed after total so the single-payer shortcut can see it.
	if body, ok := sections(text)["paid_by"]; ok {
		if err := parsePayers(parsed, body); err != nil {
			return nil, err
		}
	}

	return parsed, nil
}

func parsePayers(parsed *ParsedCommand, body string) error {
	matches := payerRe.FindAllStringSubmatch(body, -1)

	// A lone payer with no amount implicitly paid the whole total.
	if len(matches) == 1 && matches[0][2] == "" {
		if parsed.Total != nil {
			parsed.Payers = append(parsed.Payers, Payer{ID: matches[0][1], Amount: *parsed.Total})
		}
		return nil
	}

	var sum models.Money
	for _, match := range matches {
		if match[2] == "" {
			continue
		}
		amount, err := models.ParseMoney(match[2])
		if err != nil {
			return fmt.Errorf("paid_by: %w", err)
		}
		parsed.Payers = append(parsed.Payers, Payer{ID: match[1], Amount: amount})
		sum += amount
	}

	if len(parsed.Payers) > 0 && parsed.Total != nil && sum != *parsed.Total {
		return fmt.Errorf("%w: paid %s, total %s", ErrPayerSumMismatch, sum, *parsed.Total)
	}
	return nil
}

// sections splits the command text by keyword. Each section runs from the
// end of its keyword to the start of the next one; the first occurrence of
// a keyword wins.
func sections(text string) map[string]string {
	locs := sectionRe.FindAllStringSubmatchIndex(text, -1)
	result := make(map[string]string, len(locs))
	for i, loc := range locs {
		keyword := text[loc[2]:loc[3]]
		if _, seen := result[keyword]; seen {
			continue
		}
		end := len(text)
		if i+1 < len(locs) {
			end = locs[i+1][0]
		}
		result[keyword] = strings.TrimSpace(text[loc[1]:end])
	}
	return result
}

// ExtractUserIDs returns every user mentioned in the text, in order.
func ExtractUserIDs(text string) []string {
	var ids []string
	for _, match := range mentionRe.FindAllStringSubmatch(text, -1) {
		ids = append(ids, match[1])
	}
	return ids
}

// Payments converts the parsed payers into payment records for settlement.
func (p *ParsedCommand) Payments() []models.Payment {
	payments := make([]models.Payment, len(p.Payers))
	for i, payer := range p.Payers {
		payments[i] = models.Payment{PayerID: payer.ID, Amount: payer.Amount}
	}
	return payments
}
