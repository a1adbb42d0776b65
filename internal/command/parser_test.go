package command

import (
	"errors"
	"reflect"
	"testing"

	"github.com/mmynk/splitbot/internal/models"
)

func TestParseSinglePayer(t *testing.T) {
	parsed, err := Parse("total 100000 paid_by <@1001> attendees <@1001> <@1002> <@1003> note Friday drinks 🍻")
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}

	if parsed.Total == nil || *parsed.Total != 10000000 {
		t.Errorf("Total = %v, want 100000.00", parsed.Total)
	}

	// A lone payer with no amount paid the whole total.
	want := []Payer{{ID: "1001", Amount: 10000000}}
	if !reflect.DeepEqual(parsed.Payers, want) {
		t.Errorf("Payers = %+v, want %+v", parsed.Payers, want)
	}

	if !reflect.DeepEqual(parsed.Attendees, []string{"1001", "1002", "1003"}) {
		t.Errorf("Attendees = %v", parsed.Attendees)
	}
	if parsed.Description != "Friday drinks 🍻" {
		t.Errorf("Description = %q", parsed.Description)
	}
}

func TestParseMultiplePayers(t *testing.T) {
	parsed, err := Parse("total 100000 paid_by <@1001> 50000 <@1002> 50000 attendees <@1001> <@1002> <@1003> note Friday drinks")
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}

	want := []Payer{
		{ID: "1001", Amount: 5000000},
		{ID: "1002", Amount: 5000000},
	}
	if !reflect.DeepEqual(parsed.Payers, want) {
		t.Errorf("Payers = %+v, want %+v", parsed.Payers, want)
	}
	if len(parsed.Attendees) != 3 {
		t.Errorf("Attendees = %v, want 3 entries", parsed.Attendees)
	}
}

func TestParseDecimalAmounts(t *testing.T) {
	parsed, err := Parse("total 45.50 paid_by <@1001> 30.25 <@1002> 15.25 attendees <@1001> <@1002>")
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}
	if parsed.Total == nil || *parsed.Total != 4550 {
		t.Errorf("Total = %v, want 4550 cents", parsed.Total)
	}
	if parsed.Payers[0].Amount != 3025 || parsed.Payers[1].Amount != 1525 {
		t.Errorf("Payers = %+v", parsed.Payers)
	}
	if parsed.Description != DefaultDescription {
		t.Errorf("Description = %q, want default", parsed.Description)
	}
}

func TestParsePayerSumMismatch(t *testing.T) {
	_, err := Parse("total 100 paid_by <@1001> 60 <@1002> 60 attendees <@1001> <@1002>")
	if !errors.Is(err, ErrPayerSumMismatch) {
		t.Fatalf("Parse error = %v, want ErrPayerSumMismatch", err)
	}
}

func TestParseMissingSections(t *testing.T) {
	tests := []struct {
		name string
		text string
		want func(t *testing.T, p *ParsedCommand)
	}{
		{
			name: "no total",
			text: "paid_by <@1001> attendees <@1001> <@1002>",
			want: func(t *testing.T, p *ParsedCommand) {
				if p.Total != nil {
					t.Errorf("Total = %v, want nil", p.Total)
				}
				// Without a total the lone-payer shortcut cannot apply.
				if len(p.Payers) != 0 {
					t.Errorf("Payers = %+v, want none", p.Payers)
				}
			},
		},
		{
			name: "no payers",
			text: "total 100 attendees <@1001> <@1002>",
			want: func(t *testing.T, p *ParsedCommand) {
				if len(p.Payers) != 0 {
					t.Errorf("Payers = %+v, want none", p.Payers)
				}
			},
		},
		{
			name: "no attendees",
			text: "total 100 paid_by <@1001>",
			want: func(t *testing.T, p *ParsedCommand) {
				if len(p.Attendees) != 0 {
					t.Errorf("Attendees = %v, want none", p.Attendees)
				}
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			parsed, err := Parse(tt.text)
			if err != nil {
				t.Fatalf("Parse failed: %v", err)
			}
			tt.want(t, parsed)
		})
	}
}

func TestParseNicknameMentions(t *testing.T) {
	// The platform renders nickname mentions as <@!id>.
	parsed, err := Parse("total 60 paid_by <@!1001> attendees <@!1001> <@1002>")
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}
	if len(parsed.Payers) != 1 || parsed.Payers[0].ID != "1001" {
		t.Errorf("Payers = %+v", parsed.Payers)
	}
	if !reflect.DeepEqual(parsed.Attendees, []string{"1001", "1002"}) {
		t.Errorf("Attendees = %v", parsed.Attendees)
	}
}

func TestExtractUserIDs(t *testing.T) {
	ids := ExtractUserIDs("Hello <@1001> and <@!1002>!")
	if !reflect.DeepEqual(ids, []string{"1001", "1002"}) {
		t.Errorf("ExtractUserIDs = %v", ids)
	}
}

func TestPayments(t *testing.T) {
	parsed := &ParsedCommand{Payers: []Payer{{ID: "1001", Amount: 500}, {ID: "1002", Amount: 700}}}
	payments := parsed.Payments()
	want := []models.Payment{
		{PayerID: "1001", Amount: 500},
		{PayerID: "1002", Amount: 700},
	}
	if !reflect.DeepEqual(payments, want) {
		t.Errorf("Payments() = %+v, want %+v", payments, want)
	}
}
