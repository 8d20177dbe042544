package notify

import (
	"testing"

	"github.com/shopspring/decimal"
)

func TestSavingsUpdatedMessage(t *testing.T) {
	msg := NewSavingsUpdatedMessage(7, 3, 2024, decimal.RequireFromString("1250.50"))
	if msg.ID == "" {
		t.Fatal("expected message id to be set")
	}
	if msg.Type != SavingsUpdatedType {
		t.Errorf("expected type %q, got %q", SavingsUpdatedType, msg.Type)
	}

	body, err := msg.ToJSON()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	decoded, err := SavingsUpdatedMessageFromJSON(body)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if decoded.UserID != 7 || decoded.Month != 3 || decoded.Year != 2024 {
		t.Errorf("unexpected period in %+v", decoded)
	}
	if !decoded.Amount.Equal(msg.Amount) {
		t.Errorf("expected amount %s, got %s", msg.Amount, decoded.Amount)
	}
}

func TestNoop(t *testing.T) {
	var n SavingsNotifier = Noop{}
	if err := n.SavingsUpdated(1, 1, 2024, decimal.Zero); err != nil {
		t.Errorf("expected nil, got %v", err)
	}
}
