// Package notify publishes savings changes to interested consumers
// outside the API process.
package notify

import (
	"encoding/json"
	"time"

	"budgettracker/internal/uuid"

	"github.com/shopspring/decimal"
)

// SavingsUpdatedType is the message type of a savings change.
const SavingsUpdatedType = "savings.updated"

// SavingsNotifier receives the new savings figure after each reconcile.
type SavingsNotifier interface {
	SavingsUpdated(userID uint, month, year int, amount decimal.Decimal) error
}

// SavingsUpdatedMessage is the JSON body published for a savings change.
type SavingsUpdatedMessage struct {
	ID         string          `json:"id"`
	Type       string          `json:"type"`
	UserID     uint            `json:"user_id"`
	Month      int             `json:"month"`
	Year       int             `json:"year"`
	Amount     decimal.Decimal `json:"amount"`
	OccurredAt time.Time       `json:"occurred_at"`
}

// NewSavingsUpdatedMessage stamps a new message with a fresh id.
func NewSavingsUpdatedMessage(userID uint, month, year int, amount decimal.Decimal) *SavingsUpdatedMessage {
	return &SavingsUpdatedMessage{
		ID:         uuid.New(),
		Type:       SavingsUpdatedType,
		UserID:     userID,
		Month:      month,
		Year:       year,
		Amount:     amount,
		OccurredAt: time.Now().UTC(),
	}
}

// ToJSON encodes the message body.
func (m *SavingsUpdatedMessage) ToJSON() ([]byte, error) {
	return json.Marshal(m)
}

// SavingsUpdatedMessageFromJSON decodes a message body.
func SavingsUpdatedMessageFromJSON(data []byte) (*SavingsUpdatedMessage, error) {
	var m SavingsUpdatedMessage
	if err := json.Unmarshal(data, &m); err != nil {
		return nil, err
	}
	return &m, nil
}

// Noop discards every notification. It is used when no broker is configured.
type Noop struct{}

// SavingsUpdated implements SavingsNotifier.
func (Noop) SavingsUpdated(uint, int, int, decimal.Decimal) error { return nil }
