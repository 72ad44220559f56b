package amqp

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// KindSavingsOpportunity marks alerts raised by spike detection. Insight
// alerts carry the insight type (increase, decrease, new_spending,
// no_spending) instead.
const KindSavingsOpportunity = "savings_opportunity"

// SpendingAlertMessage is published once per noteworthy finding of an
// analysis run. It is self-contained; consumers do not need access to
// the transaction source to render it.
type SpendingAlertMessage struct {
	WorkspaceID uuid.UUID       `json:"workspace_id"`
	Month       string          `json:"month"`
	Kind        string          `json:"kind"`
	CategoryID  int64           `json:"category_id"`
	Category    string          `json:"category"`
	Amount      decimal.Decimal `json:"amount"`
	Message     string          `json:"message"`
	Timestamp   time.Time       `json:"timestamp"`
}

// NewSpendingAlertMessage creates an alert message stamped with the
// current time.
func NewSpendingAlertMessage(workspaceID uuid.UUID, month, kind string, categoryID int64, category string, amount decimal.Decimal, message string) *SpendingAlertMessage {
	return &SpendingAlertMessage{
		WorkspaceID: workspaceID,
		Month:       month,
		Kind:        kind,
		CategoryID:  categoryID,
		Category:    category,
		Amount:      amount,
		Message:     message,
		Timestamp:   time.Now(),
	}
}

// DedupKey identifies the alert for suppression purposes: one alert per
// workspace, category, month and kind.
func (m *SpendingAlertMessage) DedupKey() string {
	return fmt.Sprintf("%s|%d|%s|%s", m.WorkspaceID, m.CategoryID, m.Month, m.Kind)
}

// ToJSON converts the message to JSON bytes
func (m *SpendingAlertMessage) ToJSON() ([]byte, error) {
	return json.Marshal(m)
}

// SpendingAlertMessageFromJSON creates a message from JSON bytes
func SpendingAlertMessageFromJSON(data []byte) (*SpendingAlertMessage, error) {
	var msg SpendingAlertMessage
	if err := json.Unmarshal(data, &msg); err != nil {
		return nil, err
	}
	return &msg, nil
}
