package amqp

import (
	"encoding/json"
	"time"

	"reimburse/internal/core"
)

// TransactionImportedMessage announces one reconciled input row.
type TransactionImportedMessage struct {
	RunID         string    `json:"run_id"`
	Ref           string    `json:"ref"`
	TransactionID int64     `json:"transaction_id"`
	Account       string    `json:"account"`
	Row           int       `json:"row"`
	Outcome       string    `json:"outcome"`
	Party         string    `json:"party,omitempty"`
	Amount        string    `json:"amount"`
	Timestamp     time.Time `json:"timestamp"`
}

// NewTransactionImportedMessage builds the message for an import event.
func NewTransactionImportedMessage(runID string, e core.ImportEvent) *TransactionImportedMessage {
	return &TransactionImportedMessage{
		RunID:         runID,
		Ref:           e.Ref.String(),
		TransactionID: e.TransactionID,
		Account:       e.Account,
		Row:           e.Row,
		Outcome:       string(e.Outcome),
		Party:         e.Party,
		Amount:        e.Amount.String(),
		Timestamp:     time.Now().UTC(),
	}
}

// ToJSON converts the message to JSON bytes
func (m *TransactionImportedMessage) ToJSON() ([]byte, error) {
	return json.Marshal(m)
}

// TransactionImportedMessageFromJSON creates a message from JSON bytes
func TransactionImportedMessageFromJSON(data []byte) (*TransactionImportedMessage, error) {
	var msg TransactionImportedMessage
	if err := json.Unmarshal(data, &msg); err != nil {
		return nil, err
	}
	return &msg, nil
}
