package amqp

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"reimburse/internal/core"
)

func TestNewTransactionImportedMessage(t *testing.T) {
	e := core.ImportEvent{
		Ref:           core.TransactionRef("Checking", 4),
		TransactionID: 12,
		Account:       "Checking",
		Row:           4,
		Outcome:       core.OutcomeUpdated,
		Party:         "Bob",
		Amount:        decimal.RequireFromString("-50.00"),
	}

	msg := NewTransactionImportedMessage("run-1", e)
	body, err := msg.ToJSON()
	require.NoError(t, err)
	assert.Contains(t, string(body), `"outcome":"updated"`)
	assert.Contains(t, string(body), `"amount":"-50"`)

	decoded, err := TransactionImportedMessageFromJSON(body)
	require.NoError(t, err)
	assert.Equal(t, "run-1", decoded.RunID)
	assert.Equal(t, e.Ref.String(), decoded.Ref)
	assert.Equal(t, "Bob", decoded.Party)
	assert.Equal(t, 4, decoded.Row)
}

func TestNewTransactionImportedMessage_OmitsEmptyParty(t *testing.T) {
	body, err := NewTransactionImportedMessage("run", core.ImportEvent{Outcome: core.OutcomeCreated}).ToJSON()
	require.NoError(t, err)
	assert.NotContains(t, string(body), `"party"`)
}

func TestTransactionImportedMessageFromJSON_Invalid(t *testing.T) {
	_, err := TransactionImportedMessageFromJSON([]byte("{"))
	assert.Error(t, err)
}
