package core

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Outcome of reconciling one input row.
type Outcome string

const (
	OutcomeCreated   Outcome = "created"
	OutcomeUpdated   Outcome = "updated"
	OutcomeUnchanged Outcome = "unchanged"
)

// ImportEvent is the progress notification emitted for each imported row.
type ImportEvent struct {
	Ref           uuid.UUID
	TransactionID int64
	Account       string
	Row           int
	Outcome       Outcome
	Party         string
	Amount        decimal.Decimal
}
