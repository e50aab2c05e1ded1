package core

import (
	"errors"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

const (
	Debit  TxnType = "debit"
	Credit TxnType = "credit"
)

const (
	// NonExpensable is the party assigned to outgoing transactions without an explicit party.
	NonExpensable       = "Non-Expensable"
	NonExpensableWeight = 100
)

type (
	TxnType string

	Account struct {
		ID   int64
		Name string
	}

	Category struct {
		ID   int64
		Name string
	}

	// Party is the reimbursable party a transaction's share is attributed to.
	Party struct {
		ID     int64
		Name   string
		Weight int
	}

	Transaction struct {
		ID         int64
		Ref        uuid.UUID
		AccountID  int64
		Account    string
		CategoryID int64
		Category   string
		PartyID    int64  // 0 when unassigned
		Party      string // empty when unassigned
		Amount     decimal.Decimal
		Row        int
		Date       *time.Time
	}
)

var (
	ErrInvalidAmount = errors.New("invalid amount")
	ErrEmptyName     = errors.New("empty name")
)

// refNamespace seeds the UUIDv5 transaction references.
var refNamespace = uuid.MustParse("5f0c2a4e-8a43-4c1f-9a3e-6d2b1c7e9f10")

// TransactionRef returns the stable reference of the transaction imported from row of account.
func TransactionRef(account string, row int) uuid.UUID {
	return uuid.NewSHA1(refNamespace, []byte(account+"\x00"+strconv.Itoa(row)))
}

// NormalizePartyName title-cases a party label so "alice" and "ALICE" resolve to "Alice".
func NormalizePartyName(label string) string {
	return cases.Title(language.Und).String(strings.TrimSpace(label))
}

// ParseTxnType lower-cases and trims a type cell. Unknown values are returned as-is.
func ParseTxnType(s string) TxnType {
	return TxnType(strings.ToLower(strings.TrimSpace(s)))
}

// SignedAmount applies sign normalisation: credits are negated, anything else is kept.
func (t TxnType) SignedAmount(amount decimal.Decimal) decimal.Decimal {
	if t == Credit {
		return amount.Neg()
	}
	return amount
}

// Sentinel reports whether the party is the non-expensable sentinel.
func (p Party) Sentinel() bool {
	return p.Name == NonExpensable
}

func (p Party) Validate() error {
	if strings.TrimSpace(p.Name) == "" {
		return ErrEmptyName
	}
	return nil
}
