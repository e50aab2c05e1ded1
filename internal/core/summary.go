package core

import "github.com/shopspring/decimal"

// CategoryAmount represents a weighted amount aggregated by category name.
type CategoryAmount struct {
	Name    string
	Label   string // Name plus the percentage suffix for partially reimbursable categories
	Percent decimal.Decimal
	Amount  decimal.Decimal
}

// Block is one group of category totals: a (party, account) pair or a party's grand total.
type Block struct {
	Label      string
	Total      decimal.Decimal
	ByCategory []CategoryAmount
}

// PartySummary holds a party's per-account blocks, in account creation order, and its grand total.
type PartySummary struct {
	Party      Party
	ByAccount  []AccountBlock
	GrandTotal Block
}

type AccountBlock struct {
	Account Account
	Block
}

// Summary is the full aggregation, parties ordered by weight.
type Summary struct {
	Accounts []Account
	Parties  []PartySummary
}
