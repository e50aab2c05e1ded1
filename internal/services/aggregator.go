package services

import (
	"context"
	"fmt"
	"log/slog"
	"slices"
	"strings"

	"github.com/shopspring/decimal"

	"reimburse/internal/core"
	applog "reimburse/internal/log"
)

// LedgerReader is the read side of storage the aggregator depends on.
type LedgerReader interface {
	ListAccounts(ctx context.Context) ([]core.Account, error)
	ListParties(ctx context.Context) ([]core.Party, error)
	ListTransactions(ctx context.Context) ([]core.Transaction, error)
}

// Aggregator computes weighted totals by party, account and category.
type Aggregator struct {
	ledger LedgerReader
	rules  *core.PercentRules
	logger *slog.Logger
}

func NewAggregator(ledger LedgerReader, rules *core.PercentRules, logger *slog.Logger) *Aggregator {
	if rules == nil {
		rules = core.DefaultPercentRules()
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Aggregator{ledger: ledger, rules: rules, logger: logger}
}

// categoryTotals maps category name to summed weighted amount.
type categoryTotals map[string]decimal.Decimal

func (c categoryTotals) add(category string, weighted decimal.Decimal) {
	c[category] = c[category].Add(weighted)
}

// Summarize reads every persisted transaction and returns the nested totals.
// Parties come by ascending weight then name, accounts in creation order and
// categories by name. Transactions without a party are left out.
func (a *Aggregator) Summarize(ctx context.Context) (core.Summary, error) {
	accounts, err := a.ledger.ListAccounts(ctx)
	if err != nil {
		return core.Summary{}, fmt.Errorf("aggregate: %w", err)
	}
	parties, err := a.ledger.ListParties(ctx)
	if err != nil {
		return core.Summary{}, fmt.Errorf("aggregate: %w", err)
	}
	txns, err := a.ledger.ListTransactions(ctx)
	if err != nil {
		return core.Summary{}, fmt.Errorf("aggregate: %w", err)
	}

	type key struct{ party, account int64 }
	byPair := make(map[key]categoryTotals)
	byParty := make(map[int64]categoryTotals)
	skipped := 0

	for _, t := range txns {
		if t.PartyID == 0 {
			skipped++
			continue
		}
		weighted := a.rules.Weighted(t.Category, t.Amount)

		k := key{t.PartyID, t.AccountID}
		if byPair[k] == nil {
			byPair[k] = categoryTotals{}
		}
		byPair[k].add(t.Category, weighted)

		if byParty[t.PartyID] == nil {
			byParty[t.PartyID] = categoryTotals{}
		}
		byParty[t.PartyID].add(t.Category, weighted)
	}

	slices.SortStableFunc(parties, func(x, y core.Party) int {
		if x.Weight != y.Weight {
			return x.Weight - y.Weight
		}
		return strings.Compare(x.Name, y.Name)
	})
	slices.SortStableFunc(accounts, func(x, y core.Account) int {
		switch {
		case x.ID < y.ID:
			return -1
		case x.ID > y.ID:
			return 1
		}
		return 0
	})

	summary := core.Summary{Accounts: accounts}
	for _, p := range parties {
		ps := core.PartySummary{
			Party:      p,
			GrandTotal: a.block("Total "+p.Name, byParty[p.ID]),
		}
		for _, acc := range accounts {
			ps.ByAccount = append(ps.ByAccount, core.AccountBlock{
				Account: acc,
				Block:   a.block(acc.Name, byPair[key{p.ID, acc.ID}]),
			})
		}
		summary.Parties = append(summary.Parties, ps)
	}

	a.logger.DebugContext(ctx, "Aggregation completed",
		applog.FieldOperation, applog.OpAggregate,
		"parties", len(summary.Parties),
		"accounts", len(accounts),
		"transactions", len(txns),
		"unassigned", skipped)

	return summary, nil
}

// block turns raw totals into a labelled block, dropping zero categories.
func (a *Aggregator) block(label string, totals categoryTotals) core.Block {
	b := core.Block{Label: label, Total: decimal.Zero}
	names := make([]string, 0, len(totals))
	for name, amount := range totals {
		if amount.IsZero() {
			continue
		}
		names = append(names, name)
	}
	slices.Sort(names)

	for _, name := range names {
		amount := totals[name]
		b.ByCategory = append(b.ByCategory, core.CategoryAmount{
			Name:    name,
			Label:   a.rules.Label(name),
			Percent: a.rules.Percent(name),
			Amount:  amount,
		})
		b.Total = b.Total.Add(amount)
	}
	return b
}
