package storage

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"reimburse/internal/core"
)

func newTestRepo(t *testing.T) *SQLiteRepository {
	t.Helper()
	repo, err := NewSQLiteRepository(filepath.Join(t.TempDir(), "data", "test.db"))
	require.NoError(t, err)
	t.Cleanup(func() { repo.Close() })
	return repo
}

func TestNewSQLiteRepository_MigratesTwice(t *testing.T) {
	path := filepath.Join(t.TempDir(), "test.db")

	repo, err := NewSQLiteRepository(path)
	require.NoError(t, err)
	require.NoError(t, repo.Close())

	repo, err = NewSQLiteRepository(path)
	require.NoError(t, err)
	require.NoError(t, repo.Close())
}

func TestTx_GetOrCreateIsIdempotent(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()

	var first, second core.Party
	err := repo.WithinTx(ctx, func(tx *Tx) error {
		var err error
		first, err = tx.GetOrCreateParty(ctx, "Alice", 0)
		return err
	})
	require.NoError(t, err)

	err = repo.WithinTx(ctx, func(tx *Tx) error {
		var err error
		second, err = tx.GetOrCreateParty(ctx, "Alice", 7)
		if err != nil {
			return err
		}
		a1, err := tx.GetOrCreateAccount(ctx, "Checking")
		if err != nil {
			return err
		}
		a2, err := tx.GetOrCreateAccount(ctx, "Checking")
		if err != nil {
			return err
		}
		assert.Equal(t, a1, a2)
		c1, err := tx.GetOrCreateCategory(ctx, "Gas")
		if err != nil {
			return err
		}
		c2, err := tx.GetOrCreateCategory(ctx, "gas")
		if err != nil {
			return err
		}
		assert.NotEqual(t, c1.ID, c2.ID, "category names are not normalised")
		return nil
	})
	require.NoError(t, err)

	assert.Equal(t, first.ID, second.ID)
	assert.Equal(t, 0, second.Weight, "existing weight is kept")

	parties, err := repo.ListParties(ctx)
	require.NoError(t, err)
	assert.Len(t, parties, 1)
}

func TestTx_GetOrCreatePartyRejectsEmptyName(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()

	err := repo.WithinTx(ctx, func(tx *Tx) error {
		_, err := tx.GetOrCreateParty(ctx, "  ", 0)
		return err
	})
	assert.ErrorIs(t, err, core.ErrEmptyName)
}

func TestTx_TransactionLifecycle(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()
	date := time.Date(2024, 3, 5, 0, 0, 0, 0, time.UTC)

	var created core.Transaction
	err := repo.WithinTx(ctx, func(tx *Tx) error {
		acc, err := tx.GetOrCreateAccount(ctx, "Checking")
		if err != nil {
			return err
		}
		cat, err := tx.GetOrCreateCategory(ctx, "Gas")
		if err != nil {
			return err
		}
		party, err := tx.GetOrCreateParty(ctx, "Alice", 0)
		if err != nil {
			return err
		}

		_, err = tx.FindTransaction(ctx, acc.ID, 2)
		if !errors.Is(err, ErrNotFound) {
			t.Fatalf("expected ErrNotFound, got %v", err)
		}

		created, err = tx.CreateTransaction(ctx, core.Transaction{
			Ref:        core.TransactionRef(acc.Name, 2),
			AccountID:  acc.ID,
			Account:    acc.Name,
			CategoryID: cat.ID,
			Category:   cat.Name,
			PartyID:    party.ID,
			Party:      party.Name,
			Amount:     decimal.RequireFromString("-12.50"),
			Row:        2,
			Date:       &date,
		})
		if err != nil {
			return err
		}

		found, err := tx.FindTransaction(ctx, acc.ID, 2)
		if err != nil {
			return err
		}
		assert.Equal(t, created.ID, found.ID)
		assert.Equal(t, "Alice", found.Party)
		assert.Equal(t, "Gas", found.Category)
		assert.True(t, found.Amount.Equal(decimal.RequireFromString("-12.5")))
		require.NotNil(t, found.Date)
		assert.True(t, found.Date.Equal(date))

		return tx.UpdateTransactionParty(ctx, found.ID, core.Party{})
	})
	require.NoError(t, err)
	assert.NotZero(t, created.ID)

	txns, err := repo.ListTransactions(ctx)
	require.NoError(t, err)
	require.Len(t, txns, 1)
	assert.Equal(t, "", txns[0].Party)
	assert.Equal(t, int64(0), txns[0].PartyID)
	assert.Equal(t, created.Ref, txns[0].Ref)
}

func TestTx_DuplicateAccountRowRejected(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()

	err := repo.WithinTx(ctx, func(tx *Tx) error {
		acc, err := tx.GetOrCreateAccount(ctx, "Checking")
		if err != nil {
			return err
		}
		cat, err := tx.GetOrCreateCategory(ctx, "Gas")
		if err != nil {
			return err
		}
		txn := core.Transaction{AccountID: acc.ID, CategoryID: cat.ID, Amount: decimal.NewFromInt(1), Row: 2}
		txn.Ref = core.TransactionRef("Checking", 2)
		if _, err := tx.CreateTransaction(ctx, txn); err != nil {
			return err
		}
		txn.Ref = core.TransactionRef("Checking", 99)
		_, err = tx.CreateTransaction(ctx, txn)
		return err
	})
	require.Error(t, err)

	n, err := repo.CountTransactions(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(0), n, "failed unit of work must not leave rows behind")
}

func TestWithinTx_RollsBackOnError(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()
	boom := errors.New("boom")

	err := repo.WithinTx(ctx, func(tx *Tx) error {
		if _, err := tx.GetOrCreateAccount(ctx, "Checking"); err != nil {
			return err
		}
		return boom
	})
	assert.ErrorIs(t, err, boom)

	accounts, err := repo.ListAccounts(ctx)
	require.NoError(t, err)
	assert.Empty(t, accounts)
}

func TestListParties_OrderedByWeight(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()

	err := repo.WithinTx(ctx, func(tx *Tx) error {
		for _, p := range []struct {
			name   string
			weight int
		}{{core.NonExpensable, core.NonExpensableWeight}, {"Zoe", 0}, {"Bob", 0}} {
			if _, err := tx.GetOrCreateParty(ctx, p.name, p.weight); err != nil {
				return err
			}
		}
		return nil
	})
	require.NoError(t, err)

	parties, err := repo.ListParties(ctx)
	require.NoError(t, err)
	require.Len(t, parties, 3)
	assert.Equal(t, []string{"Bob", "Zoe", core.NonExpensable}, []string{parties[0].Name, parties[1].Name, parties[2].Name})
}
