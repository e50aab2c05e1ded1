package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"reimburse/internal/cache"
	"reimburse/internal/core"

	_ "modernc.org/sqlite"
)

// ErrNotFound is returned when a lookup by key matches no record.
var ErrNotFound = errors.New("not found")

const (
	dateLayout   = "2006-01-02"
	lookupMemory = 1024
)

type SQLiteRepository struct {
	db      *sql.DB
	queries *Queries
}

func NewSQLiteRepository(dbPath string) (*SQLiteRepository, error) {
	if err := os.MkdirAll(filepath.Dir(dbPath), 0755); err != nil {
		return nil, fmt.Errorf("create db directory: %w", err)
	}

	db, err := sql.Open("sqlite", dbPath+"?_pragma=foreign_keys(1)&_pragma=busy_timeout(5000)")
	if err != nil {
		return nil, fmt.Errorf("open sqlite database: %w", err)
	}
	// One connection keeps the import transaction and its reads on the same handle.
	db.SetMaxOpenConns(1)

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	if err := RunMigrations(dbPath); err != nil {
		db.Close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}

	return &SQLiteRepository{
		db:      db,
		queries: New(db),
	}, nil
}

func (r *SQLiteRepository) Close() error {
	if r.db != nil {
		return r.db.Close()
	}
	return nil
}

// WithinTx runs fn as one atomic unit of work. The transaction commits only
// when fn returns nil; any error or panic rolls back everything fn wrote.
func (r *SQLiteRepository) WithinTx(ctx context.Context, fn func(*Tx) error) (err error) {
	sqlTx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}

	defer func() {
		if p := recover(); p != nil {
			_ = sqlTx.Rollback()
			panic(p)
		}
		if err != nil {
			if rbErr := sqlTx.Rollback(); rbErr != nil {
				slog.ErrorContext(ctx, "Rollback failed", "error", rbErr)
			}
		}
	}()

	tx := newTx(r.queries.WithTx(sqlTx))
	if err = fn(tx); err != nil {
		return err
	}
	if err = sqlTx.Commit(); err != nil {
		return fmt.Errorf("commit transaction: %w", err)
	}
	slog.DebugContext(ctx, "Transaction committed",
		"accounts", tx.accounts.Size(),
		"categories", tx.categories.Size(),
		"parties", tx.parties.Size())
	return nil
}

// Tx exposes the record operations available inside a unit of work.
// Natural-key lookups are memoised for the lifetime of the transaction.
type Tx struct {
	q          *Queries
	accounts   *cache.LRUCache[core.Account]
	categories *cache.LRUCache[core.Category]
	parties    *cache.LRUCache[core.Party]
}

func newTx(q *Queries) *Tx {
	return &Tx{
		q:          q,
		accounts:   cache.NewLRUCache[core.Account](lookupMemory),
		categories: cache.NewLRUCache[core.Category](lookupMemory),
		parties:    cache.NewLRUCache[core.Party](lookupMemory),
	}
}

// GetOrCreateAccount fetches the account by name, inserting it on first reference.
func (t *Tx) GetOrCreateAccount(ctx context.Context, name string) (core.Account, error) {
	if a, ok := t.accounts.Get(name); ok {
		return a, nil
	}
	row, err := t.q.GetAccountByName(ctx, name)
	if errors.Is(err, sql.ErrNoRows) {
		row, err = t.q.CreateAccount(ctx, name)
		if err == nil {
			slog.DebugContext(ctx, "Account created", "id", row.ID, "name", row.Name)
		}
	}
	if err != nil {
		return core.Account{}, fmt.Errorf("get or create account %q: %w", name, err)
	}
	a := core.Account{ID: row.ID, Name: row.Name}
	t.accounts.Set(name, a)
	return a, nil
}

// GetOrCreateCategory fetches the category by its verbatim name, inserting it on first reference.
func (t *Tx) GetOrCreateCategory(ctx context.Context, name string) (core.Category, error) {
	if c, ok := t.categories.Get(name); ok {
		return c, nil
	}
	row, err := t.q.GetCategoryByName(ctx, name)
	if errors.Is(err, sql.ErrNoRows) {
		row, err = t.q.CreateCategory(ctx, name)
		if err == nil {
			slog.DebugContext(ctx, "Category created", "id", row.ID, "name", row.Name)
		}
	}
	if err != nil {
		return core.Category{}, fmt.Errorf("get or create category %q: %w", name, err)
	}
	c := core.Category{ID: row.ID, Name: row.Name}
	t.categories.Set(name, c)
	return c, nil
}

// GetOrCreateParty fetches the party by name, inserting it with weight on first reference.
// The weight of an existing party is left unchanged.
func (t *Tx) GetOrCreateParty(ctx context.Context, name string, weight int) (core.Party, error) {
	if p, ok := t.parties.Get(name); ok {
		return p, nil
	}
	if err := (core.Party{Name: name}).Validate(); err != nil {
		return core.Party{}, err
	}
	row, err := t.q.GetPartyByName(ctx, name)
	if errors.Is(err, sql.ErrNoRows) {
		row, err = t.q.CreateParty(ctx, CreatePartyParams{Name: name, Weight: int64(weight)})
		if err == nil {
			slog.DebugContext(ctx, "Party created", "id", row.ID, "name", row.Name, "weight", row.Weight)
		}
	}
	if err != nil {
		return core.Party{}, fmt.Errorf("get or create party %q: %w", name, err)
	}
	p := partyFromRow(row)
	t.parties.Set(name, p)
	return p, nil
}

// FindTransaction looks up the transaction imported from row of the account.
// It returns ErrNotFound when the pair has not been imported yet.
func (t *Tx) FindTransaction(ctx context.Context, accountID int64, row int) (core.Transaction, error) {
	r, err := t.q.GetTransactionByAccountRow(ctx, GetTransactionByAccountRowParams{
		AccountID: accountID,
		RowNumber: int64(row),
	})
	if errors.Is(err, sql.ErrNoRows) {
		return core.Transaction{}, ErrNotFound
	}
	if err != nil {
		return core.Transaction{}, fmt.Errorf("find transaction %d/%d: %w", accountID, row, err)
	}
	return transactionFromRow(r)
}

// CreateTransaction inserts txn and returns it with its database ID set.
func (t *Tx) CreateTransaction(ctx context.Context, txn core.Transaction) (core.Transaction, error) {
	var date sql.NullString
	if txn.Date != nil {
		date = sql.NullString{String: txn.Date.Format(dateLayout), Valid: true}
	}
	id, err := t.q.CreateTransaction(ctx, CreateTransactionParams{
		Ref:        txn.Ref.String(),
		AccountID:  txn.AccountID,
		CategoryID: txn.CategoryID,
		PartyID:    nullID(txn.PartyID),
		Amount:     txn.Amount.String(),
		RowNumber:  int64(txn.Row),
		TxnDate:    date,
	})
	if err != nil {
		return core.Transaction{}, fmt.Errorf("create transaction %s row %d: %w", txn.Account, txn.Row, err)
	}
	txn.ID = id
	return txn, nil
}

// UpdateTransactionParty reassigns the transaction's party; a zero party clears it.
func (t *Tx) UpdateTransactionParty(ctx context.Context, id int64, party core.Party) error {
	err := t.q.UpdateTransactionParty(ctx, UpdateTransactionPartyParams{ID: id, PartyID: nullID(party.ID)})
	if err != nil {
		return fmt.Errorf("update transaction %d party: %w", id, err)
	}
	return nil
}

// ListAccounts returns accounts in creation order.
func (r *SQLiteRepository) ListAccounts(ctx context.Context) ([]core.Account, error) {
	rows, err := r.queries.ListAccounts(ctx)
	if err != nil {
		return nil, fmt.Errorf("list accounts: %w", err)
	}
	out := make([]core.Account, len(rows))
	for i, a := range rows {
		out[i] = core.Account{ID: a.ID, Name: a.Name}
	}
	return out, nil
}

// ListParties returns parties by ascending weight, then name.
func (r *SQLiteRepository) ListParties(ctx context.Context) ([]core.Party, error) {
	rows, err := r.queries.ListParties(ctx)
	if err != nil {
		return nil, fmt.Errorf("list parties: %w", err)
	}
	out := make([]core.Party, len(rows))
	for i, p := range rows {
		out[i] = partyFromRow(p)
	}
	return out, nil
}

// ListTransactions returns every transaction ordered by account and row.
func (r *SQLiteRepository) ListTransactions(ctx context.Context) ([]core.Transaction, error) {
	rows, err := r.queries.ListTransactions(ctx)
	if err != nil {
		return nil, fmt.Errorf("list transactions: %w", err)
	}
	out := make([]core.Transaction, 0, len(rows))
	for _, row := range rows {
		txn, err := transactionFromRow(row)
		if err != nil {
			return nil, err
		}
		out = append(out, txn)
	}
	return out, nil
}

// CountTransactions returns the number of persisted transactions.
func (r *SQLiteRepository) CountTransactions(ctx context.Context) (int64, error) {
	n, err := r.queries.CountTransactions(ctx)
	if err != nil {
		return 0, fmt.Errorf("count transactions: %w", err)
	}
	return n, nil
}

func partyFromRow(p Party) core.Party {
	return core.Party{ID: p.ID, Name: p.Name, Weight: int(p.Weight)}
}

func transactionFromRow(r TransactionRow) (core.Transaction, error) {
	amount, err := decimal.NewFromString(r.Amount)
	if err != nil {
		return core.Transaction{}, fmt.Errorf("transaction %d amount %q: %w", r.ID, r.Amount, err)
	}
	ref, err := uuid.Parse(r.Ref)
	if err != nil {
		return core.Transaction{}, fmt.Errorf("transaction %d ref %q: %w", r.ID, r.Ref, err)
	}
	txn := core.Transaction{
		ID:         r.ID,
		Ref:        ref,
		AccountID:  r.AccountID,
		Account:    r.AccountName,
		CategoryID: r.CategoryID,
		Category:   r.CategoryName,
		Amount:     amount,
		Row:        int(r.RowNumber),
	}
	if r.PartyID.Valid {
		txn.PartyID = r.PartyID.Int64
		txn.Party = r.PartyName.String
	}
	if r.TxnDate.Valid {
		if d, err := time.Parse(dateLayout, r.TxnDate.String); err == nil {
			txn.Date = &d
		}
	}
	return txn, nil
}

func nullID(id int64) sql.NullInt64 {
	return sql.NullInt64{Int64: id, Valid: id != 0}
}
