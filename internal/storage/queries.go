package storage

import (
	"context"
	"database/sql"
)

type DBTX interface {
	ExecContext(context.Context, string, ...interface{}) (sql.Result, error)
	QueryContext(context.Context, string, ...interface{}) (*sql.Rows, error)
	QueryRowContext(context.Context, string, ...interface{}) *sql.Row
}

func New(db DBTX) *Queries {
	return &Queries{db: db}
}

type Queries struct {
	db DBTX
}

func (q *Queries) WithTx(tx *sql.Tx) *Queries {
	return &Queries{db: tx}
}

type Account struct {
	ID   int64
	Name string
}

type Category struct {
	ID   int64
	Name string
}

type Party struct {
	ID     int64
	Name   string
	Weight int64
}

type Transaction struct {
	ID         int64
	Ref        string
	AccountID  int64
	CategoryID int64
	PartyID    sql.NullInt64
	Amount     string
	RowNumber  int64
	TxnDate    sql.NullString
}

const getAccountByName = `SELECT id, name FROM accounts WHERE name = ?`

func (q *Queries) GetAccountByName(ctx context.Context, name string) (Account, error) {
	var i Account
	err := q.db.QueryRowContext(ctx, getAccountByName, name).Scan(&i.ID, &i.Name)
	return i, err
}

const createAccount = `INSERT INTO accounts (name) VALUES (?) RETURNING id, name`

func (q *Queries) CreateAccount(ctx context.Context, name string) (Account, error) {
	var i Account
	err := q.db.QueryRowContext(ctx, createAccount, name).Scan(&i.ID, &i.Name)
	return i, err
}

const listAccounts = `SELECT id, name FROM accounts ORDER BY id`

func (q *Queries) ListAccounts(ctx context.Context) ([]Account, error) {
	rows, err := q.db.QueryContext(ctx, listAccounts)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var items []Account
	for rows.Next() {
		var i Account
		if err := rows.Scan(&i.ID, &i.Name); err != nil {
			return nil, err
		}
		items = append(items, i)
	}
	return items, rows.Err()
}

const getCategoryByName = `SELECT id, name FROM categories WHERE name = ?`

func (q *Queries) GetCategoryByName(ctx context.Context, name string) (Category, error) {
	var i Category
	err := q.db.QueryRowContext(ctx, getCategoryByName, name).Scan(&i.ID, &i.Name)
	return i, err
}

const createCategory = `INSERT INTO categories (name) VALUES (?) RETURNING id, name`

func (q *Queries) CreateCategory(ctx context.Context, name string) (Category, error) {
	var i Category
	err := q.db.QueryRowContext(ctx, createCategory, name).Scan(&i.ID, &i.Name)
	return i, err
}

const getPartyByName = `SELECT id, name, weight FROM parties WHERE name = ?`

func (q *Queries) GetPartyByName(ctx context.Context, name string) (Party, error) {
	var i Party
	err := q.db.QueryRowContext(ctx, getPartyByName, name).Scan(&i.ID, &i.Name, &i.Weight)
	return i, err
}

type CreatePartyParams struct {
	Name   string
	Weight int64
}

const createParty = `INSERT INTO parties (name, weight) VALUES (?, ?) RETURNING id, name, weight`

func (q *Queries) CreateParty(ctx context.Context, arg CreatePartyParams) (Party, error) {
	var i Party
	err := q.db.QueryRowContext(ctx, createParty, arg.Name, arg.Weight).Scan(&i.ID, &i.Name, &i.Weight)
	return i, err
}

const listParties = `SELECT id, name, weight FROM parties ORDER BY weight, name`

func (q *Queries) ListParties(ctx context.Context) ([]Party, error) {
	rows, err := q.db.QueryContext(ctx, listParties)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var items []Party
	for rows.Next() {
		var i Party
		if err := rows.Scan(&i.ID, &i.Name, &i.Weight); err != nil {
			return nil, err
		}
		items = append(items, i)
	}
	return items, rows.Err()
}

type GetTransactionByAccountRowParams struct {
	AccountID int64
	RowNumber int64
}

type TransactionRow struct {
	Transaction
	AccountName  string
	CategoryName string
	PartyName    sql.NullString
}

const transactionColumns = `t.id, t.ref, t.account_id, t.category_id, t.party_id, t.amount, t.row_number, t.txn_date,
       a.name, c.name, p.name
FROM transactions t
JOIN accounts a ON a.id = t.account_id
JOIN categories c ON c.id = t.category_id
LEFT JOIN parties p ON p.id = t.party_id`

const getTransactionByAccountRow = `SELECT ` + transactionColumns + `
WHERE t.account_id = ? AND t.row_number = ?`

func (q *Queries) GetTransactionByAccountRow(ctx context.Context, arg GetTransactionByAccountRowParams) (TransactionRow, error) {
	row := q.db.QueryRowContext(ctx, getTransactionByAccountRow, arg.AccountID, arg.RowNumber)
	var i TransactionRow
	err := row.Scan(
		&i.ID, &i.Ref, &i.AccountID, &i.CategoryID, &i.PartyID, &i.Amount, &i.RowNumber, &i.TxnDate,
		&i.AccountName, &i.CategoryName, &i.PartyName,
	)
	return i, err
}

const listTransactions = `SELECT ` + transactionColumns + `
ORDER BY t.account_id, t.row_number`

func (q *Queries) ListTransactions(ctx context.Context) ([]TransactionRow, error) {
	rows, err := q.db.QueryContext(ctx, listTransactions)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var items []TransactionRow
	for rows.Next() {
		var i TransactionRow
		if err := rows.Scan(
			&i.ID, &i.Ref, &i.AccountID, &i.CategoryID, &i.PartyID, &i.Amount, &i.RowNumber, &i.TxnDate,
			&i.AccountName, &i.CategoryName, &i.PartyName,
		); err != nil {
			return nil, err
		}
		items = append(items, i)
	}
	return items, rows.Err()
}

type CreateTransactionParams struct {
	Ref        string
	AccountID  int64
	CategoryID int64
	PartyID    sql.NullInt64
	Amount     string
	RowNumber  int64
	TxnDate    sql.NullString
}

const createTransaction = `INSERT INTO transactions (ref, account_id, category_id, party_id, amount, row_number, txn_date)
VALUES (?, ?, ?, ?, ?, ?, ?)
RETURNING id`

func (q *Queries) CreateTransaction(ctx context.Context, arg CreateTransactionParams) (int64, error) {
	var id int64
	err := q.db.QueryRowContext(ctx, createTransaction,
		arg.Ref, arg.AccountID, arg.CategoryID, arg.PartyID, arg.Amount, arg.RowNumber, arg.TxnDate,
	).Scan(&id)
	return id, err
}

type UpdateTransactionPartyParams struct {
	ID      int64
	PartyID sql.NullInt64
}

const updateTransactionParty = `UPDATE transactions SET party_id = ?, updated_at = CURRENT_TIMESTAMP WHERE id = ?`

func (q *Queries) UpdateTransactionParty(ctx context.Context, arg UpdateTransactionPartyParams) error {
	_, err := q.db.ExecContext(ctx, updateTransactionParty, arg.PartyID, arg.ID)
	return err
}

const countTransactions = `SELECT COUNT(*) FROM transactions`

func (q *Queries) CountTransactions(ctx context.Context) (int64, error) {
	var n int64
	err := q.db.QueryRowContext(ctx, countTransactions).Scan(&n)
	return n, err
}
