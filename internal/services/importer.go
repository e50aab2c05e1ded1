package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strconv"
	"time"

	"reimburse/internal/config"
	"reimburse/internal/core"
	applog "reimburse/internal/log"
	"reimburse/internal/sheets"
	"reimburse/internal/storage"
)

// firstDataRow skips the header row of every input sheet.
const firstDataRow = 2

// ImportResult summarises one import pass.
type ImportResult struct {
	Sheets    int
	Created   int
	Updated   int
	Unchanged int
}

// Rows returns the number of rows reconciled.
func (r ImportResult) Rows() int {
	return r.Created + r.Updated + r.Unchanged
}

// Importer reads input sheets and reconciles every row against persisted
// transactions, keyed by (account, row).
type Importer struct {
	repo     *storage.SQLiteRepository
	columns  config.Columns
	notifier Notifier
	logger   *slog.Logger
}

func NewImporter(repo *storage.SQLiteRepository, columns config.Columns, notifier Notifier, logger *slog.Logger) *Importer {
	if logger == nil {
		logger = slog.Default()
	}
	if notifier == nil {
		notifier = NewLogNotifier(logger)
	}
	return &Importer{
		repo:     repo,
		columns:  columns,
		notifier: notifier,
		logger:   logger,
	}
}

// Import runs the whole pass over every sheet of wb as one unit of work. When
// any row fails nothing is committed. Notifications are sent only after commit.
func (im *Importer) Import(ctx context.Context, wb sheets.WorkbookReader) (ImportResult, error) {
	names, err := wb.SheetNames(ctx)
	if err != nil {
		return ImportResult{}, fmt.Errorf("list input sheets: %w", err)
	}

	var (
		result ImportResult
		events []core.ImportEvent
	)
	err = im.repo.WithinTx(ctx, func(tx *storage.Tx) error {
		result, events = ImportResult{}, nil
		for _, name := range names {
			sheetEvents, err := im.importSheet(ctx, tx, wb, name)
			if err != nil {
				return err
			}
			result.Sheets++
			for _, e := range sheetEvents {
				switch e.Outcome {
				case core.OutcomeCreated:
					result.Created++
				case core.OutcomeUpdated:
					result.Updated++
				default:
					result.Unchanged++
				}
			}
			events = append(events, sheetEvents...)
		}
		return nil
	})
	if err != nil {
		return ImportResult{}, fmt.Errorf("import: %w", err)
	}

	for _, e := range events {
		if err := im.notifier.Notify(ctx, e); err != nil {
			// The import is already committed; a lost notification is not fatal.
			im.logger.WarnContext(ctx, "Failed to send import notification", applog.FieldRef, e.Ref, applog.FieldError, err)
		}
	}

	im.logger.InfoContext(ctx, "Import completed",
		applog.FieldOperation, applog.OpImport,
		"sheets", result.Sheets,
		"created", result.Created,
		"updated", result.Updated,
		"unchanged", result.Unchanged)

	return result, nil
}

// importSheet scans rows from firstDataRow until the first empty amount cell.
func (im *Importer) importSheet(ctx context.Context, tx *storage.Tx, wb sheets.WorkbookReader, sheet string) ([]core.ImportEvent, error) {
	account, err := tx.GetOrCreateAccount(ctx, sheet)
	if err != nil {
		return nil, err
	}

	var events []core.ImportEvent
	for row := firstDataRow; ; row++ {
		in, err := im.readRow(ctx, wb, sheet, row)
		if err != nil {
			return nil, err
		}
		if sheets.IsEmpty(in.amount) {
			break
		}

		e, err := im.importRow(ctx, tx, account, row, in)
		if err != nil {
			return nil, fmt.Errorf("sheet %q row %d: %w", sheet, row, err)
		}
		events = append(events, e)
	}

	im.logger.DebugContext(ctx, "Sheet scanned", applog.FieldSheet, sheet, "rows", len(events))
	return events, nil
}

type inputRow struct {
	amount   string
	txnType  string
	category string
	label    string
	party    string
	date     string
}

func (im *Importer) readRow(ctx context.Context, wb sheets.WorkbookReader, sheet string, row int) (inputRow, error) {
	var in inputRow
	fields := []struct {
		col string
		dst *string
	}{
		{im.columns.Amount, &in.amount},
		{im.columns.Type, &in.txnType},
		{im.columns.Category, &in.category},
		{im.columns.Label, &in.label},
		{im.columns.Reimbursable, &in.party},
		{im.columns.Date, &in.date},
	}
	for i, f := range fields {
		if f.col == "" {
			continue
		}
		v, err := wb.Cell(ctx, sheet, f.col+strconv.Itoa(row))
		if err != nil {
			return inputRow{}, err
		}
		*f.dst = v
		// Nothing past an empty amount cell is read.
		if i == 0 && sheets.IsEmpty(v) {
			break
		}
	}
	return in, nil
}

func (im *Importer) importRow(ctx context.Context, tx *storage.Tx, account core.Account, row int, in inputRow) (core.ImportEvent, error) {
	amount, err := core.ParseAmount(in.amount)
	if err != nil {
		return core.ImportEvent{}, err
	}
	txnType := core.ParseTxnType(in.txnType)
	amount = txnType.SignedAmount(amount)

	party, err := im.classify(ctx, tx, txnType, in.party)
	if err != nil {
		return core.ImportEvent{}, err
	}

	if sheets.IsEmpty(in.category) {
		im.logger.WarnContext(ctx, "Row has no category", applog.FieldAccount, account.Name, applog.FieldRow, row)
	}
	category, err := tx.GetOrCreateCategory(ctx, in.category)
	if err != nil {
		return core.ImportEvent{}, err
	}

	existing, err := tx.FindTransaction(ctx, account.ID, row)
	if errors.Is(err, storage.ErrNotFound) {
		txn := core.Transaction{
			Ref:        core.TransactionRef(account.Name, row),
			AccountID:  account.ID,
			Account:    account.Name,
			CategoryID: category.ID,
			Category:   category.Name,
			PartyID:    party.ID,
			Party:      party.Name,
			Amount:     amount,
			Row:        row,
			Date:       im.parseDate(ctx, account.Name, row, in.date),
		}
		created, err := tx.CreateTransaction(ctx, txn)
		if err != nil {
			return core.ImportEvent{}, err
		}
		im.logger.DebugContext(ctx, "Transaction created", applog.FieldTransaction, created.ID, applog.FieldAccount, account.Name, applog.FieldRow, row, "label", in.label)
		return eventFor(created, core.OutcomeCreated), nil
	}
	if err != nil {
		return core.ImportEvent{}, err
	}

	// Amount and category are fixed at first import; only the party follows the sheet.
	if existing.Party == party.Name {
		return eventFor(existing, core.OutcomeUnchanged), nil
	}
	if err := tx.UpdateTransactionParty(ctx, existing.ID, party); err != nil {
		return core.ImportEvent{}, err
	}
	im.logger.InfoContext(ctx, "Transaction party reassigned",
		applog.FieldTransaction, existing.ID,
		applog.FieldAccount, account.Name,
		applog.FieldRow, row,
		"from", existing.Party,
		"to", party.Name)
	existing.PartyID, existing.Party = party.ID, party.Name
	return eventFor(existing, core.OutcomeUpdated), nil
}

// classify resolves the party of a row: an explicit label wins, an unlabelled
// debit goes to the non-expensable sentinel, anything else has no party.
func (im *Importer) classify(ctx context.Context, tx *storage.Tx, txnType core.TxnType, label string) (core.Party, error) {
	switch {
	case !sheets.IsEmpty(label):
		return tx.GetOrCreateParty(ctx, core.NormalizePartyName(label), 0)
	case txnType == core.Debit:
		return tx.GetOrCreateParty(ctx, core.NonExpensable, core.NonExpensableWeight)
	default:
		return core.Party{}, nil
	}
}

func (im *Importer) parseDate(ctx context.Context, account string, row int, cell string) *time.Time {
	if sheets.IsEmpty(cell) {
		return nil
	}
	d, ok := core.ParseDate(cell)
	if !ok {
		im.logger.WarnContext(ctx, "Unrecognised date, storing none", applog.FieldAccount, account, applog.FieldRow, row, "value", cell)
		return nil
	}
	return &d
}

func eventFor(txn core.Transaction, outcome core.Outcome) core.ImportEvent {
	return core.ImportEvent{
		Ref:           txn.Ref,
		TransactionID: txn.ID,
		Account:       txn.Account,
		Row:           txn.Row,
		Outcome:       outcome,
		Party:         txn.Party,
		Amount:        txn.Amount,
	}
}
