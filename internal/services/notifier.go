package services

import (
	"context"
	"log/slog"

	"reimburse/internal/core"
	applog "reimburse/internal/log"
)

// Notifier receives a progress notification for each reconciled row.
type Notifier interface {
	Notify(ctx context.Context, e core.ImportEvent) error
}

// LogNotifier reports import events through the logger.
type LogNotifier struct {
	logger *slog.Logger
}

func NewLogNotifier(logger *slog.Logger) *LogNotifier {
	if logger == nil {
		logger = slog.Default()
	}
	return &LogNotifier{logger: logger}
}

func (n *LogNotifier) Notify(ctx context.Context, e core.ImportEvent) error {
	n.logger.InfoContext(ctx, "Imported transaction",
		applog.FieldTransaction, e.TransactionID,
		applog.FieldRef, e.Ref,
		applog.FieldAccount, e.Account,
		applog.FieldRow, e.Row,
		applog.FieldOutcome, e.Outcome)
	return nil
}

// MultiNotifier fans an event out to every notifier, continuing past failures.
type MultiNotifier []Notifier

func (m MultiNotifier) Notify(ctx context.Context, e core.ImportEvent) error {
	var firstErr error
	for _, n := range m {
		if n == nil {
			continue
		}
		if err := n.Notify(ctx, e); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	return firstErr
}
