package backend

import (
	"context"
	"fmt"
	"log/slog"

	"reimburse/internal/sheets"
	gsheet "reimburse/internal/sheets/google"
	"reimburse/internal/sheets/xlsx"
)

// DefaultFactory implements the Factory interface
type DefaultFactory struct {
	logger *slog.Logger
}

// NewFactory creates a new backend factory
func NewFactory(logger *slog.Logger) Factory {
	if logger == nil {
		logger = slog.Default()
	}
	return &DefaultFactory{
		logger: logger,
	}
}

// OpenInput implements Factory.OpenInput
func (f *DefaultFactory) OpenInput(ctx context.Context, config Config) (*InputResult, error) {
	if err := config.Validate(); err != nil {
		return nil, err
	}

	switch config.Type {
	case XLSXBackend:
		return f.openXLSX(config)
	case SheetsBackend:
		return f.openSheets(ctx, config)
	default:
		return nil, fmt.Errorf("unsupported backend type: %s", config.Type)
	}
}

// NewOutput implements Factory.NewOutput. Reports are always written as local .xlsx files.
func (f *DefaultFactory) NewOutput() (sheets.WorkbookWriter, error) {
	return xlsx.NewWriter()
}

func (f *DefaultFactory) openXLSX(config Config) (*InputResult, error) {
	r, err := xlsx.Open(config.InputPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open input workbook: %w", err)
	}

	f.logger.Info("Opened xlsx input", "path", config.InputPath)

	return &InputResult{
		Reader:  r,
		Cleanup: r.Close,
	}, nil
}

func (f *DefaultFactory) openSheets(ctx context.Context, config Config) (*InputResult, error) {
	cli, err := gsheet.NewFromEnv(ctx, config.GoogleSpreadsheetID)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize Google Sheets client: %w", err)
	}

	f.logger.Info("Opened Google Sheets input", "spreadsheet_id", config.GoogleSpreadsheetID)

	return &InputResult{
		Reader:  cli,
		Cleanup: nil, // No cleanup needed for sheets backend
	}, nil
}
