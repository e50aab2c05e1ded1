package backend

import (
	"context"

	"reimburse/internal/sheets"
)

// CleanupFunc releases resources held by an opened workbook.
type CleanupFunc func() error

// InputResult contains the opened input workbook and an optional cleanup function.
type InputResult struct {
	Reader  sheets.WorkbookReader
	Cleanup CleanupFunc
}

// Factory opens input workbooks and creates output workbooks based on configuration.
type Factory interface {
	OpenInput(ctx context.Context, config Config) (*InputResult, error)
	NewOutput() (sheets.WorkbookWriter, error)
}

// Config holds configuration for opening the input workbook.
type Config struct {
	Type BackendType

	// xlsx specific
	InputPath string

	// Google Sheets specific
	GoogleSpreadsheetID string
}

// BackendType represents the kind of input workbook.
type BackendType string

const (
	XLSXBackend   BackendType = "xlsx"
	SheetsBackend BackendType = "sheets"
)

// String implements fmt.Stringer
func (bt BackendType) String() string {
	return string(bt)
}

// IsValid returns true if the backend type is valid
func (bt BackendType) IsValid() bool {
	switch bt {
	case XLSXBackend, SheetsBackend:
		return true
	default:
		return false
	}
}
