package backend

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"reimburse/internal/config"
	"reimburse/internal/sheets/xlsx"
)

func TestFromAppConfig(t *testing.T) {
	_, err := FromAppConfig(nil)
	assert.Error(t, err)

	_, err = FromAppConfig(&config.Config{InputBackend: "csv"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "valid: xlsx, sheets")

	cfg, err := FromAppConfig(&config.Config{InputBackend: "sheets", GoogleSpreadsheetID: "abc"})
	require.NoError(t, err)
	assert.Equal(t, SheetsBackend, cfg.Type)
	assert.Equal(t, "abc", cfg.GoogleSpreadsheetID)
}

func TestConfigValidate(t *testing.T) {
	tests := []struct {
		name    string
		config  Config
		wantErr bool
	}{
		{"xlsx ok", Config{Type: XLSXBackend, InputPath: "in.xlsx"}, false},
		{"xlsx without path", Config{Type: XLSXBackend}, true},
		{"sheets ok", Config{Type: SheetsBackend, GoogleSpreadsheetID: "id"}, false},
		{"sheets without id", Config{Type: SheetsBackend}, true},
		{"unknown", Config{Type: "memory"}, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.config.Validate()
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestGetBackendTypeStrings(t *testing.T) {
	assert.Equal(t, []string{"xlsx", "sheets"}, GetBackendTypeStrings())
}

func TestOpenInput_XLSX(t *testing.T) {
	path := filepath.Join(t.TempDir(), "input.xlsx")
	w, err := xlsx.NewWriter()
	require.NoError(t, err)
	require.NoError(t, w.SetCell("Sheet1", "D2", "42"))
	require.NoError(t, w.SaveAs(path))
	require.NoError(t, w.Close())

	f := NewFactory(nil)
	res, err := f.OpenInput(context.Background(), Config{Type: XLSXBackend, InputPath: path})
	require.NoError(t, err)
	require.NotNil(t, res.Cleanup)
	defer res.Cleanup()

	v, err := res.Reader.Cell(context.Background(), "Sheet1", "D2")
	require.NoError(t, err)
	assert.Equal(t, "42", v)
}

func TestOpenInput_MissingFile(t *testing.T) {
	_, err := NewFactory(nil).OpenInput(context.Background(), Config{
		Type:      XLSXBackend,
		InputPath: filepath.Join(t.TempDir(), "missing.xlsx"),
	})
	assert.Error(t, err)
}

func TestNewOutput(t *testing.T) {
	w, err := NewFactory(nil).NewOutput()
	require.NoError(t, err)
	assert.Equal(t, []string{"Sheet1"}, w.Sheets())
}
