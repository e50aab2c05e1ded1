package xlsx

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWriterThenReader(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "book.xlsx")

	w, err := NewWriter()
	require.NoError(t, err)
	defer w.Close()

	require.NoError(t, w.NewSheet("Checking"))
	assert.Error(t, w.NewSheet("Checking"))
	require.NoError(t, w.SetCell("Checking", "D2", 12.5))
	require.NoError(t, w.SetCell("Checking", "E2", "credit"))
	require.NoError(t, w.SetBold("Checking", "D2"))
	require.NoError(t, w.SetColWidth("Checking", "D", 14))
	require.NoError(t, w.RemoveSheet("Sheet1"))
	assert.Equal(t, []string{"Checking"}, w.Sheets())
	assert.Error(t, w.RemoveSheet("Checking"))
	require.NoError(t, w.SaveAs(path))

	r, err := Open(path)
	require.NoError(t, err)
	defer r.Close()

	names, err := r.SheetNames(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"Checking"}, names)

	v, err := r.Cell(ctx, "Checking", "D2")
	require.NoError(t, err)
	assert.Equal(t, "12.5", v)

	v, err = r.Cell(ctx, "Checking", "E2")
	require.NoError(t, err)
	assert.Equal(t, "credit", v)

	v, err = r.Cell(ctx, "Checking", "D3")
	require.NoError(t, err)
	assert.Equal(t, "", v)
}

func TestOpenMissingFile(t *testing.T) {
	_, err := Open(filepath.Join(t.TempDir(), "missing.xlsx"))
	assert.Error(t, err)
}
