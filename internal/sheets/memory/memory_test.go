package memory

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWorkbookReadWrite(t *testing.T) {
	ctx := context.Background()
	w := New("Checking").Put("Savings", "D2", "12.50")

	names, err := w.SheetNames(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"Checking", "Savings"}, names)

	v, err := w.Cell(ctx, "Savings", "D2")
	require.NoError(t, err)
	assert.Equal(t, "12.50", v)

	v, err = w.Cell(ctx, "Savings", "D3")
	require.NoError(t, err)
	assert.Equal(t, "", v)

	_, err = w.Cell(ctx, "Missing", "A1")
	assert.Error(t, err)
}

func TestWorkbookSheetsAndStyles(t *testing.T) {
	w := NewDefault()
	require.NoError(t, w.NewSheet("Alice"))
	assert.Error(t, w.NewSheet("Alice"))

	require.NoError(t, w.SetCell("Alice", "A1", 3))
	require.NoError(t, w.SetBold("Alice", "A1"))
	require.NoError(t, w.SetColWidth("Alice", "A", 12))
	assert.Equal(t, "3", w.Value("Alice", "A1"))
	assert.True(t, w.Bold("Alice", "A1"))
	assert.Equal(t, 12.0, w.Width("Alice", "A"))

	require.NoError(t, w.RemoveSheet("Sheet1"))
	assert.Error(t, w.RemoveSheet("Sheet1"))
	assert.Error(t, w.SetCell("Sheet1", "A1", "x"))
	assert.Equal(t, []string{"Alice"}, w.Sheets())

	require.NoError(t, w.SaveAs("out.xlsx"))
	assert.Equal(t, []string{"out.xlsx"}, w.Saved())
}
