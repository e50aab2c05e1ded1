package sheets

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCellName(t *testing.T) {
	got, err := CellName(1, 2)
	require.NoError(t, err)
	assert.Equal(t, "A2", got)

	got, err = CellName(28, 10)
	require.NoError(t, err)
	assert.Equal(t, "AB10", got)

	col, err := ColumnName(4)
	require.NoError(t, err)
	assert.Equal(t, "D", col)
}

func TestIsDefaultSheet(t *testing.T) {
	assert.True(t, IsDefaultSheet("Sheet1"))
	assert.True(t, IsDefaultSheet("Sheet"))
	assert.False(t, IsDefaultSheet("Sheeter"))
	assert.False(t, IsDefaultSheet("Alice"))
}

func TestSafeSheetName(t *testing.T) {
	assert.Equal(t, "Alice", SafeSheetName("Alice"))
	assert.Equal(t, "A-B-C", SafeSheetName("A/B:C"))
	assert.Equal(t, "Unnamed", SafeSheetName("?*"))
	assert.Equal(t, 31, len(SafeSheetName(strings.Repeat("x", 40))))
}

func TestNumberedSheetName(t *testing.T) {
	assert.Equal(t, "A-B (2)", NumberedSheetName("A/B", 2))
	long := NumberedSheetName(strings.Repeat("x", 40), 12)
	assert.Equal(t, 31, len(long))
	assert.True(t, strings.HasSuffix(long, "x (12)"))
}

func TestIsEmpty(t *testing.T) {
	assert.True(t, IsEmpty(""))
	assert.True(t, IsEmpty("  "))
	assert.False(t, IsEmpty("0"))
}
