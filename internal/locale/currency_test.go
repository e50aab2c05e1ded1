package locale

import (
	"strings"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewCurrencyFormatter(t *testing.T) {
	format, err := NewCurrencyFormatter("en-US", "USD")
	require.NoError(t, err)

	out := format(decimal.RequireFromString("1234.5"))
	assert.Contains(t, out, "1,234.50")
	assert.Contains(t, out, "$")

	assert.Contains(t, format(decimal.RequireFromString("40")), "40.00")
}

func TestNewCurrencyFormatter_SignBeforeSymbol(t *testing.T) {
	format, err := NewCurrencyFormatter("en-US", "USD")
	require.NoError(t, err)

	out := format(decimal.RequireFromString("-20"))
	assert.True(t, strings.HasPrefix(out, "-$"), out)
	assert.Contains(t, out, "20.00")
	assert.NotContains(t, out, "$ -")

	// Rounds to zero, so no sign.
	assert.False(t, strings.HasPrefix(format(decimal.RequireFromString("-0.001")), "-"))
}

func TestNewCurrencyFormatter_InfersCurrency(t *testing.T) {
	format, err := NewCurrencyFormatter("de-DE", "")
	require.NoError(t, err)

	assert.Contains(t, format(decimal.RequireFromString("1234.5")), "1.234,50")
}

func TestNewCurrencyFormatter_Errors(t *testing.T) {
	_, err := NewCurrencyFormatter("not a locale!", "USD")
	assert.Error(t, err)

	_, err = NewCurrencyFormatter("en-US", "XYZW")
	assert.Error(t, err)
}

func TestPlain(t *testing.T) {
	assert.Equal(t, "40.00", Plain(decimal.NewFromInt(40)))
	assert.Equal(t, "-12.50", Plain(decimal.RequireFromString("-12.5")))
}
