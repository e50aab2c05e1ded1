// Package locale isolates locale-dependent presentation of amounts.
package locale

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
	"golang.org/x/text/currency"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"golang.org/x/text/number"
)

// CurrencyFormatter renders an amount for display. It never feeds back into arithmetic.
type CurrencyFormatter func(amount decimal.Decimal) string

// NewCurrencyFormatter returns a formatter for the BCP 47 locale tag. When code
// is empty the currency is inferred from the locale's region.
func NewCurrencyFormatter(locale, code string) (CurrencyFormatter, error) {
	tag, err := language.Parse(locale)
	if err != nil {
		return nil, fmt.Errorf("parse locale %q: %w", locale, err)
	}

	var unit currency.Unit
	if strings.TrimSpace(code) == "" {
		var conf language.Confidence
		unit, conf = currency.FromTag(tag)
		if conf == language.No {
			return nil, fmt.Errorf("cannot infer currency for locale %q", locale)
		}
	} else if unit, err = currency.ParseISO(code); err != nil {
		return nil, fmt.Errorf("parse currency %q: %w", code, err)
	}

	scale, _ := currency.Standard.Rounding(unit)
	p := message.NewPrinter(tag)
	symbol := p.Sprint(currency.Symbol(unit))

	// The sign goes in front of the symbol: -$ 20.00, not $ -20.00.
	return func(amount decimal.Decimal) string {
		amount = amount.Round(int32(scale))
		sign := ""
		if amount.IsNegative() {
			sign, amount = "-", amount.Neg()
		}
		return sign + symbol + " " + p.Sprint(number.Decimal(amount.InexactFloat64(), number.Scale(scale)))
	}, nil
}

// Plain formats with two decimals and no locale data; used when no locale is configured.
func Plain(amount decimal.Decimal) string {
	return amount.StringFixed(2)
}
