// Package core provides money parsing and handling utilities.
//
// This file contains functions for parsing amount and date cells read from
// input sheets.
package core

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// ParseAmount converts an amount cell to a decimal. Only a plain number with
// an optional sign and a dot decimal separator is accepted; grouping
// separators and decimal commas are rejected rather than guessed. Signed
// values are accepted as-is; sign normalisation by transaction type happens
// later.
//
//	ParseAmount("12.34")    -> 12.34, nil
//	ParseAmount("-20")      -> -20, nil
//	ParseAmount("1,234")    -> 0, ErrInvalidAmount
//	ParseAmount("abc")      -> 0, ErrInvalidAmount
func ParseAmount(s string) (decimal.Decimal, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return decimal.Zero, ErrInvalidAmount
	}
	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero, fmt.Errorf("%w: %q", ErrInvalidAmount, s)
	}
	return d, nil
}

var dateLayouts = []string{
	"2006-01-02",
	"2006-01-02 15:04:05",
	"01/02/2006",
	"1/2/2006",
	"01-02-06",
	"1/2/06",
}

// serialEpoch is day zero of spreadsheet serial dates.
var serialEpoch = time.Date(1899, 12, 30, 0, 0, 0, 0, time.UTC)

// ParseDate parses an optional date cell. Unformatted spreadsheet values arrive
// as serial day numbers and are accepted too. ok is false for empty or
// unrecognised input.
func ParseDate(s string) (t time.Time, ok bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, false
	}
	if serial, err := strconv.ParseFloat(s, 64); err == nil {
		if serial < 1 {
			return time.Time{}, false
		}
		return serialEpoch.AddDate(0, 0, int(serial)), true
	}
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}
