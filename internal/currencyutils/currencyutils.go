// Package currencyutils parses statement amounts written in French or Anglo-Saxon notation.
package currencyutils

import (
	"errors"
	"fmt"
	"strings"
	"unicode"

	"github.com/shopspring/decimal"
)

// ErrEmptyAmount is returned for blank amount cells.
var ErrEmptyAmount = errors.New("empty amount")

const currencySymbols = "€$£"

// ParseAmount parses a signed amount such as "1 234,56", "1,234.56", "-42,30" or "€12.00".
func ParseAmount(amountStr string) (decimal.Decimal, error) {
	standardized := StandardizeAmount(amountStr)
	if standardized == "" {
		return decimal.Zero, ErrEmptyAmount
	}

	amount, err := decimal.NewFromString(standardized)
	if err != nil {
		return decimal.Zero, fmt.Errorf("failed to parse amount '%s': %w", amountStr, err)
	}
	return amount, nil
}

// StandardizeAmount rewrites an amount into the form decimal.NewFromString accepts.
//
// Spaces (including non-breaking ones) and currency symbols are removed. When both ','
// and '.' appear, the rightmost one is the decimal separator and the other is dropped as
// a thousands separator. A lone ',' is always the decimal separator.
func StandardizeAmount(amountStr string) string {
	amountStr = strings.Map(func(r rune) rune {
		if unicode.IsSpace(r) || strings.ContainsRune(currencySymbols, r) {
			return -1
		}
		return r
	}, amountStr)

	comma := strings.LastIndex(amountStr, ",")
	dot := strings.LastIndex(amountStr, ".")
	switch {
	case comma >= 0 && dot >= 0:
		if comma > dot {
			amountStr = strings.ReplaceAll(amountStr, ".", "")
			amountStr = strings.ReplaceAll(amountStr, ",", ".")
		} else {
			amountStr = strings.ReplaceAll(amountStr, ",", "")
		}
	case comma >= 0:
		amountStr = strings.ReplaceAll(amountStr, ",", ".")
	}
	return amountStr
}
