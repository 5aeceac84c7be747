package ingest

import (
	"fmt"
	"time"

	"fjacquet/ledger-import/internal/models"

	"github.com/shopspring/decimal"
)

// ExternalID identifies a file transaction within an account:
// "<account>_<YYYY-MM-DD>_<amount>_<description prefix>", amount with two decimals.
func ExternalID(accountID string, date time.Time, amount decimal.Decimal, description string, prefixLen int) string {
	return fmt.Sprintf("%s_%s_%s_%s", accountID, date.Format(models.DateLayout), models.AmountString(amount), prefix(description, prefixLen))
}

// SyncExternalID identifies a connector record: "<account>_<YYYY-MM-DD>_<signed amount>".
func SyncExternalID(accountID string, date time.Time, signed decimal.Decimal) string {
	return fmt.Sprintf("%s_%s_%s", accountID, date.Format(models.DateLayout), models.AmountString(signed))
}

// prefix returns the first n runes of s.
func prefix(s string, n int) string {
	r := []rune(s)
	if n < 0 || len(r) <= n {
		return s
	}
	return string(r[:n])
}
