// Package connector provides bank connectors that return account and transaction
// records. The connectors here serve fixed record lists; they stand in for real
// bank access, which lives outside this module.
package connector

import (
	"context"
	"errors"
	"fmt"
	"time"

	"fjacquet/ledger-import/internal/bankformat"

	"github.com/shopspring/decimal"
)

// ErrInvalidCredentials is returned by Login when the bank rejects the credentials.
var ErrInvalidCredentials = errors.New("invalid credentials")

// Account is a bank account exposed by a connector.
type Account struct {
	ID       string          `json:"id"`
	Name     string          `json:"name"`
	Number   string          `json:"number"`
	Balance  decimal.Decimal `json:"balance"`
	Currency string          `json:"currency"`
	Type     string          `json:"type"`
}

// Record is one transaction as reported by the bank. Amount is signed: negative
// values are money going out.
type Record struct {
	Date        time.Time
	Description string
	Amount      decimal.Decimal
	AccountID   string
}

// Connector fetches accounts and transactions from one bank.
type Connector interface {
	Login(ctx context.Context, username, password string) error
	Accounts(ctx context.Context) ([]Account, error)
	Transactions(ctx context.Context, accountID string) ([]Record, error)
	Close() error
}

// New returns the connector for bank. now anchors the relative record dates; nil means time.Now.
func New(bank bankformat.ID, now func() time.Time) (Connector, error) {
	if now == nil {
		now = time.Now
	}
	switch bank {
	case bankformat.Boursobank:
		return &fixed{bank: bank, now: now, accounts: boursobankAccounts, records: boursobankRecords}, nil
	case bankformat.CIC:
		return &fixed{bank: bank, now: now, accounts: cicAccounts, records: cicRecords}, nil
	default:
		return nil, fmt.Errorf("unsupported bank %q", bank)
	}
}

// entry is a record template dated daysAgo before the connector clock.
type entry struct {
	daysAgo     int
	description string
	amount      string
}

type fixed struct {
	bank     bankformat.ID
	now      func() time.Time
	accounts []Account
	records  map[string][]entry
	loggedIn bool
}

func (f *fixed) Login(ctx context.Context, _, password string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if password == "invalid" {
		return ErrInvalidCredentials
	}
	f.loggedIn = true
	return nil
}

func (f *fixed) Accounts(ctx context.Context) ([]Account, error) {
	if err := f.ready(ctx); err != nil {
		return nil, err
	}
	out := make([]Account, len(f.accounts))
	copy(out, f.accounts)
	return out, nil
}

func (f *fixed) Transactions(ctx context.Context, accountID string) ([]Record, error) {
	if err := f.ready(ctx); err != nil {
		return nil, err
	}
	entries, ok := f.records[accountID]
	if !ok {
		return nil, fmt.Errorf("%s: unknown account %q", f.bank, accountID)
	}

	today := f.now()
	out := make([]Record, 0, len(entries))
	for _, e := range entries {
		out = append(out, Record{
			Date:        today.AddDate(0, 0, -e.daysAgo),
			Description: e.description,
			Amount:      decimal.RequireFromString(e.amount),
			AccountID:   accountID,
		})
	}
	return out, nil
}

func (f *fixed) Close() error {
	f.loggedIn = false
	return nil
}

func (f *fixed) ready(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if !f.loggedIn {
		return fmt.Errorf("%s: not logged in", f.bank)
	}
	return nil
}
