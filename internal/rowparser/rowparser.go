// Package rowparser converts raw statement rows into parsed transactions.
//
// Rows that cannot yield a transaction (no date, no amount) are dropped silently;
// an unexpected failure on one row is recorded with its line number and never
// aborts the rest of the file.
package rowparser

import (
	"fmt"
	"strings"
	"time"

	"fjacquet/ledger-import/internal/columnmap"
	"fjacquet/ledger-import/internal/currencyutils"
	"fjacquet/ledger-import/internal/dateutils"
	"fjacquet/ledger-import/internal/logging"
	"fjacquet/ledger-import/internal/models"
	"fjacquet/ledger-import/internal/parsererror"

	"github.com/shopspring/decimal"
)

// fallbackDateHeader is read when the mapped date cell is empty. BoursoBank leaves
// dateVal blank on pending operations while dateOp is always filled.
const fallbackDateHeader = "dateOp"

// Parser turns rows into transactions according to one column mapping.
type Parser struct {
	mapping     columnmap.Mapping
	placeholder string
	logger      logging.Logger
	check       func(RawRow) error
}

// Option configures a Parser.
type Option func(*Parser)

// WithPlaceholder sets the description used for rows with an empty description.
func WithPlaceholder(placeholder string) Option {
	return func(p *Parser) {
		if placeholder != "" {
			p.placeholder = placeholder
		}
	}
}

// WithLogger sets the logger.
func WithLogger(logger logging.Logger) Option {
	return func(p *Parser) {
		if logger != nil {
			p.logger = logger
		}
	}
}

// WithCheck runs check on every row before parsing. A non-nil error records the row
// as failed instead of parsing it.
func WithCheck(check func(RawRow) error) Option {
	return func(p *Parser) {
		p.check = check
	}
}

// New creates a Parser for mapping.
func New(mapping columnmap.Mapping, opts ...Option) *Parser {
	p := &Parser{
		mapping:     mapping,
		placeholder: models.DefaultDescription,
		logger:      logging.Nop(),
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// ParseAll parses every row in order. Dropped rows vanish; failed rows are reported.
func (p *Parser) ParseAll(rows []RawRow) ([]models.ParsedTransaction, []*parsererror.RowError) {
	var (
		transactions []models.ParsedTransaction
		failures     []*parsererror.RowError
	)
	for _, row := range rows {
		tx, err := p.safeParse(row)
		if err != nil {
			rowErr := &parsererror.RowError{Row: row.Line, Err: err}
			p.logger.WithError(err).Warn("Failed to parse row", logging.F(logging.FieldRow, row.Line))
			failures = append(failures, rowErr)
			continue
		}
		if tx != nil {
			transactions = append(transactions, *tx)
		}
	}
	return transactions, failures
}

func (p *Parser) safeParse(row RawRow) (tx *models.ParsedTransaction, err error) {
	defer func() {
		if r := recover(); r != nil {
			tx = nil
			err = fmt.Errorf("unexpected failure: %v", r)
		}
	}()
	if p.check != nil {
		if err := p.check(row); err != nil {
			return nil, err
		}
	}
	return p.ParseRow(row)
}

// ParseRow returns nil without error when the row carries no usable transaction.
func (p *Parser) ParseRow(row RawRow) (*models.ParsedTransaction, error) {
	date, ok := p.parseDate(row)
	if !ok {
		return nil, nil
	}

	amount, direction, ok := p.parseAmount(row)
	if !ok {
		return nil, nil
	}

	return &models.ParsedTransaction{
		Date:        date.UTC(),
		Description: p.description(row),
		Amount:      amount,
		Direction:   direction,
		Row:         row.Line,
	}, nil
}

func (p *Parser) parseDate(row RawRow) (time.Time, bool) {
	header, mapped := p.mapping.Header(models.FieldDate)
	if !mapped {
		p.drop(row, "no date column")
		return time.Time{}, false
	}

	raw, _ := row.Get(header)
	if strings.TrimSpace(raw) == "" {
		raw, _ = row.Get(fallbackDateHeader)
	}

	t, _, err := dateutils.ParseDate(raw)
	if err != nil {
		p.drop(row, err.Error())
		return time.Time{}, false
	}
	return t, true
}

func (p *Parser) parseAmount(row RawRow) (decimal.Decimal, models.Direction, bool) {
	switch p.mapping.Strategy() {
	case columnmap.AmountSingle:
		header, _ := p.mapping.Header(models.FieldAmount)
		raw, _ := row.Get(header)
		signed, err := currencyutils.ParseAmount(raw)
		if err != nil {
			p.drop(row, err.Error())
			return decimal.Zero, "", false
		}
		if signed.IsZero() {
			p.drop(row, "zero amount")
			return decimal.Zero, "", false
		}
		return signed.Abs(), models.DirectionOf(signed), true

	case columnmap.AmountDebitCredit:
		credit := p.optionalAmount(row, models.FieldCredit)
		if credit.IsPositive() {
			return credit, models.DirectionIncome, true
		}
		// Only a positive debit is an expense; negative or zero debits are dropped.
		debit := p.optionalAmount(row, models.FieldDebit)
		if debit.IsPositive() {
			return debit, models.DirectionExpense, true
		}
		p.drop(row, "empty debit and credit")
		return decimal.Zero, "", false
	}

	p.drop(row, "no amount strategy")
	return decimal.Zero, "", false
}

// optionalAmount reads a debit or credit cell; blank or unreadable cells count as zero.
func (p *Parser) optionalAmount(row RawRow, field models.Field) decimal.Decimal {
	header, ok := p.mapping.Header(field)
	if !ok {
		return decimal.Zero
	}
	raw, _ := row.Get(header)
	amount, err := currencyutils.ParseAmount(raw)
	if err != nil {
		return decimal.Zero
	}
	return amount
}

func (p *Parser) description(row RawRow) string {
	if header, ok := p.mapping.Header(models.FieldDescription); ok {
		if raw, _ := row.Get(header); strings.TrimSpace(raw) != "" {
			return strings.TrimSpace(raw)
		}
	}
	return p.placeholder
}

func (p *Parser) drop(row RawRow, reason string) {
	p.logger.Debug("Row dropped",
		logging.F(logging.FieldRow, row.Line),
		logging.F("reason", reason))
}
