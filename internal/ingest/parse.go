package ingest

import (
	"fmt"

	"fjacquet/ledger-import/internal/bankformat"
	"fjacquet/ledger-import/internal/columnmap"
	"fjacquet/ledger-import/internal/delimiter"
	"fjacquet/ledger-import/internal/logging"
	"fjacquet/ledger-import/internal/models"
	"fjacquet/ledger-import/internal/parsererror"
	"fjacquet/ledger-import/internal/rowparser"
	"fjacquet/ledger-import/internal/textenc"
)

// layout is a decoded file with its detected structure.
type layout struct {
	encoding  textenc.Encoding
	delimiter rune
	bank      bankformat.ID
	mapping   columnmap.Mapping
	table     *rowparser.Table
}

// read decodes data and resolves delimiter, bank and mapping. An explicit mapping or
// delimiter takes precedence over detection; the bank is recognized either way.
func (c *Coordinator) read(data []byte, mapping *columnmap.Mapping, delim rune) (*layout, error) {
	if len(data) == 0 {
		return nil, &parsererror.InvalidFormatError{Msg: "file is empty", Err: parsererror.ErrEmptyFile}
	}

	text, enc, err := textenc.Decode(data)
	if err != nil {
		return nil, &parsererror.InvalidFormatError{Msg: "cannot decode file", Err: err}
	}

	if delim == 0 {
		delim = c.delimiters.Detect(text)
	}

	table, err := rowparser.ReadTable(text, delim)
	if err != nil {
		return nil, err
	}

	l := &layout{
		encoding:  enc,
		delimiter: delim,
		bank:      c.formats.Recognize(table.Headers),
		table:     table,
	}
	if mapping != nil {
		l.mapping = *mapping
	} else {
		l.mapping = c.mapper.Map(table.Headers, l.bank)
	}

	c.logger.Debug("Detected file layout",
		logging.F(logging.FieldEncoding, string(enc)),
		logging.F(logging.FieldDelimiter, delimiter.Name(delim)),
		logging.F(logging.FieldBank, string(l.bank)),
		logging.F(logging.FieldHeaders, table.Headers),
		logging.F(logging.FieldMapping, l.mapping.String()))
	return l, nil
}

// ParseOutcome is the result of parsing a file without persisting it.
type ParseOutcome struct {
	Encoding     textenc.Encoding           `json:"encoding"`
	Delimiter    string                     `json:"delimiter"`
	Bank         bankformat.ID              `json:"detected_bank"`
	Mapping      columnmap.Mapping          `json:"column_mapping"`
	Headers      []string                   `json:"headers"`
	Transactions []models.ParsedTransaction `json:"transactions"`
	Count        int                        `json:"count"`
	TotalRows    int                        `json:"total_rows"`
	RowErrors    []*parsererror.RowError    `json:"-"`
}

// Parse decodes and parses data into transactions. mapping and delim override detection
// when set. It fails when the file is empty, has no header, or no amount column can be found.
func (c *Coordinator) Parse(data []byte, mapping *columnmap.Mapping, delim rune) (*ParseOutcome, error) {
	l, err := c.read(data, mapping, delim)
	if err != nil {
		return nil, err
	}
	if l.mapping.Strategy() == columnmap.AmountNone {
		return nil, &parsererror.InvalidFormatError{
			Msg:            "no amount column and no debit/credit columns",
			ExpectedFormat: "an amount column, or debit and credit columns",
			Err:            parsererror.ErrNoAmountStrategy,
		}
	}

	parser := rowparser.New(l.mapping,
		rowparser.WithPlaceholder(c.config.Placeholder),
		rowparser.WithLogger(c.logger),
		rowparser.WithCheck(c.rowCheck))
	txs, rowErrors := parser.ParseAll(l.table.Rows)

	out := &ParseOutcome{
		Encoding:     l.encoding,
		Delimiter:    delimiter.Name(l.delimiter),
		Bank:         l.bank,
		Mapping:      l.mapping,
		Headers:      l.table.Headers,
		Transactions: txs,
		Count:        len(txs),
		TotalRows:    len(l.table.Rows),
		RowErrors:    append(append([]*parsererror.RowError{}, l.table.Errors...), rowErrors...),
	}
	if out.Transactions == nil {
		out.Transactions = []models.ParsedTransaction{}
	}
	return out, nil
}

// Preview describes a file before import: detected layout and the first rows.
type Preview struct {
	Encoding       textenc.Encoding    `json:"encoding"`
	Delimiter      string              `json:"delimiter"`
	Headers        []string            `json:"headers"`
	Mapping        columnmap.Mapping   `json:"column_mapping"`
	AmountStrategy string              `json:"amount_strategy"`
	Bank           bankformat.ID       `json:"detected_bank"`
	Rows           []map[string]string `json:"preview_rows"`
	TotalRows      int                 `json:"total_rows"`
}

// Preview returns the detected layout and up to maxRows raw rows. maxRows <= 0 uses
// the configured default. A file without an amount column still previews, so the
// caller can supply an explicit mapping.
func (c *Coordinator) Preview(data []byte, maxRows int) (*Preview, error) {
	if maxRows <= 0 {
		maxRows = c.config.PreviewRows
	}
	l, err := c.read(data, nil, 0)
	if err != nil {
		return nil, fmt.Errorf("previewing file: %w", err)
	}

	p := &Preview{
		Encoding:       l.encoding,
		Delimiter:      delimiter.Name(l.delimiter),
		Headers:        l.table.Headers,
		Mapping:        l.mapping,
		AmountStrategy: l.mapping.Strategy().String(),
		Bank:           l.bank,
		Rows:           make([]map[string]string, 0, maxRows),
		TotalRows:      len(l.table.Rows),
	}
	for i, row := range l.table.Rows {
		if i >= maxRows {
			break
		}
		p.Rows = append(p.Rows, row.Cells())
	}
	return p, nil
}
