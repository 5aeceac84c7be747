package rowparser

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strings"

	"fjacquet/ledger-import/internal/parsererror"
	"fjacquet/ledger-import/internal/textenc"
)

// RawRow is one data line keyed by header name. It only lives while its line is parsed.
type RawRow struct {
	// Line is 1-based; the header is line 1 so data starts at 2.
	Line    int
	headers []string
	values  []string
}

// NewRawRow pairs headers with the values of one record.
func NewRawRow(line int, headers, values []string) RawRow {
	return RawRow{Line: line, headers: headers, values: values}
}

// Get returns the cell under header. Short records report missing trailing cells as absent.
func (r RawRow) Get(header string) (string, bool) {
	for i, h := range r.headers {
		if h != header {
			continue
		}
		if i >= len(r.values) {
			return "", false
		}
		return r.values[i], true
	}
	return "", false
}

// Cells returns the row as header → value, for previews.
func (r RawRow) Cells() map[string]string {
	out := make(map[string]string, len(r.headers))
	for i, h := range r.headers {
		if _, dup := out[h]; dup {
			continue
		}
		if i < len(r.values) {
			out[h] = r.values[i]
		} else {
			out[h] = ""
		}
	}
	return out
}

// Table is a fully-buffered delimited file.
type Table struct {
	Headers []string
	Rows    []RawRow
	// Errors holds records the CSV reader could not split; they are skipped.
	Errors []*parsererror.RowError
}

// ReadTable splits text into a header and data rows. Quoting is lenient and records may
// have a varying number of fields. Only a missing header is fatal.
func ReadTable(text string, delimiter rune) (*Table, error) {
	text = textenc.StripBOM(text)
	if strings.TrimSpace(text) == "" {
		return nil, parsererror.ErrEmptyFile
	}

	reader := csv.NewReader(strings.NewReader(text))
	reader.Comma = delimiter
	reader.LazyQuotes = true
	reader.FieldsPerRecord = -1

	header, err := reader.Read()
	if err != nil {
		return nil, &parsererror.InvalidFormatError{
			Msg:            "cannot read header line",
			ExpectedFormat: "delimited text with a header line",
			Err:            err,
		}
	}

	table := &Table{Headers: cleanHeaders(header)}
	line := 1
	for {
		record, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		line++
		if err != nil {
			table.Errors = append(table.Errors, &parsererror.RowError{Row: line, Err: fmt.Errorf("reading record: %w", err)})
			continue
		}
		if isBlank(record) {
			continue
		}
		table.Rows = append(table.Rows, NewRawRow(line, table.Headers, record))
	}
	return table, nil
}

func cleanHeaders(header []string) []string {
	out := make([]string, len(header))
	for i, h := range header {
		out[i] = strings.TrimSpace(textenc.StripBOM(h))
	}
	return out
}

func isBlank(record []string) bool {
	for _, v := range record {
		if strings.TrimSpace(v) != "" {
			return false
		}
	}
	return true
}
