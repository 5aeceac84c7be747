// Package columnmap resolves semantic transaction fields to the header names of a statement file.
package columnmap

import (
	"encoding/json"
	"fmt"
	"strings"

	"fjacquet/ledger-import/internal/models"
)

// AmountStrategy is how a row's amount is read.
type AmountStrategy int

const (
	// AmountNone means no amount can be read; every row would be dropped.
	AmountNone AmountStrategy = iota
	// AmountSingle reads one signed amount column.
	AmountSingle
	// AmountDebitCredit reads separate debit and credit columns.
	AmountDebitCredit
)

func (s AmountStrategy) String() string {
	switch s {
	case AmountSingle:
		return "amount"
	case AmountDebitCredit:
		return "debit/credit"
	default:
		return "none"
	}
}

// Mapping maps semantic fields to source header names. It is immutable once built.
type Mapping struct {
	headers map[models.Field]string
}

// NewMapping copies fields, ignoring blank header names.
func NewMapping(fields map[models.Field]string) Mapping {
	headers := make(map[models.Field]string, len(fields))
	for f, h := range fields {
		if strings.TrimSpace(h) == "" {
			continue
		}
		headers[f] = h
	}
	return Mapping{headers: headers}
}

// ParseMapping builds a Mapping from field names ("date", "amount", ...) to headers,
// the shape callers use to override detection.
func ParseMapping(raw map[string]string) (Mapping, error) {
	fields := make(map[models.Field]string, len(raw))
	for name, header := range raw {
		f, err := models.ParseField(strings.ToLower(strings.TrimSpace(name)))
		if err != nil {
			return Mapping{}, err
		}
		fields[f] = header
	}
	return NewMapping(fields), nil
}

// ParseMappingJSON decodes a JSON object such as {"date":"Date","amount":"Montant"}.
func ParseMappingJSON(data []byte) (Mapping, error) {
	var raw map[string]string
	if err := json.Unmarshal(data, &raw); err != nil {
		return Mapping{}, fmt.Errorf("decoding column mapping: %w", err)
	}
	return ParseMapping(raw)
}

// Header returns the header mapped to f.
func (m Mapping) Header(f models.Field) (string, bool) {
	h, ok := m.headers[f]
	return h, ok
}

// Has reports whether f is mapped.
func (m Mapping) Has(f models.Field) bool {
	_, ok := m.headers[f]
	return ok
}

// Len returns the number of mapped fields.
func (m Mapping) Len() int {
	return len(m.headers)
}

// Strategy tells how amounts are resolved. A single amount column takes precedence
// over debit/credit columns.
func (m Mapping) Strategy() AmountStrategy {
	if m.Has(models.FieldAmount) {
		return AmountSingle
	}
	if m.Has(models.FieldDebit) || m.Has(models.FieldCredit) {
		return AmountDebitCredit
	}
	return AmountNone
}

// Restrict drops fields whose header is not in headers.
func (m Mapping) Restrict(headers []string) Mapping {
	present := make(map[string]struct{}, len(headers))
	for _, h := range headers {
		present[h] = struct{}{}
	}
	kept := make(map[models.Field]string, len(m.headers))
	for f, h := range m.headers {
		if _, ok := present[h]; ok {
			kept[f] = h
		}
	}
	return Mapping{headers: kept}
}

// ToMap renders the mapping with field names as keys.
func (m Mapping) ToMap() map[string]string {
	out := make(map[string]string, len(m.headers))
	for f, h := range m.headers {
		out[f.String()] = h
	}
	return out
}

func (m Mapping) MarshalJSON() ([]byte, error) {
	return json.Marshal(m.ToMap())
}

func (m Mapping) String() string {
	parts := make([]string, 0, len(m.headers))
	for _, f := range models.Fields {
		if h, ok := m.headers[f]; ok {
			parts = append(parts, f.String()+"="+h)
		}
	}
	return strings.Join(parts, ",")
}
