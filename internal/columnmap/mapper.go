package columnmap

import (
	"fjacquet/ledger-import/internal/bankformat"
	"fjacquet/ledger-import/internal/models"
)

// Mapper builds a Mapping from a header line.
type Mapper struct {
	keywords Keywords
	formats  *bankformat.Registry
}

// NewMapper returns a Mapper using kw for generic detection and formats for bank presets.
func NewMapper(kw Keywords, formats *bankformat.Registry) *Mapper {
	if formats == nil {
		formats = bankformat.Default()
	}
	return &Mapper{keywords: kw, formats: formats}
}

// Map uses the preset of a recognized bank, restricted to the headers actually present,
// and falls back to keyword detection for unknown layouts.
func (m *Mapper) Map(headers []string, bank bankformat.ID) Mapping {
	if bank != bankformat.Unknown {
		if f, ok := m.formats.Lookup(bank); ok {
			return NewMapping(f.Preset).Restrict(headers)
		}
	}
	return m.Generic(headers)
}

// Generic matches normalized headers against the keyword lists. The amount column is
// searched first; debit and credit columns are only looked up when there is none.
func (m *Mapper) Generic(headers []string) Mapping {
	normalized := make(map[string]string, len(headers))
	for _, h := range headers {
		key := Normalize(h)
		if _, seen := normalized[key]; !seen {
			normalized[key] = h
		}
	}

	fields := make(map[models.Field]string)
	find := func(f models.Field) bool {
		for _, kw := range m.keywords.For(f) {
			if h, ok := normalized[Normalize(kw)]; ok {
				fields[f] = h
				return true
			}
		}
		return false
	}

	find(models.FieldDate)
	find(models.FieldDescription)
	if !find(models.FieldAmount) {
		find(models.FieldDebit)
		find(models.FieldCredit)
	}
	find(models.FieldAccount)
	find(models.FieldCategory)

	return NewMapping(fields)
}
