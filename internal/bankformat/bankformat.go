// Package bankformat recognizes known bank export layouts from their header line.
//
// Generic keyword matching cannot tell banks apart reliably (one bank's "category"
// column is a merchant category assigned by the bank, another has none), so known
// layouts are identified by an exact header signature and mapped through a fixed preset.
package bankformat

import (
	"fmt"

	"fjacquet/ledger-import/internal/models"
)

// ID identifies a bank layout.
type ID string

// Unknown is returned when no registered signature matches.
const Unknown ID = "unknown"

// Built-in layouts.
const (
	Boursobank ID = "boursobank"
	CIC        ID = "cic"
)

// Signature is the minimum set of exact, case-sensitive header names of a layout.
// MinMatches of zero requires every header; otherwise at least MinMatches must be present.
type Signature struct {
	Headers    []string
	MinMatches int
}

// Matches reports whether the observed header set satisfies the signature.
func (s Signature) Matches(headers map[string]struct{}) bool {
	found := 0
	for _, h := range s.Headers {
		if _, ok := headers[h]; ok {
			found++
		}
	}
	required := s.MinMatches
	if required <= 0 || required > len(s.Headers) {
		required = len(s.Headers)
	}
	return found >= required
}

// Format describes one bank's export layout.
type Format struct {
	ID        ID
	Name      string
	Signature Signature
	// Preset maps semantic fields to the layout's header names.
	Preset    map[models.Field]string
}

// Registry holds formats in registration order; the first match wins.
type Registry struct {
	formats []Format
	byID    map[ID]int
}

// NewRegistry returns an empty registry.
func NewRegistry() *Registry {
	return &Registry{byID: make(map[ID]int)}
}

// Register appends a format. Panics on a duplicate or reserved ID.
func (r *Registry) Register(f Format) {
	if f.ID == "" || f.ID == Unknown {
		panic(fmt.Sprintf("bankformat: invalid format id %q", f.ID))
	}
	if _, ok := r.byID[f.ID]; ok {
		panic("bankformat: duplicate format " + string(f.ID))
	}
	r.byID[f.ID] = len(r.formats)
	r.formats = append(r.formats, f)
}

// Lookup returns the format registered under id.
func (r *Registry) Lookup(id ID) (Format, bool) {
	i, ok := r.byID[id]
	if !ok {
		return Format{}, false
	}
	return r.formats[i], true
}

// Formats returns the registered formats in order.
func (r *Registry) Formats() []Format {
	out := make([]Format, len(r.formats))
	copy(out, r.formats)
	return out
}

// Recognize returns the ID of the first format whose signature is satisfied by headers.
func (r *Registry) Recognize(headers []string) ID {
	set := make(map[string]struct{}, len(headers))
	for _, h := range headers {
		set[h] = struct{}{}
	}
	for _, f := range r.formats {
		if f.Signature.Matches(set) {
			return f.ID
		}
	}
	return Unknown
}

// Default returns a registry with the built-in bank layouts.
func Default() *Registry {
	r := NewRegistry()
	r.Register(Format{
		ID:   Boursobank,
		Name: "BoursoBank",
		Signature: Signature{
			Headers: []string{"dateOp", "dateVal", "accountLabel", "categoryParent"},
		},
		Preset: map[models.Field]string{
			models.FieldDate:        "dateOp",
			models.FieldDescription: "label",
			models.FieldAmount:      "amount",
			models.FieldAccount:     "accountNum",
			models.FieldCategory:    "category",
		},
	})
	r.Register(Format{
		ID:   CIC,
		Name: "CIC",
		Signature: Signature{
			Headers:    []string{"Date", "Date de valeur", "Libellé", "Débit", "Crédit"},
			MinMatches: 4,
		},
		Preset: map[models.Field]string{
			models.FieldDate:        "Date",
			models.FieldDescription: "Libellé",
			models.FieldDebit:       "Débit",
			models.FieldCredit:      "Crédit",
		},
	})
	return r
}
