package bankformat

import (
	"testing"

	"fjacquet/ledger-import/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRecognize(t *testing.T) {
	tests := []struct {
		name    string
		headers []string
		want    ID
	}{
		{
			name: "boursobank export",
			headers: []string{"dateOp", "dateVal", "label", "category", "categoryParent", "supplierFound",
				"amount", "comment", "accountNum", "accountLabel", "accountbalance"},
			want: Boursobank,
		},
		{
			name:    "cic export",
			headers: []string{"Date", "Date de valeur", "Libellé", "Débit", "Crédit", "Solde"},
			want:    CIC,
		},
		{
			name:    "cic with four of five signature headers",
			headers: []string{"Date", "Libellé", "Débit", "Crédit"},
			want:    CIC,
		},
		{
			name:    "cic with only three signature headers",
			headers: []string{"Date", "Libellé", "Débit"},
			want:    Unknown,
		},
		{
			name:    "header order is irrelevant",
			headers: []string{"categoryParent", "accountLabel", "dateVal", "dateOp"},
			want:    Boursobank,
		},
		{
			name:    "case sensitive",
			headers: []string{"dateop", "dateval", "accountlabel", "categoryparent"},
			want:    Unknown,
		},
		{
			name:    "arbitrary headers",
			headers: []string{"Date", "Description", "Amount"},
			want:    Unknown,
		},
	}
	reg := Default()
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, reg.Recognize(tt.headers))
		})
	}
}

func TestRecognize_FirstRegisteredWins(t *testing.T) {
	reg := NewRegistry()
	reg.Register(Format{ID: "first", Signature: Signature{Headers: []string{"a"}}})
	reg.Register(Format{ID: "second", Signature: Signature{Headers: []string{"a", "b"}}})

	assert.Equal(t, ID("first"), reg.Recognize([]string{"a", "b"}))
}

func TestLookup(t *testing.T) {
	reg := Default()

	f, ok := reg.Lookup(CIC)
	require.True(t, ok)
	assert.Equal(t, "Débit", f.Preset[models.FieldDebit])
	assert.Equal(t, "CIC", f.Name)

	_, ok = reg.Lookup(Unknown)
	assert.False(t, ok)
}

func TestRegister_Duplicate(t *testing.T) {
	reg := NewRegistry()
	reg.Register(Format{ID: "x"})
	assert.Panics(t, func() { reg.Register(Format{ID: "x"}) })
	assert.Panics(t, func() { reg.Register(Format{ID: Unknown}) })
}
