package common

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"fjacquet/ledger-import/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestReadInput(t *testing.T) {
	path := filepath.Join(t.TempDir(), "in.csv")
	require.NoError(t, os.WriteFile(path, []byte("a,b\n"), 0600))

	data, err := ReadInput(path, nil)
	require.NoError(t, err)
	assert.Equal(t, "a,b\n", string(data))

	data, err = ReadInput("-", strings.NewReader("from stdin"))
	require.NoError(t, err)
	assert.Equal(t, "from stdin", string(data))

	_, err = ReadInput("", nil)
	assert.Error(t, err)
	_, err = ReadInput(filepath.Join(t.TempDir(), "missing.csv"), nil)
	assert.Error(t, err)
}

func TestParseMappingFlag(t *testing.T) {
	m, err := ParseMappingFlag("")
	require.NoError(t, err)
	assert.Nil(t, m)

	m, err = ParseMappingFlag(`{"date":"when","amount":"howmuch"}`)
	require.NoError(t, err)
	header, ok := m.Header(models.FieldAmount)
	assert.True(t, ok)
	assert.Equal(t, "howmuch", header)

	path := filepath.Join(t.TempDir(), "mapping.json")
	require.NoError(t, os.WriteFile(path, []byte(`{"description":"what"}`), 0600))
	m, err = ParseMappingFlag(path)
	require.NoError(t, err)
	assert.True(t, m.Has(models.FieldDescription))

	_, err = ParseMappingFlag(`{"memo":"x"}`)
	assert.Error(t, err)
}

func TestParseDelimiterFlag(t *testing.T) {
	tests := []struct {
		raw     string
		want    rune
		wantErr bool
	}{
		{"", 0, false},
		{";", ';', false},
		{"tab", '\t', false},
		{";;", 0, true},
	}
	for _, tt := range tests {
		got, err := ParseDelimiterFlag(tt.raw)
		if tt.wantErr {
			assert.Error(t, err, tt.raw)
			continue
		}
		require.NoError(t, err)
		assert.Equal(t, tt.want, got)
	}
}

func TestOpenOutput(t *testing.T) {
	var stdout bytes.Buffer
	w, closeFn, err := OpenOutput("", &stdout)
	require.NoError(t, err)
	require.NoError(t, WriteJSON(w, map[string]int{"imported": 1}))
	require.NoError(t, closeFn())
	assert.JSONEq(t, `{"imported":1}`, stdout.String())

	path := filepath.Join(t.TempDir(), "out", "result.json")
	w, closeFn, err = OpenOutput(path, &stdout)
	require.NoError(t, err)
	require.NoError(t, WriteJSON(w, []string{"a"}))
	require.NoError(t, closeFn())
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.JSONEq(t, `["a"]`, string(data))
}
