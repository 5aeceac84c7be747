package textenc

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDetect(t *testing.T) {
	tests := []struct {
		name string
		data []byte
		want Encoding
	}{
		{name: "ascii", data: []byte("Date;Libelle\n"), want: UTF8},
		{name: "utf-8 accents", data: []byte("Libellé;Débit\n"), want: UTF8},
		{name: "latin-1 accents", data: []byte{'L', 'i', 'b', 'e', 'l', 'l', 0xE9, ';', 'D', 0xE9, 'b', 'i', 't'}, want: Latin1},
		{name: "empty", data: []byte{}, want: UTF8},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Detect(tt.data))
		})
	}
}

func TestDecode_Latin1(t *testing.T) {
	data := []byte{'L', 'i', 'b', 'e', 'l', 'l', 0xE9, ';', 'C', 'r', 0xE9, 'd', 'i', 't'}

	text, enc, err := Decode(data)
	require.NoError(t, err)
	assert.Equal(t, Latin1, enc)
	assert.Equal(t, "Libellé;Crédit", text)
}

func TestDecode_StripsBOM(t *testing.T) {
	text, enc, err := Decode([]byte("\xef\xbb\xbfdateOp;label\n"))
	require.NoError(t, err)
	assert.Equal(t, UTF8, enc)
	assert.Equal(t, "dateOp;label\n", text)
}

func TestDecodeAs(t *testing.T) {
	// 0x80 is the euro sign in Windows-1252 and a control character in Latin-1.
	text, err := DecodeAs([]byte{0x80, '1', '0'}, Windows1252)
	require.NoError(t, err)
	assert.Equal(t, "€10", text)

	_, err = DecodeAs([]byte("x"), Encoding("ebcdic"))
	assert.Error(t, err)
}
