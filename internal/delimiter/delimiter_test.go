package delimiter

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDetector_Detect(t *testing.T) {
	tests := []struct {
		name string
		text string
		want rune
	}{
		{name: "semicolon", text: "dateOp;dateVal;label;amount\n01/01/2025;01/01/2025;A,B;1,00", want: ';'},
		{name: "comma", text: "Date,Description,Amount\n", want: ','},
		{name: "tab", text: "Date\tDescription\tAmount", want: '\t'},
		{name: "pipe", text: "Date|Description|Amount", want: '|'},
		{name: "no delimiter falls back to comma", text: "Date\n1;2;3;4", want: ','},
		{name: "tie goes to declaration order", text: "a,b;c", want: ','},
		{name: "data rows ignored", text: "a;b\nx,y,z,w,v", want: ';'},
		{name: "empty", text: "", want: ','},
	}
	d := Default()
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, d.Detect(tt.text))
		})
	}
}

func TestDetector_CustomCandidates(t *testing.T) {
	d := Detector{Candidates: []rune{'|', ','}}
	assert.Equal(t, '|', d.Detect("a|b,c"))
}

func TestParse(t *testing.T) {
	r, ok := Parse(";")
	assert.True(t, ok)
	assert.Equal(t, ';', r)

	r, ok = Parse("tab")
	assert.True(t, ok)
	assert.Equal(t, '\t', r)

	r, ok = Parse("")
	assert.True(t, ok)
	assert.Equal(t, rune(0), r)

	_, ok = Parse(";;")
	assert.False(t, ok)
}

func TestName(t *testing.T) {
	assert.Equal(t, "tab", Name('\t'))
	assert.Equal(t, ";", Name(';'))
}
