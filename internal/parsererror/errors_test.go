package parsererror

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseError(t *testing.T) {
	inner := errors.New("bad digit")
	err := &ParseError{Parser: "rowparser", Field: "amount", Value: "12x", Err: inner}

	assert.Equal(t, "rowparser: failed to parse amount='12x': bad digit", err.Error())
	assert.ErrorIs(t, err, inner)
}

func TestRowError(t *testing.T) {
	inner := errors.New("index out of range")
	err := &RowError{Row: 4, Err: inner}

	assert.Equal(t, "row 4: index out of range", err.Error())
	assert.ErrorIs(t, err, inner)
}

func TestInvalidFormatError(t *testing.T) {
	tests := []struct {
		name string
		err  *InvalidFormatError
		want string
	}{
		{
			name: "with expected format",
			err:  &InvalidFormatError{Source: "releve.csv", Msg: "missing header", ExpectedFormat: "delimited text"},
			want: "invalid format in 'releve.csv': missing header. Expected: delimited text",
		},
		{
			name: "anonymous source",
			err:  &InvalidFormatError{Msg: "empty"},
			want: "invalid format in '<input>': empty",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.err.Error())
		})
	}
}

func TestIsFileLevel(t *testing.T) {
	assert.True(t, IsFileLevel(&InvalidFormatError{Msg: "x", Err: ErrNoAmountStrategy}))
	assert.True(t, IsFileLevel(fmt.Errorf("wrapped: %w", ErrEmptyFile)))
	assert.True(t, IsFileLevel(&EmptyImportError{Rows: 3}))
	assert.False(t, IsFileLevel(&RowError{Row: 2, Err: errors.New("x")}))
	assert.False(t, IsFileLevel(nil))
}
