// Package textenc turns raw statement bytes into text.
//
// Bank exports arrive as UTF-8 (often with a byte-order mark) or as a single-byte
// Western European code page. Detection never fails: Latin-1 maps every byte.
package textenc

import (
	"fmt"
	"strings"
	"unicode/utf8"

	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/charmap"
)

// Encoding is the label of a detected character encoding.
type Encoding string

const (
	UTF8        Encoding = "utf-8"
	Latin1      Encoding = "latin-1"
	Windows1252 Encoding = "windows-1252"
)

const bom = "\ufeff"

// Detect returns the first encoding of the fallback chain that decodes data.
func Detect(data []byte) Encoding {
	if utf8.Valid(data) {
		return UTF8
	}
	if _, err := charmap.ISO8859_1.NewDecoder().Bytes(data); err == nil {
		return Latin1
	}
	return Windows1252
}

// Decode converts data to a string using the detected encoding and strips a leading byte-order mark.
func Decode(data []byte) (string, Encoding, error) {
	enc := Detect(data)
	text, err := DecodeAs(data, enc)
	if err != nil {
		return "", enc, err
	}
	return text, enc, nil
}

// DecodeAs converts data using an explicit encoding label.
func DecodeAs(data []byte, enc Encoding) (string, error) {
	var text string
	switch enc {
	case UTF8:
		text = string(data)
	case Latin1:
		out, err := decodeWith(charmap.ISO8859_1, data)
		if err != nil {
			return "", err
		}
		text = out
	case Windows1252:
		out, err := decodeWith(charmap.Windows1252, data)
		if err != nil {
			return "", err
		}
		text = out
	default:
		return "", fmt.Errorf("unsupported encoding %q", enc)
	}
	return StripBOM(text), nil
}

func decodeWith(enc encoding.Encoding, data []byte) (string, error) {
	out, err := enc.NewDecoder().Bytes(data)
	if err != nil {
		return "", fmt.Errorf("decoding %s: %w", enc, err)
	}
	return string(out), nil
}

// StripBOM removes a leading byte-order mark.
func StripBOM(text string) string {
	return strings.TrimPrefix(text, bom)
}
