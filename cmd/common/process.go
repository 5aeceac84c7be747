// Package common contains shared functionality for command handlers
package common

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"fjacquet/ledger-import/internal/columnmap"
	"fjacquet/ledger-import/internal/delimiter"
)

// ReadInput reads the statement file at path, or stdin when path is "-".
func ReadInput(path string, stdin io.Reader) ([]byte, error) {
	if path == "" {
		return nil, fmt.Errorf("an input file is required (--input)")
	}
	if path == "-" {
		data, err := io.ReadAll(stdin)
		if err != nil {
			return nil, fmt.Errorf("reading stdin: %w", err)
		}
		return data, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading input file: %w", err)
	}
	return data, nil
}

// ParseMappingFlag reads an explicit column mapping given inline as JSON
// ({"date":"Date","amount":"Montant"}) or as the path of a JSON file.
// An empty flag means "detect".
func ParseMappingFlag(raw string) (*columnmap.Mapping, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil, nil
	}

	data := []byte(raw)
	if !strings.HasPrefix(raw, "{") {
		var err error
		data, err = os.ReadFile(raw)
		if err != nil {
			return nil, fmt.Errorf("reading mapping file: %w", err)
		}
	}

	m, err := columnmap.ParseMappingJSON(data)
	if err != nil {
		return nil, fmt.Errorf("invalid column mapping: %w", err)
	}
	return &m, nil
}

// ParseDelimiterFlag reads a delimiter flag; empty means "detect" and yields 0.
func ParseDelimiterFlag(raw string) (rune, error) {
	r, ok := delimiter.Parse(raw)
	if !ok {
		return 0, fmt.Errorf("invalid delimiter %q: expected a single character or \"tab\"", raw)
	}
	return r, nil
}

// OpenOutput returns a writer for path, or stdout when path is empty or "-".
// The returned close function must be called once writing is done.
func OpenOutput(path string, stdout io.Writer) (io.Writer, func() error, error) {
	if path == "" || path == "-" {
		return stdout, func() error { return nil }, nil
	}
	if err := os.MkdirAll(filepath.Dir(path), 0750); err != nil {
		return nil, nil, fmt.Errorf("error creating directory: %w", err)
	}
	f, err := os.Create(path)
	if err != nil {
		return nil, nil, fmt.Errorf("error creating output file: %w", err)
	}
	return f, f.Close, nil
}

// WriteJSON writes v as indented JSON followed by a newline.
func WriteJSON(w io.Writer, v interface{}) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(v); err != nil {
		return fmt.Errorf("encoding output: %w", err)
	}
	return nil
}

// WriteJSONTo writes v as JSON to output, or stdout when output is empty.
func WriteJSONTo(output string, stdout io.Writer, v interface{}) error {
	w, closeFn, err := OpenOutput(output, stdout)
	if err != nil {
		return err
	}
	if err := WriteJSON(w, v); err != nil {
		_ = closeFn()
		return err
	}
	return closeFn()
}
