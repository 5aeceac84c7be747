// Package store is the document store the ingestion pipeline persists into.
//
// The pipeline only needs equality lookups, inserts and counts, so every backend
// implements the same small contract and no multi-document atomicity is assumed.
package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
)

// IDField is the document key holding the store-assigned identifier.
const IDField = "_id"

// ErrNotFound is returned by FindOne when no document matches.
var ErrNotFound = errors.New("document not found")

// Document is a schemaless record.
type Document = map[string]interface{}

// Filter selects documents whose fields equal every given value.
type Filter map[string]interface{}

// Store is the persistence contract consumed by the ingestion pipeline.
type Store interface {
	// FindOne returns the first matching document in insertion order, or ErrNotFound.
	FindOne(ctx context.Context, collection string, filter Filter) (Document, error)
	// Find returns every matching document in insertion order.
	Find(ctx context.Context, collection string, filter Filter) ([]Document, error)
	// InsertOne stores doc and returns its identifier.
	InsertOne(ctx context.Context, collection string, doc Document) (string, error)
	// Count returns the number of matching documents.
	Count(ctx context.Context, collection string, filter Filter) (int64, error)
	Close() error
}

// Decode converts a document into a typed value through its JSON form.
func Decode(doc Document, out interface{}) error {
	data, err := json.Marshal(doc)
	if err != nil {
		return fmt.Errorf("encoding document: %w", err)
	}
	if err := json.Unmarshal(data, out); err != nil {
		return fmt.Errorf("decoding document: %w", err)
	}
	return nil
}

// Encode converts a typed value into a document through its JSON form.
func Encode(in interface{}) (Document, error) {
	data, err := json.Marshal(in)
	if err != nil {
		return nil, fmt.Errorf("encoding value: %w", err)
	}
	var doc Document
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("decoding value: %w", err)
	}
	return doc, nil
}
