// Package models holds the value types that flow through the ingestion pipeline.
package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Direction tells whether money came in or went out. Amounts are never stored negative.
type Direction string

const (
	DirectionIncome  Direction = "income"
	DirectionExpense Direction = "expense"
)

// DirectionOf derives the direction from a signed amount. Zero counts as expense.
func DirectionOf(signed decimal.Decimal) Direction {
	if signed.IsPositive() {
		return DirectionIncome
	}
	return DirectionExpense
}

// ParsedTransaction is one statement row after date and amount parsing.
type ParsedTransaction struct {
	Date        time.Time       `json:"date"`
	Description string          `json:"description"`
	Amount      decimal.Decimal `json:"amount"`
	Direction   Direction       `json:"type"`
	// Row is the 1-based line of the source file, header included.
	Row int `json:"csv_row,omitempty"`
}

// SignedAmount returns the amount negated for expenses.
func (t ParsedTransaction) SignedAmount() decimal.Decimal {
	if t.Direction == DirectionExpense {
		return t.Amount.Neg()
	}
	return t.Amount
}

// CategorizedTransaction is a parsed transaction ready to be persisted.
type CategorizedTransaction struct {
	ParsedTransaction
	CategoryID   string
	ExternalID   string
	OwnerID      string
	AccountID    string
	ConnectionID string
}

// AmountString renders the amount the way it is persisted and compared for deduplication.
func AmountString(amount decimal.Decimal) string {
	return amount.StringFixed(2)
}

// Document renders the transaction as a store document.
func (t CategorizedTransaction) Document(now time.Time) map[string]interface{} {
	doc := map[string]interface{}{
		"user_id":     t.OwnerID,
		"date":        t.Date.Format(DateLayout),
		"description": t.Description,
		"amount":      AmountString(t.Amount),
		"type":        string(t.Direction),
		"created_at":  now.UTC().Format(time.RFC3339),
		"updated_at":  now.UTC().Format(time.RFC3339),
	}
	if t.CategoryID != "" {
		doc["category_id"] = t.CategoryID
	}
	if t.ExternalID != "" {
		doc["external_id"] = t.ExternalID
	}
	if t.AccountID != "" {
		doc["bank_account_id"] = t.AccountID
	}
	if t.ConnectionID != "" {
		doc["bank_connection_id"] = t.ConnectionID
	}
	return doc
}
