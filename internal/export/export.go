// Package export writes transactions as CSV for review outside the store.
package export

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"fjacquet/ledger-import/internal/logging"
	"fjacquet/ledger-import/internal/models"

	"github.com/gocarina/gocsv"
)

// Row is the CSV layout of an exported transaction.
type Row struct {
	Date        string `csv:"date"`
	Description string `csv:"description"`
	Amount      string `csv:"amount"`
	Type        string `csv:"type"`
	CategoryID  string `csv:"category_id"`
	ExternalID  string `csv:"external_id"`
	SourceRow   int    `csv:"row"`
}

// Rows converts transactions to export rows, amounts with two decimals.
func Rows(txs []models.CategorizedTransaction) []Row {
	out := make([]Row, 0, len(txs))
	for _, tx := range txs {
		out = append(out, Row{
			Date:        tx.Date.Format(models.DateLayout),
			Description: tx.Description,
			Amount:      models.AmountString(tx.Amount),
			Type:        string(tx.Direction),
			CategoryID:  tx.CategoryID,
			ExternalID:  tx.ExternalID,
			SourceRow:   tx.Row,
		})
	}
	return out
}

// Write marshals txs to w with a header line.
func Write(w io.Writer, txs []models.CategorizedTransaction, delimiter rune) error {
	if txs == nil {
		return fmt.Errorf("cannot write nil transactions to CSV")
	}
	if delimiter == 0 {
		delimiter = ','
	}

	csvWriter := csv.NewWriter(w)
	csvWriter.Comma = delimiter
	if err := gocsv.MarshalCSV(Rows(txs), gocsv.NewSafeCSVWriter(csvWriter)); err != nil {
		return fmt.Errorf("error writing CSV data: %w", err)
	}
	return nil
}

// WriteFile writes txs to path, creating parent directories as needed.
func WriteFile(path string, txs []models.CategorizedTransaction, delimiter rune, logger logging.Logger) error {
	if logger == nil {
		logger = logging.Nop()
	}
	logger.Info("Writing transactions to CSV file",
		logging.F(logging.FieldFile, path),
		logging.F(logging.FieldCount, len(txs)))

	if err := os.MkdirAll(filepath.Dir(path), 0750); err != nil {
		return fmt.Errorf("error creating directory: %w", err)
	}
	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("error creating CSV file: %w", err)
	}
	defer func() {
		if err := file.Close(); err != nil {
			logger.WithError(err).Warn("Failed to close file")
		}
	}()

	return Write(file, txs, delimiter)
}
