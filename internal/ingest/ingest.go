package ingest

import (
	"context"
	"errors"
	"fmt"
	"time"

	"fjacquet/ledger-import/internal/columnmap"
	"fjacquet/ledger-import/internal/logging"
	"fjacquet/ledger-import/internal/models"
	"fjacquet/ledger-import/internal/parsererror"
	"fjacquet/ledger-import/internal/rules"
	"fjacquet/ledger-import/internal/store"
)

// Options describes one ingestion request.
type Options struct {
	OwnerID string
	// AccountID enables account-scoped deduplication by external id.
	AccountID    string
	ConnectionID string
	// Mapping overrides column detection when set.
	Mapping *columnmap.Mapping
	// Delimiter overrides detection when non-zero.
	Delimiter rune
	// DefaultCategoryID is assigned when no rule matches.
	DefaultCategoryID string
}

// Ingest parses data and stores every transaction not already present for the owner.
//
// File-level problems (empty file, no header, no amount column, nothing parseable,
// rules unavailable) are returned as errors with no result. Per-transaction store
// failures are recorded in Result.Errors and processing continues. When ctx is done
// mid-file the partial result is returned with the context error; inserted
// transactions stay stored.
func (c *Coordinator) Ingest(ctx context.Context, data []byte, opts Options) (*Result, error) {
	start := time.Now()
	logger := c.logger.WithFields(
		logging.F(logging.FieldOwner, opts.OwnerID),
		logging.F(logging.FieldAccount, opts.AccountID))

	outcome, err := c.Parse(data, opts.Mapping, opts.Delimiter)
	if err != nil {
		return nil, err
	}
	if len(outcome.Transactions) == 0 {
		return nil, &parsererror.EmptyImportError{Rows: outcome.TotalRows}
	}

	engine, err := c.engine(ctx, opts.OwnerID)
	if err != nil {
		return nil, err
	}

	result := newResult()
	result.RowErrors = outcome.RowErrors
	for _, tx := range outcome.Transactions {
		if err := ctx.Err(); err != nil {
			return result, fmt.Errorf("ingestion interrupted after %d transactions: %w", result.TotalProcessed, err)
		}

		ct := c.categorize(engine, tx, opts)
		if opts.AccountID != "" {
			ct.ExternalID = ExternalID(opts.AccountID, tx.Date, tx.Amount, tx.Description, c.config.DescriptionPrefixLen)
		}
		c.save(ctx, ct, fileDedupFilter(ct), result, logger)
	}

	logger.Info("Import finished",
		logging.F(logging.FieldBank, string(outcome.Bank)),
		logging.F(logging.FieldImported, result.Imported),
		logging.F(logging.FieldSkipped, result.Skipped),
		logging.F(logging.FieldErrors, len(result.Errors)),
		logging.F(logging.FieldDuration, time.Since(start).Milliseconds()))
	return result, nil
}

func (c *Coordinator) categorize(engine *rules.Engine, tx models.ParsedTransaction, opts Options) models.CategorizedTransaction {
	ct := models.CategorizedTransaction{
		ParsedTransaction: tx,
		OwnerID:           opts.OwnerID,
		AccountID:         opts.AccountID,
		ConnectionID:      opts.ConnectionID,
		CategoryID:        opts.DefaultCategoryID,
	}
	if category, ok := engine.Categorize(tx.Description, tx.Date); ok {
		ct.CategoryID = category
	}
	return ct
}

// fileDedupFilter matches by external id within the account when there is one, and by
// content (date, description, amount) otherwise.
func fileDedupFilter(tx models.CategorizedTransaction) store.Filter {
	if tx.AccountID != "" {
		return store.Filter{
			"user_id":         tx.OwnerID,
			"bank_account_id": tx.AccountID,
			"external_id":     tx.ExternalID,
		}
	}
	return store.Filter{
		"user_id":     tx.OwnerID,
		"date":        tx.Date.Format(models.DateLayout),
		"description": tx.Description,
		"amount":      models.AmountString(tx.Amount),
	}
}

// save looks tx up with filter and inserts it when absent, recording the outcome in result.
func (c *Coordinator) save(ctx context.Context, tx models.CategorizedTransaction, filter store.Filter, result *Result, logger logging.Logger) {
	result.TotalProcessed++

	_, err := c.store.FindOne(ctx, models.CollectionTransactions, filter)
	switch {
	case err == nil:
		result.Skipped++
		logger.Debug("Skipping duplicate transaction",
			logging.F(logging.FieldRow, tx.Row),
			logging.F(logging.FieldExternalID, tx.ExternalID))
		return
	case !errors.Is(err, store.ErrNotFound):
		result.fail(tx.Description, fmt.Errorf("checking for duplicate: %w", err))
		logger.WithError(err).Warn("Duplicate lookup failed", logging.F(logging.FieldRow, tx.Row))
		return
	}

	if _, err := c.store.InsertOne(ctx, models.CollectionTransactions, tx.Document(c.now())); err != nil {
		result.fail(tx.Description, fmt.Errorf("storing transaction: %w", err))
		logger.WithError(err).Warn("Insert failed", logging.F(logging.FieldRow, tx.Row))
		return
	}
	result.Imported++
}
