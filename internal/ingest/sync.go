package ingest

import (
	"context"
	"errors"
	"fmt"
	"time"

	"fjacquet/ledger-import/internal/connector"
	"fjacquet/ledger-import/internal/logging"
	"fjacquet/ledger-import/internal/models"
	"fjacquet/ledger-import/internal/store"
)

// SyncOptions describes a connector synchronization.
type SyncOptions struct {
	OwnerID      string
	ConnectionID string
	Username     string
	Password     string
	// DefaultCategoryID is assigned when no rule matches.
	DefaultCategoryID string
}

// SyncResult summarizes a synchronization.
type SyncResult struct {
	Result
	Accounts int `json:"updated_accounts"`
	// Error is set when the bank refused the login; no data was fetched.
	Error string `json:"error,omitempty"`
}

// Sync pulls every account and transaction from conn and stores the new ones.
// Records go through the same rules as file imports. Deduplication uses
// {user_id, bank_connection_id, external_id} with the connector external id.
func (c *Coordinator) Sync(ctx context.Context, conn connector.Connector, opts SyncOptions) (*SyncResult, error) {
	start := time.Now()
	logger := c.logger.WithFields(
		logging.F(logging.FieldOwner, opts.OwnerID),
		logging.F(logging.FieldConnector, opts.ConnectionID))
	defer func() {
		if err := conn.Close(); err != nil {
			logger.WithError(err).Warn("Failed to close connector")
		}
	}()

	out := &SyncResult{Result: *newResult()}
	if err := conn.Login(ctx, opts.Username, opts.Password); err != nil {
		if errors.Is(err, connector.ErrInvalidCredentials) {
			out.Success = false
			out.Error = "login failed: invalid credentials"
			return out, nil
		}
		return nil, fmt.Errorf("connector login: %w", err)
	}

	accounts, err := conn.Accounts(ctx)
	if err != nil {
		return nil, fmt.Errorf("listing accounts: %w", err)
	}
	engine, err := c.engine(ctx, opts.OwnerID)
	if err != nil {
		return nil, err
	}

	for _, account := range accounts {
		if err := c.saveAccount(ctx, account, opts); err != nil {
			return out, err
		}
		out.Accounts++

		records, err := conn.Transactions(ctx, account.ID)
		if err != nil {
			return out, fmt.Errorf("fetching transactions of %s: %w", account.ID, err)
		}
		for _, rec := range records {
			if err := ctx.Err(); err != nil {
				return out, fmt.Errorf("sync interrupted: %w", err)
			}
			tx := models.ParsedTransaction{
				Date:        rec.Date,
				Description: rec.Description,
				Amount:      rec.Amount.Abs(),
				Direction:   models.DirectionOf(rec.Amount),
			}
			ct := c.categorize(engine, tx, Options{
				OwnerID:           opts.OwnerID,
				ConnectionID:      opts.ConnectionID,
				DefaultCategoryID: opts.DefaultCategoryID,
			})
			ct.ExternalID = SyncExternalID(account.ID, rec.Date, rec.Amount)
			c.save(ctx, ct, store.Filter{
				"user_id":            opts.OwnerID,
				"bank_connection_id": opts.ConnectionID,
				"external_id":        ct.ExternalID,
			}, &out.Result, logger)
		}
	}

	logger.Info("Sync finished",
		logging.F(logging.FieldCount, out.Accounts),
		logging.F(logging.FieldImported, out.Imported),
		logging.F(logging.FieldSkipped, out.Skipped),
		logging.F(logging.FieldErrors, len(out.Errors)),
		logging.F(logging.FieldDuration, time.Since(start).Milliseconds()))
	return out, nil
}

// saveAccount records the account under the connection unless it is already known.
func (c *Coordinator) saveAccount(ctx context.Context, account connector.Account, opts SyncOptions) error {
	filter := store.Filter{"connection_id": opts.ConnectionID, "external_id": account.ID}
	_, err := c.store.FindOne(ctx, models.CollectionBankAccounts, filter)
	if err == nil {
		return nil
	}
	if !errors.Is(err, store.ErrNotFound) {
		return fmt.Errorf("looking up account %s: %w", account.ID, err)
	}

	now := c.now().UTC().Format(time.RFC3339)
	doc := store.Document{
		"connection_id": opts.ConnectionID,
		"user_id":       opts.OwnerID,
		"external_id":   account.ID,
		"name":          account.Name,
		"account_type":  account.Type,
		"balance":       account.Balance.StringFixed(2),
		"currency":      account.Currency,
		"is_active":     true,
		"last_sync":     now,
		"created_at":    now,
		"updated_at":    now,
	}
	if _, err := c.store.InsertOne(ctx, models.CollectionBankAccounts, doc); err != nil {
		return fmt.Errorf("storing account %s: %w", account.ID, err)
	}
	return nil
}
