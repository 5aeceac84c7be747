package ingest

import (
	"context"
	"testing"

	"fjacquet/ledger-import/internal/bankformat"
	"fjacquet/ledger-import/internal/connector"
	"fjacquet/ledger-import/internal/models"
	"fjacquet/ledger-import/internal/store"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSync(t *testing.T) {
	s := store.NewMemory()
	c := newCoordinator(s, testRules(), nil)
	ctx := context.Background()
	opts := SyncOptions{OwnerID: "u1", ConnectionID: "conn1", Username: "user", Password: "secret"}

	conn, err := connector.New(bankformat.Boursobank, clock)
	require.NoError(t, err)
	first, err := c.Sync(ctx, conn, opts)
	require.NoError(t, err)
	assert.True(t, first.Success)
	assert.Equal(t, 2, first.Accounts)
	assert.Equal(t, 9, first.Imported)
	assert.Equal(t, 0, first.Skipped)

	conn, err = connector.New(bankformat.Boursobank, clock)
	require.NoError(t, err)
	second, err := c.Sync(ctx, conn, opts)
	require.NoError(t, err)
	assert.Equal(t, 0, second.Imported)
	assert.Equal(t, 9, second.Skipped)

	accounts, err := s.Count(ctx, models.CollectionBankAccounts, store.Filter{"connection_id": "conn1"})
	require.NoError(t, err)
	assert.Equal(t, int64(2), accounts)

	doc, err := s.FindOne(ctx, models.CollectionTransactions, store.Filter{"description": "CB CARREFOUR CITY"})
	require.NoError(t, err)
	assert.Equal(t, "FR7612345678901234567890123_2025-01-29_-42.30", doc["external_id"])
	assert.Equal(t, "42.30", doc["amount"])
	assert.Equal(t, "expense", doc["type"])
	assert.Equal(t, "groceries", doc["category_id"])
	assert.Equal(t, "conn1", doc["bank_connection_id"])
}

func TestSync_InvalidCredentials(t *testing.T) {
	s := store.NewMemory()
	c := newCoordinator(s, nil, nil)
	conn, err := connector.New(bankformat.CIC, clock)
	require.NoError(t, err)

	result, err := c.Sync(context.Background(), conn, SyncOptions{OwnerID: "u1", ConnectionID: "c", Password: "invalid"})
	require.NoError(t, err)
	assert.False(t, result.Success)
	assert.NotEmpty(t, result.Error)

	n, err := s.Count(context.Background(), models.CollectionTransactions, nil)
	require.NoError(t, err)
	assert.Zero(t, n)
}
