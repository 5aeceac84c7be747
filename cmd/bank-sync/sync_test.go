package banksync_test

import (
	"bytes"
	"context"
	"encoding/json"
	"testing"
	"time"

	banksync "fjacquet/ledger-import/cmd/bank-sync"
	"fjacquet/ledger-import/internal/ingest"
	"fjacquet/ledger-import/internal/models"
	"fjacquet/ledger-import/internal/store"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func clock() time.Time {
	return time.Date(2025, 2, 1, 12, 0, 0, 0, time.UTC)
}

func run(t *testing.T, s store.Store, f banksync.Flags) ingest.SyncResult {
	t.Helper()
	var out bytes.Buffer
	require.NoError(t, banksync.Run(context.Background(), ingest.New(s, nil), "u1", f, clock, "", &out))

	var got ingest.SyncResult
	require.NoError(t, json.Unmarshal(out.Bytes(), &got))
	return got
}

func TestSyncCommand_Flags(t *testing.T) {
	assert.Equal(t, "sync", banksync.Cmd.Use)
	for _, name := range []string{"bank", "connection", "username", "password", "default-category"} {
		assert.NotNil(t, banksync.Cmd.Flags().Lookup(name), name)
	}
}

func TestRun_Boursobank(t *testing.T) {
	s := store.NewMemory()
	f := banksync.Flags{Bank: "BoursoBank", Username: "jane", Password: "secret"}

	first := run(t, s, f)
	assert.True(t, first.Success)
	assert.Equal(t, 2, first.Accounts)
	assert.Equal(t, 9, first.Imported)

	n, err := s.Count(context.Background(), models.CollectionTransactions,
		store.Filter{"user_id": "u1", "bank_connection_id": "boursobank"})
	require.NoError(t, err)
	assert.EqualValues(t, 9, n)

	second := run(t, s, f)
	assert.Equal(t, 0, second.Imported)
	assert.Equal(t, 9, second.Skipped)
}

func TestRun_InvalidCredentials(t *testing.T) {
	got := run(t, store.NewMemory(), banksync.Flags{Bank: "cic", Username: "jane", Password: "invalid"})
	assert.False(t, got.Success)
	assert.Contains(t, got.Error, "invalid credentials")
	assert.Equal(t, 0, got.Imported)
}

func TestRun_Errors(t *testing.T) {
	var out bytes.Buffer
	c := ingest.New(store.NewMemory(), nil)

	err := banksync.Run(context.Background(), c, "u1", banksync.Flags{Bank: "unknown-bank"}, clock, "", &out)
	assert.ErrorContains(t, err, "unsupported bank")

	err = banksync.Run(context.Background(), c, "", banksync.Flags{Bank: "cic"}, clock, "", &out)
	assert.ErrorContains(t, err, "owner")
	assert.Zero(t, out.Len())
}
