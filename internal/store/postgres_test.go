package store

import (
	"context"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFilterJSON(t *testing.T) {
	got, err := filterJSON(nil)
	require.NoError(t, err)
	assert.Equal(t, "{}", got)

	got, err = filterJSON(Filter{"user_id": "u1", "is_active": true})
	require.NoError(t, err)
	assert.JSONEq(t, `{"user_id":"u1","is_active":true}`, got)
}

// TestPostgres runs against a real database when LEDGER_TEST_POSTGRES_DSN is set.
func TestPostgres(t *testing.T) {
	dsn := os.Getenv("LEDGER_TEST_POSTGRES_DSN")
	if dsn == "" {
		t.Skip("LEDGER_TEST_POSTGRES_DSN not set")
	}
	ctx := context.Background()

	pg, err := OpenPostgres(ctx, dsn, 2)
	require.NoError(t, err)
	defer pg.Close()

	_, err = pg.db.Exec(ctx, `DELETE FROM documents WHERE collection = 'test_transactions'`)
	require.NoError(t, err)

	id, err := pg.InsertOne(ctx, "test_transactions", Document{"user_id": "u1", "amount": 10.5})
	require.NoError(t, err)
	assert.NotEmpty(t, id)

	doc, err := pg.FindOne(ctx, "test_transactions", Filter{"user_id": "u1"})
	require.NoError(t, err)
	assert.Equal(t, id, doc[IDField])
	assert.Equal(t, 10.5, doc["amount"])

	_, err = pg.FindOne(ctx, "test_transactions", Filter{"user_id": "nobody"})
	assert.ErrorIs(t, err, ErrNotFound)

	n, err := pg.Count(ctx, "test_transactions", Filter{"user_id": "u1"})
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)
}
