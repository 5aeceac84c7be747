package ingest_test

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"fjacquet/ledger-import/cmd/ingest"
	pipeline "fjacquet/ledger-import/internal/ingest"
	"fjacquet/ledger-import/internal/logging"
	"fjacquet/ledger-import/internal/models"
	"fjacquet/ledger-import/internal/rowparser"
	"fjacquet/ledger-import/internal/rules"
	"fjacquet/ledger-import/internal/store"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const file = "Date;Libellé;Montant\n15/01/2025;CB CARREFOUR;-10,00\n16/01/2025;VIR SALAIRE;2500,00\nxx;BROKEN;1\n"

func coordinator(s store.Store, opts ...pipeline.Option) *pipeline.Coordinator {
	return pipeline.New(s, rules.StaticSource{{
		Name: "Courses", Pattern: "carrefour", MatchType: models.MatchContains,
		CategoryID: "groceries", IsActive: true,
	}}, opts...)
}

func decode(t *testing.T, out *bytes.Buffer) pipeline.Result {
	t.Helper()
	var got pipeline.Result
	require.NoError(t, json.Unmarshal(out.Bytes(), &got))
	return got
}

func TestIngestCommand_Flags(t *testing.T) {
	assert.Equal(t, "ingest", ingest.Cmd.Use)
	for _, name := range []string{"account", "connection", "mapping", "delimiter", "default-category"} {
		assert.NotNil(t, ingest.Cmd.Flags().Lookup(name), name)
	}
}

func TestRun_ImportsThenSkips(t *testing.T) {
	s := store.NewMemory()
	logger := logging.NewMockLogger()
	c := coordinator(s, pipeline.WithLogger(logger))
	f := ingest.Flags{Account: "acc-1", DefaultCategory: "misc"}

	var out bytes.Buffer
	require.NoError(t, ingest.Run(context.Background(), c, []byte(file), "u1", f, "", &out, logger))
	first := decode(t, &out)
	assert.True(t, first.Success)
	assert.Equal(t, 2, first.Imported)
	assert.Equal(t, 0, first.Skipped)
	assert.Empty(t, first.Errors)
	assert.True(t, logger.HasEntry("INFO", "Import finished"))

	docs, err := s.Find(context.Background(), models.CollectionTransactions, store.Filter{"category_id": "groceries"})
	require.NoError(t, err)
	assert.Len(t, docs, 1)

	out.Reset()
	require.NoError(t, ingest.Run(context.Background(), c, []byte(file), "u1", f, "", &out, logger))
	second := decode(t, &out)
	assert.Equal(t, 0, second.Imported)
	assert.Equal(t, 2, second.Skipped)
}

func TestRun_LogsRejectedRows(t *testing.T) {
	logger := logging.NewMockLogger()
	c := coordinator(store.NewMemory(), pipeline.WithRowCheck(func(r rowparser.RawRow) error {
		if desc, _ := r.Get("Libellé"); desc == "VIR SALAIRE" {
			return errors.New("corrupt record")
		}
		return nil
	}))

	var out bytes.Buffer
	require.NoError(t, ingest.Run(context.Background(), c, []byte(file), "u1", ingest.Flags{}, "", &out, logger))
	got := decode(t, &out)
	assert.Equal(t, 1, got.Imported)

	var skipped []logging.LogEntry
	for _, e := range logger.EntriesByLevel("WARN") {
		if e.Message == "Row skipped" {
			skipped = append(skipped, e)
		}
	}
	require.Len(t, skipped, 1)
	assert.Contains(t, skipped[0].Fields, logging.F(logging.FieldRow, 3))
	assert.EqualError(t, skipped[0].Error, "row 3: corrupt record")
}

func TestRun_RequiresOwner(t *testing.T) {
	var out bytes.Buffer
	err := ingest.Run(context.Background(), coordinator(store.NewMemory()), []byte(file), "", ingest.Flags{}, "", &out, nil)
	assert.ErrorContains(t, err, "owner")
	assert.Zero(t, out.Len())
}

func TestRun_FileLevelErrorWritesNothing(t *testing.T) {
	var out bytes.Buffer
	err := ingest.Run(context.Background(), coordinator(store.NewMemory()),
		[]byte("Date;Libellé\n15/01/2025;CB\n"), "u1", ingest.Flags{}, "", &out, nil)
	assert.Error(t, err)
	assert.Zero(t, out.Len())
}

func TestRun_InterruptedWritesPartialResult(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	var out bytes.Buffer
	err := ingest.Run(ctx, coordinator(store.NewMemory()), []byte(file), "u1", ingest.Flags{}, "", &out, nil)
	assert.ErrorIs(t, err, context.Canceled)
	got := decode(t, &out)
	assert.Equal(t, 0, got.TotalProcessed)
}

func TestRunDir(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "a.csv"), []byte(file), 0600))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "b.csv"), []byte("Date;Libellé\n15/01/2025;CB\n"), 0600))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "c.csv"), []byte(file), 0600))

	var out bytes.Buffer
	err := ingest.RunDir(context.Background(), coordinator(store.NewMemory()), dir, "u1",
		ingest.Flags{Account: "acc-1"}, "", &out, nil)
	require.NoError(t, err)

	var got ingest.DirReport
	require.NoError(t, json.Unmarshal(out.Bytes(), &got))
	assert.False(t, got.Success)
	require.Len(t, got.Files, 3)
	assert.Equal(t, 2, got.Files[0].Result.Imported)
	assert.Nil(t, got.Files[1].Result)
	assert.NotEmpty(t, got.Files[1].Error)
	assert.Equal(t, 2, got.Files[2].Result.Skipped)
	assert.Equal(t, 2, got.Imported)
	assert.Equal(t, 2, got.Skipped)
}
