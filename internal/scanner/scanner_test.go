package scanner

import (
	"os"
	"path/filepath"
	"testing"

	"fjacquet/ledger-import/internal/logging"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func write(t *testing.T, path, content string) string {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0750))
	require.NoError(t, os.WriteFile(path, []byte(content), 0600))
	return path
}

func paths(files []StatementFile) []string {
	out := make([]string, 0, len(files))
	for _, f := range files {
		out = append(out, f.Path)
	}
	return out
}

func TestScanner_Directory(t *testing.T) {
	dir := t.TempDir()
	a := write(t, filepath.Join(dir, "b_2025-01.csv"), "Date;Montant\n")
	b := write(t, filepath.Join(dir, "sub", "a_2025-02.CSV"), "Date;Montant\n")
	c := write(t, filepath.Join(dir, "export.txt"), "Date;Montant\n")
	write(t, filepath.Join(dir, "notes.pdf"), "%PDF")
	write(t, filepath.Join(dir, "empty.csv"), "")
	write(t, filepath.Join(dir, ".hidden", "x.csv"), "Date\n")
	write(t, filepath.Join(dir, ".x.csv"), "Date\n")

	files, err := New(logging.NewMockLogger()).Scan(dir)
	require.NoError(t, err)
	assert.Equal(t, []string{a, c, b}, paths(files))
	assert.EqualValues(t, len("Date;Montant\n"), files[0].Size)
}

func TestScanner_ExplicitFileKeptWithDuplicatesRemoved(t *testing.T) {
	dir := t.TempDir()
	f := write(t, filepath.Join(dir, "statement.dat"), "Date;Montant\n")

	files, err := New(nil).Scan(f, f)
	require.NoError(t, err)
	assert.Equal(t, []string{f}, paths(files))
}

func TestScanner_CustomExtensions(t *testing.T) {
	dir := t.TempDir()
	write(t, filepath.Join(dir, "a.csv"), "x\n")
	tsv := write(t, filepath.Join(dir, "b.tsv"), "x\n")

	files, err := New(nil, ".TSV").Scan(dir)
	require.NoError(t, err)
	assert.Equal(t, []string{tsv}, paths(files))
}

func TestScanner_MissingPath(t *testing.T) {
	_, err := New(nil).Scan(filepath.Join(t.TempDir(), "missing"))
	assert.ErrorContains(t, err, "failed to stat path")
}

func TestIsDir(t *testing.T) {
	dir := t.TempDir()
	assert.True(t, IsDir(dir))
	assert.False(t, IsDir(write(t, filepath.Join(dir, "f.csv"), "x")))
	assert.False(t, IsDir(filepath.Join(dir, "missing")))
}
