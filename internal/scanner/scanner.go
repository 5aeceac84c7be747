// Package scanner finds statement files to import under a set of paths.
package scanner

import (
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"fjacquet/ledger-import/internal/logging"
)

// DefaultExtensions are the file extensions treated as statements when scanning directories.
var DefaultExtensions = []string{".csv", ".txt"}

// StatementFile is one file found by a scan.
type StatementFile struct {
	Path string
	Size int64
}

// Scanner walks files and directories looking for statements.
type Scanner struct {
	logger     logging.Logger
	extensions map[string]bool
}

// New returns a Scanner accepting the given extensions; none means DefaultExtensions.
func New(logger logging.Logger, extensions ...string) *Scanner {
	if logger == nil {
		logger = logging.Nop()
	}
	if len(extensions) == 0 {
		extensions = DefaultExtensions
	}
	exts := make(map[string]bool, len(extensions))
	for _, ext := range extensions {
		exts[strings.ToLower(ext)] = true
	}
	return &Scanner{logger: logger, extensions: exts}
}

// Scan returns the statements under paths. Explicit files are kept whatever their
// extension; directories are walked recursively, skipping hidden entries and empty
// files. Results are sorted by path with duplicates removed.
func (s *Scanner) Scan(paths ...string) ([]StatementFile, error) {
	seen := make(map[string]bool)
	var files []StatementFile

	add := func(path string, size int64) {
		if !seen[path] {
			seen[path] = true
			files = append(files, StatementFile{Path: path, Size: size})
		}
	}

	for _, p := range paths {
		absPath, err := filepath.Abs(p)
		if err != nil {
			return nil, fmt.Errorf("failed to get absolute path for %s: %w", p, err)
		}
		info, err := os.Stat(absPath)
		if err != nil {
			return nil, fmt.Errorf("failed to stat path %s: %w", absPath, err)
		}

		if !info.IsDir() {
			add(absPath, info.Size())
			continue
		}
		if err := s.walk(absPath, add); err != nil {
			return nil, err
		}
	}

	sort.Slice(files, func(i, j int) bool { return files[i].Path < files[j].Path })
	s.logger.Debug("Scanned for statement files", logging.F(logging.FieldCount, len(files)))
	return files, nil
}

func (s *Scanner) walk(root string, add func(string, int64)) error {
	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			s.logger.WithError(err).WithField("path", path).Warn("Error walking path")
			return nil
		}
		if path != root && strings.HasPrefix(d.Name(), ".") {
			if d.IsDir() {
				return filepath.SkipDir
			}
			return nil
		}
		if d.IsDir() || !s.extensions[strings.ToLower(filepath.Ext(path))] {
			return nil
		}

		info, err := d.Info()
		if err != nil {
			return fmt.Errorf("failed to stat %s: %w", path, err)
		}
		if info.Size() == 0 {
			s.logger.WithField(logging.FieldFile, path).Debug("Skipping empty file")
			return nil
		}
		add(path, info.Size())
		return nil
	})
	if err != nil {
		return fmt.Errorf("failed to walk directory %s: %w", root, err)
	}
	return nil
}

// IsDir reports whether path names an existing directory.
func IsDir(path string) bool {
	info, err := os.Stat(path)
	return err == nil && info.IsDir()
}
