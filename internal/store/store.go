package store

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strconv"
)

// Store is a directory-like namespace of result folders under a root, one
// per analyzed window, named by the integer anchor GPS. Concurrent runs over
// distinct windows never contend; two runs on the same window race with
// last-writer-wins semantics, which the batch usage pattern accepts.
type Store struct {
	root   string
	logger *slog.Logger

	// RequireEnvelopes extends folder validity to demand the envelope
	// sidecar as well (multi-component analyses write one).
	RequireEnvelopes bool
}

// New creates a Store rooted at the given path.
func New(root string, logger *slog.Logger) *Store {
	if logger == nil {
		logger = slog.Default()
	}
	return &Store{root: root, logger: logger}
}

// Root returns the results root path.
func (s *Store) Root() string {
	return s.root
}

// FolderFor maps a window anchor GPS to its result folder path.
func (s *Store) FolderFor(anchor int64) string {
	return filepath.Join(s.root, strconv.FormatInt(anchor, 10))
}

// CreateFolder ensures the result folder for an anchor exists.
func (s *Store) CreateFolder(anchor int64) (string, error) {
	dir := s.FolderFor(anchor)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("create result folder: %w", err)
	}
	return dir, nil
}

// IsValid reports whether a result folder holds a readable record and the
// required sidecars.
func (s *Store) IsValid(dir string) bool {
	if _, err := os.Stat(filepath.Join(dir, RecordName)); err != nil {
		return false
	}
	if !hasSingleMatch(dir, "*"+PredictorExt) {
		return false
	}
	if s.RequireEnvelopes && !hasSingleMatch(dir, "*"+EnvelopeExt) {
		return false
	}
	return true
}

// Folders lists result folders under the root, sorted by path. With
// onlyValid, folders failing IsValid are dropped; mustInclude further
// filters to folders containing at least one match for every glob pattern.
func (s *Store) Folders(onlyValid bool, mustInclude []string) ([]string, error) {
	entries, err := os.ReadDir(s.root)
	if err != nil {
		return nil, fmt.Errorf("read results root: %w", err)
	}

	folders := make([]string, 0, len(entries))
	for _, entry := range entries {
		if !entry.IsDir() {
			continue
		}
		dir := filepath.Join(s.root, entry.Name())
		if onlyValid {
			if !s.IsValid(dir) {
				s.logger.Debug("skipping invalid result folder", slog.String("folder", dir))
				continue
			}
			if !matchesAll(dir, mustInclude) {
				continue
			}
		}
		folders = append(folders, dir)
	}

	sort.Strings(folders)
	return folders, nil
}

func hasSingleMatch(dir, pattern string) bool {
	matches, err := filepath.Glob(filepath.Join(dir, pattern))
	return err == nil && len(matches) == 1
}

func matchesAll(dir string, patterns []string) bool {
	for _, pattern := range patterns {
		matches, err := filepath.Glob(filepath.Join(dir, pattern))
		if err != nil || len(matches) == 0 {
			return false
		}
	}
	return true
}
