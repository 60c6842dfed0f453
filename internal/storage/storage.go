// Package storage persists fetched pull request data, one JSON document per
// repository, and writes the rendered report.
package storage

import (
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strings"

	"github.com/naka-gawa/pr-stats/internal/domain"
)

// ErrNoData is returned when the data directory is missing or holds no
// stored pull request documents. It marks an expected empty state, not a
// crash; callers report it and exit non-zero.
var ErrNoData = errors.New("no stored pull request data")

// Store reads and writes the per-repository JSON documents.
type Store struct {
	logger *log.Logger
}

// NewStore creates a new Store instance.
func NewStore(logger *log.Logger) *Store {
	return &Store{logger: logger}
}

// Save writes one repository's pull requests as an independent document so a
// later repository's failure cannot lose this one.
func (s *Store) Save(dir, repository string, prs []domain.PullRequest) error {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("failed to create data directory: %w", err)
	}
	data, err := json.MarshalIndent(prs, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode pull requests for %s: %w", repository, err)
	}
	path := filepath.Join(dir, fileNameFor(repository))
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	s.logger.Printf("Storage: wrote %d pull requests to %s", len(prs), path)
	return nil
}

// LoadAll reads every stored document in dir, tagging each pull request with
// its source repository. Files are read in name order so later aggregation
// is deterministic. A malformed document is skipped with a warning; a missing
// directory or an empty one yields ErrNoData.
func (s *Store) LoadAll(dir string) ([]*domain.PullRequest, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: directory %s does not exist", ErrNoData, dir)
		}
		return nil, fmt.Errorf("failed to read data directory: %w", err)
	}

	var all []*domain.PullRequest
	loaded := 0
	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), ".json") {
			continue
		}
		path := filepath.Join(dir, entry.Name())
		data, err := os.ReadFile(path)
		if err != nil {
			s.logger.Printf("Storage: skipping unreadable file %s: %v", path, err)
			continue
		}
		var prs []domain.PullRequest
		if err := json.Unmarshal(data, &prs); err != nil {
			s.logger.Printf("Storage: skipping malformed file %s: %v", path, err)
			continue
		}
		repository := repositoryFor(entry.Name())
		for i := range prs {
			prs[i].Repository = repository
			all = append(all, &prs[i])
		}
		loaded++
	}
	if loaded == 0 {
		return nil, fmt.Errorf("%w: no readable documents in %s", ErrNoData, dir)
	}
	return all, nil
}

// WriteReport writes the rendered Markdown report.
func (s *Store) WriteReport(path, content string) error {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("failed to create report directory: %w", err)
		}
	}
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		return fmt.Errorf("failed to write report: %w", err)
	}
	return nil
}

// fileNameFor maps "owner/name" to "owner_name.json".
func fileNameFor(repository string) string {
	return strings.ReplaceAll(repository, "/", "_") + ".json"
}

// repositoryFor reverses fileNameFor. GitHub logins cannot contain
// underscores, so the first underscore is always the owner/name boundary.
func repositoryFor(fileName string) string {
	base := strings.TrimSuffix(fileName, ".json")
	parts := strings.SplitN(base, "_", 2)
	if len(parts) == 2 {
		return parts[0] + "/" + parts[1]
	}
	return base
}
