// Package history records a summary of every pipeline run as JSON Lines.
package history

import (
	"bufio"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/spiffcs/sonar/internal/log"
)

// maxRecords is the maximum number of runs retained in the store.
const maxRecords = 500

// Run summarizes one pipeline execution.
type Run struct {
	Timestamp  time.Time `json:"ts"`
	BriefID    string    `json:"briefId"`
	Source     string    `json:"source"`
	Queries    int       `json:"queries"`
	Discovered int       `json:"discovered"`
	Scored     int       `json:"scored"`
	Qualified  int       `json:"qualified"`
	Persisted  int       `json:"persisted"`
	Failed     int       `json:"failed"`
	DurationMs int64     `json:"durationMs"`
	Error      string    `json:"error,omitempty"`
}

// Store appends runs to a JSONL file, keeping the most recent maxRecords.
type Store struct {
	path string
	mu   sync.Mutex
}

// NewStore creates a store at <user cache dir>/sonar/history.jsonl.
func NewStore() (*Store, error) {
	cacheDir, err := os.UserCacheDir()
	if err != nil {
		return nil, err
	}
	dir := filepath.Join(cacheDir, "sonar")
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, err
	}
	return &Store{path: filepath.Join(dir, "history.jsonl")}, nil
}

// NewStoreWithPath creates a store at path.
func NewStoreWithPath(path string) *Store {
	return &Store{path: path}
}

// Path returns the backing file.
func (s *Store) Path() string { return s.path }

// Append records run and prunes old entries.
func (s *Store) Append(run Run) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	runs, err := s.load()
	if err != nil {
		log.Debug("could not read history, starting fresh", "error", err)
		runs = nil
	}
	runs = append(runs, run)
	if len(runs) > maxRecords {
		runs = runs[len(runs)-maxRecords:]
	}
	return s.save(runs)
}

// Recent returns up to n runs, newest last. An empty briefID matches all.
func (s *Store) Recent(briefID string, n int) ([]Run, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	runs, err := s.load()
	if err != nil {
		return nil, err
	}
	if briefID != "" {
		kept := runs[:0]
		for _, r := range runs {
			if r.BriefID == briefID {
				kept = append(kept, r)
			}
		}
		runs = kept
	}
	if n > 0 && len(runs) > n {
		runs = runs[len(runs)-n:]
	}
	return runs, nil
}

// Clear removes the history file.
func (s *Store) Clear() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := os.Remove(s.path); err != nil && !errors.Is(err, os.ErrNotExist) {
		return err
	}
	return nil
}

func (s *Store) load() ([]Run, error) {
	f, err := os.Open(s.path)
	if errors.Is(err, os.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	defer func() { _ = f.Close() }()

	var runs []Run
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		if len(scanner.Bytes()) == 0 {
			continue
		}
		var r Run
		if err := json.Unmarshal(scanner.Bytes(), &r); err != nil {
			log.Trace("skipping malformed history line", "error", err)
			continue
		}
		runs = append(runs, r)
	}
	return runs, scanner.Err()
}

// save rewrites the file through a temp file and rename.
func (s *Store) save(runs []Run) error {
	if err := os.MkdirAll(filepath.Dir(s.path), 0o755); err != nil {
		return err
	}
	tmp, err := os.CreateTemp(filepath.Dir(s.path), ".history-*.tmp")
	if err != nil {
		return err
	}
	cleanup := func(err error) error {
		_ = tmp.Close()
		_ = os.Remove(tmp.Name())
		return err
	}

	w := bufio.NewWriter(tmp)
	enc := json.NewEncoder(w)
	for _, r := range runs {
		if err := enc.Encode(r); err != nil {
			return cleanup(fmt.Errorf("encode run: %w", err))
		}
	}
	if err := w.Flush(); err != nil {
		return cleanup(err)
	}
	if err := tmp.Close(); err != nil {
		return cleanup(err)
	}
	return os.Rename(tmp.Name(), s.path)
}
