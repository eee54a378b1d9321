// Package cache stores raw profile snapshots on disk so repeated runs
// within the TTL avoid refetching the same identifiers.
package cache

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"time"

	"github.com/spiffcs/sonar/internal/log"
	"github.com/spiffcs/sonar/internal/model"
)

// Version should be incremented when the snapshot format changes.
const Version = 1

var unsafeChars = regexp.MustCompile(`[^a-z0-9-]`)

// Cacher defines the snapshot cache operations used by the enricher.
type Cacher interface {
	Get(username string) (*model.ProfileSnapshot, bool)
	Set(username string, snap *model.ProfileSnapshot) error
}

// Ensure Cache implements Cacher interface.
var _ Cacher = (*Cache)(nil)

// Entry is the on-disk representation of one snapshot.
type Entry struct {
	Snapshot model.ProfileSnapshot `json:"snapshot"`
	CachedAt time.Time             `json:"cachedAt"`
	Version  int                   `json:"version"`
}

// Stats summarizes cache contents.
type Stats struct {
	Total int
	Valid int
}

// Cache is a directory of JSON snapshot files keyed by lowercase username.
type Cache struct {
	dir string
	ttl time.Duration
	now func() time.Time
}

// NewCache creates a cache under the user cache directory.
func NewCache(ttl time.Duration) (*Cache, error) {
	cacheDir, err := os.UserCacheDir()
	if err != nil {
		return nil, err
	}
	return NewCacheWithDir(filepath.Join(cacheDir, "sonar", "profiles"), ttl)
}

// NewCacheWithDir creates a cache rooted at dir.
func NewCacheWithDir(dir string, ttl time.Duration) (*Cache, error) {
	if err := os.MkdirAll(dir, 0700); err != nil {
		return nil, fmt.Errorf("failed to create cache directory: %w", err)
	}
	return &Cache{dir: dir, ttl: ttl, now: time.Now}, nil
}

// Dir returns the cache directory.
func (c *Cache) Dir() string {
	return c.dir
}

// TTL returns the configured time-to-live.
func (c *Cache) TTL() time.Duration {
	return c.ttl
}

func (c *Cache) path(username string) string {
	name := unsafeChars.ReplaceAllString(strings.ToLower(username), "_")
	return filepath.Join(c.dir, name+".json")
}

// Get returns a cached snapshot if one exists, matches Version, and is
// younger than the TTL.
func (c *Cache) Get(username string) (*model.ProfileSnapshot, bool) {
	data, err := os.ReadFile(c.path(username))
	if err != nil {
		return nil, false
	}

	var entry Entry
	if err := json.Unmarshal(data, &entry); err != nil {
		return nil, false
	}
	if entry.Version != Version {
		log.Debug("cache version mismatch", "cached", entry.Version, "current", Version, "username", username)
		return nil, false
	}
	if c.now().Sub(entry.CachedAt) > c.ttl {
		return nil, false
	}
	return &entry.Snapshot, true
}

// Set stores snap for username.
func (c *Cache) Set(username string, snap *model.ProfileSnapshot) error {
	if snap == nil {
		return nil
	}
	data, err := json.Marshal(Entry{Snapshot: *snap, CachedAt: c.now(), Version: Version})
	if err != nil {
		return err
	}
	return os.WriteFile(c.path(username), data, 0600)
}

// Clear removes all cached entries.
func (c *Cache) Clear() error {
	entries, err := os.ReadDir(c.dir)
	if err != nil {
		return err
	}
	for _, e := range entries {
		if err := os.Remove(filepath.Join(c.dir, e.Name())); err != nil {
			return err
		}
	}
	return nil
}

// Stats counts total and still-valid entries.
func (c *Cache) Stats() (Stats, error) {
	entries, err := os.ReadDir(c.dir)
	if err != nil {
		return Stats{}, err
	}

	var s Stats
	now := c.now()
	for _, e := range entries {
		if e.IsDir() || filepath.Ext(e.Name()) != ".json" {
			continue
		}
		s.Total++
		data, err := os.ReadFile(filepath.Join(c.dir, e.Name()))
		if err != nil {
			continue
		}
		var entry Entry
		if err := json.Unmarshal(data, &entry); err != nil {
			continue
		}
		if entry.Version == Version && now.Sub(entry.CachedAt) <= c.ttl {
			s.Valid++
		}
	}
	return s, nil
}
