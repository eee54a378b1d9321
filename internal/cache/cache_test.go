package cache

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/spiffcs/sonar/internal/model"
)

func newTestCache(t *testing.T, ttl time.Duration) *Cache {
	t.Helper()
	c, err := NewCacheWithDir(filepath.Join(t.TempDir(), "profiles"), ttl)
	if err != nil {
		t.Fatal(err)
	}
	return c
}

func TestSetGet(t *testing.T) {
	c := newTestCache(t, time.Hour)
	snap := &model.ProfileSnapshot{
		User:  model.UserRecord{Login: "Octocat", Followers: 10},
		Repos: []model.RepoRecord{{Name: "hello", Stars: 3}},
	}

	if err := c.Set("Octocat", snap); err != nil {
		t.Fatalf("Set() error = %v", err)
	}

	got, ok := c.Get("octocat")
	if !ok {
		t.Fatal("Get() miss, want hit (keys are case-insensitive)")
	}
	if got.User.Followers != 10 || len(got.Repos) != 1 {
		t.Errorf("Get() = %+v", got)
	}
}

func TestGetExpired(t *testing.T) {
	c := newTestCache(t, time.Hour)
	base := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	c.now = func() time.Time { return base }

	if err := c.Set("alice", &model.ProfileSnapshot{}); err != nil {
		t.Fatal(err)
	}

	c.now = func() time.Time { return base.Add(2 * time.Hour) }
	if _, ok := c.Get("alice"); ok {
		t.Error("Get() hit for expired entry, want miss")
	}
}

func TestGetVersionMismatch(t *testing.T) {
	c := newTestCache(t, time.Hour)
	path := c.path("bob")
	if err := os.WriteFile(path, []byte(`{"snapshot":{},"cachedAt":"`+time.Now().Format(time.RFC3339)+`","version":0}`), 0600); err != nil {
		t.Fatal(err)
	}
	if _, ok := c.Get("bob"); ok {
		t.Error("Get() hit for old version, want miss")
	}
}

func TestStatsAndClear(t *testing.T) {
	c := newTestCache(t, time.Hour)
	base := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	c.now = func() time.Time { return base }
	_ = c.Set("old", &model.ProfileSnapshot{})

	c.now = func() time.Time { return base.Add(90 * time.Minute) }
	_ = c.Set("fresh", &model.ProfileSnapshot{})

	s, err := c.Stats()
	if err != nil {
		t.Fatal(err)
	}
	if s.Total != 2 || s.Valid != 1 {
		t.Errorf("Stats() = %+v, want Total 2 Valid 1", s)
	}

	if err := c.Clear(); err != nil {
		t.Fatal(err)
	}
	s, _ = c.Stats()
	if s.Total != 0 {
		t.Errorf("Stats().Total after Clear = %d, want 0", s.Total)
	}
}
