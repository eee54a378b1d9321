package history

import (
	"fmt"
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestAppendAndRecent(t *testing.T) {
	s := NewStoreWithPath(filepath.Join(t.TempDir(), "history.jsonl"))
	base := time.Date(2026, 6, 1, 12, 0, 0, 0, time.UTC)

	for i := 0; i < 5; i++ {
		brief := "b1"
		if i%2 == 1 {
			brief = "b2"
		}
		if err := s.Append(Run{Timestamp: base.Add(time.Duration(i) * time.Minute), BriefID: brief, Persisted: i}); err != nil {
			t.Fatalf("Append() error = %v", err)
		}
	}

	all, err := s.Recent("", 0)
	if err != nil {
		t.Fatal(err)
	}
	if len(all) != 5 {
		t.Errorf("Recent(all) returned %d, want 5", len(all))
	}

	last2, _ := s.Recent("", 2)
	if len(last2) != 2 || last2[1].Persisted != 4 {
		t.Errorf("Recent(2) = %+v, want the two newest runs", last2)
	}

	b2, _ := s.Recent("b2", 10)
	if len(b2) != 2 {
		t.Errorf("Recent(b2) returned %d, want 2", len(b2))
	}
	for _, r := range b2 {
		if r.BriefID != "b2" {
			t.Errorf("Recent(b2) included %s", r.BriefID)
		}
	}
}

func TestAppendPrunes(t *testing.T) {
	s := NewStoreWithPath(filepath.Join(t.TempDir(), "history.jsonl"))
	for i := 0; i < maxRecords+3; i++ {
		if err := s.Append(Run{BriefID: fmt.Sprint(i)}); err != nil {
			t.Fatal(err)
		}
	}
	runs, _ := s.Recent("", 0)
	if len(runs) != maxRecords {
		t.Fatalf("len = %d, want %d", len(runs), maxRecords)
	}
	if runs[0].BriefID != "3" {
		t.Errorf("oldest retained = %s, want 3", runs[0].BriefID)
	}
}

func TestRecentSkipsMalformedLines(t *testing.T) {
	path := filepath.Join(t.TempDir(), "history.jsonl")
	content := `{"briefId":"ok-1"}
not json

{"briefId":"ok-2"}
`
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatal(err)
	}
	runs, err := NewStoreWithPath(path).Recent("", 0)
	if err != nil {
		t.Fatal(err)
	}
	if len(runs) != 2 {
		t.Errorf("Recent() returned %d runs, want 2", len(runs))
	}
}

func TestRecentMissingFile(t *testing.T) {
	runs, err := NewStoreWithPath(filepath.Join(t.TempDir(), "nope.jsonl")).Recent("", 5)
	if err != nil || len(runs) != 0 {
		t.Errorf("Recent() = %v, %v, want empty and nil", runs, err)
	}
}

func TestClear(t *testing.T) {
	s := NewStoreWithPath(filepath.Join(t.TempDir(), "history.jsonl"))
	_ = s.Append(Run{BriefID: "b1"})
	if err := s.Clear(); err != nil {
		t.Fatalf("Clear() error = %v", err)
	}
	if err := s.Clear(); err != nil {
		t.Errorf("second Clear() error = %v, want nil", err)
	}
	runs, _ := s.Recent("", 0)
	if len(runs) != 0 {
		t.Errorf("Recent() after Clear = %d runs", len(runs))
	}
}
