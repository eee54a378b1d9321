package aggregate

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"

	"github.com/spiffcs/sonar/internal/apperr"
	"github.com/spiffcs/sonar/internal/model"
)

type stubStore struct {
	inserted  []string
	existing  map[string]bool
	failFor   map[string]bool
	markErr   error
	marked    int
	descByKey map[string]string
}

func (s *stubStore) InsertResult(_ context.Context, _ string, c model.ScoredCandidate, desc string) (bool, error) {
	if s.failFor[c.Username] {
		return false, errors.New("connection reset")
	}
	key := strings.ToLower(c.Username)
	if s.existing[key] {
		return false, nil
	}
	if s.existing == nil {
		s.existing = map[string]bool{}
	}
	if s.descByKey == nil {
		s.descByKey = map[string]string{}
	}
	s.existing[key] = true
	s.descByKey[key] = desc
	s.inserted = append(s.inserted, c.Username)
	return true, nil
}

func (s *stubStore) MarkBriefSearched(_ context.Context, _ string) error {
	s.marked++
	return s.markErr
}

func candidate(name string, score int) model.ScoredCandidate {
	return model.ScoredCandidate{
		CandidateProfile:  model.CandidateProfile{Username: name},
		Score:             score,
		SearchDescription: "query for " + name,
	}
}

func TestRank(t *testing.T) {
	in := []model.ScoredCandidate{
		candidate("a", 40),
		candidate("b", 90),
		candidate("c", 34),
		candidate("d", 40),
		candidate("e", 35),
		candidate("f", 90),
	}

	got := Rank(in, 35)

	var names []string
	for _, c := range got {
		names = append(names, c.Username)
	}
	if want := "b,f,a,d,e"; strings.Join(names, ",") != want {
		t.Errorf("Rank() order = %s, want %s", strings.Join(names, ","), want)
	}
}

func TestAggregateCapsAndMarks(t *testing.T) {
	var scored []model.ScoredCandidate
	for i := 0; i < 15; i++ {
		scored = append(scored, candidate(fmt.Sprintf("user%02d", i), 50+i))
	}
	store := &stubStore{}

	summary, err := NewAggregator(store).Aggregate(context.Background(), "brief-1", scored, 20)
	if err != nil {
		t.Fatalf("Aggregate() error = %v", err)
	}

	if summary.NewCandidatesPersisted != 10 || len(store.inserted) != 10 {
		t.Errorf("persisted %d (%d inserted), want 10", summary.NewCandidatesPersisted, len(store.inserted))
	}
	if summary.TotalIdentifiersExamined != 20 {
		t.Errorf("TotalIdentifiersExamined = %d, want 20", summary.TotalIdentifiersExamined)
	}
	if summary.Qualified != 15 {
		t.Errorf("Qualified = %d, want 15", summary.Qualified)
	}
	if store.inserted[0] != "user14" {
		t.Errorf("first inserted = %s, want user14 (highest score)", store.inserted[0])
	}
	if store.descByKey["user14"] != "query for user14" {
		t.Errorf("searchDescription = %q", store.descByKey["user14"])
	}
	if store.marked != 1 {
		t.Errorf("MarkBriefSearched called %d times, want 1", store.marked)
	}
}

func TestAggregateMarksWhenNothingQualifies(t *testing.T) {
	store := &stubStore{}
	summary, err := NewAggregator(store).Aggregate(context.Background(), "brief-1",
		[]model.ScoredCandidate{candidate("low", 27)}, 1)
	if err != nil {
		t.Fatalf("Aggregate() error = %v", err)
	}
	if summary.NewCandidatesPersisted != 0 {
		t.Errorf("NewCandidatesPersisted = %d, want 0", summary.NewCandidatesPersisted)
	}
	if store.marked != 1 {
		t.Errorf("MarkBriefSearched called %d times, want 1", store.marked)
	}
}

func TestAggregateSkipsExisting(t *testing.T) {
	store := &stubStore{existing: map[string]bool{"octocat": true}}
	summary, err := NewAggregator(store).Aggregate(context.Background(), "brief-1",
		[]model.ScoredCandidate{candidate("Octocat", 80), candidate("ferris", 70)}, 2)
	if err != nil {
		t.Fatalf("Aggregate() error = %v", err)
	}
	if summary.NewCandidatesPersisted != 1 {
		t.Errorf("NewCandidatesPersisted = %d, want 1", summary.NewCandidatesPersisted)
	}
}

func TestAggregatePersistenceFailures(t *testing.T) {
	t.Run("partial failure continues", func(t *testing.T) {
		store := &stubStore{failFor: map[string]bool{"a": true}}
		summary, err := NewAggregator(store).Aggregate(context.Background(), "brief-1",
			[]model.ScoredCandidate{candidate("a", 90), candidate("b", 80)}, 2)
		if err != nil {
			t.Fatalf("Aggregate() error = %v, want nil", err)
		}
		if summary.NewCandidatesPersisted != 1 || summary.Failed != 1 {
			t.Errorf("summary = %+v, want 1 persisted and 1 failed", summary)
		}
		if store.marked != 1 {
			t.Errorf("MarkBriefSearched called %d times, want 1", store.marked)
		}
	})

	t.Run("total failure returns persistence error", func(t *testing.T) {
		store := &stubStore{failFor: map[string]bool{"a": true, "b": true}}
		_, err := NewAggregator(store).Aggregate(context.Background(), "brief-1",
			[]model.ScoredCandidate{candidate("a", 90), candidate("b", 80)}, 2)
		var perr *apperr.PersistenceError
		if !errors.As(err, &perr) {
			t.Fatalf("Aggregate() error = %v, want PersistenceError", err)
		}
		if perr.Username != "a" {
			t.Errorf("PersistenceError.Username = %s, want a", perr.Username)
		}
		if store.marked != 1 {
			t.Errorf("MarkBriefSearched called %d times, want 1", store.marked)
		}
	})

	t.Run("mark failure is returned", func(t *testing.T) {
		store := &stubStore{markErr: errors.New("deadlock")}
		_, err := NewAggregator(store).Aggregate(context.Background(), "brief-1", nil, 0)
		if err == nil || !strings.Contains(err.Error(), "deadlock") {
			t.Errorf("Aggregate() error = %v, want mark failure", err)
		}
	})
}

func TestAggregateOptions(t *testing.T) {
	store := &stubStore{}
	agg := NewAggregator(store, WithThreshold(60), WithMaxResults(1))
	summary, err := agg.Aggregate(context.Background(), "brief-1",
		[]model.ScoredCandidate{candidate("a", 59), candidate("b", 70), candidate("c", 65)}, 3)
	if err != nil {
		t.Fatalf("Aggregate() error = %v", err)
	}
	if summary.NewCandidatesPersisted != 1 || store.inserted[0] != "b" {
		t.Errorf("inserted = %v, want [b]", store.inserted)
	}
}
