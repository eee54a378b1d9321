package search

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"
)

func TestClientSearch(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			t.Errorf("method = %s, want POST", r.Method)
		}
		if got := r.Header.Get("x-api-key"); got != "secret" {
			t.Errorf("x-api-key = %q, want secret", got)
		}
		var req searchRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			t.Fatalf("decode request: %v", err)
		}
		if req.Query != "rust developer" || req.NumResults != 20 {
			t.Errorf("request = %+v", req)
		}
		if len(req.IncludeDomains) != 1 || req.IncludeDomains[0] != "github.com" {
			t.Errorf("IncludeDomains = %v, want [github.com]", req.IncludeDomains)
		}
		_ = json.NewEncoder(w).Encode(searchResponse{Results: []Result{
			{URL: "https://github.com/alice", Title: "alice"},
		}})
	}))
	defer srv.Close()

	c, err := NewClient(srv.URL, "secret")
	if err != nil {
		t.Fatal(err)
	}
	got, err := c.Search(context.Background(), "rust developer", Options{NumResults: 20, Domain: "github.com"})
	if err != nil {
		t.Fatalf("Search() error = %v", err)
	}
	if len(got) != 1 || got[0].URL != "https://github.com/alice" {
		t.Errorf("Search() = %+v", got)
	}
}

func TestClientRetriesTransientFailures(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if calls.Add(1) == 1 {
			w.WriteHeader(http.StatusTooManyRequests)
			return
		}
		_ = json.NewEncoder(w).Encode(searchResponse{})
	}))
	defer srv.Close()

	c, err := NewClient(srv.URL, "secret", WithRetry(3, time.Millisecond))
	if err != nil {
		t.Fatal(err)
	}
	if _, err := c.Search(context.Background(), "q", Options{}); err != nil {
		t.Fatalf("Search() error = %v", err)
	}
	if calls.Load() != 2 {
		t.Errorf("server called %d times, want 2", calls.Load())
	}
}

func TestClientDoesNotRetryClientErrors(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		w.WriteHeader(http.StatusUnauthorized)
	}))
	defer srv.Close()

	c, err := NewClient(srv.URL, "secret", WithRetry(3, time.Millisecond))
	if err != nil {
		t.Fatal(err)
	}
	if _, err := c.Search(context.Background(), "q", Options{}); err == nil {
		t.Fatal("Search() error = nil, want error for 401")
	}
	if calls.Load() != 1 {
		t.Errorf("server called %d times, want 1", calls.Load())
	}
}

func TestNewClientRequiresKey(t *testing.T) {
	if _, err := NewClient("https://example.test", ""); err == nil {
		t.Error("NewClient() with empty key error = nil, want error")
	}
}
