package server

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/spiffcs/sonar/internal/apperr"
	"github.com/spiffcs/sonar/internal/log"
)

const maxBodyBytes = 1 << 16

type searchRequest struct {
	BriefID string `json:"briefId"`
}

type searchResponse struct {
	Success          bool `json:"success"`
	NewCandidates    int  `json:"newCandidates"`
	SearchedProfiles int  `json:"searchedProfiles"`
}

type errorResponse struct {
	Error      string `json:"error"`
	RetryAfter int    `json:"retryAfter,omitempty"`
}

func (s *Server) handleSearch(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	owner, ok := OwnerFromContext(ctx)
	if !ok {
		writeError(w, apperr.ErrUnauthenticated)
		return
	}

	rl, err := s.limiter.Check(ctx, "trigger:"+owner, s.limit, s.window)
	if err != nil {
		writeError(w, fmt.Errorf("rate limit check: %w", err))
		return
	}
	if !rl.Success {
		log.Info("caller rate limited", "owner", owner, "reset", rl.Reset)
		writeError(w, &apperr.RateLimitError{RetryAfter: rl.RetryAfter(s.now())})
		return
	}

	var req searchRequest
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes)).Decode(&req); err != nil {
		writeError(w, fmt.Errorf("%w: %v", apperr.ErrInvalidRequest, err))
		return
	}
	req.BriefID = strings.TrimSpace(req.BriefID)
	if req.BriefID == "" {
		writeError(w, fmt.Errorf("%w: briefId is required", apperr.ErrInvalidRequest))
		return
	}

	res, err := s.runner.Run(ctx, req.BriefID, owner)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, searchResponse{
		Success:          true,
		NewCandidates:    res.Summary.NewCandidatesPersisted,
		SearchedProfiles: res.Summary.TotalIdentifiersExamined,
	})
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	for _, p := range s.pingers {
		if err := p.Ping(r.Context()); err != nil {
			log.Warn("health check failed", "error", err)
			writeJSON(w, http.StatusServiceUnavailable, map[string]string{"status": "unavailable"})
			return
		}
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// writeError maps err onto the trigger's status codes. Unexpected errors
// are logged and reported without detail.
func writeError(w http.ResponseWriter, err error) {
	var rle *apperr.RateLimitError
	switch {
	case errors.Is(err, apperr.ErrUnauthenticated):
		writeJSON(w, http.StatusUnauthorized, errorResponse{Error: "unauthorized"})
	case errors.Is(err, apperr.ErrInvalidRequest):
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: err.Error()})
	case errors.Is(err, apperr.ErrBriefNotFound):
		writeJSON(w, http.StatusNotFound, errorResponse{Error: "brief not found"})
	case errors.As(err, &rle):
		secs := rle.RetryAfterSeconds()
		w.Header().Set("Retry-After", strconv.Itoa(secs))
		writeJSON(w, http.StatusTooManyRequests, errorResponse{Error: "rate limit exceeded", RetryAfter: secs})
	default:
		log.Error("search request failed", "error", err)
		writeJSON(w, http.StatusInternalServerError, errorResponse{Error: "internal server error"})
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Debug("failed to write response", "error", err)
	}
}
