package search

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/spiffcs/sonar/internal/constants"
	"github.com/spiffcs/sonar/internal/log"
)

// Client talks to an Exa-compatible neural search API.
type Client struct {
	endpoint   string
	httpClient *http.Client
	attempts   int
	retryDelay time.Duration
	// apiKey is intentionally unexported and never logged.
	apiKey string
}

// ClientOption customizes a Client.
type ClientOption func(*Client)

// WithHTTPClient replaces the default http.Client.
func WithHTTPClient(hc *http.Client) ClientOption {
	return func(c *Client) { c.httpClient = hc }
}

// WithRetry sets the number of attempts and initial backoff.
func WithRetry(attempts int, delay time.Duration) ClientOption {
	return func(c *Client) {
		c.attempts = attempts
		c.retryDelay = delay
	}
}

// NewClient creates a search client for endpoint authenticated with apiKey.
func NewClient(endpoint, apiKey string, opts ...ClientOption) (*Client, error) {
	if endpoint == "" {
		return nil, fmt.Errorf("search endpoint not configured")
	}
	if apiKey == "" {
		return nil, fmt.Errorf("search API key not provided. Set the SONAR_SEARCH_API_KEY environment variable")
	}
	c := &Client{
		endpoint:   endpoint,
		apiKey:     apiKey,
		httpClient: http.DefaultClient,
		attempts:   constants.SearchRetryAttempts,
		retryDelay: constants.SearchRetryDelay,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

type searchRequest struct {
	Query          string   `json:"query"`
	NumResults     int      `json:"numResults"`
	IncludeDomains []string `json:"includeDomains,omitempty"`
}

type searchResponse struct {
	Results []Result `json:"results"`
}

// Search runs one query restricted to opts.Domain.
func (c *Client) Search(ctx context.Context, query string, opts Options) ([]Result, error) {
	reqBody := searchRequest{Query: query, NumResults: opts.NumResults}
	if opts.Domain != "" {
		reqBody.IncludeDomains = []string{opts.Domain}
	}
	payload, err := json.Marshal(reqBody)
	if err != nil {
		return nil, fmt.Errorf("failed to encode search request: %w", err)
	}

	start := time.Now()
	status, body, err := doWithRetry(ctx, c.attempts, c.retryDelay, func() (int, []byte, error) {
		return c.post(ctx, payload)
	})
	if err != nil {
		return nil, fmt.Errorf("search request failed: %w", err)
	}
	if status != http.StatusOK {
		return nil, fmt.Errorf("search request failed: status %d", status)
	}

	var resp searchResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return nil, fmt.Errorf("failed to decode search response: %w", err)
	}
	log.Debug("search completed", "query", query, "results", len(resp.Results), "duration", time.Since(start))
	return resp.Results, nil
}

func (c *Client) post(ctx context.Context, payload []byte) (int, []byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, bytes.NewReader(payload))
	if err != nil {
		return 0, nil, err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	req.Header.Set("x-api-key", c.apiKey)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return 0, nil, err
	}
	defer func() { _ = resp.Body.Close() }()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return resp.StatusCode, nil, err
	}
	return resp.StatusCode, body, nil
}
