// Package ghclient reads public profile data from the GitHub REST API.
package ghclient

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	gh "github.com/google/go-github/v57/github"
	"golang.org/x/oauth2"
)

// Client wraps the GitHub API client.
type Client struct {
	client *gh.Client
	quota  *quotaState
}

// Option customizes NewClient.
type Option func(*clientOptions)

type clientOptions struct {
	baseURL    string
	httpClient *http.Client
}

// WithBaseURL points the client at a GitHub Enterprise or test server.
func WithBaseURL(u string) Option {
	return func(o *clientOptions) { o.baseURL = u }
}

// WithHTTPClient sets the underlying HTTP client used when no token is given.
func WithHTTPClient(hc *http.Client) Option {
	return func(o *clientOptions) { o.httpClient = hc }
}

// NewClient creates a GitHub client. An empty token yields unauthenticated
// access with the lower anonymous quota.
func NewClient(ctx context.Context, token string, opts ...Option) (*Client, error) {
	o := &clientOptions{httpClient: &http.Client{}}
	for _, opt := range opts {
		opt(o)
	}

	hc := o.httpClient
	if token != "" {
		ctx = context.WithValue(ctx, oauth2.HTTPClient, o.httpClient)
		hc = oauth2.NewClient(ctx, oauth2.StaticTokenSource(&oauth2.Token{AccessToken: token}))
	}

	base := hc.Transport
	if base == nil {
		base = http.DefaultTransport
	}
	quota := &quotaState{}
	hc.Transport = &rateLimitTransport{base: base, state: quota}

	client := gh.NewClient(hc)
	if o.baseURL != "" {
		u, err := url.Parse(strings.TrimSuffix(o.baseURL, "/") + "/")
		if err != nil {
			return nil, fmt.Errorf("invalid GitHub base URL: %w", err)
		}
		client.BaseURL = u
	}

	return &Client{client: client, quota: quota}, nil
}

// Quota returns the most recently observed core quota.
func (c *Client) Quota() Quota {
	return c.quota.snapshot(time.Now())
}

// RateLimits fetches the current GitHub API rate limit status.
func (c *Client) RateLimits(ctx context.Context) (*gh.RateLimits, error) {
	limits, _, err := c.client.RateLimit.Get(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to get rate limits: %w", err)
	}
	return limits, nil
}
