// Package search discovers candidate identifiers by running planned queries
// against a web search service.
package search

import "context"

// Options constrains one search call.
type Options struct {
	NumResults int
	Domain     string
}

// Result is one search hit. Only URL is required by discovery.
type Result struct {
	URL   string `json:"url"`
	Title string `json:"title,omitempty"`
}

// Provider is the web search collaborator.
type Provider interface {
	Search(ctx context.Context, query string, opts Options) ([]Result, error)
}

// Ensure Client implements Provider.
var _ Provider = (*Client)(nil)
