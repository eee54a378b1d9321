package cmd

// Options holds the shared command-line options for the sonar CLI.
type Options struct {
	Format    string
	Verbosity int
	Workers   int   // 0 = use pipeline.enrich_workers from config
	TUI       *bool // nil = auto-detect, true = force TUI, false = disable TUI

	// Brief selection
	BriefID   string
	OwnerID   string
	BriefFile string // YAML brief run against an in-memory store

	// Result filtering
	Status string
	Since  string
	Limit  int

	// Server options
	ListenAddr string
	Migrate    bool // Apply pending migrations before serving
}

// Option is a functional option for configuring Options.
type Option func(*Options)

// NewOptions creates a new Options with defaults and applies any provided options.
func NewOptions(opts ...Option) *Options {
	o := &Options{
		Limit: 20,
	}
	for _, opt := range opts {
		opt(o)
	}
	return o
}

// WithFormat sets the output format (table, json).
func WithFormat(format string) Option {
	return func(o *Options) {
		o.Format = format
	}
}

// WithVerbosity sets the verbosity level.
func WithVerbosity(v int) Option {
	return func(o *Options) {
		o.Verbosity = v
	}
}

// WithWorkers sets the number of concurrent enrichment workers.
func WithWorkers(workers int) Option {
	return func(o *Options) {
		o.Workers = workers
	}
}

// WithTUI controls TUI mode (nil = auto-detect, true = force, false = disable).
func WithTUI(tui *bool) Option {
	return func(o *Options) {
		o.TUI = tui
	}
}

// WithBrief selects a stored brief and the owner it is run for.
func WithBrief(briefID, ownerID string) Option {
	return func(o *Options) {
		o.BriefID = briefID
		o.OwnerID = ownerID
	}
}

// WithBriefFile runs a brief read from a YAML file.
func WithBriefFile(path string) Option {
	return func(o *Options) {
		o.BriefFile = path
	}
}

// WithStatus filters results by status.
func WithStatus(status string) Option {
	return func(o *Options) {
		o.Status = status
	}
}

// WithSince filters results by age (e.g., "1w", "30d", "6mo").
func WithSince(since string) Option {
	return func(o *Options) {
		o.Since = since
	}
}

// WithLimit sets the maximum number of entries shown.
func WithLimit(limit int) Option {
	return func(o *Options) {
		o.Limit = limit
	}
}

// WithListenAddr overrides server.listen_addr.
func WithListenAddr(addr string) Option {
	return func(o *Options) {
		o.ListenAddr = addr
	}
}
