package peercheck

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/jpalmerr/peercheck/internal/fetcher"
	"github.com/jpalmerr/peercheck/internal/peers"
	"github.com/jpalmerr/peercheck/internal/results"
	"github.com/jpalmerr/peercheck/internal/server"
	"github.com/jpalmerr/peercheck/web"
)

const defaultPort = 8000

// PeerResult is the outcome of looking up one peer identifier.
type PeerResult = results.PeerResult

// Totals are the reward and score sums over successful lookups.
type Totals = results.Totals

// Report is the outcome of one lookup run.
type Report struct {
	// Input is the raw submitted text.
	Input string

	// IDs are the extracted identifiers in submission order, duplicates included.
	IDs []string

	// Results maps each identifier to its result. When an identifier was
	// submitted more than once, the last lookup to complete is kept.
	Results map[string]PeerResult

	// Totals sums reward and score over the non-error entries of Results.
	Totals Totals
}

// Checker looks up peers on the dashboard and serves the lookup form.
//
// It is created with [New] and either used directly via [Checker.Check] or
// started as a web server with [Checker.Start].
type Checker struct {
	title          string
	dashboardURL   string
	timeout        time.Duration
	maxConcurrency int
	port           int
	logger         *slog.Logger
	fetcher        *fetcher.Fetcher
	callbacks      []func(LookupResult)
}

// LookupResult is passed to result callbacks as each lookup completes.
type LookupResult struct {
	// ID is the identifier exactly as submitted.
	ID string

	// Result is the decoded result or error result.
	Result PeerResult

	// Latency is the time taken by the HTTP request.
	Latency time.Duration
}

// New creates a [Checker] with the given options.
//
// Defaults:
//   - Dashboard: https://dashboard.gensyn.ai
//   - Timeout: 4 seconds per lookup
//   - Max concurrency: 8 lookups per submission
//   - Port: 8000
func New(opts ...Option) (*Checker, error) {
	cfg := &checkerConfig{
		dashboardURL:   fetcher.DefaultBaseURL,
		timeout:        fetcher.DefaultTimeout,
		maxConcurrency: fetcher.DefaultMaxConcurrency,
		port:           defaultPort,
	}

	for _, opt := range opts {
		if err := opt(cfg); err != nil {
			return nil, err
		}
	}

	logger := cfg.logger
	if logger == nil {
		logger = slog.Default()
	}

	return &Checker{
		title:          cfg.title,
		dashboardURL:   cfg.dashboardURL,
		timeout:        cfg.timeout,
		maxConcurrency: cfg.maxConcurrency,
		port:           cfg.port,
		logger:         logger,
		fetcher:        fetcher.NewFetcher(cfg.dashboardURL, cfg.timeout, cfg.maxConcurrency, logger),
		callbacks:      cfg.resultCallbacks,
	}, nil
}

// Check extracts identifiers from input and looks each one up.
//
// Check blocks until every lookup has finished or timed out. Empty input
// makes no requests and returns an empty report.
func (c *Checker) Check(ctx context.Context, input string) Report {
	ids := peers.Parse(input)
	set := c.FetchAll(ctx, ids)

	return Report{
		Input:   input,
		IDs:     ids,
		Results: set.Snapshot(),
		Totals:  set.Totals(),
	}
}

// FetchAll looks up every identifier and collects the results as they complete.
//
// Result callbacks run on the calling goroutine, once per lookup, after the
// result has been stored. FetchAll returns once every lookup has finished.
func (c *Checker) FetchAll(ctx context.Context, ids []string) *results.ResultSet {
	if len(c.callbacks) == 0 {
		return c.fetcher.Collect(ctx, ids, nil)
	}

	return c.fetcher.Collect(ctx, ids, func(o fetcher.Outcome) {
		lr := LookupResult{ID: o.ID, Result: o.Result, Latency: o.Latency}
		for _, cb := range c.callbacks {
			invokeCallbackSafe(cb, lr, c.logger)
		}
	})
}

// Start serves the lookup form until ctx is cancelled.
//
// Start is a blocking call. It returns nil on graceful shutdown and an error
// if the HTTP server cannot be started.
func (c *Checker) Start(ctx context.Context) error {
	c.logger.Info("peercheck starting",
		"dashboard", c.dashboardURL,
		"timeout", c.timeout.String(),
		"max_concurrency", c.maxConcurrency,
	)

	if ctx.Err() != nil {
		return nil
	}
	defer c.fetcher.Close()

	httpServer, err := server.NewServer(c, c.port, web.Assets, web.PageTemplate, c.title, c.logger)
	if err != nil {
		return fmt.Errorf("failed to create HTTP server: %w", err)
	}
	if err := httpServer.Start(ctx); err != nil {
		return fmt.Errorf("failed to start HTTP server: %w", err)
	}
	c.logger.Info("form available", "url", fmt.Sprintf("http://localhost:%d", c.port))

	<-ctx.Done()
	c.logger.Info("peercheck stopped")
	return nil
}

// Port returns the configured HTTP port.
func (c *Checker) Port() int {
	return c.port
}

// DashboardURL returns the dashboard base URL lookups are sent to.
func (c *Checker) DashboardURL() string {
	return c.dashboardURL
}

// Timeout returns the per-lookup timeout.
func (c *Checker) Timeout() time.Duration {
	return c.timeout
}

// MaxConcurrency returns the number of lookups allowed in flight per submission.
func (c *Checker) MaxConcurrency() int {
	return c.maxConcurrency
}

// invokeCallbackSafe calls a result callback with panic recovery.
// Panics are logged but do not propagate.
func invokeCallbackSafe(cb func(LookupResult), result LookupResult, logger *slog.Logger) {
	defer func() {
		if r := recover(); r != nil {
			logger.Error("result callback panicked",
				"panic", r,
				"peer_id", result.ID,
			)
		}
	}()
	cb(result)
}
