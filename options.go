package peercheck

import (
	"errors"
	"fmt"
	"log/slog"
	"net/url"
	"time"
)

// checkerConfig holds mutable state during Checker construction.
type checkerConfig struct {
	title           string
	dashboardURL    string
	timeout         time.Duration
	maxConcurrency  int
	port            int
	logger          *slog.Logger
	resultCallbacks []func(LookupResult)
}

// Option configures a [Checker] during construction.
//
// Options return an error if validation fails, which [New] passes through.
type Option func(*checkerConfig) error

// WithDashboardURL sets the dashboard host lookups are sent to.
//
// The URL must be absolute with an http or https scheme. The lookup path
// /api/v1/peer is appended to it.
func WithDashboardURL(raw string) Option {
	return func(cfg *checkerConfig) error {
		u, err := url.Parse(raw)
		if err != nil {
			return fmt.Errorf("invalid dashboard url: %w", err)
		}
		if u.Scheme != "http" && u.Scheme != "https" {
			return fmt.Errorf("dashboard url scheme must be http or https, got %q", u.Scheme)
		}
		if u.Host == "" {
			return errors.New("dashboard url must have a host")
		}
		cfg.dashboardURL = raw
		return nil
	}
}

// WithTimeout sets the per-lookup timeout. Defaults to 4 seconds.
//
// Returns an error if the duration is zero or negative.
func WithTimeout(d time.Duration) Option {
	return func(cfg *checkerConfig) error {
		if d <= 0 {
			return errors.New("timeout must be positive")
		}
		cfg.timeout = d
		return nil
	}
}

// WithMaxConcurrency sets how many lookups a single submission may have in
// flight. Defaults to 8.
//
// Returns an error if n is less than 1.
func WithMaxConcurrency(n int) Option {
	return func(cfg *checkerConfig) error {
		if n < 1 {
			return errors.New("max concurrency must be at least 1")
		}
		cfg.maxConcurrency = n
		return nil
	}
}

// WithPort sets the HTTP port for the form. Defaults to 8000.
//
// Returns an error if the port is outside the valid range (1-65535).
func WithPort(port int) Option {
	return func(cfg *checkerConfig) error {
		if port < 1 || port > 65535 {
			return errors.New("port must be between 1 and 65535")
		}
		cfg.port = port
		return nil
	}
}

// WithTitle sets the page heading. Empty keeps the default
// "Gensyn Peer ID Tracker".
func WithTitle(title string) Option {
	return func(cfg *checkerConfig) error {
		cfg.title = title
		return nil
	}
}

// WithLogger sets a custom logger. Defaults to slog.Default().
//
// Returns an error if logger is nil.
func WithLogger(logger *slog.Logger) Option {
	return func(cfg *checkerConfig) error {
		if logger == nil {
			return errors.New("logger cannot be nil")
		}
		cfg.logger = logger
		return nil
	}
}

// WithResultCallback registers a function called once per completed lookup.
//
// Callbacks run synchronously while results are collected, so they must not
// block. Panics are recovered and logged. Multiple callbacks run in
// registration order; nil callbacks are ignored.
//
// Example:
//
//	pc, err := peercheck.New(
//	    peercheck.WithResultCallback(func(r peercheck.LookupResult) {
//	        if r.Result.Failed() {
//	            log.Printf("lookup for %s failed: %s", r.ID, r.Result.Error)
//	        }
//	    }),
//	)
func WithResultCallback(cb func(LookupResult)) Option {
	return func(cfg *checkerConfig) error {
		if cb == nil {
			return nil
		}
		cfg.resultCallbacks = append(cfg.resultCallbacks, cb)
		return nil
	}
}
