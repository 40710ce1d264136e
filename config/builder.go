package config

import (
	"log/slog"

	"github.com/jpalmerr/peercheck"
)

// BuildOptions converts parsed configuration into [peercheck.Option] values.
//
// The logger, when non-nil, is passed through with [peercheck.WithLogger].
// Values have already been validated by [Parse], so the options only fail
// if cfg was built by hand with invalid fields.
func BuildOptions(cfg *Config, logger *slog.Logger) []peercheck.Option {
	opts := []peercheck.Option{
		peercheck.WithPort(cfg.Port),
		peercheck.WithDashboardURL(cfg.DashboardURL),
		peercheck.WithTimeout(cfg.Timeout.Duration()),
		peercheck.WithMaxConcurrency(cfg.MaxConcurrency),
	}

	if cfg.Title != "" {
		opts = append(opts, peercheck.WithTitle(cfg.Title))
	}
	if logger != nil {
		opts = append(opts, peercheck.WithLogger(logger))
	}

	return opts
}
