package config

import (
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/jpalmerr/peercheck"
)

func TestBuildOptions(t *testing.T) {
	cfg := &Config{
		Title:          "Swarm",
		Port:           9191,
		DashboardURL:   "http://localhost:7000",
		Timeout:        Duration(2 * time.Second),
		MaxConcurrency: 3,
	}

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	pc, err := peercheck.New(BuildOptions(cfg, logger)...)
	if err != nil {
		t.Fatalf("peercheck.New() error = %v", err)
	}

	if pc.Port() != 9191 {
		t.Errorf("Port() = %d, want 9191", pc.Port())
	}
	if pc.DashboardURL() != "http://localhost:7000" {
		t.Errorf("DashboardURL() = %q", pc.DashboardURL())
	}
	if pc.Timeout() != 2*time.Second {
		t.Errorf("Timeout() = %v, want 2s", pc.Timeout())
	}
	if pc.MaxConcurrency() != 3 {
		t.Errorf("MaxConcurrency() = %d, want 3", pc.MaxConcurrency())
	}
}

func TestBuildOptions_Defaults(t *testing.T) {
	opts := BuildOptions(Default(), nil)
	// port, dashboard, timeout, concurrency; no title, no logger
	if len(opts) != 4 {
		t.Errorf("len(opts) = %d, want 4", len(opts))
	}

	if _, err := peercheck.New(opts...); err != nil {
		t.Fatalf("peercheck.New() error = %v", err)
	}
}

func TestBuildOptions_InvalidHandBuilt(t *testing.T) {
	cfg := Default()
	cfg.Port = 0

	if _, err := peercheck.New(BuildOptions(cfg, nil)...); err == nil {
		t.Fatal("peercheck.New() error = nil, want port error")
	}
}
