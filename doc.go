// Package peercheck provides a small web form for looking up peers on the
// Gensyn dashboard.
//
// A submission is a block of text with one peer identifier per line. Every
// identifier is looked up with GET <dashboard>/api/v1/peer?id=<id>, at most
// eight at a time, and the page lists each peer's name, reward, score and
// online status, or the error that lookup produced, followed by the reward
// and score totals over the successful lookups.
//
// # Quick Start
//
//	pc, _ := peercheck.New(peercheck.WithPort(8000))
//
//	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
//	defer stop()
//
//	pc.Start(ctx) // blocks until context is cancelled
//
// Lookups can also be run without the web form:
//
//	report := pc.Check(ctx, "Qm123...\nQm456...")
//	fmt.Println(report.Totals.Reward, report.Totals.Score)
//
// # Configuration
//
// Every option has a default matching the public dashboard:
//
//	pc, err := peercheck.New(
//	    peercheck.WithDashboardURL("https://dashboard.gensyn.ai"),
//	    peercheck.WithTimeout(4 * time.Second),
//	    peercheck.WithMaxConcurrency(8),
//	    peercheck.WithPort(8000),
//	)
//
// # Errors
//
// Lookups never fail as a whole. A non-200 response becomes "HTTP <code>",
// and a network or decoding failure becomes its description. Either way the
// error is confined to that identifier's row and excluded from the totals.
// Nothing is retried or cached.
//
// # Architecture
//
//   - internal/peers: splits the submitted text into identifiers
//   - internal/fetcher: HTTP client and per-submission worker pool
//   - internal/results: concurrency-safe result set and totals
//   - internal/server: the single-route HTTP server
//   - web: embedded page template
package peercheck
