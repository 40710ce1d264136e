package fetcher

import (
	"context"
	"fmt"
	"log/slog"
	"net/url"
	"runtime/debug"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/jpalmerr/peercheck/internal/results"
)

// Defaults for a [Fetcher].
const (
	DefaultBaseURL        = "https://dashboard.gensyn.ai"
	DefaultTimeout        = 4 * time.Second
	DefaultMaxConcurrency = 8
)

// peerPath is the dashboard endpoint queried for each identifier.
const peerPath = "/api/v1/peer"

// Outcome is the lookup result for one identifier, emitted as each fetch completes.
type Outcome struct {
	// ID is the identifier exactly as submitted.
	ID string

	// Result is the decoded result or error result.
	Result results.PeerResult

	// Latency is the time taken by the HTTP request.
	Latency time.Duration
}

// Fetcher issues one dashboard lookup per identifier with bounded concurrency.
//
// A Fetcher is safe for concurrent use; each call to [Fetcher.Collect] or
// [Fetcher.Stream] runs its own worker pool of at most maxConcurrency
// goroutines.
type Fetcher struct {
	client         *Client
	baseURL        string
	timeout        time.Duration
	maxConcurrency int
	logger         *slog.Logger
}

// NewFetcher creates a [Fetcher].
//
// Parameters:
//   - baseURL: dashboard host, e.g. "https://dashboard.gensyn.ai"
//   - timeout: per-lookup timeout (DefaultTimeout if <= 0)
//   - maxConcurrency: in-flight lookups per submission (DefaultMaxConcurrency if <= 0)
//   - logger: logger for lookup events (slog.Default() if nil)
func NewFetcher(baseURL string, timeout time.Duration, maxConcurrency int, logger *slog.Logger) *Fetcher {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	if maxConcurrency <= 0 {
		maxConcurrency = DefaultMaxConcurrency
	}
	if logger == nil {
		logger = slog.Default()
	}

	return &Fetcher{
		client:         NewClient(),
		baseURL:        strings.TrimRight(baseURL, "/"),
		timeout:        timeout,
		maxConcurrency: maxConcurrency,
		logger:         logger,
	}
}

// PeerURL builds the lookup URL for id under baseURL.
func PeerURL(baseURL, id string) string {
	q := url.Values{"id": []string{id}}
	return strings.TrimRight(baseURL, "/") + peerPath + "?" + q.Encode()
}

// Collect looks up every identifier and stores the outcomes by identifier.
//
// Duplicated identifiers are fetched once per occurrence; the outcome that
// completes last is the one kept. each, when non-nil, is called on the
// calling goroutine for every outcome after it has been stored. Collect
// blocks until every lookup has finished. An empty ids slice returns an
// empty set without any request.
func (f *Fetcher) Collect(ctx context.Context, ids []string, each func(Outcome)) *results.ResultSet {
	set := results.NewResultSet()
	for o := range f.Stream(ctx, ids) {
		set.Set(o.ID, o.Result)
		if each != nil {
			each(o)
		}
	}
	return set
}

// Stream starts the lookups and returns a channel of outcomes in completion order.
//
// The channel is closed once every identifier has produced exactly one
// outcome. Callers must drain it.
func (f *Fetcher) Stream(ctx context.Context, ids []string) <-chan Outcome {
	out := make(chan Outcome, len(ids))
	if len(ids) == 0 {
		close(out)
		return out
	}

	jobs := make(chan string, len(ids))
	for _, id := range ids {
		jobs <- id
	}
	close(jobs)

	workers := f.maxConcurrency
	if workers > len(ids) {
		workers = len(ids)
	}

	var wg sync.WaitGroup
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for id := range jobs {
				out <- f.lookup(ctx, id)
			}
		}()
	}

	go func() {
		wg.Wait()
		close(out)
	}()

	return out
}

// Close releases idle connections held by the underlying client.
func (f *Fetcher) Close() {
	f.client.Close()
}

// lookup fetches and decodes one identifier. A panic while handling the
// response is recovered and reported as an error result.
func (f *Fetcher) lookup(ctx context.Context, id string) (o Outcome) {
	o.ID = id

	defer func() {
		if r := recover(); r != nil {
			correlationID := uuid.NewString()
			f.logger.Error("peer lookup panic",
				"correlation_id", correlationID,
				"peer_id", id,
				"panic", fmt.Sprintf("%v", r),
				"stack", string(debug.Stack()),
			)
			o.Result = results.ErrorResult(fmt.Sprintf("lookup panic (correlation_id: %s)", correlationID))
		}
	}()

	resp := f.client.Fetch(ctx, PeerURL(f.baseURL, id), f.timeout)
	o.Latency = resp.Latency
	o.Result = ToResult(resp)

	if o.Result.Failed() {
		f.logger.Debug("peer lookup failed",
			"peer_id", id,
			"status_code", resp.StatusCode,
			"latency_ms", resp.Latency.Milliseconds(),
			"error", o.Result.Error,
		)
	}
	return o
}
