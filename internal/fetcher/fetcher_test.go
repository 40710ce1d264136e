package fetcher

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/jpalmerr/peercheck/internal/results"
)

// testLogger returns a logger that discards all output for clean test output.
func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// fakeDashboard serves /api/v1/peer from a fixed table of peers.
// Unknown ids get a 404. Requests are counted per id.
type fakeDashboard struct {
	mu    sync.Mutex
	peers map[string]string
	calls map[string]int
	total atomic.Int64
}

func newFakeDashboard(peers map[string]string) *fakeDashboard {
	return &fakeDashboard{peers: peers, calls: make(map[string]int)}
}

func (d *fakeDashboard) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	d.total.Add(1)
	if r.URL.Path != "/api/v1/peer" {
		http.NotFound(w, r)
		return
	}

	id := r.URL.Query().Get("id")
	d.mu.Lock()
	d.calls[id]++
	body, ok := d.peers[id]
	d.mu.Unlock()

	if !ok {
		http.NotFound(w, r)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	_, _ = io.WriteString(w, body)
}

func (d *fakeDashboard) callsFor(id string) int {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.calls[id]
}

func TestPeerURL(t *testing.T) {
	tests := []struct {
		base string
		id   string
		want string
	}{
		{"https://dashboard.gensyn.ai", "Qm123", "https://dashboard.gensyn.ai/api/v1/peer?id=Qm123"},
		{"https://dashboard.gensyn.ai/", "Qm123", "https://dashboard.gensyn.ai/api/v1/peer?id=Qm123"},
		{"http://localhost:9000", "a b&c", "http://localhost:9000/api/v1/peer?id=a+b%26c"},
	}

	for _, tt := range tests {
		if got := PeerURL(tt.base, tt.id); got != tt.want {
			t.Errorf("PeerURL(%q, %q) = %q, want %q", tt.base, tt.id, got, tt.want)
		}
	}
}

func TestNewFetcher_Defaults(t *testing.T) {
	f := NewFetcher("", 0, 0, nil)
	defer f.Close()

	if f.baseURL != DefaultBaseURL {
		t.Errorf("baseURL = %q, want %q", f.baseURL, DefaultBaseURL)
	}
	if f.timeout != DefaultTimeout {
		t.Errorf("timeout = %v, want %v", f.timeout, DefaultTimeout)
	}
	if f.maxConcurrency != DefaultMaxConcurrency {
		t.Errorf("maxConcurrency = %d, want %d", f.maxConcurrency, DefaultMaxConcurrency)
	}
	if f.logger == nil {
		t.Error("logger = nil")
	}
}

func TestFetcher_Collect_Empty(t *testing.T) {
	dash := newFakeDashboard(nil)
	ts := httptest.NewServer(dash)
	defer ts.Close()

	f := NewFetcher(ts.URL, time.Second, 8, testLogger())
	set := f.Collect(context.Background(), nil, nil)

	if set.Len() != 0 {
		t.Errorf("Len() = %d, want 0", set.Len())
	}
	if n := dash.total.Load(); n != 0 {
		t.Errorf("requests = %d, want 0", n)
	}
}

func TestFetcher_Collect(t *testing.T) {
	dash := newFakeDashboard(map[string]string{
		"Qm1": `{"peerName":"x","reward":"10","score":"5","online":true}`,
		"Qm2": `{"peerName":"y","reward":3,"score":2,"online":false}`,
	})
	ts := httptest.NewServer(dash)
	defer ts.Close()

	f := NewFetcher(ts.URL, time.Second, 8, testLogger())
	defer f.Close()

	set := f.Collect(context.Background(), []string{"Qm1", "Qm2", "missing"}, nil)

	if set.Len() != 3 {
		t.Fatalf("Len() = %d, want 3", set.Len())
	}
	if n := dash.total.Load(); n != 3 {
		t.Errorf("requests = %d, want 3", n)
	}

	want := map[string]results.PeerResult{
		"Qm1":     {PeerName: "x", Reward: 10, Score: 5, Online: true},
		"Qm2":     {PeerName: "y", Reward: 3, Score: 2},
		"missing": {Error: "HTTP 404"},
	}
	for id, w := range want {
		got, ok := set.Get(id)
		if !ok {
			t.Errorf("Get(%q) not found", id)
			continue
		}
		if got != w {
			t.Errorf("Get(%q) = %+v, want %+v", id, got, w)
		}
	}

	if got := set.Totals(); got != (results.Totals{Reward: 13, Score: 7}) {
		t.Errorf("Totals() = %+v, want {13 7}", got)
	}
}

func TestFetcher_Collect_NotFoundContributesZero(t *testing.T) {
	dash := newFakeDashboard(nil)
	ts := httptest.NewServer(dash)
	defer ts.Close()

	f := NewFetcher(ts.URL, time.Second, 8, testLogger())
	set := f.Collect(context.Background(), []string{"gone"}, nil)

	got, _ := set.Get("gone")
	if got.Error != "HTTP 404" {
		t.Errorf("Error = %q, want %q", got.Error, "HTTP 404")
	}
	if totals := set.Totals(); totals != (results.Totals{}) {
		t.Errorf("Totals() = %+v, want zero", totals)
	}
}

func TestFetcher_Collect_Duplicates(t *testing.T) {
	dash := newFakeDashboard(map[string]string{
		"dup": `{"peerName":"d","reward":4,"score":1,"online":true}`,
	})
	ts := httptest.NewServer(dash)
	defer ts.Close()

	f := NewFetcher(ts.URL, time.Second, 8, testLogger())
	set := f.Collect(context.Background(), []string{"dup", "dup", "dup"}, nil)

	if calls := dash.callsFor("dup"); calls != 3 {
		t.Errorf("calls for dup = %d, want 3", calls)
	}
	if set.Len() != 1 {
		t.Errorf("Len() = %d, want 1", set.Len())
	}
	// only the retained entry counts
	if got := set.Totals(); got != (results.Totals{Reward: 4, Score: 1}) {
		t.Errorf("Totals() = %+v, want {4 1}", got)
	}
}

func TestFetcher_Collect_TransportFailure(t *testing.T) {
	ts := httptest.NewServer(http.NotFoundHandler())
	url := ts.URL
	ts.Close() // nothing is listening any more

	f := NewFetcher(url, time.Second, 8, testLogger())
	set := f.Collect(context.Background(), []string{"a", "b"}, nil)

	if set.Len() != 2 {
		t.Fatalf("Len() = %d, want 2", set.Len())
	}
	for _, id := range []string{"a", "b"} {
		got, _ := set.Get(id)
		if !strings.Contains(got.Error, "request failed") {
			t.Errorf("Get(%q).Error = %q, want transport failure", id, got.Error)
		}
	}
}

func TestFetcher_Collect_Timeout(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Query().Get("id") == "slow" {
			select {
			case <-r.Context().Done():
			case <-time.After(2 * time.Second):
			}
			return
		}
		_, _ = io.WriteString(w, `{"peerName":"fast","reward":1,"score":1}`)
	}))
	defer ts.Close()

	f := NewFetcher(ts.URL, 100*time.Millisecond, 8, testLogger())
	set := f.Collect(context.Background(), []string{"slow", "fast"}, nil)

	slow, _ := set.Get("slow")
	if !strings.Contains(slow.Error, "context deadline exceeded") {
		t.Errorf("slow.Error = %q, want deadline exceeded", slow.Error)
	}

	fast, _ := set.Get("fast")
	if fast.Failed() || fast.PeerName != "fast" {
		t.Errorf("fast = %+v, want success", fast)
	}
}

func TestFetcher_RespectsMaxConcurrency(t *testing.T) {
	const maxConcurrency = 3

	var inFlight, peak atomic.Int64
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		n := inFlight.Add(1)
		defer inFlight.Add(-1)
		for {
			p := peak.Load()
			if n <= p || peak.CompareAndSwap(p, n) {
				break
			}
		}
		time.Sleep(30 * time.Millisecond)
		_, _ = io.WriteString(w, `{"reward":1,"score":1}`)
	}))
	defer ts.Close()

	ids := make([]string, 12)
	for i := range ids {
		ids[i] = fmt.Sprintf("peer-%d", i)
	}

	f := NewFetcher(ts.URL, 5*time.Second, maxConcurrency, testLogger())
	set := f.Collect(context.Background(), ids, nil)

	if set.Len() != len(ids) {
		t.Fatalf("Len() = %d, want %d", set.Len(), len(ids))
	}
	if p := peak.Load(); p > maxConcurrency {
		t.Errorf("peak in-flight = %d, want <= %d", p, maxConcurrency)
	}
	if got := set.Totals(); got != (results.Totals{Reward: 12, Score: 12}) {
		t.Errorf("Totals() = %+v, want {12 12}", got)
	}
}

func TestFetcher_Stream(t *testing.T) {
	dash := newFakeDashboard(map[string]string{
		"a": `{"reward":1}`,
		"b": `{"reward":2}`,
	})
	ts := httptest.NewServer(dash)
	defer ts.Close()

	f := NewFetcher(ts.URL, time.Second, 1, testLogger())

	seen := make(map[string]int)
	for o := range f.Stream(context.Background(), []string{"a", "b", "a"}) {
		seen[o.ID]++
		if o.Result.Failed() {
			t.Errorf("outcome %q failed: %s", o.ID, o.Result.Error)
		}
	}

	if seen["a"] != 2 || seen["b"] != 1 {
		t.Errorf("outcomes = %v, want a:2 b:1", seen)
	}

	// empty input closes immediately
	if _, ok := <-f.Stream(context.Background(), nil); ok {
		t.Error("Stream(nil) produced an outcome")
	}
}

func TestFetcher_Collect_EachSeesEveryOutcome(t *testing.T) {
	dash := newFakeDashboard(map[string]string{
		"Qm1": `{"peerName":"x","reward":"10","score":"5","online":true}`,
	})
	ts := httptest.NewServer(dash)
	defer ts.Close()

	f := NewFetcher(ts.URL, time.Second, 2, testLogger())
	defer f.Close()

	var outcomes []Outcome
	set := f.Collect(context.Background(), []string{"Qm1", "missing", "Qm1"}, func(o Outcome) {
		outcomes = append(outcomes, o)
	})

	if len(outcomes) != 3 {
		t.Fatalf("callbacks = %d, want 3", len(outcomes))
	}
	seen := make(map[string]int)
	for _, o := range outcomes {
		seen[o.ID]++
	}
	if seen["Qm1"] != 2 || seen["missing"] != 1 {
		t.Errorf("outcomes = %v, want Qm1:2 missing:1", seen)
	}

	got, _ := set.Get("Qm1")
	want := results.PeerResult{PeerName: "x", Reward: 10, Score: 5, Online: true}
	if got != want {
		t.Errorf("Get(Qm1) = %+v, want %+v", got, want)
	}
}
