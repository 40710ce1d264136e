package results

// PeerResult is the outcome of looking up one peer identifier.
//
// A result either carries the peer's dashboard fields or an Error message,
// never both in a meaningful way: when Error is non-empty the other fields
// are zero and the result is excluded from [Totals].
type PeerResult struct {
	// PeerName is the human-readable name reported by the dashboard.
	PeerName string `json:"peerName,omitempty"`

	// Reward is the peer's reward, 0 when absent or non-numeric.
	Reward int64 `json:"reward"`

	// Score is the peer's score, 0 when absent or non-numeric.
	Score int64 `json:"score"`

	// Online reports whether the dashboard considers the peer online.
	Online bool `json:"online"`

	// Error describes why the lookup failed, e.g. "HTTP 404".
	Error string `json:"error,omitempty"`
}

// Failed reports whether the result is an error result.
func (r PeerResult) Failed() bool {
	return r.Error != ""
}

// ErrorResult builds a failed [PeerResult] with the given message.
func ErrorResult(msg string) PeerResult {
	return PeerResult{Error: msg}
}

// Totals are the reward and score sums over successful results.
type Totals struct {
	Reward int64 `json:"totalReward"`
	Score  int64 `json:"totalScore"`
}

// Sum adds up reward and score across every non-error result.
func Sum(entries map[string]PeerResult) Totals {
	var t Totals
	for _, r := range entries {
		if r.Failed() {
			continue
		}
		t.Reward += r.Reward
		t.Score += r.Score
	}
	return t
}
