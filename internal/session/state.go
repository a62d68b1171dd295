// Package session holds the per-connection state: identity, a bounded search
// history, and request metrics.
//
// A State instance is owned exclusively by its connection's processing loop.
// It is not safe for concurrent use and does not need to be: no other
// goroutine ever touches it.
package session

import (
	"time"
)

// Identity names the party behind a connection. Exactly one of UserID and
// AnonymousID is set; it is assigned once at connection start and never
// changes.
type Identity struct {
	UserID      string
	AnonymousID string
}

// Label returns the identity as shown in welcome frames and logs.
func (id Identity) Label() string {
	if id.UserID != "" {
		return id.UserID
	}
	if id.AnonymousID != "" {
		return "anonymous_" + id.AnonymousID
	}
	return "anonymous"
}

// HistoryEntry records one past search on this connection.
type HistoryEntry struct {
	Timestamp    time.Time      `json:"timestamp"`
	Action       string         `json:"action"`
	Filters      map[string]any `json:"filters"`
	Pagination   map[string]any `json:"pagination"`
	ResultsCount int            `json:"results_count"`
	Success      bool           `json:"success"`
}

// MetricsSnapshot is an immutable copy of the connection's counters.
type MetricsSnapshot struct {
	TotalRequests       int            `json:"total_requests"`
	Succeeded           int            `json:"succeeded"`
	Failed              int            `json:"failed"`
	PerAction           map[string]int `json:"per_action"`
	TotalLatencyMs      float64        `json:"total_latency_ms"`
	AvgLatencyMs        float64        `json:"avg_latency_ms"`
	RollingAvgLatencyMs float64        `json:"rolling_avg_latency_ms"`
}

// State is the mutable per-connection session state.
type State struct {
	identity Identity

	// history is a fixed-capacity ring: head is the oldest entry, size the
	// number of live entries.
	history []HistoryEntry
	head    int
	size    int

	totalRequests int
	succeeded     int
	failed        int
	perAction     map[string]int
	totalLatency  time.Duration

	// latencies is a ring of the most recent samples feeding the rolling
	// average.
	latencies    []time.Duration
	latencyHead  int
	latencyCount int
}

// NewState creates session state with the given history capacity and rolling
// latency window. Non-positive values fall back to 50 and 32.
func NewState(identity Identity, historyCapacity, latencyWindow int) *State {
	if historyCapacity <= 0 {
		historyCapacity = 50
	}
	if latencyWindow <= 0 {
		latencyWindow = 32
	}
	return &State{
		identity:  identity,
		history:   make([]HistoryEntry, historyCapacity),
		perAction: make(map[string]int),
		latencies: make([]time.Duration, latencyWindow),
	}
}

// Identity returns the immutable connection identity.
func (s *State) Identity() Identity {
	return s.identity
}

// RecordSearch appends a history entry, evicting the oldest when the ring is
// full.
func (s *State) RecordSearch(entry HistoryEntry) {
	if s.size == len(s.history) {
		s.history[s.head] = entry
		s.head = (s.head + 1) % len(s.history)
		return
	}
	s.history[(s.head+s.size)%len(s.history)] = entry
	s.size++
}

// History returns a copy of the recorded searches, oldest first.
func (s *State) History() []HistoryEntry {
	out := make([]HistoryEntry, 0, s.size)
	for i := 0; i < s.size; i++ {
		out = append(out, s.history[(s.head+i)%len(s.history)])
	}
	return out
}

// HistoryLen returns the number of recorded searches.
func (s *State) HistoryLen() int {
	return s.size
}

// ClearHistory empties the history. Metrics counters are unaffected.
func (s *State) ClearHistory() {
	s.head = 0
	s.size = 0
}

// RecordOutcome counts one handled request and its latency.
func (s *State) RecordOutcome(action string, success bool, latency time.Duration) {
	s.totalRequests++
	if success {
		s.succeeded++
	} else {
		s.failed++
	}
	if action != "" {
		s.perAction[action]++
	}
	s.totalLatency += latency

	s.latencies[s.latencyHead] = latency
	s.latencyHead = (s.latencyHead + 1) % len(s.latencies)
	if s.latencyCount < len(s.latencies) {
		s.latencyCount++
	}
}

// SnapshotMetrics returns an immutable copy of the counters. The live
// structures are never exposed.
func (s *State) SnapshotMetrics() MetricsSnapshot {
	perAction := make(map[string]int, len(s.perAction))
	for action, n := range s.perAction {
		perAction[action] = n
	}

	snap := MetricsSnapshot{
		TotalRequests:  s.totalRequests,
		Succeeded:      s.succeeded,
		Failed:         s.failed,
		PerAction:      perAction,
		TotalLatencyMs: durationMs(s.totalLatency),
	}
	if s.totalRequests > 0 {
		snap.AvgLatencyMs = durationMs(s.totalLatency) / float64(s.totalRequests)
	}
	if s.latencyCount > 0 {
		var sum time.Duration
		for i := 0; i < s.latencyCount; i++ {
			sum += s.latencies[i]
		}
		snap.RollingAvgLatencyMs = durationMs(sum) / float64(s.latencyCount)
	}
	return snap
}

func durationMs(d time.Duration) float64 {
	return float64(d) / float64(time.Millisecond)
}
