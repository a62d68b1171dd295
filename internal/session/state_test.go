package session

import (
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIdentity_Label(t *testing.T) {
	assert.Equal(t, "user-7", Identity{UserID: "user-7"}.Label())
	assert.Equal(t, "anonymous_abc", Identity{AnonymousID: "abc"}.Label())
	assert.Equal(t, "anonymous", Identity{}.Label())
}

func TestState_HistoryFIFO(t *testing.T) {
	st := NewState(Identity{AnonymousID: "a"}, 3, 8)

	for i := 1; i <= 5; i++ {
		st.RecordSearch(HistoryEntry{Action: fmt.Sprintf("search-%d", i)})
	}

	history := st.History()
	require.Len(t, history, 3)
	// Oldest evicted first: 1 and 2 are gone.
	assert.Equal(t, "search-3", history[0].Action)
	assert.Equal(t, "search-4", history[1].Action)
	assert.Equal(t, "search-5", history[2].Action)
}

func TestState_HistoryBoundAfterOverflow(t *testing.T) {
	const capacity = 50
	st := NewState(Identity{AnonymousID: "a"}, capacity, 8)

	for i := 0; i < capacity+5; i++ {
		st.RecordSearch(HistoryEntry{ResultsCount: i})
	}

	history := st.History()
	require.Len(t, history, capacity)
	assert.Equal(t, 5, history[0].ResultsCount)
	assert.Equal(t, capacity+4, history[capacity-1].ResultsCount)
}

func TestState_ClearHistoryKeepsMetrics(t *testing.T) {
	st := NewState(Identity{AnonymousID: "a"}, 10, 8)
	st.RecordSearch(HistoryEntry{Action: "search_cars"})
	st.RecordOutcome("search_cars", true, 5*time.Millisecond)

	st.ClearHistory()

	assert.Empty(t, st.History())
	assert.Equal(t, 0, st.HistoryLen())

	snap := st.SnapshotMetrics()
	assert.Equal(t, 1, snap.TotalRequests)
	assert.Equal(t, 1, snap.Succeeded)
}

func TestState_Counters(t *testing.T) {
	st := NewState(Identity{UserID: "u"}, 10, 8)

	st.RecordOutcome("search_cars", true, 10*time.Millisecond)
	st.RecordOutcome("search_cars", true, 20*time.Millisecond)
	st.RecordOutcome("get_brands", false, 30*time.Millisecond)

	snap := st.SnapshotMetrics()
	assert.Equal(t, 3, snap.TotalRequests)
	assert.Equal(t, 2, snap.Succeeded)
	assert.Equal(t, 1, snap.Failed)
	assert.Equal(t, 2, snap.PerAction["search_cars"])
	assert.Equal(t, 1, snap.PerAction["get_brands"])
	assert.InDelta(t, 60.0, snap.TotalLatencyMs, 0.001)
	assert.InDelta(t, 20.0, snap.AvgLatencyMs, 0.001)
	assert.InDelta(t, 20.0, snap.RollingAvgLatencyMs, 0.001)
}

func TestState_RollingLatencyWindow(t *testing.T) {
	st := NewState(Identity{UserID: "u"}, 10, 2)

	st.RecordOutcome("a", true, 100*time.Millisecond)
	st.RecordOutcome("a", true, 10*time.Millisecond)
	st.RecordOutcome("a", true, 20*time.Millisecond)

	snap := st.SnapshotMetrics()
	// Window of 2: only the last two samples feed the rolling average.
	assert.InDelta(t, 15.0, snap.RollingAvgLatencyMs, 0.001)
	assert.InDelta(t, 130.0/3.0, snap.AvgLatencyMs, 0.001)
}

func TestState_SnapshotIsACopy(t *testing.T) {
	st := NewState(Identity{UserID: "u"}, 10, 8)
	st.RecordOutcome("search_cars", true, time.Millisecond)

	snap := st.SnapshotMetrics()
	snap.PerAction["search_cars"] = 99

	assert.Equal(t, 1, st.SnapshotMetrics().PerAction["search_cars"])
}
