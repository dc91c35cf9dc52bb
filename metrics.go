package tokenvault

import "sync/atomic"

// MetricID identifies one operation counter.
type MetricID uint16

const (
	// MetricIssueSuccess counts successfully minted token pairs.
	MetricIssueSuccess MetricID = iota
	// MetricIssueFailure counts failed issuance attempts.
	MetricIssueFailure
	// MetricRotateSuccess counts successful refresh rotations.
	MetricRotateSuccess
	// MetricRotateFailure counts failed rotations other than replays.
	MetricRotateFailure
	// MetricRotateReplayBlocked counts rotations rejected because the
	// record was already consumed — the single-use guarantee firing.
	MetricRotateReplayBlocked
	// MetricRevokeSuccess counts successful revocations.
	MetricRevokeSuccess
	// MetricRevokeFailure counts failed revocations.
	MetricRevokeFailure
	// MetricIntrospectSuccess counts accepted access tokens.
	MetricIntrospectSuccess
	// MetricIntrospectFailure counts rejected access tokens.
	MetricIntrospectFailure

	metricCount
)

var metricNames = [metricCount]string{
	MetricIssueSuccess:        "issue_success",
	MetricIssueFailure:        "issue_failure",
	MetricRotateSuccess:       "rotate_success",
	MetricRotateFailure:       "rotate_failure",
	MetricRotateReplayBlocked: "rotate_replay_blocked",
	MetricRevokeSuccess:       "revoke_success",
	MetricRevokeFailure:       "revoke_failure",
	MetricIntrospectSuccess:   "introspect_success",
	MetricIntrospectFailure:   "introspect_failure",
}

type metricSet struct {
	counters [metricCount]atomic.Uint64
}

func (m *metricSet) inc(id MetricID) {
	if m == nil || id >= metricCount {
		return
	}
	m.counters[id].Add(1)
}

// MetricsSnapshot is a point-in-time copy of all counters, keyed by
// stable metric names.
type MetricsSnapshot struct {
	Counters map[string]uint64
}

func (m *metricSet) snapshot() MetricsSnapshot {
	snap := MetricsSnapshot{Counters: make(map[string]uint64, metricCount)}
	if m == nil {
		return snap
	}
	for id := MetricID(0); id < metricCount; id++ {
		snap.Counters[metricNames[id]] = m.counters[id].Load()
	}
	return snap
}
