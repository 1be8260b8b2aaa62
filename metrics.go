package tokit

import "sync/atomic"

// Metrics counts engine activity with atomic counters. All methods are
// safe for concurrent use; a disabled Metrics (the zero value with enabled
// false) makes every record call a no-op.
type Metrics struct {
	enabled bool

	logins          atomic.Int64
	logouts         atomic.Int64
	kickouts        atomic.Int64
	replacements    atomic.Int64
	checkHits       atomic.Int64
	checkMisses     atomic.Int64
	renewals        atomic.Int64
	sessionsCreated atomic.Int64
}

func newMetrics(enabled bool) *Metrics {
	return &Metrics{enabled: enabled}
}

func (m *Metrics) recordLogin() {
	if m.enabled {
		m.logins.Add(1)
	}
}

func (m *Metrics) recordLogout() {
	if m.enabled {
		m.logouts.Add(1)
	}
}

func (m *Metrics) recordKickout() {
	if m.enabled {
		m.kickouts.Add(1)
	}
}

func (m *Metrics) recordReplacement() {
	if m.enabled {
		m.replacements.Add(1)
	}
}

func (m *Metrics) recordCheck(ok bool) {
	if !m.enabled {
		return
	}
	if ok {
		m.checkHits.Add(1)
	} else {
		m.checkMisses.Add(1)
	}
}

func (m *Metrics) recordRenewal() {
	if m.enabled {
		m.renewals.Add(1)
	}
}

func (m *Metrics) recordSessionCreated() {
	if m.enabled {
		m.sessionsCreated.Add(1)
	}
}

// MetricsSnapshot is a point-in-time copy of the counters.
type MetricsSnapshot struct {
	Logins          int64
	Logouts         int64
	Kickouts        int64
	Replacements    int64
	CheckHits       int64
	CheckMisses     int64
	Renewals        int64
	SessionsCreated int64
}

// Snapshot returns the current counter values. Counters keep advancing
// while the snapshot is taken; the result is consistent per counter, not
// across counters.
func (m *Metrics) Snapshot() MetricsSnapshot {
	return MetricsSnapshot{
		Logins:          m.logins.Load(),
		Logouts:         m.logouts.Load(),
		Kickouts:        m.kickouts.Load(),
		Replacements:    m.replacements.Load(),
		CheckHits:       m.checkHits.Load(),
		CheckMisses:     m.checkMisses.Load(),
		Renewals:        m.renewals.Load(),
		SessionsCreated: m.sessionsCreated.Load(),
	}
}
