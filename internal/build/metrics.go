package build

import (
	"sync"
	"time"
)

// Metrics tracks rebuilds of a long running dev server.
type Metrics struct {
	TotalBuilds      int64
	SuccessfulBuilds int64
	FailedBuilds     int64
	AverageDuration  time.Duration
	TotalDuration    time.Duration
	LastBuild        time.Time
	LastError        string
	mutex            sync.RWMutex
}

// NewMetrics creates an empty tracker.
func NewMetrics() *Metrics {
	return &Metrics{}
}

// RecordBuild records one build attempt.
func (m *Metrics) RecordBuild(duration time.Duration, err error) {
	m.mutex.Lock()
	defer m.mutex.Unlock()

	m.TotalBuilds++
	m.TotalDuration += duration
	m.LastBuild = time.Now()

	if err != nil {
		m.FailedBuilds++
		m.LastError = err.Error()
	} else {
		m.SuccessfulBuilds++
		m.LastError = ""
	}

	m.AverageDuration = m.TotalDuration / time.Duration(m.TotalBuilds)
}

// Snapshot returns a copy of the current counters.
func (m *Metrics) Snapshot() MetricsSnapshot {
	m.mutex.RLock()
	defer m.mutex.RUnlock()

	return MetricsSnapshot{
		TotalBuilds:      m.TotalBuilds,
		SuccessfulBuilds: m.SuccessfulBuilds,
		FailedBuilds:     m.FailedBuilds,
		AverageDuration:  m.AverageDuration.String(),
		LastBuild:        m.LastBuild,
		LastError:        m.LastError,
	}
}

// SuccessRate returns the share of successful builds as a percentage.
func (m *Metrics) SuccessRate() float64 {
	m.mutex.RLock()
	defer m.mutex.RUnlock()

	if m.TotalBuilds == 0 {
		return 0.0
	}
	return float64(m.SuccessfulBuilds) / float64(m.TotalBuilds) * 100.0
}

// MetricsSnapshot is the JSON form of Metrics served by the dev server.
type MetricsSnapshot struct {
	TotalBuilds      int64     `json:"total_builds"`
	SuccessfulBuilds int64     `json:"successful_builds"`
	FailedBuilds     int64     `json:"failed_builds"`
	AverageDuration  string    `json:"average_duration"`
	LastBuild        time.Time `json:"last_build"`
	LastError        string    `json:"last_error,omitempty"`
}
