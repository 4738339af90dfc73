// Package metrics provides Prometheus collectors for board engine events.
package metrics

import (
	"fmt"

	"github.com/prometheus/client_golang/prometheus"
)

// BoardMetrics contains Prometheus metrics for the note store, settle
// scheduler and voice session. A nil *BoardMetrics is valid and records nothing.
type BoardMetrics struct {
	registry *prometheus.Registry

	storeOperations  *prometheus.CounterVec
	storeWriteErrors prometheus.Counter
	notes            prometheus.Gauge

	settleCommits   prometheus.Counter
	settleDiscarded *prometheus.CounterVec

	voiceSessions *prometheus.CounterVec
	voiceRestarts prometheus.Counter
	voiceErrors   *prometheus.CounterVec

	collectors []prometheus.Collector
}

// NewBoardMetrics creates the collectors and registers them on registry.
func NewBoardMetrics(registry *prometheus.Registry) (*BoardMetrics, error) {
	m := &BoardMetrics{registry: registry}
	m.initMetrics()
	if err := registry.Register(m); err != nil {
		return nil, fmt.Errorf("register board metrics: %w", err)
	}
	return m, nil
}

func (m *BoardMetrics) initMetrics() {
	m.storeOperations = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "board_store_operations_total",
			Help: "Total number of note store mutations by operation and outcome",
		},
		[]string{"operation", "status"},
	)
	m.storeWriteErrors = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "board_store_write_errors_total",
		Help: "Total number of failed persistence writes",
	})
	m.notes = prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "board_notes",
		Help: "Number of notes currently on the board",
	})
	m.settleCommits = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "board_settle_commits_total",
		Help: "Total number of settled positions committed to the store",
	})
	m.settleDiscarded = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "board_settle_discarded_total",
			Help: "Total number of scheduled settles dropped before commit",
		},
		[]string{"reason"},
	)
	m.voiceSessions = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "voice_sessions_total",
			Help: "Total number of capture sessions started by outcome",
		},
		[]string{"status"},
	)
	m.voiceRestarts = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "voice_restarts_total",
		Help: "Total number of transparent capture restarts after a platform timeout",
	})
	m.voiceErrors = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "voice_errors_total",
			Help: "Total number of capture failures by kind",
		},
		[]string{"kind"},
	)

	m.collectors = []prometheus.Collector{
		m.storeOperations, m.storeWriteErrors, m.notes,
		m.settleCommits, m.settleDiscarded,
		m.voiceSessions, m.voiceRestarts, m.voiceErrors,
	}
}

// Describe implements the Collector interface
func (m *BoardMetrics) Describe(ch chan<- *prometheus.Desc) {
	for _, collector := range m.collectors {
		collector.Describe(ch)
	}
}

// Collect implements the Collector interface
func (m *BoardMetrics) Collect(ch chan<- prometheus.Metric) {
	for _, collector := range m.collectors {
		collector.Collect(ch)
	}
}

// WriteTextfile writes all registered metrics in text exposition format,
// suitable for a node_exporter textfile collector.
func (m *BoardMetrics) WriteTextfile(path string) error {
	if m == nil {
		return nil
	}
	return prometheus.WriteToTextfile(path, m.registry)
}

// RecordStoreOperation records a store mutation
func (m *BoardMetrics) RecordStoreOperation(operation, status string) {
	if m == nil {
		return
	}
	m.storeOperations.WithLabelValues(operation, status).Inc()
}

// RecordStoreWriteError records a failed persistence write
func (m *BoardMetrics) RecordStoreWriteError() {
	if m == nil {
		return
	}
	m.storeWriteErrors.Inc()
}

// SetNoteCount updates the current note count
func (m *BoardMetrics) SetNoteCount(n int) {
	if m == nil {
		return
	}
	m.notes.Set(float64(n))
}

// RecordSettleCommit records a settle that reached the store
func (m *BoardMetrics) RecordSettleCommit() {
	if m == nil {
		return
	}
	m.settleCommits.Inc()
}

// RecordSettleDiscarded records a settle dropped because a newer gesture or a cancel superseded it
func (m *BoardMetrics) RecordSettleDiscarded(reason string) {
	if m == nil {
		return
	}
	m.settleDiscarded.WithLabelValues(reason).Inc()
}

// RecordVoiceSession records a start attempt
func (m *BoardMetrics) RecordVoiceSession(status string) {
	if m == nil {
		return
	}
	m.voiceSessions.WithLabelValues(status).Inc()
}

// RecordVoiceRestart records an automatic capture restart
func (m *BoardMetrics) RecordVoiceRestart() {
	if m == nil {
		return
	}
	m.voiceRestarts.Inc()
}

// RecordVoiceError records a surfaced capture failure
func (m *BoardMetrics) RecordVoiceError(kind string) {
	if m == nil {
		return
	}
	m.voiceErrors.WithLabelValues(kind).Inc()
}
