package metrics

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
)

// IndexerMetrics exposes counters for the event indexing pipeline.
type IndexerMetrics struct {
	eventsProcessed *prometheus.CounterVec
	eventsFailed    *prometheus.CounterVec
	badgesAwarded   *prometheus.CounterVec
}

var (
	indexerOnce     sync.Once
	indexerRegistry *IndexerMetrics
)

// Indexer returns the process-wide indexer metrics registry.
func Indexer() *IndexerMetrics {
	indexerOnce.Do(func() {
		indexerRegistry = &IndexerMetrics{
			eventsProcessed: prometheus.NewCounterVec(prometheus.CounterOpts{
				Name: "emblem_events_processed_total",
				Help: "Count of domain events applied to state by type.",
			}, []string{"type"}),
			eventsFailed: prometheus.NewCounterVec(prometheus.CounterOpts{
				Name: "emblem_events_failed_total",
				Help: "Count of domain events aborted by a fatal error, by type.",
			}, []string{"type"}),
			badgesAwarded: prometheus.NewCounterVec(prometheus.CounterOpts{
				Name: "emblem_badges_awarded_total",
				Help: "Count of badge awards issued by definition.",
			}, []string{"definition"}),
		}
		prometheus.MustRegister(
			indexerRegistry.eventsProcessed,
			indexerRegistry.eventsFailed,
			indexerRegistry.badgesAwarded,
		)
	})
	return indexerRegistry
}

func (m *IndexerMetrics) ObserveEvent(kind string) {
	if m == nil {
		return
	}
	if kind == "" {
		kind = "unknown"
	}
	m.eventsProcessed.WithLabelValues(kind).Inc()
}

func (m *IndexerMetrics) ObserveEventFailure(kind string) {
	if m == nil {
		return
	}
	if kind == "" {
		kind = "unknown"
	}
	m.eventsFailed.WithLabelValues(kind).Inc()
}

func (m *IndexerMetrics) ObserveBadgeAwarded(definition string) {
	if m == nil {
		return
	}
	if definition == "" {
		definition = "unknown"
	}
	m.badgesAwarded.WithLabelValues(definition).Inc()
}
