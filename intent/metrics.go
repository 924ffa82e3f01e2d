package intent

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// metrics is nil-safe so the cache can run without a registry.
type metrics struct {
	hits      prometheus.Counter
	misses    prometheus.Counter
	evictions prometheus.Counter
	entries   prometheus.Gauge
}

func newMetrics(registerer prometheus.Registerer) *metrics {
	if registerer == nil {
		return nil
	}
	factory := promauto.With(registerer)

	return &metrics{
		hits: factory.NewCounter(prometheus.CounterOpts{
			Name: "reevit_intent_cache_hits_total",
			Help: "Lookups that found a live pending or completed intent.",
		}),
		misses: factory.NewCounter(prometheus.CounterOpts{
			Name: "reevit_intent_cache_misses_total",
			Help: "Lookups that found nothing usable.",
		}),
		evictions: factory.NewCounter(prometheus.CounterOpts{
			Name: "reevit_intent_cache_evictions_total",
			Help: "Entries dropped because their TTL passed.",
		}),
		entries: factory.NewGauge(prometheus.GaugeOpts{
			Name: "reevit_intent_cache_entries",
			Help: "Entries currently held.",
		}),
	}
}

func (m *metrics) hit() {
	if m != nil {
		m.hits.Inc()
	}
}

func (m *metrics) miss() {
	if m != nil {
		m.misses.Inc()
	}
}

func (m *metrics) evicted(n int) {
	if m != nil {
		m.evictions.Add(float64(n))
	}
}

func (m *metrics) setSize(n int) {
	if m != nil {
		m.entries.Set(float64(n))
	}
}
