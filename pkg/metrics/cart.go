package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Persistence outcomes reported by cart stores.
const (
	OutcomeSaved     = "saved"
	OutcomeFailed    = "failed"
	OutcomeLoaded    = "loaded"
	OutcomeEmpty     = "empty"
	OutcomeCorrupt   = "corrupt"
	OutcomeLoadError = "load_error"
)

// CartMetrics records cart mutations and persistence activity.
type CartMetrics struct {
	mutations *prometheus.CounterVec
	persist   *prometheus.CounterVec
	saveTime  prometheus.Histogram
	live      prometheus.Gauge
}

// NewCartMetrics registers the cart metrics on the provided registerer.
func NewCartMetrics(reg prometheus.Registerer) *CartMetrics {
	if reg == nil {
		return &CartMetrics{}
	}
	mutations := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "cart_mutations_total",
		Help: "Cart mutations applied, by operation.",
	}, []string{"operation"})
	persist := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "cart_persistence_total",
		Help: "Cart state loads and saves, by outcome.",
	}, []string{"outcome"})
	saveTime := prometheus.NewHistogram(prometheus.HistogramOpts{
		Name:    "cart_save_duration_seconds",
		Help:    "Duration of cart state saves in seconds.",
		Buckets: prometheus.DefBuckets,
	})
	live := prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "cart_live_sessions",
		Help: "Cart sessions currently held in memory.",
	})
	reg.MustRegister(mutations, persist, saveTime, live)
	return &CartMetrics{
		mutations: mutations,
		persist:   persist,
		saveTime:  saveTime,
		live:      live,
	}
}

// IncMutation counts one applied mutation.
func (c *CartMetrics) IncMutation(operation string) {
	if c == nil || c.mutations == nil {
		return
	}
	c.mutations.WithLabelValues(normalizeLabel(operation)).Inc()
}

// IncPersist counts a load or save outcome.
func (c *CartMetrics) IncPersist(outcome string) {
	if c == nil || c.persist == nil {
		return
	}
	c.persist.WithLabelValues(normalizeLabel(outcome)).Inc()
}

// ObserveSave records how long a save took.
func (c *CartMetrics) ObserveSave(duration time.Duration) {
	if c == nil || c.saveTime == nil {
		return
	}
	c.saveTime.Observe(duration.Seconds())
}

// SetLive sets the number of carts held in memory.
func (c *CartMetrics) SetLive(n int) {
	if c == nil || c.live == nil {
		return
	}
	c.live.Set(float64(n))
}

func normalizeLabel(value string) string {
	if value == "" {
		return "unknown"
	}
	return value
}
