package texture

import "github.com/prometheus/client_golang/prometheus"

// Metrics are the cache's prometheus collectors.
type Metrics struct {
	requests *prometheus.CounterVec
	decodes  *prometheus.CounterVec
	expired  prometheus.Counter
	entries  prometheus.Gauge
}

// NewMetrics creates the collectors and registers them with reg.
// A nil reg leaves them unregistered.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		requests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "texcache_requests_total",
			Help: "Texture requests by outcome: hit, queued or miss",
		}, []string{"result"}),
		decodes: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "texcache_decodes_total",
			Help: "Completed decodes by result",
		}, []string{"result"}),
		expired: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "texcache_expired_entries_total",
			Help: "Entries removed by prefix expiration",
		}),
		entries: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "texcache_entries",
			Help: "Live cache entries",
		}),
	}
	if reg != nil {
		reg.MustRegister(m.requests, m.decodes, m.expired, m.entries)
	}
	return m
}
