package metric

import "github.com/prometheus/client_golang/prometheus"

// KeyspaceStats is sampled by KeyspaceCollector at scrape time.
type KeyspaceStats interface {
	Len() int
}

// KeyspaceCollector reports the size of the keyspace. Sampling at scrape
// time keeps the write path free of gauge updates.
type KeyspaceCollector struct {
	stats KeyspaceStats
	keys  *prometheus.Desc
}

// NewKeyspaceCollector creates a collector reading from stats.
func NewKeyspaceCollector(stats KeyspaceStats) *KeyspaceCollector {
	return &KeyspaceCollector{
		stats: stats,
		keys: prometheus.NewDesc(
			prometheus.BuildFQName(namespace, "keyspace", "keys"),
			"Number of keys in the keyspace.",
			nil, nil,
		),
	}
}

// Describe implements prometheus.Collector.
func (c *KeyspaceCollector) Describe(ch chan<- *prometheus.Desc) {
	ch <- c.keys
}

// Collect implements prometheus.Collector.
func (c *KeyspaceCollector) Collect(ch chan<- prometheus.Metric) {
	ch <- prometheus.MustNewConstMetric(c.keys, prometheus.GaugeValue, float64(c.stats.Len()))
}
