// Package metric provides Prometheus metrics for respd.
//
//   - prometheus.go: registry, server metrics and the /metrics handler
//   - collector.go: collector sampling the keyspace at scrape time
//
// Metrics include connection counts, decoded frames by kind, protocol
// errors by kind, and command counts and latencies.
package metric
