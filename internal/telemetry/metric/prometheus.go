package metric

import (
	"net/http"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "respd"

// Registry holds all application metrics.
type Registry struct {
	reg *prometheus.Registry

	// Connection metrics
	ConnectionsTotal    prometheus.Counter
	ConnectionsActive   prometheus.Gauge
	ConnectionsRejected *prometheus.CounterVec

	// Codec metrics
	FramesDecoded  *prometheus.CounterVec
	ProtocolErrors *prometheus.CounterVec
	BytesRead      prometheus.Counter
	BytesWritten   prometheus.Counter

	// Command metrics
	CommandsTotal   *prometheus.CounterVec
	CommandDuration *prometheus.HistogramVec
	RateLimited     prometheus.Counter
}

// NewRegistry creates a registry with every respd metric plus the Go runtime
// and process collectors registered.
func NewRegistry() *Registry {
	r := &Registry{
		reg: prometheus.NewRegistry(),
		ConnectionsTotal: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "server",
			Name:      "connections_total",
			Help:      "Total accepted client connections.",
		}),
		ConnectionsActive: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: "server",
			Name:      "connections_active",
			Help:      "Currently open client connections.",
		}),
		ConnectionsRejected: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "server",
			Name:      "connections_rejected_total",
			Help:      "Connections refused before serving, by reason.",
		}, []string{"reason"}),
		FramesDecoded: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "codec",
			Name:      "frames_decoded_total",
			Help:      "Top-level frames decoded, by frame kind.",
		}, []string{"kind"}),
		ProtocolErrors: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "codec",
			Name:      "protocol_errors_total",
			Help:      "Frames rejected by the decoder, by error kind.",
		}, []string{"kind"}),
		BytesRead: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "codec",
			Name:      "read_bytes_total",
			Help:      "Bytes received from clients.",
		}),
		BytesWritten: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "codec",
			Name:      "written_bytes_total",
			Help:      "Reply bytes written to clients.",
		}),
		CommandsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "command",
			Name:      "total",
			Help:      "Commands executed, by command and status (ok, error).",
		}, []string{"command", "status"}),
		CommandDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "command",
			Name:      "duration_seconds",
			Help:      "Command execution time in seconds.",
			Buckets:   []float64{.00001, .00005, .0001, .0005, .001, .005, .01, .05},
		}, []string{"command"}),
		RateLimited: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "command",
			Name:      "rate_limited_total",
			Help:      "Commands refused by the per-client rate limiter.",
		}),
	}

	r.reg.MustRegister(
		r.ConnectionsTotal, r.ConnectionsActive, r.ConnectionsRejected,
		r.FramesDecoded, r.ProtocolErrors, r.BytesRead, r.BytesWritten,
		r.CommandsTotal, r.CommandDuration, r.RateLimited,
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	return r
}

var (
	globalOnce sync.Once
	global     *Registry
)

// Global returns the process-wide registry, creating it on first use.
func Global() *Registry {
	globalOnce.Do(func() {
		global = NewRegistry()
	})
	return global
}

// Register adds an extra collector, such as a KeyspaceCollector.
func (r *Registry) Register(c prometheus.Collector) error {
	return r.reg.Register(c)
}

// Gatherer exposes the underlying registry for tests and custom handlers.
func (r *Registry) Gatherer() prometheus.Gatherer {
	return r.reg
}

// Handler returns an HTTP handler serving the registry in Prometheus format.
func (r *Registry) Handler() http.Handler {
	return promhttp.HandlerFor(r.reg, promhttp.HandlerOpts{Registry: r.reg})
}

// RecordCommand counts one command execution.
func (r *Registry) RecordCommand(command, status string, d time.Duration) {
	r.CommandsTotal.WithLabelValues(command, status).Inc()
	r.CommandDuration.WithLabelValues(command).Observe(d.Seconds())
}

// RecordFrame counts one decoded frame of the given kind.
func (r *Registry) RecordFrame(kind string) {
	r.FramesDecoded.WithLabelValues(kind).Inc()
}

// RecordProtocolError counts one decoder rejection.
func (r *Registry) RecordProtocolError(kind string) {
	r.ProtocolErrors.WithLabelValues(kind).Inc()
}

// ConnOpened tracks a newly accepted connection.
func (r *Registry) ConnOpened() {
	r.ConnectionsTotal.Inc()
	r.ConnectionsActive.Inc()
}

// ConnClosed tracks a closed connection.
func (r *Registry) ConnClosed() {
	r.ConnectionsActive.Dec()
}
