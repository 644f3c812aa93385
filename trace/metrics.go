package trace

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics is a Tracer backed by Prometheus collectors.
type Metrics struct {
	// Batch metrics
	BatchesTotal   prometheus.Counter
	BatchSizeBytes prometheus.Histogram

	// Row metrics
	RowsDecoded   prometheus.Counter
	BytesReceived prometheus.Counter
	DecodeLatency prometheus.Histogram
}

// NewMetrics creates a Metrics tracer registering its collectors under the
// given namespace on the default registry.
func NewMetrics(namespace string) *Metrics {
	return &Metrics{
		BatchesTotal: promauto.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "batches_total",
			Help:      "Total number of batch responses converted",
		}),
		BatchSizeBytes: promauto.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "batch_size_bytes",
			Help:      "Serialized payload size per batch in bytes",
			Buckets:   prometheus.ExponentialBuckets(1024, 4, 10),
		}),
		RowsDecoded: promauto.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "rows_decoded_total",
			Help:      "Total number of rows decoded across all batches",
		}),
		BytesReceived: promauto.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "bytes_received_total",
			Help:      "Total serialized payload bytes handed to iterators",
		}),
		DecodeLatency: promauto.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "decode_latency_seconds",
			Help:      "Cumulative decode time per batch in seconds",
			Buckets:   []float64{.001, .005, .01, .025, .05, .1, .25, .5, 1, 2.5, 5},
		}),
	}
}

// BatchStarted records the batch and its payload size.
func (m *Metrics) BatchStarted(bytes int) {
	m.BatchesTotal.Inc()
	m.BatchSizeBytes.Observe(float64(bytes))
	m.BytesReceived.Add(float64(bytes))
}

// RowsParsed records decoded rows and the time spent decoding them.
func (m *Metrics) RowsParsed(rows int, elapsed time.Duration) {
	m.RowsDecoded.Add(float64(rows))
	m.DecodeLatency.Observe(elapsed.Seconds())
}

// BatchFinished is a no-op; batch completion is implied by RowsParsed.
func (m *Metrics) BatchFinished() {}

// MetricsServer runs an HTTP server exposing the /metrics endpoint.
type MetricsServer struct {
	server *http.Server
}

// NewMetricsServer creates a new metrics server on the given address.
func NewMetricsServer(addr string) *MetricsServer {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.Handler())
	mux.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("OK"))
	})

	return &MetricsServer{
		server: &http.Server{
			Addr:    addr,
			Handler: mux,
		},
	}
}

// Start starts the metrics server (blocking).
func (s *MetricsServer) Start() error {
	return s.server.ListenAndServe()
}

// StartAsync starts the metrics server in a goroutine.
func (s *MetricsServer) StartAsync() {
	go func() {
		_ = s.server.ListenAndServe()
	}()
}

// Stop stops the metrics server.
func (s *MetricsServer) Stop() error {
	return s.server.Close()
}
