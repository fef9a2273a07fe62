package observability

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "listings_import"

// Metrics holds the import pipeline's Prometheus collectors. A nil *Metrics
// is valid and records nothing.
type Metrics struct {
	Registry *prometheus.Registry

	RunsTotal          *prometheus.CounterVec
	RowsTotal          *prometheus.CounterVec
	ViolationsTotal    *prometheus.CounterVec
	ChunksFlushedTotal prometheus.Counter
	FlushDuration      prometheus.Histogram
}

// NewMetrics creates the collectors on a private registry.
func NewMetrics() *Metrics {
	m := &Metrics{
		Registry: prometheus.NewRegistry(),
		RunsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "runs_total",
			Help:      "Import runs by outcome (success, partial, rejected, malformed, store_failure).",
		}, []string{"outcome"}),
		RowsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "rows_total",
			Help:      "Data rows seen, by validation status.",
		}, []string{"status"}),
		ViolationsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "violations_total",
			Help:      "Distinct row/column validation errors, by column.",
		}, []string{"column"}),
		ChunksFlushedTotal: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "chunks_flushed_total",
			Help:      "Chunks successfully upserted into the store.",
		}),
		FlushDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "flush_duration_seconds",
			Help:      "Time spent upserting one chunk, retries included.",
			Buckets:   prometheus.DefBuckets,
		}),
	}

	m.Registry.MustRegister(
		m.RunsTotal,
		m.RowsTotal,
		m.ViolationsTotal,
		m.ChunksFlushedTotal,
		m.FlushDuration,
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	return m
}

func (m *Metrics) ObserveRun(outcome string) {
	if m == nil {
		return
	}
	m.RunsTotal.WithLabelValues(outcome).Inc()
}

func (m *Metrics) ObserveRows(valid, invalid int) {
	if m == nil {
		return
	}
	m.RowsTotal.WithLabelValues("valid").Add(float64(valid))
	m.RowsTotal.WithLabelValues("invalid").Add(float64(invalid))
}

func (m *Metrics) ObserveViolation(column string) {
	if m == nil {
		return
	}
	m.ViolationsTotal.WithLabelValues(column).Inc()
}

func (m *Metrics) ObserveFlush(d time.Duration) {
	if m == nil {
		return
	}
	m.ChunksFlushedTotal.Inc()
	m.FlushDuration.Observe(d.Seconds())
}

// Handler serves the registry in the Prometheus exposition format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.Registry, promhttp.HandlerOpts{})
}

// Serve exposes /metrics on port until ctx is cancelled.
func (m *Metrics) Serve(ctx context.Context, port string) error {
	mux := http.NewServeMux()
	mux.Handle("/metrics", m.Handler())

	server := &http.Server{
		Addr:              ":" + port,
		Handler:           mux,
		ReadHeaderTimeout: 5 * time.Second,
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = server.Shutdown(shutdownCtx)
	}()

	if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}
