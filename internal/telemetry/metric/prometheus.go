package metric

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/yndnr/nftsnap/internal/telemetry/logger"
)

const namespace = "nftsnap"

// Item visit outcomes.
const (
	StatusOwned   = "owned"
	StatusSkipped = "skipped"
	StatusFailed  = "failed"
)

// Registry holds all application metrics. A nil *Registry is valid and
// records nothing.
type Registry struct {
	reg *prometheus.Registry

	ItemsVisited      *prometheus.CounterVec
	GetMethodDuration *prometheus.HistogramVec
	SnapshotOwners    prometheus.Gauge
	SnapshotItems     prometheus.Gauge
	SnapshotSeqno     prometheus.Gauge
}

// NewRegistry creates and registers all collectors, including the Go
// runtime and process collectors.
func NewRegistry() *Registry {
	r := &Registry{
		reg: prometheus.NewRegistry(),
		ItemsVisited: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "items_visited_total",
			Help:      "Collection items visited during snapshots, by outcome.",
		}, []string{"status"}),
		GetMethodDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "get_method_duration_seconds",
			Help:      "Latency of network reads, by get-method and outcome.",
			Buckets:   []float64{0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10, 30},
		}, []string{"method", "outcome"}),
		SnapshotOwners: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "snapshot_owners",
			Help:      "Distinct owners in the most recent snapshot.",
		}),
		SnapshotItems: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "snapshot_items",
			Help:      "Owned items in the most recent snapshot.",
		}),
		SnapshotSeqno: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "snapshot_seqno",
			Help:      "Masterchain seqno the most recent snapshot was taken at.",
		}),
	}

	r.reg.MustRegister(
		r.ItemsVisited,
		r.GetMethodDuration,
		r.SnapshotOwners,
		r.SnapshotItems,
		r.SnapshotSeqno,
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	return r
}

// Prometheus returns the underlying registry, for components that
// register their own collectors.
func (r *Registry) Prometheus() *prometheus.Registry {
	if r == nil {
		return nil
	}
	return r.reg
}

// ObserveGetMethod records the latency and outcome of one network read.
func (r *Registry) ObserveGetMethod(method string, d time.Duration, err error) {
	if r == nil {
		return
	}
	outcome := "ok"
	if err != nil {
		outcome = "error"
	}
	r.GetMethodDuration.WithLabelValues(method, outcome).Observe(d.Seconds())
}

// ItemVisited counts one visited item index.
func (r *Registry) ItemVisited(status string) {
	if r == nil {
		return
	}
	r.ItemsVisited.WithLabelValues(status).Inc()
}

// SnapshotWritten records the totals of a completed snapshot.
func (r *Registry) SnapshotWritten(owners, items int, seqno int64) {
	if r == nil {
		return
	}
	r.SnapshotOwners.Set(float64(owners))
	r.SnapshotItems.Set(float64(items))
	r.SnapshotSeqno.Set(float64(seqno))
}

// Handler returns an HTTP handler for the /metrics endpoint.
func (r *Registry) Handler() http.Handler {
	return promhttp.HandlerFor(r.reg, promhttp.HandlerOpts{Registry: r.reg})
}

// Serve exposes /metrics on addr until ctx is done.
func (r *Registry) Serve(ctx context.Context, addr string, log logger.Logger) error {
	mux := http.NewServeMux()
	mux.Handle("/metrics", r.Handler())

	srv := &http.Server{
		Addr:              addr,
		Handler:           mux,
		ReadHeaderTimeout: 5 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Info("metrics endpoint listening", "addr", addr)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	}
}
