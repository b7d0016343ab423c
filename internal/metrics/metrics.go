// Package metrics exposes Prometheus instrumentation for packing runs and uploads.
package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/eugenenazirov/chat-bubbles/internal/packer"
)

const namespace = "chat_bubbles"

// Recorder owns the collectors of one registry.
type Recorder struct {
	registry   *prometheus.Registry
	packs      *prometheus.CounterVec
	iterations prometheus.Histogram
	duration   prometheus.Histogram
	uploads    *prometheus.CounterVec
}

// New creates a Recorder backed by a fresh registry that also carries the Go runtime
// and process collectors.
func New() *Recorder {
	reg := prometheus.NewRegistry()
	r := &Recorder{
		registry: reg,
		packs: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "packs_total",
			Help:      "Packing runs by termination status.",
		}, []string{"status"}),
		iterations: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "pack_iterations",
			Help:      "Relaxation iterations used per packing run.",
			Buckets:   prometheus.ExponentialBuckets(1, 4, 8),
		}),
		duration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "pack_duration_seconds",
			Help:      "Wall time of packing runs.",
			Buckets:   prometheus.ExponentialBuckets(0.0005, 4, 8),
		}),
		uploads: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "chat_uploads_total",
			Help:      "Chat export uploads by outcome.",
		}, []string{"outcome"}),
	}

	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		r.packs, r.iterations, r.duration, r.uploads,
	)
	return r
}

// ObservePack records one finished packing run.
func (r *Recorder) ObservePack(result packer.Result, elapsed time.Duration) {
	if r == nil {
		return
	}
	r.packs.WithLabelValues(result.Status.String()).Inc()
	r.iterations.Observe(float64(result.Iterations))
	r.duration.Observe(elapsed.Seconds())
}

// ObservePackError counts a packing run rejected before it started.
func (r *Recorder) ObservePackError() {
	if r == nil {
		return
	}
	r.packs.WithLabelValues("error").Inc()
}

// ObserveUpload counts a chat upload attempt.
func (r *Recorder) ObserveUpload(ok bool) {
	if r == nil {
		return
	}
	outcome := "accepted"
	if !ok {
		outcome = "rejected"
	}
	r.uploads.WithLabelValues(outcome).Inc()
}

// Handler serves the registry in the Prometheus exposition format.
func (r *Recorder) Handler() http.Handler {
	return promhttp.HandlerFor(r.registry, promhttp.HandlerOpts{})
}
