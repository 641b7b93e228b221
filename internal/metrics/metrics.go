package metrics

import (
	"context"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog/log"
)

const namespace = "orders"

// submission results
const (
	SubmitSuccess    = "success"
	SubmitValidation = "validation"
	SubmitNetwork    = "network"
	SubmitServer     = "server"
	SubmitInternal   = "internal"
)

// poll results
const (
	PollResolved = "resolved"
	PollPending  = "pending"
	PollError    = "error"
)

// Metrics -
type Metrics struct {
	registry *prometheus.Registry

	submitted *prometheus.CounterVec
	polls     *prometheus.CounterVec
	resolved  *prometheus.CounterVec
	pending   prometheus.Gauge
	cycles    prometheus.Histogram
}

// New - creates metrics registered in a separate registry
func New() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		submitted: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "submitted_total",
			Help:      "Order submissions by result",
		}, []string{"result"}),
		polls: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "polls_total",
			Help:      "Status queries by result",
		}, []string{"result"}),
		resolved: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "resolved_total",
			Help:      "Orders moved to terminal status",
		}, []string{"status"}),
		pending: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "pending",
			Help:      "Orders awaiting processing at the start of the last poll cycle",
		}),
		cycles: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "poll_cycle_seconds",
			Help:      "Duration of poll cycles",
			Buckets:   prometheus.DefBuckets,
		}),
	}
	m.registry.MustRegister(m.submitted, m.polls, m.resolved, m.pending, m.cycles)
	return m
}

// Submitted -
func (m *Metrics) Submitted(result string) {
	m.submitted.WithLabelValues(result).Inc()
}

// Polled -
func (m *Metrics) Polled(result string) {
	m.polls.WithLabelValues(result).Inc()
}

// Resolved -
func (m *Metrics) Resolved(status string) {
	m.resolved.WithLabelValues(status).Inc()
}

// Cycle - observes poll cycle
func (m *Metrics) Cycle(pending int, duration time.Duration) {
	m.pending.Set(float64(pending))
	m.cycles.Observe(duration.Seconds())
}

// Handler -
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{Registry: m.registry})
}

// Serve - serves /metrics until context is done
func (m *Metrics) Serve(ctx context.Context, address string) error {
	mux := http.NewServeMux()
	mux.Handle("/metrics", m.Handler())

	srv := &http.Server{
		Addr:              address,
		Handler:           mux,
		ReadHeaderTimeout: 5 * time.Second,
	}

	go func() {
		<-ctx.Done()

		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			log.Err(err).Msg("metrics server shutdown")
		}
	}()

	log.Info().Str("address", address).Msg("serving metrics")
	if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return err
	}
	return nil
}
