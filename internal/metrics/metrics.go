// Package metrics exports simulator activity to Prometheus. A Collector is
// handed to quantum.WithObserver and served with Handler.
package metrics

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "qtermsim"

// Collector implements quantum.Observer on its own registry.
type Collector struct {
	registry *prometheus.Registry

	gateTotal       *prometheus.CounterVec
	gateDuration    *prometheus.HistogramVec
	measureTotal    *prometheus.CounterVec
	measureDuration prometheus.Histogram
}

// New registers the simulator metrics on a fresh registry.
func New() *Collector {
	reg := prometheus.NewRegistry()
	factory := promauto.With(reg)

	return &Collector{
		registry: reg,

		// gateTotal counts gate applications by gate and result
		gateTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "gate_total",
			Help:      "Gate applications by gate name and result",
		}, []string{"gate", "result"}),

		gateDuration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "gate_duration_seconds",
			Help:      "Time spent in one gate pass over the state vector",
			Buckets:   prometheus.ExponentialBuckets(1e-6, 4, 12), // 1µs to ~4s
		}, []string{"gate"}),

		measureTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "measurement_total",
			Help:      "Single-qubit measurements by outcome; failed measurements use outcome \"error\"",
		}, []string{"outcome"}),

		measureDuration: factory.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "measurement_duration_seconds",
			Help:      "Time spent measuring and collapsing one qubit",
			Buckets:   prometheus.ExponentialBuckets(1e-6, 4, 12),
		}),
	}
}

func (c *Collector) GateApplied(gate string, elapsed time.Duration, err error) {
	result := "ok"
	if err != nil {
		result = "error"
	}
	c.gateTotal.WithLabelValues(gate, result).Inc()
	if err == nil {
		c.gateDuration.WithLabelValues(gate).Observe(elapsed.Seconds())
	}
}

func (c *Collector) Measured(_, outcome int, elapsed time.Duration, err error) {
	if err != nil {
		c.measureTotal.WithLabelValues("error").Inc()
		return
	}
	c.measureTotal.WithLabelValues(strconv.Itoa(outcome)).Inc()
	c.measureDuration.Observe(elapsed.Seconds())
}

// Registry exposes the underlying registry, mainly for tests.
func (c *Collector) Registry() *prometheus.Registry { return c.registry }

// Handler serves the collector's metrics in the Prometheus exposition format.
func (c *Collector) Handler() http.Handler {
	return promhttp.HandlerFor(c.registry, promhttp.HandlerOpts{})
}

// Serve exposes /metrics on addr until ctx is done.
func (c *Collector) Serve(ctx context.Context, addr string, logger *slog.Logger) error {
	mux := http.NewServeMux()
	mux.Handle("/metrics", c.Handler())
	srv := &http.Server{Addr: addr, Handler: mux, ReadHeaderTimeout: 5 * time.Second}

	errc := make(chan error, 1)
	go func() {
		logger.Info("metrics listening", "addr", addr)
		errc <- srv.ListenAndServe()
	}()

	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	case err := <-errc:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	}
}
