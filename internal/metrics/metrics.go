// Package metrics exposes ranging activity as Prometheus metrics.
package metrics

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"uwb-radar.klederson.com/internal/uwb"
)

// Collector bundles the ranging metrics.
type Collector struct {
	gatherer prometheus.Gatherer

	Events           *prometheus.CounterVec
	Connected        prometheus.Gauge
	Disconnected     prometheus.Gauge
	Sessions         prometheus.Gauge
	Ranging          prometheus.Gauge
	SourceReconnects prometheus.Counter
}

// NewCollector registers the metrics against reg, defaulting to the global
// registry when nil.
func NewCollector(reg prometheus.Registerer) (*Collector, error) {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	gatherer := prometheus.DefaultGatherer
	if g, ok := reg.(prometheus.Gatherer); ok {
		gatherer = g
	}

	c := &Collector{
		gatherer: gatherer,
		Events: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "uwb_events_total",
			Help: "Ranging events folded into the UI state, labeled by kind.",
		}, []string{"kind"}),
		Connected: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "uwb_endpoints_connected",
			Help: "Endpoints with a current ranging position.",
		}),
		Disconnected: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "uwb_endpoints_disconnected",
			Help: "Known endpoints without a ranging position.",
		}),
		Sessions: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "uwb_sessions",
			Help: "Endpoints with session metadata.",
		}),
		Ranging: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "uwb_ranging",
			Help: "1 while the ranging source reports it is running.",
		}),
		SourceReconnects: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "uwb_source_reconnects_total",
			Help: "Reconnect attempts to the ranging stream.",
		}),
	}

	for _, col := range []prometheus.Collector{
		c.Events, c.Connected, c.Disconnected, c.Sessions, c.Ranging, c.SourceReconnects,
	} {
		if err := reg.Register(col); err != nil {
			return nil, fmt.Errorf("register metric: %w", err)
		}
	}
	return c, nil
}

// ObserveEvent counts one folded event.
func (c *Collector) ObserveEvent(kind string) {
	if c == nil {
		return
	}
	c.Events.WithLabelValues(kind).Inc()
}

// ObserveSnapshot updates the gauges from a published snapshot.
func (c *Collector) ObserveSnapshot(s *uwb.Snapshot) {
	if c == nil || s == nil {
		return
	}
	c.Connected.Set(float64(len(s.Connected)))
	c.Disconnected.Set(float64(len(s.Disconnected)))
	c.Sessions.Set(float64(len(s.Sessions)))
	if s.Running {
		c.Ranging.Set(1)
	} else {
		c.Ranging.Set(0)
	}
}

// Handler returns an HTTP handler exposing the collector's registry.
func (c *Collector) Handler() http.Handler {
	return promhttp.HandlerFor(c.gatherer, promhttp.HandlerOpts{})
}

// Serve exposes /metrics on addr until ctx is cancelled.
func (c *Collector) Serve(ctx context.Context, addr string, log *slog.Logger) error {
	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return fmt.Errorf("metrics listen %s: %w", addr, err)
	}

	mux := http.NewServeMux()
	mux.Handle("/metrics", c.Handler())
	srv := &http.Server{Handler: mux, ReadHeaderTimeout: 5 * time.Second}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		_ = srv.Shutdown(shutdownCtx)
	}()

	go func() {
		log.Info("metrics listening", "addr", ln.Addr().String())
		if err := srv.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error("metrics server failed", "err", err)
		}
	}()
	return nil
}
