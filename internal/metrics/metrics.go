package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"
)

// Collector bundles the service's Prometheus metrics on a private registry.
type Collector struct {
	reg *prometheus.Registry

	LocationsReceived prometheus.Counter
	LocationsDropped  prometheus.Counter
	TrackedBuses      prometheus.Gauge
	ConnectedClients  prometheus.Gauge

	RoutesCreated    prometheus.Counter
	SchedulesCreated prometheus.Counter

	SnapDuration prometheus.Histogram
}

// NewCollector creates and registers all metrics.
func NewCollector() *Collector {
	reg := prometheus.NewRegistry()

	c := &Collector{
		reg: reg,
		LocationsReceived: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "fleet_locations_received_total",
			Help: "Total vehicle location messages consumed.",
		}),
		LocationsDropped: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "fleet_locations_dropped_total",
			Help: "Total malformed location messages dropped.",
		}),
		TrackedBuses: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "fleet_tracked_buses",
			Help: "Number of buses with a recent live position.",
		}),
		ConnectedClients: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "fleet_websocket_clients",
			Help: "Number of connected websocket clients.",
		}),
		RoutesCreated: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "fleet_routes_created_total",
			Help: "Total routes created.",
		}),
		SchedulesCreated: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "fleet_schedules_created_total",
			Help: "Total schedules created.",
		}),
		SnapDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "fleet_road_snap_duration_seconds",
			Help:    "Duration of road-snap lookups.",
			Buckets: prometheus.ExponentialBuckets(0.005, 2, 12),
		}),
	}

	reg.MustRegister(
		c.LocationsReceived, c.LocationsDropped,
		c.TrackedBuses, c.ConnectedClients,
		c.RoutesCreated, c.SchedulesCreated,
		c.SnapDuration,
	)
	return c
}

// Handler returns the scrape handler for the private registry.
func (c *Collector) Handler() http.Handler {
	return promhttp.HandlerFor(c.reg, promhttp.HandlerOpts{})
}

// Serve starts an HTTP server exposing /metrics on the given address.
func (c *Collector) Serve(addr string, logger *zap.Logger) *http.Server {
	mux := http.NewServeMux()
	mux.Handle("/metrics", c.Handler())
	srv := &http.Server{Addr: addr, Handler: mux}
	go func() {
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("metrics server error", zap.Error(err))
		}
	}()
	logger.Info("metrics listening", zap.String("addr", addr))
	return srv
}
