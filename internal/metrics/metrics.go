// Package metrics defines the prometheus collectors of the PDF container and
// an optional HTTP endpoint that exposes them.
package metrics

import (
	"context"
	"errors"
	"net"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/Iron-Ham/pdfcontainer/internal/logging"
)

const namespace = "pdfcontainer"

// Collectors groups every metric the container records. A nil *Collectors
// is valid and records nothing.
type Collectors struct {
	registry *prometheus.Registry

	ProjectionPasses prometheus.Counter
	PassDuration     prometheus.Histogram
	NodesChanged     prometheus.Counter
	NodesUnmounted   prometheus.Counter
	NodeFailures     *prometheus.CounterVec
	Mounts           prometheus.Counter
	Unmounts         prometheus.Counter
	CommandsInvoked  *prometheus.CounterVec
	EngineLoads      *prometheus.CounterVec
	StoreSubscribers prometheus.Gauge
	RenderersMissing prometheus.Counter
}

// New creates the collectors on a private registry.
func New() *Collectors {
	c := &Collectors{
		registry: prometheus.NewRegistry(),
		ProjectionPasses: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "projection_passes_total",
			Help:      "Number of projection passes over the mounted tree.",
		}),
		PassDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "projection_pass_duration_seconds",
			Help:      "Duration of projection passes.",
			Buckets:   prometheus.ExponentialBuckets(0.00005, 4, 8),
		}),
		NodesChanged: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "nodes_changed_total",
			Help:      "Nodes flagged for re-render because their props changed.",
		}),
		NodesUnmounted: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "nodes_unmounted_total",
			Help:      "Nodes unmounted because they became unreachable.",
		}),
		NodeFailures: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "node_failures_total",
			Help:      "Isolated node failures by stage.",
		}, []string{"stage"}),
		Mounts: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "element_mounts_total",
			Help:      "Full mounts of the element's widget tree.",
		}),
		Unmounts: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "element_unmounts_total",
			Help:      "Full unmounts of the element's widget tree.",
		}),
		CommandsInvoked: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "commands_invoked_total",
			Help:      "Commands triggered by the user.",
		}, []string{"command_id"}),
		EngineLoads: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "engine_loads_total",
			Help:      "Document loads by outcome.",
		}, []string{"outcome"}),
		StoreSubscribers: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "store_subscriptions",
			Help:      "Live subscriptions on the shared state tree.",
		}),
		RenderersMissing: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "render_misses_total",
			Help:      "Render attempts for nodes without a registered renderer.",
		}),
	}
	c.registry.MustRegister(
		c.ProjectionPasses, c.PassDuration, c.NodesChanged, c.NodesUnmounted,
		c.NodeFailures, c.Mounts, c.Unmounts, c.CommandsInvoked, c.EngineLoads,
		c.StoreSubscribers, c.RenderersMissing,
	)
	return c
}

// Registry returns the registry holding the collectors.
func (c *Collectors) Registry() *prometheus.Registry {
	if c == nil {
		return nil
	}
	return c.registry
}

// ObservePass records one projection pass.
func (c *Collectors) ObservePass(d time.Duration, changed, unmounted int) {
	if c == nil {
		return
	}
	c.ProjectionPasses.Inc()
	c.PassDuration.Observe(d.Seconds())
	c.NodesChanged.Add(float64(changed))
	c.NodesUnmounted.Add(float64(unmounted))
}

// NodeFailed records an isolated node failure.
func (c *Collectors) NodeFailed(stage string) {
	if c == nil {
		return
	}
	c.NodeFailures.WithLabelValues(stage).Inc()
}

// Mounted records a full widget tree mount.
func (c *Collectors) Mounted() {
	if c == nil {
		return
	}
	c.Mounts.Inc()
}

// Unmounted records a full widget tree unmount.
func (c *Collectors) Unmounted() {
	if c == nil {
		return
	}
	c.Unmounts.Inc()
}

// CommandInvoked records a triggered command.
func (c *Collectors) CommandInvoked(id string) {
	if c == nil {
		return
	}
	c.CommandsInvoked.WithLabelValues(id).Inc()
}

// EngineLoad records a document load outcome: "ready" or "failed".
func (c *Collectors) EngineLoad(outcome string) {
	if c == nil {
		return
	}
	c.EngineLoads.WithLabelValues(outcome).Inc()
}

// SetSubscriptions records the live store subscription count.
func (c *Collectors) SetSubscriptions(n int) {
	if c == nil {
		return
	}
	c.StoreSubscribers.Set(float64(n))
}

// RenderMiss records a render attempt without a renderer.
func (c *Collectors) RenderMiss() {
	if c == nil {
		return
	}
	c.RenderersMissing.Inc()
}

// Server exposes the collectors on /metrics.
type Server struct {
	srv    *http.Server
	logger *logging.Logger
}

// NewServer creates a metrics server for addr.
func NewServer(c *Collectors, addr string, logger *logging.Logger) *Server {
	if logger == nil {
		logger = logging.NopLogger()
	}
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.HandlerFor(c.Registry(), promhttp.HandlerOpts{}))
	return &Server{
		srv:    &http.Server{Addr: addr, Handler: mux, ReadHeaderTimeout: 5 * time.Second},
		logger: logger.WithComponent("metrics"),
	}
}

// Start listens on the configured address and serves in the background.
// It returns the bound address.
func (s *Server) Start() (string, error) {
	ln, err := net.Listen("tcp", s.srv.Addr)
	if err != nil {
		return "", err
	}
	go func() {
		if err := s.srv.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			s.logger.Error("metrics server stopped", "error", err)
		}
	}()
	s.logger.Info("metrics server listening", "addr", ln.Addr().String())
	return ln.Addr().String(), nil
}

// Shutdown stops the server.
func (s *Server) Shutdown(ctx context.Context) error {
	return s.srv.Shutdown(ctx)
}
