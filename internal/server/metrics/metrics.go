// Package metrics exports server counters to Prometheus.
package metrics

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/go-theft-craft/oreveins/internal/server/world/block"
	"github.com/go-theft-craft/oreveins/internal/server/world/gen"
)

const namespace = "oreveins"

// Metrics holds the server's collectors on a private registry, so several
// servers can live in one process (tests do this).
type Metrics struct {
	reg *prometheus.Registry

	veinBlocks  *prometheus.CounterVec
	chunks      prometheus.Counter
	cacheHits   prometheus.Counter
	cacheMisses prometheus.Counter
	commands    *prometheus.CounterVec
}

// New registers all collectors. online reports the current player count.
func New(online func() int) *Metrics {
	m := &Metrics{
		reg: prometheus.NewRegistry(),
		veinBlocks: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "gen",
			Name:      "vein_blocks_total",
			Help:      "Blocks placed by the ore vein pass.",
		}, []string{"block"}),
		chunks: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "gen",
			Name:      "chunks_total",
			Help:      "Chunks run through the ore vein pass.",
		}),
		cacheHits: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "gen",
			Name:      "cell_cache_hits_total",
			Help:      "Interpolation corner lookups served from the cell cache.",
		}),
		cacheMisses: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "gen",
			Name:      "cell_cache_misses_total",
			Help:      "Interpolation corners computed from noise.",
		}),
		commands: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "commands_total",
			Help:      "Dispatched commands by name and outcome.",
		}, []string{"command", "result"}),
	}

	m.reg.MustRegister(m.veinBlocks, m.chunks, m.cacheHits, m.cacheMisses, m.commands)
	if online != nil {
		m.reg.MustRegister(prometheus.NewGaugeFunc(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "players_online",
			Help:      "Players currently in play.",
		}, func() float64 { return float64(online()) }))
	}
	return m
}

// Registry exposes the private registry, mostly for tests.
func (m *Metrics) Registry() *prometheus.Registry { return m.reg }

// VeinPlaced implements gen.ChunkObserver.
func (m *Metrics) VeinPlaced(_ gen.BlockPos, s *block.State) {
	m.veinBlocks.WithLabelValues(s.Block().Name()).Inc()
}

// ChunkDone implements gen.ChunkObserver.
func (m *Metrics) ChunkDone(_ gen.ChunkPos, stats gen.RouterStats) {
	m.chunks.Inc()
	m.cacheHits.Add(float64(stats.Hits))
	m.cacheMisses.Add(float64(stats.Misses))
}

// CommandDispatched implements command.Observer.
func (m *Metrics) CommandDispatched(name string, err error) {
	result := "ok"
	if err != nil {
		result = "error"
	}
	m.commands.WithLabelValues(name, result).Inc()
}

// Handler serves the registry in the Prometheus text format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.reg, promhttp.HandlerOpts{})
}

// Serve exposes /metrics on addr until ctx is cancelled.
func (m *Metrics) Serve(ctx context.Context, addr string, log *slog.Logger) error {
	mux := http.NewServeMux()
	mux.Handle("/metrics", m.Handler())
	srv := &http.Server{Addr: addr, Handler: mux, ReadHeaderTimeout: 5 * time.Second}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = srv.Shutdown(shutdownCtx)
	}()

	log.Info("metrics listening", "addr", addr)
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}
