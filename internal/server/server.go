package server

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net"
	"runtime"
	"strings"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/go-theft-craft/oreveins/internal/server/command"
	"github.com/go-theft-craft/oreveins/internal/server/config"
	"github.com/go-theft-craft/oreveins/internal/server/conn"
	"github.com/go-theft-craft/oreveins/internal/server/metrics"
	"github.com/go-theft-craft/oreveins/internal/server/player"
	"github.com/go-theft-craft/oreveins/internal/server/scoreboard"
	"github.com/go-theft-craft/oreveins/internal/server/storage"
	"github.com/go-theft-craft/oreveins/internal/server/world"
	"github.com/go-theft-craft/oreveins/internal/server/world/block"
	"github.com/go-theft-craft/oreveins/internal/server/world/gen"
	"github.com/go-theft-craft/oreveins/pkg/text"
)

const tickInterval = 50 * time.Millisecond

// Server is the main Minecraft server that accepts TCP connections.
type Server struct {
	cfg     *config.Config
	log     *slog.Logger
	world   *world.World
	players *player.Manager
	board   *scoreboard.Scoreboard
	cmds    *command.Dispatcher
	palette *block.Palette
	metrics *metrics.Metrics
	store   *storage.Storage
}

// New creates a new Server with the given config and logger.
func New(cfg *config.Config, log *slog.Logger) (*Server, error) {
	palette := block.BuiltinPalette()
	if cfg.PaletteDir != "" {
		p, err := block.LoadPalette(cfg.PaletteDir)
		if err != nil {
			return nil, fmt.Errorf("load palette: %w", err)
		}
		if missing := p.Missing(); len(missing) > 0 {
			log.Warn("palette lacks blocks, sending air for them", "blocks", missing)
		}
		palette = p
	}

	players := player.NewManager(cfg.MaxPlayers)
	m := metrics.New(players.PlayerCount)

	var generator gen.Generator
	switch cfg.GeneratorType {
	case config.GeneratorFlat:
		generator = gen.NewFlatGenerator(cfg.Seed)
	default:
		generator = gen.NewVeinGenerator(cfg.Seed, cfg.LegacyRandom, gen.WithObserver(m))
	}

	s := &Server{
		cfg:     cfg,
		log:     log,
		world:   world.NewWorld(generator),
		players: players,
		board:   scoreboard.New(players, log.With("component", "scoreboard")),
		palette: palette,
		metrics: m,
	}

	if cfg.DataDir != "" {
		st, err := storage.New(cfg.DataDir, log.With("component", "storage"))
		if err != nil {
			return nil, err
		}
		s.store = st
	}

	env := &command.Env{
		Players:    players,
		Scoreboard: s.board,
		Seed:       cfg.Seed,
		Log:        log.With("component", "command"),
	}
	if s.store != nil {
		env.Save = s.save
	}
	s.cmds = command.NewDispatcher(env)
	s.cmds.SetObserver(m)
	command.RegisterDefaults(s.cmds)

	return s, nil
}

// Commands exposes the dispatcher, e.g. for a console.
func (s *Server) Commands() *command.Dispatcher { return s.cmds }

func (s *Server) save(_ context.Context) error {
	return s.store.SaveWorld(s.world, s.cfg.Seed)
}

// prepare loads saved state, sets up the scoreboard and pre-generates spawn.
func (s *Server) prepare(ctx context.Context) error {
	if s.store != nil {
		err := s.store.LoadWorld(s.world, s.cfg.Seed)
		switch {
		case errors.Is(err, storage.ErrSeedMismatch):
			s.log.Warn("ignoring world snapshot", "error", err)
		case err != nil:
			return err
		}
	}

	objective := scoreboard.NewObjective(conn.OresMinedObjective, text.Text("Ores Mined").WithColor(text.Gold), scoreboard.RenderInteger, nil)
	if err := s.board.AddObjective(objective); err != nil && !errors.Is(err, scoreboard.ErrObjectiveExists) {
		return fmt.Errorf("add objective: %w", err)
	}

	if s.cfg.PregenRadius >= 0 {
		workers := s.cfg.Workers
		if workers == 0 {
			workers = runtime.NumCPU()
		}
		start := time.Now()
		n, err := s.world.PreGenerateRadius(ctx, s.cfg.PregenRadius, workers)
		if err != nil {
			return fmt.Errorf("pre-generate: %w", err)
		}
		s.log.Info("pre-generated spawn", "chunks", n, "radius", s.cfg.PregenRadius, "took", time.Since(start))
	}
	return nil
}

// Start begins listening for connections and blocks until the context is cancelled.
func (s *Server) Start(ctx context.Context) error {
	if err := s.prepare(ctx); err != nil {
		return err
	}

	addr := fmt.Sprintf(":%d", s.cfg.Port)
	lc := net.ListenConfig{}

	listener, err := lc.Listen(ctx, "tcp", addr)
	if err != nil {
		return fmt.Errorf("listen on %s: %w", addr, err)
	}
	defer listener.Close()

	s.log.Info("server started",
		"port", s.cfg.Port,
		"motd", s.cfg.MOTD,
		"generator", s.cfg.GeneratorType,
		"seed", s.cfg.Seed,
		"palette", s.palette,
	)

	g, gctx := errgroup.WithContext(ctx)

	if s.cfg.MetricsAddr != "" {
		g.Go(func() error {
			return s.metrics.Serve(gctx, s.cfg.MetricsAddr, s.log)
		})
	}

	g.Go(func() error {
		s.tickLoop(gctx)
		return nil
	})

	g.Go(func() error {
		// Close listener when context is cancelled.
		<-gctx.Done()
		listener.Close()
		return nil
	})

	g.Go(func() error {
		return s.acceptLoop(gctx, listener)
	})

	err = g.Wait()
	if s.store != nil {
		if serr := s.save(context.Background()); serr != nil {
			s.log.Error("save on shutdown", "error", serr)
		}
	}
	return err
}

func (s *Server) acceptLoop(ctx context.Context, listener net.Listener) error {
	svc := conn.Services{
		World:      s.world,
		Players:    s.players,
		Scoreboard: s.board,
		Commands:   s.cmds,
		Palette:    s.palette,
		Store:      s.store,
	}

	for {
		c, err := listener.Accept()
		if err != nil {
			if ctx.Err() != nil {
				s.log.Info("server shutting down")
				return nil
			}
			s.log.Error("accept connection", "error", err)
			continue
		}

		connection := conn.NewConnection(ctx, c, s.cfg, s.log, svc)
		go connection.Handle()
	}
}

func (s *Server) tickLoop(ctx context.Context) {
	ticker := time.NewTicker(tickInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			s.world.Tick()
		}
	}
}

// RunConsole reads command lines from r and runs them as the console until r
// is exhausted or ctx is cancelled.
func (s *Server) RunConsole(ctx context.Context, r io.Reader) {
	sender := command.NewConsoleSender(s.log.With("component", "console"))
	sc := bufio.NewScanner(r)
	for sc.Scan() {
		if ctx.Err() != nil {
			return
		}
		line := strings.TrimPrefix(strings.TrimSpace(sc.Text()), "/")
		if line == "" {
			continue
		}
		s.cmds.Handle(ctx, sender, line)
	}
	if err := sc.Err(); err != nil {
		s.log.Warn("console", "error", err)
	}
}
