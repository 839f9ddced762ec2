package main

import (
	"context"
	"flag"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/go-theft-craft/oreveins/internal/server"
	"github.com/go-theft-craft/oreveins/internal/server/config"
)

func main() {
	cfg := config.DefaultConfig()

	configPath := flag.String("config", "", "YAML config file; explicit flags override it")
	noConsole := flag.Bool("no-console", false, "do not read commands from stdin")
	flag.IntVar(&cfg.Port, "port", cfg.Port, "server port")
	flag.StringVar(&cfg.MOTD, "motd", cfg.MOTD, "server description")
	flag.IntVar(&cfg.MaxPlayers, "max-players", cfg.MaxPlayers, "maximum players")
	flag.Int64Var(&cfg.Seed, "seed", cfg.Seed, "world seed")
	flag.StringVar(&cfg.GeneratorType, "generator", cfg.GeneratorType, "world generator: veins or flat")
	flag.BoolVar(&cfg.LegacyRandom, "legacy-random", cfg.LegacyRandom, "use the legacy random source for ore veins")
	flag.IntVar(&cfg.WorldRadius, "world-radius", cfg.WorldRadius, "world border in chunks (0 = none)")
	flag.IntVar(&cfg.PregenRadius, "pregen-radius", cfg.PregenRadius, "chunks around spawn generated at startup (-1 = none)")
	flag.IntVar(&cfg.Workers, "workers", cfg.Workers, "pre-generation workers (0 = one per CPU)")
	flag.StringVar(&cfg.DataDir, "data-dir", cfg.DataDir, "directory for world saves")
	flag.StringVar(&cfg.PaletteDir, "palette-dir", cfg.PaletteDir, "minecraft-data version directory for block state IDs")
	flag.StringVar(&cfg.MetricsAddr, "metrics-addr", cfg.MetricsAddr, "Prometheus listen address, e.g. :9100")
	flag.StringVar(&cfg.LogLevel, "log-level", cfg.LogLevel, "debug, info, warn or error")
	flag.Parse()

	if *configPath != "" {
		fromFile, err := config.Load(*configPath)
		if err != nil {
			slog.Error("load config", "error", err)
			os.Exit(1)
		}
		explicit := map[string]bool{}
		flag.Visit(func(f *flag.Flag) { explicit[f.Name] = true })
		config.Merge(cfg, fromFile, explicit)
	}
	if err := cfg.Validate(); err != nil {
		slog.Error("invalid config", "error", err)
		os.Exit(1)
	}

	level, _ := config.ParseLevel(cfg.LogLevel)
	log := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: level}))

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	srv, err := server.New(cfg, log)
	if err != nil {
		log.Error("create server", "error", err)
		os.Exit(1)
	}
	if !*noConsole {
		go srv.RunConsole(ctx, os.Stdin)
	}
	if err := srv.Start(ctx); err != nil {
		log.Error("server error", "error", err)
		os.Exit(1)
	}
}
