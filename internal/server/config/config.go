package config

import (
	"fmt"
	"log/slog"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

// Generator types.
const (
	GeneratorVeins = "veins"
	GeneratorFlat  = "flat"
)

// Config holds the server configuration.
type Config struct {
	Port          int    `yaml:"port"`
	MOTD          string `yaml:"motd"`
	MaxPlayers    int    `yaml:"max_players"`
	Seed          int64  `yaml:"seed"`
	GeneratorType string `yaml:"generator_type"` // "veins" or "flat"
	LegacyRandom  bool   `yaml:"legacy_random"`  // pre-1.18 random source for ore veins
	WorldRadius   int    `yaml:"world_radius"`   // world boundary in chunks (0 = infinite)

	PregenRadius int `yaml:"pregenerate_radius"` // chunks around spawn generated at startup (-1 = none)
	Workers      int `yaml:"workers"`            // pre-generation workers (0 = one per CPU)

	DataDir     string `yaml:"data_dir"`     // world saves; empty disables saving
	PaletteDir  string `yaml:"palette_dir"`  // minecraft-data version directory; empty uses the builtin palette
	MetricsAddr string `yaml:"metrics_addr"` // e.g. ":9100"; empty disables the endpoint
	LogLevel    string `yaml:"log_level"`
}

// DefaultConfig returns a Config with sensible defaults.
func DefaultConfig() *Config {
	return &Config{
		Port:          25565,
		MOTD:          "An Ore Vein Server",
		MaxPlayers:    20,
		GeneratorType: GeneratorVeins,
		PregenRadius:  2,
		LogLevel:      "info",
	}
}

// Load reads a YAML config file over the defaults. An empty path returns the
// defaults.
func Load(path string) (*Config, error) {
	cfg := DefaultConfig()
	if strings.TrimSpace(path) == "" {
		return cfg, nil
	}
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}
	if err := yaml.Unmarshal(b, cfg); err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return cfg, nil
}

// Validate checks value ranges.
func (c *Config) Validate() error {
	if c.Port < 1 || c.Port > 65535 {
		return fmt.Errorf("port %d out of range", c.Port)
	}
	switch c.GeneratorType {
	case GeneratorVeins, GeneratorFlat:
	default:
		return fmt.Errorf("unknown generator type %q", c.GeneratorType)
	}
	if c.WorldRadius < 0 {
		return fmt.Errorf("negative world radius %d", c.WorldRadius)
	}
	if c.Workers < 0 {
		return fmt.Errorf("negative worker count %d", c.Workers)
	}
	if _, err := ParseLevel(c.LogLevel); err != nil {
		return err
	}
	return nil
}

// ParseLevel maps a log level name to its slog level.
func ParseLevel(s string) (slog.Level, error) {
	var l slog.Level
	if err := l.UnmarshalText([]byte(s)); err != nil {
		return 0, fmt.Errorf("log level: %w", err)
	}
	return l, nil
}

// Merge applies file-loaded config values into cfg, but only for fields
// that were NOT explicitly set via CLI flags. explicitFlags contains the
// flag names that were explicitly provided on the command line.
func Merge(cfg *Config, fromFile *Config, explicitFlags map[string]bool) {
	if !explicitFlags["port"] {
		cfg.Port = fromFile.Port
	}
	if !explicitFlags["motd"] {
		cfg.MOTD = fromFile.MOTD
	}
	if !explicitFlags["max-players"] {
		cfg.MaxPlayers = fromFile.MaxPlayers
	}
	if !explicitFlags["seed"] {
		cfg.Seed = fromFile.Seed
	}
	if !explicitFlags["generator"] {
		cfg.GeneratorType = fromFile.GeneratorType
	}
	if !explicitFlags["legacy-random"] {
		cfg.LegacyRandom = fromFile.LegacyRandom
	}
	if !explicitFlags["world-radius"] {
		cfg.WorldRadius = fromFile.WorldRadius
	}
	if !explicitFlags["pregen-radius"] {
		cfg.PregenRadius = fromFile.PregenRadius
	}
	if !explicitFlags["workers"] {
		cfg.Workers = fromFile.Workers
	}
	if !explicitFlags["data-dir"] {
		cfg.DataDir = fromFile.DataDir
	}
	if !explicitFlags["palette-dir"] {
		cfg.PaletteDir = fromFile.PaletteDir
	}
	if !explicitFlags["metrics-addr"] {
		cfg.MetricsAddr = fromFile.MetricsAddr
	}
	if !explicitFlags["log-level"] {
		cfg.LogLevel = fromFile.LogLevel
	}
}
