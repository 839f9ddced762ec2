// Package storage persists world changes and player positions under a data
// directory.
package storage

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"sort"

	"github.com/google/uuid"
	"github.com/klauspost/compress/zstd"

	"github.com/go-theft-craft/oreveins/internal/server/player"
	"github.com/go-theft-craft/oreveins/internal/server/world"
	"github.com/go-theft-craft/oreveins/internal/server/world/block"
)

const worldFile = "overrides.json.zst"

// ErrSeedMismatch is returned by LoadWorld when the snapshot was written for
// a different seed. Its overrides would not line up with the terrain.
var ErrSeedMismatch = errors.New("snapshot seed does not match world seed")

// Storage handles file-based persistence for world and player data.
type Storage struct {
	dir string
	log *slog.Logger
}

// New creates a new Storage rooted at dir, creating subdirectories as needed.
func New(dir string, log *slog.Logger) (*Storage, error) {
	dirs := []string{
		dir,
		filepath.Join(dir, "world"),
		filepath.Join(dir, "players"),
	}
	for _, d := range dirs {
		if err := os.MkdirAll(d, 0o755); err != nil {
			return nil, fmt.Errorf("create directory %s: %w", d, err)
		}
	}
	return &Storage{dir: dir, log: log}, nil
}

func (s *Storage) worldPath() string {
	return filepath.Join(s.dir, "world", worldFile)
}

// LoadWorld reads the world snapshot and bulk-loads its overrides and clock.
// A missing snapshot is not an error.
func (s *Storage) LoadWorld(w *world.World, seed int64) error {
	f, err := os.Open(s.worldPath())
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return fmt.Errorf("open world snapshot: %w", err)
	}
	defer f.Close()

	dec, err := zstd.NewReader(f)
	if err != nil {
		return fmt.Errorf("open zstd reader: %w", err)
	}
	defer dec.Close()

	var wd WorldData
	if err := json.NewDecoder(dec).Decode(&wd); err != nil {
		return fmt.Errorf("parse world snapshot: %w", err)
	}
	if wd.Version != snapshotVersion {
		return fmt.Errorf("world snapshot version %d: unsupported", wd.Version)
	}
	if wd.Seed != seed {
		return fmt.Errorf("%w: snapshot %d, world %d", ErrSeedMismatch, wd.Seed, seed)
	}

	overrides := make(map[world.BlockPos]*block.State, len(wd.Overrides))
	unknown := 0
	for _, o := range wd.Overrides {
		b, ok := block.ByName(o.Block)
		if !ok {
			unknown++
			continue
		}
		overrides[world.BlockPos{X: o.X, Y: o.Y, Z: o.Z}] = b.DefaultState()
	}
	if unknown > 0 {
		s.log.Warn("skipped unknown blocks in world snapshot", "count", unknown)
	}

	w.LoadOverrides(overrides)
	w.SetTime(wd.Age, wd.TimeOfDay)
	s.log.Info("loaded world overrides", "count", len(overrides))
	return nil
}

// SaveWorld writes all block overrides and the world clock atomically.
func (s *Storage) SaveWorld(w *world.World, seed int64) error {
	wd := WorldData{Version: snapshotVersion, Seed: seed}
	wd.Age, wd.TimeOfDay = w.GetTime()
	w.ForEachOverride(func(pos world.BlockPos, st *block.State) {
		wd.Overrides = append(wd.Overrides, BlockOverride{
			X: pos.X, Y: pos.Y, Z: pos.Z, Block: st.Block().Name(),
		})
	})
	// Stable output for identical worlds.
	sort.Slice(wd.Overrides, func(i, j int) bool {
		a, b := wd.Overrides[i], wd.Overrides[j]
		if a.X != b.X {
			return a.X < b.X
		}
		if a.Z != b.Z {
			return a.Z < b.Z
		}
		return a.Y < b.Y
	})

	err := atomicWrite(s.worldPath(), func(out io.Writer) error {
		enc, err := zstd.NewWriter(out, zstd.WithEncoderLevel(zstd.SpeedDefault))
		if err != nil {
			return err
		}
		if err := json.NewEncoder(enc).Encode(&wd); err != nil {
			enc.Close()
			return err
		}
		return enc.Close()
	})
	if err != nil {
		return fmt.Errorf("save world: %w", err)
	}
	s.log.Info("saved world", "overrides", len(wd.Overrides))
	return nil
}

// LoadPlayer reads players/<uuid>.json and returns the data, or nil if not found.
func (s *Storage) LoadPlayer(id uuid.UUID) (*PlayerData, error) {
	path := filepath.Join(s.dir, "players", id.String()+".json")
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("read player %s: %w", id, err)
	}

	var pd PlayerData
	if err := json.Unmarshal(data, &pd); err != nil {
		return nil, fmt.Errorf("parse player %s: %w", id, err)
	}
	return &pd, nil
}

// SavePlayer persists the current state of a player to disk.
func (s *Storage) SavePlayer(p *player.Player) error {
	pd := PlayerDataFromPlayer(p)
	path := filepath.Join(s.dir, "players", pd.UUID+".json")
	err := atomicWrite(path, func(out io.Writer) error {
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		return enc.Encode(pd)
	})
	if err != nil {
		return fmt.Errorf("save player %s: %w", p.Username, err)
	}
	return nil
}

// atomicWrite streams into a temp file next to path and renames it into place.
func atomicWrite(path string, write func(io.Writer) error) error {
	tmp := path + ".tmp"
	f, err := os.Create(tmp)
	if err != nil {
		return fmt.Errorf("create temp file: %w", err)
	}
	if err := write(f); err != nil {
		f.Close()
		os.Remove(tmp)
		return fmt.Errorf("write temp file: %w", err)
	}
	if err := f.Close(); err != nil {
		os.Remove(tmp)
		return fmt.Errorf("close temp file: %w", err)
	}
	if err := os.Rename(tmp, path); err != nil {
		os.Remove(tmp)
		return fmt.Errorf("rename temp file: %w", err)
	}
	return nil
}
