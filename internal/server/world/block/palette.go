package block

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// Palette maps block states to the network state IDs of one protocol
// version.
type Palette struct {
	version string
	ids     []int32
	missing []string
}

// BuiltinPalette uses the server's own state indices as network IDs. It is
// the fallback when no minecraft-data directory is configured.
func BuiltinPalette() *Palette {
	ids := make([]int32, len(states))
	for i := range ids {
		ids[i] = int32(i)
	}
	return &Palette{version: "builtin", ids: ids}
}

// dataBlock is one entry of minecraft-data's blocks.json.
type dataBlock struct {
	ID           int    `json:"id"`
	Name         string `json:"name"`
	DisplayName  string `json:"displayName"`
	MinStateID   int32  `json:"minStateId"`
	MaxStateID   int32  `json:"maxStateId"`
	DefaultState *int32 `json:"defaultState"`
}

// LoadPalette reads blocks.json from a minecraft-data version directory, as
// downloaded by cmd/dmd. Blocks absent from the data keep ID 0 (air) and are
// reported by Missing.
func LoadPalette(dir string) (*Palette, error) {
	path := filepath.Join(dir, "blocks.json")
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read palette: %w", err)
	}

	var entries []dataBlock
	if err := json.Unmarshal(raw, &entries); err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}

	found := make(map[string]int32, len(entries))
	for _, e := range entries {
		id := e.MinStateID
		if e.DefaultState != nil {
			id = *e.DefaultState
		}
		found["minecraft:"+e.Name] = id
	}

	p := &Palette{version: filepath.Base(dir), ids: make([]int32, len(states))}
	for i, s := range states {
		id, ok := found[s.block.name]
		if !ok {
			p.missing = append(p.missing, s.block.name)
			continue
		}
		p.ids[i] = id
	}
	return p, nil
}

// Version names the data set the palette was built from.
func (p *Palette) Version() string { return p.version }

// StateID returns the network ID of s.
func (p *Palette) StateID(s *State) int32 {
	return p.ids[s.index]
}

// Missing lists blocks the data set did not define.
func (p *Palette) Missing() []string {
	return p.missing
}

func (p *Palette) String() string {
	if len(p.missing) == 0 {
		return p.version
	}
	return fmt.Sprintf("%s (missing %s)", p.version, strings.Join(p.missing, ", "))
}
