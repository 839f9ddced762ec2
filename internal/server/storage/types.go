package storage

import (
	"github.com/go-theft-craft/oreveins/internal/server/player"
)

// snapshotVersion is bumped when WorldData changes incompatibly.
const snapshotVersion = 1

// WorldData is the persisted state of a world: its identity, clock and the
// blocks players changed.
type WorldData struct {
	Version   int             `json:"version"`
	Seed      int64           `json:"seed"`
	Age       int64           `json:"age"`
	TimeOfDay int64           `json:"time_of_day"`
	Overrides []BlockOverride `json:"overrides"`
}

// BlockOverride is a single changed block. Blocks are stored by name so
// snapshots survive palette changes.
type BlockOverride struct {
	X     int    `json:"x"`
	Y     int    `json:"y"`
	Z     int    `json:"z"`
	Block string `json:"block"`
}

// PlayerData is the serializable representation of a player's state.
type PlayerData struct {
	UUID     string       `json:"uuid"`
	Username string       `json:"username"`
	Position PositionData `json:"position"`
}

// PositionData holds a player's world position and orientation.
type PositionData struct {
	X     float64 `json:"x"`
	Y     float64 `json:"y"`
	Z     float64 `json:"z"`
	Yaw   float32 `json:"yaw"`
	Pitch float32 `json:"pitch"`
}

// PlayerDataFromPlayer extracts serializable data from a runtime Player.
func PlayerDataFromPlayer(p *player.Player) *PlayerData {
	pos := p.GetPosition()
	return &PlayerData{
		UUID:     p.UUID.String(),
		Username: p.Username,
		Position: PositionData{
			X:     pos.X,
			Y:     pos.Y,
			Z:     pos.Z,
			Yaw:   pos.Yaw,
			Pitch: pos.Pitch,
		},
	}
}

// Apply moves p to the saved position.
func (pd *PlayerData) Apply(p *player.Player) {
	p.SetPosition(pd.Position.X, pd.Position.Y, pd.Position.Z, pd.Position.Yaw, pd.Position.Pitch, false)
}
