package conn

import (
	"errors"
	"fmt"

	mcnet "github.com/go-theft-craft/oreveins/internal/server/net"
	"github.com/go-theft-craft/oreveins/internal/server/packet"
	"github.com/go-theft-craft/oreveins/internal/server/scoreboard"
	"github.com/go-theft-craft/oreveins/internal/server/world/block"
	"github.com/go-theft-craft/oreveins/internal/server/world/gen"
)

// OresMinedObjective counts the vein ore blocks each player has broken.
const OresMinedObjective = "ores_mined"

// handlePlayerAction breaks the targeted block. Players are in creative mode,
// so digging finishes on the first start packet.
func (c *Connection) handlePlayerAction(pkt packet.PlayerAction) error {
	if pkt.Status != packet.ActionStartDigging && pkt.Status != packet.ActionFinishDigging {
		return nil
	}

	x, y, z := mcnet.DecodePosition(pkt.Location)
	if y < gen.MinY || y >= gen.MinY+gen.Height || c.outsideBorder(x, z) {
		return c.writePacket(&packet.AcknowledgeBlockChange{Sequence: pkt.Sequence})
	}

	prev := c.svc.World.GetBlock(x, y, z)
	air := block.Air.DefaultState()
	// Only the player whose replace lands gets the credit.
	if prev != air && prev != block.Bedrock.DefaultState() && c.svc.World.ReplaceBlock(x, y, z, prev, air) {
		c.svc.Players.Broadcast(&packet.BlockUpdate{
			Location: pkt.Location,
			BlockID:  c.svc.Palette.StateID(air),
		})
		if isVeinOre(prev) {
			c.creditOre(prev)
		}
	}

	return c.writePacket(&packet.AcknowledgeBlockChange{Sequence: pkt.Sequence})
}

// outsideBorder reports whether the block lies beyond the configured world
// radius, in chunks.
func (c *Connection) outsideBorder(x, z int) bool {
	r := c.cfg.WorldRadius
	if r <= 0 {
		return false
	}
	cx, cz := x>>4, z>>4
	return cx < -r || cx > r || cz < -r || cz > r
}

// isVeinOre reports whether s is an ore or raw ore block of any vein.
func isVeinOre(s *block.State) bool {
	for _, v := range []*gen.VeinType{&gen.Copper, &gen.Iron} {
		if s == v.Ore.DefaultState() || s == v.RawOre.DefaultState() {
			return true
		}
	}
	return false
}

func (c *Connection) creditOre(s *block.State) {
	_, err := c.svc.Scoreboard.AddScore(c.self.Username, OresMinedObjective, 1)
	switch {
	case err == nil:
		c.log.Debug("ore mined", "block", s)
	case errors.Is(err, scoreboard.ErrUnknownObjective):
		// Objective removed by an operator.
	default:
		c.log.Warn("credit ore", "error", fmt.Errorf("%s: %w", s, err))
	}
}
