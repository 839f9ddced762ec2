package conn

import (
	"fmt"

	"github.com/go-theft-craft/oreveins/internal/server/packet"
)

// startConfiguration finishes the Configuration state straight away. The
// server sends no registry data of its own.
func (c *Connection) startConfiguration() error {
	if err := c.writePacket(&packet.FinishConfiguration{}); err != nil {
		return fmt.Errorf("write finish configuration: %w", err)
	}
	return nil
}

func (c *Connection) handleConfiguration(packetID int32, _ []byte) error {
	switch packetID {
	case 0x00: // Client Information
	case 0x02: // Plugin Message
	case 0x03: // Acknowledge Finish Configuration
		c.state = StatePlay
		return c.startPlay()
	case 0x04: // Keep Alive
	case 0x07: // Known Packs
	default:
		c.log.Debug("ignoring configuration packet", "id", packetID)
	}
	return nil
}
