package conn

import (
	"fmt"

	mcnet "github.com/go-theft-craft/oreveins/internal/server/net"
	"github.com/go-theft-craft/oreveins/internal/server/packet"
	"github.com/go-theft-craft/oreveins/internal/server/player"
	"github.com/go-theft-craft/oreveins/pkg/text"
)

func (c *Connection) handleLogin(packetID int32, data []byte) error {
	switch packetID {
	case 0x00: // LoginStart
		return c.handleLoginStart(data)
	case 0x02: // Login Plugin Response, never requested
		return nil
	case 0x03: // LoginAcknowledged
		if c.loginName == "" {
			return fmt.Errorf("login acknowledged before login start")
		}
		c.state = StateConfiguration
		return c.startConfiguration()
	default:
		return fmt.Errorf("unexpected login packet 0x%02X", packetID)
	}
}

func (c *Connection) handleLoginStart(data []byte) error {
	var login packet.LoginStart
	if err := mcnet.Unmarshal(data, &login); err != nil {
		return fmt.Errorf("unmarshal login start: %w", err)
	}

	c.log.Info("login start", "username", login.Name)

	if !validUsername(login.Name) {
		return c.rejectLogin(text.Translate("multiplayer.disconnect.invalid_player_data"), "invalid username")
	}
	if limit := c.svc.Players.MaxPlayers(); limit > 0 && c.svc.Players.PlayerCount() >= limit {
		return c.rejectLogin(text.Translate("multiplayer.disconnect.server_full"), "server full")
	}

	id := player.OfflineUUID(login.Name)
	if c.svc.Players.GetByUUID(id) != nil {
		return c.rejectLogin(text.Translate("multiplayer.disconnect.duplicate_login"), "already online")
	}

	c.log.Info("offline login success", "username", login.Name, "uuid", id)
	if err := c.writePacket(&packet.LoginSuccess{
		UUID:                id,
		Username:            login.Name,
		StrictErrorHandling: true,
	}); err != nil {
		return fmt.Errorf("write login success: %w", err)
	}

	c.loginName = login.Name
	return nil
}

func (c *Connection) rejectLogin(reason text.Component, logReason string) error {
	if err := c.writePacket(&packet.LoginDisconnect{Reason: reason}); err != nil {
		return fmt.Errorf("write login disconnect: %w", err)
	}
	c.disconnect(logReason)
	return nil
}

// validUsername accepts 1-16 characters from [A-Za-z0-9_].
func validUsername(name string) bool {
	if len(name) == 0 || len(name) > 16 {
		return false
	}
	for _, r := range name {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == '_':
		default:
			return false
		}
	}
	return true
}
