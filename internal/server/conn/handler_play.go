package conn

import (
	"errors"
	"fmt"
	"time"

	mcnet "github.com/go-theft-craft/oreveins/internal/server/net"
	"github.com/go-theft-craft/oreveins/internal/server/packet"
	"github.com/go-theft-craft/oreveins/internal/server/player"
	"github.com/go-theft-craft/oreveins/pkg/text"
)

const (
	keepAliveInterval = 15 * time.Second
	keepAliveTimeout  = 30 * time.Second
)

func (c *Connection) startPlay() error {
	username := c.loginName
	c.log = c.log.With("player", username)

	p := player.NewPlayer(c.svc.Players.AllocateEntityID(), player.OfflineUUID(username), username, c.writePacket)
	spawnY := float64(c.svc.World.SpawnHeight())
	p.SetPosition(0.5, spawnY, 0.5, 0, 0, true)
	if c.svc.Store != nil {
		pd, err := c.svc.Store.LoadPlayer(p.UUID)
		if err != nil {
			c.log.Warn("load player", "error", err)
		} else if pd != nil {
			pd.Apply(p)
		}
	}

	if err := c.svc.Scoreboard.SyncTo(c.writePacket); err != nil {
		return fmt.Errorf("sync scoreboard: %w", err)
	}

	if err := c.svc.Players.Add(p); err != nil {
		reason := text.Translate("multiplayer.disconnect.server_full")
		if errors.Is(err, player.ErrAlreadyOnline) {
			reason = text.Translate("multiplayer.disconnect.duplicate_login")
		}
		_ = c.writePacket(&packet.PlayDisconnect{Reason: reason})
		c.disconnect(err.Error())
		return nil
	}
	c.self = p

	if err := p.SendMessage(text.Text("Hello, world!").WithColor(text.Gold)); err != nil {
		return fmt.Errorf("write welcome: %w", err)
	}

	go c.keepAliveLoop()

	c.log.Info("join sequence complete")
	return nil
}

func (c *Connection) keepAliveLoop() {
	ticker := time.NewTicker(keepAliveInterval)
	defer ticker.Stop()

	for {
		select {
		case <-c.ctx.Done():
			return
		case now := <-ticker.C:
			if err := c.sendKeepAlive(now); err != nil {
				c.log.Warn("keep alive", "error", err)
				c.cancel()
				return
			}
		}
	}
}

// errKeepAliveTimeout ends a connection whose client stopped answering.
var errKeepAliveTimeout = errors.New("keep alive timed out")

func (c *Connection) sendKeepAlive(now time.Time) error {
	c.mu.Lock()
	if !c.keepAliveAcked && now.Sub(c.lastKeepAliveSent) > keepAliveTimeout {
		c.mu.Unlock()
		_ = c.writePacket(&packet.PlayDisconnect{Reason: text.Translate("disconnect.timeout")})
		return errKeepAliveTimeout
	}
	if !c.keepAliveAcked {
		// Still waiting on the previous ID.
		c.mu.Unlock()
		return nil
	}
	id := now.UnixMilli()
	c.lastKeepAliveID = id
	c.lastKeepAliveSent = now
	c.keepAliveAcked = false
	c.mu.Unlock()

	return c.writePacket(&packet.KeepAliveClientbound{KeepAliveID: id})
}

func (c *Connection) handlePlay(packetID int32, data []byte) error {
	switch packetID {
	case 0x04: // Chat Command
		var pkt packet.ChatCommand
		if err := mcnet.Unmarshal(data, &pkt); err != nil {
			return fmt.Errorf("unmarshal chat command: %w", err)
		}
		c.runCommand(pkt.Command)

	case 0x05: // Signed Chat Command
		var pkt packet.SignedChatCommand
		if err := mcnet.Unmarshal(data, &pkt); err != nil {
			return fmt.Errorf("unmarshal signed chat command: %w", err)
		}
		c.runCommand(pkt.Command)

	case 0x06: // Chat Message
		var pkt packet.ChatMessage
		if err := mcnet.Unmarshal(data, &pkt); err != nil {
			return fmt.Errorf("unmarshal chat: %w", err)
		}
		c.handleChat(pkt.Message)

	case 0x0B: // Command Suggestions Request
		var pkt packet.CommandSuggestionsRequest
		if err := mcnet.Unmarshal(data, &pkt); err != nil {
			return fmt.Errorf("unmarshal command suggestions: %w", err)
		}
		return c.handleSuggestions(pkt)

	case 0x18: // Keep Alive
		var pkt packet.KeepAliveServerbound
		if err := mcnet.Unmarshal(data, &pkt); err != nil {
			return fmt.Errorf("unmarshal keep alive: %w", err)
		}
		c.mu.Lock()
		if pkt.KeepAliveID == c.lastKeepAliveID {
			c.keepAliveAcked = true
		}
		c.mu.Unlock()

	case 0x1A: // Set Player Position
		var pkt packet.SetPlayerPosition
		if err := mcnet.Unmarshal(data, &pkt); err != nil {
			return fmt.Errorf("unmarshal position: %w", err)
		}
		pos := c.self.GetPosition()
		c.self.SetPosition(pkt.X, pkt.FeetY, pkt.Z, pos.Yaw, pos.Pitch, pkt.OnGround)

	case 0x1B: // Set Player Position and Rotation
		var pkt packet.SetPlayerPositionAndRotation
		if err := mcnet.Unmarshal(data, &pkt); err != nil {
			return fmt.Errorf("unmarshal position and rotation: %w", err)
		}
		c.self.SetPosition(pkt.X, pkt.FeetY, pkt.Z, pkt.Yaw, pkt.Pitch, pkt.OnGround)

	case 0x24: // Player Action
		var pkt packet.PlayerAction
		if err := mcnet.Unmarshal(data, &pkt); err != nil {
			return fmt.Errorf("unmarshal player action: %w", err)
		}
		return c.handlePlayerAction(pkt)

	default:
		// ignore unknown packets silently
	}

	return nil
}
