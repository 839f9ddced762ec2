package conn

import (
	"encoding/json"
	"fmt"

	mcnet "github.com/go-theft-craft/oreveins/internal/server/net"
	"github.com/go-theft-craft/oreveins/internal/server/packet"
	"github.com/go-theft-craft/oreveins/pkg/text"
)

type statusResponse struct {
	Version     statusVersion  `json:"version"`
	Players     statusPlayers  `json:"players"`
	Description text.Component `json:"description"`
}

type statusVersion struct {
	Name     string `json:"name"`
	Protocol int    `json:"protocol"`
}

type statusPlayers struct {
	Max    int            `json:"max"`
	Online int            `json:"online"`
	Sample []statusSample `json:"sample,omitempty"`
}

type statusSample struct {
	Name string `json:"name"`
	ID   string `json:"id"`
}

// maxStatusSample caps the player names listed in the server list hover.
const maxStatusSample = 12

func (c *Connection) handleStatus(packetID int32, data []byte) error {
	switch packetID {
	case 0x00: // Status Request
		resp := statusResponse{
			Version: statusVersion{
				Name:     packet.VersionName,
				Protocol: packet.ProtocolVersion,
			},
			Players: statusPlayers{
				Max:    c.cfg.MaxPlayers,
				Online: c.svc.Players.PlayerCount(),
			},
			Description: text.Text(c.cfg.MOTD),
		}
		for _, p := range c.svc.Players.All() {
			if len(resp.Players.Sample) == maxStatusSample {
				break
			}
			resp.Players.Sample = append(resp.Players.Sample, statusSample{Name: p.Username, ID: p.UUID.String()})
		}

		jsonBytes, err := json.Marshal(resp)
		if err != nil {
			return fmt.Errorf("marshal status response: %w", err)
		}

		return c.writePacket(&packet.StatusResponse{
			JSONResponse: string(jsonBytes),
		})

	case 0x01: // Ping
		var ping packet.StatusPing
		if err := mcnet.Unmarshal(data, &ping); err != nil {
			return fmt.Errorf("unmarshal ping: %w", err)
		}

		return c.writePacket(&packet.StatusPong{
			Payload: ping.Payload,
		})

	default:
		return fmt.Errorf("unexpected status packet 0x%02X", packetID)
	}
}
