package player

import (
	"crypto/md5"
	"fmt"
	"sync"

	"github.com/google/uuid"

	mcnet "github.com/go-theft-craft/oreveins/internal/server/net"
	"github.com/go-theft-craft/oreveins/internal/server/packet"
	"github.com/go-theft-craft/oreveins/pkg/text"
)

// EntityType is the registry name sent in show_entity hovers for players.
const EntityType = "minecraft:player"

// Position holds a player's world position and orientation.
type Position struct {
	X, Y, Z    float64
	Yaw, Pitch float32
	OnGround   bool
}

// Player represents a connected player.
type Player struct {
	mu       sync.RWMutex
	EntityID int32
	UUID     uuid.UUID
	Username string

	pos Position

	WritePacket func(mcnet.Packet) error
}

// NewPlayer creates a new Player at the origin.
func NewPlayer(entityID int32, id uuid.UUID, username string, writePacket func(mcnet.Packet) error) *Player {
	return &Player{
		EntityID:    entityID,
		UUID:        id,
		Username:    username,
		WritePacket: writePacket,
	}
}

// OfflineUUID derives the version 3 UUID an offline-mode server assigns to
// username.
func OfflineUUID(username string) uuid.UUID {
	h := md5.Sum([]byte("OfflinePlayer:" + username))
	h[6] = (h[6] & 0x0f) | 0x30
	h[8] = (h[8] & 0x3f) | 0x80
	return uuid.UUID(h)
}

// GetPosition returns a copy of the player's current position.
func (p *Player) GetPosition() Position {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.pos
}

func (p *Player) SetPosition(x, y, z float64, yaw, pitch float32, onGround bool) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.pos = Position{X: x, Y: y, Z: z, Yaw: yaw, Pitch: pitch, OnGround: onGround}
}

// DistanceSq returns the squared distance between two players.
func (p *Player) DistanceSq(other *Player) float64 {
	a, b := p.GetPosition(), other.GetPosition()
	dx, dy, dz := a.X-b.X, a.Y-b.Y, a.Z-b.Z
	return dx*dx + dy*dy + dz*dz
}

// DisplayName is the player's name with an entity hover and a
// shift-click insertion, as chat shows it.
func (p *Player) DisplayName() text.Component {
	name := text.Text(p.Username)
	return name.
		WithHover(text.ShowEntity(p.UUID, EntityType, &name)).
		WithInsertion(p.Username)
}

// SendMessage shows msg in the player's chat.
func (p *Player) SendMessage(msg text.Component) error {
	if err := p.WritePacket(&packet.SystemChat{Content: msg}); err != nil {
		return fmt.Errorf("send message to %s: %w", p.Username, err)
	}
	return nil
}

// SendActionBar shows msg above the player's hotbar.
func (p *Player) SendActionBar(msg text.Component) error {
	if err := p.WritePacket(&packet.SystemChat{Content: msg, Overlay: true}); err != nil {
		return fmt.Errorf("send action bar to %s: %w", p.Username, err)
	}
	return nil
}

// Transfer asks the client to reconnect to host:port.
func (p *Player) Transfer(host string, port int32) error {
	if err := p.WritePacket(&packet.Transfer{Host: host, Port: port}); err != nil {
		return fmt.Errorf("transfer %s: %w", p.Username, err)
	}
	return nil
}

func (p *Player) String() string { return p.Username }
