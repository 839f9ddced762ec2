package player

import (
	"errors"
	"fmt"
	"sort"
	"strings"
	"sync"
	"sync/atomic"

	"github.com/google/uuid"

	mcnet "github.com/go-theft-craft/oreveins/internal/server/net"
	"github.com/go-theft-craft/oreveins/internal/server/packet"
	"github.com/go-theft-craft/oreveins/pkg/text"
)

var (
	ErrServerFull    = errors.New("server is full")
	ErrAlreadyOnline = errors.New("player already online")
)

// Manager tracks all connected players.
type Manager struct {
	mu           sync.RWMutex
	players      map[int32]*Player   // entityID → Player
	byUUID       map[uuid.UUID]int32 // UUID → entityID
	nextEntityID atomic.Int32
	maxPlayers   int
}

// NewManager creates a player manager. maxPlayers <= 0 means no limit.
func NewManager(maxPlayers int) *Manager {
	return &Manager{
		players:    make(map[int32]*Player),
		byUUID:     make(map[uuid.UUID]int32),
		maxPlayers: maxPlayers,
	}
}

// AllocateEntityID returns the next unique entity ID.
func (m *Manager) AllocateEntityID() int32 {
	return m.nextEntityID.Add(1)
}

// Add registers a player and announces the join to everyone online.
func (m *Manager) Add(p *Player) error {
	m.mu.Lock()
	if m.maxPlayers > 0 && len(m.players) >= m.maxPlayers {
		m.mu.Unlock()
		return ErrServerFull
	}
	if _, ok := m.byUUID[p.UUID]; ok {
		m.mu.Unlock()
		return fmt.Errorf("%w: %s", ErrAlreadyOnline, p.Username)
	}
	m.players[p.EntityID] = p
	m.byUUID[p.UUID] = p.EntityID
	m.mu.Unlock()

	m.Broadcast(&packet.SystemChat{
		Content: text.Translate("multiplayer.player.joined", p.DisplayName()).WithColor(text.Yellow),
	})
	return nil
}

// Remove unregisters a player and announces the departure to the others.
func (m *Manager) Remove(p *Player) {
	m.mu.Lock()
	if cur, ok := m.players[p.EntityID]; !ok || cur != p {
		m.mu.Unlock()
		return
	}
	delete(m.players, p.EntityID)
	delete(m.byUUID, p.UUID)
	m.mu.Unlock()

	m.Broadcast(&packet.SystemChat{
		Content: text.Translate("multiplayer.player.left", p.DisplayName()).WithColor(text.Yellow),
	})
}

// Broadcast sends a packet to all connected players.
func (m *Manager) Broadcast(p mcnet.Packet) {
	m.ForEach(func(pl *Player) {
		_ = pl.WritePacket(p)
	})
}

// BroadcastExcept sends a packet to all players except the one with excludeEntityID.
func (m *Manager) BroadcastExcept(p mcnet.Packet, excludeEntityID int32) {
	m.ForEach(func(pl *Player) {
		if pl.EntityID != excludeEntityID {
			_ = pl.WritePacket(p)
		}
	})
}

// BroadcastMessage shows msg in every player's chat.
func (m *Manager) BroadcastMessage(msg text.Component) {
	m.Broadcast(&packet.SystemChat{Content: msg})
}

// PlayerCount returns the number of connected players.
func (m *Manager) PlayerCount() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.players)
}

// MaxPlayers returns the configured capacity.
func (m *Manager) MaxPlayers() int { return m.maxPlayers }

// GetByEntityID returns the player with the given entity ID, or nil.
func (m *Manager) GetByEntityID(entityID int32) *Player {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.players[entityID]
}

// GetByUUID returns the player with the given UUID, or nil.
func (m *Manager) GetByUUID(id uuid.UUID) *Player {
	m.mu.RLock()
	defer m.mu.RUnlock()
	eid, ok := m.byUUID[id]
	if !ok {
		return nil
	}
	return m.players[eid]
}

// GetByName returns the player with the given username (case-insensitive), or nil.
func (m *Manager) GetByName(name string) *Player {
	m.mu.RLock()
	defer m.mu.RUnlock()
	for _, p := range m.players {
		if strings.EqualFold(p.Username, name) {
			return p
		}
	}
	return nil
}

// ForEach calls fn for a snapshot of the connected players. fn may call back
// into the manager.
func (m *Manager) ForEach(fn func(*Player)) {
	for _, p := range m.All() {
		fn(p)
	}
}

// All returns the connected players ordered by entity ID.
func (m *Manager) All() []*Player {
	m.mu.RLock()
	out := make([]*Player, 0, len(m.players))
	for _, p := range m.players {
		out = append(out, p)
	}
	m.mu.RUnlock()

	sort.Slice(out, func(i, j int) bool { return out[i].EntityID < out[j].EntityID })
	return out
}

// Names returns the online usernames in join order.
func (m *Manager) Names() []string {
	players := m.All()
	names := make([]string, len(players))
	for i, p := range players {
		names[i] = p.Username
	}
	return names
}
