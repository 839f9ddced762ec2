package player

import (
	"errors"
	"sync"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	mcnet "github.com/go-theft-craft/oreveins/internal/server/net"
	"github.com/go-theft-craft/oreveins/internal/server/packet"
	"github.com/go-theft-craft/oreveins/pkg/text"
)

// packetCollector records packets sent to a player.
type packetCollector struct {
	mu      sync.Mutex
	packets []mcnet.Packet
}

func (pc *packetCollector) writePacket(p mcnet.Packet) error {
	pc.mu.Lock()
	defer pc.mu.Unlock()
	pc.packets = append(pc.packets, p)
	return nil
}

func (pc *packetCollector) get() []mcnet.Packet {
	pc.mu.Lock()
	defer pc.mu.Unlock()
	cp := make([]mcnet.Packet, len(pc.packets))
	copy(cp, pc.packets)
	return cp
}

func (pc *packetCollector) reset() {
	pc.mu.Lock()
	defer pc.mu.Unlock()
	pc.packets = nil
}

func newTestPlayer(m *Manager, name string) (*Player, *packetCollector) {
	pc := &packetCollector{}
	p := NewPlayer(m.AllocateEntityID(), OfflineUUID(name), name, pc.writePacket)
	return p, pc
}

func TestAllocateEntityID(t *testing.T) {
	m := NewManager(8)
	id1 := m.AllocateEntityID()
	id2 := m.AllocateEntityID()
	id3 := m.AllocateEntityID()
	if id1 != 1 || id2 != 2 || id3 != 3 {
		t.Errorf("expected 1,2,3 got %d,%d,%d", id1, id2, id3)
	}
}

func TestOfflineUUID(t *testing.T) {
	assert.Equal(t, uuid.MustParse("b50ad385-829d-3141-a216-7e7d7539ba7f"), OfflineUUID("Notch"))
	assert.Equal(t, uuid.Version(3), OfflineUUID("Alex").Version())
	assert.Equal(t, uuid.RFC4122, OfflineUUID("Alex").Variant())
	assert.NotEqual(t, OfflineUUID("alex"), OfflineUUID("Alex"))
}

func TestAddRemovePlayer(t *testing.T) {
	m := NewManager(8)
	p1, _ := newTestPlayer(m, "Alice")
	p2, _ := newTestPlayer(m, "Bob")

	require.NoError(t, m.Add(p1))
	if m.PlayerCount() != 1 {
		t.Errorf("expected 1, got %d", m.PlayerCount())
	}

	require.NoError(t, m.Add(p2))
	if m.PlayerCount() != 2 {
		t.Errorf("expected 2, got %d", m.PlayerCount())
	}

	m.Remove(p1)
	if m.PlayerCount() != 1 {
		t.Errorf("expected 1, got %d", m.PlayerCount())
	}

	// Removing twice is a no-op.
	m.Remove(p1)
	m.Remove(p2)
	if m.PlayerCount() != 0 {
		t.Errorf("expected 0, got %d", m.PlayerCount())
	}
}

func TestAddRejectsFullAndDuplicate(t *testing.T) {
	m := NewManager(1)
	p1, _ := newTestPlayer(m, "Alice")
	require.NoError(t, m.Add(p1))

	p2, _ := newTestPlayer(m, "Bob")
	assert.ErrorIs(t, m.Add(p2), ErrServerFull)

	m2 := NewManager(0)
	a, _ := newTestPlayer(m2, "Alice")
	b, _ := newTestPlayer(m2, "Alice")
	require.NoError(t, m2.Add(a))
	err := m2.Add(b)
	assert.True(t, errors.Is(err, ErrAlreadyOnline))
	assert.Equal(t, 1, m2.PlayerCount())
}

func TestJoinAndLeaveAnnounced(t *testing.T) {
	m := NewManager(8)
	p1, pc1 := newTestPlayer(m, "Alice")
	p2, _ := newTestPlayer(m, "Bob")

	require.NoError(t, m.Add(p1))
	pc1.reset()
	require.NoError(t, m.Add(p2))
	m.Remove(p2)

	got := pc1.get()
	require.Len(t, got, 2)
	joined := got[0].(*packet.SystemChat).Content
	assert.Equal(t, "multiplayer.player.joined", joined.Translate)
	assert.Equal(t, text.Yellow, joined.Color)
	require.Len(t, joined.With, 1)
	assert.Equal(t, "Bob", joined.With[0].Text)
	assert.Equal(t, "multiplayer.player.left", got[1].(*packet.SystemChat).Content.Translate)
}

func TestBroadcast(t *testing.T) {
	m := NewManager(8)
	p1, pc1 := newTestPlayer(m, "Alice")
	p2, pc2 := newTestPlayer(m, "Bob")

	require.NoError(t, m.Add(p1))
	require.NoError(t, m.Add(p2))

	pc1.reset()
	pc2.reset()

	m.BroadcastMessage(text.Text("hello"))

	if len(pc1.get()) != 1 {
		t.Errorf("p1 expected 1 packet, got %d", len(pc1.get()))
	}
	if len(pc2.get()) != 1 {
		t.Errorf("p2 expected 1 packet, got %d", len(pc2.get()))
	}
}

func TestBroadcastExcept(t *testing.T) {
	m := NewManager(8)
	p1, pc1 := newTestPlayer(m, "Alice")
	p2, pc2 := newTestPlayer(m, "Bob")

	require.NoError(t, m.Add(p1))
	require.NoError(t, m.Add(p2))

	pc1.reset()
	pc2.reset()

	m.BroadcastExcept(&packet.SystemChat{Content: text.Text("hello")}, p1.EntityID)

	if len(pc1.get()) != 0 {
		t.Errorf("p1 (excluded) expected 0 packets, got %d", len(pc1.get()))
	}
	if len(pc2.get()) != 1 {
		t.Errorf("p2 expected 1 packet, got %d", len(pc2.get()))
	}
}

func TestLookups(t *testing.T) {
	m := NewManager(8)
	p1, _ := newTestPlayer(m, "Alice")
	p2, _ := newTestPlayer(m, "Bob")
	require.NoError(t, m.Add(p1))
	require.NoError(t, m.Add(p2))

	assert.Same(t, p1, m.GetByName("aLiCe"))
	assert.Nil(t, m.GetByName("Carol"))
	assert.Same(t, p2, m.GetByUUID(OfflineUUID("Bob")))
	assert.Nil(t, m.GetByUUID(uuid.Nil))
	assert.Same(t, p2, m.GetByEntityID(p2.EntityID))
	assert.Equal(t, []string{"Alice", "Bob"}, m.Names())
}

func TestForEachMayRemove(t *testing.T) {
	m := NewManager(8)
	for _, name := range []string{"A", "B", "C"} {
		p, _ := newTestPlayer(m, name)
		require.NoError(t, m.Add(p))
	}
	m.ForEach(m.Remove)
	assert.Zero(t, m.PlayerCount())
}

func TestPlayerSendMessageAndTransfer(t *testing.T) {
	m := NewManager(8)
	p, pc := newTestPlayer(m, "Alice")

	require.NoError(t, p.SendMessage(text.Text("hi")))
	require.NoError(t, p.SendActionBar(text.Text("bar")))
	require.NoError(t, p.Transfer("example.org", 25566))

	got := pc.get()
	require.Len(t, got, 3)
	assert.Equal(t, &packet.SystemChat{Content: text.Text("hi")}, got[0])
	assert.True(t, got[1].(*packet.SystemChat).Overlay)
	assert.Equal(t, &packet.Transfer{Host: "example.org", Port: 25566}, got[2])
}

func TestPlayerWriteErrorWrapped(t *testing.T) {
	boom := errors.New("closed")
	p := NewPlayer(1, OfflineUUID("Alice"), "Alice", func(mcnet.Packet) error { return boom })
	err := p.Transfer("h", 1)
	assert.ErrorIs(t, err, boom)
	assert.ErrorContains(t, err, "transfer Alice")
}

func TestDisplayNameHover(t *testing.T) {
	m := NewManager(8)
	p, _ := newTestPlayer(m, "Alice")
	name := p.DisplayName()

	require.NotNil(t, name.HoverEvent)
	assert.Equal(t, text.HoverShowEntity, name.HoverEvent.Action)
	require.NotNil(t, name.HoverEvent.Entity)
	assert.Equal(t, p.UUID, name.HoverEvent.Entity.ID)
	assert.Equal(t, EntityType, name.HoverEvent.Entity.Type)
	assert.Equal(t, "Alice", name.Insertion)
}

func TestDistanceSq(t *testing.T) {
	m := NewManager(8)
	a, _ := newTestPlayer(m, "A")
	b, _ := newTestPlayer(m, "B")
	a.SetPosition(0, 64, 0, 0, 0, true)
	b.SetPosition(3, 68, 0, 0, 0, true)
	assert.Equal(t, 25.0, a.DistanceSq(b))
}
