package command

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	mcnet "github.com/go-theft-craft/oreveins/internal/server/net"
	"github.com/go-theft-craft/oreveins/internal/server/packet"
	"github.com/go-theft-craft/oreveins/internal/server/player"
	"github.com/go-theft-craft/oreveins/internal/server/scoreboard"
	"github.com/go-theft-craft/oreveins/pkg/text"
)

// sentPackets collects packets from a player's WritePacket func.
type sentPackets struct {
	mu      sync.Mutex
	packets []mcnet.Packet
}

func (s *sentPackets) write(p mcnet.Packet) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.packets = append(s.packets, p)
	return nil
}

func (s *sentPackets) get() []mcnet.Packet {
	s.mu.Lock()
	defer s.mu.Unlock()
	cp := make([]mcnet.Packet, len(s.packets))
	copy(cp, s.packets)
	return cp
}

func (s *sentPackets) reset() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.packets = nil
}

// messages returns the chat messages sent, flattened to plain text.
func (s *sentPackets) messages() []string {
	var out []string
	for _, p := range s.get() {
		if chat, ok := p.(*packet.SystemChat); ok {
			out = append(out, chat.Content.PlainText())
		}
	}
	return out
}

func (s *sentPackets) transfers() []*packet.Transfer {
	var out []*packet.Transfer
	for _, p := range s.get() {
		if tr, ok := p.(*packet.Transfer); ok {
			out = append(out, tr)
		}
	}
	return out
}

type testServer struct {
	d       *Dispatcher
	env     *Env
	logs    *bytes.Buffer
	alice   *player.Player
	bob     *player.Player
	aliceTx *sentPackets
	bobTx   *sentPackets
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()

	logs := &bytes.Buffer{}
	log := slog.New(slog.NewTextHandler(logs, nil))
	m := player.NewManager(8)

	ts := &testServer{logs: logs, aliceTx: &sentPackets{}, bobTx: &sentPackets{}}
	ts.alice = player.NewPlayer(m.AllocateEntityID(), player.OfflineUUID("Alice"), "Alice", ts.aliceTx.write)
	ts.bob = player.NewPlayer(m.AllocateEntityID(), player.OfflineUUID("Bob"), "Bob", ts.bobTx.write)
	require.NoError(t, m.Add(ts.alice))
	require.NoError(t, m.Add(ts.bob))
	ts.aliceTx.reset()
	ts.bobTx.reset()

	ts.env = &Env{
		Players:    m,
		Scoreboard: scoreboard.New(m, log),
		Seed:       42,
		Log:        log,
	}
	ts.d = NewDispatcher(ts.env)
	RegisterDefaults(ts.d)
	return ts
}

func (ts *testServer) console() *ConsoleSender {
	return NewConsoleSender(ts.env.Log)
}

func TestTransferSelfDefaultPort(t *testing.T) {
	ts := newTestServer(t)

	err := ts.d.Dispatch(context.Background(), NewPlayerSender(ts.alice), "transfer example.org")
	require.NoError(t, err)

	assert.Equal(t, []*packet.Transfer{{Host: "example.org", Port: 25565}}, ts.aliceTx.transfers())
	assert.Empty(t, ts.bobTx.transfers())
	assert.Contains(t, ts.logs.String(), "[Alice: Transferring Alice to example.org:25565]")
}

func TestTransferSelfWithPort(t *testing.T) {
	ts := newTestServer(t)

	require.NoError(t, ts.d.Dispatch(context.Background(), NewPlayerSender(ts.alice), "transfer example.org 25566"))
	assert.Equal(t, []*packet.Transfer{{Host: "example.org", Port: 25566}}, ts.aliceTx.transfers())
}

func TestTransferPortOutOfBounds(t *testing.T) {
	for _, port := range []string{"0", "65536", "-5"} {
		t.Run(port, func(t *testing.T) {
			ts := newTestServer(t)

			err := ts.d.Dispatch(context.Background(), NewPlayerSender(ts.alice), "transfer example.org "+port)
			require.NoError(t, err)
			assert.Empty(t, ts.aliceTx.transfers())

			got := ts.aliceTx.get()
			require.Len(t, got, 1)
			chat := got[0].(*packet.SystemChat)
			assert.Equal(t, "Port must be between 1 and 65535.", chat.Content.Text)
			assert.Equal(t, text.Red, chat.Content.Color)
		})
	}
}

func TestTransferBoundaryPorts(t *testing.T) {
	ts := newTestServer(t)
	sender := NewPlayerSender(ts.alice)

	require.NoError(t, ts.d.Dispatch(context.Background(), sender, "transfer h 1"))
	require.NoError(t, ts.d.Dispatch(context.Background(), sender, "transfer h 65535"))
	assert.Equal(t, []*packet.Transfer{{Host: "h", Port: 1}, {Host: "h", Port: 65535}}, ts.aliceTx.transfers())
}

func TestTransferSelfRequiresPlayer(t *testing.T) {
	ts := newTestServer(t)

	err := ts.d.Dispatch(context.Background(), ts.console(), "transfer example.org")
	assert.ErrorIs(t, err, ErrInvalidRequirement)

	err = ts.d.Dispatch(context.Background(), ts.console(), "transfer example.org 25566")
	assert.ErrorIs(t, err, ErrInvalidRequirement)

	assert.Empty(t, ts.aliceTx.transfers())
}

func TestTransferPlayers(t *testing.T) {
	ts := newTestServer(t)

	require.NoError(t, ts.d.Dispatch(context.Background(), ts.console(), "transfer lobby.example 25566 @a"))
	want := []*packet.Transfer{{Host: "lobby.example", Port: 25566}}
	assert.Equal(t, want, ts.aliceTx.transfers())
	assert.Equal(t, want, ts.bobTx.transfers())
	assert.Contains(t, ts.logs.String(), "[Server: Transferring Alice to lobby.example:25566]")
	assert.Contains(t, ts.logs.String(), "[Server: Transferring Bob to lobby.example:25566]")
}

func TestTransferNamedPlayer(t *testing.T) {
	ts := newTestServer(t)

	require.NoError(t, ts.d.Dispatch(context.Background(), NewPlayerSender(ts.alice), "transfer h 25565 bob"))
	assert.Empty(t, ts.aliceTx.transfers())
	assert.Len(t, ts.bobTx.transfers(), 1)
	assert.Contains(t, ts.logs.String(), "[Alice: Transferring Bob to h:25565]")
}

func TestTransferSelectorSelf(t *testing.T) {
	ts := newTestServer(t)

	require.NoError(t, ts.d.Dispatch(context.Background(), NewPlayerSender(ts.bob), "transfer h 25565 @s"))
	assert.Len(t, ts.bobTx.transfers(), 1)
	assert.Empty(t, ts.aliceTx.transfers())

	// @s means nothing for the console.
	var synErr *SyntaxError
	err := ts.d.Dispatch(context.Background(), ts.console(), "transfer h 25565 @s")
	require.ErrorAs(t, err, &synErr)
	assert.Equal(t, argPlayers, synErr.Arg)
}

func TestTransferSyntaxErrors(t *testing.T) {
	ts := newTestServer(t)
	sender := NewPlayerSender(ts.alice)

	tests := []struct {
		line string
		arg  string
	}{
		{"transfer", ""},
		{"transfer h notaport", "port"},
		{"transfer h 25565 Nobody", "players"},
		{"transfer h 25565 @a extra", ""},
	}
	for _, tt := range tests {
		t.Run(tt.line, func(t *testing.T) {
			var synErr *SyntaxError
			err := ts.d.Dispatch(context.Background(), sender, tt.line)
			require.ErrorAs(t, err, &synErr)
			assert.Equal(t, "transfer", synErr.Command)
			assert.Equal(t, tt.arg, synErr.Arg)
		})
	}
	assert.Empty(t, ts.aliceTx.transfers())
}

func TestUsages(t *testing.T) {
	ts := newTestServer(t)

	got, err := ts.d.Usages("transfer")
	require.NoError(t, err)
	assert.Equal(t, []string{
		"transfer <hostname>",
		"transfer <hostname> <port>",
		"transfer <hostname> <port> <players>",
	}, got)

	_, err = ts.d.Usages("nope")
	assert.ErrorIs(t, err, ErrUnknownCommand)
}

func TestUnknownCommand(t *testing.T) {
	ts := newTestServer(t)

	err := ts.d.Dispatch(context.Background(), NewPlayerSender(ts.alice), "frobnicate now")
	assert.ErrorIs(t, err, ErrUnknownCommand)
	assert.ErrorIs(t, ts.d.Dispatch(context.Background(), NewPlayerSender(ts.alice), "   "), ErrUnknownCommand)
}

func TestHandleReportsErrors(t *testing.T) {
	ts := newTestServer(t)
	sender := NewPlayerSender(ts.alice)

	ts.d.Handle(context.Background(), sender, "frobnicate")
	ts.d.Handle(context.Background(), sender, "transfer h notaport")
	ts.d.Handle(context.Background(), sender, "transfer")

	got := ts.aliceTx.get()
	require.Len(t, got, 3)
	for _, p := range got {
		assert.Equal(t, text.Red, p.(*packet.SystemChat).Content.Color)
	}
	msgs := ts.aliceTx.messages()
	assert.Equal(t, "Unknown command: /frobnicate. Type /help for a list of commands.", msgs[0])
	assert.Contains(t, msgs[1], "Invalid value for <port>")
	assert.Contains(t, msgs[2], "/transfer <hostname> <port> <players>")
}

func TestHandleInternalError(t *testing.T) {
	ts := newTestServer(t)
	ts.env.Save = func(context.Context) error { return errors.New("disk full") }

	ts.d.Handle(context.Background(), NewPlayerSender(ts.alice), "save")
	msgs := ts.aliceTx.messages()
	require.Len(t, msgs, 2)
	assert.Equal(t, "Saving world...", msgs[0])
	assert.Equal(t, "An error occurred while running this command.", msgs[1])
	assert.Contains(t, ts.logs.String(), "disk full")
}

func TestSave(t *testing.T) {
	ts := newTestServer(t)
	sender := NewPlayerSender(ts.alice)

	require.NoError(t, ts.d.Dispatch(context.Background(), sender, "save"))
	assert.Equal(t, []string{"Save is not available."}, ts.aliceTx.messages())

	ts.aliceTx.reset()
	calls := 0
	ts.env.Save = func(context.Context) error { calls++; return nil }
	require.NoError(t, ts.d.Dispatch(context.Background(), sender, "save"))
	assert.Equal(t, 1, calls)
	assert.Equal(t, []string{"Saving world...", "Save complete."}, ts.aliceTx.messages())
}

func TestListAndSeed(t *testing.T) {
	ts := newTestServer(t)
	sender := NewPlayerSender(ts.alice)

	require.NoError(t, ts.d.Dispatch(context.Background(), sender, "list"))
	require.NoError(t, ts.d.Dispatch(context.Background(), sender, "SEED"))

	got := ts.aliceTx.get()
	require.Len(t, got, 2)
	assert.Equal(t, "Online players (2): Alice, Bob", got[0].(*packet.SystemChat).Content.PlainText())

	seed := got[1].(*packet.SystemChat).Content
	assert.Equal(t, "Seed: [42]", seed.PlainText())
	require.Len(t, seed.Extra, 1)
	require.NotNil(t, seed.Extra[0].ClickEvent)
	assert.Equal(t, text.CopyToClipboard("42"), *seed.Extra[0].ClickEvent)
}

func TestHelp(t *testing.T) {
	ts := newTestServer(t)
	sender := NewPlayerSender(ts.alice)

	require.NoError(t, ts.d.Dispatch(context.Background(), sender, "help"))
	msgs := ts.aliceTx.messages()
	require.NotEmpty(t, msgs)
	assert.Equal(t, "--- Available Commands ---", msgs[0])
	assert.Contains(t, msgs, "/transfer - Triggers a transfer of a player to another server.")
	assert.Len(t, msgs, 1+len(ts.d.Trees()))

	ts.aliceTx.reset()
	require.NoError(t, ts.d.Dispatch(context.Background(), sender, "? transfer"))
	assert.Equal(t, []string{
		"/transfer <hostname>",
		"/transfer <hostname> <port>",
		"/transfer <hostname> <port> <players>",
	}, ts.aliceTx.messages())
}

func TestScoreboardCommands(t *testing.T) {
	ts := newTestServer(t)
	ctx := context.Background()
	console := ts.console()

	require.NoError(t, ts.d.Dispatch(ctx, console, "scoreboard objectives add ores Ores Mined"))
	o, ok := ts.env.Scoreboard.Objective("ores")
	require.True(t, ok)
	assert.Equal(t, "Ores Mined", o.DisplayName.PlainText())

	got := ts.bobTx.get()
	require.Len(t, got, 2)
	assert.IsType(t, &packet.UpdateObjectives{}, got[0])
	assert.IsType(t, &packet.DisplayObjective{}, got[1])

	require.NoError(t, ts.d.Dispatch(ctx, console, "scoreboard players set Steve ores 5"))
	require.NoError(t, ts.d.Dispatch(ctx, console, "scoreboard players add Steve ores 2"))
	v, ok := ts.env.Scoreboard.Score("Steve", "ores")
	require.True(t, ok)
	assert.Equal(t, int32(7), v)

	require.NoError(t, ts.d.Dispatch(ctx, console, "scoreboard objectives setdisplay below_name ores"))
	name, ok := ts.env.Scoreboard.Displayed(scoreboard.BelowName)
	assert.True(t, ok)
	assert.Equal(t, "ores", name)

	require.NoError(t, ts.d.Dispatch(ctx, console, "scoreboard players reset Steve ores"))
	_, ok = ts.env.Scoreboard.Score("Steve", "ores")
	assert.False(t, ok)

	require.NoError(t, ts.d.Dispatch(ctx, console, "scoreboard objectives remove ores"))
	assert.Empty(t, ts.env.Scoreboard.Objectives())
}

func TestScoreboardCommandFeedback(t *testing.T) {
	ts := newTestServer(t)
	ctx := context.Background()
	sender := NewPlayerSender(ts.alice)

	require.NoError(t, ts.d.Dispatch(ctx, sender, "scoreboard players set Steve missing 1"))
	require.NoError(t, ts.d.Dispatch(ctx, sender, "scoreboard objectives add ores"))
	ts.aliceTx.reset()

	require.NoError(t, ts.d.Dispatch(ctx, sender, "scoreboard objectives add ores"))
	require.NoError(t, ts.d.Dispatch(ctx, sender, "scoreboard objectives add much_too_long_name"))
	require.NoError(t, ts.d.Dispatch(ctx, sender, "scoreboard players get Steve ores"))
	require.NoError(t, ts.d.Dispatch(ctx, sender, "scoreboard objectives list"))

	assert.Equal(t, []string{
		"An objective already exists by that name",
		"Created new objective [much_too_long_name]",
		"Can't get value of ores for Steve; none is set",
		"There are 2 objective(s): [much_too_long_name], [ores]",
	}, ts.aliceTx.messages())

	var synErr *SyntaxError
	err := ts.d.Dispatch(ctx, sender, "scoreboard objectives setdisplay nowhere ores")
	require.ErrorAs(t, err, &synErr)
	assert.Equal(t, argSlot, synErr.Arg)
}

func TestComplete(t *testing.T) {
	ts := newTestServer(t)
	sender := NewPlayerSender(ts.alice)

	tests := []struct {
		line  string
		start int
		want  []string
	}{
		{"tr", 0, []string{"transfer"}},
		{"s", 0, []string{"save", "scoreboard", "seed"}},
		{"transfer h 25565 ", 17, []string{"@a", "@p", "@r", "@s", "Alice", "Bob"}},
		{"transfer h 25565 B", 17, []string{"Bob"}},
		{"scoreboard ", 11, []string{"objectives", "players"}},
		{"scoreboard objectives s", 22, []string{"setdisplay"}},
		{"scoreboard objectives setdisplay ", 33, []string{"list", "sidebar", "below_name"}},
		{"help tra", 5, []string{"transfer"}},
		{"nope ", 5, nil},
	}
	for _, tt := range tests {
		t.Run(tt.line, func(t *testing.T) {
			start, got := ts.d.Complete(sender, tt.line)
			assert.Equal(t, tt.start, start)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestCompleteObjectives(t *testing.T) {
	ts := newTestServer(t)
	ctx := context.Background()
	require.NoError(t, ts.d.Dispatch(ctx, ts.console(), "scoreboard objectives add ores"))
	require.NoError(t, ts.d.Dispatch(ctx, ts.console(), "scoreboard objectives add deaths"))

	_, got := ts.d.Complete(ts.console(), "scoreboard objectives remove ")
	assert.Equal(t, []string{"deaths", "ores"}, got)
}

type recordingObserver struct {
	names []string
	errs  []error
}

func (r *recordingObserver) CommandDispatched(name string, err error) {
	r.names = append(r.names, name)
	r.errs = append(r.errs, err)
}

func TestObserver(t *testing.T) {
	ts := newTestServer(t)
	obs := &recordingObserver{}
	ts.d.SetObserver(obs)

	_ = ts.d.Dispatch(context.Background(), ts.console(), "List")
	_ = ts.d.Dispatch(context.Background(), ts.console(), "nope")

	assert.Equal(t, []string{"list", "nope"}, obs.names)
	assert.NoError(t, obs.errs[0])
	assert.ErrorIs(t, obs.errs[1], ErrUnknownCommand)
}

func TestBoundedNumConsumer(t *testing.T) {
	c := NewBoundedNum[float64]().Min(-1).Max(1)
	assert.Equal(t, "number", c.DefaultName())

	arg, ok := c.Consume(nil, nil, tokenize("0.5"))
	require.True(t, ok)
	assert.Equal(t, 0.5, arg.Value)
	assert.NoError(t, arg.Err)

	arg, ok = c.Consume(nil, nil, tokenize("2"))
	require.True(t, ok)
	assert.ErrorIs(t, arg.Err, ErrOutOfBounds)

	_, ok = c.Consume(nil, nil, tokenize("abc"))
	assert.False(t, ok)

	v, found, err := c.Find(Args{"number": {Raw: "0.25", Value: 0.25}})
	assert.True(t, found)
	assert.NoError(t, err)
	assert.Equal(t, 0.25, v)

	_, found, _ = c.Find(Args{})
	assert.False(t, found)
}

func TestGreedyString(t *testing.T) {
	tok := tokenize("a  b   c")
	arg, ok := GreedyStringConsumer{}.Consume(nil, nil, tok)
	require.True(t, ok)
	assert.Equal(t, "a b c", arg.Value)
	assert.True(t, tok.Empty())

	_, ok = GreedyStringConsumer{}.Consume(nil, nil, tokenize(""))
	assert.False(t, ok)
}

func TestNearestSelector(t *testing.T) {
	ts := newTestServer(t)
	carolTx := &sentPackets{}
	carol := player.NewPlayer(ts.env.Players.AllocateEntityID(), player.OfflineUUID("Carol"), "Carol", carolTx.write)
	require.NoError(t, ts.env.Players.Add(carol))

	ts.alice.SetPosition(0, 64, 0, 0, 0, true)
	ts.bob.SetPosition(100, 64, 0, 0, 0, true)
	carol.SetPosition(10, 64, 0, 0, 0, true)

	// The sender is nearest to itself.
	ps, ok := selectPlayers(ts.env.Players, NewPlayerSender(carol), "@p")
	require.True(t, ok)
	assert.Equal(t, []*player.Player{carol}, ps)

	ps, ok = selectPlayers(ts.env.Players, ts.console(), "@p")
	require.True(t, ok)
	assert.Equal(t, []*player.Player{ts.alice}, ps)

	ps, ok = selectPlayers(ts.env.Players, ts.console(), "@r")
	require.True(t, ok)
	assert.Len(t, ps, 1)
}
