package conn

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net"
	"sync"
	"time"

	"github.com/go-theft-craft/oreveins/internal/server/command"
	"github.com/go-theft-craft/oreveins/internal/server/config"
	mcnet "github.com/go-theft-craft/oreveins/internal/server/net"
	"github.com/go-theft-craft/oreveins/internal/server/player"
	"github.com/go-theft-craft/oreveins/internal/server/scoreboard"
	"github.com/go-theft-craft/oreveins/internal/server/storage"
	"github.com/go-theft-craft/oreveins/internal/server/world"
	"github.com/go-theft-craft/oreveins/internal/server/world/block"
)

// State represents the connection state.
type State int

const (
	StateHandshake State = iota
	StateStatus
	StateLogin
	StateConfiguration
	StatePlay
)

var stateNames = [...]string{"handshake", "status", "login", "configuration", "play"}

func (s State) String() string {
	if int(s) < len(stateNames) {
		return stateNames[s]
	}
	return fmt.Sprintf("State(%d)", int(s))
}

// Services are the server-wide objects a connection works with.
type Services struct {
	World      *world.World
	Players    *player.Manager
	Scoreboard *scoreboard.Scoreboard
	Commands   *command.Dispatcher
	Palette    *block.Palette
	// Store keeps player positions across sessions. Nil disables it.
	Store *storage.Storage
}

// Connection manages a single client connection through the protocol state machine.
type Connection struct {
	conn   net.Conn
	rw     io.ReadWriter
	cfg    *config.Config
	log    *slog.Logger
	ctx    context.Context
	cancel context.CancelFunc
	svc    Services

	mu    sync.Mutex
	state State

	self *player.Player

	// Set by LoginStart, used when play begins.
	loginName string

	// KeepAlive tracking, guarded by mu.
	lastKeepAliveID   int64
	lastKeepAliveSent time.Time
	keepAliveAcked    bool
}

// NewConnection creates a new Connection from a raw TCP connection.
func NewConnection(ctx context.Context, conn net.Conn, cfg *config.Config, log *slog.Logger, svc Services) *Connection {
	ctx, cancel := context.WithCancel(ctx)
	return &Connection{
		conn:           conn,
		rw:             conn,
		cfg:            cfg,
		log:            log.With("addr", conn.RemoteAddr().String()),
		ctx:            ctx,
		cancel:         cancel,
		svc:            svc,
		state:          StateHandshake,
		keepAliveAcked: true,
	}
}

// Handle runs the connection lifecycle. It reads packets and dispatches
// them to the appropriate state handler until the connection closes.
func (c *Connection) Handle() {
	defer func() {
		if c.self != nil {
			if c.svc.Store != nil {
				if err := c.svc.Store.SavePlayer(c.self); err != nil {
					c.log.Warn("save player", "error", err)
				}
			}
			c.svc.Players.Remove(c.self)
		}
		c.cancel()
		c.conn.Close()
		c.log.Info("connection closed")
	}()

	// Unblock the read loop when the server shuts down.
	go func() {
		<-c.ctx.Done()
		c.conn.Close()
	}()

	c.log.Info("connection accepted")

	for {
		if err := c.handleNextPacket(); err != nil {
			if c.ctx.Err() != nil || errors.Is(err, io.EOF) || errors.Is(err, net.ErrClosed) {
				return
			}
			c.log.Error("handling packet", "state", c.state, "error", err)
			return
		}
	}
}

func (c *Connection) handleNextPacket() error {
	packetID, data, err := mcnet.ReadRawPacket(c.rw)
	if err != nil {
		return err
	}

	switch c.state {
	case StateHandshake:
		return c.handleHandshake(packetID, data)
	case StateStatus:
		return c.handleStatus(packetID, data)
	case StateLogin:
		return c.handleLogin(packetID, data)
	case StateConfiguration:
		return c.handleConfiguration(packetID, data)
	case StatePlay:
		return c.handlePlay(packetID, data)
	default:
		return fmt.Errorf("unknown state: %d", c.state)
	}
}

// writePacket writes a packet to the connection under the write lock.
func (c *Connection) writePacket(p mcnet.Packet) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return mcnet.WritePacket(c.rw, p)
}

// disconnect closes the connection after the caller sent its reason.
func (c *Connection) disconnect(reason string) {
	c.log.Info("disconnecting", "reason", reason)
	c.cancel()
}
