package command

import (
	"log/slog"

	"github.com/go-theft-craft/oreveins/internal/server/player"
	"github.com/go-theft-craft/oreveins/pkg/text"
)

// Sender is whoever issued a command.
type Sender interface {
	Name() string
	SendMessage(msg text.Component) error
	// Player returns the player behind the sender, if there is one.
	Player() (*player.Player, bool)
}

// IsPlayer reports whether s is a connected player.
func IsPlayer(s Sender) bool {
	_, ok := s.Player()
	return ok
}

// ConsoleSender runs commands typed into the server console. Feedback goes
// to the log.
type ConsoleSender struct {
	log *slog.Logger
}

func NewConsoleSender(log *slog.Logger) *ConsoleSender {
	return &ConsoleSender{log: log}
}

func (c *ConsoleSender) Name() string { return "Server" }

func (c *ConsoleSender) SendMessage(msg text.Component) error {
	c.log.Info(msg.PlainText())
	return nil
}

func (c *ConsoleSender) Player() (*player.Player, bool) { return nil, false }

// PlayerSender wraps a connected player.
type PlayerSender struct {
	p *player.Player
}

func NewPlayerSender(p *player.Player) PlayerSender {
	return PlayerSender{p: p}
}

func (s PlayerSender) Name() string { return s.p.Username }

func (s PlayerSender) SendMessage(msg text.Component) error { return s.p.SendMessage(msg) }

func (s PlayerSender) Player() (*player.Player, bool) { return s.p, true }
