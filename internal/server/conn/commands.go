package conn

import (
	"strings"

	"github.com/go-theft-craft/oreveins/internal/server/command"
	"github.com/go-theft-craft/oreveins/pkg/text"
)

// maxChatLength is the longest chat line the client may send.
const maxChatLength = 256

// runCommand dispatches a command line without its leading slash. Failures
// are reported to the player by the dispatcher.
func (c *Connection) runCommand(line string) {
	c.log.Info("command", "line", line)
	c.svc.Commands.Handle(c.ctx, command.NewPlayerSender(c.self), line)
}

// handleChat broadcasts a chat line. Lines starting with a slash are run as
// commands, for clients that send them as chat.
func (c *Connection) handleChat(msg string) {
	if strings.HasPrefix(msg, "/") {
		c.runCommand(strings.TrimPrefix(msg, "/"))
		return
	}

	msg = strings.TrimSpace(msg)
	if msg == "" {
		return
	}
	if len(msg) > maxChatLength {
		msg = msg[:maxChatLength]
	}

	c.log.Info("chat", "message", msg)
	c.svc.Players.BroadcastMessage(chatLine(c.self.DisplayName(), msg))
}

// chatLine formats "<name> message" the way vanilla chat does.
func chatLine(name text.Component, msg string) text.Component {
	return text.Translate("chat.type.text", name, text.Text(msg))
}
