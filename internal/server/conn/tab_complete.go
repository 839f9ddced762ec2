package conn

import (
	"strings"

	"github.com/go-theft-craft/oreveins/internal/server/command"
	"github.com/go-theft-craft/oreveins/internal/server/packet"
	"github.com/go-theft-craft/oreveins/internal/server/player"
)

// handleSuggestions answers a CommandSuggestionsRequest.
func (c *Connection) handleSuggestions(req packet.CommandSuggestionsRequest) error {
	start, matches := computeCompletions(req.Text, c.svc.Commands, c.svc.Players, command.NewPlayerSender(c.self))
	return c.writePacket(&packet.CommandSuggestionsResponse{
		TransactionID: req.TransactionID,
		Start:         int32(start),
		Length:        int32(len(req.Text) - start),
		Matches:       matches,
	})
}

// computeCompletions returns where the completed word starts in input and
// the matches for it.
func computeCompletions(input string, d *command.Dispatcher, players *player.Manager, sender command.Sender) (int, []string) {
	if strings.HasPrefix(input, "/") {
		start, matches := d.Complete(sender, input[1:])
		return start + 1, matches
	}
	// No "/" prefix: complete player names for chat mentions.
	start := strings.LastIndex(input, " ") + 1
	return start, matchPlayerNames(input[start:], players)
}

func matchPlayerNames(partial string, players *player.Manager) []string {
	partial = strings.ToLower(partial)
	var matches []string
	players.ForEach(func(p *player.Player) {
		if partial == "" || strings.HasPrefix(strings.ToLower(p.Username), partial) {
			matches = append(matches, p.Username)
		}
	})
	return matches
}
