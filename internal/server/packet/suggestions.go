package packet

import (
	"fmt"
	"io"

	mcnet "github.com/go-theft-craft/oreveins/internal/server/net"
)

// CommandSuggestionsResponse answers a CommandSuggestionsRequest
// (clientbound 0x10). Matches replace Length characters of the input
// starting at Start.
type CommandSuggestionsResponse struct {
	TransactionID int32
	Start         int32
	Length        int32
	Matches       []string
}

func (CommandSuggestionsResponse) PacketID() int32 { return 0x10 }

func (p *CommandSuggestionsResponse) Encode(w io.Writer) error {
	for _, v := range []int32{p.TransactionID, p.Start, p.Length, int32(len(p.Matches))} {
		if _, err := mcnet.WriteVarInt(w, v); err != nil {
			return fmt.Errorf("suggestions header: %w", err)
		}
	}
	for _, m := range p.Matches {
		if _, err := mcnet.WriteString(w, m); err != nil {
			return fmt.Errorf("suggestion %q: %w", m, err)
		}
		// no tooltip
		if err := mcnet.WriteBool(w, false); err != nil {
			return err
		}
	}
	return nil
}
