package scoreboard

import (
	"fmt"

	"github.com/go-theft-craft/oreveins/internal/server/packet"
	"github.com/go-theft-craft/oreveins/pkg/text"
)

// RenderType selects how the client draws an objective's values in the list.
type RenderType int32

const (
	RenderInteger RenderType = 0
	RenderHearts  RenderType = 1
)

func (r RenderType) String() string {
	switch r {
	case RenderInteger:
		return "integer"
	case RenderHearts:
		return "hearts"
	default:
		return fmt.Sprintf("RenderType(%d)", int32(r))
	}
}

// ParseRenderType accepts the names String returns.
func ParseRenderType(s string) (RenderType, error) {
	switch s {
	case "integer":
		return RenderInteger, nil
	case "hearts":
		return RenderHearts, nil
	}
	return 0, fmt.Errorf("unknown render type %q", s)
}

// DisplaySlot is where an objective is shown. Team-colored sidebar slots
// are not supported.
type DisplaySlot int32

const (
	List      DisplaySlot = 0
	Sidebar   DisplaySlot = 1
	BelowName DisplaySlot = 2
)

var slotNames = map[DisplaySlot]string{
	List:      "list",
	Sidebar:   "sidebar",
	BelowName: "below_name",
}

func (d DisplaySlot) Valid() bool {
	_, ok := slotNames[d]
	return ok
}

func (d DisplaySlot) String() string {
	if name, ok := slotNames[d]; ok {
		return name
	}
	return fmt.Sprintf("DisplaySlot(%d)", int32(d))
}

// ParseDisplaySlot accepts the names String returns.
func ParseDisplaySlot(s string) (DisplaySlot, error) {
	for slot, name := range slotNames {
		if name == s {
			return slot, nil
		}
	}
	return 0, fmt.Errorf("unknown display slot %q", s)
}

// NumberFormat overrides how score values are drawn.
type NumberFormat struct {
	kind    int32
	content text.Component
}

// Blank hides the number.
func Blank() *NumberFormat {
	return &NumberFormat{kind: packet.NumberFormatBlank}
}

// Styled draws the number with the color and decorations of style.
func Styled(style text.Component) *NumberFormat {
	return &NumberFormat{kind: packet.NumberFormatStyled, content: style}
}

// Fixed replaces the number with c.
func Fixed(c text.Component) *NumberFormat {
	return &NumberFormat{kind: packet.NumberFormatFixed, content: c}
}

func (f *NumberFormat) wire() *packet.NumberFormat {
	if f == nil {
		return nil
	}
	return &packet.NumberFormat{Kind: f.kind, Content: f.content}
}
