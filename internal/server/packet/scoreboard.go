package packet

import (
	"fmt"
	"io"

	"github.com/go-theft-craft/oreveins/internal/server/nbt"
	mcnet "github.com/go-theft-craft/oreveins/internal/server/net"
	"github.com/go-theft-craft/oreveins/pkg/text"
)

// ObjectiveMode is the action of an UpdateObjectives packet.
type ObjectiveMode int8

const (
	ObjectiveAdd    ObjectiveMode = 0
	ObjectiveRemove ObjectiveMode = 1
	ObjectiveUpdate ObjectiveMode = 2
)

// NumberFormat kinds on the wire.
const (
	NumberFormatBlank  int32 = 0
	NumberFormatStyled int32 = 1
	NumberFormatFixed  int32 = 2
)

// NumberFormat controls how a score value is drawn. Content is the style
// carrier for styled formats and the replacement text for fixed ones; blank
// formats ignore it.
type NumberFormat struct {
	Kind    int32
	Content text.Component
}

func writeNumberFormat(w io.Writer, f *NumberFormat) error {
	if err := mcnet.WriteBool(w, f != nil); err != nil {
		return err
	}
	if f == nil {
		return nil
	}
	if _, err := mcnet.WriteVarInt(w, f.Kind); err != nil {
		return err
	}
	switch f.Kind {
	case NumberFormatBlank:
		return nil
	case NumberFormatStyled, NumberFormatFixed:
		return nbt.WriteJSON(w, f.Content)
	default:
		return fmt.Errorf("unknown number format %d", f.Kind)
	}
}

// UpdateObjectives creates, removes or renames a scoreboard objective
// (clientbound 0x5C). Display fields are only written for add and update.
type UpdateObjectives struct {
	Name         string
	Mode         ObjectiveMode
	DisplayName  text.Component
	RenderType   int32
	NumberFormat *NumberFormat
}

func (UpdateObjectives) PacketID() int32 { return 0x5C }

func (p *UpdateObjectives) Encode(w io.Writer) error {
	if _, err := mcnet.WriteString(w, p.Name); err != nil {
		return fmt.Errorf("objective name: %w", err)
	}
	if err := mcnet.WriteField(w, "i8", int8(p.Mode)); err != nil {
		return fmt.Errorf("objective mode: %w", err)
	}
	if p.Mode == ObjectiveRemove {
		return nil
	}
	if err := nbt.WriteJSON(w, p.DisplayName); err != nil {
		return fmt.Errorf("objective display name: %w", err)
	}
	if _, err := mcnet.WriteVarInt(w, p.RenderType); err != nil {
		return fmt.Errorf("objective render type: %w", err)
	}
	if err := writeNumberFormat(w, p.NumberFormat); err != nil {
		return fmt.Errorf("objective number format: %w", err)
	}
	return nil
}

// DisplayObjective shows an objective in a display slot (clientbound 0x57).
// An empty ScoreName clears the slot.
type DisplayObjective struct {
	Position  int32  `mc:"varint"`
	ScoreName string `mc:"string"`
}

func (DisplayObjective) PacketID() int32 { return 0x57 }

// UpdateScore sets an entity's score in an objective (clientbound 0x5F).
type UpdateScore struct {
	EntityName    string
	ObjectiveName string
	Value         int32
	DisplayName   *text.Component
	NumberFormat  *NumberFormat
}

func (UpdateScore) PacketID() int32 { return 0x5F }

func (p *UpdateScore) Encode(w io.Writer) error {
	if _, err := mcnet.WriteString(w, p.EntityName); err != nil {
		return fmt.Errorf("score entity: %w", err)
	}
	if _, err := mcnet.WriteString(w, p.ObjectiveName); err != nil {
		return fmt.Errorf("score objective: %w", err)
	}
	if _, err := mcnet.WriteVarInt(w, p.Value); err != nil {
		return fmt.Errorf("score value: %w", err)
	}
	if err := mcnet.WriteBool(w, p.DisplayName != nil); err != nil {
		return fmt.Errorf("score display name: %w", err)
	}
	if p.DisplayName != nil {
		if err := nbt.WriteJSON(w, *p.DisplayName); err != nil {
			return fmt.Errorf("score display name: %w", err)
		}
	}
	if err := writeNumberFormat(w, p.NumberFormat); err != nil {
		return fmt.Errorf("score number format: %w", err)
	}
	return nil
}

// ResetScore removes an entity's score from one objective, or from all of
// them when ObjectiveName is empty (clientbound 0x44).
type ResetScore struct {
	EntityName    string `mc:"string"`
	ObjectiveName string `mc:"optstring"`
}

func (ResetScore) PacketID() int32 { return 0x44 }
