package text

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/google/uuid"
)

// HoverAction names the kind of tooltip a HoverEvent shows.
type HoverAction string

const (
	HoverShowText   HoverAction = "show_text"
	HoverShowItem   HoverAction = "show_item"
	HoverShowEntity HoverAction = "show_entity"
)

var ErrUnknownHoverAction = errors.New("unknown hover action")

// HoverEvent is a tooltip attached to a component. Exactly one of the
// payload fields is set, matching Action.
type HoverEvent struct {
	Action HoverAction
	Text   string
	Item   *HoverItem
	Entity *HoverEntity
}

// HoverItem describes an item stack tooltip.
type HoverItem struct {
	ID    string `json:"id"`
	Count *int32 `json:"count,omitempty"`
	// Tag is the item's NBT in SNBT form.
	Tag string `json:"tag"`
}

// HoverEntity describes an entity tooltip.
type HoverEntity struct {
	ID   uuid.UUID  `json:"id"`
	Type string     `json:"type,omitempty"`
	Name *Component `json:"name,omitempty"`
}

func ShowText(s string) HoverEvent {
	return HoverEvent{Action: HoverShowText, Text: s}
}

// ShowItem builds an item tooltip. A count of 0 leaves the count unset.
func ShowItem(id string, count int32, tag string) HoverEvent {
	item := &HoverItem{ID: id, Tag: tag}
	if count != 0 {
		item.Count = &count
	}
	return HoverEvent{Action: HoverShowItem, Item: item}
}

// ShowEntity builds an entity tooltip. Empty kind and nil name are omitted.
func ShowEntity(id uuid.UUID, kind string, name *Component) HoverEvent {
	return HoverEvent{Action: HoverShowEntity, Entity: &HoverEntity{ID: id, Type: kind, Name: name}}
}

type hoverWire struct {
	Action   HoverAction     `json:"action"`
	Contents json.RawMessage `json:"contents"`
}

func (h HoverEvent) MarshalJSON() ([]byte, error) {
	var contents any
	switch h.Action {
	case HoverShowText:
		contents = h.Text
	case HoverShowItem:
		if h.Item == nil {
			return nil, fmt.Errorf("hover %s: missing item", h.Action)
		}
		contents = h.Item
	case HoverShowEntity:
		if h.Entity == nil {
			return nil, fmt.Errorf("hover %s: missing entity", h.Action)
		}
		contents = h.Entity
	default:
		return nil, fmt.Errorf("%w %q", ErrUnknownHoverAction, h.Action)
	}
	raw, err := json.Marshal(contents)
	if err != nil {
		return nil, err
	}
	return json.Marshal(hoverWire{Action: h.Action, Contents: raw})
}

func (h *HoverEvent) UnmarshalJSON(data []byte) error {
	var w hoverWire
	if err := json.Unmarshal(data, &w); err != nil {
		return err
	}
	out := HoverEvent{Action: w.Action}
	switch w.Action {
	case HoverShowText:
		if err := json.Unmarshal(w.Contents, &out.Text); err != nil {
			return fmt.Errorf("hover %s contents: %w", w.Action, err)
		}
	case HoverShowItem:
		out.Item = new(HoverItem)
		if err := json.Unmarshal(w.Contents, out.Item); err != nil {
			return fmt.Errorf("hover %s contents: %w", w.Action, err)
		}
	case HoverShowEntity:
		out.Entity = new(HoverEntity)
		if err := json.Unmarshal(w.Contents, out.Entity); err != nil {
			return fmt.Errorf("hover %s contents: %w", w.Action, err)
		}
	default:
		return fmt.Errorf("%w %q", ErrUnknownHoverAction, w.Action)
	}
	*h = out
	return nil
}
