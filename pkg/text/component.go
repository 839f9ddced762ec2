// Package text models the JSON chat components shown in chat, titles and
// scoreboards.
package text

import (
	"encoding/json"
	"strings"
)

// Component is a chat component. The zero value is an empty text component.
//
// Builder methods return a modified copy and never mutate the receiver, so a
// base component can be shared between goroutines and extended freely.
type Component struct {
	Text          string      `json:"text"`
	Translate     string      `json:"translate,omitempty"`
	With          []Component `json:"with,omitempty"`
	Color         Color       `json:"color,omitempty"`
	Bold          *bool       `json:"bold,omitempty"`
	Italic        *bool       `json:"italic,omitempty"`
	Underlined    *bool       `json:"underlined,omitempty"`
	Strikethrough *bool       `json:"strikethrough,omitempty"`
	Obfuscated    *bool       `json:"obfuscated,omitempty"`
	Insertion     string      `json:"insertion,omitempty"`
	ClickEvent    *ClickEvent `json:"clickEvent,omitempty"`
	HoverEvent    *HoverEvent `json:"hoverEvent,omitempty"`
	Extra         []Component `json:"extra,omitempty"`
}

// Text returns a literal text component.
func Text(s string) Component {
	return Component{Text: s}
}

// Translate returns a translatable component with the given arguments.
func Translate(key string, with ...Component) Component {
	return Component{Translate: key, With: with}
}

func (c Component) WithColor(color Color) Component {
	c.Color = color
	return c
}

func (c Component) WithBold() Component {
	c.Bold = ptr(true)
	return c
}

func (c Component) WithItalic() Component {
	c.Italic = ptr(true)
	return c
}

func (c Component) WithUnderlined() Component {
	c.Underlined = ptr(true)
	return c
}

func (c Component) WithStrikethrough() Component {
	c.Strikethrough = ptr(true)
	return c
}

func (c Component) WithObfuscated() Component {
	c.Obfuscated = ptr(true)
	return c
}

func (c Component) WithHover(h HoverEvent) Component {
	c.HoverEvent = &h
	return c
}

func (c Component) WithClick(e ClickEvent) Component {
	c.ClickEvent = &e
	return c
}

// WithInsertion sets the text inserted into the chat box on shift-click.
func (c Component) WithInsertion(s string) Component {
	c.Insertion = s
	return c
}

// Append adds children after the component's own text.
func (c Component) Append(children ...Component) Component {
	extra := make([]Component, 0, len(c.Extra)+len(children))
	extra = append(extra, c.Extra...)
	c.Extra = append(extra, children...)
	return c
}

// PlainText flattens the component tree into unstyled text. Translatable
// components render as their key followed by their arguments.
func (c Component) PlainText() string {
	var sb strings.Builder
	c.writePlain(&sb)
	return sb.String()
}

func (c Component) writePlain(sb *strings.Builder) {
	sb.WriteString(c.Text)
	if c.Translate != "" {
		sb.WriteString(c.Translate)
		for _, w := range c.With {
			sb.WriteByte(' ')
			w.writePlain(sb)
		}
	}
	for _, e := range c.Extra {
		e.writePlain(sb)
	}
}

// JSON encodes the component as it goes on the wire.
func (c Component) JSON() string {
	// Every field is a string, bool, slice or pointer of the same, so
	// encoding cannot fail.
	b, _ := json.Marshal(c)
	return string(b)
}

// Parse decodes a JSON component.
func Parse(data []byte) (Component, error) {
	var c Component
	err := json.Unmarshal(data, &c)
	return c, err
}

func ptr[T any](v T) *T { return &v }
