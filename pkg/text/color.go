package text

import (
	"fmt"
	"strconv"
)

// Color is a named chat color or a "#RRGGBB" hex color.
type Color string

const (
	Black       Color = "black"
	DarkBlue    Color = "dark_blue"
	DarkGreen   Color = "dark_green"
	DarkAqua    Color = "dark_aqua"
	DarkRed     Color = "dark_red"
	DarkPurple  Color = "dark_purple"
	Gold        Color = "gold"
	Gray        Color = "gray"
	DarkGray    Color = "dark_gray"
	Blue        Color = "blue"
	Green       Color = "green"
	Aqua        Color = "aqua"
	Red         Color = "red"
	LightPurple Color = "light_purple"
	Yellow      Color = "yellow"
	White       Color = "white"
)

var namedColors = map[Color]struct{}{
	Black: {}, DarkBlue: {}, DarkGreen: {}, DarkAqua: {},
	DarkRed: {}, DarkPurple: {}, Gold: {}, Gray: {},
	DarkGray: {}, Blue: {}, Green: {}, Aqua: {},
	Red: {}, LightPurple: {}, Yellow: {}, White: {},
}

// Hex returns an RGB color.
func Hex(r, g, b uint8) Color {
	return Color(fmt.Sprintf("#%02X%02X%02X", r, g, b))
}

// Valid reports whether c is a named color or a well-formed hex color.
func (c Color) Valid() bool {
	if _, ok := namedColors[c]; ok {
		return true
	}
	_, ok := c.rgb()
	return ok
}

// RGB returns the components of a hex color.
func (c Color) RGB() (r, g, b uint8, ok bool) {
	v, ok := c.rgb()
	if !ok {
		return 0, 0, 0, false
	}
	return uint8(v >> 16), uint8(v >> 8), uint8(v), true
}

func (c Color) rgb() (uint32, bool) {
	s := string(c)
	if len(s) != 7 || s[0] != '#' {
		return 0, false
	}
	v, err := strconv.ParseUint(s[1:], 16, 32)
	if err != nil {
		return 0, false
	}
	return uint32(v), true
}

// ParseColor validates s as a color.
func ParseColor(s string) (Color, error) {
	c := Color(s)
	if !c.Valid() {
		return "", fmt.Errorf("invalid color %q", s)
	}
	return c, nil
}
