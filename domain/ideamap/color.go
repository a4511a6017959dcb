package ideamap

import "strings"

// Color is a node's palette tag.
type Color string

const (
	ColorBlue   Color = "blue"
	ColorGreen  Color = "green"
	ColorRed    Color = "red"
	ColorYellow Color = "yellow"
	ColorPurple Color = "purple"

	DefaultColor = ColorBlue
)

// Style is the border/fill pair a color renders with.
type Style struct {
	Border    string `json:"border"`
	Fill      string `json:"fill"`
	ClassName string `json:"class_name"`
}

var palette = map[Color]Style{
	ColorBlue:   {Border: "#3b82f6", Fill: "rgba(30, 58, 138, 0.5)", ClassName: "border-blue-500 bg-blue-900/50"},
	ColorGreen:  {Border: "#22c55e", Fill: "rgba(20, 83, 45, 0.5)", ClassName: "border-green-500 bg-green-900/50"},
	ColorRed:    {Border: "#ef4444", Fill: "rgba(127, 29, 29, 0.5)", ClassName: "border-red-500 bg-red-900/50"},
	ColorYellow: {Border: "#eab308", Fill: "rgba(113, 63, 18, 0.5)", ClassName: "border-yellow-500 bg-yellow-900/50"},
	ColorPurple: {Border: "#a855f7", Fill: "rgba(88, 28, 135, 0.5)", ClassName: "border-purple-500 bg-purple-900/50"},
}

// Palette lists the selectable colors in display order.
func Palette() []Color {
	return []Color{ColorBlue, ColorGreen, ColorRed, ColorYellow, ColorPurple}
}

// ParseColor accepts a tag ("green") or a stored class string
// ("border-green-500 bg-green-900/50"). Anything else is the default color.
func ParseColor(raw string) Color {
	raw = strings.TrimSpace(strings.ToLower(raw))
	if _, ok := palette[Color(raw)]; ok {
		return Color(raw)
	}
	for c, s := range palette {
		if s.ClassName == raw {
			return c
		}
	}
	return DefaultColor
}

// Valid reports whether c is a palette member.
func (c Color) Valid() bool {
	_, ok := palette[c]
	return ok
}

// Style returns the rendering pair, falling back to the default color.
func (c Color) Style() Style {
	if s, ok := palette[c]; ok {
		return s
	}
	return palette[DefaultColor]
}

func (c Color) String() string { return string(c) }
