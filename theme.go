package fogrid

import (
	"fmt"
	"strings"

	colorful "github.com/lucasb-eyer/go-colorful"
)

// Theme holds the board colours. Fog is always black and is not part of
// the theme.
type Theme struct {
	Name string

	Background      Color
	BackgroundAlpha float64
	Grid            Color
	GridAlpha       float64
	Glow            Color
	// FrameAlpha is the alpha of the thin outline around the hovered cell.
	FrameAlpha float64
	// EmptyGlowAlpha is the glow alpha over a cell without content.
	EmptyGlowAlpha float64
}

// ThemeLight is sand with gold highlights.
var ThemeLight = Theme{
	Name:            "light",
	Background:      mustThemeColor("#F4EDE1"),
	BackgroundAlpha: 1,
	Grid:            mustThemeColor("#C8B79D"),
	GridAlpha:       0.55,
	Glow:            mustThemeColor("#E7B94A"),
	FrameAlpha:      0.75,
	EmptyGlowAlpha:  0.9,
}

// ThemeDark is a faint veil over black with a white glow.
var ThemeDark = Theme{
	Name:            "dark",
	Background:      mustThemeColor("#0B0B0B"),
	BackgroundAlpha: 0.08,
	Grid:            mustThemeColor("#888888"),
	GridAlpha:       0.35,
	Glow:            mustThemeColor("#FFFFFF"),
	FrameAlpha:      0.55,
	EmptyGlowAlpha:  0.85,
}

// ThemeByName returns ThemeLight or ThemeDark.
func ThemeByName(name string) (Theme, error) {
	switch strings.ToLower(name) {
	case "", "light":
		return ThemeLight, nil
	case "dark":
		return ThemeDark, nil
	}
	return Theme{}, fmt.Errorf("fogrid: unknown theme %q", name)
}

// ParseThemeColor parses "#RRGGBB" (or "RRGGBB", or "0xRRGGBB") into an
// opaque Color.
func ParseThemeColor(s string) (Color, error) {
	h := strings.TrimSpace(s)
	h = strings.TrimPrefix(strings.TrimPrefix(h, "0x"), "0X")
	if !strings.HasPrefix(h, "#") {
		h = "#" + h
	}
	c, err := colorful.Hex(h)
	if err != nil {
		return Color{}, fmt.Errorf("fogrid: parse theme color %q: %w", s, err)
	}
	return Color{R: c.R, G: c.G, B: c.B, A: 1}, nil
}

func mustThemeColor(s string) Color {
	c, err := ParseThemeColor(s)
	if err != nil {
		panic(err)
	}
	return c
}

// GlowBlend returns the glow colour moved toward the background by k in
// [0, 1], interpolated in CIE Lab so the halo fades without muddy midtones.
func (t Theme) GlowBlend(k float64) Color {
	k = clamp01(k)
	g := colorful.Color{R: t.Glow.R, G: t.Glow.G, B: t.Glow.B}
	bg := colorful.Color{R: t.Background.R, G: t.Background.G, B: t.Background.B}
	c := g.BlendLab(bg, k).Clamped()
	return Color{R: c.R, G: c.G, B: c.B, A: 1}
}
