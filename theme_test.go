package fogrid

import "testing"

func TestThemeByName(t *testing.T) {
	for _, name := range []string{"", "light", "LIGHT"} {
		th, err := ThemeByName(name)
		if err != nil || th.Name != "light" {
			t.Errorf("ThemeByName(%q) = %q, %v", name, th.Name, err)
		}
	}
	if th, err := ThemeByName("Dark"); err != nil || th.Name != "dark" {
		t.Errorf("ThemeByName(Dark) = %q, %v", th.Name, err)
	}
	if _, err := ThemeByName("neon"); err == nil {
		t.Error("expected error for unknown theme")
	}
}

func TestParseThemeColor(t *testing.T) {
	tests := []struct {
		in   string
		want Color
	}{
		{"#FF0000", Color{R: 1, A: 1}},
		{"00ff00", Color{G: 1, A: 1}},
		{"0x0000FF", Color{B: 1, A: 1}},
		{" #ffffff ", Color{R: 1, G: 1, B: 1, A: 1}},
	}
	for _, tt := range tests {
		got, err := ParseThemeColor(tt.in)
		if err != nil {
			t.Errorf("ParseThemeColor(%q): %v", tt.in, err)
			continue
		}
		if !approxEqual(got.R, tt.want.R, 1e-9) || !approxEqual(got.G, tt.want.G, 1e-9) ||
			!approxEqual(got.B, tt.want.B, 1e-9) || got.A != 1 {
			t.Errorf("ParseThemeColor(%q) = %+v, want %+v", tt.in, got, tt.want)
		}
	}
	if _, err := ParseThemeColor("#zzz"); err == nil {
		t.Error("expected error for bad hex")
	}
}

func TestGlowBlendEndpoints(t *testing.T) {
	th := ThemeLight
	near := func(a, b Color) bool {
		return approxEqual(a.R, b.R, 1e-3) && approxEqual(a.G, b.G, 1e-3) && approxEqual(a.B, b.B, 1e-3)
	}
	if got := th.GlowBlend(0); !near(got, th.Glow) {
		t.Errorf("GlowBlend(0) = %+v, want glow %+v", got, th.Glow)
	}
	if got := th.GlowBlend(1); !near(got, th.Background) {
		t.Errorf("GlowBlend(1) = %+v, want background %+v", got, th.Background)
	}
	if got := th.GlowBlend(5); !near(got, th.Background) {
		t.Error("GlowBlend should clamp k to [0,1]")
	}
}
