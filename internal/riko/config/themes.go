package config

// Palette is one theme's color set, hex-encoded.
type Palette struct {
	Background string
	Sidebar    string
	Text       string
	Accent     string
}

// themes is the fixed preset palette table. "Custom" resolves through the
// document's custom_colors instead.
var themes = map[string]Palette{
	"Dark":             {"#1e1e2e", "#181825", "#cdd6f4", "#89b4fa"},
	"Light":            {"#eff1f5", "#e6e9ef", "#4c4f69", "#1e66f5"},
	"Catppuccin Mocha": {"#1e1e2e", "#181825", "#cdd6f4", "#cba6f7"},
	"Catppuccin Latte": {"#eff1f5", "#e6e9ef", "#4c4f69", "#8839ef"},
	"Nord":             {"#2e3440", "#3b4252", "#d8dee9", "#88c0d0"},
	"Dracula":          {"#282a36", "#21222c", "#f8f8f2", "#bd93f9"},
}

// ThemeNames returns the selectable theme names in presentation order.
func ThemeNames() []string {
	return []string{"Dark", "Light", "Catppuccin Mocha", "Catppuccin Latte", "Nord", "Dracula", "Custom"}
}

// Theme resolves the active palette for cfg. The "Custom" theme reads the
// document's custom_colors with the Dark palette filling any gaps; unknown
// theme names also fall back to Dark.
func (c *Config) Theme() Palette {
	if c.UI.ThemeName == "Custom" {
		dark := themes["Dark"]
		cc := c.UI.CustomColors
		return Palette{
			Background: orColor(cc["background"], dark.Background),
			Sidebar:    orColor(cc["sidebar"], dark.Sidebar),
			Text:       orColor(cc["text"], dark.Text),
			Accent:     orColor(cc["accent"], dark.Accent),
		}
	}
	if p, ok := themes[c.UI.ThemeName]; ok {
		return p
	}
	return themes["Dark"]
}

func orColor(v, fallback string) string {
	if v != "" {
		return v
	}
	return fallback
}
