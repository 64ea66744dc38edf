package config

import (
	"os"
	"path/filepath"
	"testing"
)

func writeConfig(t *testing.T, doc string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.json")
	if err := os.WriteFile(path, []byte(doc), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestLoadMissingFile(t *testing.T) {
	cfg := Load(filepath.Join(t.TempDir(), "config.json"))
	if cfg.Language != "en" || cfg.UI.ThemeName != "Dark" || cfg.Voice.TTSEnabled {
		t.Errorf("expected defaults, got %+v", cfg)
	}
}

func TestLoadValidDocument(t *testing.T) {
	path := writeConfig(t, `{
		"language": "ja",
		"ui": {"theme_name": "Nord"},
		"voice": {"tts_enabled": true}
	}`)

	cfg := Load(path)
	if cfg.Language != "ja" {
		t.Errorf("language = %q, want ja", cfg.Language)
	}
	if cfg.UI.ThemeName != "Nord" {
		t.Errorf("theme = %q, want Nord", cfg.UI.ThemeName)
	}
	if !cfg.Voice.TTSEnabled {
		t.Error("tts_enabled should be true")
	}
}

func TestLoadSchemaViolationFallsBack(t *testing.T) {
	tests := []struct {
		name string
		doc  string
	}{
		{"bad language code", `{"language": "english", "ui": {"theme_name": "Dark"}, "voice": {"tts_enabled": false}}`},
		{"wrong type", `{"language": "en", "ui": {"theme_name": "Dark"}, "voice": {"tts_enabled": "yes"}}`},
		{"unknown top-level key", `{"language": "en", "ui": {"theme_name": "Dark"}, "voice": {"tts_enabled": false}, "extra": 1}`},
		{"not json", `{broken`},
		{"not an object", `[1, 2, 3]`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Load(writeConfig(t, tt.doc))
			if cfg.Language != "en" || cfg.UI.ThemeName != "Dark" || cfg.Voice.TTSEnabled {
				t.Errorf("expected defaults for invalid document, got %+v", cfg)
			}
		})
	}
}

func TestSaveLoadRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.json")

	cfg := Default()
	cfg.Language = "fr"
	cfg.UI.ThemeName = "Custom"
	cfg.UI.CustomColors = map[string]string{"background": "#000000"}
	cfg.Voice.TTSEnabled = true
	Save(path, cfg)

	got := Load(path)
	if got.Language != "fr" || got.UI.ThemeName != "Custom" || !got.Voice.TTSEnabled {
		t.Errorf("round trip lost data: %+v", got)
	}
	if got.UI.CustomColors["background"] != "#000000" {
		t.Errorf("custom colors lost: %+v", got.UI.CustomColors)
	}
}

func TestLanguageName(t *testing.T) {
	tests := []struct {
		code, want string
	}{
		{"en", "English"},
		{"ja", "Japanese"},
		{"hi", "Hindi"},
		{"xx", "English"},
		{"", "English"},
	}
	for _, tt := range tests {
		if got := LanguageName(tt.code); got != tt.want {
			t.Errorf("LanguageName(%q) = %q, want %q", tt.code, got, tt.want)
		}
	}
}

func TestSpeechTag(t *testing.T) {
	tests := []struct {
		code, want string
	}{
		{"en", "en-US"},
		{"pt", "pt-BR"},
		{"zh", "zh-CN"},
		{"xx", "en-US"},
	}
	for _, tt := range tests {
		if got := SpeechTag(tt.code); got != tt.want {
			t.Errorf("SpeechTag(%q) = %q, want %q", tt.code, got, tt.want)
		}
	}
}

func TestReplyInstruction(t *testing.T) {
	tests := []struct {
		code, want string
	}{
		{"en", ""},
		{"", ""},
		{"es", "[Respond in Spanish] "},
		{"ja", "[Respond in Japanese] "},
		{"xx", "[Respond in English] "},
	}
	for _, tt := range tests {
		if got := ReplyInstruction(tt.code); got != tt.want {
			t.Errorf("ReplyInstruction(%q) = %q, want %q", tt.code, got, tt.want)
		}
	}
}

func TestTheme(t *testing.T) {
	cfg := Default()
	if got := cfg.Theme(); got.Background != "#1e1e2e" {
		t.Errorf("Dark background = %q", got.Background)
	}

	cfg.UI.ThemeName = "Dracula"
	if got := cfg.Theme(); got.Accent != "#bd93f9" {
		t.Errorf("Dracula accent = %q", got.Accent)
	}

	cfg.UI.ThemeName = "No Such Theme"
	if got := cfg.Theme(); got.Background != "#1e1e2e" {
		t.Error("unknown theme should fall back to Dark")
	}
}

func TestThemeCustom(t *testing.T) {
	cfg := Default()
	cfg.UI.ThemeName = "Custom"
	cfg.UI.CustomColors = map[string]string{
		"background": "#101010",
		"accent":     "#ff00ff",
	}

	got := cfg.Theme()
	if got.Background != "#101010" || got.Accent != "#ff00ff" {
		t.Errorf("custom colors not applied: %+v", got)
	}
	// Unset slots fall back to the Dark palette.
	if got.Text != "#cdd6f4" || got.Sidebar != "#181825" {
		t.Errorf("missing custom slots should fall back to Dark: %+v", got)
	}
}

func TestThemeNamesEndWithCustom(t *testing.T) {
	names := ThemeNames()
	if len(names) == 0 || names[len(names)-1] != "Custom" {
		t.Errorf("ThemeNames() = %v, want Custom last", names)
	}
}
