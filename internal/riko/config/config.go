// Package config loads and saves the runtime configuration document
// (config.json): interface language, UI theme and voice switches.
//
// The document is validated against an embedded JSON Schema on load; any
// read, parse or validation failure degrades to the built-in defaults so a
// hand-edited file can never keep the assistant from starting.
package config

import (
	"bytes"
	"encoding/json"
	_ "embed"
	"fmt"
	"log/slog"
	"os"

	"github.com/santhosh-tekuri/jsonschema/v5"
)

//go:embed schema.json
var schemaJSON string

var schema = jsonschema.MustCompileString("config.schema.json", schemaJSON)

// Config is the runtime configuration document.
type Config struct {
	// Language is a two-letter interface language code (see Languages).
	Language string `json:"language"`
	UI       UI     `json:"ui"`
	Voice    Voice  `json:"voice"`
}

// UI holds presentation settings. ThemeName selects one of the preset
// palettes; CustomColors is consulted only when ThemeName is "Custom".
type UI struct {
	ThemeName    string            `json:"theme_name"`
	CustomColors map[string]string `json:"custom_colors,omitempty"`
}

// Voice holds voice feature switches.
type Voice struct {
	TTSEnabled bool `json:"tts_enabled"`
}

// Default returns the configuration used when no valid document exists.
func Default() *Config {
	return &Config{
		Language: "en",
		UI:       UI{ThemeName: "Dark"},
		Voice:    Voice{TTSEnabled: false},
	}
}

// Load reads the configuration document at path, falling back to Default on
// any failure. A schema violation is logged so the operator can fix the file,
// but never blocks startup.
func Load(path string) *Config {
	data, err := os.ReadFile(path)
	if err != nil {
		if !os.IsNotExist(err) {
			slog.Warn("config: read", "path", path, "err", err)
		}
		return Default()
	}

	if err := validate(data); err != nil {
		slog.Warn("config: invalid document, using defaults", "path", path, "err", err)
		return Default()
	}

	cfg := Default()
	if err := json.Unmarshal(data, cfg); err != nil {
		slog.Warn("config: parse, using defaults", "path", path, "err", err)
		return Default()
	}
	return cfg
}

// Save overwrites the configuration document. Failures are logged, never
// returned, matching the store's persistence policy.
func Save(path string, cfg *Config) {
	data, err := json.MarshalIndent(cfg, "", "  ")
	if err != nil {
		slog.Error("config: marshal", "err", err)
		return
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		slog.Error("config: write", "path", path, "err", err)
	}
}

// validate checks raw JSON against the embedded schema.
func validate(data []byte) error {
	var doc any
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()
	if err := dec.Decode(&doc); err != nil {
		return fmt.Errorf("config: decode: %w", err)
	}
	if err := schema.Validate(doc); err != nil {
		return fmt.Errorf("config: schema: %w", err)
	}
	return nil
}
