// Package persona loads the assistant's personality definition.
//
// The personality lives in a small YAML document so operators can reshape who
// Riko is without recompiling. A compiled-in default reproduces the stock
// Riko persona; Load falls back to it when no file is present.
package persona

import (
	_ "embed"
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

//go:embed default.yaml
var defaultYAML []byte

// Persona describes the assistant: identity, sampling parameters and the
// system prompt sent as turn zero of every completion request.
type Persona struct {
	// Name is the assistant's display name, used as the message sender
	// label and in the terminal prompt.
	Name string `yaml:"name"`

	// Traits are display-only personality sliders in [0,1], shown by front
	// ends that have somewhere to put them.
	Traits []Trait `yaml:"traits"`

	// Temperature is the sampling temperature for completion requests.
	Temperature float64 `yaml:"temperature"`

	// MaxTokens caps the length of each generated reply.
	MaxTokens int `yaml:"maxTokens"`

	// System is the personality prompt body. The user's name, when known,
	// is appended as extra context at prompt-build time.
	System string `yaml:"system"`
}

// Trait is one named personality slider.
type Trait struct {
	Name  string  `yaml:"name"`
	Value float64 `yaml:"value"`
}

// Default returns the compiled-in Riko persona.
func Default() *Persona {
	p, err := Parse(defaultYAML)
	if err != nil {
		// The embedded document is validated by tests; reaching this means
		// the binary itself is broken.
		panic(fmt.Sprintf("persona: embedded default invalid: %v", err))
	}
	return p
}

// Load reads and parses the persona document at path. A missing file yields
// the default persona; a present-but-invalid file is an error so a typo does
// not silently change who the assistant is.
func Load(path string) (*Persona, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return Default(), nil
		}
		return nil, fmt.Errorf("persona: read %s: %w", path, err)
	}
	return Parse(data)
}

// Parse decodes a persona YAML document and validates it.
func Parse(data []byte) (*Persona, error) {
	var p Persona
	if err := yaml.Unmarshal(data, &p); err != nil {
		return nil, fmt.Errorf("persona: parse: %w", err)
	}
	if err := Validate(&p); err != nil {
		return nil, err
	}
	return &p, nil
}

// Validate checks a persona for structural correctness.
func Validate(p *Persona) error {
	if p == nil {
		return fmt.Errorf("persona: must not be nil")
	}
	if strings.TrimSpace(p.Name) == "" {
		return fmt.Errorf("persona: name must not be empty")
	}
	if strings.TrimSpace(p.System) == "" {
		return fmt.Errorf("persona: system prompt must not be empty")
	}
	if p.Temperature < 0 || p.Temperature > 2.0 {
		return fmt.Errorf("persona: temperature %.2f is outside valid range [0.0, 2.0]", p.Temperature)
	}
	if p.MaxTokens <= 0 {
		return fmt.Errorf("persona: maxTokens must be > 0")
	}
	for i, t := range p.Traits {
		if strings.TrimSpace(t.Name) == "" {
			return fmt.Errorf("persona: traits[%d]: name must not be empty", i)
		}
		if t.Value < 0 || t.Value > 1 {
			return fmt.Errorf("persona: traits[%d] (%q): value %.2f is outside [0.0, 1.0]", i, t.Name, t.Value)
		}
	}
	return nil
}

// Prompt renders the system prompt, appending the user's name as context
// when it is known.
func (p *Persona) Prompt(userName string) string {
	prompt := strings.TrimRight(p.System, "\n")
	if userName != "" {
		prompt += fmt.Sprintf("\n\nThe user's name is %s.", userName)
	}
	return prompt
}
