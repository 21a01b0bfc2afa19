// Package monoconfig loads monoc.yaml, the CLI's optional configuration
// file. Nothing in internal/mono reads from disk; this package exists
// solely to translate a YAML file into CLI-layer knobs (color, output
// format). It sets no mono.Options.
package monoconfig

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Config is the top-level shape of monoc.yaml.
type Config struct {
	// Format selects the run report's rendering: "text" (default) or
	// "yaml".
	Format string `yaml:"format,omitempty"`

	// Color forces colored diagnostic output on or off; nil lets the
	// CLI decide from the terminal (see cmd/monoc's isatty check).
	Color *bool `yaml:"color,omitempty"`
}

// Load reads and parses path.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config %s: %w", path, err)
	}
	return Parse(data, path)
}

// Parse parses YAML content from bytes. path is used only for error
// messages.
func Parse(data []byte, path string) (*Config, error) {
	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parsing %s: %w", path, err)
	}
	cfg.setDefaults()
	return &cfg, nil
}

func (c *Config) setDefaults() {
	if c.Format == "" {
		c.Format = "text"
	}
}
