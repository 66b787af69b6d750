// Package config loads the formatting knobs the engine deliberately keeps out of its own scope:
// line length and indent width. See [github.com/teleivo/wadler/internal/doc.FormattingConfig]'s
// doc comment, which calls these "the caller's responsibility".
package config

import (
	"errors"
	"fmt"
	"io"
	"os"

	"gopkg.in/yaml.v3"
)

// Config holds the formatting knobs read from a .wadler.yml file.
type Config struct {
	LineLength  int `yaml:"lineLength"`
	IndentWidth int `yaml:"indentWidth"`
}

// Default returns the configuration used when no config file is present.
func Default() Config {
	return Config{LineLength: 80, IndentWidth: 2}
}

// Load reads a YAML configuration from r, starting from [Default] so a file that only sets one
// field leaves the other at its default rather than zeroing it.
func Load(r io.Reader) (Config, error) {
	cfg := Default()
	dec := yaml.NewDecoder(r)
	err := dec.Decode(&cfg)
	if errors.Is(err, io.EOF) { // empty file
		return cfg, nil
	}
	if err != nil {
		return cfg, fmt.Errorf("decoding config: %w", err)
	}
	if cfg.LineLength <= 0 {
		return cfg, fmt.Errorf("lineLength must be positive, got %d", cfg.LineLength)
	}
	if cfg.IndentWidth <= 0 {
		return cfg, fmt.Errorf("indentWidth must be positive, got %d", cfg.IndentWidth)
	}
	return cfg, nil
}

// LoadFile reads the configuration from path. A missing file is not an error: it yields
// [Default].
func LoadFile(path string) (Config, error) {
	f, err := os.Open(path)
	if errors.Is(err, os.ErrNotExist) {
		return Default(), nil
	}
	if err != nil {
		return Config{}, err
	}
	defer f.Close()
	return Load(f)
}
