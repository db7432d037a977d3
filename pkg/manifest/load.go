package manifest

import (
	"bytes"
	"fmt"
	"os"

	toml "github.com/pelletier/go-toml/v2"
)

// DefaultPrefix is used when neither the manifest nor the environment sets one.
const DefaultPrefix = "http://*:5678"

// Load reads, decodes and validates the manifest at path.
func Load(path string) (Config, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return Config{}, err
	}
	return Parse(b)
}

// Parse decodes and validates a manifest document. Unknown keys are rejected.
func Parse(b []byte) (Config, error) {
	var cfg Config
	dec := toml.NewDecoder(bytes.NewReader(b))
	dec.DisallowUnknownFields()
	if err := dec.Decode(&cfg); err != nil {
		return Config{}, fmt.Errorf("decode manifest: %w", err)
	}
	if cfg.Server.Prefix == "" {
		cfg.Server.Prefix = DefaultPrefix
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}
