package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	toml "github.com/pelletier/go-toml/v2"
	"gopkg.in/yaml.v3"
)

// Config holds runtime parameters for the daemon.
// Zero values mean "unspecified" and will be replaced by defaults in main.
type Config struct {
	Addr string `json:"addr" yaml:"addr" toml:"addr"`
	// Authorization granted at startup: none, when-in-use or always.
	Authorization string `json:"authorization" yaml:"authorization" toml:"authorization"`
	// DisablePrompts refuses under-authorized requests instead of prompting.
	DisablePrompts bool `json:"disable_prompts" yaml:"disable_prompts" toml:"disable_prompts"`
	// TickMS is the simulated provider emission interval in milliseconds.
	TickMS int `json:"tick_ms" yaml:"tick_ms" toml:"tick_ms"`
	// StartLat/StartLon seed the simulated walk.
	StartLat float64 `json:"start_lat" yaml:"start_lat" toml:"start_lat"`
	StartLon float64 `json:"start_lon" yaml:"start_lon" toml:"start_lon"`
	// LogLevel: debug, info, warn or error.
	LogLevel string `json:"log_level" yaml:"log_level" toml:"log_level"`
	// CORS (opt-in).
	CORSEnabled        bool     `json:"cors_enabled" yaml:"cors_enabled" toml:"cors_enabled"`
	CORSAllowedOrigins []string `json:"cors_allowed_origins" yaml:"cors_allowed_origins" toml:"cors_allowed_origins"`
}

// Load reads a configuration file based on its extension.
// Supports: .yaml/.yml, .json, .toml
func Load(path string) (Config, error) {
	var cfg Config
	if path == "" {
		return cfg, fmt.Errorf("empty config path")
	}
	b, err := os.ReadFile(path)
	if err != nil {
		return cfg, err
	}
	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".yaml", ".yml":
		if err := yaml.Unmarshal(b, &cfg); err != nil {
			return cfg, err
		}
	case ".json":
		if err := json.Unmarshal(b, &cfg); err != nil {
			return cfg, err
		}
	case ".toml":
		if err := toml.Unmarshal(b, &cfg); err != nil {
			return cfg, err
		}
	default:
		return cfg, fmt.Errorf("unsupported config extension: %s", ext)
	}
	return cfg, nil
}
