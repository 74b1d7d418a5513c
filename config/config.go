package config

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
	"gopkg.in/yaml.v3"
)

// Config is the root configuration structure.
type Config struct {
	History HistoryConfig `json:"history" yaml:"history" toml:"history"`
	Render  RenderConfig  `json:"render" yaml:"render" toml:"render"`
	Watch   WatchConfig   `json:"watch" yaml:"watch" toml:"watch"`
}

// HistoryConfig holds repository history reading options.
type HistoryConfig struct {
	Backend      string `json:"backend" yaml:"backend" toml:"backend"`                // "go-git" or "git"
	Branch       string `json:"branch" yaml:"branch" toml:"branch"`                   // Default: HEAD
	All          bool   `json:"all" yaml:"all" toml:"all"`                            // Walk every reference
	RenameDetect string `json:"renameDetect" yaml:"renameDetect" toml:"renameDetect"` // off, simple, aggressive
	Glob         bool   `json:"glob" yaml:"glob" toml:"glob"`                         // Treat filename as a glob
}

// RenderConfig holds graph renderer options.
type RenderConfig struct {
	VisualizerPath   string `json:"visualizerPath" yaml:"visualizerPath" toml:"visualizerPath"`
	Format           string `json:"format" yaml:"format" toml:"format"`                               // Default: png
	IntermediatePath string `json:"intermediatePath" yaml:"intermediatePath" toml:"intermediatePath"` // Fixed DOT file; empty uses a temp file
	KeepIntermediate bool   `json:"keepIntermediate" yaml:"keepIntermediate" toml:"keepIntermediate"`
	TimeoutSeconds   int    `json:"timeoutSeconds" yaml:"timeoutSeconds" toml:"timeoutSeconds"` // 0 waits indefinitely
}

// Timeout returns the renderer timeout as a duration.
func (c RenderConfig) Timeout() time.Duration {
	if c.TimeoutSeconds <= 0 {
		return 0
	}
	return time.Duration(c.TimeoutSeconds) * time.Second
}

// WatchConfig holds watch mode options.
type WatchConfig struct {
	DebounceMs int `json:"debounceMs" yaml:"debounceMs" toml:"debounceMs"`
}

// Debounce returns the quiet period after the last repository change
// before the graph is re-rendered.
func (c WatchConfig) Debounce() time.Duration {
	if c.DebounceMs <= 0 {
		return 0
	}
	return time.Duration(c.DebounceMs) * time.Millisecond
}

// DefaultConfig returns a configuration with default values.
func DefaultConfig() *Config {
	return &Config{
		History: HistoryConfig{
			Backend:      "go-git",
			RenameDetect: "off",
		},
		Render: RenderConfig{
			Format: "png",
		},
		Watch: WatchConfig{
			DebounceMs: 300,
		},
	}
}

// configBaseName is the file name searched for when no path is given.
const configBaseName = ".commitgraph"

var configExtensions = []string{".json", ".yaml", ".yml", ".toml"}

// LoadConfig loads configuration from a file, merging with defaults.
// The format is chosen by file extension (.json, .yaml/.yml, .toml).
// An empty path searches the working and home directories and falls back
// to defaults when nothing is found; an explicit path must be readable.
func LoadConfig(path string) (*Config, error) {
	cfg := DefaultConfig()

	if path == "" {
		path = findConfigFile()
	}

	if path == "" {
		return cfg, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	if err := decode(path, data, cfg); err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}

	return cfg, nil
}

func findConfigFile() string {
	dirs := []string{"."}
	if home, err := os.UserHomeDir(); err == nil && home != "" {
		dirs = append(dirs, home)
	} else if envHome := os.Getenv("HOME"); envHome != "" {
		dirs = append(dirs, envHome)
	}
	for _, dir := range dirs {
		for _, ext := range configExtensions {
			p := filepath.Join(dir, configBaseName+ext)
			if _, err := os.Stat(p); err == nil {
				return p
			}
		}
	}
	return ""
}

func decode(path string, data []byte, cfg *Config) error {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return yaml.Unmarshal(data, cfg)
	case ".toml":
		return toml.Unmarshal(data, cfg)
	default:
		return json.Unmarshal(data, cfg)
	}
}

// SaveConfig saves configuration to a file in the format implied by its extension.
func SaveConfig(cfg *Config, path string) error {
	var data []byte
	var err error

	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		data, err = yaml.Marshal(cfg)
	case ".toml":
		var buf bytes.Buffer
		err = toml.NewEncoder(&buf).Encode(cfg)
		data = buf.Bytes()
	default:
		data, err = json.MarshalIndent(cfg, "", "  ")
	}
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}
