// Package mcdeck wires the application together: configuration and
// the top-level services the CLI operates.
package mcdeck

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/pelletier/go-toml/v2"
)

func LoadConfig(path string) (*Config, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open config: %w", err)
	}
	defer file.Close()

	var cfg Config
	if err = toml.NewDecoder(file).Decode(&cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// DefaultConfig returns the configuration used when no config file is
// present.
func DefaultConfig() *Config {
	return &Config{}
}

type Config struct {
	Log       LogConfig       `toml:"log"`
	Octgn     OctgnConfig     `toml:"octgn"`
	MarvelCDB MarvelCDBConfig `toml:"marvelcdb"`
}

type LogConfig struct {
	Level slog.Level `toml:"level"`
}

type OctgnConfig struct {
	// DataPath overrides the default OCTGN Data directory.
	DataPath string `toml:"data_path"`
	// AllowFanMadeNonO8D accepts set archives whose FanMade folders
	// hold files other than .o8d deck lists.
	AllowFanMadeNonO8D bool `toml:"allow_fanmade_non_o8d"`
}

type MarvelCDBConfig struct {
	BaseURL string `toml:"base_url"`
}
