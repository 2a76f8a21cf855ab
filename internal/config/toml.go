package config

import (
	"fmt"
	"os"

	"github.com/BurntSushi/toml"
)

// FileConfig represents the TOML configuration file.
type FileConfig struct {
	Training TrainingConfig `toml:"training"`
}

// TrainingConfig maps training-related settings.
type TrainingConfig struct {
	TargetWPM       *int    `toml:"target-wpm"`
	WordsPerDisplay *int    `toml:"words-per-display"`
	ChunkSize       *int    `toml:"chunk-size"`
	ChunkIntervalMS *int    `toml:"chunk-interval-ms"`
	DurationSec     *int    `toml:"duration-sec"`
	GridSize        *int    `toml:"grid-size"`
	GridRounds      *int    `toml:"grid-rounds"`
	Difficulty      *string `toml:"difficulty"`
}

// LoadConfig reads a TOML config from the given path. Missing file is not an error.
func LoadConfig(path string) (FileConfig, error) {
	if path == "" {
		return FileConfig{}, fmt.Errorf("config path is empty")
	}
	if _, err := os.Stat(path); err != nil {
		if os.IsNotExist(err) {
			return FileConfig{}, nil
		}
		return FileConfig{}, fmt.Errorf("failed to stat config: %w", err)
	}
	var cfg FileConfig
	if _, err := toml.DecodeFile(path, &cfg); err != nil {
		return FileConfig{}, fmt.Errorf("failed to decode config: %w", err)
	}
	return cfg, nil
}
