package config

import (
	"fmt"
	"time"
)

// HotReloadConfig controls live reloading of the configuration file
type HotReloadConfig struct {
	Enabled  bool          `json:"enabled" yaml:"enabled"`
	Debounce time.Duration `json:"debounce" yaml:"debounce"`
}

func DefaultHotReloadConfig() HotReloadConfig {
	return HotReloadConfig{
		Enabled:  false,
		Debounce: 500 * time.Millisecond,
	}
}

func (c *HotReloadConfig) Validate() error {
	if c.Enabled && c.Debounce <= 0 {
		return fmt.Errorf("hot reload debounce must be positive")
	}
	return nil
}
