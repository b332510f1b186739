// internal/config/config.go
package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

type Config struct {
	Poll    PollConfig     `yaml:"poll"`
	Logging LoggingConfig  `yaml:"logging"`
	Devices []DeviceConfig `yaml:"devices"`
}

// ---- POLL ----

type PollConfig struct {
	// IntervalMs == 0 means a single poll cycle; > 0 runs continuously.
	IntervalMs int `yaml:"interval_ms"`
}

// ---- LOGGING ----

type LoggingConfig struct {
	Level  string `yaml:"level"`  // debug|info|warn|error
	Format string `yaml:"format"` // console|json
	Output string `yaml:"output"` // stdout|stderr|<file path>

	// Rotation (file output only)
	MaxSizeMB  int  `yaml:"max_size_mb"`
	MaxBackups int  `yaml:"max_backups"`
	MaxAgeDays int  `yaml:"max_age_days"`
	Compress   bool `yaml:"compress"`
}

// ---- DEVICE ----

type DeviceConfig struct {
	Name      string           `yaml:"name"`
	Port      string           `yaml:"port"`
	BaudRate  int              `yaml:"baud_rate"`
	Parity    string           `yaml:"parity"`     // N|E|O
	StopBits  int              `yaml:"stop_bits"`  // 1|2
	SlaveID   uint8            `yaml:"slave_id"`   // 1-247
	ByteOrder string           `yaml:"byte_order"` // big|little
	Registers []RegisterConfig `yaml:"registers"`
}

// ---- REGISTER ----

type RegisterConfig struct {
	Name     string `yaml:"name"`
	Address  uint16 `yaml:"address"`
	Type     string `yaml:"type"`      // word|float|bits
	BitCount int    `yaml:"bit_count"` // bits only; 1-16
}

// Load reads and decodes a YAML configuration file.
// Callers must run Validate and Normalize before use.
func Load(path string) (*Config, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("config: read %s: %w", path, err)
	}

	var cfg Config
	if err := yaml.Unmarshal(raw, &cfg); err != nil {
		return nil, fmt.Errorf("config: parse %s: %w", path, err)
	}

	return &cfg, nil
}
