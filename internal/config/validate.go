// internal/config/validate.go
package config

import (
	"fmt"
)

// Validate checks configuration correctness.
// It performs declarative validation only.
// It MUST NOT mutate configuration; defaults are applied by Normalize.
func Validate(cfg *Config) error {
	if cfg.Poll.IntervalMs < 0 {
		return fmt.Errorf("poll: interval_ms must be >= 0, got %d", cfg.Poll.IntervalMs)
	}

	if len(cfg.Devices) == 0 {
		return fmt.Errorf("devices: at least one device required")
	}

	deviceNames := make(map[string]struct{})

	for _, d := range cfg.Devices {
		if d.Name == "" {
			return fmt.Errorf("devices: name required")
		}
		if _, dup := deviceNames[d.Name]; dup {
			return fmt.Errorf("device %q: duplicate device name", d.Name)
		}
		deviceNames[d.Name] = struct{}{}

		if d.Port == "" {
			return fmt.Errorf("device %q: port required", d.Name)
		}
		if d.BaudRate <= 0 {
			return fmt.Errorf("device %q: baud_rate must be > 0, got %d", d.Name, d.BaudRate)
		}

		switch d.Parity {
		case "", "N", "E", "O":
		default:
			return fmt.Errorf("device %q: parity must be N, E or O, got %q", d.Name, d.Parity)
		}

		switch d.StopBits {
		case 0, 1, 2:
		default:
			return fmt.Errorf("device %q: stop_bits must be 1 or 2, got %d", d.Name, d.StopBits)
		}

		if d.SlaveID < 1 || d.SlaveID > 247 {
			return fmt.Errorf("device %q: slave_id must be 1-247, got %d", d.Name, d.SlaveID)
		}

		switch d.ByteOrder {
		case "", "big", "little":
		default:
			return fmt.Errorf("device %q: byte_order must be big or little, got %q", d.Name, d.ByteOrder)
		}

		if len(d.Registers) == 0 {
			return fmt.Errorf("device %q: at least one register required", d.Name)
		}

		registerNames := make(map[string]struct{})

		for _, r := range d.Registers {
			if r.Name == "" {
				return fmt.Errorf("device %q: register name required", d.Name)
			}
			if _, dup := registerNames[r.Name]; dup {
				return fmt.Errorf("device %q: duplicate register name %q", d.Name, r.Name)
			}
			registerNames[r.Name] = struct{}{}

			switch r.Type {
			case "word", "float":
				if r.BitCount != 0 {
					return fmt.Errorf(
						"device %q register %q: bit_count is only valid for type bits",
						d.Name, r.Name,
					)
				}
			case "bits":
				if r.BitCount < 0 || r.BitCount > 16 {
					return fmt.Errorf(
						"device %q register %q: bit_count must be 1-16, got %d",
						d.Name, r.Name, r.BitCount,
					)
				}
			default:
				return fmt.Errorf(
					"device %q register %q: type must be word, float or bits, got %q",
					d.Name, r.Name, r.Type,
				)
			}

			// A float spans two registers; the span must stay addressable.
			if r.Type == "float" && r.Address == 0xFFFF {
				return fmt.Errorf(
					"device %q register %q: float at address 65535 overflows the register space",
					d.Name, r.Name,
				)
			}
		}
	}

	if err := validateLogging(&cfg.Logging); err != nil {
		return err
	}

	return nil
}

func validateLogging(lc *LoggingConfig) error {
	switch lc.Level {
	case "", "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("logging: level must be debug, info, warn or error, got %q", lc.Level)
	}

	switch lc.Format {
	case "", "console", "json":
	default:
		return fmt.Errorf("logging: format must be console or json, got %q", lc.Format)
	}

	if lc.MaxSizeMB < 0 || lc.MaxBackups < 0 || lc.MaxAgeDays < 0 {
		return fmt.Errorf("logging: rotation settings must be >= 0")
	}

	return nil
}
