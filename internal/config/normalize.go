// internal/config/normalize.go
package config

// Normalize applies post-validation defaults.
// It is allowed to mutate configuration.
// It MUST be called only after Validate().
func Normalize(cfg *Config) {
	if cfg == nil {
		return
	}

	if cfg.Logging.Level == "" {
		cfg.Logging.Level = "info"
	}
	if cfg.Logging.Format == "" {
		cfg.Logging.Format = "console"
	}
	if cfg.Logging.Output == "" {
		cfg.Logging.Output = "stderr"
	}
	if cfg.Logging.MaxSizeMB == 0 {
		cfg.Logging.MaxSizeMB = 50
	}

	for di := range cfg.Devices {
		d := &cfg.Devices[di]

		if d.Parity == "" {
			d.Parity = "N"
		}
		if d.StopBits == 0 {
			d.StopBits = 1
		}
		// Field configs historically omit the order and mean low-word-first.
		if d.ByteOrder == "" {
			d.ByteOrder = "little"
		}

		for ri := range d.Registers {
			r := &d.Registers[ri]
			if r.Type == "bits" && r.BitCount == 0 {
				r.BitCount = 8
			}
		}
	}
}
