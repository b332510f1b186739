// internal/poller/types.go
package poller

import (
	"time"

	"github.com/tamzrod/rtu-poller/internal/decode"
)

// SerialConfig is the connection geometry for one RTU bus.
type SerialConfig struct {
	Port     string
	BaudRate int
	Parity   string // "N", "E" or "O"
	StopBits int
}

// Register describes one configured read.
// Word reads 1 holding register, Float reads 2, Bits reads BitCount coils.
type Register struct {
	Name     string
	Address  uint16
	Type     decode.DataType
	BitCount int // Bits only
}

// Device is one field device on an RTU bus. Immutable after Build.
type Device struct {
	Name      string
	Serial    SerialConfig
	SlaveID   uint8
	ByteOrder decode.ByteOrder
	Registers []Register
}

// Outcome is the result of one register read within a cycle.
// Err non-nil means the read or the decode failed; Value is then zero.
type Outcome struct {
	Register string
	Address  uint16
	Value    decode.Value
	Err      error
}

// DeviceResult is the snapshot for one device from one poll cycle.
// Err non-nil means the connection could not be established and no
// registers were attempted. It carries no identity across cycles.
type DeviceResult struct {
	Device   string
	At       time.Time
	Err      error
	Outcomes []Outcome
}
