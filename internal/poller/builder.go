// internal/poller/builder.go
package poller

import (
	"fmt"
	"time"

	"go.uber.org/zap"

	cfg "github.com/tamzrod/rtu-poller/internal/config"
	"github.com/tamzrod/rtu-poller/internal/decode"
	pmodbus "github.com/tamzrod/rtu-poller/internal/poller/modbus"
)

// ReadTimeout bounds connection establishment and every register read.
// Engine-level default, not per-register configurable.
const ReadTimeout = 1 * time.Second

// Build converts validated, normalized device configs into engine inputs
// and constructs an Engine over the RTU serial transport.
func Build(devices []cfg.DeviceConfig, log *zap.Logger) (*Engine, []Device, error) {
	devs := make([]Device, 0, len(devices))
	for _, d := range devices {
		dev, err := buildDevice(d)
		if err != nil {
			return nil, nil, err
		}
		devs = append(devs, dev)
	}

	e, err := New(rtuTransport{}, log)
	if err != nil {
		return nil, nil, err
	}

	return e, devs, nil
}

func buildDevice(d cfg.DeviceConfig) (Device, error) {
	order, err := byteOrder(d.ByteOrder)
	if err != nil {
		return Device{}, fmt.Errorf("device %q: %w", d.Name, err)
	}

	dev := Device{
		Name: d.Name,
		Serial: SerialConfig{
			Port:     d.Port,
			BaudRate: d.BaudRate,
			Parity:   d.Parity,
			StopBits: d.StopBits,
		},
		SlaveID:   d.SlaveID,
		ByteOrder: order,
		Registers: make([]Register, 0, len(d.Registers)),
	}

	for _, r := range d.Registers {
		dt, err := dataType(r.Type)
		if err != nil {
			return Device{}, fmt.Errorf("device %q register %q: %w", d.Name, r.Name, err)
		}
		dev.Registers = append(dev.Registers, Register{
			Name:     r.Name,
			Address:  r.Address,
			Type:     dt,
			BitCount: r.BitCount,
		})
	}

	return dev, nil
}

func dataType(s string) (decode.DataType, error) {
	switch s {
	case "word":
		return decode.Word, nil
	case "float":
		return decode.Float, nil
	case "bits":
		return decode.Bits, nil
	default:
		return 0, fmt.Errorf("unknown register type %q", s)
	}
}

func byteOrder(s string) (decode.ByteOrder, error) {
	switch s {
	case "big":
		return decode.BigEndian, nil
	case "little":
		return decode.LittleEndian, nil
	default:
		return 0, fmt.Errorf("unknown byte order %q", s)
	}
}

// rtuTransport opens exclusive RTU serial connections, one per device poll.
type rtuTransport struct{}

func (rtuTransport) Open(sc SerialConfig) (Connection, error) {
	return pmodbus.Open(pmodbus.Config{
		Port:     sc.Port,
		BaudRate: sc.BaudRate,
		Parity:   sc.Parity,
		StopBits: sc.StopBits,
		Timeout:  ReadTimeout,
	})
}
