// internal/poller/poller.go
package poller

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/tamzrod/rtu-poller/internal/decode"
)

// Connection abstracts the Modbus operations the engine needs.
// The engine depends on geometry only.
type Connection interface {
	ReadHoldingRegisters(slaveID uint8, addr, qty uint16) ([]uint16, error) // FC 3
	ReadCoils(slaveID uint8, addr, qty uint16) ([]bool, error)              // FC 1
	Close() error                                                           // idempotent
}

// Transport opens one exclusive Connection per device poll.
type Transport interface {
	Open(cfg SerialConfig) (Connection, error)
}

// Engine polls configured devices and captures every failure as data.
type Engine struct {
	transport Transport
	log       *zap.Logger
}

// New creates an engine over the given transport.
func New(transport Transport, log *zap.Logger) (*Engine, error) {
	if transport == nil {
		return nil, errors.New("poller: transport required")
	}
	if log == nil {
		log = zap.NewNop()
	}
	return &Engine{transport: transport, log: log}, nil
}

// PollAll polls every device in order. One result per device started, order
// preserved; no device failure affects any other. The returned error is
// non-nil only when ctx was cancelled, with the results gathered so far.
func (e *Engine) PollAll(ctx context.Context, devs []Device) ([]DeviceResult, error) {
	results := make([]DeviceResult, 0, len(devs))

	for _, d := range devs {
		if err := ctx.Err(); err != nil {
			return results, err
		}
		results = append(results, e.PollDevice(ctx, d))
	}

	return results, nil
}

// PollDevice performs one full poll of one device:
// connect, read every register in declared order, close.
// The connection is released on every exit path. No retries.
func (e *Engine) PollDevice(ctx context.Context, dev Device) DeviceResult {
	res := DeviceResult{
		Device: dev.Name,
		At:     time.Now(),
	}

	log := e.log.With(zap.String("device", dev.Name), zap.String("port", dev.Serial.Port))

	conn, err := e.transport.Open(dev.Serial)
	if err != nil {
		log.Warn("device unreachable", zap.Error(err))
		res.Err = fmt.Errorf("connect %s: %w", dev.Serial.Port, err)
		return res
	}
	defer conn.Close()

	res.Outcomes = make([]Outcome, 0, len(dev.Registers))

	for _, reg := range dev.Registers {
		if ctx.Err() != nil {
			return res
		}

		out := Outcome{Register: reg.Name, Address: reg.Address}
		out.Value, out.Err = readRegister(conn, dev, reg)
		if out.Err != nil {
			log.Warn("register read failed",
				zap.String("register", reg.Name),
				zap.Uint16("address", reg.Address),
				zap.Error(out.Err),
			)
		}

		// One bad register never aborts the rest of the device.
		res.Outcomes = append(res.Outcomes, out)
	}

	return res
}

// readRegister issues the transport read matching the register type and
// decodes the raw payload.
func readRegister(conn Connection, dev Device, reg Register) (decode.Value, error) {
	switch reg.Type {
	case decode.Word:
		regs, err := conn.ReadHoldingRegisters(dev.SlaveID, reg.Address, 1)
		if err != nil {
			return decode.Value{}, err
		}
		return decode.Decode(decode.Word, dev.ByteOrder, 0, regs, nil)

	case decode.Float:
		regs, err := conn.ReadHoldingRegisters(dev.SlaveID, reg.Address, 2)
		if err != nil {
			return decode.Value{}, err
		}
		return decode.Decode(decode.Float, dev.ByteOrder, 0, regs, nil)

	case decode.Bits:
		bits, err := conn.ReadCoils(dev.SlaveID, reg.Address, uint16(reg.BitCount))
		if err != nil {
			return decode.Value{}, err
		}
		return decode.Decode(decode.Bits, dev.ByteOrder, reg.BitCount, nil, bits)

	default:
		return decode.Decode(reg.Type, dev.ByteOrder, reg.BitCount, nil, nil)
	}
}
