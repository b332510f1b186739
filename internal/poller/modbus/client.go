// internal/poller/modbus/client.go
package modbus

import (
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/goburrow/modbus"
)

// Conn is one exclusive RTU serial connection.
// It serializes requests because it mutates SlaveId per read.
type Conn struct {
	mu      sync.Mutex
	handler *modbus.RTUClientHandler
	client  modbus.Client
	closed  bool
}

// Config is minimal transport config. DataBits is fixed at 8 by the engine.
type Config struct {
	Port     string
	BaudRate int
	Parity   string // "N", "E" or "O"
	StopBits int
	Timeout  time.Duration
}

// Open dials the serial port and returns a connected RTU client.
// ONE attempt per call; retry policy belongs to the caller.
func Open(cfg Config) (*Conn, error) {
	if cfg.Port == "" {
		return nil, errors.New("rtu client: port required")
	}

	h := modbus.NewRTUClientHandler(cfg.Port)
	h.BaudRate = cfg.BaudRate
	h.DataBits = 8
	h.Parity = cfg.Parity
	h.StopBits = cfg.StopBits
	h.Timeout = cfg.Timeout

	if err := h.Connect(); err != nil {
		return nil, err
	}

	return &Conn{
		handler: h,
		client:  modbus.NewClient(h),
	}, nil
}

// Close releases the serial port. Safe to call more than once.
func (c *Conn) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.closed {
		return nil
	}
	c.closed = true
	return c.handler.Close()
}

// ReadHoldingRegisters reads qty 16-bit registers starting at addr (FC 3).
func (c *Conn) ReadHoldingRegisters(slaveID uint8, addr, qty uint16) ([]uint16, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.closed {
		return nil, errors.New("rtu client: connection closed")
	}

	c.handler.SlaveId = slaveID

	raw, err := c.client.ReadHoldingRegisters(addr, qty)
	if err != nil {
		return nil, err
	}
	if len(raw) != int(qty)*2 {
		return nil, fmt.Errorf("rtu client: expected %d register bytes, got %d", qty*2, len(raw))
	}
	return unpackRegisters(raw), nil
}

// ReadCoils reads qty coil states starting at addr (FC 1).
func (c *Conn) ReadCoils(slaveID uint8, addr, qty uint16) ([]bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.closed {
		return nil, errors.New("rtu client: connection closed")
	}

	c.handler.SlaveId = slaveID

	raw, err := c.client.ReadCoils(addr, qty)
	if err != nil {
		return nil, err
	}
	if len(raw)*8 < int(qty) {
		return nil, fmt.Errorf("rtu client: expected %d coil bits, got %d bytes", qty, len(raw))
	}
	return unpackBits(raw, int(qty)), nil
}

// ---- helpers (pure geometry) ----

// unpackRegisters converts the wire payload into register values.
// Modbus transmits each register big-endian.
func unpackRegisters(data []byte) []uint16 {
	n := len(data) / 2
	out := make([]uint16, n)
	for i := 0; i < n; i++ {
		out[i] = uint16(data[2*i])<<8 | uint16(data[2*i+1])
	}
	return out
}

// unpackBits expands the packed coil payload, LSB first within each byte.
func unpackBits(data []byte, count int) []bool {
	out := make([]bool, count)
	for i := 0; i < count; i++ {
		byteIdx := i / 8
		bitIdx := i % 8
		if byteIdx >= len(data) {
			continue
		}
		out[i] = data[byteIdx]&(1<<bitIdx) != 0
	}
	return out
}
