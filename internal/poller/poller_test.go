// internal/poller/poller_test.go
package poller

import (
	"context"
	"errors"
	"testing"

	"github.com/tamzrod/rtu-poller/internal/decode"
)

// ---- fake transport ----

type fakeConn struct {
	regs     map[uint16][]uint16 // keyed by start address
	coils    map[uint16][]bool
	failAddr map[uint16]bool

	reads  []readCall
	closed int
}

type readCall struct {
	slaveID uint8
	addr    uint16
	qty     uint16
	coil    bool
}

func (f *fakeConn) ReadHoldingRegisters(slaveID uint8, addr, qty uint16) ([]uint16, error) {
	f.reads = append(f.reads, readCall{slaveID: slaveID, addr: addr, qty: qty})
	if f.failAddr[addr] {
		return nil, errors.New("read timeout")
	}
	if regs, ok := f.regs[addr]; ok {
		return regs[:qty], nil
	}
	return make([]uint16, qty), nil
}

func (f *fakeConn) ReadCoils(slaveID uint8, addr, qty uint16) ([]bool, error) {
	f.reads = append(f.reads, readCall{slaveID: slaveID, addr: addr, qty: qty, coil: true})
	if f.failAddr[addr] {
		return nil, errors.New("read timeout")
	}
	if coils, ok := f.coils[addr]; ok {
		return coils, nil
	}
	return make([]bool, qty), nil
}

func (f *fakeConn) Close() error {
	f.closed++
	return nil
}

type fakeTransport struct {
	conns    map[string]*fakeConn // keyed by port
	failPort map[string]bool
	opened   []string
}

func (f *fakeTransport) Open(sc SerialConfig) (Connection, error) {
	f.opened = append(f.opened, sc.Port)
	if f.failPort[sc.Port] {
		return nil, errors.New("no such device")
	}
	c, ok := f.conns[sc.Port]
	if !ok {
		c = &fakeConn{}
		if f.conns == nil {
			f.conns = map[string]*fakeConn{}
		}
		f.conns[sc.Port] = c
	}
	return c, nil
}

func testDevice(name, port string) Device {
	return Device{
		Name:      name,
		Serial:    SerialConfig{Port: port, BaudRate: 9600, Parity: "N", StopBits: 1},
		SlaveID:   1,
		ByteOrder: decode.BigEndian,
		Registers: []Register{
			{Name: "MAX_RPM", Address: 100, Type: decode.Float},
			{Name: "StatusWord", Address: 200, Type: decode.Word},
			{Name: "AlarmBits", Address: 210, Type: decode.Bits, BitCount: 8},
		},
	}
}

// ---- tests ----

func TestPollDevice_AllRegisters(t *testing.T) {
	conn := &fakeConn{
		regs: map[uint16][]uint16{
			100: {0x3F80, 0x0000},
			200: {42},
		},
		coils: map[uint16][]bool{
			210: {true, false, true, false, false, false, false, true},
		},
	}
	tr := &fakeTransport{conns: map[string]*fakeConn{"/dev/ttyUSB0": conn}}

	e, err := New(tr, nil)
	if err != nil {
		t.Fatalf("New() err=%v", err)
	}

	res := e.PollDevice(context.Background(), testDevice("fan", "/dev/ttyUSB0"))
	if res.Err != nil {
		t.Fatalf("PollDevice err=%v", res.Err)
	}
	if len(res.Outcomes) != 3 {
		t.Fatalf("expected 3 outcomes, got %d", len(res.Outcomes))
	}

	if v := res.Outcomes[0].Value; v.Type != decode.Float || v.Float != 1.0 {
		t.Fatalf("float outcome: %+v", res.Outcomes[0])
	}
	if v := res.Outcomes[1].Value; v.Type != decode.Word || v.Word != 42 {
		t.Fatalf("word outcome: %+v", res.Outcomes[1])
	}
	if v := res.Outcomes[2].Value; v.Type != decode.Bits || len(v.Bits) != 8 || !v.Bits[0] {
		t.Fatalf("bits outcome: %+v", res.Outcomes[2])
	}

	if conn.closed != 1 {
		t.Fatalf("expected connection closed once, got %d", conn.closed)
	}
}

func TestPollDevice_ReadGeometry(t *testing.T) {
	conn := &fakeConn{}
	tr := &fakeTransport{conns: map[string]*fakeConn{"/dev/ttyUSB0": conn}}
	e, _ := New(tr, nil)

	e.PollDevice(context.Background(), testDevice("fan", "/dev/ttyUSB0"))

	want := []readCall{
		{slaveID: 1, addr: 100, qty: 2},
		{slaveID: 1, addr: 200, qty: 1},
		{slaveID: 1, addr: 210, qty: 8, coil: true},
	}
	if len(conn.reads) != len(want) {
		t.Fatalf("expected %d reads, got %d", len(want), len(conn.reads))
	}
	for i, w := range want {
		if conn.reads[i] != w {
			t.Fatalf("read %d: got %+v want %+v", i, conn.reads[i], w)
		}
	}
}

func TestPollDevice_RegisterIndependence(t *testing.T) {
	conn := &fakeConn{
		regs: map[uint16][]uint16{
			100: {0x3F80, 0x0000},
			200: {7},
		},
		failAddr: map[uint16]bool{200: true},
	}
	tr := &fakeTransport{conns: map[string]*fakeConn{"/dev/ttyUSB0": conn}}
	e, _ := New(tr, nil)

	res := e.PollDevice(context.Background(), testDevice("fan", "/dev/ttyUSB0"))

	if len(res.Outcomes) != 3 {
		t.Fatalf("expected 3 outcomes, got %d", len(res.Outcomes))
	}
	if res.Outcomes[0].Err != nil {
		t.Fatalf("register 1 should succeed: %v", res.Outcomes[0].Err)
	}
	if res.Outcomes[1].Err == nil {
		t.Fatal("register 2 should fail")
	}
	if res.Outcomes[2].Err != nil {
		t.Fatalf("register 3 should succeed: %v", res.Outcomes[2].Err)
	}
	if conn.closed != 1 {
		t.Fatalf("connection not released after partial failure, closed=%d", conn.closed)
	}
}

func TestPollDevice_Unreachable(t *testing.T) {
	tr := &fakeTransport{failPort: map[string]bool{"/dev/ttyUSB9": true}}
	e, _ := New(tr, nil)

	res := e.PollDevice(context.Background(), testDevice("ghost", "/dev/ttyUSB9"))

	if res.Err == nil {
		t.Fatal("expected unreachable error")
	}
	if len(res.Outcomes) != 0 {
		t.Fatalf("expected no outcomes, got %d", len(res.Outcomes))
	}
}

func TestPollAll_DeviceIndependence(t *testing.T) {
	tr := &fakeTransport{
		conns:    map[string]*fakeConn{"/dev/ttyUSB1": {regs: map[uint16][]uint16{200: {9}}}},
		failPort: map[string]bool{"/dev/ttyUSB0": true},
	}
	e, _ := New(tr, nil)

	devA := testDevice("a", "/dev/ttyUSB0")
	devB := testDevice("b", "/dev/ttyUSB1")

	results, err := e.PollAll(context.Background(), []Device{devA, devB})
	if err != nil {
		t.Fatalf("PollAll err=%v", err)
	}
	if len(results) != 2 {
		t.Fatalf("expected 2 results, got %d", len(results))
	}
	if results[0].Device != "a" || results[0].Err == nil {
		t.Fatalf("device a should be unreachable: %+v", results[0])
	}
	if results[1].Device != "b" || results[1].Err != nil {
		t.Fatalf("device b should succeed: %+v", results[1])
	}
	if len(results[1].Outcomes) != 3 {
		t.Fatalf("device b: expected 3 outcomes, got %d", len(results[1].Outcomes))
	}
}

func TestPollAll_Cancelled(t *testing.T) {
	tr := &fakeTransport{}
	e, _ := New(tr, nil)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	results, err := e.PollAll(ctx, []Device{testDevice("a", "/dev/ttyUSB0")})
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
	if len(results) != 0 {
		t.Fatalf("expected no results after pre-cancelled ctx, got %d", len(results))
	}
	if len(tr.opened) != 0 {
		t.Fatal("no connection should be opened after cancellation")
	}
}

func TestPollDevice_CancelledMidRegisters(t *testing.T) {
	conn := &fakeConn{}
	tr := &fakeTransport{conns: map[string]*fakeConn{"/dev/ttyUSB0": conn}}
	e, _ := New(tr, nil)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	res := e.PollDevice(ctx, testDevice("fan", "/dev/ttyUSB0"))

	if len(res.Outcomes) != 0 {
		t.Fatalf("expected no outcomes after cancellation, got %d", len(res.Outcomes))
	}
	if conn.closed != 1 {
		t.Fatalf("connection must be released on cancellation, closed=%d", conn.closed)
	}
}

func TestNew_RequiresTransport(t *testing.T) {
	if _, err := New(nil, nil); err == nil {
		t.Fatal("expected error for nil transport")
	}
}
