// internal/decode/decode.go
package decode

import (
	"encoding/binary"
	"errors"
	"fmt"
	"math"
)

// DataType selects how raw register/coil data is interpreted.
type DataType uint8

const (
	// Word is a single 16-bit holding register, passed through unchanged.
	Word DataType = iota
	// Float is an IEEE-754 single spanning two consecutive holding registers.
	Float
	// Bits is an ordered run of coil states.
	Bits
)

func (d DataType) String() string {
	switch d {
	case Word:
		return "word"
	case Float:
		return "float"
	case Bits:
		return "bits"
	default:
		return fmt.Sprintf("datatype(%d)", uint8(d))
	}
}

// ByteOrder is the device-declared register/byte ordering convention.
type ByteOrder uint8

const (
	BigEndian ByteOrder = iota
	LittleEndian
)

func (o ByteOrder) String() string {
	if o == LittleEndian {
		return "little"
	}
	return "big"
}

// ErrUnknownType marks the defensive branch for a DataType outside the enum.
var ErrUnknownType = errors.New("decode: unknown data type")

// Value is one decoded register reading.
// Exactly one of Word, Float, Bits is populated depending on Type.
type Value struct {
	Type  DataType
	Word  uint16
	Float float32
	Bits  []bool
}

// Decode interprets raw transport data according to the data type and the
// device byte order. Pure: no IO, no side effects, deterministic.
//
// regs feeds Word and Float, bits feeds Bits; the unused input is ignored.
func Decode(dt DataType, order ByteOrder, bitCount int, regs []uint16, bits []bool) (Value, error) {
	switch dt {
	case Word:
		if len(regs) != 1 {
			return Value{}, fmt.Errorf("decode: word needs exactly 1 register, got %d", len(regs))
		}
		return Value{Type: Word, Word: regs[0]}, nil

	case Float:
		if len(regs) != 2 {
			return Value{}, fmt.Errorf("decode: float needs exactly 2 registers, got %d", len(regs))
		}
		w0, w1 := orderWords(order, regs[0], regs[1])
		return Value{Type: Float, Float: float32FromWords(order, w0, w1)}, nil

	case Bits:
		if len(bits) < bitCount {
			return Value{}, fmt.Errorf("decode: bits needs at least %d coils, got %d", bitCount, len(bits))
		}
		out := make([]bool, bitCount)
		copy(out, bits[:bitCount])
		return Value{Type: Bits, Bits: out}, nil

	default:
		return Value{}, fmt.Errorf("%w: %d", ErrUnknownType, uint8(dt))
	}
}

// orderWords normalizes the register pair to wire order: little-endian
// devices transmit the low word first, so the pair is swapped.
func orderWords(order ByteOrder, first, second uint16) (uint16, uint16) {
	if order == LittleEndian {
		return second, first
	}
	return first, second
}

// float32FromWords packs the ordered register pair into a 4-byte buffer using
// the declared byte order, then reinterprets the buffer as an IEEE-754 single
// with that same byte order. The flag is applied to both the pack and the
// reinterpret step; at the byte level the two applications cancel, leaving
// the word swap in orderWords as the only order-dependent effect. Known
// quirk of the field configurations this replaces; do not "fix" without
// hardware verification.
func float32FromWords(order ByteOrder, w0, w1 uint16) float32 {
	u := uint32(w0)<<16 | uint32(w1)

	var buf [4]byte
	var bits uint32
	switch order {
	case LittleEndian:
		binary.LittleEndian.PutUint32(buf[:], u)
		bits = binary.LittleEndian.Uint32(buf[:])
	default:
		binary.BigEndian.PutUint32(buf[:], u)
		bits = binary.BigEndian.Uint32(buf[:])
	}

	return math.Float32frombits(bits)
}
