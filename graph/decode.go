package graph

import (
	"encoding/binary"
	"errors"
	"fmt"
	"math"

	"github.com/x448/float16"
)

// ErrUnsupportedType is returned when a buffer decode is requested for an
// ElementType outside the supported set.
var ErrUnsupportedType = errors.New("graph: unsupported buffer element type")

// DecodedBuffer is a typed, shape-reshaped view over a tensor's raw backing
// bytes. Values are always widened to int64/float64 so callers don't need
// a type switch per element width.
type DecodedBuffer struct {
	Shape  []int
	Ints   []int64   // populated for I8/U8/I16/I32/I64
	Floats []float64 // populated for F16/F32
}

// NumElements is product(Shape).
func (d *DecodedBuffer) NumElements() int {
	n := 1
	for _, s := range d.Shape {
		n *= s
	}
	return n
}

// DecodeBuffer reinterprets raw (little-endian) under t's element type and
// shape:
//
//   - U8 is exposed directly, byte for byte.
//   - Signed integer widths are reinterpreted under little-endian ordering.
//   - F16/F32 are decoded to float64.
//
// Requesting any other ElementType returns ErrUnsupportedType.
func DecodeBuffer(t *Tensor, raw []byte) (*DecodedBuffer, error) {
	if int(t.ElementType) < 0 || int(t.ElementType) >= len(elementByteSizes) {
		return nil, ErrUnsupportedType
	}
	n := 1
	for _, s := range t.Shape {
		n *= s
	}
	want := n * t.ElementType.ByteSize()
	if len(raw) < want {
		return nil, fmt.Errorf("%w: buffer has %d bytes, tensor needs %d", ErrUnsupportedType, len(raw), want)
	}

	out := &DecodedBuffer{Shape: append([]int(nil), t.Shape...)}
	switch t.ElementType {
	case U8:
		out.Ints = make([]int64, n)
		for i := 0; i < n; i++ {
			out.Ints[i] = int64(raw[i])
		}
	case I8:
		out.Ints = make([]int64, n)
		for i := 0; i < n; i++ {
			out.Ints[i] = int64(int8(raw[i]))
		}
	case I16:
		out.Ints = make([]int64, n)
		for i := 0; i < n; i++ {
			out.Ints[i] = int64(int16(binary.LittleEndian.Uint16(raw[i*2:])))
		}
	case I32:
		out.Ints = make([]int64, n)
		for i := 0; i < n; i++ {
			out.Ints[i] = int64(int32(binary.LittleEndian.Uint32(raw[i*4:])))
		}
	case I64:
		out.Ints = make([]int64, n)
		for i := 0; i < n; i++ {
			out.Ints[i] = int64(binary.LittleEndian.Uint64(raw[i*8:]))
		}
	case F16:
		out.Floats = make([]float64, n)
		for i := 0; i < n; i++ {
			bits := binary.LittleEndian.Uint16(raw[i*2:])
			out.Floats[i] = float64(float16.Frombits(bits).Float32())
		}
	case F32:
		out.Floats = make([]float64, n)
		for i := 0; i < n; i++ {
			bits := binary.LittleEndian.Uint32(raw[i*4:])
			out.Floats[i] = float64(math.Float32frombits(bits))
		}
	default:
		return nil, ErrUnsupportedType
	}
	return out, nil
}
