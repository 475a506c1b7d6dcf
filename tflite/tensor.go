package tflite

import (
	flatbuffers "github.com/google/flatbuffers/go"
)

// Tensor vtable slots, per schema.fbs `table Tensor { shape; type; buffer; name; ... }`.
const (
	tensorShapeSlot  = 4
	tensorTypeSlot   = 6
	tensorBufferSlot = 8
	tensorNameSlot   = 10
)

// Tensor is a flatbuffer view over one entry of a SubGraph's tensor vector.
type Tensor struct {
	tab flatbuffers.Table
}

func (t *Tensor) Init(buf []byte, i flatbuffers.UOffsetT) {
	t.tab.Bytes = buf
	t.tab.Pos = i
}

// ShapeLength returns the tensor's rank.
func (t *Tensor) ShapeLength() int {
	if o := flatbuffers.UOffsetT(t.tab.Offset(tensorShapeSlot)); o != 0 {
		return t.tab.VectorLen(o)
	}
	return 0
}

// Shape returns the j-th shape dimension.
func (t *Tensor) Shape(j int) int32 {
	if o := flatbuffers.UOffsetT(t.tab.Offset(tensorShapeSlot)); o != 0 {
		a := t.tab.Vector(o)
		return t.tab.GetInt32(a + flatbuffers.UOffsetT(j)*4)
	}
	return 0
}

// Type returns the tensor's element type.
func (t *Tensor) Type() TensorType {
	if o := flatbuffers.UOffsetT(t.tab.Offset(tensorTypeSlot)); o != 0 {
		return TensorType(t.tab.GetInt8(t.tab.Pos + o))
	}
	return FLOAT32
}

// Buffer returns the index into Model.Buffers backing this tensor.
func (t *Tensor) Buffer() uint32 {
	if o := flatbuffers.UOffsetT(t.tab.Offset(tensorBufferSlot)); o != 0 {
		return t.tab.GetUint32(t.tab.Pos + o)
	}
	return 0
}

// Name returns the tensor's informational name.
func (t *Tensor) Name() []byte {
	if o := flatbuffers.UOffsetT(t.tab.Offset(tensorNameSlot)); o != 0 {
		return t.tab.ByteVector(t.tab.Pos + o)
	}
	return nil
}

// Buffer is a flatbuffer view over one entry of Model's buffer vector: a
// variable-length byte blob, optionally backed by an external offset/size
// pair for large constant data (mmap-style storage); nnsched only ever
// touches the inline `data` vector.
type Buffer struct {
	tab flatbuffers.Table
}

const bufferDataSlot = 4

func (b *Buffer) Init(buf []byte, i flatbuffers.UOffsetT) {
	b.tab.Bytes = buf
	b.tab.Pos = i
}

// DataLength returns the number of bytes in the buffer's inline data vector.
func (b *Buffer) DataLength() int {
	if o := flatbuffers.UOffsetT(b.tab.Offset(bufferDataSlot)); o != 0 {
		return b.tab.VectorLen(o)
	}
	return 0
}

// DataOffset returns the absolute byte offset of the buffer's raw element 0
// within the model's backing byte slice, suitable for slicing a mutable view.
func (b *Buffer) DataOffset() int {
	o := flatbuffers.UOffsetT(b.tab.Offset(bufferDataSlot))
	if o == 0 {
		return -1
	}
	return int(b.tab.Vector(o))
}

// Bytes returns the full backing byte slice the buffer's table was parsed
// from (shared, not copied) — callers slice it with DataOffset/DataLength.
func (b *Buffer) Bytes() []byte {
	return b.tab.Bytes
}
