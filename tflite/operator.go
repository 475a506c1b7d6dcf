package tflite

import (
	flatbuffers "github.com/google/flatbuffers/go"
)

// Operator vtable slots, per schema.fbs `table Operator { opcode_index;
// inputs; outputs; builtin_options_type; builtin_options; ... }`.
const (
	operatorOpcodeIndexSlot   = 4
	operatorInputsSlot        = 6
	operatorOutputsSlot       = 8
	operatorBuiltinOptsSlot   = 12
)

// Operator is a flatbuffer view over one entry of a SubGraph's operator
// vector — the vector whose offsets nnsched/rewrite reorders in place; the
// operator tables themselves are left untouched.
type Operator struct {
	tab flatbuffers.Table
}

func (o *Operator) Init(buf []byte, i flatbuffers.UOffsetT) {
	o.tab.Bytes = buf
	o.tab.Pos = i
}

// OpcodeIndex returns the index into Model.OperatorCodes for this operator.
func (o *Operator) OpcodeIndex() uint32 {
	if off := flatbuffers.UOffsetT(o.tab.Offset(operatorOpcodeIndexSlot)); off != 0 {
		return o.tab.GetUint32(o.tab.Pos + off)
	}
	return 0
}

// InputsLength returns the number of declared input slots, including
// entries equal to the -1 sentinel for absent (optional) inputs.
func (o *Operator) InputsLength() int {
	if off := flatbuffers.UOffsetT(o.tab.Offset(operatorInputsSlot)); off != 0 {
		return o.tab.VectorLen(off)
	}
	return 0
}

// Inputs returns the j-th input tensor index, or -1 if that input is absent.
func (o *Operator) Inputs(j int) int32 {
	if off := flatbuffers.UOffsetT(o.tab.Offset(operatorInputsSlot)); off != 0 {
		a := o.tab.Vector(off)
		return o.tab.GetInt32(a + flatbuffers.UOffsetT(j)*4)
	}
	return -1
}

// OutputsLength returns the number of declared output tensor indices.
func (o *Operator) OutputsLength() int {
	if off := flatbuffers.UOffsetT(o.tab.Offset(operatorOutputsSlot)); off != 0 {
		return o.tab.VectorLen(off)
	}
	return 0
}

// Outputs returns the j-th output tensor index.
func (o *Operator) Outputs(j int) int32 {
	if off := flatbuffers.UOffsetT(o.tab.Offset(operatorOutputsSlot)); off != 0 {
		a := o.tab.Vector(off)
		return o.tab.GetInt32(a + flatbuffers.UOffsetT(j)*4)
	}
	return -1
}

// BuiltinOptions returns a generic table view over the operator's
// BuiltinOptions union payload, or nil if the operator carries none.
// Callers reinterpret the table through a concrete wrapper (Pool2DOptions)
// once they know the opcode.
func (o *Operator) BuiltinOptions() *flatbuffers.Table {
	off := flatbuffers.UOffsetT(o.tab.Offset(operatorBuiltinOptsSlot))
	if off == 0 {
		return nil
	}
	obj := new(flatbuffers.Table)
	o.tab.Union(obj, off)
	return obj
}

// Pool2DOptions vtable slots, per schema.fbs `table Pool2DOptions { padding;
// stride_w; stride_h; filter_width; filter_height; ... }`.
const (
	pool2DFilterWidthSlot  = 10
	pool2DFilterHeightSlot = 12
)

// Pool2DOptions reinterprets a generic BuiltinOptions table as the options
// payload for AVERAGE_POOL_2D/MAX_POOL_2D operators.
type Pool2DOptions struct {
	tab flatbuffers.Table
}

// NewPool2DOptions wraps a generic union table already positioned by
// Operator.BuiltinOptions.
func NewPool2DOptions(tab *flatbuffers.Table) *Pool2DOptions {
	return &Pool2DOptions{tab: *tab}
}

func (p *Pool2DOptions) FilterWidth() int32 {
	if off := flatbuffers.UOffsetT(p.tab.Offset(pool2DFilterWidthSlot)); off != 0 {
		return p.tab.GetInt32(p.tab.Pos + off)
	}
	return 0
}

func (p *Pool2DOptions) FilterHeight() int32 {
	if off := flatbuffers.UOffsetT(p.tab.Offset(pool2DFilterHeightSlot)); off != 0 {
		return p.tab.GetInt32(p.tab.Pos + off)
	}
	return 0
}

// OperatorCode vtable slots, per schema.fbs `table OperatorCode {
// deprecated_builtin_code; custom_code; version; builtin_code; }`.
const operatorCodeBuiltinCodeSlot = 10

// OperatorCode is a flatbuffer view over one entry of Model's operator-code
// vector, resolved by Operator.OpcodeIndex.
type OperatorCode struct {
	tab flatbuffers.Table
}

func (c *OperatorCode) Init(buf []byte, i flatbuffers.UOffsetT) {
	c.tab.Bytes = buf
	c.tab.Pos = i
}

// BuiltinCode returns the resolved opcode. Schemas newer than the original
// deprecated int8 `builtin_code` field always populate this one.
func (c *OperatorCode) BuiltinCode() BuiltinOperator {
	if off := flatbuffers.UOffsetT(c.tab.Offset(operatorCodeBuiltinCodeSlot)); off != 0 {
		return BuiltinOperator(c.tab.GetInt32(c.tab.Pos + off))
	}
	return ADD
}
