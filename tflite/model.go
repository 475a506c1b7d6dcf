package tflite

import (
	flatbuffers "github.com/google/flatbuffers/go"
)

// Model vtable slots, per schema.fbs `table Model { version; operator_codes;
// subgraphs; description; buffers; ... }`.
const (
	modelOperatorCodesSlot = 6
	modelSubgraphsSlot     = 8
	modelBuffersSlot       = 12
)

// Model is the root flatbuffer table of a serialized TFLite file.
type Model struct {
	tab flatbuffers.Table
}

// GetRootAsModel parses the root Model table out of buf at the given byte
// offset (always 0 for a standalone model file).
func GetRootAsModel(buf []byte, offset flatbuffers.UOffsetT) *Model {
	n := flatbuffers.GetUOffsetT(buf[offset:])
	m := &Model{}
	m.tab.Bytes = buf
	m.tab.Pos = n + offset
	return m
}

// SubgraphsLength returns the number of subgraphs in the model. nnsched only
// supports models with exactly one.
func (m *Model) SubgraphsLength() int {
	if o := flatbuffers.UOffsetT(m.tab.Offset(modelSubgraphsSlot)); o != 0 {
		return m.tab.VectorLen(o)
	}
	return 0
}

// Subgraphs returns the j-th subgraph.
func (m *Model) Subgraphs(j int) *SubGraph {
	o := flatbuffers.UOffsetT(m.tab.Offset(modelSubgraphsSlot))
	if o == 0 {
		return nil
	}
	a := m.tab.Vector(o)
	a += flatbuffers.UOffsetT(j) * 4
	sg := &SubGraph{}
	sg.Init(m.tab.Bytes, m.tab.Indirect(a))
	return sg
}

// OperatorCodesLength returns the number of entries in the model-wide
// operator-code table.
func (m *Model) OperatorCodesLength() int {
	if o := flatbuffers.UOffsetT(m.tab.Offset(modelOperatorCodesSlot)); o != 0 {
		return m.tab.VectorLen(o)
	}
	return 0
}

// OperatorCodes returns the j-th entry of the model-wide operator-code
// table, resolved by Operator.OpcodeIndex.
func (m *Model) OperatorCodes(j int) *OperatorCode {
	o := flatbuffers.UOffsetT(m.tab.Offset(modelOperatorCodesSlot))
	if o == 0 {
		return nil
	}
	a := m.tab.Vector(o)
	a += flatbuffers.UOffsetT(j) * 4
	oc := &OperatorCode{}
	oc.Init(m.tab.Bytes, m.tab.Indirect(a))
	return oc
}

// BuffersLength returns the number of entries in the model-wide buffer pool.
func (m *Model) BuffersLength() int {
	if o := flatbuffers.UOffsetT(m.tab.Offset(modelBuffersSlot)); o != 0 {
		return m.tab.VectorLen(o)
	}
	return 0
}

// Buffers returns the j-th buffer in the model-wide buffer pool.
func (m *Model) Buffers(j int) *Buffer {
	o := flatbuffers.UOffsetT(m.tab.Offset(modelBuffersSlot))
	if o == 0 {
		return nil
	}
	a := m.tab.Vector(o)
	a += flatbuffers.UOffsetT(j) * 4
	b := &Buffer{}
	b.Init(m.tab.Bytes, m.tab.Indirect(a))
	return b
}

// SubGraph vtable slots, per schema.fbs `table SubGraph { tensors; inputs;
// outputs; operators; name; }`.
const (
	subGraphTensorsSlot   = 4
	subGraphInputsSlot    = 6
	subGraphOutputsSlot   = 8
	subGraphOperatorsSlot = 10
)

// SubGraph is the single computation region nnsched analyzes.
type SubGraph struct {
	tab flatbuffers.Table
}

func (s *SubGraph) Init(buf []byte, i flatbuffers.UOffsetT) {
	s.tab.Bytes = buf
	s.tab.Pos = i
}

// TensorsLength returns the number of tensors declared in this subgraph.
func (s *SubGraph) TensorsLength() int {
	if o := flatbuffers.UOffsetT(s.tab.Offset(subGraphTensorsSlot)); o != 0 {
		return s.tab.VectorLen(o)
	}
	return 0
}

// Tensors returns the j-th tensor, j matching the tensor's stable id.
func (s *SubGraph) Tensors(j int) *Tensor {
	o := flatbuffers.UOffsetT(s.tab.Offset(subGraphTensorsSlot))
	if o == 0 {
		return nil
	}
	a := s.tab.Vector(o)
	a += flatbuffers.UOffsetT(j) * 4
	t := &Tensor{}
	t.Init(s.tab.Bytes, s.tab.Indirect(a))
	return t
}

// OperatorsLength returns the number of operators currently in this
// subgraph's indirection table — its current execution order.
func (s *SubGraph) OperatorsLength() int {
	if o := flatbuffers.UOffsetT(s.tab.Offset(subGraphOperatorsSlot)); o != 0 {
		return s.tab.VectorLen(o)
	}
	return 0
}

// Operators returns the j-th operator in the current execution order.
func (s *SubGraph) Operators(j int) *Operator {
	o := flatbuffers.UOffsetT(s.tab.Offset(subGraphOperatorsSlot))
	if o == 0 {
		return nil
	}
	a := s.tab.Vector(o)
	a += flatbuffers.UOffsetT(j) * 4
	op := &Operator{}
	op.Init(s.tab.Bytes, s.tab.Indirect(a))
	return op
}

// InputsLength/Outputs expose the subgraph's declared graph-level I/O.
func (s *SubGraph) InputsLength() int {
	if o := flatbuffers.UOffsetT(s.tab.Offset(subGraphInputsSlot)); o != 0 {
		return s.tab.VectorLen(o)
	}
	return 0
}

func (s *SubGraph) Inputs(j int) int32 {
	if o := flatbuffers.UOffsetT(s.tab.Offset(subGraphInputsSlot)); o != 0 {
		a := s.tab.Vector(o)
		return s.tab.GetInt32(a + flatbuffers.UOffsetT(j)*4)
	}
	return -1
}

func (s *SubGraph) OutputsLength() int {
	if o := flatbuffers.UOffsetT(s.tab.Offset(subGraphOutputsSlot)); o != 0 {
		return s.tab.VectorLen(o)
	}
	return 0
}

func (s *SubGraph) Outputs(j int) int32 {
	if o := flatbuffers.UOffsetT(s.tab.Offset(subGraphOutputsSlot)); o != 0 {
		a := s.tab.Vector(o)
		return s.tab.GetInt32(a + flatbuffers.UOffsetT(j)*4)
	}
	return -1
}

// OperatorsIndirectionTable returns the absolute byte position of element 0
// of the subgraph's operator vector (an array of 4-byte unsigned offsets,
// each relative to its own slot), and the element count.
// ok is false when the subgraph table lacks the field at the expected slot,
// which the rewriter (nnsched/rewrite) treats as a fatal format violation.
func (s *SubGraph) OperatorsIndirectionTable() (pos flatbuffers.UOffsetT, length int, ok bool) {
	o := flatbuffers.UOffsetT(s.tab.Offset(subGraphOperatorsSlot))
	if o == 0 {
		return 0, 0, false
	}
	return s.tab.Vector(o), s.tab.VectorLen(o), true
}

// Bytes returns the full backing byte slice. The rewriter requires this
// slice to be independently writable.
func (s *SubGraph) Bytes() []byte {
	return s.tab.Bytes
}
