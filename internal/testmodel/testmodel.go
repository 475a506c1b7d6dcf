// Package testmodel builds minimal TFLite-schema flatbuffers for tests,
// using the same flatbuffers.Builder primitives flatc-generated code uses.
// It exists only to give graph/build_test.go, rewrite/rewrite_test.go and
// nnsched_test.go real encoded bytes to decode, without needing a tool-generated .tflite fixture.
package testmodel

import (
	flatbuffers "github.com/google/flatbuffers/go"
)

// TensorSpec describes one SubGraph tensor entry.
type TensorSpec struct {
	Name   string
	Shape  []int32
	Type   int8 // matches tflite.TensorType's underlying values
	Buffer uint32
}

// Pool2DSpec describes a Pool2DOptions payload for a pooling operator.
type Pool2DSpec struct {
	FilterWidth  int32
	FilterHeight int32
}

// OperatorSpec describes one SubGraph operator entry. Inputs entries equal
// to -1 encode an absent optional input, matching the real schema's
// sentinel.
type OperatorSpec struct {
	OpcodeIndex uint32
	Inputs      []int32
	Outputs     []int32
	Pool2D      *Pool2DSpec
}

// BufferSpec describes one Model-level buffer. A nil Data produces a buffer
// with no inline data vector, matching a graph-input tensor's buffer.
type BufferSpec struct {
	Data []byte
}

// OperatorCodeSpec describes one Model-level operator code entry.
type OperatorCodeSpec struct {
	BuiltinCode int32
}

// Spec is the full set of tables Build assembles into one subgraph model.
type Spec struct {
	Tensors       []TensorSpec
	Operators     []OperatorSpec
	OperatorCodes []OperatorCodeSpec
	Buffers       []BufferSpec
	Inputs        []int32
	Outputs       []int32
}

func int32Vector(b *flatbuffers.Builder, vals []int32) flatbuffers.UOffsetT {
	if len(vals) == 0 {
		return 0
	}
	b.StartVector(4, len(vals), 4)
	for i := len(vals) - 1; i >= 0; i-- {
		b.PrependInt32(vals[i])
	}
	return b.EndVector(len(vals))
}

func byteVector(b *flatbuffers.Builder, vals []byte) flatbuffers.UOffsetT {
	if vals == nil {
		return 0
	}
	b.StartVector(1, len(vals), 1)
	for i := len(vals) - 1; i >= 0; i-- {
		b.PrependByte(vals[i])
	}
	return b.EndVector(len(vals))
}

func offsetVector(b *flatbuffers.Builder, offs []flatbuffers.UOffsetT) flatbuffers.UOffsetT {
	b.StartVector(4, len(offs), 4)
	for i := len(offs) - 1; i >= 0; i-- {
		b.PrependUOffsetT(offs[i])
	}
	return b.EndVector(len(offs))
}

// Build assembles spec into a Model flatbuffer with exactly one subgraph,
// ready to hand to tflite.GetRootAsModel(buf, 0).
func Build(spec Spec) []byte {
	b := flatbuffers.NewBuilder(1024)

	bufferOffs := make([]flatbuffers.UOffsetT, len(spec.Buffers))
	for i, bs := range spec.Buffers {
		dataVec := byteVector(b, bs.Data)
		b.StartObject(1)
		if dataVec != 0 {
			b.PrependUOffsetTSlot(0, dataVec, 0)
		}
		bufferOffs[i] = b.EndObject()
	}

	tensorOffs := make([]flatbuffers.UOffsetT, len(spec.Tensors))
	for i, ts := range spec.Tensors {
		nameOff := b.CreateString(ts.Name)
		shapeVec := int32Vector(b, ts.Shape)
		b.StartObject(4)
		if shapeVec != 0 {
			b.PrependUOffsetTSlot(0, shapeVec, 0)
		}
		b.PrependInt8Slot(1, ts.Type, 0)
		b.PrependUint32Slot(2, ts.Buffer, 0)
		b.PrependUOffsetTSlot(3, nameOff, 0)
		tensorOffs[i] = b.EndObject()
	}

	opOffs := make([]flatbuffers.UOffsetT, len(spec.Operators))
	for i, os := range spec.Operators {
		inputsVec := int32Vector(b, os.Inputs)
		outputsVec := int32Vector(b, os.Outputs)

		var poolOff flatbuffers.UOffsetT
		if os.Pool2D != nil {
			b.StartObject(5)
			b.PrependInt32Slot(3, os.Pool2D.FilterWidth, 0)
			b.PrependInt32Slot(4, os.Pool2D.FilterHeight, 0)
			poolOff = b.EndObject()
		}

		b.StartObject(5)
		b.PrependUint32Slot(0, os.OpcodeIndex, 0)
		if inputsVec != 0 {
			b.PrependUOffsetTSlot(1, inputsVec, 0)
		}
		if outputsVec != 0 {
			b.PrependUOffsetTSlot(2, outputsVec, 0)
		}
		if poolOff != 0 {
			b.PrependUOffsetTSlot(4, poolOff, 0)
		}
		opOffs[i] = b.EndObject()
	}

	ocOffs := make([]flatbuffers.UOffsetT, len(spec.OperatorCodes))
	for i, ocs := range spec.OperatorCodes {
		b.StartObject(4)
		b.PrependInt32Slot(3, ocs.BuiltinCode, 0)
		ocOffs[i] = b.EndObject()
	}

	tensorsVec := offsetVector(b, tensorOffs)
	inputsVec := int32Vector(b, spec.Inputs)
	outputsVec := int32Vector(b, spec.Outputs)
	operatorsVec := offsetVector(b, opOffs)

	b.StartObject(5)
	b.PrependUOffsetTSlot(0, tensorsVec, 0)
	if inputsVec != 0 {
		b.PrependUOffsetTSlot(1, inputsVec, 0)
	}
	if outputsVec != 0 {
		b.PrependUOffsetTSlot(2, outputsVec, 0)
	}
	b.PrependUOffsetTSlot(3, operatorsVec, 0)
	sgOff := b.EndObject()

	subgraphsVec := offsetVector(b, []flatbuffers.UOffsetT{sgOff})
	operatorCodesVec := offsetVector(b, ocOffs)
	buffersVec := offsetVector(b, bufferOffs)

	b.StartObject(5)
	b.PrependUOffsetTSlot(1, operatorCodesVec, 0)
	b.PrependUOffsetTSlot(2, subgraphsVec, 0)
	b.PrependUOffsetTSlot(4, buffersVec, 0)
	modelOff := b.EndObject()

	b.Finish(modelOff)
	return b.FinishedBytes()
}
