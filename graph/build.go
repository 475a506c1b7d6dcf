package graph

import (
	"fmt"

	"github.com/katalvlaran/nnsched/tflite"
)

// BuildGraph materializes the Tensor/Operator DAG from a parsed model's
// subgraph 0. It is the sole entry point for turning raw flatbuffer bytes
// into a Graph; nothing downstream re-parses the model.
func BuildGraph(model *tflite.Model) (*Graph, error) {
	if model.SubgraphsLength() == 0 {
		return nil, fmt.Errorf("%w: model has no subgraphs", ErrMalformedModel)
	}
	sg := model.Subgraphs(0)
	if sg == nil {
		return nil, fmt.Errorf("%w: subgraph 0 missing", ErrMalformedModel)
	}

	numTensors := sg.TensorsLength()
	tensors := make([]*Tensor, numTensors)
	for i := 0; i < numTensors; i++ {
		ft := sg.Tensors(i)
		if ft == nil {
			return nil, fmt.Errorf("%w: tensor %d missing", ErrMalformedModel, i)
		}
		et, ok := fromTensorType(ft.Type())
		if !ok {
			return nil, fmt.Errorf("%w: tensor %d has unsupported element type", ErrUnsupportedType, i)
		}
		shape := make([]int, ft.ShapeLength())
		for d := range shape {
			shape[d] = int(ft.Shape(d))
		}
		tensors[i] = &Tensor{
			ID:          i,
			Shape:       shape,
			Name:        string(ft.Name()),
			ElementType: et,
			Consumers:   nil,
		}
	}

	numOps := sg.OperatorsLength()
	operators := make([]*Operator, numOps)
	for i := 0; i < numOps; i++ {
		fop := sg.Operators(i)
		if fop == nil {
			return nil, fmt.Errorf("%w: operator %d missing", ErrMalformedModel, i)
		}

		numOutputs := fop.OutputsLength()
		if numOutputs != 1 {
			return nil, fmt.Errorf("%w: operator %d declares %d outputs", ErrMultiOutputUnsupported, i, numOutputs)
		}
		outIdx := int(fop.Outputs(0))
		if outIdx < 0 || outIdx >= numTensors {
			return nil, fmt.Errorf("%w: operator %d output index %d", ErrDanglingReference, i, outIdx)
		}

		numInputs := fop.InputsLength()
		if numInputs == 0 {
			return nil, fmt.Errorf("%w: operator %d has no inputs", ErrMalformedModel, i)
		}
		inputs := make([]*Tensor, numInputs)
		for j := 0; j < numInputs; j++ {
			idx := int(fop.Inputs(j))
			if idx == -1 {
				continue // absent optional input, preserve positional slot
			}
			if idx < 0 || idx >= numTensors {
				return nil, fmt.Errorf("%w: operator %d input %d index %d", ErrDanglingReference, i, j, idx)
			}
			inputs[j] = tensors[idx]
		}

		opcodeIdx := int(fop.OpcodeIndex())
		if opcodeIdx < 0 || opcodeIdx >= model.OperatorCodesLength() {
			return nil, fmt.Errorf("%w: operator %d opcode index %d", ErrDanglingReference, i, opcodeIdx)
		}
		opcode := model.OperatorCodes(opcodeIdx).BuiltinCode()

		var options *tflite.Pool2DOptions
		if opcode == tflite.AVERAGE_POOL_2D || opcode == tflite.MAX_POOL_2D {
			if raw := fop.BuiltinOptions(); raw != nil {
				options = tflite.NewPool2DOptions(raw)
			}
		}

		op := &Operator{
			ID:      i,
			Opcode:  opcode,
			Inputs:  inputs,
			Output:  tensors[outIdx],
			Options: options,
		}
		if op.Output.Producer != nil {
			return nil, fmt.Errorf("%w: tensor %d has multiple producers", ErrMalformedModel, outIdx)
		}
		op.Output.Producer = op
		for _, t := range op.NonEmptyInputs() {
			t.Consumers = append(t.Consumers, op)
		}
		operators[i] = op
	}

	graphInputs := make([]*Tensor, sg.InputsLength())
	for i := range graphInputs {
		idx := int(sg.Inputs(i))
		if idx < 0 || idx >= numTensors {
			return nil, fmt.Errorf("%w: graph input index %d", ErrDanglingReference, idx)
		}
		graphInputs[i] = tensors[idx]
	}
	graphOutputs := make([]*Tensor, sg.OutputsLength())
	for i := range graphOutputs {
		idx := int(sg.Outputs(i))
		if idx < 0 || idx >= numTensors {
			return nil, fmt.Errorf("%w: graph output index %d", ErrDanglingReference, idx)
		}
		graphOutputs[i] = tensors[idx]
	}

	isGraphInput := make(map[int]bool, len(graphInputs))
	for _, t := range graphInputs {
		isGraphInput[t.ID] = true
	}
	for _, t := range tensors {
		t.IsConstant = t.Producer == nil && !isGraphInput[t.ID]
	}

	g := &Graph{Tensors: tensors, Operators: operators, Inputs: graphInputs, Outputs: graphOutputs}

	// Precompute predecessors for every output, recursively covering every
	// tensor that feeds one; this also surfaces ErrCycleDetected eagerly
	// rather than lazily on first query.
	for _, out := range graphOutputs {
		if _, err := out.Predecessors(); err != nil {
			return nil, err
		}
	}

	return g, nil
}
