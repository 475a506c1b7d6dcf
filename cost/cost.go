// Package cost implements the MAC cost model: per-operator
// multiply-accumulate counts and cumulative weight-byte sums, weighted by
// caller-supplied memory-access/compute coefficients.
package cost

import (
	"github.com/katalvlaran/nnsched/graph"
	"github.com/katalvlaran/nnsched/tflite"
)

// MACs is one operator's cost-model output: `loads` is the
// count of memory-access-weighted element touches, `compute` the count of
// compute-weighted multiply-accumulates.
type MACs struct {
	Loads   int64
	Compute int64
}

// Weighted combines loads and compute into a single score:
// memAccessWeight*loads + computeWeight*compute.
func (m MACs) Weighted(memAccessWeight, computeWeight float64) float64 {
	return memAccessWeight*float64(m.Loads) + computeWeight*float64(m.Compute)
}

func shapeProduct(shape []int) int64 {
	n := int64(1)
	for _, d := range shape {
		n *= int64(d)
	}
	return n
}

// ForOperator computes op's MACs per the per-opcode cost table. Opcodes outside
// the table contribute zero, matching the source's behavior of silently
// skipping unmodeled ops rather than failing the whole report.
func ForOperator(op *graph.Operator) MACs {
	switch op.Opcode {
	case tflite.CONV_2D:
		kernel, bias := opInput(op, 1), opInput(op, 2)
		oC, kH, kW, iC := dim4(kernel.Shape)
		n, oH, oW, _ := dim4(op.Output.Shape)
		work := int64(n) * int64(oH) * int64(oW) * int64(oC) * int64(kH) * int64(kW) * int64(iC)
		loads, compute := 2*work, work
		if bias != nil {
			loads += int64(n) * int64(oH) * int64(oW) * int64(oC)
		}
		return MACs{Loads: loads, Compute: compute}

	case tflite.DEPTHWISE_CONV_2D:
		kernel, bias := opInput(op, 1), opInput(op, 2)
		_, kH, kW, c := dim4(kernel.Shape)
		n, oH, oW, _ := dim4(op.Output.Shape)
		work := int64(n) * int64(c) * int64(oH) * int64(oW) * int64(kH) * int64(kW)
		loads, compute := 2*work, work
		if bias != nil {
			loads += int64(n) * int64(c) * int64(oH) * int64(oW)
		}
		return MACs{Loads: loads, Compute: compute}

	case tflite.FULLY_CONNECTED:
		input, bias := opInput(op, 0), opInput(op, 2)
		outShape := op.Output.Shape
		n := int64(1)
		if len(outShape) > 0 {
			n = int64(outShape[0])
		}
		outDim := int64(0)
		if len(outShape) > 0 {
			outDim = int64(outShape[len(outShape)-1])
		}
		inDim := int64(0)
		if len(input.Shape) > 0 {
			inDim = int64(input.Shape[len(input.Shape)-1])
		}
		work := n * inDim * outDim
		loads, compute := 2*work, work
		if bias != nil {
			loads += n * outDim
		}
		return MACs{Loads: loads, Compute: compute}

	case tflite.MEAN:
		input := opInput(op, 0)
		work := shapeProduct(input.Shape)
		return MACs{Loads: work, Compute: work}

	case tflite.AVERAGE_POOL_2D, tflite.MAX_POOL_2D:
		n, oH, oW, c := dim4(op.Output.Shape)
		poolW, poolH := int64(0), int64(0)
		if op.Options != nil {
			poolW, poolH = int64(op.Options.FilterWidth()), int64(op.Options.FilterHeight())
		}
		work := int64(n) * int64(oH) * int64(oW) * int64(c) * poolH * poolW
		return MACs{Loads: work, Compute: work}

	case tflite.ADD:
		numTerms := int64(len(op.NonEmptyInputs()))
		elemsPerOutput := shapeProduct(op.Output.Shape)
		loads := numTerms * elemsPerOutput
		compute := (numTerms - 1) * elemsPerOutput
		return MACs{Loads: loads, Compute: compute}

	default:
		return MACs{}
	}
}

// WeightBytes is the sum of ConstSize over op's constant inputs.
func WeightBytes(op *graph.Operator) int {
	total := 0
	for _, t := range op.NonEmptyInputs() {
		if t.IsConstant {
			total += t.ConstSize()
		}
	}
	return total
}

// TotalMACs sums MACs over every operator of g in schedule order. g.Operators
// is an ordered slice, not a map, so iteration order is always the
// schedule's own order.
func TotalMACs(g *graph.Graph, memAccessWeight, computeWeight float64) float64 {
	var total float64
	for _, op := range g.Operators {
		total += ForOperator(op).Weighted(memAccessWeight, computeWeight)
	}
	return total
}

func opInput(op *graph.Operator, i int) *graph.Tensor {
	if i >= len(op.Inputs) {
		return nil
	}
	return op.Inputs[i]
}

// dim4 reads a rank-4 shape, returning zeros for any missing trailing
// dimension (defensive against malformed but otherwise-acceptable models).
func dim4(shape []int) (a, b, c, d int) {
	get := func(i int) int {
		if i < len(shape) {
			return shape[i]
		}
		return 0
	}
	return get(0), get(1), get(2), get(3)
}
