// Package graph implements the tensor/operator arena nnsched analyzes: it
// builds the in-memory DAG from a parsed TFLite model (BuildGraph),
// classifies constants, and computes the transitive predecessor closure
// used by the optimal-schedule search.
//
// Tensors and operators back-reference each other (a tensor's Producer
// points at an Operator; an Operator's Inputs point at Tensors). Rather than
// model that as a reference-counted object graph, both live in owning
// slices on Graph and are addressed by their integer id — an arena
// sidesteps the cyclic references this shape would otherwise need.
package graph

import (
	"errors"

	"github.com/katalvlaran/nnsched/tflite"
)

// Sentinel errors for graph construction.
var (
	// ErrMultiOutputUnsupported indicates an operator declaring zero or more
	// than one output tensor.
	ErrMultiOutputUnsupported = errors.New("graph: operator must have exactly one output")

	// ErrDanglingReference indicates an operator input/output index outside
	// the subgraph's tensor table, other than the -1 (absent input) sentinel.
	ErrDanglingReference = errors.New("graph: dangling tensor reference")

	// ErrCycleDetected indicates the predecessor walk revisited a tensor
	// already on its own recursion stack.
	ErrCycleDetected = errors.New("graph: cycle detected")

	// ErrMalformedModel indicates the subgraph itself could not be read —
	// a required flatbuffer field was absent or out of range.
	ErrMalformedModel = errors.New("graph: malformed model")
)

// ElementType is the closed set of tensor element types nnsched
// understands, a restriction of tflite.TensorType.
type ElementType int8

const (
	I8 ElementType = iota
	U8
	I16
	I32
	I64
	F16
	F32
)

// elementByteSizes is the per-element byte width, indexed by ElementType.
var elementByteSizes = [...]int{
	I8:  1,
	U8:  1,
	I16: 2,
	I32: 4,
	I64: 8,
	F16: 2,
	F32: 4,
}

// ByteSize returns the per-element byte size for t.
func (t ElementType) ByteSize() int {
	return elementByteSizes[t]
}

var elementTypeNames = [...]string{
	I8: "I8", U8: "U8", I16: "I16", I32: "I32", I64: "I64", F16: "F16", F32: "F32",
}

func (t ElementType) String() string {
	if int(t) < 0 || int(t) >= len(elementTypeNames) {
		return "UNKNOWN"
	}
	return elementTypeNames[t]
}

// fromTensorType narrows the schema's TensorType to nnsched's closed
// ElementType set; ok is false for any type outside that set, which
// BuildGraph rejects with ErrUnsupportedType.
func fromTensorType(tt tflite.TensorType) (ElementType, bool) {
	switch tt {
	case tflite.INT8:
		return I8, true
	case tflite.UINT8:
		return U8, true
	case tflite.INT16:
		return I16, true
	case tflite.INT32:
		return I32, true
	case tflite.INT64:
		return I64, true
	case tflite.FLOAT16:
		return F16, true
	case tflite.FLOAT32:
		return F32, true
	default:
		return 0, false
	}
}

// Tensor is a node of the activation/weight graph.
type Tensor struct {
	// ID is the tensor's stable index, matching its position in the
	// model's tensor list. Never reassigned after BuildGraph.
	ID int

	// Shape is the ordered sequence of positive dimension sizes.
	Shape []int

	// Name is an informational label; never used as an identity key.
	Name string

	// ElementType determines the per-element byte size.
	ElementType ElementType

	// Producer is the unique Operator producing this tensor, or nil for a
	// graph input or a constant.
	Producer *Operator

	// Consumers holds every Operator referencing this tensor as an input.
	// Order is build order, not significant.
	Consumers []*Operator

	// IsConstant is true iff Producer == nil and the tensor is not a graph
	// input.
	IsConstant bool

	predecessors map[int]*Tensor // memoized by id; nil until first computed
}

// Size is the activation-memory footprint of t: zero for constants, which
// live in weight storage rather than the working set.
func (t *Tensor) Size() int {
	if t.IsConstant {
		return 0
	}
	return t.ConstSize()
}

// ConstSize is product(shape) * element byte size, unconditionally — used
// to report weight storage regardless of whether t is a constant.
func (t *Tensor) ConstSize() int {
	n := t.ElementType.ByteSize()
	for _, d := range t.Shape {
		n *= d
	}
	return n
}

// Operator is a node computing one output tensor from an ordered list of
// input tensors.
type Operator struct {
	// ID is this operator's position in the current schedule; mutated by
	// nnsched/rewrite when the schedule changes.
	ID int

	// Opcode is the operator kind, resolved from the model's OperatorCode
	// table.
	Opcode tflite.BuiltinOperator

	// Inputs is the ordered input list; a nil entry encodes an optional
	// input left absent (e.g. bias).
	Inputs []*Tensor

	// Output is this operator's single produced tensor.
	Output *Tensor

	// Options is the Pool2DOptions payload of an AVERAGE_POOL_2D or
	// MAX_POOL_2D operator, read by the cost model for the pooling window;
	// nil for every other opcode.
	Options *tflite.Pool2DOptions
}

// NonEmptyInputs returns Inputs with absent (nil) slots removed.
func (o *Operator) NonEmptyInputs() []*Tensor {
	out := make([]*Tensor, 0, len(o.Inputs))
	for _, t := range o.Inputs {
		if t != nil {
			out = append(out, t)
		}
	}
	return out
}

// Graph is the built operator/tensor DAG for the model's single subgraph.
// It is owned exclusively by its builder under a single-threaded
// ownership contract; nothing in this module shares a Graph across
// goroutines.
type Graph struct {
	Tensors   []*Tensor
	Operators []*Operator
	Inputs    []*Tensor
	Outputs   []*Tensor
}
