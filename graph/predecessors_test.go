package graph_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/katalvlaran/nnsched/graph"
)

// chain builds input -> op0 -> mid -> op1 -> out, wired by hand (no
// flatbuffer involved) since Tensor/Operator are plain structs.
func chain() (input, mid, out *graph.Tensor) {
	input = &graph.Tensor{ID: 0, IsConstant: false}
	mid = &graph.Tensor{ID: 1}
	out = &graph.Tensor{ID: 2}

	op0 := &graph.Operator{ID: 0, Inputs: []*graph.Tensor{input}, Output: mid}
	op1 := &graph.Operator{ID: 1, Inputs: []*graph.Tensor{mid}, Output: out}
	mid.Producer = op0
	out.Producer = op1
	input.Consumers = []*graph.Operator{op0}
	mid.Consumers = []*graph.Operator{op1}
	return
}

func TestPredecessors_Chain(t *testing.T) {
	input, mid, out := chain()

	preds, err := out.Predecessors()
	require.NoError(t, err)
	assert.Len(t, preds, 2)
	assert.Contains(t, preds, input.ID)
	assert.Contains(t, preds, mid.ID)

	// A second call must return the same memoized map, not recompute.
	preds2, err := out.Predecessors()
	require.NoError(t, err)
	assert.Equal(t, preds, preds2)
}

func TestPredecessors_GraphInputHasNone(t *testing.T) {
	input, _, _ := chain()
	preds, err := input.Predecessors()
	require.NoError(t, err)
	assert.Empty(t, preds)
}

func TestPredecessors_DiamondUnion(t *testing.T) {
	// a feeds both b and c, which both feed d: predecessors(d) == {a,b,c}.
	a := &graph.Tensor{ID: 0}
	b := &graph.Tensor{ID: 1}
	c := &graph.Tensor{ID: 2}
	d := &graph.Tensor{ID: 3}

	opB := &graph.Operator{ID: 0, Inputs: []*graph.Tensor{a}, Output: b}
	opC := &graph.Operator{ID: 1, Inputs: []*graph.Tensor{a}, Output: c}
	opD := &graph.Operator{ID: 2, Inputs: []*graph.Tensor{b, c}, Output: d}
	b.Producer, c.Producer, d.Producer = opB, opC, opD

	preds, err := d.Predecessors()
	require.NoError(t, err)
	assert.Len(t, preds, 3)
	for _, id := range []int{a.ID, b.ID, c.ID} {
		assert.Contains(t, preds, id)
	}
}

func TestPredecessors_CycleDetected(t *testing.T) {
	a := &graph.Tensor{ID: 0}
	b := &graph.Tensor{ID: 1}
	opA := &graph.Operator{ID: 0, Inputs: []*graph.Tensor{b}, Output: a}
	opB := &graph.Operator{ID: 1, Inputs: []*graph.Tensor{a}, Output: b}
	a.Producer, b.Producer = opA, opB

	_, err := a.Predecessors()
	assert.ErrorIs(t, err, graph.ErrCycleDetected)
}
