package lifetime_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/katalvlaran/nnsched/graph"
	"github.com/katalvlaran/nnsched/lifetime"
)

// build returns a 3-op chain: input -> op0 -> mid1 -> op1 -> mid2 -> op2 ->
// out, each tensor sized 100 bytes (25 F32 elements), so working sets are
// easy to predict by hand.
func build() *graph.Graph {
	newT := func(id int) *graph.Tensor {
		return &graph.Tensor{ID: id, Shape: []int{25}, ElementType: graph.F32}
	}
	input := newT(0)
	mid1 := newT(1)
	mid2 := newT(2)
	out := newT(3)

	op0 := &graph.Operator{ID: 0, Inputs: []*graph.Tensor{input}, Output: mid1}
	op1 := &graph.Operator{ID: 1, Inputs: []*graph.Tensor{mid1}, Output: mid2}
	op2 := &graph.Operator{ID: 2, Inputs: []*graph.Tensor{mid2}, Output: out}
	mid1.Producer, mid2.Producer, out.Producer = op0, op1, op2
	input.Consumers = []*graph.Operator{op0}
	mid1.Consumers = []*graph.Operator{op1}
	mid2.Consumers = []*graph.Operator{op2}

	return &graph.Graph{
		Tensors:   []*graph.Tensor{input, mid1, mid2, out},
		Operators: []*graph.Operator{op0, op1, op2},
		Inputs:    []*graph.Tensor{input},
		Outputs:   []*graph.Tensor{out},
	}
}

func TestAnalyze_Bounds(t *testing.T) {
	g := build()
	a := lifetime.Analyze(g)

	// input has no producer (FirstUsed=0) and is last read by op0.
	assert.Equal(t, lifetime.Bounds{FirstUsed: 0, LastUsed: 0}, a.Bounds[0])
	// out has no consumers, so it is live through the end of the schedule.
	assert.Equal(t, lifetime.Bounds{FirstUsed: 2, LastUsed: 3}, a.Bounds[3])
}

func TestWorkingSetBytes_PerStep(t *testing.T) {
	g := build()
	a := lifetime.Analyze(g)

	// At step 0, input is still live (consumed by op0) and mid1 has just
	// been produced: both count toward the working set, 200 bytes.
	assert.Equal(t, 200, a.WorkingSetBytes(g, 0))
	// At step 1, mid1 (consumed by op1) and mid2 (just produced) overlap.
	assert.Equal(t, 200, a.WorkingSetBytes(g, 1))
}

func TestPeakMemory_TwoLiveTensorsPerStep(t *testing.T) {
	g := build()
	// Every step in this chain overlaps exactly one producer's input with
	// its output, so peak memory is twice one tensor's size.
	assert.Equal(t, 200, lifetime.PeakMemory(g))
}

func TestPartition_SumsToWorkingSetBytes(t *testing.T) {
	g := build()
	a := lifetime.Analyze(g)

	for step, op := range g.Operators {
		in, out, other := a.Partition(g, op, step)
		assert.Equal(t, a.WorkingSetBytes(g, step), in+out+other)
	}

	// At step 0, op0's own input (input) and output (mid1) are the whole
	// working set — nothing else is live, so other is zero.
	in, out, other := a.Partition(g, g.Operators[0], 0)
	assert.Equal(t, 100, in)
	assert.Equal(t, 100, out)
	assert.Equal(t, 0, other)
}

func TestWorkingSet_MembershipMatchesBytes(t *testing.T) {
	g := build()
	a := lifetime.Analyze(g)

	ws := a.WorkingSet(g, 0)
	assert.Len(t, ws, 2)
	assert.ElementsMatch(t, []int{0, 1}, []int{ws[0].ID, ws[1].ID})
}
