// Package lifetime computes, for a graph's *current* operator order, the
// first-use/last-use bounds and per-step working sets described in
// the quantities the cost/report packages read off to describe the
// schedule the graph is currently in (as opposed to nnsched/schedule,
// which searches for a *different*, better one).
package lifetime

import "github.com/katalvlaran/nnsched/graph"

// Bounds holds, for one tensor, the operator index it first becomes live at
// and the operator index after which it can be freed.
type Bounds struct {
	FirstUsed int // producer's id, or 0 if the tensor has no producer
	LastUsed  int // max consumer id, or numOperators if live through the end
}

// Analysis is the lifetime information for every tensor in a graph, keyed
// by tensor id, along with the operator count it was computed against.
type Analysis struct {
	NumOperators int
	Bounds       map[int]Bounds
}

// Analyze computes first-use/last-use bounds for every tensor in g under
// g's current operator order.
func Analyze(g *graph.Graph) *Analysis {
	numOps := len(g.Operators)
	bounds := make(map[int]Bounds, len(g.Tensors))
	for _, t := range g.Tensors {
		b := Bounds{FirstUsed: 0, LastUsed: numOps}
		if t.Producer != nil {
			b.FirstUsed = t.Producer.ID
		}
		if len(t.Consumers) > 0 {
			last := t.Consumers[0].ID
			for _, c := range t.Consumers[1:] {
				if c.ID > last {
					last = c.ID
				}
			}
			b.LastUsed = last
		}
		bounds[t.ID] = b
	}
	return &Analysis{NumOperators: numOps, Bounds: bounds}
}

// live reports whether t is a member of the working set at step k.
func (a *Analysis) live(t *graph.Tensor, k int) bool {
	b := a.Bounds[t.ID]
	return b.FirstUsed <= k && k <= b.LastUsed
}

// WorkingSet returns every tensor live at operator step k.
func (a *Analysis) WorkingSet(g *graph.Graph, k int) []*graph.Tensor {
	var ws []*graph.Tensor
	for _, t := range g.Tensors {
		if a.live(t, k) {
			ws = append(ws, t)
		}
	}
	return ws
}

// WorkingSetBytes is the activation-memory footprint of the working set at
// step k; constants are excluded.
func (a *Analysis) WorkingSetBytes(g *graph.Graph, k int) int {
	total := 0
	for _, t := range g.Tensors {
		if a.live(t, k) {
			total += t.Size()
		}
	}
	return total
}

// Partition splits the working set at step k into the bytes belonging to
// op's own inputs, op's own output, and everything else still live. op must
// be the operator running at step k (the caller's own schedule position,
// not necessarily g.Operators[k]). The three always sum to
// WorkingSetBytes(g, k).
func (a *Analysis) Partition(g *graph.Graph, op *graph.Operator, k int) (inputBytes, outputBytes, otherBytes int) {
	isInput := make(map[int]bool, len(op.Inputs))
	for _, t := range op.NonEmptyInputs() {
		isInput[t.ID] = true
	}
	for _, t := range a.WorkingSet(g, k) {
		switch {
		case t.ID == op.Output.ID:
			outputBytes += t.Size()
		case isInput[t.ID]:
			inputBytes += t.Size()
		default:
			otherBytes += t.Size()
		}
	}
	return inputBytes, outputBytes, otherBytes
}

// PeakMemory is the maximum working-set byte size across every step of g's
// current schedule.
func PeakMemory(g *graph.Graph) int {
	a := Analyze(g)
	peak := 0
	for k := 0; k < a.NumOperators; k++ {
		if b := a.WorkingSetBytes(g, k); b > peak {
			peak = b
		}
	}
	return peak
}
