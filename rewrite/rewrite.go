// Package rewrite implements the in-place model rewriter: it
// reorders a subgraph's operator vector by patching the flatbuffer's
// indirection-table offsets directly, without re-serializing the model.
package rewrite

import (
	"encoding/binary"
	"errors"
	"fmt"

	"github.com/katalvlaran/nnsched/graph"
	"github.com/katalvlaran/nnsched/tflite"
)

// ErrUnsupportedSubgraph is returned when asked to rewrite anything but
// subgraph 0 — only the first subgraph is supported.
var ErrUnsupportedSubgraph = errors.New("rewrite: only subgraph 0 is supported")

// ErrNotWritable is returned when the subgraph carries no operator vector
// to patch, or its length disagrees with the order being applied.
var ErrNotWritable = errors.New("rewrite: subgraph operator vector is not writable")

// ErrOrderMismatch is returned when order is not a permutation of every
// operator currently in g.
var ErrOrderMismatch = errors.New("rewrite: order is not a permutation of the graph's operators")

// Result reports what the rewrite did.
type Result struct {
	// AlreadyOptimal is true when order already matched the subgraph's
	// current operator sequence, and no bytes were touched.
	AlreadyOptimal bool
}

// Apply reorders subgraphIndex's operator vector to match order, patching
// the flatbuffer's 32-bit offset table in place.
// On success it also renumbers every operator's ID in g to its new
// position and resorts g.Operators to match.
//
// order must name every operator of g exactly once; its current order is
// read from each operator's ID at call time, before any IDs are mutated.
func Apply(g *graph.Graph, sg *tflite.SubGraph, subgraphIndex int, order []*graph.Operator) (Result, error) {
	if subgraphIndex != 0 {
		return Result{}, fmt.Errorf("%w: got index %d", ErrUnsupportedSubgraph, subgraphIndex)
	}
	if len(order) != len(g.Operators) {
		return Result{}, fmt.Errorf("%w: order has %d operators, graph has %d", ErrOrderMismatch, len(order), len(g.Operators))
	}

	pos, length, ok := sg.OperatorsIndirectionTable()
	if !ok {
		return Result{}, ErrNotWritable
	}
	if length != len(order) {
		return Result{}, fmt.Errorf("%w: vector has %d entries, order has %d", ErrNotWritable, length, len(order))
	}

	// Capture each target operator's *current* id before anything moves;
	// step 4's formula reads old_offset[j] where j is that current id.
	originalIDs := make([]int, len(order))
	seen := make(map[int]bool, len(order))
	for i, op := range order {
		if seen[op.ID] {
			return Result{}, fmt.Errorf("%w: operator id %d appears twice in order", ErrOrderMismatch, op.ID)
		}
		seen[op.ID] = true
		originalIDs[i] = op.ID
	}

	if alreadySorted(originalIDs) {
		return Result{AlreadyOptimal: true}, nil
	}

	raw := sg.Bytes()
	snapshot := make([]uint32, length)
	for j := 0; j < length; j++ {
		snapshot[j] = binary.LittleEndian.Uint32(raw[int(pos)+4*j:])
	}

	for i, j := range originalIDs {
		delta := int64(j-i) * 4
		newOffset := uint32(int64(snapshot[j]) + delta)
		binary.LittleEndian.PutUint32(raw[int(pos)+4*i:], newOffset)
	}

	for i, op := range order {
		op.ID = i
	}
	sortOperatorsByID(g)

	return Result{}, nil
}

// alreadySorted reports whether ids is exactly 0, 1, 2, ..., len(ids)-1 in
// order — the "no-op" condition of the rewriter's skipping rule.
func alreadySorted(ids []int) bool {
	for i, id := range ids {
		if id != i {
			return false
		}
	}
	return true
}

func sortOperatorsByID(g *graph.Graph) {
	byID := make([]*graph.Operator, len(g.Operators))
	for _, op := range g.Operators {
		byID[op.ID] = op
	}
	g.Operators = byID
}
