// Package schedule implements the optimal execution-order search: the
// backward, memoized subset search that finds an operator order
// minimizing peak activation-memory usage.
package schedule

import (
	"errors"
	"sort"
	"strconv"
	"strings"

	"github.com/katalvlaran/nnsched/graph"
)

// ErrEmptyGraph is returned when the graph has no operators to schedule.
var ErrEmptyGraph = errors.New("schedule: graph has no operators")

// Result is the outcome of a schedule search: the peak activation-memory
// footprint the order achieves, and the order itself.
type Result struct {
	PeakBytes int
	Order     []*graph.Operator
}

// tensorSet is the frozen set of tensors that must currently reside in
// memory, represented as a map keyed by tensor id for O(1) membership and
// removal.
type tensorSet map[int]*graph.Tensor

func newTensorSet(ts []*graph.Tensor) tensorSet {
	s := make(tensorSet, len(ts))
	for _, t := range ts {
		s[t.ID] = t
	}
	return s
}

func (s tensorSet) without(id int) tensorSet {
	out := make(tensorSet, len(s))
	for k, v := range s {
		if k != id {
			out[k] = v
		}
	}
	return out
}

func (s tensorSet) with(ts []*graph.Tensor) tensorSet {
	out := make(tensorSet, len(s)+len(ts))
	for k, v := range s {
		out[k] = v
	}
	for _, t := range ts {
		out[t.ID] = t
	}
	return out
}

func (s tensorSet) sortedIDs() []int {
	ids := make([]int, 0, len(s))
	for id := range s {
		ids = append(ids, id)
	}
	sort.Ints(ids)
	return ids
}

// key is the canonical string identity of a frozen set, used as the
// memoization cache key — sorted-id strings give the same
// equality-by-membership semantics a frozenset would.
func (s tensorSet) key() string {
	ids := s.sortedIDs()
	parts := make([]string, len(ids))
	for i, id := range ids {
		parts[i] = strconv.Itoa(id)
	}
	return strings.Join(parts, ",")
}

func (s tensorSet) sumSizes() int {
	total := 0
	for _, t := range s {
		total += t.Size()
	}
	return total
}

// memoResult is one cached (peak, order) pair, keyed by set identity.
type memoResult struct {
	peak  int
	order []*graph.Operator
}

// solver holds the memoization cache for a single top-level Solve call;
// the cache is bounded to the lifetime of that one call, never shared
// across models.
type solver struct {
	cache map[string]memoResult
}

// Solve finds the operator order minimizing peak activation memory for g,
// via a backward subset search. The search starts from g's graph outputs
// and works backward through producers.
func Solve(g *graph.Graph) (*Result, error) {
	if len(g.Operators) == 0 {
		return nil, ErrEmptyGraph
	}
	sv := &solver{cache: make(map[string]memoResult)}
	peak, order, err := sv.mem(newTensorSet(g.Outputs))
	if err != nil {
		return nil, err
	}
	return &Result{PeakBytes: peak, Order: order}, nil
}

// mem implements the core recursion: split off constants, handle the
// empty-set base case, then try removing each remaining candidate tensor
// and keep whichever minimizes the resulting peak.
func (sv *solver) mem(s tensorSet) (int, []*graph.Operator, error) {
	key := s.key()
	if cached, ok := sv.cache[key]; ok {
		return cached.peak, cached.order, nil
	}

	peak, order, err := sv.memUncached(s)
	if err != nil {
		return 0, nil, err
	}
	sv.cache[key] = memoResult{peak: peak, order: order}
	return peak, order, nil
}

func (sv *solver) memUncached(s tensorSet) (int, []*graph.Operator, error) {
	// Step 1: split off tensors with no producer, which never drive the
	// search further — fold their weight bytes into the peak and recurse
	// on the rest. This is producer-absence, not graph.Tensor.IsConstant:
	// a graph input feeding multiple operators that later reconverge must
	// fold out of the search the same way a constant kernel does, even
	// though IsConstant is false for it.
	var noProducer, withProducer []*graph.Tensor
	for _, id := range s.sortedIDs() {
		t := s[id]
		if t.Producer == nil {
			noProducer = append(noProducer, t)
		} else {
			withProducer = append(withProducer, t)
		}
	}
	if len(noProducer) > 0 {
		rest := newTensorSet(withProducer)
		peak, order, err := sv.mem(rest)
		if err != nil {
			return 0, nil, err
		}
		foldedBytes := 0
		for _, c := range noProducer {
			foldedBytes += c.ConstSize()
		}
		return peak + foldedBytes, order, nil
	}

	// Step 2: base case.
	if len(s) == 0 {
		return 0, nil, nil
	}

	// Step 3: try removing each candidate tensor, keep the cheapest.
	bestPeak := -1
	var bestOrder []*graph.Operator
	for _, id := range s.sortedIDs() {
		t := s[id]

		isBlocked, err := blocked(s, id)
		if err != nil {
			return 0, nil, err
		}
		if isBlocked {
			continue
		}

		var newAdds []*graph.Tensor
		var producer *graph.Operator
		if t.Producer != nil {
			producer = t.Producer
			newAdds = t.Producer.NonEmptyInputs()
		}
		newS := s.without(id).with(newAdds)

		upstreamPeak, upstreamOrder, err := sv.mem(newS)
		if err != nil {
			return 0, nil, err
		}

		candidatePeak := upstreamPeak
		if here := newS.with([]*graph.Tensor{t}).sumSizes(); here > candidatePeak {
			candidatePeak = here
		}

		if bestPeak == -1 || candidatePeak < bestPeak {
			bestPeak = candidatePeak
			if producer != nil {
				bestOrder = append(append([]*graph.Operator(nil), upstreamOrder...), producer)
			} else {
				bestOrder = upstreamOrder
			}
		}
	}

	if bestPeak == -1 {
		// Every candidate was blocked — s has no tensor that can be legally
		// removed next. This cannot happen for a well-formed acyclic graph
		// reached from graph outputs.
		return 0, nil, errors.New("schedule: no removable tensor in non-empty set")
	}

	return bestPeak, bestOrder, nil
}

// blocked reports whether removing the tensor with the given id from s
// right now would discard a tensor still required by another member of s:
// true iff some other r in s has id among r's predecessors.
func blocked(s tensorSet, id int) (bool, error) {
	for rid, r := range s {
		if rid == id {
			continue
		}
		preds, err := r.Predecessors()
		if err != nil {
			return false, err
		}
		if _, ok := preds[id]; ok {
			return true, nil
		}
	}
	return false, nil
}
