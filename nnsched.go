package nnsched

import (
	"fmt"
	"io"

	"github.com/katalvlaran/nnsched/cluster"
	"github.com/katalvlaran/nnsched/cost"
	"github.com/katalvlaran/nnsched/graph"
	"github.com/katalvlaran/nnsched/lifetime"
	"github.com/katalvlaran/nnsched/report"
	"github.com/katalvlaran/nnsched/rewrite"
	"github.com/katalvlaran/nnsched/schedule"
	"github.com/katalvlaran/nnsched/tflite"
)

// clusterableOpcodes is the set of opcodes whose second input is a kernel
// tensor eligible for weight clustering.
var clusterableOpcodes = map[tflite.BuiltinOperator]bool{
	tflite.CONV_2D:           true,
	tflite.DEPTHWISE_CONV_2D: true,
	tflite.FULLY_CONNECTED:   true,
}

// Model is a loaded TFLite model together with its decoded graph. It owns
// the raw byte buffer exclusively: in-place operations
// mutate raw directly, and Bytes always reflects the model's current
// state.
type Model struct {
	raw   []byte
	fb    *tflite.Model
	sg    *tflite.SubGraph
	graph *graph.Graph
	cfg   config
}

// Load parses raw as a TFLite flatbuffer and builds its subgraph-0 graph.
// raw is retained, not copied; callers that need an immutable view must
// copy it first.
func Load(raw []byte, opts ...Option) (*Model, error) {
	cfg := defaultConfig()
	for _, opt := range opts {
		opt(&cfg)
	}

	fb := tflite.GetRootAsModel(raw, 0)
	if fb.SubgraphsLength() == 0 {
		return nil, fmt.Errorf("nnsched: %w", graph.ErrMalformedModel)
	}
	sg := fb.Subgraphs(0)

	g, err := graph.BuildGraph(fb)
	if err != nil {
		return nil, err
	}

	return &Model{raw: raw, fb: fb, sg: sg, graph: g, cfg: cfg}, nil
}

// Bytes returns the model's current backing bytes, reflecting any
// in-place mutation performed by ClusterWeights or OptimizeMemory so far.
func (m *Model) Bytes() []byte {
	return m.raw
}

// Graph exposes the decoded graph for callers that want direct access to
// cost/lifetime analysis beyond the convenience methods below.
func (m *Model) Graph() *graph.Graph {
	return m.graph
}

// ClusterWeights replaces every clusterable operator's kernel weights with
// their k-means-clustered centroids, in place.
func (m *Model) ClusterWeights() error {
	for _, op := range m.graph.Operators {
		if !clusterableOpcodes[op.Opcode] {
			continue
		}
		if len(op.Inputs) < 2 || op.Inputs[1] == nil {
			continue
		}
		kernel := op.Inputs[1]
		raw, err := m.bufferBytes(kernel)
		if err != nil {
			return err
		}
		if err := cluster.Cluster(kernel, raw, m.cfg.weightClusters); err != nil {
			return err
		}
	}
	return nil
}

// bufferBytes returns the writable byte slice backing t's constant data.
func (m *Model) bufferBytes(t *graph.Tensor) ([]byte, error) {
	ft := m.sg.Tensors(t.ID)
	if ft == nil {
		return nil, fmt.Errorf("nnsched: tensor %d missing from subgraph", t.ID)
	}
	buf := m.fb.Buffers(int(ft.Buffer()))
	if buf == nil {
		return nil, fmt.Errorf("nnsched: buffer for tensor %d missing", t.ID)
	}
	off, n := buf.DataOffset(), buf.DataLength()
	if off < 0 {
		return nil, fmt.Errorf("nnsched: tensor %d has no inline data", t.ID)
	}
	return buf.Bytes()[off : off+n], nil
}

// ComputeBestPeakMemoryUsage runs the optimal schedule search and returns
// the minimal achievable peak plus the order achieving it, without
// mutating the model.
func (m *Model) ComputeBestPeakMemoryUsage() (*schedule.Result, error) {
	return schedule.Solve(m.graph)
}

// OptimizeMemory searches for the peak-memory-minimizing operator order
// and, unless the model is already optimal, patches the subgraph's
// operator vector in place to match it.
func (m *Model) OptimizeMemory() (rewrite.Result, error) {
	best, err := schedule.Solve(m.graph)
	if err != nil {
		return rewrite.Result{}, err
	}
	return rewrite.Apply(m.graph, m.sg, 0, best.Order)
}

// CurrentPeakMemory reports the peak activation-memory footprint under
// the model's current (not necessarily optimal) operator order.
func (m *Model) CurrentPeakMemory() int {
	return lifetime.PeakMemory(m.graph)
}

// TotalCost returns the graph's total weighted MAC cost under the
// configured mem-access/compute weights.
func (m *Model) TotalCost() float64 {
	return cost.TotalMACs(m.graph, m.cfg.memAccessWeight, m.cfg.computeWeight)
}

// PrintModelAnalysis writes the tensor and execution-schedule tables for
// the model's current order to w.
func (m *Model) PrintModelAnalysis(w io.Writer) {
	a := lifetime.Analyze(m.graph)
	report.TensorTable(w, m.graph)
	report.ScheduleTable(w, m.graph, m.graph.Operators, a)
}

// OutputModelAnalysisToCSV writes tensor-detail and execution-schedule
// CSVs under the configured output directory, named
// "<prefix>_tensors.csv" and "<prefix>_schedule.csv".
func (m *Model) OutputModelAnalysisToCSV(prefix string) error {
	if err := report.WriteTensorCSV(m.cfg.outputDir+"/"+prefix+"_tensors.csv", m.graph); err != nil {
		return err
	}
	a := lifetime.Analyze(m.graph)
	return report.WriteCSV(m.cfg.outputDir+"/"+prefix+"_schedule.csv", m.graph, m.graph.Operators, a)
}

// PlotMemoryUsage writes a peak-memory bar chart to filename under the
// configured output directory.
func (m *Model) PlotMemoryUsage(filename string) error {
	a := lifetime.Analyze(m.graph)
	return report.PlotPeakMemory(m.cfg.outputDir+"/"+filename, m.graph, m.graph.Operators, a)
}
