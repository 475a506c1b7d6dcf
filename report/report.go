// Package report renders the analysis results nnsched computes — per-tensor
// detail, an execution schedule, and a peak-memory plot — in the formats
// this module's reporting needs: console tables, CSV, and a PNG bar chart.
package report

import (
	"fmt"
	"image/color"
	"io"
	"sort"
	"strconv"
	"strings"

	"github.com/olekukonko/tablewriter"
	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"

	"github.com/katalvlaran/nnsched/cost"
	"github.com/katalvlaran/nnsched/graph"
	"github.com/katalvlaran/nnsched/lifetime"
)

// TensorTable renders one row per tensor: id, name, shape, element type,
// byte size, and whether it is a constant.
func TensorTable(w io.Writer, g *graph.Graph) {
	table := tablewriter.NewWriter(w)
	table.SetHeader([]string{"ID", "Name", "Shape", "Type", "Bytes", "Constant"})
	for _, t := range g.Tensors {
		table.Append([]string{
			strconv.Itoa(t.ID),
			shortenName(t.Name),
			fmt.Sprint(t.Shape),
			t.ElementType.String(),
			strconv.Itoa(t.ConstSize()),
			strconv.FormatBool(t.IsConstant),
		})
	}
	table.Render()
}

// ScheduleTable renders one row per operator in order: its position,
// opcode, output tensor, the tensors live in memory at that step, weight
// bytes, the activation working-set size, and MAC count.
func ScheduleTable(w io.Writer, g *graph.Graph, order []*graph.Operator, a *lifetime.Analysis) {
	table := tablewriter.NewWriter(w)
	table.SetHeader([]string{"Step", "Opcode", "Output", "Live tensor IDs", "Weight bytes", "Working set bytes", "MACs"})
	for step, op := range order {
		table.Append([]string{
			strconv.Itoa(step),
			op.Opcode.Name(),
			shortenName(op.Output.Name),
			liveTensorIDs(a, g, step),
			strconv.Itoa(cost.WeightBytes(op)),
			strconv.Itoa(a.WorkingSetBytes(g, step)),
			strconv.FormatInt(cost.ForOperator(op).Compute, 10),
		})
	}
	table.Render()
}

// liveTensorIDs formats the working set at step k as a sorted,
// comma-separated list of tensor ids, matching the original's
// "Tensors in memory (IDs)" column.
func liveTensorIDs(a *lifetime.Analysis, g *graph.Graph, k int) string {
	ws := a.WorkingSet(g, k)
	ids := make([]int, len(ws))
	for i, t := range ws {
		ids[i] = t.ID
	}
	sort.Ints(ids)
	parts := make([]string, len(ids))
	for i, id := range ids {
		parts[i] = strconv.Itoa(id)
	}
	return strings.Join(parts, ",")
}

// PlotPeakMemory renders a per-step working-set bar chart to path (PNG), one
// stacked bar per execution step partitioned into the step's operator
// inputs, its output, and every other tensor still live — the three
// partitions always sum to the step's reported working-set bytes.
func PlotPeakMemory(path string, g *graph.Graph, order []*graph.Operator, a *lifetime.Analysis) error {
	inputs := make(plotter.Values, len(order))
	outputs := make(plotter.Values, len(order))
	others := make(plotter.Values, len(order))
	for step, op := range order {
		in, out, other := a.Partition(g, op, step)
		inputs[step] = float64(in)
		outputs[step] = float64(out)
		others[step] = float64(other)
	}

	p := plot.New()
	p.Title.Text = "Activation working set by execution step"
	p.X.Label.Text = "Step"
	p.Y.Label.Text = "Bytes"

	inputBars, err := plotter.NewBarChart(inputs, vg.Points(12))
	if err != nil {
		return fmt.Errorf("report: build input bar chart: %w", err)
	}
	inputBars.Color = color.RGBA{R: 0x4c, G: 0x78, B: 0xa8, A: 0xff}

	outputBars, err := plotter.NewBarChart(outputs, vg.Points(12))
	if err != nil {
		return fmt.Errorf("report: build output bar chart: %w", err)
	}
	outputBars.Color = color.RGBA{R: 0xe4, G: 0x5c, B: 0x3a, A: 0xff}
	outputBars.StackOn(inputBars)

	otherBars, err := plotter.NewBarChart(others, vg.Points(12))
	if err != nil {
		return fmt.Errorf("report: build other-live bar chart: %w", err)
	}
	otherBars.Color = color.RGBA{R: 0x9a, G: 0x9a, B: 0x9a, A: 0xff}
	otherBars.StackOn(outputBars)

	p.Add(inputBars, outputBars, otherBars)
	p.Legend.Add("Operator inputs", inputBars)
	p.Legend.Add("Operator output", outputBars)
	p.Legend.Add("Other live tensors", otherBars)

	if err := p.Save(10*vg.Inch, 4*vg.Inch, path); err != nil {
		return fmt.Errorf("report: save plot %s: %w", path, err)
	}
	return nil
}
