package report

import (
	"encoding/csv"
	"fmt"
	"os"
	"strconv"

	"github.com/katalvlaran/nnsched/cost"
	"github.com/katalvlaran/nnsched/graph"
	"github.com/katalvlaran/nnsched/lifetime"
)

// WriteCSV writes the same per-operator rows as ScheduleTable to path, for
// callers that want to load the schedule into a spreadsheet rather than
// read it off a terminal.
func WriteCSV(path string, g *graph.Graph, order []*graph.Operator, a *lifetime.Analysis) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("report: create %s: %w", path, err)
	}
	defer f.Close()

	w := csv.NewWriter(f)
	defer w.Flush()

	if err := w.Write([]string{"step", "opcode", "output", "live_tensor_ids", "weight_bytes", "working_set_bytes", "macs"}); err != nil {
		return err
	}
	for step, op := range order {
		row := []string{
			strconv.Itoa(step),
			op.Opcode.Name(),
			op.Output.Name,
			liveTensorIDs(a, g, step),
			strconv.Itoa(cost.WeightBytes(op)),
			strconv.Itoa(a.WorkingSetBytes(g, step)),
			strconv.FormatInt(cost.ForOperator(op).Compute, 10),
		}
		if err := w.Write(row); err != nil {
			return err
		}
	}
	return w.Error()
}

// WriteTensorCSV writes one row per tensor (id, name, shape, element type,
// byte size, constant flag) to path.
func WriteTensorCSV(path string, g *graph.Graph) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("report: create %s: %w", path, err)
	}
	defer f.Close()

	w := csv.NewWriter(f)
	defer w.Flush()

	if err := w.Write([]string{"id", "name", "shape", "type", "bytes", "constant"}); err != nil {
		return err
	}
	for _, t := range g.Tensors {
		row := []string{
			strconv.Itoa(t.ID),
			t.Name,
			fmt.Sprint(t.Shape),
			t.ElementType.String(),
			strconv.Itoa(t.ConstSize()),
			strconv.FormatBool(t.IsConstant),
		}
		if err := w.Write(row); err != nil {
			return err
		}
	}
	return w.Error()
}
