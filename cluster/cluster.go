// Package cluster implements the weight clusterer: k-means over
// a kernel tensor's decoded values, replacing each element with its
// cluster's rounded centroid and writing the result back into the
// tensor's backing buffer in place.
package cluster

import (
	"encoding/binary"
	"fmt"
	"math"

	"github.com/muesli/clusters"
	"github.com/muesli/kmeans"

	"github.com/katalvlaran/nnsched/graph"
)

// point pairs a coordinate with the flat index it came from, so a
// partition's members can be written back to the right buffer offset.
type point struct {
	coord clusters.Coordinates
	idx   int
}

func (p point) Coordinates() clusters.Coordinates { return p.coord }
func (p point) Distance(c clusters.Coordinates) float64 { return p.coord.Distance(c) }

// Cluster replaces every element of t's backing buffer raw with its
// k-means cluster's rounded centroid. raw must be the
// tensor's actual backing bytes (not a copy) for the mutation to stick.
func Cluster(t *graph.Tensor, raw []byte, numClusters int) error {
	decoded, err := graph.DecodeBuffer(t, raw)
	if err != nil {
		return fmt.Errorf("cluster: decode kernel %q: %w", t.Name, err)
	}
	values := flatten(decoded)
	if len(values) == 0 {
		return nil
	}
	if numClusters > len(values) {
		numClusters = len(values)
	}

	obs := make(clusters.Observations, len(values))
	for i, v := range values {
		obs[i] = point{coord: clusters.Coordinates{v}, idx: i}
	}

	km := kmeans.New()
	partitions, err := km.Partition(obs, numClusters)
	if err != nil {
		return fmt.Errorf("cluster: partition kernel %q: %w", t.Name, err)
	}

	centroids := make([]float64, len(values))
	for _, p := range partitions {
		center := p.Center[0]
		for _, o := range p.Observations {
			centroids[o.(point).idx] = center
		}
	}

	return writeBack(t, raw, centroids)
}

func flatten(d *graph.DecodedBuffer) []float64 {
	if d.Ints != nil {
		out := make([]float64, len(d.Ints))
		for i, v := range d.Ints {
			out[i] = float64(v)
		}
		return out
	}
	out := make([]float64, len(d.Floats))
	copy(out, d.Floats)
	return out
}

// writeBack rounds each centroid half-to-even to a 32-bit signed integer,
// saturates it to t.ElementType's range, and overwrites raw accordingly
// rounding policy: round-half-to-even, saturating to the element type.
func writeBack(t *graph.Tensor, raw []byte, centroids []float64) error {
	size := t.ElementType.ByteSize()
	if len(raw) < len(centroids)*size {
		return fmt.Errorf("cluster: buffer too small for %d elements of %q", len(centroids), t.Name)
	}
	for i, c := range centroids {
		rounded := saturate(int64(math.RoundToEven(c)), math.MinInt32, math.MaxInt32)
		if err := putElement(t.ElementType, raw[i*size:], rounded); err != nil {
			return err
		}
	}
	return nil
}

func putElement(et graph.ElementType, dst []byte, v int64) error {
	switch et {
	case graph.U8:
		dst[0] = byte(saturate(v, 0, math.MaxUint8))
	case graph.I8:
		dst[0] = byte(int8(saturate(v, math.MinInt8, math.MaxInt8)))
	case graph.I16:
		binary.LittleEndian.PutUint16(dst, uint16(int16(saturate(v, math.MinInt16, math.MaxInt16))))
	case graph.I32:
		binary.LittleEndian.PutUint32(dst, uint32(int32(saturate(v, math.MinInt32, math.MaxInt32))))
	case graph.I64:
		binary.LittleEndian.PutUint64(dst, uint64(v))
	case graph.F16, graph.F32:
		return fmt.Errorf("cluster: clustering a %v kernel is not supported", et)
	default:
		return fmt.Errorf("cluster: unsupported element type %v", et)
	}
	return nil
}

func saturate(v, lo, hi int64) int64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

