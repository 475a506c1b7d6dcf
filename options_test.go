package nnsched

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestWithWeightClusters_PanicsOnNonPositive(t *testing.T) {
	assert.Panics(t, func() { WithWeightClusters(0) })
	assert.Panics(t, func() { WithWeightClusters(-1) })
}

func TestWithOutputDir_PanicsOnEmpty(t *testing.T) {
	assert.Panics(t, func() { WithOutputDir("") })
}

func TestDefaultConfig_Values(t *testing.T) {
	c := defaultConfig()
	assert.Equal(t, 16, c.weightClusters)
	assert.Equal(t, 1.0, c.memAccessWeight)
	assert.Equal(t, 1.0, c.computeWeight)
	assert.Equal(t, ".", c.outputDir)
}

func TestOptions_ApplyOverDefaults(t *testing.T) {
	c := defaultConfig()
	for _, opt := range []Option{
		WithWeightClusters(4),
		WithMemAccessWeight(0.5),
		WithComputeWeight(2),
		WithOutputDir("/tmp/out"),
	} {
		opt(&c)
	}
	assert.Equal(t, 4, c.weightClusters)
	assert.Equal(t, 0.5, c.memAccessWeight)
	assert.Equal(t, 2.0, c.computeWeight)
	assert.Equal(t, "/tmp/out", c.outputDir)
}
