package nnsched

// Option customizes a Load call by mutating a config before analysis
// begins, following the functional-options idiom the graph toolkit this
// module grew out of uses throughout its builder layer.
type Option func(*config)

type config struct {
	weightClusters  int
	memAccessWeight float64
	computeWeight   float64
	outputDir       string
}

func defaultConfig() config {
	return config{
		weightClusters:  16,
		memAccessWeight: 1,
		computeWeight:   1,
		outputDir:       ".",
	}
}

// WithWeightClusters sets the number of k-means centroids ClusterWeights
// uses per kernel. Panics on n <= 0.
func WithWeightClusters(n int) Option {
	if n <= 0 {
		panic("nnsched: WithWeightClusters(n<=0)")
	}
	return func(c *config) {
		c.weightClusters = n
	}
}

// WithMemAccessWeight sets the coefficient applied to memory-access counts
// in the cost model.
func WithMemAccessWeight(w float64) Option {
	return func(c *config) {
		c.memAccessWeight = w
	}
}

// WithComputeWeight sets the coefficient applied to compute counts in the
// cost model.
func WithComputeWeight(w float64) Option {
	return func(c *config) {
		c.computeWeight = w
	}
}

// WithOutputDir sets the directory CSV/plot output is written under.
// Panics on an empty string; use "." for the working directory.
func WithOutputDir(dir string) Option {
	if dir == "" {
		panic("nnsched: WithOutputDir(\"\")")
	}
	return func(c *config) {
		c.outputDir = dir
	}
}
