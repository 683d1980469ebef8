package blocks

import (
	"math/rand"

	"github.com/blocklab/blocksim/sim"
)

// A NoiseSource emits normally distributed noise on its "out" port. The
// source owns its random number generator, so a run is reproducible for a
// fixed seed.
type NoiseSource struct {
	*sim.BlockBase

	mean   float64
	stddev float64
	seed   int64
	rng    *rand.Rand
}

// NewNoiseSource creates a NoiseSource with the given distribution and seed.
func NewNoiseSource(name string, mean, stddev float64, seed int64) *NoiseSource {
	b := &NoiseSource{
		mean:   mean,
		stddev: stddev,
		seed:   seed,
	}
	b.BlockBase = sim.NewBlockBase(name)
	b.AddOutput("out")
	return b
}

// Initialize reseeds the generator and emits the first sample.
func (b *NoiseSource) Initialize(_ sim.VTimeInSec) error {
	b.rng = rand.New(rand.NewSource(b.seed))
	b.emit()
	return nil
}

// ProduceOutputs emits the next sample.
func (b *NoiseSource) ProduceOutputs(_, _ sim.VTimeInSec) error {
	b.emit()
	return nil
}

func (b *NoiseSource) emit() {
	b.Outputs().Set("out", b.rng.NormFloat64()*b.stddev+b.mean)
}
