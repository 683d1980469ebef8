package blocks

import (
	"math"

	"github.com/blocklab/blocksim/sim"
)

// A SineSource emits amplitude*sin(2*pi*frequency*t + phase) on its "out"
// port. It is stateless: the output is a pure function of time.
type SineSource struct {
	*sim.BlockBase

	amplitude float64
	frequency float64
	phase     float64
}

// NewSineSource creates a SineSource. frequency is in Hz, phase in radians.
func NewSineSource(
	name string,
	amplitude, frequency, phase float64,
) *SineSource {
	b := &SineSource{
		amplitude: amplitude,
		frequency: frequency,
		phase:     phase,
	}
	b.BlockBase = sim.NewBlockBase(name)
	b.AddOutput("out")
	return b
}

// Initialize emits the wave value at t0.
func (b *SineSource) Initialize(t0 sim.VTimeInSec) error {
	b.emit(t0)
	return nil
}

// ProduceOutputs emits the wave value at t.
func (b *SineSource) ProduceOutputs(t, _ sim.VTimeInSec) error {
	b.emit(t)
	return nil
}

func (b *SineSource) emit(t sim.VTimeInSec) {
	b.Outputs().Set("out",
		b.amplitude*math.Sin(2*math.Pi*b.frequency*float64(t)+b.phase))
}
