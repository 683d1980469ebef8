package blocks

import (
	"github.com/blocklab/blocksim/sim"
)

// A Gain multiplies the value on its "in" port by a constant factor and
// emits the product on its "out" port.
type Gain struct {
	*sim.BlockBase

	k float64
}

// NewGain creates a Gain block with factor k.
func NewGain(name string, k float64) *Gain {
	b := &Gain{k: k}
	b.BlockBase = sim.NewBlockBase(name)
	b.AddInput("in")
	b.AddOutput("out")
	b.SetDirectFeedthrough(true)
	return b
}

// Initialize emits the scaled input if one is already available. The input
// is optional at time zero so that a Gain can sit inside a feedback loop,
// where its producer may initialize later.
func (b *Gain) Initialize(_ sim.VTimeInSec) error {
	if in, ok := b.Inputs().Get("in").Get(); ok {
		b.Outputs().Set("out", b.k*in)
	}
	return nil
}

// ProduceOutputs emits the scaled input. The input is required.
func (b *Gain) ProduceOutputs(_, _ sim.VTimeInSec) error {
	in, err := b.RequiredInput("in")
	if err != nil {
		return err
	}

	b.Outputs().Set("out", b.k*in)

	return nil
}
