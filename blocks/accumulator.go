package blocks

import (
	"github.com/blocklab/blocksim/sim"
)

// An Accumulator adds its "in" port into the state variable "acc" every
// sample period and emits the committed total on "out". It is the
// discrete-time counterpart of an integrator with unit gain.
type Accumulator struct {
	*sim.StateBase

	initial float64
}

// NewAccumulator creates an Accumulator whose total starts at initial.
func NewAccumulator(name string, initial float64) *Accumulator {
	b := &Accumulator{initial: initial}
	b.StateBase = sim.NewStateBase(name)
	b.AddInput("in")
	b.AddOutput("out")
	b.AddState("acc", initial)
	return b
}

// Initialize resets the total and emits it.
func (b *Accumulator) Initialize(_ sim.VTimeInSec) error {
	b.States().Init("acc", b.initial)
	b.Outputs().Set("out", b.initial)
	return nil
}

// ProduceOutputs emits the committed total.
func (b *Accumulator) ProduceOutputs(_, _ sim.VTimeInSec) error {
	b.Outputs().Set("out", b.States().Get("acc"))
	return nil
}

// AdvanceState adds the input into the pending total.
func (b *Accumulator) AdvanceState(_, _ sim.VTimeInSec) error {
	in, err := b.RequiredInput("in")
	if err != nil {
		return err
	}

	b.States().SetPending("acc", b.States().Get("acc")+in)

	return nil
}
