package blocks

import (
	"github.com/blocklab/blocksim/sim"
)

// A UnitDelay emits on "out" the value its "in" port held one sample period
// ago. It is the canonical state-holding block for breaking feedback loops.
type UnitDelay struct {
	*sim.StateBase

	initial float64
}

// NewUnitDelay creates a UnitDelay whose state starts at initial.
func NewUnitDelay(name string, initial float64) *UnitDelay {
	b := &UnitDelay{initial: initial}
	b.StateBase = sim.NewStateBase(name)
	b.AddInput("in")
	b.AddOutput("out")
	b.AddState("x", initial)
	return b
}

// Initialize resets the state and emits it.
func (b *UnitDelay) Initialize(_ sim.VTimeInSec) error {
	b.States().Init("x", b.initial)
	b.Outputs().Set("out", b.initial)
	return nil
}

// ProduceOutputs emits the committed state. It never reads the input, which
// is what makes the delay safe inside a loop.
func (b *UnitDelay) ProduceOutputs(_, _ sim.VTimeInSec) error {
	b.Outputs().Set("out", b.States().Get("x"))
	return nil
}

// AdvanceState latches the input into the pending state.
func (b *UnitDelay) AdvanceState(_, _ sim.VTimeInSec) error {
	in, err := b.RequiredInput("in")
	if err != nil {
		return err
	}

	b.States().SetPending("x", in)

	return nil
}
