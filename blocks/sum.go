package blocks

import (
	"fmt"

	"github.com/blocklab/blocksim/sim"
)

// A Sum adds the values on its input ports "in1" .. "inN" and emits the
// total on its "out" port.
type Sum struct {
	*sim.BlockBase

	numInputs int
}

// NewSum creates a Sum block with numInputs input ports.
func NewSum(name string, numInputs int) *Sum {
	if numInputs < 2 {
		panic("a sum block needs at least two inputs")
	}

	b := &Sum{numInputs: numInputs}
	b.BlockBase = sim.NewBlockBase(name)
	for i := 1; i <= numInputs; i++ {
		b.AddInput(fmt.Sprintf("in%d", i))
	}
	b.AddOutput("out")
	b.SetDirectFeedthrough(true)
	return b
}

// Initialize emits the total if every input is already available.
func (b *Sum) Initialize(_ sim.VTimeInSec) error {
	total := 0.0
	for _, port := range b.Inputs().Names() {
		in, ok := b.Inputs().Get(port).Get()
		if !ok {
			return nil
		}
		total += in
	}

	b.Outputs().Set("out", total)

	return nil
}

// ProduceOutputs emits the total. All inputs are required.
func (b *Sum) ProduceOutputs(_, _ sim.VTimeInSec) error {
	total := 0.0
	for _, port := range b.Inputs().Names() {
		in, err := b.RequiredInput(port)
		if err != nil {
			return err
		}
		total += in
	}

	b.Outputs().Set("out", total)

	return nil
}
