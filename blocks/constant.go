// Package blocks provides a catalogue of ready-made blocks for the
// simulation engine. Every block declares its ports and state through the
// engine's base types and implements only the lifecycle operations; the
// engine never needs to know the concrete kind.
package blocks

import (
	"github.com/blocklab/blocksim/sim"
)

// A Constant emits a fixed value on its "out" port.
type Constant struct {
	*sim.BlockBase

	value float64
}

// NewConstant creates a Constant block.
func NewConstant(name string, value float64) *Constant {
	b := &Constant{value: value}
	b.BlockBase = sim.NewBlockBase(name)
	b.AddOutput("out")
	return b
}

// Initialize emits the constant.
func (b *Constant) Initialize(_ sim.VTimeInSec) error {
	b.Outputs().Set("out", b.value)
	return nil
}

// ProduceOutputs emits the constant.
func (b *Constant) ProduceOutputs(_, _ sim.VTimeInSec) error {
	b.Outputs().Set("out", b.value)
	return nil
}
