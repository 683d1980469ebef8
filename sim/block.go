package sim

import (
	"github.com/pkg/errors"
)

// A Named object is an object that has a name.
type Named interface {
	Name() string
}

// A Block is a unit of computation in a model. It exchanges numbers with
// other blocks over named ports and is driven by the simulator through the
// lifecycle operations below.
//
// A sample period of 0 means the block inherits the simulator's base period.
type Block interface {
	Named

	// SamplePeriod returns the declared sample period of the block, or 0 if
	// the block runs at the simulator's base period.
	SamplePeriod() VTimeInSec

	// Inputs returns the input port store of the block.
	Inputs() *SignalStore

	// Outputs returns the output port store of the block.
	Outputs() *SignalStore

	// Initialize populates every output, and every state variable for
	// stateful blocks, with a time-zero value. Inputs that upstream blocks
	// have already initialized are available. Initialize fails if a strictly
	// required input is still empty.
	Initialize(t0 VTimeInSec) error

	// ProduceOutputs recomputes the outputs from the current state and
	// inputs. It must not mutate state. It fails on a missing required
	// input.
	ProduceOutputs(t, dt VTimeInSec) error
}

// Stateful is implemented only by blocks that carry state variables. The
// simulator discovers stateful blocks through this interface, never by
// inspecting the size of a container.
type Stateful interface {
	Block

	// States returns the state store of the block.
	States() *StateStore

	// AdvanceState recomputes the pending state from the current state and
	// inputs. It must not touch outputs.
	AdvanceState(t, dt VTimeInSec) error

	// Commit copies the pending state into the current state. The simulator
	// calls it once per tick, after every due block finished AdvanceState.
	Commit()
}

// A Finalizer is a block that wants to run cleanup after the simulation
// ends. Finalize failures are reported but never abort the other blocks'
// finalizers.
type Finalizer interface {
	Finalize() error
}

// BlockBase provides the bookkeeping shared by all block implementations:
// the name, the sample period, the port stores, and the direct feedthrough
// flag.
type BlockBase struct {
	name              string
	period            VTimeInSec
	directFeedthrough bool
	inputs            *SignalStore
	outputs           *SignalStore
}

// NewBlockBase creates a BlockBase with no ports and an inherited sample
// period.
func NewBlockBase(name string) *BlockBase {
	b := new(BlockBase)
	b.name = name
	b.inputs = NewSignalStore()
	b.outputs = NewSignalStore()
	return b
}

// Name returns the name of the block.
func (b *BlockBase) Name() string {
	return b.name
}

// SamplePeriod returns the declared sample period, 0 if none is declared.
func (b *BlockBase) SamplePeriod() VTimeInSec {
	return b.period
}

// SetSamplePeriod declares the sample period of the block.
func (b *BlockBase) SetSamplePeriod(p VTimeInSec) {
	b.period = p
}

// DirectFeedthrough reports whether the block declared that its output is an
// immediate function of its current input. The flag is advisory. The
// execution-order algorithm derives the same relation from the connection
// graph and the statefulness of the endpoints, and never consults it.
func (b *BlockBase) DirectFeedthrough() bool {
	return b.directFeedthrough
}

// SetDirectFeedthrough declares the direct feedthrough flag.
func (b *BlockBase) SetDirectFeedthrough(v bool) {
	b.directFeedthrough = v
}

// Inputs returns the input port store.
func (b *BlockBase) Inputs() *SignalStore {
	return b.inputs
}

// Outputs returns the output port store.
func (b *BlockBase) Outputs() *SignalStore {
	return b.outputs
}

// AddInput declares an input port.
func (b *BlockBase) AddInput(name string) {
	b.inputs.Declare(name)
}

// AddOutput declares an output port.
func (b *BlockBase) AddOutput(name string) {
	b.outputs.Declare(name)
}

// RequiredInput returns the value on an input port, or an error naming the
// block and the port if no value has been produced for it. Missing required
// inputs are never substituted with a default.
func (b *BlockBase) RequiredInput(port string) (float64, error) {
	v, ok := b.inputs.Get(port).Get()
	if !ok {
		return 0, errors.Errorf(
			"block %s: required input %q has no value", b.name, port)
	}

	return v, nil
}

// StateBase extends BlockBase with a state store. Stateful block
// implementations embed StateBase and only need to provide Initialize,
// ProduceOutputs, and AdvanceState.
type StateBase struct {
	*BlockBase

	states *StateStore
}

// NewStateBase creates a StateBase with no ports and no state variables.
func NewStateBase(name string) *StateBase {
	b := new(StateBase)
	b.BlockBase = NewBlockBase(name)
	b.states = NewStateStore()
	return b
}

// States returns the state store.
func (b *StateBase) States() *StateStore {
	return b.states
}

// AddState declares a state variable with its time-zero value.
func (b *StateBase) AddState(name string, initial float64) {
	b.states.Declare(name, initial)
}

// Commit copies the pending state into the current state.
func (b *StateBase) Commit() {
	b.states.Commit()
}
