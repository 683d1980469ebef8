// Package simulation composes a model, a simulator, and an optional
// recorder into one runnable simulation.
package simulation

import (
	"github.com/pkg/errors"
	"github.com/rs/xid"

	"github.com/blocklab/blocksim/recording"
	"github.com/blocklab/blocksim/sim"
)

// Builder can be used to build a simulation.
type Builder struct {
	model          *sim.Model
	baseStep       sim.VTimeInSec
	mode           sim.ExecMode
	recordingOn    bool
	outputFileName string
}

// MakeBuilder creates a new builder with recording enabled and a base step
// of 1 millisecond.
func MakeBuilder() Builder {
	return Builder{
		baseStep:    1e-3,
		mode:        sim.FixedRate,
		recordingOn: true,
	}
}

// WithModel sets the model to simulate.
func (b Builder) WithModel(m *sim.Model) Builder {
	b.model = m
	return b
}

// WithBaseStep sets the base period of the simulation.
func (b Builder) WithBaseStep(step sim.VTimeInSec) Builder {
	b.baseStep = step
	return b
}

// WithExecMode sets the execution mode of the simulation.
func (b Builder) WithExecMode(mode sim.ExecMode) Builder {
	b.mode = mode
	return b
}

// WithoutRecording disables the SQLite recorder.
func (b Builder) WithoutRecording() Builder {
	b.recordingOn = false
	return b
}

// WithOutputFileName sets the custom output file name for the recorder.
func (b Builder) WithOutputFileName(filename string) Builder {
	b.outputFileName = filename
	return b
}

func (b Builder) parametersMustBeValid() error {
	if b.model == nil {
		return errors.New("a simulation needs a model")
	}

	if !b.recordingOn && b.outputFileName != "" {
		return errors.New(
			"output file name cannot be set when recording is disabled")
	}

	return nil
}

// Build builds the simulation. Build fails on an unorderable model, a
// non-multiple sample period, or an unimplemented execution mode.
func (b Builder) Build() (*Simulation, error) {
	if err := b.parametersMustBeValid(); err != nil {
		return nil, err
	}

	s := &Simulation{
		id:    xid.New().String(),
		model: b.model,
	}

	simulator, err := sim.NewSimulator(b.model, b.baseStep, b.mode)
	if err != nil {
		return nil, errors.Wrap(err, "cannot build simulation")
	}
	s.simulator = simulator

	if b.recordingOn {
		outputPath := b.outputFileName
		if outputPath == "" {
			outputPath = "blocksim_" + s.id
		}
		s.recorder = recording.NewSQLiteRecorder(outputPath)
	}

	return s, nil
}
