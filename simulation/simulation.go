package simulation

import (
	"github.com/blocklab/blocksim/recording"
	"github.com/blocklab/blocksim/sim"
)

// A Simulation bundles a model, its simulator, and the recorder that
// persists the run logs.
type Simulation struct {
	id        string
	model     *sim.Model
	simulator *sim.Simulator
	recorder  recording.DataRecorder
}

// ID returns the unique ID of the simulation.
func (s *Simulation) ID() string {
	return s.id
}

// Model returns the simulated model.
func (s *Simulation) Model() *sim.Model {
	return s.model
}

// Simulator returns the simulator driving the model.
func (s *Simulation) Simulator() *sim.Simulator {
	return s.simulator
}

// Recorder returns the recorder of the simulation, nil if recording is
// disabled.
func (s *Simulation) Recorder() recording.DataRecorder {
	return s.recorder
}

// Run simulates the model for the given duration and returns the log of the
// requested signals. If recording is enabled, the log is also persisted
// under the simulation ID.
func (s *Simulation) Run(
	duration sim.VTimeInSec,
	signals []string,
) (*sim.Log, error) {
	l, err := s.simulator.Run(duration, signals)
	if err != nil {
		return nil, err
	}

	if s.recorder != nil {
		recording.RecordLog(s.recorder, s.id, l)
	}

	return l, nil
}

// Terminate flushes and closes the recorder.
func (s *Simulation) Terminate() {
	if s.recorder != nil {
		s.recorder.Close()
	}
}
