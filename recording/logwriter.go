package recording

import (
	"github.com/blocklab/blocksim/sim"
)

// SignalSampleTable is the table that holds the logged signal samples.
const SignalSampleTable = "signal_samples"

// A SignalSample is one logged value of one signal at one sampling instant.
type SignalSample struct {
	Run    string
	Tick   int
	Time   float64
	Signal string
	Value  float64
}

// RecordLog stores every series of a simulation log under the given run ID.
// The sample table is created on first use.
func RecordLog(r DataRecorder, run string, l *sim.Log) {
	if !hasTable(r, SignalSampleTable) {
		r.CreateTable(SignalSampleTable, SignalSample{})
	}

	times := l.Series(sim.TimeKey)

	for _, key := range l.Keys() {
		if key == sim.TimeKey {
			continue
		}

		for tick, v := range l.Series(key) {
			sample := SignalSample{
				Run:    run,
				Tick:   tick,
				Signal: key,
				Value:  v,
			}
			if tick < len(times) {
				sample.Time = times[tick]
			}

			r.InsertData(SignalSampleTable, sample)
		}
	}
}

func hasTable(r DataRecorder, name string) bool {
	for _, t := range r.ListTables() {
		if t == name {
			return true
		}
	}

	return false
}
