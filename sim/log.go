package sim

// TimeKey is the reserved log key that holds the simulated time of each
// sample.
const TimeKey = "time"

// A Log stores the sampled value sequences of a simulation run. Each series
// is keyed by a qualified signal name, "<block>.outputs.<port>" or
// "<block>.state.<var>", plus the reserved "time" key. Index 0 of every
// series is the post-initialize value.
type Log struct {
	keys   []string
	series map[string][]float64
}

// NewLog creates an empty Log.
func NewLog() *Log {
	l := new(Log)
	l.series = make(map[string][]float64)
	return l
}

// Append adds one sample to the series of the given key. The series is
// created on first use.
func (l *Log) Append(key string, v float64) {
	if _, ok := l.series[key]; !ok {
		l.keys = append(l.keys, key)
	}

	l.series[key] = append(l.series[key], v)
}

// Keys returns the series keys in first-append order.
func (l *Log) Keys() []string {
	return l.keys
}

// Series returns the sampled values of the given key, in tick order.
func (l *Log) Series(key string) []float64 {
	return l.series[key]
}

// Len returns the number of samples per series.
func (l *Log) Len() int {
	if len(l.keys) == 0 {
		return 0
	}

	return len(l.series[l.keys[0]])
}
