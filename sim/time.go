package sim

// VTimeInSec defines the time in the simulated space in the unit of second
type VTimeInSec float64

// timeEpsilon is the tolerance used when comparing simulated times. Fixed-rate
// stepping accumulates floating point error, so exact comparison is never
// safe.
const timeEpsilon VTimeInSec = 1e-9

// TimeTeller can be used to get the current time.
type TimeTeller interface {
	CurrentTime() VTimeInSec
}
