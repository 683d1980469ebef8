package sim

// A Task groups the blocks that share one effective sample period. Its block
// sequence is the global execution order filtered to that period, so the
// causal guarantees of the global order carry over. A Task keeps its own
// activation clock, starting at 0 and advanced by the period each run.
type Task struct {
	period         VTimeInSec
	outputBlocks   []Block
	stateBlocks    []Stateful
	nextActivation VTimeInSec
}

// NewTask creates a Task for the given period. blocks must be the
// subsequence of the global execution order whose effective period equals
// the task's period.
func NewTask(period VTimeInSec, blocks []Block) *Task {
	t := new(Task)
	t.period = period
	t.outputBlocks = blocks

	for _, b := range blocks {
		if sb, ok := b.(Stateful); ok {
			t.stateBlocks = append(t.stateBlocks, sb)
		}
	}

	return t
}

// Period returns the sample period of the task.
func (t *Task) Period() VTimeInSec {
	return t.period
}

// OutputBlocks returns every block of the task in causal order. The produce
// phase visits all of them.
func (t *Task) OutputBlocks() []Block {
	return t.outputBlocks
}

// StateBlocks returns the stateful subset of the task's blocks. The advance
// and commit phases visit only these.
func (t *Task) StateBlocks() []Stateful {
	return t.stateBlocks
}

// IsDue returns true if now has reached the task's next activation time,
// within timeEpsilon.
func (t *Task) IsDue(now VTimeInSec) bool {
	return now >= t.nextActivation-timeEpsilon
}

// NextActivation returns the next time the task is due.
func (t *Task) NextActivation() VTimeInSec {
	return t.nextActivation
}

// Advance unconditionally moves the next activation one period later. There
// is no catch-up accumulation and no drift correction beyond the epsilon in
// IsDue.
func (t *Task) Advance() {
	t.nextActivation += t.period
}
