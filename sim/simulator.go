package sim

import (
	"log"
	"strings"

	"github.com/pkg/errors"
)

// A Simulator drives one model through discrete time. Each tick runs two
// ordered phases over the due tasks, Produce then Advance, followed by a
// commit of all pending state. The simulator is single-threaded and
// synchronous: the causal execution order computed by the model, not
// locking, is the sole correctness mechanism.
type Simulator struct {
	HookableBase

	model       *Model
	timeManager TimeManager
	scheduler   *Scheduler
	order       []Block
	fanouts     map[PortRef][]PortRef

	now VTimeInSec
}

// NewSimulator creates a Simulator over a model with the given base step and
// execution mode. Construction fails if the model has no safe execution
// order, if a sample period is not a multiple of the base step, or if the
// execution mode is not implemented.
func NewSimulator(
	model *Model,
	baseStep VTimeInSec,
	mode ExecMode,
) (*Simulator, error) {
	order, err := model.ExecutionOrder()
	if err != nil {
		return nil, errors.Wrap(err, "cannot build simulator")
	}

	s := new(Simulator)
	s.model = model
	s.order = order

	periods := effectivePeriods(order, baseStep)

	s.timeManager, err = NewTimeManager(mode, baseStep, periods)
	if err != nil {
		return nil, errors.Wrap(err, "cannot build simulator")
	}

	s.scheduler = NewScheduler(buildTasks(order, baseStep, periods))
	s.fanouts = buildFanouts(model.Connections())

	return s, nil
}

// effectivePeriods returns the distinct effective periods of the blocks, in
// order of first appearance in the execution order. A block that declares no
// period runs at the base step.
func effectivePeriods(order []Block, baseStep VTimeInSec) []VTimeInSec {
	var periods []VTimeInSec
	seen := make(map[VTimeInSec]bool)

	for _, b := range order {
		p := effectivePeriod(b, baseStep)
		if !seen[p] {
			seen[p] = true
			periods = append(periods, p)
		}
	}

	return periods
}

func effectivePeriod(b Block, baseStep VTimeInSec) VTimeInSec {
	if p := b.SamplePeriod(); p > 0 {
		return p
	}

	return baseStep
}

// buildTasks creates one task per distinct effective period. Each task's
// block sequence is the execution order filtered to that period, which
// preserves the causal order within the task.
func buildTasks(
	order []Block,
	baseStep VTimeInSec,
	periods []VTimeInSec,
) []*Task {
	var tasks []*Task

	for _, p := range periods {
		var blocks []Block
		for _, b := range order {
			if effectivePeriod(b, baseStep) == p {
				blocks = append(blocks, b)
			}
		}

		tasks = append(tasks, NewTask(p, blocks))
	}

	return tasks
}

func buildFanouts(conns []Connection) map[PortRef][]PortRef {
	fanouts := make(map[PortRef][]PortRef)
	for _, c := range conns {
		fanouts[c.Src] = append(fanouts[c.Src], c.Dst)
	}

	return fanouts
}

// CurrentTime returns the simulated time before the next advancement.
func (s *Simulator) CurrentTime() VTimeInSec {
	return s.now
}

// Initialize sets the clock to t0 and initializes every block of the model
// in the unfiltered global order, so that cross-rate initial propagation is
// not broken by per-rate differences. Each block's fresh outputs are
// propagated immediately, before the next block initializes, which lets a
// block derive its time-zero values from already-initialized upstream
// values.
func (s *Simulator) Initialize(t0 VTimeInSec) error {
	s.now = t0

	for _, b := range s.order {
		err := s.runBlockOp(b, "Initialize", func() error {
			return b.Initialize(t0)
		})
		if err != nil {
			return errors.Wrapf(err, "initializing block %s", b.Name())
		}

		s.propagate(b)
	}

	return nil
}

// Tick runs one discrete time increment. The produce phase recomputes and
// immediately propagates the outputs of every due block in causal order, so
// a later block consumes an earlier block's brand-new output within the same
// tick. The advance phase then recomputes the pending state of every due
// stateful block against the still-current state of every other block.
// Pending state is committed only after the whole advance phase finished.
func (s *Simulator) Tick() error {
	hookCtx := HookCtx{
		Domain: s,
		Pos:    HookPosBeforeTick,
		Item:   s.now,
	}
	s.InvokeHook(hookCtx)

	due := s.scheduler.DueTasks(s.now)
	dt := s.timeManager.StepSize(s.now)

	for _, task := range due {
		for _, b := range task.OutputBlocks() {
			err := s.runBlockOp(b, "ProduceOutputs", func() error {
				return b.ProduceOutputs(s.now, dt)
			})
			if err != nil {
				return errors.Wrapf(err,
					"producing outputs of block %s at %v", b.Name(), s.now)
			}

			s.propagate(b)
		}
	}

	for _, task := range due {
		for _, b := range task.StateBlocks() {
			sb := b
			err := s.runBlockOp(sb, "AdvanceState", func() error {
				return sb.AdvanceState(s.now, dt)
			})
			if err != nil {
				return errors.Wrapf(err,
					"advancing state of block %s at %v", sb.Name(), s.now)
			}
		}
	}

	for _, task := range due {
		for _, sb := range task.StateBlocks() {
			sb.Commit()
		}
	}

	for _, task := range due {
		task.Advance()
	}

	s.now += dt

	hookCtx.Pos = HookPosAfterTick
	hookCtx.Item = s.now
	s.InvokeHook(hookCtx)

	return nil
}

// Run initializes the model at time 0, ticks until the clock exceeds
// duration, and returns the log of the requested signals. Index 0 of every
// series holds the post-initialize value. After the last tick, every block
// implementing Finalizer gets a best-effort Finalize call; a finalize
// failure is reported and does not abort the other blocks' finalizers.
func (s *Simulator) Run(
	duration VTimeInSec,
	signals []string,
) (*Log, error) {
	if err := s.Initialize(0); err != nil {
		return nil, err
	}

	l := NewLog()
	if err := s.record(l, signals); err != nil {
		return nil, err
	}

	for s.now < duration-timeEpsilon {
		if err := s.Tick(); err != nil {
			return nil, err
		}

		if err := s.record(l, signals); err != nil {
			return nil, err
		}
	}

	s.finalize()

	return l, nil
}

func (s *Simulator) finalize() {
	for _, b := range s.order {
		f, ok := b.(Finalizer)
		if !ok {
			continue
		}

		if err := f.Finalize(); err != nil {
			log.Printf("finalizing block %s: %v", b.Name(), err)
		}
	}
}

// propagate copies every present output of b into the inputs it connects
// to. Values are copied, never aliased, so a consumer can not corrupt a
// value already delivered elsewhere.
func (s *Simulator) propagate(b Block) {
	for _, port := range b.Outputs().Names() {
		v, ok := b.Outputs().Get(port).Get()
		if !ok {
			continue
		}

		src := PortRef{Block: b.Name(), Port: port}
		for _, dst := range s.fanouts[src] {
			dstBlock, _ := s.model.BlockByName(dst.Block)
			dstBlock.Inputs().Set(dst.Port, v)
		}
	}
}

func (s *Simulator) record(l *Log, signals []string) error {
	l.Append(TimeKey, float64(s.now))

	for _, name := range signals {
		if name == TimeKey {
			continue
		}

		v, err := s.resolveSignal(name)
		if err != nil {
			return err
		}

		l.Append(name, v)
	}

	return nil
}

// resolveSignal reads the current value of a qualified signal name, either
// "<block>.outputs.<port>" or "<block>.state.<var>".
func (s *Simulator) resolveSignal(name string) (float64, error) {
	parts := strings.SplitN(name, ".", 3)
	if len(parts) != 3 {
		return 0, errors.Errorf("malformed signal name %q", name)
	}

	b, ok := s.model.BlockByName(parts[0])
	if !ok {
		return 0, errors.Errorf("signal %q names an unknown block", name)
	}

	switch parts[1] {
	case "outputs":
		if !b.Outputs().Has(parts[2]) {
			return 0, errors.Errorf("signal %q names an unknown port", name)
		}

		v, present := b.Outputs().Get(parts[2]).Get()
		if !present {
			return 0, errors.Errorf("signal %q has no value", name)
		}

		return v, nil
	case "state":
		sb, stateful := b.(Stateful)
		if !stateful || !sb.States().Has(parts[2]) {
			return 0, errors.Errorf(
				"signal %q names an unknown state variable", name)
		}

		return sb.States().Get(parts[2]), nil
	default:
		return 0, errors.Errorf("malformed signal name %q", name)
	}
}

func (s *Simulator) runBlockOp(b Block, op string, fn func() error) error {
	hookCtx := HookCtx{
		Domain: s,
		Pos:    HookPosBeforeBlockOp,
		Item:   b,
		Detail: op,
	}
	s.InvokeHook(hookCtx)

	err := fn()

	hookCtx.Pos = HookPosAfterBlockOp
	s.InvokeHook(hookCtx)

	return err
}
