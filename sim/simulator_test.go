package sim

import (
	"bytes"
	"log"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

func buildSourceSinkModel() *Model {
	model := NewModel()
	Expect(model.AddBlock(newStubSource("Source", 2.0))).To(Succeed())
	Expect(model.AddBlock(newStubSink("Sink"))).To(Succeed())
	Expect(model.Connect("Source", "out", "Sink", "in")).To(Succeed())
	return model
}

var _ = Describe("Simulator", func() {
	It("should accumulate a constant source into the sink", func() {
		model := buildSourceSinkModel()

		simulator, err := NewSimulator(model, 0.1, FixedRate)
		Expect(err).ToNot(HaveOccurred())

		l, err := simulator.Run(0.3, []string{"Sink.state.acc"})
		Expect(err).ToNot(HaveOccurred())

		Expect(l.Series("Sink.state.acc")).To(
			Equal([]float64{0.0, 2.0, 4.0, 6.0}))
	})

	It("should log the time series", func() {
		model := buildSourceSinkModel()

		simulator, err := NewSimulator(model, 0.1, FixedRate)
		Expect(err).ToNot(HaveOccurred())

		l, err := simulator.Run(0.3, []string{"Sink.state.acc"})
		Expect(err).ToNot(HaveOccurred())

		times := l.Series(TimeKey)
		Expect(times).To(HaveLen(4))
		Expect(times[0]).To(BeNumerically("~", 0.0, 1e-9))
		Expect(times[3]).To(BeNumerically("~", 0.3, 1e-9))
	})

	It("should produce identical logs on identical runs", func() {
		run := func() *Log {
			model := buildSourceSinkModel()
			simulator, err := NewSimulator(model, 0.1, FixedRate)
			Expect(err).ToNot(HaveOccurred())

			l, err := simulator.Run(
				1.0, []string{"Sink.state.acc", "Source.outputs.out"})
			Expect(err).ToNot(HaveOccurred())
			return l
		}

		first := run()
		second := run()

		Expect(second.Keys()).To(Equal(first.Keys()))
		for _, k := range first.Keys() {
			Expect(second.Series(k)).To(Equal(first.Series(k)))
		}
	})

	It("should propagate initial values down a chain", func() {
		model := NewModel()
		Expect(model.AddBlock(newStubSource("Source", 2.0))).To(Succeed())
		Expect(model.AddBlock(newStubGain("G1", 3.0))).To(Succeed())
		Expect(model.AddBlock(newStubGain("G2", 0.5))).To(Succeed())
		Expect(model.Connect("Source", "out", "G1", "in")).To(Succeed())
		Expect(model.Connect("G1", "out", "G2", "in")).To(Succeed())

		simulator, err := NewSimulator(model, 0.1, FixedRate)
		Expect(err).ToNot(HaveOccurred())

		l, err := simulator.Run(0.1, []string{"G2.outputs.out"})
		Expect(err).ToNot(HaveOccurred())

		Expect(l.Series("G2.outputs.out")[0]).To(Equal(3.0))
	})

	It("should let a same-tick consumer see a fresh output", func() {
		model := NewModel()
		Expect(model.AddBlock(newStubSource("Source", 2.0))).To(Succeed())
		Expect(model.AddBlock(newStubGain("G", 3.0))).To(Succeed())
		Expect(model.AddBlock(newStubSink("Sink"))).To(Succeed())
		Expect(model.Connect("Source", "out", "G", "in")).To(Succeed())
		Expect(model.Connect("G", "out", "Sink", "in")).To(Succeed())

		simulator, err := NewSimulator(model, 0.1, FixedRate)
		Expect(err).ToNot(HaveOccurred())

		l, err := simulator.Run(0.2, []string{"Sink.state.acc"})
		Expect(err).ToNot(HaveOccurred())

		Expect(l.Series("Sink.state.acc")).To(
			Equal([]float64{0.0, 6.0, 12.0}))
	})

	It("should advance state against still-current upstream state", func() {
		// Two unit delays in a ring. Both advance against the other's
		// committed value, so one tick swaps the values.
		model := NewModel()
		Expect(model.AddBlock(newStubDelay("D1", 1.0))).To(Succeed())
		Expect(model.AddBlock(newStubGain("G1", 1.0))).To(Succeed())
		Expect(model.AddBlock(newStubDelay("D2", 2.0))).To(Succeed())
		Expect(model.AddBlock(newStubGain("G2", 1.0))).To(Succeed())
		Expect(model.Connect("D1", "out", "G1", "in")).To(Succeed())
		Expect(model.Connect("G1", "out", "D2", "in")).To(Succeed())
		Expect(model.Connect("D2", "out", "G2", "in")).To(Succeed())
		Expect(model.Connect("G2", "out", "D1", "in")).To(Succeed())

		simulator, err := NewSimulator(model, 0.1, FixedRate)
		Expect(err).ToNot(HaveOccurred())

		l, err := simulator.Run(0.1, []string{
			"D1.state.x", "D2.state.x"})
		Expect(err).ToNot(HaveOccurred())

		Expect(l.Series("D1.state.x")).To(Equal([]float64{1.0, 2.0}))
		Expect(l.Series("D2.state.x")).To(Equal([]float64{2.0, 1.0}))
	})

	It("should fail the run on a missing required input", func() {
		model := NewModel()
		Expect(model.AddBlock(newStubSink("Sink"))).To(Succeed())

		simulator, err := NewSimulator(model, 0.1, FixedRate)
		Expect(err).ToNot(HaveOccurred())

		_, err = simulator.Run(0.3, []string{"Sink.state.acc"})

		Expect(err).To(HaveOccurred())
		Expect(err.Error()).To(ContainSubstring("Sink"))
		Expect(err.Error()).To(ContainSubstring("in"))
	})

	It("should abort construction on an unsatisfiable order", func() {
		model := NewModel()
		Expect(model.AddBlock(newStubGain("A", 1.0))).To(Succeed())
		Expect(model.AddBlock(newStubGain("B", 1.0))).To(Succeed())
		Expect(model.Connect("A", "out", "B", "in")).To(Succeed())
		Expect(model.Connect("B", "out", "A", "in")).To(Succeed())

		_, err := NewSimulator(model, 0.1, FixedRate)

		Expect(err).To(HaveOccurred())
		Expect(err.Error()).To(ContainSubstring("algebraic loop"))
	})

	It("should abort construction on a non-multiple sample period", func() {
		model := NewModel()
		source := newStubSource("Source", 2.0)
		source.SetSamplePeriod(0.03)
		Expect(model.AddBlock(source)).To(Succeed())

		_, err := NewSimulator(model, 0.02, FixedRate)

		Expect(err).To(HaveOccurred())
	})

	It("should abort construction in variable-rate mode", func() {
		model := buildSourceSinkModel()

		_, err := NewSimulator(model, 0.1, VariableRate)

		Expect(err).To(HaveOccurred())
		Expect(err.Error()).To(ContainSubstring("not implemented"))
	})

	It("should run a slow block only when its task is due", func() {
		model := NewModel()
		Expect(model.AddBlock(newStubSource("Source", 2.0))).To(Succeed())
		slow := newStubSink("SlowSink")
		slow.SetSamplePeriod(0.2)
		Expect(model.AddBlock(slow)).To(Succeed())
		Expect(model.Connect("Source", "out", "SlowSink", "in")).To(Succeed())

		simulator, err := NewSimulator(model, 0.1, FixedRate)
		Expect(err).ToNot(HaveOccurred())

		l, err := simulator.Run(0.4, []string{"SlowSink.state.acc"})
		Expect(err).ToNot(HaveOccurred())

		// Due at 0.0 and 0.2 only within the four ticks.
		Expect(l.Series("SlowSink.state.acc")).To(
			Equal([]float64{0.0, 2.0, 2.0, 4.0, 4.0}))
	})

	It("should reject an unknown signal name", func() {
		model := buildSourceSinkModel()

		simulator, err := NewSimulator(model, 0.1, FixedRate)
		Expect(err).ToNot(HaveOccurred())

		_, err = simulator.Run(0.1, []string{"Sink.state.bogus"})

		Expect(err).To(HaveOccurred())
	})

	It("should survive a failing finalizer", func() {
		var buf bytes.Buffer
		log.SetOutput(&buf)
		defer log.SetOutput(GinkgoWriter)

		model := NewModel()
		Expect(model.AddBlock(newStubFailingFinalizer("F"))).To(Succeed())

		simulator, err := NewSimulator(model, 0.1, FixedRate)
		Expect(err).ToNot(HaveOccurred())

		_, err = simulator.Run(0.1, []string{"F.outputs.out"})

		Expect(err).ToNot(HaveOccurred())
		Expect(buf.String()).To(ContainSubstring("finalizing block F"))
	})

	It("should invoke hooks around each tick", func() {
		model := buildSourceSinkModel()

		simulator, err := NewSimulator(model, 0.1, FixedRate)
		Expect(err).ToNot(HaveOccurred())

		hook := &countingHook{}
		simulator.AcceptHook(hook)

		_, err = simulator.Run(0.3, nil)
		Expect(err).ToNot(HaveOccurred())

		Expect(hook.beforeTick).To(Equal(3))
		Expect(hook.afterTick).To(Equal(3))
		Expect(hook.blockOps).To(BeNumerically(">", 0))
	})
})

type countingHook struct {
	beforeTick int
	afterTick  int
	blockOps   int
}

func (h *countingHook) Func(ctx HookCtx) {
	switch ctx.Pos {
	case HookPosBeforeTick:
		h.beforeTick++
	case HookPosAfterTick:
		h.afterTick++
	case HookPosBeforeBlockOp:
		h.blockOps++
	}
}
