package sim

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

func orderNames(blocks []Block) []string {
	var names []string
	for _, b := range blocks {
		names = append(names, b.Name())
	}
	return names
}

var _ = Describe("Model", func() {
	var model *Model

	BeforeEach(func() {
		model = NewModel()
	})

	It("should reject a duplicate block name", func() {
		Expect(model.AddBlock(newStubSource("Source", 2.0))).To(Succeed())

		err := model.AddBlock(newStubSource("Source", 3.0))
		Expect(err).To(HaveOccurred())
	})

	It("should reject a connection from an unknown block", func() {
		Expect(model.AddBlock(newStubSink("Sink"))).To(Succeed())

		err := model.Connect("Nowhere", "out", "Sink", "in")
		Expect(err).To(HaveOccurred())
	})

	It("should reject a connection to an unknown block", func() {
		Expect(model.AddBlock(newStubSource("Source", 2.0))).To(Succeed())

		err := model.Connect("Source", "out", "Nowhere", "in")
		Expect(err).To(HaveOccurred())
	})

	It("should reject a connection on an undeclared port", func() {
		Expect(model.AddBlock(newStubSource("Source", 2.0))).To(Succeed())
		Expect(model.AddBlock(newStubSink("Sink"))).To(Succeed())

		err := model.Connect("Source", "bogus", "Sink", "in")
		Expect(err).To(HaveOccurred())
	})

	It("should order a producer before its consumer", func() {
		Expect(model.AddBlock(newStubSource("Source", 2.0))).To(Succeed())
		Expect(model.AddBlock(newStubGain("Gain", 3.0))).To(Succeed())
		Expect(model.Connect("Source", "out", "Gain", "in")).To(Succeed())

		order, err := model.ExecutionOrder()

		Expect(err).ToNot(HaveOccurred())
		Expect(orderNames(order)).To(Equal([]string{"Source", "Gain"}))
	})

	It("should order blocks regardless of insertion order", func() {
		// Insertion order is reversed on purpose. The causal order must
		// still be Source, B, Sink.
		Expect(model.AddBlock(newStubSink("Sink"))).To(Succeed())
		Expect(model.AddBlock(newStubGain("B", 1.0))).To(Succeed())
		Expect(model.AddBlock(newStubSource("Source", 2.0))).To(Succeed())
		Expect(model.Connect("Source", "out", "B", "in")).To(Succeed())
		Expect(model.Connect("B", "out", "Sink", "in")).To(Succeed())

		order, err := model.ExecutionOrder()

		Expect(err).ToNot(HaveOccurred())
		Expect(orderNames(order)).To(Equal([]string{"Source", "B", "Sink"}))
	})

	It("should place every stateful block after all its producers", func() {
		Expect(model.AddBlock(newStubDelay("D", 0))).To(Succeed())
		Expect(model.AddBlock(newStubSource("S1", 1.0))).To(Succeed())
		Expect(model.AddBlock(newStubGain("G", 2.0))).To(Succeed())
		Expect(model.AddBlock(newStubSink("Sink"))).To(Succeed())
		Expect(model.Connect("S1", "out", "G", "in")).To(Succeed())
		Expect(model.Connect("G", "out", "D", "in")).To(Succeed())
		Expect(model.Connect("D", "out", "Sink", "in")).To(Succeed())

		order, err := model.ExecutionOrder()
		Expect(err).ToNot(HaveOccurred())

		names := orderNames(order)
		pos := make(map[string]int)
		for i, n := range names {
			pos[n] = i
		}

		Expect(pos["S1"]).To(BeNumerically("<", pos["G"]))
		Expect(pos["G"]).To(BeNumerically("<", pos["D"]))
		Expect(pos["D"]).To(BeNumerically("<", pos["Sink"]))
	})

	It("should break ties by insertion order", func() {
		Expect(model.AddBlock(newStubSource("S2", 1.0))).To(Succeed())
		Expect(model.AddBlock(newStubSource("S1", 1.0))).To(Succeed())

		order, err := model.ExecutionOrder()

		Expect(err).ToNot(HaveOccurred())
		Expect(orderNames(order)).To(Equal([]string{"S2", "S1"}))
	})

	It("should place a stateful block with no producer at the front", func() {
		Expect(model.AddBlock(newStubGain("G", 1.0))).To(Succeed())
		Expect(model.AddBlock(newStubDelay("D", 0))).To(Succeed())
		Expect(model.Connect("D", "out", "G", "in")).To(Succeed())

		order, err := model.ExecutionOrder()

		Expect(err).ToNot(HaveOccurred())
		Expect(orderNames(order)).To(Equal([]string{"D", "G"}))
	})

	It("should allow feedback through a stateful block", func() {
		// G -> D -> G is a loop, but D holds state, so the loop is
		// resolvable.
		Expect(model.AddBlock(newStubGain("G", 0.5))).To(Succeed())
		Expect(model.AddBlock(newStubDelay("D", 1.0))).To(Succeed())
		Expect(model.Connect("G", "out", "D", "in")).To(Succeed())
		Expect(model.Connect("D", "out", "G", "in")).To(Succeed())

		order, err := model.ExecutionOrder()

		Expect(err).ToNot(HaveOccurred())
		Expect(orderNames(order)).To(HaveLen(2))
	})

	It("should report an algebraic loop", func() {
		a := newStubGain("A", 1.0)
		b := newStubGain("B", 1.0)
		Expect(model.AddBlock(a)).To(Succeed())
		Expect(model.AddBlock(b)).To(Succeed())
		Expect(model.Connect("A", "out", "B", "in")).To(Succeed())
		Expect(model.Connect("B", "out", "A", "in")).To(Succeed())

		_, err := model.ExecutionOrder()

		Expect(err).To(HaveOccurred())
		Expect(err.Error()).To(ContainSubstring("algebraic loop"))
	})

	It("should report an unresolvable cycle among stateful blocks", func() {
		// Each delay waits for the other to be placed first.
		a := newStubDelay("A", 0)
		b := newStubDelay("B", 0)
		Expect(model.AddBlock(a)).To(Succeed())
		Expect(model.AddBlock(b)).To(Succeed())
		Expect(model.Connect("A", "out", "B", "in")).To(Succeed())
		Expect(model.Connect("B", "out", "A", "in")).To(Succeed())

		_, err := model.ExecutionOrder()

		Expect(err).To(HaveOccurred())
		Expect(err.Error()).To(ContainSubstring("unresolvable"))
	})

	It("should cache the computed order", func() {
		Expect(model.AddBlock(newStubSource("Source", 2.0))).To(Succeed())

		first, err := model.ExecutionOrder()
		Expect(err).ToNot(HaveOccurred())

		second, err := model.ExecutionOrder()
		Expect(err).ToNot(HaveOccurred())

		Expect(second).To(Equal(first))
	})
})
