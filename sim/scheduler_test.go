package sim

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

var _ = Describe("Scheduler", func() {
	It("should return every task at time zero", func() {
		fast := NewTask(0.1, nil)
		slow := NewTask(0.2, nil)
		scheduler := NewScheduler([]*Task{fast, slow})

		due := scheduler.DueTasks(0)

		Expect(due).To(HaveLen(2))
	})

	It("should return exactly the due tasks", func() {
		fast := NewTask(0.1, nil)
		slow := NewTask(0.2, nil)
		fast.Advance()
		slow.Advance()
		scheduler := NewScheduler([]*Task{fast, slow})

		due := scheduler.DueTasks(0.1)

		Expect(due).To(HaveLen(1))
		Expect(due[0].Period()).To(BeNumerically("==", 0.1))
	})

	It("should return no task between activations", func() {
		slow := NewTask(0.2, nil)
		slow.Advance()
		scheduler := NewScheduler([]*Task{slow})

		Expect(scheduler.DueTasks(0.1)).To(BeEmpty())
	})
})
