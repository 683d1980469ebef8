package sim

// A Scheduler returns the tasks that are due at a given time. Task-to-task
// ordering is cosmetic: tasks never interact within a tick.
type Scheduler struct {
	tasks []*Task
}

// NewScheduler creates a Scheduler over the given tasks.
func NewScheduler(tasks []*Task) *Scheduler {
	s := new(Scheduler)
	s.tasks = tasks
	return s
}

// Tasks returns all the tasks of the scheduler.
func (s *Scheduler) Tasks() []*Task {
	return s.tasks
}

// DueTasks returns exactly the tasks that are due at now.
func (s *Scheduler) DueTasks(now VTimeInSec) []*Task {
	var due []*Task
	for _, t := range s.tasks {
		if t.IsDue(now) {
			due = append(due, t)
		}
	}

	return due
}
