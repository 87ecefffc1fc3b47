package joy

// Runqueue is the set of all known tasks plus a pointer to the currently
// running one (spec.md §3). Represented as a slice rather than the
// teacher's intrusive doubly-linked list (src/gen/doubly_linked.go) — see
// DESIGN.md's Open Question log: policies here need extremum scans over
// the whole set, which a slice expresses directly, where the teacher's
// list idiom earns its keep in internal/upbeat's free-lists instead, whose
// access pattern is O(1) unlink of a known node.
type Runqueue struct {
	Tasks []*Task
	Curr  *Task
}

// NewRunqueue builds a runqueue over tasks, with curr as the initially
// running task. curr must be one of tasks.
func NewRunqueue(tasks []*Task, curr *Task) *Runqueue {
	return &Runqueue{Tasks: tasks, Curr: curr}
}

// Add enqueues a newly created task (the NEW -> RUNNING transition of
// spec.md §4.3; the runqueue does not itself set State, callers do before
// or after calling Add as fits their fork/exec sequencing).
func (rq *Runqueue) Add(t *Task) {
	rq.Tasks = append(rq.Tasks, t)
}

func (rq *Runqueue) indexOf(t *Task) int {
	for i, cand := range rq.Tasks {
		if cand == t {
			return i
		}
	}
	return -1
}
