package joy

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func makeTask(pid int, name string, prio int) *Task {
	return &Task{PID: pid, Name: name, State: Running, Prio: prio}
}

func TestRoundRobinRotation(t *testing.T) {
	a := makeTask(1, "A", PrioBase)
	b := makeTask(2, "B", PrioBase)
	c := makeTask(3, "C", PrioBase)
	rq := NewRunqueue([]*Task{a, b, c}, a)

	p := RoundRobin{}
	require.Same(t, b, p.PickNext(rq, 0))
	rq.Curr = b
	require.Same(t, c, p.PickNext(rq, 0))
	rq.Curr = c
	require.Same(t, a, p.PickNext(rq, 0))
}

func TestRoundRobinSingleTaskReturnsCurr(t *testing.T) {
	a := makeTask(1, "A", PrioBase)
	rq := NewRunqueue([]*Task{a}, a)
	require.Same(t, a, RoundRobin{}.PickNext(rq, 0))
}

func TestRoundRobinSkipsBlockedTasks(t *testing.T) {
	a := makeTask(1, "A", PrioBase)
	b := makeTask(2, "B", PrioBase)
	c := makeTask(3, "C", PrioBase)
	b.State = Blocked
	rq := NewRunqueue([]*Task{a, b, c}, a)
	require.Same(t, c, RoundRobin{}.PickNext(rq, 0))
}

func TestRoundRobinLivenessNoStarvationWithinNMinusOne(t *testing.T) {
	tasks := []*Task{makeTask(1, "A", PrioBase), makeTask(2, "B", PrioBase), makeTask(3, "C", PrioBase), makeTask(4, "D", PrioBase)}
	rq := NewRunqueue(tasks, tasks[0])
	p := RoundRobin{}

	seen := map[int]int{}
	n := len(tasks)
	for i := 0; i < n-1; i++ {
		next := p.PickNext(rq, 0)
		seen[next.PID]++
		rq.Curr = next
	}
	for _, task := range tasks {
		if task.PID == tasks[0].PID {
			continue
		}
		require.Equal(t, 1, seen[task.PID], "task %d starved within N-1 calls", task.PID)
	}
}

func TestStaticPrioritySelectsMinimumWithStableTieBreak(t *testing.T) {
	// spec.md §8 scenario 5: init(120), shell(120), echo(122), ps(128);
	// pick_next returns init — first min-prio candidate.
	initT := makeTask(1, "init", 120)
	shell := makeTask(2, "shell", 120)
	echo := makeTask(3, "echo", 122)
	ps := makeTask(4, "ps", 128)
	rq := NewRunqueue([]*Task{initT, shell, echo, ps}, initT)

	next := StaticPriority{}.PickNext(rq, 0)
	require.Same(t, initT, next)
}

func TestStaticPriorityIgnoresNonRunning(t *testing.T) {
	a := makeTask(1, "A", 50)
	b := makeTask(2, "B", 10)
	b.State = Zombie
	rq := NewRunqueue([]*Task{a, b}, a)
	require.Same(t, a, StaticPriority{}.PickNext(rq, 0))
}

func TestFairCFSSelectsSmallestVRuntime(t *testing.T) {
	a := makeTask(1, "A", PrioBase)
	b := makeTask(2, "B", PrioBase)
	c := makeTask(3, "C", PrioBase)
	a.VRuntime, b.VRuntime, c.VRuntime = 500, 100, 300
	rq := NewRunqueue([]*Task{a, b, c}, a)
	require.Same(t, b, FairCFS{}.PickNext(rq, 0))
}

func TestAEDFPicksEarliestDeadlineAmongPeriodic(t *testing.T) {
	a := makeTask(1, "A", PrioBase)
	a.IsPeriodic, a.Deadline = true, 500
	b := makeTask(2, "B", PrioBase)
	b.IsPeriodic, b.Deadline = true, 200
	aperiodic := makeTask(3, "C", PrioBase)
	rq := NewRunqueue([]*Task{a, b, aperiodic}, a)

	require.Same(t, b, EarliestAbsoluteDeadline{}.PickNext(rq, 0))
}

func TestAEDFFallsThroughToRoundRobinWithNoPeriodicTasks(t *testing.T) {
	a := makeTask(1, "A", PrioBase)
	b := makeTask(2, "B", PrioBase)
	rq := NewRunqueue([]*Task{a, b}, a)
	require.Same(t, b, EarliestAbsoluteDeadline{}.PickNext(rq, 0))
}

func TestEDFRollover(t *testing.T) {
	// spec.md §8 scenario 6: period=100, deadline=100, next_period=100,
	// executed=true; at tick=100, pick_next clears executed, advances
	// deadline to 200 and next_period to 200, and selects the task.
	a := makeTask(1, "A", PrioBase)
	a.IsPeriodic = true
	a.Period, a.Deadline, a.NextPeriod, a.Executed = 100, 100, 100, true
	rq := NewRunqueue([]*Task{a}, a)

	next := EarliestDeadlineFirst{}.PickNext(rq, 100)
	require.Same(t, a, next)
	require.False(t, a.Executed)
	require.EqualValues(t, 200, a.Deadline)
	require.EqualValues(t, 200, a.NextPeriod)
}

func TestEDFDoesNotSelectTaskAlreadyExecutedThisPeriod(t *testing.T) {
	a := makeTask(1, "A", PrioBase)
	a.IsPeriodic = true
	a.Period, a.Deadline, a.NextPeriod, a.Executed = 100, 250, 300, true
	aperiodic := makeTask(2, "B", PrioBase)
	rq := NewRunqueue([]*Task{a, aperiodic}, a)

	next := EarliestDeadlineFirst{}.PickNext(rq, 50)
	require.Same(t, aperiodic, next)
	require.True(t, a.Executed)
}

func TestRMUsesNextPeriodAsKey(t *testing.T) {
	a := makeTask(1, "A", PrioBase)
	a.IsPeriodic, a.Deadline, a.NextPeriod = true, 900, 400
	b := makeTask(2, "B", PrioBase)
	b.IsPeriodic, b.Deadline, b.NextPeriod = true, 200, 150
	rq := NewRunqueue([]*Task{a, b}, a)

	require.Same(t, b, RateMonotonic{}.PickNext(rq, 0))
}

func TestEDFSafetyDeadlineNeverBehindNowAcrossRollovers(t *testing.T) {
	// A single periodic task admitted with period 40: at each exact period
	// boundary it is picked, marked executed (simulating it ran to
	// completion), and rolled over again at the next boundary. Its
	// deadline, read right after each selection, must never be behind now.
	a := makeTask(1, "A", PrioBase)
	a.IsPeriodic = true
	a.Period, a.Deadline, a.NextPeriod, a.Executed = 40, 40, 40, true

	rq := NewRunqueue([]*Task{a}, a)
	for now := uint64(40); now <= 200; now += 40 {
		next := EarliestDeadlineFirst{}.PickNext(rq, now)
		require.Same(t, a, next)
		require.GreaterOrEqual(t, next.Deadline, now)
		a.Executed = true
	}
}
