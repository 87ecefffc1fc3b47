package joy

import (
	"daybreak/internal/platform"
	"daybreak/internal/trust"
)

// Dispatcher ties a Policy to a Runqueue and a Clock, implementing
// spec.md §4.3's pick_next contract: update outgoing-task accounting,
// apply the policy, stamp the new task's exec_start, and never return no
// task.
type Dispatcher struct {
	Policy Policy
	Clock  platform.Clock
	guard  platform.IRQGuard
}

// NewDispatcher builds a Dispatcher around policy and clock.
func NewDispatcher(policy Policy, clock platform.Clock) *Dispatcher {
	return &Dispatcher{Policy: policy, Clock: clock}
}

// PickNext selects rq's next task to run. Every scheduler operation that
// mutates the runqueue runs inside an IRQGuard (spec.md §5): accounting
// update, policy application, and the exec_start stamp are one atomic step
// from the rest of the kernel's point of view.
func (d *Dispatcher) PickNext(rq *Runqueue) *Task {
	defer d.guard.Enter()()

	now := d.Clock.Now()
	if rq.Curr != nil {
		updateTaskStatistics(rq.Curr, now)
	}

	next := d.Policy.PickNext(rq, now)
	if next == nil {
		// spec.md §7: pick_next returning no task is a fatal invariant
		// violation — the idle task is guaranteed RUNNING, so reaching
		// here means the runqueue was built or mutated incorrectly.
		platform.Panic("joy: pick_next found no RUNNING task")
		return nil
	}

	next.ExecStart = now
	rq.Curr = next
	trust.Statsf("runqueue", "pick_next -> pid=%d name=%s at tick=%d", next.PID, next.Name, now)
	return next
}

// updateTaskStatistics accounts for the slice task just completed, per
// spec.md §4.3. Ported from __update_task_statistics; the floating-point
// scaling factor is replaced with the Q32.32 fixed-point convention
// documented in SPEC_FULL.md §12.
func updateTaskStatistics(t *Task, now uint64) {
	t.ExecRuntime = now - t.ExecStart
	t.SumExecRuntime += t.ExecRuntime

	if t.IsPeriodic {
		return
	}
	weight := Weight(t.Prio)
	if weight == NiceZeroWeight {
		t.VRuntime += t.ExecRuntime
		return
	}

	// Q32.32 fixed-point: scaledFixed is exec_runtime * (NICE_0_WEIGHT /
	// weight) represented with 32 fractional bits. Adding the carried
	// remainder before truncating back to an integer avoids a
	// nice-(-20) task's vruntime being rounded to zero on a single short
	// slice, and avoids systematic overcount from always rounding the
	// same way every slice.
	scaledFixed := (t.ExecRuntime * NiceZeroWeight << 32) / weight
	combined := scaledFixed + t.vruntimeFrac
	integerPart := combined >> 32
	t.vruntimeFrac = combined & 0xFFFFFFFF
	t.ExecRuntime = integerPart
	t.VRuntime += integerPart
}
