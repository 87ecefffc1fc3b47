package joy

import (
	"math"

	"daybreak/internal/trust"
)

// Policy is the scheduler's pluggable selection strategy — spec.md §9's
// design note on replacing build-time SCHEDULER_* symbols with a single
// capability-set interface, implemented by six variants and chosen at
// runqueue-dispatcher construction instead of per-tick branching.
type Policy interface {
	PickNext(rq *Runqueue, now uint64) *Task
}

// RoundRobin returns the first eligible task found after rq.Curr, wrapping
// around the runqueue. Ported from __scheduler_rr.
type RoundRobin struct {
	SkipPeriodic bool
}

func (p RoundRobin) PickNext(rq *Runqueue, now uint64) *Task {
	n := len(rq.Tasks)
	if n <= 1 {
		return rq.Curr
	}
	start := rq.indexOf(rq.Curr)
	if start < 0 {
		start = 0
	}
	for i := 1; i <= n; i++ {
		t := rq.Tasks[(start+i)%n]
		if eligible(t, p.SkipPeriodic) {
			return t
		}
	}
	return rq.Curr
}

// StaticPriority returns the eligible task with the numerically smallest
// Prio, first-encountered on ties. Ported from __scheduler_priority,
// including its documented pitfall: seeding "best" from an arbitrary list
// element (rather than the first real eligible candidate) would make a
// strict less-than comparison never select anything when all priorities
// tie — so best starts nil and is only ever set from an eligible task.
type StaticPriority struct {
	SkipPeriodic bool
}

func (p StaticPriority) PickNext(rq *Runqueue, now uint64) *Task {
	var best *Task
	for _, t := range rq.Tasks {
		if !eligible(t, p.SkipPeriodic) {
			continue
		}
		if best == nil || t.Prio < best.Prio {
			best = t
		}
	}
	return best
}

// FairCFS returns the eligible task with the smallest VRuntime. Ported
// from __scheduler_cfs, with the same best-starts-nil tie-break care as
// StaticPriority.
type FairCFS struct {
	SkipPeriodic bool
}

func (p FairCFS) PickNext(rq *Runqueue, now uint64) *Task {
	var best *Task
	for _, t := range rq.Tasks {
		if !eligible(t, p.SkipPeriodic) {
			continue
		}
		if best == nil || t.VRuntime < best.VRuntime {
			best = t
		}
	}
	return best
}

// EarliestAbsoluteDeadline picks the eligible periodic task with the
// smallest Deadline, warning (but not excluding) a task whose deadline has
// already passed. Falls through to round-robin over the non-periodic tail
// when no periodic task is eligible. Ported from __scheduler_aedf.
type EarliestAbsoluteDeadline struct {
	WarnOnMiss bool
}

func (p EarliestAbsoluteDeadline) PickNext(rq *Runqueue, now uint64) *Task {
	var best *Task
	min := uint64(math.MaxUint64)
	for _, t := range rq.Tasks {
		if t.State != Running || !isPeriodic(t) {
			continue
		}
		if t.Deadline < now && p.WarnOnMiss {
			trust.Warnf("joy: task %d (%s) passed its deadline %d < %d", t.PID, t.Name, t.Deadline, now)
		}
		if best == nil || t.Deadline < min {
			best = t
			min = t.Deadline
		}
	}
	if best != nil {
		return best
	}
	return RoundRobin{SkipPeriodic: false}.PickNext(rq, now)
}

// EarliestDeadlineFirst picks the eligible periodic task with the smallest
// Deadline among those not yet executed in their current period, rolling
// a task whose period has elapsed back into eligibility first. Ported from
// __scheduler_edf per spec.md §4.3's explicit description of the rollover
// (the source body for this function is an MentOS teaching placeholder;
// spec.md's prose is the ground truth here, confirmed against scenario 6).
type EarliestDeadlineFirst struct {
	WarnOnMiss bool
}

func (p EarliestDeadlineFirst) PickNext(rq *Runqueue, now uint64) *Task {
	var best *Task
	min := uint64(math.MaxUint64)
	for _, t := range rq.Tasks {
		if t.State != Running || !isPeriodic(t) {
			continue
		}
		rolloverPeriodicTask(t, now, p.WarnOnMiss)
		if t.Executed {
			continue
		}
		if best == nil || t.Deadline < min {
			best = t
			min = t.Deadline
		}
	}
	if best != nil {
		return best
	}
	return RoundRobin{SkipPeriodic: false}.PickNext(rq, now)
}

// RateMonotonic is EarliestDeadlineFirst with NextPeriod as the selection
// key instead of Deadline. Ported from __scheduler_rm.
type RateMonotonic struct {
	WarnOnMiss bool
}

func (p RateMonotonic) PickNext(rq *Runqueue, now uint64) *Task {
	var best *Task
	min := uint64(math.MaxUint64)
	for _, t := range rq.Tasks {
		if t.State != Running || !isPeriodic(t) {
			continue
		}
		rolloverPeriodicTask(t, now, p.WarnOnMiss)
		if t.Executed {
			continue
		}
		if best == nil || t.NextPeriod < min {
			best = t
			min = t.NextPeriod
		}
	}
	if best != nil {
		return best
	}
	return RoundRobin{SkipPeriodic: false}.PickNext(rq, now)
}

// rolloverPeriodicTask reactivates t for its next period once that period
// has arrived: clears Executed and advances Deadline/NextPeriod by Period.
// Shared by edf and rm, whose only difference is the selection key. A task
// whose period has simply not elapsed yet is neither demoted nor logged
// (SPEC_FULL.md §12) — only a rollover that still leaves the task behind
// (its new deadline already in the past) is worth a warning.
func rolloverPeriodicTask(t *Task, now uint64, warnOnMiss bool) {
	if !t.Executed || t.NextPeriod > now {
		return
	}
	t.Executed = false
	t.Deadline += t.Period
	t.NextPeriod += t.Period
	if warnOnMiss && t.Deadline < now {
		trust.Warnf("joy: task %d (%s) rolled over already behind its new deadline %d < %d", t.PID, t.Name, t.Deadline, now)
	}
}
