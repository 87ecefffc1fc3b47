// Package trust is the logging and fault-reporting facility shared by the
// page allocator and the scheduler. Both subsystems run in kernel context,
// where the usual client of a log call is a future reader of a crash dump
// rather than an interactive user, so the API favors terse, leveled,
// always-available calls over structured builders.
package trust

import (
	"fmt"

	"k8s.io/klog/v2"
)

// MaskLevel is a bitmask of log levels. Combine with OR to enable more
// than one level; Fatalf ignores the mask entirely.
type MaskLevel int

const (
	Nothing   MaskLevel = 0x0
	ErrorMask MaskLevel = 0x1
	WarnMask  MaskLevel = 0x2
	InfoMask  MaskLevel = 0x4
	DebugMask MaskLevel = 0x8
	StatsMask MaskLevel = 0x10

	fatalMask MaskLevel = 0x80
)

var level = fatalMask | StatsMask | ErrorMask | WarnMask | InfoMask | DebugMask

// SetLevel installs a new mask and returns the previous one. Passing a mask
// with none of the five informational bits set still logs Fatalf calls.
func SetLevel(mask MaskLevel) MaskLevel {
	if mask&0x1f == 0 {
		klog.Warning("trust.SetLevel is turning off all non-fatal log messages")
	}
	result := Nothing
	switch {
	case mask&ErrorMask > 0:
		result |= ErrorMask
		fallthrough
	case mask&WarnMask > 0:
		result |= WarnMask
		fallthrough
	case mask&InfoMask > 0:
		result |= InfoMask
		fallthrough
	case mask&DebugMask > 0:
		result |= DebugMask
		fallthrough
	case mask&StatsMask > 0:
		result |= StatsMask
	}
	r := level & 0x1f
	level = result | fatalMask
	return r
}

func Level() MaskLevel {
	return level
}

func LevelToString() string {
	result := ""
	switch {
	case level&ErrorMask > 0:
		result += "error "
		fallthrough
	case level&WarnMask > 0:
		result += "warn "
		fallthrough
	case level&InfoMask > 0:
		result += "info "
		fallthrough
	case level&DebugMask > 0:
		result += "debug "
		fallthrough
	case level&StatsMask > 0:
		result += "stats"
	}
	return result
}

// Fatalf logs unconditionally and then terminates the process. Reserved for
// the scheduler's "no RUNNING task" invariant violation (spec.md §7): a
// condition the core asserts can never happen.
func Fatalf(format string, params ...interface{}) {
	klog.FatalDepth(1, fmt.Sprintf(format, params...))
}

// Errorf logs at ErrorMask, gated by the current level.
func Errorf(format string, params ...interface{}) {
	if level&ErrorMask == 0 {
		return
	}
	klog.ErrorDepth(1, fmt.Sprintf(format, params...))
}

// Warnf logs at WarnMask, gated by the current level.
func Warnf(format string, params ...interface{}) {
	if level&WarnMask == 0 {
		return
	}
	klog.WarningDepth(1, fmt.Sprintf(format, params...))
}

// Infof logs at InfoMask, gated by the current level.
func Infof(format string, params ...interface{}) {
	if level&InfoMask == 0 {
		return
	}
	klog.InfoDepth(1, fmt.Sprintf(format, params...))
}

// Debugf logs at DebugMask, gated by the current level. Routed through
// klog's verbosity gate (V(2)) so `-v` continues to control debug noise
// even when the trust-level mask allows it.
func Debugf(format string, params ...interface{}) {
	if level&DebugMask == 0 {
		return
	}
	klog.V(2).InfoDepth(1, fmt.Sprintf(format, params...))
}

// Statsf logs at StatsMask under the given category, e.g. "buddy" or
// "runqueue". Routed through klog.V(3) so stats output can be silenced
// independently of Debugf via verbosity alone.
func Statsf(category string, format string, params ...interface{}) {
	if level&StatsMask == 0 {
		return
	}
	klog.V(3).InfoDepth(1, fmt.Sprintf("STATS[%s]: %s", category, fmt.Sprintf(format, params...)))
}
