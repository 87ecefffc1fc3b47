package trust

import (
	"github.com/cockroachdb/errors"
)

// Kind classifies a Fault per the taxonomy of spec.md §7.
type Kind int

const (
	// InvalidArgument covers programmer errors: an out-of-range order, a
	// zero count, a misaligned region. Recoverable by the caller; the
	// operation simply did not happen.
	InvalidArgument Kind = iota
	// InvariantViolation covers corruption: double free, freeing a
	// non-root page, an nr_free underflow, an out-of-range index. The
	// caller should treat these as unrecoverable at this layer.
	InvariantViolation
	// Exhaustion covers "no free block of the requested order or
	// higher". Always recoverable; the caller decides whether to retry,
	// sleep, or propagate ENOMEM.
	Exhaustion
)

func (k Kind) String() string {
	switch k {
	case InvalidArgument:
		return "invalid-argument"
	case InvariantViolation:
		return "invariant-violation"
	case Exhaustion:
		return "exhaustion"
	default:
		return "unknown"
	}
}

// Fault is the error type returned by every fallible operation in
// internal/upbeat. It wraps a cockroachdb/errors error so callers can still
// use errors.Is/errors.As against the exported sentinels below.
type Fault struct {
	Kind Kind
	err  error
}

func (f *Fault) Error() string { return f.err.Error() }
func (f *Fault) Unwrap() error { return f.err }

func newFault(kind Kind, sentinel error, format string, args ...interface{}) *Fault {
	return &Fault{Kind: kind, err: errors.Wrapf(sentinel, format, args...)}
}

// Sentinel errors an operation's Fault wraps; match with errors.Is.
var (
	ErrZeroCount       = errors.New("buddy: page count is zero")
	ErrMisaligned      = errors.New("buddy: region is not aligned to the max-order block size")
	ErrOrderOutOfRange = errors.New("buddy: order is out of range")

	ErrDoubleFree      = errors.New("buddy: page is already free")
	ErrNotRoot         = errors.New("buddy: page is not a root page")
	ErrIndexOutOfRange = errors.New("buddy: page index is out of range")
	ErrFreeUnderflow   = errors.New("buddy: nr_free underflow")

	ErrExhausted = errors.New("buddy: no free block available at or above the requested order")
)

// InvalidArgf builds an InvalidArgument Fault wrapping sentinel.
func InvalidArgf(sentinel error, format string, args ...interface{}) *Fault {
	return newFault(InvalidArgument, sentinel, format, args...)
}

// Corruptf builds an InvariantViolation Fault wrapping sentinel, and logs a
// critical diagnostic immediately — per spec.md §7 corruption is reported
// eagerly, independent of whether the caller inspects the returned error.
func Corruptf(sentinel error, format string, args ...interface{}) *Fault {
	f := newFault(InvariantViolation, sentinel, format, args...)
	Errorf("invariant violation: %s", f.Error())
	return f
}

// Exhaustedf builds an Exhaustion Fault wrapping sentinel.
func Exhaustedf(sentinel error, format string, args ...interface{}) *Fault {
	return newFault(Exhaustion, sentinel, format, args...)
}
