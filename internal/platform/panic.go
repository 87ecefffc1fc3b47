package platform

import "daybreak/internal/trust"

// Panic reports an unrecoverable invariant violation and terminates the
// process. Reserved for conditions spec.md §7 says must never happen once
// reached — e.g. the scheduler's runqueue holding no RUNNING task — where
// returning an error to the caller would let corrupted state propagate
// further instead of stopping it at the source.
func Panic(reason string) {
	trust.Fatalf("platform: unrecoverable: %s", reason)
}
