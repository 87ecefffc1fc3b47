// Package upbeat implements the physical page allocator: a buddy-system
// allocator over a flat page-descriptor table, fronted by a watermark-driven
// per-instance cache of order-0 blocks. Grounded on the shape of
// src/lib/upbeat/buddy_decl.go (package name, per-order free-list array,
// arena-of-descriptors idea) with the algorithm itself ported from
// original_source/mentos's mem/buddy_system.c, the teacher's own buddy body
// being an unimplemented stub.
package upbeat

// flags is the two-bit tagged state of a page descriptor (spec §3): FREE and
// ROOT are orthogonal axes rather than a three-way enum, matching the
// source's bitset representation (see SPEC_FULL.md §9 flag-bits note).
type flags uint8

const (
	flagFree flags = 1 << iota
	flagRoot
)

// noLink is the sentinel for "not linked into any list".
const noLink = -1

// PageDescriptor is one entry of a buddy instance's flat descriptor table,
// one per physical page frame it owns. Link fields are indices into the
// owning instance's descriptor slice rather than pointers: an arena+index
// design (SPEC_FULL.md §9 / src/gen/fixed_dl.go) that gives O(1) unlink of a
// known descriptor without unsafe pointer arithmetic.
type PageDescriptor struct {
	flags flags
	order int

	// freePrev/freeNext link this descriptor into its instance's
	// free_area[order] list when FREE is set and it is ROOT. Only
	// meaningful for root descriptors.
	freePrev, freeNext int

	// cachePrev/cacheNext link this descriptor into the owning
	// instance's order-0 page cache. Mutually exclusive with the
	// free-list fields per descriptor (spec §3 invariant).
	cachePrev, cacheNext int
}

func (p *PageDescriptor) isFree() bool { return p.flags&flagFree != 0 }
func (p *PageDescriptor) isRoot() bool { return p.flags&flagRoot != 0 }

// Order reports the descriptor's current block order. Only meaningful when
// the descriptor is root; spec §3 leaves it undefined otherwise and callers
// must not rely on it in that case.
func (p *PageDescriptor) Order() int { return p.order }

// Index identifies a page descriptor by its position in the owning
// instance's flat descriptor table — the same "offset in the descriptor
// array" spec §4.1's free algorithm computes `idx` from.
type Index int
