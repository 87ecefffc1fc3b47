package upbeat

import (
	"fmt"
	"strings"

	"daybreak/internal/platform"
	"daybreak/internal/trust"
)

// MaxOrderDefault matches spec.md §6's build-time default: max block size
// 2^13 = 8192 pages (MAX_ORDER = 14 means orders [0,14), i.e. 14 distinct
// free-lists; kept configurable per SPEC_FULL.md §10.3 rather than a build
// symbol, per the §9 design note on policy/config selection).
const MaxOrderDefault = 14

// BuddyInstance is one allocator over one contiguous, page-aligned region —
// "one allocator per memory zone" (spec §2). Grounded on
// src/lib/upbeat/buddy_decl.go's BuddyLists/BuddyManagedPool shape; the
// algorithm body is ported from original_source/mentos's buddy_system.c.
type BuddyInstance struct {
	name            string
	pages           []PageDescriptor
	maxOrder        int
	freeArea        []freeList
	cache           cacheList
	cacheWatermarks watermarks
	guard           platform.IRQGuard
}

type watermarks struct {
	low, mid, high int
}

// Default cache watermarks per spec.md §4.2.
const (
	CacheLowDefault  = 10
	CacheHighDefault = 70
)

func defaultWatermarks() watermarks {
	return watermarks{low: CacheLowDefault, mid: (CacheLowDefault + CacheHighDefault) / 2, high: CacheHighDefault}
}

// NewBuddyInstance constructs and initializes a buddy instance over
// pageCount contiguous pages, using maxOrder free-lists (orders
// [0, maxOrder)). The region's page count must be a non-zero multiple of
// the largest block size (1 << (maxOrder-1)); any other length is rejected,
// matching spec.md §3's "tail residue ... is rejected at init."
//
// descriptor_offset from spec.md §6's literal C signature is dropped: the
// descriptor table here is a Go slice owned by the instance, not a
// caller-supplied placement inside a pre-reserved physical region (see
// DESIGN.md's Open Question log).
func NewBuddyInstance(name string, pageCount int, maxOrder int) (*BuddyInstance, error) {
	return NewBuddyInstanceWithWatermarks(name, pageCount, maxOrder, CacheLowDefault, CacheHighDefault)
}

// NewBuddyInstanceWithWatermarks is NewBuddyInstance with explicit cache
// watermarks, exposed so cmd/kernelctl can make them operator-configurable
// per SPEC_FULL.md §10.3.
func NewBuddyInstanceWithWatermarks(name string, pageCount int, maxOrder int, low, high int) (*BuddyInstance, error) {
	if pageCount == 0 {
		return nil, trust.InvalidArgf(trust.ErrZeroCount, "buddy %q: page count is zero", name)
	}
	if maxOrder <= 0 {
		return nil, trust.InvalidArgf(trust.ErrOrderOutOfRange, "buddy %q: max order %d must be positive", name, maxOrder)
	}
	blockSize := 1 << (maxOrder - 1)
	if pageCount%blockSize != 0 {
		return nil, trust.InvalidArgf(trust.ErrMisaligned,
			"buddy %q: %d pages is not a multiple of the max-order block size %d", name, pageCount, blockSize)
	}

	b := &BuddyInstance{
		name:            name,
		pages:           make([]PageDescriptor, pageCount),
		maxOrder:        maxOrder,
		freeArea:        make([]freeList, maxOrder),
		cache:           newCacheList(),
		cacheWatermarks: watermarks{low: low, mid: (low + high) / 2, high: high},
	}
	for i := range b.freeArea {
		b.freeArea[i] = newFreeList()
	}
	for i := range b.pages {
		b.pages[i].flags = flagFree
		b.pages[i].freePrev, b.pages[i].freeNext = noLink, noLink
		b.pages[i].cachePrev, b.pages[i].cacheNext = noLink, noLink
	}

	top := maxOrder - 1
	for start := 0; start+blockSize <= pageCount; start += blockSize {
		b.pages[start].order = top
		b.pages[start].flags |= flagRoot
		b.freeArea[top].pushFront(b.pages, start)
	}

	trust.Infof("buddy %q: initialized %d pages, max order %d, %d root blocks of order %d",
		name, pageCount, maxOrder, b.freeArea[top].nrFree, top)
	return b, nil
}

// Name returns the instance's identity (spec §3).
func (b *BuddyInstance) Name() string { return b.name }

// MaxOrder returns the number of free-lists (orders [0, MaxOrder)).
func (b *BuddyInstance) MaxOrder() int { return b.maxOrder }

// PagesTotal returns the page count the instance was initialized with.
func (b *BuddyInstance) PagesTotal() int { return len(b.pages) }

// Alloc returns the index of a free block of exactly 2^order contiguous
// pages, removed from the free-lists (spec §4.1's allocation algorithm).
func (b *BuddyInstance) Alloc(order int) (Index, error) {
	defer b.guard.Enter()()
	return b.allocLocked(order)
}

func (b *BuddyInstance) allocLocked(order int) (Index, error) {
	if order < 0 || order >= b.maxOrder {
		return 0, trust.InvalidArgf(trust.ErrOrderOutOfRange, "buddy %q: order %d out of range [0,%d)", b.name, order, b.maxOrder)
	}

	found := -1
	for k := order; k < b.maxOrder; k++ {
		if b.freeArea[k].nrFree > 0 {
			found = k
			break
		}
	}
	if found == -1 {
		return 0, trust.Exhaustedf(trust.ErrExhausted, "buddy %q: no free block at or above order %d", b.name, order)
	}
	if b.freeArea[found].nrFree <= 0 {
		return 0, trust.Corruptf(trust.ErrFreeUnderflow, "buddy %q: free_area[%d].nrFree is %d before pop", b.name, found, b.freeArea[found].nrFree)
	}

	idx := b.freeArea[found].popFront(b.pages)
	page := &b.pages[idx]
	if !page.isRoot() {
		return 0, trust.Corruptf(trust.ErrNotRoot, "buddy %q: page %d popped from free_area[%d] is not root", b.name, idx, found)
	}
	page.flags &^= flagFree

	for k := found; k > order; {
		k--
		half := 1 << k
		buddyIdx := idx + half
		buddy := &b.pages[buddyIdx]
		if !buddy.isFree() || buddy.isRoot() {
			return 0, trust.Corruptf(trust.ErrNotRoot, "buddy %q: buddy page %d invalid state during split at order %d", b.name, buddyIdx, k)
		}
		buddy.order = k
		buddy.flags |= flagRoot
		b.freeArea[k].pushFront(b.pages, buddyIdx)
	}

	page.order = order
	page.flags |= flagRoot
	page.flags &^= flagFree
	trust.Debugf("buddy %q: alloc order %d -> index %d", b.name, order, idx)
	return Index(idx), nil
}

// Free returns a previously-allocated block to the instance, coalescing
// with its buddy chain as far as possible (spec §4.1's free algorithm).
func (b *BuddyInstance) Free(idx Index) error {
	defer b.guard.Enter()()
	return b.freeLocked(int(idx))
}

func (b *BuddyInstance) freeLocked(idx int) error {
	if idx < 0 || idx >= len(b.pages) {
		return trust.InvalidArgf(trust.ErrIndexOutOfRange, "buddy %q: index %d out of range (total %d)", b.name, idx, len(b.pages))
	}
	page := &b.pages[idx]
	if page.isFree() {
		return trust.Corruptf(trust.ErrDoubleFree, "buddy %q: index %d is already free", b.name, idx)
	}
	if !page.isRoot() {
		return trust.Corruptf(trust.ErrNotRoot, "buddy %q: index %d is not a root page", b.name, idx)
	}

	order := page.order
	for order < b.maxOrder-1 {
		buddyIdx := idx ^ (1 << order)
		if buddyIdx >= len(b.pages) {
			break
		}
		buddy := &b.pages[buddyIdx]
		if !buddy.isFree() || buddy.order != order {
			break
		}
		b.freeArea[order].unlink(b.pages, buddyIdx)

		forgotIdx := idx
		if buddyIdx > idx {
			forgotIdx = buddyIdx
		}
		forgot := &b.pages[forgotIdx]
		forgot.flags &^= flagRoot
		forgot.flags |= flagFree

		idx &= buddyIdx
		order++
	}

	coalesced := &b.pages[idx]
	coalesced.order = order
	coalesced.flags |= flagFree | flagRoot
	b.freeArea[order].pushFront(b.pages, idx)
	trust.Debugf("buddy %q: free -> coalesced to order %d at index %d", b.name, order, idx)
	return nil
}

// TotalSpace returns the instance's total page count (spec §4.1 observer;
// "space" is reported in pages rather than bytes — byte scaling is the
// caller's concern, the page size is not this package's).
func (b *BuddyInstance) TotalSpace() int { return len(b.pages) }

// FreeSpace returns the number of pages currently free in the buddy
// free-lists, excluding the cache.
func (b *BuddyInstance) FreeSpace() int {
	defer b.guard.Enter()()
	return b.freeSpaceLocked()
}

func (b *BuddyInstance) freeSpaceLocked() int {
	total := 0
	for k, area := range b.freeArea {
		total += area.nrFree * (1 << k)
	}
	return total
}

// CachedSpace returns the number of pages currently sitting in the order-0
// page cache.
func (b *BuddyInstance) CachedSpace() int {
	defer b.guard.Enter()()
	return b.cache.nrFree
}

// String renders a human-readable per-order free-count line, matching the
// format of original_source/mentos's buddy_system_to_string: the instance
// name, one count per order, then a total.
func (b *BuddyInstance) String() string {
	defer b.guard.Enter()()
	var sb strings.Builder
	fmt.Fprintf(&sb, "%-8s ", b.name)
	for _, area := range b.freeArea {
		fmt.Fprintf(&sb, "%2d ", area.nrFree)
	}
	fmt.Fprintf(&sb, ": %d free, %d cached pages", b.freeSpaceLocked(), b.cache.nrFree)
	return sb.String()
}
