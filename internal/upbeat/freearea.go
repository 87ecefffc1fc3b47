package upbeat

// freeList is a doubly-linked, index-based list head for one free_area[k]
// slot (the order-0 page cache uses cacheList below, which has the same
// shape). head is noLink when empty. Grounded on src/gen/fixed_dl.go's fixed-pool doubly
// linked list, adapted to index links over a slice instead of pointer links
// over an unsafe.Pointer-backed arena.
type freeList struct {
	head   int
	nrFree int
}

func newFreeList() freeList {
	return freeList{head: noLink}
}

// pushFront links idx at the head of the free list, using the buddy
// free-list fields of the descriptor table.
func (l *freeList) pushFront(pages []PageDescriptor, idx int) {
	pages[idx].freePrev = noLink
	pages[idx].freeNext = l.head
	if l.head != noLink {
		pages[l.head].freePrev = idx
	}
	l.head = idx
	l.nrFree++
}

// unlink removes idx from the free list. idx must currently be linked into
// this list; callers (buddy coalescing) know this because they just tested
// the buddy descriptor's FREE flag and order.
func (l *freeList) unlink(pages []PageDescriptor, idx int) {
	prev, next := pages[idx].freePrev, pages[idx].freeNext
	if prev != noLink {
		pages[prev].freeNext = next
	} else {
		l.head = next
	}
	if next != noLink {
		pages[next].freePrev = prev
	}
	pages[idx].freePrev, pages[idx].freeNext = noLink, noLink
	l.nrFree--
}

// popFront unlinks and returns the head index. Callers must check
// l.nrFree > 0 first.
func (l *freeList) popFront(pages []PageDescriptor) int {
	idx := l.head
	l.unlink(pages, idx)
	return idx
}

// cacheList is the same index-linked shape as freeList, but threaded through
// the descriptor's cache link fields instead of its free-list link fields —
// spec §3's "two mutually exclusive intrusive link fields", kept as two
// distinct small types rather than one generic list to keep the two link
// fields visibly separate at the type level. Both lists take a plain index,
// and nothing checks at run time that a descriptor is on only one of them.
type cacheList struct {
	head   int
	nrFree int
}

func newCacheList() cacheList {
	return cacheList{head: noLink}
}

func (l *cacheList) pushFront(pages []PageDescriptor, idx int) {
	pages[idx].cachePrev = noLink
	pages[idx].cacheNext = l.head
	if l.head != noLink {
		pages[l.head].cachePrev = idx
	}
	l.head = idx
	l.nrFree++
}

func (l *cacheList) popFront(pages []PageDescriptor) int {
	idx := l.head
	next := pages[idx].cacheNext
	l.head = next
	if next != noLink {
		pages[next].cachePrev = noLink
	}
	pages[idx].cachePrev, pages[idx].cacheNext = noLink, noLink
	l.nrFree--
	return idx
}
