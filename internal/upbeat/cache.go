package upbeat

import "daybreak/internal/trust"

// CachedAlloc returns an order-0 block through the instance's watermark-
// regulated cache (spec §4.2). A page obtained here must be returned via
// CachedFree, never Free directly (the two intrusive link fields on a
// descriptor are mutually exclusive, per spec §3 — mixing them is a bug by
// construction).
func (b *BuddyInstance) CachedAlloc() (Index, error) {
	defer b.guard.Enter()()

	if b.cache.nrFree < b.cacheWatermarks.low {
		toRequest := b.cacheWatermarks.mid - b.cache.nrFree
		if err := b.extendCacheLocked(toRequest); err != nil {
			return 0, err
		}
	}
	if b.cache.nrFree == 0 {
		return 0, trust.Exhaustedf(trust.ErrExhausted, "buddy %q: cache empty and buddy exhausted", b.name)
	}
	idx := b.cache.popFront(b.pages)
	trust.Debugf("buddy %q: cached_alloc -> index %d (cache_size=%d)", b.name, idx, b.cache.nrFree)
	return Index(idx), nil
}

// CachedFree returns a block obtained from CachedAlloc to the cache,
// shrinking it back to MID if it has grown past HIGH.
func (b *BuddyInstance) CachedFree(idx Index) error {
	defer b.guard.Enter()()

	i := int(idx)
	if i < 0 || i >= len(b.pages) {
		return trust.InvalidArgf(trust.ErrIndexOutOfRange, "buddy %q: index %d out of range (total %d)", b.name, i, len(b.pages))
	}
	b.cache.pushFront(b.pages, i)

	if b.cache.nrFree > b.cacheWatermarks.high {
		toFree := b.cache.nrFree - b.cacheWatermarks.mid
		if err := b.shrinkCacheLocked(toFree); err != nil {
			return err
		}
	}
	trust.Debugf("buddy %q: cached_free index %d (cache_size=%d)", b.name, i, b.cache.nrFree)
	return nil
}

// extendCacheLocked pulls count order-0 blocks from the buddy into the
// cache. Runs with the instance guard already held.
func (b *BuddyInstance) extendCacheLocked(count int) error {
	for i := 0; i < count; i++ {
		idx, err := b.allocLocked(0)
		if err != nil {
			// Buddy is exhausted; leave the cache at whatever size it
			// reached. CachedAlloc above handles a still-empty cache.
			return nil
		}
		b.cache.pushFront(b.pages, int(idx))
	}
	return nil
}

// shrinkCacheLocked returns count order-0 blocks from the cache to the
// buddy. Runs with the instance guard already held.
func (b *BuddyInstance) shrinkCacheLocked(count int) error {
	for i := 0; i < count && b.cache.nrFree > 0; i++ {
		idx := b.cache.popFront(b.pages)
		if err := b.freeLocked(idx); err != nil {
			return err
		}
	}
	return nil
}
