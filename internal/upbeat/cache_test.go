package upbeat

import (
	"testing"

	"github.com/stretchr/testify/require"
)

// newCacheTestInstance gives the cache plenty of buddy backing (order-13
// max block = 8192 pages) so watermark refills never hit exhaustion.
func newCacheTestInstance(t *testing.T) *BuddyInstance {
	t.Helper()
	b, err := NewBuddyInstance("cache-test", 8192, 14)
	require.NoError(t, err)
	return b
}

// TestCacheHysteresis reproduces spec.md §8 scenario 3 exactly: one
// cached_alloc refills to MID and returns one page (cache_size=39); 32
// subsequent cached_free calls push cache_size to 71, which is above HIGH
// and triggers a shrink back to MID=40, returning 31 pages to the buddy.
func TestCacheHysteresis(t *testing.T) {
	b := newCacheTestInstance(t)
	freeAfterInit := b.FreeSpace()

	_, err := b.CachedAlloc()
	require.NoError(t, err)
	require.Equal(t, 39, b.CachedSpace())
	freeAfterRefill := b.FreeSpace()
	require.Equal(t, freeAfterInit-40, freeAfterRefill)

	var pushed []Index
	for i := 0; i < 32; i++ {
		idx, err := b.Alloc(0)
		require.NoError(t, err)
		pushed = append(pushed, idx)
	}
	for _, idx := range pushed {
		require.NoError(t, b.CachedFree(idx))
	}

	require.Equal(t, (CacheLowDefault+CacheHighDefault)/2, b.CachedSpace())
	// 32 pages left the buddy via Alloc, 31 of them returned via the
	// shrink triggered on the 32nd CachedFree (spec.md §8 scenario 3).
	require.Equal(t, freeAfterRefill-32+31, b.FreeSpace())
}

func TestCacheBoundsStayWithinRange(t *testing.T) {
	b := newCacheTestInstance(t)

	var held []Index
	for round := 0; round < 5; round++ {
		for i := 0; i < 20; i++ {
			idx, err := b.CachedAlloc()
			require.NoError(t, err)
			held = append(held, idx)
			require.GreaterOrEqual(t, b.CachedSpace(), 0)
			require.LessOrEqual(t, b.CachedSpace(), CacheHighDefault+CacheLowDefault)
		}
		for len(held) > 0 {
			idx := held[len(held)-1]
			held = held[:len(held)-1]
			require.NoError(t, b.CachedFree(idx))
			require.GreaterOrEqual(t, b.CachedSpace(), 0)
			require.LessOrEqual(t, b.CachedSpace(), CacheHighDefault+CacheLowDefault)
		}
	}
}

func TestCachedFreeRejectsOutOfRangeIndex(t *testing.T) {
	b := newCacheTestInstance(t)
	require.Error(t, b.CachedFree(Index(1<<20)))
}

func TestCachedAllocAndFreeConserveSpace(t *testing.T) {
	b := newCacheTestInstance(t)
	total := b.TotalSpace()

	idx, err := b.CachedAlloc()
	require.NoError(t, err)
	require.NoError(t, b.CachedFree(idx))

	require.Equal(t, total, b.FreeSpace()+b.CachedSpace())
}
