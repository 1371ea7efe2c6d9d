package perft

import (
	"runtime"
	"sync/atomic"
)

// depth2CacheShards is the number of independent depth-2 cache shards;
// splitting a single cache into many shards means concurrent workers
// visiting unrelated subtrees rarely contend on the same shard.
const depth2CacheShards = 1024

// depth2Slot holds one (key, value) pair for the depth-2 cache. Go has no
// portable 128-bit atomic load/store, so key and value are each updated
// with their own atomic store. The key field holds key XOR value, so a
// reader that observes a torn update (key from one store, value from
// another) fails the key check in get and treats it as a miss, which only
// costs a redundant recompute.
type depth2Slot struct {
	key   atomic.Uint64
	value atomic.Uint32
	valid atomic.Bool
}

// depth2Cache caches exact leaf counts for subtrees exactly 2 plies deep,
// where the per-subtree count is small enough (never much above 218^2) to
// fit a uint32.
type depth2Cache struct {
	shards [depth2CacheShards]depth2Slot
}

func newDepth2Cache() *depth2Cache { return &depth2Cache{} }

func depth2Key(hash uint64) uint64 { return hash ^ depthMixer(2) }

func (c *depth2Cache) get(hash uint64) (uint32, bool) {
	key := depth2Key(hash)
	slot := &c.shards[key%depth2CacheShards]
	v := slot.value.Load()
	if !slot.valid.Load() || slot.key.Load()^uint64(v) != key {
		return 0, false
	}
	return v, true
}

func (c *depth2Cache) put(hash uint64, value uint32) {
	key := depth2Key(hash)
	slot := &c.shards[key%depth2CacheShards]
	slot.value.Store(value)
	slot.key.Store(key ^ uint64(value))
	slot.valid.Store(true)
}

// spinlock is a minimal test-and-set lock: cheap to acquire when
// uncontended, which is the expected case for a wide shard count.
type spinlock struct{ locked atomic.Bool }

func (s *spinlock) Lock() {
	for !s.locked.CompareAndSwap(false, true) {
		runtime.Gosched()
	}
}

func (s *spinlock) Unlock() { s.locked.Store(false) }

// generalCacheShards is the shard count for the d>=3 cache.
const generalCacheShards = 256

// generalCacheMinCount is the minimum subtree leaf count worth caching;
// trivial branches would only add map churn for no benefit.
const generalCacheMinCount = 100

type generalCacheEntry struct {
	hash  uint64
	depth int
	count Count
}

// generalCache caches exact leaf counts keyed by (hash, depth) for
// sufficiently large subtrees at depth >= 3, sharded by lock to bound
// contention across perft's worker pool.
type generalCache struct {
	locks   [generalCacheShards]spinlock
	entries [generalCacheShards]map[uint64]generalCacheEntry
}

func newGeneralCache() *generalCache {
	gc := &generalCache{}
	for i := range gc.entries {
		gc.entries[i] = make(map[uint64]generalCacheEntry)
	}
	return gc
}

func depthMixer(depth int) uint64 {
	// A fixed odd multiplier spreads depth across the hash's bit range so
	// the same position at two different depths lands in different slots.
	return uint64(depth) * 0x9E3779B97F4A7C15
}

func (c *generalCache) shardFor(key uint64) int { return int(key % generalCacheShards) }

func (c *generalCache) get(hash uint64, depth int) (Count, bool) {
	key := hash ^ depthMixer(depth)
	shard := c.shardFor(key)
	c.locks[shard].Lock()
	defer c.locks[shard].Unlock()
	e, ok := c.entries[shard][key]
	if !ok || e.hash != hash || e.depth != depth {
		return Count{}, false
	}
	return e.count, true
}

func (c *generalCache) put(hash uint64, depth int, count Count) {
	if count.Hi == 0 && count.Lo < generalCacheMinCount {
		return
	}
	key := hash ^ depthMixer(depth)
	shard := c.shardFor(key)
	c.locks[shard].Lock()
	defer c.locks[shard].Unlock()
	c.entries[shard][key] = generalCacheEntry{hash: hash, depth: depth, count: count}
}
