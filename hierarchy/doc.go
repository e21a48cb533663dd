// Package hierarchy models a multi-tier cache hierarchy: an ordered stack of
// capacity-bounded tiers, each with its own eviction policy and write
// policy, in front of a backing store.
//
// Design
//
//   - Tiers: each tier keeps a map[K]*block for lookups and an intrusive
//     doubly linked list whose order is driven by its policy through
//     policy.Hooks. The policy is chosen once, at construction, from
//     TierSpec.Policy (Recency, InsertionOrder or Frequency).
//
//   - Write policies: a Deferred tier marks filled blocks dirty and flushes
//     them to the backing store only when they are evicted. An Immediate
//     tier writes the store at insertion time and never holds dirty blocks.
//
//   - Access protocol: tiers are probed fastest first and the scan stops at
//     the first hit. A hit below tier 1 removes the block from its tier
//     (without flushing) and inserts it into tier 1. A full miss fetches
//     from the backing store and fills tier 1. The tier-1 insertion is
//     silent: it never counts as an extra tier-1 hit or miss.
//
//   - Lower tiers: Insert places a block into any tier directly. With
//     Options.Demote, a victim moves one tier down instead of leaving;
//     Event.Cascade reports the evictions this causes further down.
//
//   - Stats: per-tier hits, misses, evictions, write-backs and promotions
//     plus backing-store fetch/write totals. Options.Metrics receives the
//     same signals; plug metrics/prom to export them.
//
//   - Logging: Options.Logger (zap) receives construction at Info and
//     evictions, promotions and fetches at Debug.
//
// Basic usage
//
//	h, err := hierarchy.New[int](hierarchy.Options[int]{
//	    Tiers: hierarchy.DefaultTiers(2, 4, 8),
//	})
//	if err != nil {
//	    return err // wraps hierarchy.ErrInvalidConfiguration
//	}
//	for ev := range h.Replay(slices.Values([]int{1, 2, 1, 3})) {
//	    fmt.Println(ev.Addr, ev.Level, ev.Promoted)
//	}
//	fmt.Println(h.Stats())
//
// Thread-safety
//
// A Hierarchy from New is single-threaded. Synchronized wraps it with one
// mutex over the whole hierarchy.
package hierarchy
