package hierarchy

import "iter"

// Hierarchy is an ordered stack of cache tiers in front of a backing store.
// Tier 1 is the fastest level.
//
// A Hierarchy returned by New is NOT safe for concurrent use: one access is
// fully processed before the next is admitted. Wrap it with Synchronized to
// share it between goroutines.
type Hierarchy[K comparable] interface {
	// Access runs the lookup protocol for addr: probe tiers in order, stop
	// at the first hit, promote a lower-tier hit into tier 1, or fetch from
	// the backing store and fill tier 1 on a full miss.
	Access(addr K) Event[K]

	// Replay feeds every address of trace through Access, yielding one
	// Event per address. Stopping the iteration stops the replay.
	Replay(trace iter.Seq[K]) iter.Seq[Event[K]]

	// Insert places addr directly into the given tier, for warm-up or
	// seeding. It counts no hit or miss; a resident addr is treated as a
	// hit by the tier's policy. The same addr may then be resident in more
	// than one tier; lookups always stop at the fastest one.
	//
	// The returned evictions start with the target tier's victim, followed
	// by any demotion cascade below it. Empty when nothing was evicted.
	Insert(level int, addr K) ([]Eviction[K], error)

	// Locate returns the level holding addr without counting a probe or
	// touching any policy state.
	Locate(addr K) (level int, ok bool)

	// Snapshot returns every tier's resident blocks in natural order.
	Snapshot() []TierSnapshot[K]

	// Stats returns a copy of the hit/miss/eviction counters.
	Stats() Stats

	// Flush writes every dirty block to the backing store and clears its
	// dirty flag. Blocks stay resident. Returns the number of blocks written.
	Flush() int

	// Levels returns the number of tiers.
	Levels() int
}
