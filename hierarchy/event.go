package hierarchy

// Eviction describes a block displaced from a full tier.
type Eviction[K comparable] struct {
	Addr  K
	Level int
	// WroteBack is true when the block was dirty and was flushed to the
	// backing store on its way out.
	WroteBack bool
	// DemotedTo is the level the block moved down to, or 0 when it left
	// the hierarchy. Only set when Options.Demote is enabled.
	DemotedTo int
}

// Event is the per-access record handed to reporters.
type Event[K comparable] struct {
	Addr K
	// Level is the 1-based tier that satisfied the access, or 0 on a full miss.
	Level int
	// Promoted is true when a lower-tier hit moved the block into tier 1.
	Promoted bool
	// Evicted is the tier-1 victim displaced by a promotion or fill, if any.
	Evicted *Eviction[K]
	// Cascade lists lower-tier evictions caused by demoting Evicted,
	// fastest tier first. Always empty unless Options.Demote is enabled.
	Cascade []Eviction[K]
}

// Hit reports whether any tier satisfied the access.
func (e Event[K]) Hit() bool { return e.Level > 0 }

// Block is one resident block in a snapshot.
// Refs is the reference count for Frequency tiers and zero otherwise.
type Block[K comparable] struct {
	Addr  K
	Refs  uint64
	Dirty bool
}

// TierSnapshot lists a tier's resident blocks in the policy's natural order:
// most recent first for Recency, oldest arrival first for InsertionOrder,
// arrival order with reference counts for Frequency.
type TierSnapshot[K comparable] struct {
	Level  int
	Spec   TierSpec
	Blocks []Block[K]
}

// Addrs returns the resident addresses in snapshot order.
func (s TierSnapshot[K]) Addrs() []K {
	out := make([]K, len(s.Blocks))
	for i, b := range s.Blocks {
		out[i] = b.Addr
	}
	return out
}
