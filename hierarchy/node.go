package hierarchy

// block is an intrusive doubly linked list element owned by a tier.
// Policy metadata (reference counts, timestamps) lives in the policy;
// the block carries only what the tier itself needs.
type block[K comparable] struct {
	addr K

	// Intrusive list links: head is the policy's "front".
	prev *block[K]
	next *block[K]

	// dirty is set while the block's value has not reached the backing
	// store. Only Deferred tiers ever set it.
	dirty bool
}

// Key returns the block address (part of policy.Node interface).
func (b *block[K]) Key() K { return b.addr }
