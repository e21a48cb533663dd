// Package policy defines the contracts between a tier and its eviction policy.
package policy

import (
	"fmt"
	"strings"
)

// Kind identifies one of the supported eviction policies.
type Kind int

const (
	// Recency evicts the least recently used block (LRU).
	Recency Kind = iota
	// InsertionOrder evicts the earliest arrival (FIFO); hits never reorder.
	InsertionOrder
	// Frequency evicts the least frequently used block (LFU),
	// ties broken by the oldest logical timestamp.
	Frequency
)

// String returns the canonical lower-case name of the kind.
func (k Kind) String() string {
	switch k {
	case Recency:
		return "recency"
	case InsertionOrder:
		return "insertion"
	case Frequency:
		return "frequency"
	default:
		return fmt.Sprintf("kind(%d)", int(k))
	}
}

// ParseKind accepts the canonical names and the usual acronyms (lru, fifo, lfu).
func ParseKind(s string) (Kind, bool) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "recency", "lru":
		return Recency, true
	case "insertion", "insertion-order", "fifo":
		return InsertionOrder, true
	case "frequency", "lfu":
		return Frequency, true
	}
	return 0, false
}

// Node is the minimal contract a tier block must satisfy for a policy.
type Node[K comparable] interface {
	Key() K
}

// Hooks expose O(1) list operations on the tier's intrusive block list
// (head = front, tail = back). Implementations are provided by the tier.
//
// Hooks manage only the list; the tier owns the address->block map.
type Hooks[K comparable] interface {
	// PushFront links a newly admitted node at the front.
	PushFront(Node[K])
	// MoveToFront relinks a resident node at the front.
	MoveToFront(Node[K])
	// Back returns the node at the back (or nil if empty).
	Back() Node[K]
	// Each walks the list front to back until fn returns false.
	Each(fn func(Node[K]) bool)
	// Len returns the number of resident nodes.
	Len() int
}

// Entry is one resident block as reported by a snapshot.
// Refs is the reference count for Frequency policies and zero otherwise.
type Entry[K comparable] struct {
	Key  K
	Refs uint64
}

// TierPolicy is a per-tier eviction policy instance bound to tier hooks.
//
// Semantics:
//   - OnAdd admits a node that is not yet resident and links it via hooks.
//   - OnHit is called for a non-silent probe hit and for an insert of an
//     address that is already resident.
//   - OnRemove is a notification before the tier unlinks the node, both for
//     evictions and for explicit removals.
//   - Victim names the node to evict when the tier is full; it must not
//     mutate state (the tier follows up with OnRemove).
//   - Entries lists resident nodes in the policy's natural order.
type TierPolicy[K comparable] interface {
	OnAdd(Node[K])
	OnHit(Node[K])
	OnRemove(Node[K])
	Victim() Node[K]
	Entries() []Entry[K]
}

// Policy is a factory that creates tier-local policy instances.
type Policy[K comparable] interface {
	Kind() Kind
	New(Hooks[K]) TierPolicy[K]
}
