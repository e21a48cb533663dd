// Package lru implements the Recency eviction policy.
package lru

import "github.com/IvanBrykalov/tiercache/policy"

// lru is a classic "move-to-front" Least-Recently-Used policy.
// It delegates list manipulation to policy.Hooks provided by the tier:
// the front of the list is the most recently used block.
type lru[K comparable] struct {
	h policy.Hooks[K]
}

type lruPolicy[K comparable] struct{}

// New returns a Policy factory that constructs per-tier LRU instances.
func New[K comparable]() policy.Policy[K] { return lruPolicy[K]{} }

// Kind reports policy.Recency.
func (lruPolicy[K]) Kind() policy.Kind { return policy.Recency }

// New implements policy.Policy by binding tier hooks.
func (lruPolicy[K]) New(h policy.Hooks[K]) policy.TierPolicy[K] {
	return &lru[K]{h: h}
}

// OnAdd places the new block at MRU.
func (p *lru[K]) OnAdd(n policy.Node[K]) { p.h.PushFront(n) }

// OnHit promotes the block to MRU.
func (p *lru[K]) OnHit(n policy.Node[K]) { p.h.MoveToFront(n) }

// OnRemove is a no-op for pure LRU (nothing to clean up in policy state).
func (p *lru[K]) OnRemove(policy.Node[K]) {}

// Victim is the LRU block, always at the back of the list.
func (p *lru[K]) Victim() policy.Node[K] { return p.h.Back() }

// Entries lists blocks most recently used first.
func (p *lru[K]) Entries() []policy.Entry[K] {
	out := make([]policy.Entry[K], 0, p.h.Len())
	p.h.Each(func(n policy.Node[K]) bool {
		out = append(out, policy.Entry[K]{Key: n.Key()})
		return true
	})
	return out
}
