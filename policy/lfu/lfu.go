// Package lfu implements the Frequency eviction policy.
package lfu

import (
	"container/heap"
	"slices"

	"github.com/IvanBrykalov/tiercache/policy"
)

// item is the per-block frequency metadata.
type item[K comparable] struct {
	n     policy.Node[K]
	refs  uint64 // reference count, starts at 1
	stamp uint64 // logical time of the last admission or hit
	idx   int    // position in the heap
}

// minHeap orders items by (refs, stamp): the root is the eviction victim.
// Stamps are unique within a tier, so the order is total.
type minHeap[K comparable] []*item[K]

func (h minHeap[K]) Len() int { return len(h) }
func (h minHeap[K]) Less(i, j int) bool {
	if h[i].refs != h[j].refs {
		return h[i].refs < h[j].refs
	}
	return h[i].stamp < h[j].stamp
}
func (h minHeap[K]) Swap(i, j int) {
	h[i], h[j] = h[j], h[i]
	h[i].idx = i
	h[j].idx = j
}
func (h *minHeap[K]) Push(x any) {
	it := x.(*item[K])
	it.idx = len(*h)
	*h = append(*h, it)
}
func (h *minHeap[K]) Pop() any {
	old := *h
	n := len(old)
	it := old[n-1]
	old[n-1] = nil
	it.idx = -1
	*h = old[:n-1]
	return it
}

// lfu keeps blocks in arrival order on the tier list (for snapshots) and in
// a min-heap keyed by (refs, stamp) for victim selection.
//
// Concurrency: all methods are called by the owning tier, never concurrently.
type lfu[K comparable] struct {
	h     policy.Hooks[K]
	clock uint64
	heap  minHeap[K]
	items map[policy.Node[K]]*item[K]
}

type lfuPolicy[K comparable] struct{}

// New returns a Policy factory that constructs per-tier LFU instances.
func New[K comparable]() policy.Policy[K] { return lfuPolicy[K]{} }

// Kind reports policy.Frequency.
func (lfuPolicy[K]) Kind() policy.Kind { return policy.Frequency }

func (lfuPolicy[K]) New(h policy.Hooks[K]) policy.TierPolicy[K] {
	return &lfu[K]{
		h:     h,
		items: make(map[policy.Node[K]]*item[K]),
	}
}

func (p *lfu[K]) tick() uint64 {
	p.clock++
	return p.clock
}

// OnAdd admits the block with refs=1 and the current logical time.
func (p *lfu[K]) OnAdd(n policy.Node[K]) {
	p.h.PushFront(n)
	it := &item[K]{n: n, refs: 1, stamp: p.tick()}
	p.items[n] = it
	heap.Push(&p.heap, it)
}

// OnHit bumps the reference count and refreshes the timestamp.
func (p *lfu[K]) OnHit(n policy.Node[K]) {
	it, ok := p.items[n]
	if !ok {
		return
	}
	it.refs++
	it.stamp = p.tick()
	heap.Fix(&p.heap, it.idx)
}

// OnRemove drops the block's metadata.
func (p *lfu[K]) OnRemove(n policy.Node[K]) {
	it, ok := p.items[n]
	if !ok {
		return
	}
	heap.Remove(&p.heap, it.idx)
	delete(p.items, n)
}

// Victim is the block with the fewest references; among equals, the one
// updated longest ago.
func (p *lfu[K]) Victim() policy.Node[K] {
	if len(p.heap) == 0 {
		return nil
	}
	return p.heap[0].n
}

// Entries lists address/refs pairs in arrival order.
func (p *lfu[K]) Entries() []policy.Entry[K] {
	out := make([]policy.Entry[K], 0, len(p.items))
	p.h.Each(func(n policy.Node[K]) bool {
		if it, ok := p.items[n]; ok {
			out = append(out, policy.Entry[K]{Key: n.Key(), Refs: it.refs})
		}
		return true
	})
	// The list front is the newest arrival.
	slices.Reverse(out)
	return out
}
