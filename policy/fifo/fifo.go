// Package fifo implements the InsertionOrder eviction policy.
package fifo

import "github.com/IvanBrykalov/tiercache/policy"

// fifo evicts strictly in arrival order. New blocks are linked at the
// front, so the back of the tier list is always the earliest arrival.
// Hits never touch the list.
type fifo[K comparable] struct {
	h policy.Hooks[K]
}

type fifoPolicy[K comparable] struct{}

// New returns a Policy factory that constructs per-tier FIFO instances.
func New[K comparable]() policy.Policy[K] { return fifoPolicy[K]{} }

// Kind reports policy.InsertionOrder.
func (fifoPolicy[K]) Kind() policy.Kind { return policy.InsertionOrder }

func (fifoPolicy[K]) New(h policy.Hooks[K]) policy.TierPolicy[K] {
	return &fifo[K]{h: h}
}

// OnAdd appends the block to the arrival queue.
func (p *fifo[K]) OnAdd(n policy.Node[K]) { p.h.PushFront(n) }

// OnHit ignores hits: arrival order is fixed at admission.
func (p *fifo[K]) OnHit(policy.Node[K]) {}

// OnRemove needs no bookkeeping; unlinking keeps the remainder in order.
func (p *fifo[K]) OnRemove(policy.Node[K]) {}

// Victim is the earliest arrival.
func (p *fifo[K]) Victim() policy.Node[K] { return p.h.Back() }

// Entries lists blocks oldest arrival first.
func (p *fifo[K]) Entries() []policy.Entry[K] {
	out := make([]policy.Entry[K], p.h.Len())
	i := len(out)
	p.h.Each(func(n policy.Node[K]) bool {
		i--
		out[i] = policy.Entry[K]{Key: n.Key()}
		return i > 0
	})
	return out[i:]
}
