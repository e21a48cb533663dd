package hierarchy

import (
	"github.com/IvanBrykalov/tiercache/policy"
	"github.com/IvanBrykalov/tiercache/policy/fifo"
	"github.com/IvanBrykalov/tiercache/policy/lfu"
	"github.com/IvanBrykalov/tiercache/policy/lru"
	"github.com/IvanBrykalov/tiercache/store"
)

// maxPresize bounds the initial map size; a tier grows as blocks arrive.
const maxPresize = 1024

// tier is one capacity-bounded level of the hierarchy: a map for lookups
// and an intrusive doubly linked list whose order is driven by the policy.
//
// Invariant: len <= spec.Capacity after every exported operation.
type tier[K comparable] struct {
	level int
	spec  TierSpec

	m    map[K]*block[K]
	head *block[K]
	tail *block[K]
	len  int

	pol policy.TierPolicy[K]
}

// policyFor resolves a Kind to its factory. It runs once per tier.
func policyFor[K comparable](k policy.Kind) (policy.Policy[K], bool) {
	switch k {
	case policy.Recency:
		return lru.New[K](), true
	case policy.InsertionOrder:
		return fifo.New[K](), true
	case policy.Frequency:
		return lfu.New[K](), true
	}
	return nil, false
}

// newTier validates spec and binds a fresh policy instance to the tier's list.
func newTier[K comparable](level int, spec TierSpec) (*tier[K], error) {
	if spec.Capacity <= 0 {
		return nil, invalidf("tier %d: capacity must be > 0 but %d was requested", level, spec.Capacity)
	}
	if spec.Write != Deferred && spec.Write != Immediate {
		return nil, invalidf("tier %d: unknown write policy %v", level, spec.Write)
	}
	p, ok := policyFor[K](spec.Policy)
	if !ok {
		return nil, invalidf("tier %d: unknown eviction policy %v", level, spec.Policy)
	}
	t := &tier[K]{
		level: level,
		spec:  spec,
		m:     make(map[K]*block[K], min(spec.Capacity, maxPresize)),
	}
	t.pol = p.New(tierHooks[K]{t: t})
	return t, nil
}

// probe reports whether addr is resident. A non-silent hit is forwarded to
// the policy (recency refresh, reference count bump, ...).
func (t *tier[K]) probe(addr K, silent bool) bool {
	b, ok := t.m[addr]
	if !ok {
		return false
	}
	if !silent {
		t.pol.OnHit(b)
	}
	return true
}

// insert admits addr. A resident address is treated as a hit by the policy.
// Otherwise, when the tier is full, the policy's victim is evicted first and
// flushed to st if it is dirty. The store is touched only for that flush and
// for the write-through of an Immediate tier.
func (t *tier[K]) insert(addr K, st store.BackingStore[K]) (ev Eviction[K], evicted bool) {
	if b, ok := t.m[addr]; ok {
		t.pol.OnHit(b)
		return ev, false
	}

	if t.len >= t.spec.Capacity {
		if v := t.pol.Victim(); v != nil {
			vb := v.(*block[K])
			ev = Eviction[K]{Addr: vb.addr, Level: t.level}
			if vb.dirty {
				st.Write(vb.addr)
				ev.WroteBack = true
			}
			t.drop(vb)
			evicted = true
		}
	}

	b := &block[K]{addr: addr}
	t.m[addr] = b
	t.pol.OnAdd(b)
	switch t.spec.Write {
	case Deferred:
		b.dirty = true
	case Immediate:
		st.Write(addr)
	}
	return ev, evicted
}

// remove unlinks addr without flushing. Absent addresses are a no-op.
func (t *tier[K]) remove(addr K) bool {
	b, ok := t.m[addr]
	if !ok {
		return false
	}
	t.drop(b)
	return true
}

// flush writes every dirty block to st and clears its dirty flag.
func (t *tier[K]) flush(st store.BackingStore[K]) int {
	n := 0
	for b := t.head; b != nil; b = b.next {
		if b.dirty {
			st.Write(b.addr)
			b.dirty = false
			n++
		}
	}
	return n
}

// snapshot reports resident blocks in the policy's natural order.
func (t *tier[K]) snapshot() TierSnapshot[K] {
	entries := t.pol.Entries()
	blocks := make([]Block[K], 0, len(entries))
	for _, e := range entries {
		blocks = append(blocks, Block[K]{
			Addr:  e.Key,
			Refs:  e.Refs,
			Dirty: t.m[e.Key].dirty,
		})
	}
	return TierSnapshot[K]{Level: t.level, Spec: t.spec, Blocks: blocks}
}

// -------------------- internals --------------------

// drop notifies the policy, unlinks b and forgets it.
func (t *tier[K]) drop(b *block[K]) {
	t.pol.OnRemove(b)
	t.unlink(b)
	delete(t.m, b.addr)
}

// pushFront links b at the head in O(1).
func (t *tier[K]) pushFront(b *block[K]) {
	b.prev = nil
	b.next = t.head
	if t.head != nil {
		t.head.prev = b
	}
	t.head = b
	if t.tail == nil {
		t.tail = b
	}
	t.len++
}

// moveToFront relinks a resident b at the head in O(1).
func (t *tier[K]) moveToFront(b *block[K]) {
	if b == t.head {
		return
	}
	// detach
	if b.prev != nil {
		b.prev.next = b.next
	}
	if b.next != nil {
		b.next.prev = b.prev
	}
	if t.tail == b {
		t.tail = b.prev
	}
	// insert at head
	b.prev = nil
	b.next = t.head
	if t.head != nil {
		t.head.prev = b
	}
	t.head = b
	if t.tail == nil {
		t.tail = b
	}
}

// unlink removes b from the list and updates the length in O(1).
func (t *tier[K]) unlink(b *block[K]) {
	if b.prev != nil {
		b.prev.next = b.next
	}
	if b.next != nil {
		b.next.prev = b.prev
	}
	if t.head == b {
		t.head = b.next
	}
	if t.tail == b {
		t.tail = b.prev
	}
	b.prev, b.next = nil, nil
	t.len--
}

// -------------------- policy hooks --------------------

// tierHooks adapts the tier's list operations to policy.Hooks.
type tierHooks[K comparable] struct{ t *tier[K] }

func (h tierHooks[K]) PushFront(x policy.Node[K])   { h.t.pushFront(x.(*block[K])) }
func (h tierHooks[K]) MoveToFront(x policy.Node[K]) { h.t.moveToFront(x.(*block[K])) }
func (h tierHooks[K]) Back() policy.Node[K] {
	// Avoid returning a typed nil inside the interface.
	if h.t.tail == nil {
		return nil
	}
	return h.t.tail
}
func (h tierHooks[K]) Each(fn func(policy.Node[K]) bool) {
	for b := h.t.head; b != nil; b = b.next {
		if !fn(b) {
			return
		}
	}
}
func (h tierHooks[K]) Len() int { return h.t.len }
