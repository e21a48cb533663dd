// Package store provides the backing store that sits behind a cache hierarchy.
package store

import "sync"

// BackingStore is the contract between the hierarchy and the store of last resort.
//
// Fetch is called once per full miss. Write is called when a tier pushes a
// value down: on insertion for Immediate tiers, and on eviction of a dirty
// block for Deferred tiers.
type BackingStore[K comparable] interface {
	Fetch(addr K)
	Write(addr K)
}

// Memory is an in-memory BackingStore. Values are modelled as versions:
// every Write bumps the address's version, so the store always reflects
// how many times the authoritative value was updated.
//
// Memory is safe for concurrent use so one store can back several hierarchies.
type Memory[K comparable] struct {
	mu       sync.Mutex
	versions map[K]uint64
	fetches  map[K]uint64
	reads    uint64
	writes   uint64
}

// NewMemory returns an empty store.
func NewMemory[K comparable]() *Memory[K] {
	return &Memory[K]{
		versions: make(map[K]uint64),
		fetches:  make(map[K]uint64),
	}
}

// Fetch records a read of addr.
func (m *Memory[K]) Fetch(addr K) {
	m.mu.Lock()
	m.fetches[addr]++
	m.reads++
	m.mu.Unlock()
}

// Write records a new authoritative value for addr.
func (m *Memory[K]) Write(addr K) {
	m.mu.Lock()
	m.versions[addr]++
	m.writes++
	m.mu.Unlock()
}

// Version returns how many times addr has been written.
func (m *Memory[K]) Version(addr K) uint64 {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.versions[addr]
}

// Fetches returns how many times addr has been fetched.
func (m *Memory[K]) Fetches(addr K) uint64 {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.fetches[addr]
}

// Totals returns the total number of fetches and writes.
func (m *Memory[K]) Totals() (reads, writes uint64) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.reads, m.writes
}

// Compile-time check: Memory implements BackingStore.
var _ BackingStore[int] = (*Memory[int])(nil)
