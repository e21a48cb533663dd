package hierarchy

import (
	"iter"
	"sync"
)

// synchronized serialises every operation on the wrapped hierarchy behind a
// single mutex, so a promotion's remove+insert pair is never observed
// half-applied.
type synchronized[K comparable] struct {
	mu sync.Mutex
	h  Hierarchy[K]
}

// Synchronized returns a Hierarchy that is safe for concurrent use.
func Synchronized[K comparable](h Hierarchy[K]) Hierarchy[K] {
	if s, ok := h.(*synchronized[K]); ok {
		return s
	}
	return &synchronized[K]{h: h}
}

func (s *synchronized[K]) Access(addr K) Event[K] {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.h.Access(addr)
}

// Replay takes the lock per access, not for the whole trace, so other
// goroutines can interleave between events.
func (s *synchronized[K]) Replay(trace iter.Seq[K]) iter.Seq[Event[K]] {
	return func(yield func(Event[K]) bool) {
		for addr := range trace {
			if !yield(s.Access(addr)) {
				return
			}
		}
	}
}

func (s *synchronized[K]) Insert(level int, addr K) ([]Eviction[K], error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.h.Insert(level, addr)
}

func (s *synchronized[K]) Locate(addr K) (int, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.h.Locate(addr)
}

func (s *synchronized[K]) Snapshot() []TierSnapshot[K] {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.h.Snapshot()
}

func (s *synchronized[K]) Stats() Stats {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.h.Stats()
}

func (s *synchronized[K]) Flush() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.h.Flush()
}

// Levels is fixed at construction and needs no lock.
func (s *synchronized[K]) Levels() int { return s.h.Levels() }
