package hierarchy

import (
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/IvanBrykalov/tiercache/policy"
	"github.com/IvanBrykalov/tiercache/store"
)

// WritePolicy decides when a tier propagates a filled block to the backing store.
type WritePolicy int

const (
	// Deferred (write-back): a filled block is dirty and reaches the store
	// only when it is evicted.
	Deferred WritePolicy = iota
	// Immediate (write-through): the store is written at insertion time;
	// blocks are never dirty.
	Immediate
)

// String returns the canonical lower-case name of the write policy.
func (w WritePolicy) String() string {
	switch w {
	case Deferred:
		return "deferred"
	case Immediate:
		return "immediate"
	default:
		return fmt.Sprintf("write(%d)", int(w))
	}
}

// ParseWritePolicy accepts the canonical names and the write-back/write-through aliases.
func ParseWritePolicy(s string) (WritePolicy, bool) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "deferred", "write-back", "writeback", "back", "wb":
		return Deferred, true
	case "immediate", "write-through", "writethrough", "through", "wt":
		return Immediate, true
	}
	return 0, false
}

// TierSpec configures one level of the hierarchy.
type TierSpec struct {
	Capacity int
	Policy   policy.Kind
	Write    WritePolicy
}

// String renders the spec in the form accepted by ParseTierSpecs.
func (s TierSpec) String() string {
	return fmt.Sprintf("%d:%s:%s", s.Capacity, s.Policy, s.Write)
}

// Metrics exposes hierarchy-level observability hooks.
// Levels are 1-based. A NoopMetrics implementation is used by default.
type Metrics interface {
	Hit(level int)
	Miss(level int)
	Evict(level int, writeBack bool)
	Promote(from int)
	Fetch()
	StoreWrite()
	Flush(level, blocks int) // dirty blocks written back by Hierarchy.Flush
	Size(level, entries int)
}

// Options configures a hierarchy. Zero values are safe; defaults are
// applied in New():
//   - nil Store   => store.NewMemory
//   - nil Metrics => NoopMetrics
//   - nil Logger  => zap.NewNop
type Options[K comparable] struct {
	// Tiers lists the levels fastest first. At least one tier is required.
	Tiers []TierSpec

	// Store is the backing store consulted on a full miss and written by
	// flushes and write-through fills.
	Store store.BackingStore[K]

	// Demote moves a victim evicted from tier n into tier n+1 instead of
	// discarding it. The victim's own tier still decides whether it is
	// flushed on the way out. Victims of the last tier leave the hierarchy.
	Demote bool

	// Observability
	Metrics Metrics
	Logger  *zap.Logger
}
