package hierarchy

import (
	"fmt"
	"iter"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/IvanBrykalov/tiercache/store"
)

// hierarchy is the single-threaded implementation of Hierarchy.
type hierarchy[K comparable] struct {
	tiers []*tier[K]
	st    *meteredStore[K]
	stats *collector
	log   *zap.Logger

	demote bool
}

// New constructs a hierarchy with the provided Options.
// Defaults:
//   - nil Store   -> store.NewMemory
//   - nil Metrics -> NoopMetrics
//   - nil Logger  -> zap.NewNop
//
// Every tier is validated; the first invalid tier aborts construction with
// an error wrapping ErrInvalidConfiguration.
func New[K comparable](opt Options[K]) (Hierarchy[K], error) {
	if len(opt.Tiers) == 0 {
		return nil, invalidf("at least one tier is required")
	}
	if opt.Store == nil {
		opt.Store = store.NewMemory[K]()
	}
	if opt.Metrics == nil {
		opt.Metrics = NoopMetrics{}
	}
	if opt.Logger == nil {
		opt.Logger = zap.NewNop()
	}

	tiers := make([]*tier[K], len(opt.Tiers))
	for i, spec := range opt.Tiers {
		t, err := newTier[K](i+1, spec)
		if err != nil {
			return nil, err
		}
		tiers[i] = t
	}

	stats := newCollector(len(tiers), opt.Metrics)
	h := &hierarchy[K]{
		tiers: tiers,
		st:    &meteredStore[K]{next: opt.Store, stats: stats},
		stats: stats,
		log:   opt.Logger,

		demote: opt.Demote,
	}
	h.log.Info("hierarchy built", zap.Stringers("tiers", opt.Tiers), zap.Bool("demote", opt.Demote))
	return h, nil
}

// Access runs search -> promote-on-hit / miss-cascade -> fill-top-tier.
func (h *hierarchy[K]) Access(addr K) Event[K] {
	ev := Event[K]{Addr: addr}

	for i, t := range h.tiers {
		if t.probe(addr, false) {
			ev.Level = i + 1
			break
		}
	}

	// Every level above the hit (or every level, on a full miss) was probed and missed.
	probed := len(h.tiers)
	if ev.Hit() {
		probed = ev.Level - 1
	}
	for l := 1; l <= probed; l++ {
		h.stats.miss(l)
	}

	switch {
	case ev.Level == 1:
		h.stats.hit(1)
		return ev
	case ev.Level > 1:
		h.stats.hit(ev.Level)
		// The value moves up: no flush on the way out.
		h.tiers[ev.Level-1].remove(addr)
		h.stats.promote(ev.Level)
		ev.Promoted = true
		if ce := h.log.Check(zapcore.DebugLevel, "promote"); ce != nil {
			ce.Write(zap.Any("addr", addr), zap.Int("from", ev.Level))
		}
	default:
		h.st.Fetch(addr)
		if ce := h.log.Check(zapcore.DebugLevel, "fetch"); ce != nil {
			ce.Write(zap.Any("addr", addr))
		}
	}

	// Silent fill: tier 1 counters were already updated by the probe above.
	ev.Evicted, ev.Cascade = h.fill(1, addr)
	if ev.Promoted {
		h.stats.m.Size(ev.Level, h.tiers[ev.Level-1].len)
	}
	return ev
}

// Replay adapts Access to an address iterator.
func (h *hierarchy[K]) Replay(trace iter.Seq[K]) iter.Seq[Event[K]] {
	return func(yield func(Event[K]) bool) {
		for addr := range trace {
			if !yield(h.Access(addr)) {
				return
			}
		}
	}
}

// fill inserts addr into tier level. The tier's victim, if any, is returned;
// with demotion enabled it moves down one tier at a time and every further
// eviction it causes is returned in cascade.
func (h *hierarchy[K]) fill(level int, addr K) (first *Eviction[K], cascade []Eviction[K]) {
	t := h.tiers[level-1]
	e, ok := t.insert(addr, h.st)
	h.stats.m.Size(level, t.len)
	for ok {
		h.stats.evict(e.Level, e.WroteBack)
		next := e.Level + 1
		if h.demote && next <= len(h.tiers) {
			e.DemotedTo = next
		}
		if ce := h.log.Check(zapcore.DebugLevel, "evict"); ce != nil {
			ce.Write(zap.Any("addr", e.Addr), zap.Int("level", e.Level),
				zap.Bool("write_back", e.WroteBack), zap.Int("demoted_to", e.DemotedTo))
		}
		if first == nil {
			cp := e
			first = &cp
		} else {
			cascade = append(cascade, e)
		}
		if e.DemotedTo == 0 {
			break
		}
		lower := h.tiers[next-1]
		e, ok = lower.insert(e.Addr, h.st)
		h.stats.m.Size(next, lower.len)
	}
	return first, cascade
}

// Insert places addr directly into tier level. It counts no hit or miss;
// evictions it causes are handled exactly as during Access.
func (h *hierarchy[K]) Insert(level int, addr K) ([]Eviction[K], error) {
	if level < 1 || level > len(h.tiers) {
		return nil, fmt.Errorf("%w: %d not in [1, %d]", ErrLevelOutOfRange, level, len(h.tiers))
	}
	first, cascade := h.fill(level, addr)
	if first == nil {
		return nil, nil
	}
	return append([]Eviction[K]{*first}, cascade...), nil
}

func (h *hierarchy[K]) Locate(addr K) (int, bool) {
	for i, t := range h.tiers {
		if t.probe(addr, true) {
			return i + 1, true
		}
	}
	return 0, false
}

func (h *hierarchy[K]) Snapshot() []TierSnapshot[K] {
	out := make([]TierSnapshot[K], len(h.tiers))
	for i, t := range h.tiers {
		out[i] = t.snapshot()
	}
	return out
}

func (h *hierarchy[K]) Stats() Stats { return h.stats.snapshot() }

func (h *hierarchy[K]) Flush() int {
	total := 0
	for _, t := range h.tiers {
		n := t.flush(h.st)
		h.stats.flushed(t.level, n)
		total += n
	}
	h.log.Debug("flush", zap.Int("blocks", total))
	return total
}

func (h *hierarchy[K]) Levels() int { return len(h.tiers) }

// meteredStore counts every store operation before forwarding it.
// It is what tiers receive when they flush or write through.
type meteredStore[K comparable] struct {
	next  store.BackingStore[K]
	stats *collector
}

func (s *meteredStore[K]) Fetch(addr K) {
	s.stats.fetch()
	s.next.Fetch(addr)
}

func (s *meteredStore[K]) Write(addr K) {
	s.stats.write()
	s.next.Write(addr)
}
