package hierarchy

// TierStats holds the counters of one tier. Hits+Misses is the number of
// probes issued to the tier.
type TierStats struct {
	Level      int
	Hits       uint64
	Misses     uint64
	Evictions  uint64
	WriteBacks uint64 // dirty blocks flushed on eviction or Flush
	Promotions uint64 // blocks moved from this tier into tier 1
}

// Probes returns Hits+Misses.
func (s TierStats) Probes() uint64 { return s.Hits + s.Misses }

// HitRatio returns Hits/Probes. ok is false when the tier was never probed.
func (s TierStats) HitRatio() (ratio float64, ok bool) {
	p := s.Probes()
	if p == 0 {
		return 0, false
	}
	return float64(s.Hits) / float64(p), true
}

// Stats is a point-in-time copy of all hierarchy counters.
type Stats struct {
	Tiers               []TierStats
	BackingStoreFetches uint64
	BackingStoreWrites  uint64
}

// collector owns the counters and mirrors every update into Metrics.
// Counters never decrease for the lifetime of a hierarchy.
type collector struct {
	tiers   []TierStats
	fetches uint64
	writes  uint64
	m       Metrics
}

func newCollector(levels int, m Metrics) *collector {
	c := &collector{tiers: make([]TierStats, levels), m: m}
	for i := range c.tiers {
		c.tiers[i].Level = i + 1
	}
	return c
}

func (c *collector) hit(level int) {
	c.tiers[level-1].Hits++
	c.m.Hit(level)
}

func (c *collector) miss(level int) {
	c.tiers[level-1].Misses++
	c.m.Miss(level)
}

func (c *collector) evict(level int, writeBack bool) {
	c.tiers[level-1].Evictions++
	if writeBack {
		c.tiers[level-1].WriteBacks++
	}
	c.m.Evict(level, writeBack)
}

func (c *collector) flushed(level, n int) {
	if n == 0 {
		return
	}
	c.tiers[level-1].WriteBacks += uint64(n)
	c.m.Flush(level, n)
}

func (c *collector) promote(from int) {
	c.tiers[from-1].Promotions++
	c.m.Promote(from)
}

func (c *collector) fetch() {
	c.fetches++
	c.m.Fetch()
}

func (c *collector) write() {
	c.writes++
	c.m.StoreWrite()
}

func (c *collector) snapshot() Stats {
	tiers := make([]TierStats, len(c.tiers))
	copy(tiers, c.tiers)
	return Stats{
		Tiers:               tiers,
		BackingStoreFetches: c.fetches,
		BackingStoreWrites:  c.writes,
	}
}
