// Package prom exports hierarchy metrics to Prometheus.
package prom

import (
	"strconv"

	"github.com/IvanBrykalov/tiercache/hierarchy"
	"github.com/prometheus/client_golang/prometheus"
)

// Adapter implements hierarchy.Metrics and exports Prometheus counters/gauges.
// Per-tier series carry a "tier" label with the 1-based level.
// Safe for concurrent use; all Prometheus metric types are goroutine-safe.
type Adapter struct {
	hits     *prometheus.CounterVec
	misses   *prometheus.CounterVec
	evicts   *prometheus.CounterVec
	promotes *prometheus.CounterVec
	flushes  *prometheus.CounterVec
	fetches  prometheus.Counter
	writes   prometheus.Counter
	sizeEnt  *prometheus.GaugeVec
}

// New constructs a Prometheus metrics adapter.
//   - reg:          registry to register metrics with (nil => prometheus.DefaultRegisterer)
//   - ns, sub:      Prometheus namespace and subsystem
//   - constLabels:  static labels applied to all metrics (may be nil)
func New(reg prometheus.Registerer, ns, sub string, constLabels prometheus.Labels) *Adapter {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	counterVec := func(name, help string, labels ...string) *prometheus.CounterVec {
		return prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace:   ns,
			Subsystem:   sub,
			Name:        name,
			Help:        help,
			ConstLabels: constLabels,
		}, labels)
	}
	counter := func(name, help string) prometheus.Counter {
		return prometheus.NewCounter(prometheus.CounterOpts{
			Namespace:   ns,
			Subsystem:   sub,
			Name:        name,
			Help:        help,
			ConstLabels: constLabels,
		})
	}
	a := &Adapter{
		hits:     counterVec("hits_total", "Tier hits", "tier"),
		misses:   counterVec("misses_total", "Tier misses", "tier"),
		evicts:   counterVec("evictions_total", "Tier evictions by write-back outcome", "tier", "writeback"),
		promotes: counterVec("promotions_total", "Blocks promoted from a tier into tier 1", "tier"),
		flushes:  counterVec("flushed_blocks_total", "Dirty blocks written back by Flush", "tier"),
		fetches:  counter("backing_fetches_total", "Backing store fetches (full misses)"),
		writes:   counter("backing_writes_total", "Backing store writes (write-backs and write-throughs)"),
		sizeEnt: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Namespace:   ns,
			Subsystem:   sub,
			Name:        "size_entries",
			Help:        "Number of resident blocks",
			ConstLabels: constLabels,
		}, []string{"tier"}),
	}
	reg.MustRegister(a.hits, a.misses, a.evicts, a.promotes, a.flushes, a.fetches, a.writes, a.sizeEnt)
	return a
}

// Hit increments the hit counter of level.
func (a *Adapter) Hit(level int) { a.hits.WithLabelValues(tier(level)).Inc() }

// Miss increments the miss counter of level.
func (a *Adapter) Miss(level int) { a.misses.WithLabelValues(tier(level)).Inc() }

// Evict increments the eviction counter of level.
func (a *Adapter) Evict(level int, writeBack bool) {
	a.evicts.WithLabelValues(tier(level), strconv.FormatBool(writeBack)).Inc()
}

// Promote increments the promotion counter of the source level.
func (a *Adapter) Promote(from int) { a.promotes.WithLabelValues(tier(from)).Inc() }

// Fetch increments the backing store fetch counter.
func (a *Adapter) Fetch() { a.fetches.Inc() }

// StoreWrite increments the backing store write counter.
func (a *Adapter) StoreWrite() { a.writes.Inc() }

// Flush adds n blocks written back by an explicit flush of level.
func (a *Adapter) Flush(level, n int) {
	a.flushes.WithLabelValues(tier(level)).Add(float64(n))
}

// Size updates the resident-block gauge of level.
func (a *Adapter) Size(level, entries int) {
	a.sizeEnt.WithLabelValues(tier(level)).Set(float64(entries))
}

func tier(level int) string { return strconv.Itoa(level) }

// Compile-time check: ensure Adapter implements hierarchy.Metrics.
var _ hierarchy.Metrics = (*Adapter)(nil)
