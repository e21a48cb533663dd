package prom

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"

	"github.com/IvanBrykalov/tiercache/hierarchy"
)

func TestAdapter_ExportsHierarchySignals(t *testing.T) {
	t.Parallel()

	reg := prometheus.NewRegistry()
	a := New(reg, "tiercache", "test", nil)

	h, err := hierarchy.New[int](hierarchy.Options[int]{
		Tiers:   hierarchy.DefaultTiers(1, 1, 1),
		Metrics: a,
	})
	if err != nil {
		t.Fatal(err)
	}
	if _, err := h.Insert(2, 9); err != nil {
		t.Fatal(err)
	}
	h.Access(1) // full miss
	h.Access(1) // tier-1 hit
	h.Access(9) // promotion from tier 2, evicts dirty 1

	checks := []struct {
		name string
		c    prometheus.Collector
		want float64
	}{
		{"hits tier1", a.hits.WithLabelValues("1"), 1},
		{"hits tier2", a.hits.WithLabelValues("2"), 1},
		{"misses tier1", a.misses.WithLabelValues("1"), 2},
		{"misses tier3", a.misses.WithLabelValues("3"), 1},
		{"promotions tier2", a.promotes.WithLabelValues("2"), 1},
		{"evictions tier1 writeback", a.evicts.WithLabelValues("1", "true"), 1},
		{"fetches", a.fetches, 1},
		// Insert into the Immediate tier 2 plus the write-back of 1.
		{"writes", a.writes, 2},
		{"size tier1", a.sizeEnt.WithLabelValues("1"), 1},
		{"size tier2", a.sizeEnt.WithLabelValues("2"), 0},
	}
	for _, c := range checks {
		if got := testutil.ToFloat64(c.c); got != c.want {
			t.Errorf("%s: want %v, got %v", c.name, c.want, got)
		}
	}

	if n := testutil.CollectAndCount(reg); n == 0 {
		t.Fatal("registry must expose metrics")
	}
}

func TestAdapter_RegistersOnce(t *testing.T) {
	t.Parallel()

	reg := prometheus.NewRegistry()
	New(reg, "tiercache", "dup", prometheus.Labels{"app": "test"})

	defer func() {
		if recover() == nil {
			t.Fatal("registering the same metrics twice must panic")
		}
	}()
	New(reg, "tiercache", "dup", prometheus.Labels{"app": "test"})
}

func TestAdapter_FlushPerTier(t *testing.T) {
	t.Parallel()

	reg := prometheus.NewRegistry()
	a := New(reg, "tiercache", "flush", nil)

	h, err := hierarchy.New[int](hierarchy.Options[int]{
		Tiers:   hierarchy.DefaultTiers(4, 4, 4),
		Metrics: a,
	})
	if err != nil {
		t.Fatal(err)
	}
	h.Access(1)
	h.Access(2)
	if _, err := h.Insert(3, 7); err != nil {
		t.Fatal(err)
	}
	if n := h.Flush(); n != 3 {
		t.Fatalf("flush want 3, got %d", n)
	}

	if got := testutil.ToFloat64(a.flushes.WithLabelValues("1")); got != 2 {
		t.Errorf("flushes tier1: want 2, got %v", got)
	}
	if got := testutil.ToFloat64(a.flushes.WithLabelValues("3")); got != 1 {
		t.Errorf("flushes tier3: want 1, got %v", got)
	}
	if got := testutil.ToFloat64(a.writes); got != 3 {
		t.Errorf("writes: want 3, got %v", got)
	}
}
