package hierarchy

import (
	"errors"
	"slices"
	"testing"

	"github.com/IvanBrykalov/tiercache/policy"
	"github.com/IvanBrykalov/tiercache/store"
)

func mustTier(t *testing.T, capacity int, k policy.Kind, w WritePolicy) *tier[int] {
	t.Helper()
	tr, err := newTier[int](1, TierSpec{Capacity: capacity, Policy: k, Write: w})
	if err != nil {
		t.Fatalf("newTier: %v", err)
	}
	return tr
}

// touch is one single-tier access: probe, and insert on miss.
func touch(tr *tier[int], st store.BackingStore[int], addr int) (hit bool) {
	if tr.probe(addr, false) {
		return true
	}
	tr.insert(addr, st)
	return false
}

func addrs(tr *tier[int]) []int { return tr.snapshot().Addrs() }

func TestTier_InvalidCapacity(t *testing.T) {
	t.Parallel()

	for _, capacity := range []int{-1, 0} {
		_, err := newTier[int](2, TierSpec{Capacity: capacity, Policy: policy.Recency})
		if !errors.Is(err, ErrInvalidConfiguration) {
			t.Fatalf("capacity %d: want ErrInvalidConfiguration, got %v", capacity, err)
		}
	}
	if _, err := newTier[int](1, TierSpec{Capacity: 1, Policy: policy.Kind(42)}); !errors.Is(err, ErrInvalidConfiguration) {
		t.Fatalf("unknown policy: want ErrInvalidConfiguration, got %v", err)
	}
	if _, err := newTier[int](1, TierSpec{Capacity: 1, Write: WritePolicy(9)}); !errors.Is(err, ErrInvalidConfiguration) {
		t.Fatalf("unknown write policy: want ErrInvalidConfiguration, got %v", err)
	}
}

// capacity 2, [1 2 1 3]: 1 was used after 2, so 2 goes.
func TestTier_Recency_EvictsLeastRecentlyUsed(t *testing.T) {
	t.Parallel()

	st := store.NewMemory[int]()
	tr := mustTier(t, 2, policy.Recency, Deferred)
	for _, a := range []int{1, 2, 1, 3} {
		touch(tr, st, a)
	}
	if got, want := addrs(tr), []int{3, 1}; !slices.Equal(got, want) {
		t.Fatalf("contents want %v, got %v", want, got)
	}
}

// Two probes in a row: hit, hit, and no change in resident count.
func TestTier_Recency_RepeatedProbeIsHit(t *testing.T) {
	t.Parallel()

	st := store.NewMemory[int]()
	tr := mustTier(t, 2, policy.Recency, Deferred)
	tr.insert(1, st)
	tr.insert(2, st)

	for i := 0; i < 2; i++ {
		if !tr.probe(1, false) {
			t.Fatalf("probe %d: want hit", i+1)
		}
		if tr.len != 2 {
			t.Fatalf("hit changed resident count to %d", tr.len)
		}
	}
}

// A silent probe must not refresh recency.
func TestTier_Recency_SilentProbeKeepsOrder(t *testing.T) {
	t.Parallel()

	st := store.NewMemory[int]()
	tr := mustTier(t, 2, policy.Recency, Deferred)
	tr.insert(1, st)
	tr.insert(2, st)
	tr.probe(1, true)

	ev, ok := tr.insert(3, st)
	if !ok || ev.Addr != 1 {
		t.Fatalf("victim want 1, got %+v ok=%v", ev, ok)
	}
}

// Re-inserting a resident address refreshes recency and evicts nothing.
func TestTier_Recency_InsertResidentRefreshes(t *testing.T) {
	t.Parallel()

	st := store.NewMemory[int]()
	tr := mustTier(t, 2, policy.Recency, Deferred)
	tr.insert(1, st)
	tr.insert(2, st)
	if _, ok := tr.insert(1, st); ok {
		t.Fatal("insert of resident address must not evict")
	}
	if got, want := addrs(tr), []int{1, 2}; !slices.Equal(got, want) {
		t.Fatalf("contents want %v, got %v", want, got)
	}
}

// capacity 2, [1 2 3] -> {2 3}; hitting 2 does not save it from 4.
func TestTier_InsertionOrder_StrictQueue(t *testing.T) {
	t.Parallel()

	st := store.NewMemory[int]()
	tr := mustTier(t, 2, policy.InsertionOrder, Immediate)
	for _, a := range []int{1, 2, 3} {
		touch(tr, st, a)
	}
	if got, want := addrs(tr), []int{2, 3}; !slices.Equal(got, want) {
		t.Fatalf("contents want %v, got %v", want, got)
	}

	if !touch(tr, st, 2) {
		t.Fatal("2 must hit")
	}
	ev, ok := tr.insert(4, st)
	if !ok || ev.Addr != 2 {
		t.Fatalf("victim want 2, got %+v ok=%v", ev, ok)
	}
	if got, want := addrs(tr), []int{3, 4}; !slices.Equal(got, want) {
		t.Fatalf("contents want %v, got %v", want, got)
	}
}

func TestTier_Frequency_EvictsLeastFrequent(t *testing.T) {
	t.Parallel()

	st := store.NewMemory[int]()
	tr := mustTier(t, 2, policy.Frequency, Deferred)
	for _, a := range []int{1, 2, 1} {
		touch(tr, st, a)
	}
	ev, ok := tr.insert(3, st)
	if !ok || ev.Addr != 2 {
		t.Fatalf("victim want 2, got %+v ok=%v", ev, ok)
	}

	snap := tr.snapshot()
	want := []Block[int]{{Addr: 1, Refs: 2, Dirty: true}, {Addr: 3, Refs: 1, Dirty: true}}
	if !slices.Equal(snap.Blocks, want) {
		t.Fatalf("snapshot want %+v, got %+v", want, snap.Blocks)
	}
}

// Tie on minimum frequency: the earlier timestamp loses.
func TestTier_Frequency_TieBreakByTimestamp(t *testing.T) {
	t.Parallel()

	st := store.NewMemory[int]()
	tr := mustTier(t, 2, policy.Frequency, Deferred)
	tr.insert(1, st)
	tr.insert(2, st)
	ev, ok := tr.insert(3, st)
	if !ok || ev.Addr != 1 {
		t.Fatalf("victim want 1, got %+v ok=%v", ev, ok)
	}
}

// Inserting a resident address counts as a hit for Frequency tiers.
func TestTier_Frequency_InsertResidentCountsAsHit(t *testing.T) {
	t.Parallel()

	st := store.NewMemory[int]()
	tr := mustTier(t, 2, policy.Frequency, Deferred)
	tr.insert(1, st)
	tr.insert(1, st)
	if b := tr.snapshot().Blocks; len(b) != 1 || b[0].Refs != 2 {
		t.Fatalf("want one block with refs=2, got %+v", b)
	}
}

// Deferred: dirty on fill, written back exactly once on eviction.
func TestTier_Deferred_FlushesDirtyVictim(t *testing.T) {
	t.Parallel()

	st := store.NewMemory[int]()
	tr := mustTier(t, 1, policy.Recency, Deferred)
	tr.insert(1, st)
	if v := st.Version(1); v != 0 {
		t.Fatalf("deferred fill must not write the store, version=%d", v)
	}

	ev, ok := tr.insert(2, st)
	if !ok || ev.Addr != 1 || !ev.WroteBack {
		t.Fatalf("want write-back eviction of 1, got %+v ok=%v", ev, ok)
	}
	if v := st.Version(1); v != 1 {
		t.Fatalf("victim must be written once, version=%d", v)
	}
}

// Immediate: written on fill, never dirty, nothing to flush on eviction.
func TestTier_Immediate_WritesThrough(t *testing.T) {
	t.Parallel()

	st := store.NewMemory[int]()
	tr := mustTier(t, 1, policy.InsertionOrder, Immediate)
	tr.insert(1, st)
	if v := st.Version(1); v != 1 {
		t.Fatalf("immediate fill must write the store, version=%d", v)
	}
	if tr.snapshot().Blocks[0].Dirty {
		t.Fatal("immediate blocks are never dirty")
	}

	ev, ok := tr.insert(2, st)
	if !ok || ev.WroteBack {
		t.Fatalf("want clean eviction, got %+v ok=%v", ev, ok)
	}
	if v := st.Version(1); v != 1 {
		t.Fatalf("clean victim must not be written again, version=%d", v)
	}
}

// remove never flushes and ignores absent addresses.
func TestTier_RemoveDoesNotFlush(t *testing.T) {
	t.Parallel()

	st := store.NewMemory[int]()
	for _, k := range []policy.Kind{policy.Recency, policy.InsertionOrder, policy.Frequency} {
		tr := mustTier(t, 3, k, Deferred)
		tr.insert(1, st)
		tr.insert(2, st)
		tr.insert(3, st)

		if !tr.remove(2) {
			t.Fatalf("%v: remove of resident must report true", k)
		}
		if tr.remove(2) {
			t.Fatalf("%v: remove of absent must report false", k)
		}
		if tr.len != 2 || tr.probe(2, true) {
			t.Fatalf("%v: 2 must be gone, len=%d", k, tr.len)
		}
		if v := st.Version(2); v != 0 {
			t.Fatalf("%v: remove must not flush, version=%d", k, v)
		}
	}
}

func TestTier_FlushClearsDirty(t *testing.T) {
	t.Parallel()

	st := store.NewMemory[int]()
	tr := mustTier(t, 4, policy.Recency, Deferred)
	for a := 1; a <= 3; a++ {
		tr.insert(a, st)
	}
	if n := tr.flush(st); n != 3 {
		t.Fatalf("flush want 3, got %d", n)
	}
	if n := tr.flush(st); n != 0 {
		t.Fatalf("second flush want 0, got %d", n)
	}
	for _, b := range tr.snapshot().Blocks {
		if b.Dirty {
			t.Fatalf("block %d still dirty", b.Addr)
		}
	}
}
