package hierarchy

import (
	"math/rand"
	"testing"
)

// benchmarkAccess replays a uniform random trace over a keyspace larger
// than the whole hierarchy, so every tier sees evictions.
func benchmarkAccess(b *testing.B, demote bool) {
	h, err := New[int](Options[int]{Tiers: DefaultTiers(64, 256, 1024), Demote: demote})
	if err != nil {
		b.Fatal(err)
	}

	const keys = 4096
	r := rand.New(rand.NewSource(1))
	trace := make([]int, 1<<16)
	for i := range trace {
		trace[i] = r.Intn(keys)
	}

	b.ReportAllocs()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		h.Access(trace[i&(len(trace)-1)])
	}
}

func BenchmarkAccess(b *testing.B)        { benchmarkAccess(b, false) }
func BenchmarkAccess_Demote(b *testing.B) { benchmarkAccess(b, true) }
