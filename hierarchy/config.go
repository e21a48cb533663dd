package hierarchy

import (
	"strconv"
	"strings"

	"github.com/IvanBrykalov/tiercache/policy"
)

// DefaultTiers returns the classic three-level layout: a Recency tier with
// deferred writes, an InsertionOrder tier with immediate writes, and a
// Frequency tier with deferred writes.
func DefaultTiers(l1, l2, l3 int) []TierSpec {
	return []TierSpec{
		{Capacity: l1, Policy: policy.Recency, Write: Deferred},
		{Capacity: l2, Policy: policy.InsertionOrder, Write: Immediate},
		{Capacity: l3, Policy: policy.Frequency, Write: Deferred},
	}
}

// ParseTierSpecs parses a comma-separated list of tier specs, fastest first.
// Each spec is "capacity:policy[:write]", e.g. "4:lru:back,8:fifo:through,16:lfu".
// The write policy defaults to Deferred.
func ParseTierSpecs(s string) ([]TierSpec, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil, invalidf("empty tier list")
	}
	parts := strings.Split(s, ",")
	specs := make([]TierSpec, 0, len(parts))
	for i, part := range parts {
		spec, err := parseTierSpec(i+1, part)
		if err != nil {
			return nil, err
		}
		specs = append(specs, spec)
	}
	return specs, nil
}

func parseTierSpec(level int, s string) (TierSpec, error) {
	fields := strings.Split(strings.TrimSpace(s), ":")
	if len(fields) < 2 || len(fields) > 3 {
		return TierSpec{}, invalidf("tier %d: %q is not capacity:policy[:write]", level, s)
	}
	capacity, err := strconv.Atoi(strings.TrimSpace(fields[0]))
	if err != nil {
		return TierSpec{}, invalidf("tier %d: bad capacity %q", level, fields[0])
	}
	if capacity <= 0 {
		return TierSpec{}, invalidf("tier %d: capacity must be > 0 but %d was requested", level, capacity)
	}
	kind, ok := policy.ParseKind(fields[1])
	if !ok {
		return TierSpec{}, invalidf("tier %d: unknown eviction policy %q", level, fields[1])
	}
	spec := TierSpec{Capacity: capacity, Policy: kind, Write: Deferred}
	if len(fields) == 3 {
		w, ok := ParseWritePolicy(fields[2])
		if !ok {
			return TierSpec{}, invalidf("tier %d: unknown write policy %q", level, fields[2])
		}
		spec.Write = w
	}
	return spec, nil
}
