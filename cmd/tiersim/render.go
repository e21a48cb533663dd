package main

import (
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"github.com/IvanBrykalov/tiercache/hierarchy"
	"github.com/IvanBrykalov/tiercache/policy"
)

// renderEvent prints one access on a single line, e.g.
//
//	access 42: hit L3, promoted; evicted 7 from L1 (written back)
func renderEvent[K comparable](w io.Writer, ev hierarchy.Event[K]) {
	var b strings.Builder
	fmt.Fprintf(&b, "access %v: ", ev.Addr)
	switch {
	case !ev.Hit():
		b.WriteString("miss, fetched")
	case ev.Promoted:
		fmt.Fprintf(&b, "hit L%d, promoted", ev.Level)
	default:
		fmt.Fprintf(&b, "hit L%d", ev.Level)
	}
	if ev.Evicted != nil {
		b.WriteString("; ")
		writeEviction(&b, *ev.Evicted)
	}
	for _, c := range ev.Cascade {
		b.WriteString("; ")
		writeEviction(&b, c)
	}
	b.WriteByte('\n')
	_, _ = io.WriteString(w, b.String())
}

func writeEviction[K comparable](b *strings.Builder, e hierarchy.Eviction[K]) {
	fmt.Fprintf(b, "evicted %v from L%d", e.Addr, e.Level)
	var notes []string
	if e.WroteBack {
		notes = append(notes, "written back")
	}
	if e.DemotedTo > 0 {
		notes = append(notes, fmt.Sprintf("demoted to L%d", e.DemotedTo))
	}
	if len(notes) > 0 {
		fmt.Fprintf(b, " (%s)", strings.Join(notes, ", "))
	}
}

// renderSnapshot prints each tier's contents in policy order. Dirty blocks
// carry a '*' suffix; Frequency tiers show reference counts.
func renderSnapshot[K comparable](w io.Writer, snaps []hierarchy.TierSnapshot[K]) {
	for _, s := range snaps {
		parts := make([]string, len(s.Blocks))
		for i, blk := range s.Blocks {
			p := fmt.Sprint(blk.Addr)
			if s.Spec.Policy == policy.Frequency {
				p = fmt.Sprintf("%v(%d)", blk.Addr, blk.Refs)
			}
			if blk.Dirty {
				p += "*"
			}
			parts[i] = p
		}
		fmt.Fprintf(w, "L%d [%s %d/%d]: %s\n",
			s.Level, s.Spec.Policy, len(s.Blocks), s.Spec.Capacity, strings.Join(parts, " "))
	}
}

// renderStats prints the per-tier counter table followed by backing store totals.
func renderStats(w io.Writer, st hierarchy.Stats) {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', tabwriter.AlignRight)
	fmt.Fprintln(tw, "tier\thits\tmisses\thit ratio\tevictions\twrite-backs\tpromotions\t")
	for _, t := range st.Tiers {
		fmt.Fprintf(tw, "L%d\t%d\t%d\t%s\t%d\t%d\t%d\t\n",
			t.Level, t.Hits, t.Misses, ratio(t), t.Evictions, t.WriteBacks, t.Promotions)
	}
	_ = tw.Flush()
	fmt.Fprintf(w, "backing store: %d fetches, %d writes\n", st.BackingStoreFetches, st.BackingStoreWrites)
}

func ratio(t hierarchy.TierStats) string {
	r, ok := t.HitRatio()
	if !ok {
		return "n/a"
	}
	return fmt.Sprintf("%.1f%%", r*100)
}
