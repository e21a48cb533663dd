// Package trace produces address traces for a cache hierarchy.
//
// Every source is an iter.Seq so it can be handed straight to
// hierarchy.Hierarchy.Replay.
package trace

import (
	"bufio"
	"fmt"
	"io"
	"iter"
	"math/rand"
	"strconv"
	"strings"
	"unicode"
)

// Uniform yields n addresses drawn uniformly from [0, space).
func Uniform(seed int64, n, space int) iter.Seq[int] {
	return func(yield func(int) bool) {
		if space <= 0 {
			return
		}
		r := rand.New(rand.NewSource(seed))
		for i := 0; i < n; i++ {
			if !yield(r.Intn(space)) {
				return
			}
		}
	}
}

// Zipf yields n addresses in [0, space) with a Zipf(s, v) skew: small
// addresses are hot. s must be > 1 and v >= 1.
func Zipf(seed int64, n, space int, s, v float64) (iter.Seq[int], error) {
	if space <= 0 {
		return nil, fmt.Errorf("trace: address space must be > 0, got %d", space)
	}
	if s <= 1 || v < 1 {
		return nil, fmt.Errorf("trace: zipf needs s > 1 and v >= 1, got s=%v v=%v", s, v)
	}
	return func(yield func(int) bool) {
		// Each iteration gets its own RNG so a sequence can be replayed.
		r := rand.New(rand.NewSource(seed))
		z := rand.NewZipf(r, s, v, uint64(space-1))
		for i := 0; i < n; i++ {
			if !yield(int(z.Uint64())) {
				return
			}
		}
	}, nil
}

// Parse reads a user-supplied trace: integers separated by whitespace
// and/or commas. Lines starting with '#' are comments.
func Parse(r io.Reader) ([]int, error) {
	var out []int
	sc := bufio.NewScanner(r)
	line := 0
	for sc.Scan() {
		line++
		text := strings.TrimSpace(sc.Text())
		if text == "" || strings.HasPrefix(text, "#") {
			continue
		}
		fields := strings.FieldsFunc(text, func(c rune) bool {
			return c == ',' || unicode.IsSpace(c)
		})
		for _, f := range fields {
			v, err := strconv.Atoi(f)
			if err != nil {
				return nil, fmt.Errorf("trace: line %d: bad address %q: %w", line, f, err)
			}
			out = append(out, v)
		}
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("trace: read: %w", err)
	}
	return out, nil
}

// ParseString is Parse over an in-memory string.
func ParseString(s string) ([]int, error) { return Parse(strings.NewReader(s)) }
