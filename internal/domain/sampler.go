package domain

import (
	"math/rand"
	"sort"
	"time"

	m "github.com/EvanKepner/mutatest/internal/model"
)

// SampleTargets draws up to n locations from the pool without replacement.
// The pool is sorted before drawing so that equal seeds yield equal samples
// regardless of how the pool was assembled. A nil seed draws a fresh one; the
// seed actually used is returned so every campaign is reproducible after the
// fact. Zero or negative n, or n beyond the pool size, selects the whole
// pool.
func SampleTargets(pool []m.GroupTarget, n int, seed *int64) ([]m.GroupTarget, int64) {
	sorted := make([]m.GroupTarget, len(pool))
	copy(sorted, pool)

	sort.Slice(sorted, func(i, j int) bool {
		return lessGroupTarget(sorted[i], sorted[j])
	})

	chosen := seedOrNow(seed)

	if n <= 0 || n >= len(sorted) {
		return sorted, chosen
	}

	rng := rand.New(rand.NewSource(chosen))
	rng.Shuffle(len(sorted), func(i, j int) {
		sorted[i], sorted[j] = sorted[j], sorted[i]
	})

	return sorted[:n], chosen
}

func seedOrNow(seed *int64) int64 {
	if seed != nil {
		return *seed
	}

	return time.Now().UnixNano()
}

func lessGroupTarget(a, b m.GroupTarget) bool {
	if a.SourcePath != b.SourcePath {
		return a.SourcePath < b.SourcePath
	}

	if a.Target.Line != b.Target.Line {
		return a.Target.Line < b.Target.Line
	}

	if a.Target.Col != b.Target.Col {
		return a.Target.Col < b.Target.Col
	}

	if a.Target.Kind != b.Target.Kind {
		return a.Target.Kind < b.Target.Kind
	}

	return a.Target.OpType < b.Target.OpType
}
