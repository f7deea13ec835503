package domain

import (
	"errors"
	"testing"

	m "github.com/EvanKepner/mutatest/internal/model"
)

// fakeCoverage implements adapter.CoverageAdapter for filter tests.
type fakeCoverage struct {
	loaded bool
	lines  map[m.Path]map[int]struct{}
}

func (f *fakeCoverage) Load(m.Path) error { return nil }
func (f *fakeCoverage) Loaded() bool      { return f.loaded }

func (f *fakeCoverage) CoveredLines(source m.Path) (map[int]struct{}, bool) {
	covered, ok := f.lines[source]
	return covered, ok
}

func sampleTargets() []m.MutationTarget {
	return []m.MutationTarget{
		{Kind: m.KindBinaryOp, Line: 3, OpType: "+"},
		{Kind: m.KindComparison, Line: 5, OpType: "<"},
		{Kind: m.KindBooleanOp, Line: 5, OpType: "&&"},
		{Kind: m.KindConstantLiteral, Line: 9, OpType: "true"},
	}
}

func TestCategoryCodeFilter(t *testing.T) {
	t.Run("rejects unknown codes with the valid enumeration", func(t *testing.T) {
		_, err := NewCategoryCodeFilter("bn", "qq")

		var cfgErr *FilterConfigError
		if !errors.As(err, &cfgErr) {
			t.Fatalf("expected FilterConfigError, got %v", err)
		}

		if cfgErr.Code != "qq" {
			t.Errorf("expected offending code qq, got %q", cfgErr.Code)
		}

		if len(cfgErr.Valid) != len(ValidCodes()) {
			t.Errorf("expected full valid-code enumeration, got %v", cfgErr.Valid)
		}
	})

	t.Run("empty code set passes every target through", func(t *testing.T) {
		filter, err := NewCategoryCodeFilter()
		if err != nil {
			t.Fatal(err)
		}

		targets := sampleTargets()

		got := filter.Filter(targets, false)
		if len(got) != len(targets) {
			t.Errorf("expected %d targets, got %d", len(targets), len(got))
		}
	})

	t.Run("restricts to the selected categories", func(t *testing.T) {
		filter, err := NewCategoryCodeFilter("cp", "bl")
		if err != nil {
			t.Fatal(err)
		}

		got := filter.Filter(sampleTargets(), false)

		if len(got) != 2 {
			t.Fatalf("expected 2 targets, got %d: %v", len(got), got)
		}

		for _, target := range got {
			if target.Kind != m.KindComparison && target.Kind != m.KindBooleanOp {
				t.Errorf("unexpected kind %s in filtered set", target.Kind)
			}
		}
	})

	t.Run("kept and inverted sets partition the input", func(t *testing.T) {
		filter, err := NewCategoryCodeFilter("bn")
		if err != nil {
			t.Fatal(err)
		}

		targets := sampleTargets()

		kept := filter.Filter(targets, false)
		dropped := filter.Filter(targets, true)

		if len(kept)+len(dropped) != len(targets) {
			t.Errorf("partition broken: %d + %d != %d", len(kept), len(dropped), len(targets))
		}

		for _, target := range kept {
			for _, other := range dropped {
				if target == other {
					t.Errorf("target %v appears in both partitions", target)
				}
			}
		}
	})

	t.Run("does not modify the input slice", func(t *testing.T) {
		filter, err := NewCategoryCodeFilter("bn")
		if err != nil {
			t.Fatal(err)
		}

		targets := sampleTargets()
		want := sampleTargets()

		filter.Filter(targets, false)
		filter.Filter(targets, true)

		for i := range targets {
			if targets[i] != want[i] {
				t.Errorf("input target %d changed to %v", i, targets[i])
			}
		}
	})
}

func TestCoverageFilter(t *testing.T) {
	source := m.Path("/proj/calc.go")

	t.Run("surfaces missing coverage data instead of excluding everything", func(t *testing.T) {
		filter := NewCoverageFilter(&fakeCoverage{loaded: false})

		_, err := filter.Filter(sampleTargets(), source, false)
		if !errors.Is(err, ErrNoCoverageData) {
			t.Fatalf("expected ErrNoCoverageData, got %v", err)
		}
	})

	t.Run("keeps only targets on covered lines", func(t *testing.T) {
		cov := &fakeCoverage{
			loaded: true,
			lines: map[m.Path]map[int]struct{}{
				source: {3: {}, 5: {}},
			},
		}

		filter := NewCoverageFilter(cov)

		got, err := filter.Filter(sampleTargets(), source, false)
		if err != nil {
			t.Fatal(err)
		}

		if len(got) != 3 {
			t.Fatalf("expected 3 covered targets, got %d: %v", len(got), got)
		}

		for _, target := range got {
			if target.Line != 3 && target.Line != 5 {
				t.Errorf("uncovered line %d passed the filter", target.Line)
			}
		}
	})

	t.Run("covered and inverted sets partition the input", func(t *testing.T) {
		cov := &fakeCoverage{
			loaded: true,
			lines: map[m.Path]map[int]struct{}{
				source: {3: {}},
			},
		}

		filter := NewCoverageFilter(cov)
		targets := sampleTargets()

		covered, err := filter.Filter(targets, source, false)
		if err != nil {
			t.Fatal(err)
		}

		uncovered, err := filter.Filter(targets, source, true)
		if err != nil {
			t.Fatal(err)
		}

		if len(covered)+len(uncovered) != len(targets) {
			t.Errorf("partition broken: %d + %d != %d", len(covered), len(uncovered), len(targets))
		}
	})

	t.Run("a file absent from the profile has no covered targets", func(t *testing.T) {
		cov := &fakeCoverage{loaded: true, lines: map[m.Path]map[int]struct{}{}}

		filter := NewCoverageFilter(cov)

		got, err := filter.Filter(sampleTargets(), source, false)
		if err != nil {
			t.Fatal(err)
		}

		if len(got) != 0 {
			t.Errorf("expected no covered targets, got %v", got)
		}
	})
}
