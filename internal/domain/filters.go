package domain

import (
	"github.com/EvanKepner/mutatest/internal/adapter"
	m "github.com/EvanKepner/mutatest/internal/model"
)

// CategoryCodeFilter restricts a target set by operator-category code. An
// empty code set passes everything through; invert turns the restriction into
// an exclusion. Filtering is pure: the input slice is never modified.
type CategoryCodeFilter struct {
	codes map[string]struct{}
}

// NewCategoryCodeFilter validates the codes and builds a filter. Unknown
// codes fail with the full valid-code enumeration.
func NewCategoryCodeFilter(codes ...string) (*CategoryCodeFilter, error) {
	set := make(map[string]struct{}, len(codes))

	for _, code := range codes {
		if _, ok := CategoryByCode(code); !ok {
			return nil, &FilterConfigError{Code: code, Valid: ValidCodes()}
		}

		set[code] = struct{}{}
	}

	return &CategoryCodeFilter{codes: set}, nil
}

// Codes returns the active code set in catalog order.
func (f *CategoryCodeFilter) Codes() []string {
	out := make([]string, 0, len(f.codes))

	for _, code := range ValidCodes() {
		if _, ok := f.codes[code]; ok {
			out = append(out, code)
		}
	}

	return out
}

// Filter returns the targets whose category code is in the set, or outside it
// when invert is true.
func (f *CategoryCodeFilter) Filter(targets []m.MutationTarget, invert bool) []m.MutationTarget {
	if len(f.codes) == 0 {
		out := make([]m.MutationTarget, len(targets))
		copy(out, targets)

		return out
	}

	out := make([]m.MutationTarget, 0, len(targets))

	for _, target := range targets {
		category, err := CategoryOf(target.Kind)
		if err != nil {
			// Unregistered kinds never pass any category restriction.
			continue
		}

		_, member := f.codes[category.Code]
		if member != invert {
			out = append(out, target)
		}
	}

	return out
}

// FilterGroup applies the code restriction across a group target set.
func (f *CategoryCodeFilter) FilterGroup(targets []m.GroupTarget, invert bool) []m.GroupTarget {
	if len(f.codes) == 0 {
		out := make([]m.GroupTarget, len(targets))
		copy(out, targets)

		return out
	}

	out := make([]m.GroupTarget, 0, len(targets))

	for _, gt := range targets {
		category, err := CategoryOf(gt.Target.Kind)
		if err != nil {
			continue
		}

		_, member := f.codes[category.Code]
		if member != invert {
			out = append(out, gt)
		}
	}

	return out
}

// CoverageFilter restricts a target set to lines the coverage data marks as
// executed. It never silently excludes everything: when no profile exists at
// all it surfaces ErrNoCoverageData and lets the caller decide the fallback.
type CoverageFilter struct {
	cov adapter.CoverageAdapter
}

// NewCoverageFilter builds a filter over the coverage adapter.
func NewCoverageFilter(cov adapter.CoverageAdapter) *CoverageFilter {
	return &CoverageFilter{cov: cov}
}

// Filter keeps the targets on covered lines of source, or the uncovered ones
// when invert is true. A source absent from a loaded profile was never
// executed, so none of its targets are covered.
func (f *CoverageFilter) Filter(targets []m.MutationTarget, source m.Path, invert bool) ([]m.MutationTarget, error) {
	if f.cov == nil || !f.cov.Loaded() {
		return nil, ErrNoCoverageData
	}

	covered, _ := f.cov.CoveredLines(source)

	out := make([]m.MutationTarget, 0, len(targets))

	for _, target := range targets {
		_, hit := covered[target.Line]
		if hit != invert {
			out = append(out, target)
		}
	}

	return out, nil
}
