package domain

import (
	"fmt"
	"go/ast"
	"go/token"
	"slices"

	"github.com/EvanKepner/mutatest/internal/adapter"
	"github.com/EvanKepner/mutatest/internal/domain/operators"
	m "github.com/EvanKepner/mutatest/internal/model"
)

// Mutant is one candidate program variant: a single substitution applied to a
// copy of the source. Content has already passed a parse check, and Stats
// captures the identity of the file the mutant was generated from.
type Mutant struct {
	SourcePath m.Path
	Target     m.MutationTarget
	Mutation   string
	Content    []byte
	Stats      m.SourceStats
}

// Genome is one mutable source unit. The parse state is lazy: reassigning the
// source path drops the tree, targets, and content until the next read, so a
// Genome can never serve targets from a file it no longer points at.
type Genome struct {
	fileAdapter adapter.GoFileAdapter
	fsAdapter   adapter.SourceFSAdapter

	sourcePath   m.Path
	filterCodes  []string
	skipLiterals bool

	parsed  bool
	fset    *token.FileSet
	file    *ast.File
	content []byte
}

// NewGenome constructs a Genome for the source file at path.
func NewGenome(fileAdapter adapter.GoFileAdapter, fsAdapter adapter.SourceFSAdapter, path m.Path) *Genome {
	return &Genome{
		fileAdapter: fileAdapter,
		fsAdapter:   fsAdapter,
		sourcePath:  path,
	}
}

// SourcePath returns the file this genome mutates.
func (g *Genome) SourcePath() m.Path {
	return g.sourcePath
}

// SetSourcePath points the genome at a different file and invalidates all
// parse state.
func (g *Genome) SetSourcePath(path m.Path) {
	g.sourcePath = path
	g.parsed = false
	g.fset = nil
	g.file = nil
	g.content = nil
}

// FilterCodes returns the active category-code whitelist.
func (g *Genome) FilterCodes() []string {
	out := make([]string, len(g.filterCodes))
	copy(out, g.filterCodes)

	return out
}

// SetFilterCodes restricts Targets to the given category codes. Unknown codes
// are rejected with the full valid-code enumeration; an empty set clears the
// restriction.
func (g *Genome) SetFilterCodes(codes []string) error {
	for _, code := range codes {
		if _, ok := CategoryByCode(code); !ok {
			return &FilterConfigError{Code: code, Valid: ValidCodes()}
		}
	}

	g.filterCodes = make([]string, len(codes))
	copy(g.filterCodes, codes)

	return nil
}

// SetSkipLiterals excludes literal-value targets (constant literals and
// integer subscripts) from scans.
func (g *Genome) SetSkipLiterals(skip bool) {
	g.skipLiterals = skip
	g.parsed = false
}

// Targets parses the source if needed and enumerates its mutation targets,
// restricted by the active category filter.
func (g *Genome) Targets() ([]m.MutationTarget, error) {
	if err := g.ensureParsed(); err != nil {
		return nil, err
	}

	targets := operators.Scan(g.fset, g.file, g.skipLiterals)

	if len(g.filterCodes) == 0 {
		return targets, nil
	}

	filter, err := NewCategoryCodeFilter(g.filterCodes...)
	if err != nil {
		return nil, err
	}

	return filter.Filter(targets, false), nil
}

// CoveredTargets restricts Targets to lines the coverage data marks as
// executed. ErrNoCoverageData surfaces when no profile was loaded at all; a
// file absent from a loaded profile simply has no covered targets.
func (g *Genome) CoveredTargets(cov adapter.CoverageAdapter) ([]m.MutationTarget, error) {
	targets, err := g.Targets()
	if err != nil {
		return nil, err
	}

	filter := NewCoverageFilter(cov)

	return filter.Filter(targets, g.sourcePath, false)
}

// Mutate builds a Mutant by substituting mutation at target. The target must
// belong to this genome's current target set, the mutation must be a legal
// member of the target's category, and the rewritten source must still parse.
func (g *Genome) Mutate(target m.MutationTarget, mutation string) (Mutant, error) {
	if err := g.ensureParsed(); err != nil {
		return Mutant{}, err
	}

	legal, err := MutationsFor(target)
	if err != nil {
		return Mutant{}, err
	}

	if !slices.Contains(legal, mutation) {
		return Mutant{}, &ClassificationError{Kind: target.Kind, Mutation: mutation, Legal: legal}
	}

	targets, err := g.Targets()
	if err != nil {
		return Mutant{}, err
	}

	if !slices.Contains(targets, target) {
		return Mutant{}, fmt.Errorf("target %s at %d:%d is not in the genome for %s",
			target.Kind, target.Line, target.Col, g.sourcePath)
	}

	mutated, err := operators.Apply(g.fset, g.file, g.content, target, mutation)
	if err != nil {
		return Mutant{}, fmt.Errorf("applying mutation: %w", err)
	}

	if err := g.fileAdapter.Check(string(g.sourcePath), mutated); err != nil {
		return Mutant{}, fmt.Errorf("mutated source does not parse: %w", err)
	}

	stats, err := g.fsAdapter.SourceStats(g.sourcePath)
	if err != nil {
		return Mutant{}, fmt.Errorf("capturing source identity: %w", err)
	}

	return Mutant{
		SourcePath: g.sourcePath,
		Target:     target,
		Mutation:   mutation,
		Content:    mutated,
		Stats:      stats,
	}, nil
}

// Content returns the raw bytes of the parsed source.
func (g *Genome) Content() ([]byte, error) {
	if err := g.ensureParsed(); err != nil {
		return nil, err
	}

	return g.content, nil
}

func (g *Genome) ensureParsed() error {
	if g.parsed {
		return nil
	}

	content, err := g.fsAdapter.ReadFile(g.sourcePath)
	if err != nil {
		return fmt.Errorf("reading source %s: %w", g.sourcePath, err)
	}

	fset := token.NewFileSet()

	file, err := g.fileAdapter.Parse(fset, string(g.sourcePath), content)
	if err != nil {
		return fmt.Errorf("parsing source %s: %w", g.sourcePath, err)
	}

	g.fset = fset
	g.file = file
	g.content = content
	g.parsed = true

	return nil
}
