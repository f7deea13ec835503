package domain

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/EvanKepner/mutatest/internal/adapter"
	m "github.com/EvanKepner/mutatest/internal/model"
)

// GenomeGroup aggregates genomes across many source files. Keys are
// canonicalized paths so the same file never appears twice; iteration follows
// insertion order so campaign output is stable.
type GenomeGroup struct {
	fileAdapter adapter.GoFileAdapter
	fsAdapter   adapter.SourceFSAdapter

	order   []m.Path
	genomes map[m.Path]*Genome
}

// NewGenomeGroup constructs an empty group.
func NewGenomeGroup(fileAdapter adapter.GoFileAdapter, fsAdapter adapter.SourceFSAdapter) *GenomeGroup {
	return &GenomeGroup{
		fileAdapter: fileAdapter,
		fsAdapter:   fsAdapter,
		genomes:     make(map[m.Path]*Genome),
	}
}

// AddFile adds one Go source file to the group. Re-adding a path replaces the
// existing genome rather than duplicating it.
func (gg *GenomeGroup) AddFile(path m.Path) error {
	abs, err := gg.fsAdapter.AbsPath(path)
	if err != nil {
		return fmt.Errorf("canonicalizing %s: %w", path, err)
	}

	info, err := gg.fsAdapter.FileInfo(abs)
	if err != nil {
		return fmt.Errorf("source file %s: %w", path, err)
	}

	if info.IsDir() {
		return fmt.Errorf("%s is a directory, use AddFolder", path)
	}

	if !strings.HasSuffix(string(abs), ".go") {
		return fmt.Errorf("%s is not a Go source file", path)
	}

	if _, exists := gg.genomes[abs]; !exists {
		gg.order = append(gg.order, abs)
	}

	gg.genomes[abs] = NewGenome(gg.fileAdapter, gg.fsAdapter, abs)

	return nil
}

// AddFolder walks root recursively and adds every Go source file, skipping
// test files and anything matching an exclude pattern. Patterns match against
// the base name or any path segment.
func (gg *GenomeGroup) AddFolder(root m.Path, exclude []string) error {
	abs, err := gg.fsAdapter.AbsPath(root)
	if err != nil {
		return fmt.Errorf("canonicalizing %s: %w", root, err)
	}

	return gg.fsAdapter.Walk(abs, true, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}

		if info.IsDir() {
			hidden := strings.HasPrefix(filepath.Base(path), ".") && path != string(abs)
			if hidden || excluded(path, exclude) {
				return filepath.SkipDir
			}

			return nil
		}

		if !strings.HasSuffix(path, ".go") || gg.fsAdapter.IsTestFile(m.Path(path)) {
			return nil
		}

		if excluded(path, exclude) {
			return nil
		}

		return gg.AddFile(m.Path(path))
	})
}

func excluded(path string, patterns []string) bool {
	base := filepath.Base(path)

	for _, pattern := range patterns {
		if ok, _ := filepath.Match(pattern, base); ok {
			return true
		}

		if ok, _ := filepath.Match(pattern, path); ok {
			return true
		}

		if strings.Contains(path, pattern) {
			return true
		}
	}

	return false
}

// Genome looks up the genome for a canonicalized path.
func (gg *GenomeGroup) Genome(path m.Path) (*Genome, bool) {
	g, ok := gg.genomes[path]
	return g, ok
}

// Paths returns the group's source paths in insertion order.
func (gg *GenomeGroup) Paths() []m.Path {
	out := make([]m.Path, len(gg.order))
	copy(out, gg.order)

	return out
}

// Len returns the number of genomes in the group.
func (gg *GenomeGroup) Len() int {
	return len(gg.genomes)
}

// SetFilterCodes applies a category-code whitelist to every genome. Codes are
// validated once up front so a bad code fails before any genome changes.
func (gg *GenomeGroup) SetFilterCodes(codes []string) error {
	for _, code := range codes {
		if _, ok := CategoryByCode(code); !ok {
			return &FilterConfigError{Code: code, Valid: ValidCodes()}
		}
	}

	for _, path := range gg.order {
		if err := gg.genomes[path].SetFilterCodes(codes); err != nil {
			return err
		}
	}

	return nil
}

// SetSkipLiterals toggles literal-target scanning for every genome.
func (gg *GenomeGroup) SetSkipLiterals(skip bool) {
	for _, path := range gg.order {
		gg.genomes[path].SetSkipLiterals(skip)
	}
}

// Targets enumerates every genome's targets, tagged with the owning path.
func (gg *GenomeGroup) Targets() ([]m.GroupTarget, error) {
	out := make([]m.GroupTarget, 0)

	for _, path := range gg.order {
		targets, err := gg.genomes[path].Targets()
		if err != nil {
			return nil, err
		}

		for _, target := range targets {
			out = append(out, m.GroupTarget{SourcePath: path, Target: target})
		}
	}

	return out, nil
}

// CoveredTargets enumerates covered targets across the group.
func (gg *GenomeGroup) CoveredTargets(cov adapter.CoverageAdapter) ([]m.GroupTarget, error) {
	out := make([]m.GroupTarget, 0)

	for _, path := range gg.order {
		targets, err := gg.genomes[path].CoveredTargets(cov)
		if err != nil {
			return nil, err
		}

		for _, target := range targets {
			out = append(out, m.GroupTarget{SourcePath: path, Target: target})
		}
	}

	return out, nil
}
