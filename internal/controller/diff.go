package controller

import (
	"fmt"

	"github.com/pmezard/go-difflib/difflib"

	"github.com/EvanKepner/mutatest/internal/adapter"
	"github.com/EvanKepner/mutatest/internal/domain"
	m "github.com/EvanKepner/mutatest/internal/model"
)

// Differ reconstructs a trial's mutant from the durable source and renders a
// unified diff against the original. Results only record the target and the
// replacement, so the diff is rebuilt on demand.
type Differ struct {
	files adapter.GoFileAdapter
	fs    adapter.SourceFSAdapter
}

// NewDiffer creates a Differ from its adapters.
func NewDiffer(files adapter.GoFileAdapter, fs adapter.SourceFSAdapter) *Differ {
	return &Differ{files: files, fs: fs}
}

// UnifiedDiff renders the result's mutation as a unified diff. It fails when
// the source changed since the campaign and the target no longer exists.
func (d *Differ) UnifiedDiff(result m.TrialResult) (string, error) {
	genome := domain.NewGenome(d.files, d.fs, result.SourcePath)

	original, err := genome.Content()
	if err != nil {
		return "", fmt.Errorf("reading %s: %w", result.SourcePath, err)
	}

	mutant, err := genome.Mutate(result.Target, result.Mutation)
	if err != nil {
		return "", fmt.Errorf("rebuilding mutant for %s: %w", result.SourcePath, err)
	}

	return difflib.GetUnifiedDiffString(difflib.UnifiedDiff{
		A:        difflib.SplitLines(string(original)),
		B:        difflib.SplitLines(string(mutant.Content)),
		FromFile: string(result.SourcePath),
		ToFile:   fmt.Sprintf("%s (%s -> %s)", result.SourcePath, result.Target.OpType, result.Mutation),
		Context:  2,
	})
}
