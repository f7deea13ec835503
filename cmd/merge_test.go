package cmd

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	m "github.com/EvanKepner/mutatest/internal/model"
)

func writeSummaryFixture(t *testing.T, name string, statuses ...m.Status) string {
	t.Helper()

	results := make([]m.TrialResult, 0, len(statuses))
	counts := m.StatusCounts{}

	for _, status := range statuses {
		results = append(results, m.TrialResult{
			SourcePath: "/proj/calc.go",
			Target:     m.MutationTarget{Kind: m.KindBinaryOp, Line: 4, OpType: "+"},
			Mutation:   "-",
			Status:     status,
		})
		counts.Add(status)
	}

	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, reportStore.SaveSummary(m.Path(path), m.ResultsSummary{
		Results:    results,
		Counts:     counts,
		SampleSize: len(statuses),
		PoolSize:   len(statuses),
		RunMode:    "f",
		Elapsed:    time.Second,
	}))

	return path
}

func TestMergeCmd_CombinesSummaries(t *testing.T) {
	first := writeSummaryFixture(t, "a.yaml", m.StatusDetected, m.StatusSurvived)
	second := writeSummaryFixture(t, "b.yaml", m.StatusDetected)
	target := filepath.Join(t.TempDir(), "merged.yaml")

	cmd := newTestRoot(newMergeCmd())
	cmd.SetArgs([]string{"merge", first, second, "--output", target})

	require.NoError(t, cmd.Execute())

	merged, err := reportStore.LoadSummary(m.Path(target))
	require.NoError(t, err)

	assert.Len(t, merged.Results, 3)
	assert.Equal(t, 2, merged.Counts.Detected)
	assert.Equal(t, 1, merged.Counts.Survived)
	assert.Equal(t, 3, merged.SampleSize)
	assert.Equal(t, 2*time.Second, merged.Elapsed)
	assert.Equal(t, "f", merged.RunMode, "metadata comes from the first summary")
}

func TestMergeCmd_MissingInputFails(t *testing.T) {
	cmd := newTestRoot(newMergeCmd())
	cmd.SetArgs([]string{"merge", filepath.Join(t.TempDir(), "absent.yaml")})

	assert.Error(t, cmd.Execute())
}
