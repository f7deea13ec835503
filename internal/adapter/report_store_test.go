package adapter

import (
	"path/filepath"
	"testing"
	"time"

	m "github.com/EvanKepner/mutatest/internal/model"
)

func TestYAMLReportStore(t *testing.T) {
	store := NewYAMLReportStore()

	t.Run("saved summaries load back with results intact", func(t *testing.T) {
		seed := int64(99)

		summary := m.ResultsSummary{
			Results: []m.TrialResult{
				{
					SourcePath: "/proj/calc.go",
					Target:     m.MutationTarget{Kind: m.KindBinaryOp, Line: 4, Col: 9, OpType: "+"},
					Mutation:   "-",
					Status:     m.StatusDetected,
					ExitCode:   1,
					Duration:   120 * time.Millisecond,
				},
				{
					SourcePath: "/proj/calc.go",
					Target:     m.MutationTarget{Kind: m.KindBinaryOp, Line: 4, Col: 9, OpType: "+"},
					Mutation:   "*",
					Status:     m.StatusSurvived,
				},
			},
			Counts:        m.StatusCounts{Detected: 1, Survived: 1},
			SampleSize:    1,
			PoolSize:      3,
			Seed:          &seed,
			RunMode:       "f",
			TimeoutFactor: 2,
			Baseline:      time.Second,
		}

		path := m.Path(filepath.Join(t.TempDir(), "reports", "summary.yaml"))

		if err := store.SaveSummary(path, summary); err != nil {
			t.Fatal(err)
		}

		loaded, err := store.LoadSummary(path)
		if err != nil {
			t.Fatal(err)
		}

		if len(loaded.Results) != 2 {
			t.Fatalf("expected 2 results, got %d", len(loaded.Results))
		}

		if loaded.Results[0].Status != m.StatusDetected || loaded.Results[1].Status != m.StatusSurvived {
			t.Errorf("statuses did not round-trip: %+v", loaded.Results)
		}

		if loaded.Counts != summary.Counts {
			t.Errorf("counts did not round-trip: %+v", loaded.Counts)
		}

		if loaded.Seed == nil || *loaded.Seed != seed {
			t.Errorf("seed did not round-trip: %v", loaded.Seed)
		}
	})

	t.Run("loading a missing file errors", func(t *testing.T) {
		if _, err := store.LoadSummary(m.Path(filepath.Join(t.TempDir(), "absent.yaml"))); err == nil {
			t.Error("expected an error for a missing summary")
		}
	})
}
