package domain

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/EvanKepner/mutatest/internal/adapter"
	m "github.com/EvanKepner/mutatest/internal/model"
)

// detectingRunner simulates a test suite by comparing the mirrored sources
// against the pristine tree: any installed mutant fails the suite. Baseline
// runs (workDir == project root) always pass.
type detectingRunner struct {
	root      m.Path
	pristine  map[string][]byte
	mu        sync.Mutex
	trialRuns int

	// overrides, keyed on call classification
	alwaysPass    bool
	alwaysTimeout bool
	failBaseline  bool
}

func newDetectingRunner(t *testing.T, root m.Path) *detectingRunner {
	t.Helper()

	pristine := make(map[string][]byte)

	err := filepath.Walk(string(root), func(path string, info os.FileInfo, err error) error {
		if err != nil || info.IsDir() || filepath.Ext(path) != ".go" {
			return err
		}

		content, err := os.ReadFile(path)
		if err != nil {
			return err
		}

		rel, err := filepath.Rel(string(root), path)
		if err != nil {
			return err
		}

		pristine[rel] = content

		return nil
	})
	if err != nil {
		t.Fatal(err)
	}

	return &detectingRunner{root: root, pristine: pristine}
}

func (r *detectingRunner) Run(_ context.Context, workDir m.Path, _ []string) (adapter.TrialOutcome, error) {
	outcome := adapter.TrialOutcome{Duration: 10 * time.Millisecond}

	if workDir == r.root {
		if r.failBaseline {
			outcome.ExitCode = 1
		}

		return outcome, nil
	}

	r.mu.Lock()
	r.trialRuns++
	r.mu.Unlock()

	if r.alwaysTimeout {
		outcome.TimedOut = true
		return outcome, nil
	}

	if r.alwaysPass {
		return outcome, nil
	}

	for rel, want := range r.pristine {
		got, err := os.ReadFile(filepath.Join(string(workDir), rel))
		if err != nil {
			return outcome, err
		}

		if !bytes.Equal(got, want) {
			outcome.ExitCode = 1
			return outcome, nil
		}
	}

	return outcome, nil
}

func (r *detectingRunner) trials() int {
	r.mu.Lock()
	defer r.mu.Unlock()

	return r.trialRuns
}

func writeProject(t *testing.T, files map[string]string) m.Path {
	t.Helper()

	files["go.mod"] = "module example.com/sample\n\ngo 1.25\n"

	return m.Path(writeTree(t, files))
}

func campaignConfig(root m.Path) Config {
	seed := int64(1234)

	return Config{
		Paths:           []m.Path{root},
		TestCmds:        []string{"fake-test"},
		Mode:            ModeFull,
		TimeoutFactor:   2,
		Seed:            &seed,
		DisableCoverage: true,
	}
}

func newController(cfg Config, runner adapter.TestRunnerAdapter) *TrialController {
	return NewTrialController(
		cfg,
		adapter.NewLocalGoFileAdapter(),
		adapter.NewLocalSourceFSAdapter(),
		runner,
		adapter.NewCoverProfileAdapter(),
	)
}

func TestTrialControllerRun(t *testing.T) {
	t.Run("a perfect suite detects every mutant", func(t *testing.T) {
		root := writeProject(t, map[string]string{"calc.go": arithmeticSrc})
		runner := newDetectingRunner(t, root)

		summary, err := newController(campaignConfig(root), runner).Run(context.Background())
		if err != nil {
			t.Fatal(err)
		}

		// One + target with four replacement operators.
		if summary.Counts.Detected != 4 {
			t.Errorf("expected 4 detected, got %+v", summary.Counts)
		}

		if summary.Counts.Survived != 0 {
			t.Errorf("expected no survivors, got %+v", summary.Counts)
		}

		if summary.Counts.DetectionScore() != 1.0 {
			t.Errorf("expected a perfect detection score, got %v", summary.Counts.DetectionScore())
		}

		if summary.SampleSize != 1 || summary.PoolSize != 1 {
			t.Errorf("expected sample and pool of 1, got %d and %d", summary.SampleSize, summary.PoolSize)
		}

		if summary.Seed == nil || *summary.Seed != 1234 {
			t.Errorf("expected the configured seed in the summary, got %v", summary.Seed)
		}

		if summary.Baseline == 0 || summary.FinalBaseline == 0 {
			t.Errorf("expected baseline durations, got %v and %v", summary.Baseline, summary.FinalBaseline)
		}
	})

	t.Run("break-on-survivor stops a location after the first survivor", func(t *testing.T) {
		root := writeProject(t, map[string]string{"calc.go": arithmeticSrc})
		runner := newDetectingRunner(t, root)
		runner.alwaysPass = true

		cfg := campaignConfig(root)
		cfg.Mode = ModeBreakOnSurvivor

		summary, err := newController(cfg, runner).Run(context.Background())
		if err != nil {
			t.Fatal(err)
		}

		if runner.trials() != 1 {
			t.Errorf("expected 1 trial before breaking, got %d", runner.trials())
		}

		if summary.Counts.Survived != 1 {
			t.Errorf("expected 1 survivor, got %+v", summary.Counts)
		}
	})

	t.Run("full mode runs every mutation even when all survive", func(t *testing.T) {
		root := writeProject(t, map[string]string{"calc.go": arithmeticSrc})
		runner := newDetectingRunner(t, root)
		runner.alwaysPass = true

		summary, err := newController(campaignConfig(root), runner).Run(context.Background())
		if err != nil {
			t.Fatal(err)
		}

		if summary.Counts.Survived != 4 {
			t.Errorf("expected 4 survivors, got %+v", summary.Counts)
		}
	})

	t.Run("timeouts are recorded and never fatal", func(t *testing.T) {
		root := writeProject(t, map[string]string{"calc.go": arithmeticSrc})
		runner := newDetectingRunner(t, root)
		runner.alwaysTimeout = true

		summary, err := newController(campaignConfig(root), runner).Run(context.Background())
		if err != nil {
			t.Fatal(err)
		}

		if summary.Counts.Timeouts != 4 {
			t.Errorf("expected 4 timeouts, got %+v", summary.Counts)
		}
	})

	t.Run("a failing clean trial aborts the campaign", func(t *testing.T) {
		root := writeProject(t, map[string]string{"calc.go": arithmeticSrc})
		runner := newDetectingRunner(t, root)
		runner.failBaseline = true

		_, err := newController(campaignConfig(root), runner).Run(context.Background())

		var baseErr *BaselineFailure
		if !errors.As(err, &baseErr) {
			t.Fatalf("expected BaselineFailure, got %v", err)
		}

		if runner.trials() != 0 {
			t.Errorf("expected no mutant trials after a failed baseline, got %d", runner.trials())
		}
	})

	t.Run("the durable tree survives the campaign untouched", func(t *testing.T) {
		root := writeProject(t, map[string]string{"calc.go": arithmeticSrc})
		runner := newDetectingRunner(t, root)

		if _, err := newController(campaignConfig(root), runner).Run(context.Background()); err != nil {
			t.Fatal(err)
		}

		onDisk, err := os.ReadFile(filepath.Join(string(root), "calc.go"))
		if err != nil {
			t.Fatal(err)
		}

		if string(onDisk) != arithmeticSrc {
			t.Error("durable source changed during the campaign")
		}

		if _, err := os.Stat(filepath.Join(string(root), ".mutatest-cache")); !os.IsNotExist(err) {
			t.Error("expected mirror directories to be cleaned up")
		}
	})

	t.Run("parallel workers across units match serial results", func(t *testing.T) {
		files := map[string]string{
			"calc.go":  arithmeticSrc,
			"check.go": comparisonSrc,
		}

		root := writeProject(t, files)

		serialCfg := campaignConfig(root)
		serial, err := newController(serialCfg, newDetectingRunner(t, root)).Run(context.Background())
		if err != nil {
			t.Fatal(err)
		}

		parallelCfg := campaignConfig(root)
		parallelCfg.Workers = 2

		parallel, err := newController(parallelCfg, newDetectingRunner(t, root)).Run(context.Background())
		if err != nil {
			t.Fatal(err)
		}

		if serial.Counts != parallel.Counts {
			t.Errorf("serial and parallel counts differ: %+v vs %+v", serial.Counts, parallel.Counts)
		}

		if len(serial.Results) != len(parallel.Results) {
			t.Errorf("result counts differ: %d vs %d", len(serial.Results), len(parallel.Results))
		}
	})

	t.Run("progress reports every completed trial", func(t *testing.T) {
		root := writeProject(t, map[string]string{"calc.go": arithmeticSrc})
		runner := newDetectingRunner(t, root)

		controller := newController(campaignConfig(root), runner)

		var seen []m.TrialResult
		controller.Progress = func(completed, total int, result m.TrialResult) {
			seen = append(seen, result)

			if completed != len(seen) {
				t.Errorf("completed %d does not match callback count %d", completed, len(seen))
			}

			if total != 4 {
				t.Errorf("expected projected total 4, got %d", total)
			}
		}

		if _, err := controller.Run(context.Background()); err != nil {
			t.Fatal(err)
		}

		if len(seen) != 4 {
			t.Errorf("expected 4 progress callbacks, got %d", len(seen))
		}
	})
}
