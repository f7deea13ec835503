package domain

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/EvanKepner/mutatest/internal/adapter"
	m "github.com/EvanKepner/mutatest/internal/model"
	"github.com/EvanKepner/mutatest/pkg"
)

// ProgressFunc receives each trial result as it completes, along with the
// running count and the projected total.
type ProgressFunc func(completed, total int, result m.TrialResult)

// TrialController drives one mutation campaign: clean baseline, sampling,
// mutant trials, and the final clean re-run.
type TrialController struct {
	cfg      Config
	files    adapter.GoFileAdapter
	fs       adapter.SourceFSAdapter
	runner   adapter.TestRunnerAdapter
	coverage adapter.CoverageAdapter

	// Progress, when set, is invoked after every trial. It may be called
	// from multiple workers but never concurrently.
	Progress ProgressFunc

	// Journal, when set, receives every result as it completes so an
	// interrupted campaign still leaves a record.
	Journal pkg.Journal[m.TrialResult]
}

// NewTrialController wires a controller from its adapters.
func NewTrialController(
	cfg Config,
	files adapter.GoFileAdapter,
	fs adapter.SourceFSAdapter,
	runner adapter.TestRunnerAdapter,
	coverage adapter.CoverageAdapter,
) *TrialController {
	return &TrialController{
		cfg:      cfg,
		files:    files,
		fs:       fs,
		runner:   runner,
		coverage: coverage,
	}
}

// Run executes the campaign. The returned summary is complete only when the
// error is nil; a BaselineFailure or ArtifactError aborts the campaign.
func (c *TrialController) Run(ctx context.Context) (m.ResultsSummary, error) {
	started := time.Now()

	if err := c.cfg.Validate(); err != nil {
		return m.ResultsSummary{}, err
	}

	root, err := c.fs.FindProjectRoot(c.cfg.Paths[0])
	if err != nil {
		return m.ResultsSummary{}, fmt.Errorf("locating project root: %w", err)
	}

	if err := adapter.RemoveStaleMirrors(c.fs, root); err != nil {
		return m.ResultsSummary{}, fmt.Errorf("clearing stale mirrors: %w", err)
	}

	defer func() {
		if err := adapter.RemoveStaleMirrors(c.fs, root); err != nil {
			slog.Warn("failed to remove mirror directory", "root", root, "error", err)
		}
	}()

	group, err := c.buildGroup()
	if err != nil {
		return m.ResultsSummary{}, err
	}

	slog.Info("starting clean trial", "root", root, "cmd", c.cfg.TestCmds)

	baseline, err := c.cleanTrial(ctx, root)
	if err != nil {
		return m.ResultsSummary{}, err
	}

	timeout := trialTimeout(baseline, c.cfg.TimeoutFactor)
	slog.Info("clean trial passed", "duration", baseline, "trial_timeout", timeout)

	pool, coverageRatio, err := c.buildPool(group, root)
	if err != nil {
		return m.ResultsSummary{}, err
	}

	sample, seed := SampleTargets(pool, c.cfg.NLocations, c.cfg.Seed)
	slog.Info("sampled mutation locations",
		"pool", len(pool), "sample", len(sample), "seed", seed, "mode", c.cfg.Mode)

	results, err := c.runTrials(ctx, group, root, sample, timeout)
	if err != nil {
		return m.ResultsSummary{}, err
	}

	finalBaseline, err := c.cleanTrial(ctx, root)
	if err != nil {
		return m.ResultsSummary{}, fmt.Errorf("final clean trial: %w", err)
	}

	var counts m.StatusCounts
	for _, r := range results {
		counts.Add(r.Status)
	}

	return m.ResultsSummary{
		Results:       results,
		Counts:        counts,
		SampleSize:    len(sample),
		PoolSize:      len(pool),
		CoverageRatio: coverageRatio,
		Seed:          &seed,
		RunMode:       string(c.cfg.Mode),
		TimeoutFactor: c.cfg.TimeoutFactor,
		Baseline:      baseline,
		FinalBaseline: finalBaseline,
		Elapsed:       time.Since(started),
	}, nil
}

// cleanTrial runs the test command against the unmutated tree. It has no
// artificial timeout: its runtime is what trial timeouts are derived from.
func (c *TrialController) cleanTrial(ctx context.Context, root m.Path) (time.Duration, error) {
	outcome, err := c.runner.Run(ctx, root, c.cfg.TestCmds)
	if err != nil {
		return 0, &BaselineFailure{Err: err}
	}

	if outcome.TimedOut {
		return 0, ctx.Err()
	}

	if outcome.ExitCode != 0 {
		slog.Error("clean trial failed", "exit_code", outcome.ExitCode, "output", outcome.Output)
		return 0, &BaselineFailure{ExitCode: outcome.ExitCode}
	}

	return outcome.Duration, nil
}

func (c *TrialController) buildGroup() (*GenomeGroup, error) {
	group := NewGenomeGroup(c.files, c.fs)

	for _, path := range c.cfg.Paths {
		info, err := c.fs.FileInfo(path)
		if err != nil {
			return nil, fmt.Errorf("source path %s: %w", path, err)
		}

		if info.IsDir() {
			err = group.AddFolder(path, c.cfg.Exclude)
		} else {
			err = group.AddFile(path)
		}

		if err != nil {
			return nil, err
		}
	}

	if group.Len() == 0 {
		return nil, fmt.Errorf("no mutable Go source files under %v", c.cfg.Paths)
	}

	group.SetSkipLiterals(c.cfg.SkipLiterals)

	return group, nil
}

// buildPool assembles the sampling pool: category-filtered targets, narrowed
// to covered lines unless coverage is disabled or absent.
func (c *TrialController) buildPool(group *GenomeGroup, root m.Path) ([]m.GroupTarget, float64, error) {
	all, err := group.Targets()
	if err != nil {
		return nil, 0, err
	}

	filter, invert, err := c.cfg.categoryFilter()
	if err != nil {
		return nil, 0, err
	}

	filtered := filter.FilterGroup(all, invert)

	if c.cfg.DisableCoverage {
		return filtered, 0, nil
	}

	profile := c.fs.JoinPath(string(root), string(c.cfg.CoverageProfile))
	if err := c.coverage.Load(profile); err != nil {
		return nil, 0, fmt.Errorf("loading coverage profile: %w", err)
	}

	covered, err := group.CoveredTargets(c.coverage)
	if err != nil {
		if errors.Is(err, ErrNoCoverageData) {
			slog.Warn("no coverage data, mutating all targets", "profile", profile)
			return filtered, 0, nil
		}

		return nil, 0, err
	}

	pool := filter.FilterGroup(covered, invert)

	ratio := 0.0
	if len(filtered) > 0 {
		ratio = float64(len(pool)) / float64(len(filtered))
	}

	return pool, ratio, nil
}

// sourceUnit is the per-file slice of the sample. Units are the parallelism
// grain: one worker owns one unit at a time, and every worker has its own
// mirror, so concurrent trials never share a cache slot.
type sourceUnit struct {
	path    m.Path
	targets []m.GroupTarget
}

func splitUnits(sample []m.GroupTarget) []sourceUnit {
	index := make(map[m.Path]int)
	units := make([]sourceUnit, 0)

	for _, gt := range sample {
		i, ok := index[gt.SourcePath]
		if !ok {
			i = len(units)
			index[gt.SourcePath] = i

			units = append(units, sourceUnit{path: gt.SourcePath})
		}

		units[i].targets = append(units[i].targets, gt)
	}

	return units
}

func (c *TrialController) runTrials(
	ctx context.Context,
	group *GenomeGroup,
	root m.Path,
	sample []m.GroupTarget,
	timeout time.Duration,
) ([]m.TrialResult, error) {
	units := splitUnits(sample)
	total := c.projectedTotal(sample)

	unitResults := make([][]m.TrialResult, len(units))

	var (
		mu        sync.Mutex
		completed int
	)

	emit := func(result m.TrialResult) {
		mu.Lock()
		defer mu.Unlock()

		completed++

		if c.Journal != nil {
			if err := c.Journal.Append(result); err != nil {
				slog.Warn("journal append failed", "error", err)
			}
		}

		if c.Progress != nil {
			c.Progress(completed, total, result)
		}
	}

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(c.cfg.Workers)

	for i, unit := range units {
		g.Go(func() error {
			cache, err := adapter.NewMirrorArtifactCache(c.fs, root)
			if err != nil {
				return fmt.Errorf("building mirror for %s: %w", unit.path, err)
			}

			defer func() {
				if err := cache.Close(); err != nil {
					slog.Warn("failed to remove mirror", "mirror", cache.Root(), "error", err)
				}
			}()

			results, err := c.runUnit(gctx, group, cache, unit, timeout, emit)
			if err != nil {
				return err
			}

			unitResults[i] = results

			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}

	merged := make([]m.TrialResult, 0, total)
	for _, results := range unitResults {
		merged = append(merged, results...)
	}

	return merged, nil
}

// runUnit runs every sampled location of one source unit against its own
// mirror. Replacements are tried in fixed catalog order; the run mode decides
// when a location's loop ends early.
func (c *TrialController) runUnit(
	ctx context.Context,
	group *GenomeGroup,
	cache adapter.ArtifactCache,
	unit sourceUnit,
	timeout time.Duration,
	emit func(m.TrialResult),
) ([]m.TrialResult, error) {
	genome, ok := group.Genome(unit.path)
	if !ok {
		return nil, fmt.Errorf("no genome for sampled path %s", unit.path)
	}

	results := make([]m.TrialResult, 0)

	for _, gt := range unit.targets {
		mutations, err := MutationsFor(gt.Target)
		if err != nil {
			return nil, err
		}

		for _, mutation := range mutations {
			if ctx.Err() != nil {
				return nil, ctx.Err()
			}

			result, err := c.runOneTrial(ctx, cache, genome, gt, mutation, timeout)
			if err != nil {
				return nil, err
			}

			results = append(results, result)
			emit(result)

			if c.cfg.Mode.breakOn(result.Status) {
				slog.Debug("breaking location loop",
					"mode", c.cfg.Mode, "status", result.Status,
					"path", gt.SourcePath, "line", gt.Target.Line)

				break
			}
		}
	}

	return results, nil
}

// runOneTrial installs one mutant, runs the test command inside the mirror,
// and always evicts before returning. Trial-level failures (mutant does not
// build, test command errors, timeout) become statuses; cache failures abort
// the campaign because they poison every later trial.
func (c *TrialController) runOneTrial(
	ctx context.Context,
	cache adapter.ArtifactCache,
	genome *Genome,
	gt m.GroupTarget,
	mutation string,
	timeout time.Duration,
) (m.TrialResult, error) {
	result := m.TrialResult{
		SourcePath: gt.SourcePath,
		Target:     gt.Target,
		Mutation:   mutation,
	}

	mutant, err := genome.Mutate(gt.Target, mutation)
	if err != nil {
		slog.Warn("mutant construction failed",
			"path", gt.SourcePath, "line", gt.Target.Line, "mutation", mutation, "error", err)

		result.Status = m.StatusError

		return result, nil
	}

	if err := cache.Install(mutant.SourcePath, mutant.Content, mutant.Stats); err != nil {
		return result, &ArtifactError{Path: mutant.SourcePath, Op: "install", Err: err}
	}

	trialCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	outcome, runErr := c.runner.Run(trialCtx, cache.Root(), c.cfg.TestCmds)

	if err := cache.Evict(mutant.SourcePath); err != nil {
		return result, &ArtifactError{Path: mutant.SourcePath, Op: "evict", Err: err}
	}

	if ctx.Err() != nil {
		return result, ctx.Err()
	}

	result.Duration = outcome.Duration
	result.ExitCode = outcome.ExitCode

	switch {
	case outcome.TimedOut:
		result.Status = m.StatusTimeout
	case runErr != nil:
		slog.Warn("trial command failed to run", "error", runErr)
		result.Status = m.StatusError
	case outcome.ExitCode == 0:
		result.Status = m.StatusSurvived
	case outcome.ExitCode > 0:
		result.Status = m.StatusDetected
	default:
		result.Status = m.StatusUnknown
	}

	slog.Debug("trial complete",
		"path", gt.SourcePath, "line", gt.Target.Line,
		"op", gt.Target.OpType, "mutation", mutation,
		"status", result.Status, "duration", result.Duration)

	return result, nil
}

// projectedTotal estimates the trial count assuming no early exits.
func (c *TrialController) projectedTotal(sample []m.GroupTarget) int {
	total := 0

	for _, gt := range sample {
		if mutations, err := MutationsFor(gt.Target); err == nil {
			total += len(mutations)
		}
	}

	return total
}

// trialTimeout scales the clean-trial runtime by the timeout factor, with a
// one second floor so near-instant suites still get room to run.
func trialTimeout(baseline time.Duration, factor float64) time.Duration {
	timeout := time.Duration(float64(baseline) * factor)

	if timeout < time.Second {
		return time.Second
	}

	return timeout
}
