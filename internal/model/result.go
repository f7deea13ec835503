package model

import "time"

// Status classifies the outcome of a single mutation trial.
type Status string

const (
	// StatusSurvived indicates the test suite passed with the mutant active.
	StatusSurvived Status = "SURVIVED"
	// StatusDetected indicates the test suite failed, catching the mutant.
	StatusDetected Status = "DETECTED"
	// StatusError indicates the test command could not be executed.
	StatusError Status = "ERROR"
	// StatusTimeout indicates the trial exceeded its runtime cap.
	StatusTimeout Status = "TIMEOUT"
	// StatusUnknown indicates an unclassifiable exit condition.
	StatusUnknown Status = "UNKNOWN"
)

// TrialResult records one mutant's outcome. It is created immediately after
// the test-runner invocation returns or times out and is immutable thereafter.
type TrialResult struct {
	SourcePath Path           `yaml:"source_path"`
	Target     MutationTarget `yaml:"target"`
	Mutation   string         `yaml:"mutation"`
	Status     Status         `yaml:"status"`
	ExitCode   int            `yaml:"exit_code"`
	Duration   time.Duration  `yaml:"duration"`
}

// StatusCounts aggregates result totals by status.
type StatusCounts struct {
	Survived int `yaml:"survived"`
	Detected int `yaml:"detected"`
	Errors   int `yaml:"errors"`
	Timeouts int `yaml:"timeouts"`
	Unknown  int `yaml:"unknown"`
}

// Add folds one status into the counts.
func (c *StatusCounts) Add(s Status) {
	switch s {
	case StatusSurvived:
		c.Survived++
	case StatusDetected:
		c.Detected++
	case StatusError:
		c.Errors++
	case StatusTimeout:
		c.Timeouts++
	case StatusUnknown:
		c.Unknown++
	}
}

// Total returns the number of counted results.
func (c StatusCounts) Total() int {
	return c.Survived + c.Detected + c.Errors + c.Timeouts + c.Unknown
}

// DetectionScore is the fraction of scoreable trials (detected + survived)
// that were detected. A campaign with no scoreable trials scores 1.0.
func (c StatusCounts) DetectionScore() float64 {
	scoreable := c.Detected + c.Survived
	if scoreable == 0 {
		return 1.0
	}

	return float64(c.Detected) / float64(scoreable)
}

// ResultsSummary is the campaign-level report handed to report consumers.
type ResultsSummary struct {
	Results []TrialResult `yaml:"results"`
	Counts  StatusCounts  `yaml:"counts"`

	SampleSize    int           `yaml:"sample_size"`
	PoolSize      int           `yaml:"pool_size"`
	CoverageRatio float64       `yaml:"coverage_ratio"`
	Seed          *int64        `yaml:"seed,omitempty"`
	RunMode       string        `yaml:"run_mode"`
	TimeoutFactor float64       `yaml:"timeout_factor"`
	Baseline      time.Duration `yaml:"baseline"`
	FinalBaseline time.Duration `yaml:"final_baseline"`
	Elapsed       time.Duration `yaml:"elapsed"`
}
