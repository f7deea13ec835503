package domain

import (
	"fmt"

	m "github.com/EvanKepner/mutatest/internal/model"
)

// RunMode controls when a campaign stops trying further mutations at a
// sampled location.
type RunMode string

const (
	// ModeFull runs every mutation at every sampled location.
	ModeFull RunMode = "f"
	// ModeBreakOnSurvivor moves to the next location after the first
	// surviving mutation, favoring broad coverage of weak spots.
	ModeBreakOnSurvivor RunMode = "s"
	// ModeBreakOnDetected moves to the next location after the first
	// detected mutation, favoring fast whole-tree sweeps.
	ModeBreakOnDetected RunMode = "d"
	// ModeBreakOnEither moves on after any conclusive outcome.
	ModeBreakOnEither RunMode = "sd"
)

// ParseRunMode resolves a mode flag value.
func ParseRunMode(value string) (RunMode, error) {
	switch RunMode(value) {
	case ModeFull, ModeBreakOnSurvivor, ModeBreakOnDetected, ModeBreakOnEither:
		return RunMode(value), nil
	default:
		return "", fmt.Errorf("invalid run mode %q, valid modes: f, s, d, sd", value)
	}
}

// breakOn reports whether the mode stops a location's mutation loop after
// observing status.
func (rm RunMode) breakOn(status m.Status) bool {
	switch rm {
	case ModeBreakOnSurvivor:
		return status == m.StatusSurvived
	case ModeBreakOnDetected:
		return status == m.StatusDetected
	case ModeBreakOnEither:
		return status == m.StatusSurvived || status == m.StatusDetected
	default:
		return false
	}
}

// Config holds one campaign's settings. Validate normalizes and rejects
// contradictions before any trial runs.
type Config struct {
	// Paths are the files or directories to mutate.
	Paths []m.Path

	// Exclude patterns remove files during group building.
	Exclude []string

	// TestCmds is the external test command run for the baseline and every
	// trial.
	TestCmds []string

	// Whitelist restricts mutation to these category codes; Blacklist
	// excludes them instead. Setting both is a configuration error.
	Whitelist []string
	Blacklist []string

	// Mode selects the per-location early-exit policy.
	Mode RunMode

	// NLocations caps the sample size. Zero or negative means the whole
	// pool.
	NLocations int

	// Seed fixes the sampling order; nil draws a fresh seed per campaign.
	Seed *int64

	// TimeoutFactor scales the clean-trial runtime into the per-trial cap.
	// It must exceed 1: a mutant needs at least as long as clean code.
	TimeoutFactor float64

	// DisableCoverage skips coverage filtering even when a profile exists.
	DisableCoverage bool

	// CoverageProfile is the cover profile location relative to the project
	// root.
	CoverageProfile m.Path

	// SkipLiterals excludes literal-value targets from scanning.
	SkipLiterals bool

	// Workers sets the number of parallel trial workers; 0 or 1 is serial.
	Workers int

	// OutputPath, when set, receives the YAML campaign summary.
	OutputPath m.Path

	// JournalPath, when set, receives results as they complete.
	JournalPath m.Path
}

// Validate checks the configuration and applies defaults.
func (c *Config) Validate() error {
	if len(c.Paths) == 0 {
		return &FilterConfigError{Reason: "no source paths configured"}
	}

	if len(c.Whitelist) > 0 && len(c.Blacklist) > 0 {
		return &FilterConfigError{Reason: "whitelist and blacklist category filters are mutually exclusive"}
	}

	for _, code := range append(append([]string{}, c.Whitelist...), c.Blacklist...) {
		if _, ok := CategoryByCode(code); !ok {
			return &FilterConfigError{Code: code, Valid: ValidCodes()}
		}
	}

	if c.Mode == "" {
		c.Mode = ModeBreakOnSurvivor
	} else if _, err := ParseRunMode(string(c.Mode)); err != nil {
		return err
	}

	if c.TimeoutFactor == 0 {
		c.TimeoutFactor = 5
	}

	if c.TimeoutFactor <= 1 {
		return fmt.Errorf("timeout factor must exceed 1, got %v", c.TimeoutFactor)
	}

	if len(c.TestCmds) == 0 {
		c.TestCmds = []string{"go", "test", "./..."}
	}

	if c.Workers < 1 {
		c.Workers = 1
	}

	if c.CoverageProfile == "" {
		c.CoverageProfile = "coverage.out"
	}

	return nil
}

// categoryFilter builds the active category filter and reports whether it
// excludes (blacklist) rather than restricts (whitelist).
func (c *Config) categoryFilter() (*CategoryCodeFilter, bool, error) {
	codes := c.Whitelist
	invert := false

	if len(c.Blacklist) > 0 {
		codes = c.Blacklist
		invert = true
	}

	filter, err := NewCategoryCodeFilter(codes...)
	if err != nil {
		return nil, false, err
	}

	return filter, invert, nil
}
