package domain

import (
	"errors"
	"fmt"
	"strings"

	m "github.com/EvanKepner/mutatest/internal/model"
)

// ClassificationError reports a node kind with no registered category, or a
// replacement that is not a legal member of the target's category. It always
// enumerates the legal set when one exists.
type ClassificationError struct {
	Kind     m.NodeKind
	Mutation string
	Legal    []string
}

func (e *ClassificationError) Error() string {
	if e.Mutation != "" {
		return fmt.Sprintf(
			"%s is not a legal mutation for node kind %s, legal mutations: %s",
			e.Mutation, e.Kind, strings.Join(e.Legal, ", "),
		)
	}

	return fmt.Sprintf("node kind %q has no registered operator category", string(e.Kind))
}

// FilterConfigError reports invalid filter construction: an unknown category
// code, or conflicting whitelist and blacklist settings. Unknown codes carry
// the full valid-code enumeration.
type FilterConfigError struct {
	Code   string
	Valid  []string
	Reason string
}

func (e *FilterConfigError) Error() string {
	if e.Code != "" {
		return fmt.Sprintf(
			"invalid category code %q, valid codes: %s",
			e.Code, strings.Join(e.Valid, ", "),
		)
	}

	return e.Reason
}

// BaselineFailure aborts a campaign before any mutation occurs: a failing
// clean trial makes every subsequent detection meaningless.
type BaselineFailure struct {
	ExitCode int
	Err      error
}

func (e *BaselineFailure) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("clean trial failed to execute: %v", e.Err)
	}

	return fmt.Sprintf("clean trial does not pass (exit code %d), mutant trials would be meaningless", e.ExitCode)
}

func (e *BaselineFailure) Unwrap() error { return e.Err }

// ErrNoCoverageData signals that coverage filtering was requested but no
// coverage data exists. Callers decide whether to fall back to the full
// target set; the filter never silently excludes everything.
var ErrNoCoverageData = errors.New("no coverage data available")

// ArtifactError wraps failures writing to or evicting from the transient
// artifact cache. Eviction failures after a trial are fatal to the campaign
// because they threaten the validity of every later trial.
type ArtifactError struct {
	Path m.Path
	Op   string
	Err  error
}

func (e *ArtifactError) Error() string {
	return fmt.Sprintf("artifact cache %s failed for %s: %v", e.Op, e.Path, e.Err)
}

func (e *ArtifactError) Unwrap() error { return e.Err }
