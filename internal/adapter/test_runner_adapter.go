package adapter

import (
	"bytes"
	"context"
	"errors"
	"os/exec"
	"time"

	m "github.com/EvanKepner/mutatest/internal/model"
)

// TrialOutcome is the raw observation from one external test invocation. The
// domain layer maps it to a trial status; this adapter only reports what the
// process did.
type TrialOutcome struct {
	ExitCode int
	TimedOut bool
	Output   string
	Duration time.Duration
}

// TestRunnerAdapter abstracts external test-command execution for mutation
// trials.
type TestRunnerAdapter interface {
	// Run executes the command in workDir and waits for it. A non-zero exit
	// code is a normal outcome, not an error; the returned error is reserved
	// for commands that could not be started at all. Cancellation of ctx
	// before completion is reported as a timeout.
	Run(ctx context.Context, workDir m.Path, command []string) (TrialOutcome, error)
}

// LocalTestRunnerAdapter provides a concrete implementation using os/exec.
type LocalTestRunnerAdapter struct{}

// NewLocalTestRunnerAdapter constructs a LocalTestRunnerAdapter.
func NewLocalTestRunnerAdapter() *LocalTestRunnerAdapter {
	return &LocalTestRunnerAdapter{}
}

// Run executes the test command in workDir under the provided context.
func (a *LocalTestRunnerAdapter) Run(ctx context.Context, workDir m.Path, command []string) (TrialOutcome, error) {
	if len(command) == 0 {
		return TrialOutcome{}, errors.New("empty test command")
	}

	// #nosec G204 - the test command comes from the campaign configuration
	cmd := exec.CommandContext(ctx, command[0], command[1:]...)
	cmd.Dir = string(workDir)

	var combined bytes.Buffer

	cmd.Stdout = &combined
	cmd.Stderr = &combined

	started := time.Now()
	err := cmd.Run()
	elapsed := time.Since(started)

	outcome := TrialOutcome{
		Output:   combined.String(),
		Duration: elapsed,
	}

	if ctx.Err() != nil {
		// The process was killed by the deadline, not by the test command
		// finishing; the exit code is meaningless in this case.
		outcome.TimedOut = true
		return outcome, nil
	}

	if err != nil {
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			outcome.ExitCode = exitErr.ExitCode()
			return outcome, nil
		}

		return outcome, err
	}

	return outcome, nil
}
