// Package controller provides report consumers for mutation campaigns:
// a plain-text console view and an interactive terminal view.
package controller

import (
	"context"
	"io"
	"os"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	m "github.com/EvanKepner/mutatest/internal/model"
)

// StartOption is a functional option for the Start method.
type StartOption func(*StartConfig)

// StartConfig holds configuration for starting the UI.
type StartConfig struct {
	showDiffs bool
}

// WithDiffs enables unified diffs for surviving mutants in the final report.
func WithDiffs() StartOption {
	return func(c *StartConfig) {
		c.showDiffs = true
	}
}

// UI defines the interface for displaying campaign progress and results.
// Implementations can use different output methods (simple text, TUI, etc).
type UI interface {
	Start(ctx context.Context, options ...StartOption) error
	Close(ctx context.Context)
	Wait(ctx context.Context) // Wait for UI to finish (user closes it)
	DisplayCampaignInfo(ctx context.Context, paths []m.Path, workers int, mode string)
	DisplayTrialResult(ctx context.Context, completed, total int, result m.TrialResult)
	DisplaySummary(ctx context.Context, summary m.ResultsSummary) error
}

// NewUI picks the report consumer for the command's output: the interactive
// view on a terminal, the plain console view everywhere else.
func NewUI(cmd *cobra.Command, differ *Differ, tty bool) UI {
	if tty {
		return NewTUI(cmd.OutOrStdout())
	}

	return NewSimpleUI(cmd, differ)
}

// IsTTY reports whether the writer is backed by a terminal.
func IsTTY(output io.Writer) bool {
	file, ok := output.(*os.File)
	if !ok {
		return false
	}

	return term.IsTerminal(int(file.Fd()))
}
