package controller

import (
	"bytes"
	"context"
	"fmt"

	"github.com/charmbracelet/lipgloss"
	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"

	m "github.com/EvanKepner/mutatest/internal/model"
)

var (
	survivedStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("1")).Bold(true)
	detectedStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("2"))
	flakyStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("3"))
	unknownStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("8"))
)

func styleStatus(status m.Status) string {
	switch status {
	case m.StatusSurvived:
		return survivedStyle.Render(string(status))
	case m.StatusDetected:
		return detectedStyle.Render(string(status))
	case m.StatusTimeout, m.StatusError:
		return flakyStyle.Render(string(status))
	default:
		return unknownStyle.Render(string(status))
	}
}

// SimpleUI implements UI using cobra Command's output stream.
type SimpleUI struct {
	cmd       *cobra.Command
	differ    *Differ
	showDiffs bool
}

// NewSimpleUI creates a new SimpleUI. The differ may be nil, in which case
// surviving mutants are listed without diffs.
func NewSimpleUI(cmd *cobra.Command, differ *Differ) *SimpleUI {
	return &SimpleUI{cmd: cmd, differ: differ}
}

// Start initializes the UI.
func (s *SimpleUI) Start(ctx context.Context, options ...StartOption) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	var cfg StartConfig
	for _, option := range options {
		option(&cfg)
	}

	s.showDiffs = cfg.showDiffs

	return nil
}

// Close finalizes the UI.
func (s *SimpleUI) Close(ctx context.Context) {
	if err := ctx.Err(); err != nil {
		return
	}
}

// Wait blocks until the UI is closed (no-op for SimpleUI).
func (s *SimpleUI) Wait(ctx context.Context) {
	if err := ctx.Err(); err != nil {
		return
	}
	// SimpleUI doesn't block - it just prints and continues
}

// DisplayCampaignInfo shows the campaign setup before trials begin.
func (s *SimpleUI) DisplayCampaignInfo(ctx context.Context, paths []m.Path, workers int, mode string) {
	if err := ctx.Err(); err != nil {
		return
	}

	s.printf("Mutating %d path(s) with %d worker(s), mode %q\n", len(paths), workers, mode)

	for _, path := range paths {
		s.printf("  %s\n", path)
	}
}

// DisplayTrialResult prints one completed trial.
func (s *SimpleUI) DisplayTrialResult(ctx context.Context, completed, total int, result m.TrialResult) {
	if err := ctx.Err(); err != nil {
		return
	}

	s.printf("[%d/%d] %s %s:%d:%d %s -> %s (%s)\n",
		completed, total, styleStatus(result.Status),
		result.SourcePath, result.Target.Line, result.Target.Col,
		result.Target.OpType, result.Mutation, result.Duration)
}

// DisplaySummary prints the campaign report: a status table, the detection
// score, and diffs for surviving mutants when enabled.
func (s *SimpleUI) DisplaySummary(ctx context.Context, summary m.ResultsSummary) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	s.printf("\n%s", renderSummaryTable(summary))

	seed := int64(0)
	if summary.Seed != nil {
		seed = *summary.Seed
	}

	s.printf("\nSample: %d of %d locations (seed %d)\n", summary.SampleSize, summary.PoolSize, seed)

	if summary.CoverageRatio > 0 {
		s.printf("Coverage narrowed the pool to %.0f%% of filtered targets\n", summary.CoverageRatio*100)
	}

	s.printf("Baseline: %s (final %s), trials capped at %.1fx\n",
		summary.Baseline, summary.FinalBaseline, summary.TimeoutFactor)
	s.printf("Detection score: %.2f%% in %s\n",
		summary.Counts.DetectionScore()*100, summary.Elapsed)

	return s.displaySurvivors(summary)
}

func renderSummaryTable(summary m.ResultsSummary) string {
	var tableBuffer bytes.Buffer

	table := tablewriter.NewWriter(&tableBuffer)
	table.SetHeader([]string{"Status", "Count"})
	table.SetBorder(false)
	table.SetCenterSeparator("")
	table.SetColumnAlignment([]int{tablewriter.ALIGN_LEFT, tablewriter.ALIGN_CENTER})

	rows := []struct {
		status m.Status
		count  int
	}{
		{m.StatusDetected, summary.Counts.Detected},
		{m.StatusSurvived, summary.Counts.Survived},
		{m.StatusTimeout, summary.Counts.Timeouts},
		{m.StatusError, summary.Counts.Errors},
		{m.StatusUnknown, summary.Counts.Unknown},
	}

	for _, row := range rows {
		table.Append([]string{string(row.status), fmt.Sprintf("%d", row.count)})
	}

	table.SetFooter([]string{"Total", fmt.Sprintf("%d", summary.Counts.Total())})
	table.Render()

	return tableBuffer.String()
}

func (s *SimpleUI) displaySurvivors(summary m.ResultsSummary) error {
	if summary.Counts.Survived == 0 {
		return nil
	}

	s.printf("\nSurviving mutants:\n")

	for _, result := range summary.Results {
		if result.Status != m.StatusSurvived {
			continue
		}

		s.printf("  %s:%d:%d %s -> %s\n",
			result.SourcePath, result.Target.Line, result.Target.Col,
			result.Target.OpType, result.Mutation)

		if !s.showDiffs || s.differ == nil {
			continue
		}

		diff, err := s.differ.UnifiedDiff(result)
		if err != nil {
			s.printf("    (diff unavailable: %v)\n", err)
			continue
		}

		s.printf("%s\n", diff)
	}

	return nil
}

func (s *SimpleUI) printf(format string, args ...interface{}) {
	_, _ = fmt.Fprintf(s.cmd.OutOrStdout(), format, args...)
}
