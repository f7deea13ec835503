package controller

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/charmbracelet/bubbles/progress"
	tea "github.com/charmbracelet/bubbletea"
	"golang.org/x/term"

	m "github.com/EvanKepner/mutatest/internal/model"
)

// Message types.
type trialMsg struct {
	completed int
	total     int
	result    m.TrialResult
}

type summaryMsg struct {
	summary m.ResultsSummary
}

// TUI implements UI using Bubble Tea for interactive display.
type TUI struct {
	output  io.Writer
	program *tea.Program
	done    chan struct{}
	runErr  error
}

// NewTUI creates a new TUI.
func NewTUI(output io.Writer) *TUI {
	return &TUI{output: output, done: make(chan struct{})}
}

// Start launches the campaign view in the background. Trial results arrive
// through DisplayTrialResult while the program runs.
func (p *TUI) Start(ctx context.Context, _ ...StartOption) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	model := newCampaignModel()

	// Get initial terminal size
	if f, ok := p.output.(*os.File); ok {
		width, height, err := term.GetSize(int(f.Fd()))
		if err == nil {
			model.height = height
			model.width = width
		}
	}

	p.program = tea.NewProgram(model, tea.WithOutput(p.output), tea.WithAltScreen())

	go func() {
		defer close(p.done)

		if _, err := p.program.Run(); err != nil {
			p.runErr = err
		}
	}()

	return nil
}

// Close asks the program to quit.
func (p *TUI) Close(ctx context.Context) {
	if p.program == nil {
		return
	}

	if err := ctx.Err(); err != nil {
		p.program.Kill()
		return
	}

	p.program.Quit()
}

// Wait blocks until the user closes the view.
func (p *TUI) Wait(ctx context.Context) {
	if p.program == nil {
		return
	}

	select {
	case <-p.done:
	case <-ctx.Done():
		p.program.Kill()
		<-p.done
	}
}

// DisplayCampaignInfo is a no-op: the campaign header is part of the view.
func (p *TUI) DisplayCampaignInfo(_ context.Context, _ []m.Path, _ int, _ string) {}

// DisplayTrialResult feeds one completed trial into the running view.
func (p *TUI) DisplayTrialResult(ctx context.Context, completed, total int, result m.TrialResult) {
	if p.program == nil || ctx.Err() != nil {
		return
	}

	p.program.Send(trialMsg{completed: completed, total: total, result: result})
}

// DisplaySummary switches the view to the final report. The program keeps
// running until the user quits or Close is called.
func (p *TUI) DisplaySummary(ctx context.Context, summary m.ResultsSummary) error {
	if p.program == nil {
		return nil
	}

	if err := ctx.Err(); err != nil {
		return err
	}

	p.program.Send(summaryMsg{summary: summary})

	return p.runErr
}

// campaignModel represents the Bubble Tea model for a running campaign.
type campaignModel struct {
	bar       progress.Model
	completed int
	total     int
	counts    m.StatusCounts
	results   []m.TrialResult
	summary   *m.ResultsSummary
	height    int
	width     int
	offset    int // Current scroll offset
	quitting  bool
}

func newCampaignModel() campaignModel {
	return campaignModel{
		bar: progress.New(
			progress.WithDefaultGradient(),
			progress.WithWidth(50),
		),
	}
}

func (cm campaignModel) Init() tea.Cmd {
	return nil
}

func (cm campaignModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		cm.height = msg.Height
		cm.width = msg.Width

		cm.bar.Width = msg.Width - 8
		if cm.bar.Width < 20 {
			cm.bar.Width = 20
		}

		return cm, nil

	case trialMsg:
		cm.completed = msg.completed
		cm.total = msg.total
		cm.counts.Add(msg.result.Status)
		cm.results = append(cm.results, msg.result)

		return cm, nil

	case summaryMsg:
		cm.summary = &msg.summary
		cm.counts = msg.summary.Counts
		cm.results = msg.summary.Results
		cm.offset = 0

		return cm, nil

	case tea.KeyMsg:
		return cm.handleKeyPress(msg)
	}

	return cm, nil
}

func (cm campaignModel) handleKeyPress(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	//nolint:exhaustive // We only handle specific navigation keys
	switch msg.Type {
	case tea.KeyCtrlC, tea.KeyEsc:
		cm.quitting = true
		return cm, tea.Quit
	default:
		// Handle other key types in the string switch below
	}

	switch msg.String() {
	case "q":
		cm.quitting = true
		return cm, tea.Quit

	case "down", "j":
		cm.offset = clampOffset(cm.offset+1, cm.maxOffset())
		return cm, nil

	case "up", "k":
		cm.offset = clampOffset(cm.offset-1, cm.maxOffset())
		return cm, nil

	case "g", "home":
		cm.offset = 0
		return cm, nil

	case "G", "end":
		cm.offset = cm.maxOffset()
		return cm, nil

	case "d", "pgdown":
		cm.offset = clampOffset(cm.offset+cm.itemsPerPage(), cm.maxOffset())
		return cm, nil

	case "u", "pgup":
		cm.offset = clampOffset(cm.offset-cm.itemsPerPage(), cm.maxOffset())
		return cm, nil
	}

	return cm, nil
}

func clampOffset(offset, maxOffset int) int {
	if offset < 0 {
		return 0
	}

	if offset > maxOffset {
		return maxOffset
	}

	return offset
}

// itemsPerPage calculates how many result lines fit on screen.
func (cm campaignModel) itemsPerPage() int {
	if cm.height == 0 {
		return 10 // Default
	}
	// Reserve space for:
	// - Header: 4 lines (box + empty)
	// - Progress bar + counts: 3 lines
	// - Summary block: 3 lines
	// - Footer: 2 lines (page + help)
	// Total: 12 lines
	reserved := 12

	available := cm.height - reserved
	if available < 1 {
		return 1
	}

	return available
}

// maxOffset returns the maximum scroll offset.
func (cm campaignModel) maxOffset() int {
	maxOff := len(cm.results) - cm.itemsPerPage()
	if maxOff < 0 {
		return 0
	}

	return maxOff
}

func (cm campaignModel) finished() bool {
	return cm.summary != nil
}

func (cm campaignModel) View() string {
	var b strings.Builder

	cm.renderHeader(&b)

	if cm.finished() {
		cm.renderSummary(&b)
	} else {
		cm.renderProgress(&b)
	}

	cm.renderResults(&b)
	cm.renderFooter(&b)

	return b.String()
}

func (cm campaignModel) renderHeader(b *strings.Builder) {
	b.WriteString("╔════════════════════════════════════════════════════════════════╗\n")
	b.WriteString("║                  Mutatest - Mutation Trials                    ║\n")
	b.WriteString("╚════════════════════════════════════════════════════════════════╝\n\n")
}

func (cm campaignModel) renderProgress(b *strings.Builder) {
	percent := 0.0
	if cm.total > 0 {
		percent = float64(cm.completed) / float64(cm.total)
	}

	fmt.Fprintf(b, "  %s\n", cm.bar.ViewAs(percent))
	fmt.Fprintf(b, "  Trials: %d/%d  %s\n\n", cm.completed, cm.total, cm.countsLine())
}

func (cm campaignModel) renderSummary(b *strings.Builder) {
	seed := int64(0)
	if cm.summary.Seed != nil {
		seed = *cm.summary.Seed
	}

	fmt.Fprintf(b, "  %s\n", cm.countsLine())
	fmt.Fprintf(b, "  Detection score: %.2f%% | Sample %d of %d (seed %d) | %s\n\n",
		cm.counts.DetectionScore()*100,
		cm.summary.SampleSize, cm.summary.PoolSize, seed, cm.summary.Elapsed)
}

func (cm campaignModel) countsLine() string {
	return fmt.Sprintf("%s %d  %s %d  %s %d  %s %d",
		styleStatus(m.StatusDetected), cm.counts.Detected,
		styleStatus(m.StatusSurvived), cm.counts.Survived,
		styleStatus(m.StatusTimeout), cm.counts.Timeouts,
		styleStatus(m.StatusError), cm.counts.Errors)
}

func (cm campaignModel) renderResults(b *strings.Builder) {
	if len(cm.results) == 0 {
		b.WriteString("  Waiting for the first trial...\n")
		return
	}

	perPage := cm.itemsPerPage()

	start := cm.offset
	if !cm.finished() {
		// Follow the newest results while trials are running
		start = len(cm.results) - perPage
		if start < 0 {
			start = 0
		}
	}

	end := start + perPage
	if end > len(cm.results) {
		end = len(cm.results)
	}

	for _, result := range cm.results[start:end] {
		fmt.Fprintf(b, "  %s %s:%d:%d %s -> %s\n",
			styleStatus(result.Status),
			result.SourcePath, result.Target.Line, result.Target.Col,
			result.Target.OpType, result.Mutation)
	}
}

func (cm campaignModel) renderFooter(b *strings.Builder) {
	if !cm.finished() {
		return
	}

	b.WriteString("\n")

	if len(cm.results) > cm.itemsPerPage() {
		fmt.Fprintf(b, "  Showing %d-%d of %d\n",
			cm.offset+1, min(cm.offset+cm.itemsPerPage(), len(cm.results)), len(cm.results))
	}

	b.WriteString("  ↑/k: up | ↓/j: down | g: top | G: bottom | q: quit\n")
}
