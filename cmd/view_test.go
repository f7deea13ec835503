package cmd

import (
	"bytes"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/EvanKepner/mutatest/internal/controller"
	m "github.com/EvanKepner/mutatest/internal/model"
)

// swapUI points the shared report consumer at a buffer-backed console.
func swapUI(t *testing.T) *bytes.Buffer {
	t.Helper()

	out := &bytes.Buffer{}

	console := newTestRoot()
	console.SetOut(out)

	original := ui
	ui = controller.NewSimpleUI(console, differ)

	t.Cleanup(func() { ui = original })

	return out
}

func TestViewCmd_RendersASavedSummary(t *testing.T) {
	out := swapUI(t)
	path := writeSummaryFixture(t, "summary.yaml", m.StatusDetected, m.StatusDetected, m.StatusSurvived)

	cmd := newTestRoot(newViewCmd())
	cmd.SetArgs([]string{"view", path})

	require.NoError(t, cmd.Execute())

	output := out.String()
	assert.Contains(t, output, "DETECTED")
	assert.Contains(t, output, "66.67%")
	assert.Contains(t, output, "Surviving mutants:")
}

func TestViewCmd_MissingSummaryFails(t *testing.T) {
	swapUI(t)

	cmd := newTestRoot(newViewCmd())
	cmd.SetArgs([]string{"view", filepath.Join(t.TempDir(), "absent.yaml")})

	assert.Error(t, cmd.Execute())
}
