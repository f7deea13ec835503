package adapter

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	m "github.com/EvanKepner/mutatest/internal/model"
)

// ReportStore persists campaign summaries so results survive the process and
// can be diffed between runs.
type ReportStore interface {
	SaveSummary(path m.Path, summary m.ResultsSummary) error
	LoadSummary(path m.Path) (m.ResultsSummary, error)
}

// YAMLReportStore stores summaries as YAML documents on disk.
type YAMLReportStore struct{}

// NewYAMLReportStore constructs a YAMLReportStore.
func NewYAMLReportStore() *YAMLReportStore {
	return &YAMLReportStore{}
}

// SaveSummary writes the summary to path, creating parent directories.
func (s *YAMLReportStore) SaveSummary(path m.Path, summary m.ResultsSummary) error {
	data, err := yaml.Marshal(summary)
	if err != nil {
		return fmt.Errorf("encoding summary: %w", err)
	}

	if err := os.MkdirAll(filepath.Dir(string(path)), 0o750); err != nil {
		return fmt.Errorf("creating report directory: %w", err)
	}

	if err := os.WriteFile(string(path), data, 0o600); err != nil {
		return fmt.Errorf("writing summary: %w", err)
	}

	return nil
}

// LoadSummary reads a previously saved summary from path.
func (s *YAMLReportStore) LoadSummary(path m.Path) (m.ResultsSummary, error) {
	data, err := os.ReadFile(string(path))
	if err != nil {
		return m.ResultsSummary{}, fmt.Errorf("reading summary: %w", err)
	}

	var summary m.ResultsSummary
	if err := yaml.Unmarshal(data, &summary); err != nil {
		return m.ResultsSummary{}, fmt.Errorf("decoding summary: %w", err)
	}

	return summary, nil
}
