package domain

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/EvanKepner/mutatest/internal/adapter"
	m "github.com/EvanKepner/mutatest/internal/model"
)

func newTestGroup() *GenomeGroup {
	return NewGenomeGroup(adapter.NewLocalGoFileAdapter(), adapter.NewLocalSourceFSAdapter())
}

func writeTree(t *testing.T, files map[string]string) string {
	t.Helper()

	root := t.TempDir()

	for name, src := range files {
		path := filepath.Join(root, name)

		if err := os.MkdirAll(filepath.Dir(path), 0o750); err != nil {
			t.Fatal(err)
		}

		if err := os.WriteFile(path, []byte(src), 0o600); err != nil {
			t.Fatal(err)
		}
	}

	return root
}

func TestGenomeGroupAddFile(t *testing.T) {
	t.Run("re-adding the same file does not duplicate it", func(t *testing.T) {
		root := writeTree(t, map[string]string{"calc.go": arithmeticSrc})
		group := newTestGroup()

		path := m.Path(filepath.Join(root, "calc.go"))

		if err := group.AddFile(path); err != nil {
			t.Fatal(err)
		}

		if err := group.AddFile(path); err != nil {
			t.Fatal(err)
		}

		if group.Len() != 1 {
			t.Errorf("expected 1 genome, got %d", group.Len())
		}
	})

	t.Run("rejects non-Go files", func(t *testing.T) {
		root := writeTree(t, map[string]string{"notes.txt": "not go"})
		group := newTestGroup()

		if err := group.AddFile(m.Path(filepath.Join(root, "notes.txt"))); err == nil {
			t.Error("expected an error adding a non-Go file")
		}
	})

	t.Run("rejects directories", func(t *testing.T) {
		root := writeTree(t, map[string]string{"calc.go": arithmeticSrc})
		group := newTestGroup()

		if err := group.AddFile(m.Path(root)); err == nil {
			t.Error("expected an error adding a directory as a file")
		}
	})
}

func TestGenomeGroupAddFolder(t *testing.T) {
	files := map[string]string{
		"calc.go":            arithmeticSrc,
		"calc_test.go":       arithmeticSrc,
		"sub/check.go":       comparisonSrc,
		"sub/check_test.go":  comparisonSrc,
		"generated/skip.go":  arithmeticSrc,
		".hidden/ignored.go": arithmeticSrc,
	}

	t.Run("collects Go sources recursively, skipping test files", func(t *testing.T) {
		root := writeTree(t, files)
		group := newTestGroup()

		if err := group.AddFolder(m.Path(root), nil); err != nil {
			t.Fatal(err)
		}

		if group.Len() != 3 {
			t.Fatalf("expected 3 genomes, got %d: %v", group.Len(), group.Paths())
		}

		for _, path := range group.Paths() {
			if filepath.Base(string(path)) == "ignored.go" {
				t.Error("hidden directory was not skipped")
			}
		}
	})

	t.Run("exclude patterns remove matching files and directories", func(t *testing.T) {
		root := writeTree(t, files)
		group := newTestGroup()

		if err := group.AddFolder(m.Path(root), []string{"generated"}); err != nil {
			t.Fatal(err)
		}

		if group.Len() != 2 {
			t.Fatalf("expected 2 genomes, got %d: %v", group.Len(), group.Paths())
		}
	})
}

func TestGenomeGroupTargets(t *testing.T) {
	t.Run("tags every target with its owning path", func(t *testing.T) {
		root := writeTree(t, map[string]string{
			"calc.go":  arithmeticSrc,
			"check.go": comparisonSrc,
		})

		group := newTestGroup()
		if err := group.AddFolder(m.Path(root), nil); err != nil {
			t.Fatal(err)
		}

		targets, err := group.Targets()
		if err != nil {
			t.Fatal(err)
		}

		if len(targets) != 2 {
			t.Fatalf("expected 2 group targets, got %d", len(targets))
		}

		byPath := make(map[m.Path]m.NodeKind)
		for _, gt := range targets {
			byPath[gt.SourcePath] = gt.Target.Kind
		}

		for path, kind := range byPath {
			base := filepath.Base(string(path))

			switch base {
			case "calc.go":
				if kind != m.KindBinaryOp {
					t.Errorf("calc.go: expected a binary target, got %s", kind)
				}
			case "check.go":
				if kind != m.KindComparison {
					t.Errorf("check.go: expected a comparison target, got %s", kind)
				}
			default:
				t.Errorf("unexpected path %s in group targets", path)
			}
		}
	})

	t.Run("filter codes apply across the whole group", func(t *testing.T) {
		root := writeTree(t, map[string]string{
			"calc.go":  arithmeticSrc,
			"check.go": comparisonSrc,
		})

		group := newTestGroup()
		if err := group.AddFolder(m.Path(root), nil); err != nil {
			t.Fatal(err)
		}

		if err := group.SetFilterCodes([]string{"bn"}); err != nil {
			t.Fatal(err)
		}

		targets, err := group.Targets()
		if err != nil {
			t.Fatal(err)
		}

		if len(targets) != 1 || targets[0].Target.Kind != m.KindBinaryOp {
			t.Errorf("expected only the binary target, got %v", targets)
		}
	})
}
