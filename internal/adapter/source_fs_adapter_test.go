package adapter

import (
	"os"
	"path/filepath"
	"testing"

	m "github.com/EvanKepner/mutatest/internal/model"
)

func TestLocalSourceFSAdapter(t *testing.T) {
	fs := NewLocalSourceFSAdapter()

	t.Run("source stats capture identity metadata", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "a.go")
		if err := os.WriteFile(path, []byte("package a\n"), 0o600); err != nil {
			t.Fatal(err)
		}

		stats, err := fs.SourceStats(m.Path(path))
		if err != nil {
			t.Fatal(err)
		}

		if stats.Size != int64(len("package a\n")) {
			t.Errorf("expected size %d, got %d", len("package a\n"), stats.Size)
		}

		if stats.Hash == "" {
			t.Error("expected a content hash")
		}

		again, err := fs.SourceStats(m.Path(path))
		if err != nil {
			t.Fatal(err)
		}

		if again != stats {
			t.Error("stats of an unchanged file must be stable")
		}

		if err := os.WriteFile(path, []byte("package b\n"), 0o600); err != nil {
			t.Fatal(err)
		}

		changed, err := fs.SourceStats(m.Path(path))
		if err != nil {
			t.Fatal(err)
		}

		if changed.Hash == stats.Hash {
			t.Error("expected the hash to change with the content")
		}
	})

	t.Run("identifies test files", func(t *testing.T) {
		tests := []struct {
			path     string
			expected bool
		}{
			{"calc.go", false},
			{"calc_test.go", true},
			{"dir/deep_test.go", true},
			{"testdata/calc.go", false},
		}

		for _, tt := range tests {
			if got := fs.IsTestFile(m.Path(tt.path)); got != tt.expected {
				t.Errorf("IsTestFile(%s) = %v, expected %v", tt.path, got, tt.expected)
			}
		}
	})

	t.Run("finds the project root from a nested file", func(t *testing.T) {
		root := t.TempDir()

		if err := os.WriteFile(filepath.Join(root, "go.mod"), []byte("module x\n"), 0o600); err != nil {
			t.Fatal(err)
		}

		nested := filepath.Join(root, "a", "b")
		if err := os.MkdirAll(nested, 0o750); err != nil {
			t.Fatal(err)
		}

		source := filepath.Join(nested, "c.go")
		if err := os.WriteFile(source, []byte("package b\n"), 0o600); err != nil {
			t.Fatal(err)
		}

		got, err := fs.FindProjectRoot(m.Path(source))
		if err != nil {
			t.Fatal(err)
		}

		if string(got) != root {
			t.Errorf("expected root %s, got %s", root, got)
		}

		fromDir, err := fs.FindProjectRoot(m.Path(nested))
		if err != nil {
			t.Fatal(err)
		}

		if string(fromDir) != root {
			t.Errorf("expected root %s from directory, got %s", root, fromDir)
		}
	})

	t.Run("copy dir skips VCS and mirror trees", func(t *testing.T) {
		src := t.TempDir()
		dst := filepath.Join(t.TempDir(), "copy")

		for _, dir := range []string{".git", "vendor", cacheDirName, "pkg"} {
			if err := os.MkdirAll(filepath.Join(src, dir), 0o750); err != nil {
				t.Fatal(err)
			}

			if err := os.WriteFile(filepath.Join(src, dir, "f.go"), []byte("package f\n"), 0o600); err != nil {
				t.Fatal(err)
			}
		}

		if err := fs.CopyDir(m.Path(src), m.Path(dst)); err != nil {
			t.Fatal(err)
		}

		if _, err := os.Stat(filepath.Join(dst, "pkg", "f.go")); err != nil {
			t.Errorf("regular tree not copied: %v", err)
		}

		for _, dir := range []string{".git", "vendor", cacheDirName} {
			if _, err := os.Stat(filepath.Join(dst, dir)); !os.IsNotExist(err) {
				t.Errorf("%s should not have been copied", dir)
			}
		}
	})

	t.Run("walk without recursion stays in the root directory", func(t *testing.T) {
		root := t.TempDir()

		if err := os.WriteFile(filepath.Join(root, "top.go"), []byte("package t\n"), 0o600); err != nil {
			t.Fatal(err)
		}

		if err := os.MkdirAll(filepath.Join(root, "sub"), 0o750); err != nil {
			t.Fatal(err)
		}

		if err := os.WriteFile(filepath.Join(root, "sub", "deep.go"), []byte("package s\n"), 0o600); err != nil {
			t.Fatal(err)
		}

		var seen []string

		err := fs.Walk(m.Path(root), false, func(path string, info os.FileInfo, err error) error {
			if err == nil && !info.IsDir() {
				seen = append(seen, filepath.Base(path))
			}

			return err
		})
		if err != nil {
			t.Fatal(err)
		}

		if len(seen) != 1 || seen[0] != "top.go" {
			t.Errorf("expected only top.go, got %v", seen)
		}
	})
}
