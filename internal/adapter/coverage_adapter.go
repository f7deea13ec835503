package adapter

import (
	"bufio"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	m "github.com/EvanKepner/mutatest/internal/model"
)

// CoverageAdapter exposes line-level coverage data parsed from a Go cover
// profile (the `go test -coverprofile` output format).
type CoverageAdapter interface {
	// Load parses the profile at path. A missing file is not an error here;
	// Loaded reports whether any data is available.
	Load(path m.Path) error

	// Loaded reports whether a profile has been parsed.
	Loaded() bool

	// CoveredLines returns the set of executed lines for the source file. The
	// second return is false when the profile has no block for that file.
	CoveredLines(source m.Path) (map[int]struct{}, bool)
}

// CoverProfileAdapter parses the textual cover profile format: one block per
// line, `name.go:startLine.startCol,endLine.endCol numStmts hitCount`. File
// names in the profile are module-path qualified, so lookups match by path
// suffix.
type CoverProfileAdapter struct {
	loaded bool
	lines  map[string]map[int]struct{}
}

// NewCoverProfileAdapter constructs an empty CoverProfileAdapter.
func NewCoverProfileAdapter() *CoverProfileAdapter {
	return &CoverProfileAdapter{
		lines: make(map[string]map[int]struct{}),
	}
}

// Load parses the cover profile at path.
func (a *CoverProfileAdapter) Load(path m.Path) error {
	f, err := os.Open(string(path))
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}

		return err
	}

	defer func() { _ = f.Close() }()

	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())

		if line == "" || strings.HasPrefix(line, "mode:") {
			continue
		}

		if err := a.parseBlock(line); err != nil {
			return fmt.Errorf("malformed cover profile line %q: %w", line, err)
		}
	}

	if err := scanner.Err(); err != nil {
		return err
	}

	a.loaded = true

	return nil
}

// Loaded reports whether a profile has been parsed.
func (a *CoverProfileAdapter) Loaded() bool {
	return a.loaded
}

// CoveredLines returns the executed lines recorded for source.
func (a *CoverProfileAdapter) CoveredLines(source m.Path) (map[int]struct{}, bool) {
	normalized := filepath.ToSlash(string(source))

	for name, covered := range a.lines {
		if name == normalized || strings.HasSuffix(normalized, "/"+name) || strings.HasSuffix(name, "/"+normalized) {
			return covered, true
		}
	}

	// Fall back to matching the last two path segments: profile names carry
	// the module path while campaign paths are filesystem paths, so the
	// directory name plus basename is the shortest unambiguous overlap.
	tail := pathTail(normalized, 2)
	for name, covered := range a.lines {
		if pathTail(name, 2) == tail {
			return covered, true
		}
	}

	return nil, false
}

// pathTail returns the last n slash-separated segments of path.
func pathTail(path string, n int) string {
	segments := strings.Split(path, "/")
	if len(segments) > n {
		segments = segments[len(segments)-n:]
	}

	return strings.Join(segments, "/")
}

func (a *CoverProfileAdapter) parseBlock(line string) error {
	colon := strings.LastIndex(line, ":")
	if colon < 0 {
		return fmt.Errorf("missing file separator")
	}

	name := filepath.ToSlash(line[:colon])
	rest := strings.Fields(line[colon+1:])

	if len(rest) != 3 {
		return fmt.Errorf("expected 3 block fields, got %d", len(rest))
	}

	hits, err := strconv.Atoi(rest[2])
	if err != nil {
		return fmt.Errorf("bad hit count: %w", err)
	}

	if hits == 0 {
		// Uncovered blocks contribute nothing; the absence of a line from
		// the covered set is what the filter keys on.
		return nil
	}

	startLine, endLine, err := parseBlockRange(rest[0])
	if err != nil {
		return err
	}

	covered, ok := a.lines[name]
	if !ok {
		covered = make(map[int]struct{})
		a.lines[name] = covered
	}

	for l := startLine; l <= endLine; l++ {
		covered[l] = struct{}{}
	}

	return nil
}

// parseBlockRange extracts the line span from `startLine.startCol,endLine.endCol`.
func parseBlockRange(spec string) (int, int, error) {
	bounds := strings.Split(spec, ",")
	if len(bounds) != 2 {
		return 0, 0, fmt.Errorf("bad block range %q", spec)
	}

	start, err := strconv.Atoi(strings.SplitN(bounds[0], ".", 2)[0])
	if err != nil {
		return 0, 0, fmt.Errorf("bad block start: %w", err)
	}

	end, err := strconv.Atoi(strings.SplitN(bounds[1], ".", 2)[0])
	if err != nil {
		return 0, 0, fmt.Errorf("bad block end: %w", err)
	}

	return start, end, nil
}
