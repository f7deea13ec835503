package adapter

import (
	"fmt"
	"os"
	"sync"

	m "github.com/EvanKepner/mutatest/internal/model"
)

// cacheDirName holds every trial mirror for a project. It lives inside the
// project root so relative test commands keep working, and is skipped when
// mirroring so a stale mirror never nests inside a fresh one.
const cacheDirName = ".mutatest-cache"

// ArtifactCache is a transient mirror of the project tree. Test commands run
// inside the mirror, so installing a mutated file there makes the next test
// invocation load the mutant while the durable source never changes. Distinct
// caches own disjoint mirrors, which is what makes parallel campaigns safe.
type ArtifactCache interface {
	// Root is the mirror directory; trial commands execute with this as
	// their working directory.
	Root() m.Path

	// Install writes mutated content over the mirrored copy of source. The
	// stats captured at mutation time must still describe the durable file,
	// otherwise the mutant was built from a stale tree and is rejected.
	Install(source m.Path, content []byte, stats m.SourceStats) error

	// Evict restores the pristine mirrored bytes for source. Evicting a path
	// that has nothing installed is a no-op, so eviction is safe to repeat
	// on every exit path of a trial.
	Evict(source m.Path) error

	// Close removes the mirror from disk.
	Close() error
}

// MirrorArtifactCache implements ArtifactCache with a filesystem copy under
// <project>/.mutatest-cache/.
type MirrorArtifactCache struct {
	fs          SourceFSAdapter
	projectRoot m.Path
	mirror      m.Path

	mu       sync.Mutex
	pristine map[m.Path][]byte
}

// NewMirrorArtifactCache copies the project tree at projectRoot into a fresh
// mirror slot and returns a cache bound to it.
func NewMirrorArtifactCache(fs SourceFSAdapter, projectRoot m.Path) (*MirrorArtifactCache, error) {
	base := fs.JoinPath(string(projectRoot), cacheDirName)

	mirror, err := fs.CreateTempDir(base, "mirror-")
	if err != nil {
		return nil, fmt.Errorf("creating mirror slot: %w", err)
	}

	if err := fs.CopyDir(projectRoot, mirror); err != nil {
		_ = fs.RemoveAll(mirror)
		return nil, fmt.Errorf("mirroring project tree: %w", err)
	}

	return &MirrorArtifactCache{
		fs:          fs,
		projectRoot: projectRoot,
		mirror:      mirror,
		pristine:    make(map[m.Path][]byte),
	}, nil
}

// Root returns the mirror directory.
func (c *MirrorArtifactCache) Root() m.Path {
	return c.mirror
}

// Install writes mutated content over the mirrored copy of source.
func (c *MirrorArtifactCache) Install(source m.Path, content []byte, stats m.SourceStats) error {
	current, err := c.fs.SourceStats(source)
	if err != nil {
		return fmt.Errorf("checking source identity: %w", err)
	}

	if current != stats {
		return fmt.Errorf("source %s changed since the mutant was built", source)
	}

	target, err := c.mirrorPath(source)
	if err != nil {
		return err
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	if _, ok := c.pristine[source]; !ok {
		original, err := c.fs.ReadFile(target)
		if err != nil {
			return fmt.Errorf("reading pristine mirror copy: %w", err)
		}

		c.pristine[source] = original
	}

	if err := c.fs.WriteFile(target, content, 0o600); err != nil {
		return fmt.Errorf("installing mutant: %w", err)
	}

	return nil
}

// Evict restores the pristine mirrored bytes for source.
func (c *MirrorArtifactCache) Evict(source m.Path) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	original, ok := c.pristine[source]
	if !ok {
		return nil
	}

	target, err := c.mirrorPath(source)
	if err != nil {
		return err
	}

	if err := c.fs.WriteFile(target, original, 0o600); err != nil {
		return fmt.Errorf("restoring pristine copy: %w", err)
	}

	delete(c.pristine, source)

	return nil
}

// Close removes the mirror from disk.
func (c *MirrorArtifactCache) Close() error {
	return c.fs.RemoveAll(c.mirror)
}

func (c *MirrorArtifactCache) mirrorPath(source m.Path) (m.Path, error) {
	rel, err := c.fs.RelPath(c.projectRoot, source)
	if err != nil {
		return "", fmt.Errorf("source %s is outside the project root: %w", source, err)
	}

	return c.fs.JoinPath(string(c.mirror), string(rel)), nil
}

// RemoveStaleMirrors deletes leftover mirror slots from interrupted runs. A
// stale mirror carries no recoverable state; rebuilding is always correct.
func RemoveStaleMirrors(fs SourceFSAdapter, projectRoot m.Path) error {
	base := fs.JoinPath(string(projectRoot), cacheDirName)

	if _, err := fs.FileInfo(base); err != nil {
		if os.IsNotExist(err) {
			return nil
		}

		return err
	}

	return fs.RemoveAll(base)
}
