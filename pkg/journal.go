// Package pkg provides reusable utilities for the mutatest engine.
package pkg

import (
	"encoding/gob"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sync"
)

// Journal is an append-only on-disk log of items of type T. Long campaigns
// write each trial result here as it completes, so an interrupted run still
// leaves a readable record.
type Journal[T any] interface {
	Len() uint64
	Path() string
	Append(item T) error
	Replay(fn func(index uint64, item T) error) error
	Close() error
}

type gobJournal[T any] struct {
	path    string
	file    *os.File
	encoder *gob.Encoder
	mu      sync.Mutex
	length  uint64
}

// NewJournal opens (truncating) a gob-encoded journal at path.
func NewJournal[T any](path string) (Journal[T], error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o750); err != nil {
		return nil, fmt.Errorf("creating journal directory: %w", err)
	}

	file, err := os.Create(path)
	if err != nil {
		return nil, fmt.Errorf("creating journal file: %w", err)
	}

	slog.Debug("opened journal", "path", path)

	return &gobJournal[T]{
		path:    path,
		file:    file,
		encoder: gob.NewEncoder(file),
	}, nil
}

// Append encodes one item at the end of the journal.
func (j *gobJournal[T]) Append(item T) error {
	j.mu.Lock()
	defer j.mu.Unlock()

	if err := j.encoder.Encode(item); err != nil {
		slog.Error("failed to encode journal item", "path", j.path, "index", j.length, "error", err)
		return fmt.Errorf("encoding journal item: %w", err)
	}

	j.length++

	return nil
}

// Len returns the number of appended items.
func (j *gobJournal[T]) Len() uint64 {
	j.mu.Lock()
	defer j.mu.Unlock()

	return j.length
}

// Path returns the journal file location.
func (j *gobJournal[T]) Path() string {
	return j.path
}

// Replay decodes the journal from the start, invoking fn per item.
func (j *gobJournal[T]) Replay(fn func(index uint64, item T) error) error {
	j.mu.Lock()
	defer j.mu.Unlock()

	file, err := os.Open(j.path)
	if err != nil {
		return fmt.Errorf("opening journal for replay: %w", err)
	}

	defer func() {
		if err := file.Close(); err != nil {
			slog.Error("failed to close journal", "path", j.path, "error", err)
		}
	}()

	decoder := gob.NewDecoder(file)

	var item T

	for i := range j.length {
		if err := decoder.Decode(&item); err != nil {
			return fmt.Errorf("decoding journal item %d: %w", i, err)
		}

		if err := fn(i, item); err != nil {
			return err
		}
	}

	return nil
}

// Close flushes and closes the journal file.
func (j *gobJournal[T]) Close() error {
	j.mu.Lock()
	defer j.mu.Unlock()

	if j.file == nil {
		return nil
	}

	if err := j.file.Close(); err != nil {
		slog.Error("failed to close journal", "path", j.path, "error", err)
		return err
	}

	j.file = nil

	return nil
}
