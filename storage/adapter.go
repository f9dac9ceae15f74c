package storage

import (
	"os"
	"sync"

	"github.com/teranos/coredata/errors"
)

// Adapter reads a raw file into a RawTable and writes a RawTable back.
//
// Read is cached per adapter: once populated, the in-memory copy is returned
// without re-parsing until Write replaces it or Invalidate drops it.
type Adapter interface {
	// Path is the backing location, empty for memory adapters.
	Path() string
	// Extensions lists the extensions this adapter handles.
	Extensions() []string
	Read() (RawTable, error)
	// Write persists data, renumbering rows densely. It returns once the
	// content is durable.
	Write(data RawTable) error
	// Invalidate drops the in-memory copy so the next Read re-parses.
	Invalidate()
}

// fileAdapter is the shared implementation for single-file formats.
type fileAdapter struct {
	path       string
	extensions []string
	codec      Codec

	mu     sync.Mutex
	memory RawTable
}

func newFileAdapter(path string, extensions []string, codec Codec) *fileAdapter {
	return &fileAdapter{
		path:       path,
		extensions: extensions,
		codec:      codec,
	}
}

func (a *fileAdapter) Path() string { return a.path }

func (a *fileAdapter) Extensions() []string {
	return append([]string(nil), a.extensions...)
}

// Read returns the cached table or parses the file. A missing file reads as
// an empty table so adapters created for a new file can be written to.
func (a *fileAdapter) Read() (RawTable, error) {
	a.mu.Lock()
	defer a.mu.Unlock()

	if a.memory != nil {
		return a.memory, nil
	}

	content, err := os.ReadFile(a.path)
	if err != nil {
		if os.IsNotExist(err) {
			a.memory = RawTable{}
			return a.memory, nil
		}
		return nil, errors.Wrapf(err, "failed to read %s", a.path)
	}

	table, err := a.codec.decode(content)
	if err != nil {
		return nil, errors.WithDetailf(err, "path: %s", a.path)
	}
	a.memory = table
	return a.memory, nil
}

func (a *fileAdapter) Write(data RawTable) (err error) {
	normalized := data.Normalize()

	content, err := a.codec.Marshal(normalized.Native())
	if err != nil {
		return errors.Wrapf(err, "failed to encode %s as %s", a.path, a.codec.Name)
	}

	a.mu.Lock()
	defer a.mu.Unlock()
	a.memory = nil

	f, err := os.OpenFile(a.path, os.O_RDWR|os.O_CREATE, 0o644)
	if err != nil {
		return errors.Wrapf(err, "failed to open %s for writing", a.path)
	}
	defer func() {
		if closeErr := f.Close(); closeErr != nil && err == nil {
			err = errors.Wrapf(closeErr, "failed to close %s", a.path)
		}
	}()

	if _, err := f.WriteAt(content, 0); err != nil {
		return errors.Wrapf(err, "failed to write %s", a.path)
	}
	// Drop stale bytes left by a previous, longer write
	if err := f.Truncate(int64(len(content))); err != nil {
		return errors.Wrapf(err, "failed to truncate %s", a.path)
	}
	if err := f.Sync(); err != nil {
		return errors.Wrapf(err, "failed to sync %s", a.path)
	}

	a.memory = normalized
	return nil
}

func (a *fileAdapter) Invalidate() {
	a.mu.Lock()
	a.memory = nil
	a.mu.Unlock()
}
