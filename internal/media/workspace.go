package media

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"sync"

	"github.com/google/uuid"
)

// Workspace is a request-scoped temp directory. Everything a request writes
// lives under it, and Close removes the whole tree.
type Workspace struct {
	id   string
	dir  string
	once sync.Once
	err  error
}

// NewWorkspace creates root/<uuid>. root is created if missing.
func NewWorkspace(root string) (*Workspace, error) {
	if err := os.MkdirAll(root, 0o755); err != nil {
		return nil, fmt.Errorf("mkdir %s: %w", root, err)
	}
	id := uuid.NewString()
	dir := filepath.Join(root, id)
	if err := os.Mkdir(dir, 0o700); err != nil {
		return nil, fmt.Errorf("mkdir %s: %w", dir, err)
	}
	return &Workspace{id: id, dir: dir}, nil
}

// ID returns the generated identifier the directory is named after.
func (w *Workspace) ID() string { return w.id }

// Dir returns the workspace directory.
func (w *Workspace) Dir() string { return w.dir }

// Path returns the path of name inside the workspace.
func (w *Workspace) Path(name string) string {
	return filepath.Join(w.dir, filepath.Base(name))
}

// Save writes r to name inside the workspace and returns the full path.
// The file appears under its final name only once fully written.
func (w *Workspace) Save(name string, r io.Reader) (string, error) {
	path := w.Path(name)

	tmp, err := os.CreateTemp(w.dir, ".upload-*.tmp")
	if err != nil {
		return "", fmt.Errorf("create temp: %w", err)
	}
	tmpPath := tmp.Name()
	if _, err := io.Copy(tmp, r); err != nil {
		tmp.Close()
		os.Remove(tmpPath)
		return "", fmt.Errorf("write: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpPath)
		return "", fmt.Errorf("close: %w", err)
	}
	if err := os.Rename(tmpPath, path); err != nil {
		os.Remove(tmpPath)
		return "", fmt.Errorf("rename: %w", err)
	}
	return path, nil
}

// Close removes the workspace and everything in it. Safe to call more than
// once; a directory that is already gone is not an error.
func (w *Workspace) Close() error {
	w.once.Do(func() {
		err := os.RemoveAll(w.dir)
		if err != nil && !errors.Is(err, fs.ErrNotExist) {
			w.err = err
		}
	})
	return w.err
}
