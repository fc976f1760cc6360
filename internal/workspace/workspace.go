package workspace

import (
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/google/uuid"

	"github.com/soundleaf/audioconv/internal/logging"
)

// Manager hands out per-request scratch directories under a base dir.
type Manager struct {
	baseDir string
}

func NewManager(baseDir string) *Manager {
	if baseDir == "" {
		baseDir = os.TempDir()
	}
	return &Manager{baseDir: baseDir}
}

// Workspace is a uniquely named directory owning every file created for one
// request. Release removes it with everything inside; callers defer Release
// at the top of the request so every exit path tears it down.
type Workspace struct {
	dir      string
	released sync.Once
}

func (m *Manager) Acquire() (*Workspace, error) {
	dir := filepath.Join(m.baseDir, "audioconv-"+uuid.New().String())
	if err := os.MkdirAll(dir, 0700); err != nil {
		return nil, fmt.Errorf("error creating workspace directory: %v", err)
	}
	return &Workspace{dir: dir}, nil
}

func (w *Workspace) Dir() string {
	return w.dir
}

// Join resolves a file name inside the workspace.
func (w *Workspace) Join(name string) string {
	return filepath.Join(w.dir, name)
}

// Release removes the workspace recursively. Best effort: a failed removal is
// logged and never surfaced, so cleanup can't mask the request's real outcome.
// Safe to call more than once.
func (w *Workspace) Release() {
	w.released.Do(func() {
		if err := os.RemoveAll(w.dir); err != nil {
			log := logging.Get("workspace")
			log.Debug().Str("dir", w.dir).Err(err).Msg("Failed to remove workspace")
		}
	})
}
