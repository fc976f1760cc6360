package ingest

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/google/uuid"

	"github.com/soundleaf/audioconv/internal/fault"
	"github.com/soundleaf/audioconv/internal/fetch"
	"github.com/soundleaf/audioconv/internal/workspace"
)

// Acquirer materializes exactly one local input file inside a workspace,
// either from uploaded bytes or from a direct-link URL under policy
// constraints.
type Acquirer struct {
	head     fetch.Doer
	get      fetch.Doer
	blocked  HostBlocklist
	prefixes []string
	maxBytes int64
}

func NewAcquirer(head, get fetch.Doer, opts Options) *Acquirer {
	a := &Acquirer{
		head:     head,
		get:      get,
		blocked:  opts.Blocked,
		prefixes: opts.AllowedPrefixes,
		maxBytes: opts.MaxBytes,
	}
	if len(a.prefixes) == 0 {
		a.prefixes = defaultAllowedPrefixes
	}
	if a.maxBytes <= 0 {
		a.maxBytes = defaultMaxBytes
	}
	return a
}

// SaveUpload persists uploaded bytes verbatim to a workspace-scoped path. The
// only gate on uploads is the rights confirmation handled upstream; size and
// content type are not checked here.
func (a *Acquirer) SaveUpload(ws *workspace.Workspace, filename string, r io.Reader) (string, error) {
	if filename == "" {
		return "", fault.Validation("No file uploaded.")
	}
	inPath := ws.Join(inputName(filepath.Ext(filename)))
	f, err := os.Create(inPath)
	if err != nil {
		return "", fmt.Errorf("error creating input file: %v", err)
	}
	defer f.Close()
	if _, err := io.Copy(f, r); err != nil {
		return "", fmt.Errorf("error saving upload: %v", err)
	}
	return inPath, nil
}

// inputName builds the unique input file name: a random token plus the
// original extension, or the generic fallback when none is present.
func inputName(ext string) string {
	if ext == "" {
		ext = fallbackExt
	}
	return "in_" + uuid.New().String() + ext
}
