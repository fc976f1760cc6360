package pipeline

import (
	"context"
	"io"
	"time"

	"github.com/soundleaf/audioconv/internal/fault"
	"github.com/soundleaf/audioconv/internal/ingest"
	"github.com/soundleaf/audioconv/internal/logging"
	"github.com/soundleaf/audioconv/internal/transcode"
	"github.com/soundleaf/audioconv/internal/workspace"
)

// UploadSource carries uploaded bytes with the caller's declared filename.
type UploadSource struct {
	Filename string
	Reader   io.Reader
}

// Request is the normalized conversion request the HTTP layer hands to the
// pipeline: target format, rights confirmation, and exactly one source.
// Upload takes precedence over URL when both are present.
type Request struct {
	Format          transcode.Format
	RightsConfirmed bool
	Upload          *UploadSource
	URL             string
}

// Result holds the converted file. The caller streams OutputPath and then
// calls Release to tear down the owning workspace.
type Result struct {
	OutputPath string
	Format     transcode.Format
	ws         *workspace.Workspace
}

func (r *Result) Release() {
	r.ws.Release()
}

// Runner runs the one-shot pipeline: workspace, acquire, transcode. No state
// is shared between requests.
type Runner struct {
	Workspaces *workspace.Manager
	Acquirer   *ingest.Acquirer
	Transcoder *transcode.Transcoder
}

// Run executes one conversion. On failure the workspace is released before
// returning; on success ownership passes to the Result.
func (r *Runner) Run(ctx context.Context, req Request) (*Result, error) {
	log := logging.Get("pipeline")
	if !req.RightsConfirmed {
		return nil, fault.Validation("You must confirm you have rights to this content.")
	}
	if req.Upload == nil && req.URL == "" {
		return nil, fault.Validation("Provide a file upload or a direct audio file URL.")
	}

	start := time.Now()
	ws, err := r.Workspaces.Acquire()
	if err != nil {
		return nil, err
	}

	var inPath string
	if req.Upload != nil {
		inPath, err = r.Acquirer.SaveUpload(ws, req.Upload.Filename, req.Upload.Reader)
	} else {
		inPath, err = r.Acquirer.FetchURL(ctx, ws, req.URL)
	}
	if err != nil {
		ws.Release()
		return nil, err
	}

	outPath, err := r.Transcoder.Convert(ctx, inPath, req.Format)
	if err != nil {
		ws.Release()
		return nil, err
	}

	log.Debug().Str("output", outPath).Dur("elapsed", time.Since(start)).Msg("Conversion pipeline completed")
	return &Result{OutputPath: outPath, Format: req.Format, ws: ws}, nil
}
