package pipeline_test

import (
	"context"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"testing"

	"github.com/soundleaf/audioconv/internal/fault"
	"github.com/soundleaf/audioconv/internal/ingest"
	"github.com/soundleaf/audioconv/internal/pipeline"
	"github.com/soundleaf/audioconv/internal/transcode"
	"github.com/soundleaf/audioconv/internal/workspace"
)

func newRunner(t *testing.T, engineScript string) (*pipeline.Runner, string) {
	t.Helper()
	if runtime.GOOS == "windows" {
		t.Skip("fake engine scripts require a POSIX shell")
	}
	enginePath := filepath.Join(t.TempDir(), "ffmpeg")
	if err := os.WriteFile(enginePath, []byte("#!/bin/sh\n"+engineScript), 0755); err != nil {
		t.Fatalf("writing fake engine: %v", err)
	}
	baseDir := t.TempDir()
	return &pipeline.Runner{
		Workspaces: workspace.NewManager(baseDir),
		Acquirer:   ingest.NewAcquirer(nil, nil, ingest.Options{}),
		Transcoder: transcode.New(enginePath),
	}, baseDir
}

func assertEmpty(t *testing.T, dir string) {
	t.Helper()
	entries, err := os.ReadDir(dir)
	if err != nil {
		t.Fatalf("reading dir: %v", err)
	}
	if len(entries) != 0 {
		t.Fatalf("expected %s empty, found %d entries", dir, len(entries))
	}
}

func TestRunRejectsBeforeAnyIO(t *testing.T) {
	runner, baseDir := newRunner(t, "exit 0")

	cases := []struct {
		name string
		req  pipeline.Request
		want string
	}{
		{
			name: "rights unchecked",
			req:  pipeline.Request{Format: transcode.FormatWAV, URL: "https://example.com/a.mp3"},
			want: "confirm",
		},
		{
			name: "no source",
			req:  pipeline.Request{Format: transcode.FormatWAV, RightsConfirmed: true},
			want: "Provide a file upload",
		},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := runner.Run(context.Background(), tc.req)
			if fault.KindOf(err) != fault.KindValidation {
				t.Fatalf("expected validation error, got %v", err)
			}
			if !strings.Contains(err.Error(), tc.want) {
				t.Fatalf("unexpected message: %q", err.Error())
			}
			// Rejected before acquisition: no workspace was ever created.
			assertEmpty(t, baseDir)
		})
	}
}

func TestRunReleasesWorkspaceOnConversionFailure(t *testing.T) {
	runner, baseDir := newRunner(t, `echo "broken" >&2; exit 1`)
	req := pipeline.Request{
		Format:          transcode.FormatWAV,
		RightsConfirmed: true,
		Upload:          &pipeline.UploadSource{Filename: "clip.mp3", Reader: strings.NewReader("junk")},
	}
	_, err := runner.Run(context.Background(), req)
	if fault.KindOf(err) != fault.KindConversion {
		t.Fatalf("expected conversion error, got %v", err)
	}
	assertEmpty(t, baseDir)
}

func TestRunSuccessHandsOffWorkspaceOwnership(t *testing.T) {
	runner, baseDir := newRunner(t, `for out; do :; done; printf 'pcm' > "$out"`)
	req := pipeline.Request{
		Format:          transcode.FormatAIFF,
		RightsConfirmed: true,
		Upload:          &pipeline.UploadSource{Filename: "clip.mp3", Reader: strings.NewReader("mp3")},
	}
	result, err := runner.Run(context.Background(), req)
	if err != nil {
		t.Fatalf("Run returned error: %v", err)
	}
	if !strings.HasSuffix(result.OutputPath, ".aiff") {
		t.Fatalf("unexpected output path: %s", result.OutputPath)
	}
	if _, err := os.Stat(result.OutputPath); err != nil {
		t.Fatalf("output missing before release: %v", err)
	}
	result.Release()
	assertEmpty(t, baseDir)
}
