package server

import (
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"github.com/soundleaf/audioconv/internal/fault"
	"github.com/soundleaf/audioconv/internal/pipeline"
	"github.com/soundleaf/audioconv/internal/transcode"
)

// Multipart form bodies above this spill to disk via the stdlib's own temp
// files; the pipeline applies its real size policy afterwards.
const maxMultipartMemory = 32 << 20

func (s *Server) handleIndex(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := indexTemplate.Execute(w, nil); err != nil {
		s.log.Debug().Err(err).Msg("Failed to render index")
	}
}

func (s *Server) handleHealthz(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	fmt.Fprintln(w, "ok")
}

// handleConvert normalizes the form into a pipeline request, runs it, and
// streams the converted file back as an attachment. The deferred release
// guarantees workspace teardown on every exit path, including mid-stream
// write failures.
func (s *Server) handleConvert(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseMultipartForm(maxMultipartMemory); err != nil {
		s.fail(w, fmt.Errorf("invalid form data"))
		return
	}

	formatValue := r.FormValue("format")
	if formatValue == "" {
		formatValue = "wav"
	}
	format, err := transcode.ParseFormat(formatValue)
	if err != nil {
		s.fail(w, err)
		return
	}

	req := pipeline.Request{
		Format:          format,
		RightsConfirmed: r.FormValue("rights") != "",
		URL:             strings.TrimSpace(r.FormValue("file_url")),
	}
	if file, header, err := r.FormFile("file"); err == nil {
		defer file.Close()
		if header.Filename != "" {
			req.Upload = &pipeline.UploadSource{Filename: header.Filename, Reader: file}
		}
	}

	result, err := s.runner.Run(r.Context(), req)
	if err != nil {
		s.fail(w, err)
		return
	}
	defer result.Release()

	s.deliver(w, result)
}

// deliver streams the output file with its media type and a friendly
// attachment filename.
func (s *Server) deliver(w http.ResponseWriter, result *pipeline.Result) {
	f, err := os.Open(result.OutputPath)
	if err != nil {
		s.fail(w, fmt.Errorf("converted file is missing"))
		return
	}
	defer f.Close()

	name := filepath.Base(result.OutputPath)
	w.Header().Set("Content-Type", result.Format.MediaType())
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", name))
	if info, err := f.Stat(); err == nil {
		w.Header().Set("Content-Length", fmt.Sprintf("%d", info.Size()))
	}
	if _, err := io.Copy(w, f); err != nil {
		s.log.Debug().Err(err).Msg("Response stream interrupted")
	}
}

func (s *Server) handleMeta(w http.ResponseWriter, r *http.Request) {
	link := strings.TrimSpace(r.URL.Query().Get("link"))
	if link == "" {
		http.Error(w, "Provide a link.", http.StatusBadRequest)
		return
	}
	data := s.meta.Lookup(r.Context(), link)
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := metaTemplate.Execute(w, data); err != nil {
		s.log.Debug().Err(err).Msg("Failed to render metadata")
	}
}

// fail translates any pipeline error to the single failure channel the app
// exposes: HTTP 400 with a human-readable reason.
func (s *Server) fail(w http.ResponseWriter, err error) {
	s.log.Debug().Str("kind", fault.KindOf(err).String()).Str("reason", err.Error()).Msg("Request failed")
	http.Error(w, err.Error(), http.StatusBadRequest)
}
