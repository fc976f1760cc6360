package ingest

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"path"
	"strings"

	"github.com/soundleaf/audioconv/internal/fault"
	"github.com/soundleaf/audioconv/internal/logging"
	"github.com/soundleaf/audioconv/internal/workspace"
)

// FetchURL downloads a direct audio file URL into the workspace. Blocked
// hosts are rejected before any network call; the declared content type is
// pre-checked with a HEAD request; the size cap is enforced on bytes actually
// received during the streaming GET, never on headers.
func (a *Acquirer) FetchURL(ctx context.Context, ws *workspace.Workspace, rawURL string) (string, error) {
	log := logging.Get("ingest")
	parsed, err := url.Parse(rawURL)
	if err != nil {
		return "", fault.Validation("Invalid URL.")
	}
	host := strings.ToLower(parsed.Hostname())
	if a.blocked.Contains(host) {
		log.Debug().Str("host", host).Msg("Rejected blocked host")
		return "", fault.Validation("Downloading from that domain is not allowed. Use a direct file URL or upload the file.")
	}
	if parsed.Scheme != "http" && parsed.Scheme != "https" {
		return "", fault.Validation("Invalid URL.")
	}

	if err := a.checkContentType(ctx, rawURL); err != nil {
		return "", err
	}
	return a.download(ctx, ws, rawURL, parsed.Path)
}

// checkContentType issues the HEAD pre-flight. It is a cheap first filter;
// the real enforcement happens during the streamed GET.
func (a *Acquirer) checkContentType(ctx context.Context, rawURL string) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodHead, rawURL, nil)
	if err != nil {
		return fmt.Errorf("error creating HEAD request: %v", err)
	}
	resp, err := a.head.Do(req)
	if err != nil {
		return fault.Network("Could not reach the URL.")
	}
	defer resp.Body.Close()

	ctype := resp.Header.Get("Content-Type")
	for _, prefix := range a.prefixes {
		if strings.HasPrefix(ctype, prefix) {
			return nil
		}
	}
	if ctype == "" {
		ctype = "unknown"
	}
	return fault.Validation("URL does not look like a direct audio file (Content-Type: %s).", ctype)
}

func (a *Acquirer) download(ctx context.Context, ws *workspace.Workspace, rawURL, urlPath string) (string, error) {
	log := logging.Get("ingest")
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return "", fmt.Errorf("error creating GET request: %v", err)
	}
	resp, err := a.get.Do(req)
	if err != nil {
		return "", fault.Network("Failed to download the file.")
	}
	defer resp.Body.Close()
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return "", fault.Network("Failed to download the file.")
	}

	inPath := ws.Join(inputName(path.Ext(urlPath)))
	outFile, err := os.Create(inPath)
	if err != nil {
		return "", fmt.Errorf("error creating input file: %v", err)
	}

	buffer := make([]byte, chunkSize)
	var size int64
	for {
		bytesRead, readErr := resp.Body.Read(buffer)
		if bytesRead > 0 {
			size += int64(bytesRead)
			if size > a.maxBytes {
				// Drop the truncated file so a partial download can
				// never escape the workspace as valid input.
				outFile.Close()
				os.Remove(inPath)
				log.Debug().Str("url", rawURL).Int64("received", size).Msg("Download exceeded size cap")
				return "", fault.SizeLimit("File is larger than the %d MB limit.", a.maxBytes/(1024*1024))
			}
			if _, writeErr := outFile.Write(buffer[:bytesRead]); writeErr != nil {
				outFile.Close()
				os.Remove(inPath)
				return "", fmt.Errorf("error writing to input file: %v", writeErr)
			}
		}
		if readErr != nil {
			if readErr == io.EOF {
				break
			}
			outFile.Close()
			os.Remove(inPath)
			return "", fault.Network("Failed to download the file.")
		}
	}
	if err := outFile.Close(); err != nil {
		return "", fmt.Errorf("error finalizing input file: %v", err)
	}
	log.Debug().Str("url", rawURL).Int64("size", size).Str("file", inPath).Msg("Download completed")
	return inPath, nil
}
