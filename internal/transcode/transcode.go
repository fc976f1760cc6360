package transcode

import (
	"bytes"
	"context"
	"os/exec"
	"path/filepath"
	"strings"

	"github.com/soundleaf/audioconv/internal/fault"
	"github.com/soundleaf/audioconv/internal/logging"
)

// Format is a supported output container.
type Format string

const (
	FormatWAV  Format = "wav"
	FormatAIFF Format = "aiff"
)

// ParseFormat validates a user-supplied format name.
func ParseFormat(s string) (Format, error) {
	switch Format(strings.ToLower(s)) {
	case FormatWAV:
		return FormatWAV, nil
	case FormatAIFF:
		return FormatAIFF, nil
	default:
		return "", fault.Validation("Unsupported output format.")
	}
}

// codec returns the PCM codec whose byte order matches the container's
// native convention: little-endian for WAV, big-endian for AIFF.
func (f Format) codec() string {
	if f == FormatAIFF {
		return "pcm_s16be"
	}
	return "pcm_s16le"
}

func (f Format) Ext() string {
	return string(f)
}

// MediaType returns the MIME type used when delivering the converted file.
func (f Format) MediaType() string {
	if f == FormatAIFF {
		return "audio/aiff"
	}
	return "audio/x-wav"
}

// Transcoder drives the external engine as an opaque subprocess. The output
// profile is fixed: 44.1 kHz, stereo, 16-bit PCM.
type Transcoder struct {
	FFmpegPath string
}

func New(ffmpegPath string) *Transcoder {
	if ffmpegPath == "" {
		ffmpegPath = "ffmpeg"
	}
	return &Transcoder{FFmpegPath: ffmpegPath}
}

// Convert produces the output file next to the input, named after the
// input's base name plus the target extension. Engine diagnostics are
// surfaced verbatim on failure.
func (t *Transcoder) Convert(ctx context.Context, inputPath string, format Format) (string, error) {
	log := logging.Get("transcode")
	base := strings.TrimSuffix(filepath.Base(inputPath), filepath.Ext(inputPath))
	outPath := filepath.Join(filepath.Dir(inputPath), base+"."+format.Ext())

	args := Args(inputPath, outPath, format)
	cmd := exec.CommandContext(ctx, t.FFmpegPath, args...)
	var stderr bytes.Buffer
	cmd.Stderr = &stderr

	log.Debug().Str("input", inputPath).Str("format", string(format)).Msg("Starting conversion")
	if err := cmd.Run(); err != nil {
		diag := strings.TrimSpace(stderr.String())
		if diag == "" {
			diag = "unknown error"
		}
		return "", fault.Conversion("Conversion failed: %s", diag)
	}
	return outPath, nil
}

// Args builds the engine invocation: fixed sample rate and channel layout,
// informational logging suppressed, pre-existing output overwritten.
func Args(inputPath, outPath string, format Format) []string {
	return []string{
		"-i", inputPath,
		"-acodec", format.codec(),
		"-ar", "44100",
		"-ac", "2",
		"-loglevel", "error",
		"-y", outPath,
	}
}
