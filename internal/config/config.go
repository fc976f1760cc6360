package config

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// Duration lets yaml carry values like "10s" or "2m".
type Duration time.Duration

func (d *Duration) UnmarshalYAML(value *yaml.Node) error {
	var raw string
	if err := value.Decode(&raw); err != nil {
		return err
	}
	parsed, err := time.ParseDuration(raw)
	if err != nil {
		return fmt.Errorf("error parsing duration %q: %v", raw, err)
	}
	*d = Duration(parsed)
	return nil
}

func (d Duration) Std() time.Duration {
	return time.Duration(d)
}

// Config holds everything the server needs at startup. Values come from the
// optional yaml file, with zero values filled in by Default.
type Config struct {
	Listen       string            `yaml:"listen,omitempty"`
	FFmpegPath   string            `yaml:"ffmpeg,omitempty"`
	TempDir      string            `yaml:"tempDir,omitempty"`
	MaxBytes     int64             `yaml:"maxBytes,omitempty"`
	HeadTimeout  Duration          `yaml:"headTimeout,omitempty"`
	GetTimeout   Duration          `yaml:"getTimeout,omitempty"`
	UserAgent    string            `yaml:"userAgent,omitempty"`
	Headers      map[string]string `yaml:"headers,omitempty"`
	BlockedHosts []string          `yaml:"blockedHosts,omitempty"`
}

// DefaultBlockedHosts are the streaming platforms the downloader refuses to
// touch. Metadata lookups against them are still allowed.
var DefaultBlockedHosts = []string{
	"open.spotify.com", "spotify.link",
	"music.apple.com", "itunes.apple.com",
	"youtube.com", "www.youtube.com", "m.youtube.com", "youtu.be",
	"soundcloud.com", "m.soundcloud.com", "api.soundcloud.com",
}

func Default() Config {
	return Config{
		Listen:       "127.0.0.1:8080",
		FFmpegPath:   "ffmpeg",
		TempDir:      os.TempDir(),
		MaxBytes:     200 * 1024 * 1024,
		HeadTimeout:  Duration(10 * time.Second),
		GetTimeout:   Duration(30 * time.Second),
		UserAgent:    "audioconv",
		BlockedHosts: DefaultBlockedHosts,
	}
}

// Load reads the yaml file at path and overlays it on the defaults. An empty
// path returns the defaults unchanged.
func Load(path string) (Config, error) {
	cfg := Default()
	if path == "" {
		return cfg, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, fmt.Errorf("error reading config file: %v", err)
	}
	var fileCfg Config
	if err := yaml.Unmarshal(data, &fileCfg); err != nil {
		return cfg, fmt.Errorf("error parsing config file: %v", err)
	}
	cfg.merge(fileCfg)
	return cfg, nil
}

func (c *Config) merge(o Config) {
	if o.Listen != "" {
		c.Listen = o.Listen
	}
	if o.FFmpegPath != "" {
		c.FFmpegPath = o.FFmpegPath
	}
	if o.TempDir != "" {
		c.TempDir = o.TempDir
	}
	if o.MaxBytes > 0 {
		c.MaxBytes = o.MaxBytes
	}
	if o.HeadTimeout > 0 {
		c.HeadTimeout = o.HeadTimeout
	}
	if o.GetTimeout > 0 {
		c.GetTimeout = o.GetTimeout
	}
	if o.UserAgent != "" {
		c.UserAgent = o.UserAgent
	}
	if len(o.Headers) > 0 {
		c.Headers = o.Headers
	}
	if len(o.BlockedHosts) > 0 {
		c.BlockedHosts = o.BlockedHosts
	}
}
