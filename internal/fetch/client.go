package fetch

import (
	"net/http"
	"time"
)

type ClientConfig struct {
	// Timeout bounds the whole request including the body read.
	Timeout time.Duration
	// HeaderTimeout bounds only connection establishment and response
	// headers, leaving the body read unbounded. When set, Timeout is
	// ignored so streaming a large body is not cut off mid-read.
	HeaderTimeout time.Duration
	KATimeout     time.Duration
	UserAgent     string
	Headers       map[string]string
}

// Doer is the outbound request surface; tests substitute fakes.
type Doer interface {
	Do(req *http.Request) (*http.Response, error)
}

type Client struct {
	client *http.Client
	config ClientConfig
}

func NewClient(cfg ClientConfig) *Client {
	if cfg.Timeout == 0 {
		cfg.Timeout = 60 * time.Second
	}
	if cfg.KATimeout == 0 {
		cfg.KATimeout = 60 * time.Second
	}
	transport := &http.Transport{
		IdleConnTimeout:     cfg.KATimeout,
		MaxIdleConns:        100,
		MaxIdleConnsPerHost: 100,
		DisableCompression:  true,
	}
	timeout := cfg.Timeout
	if cfg.HeaderTimeout > 0 {
		transport.ResponseHeaderTimeout = cfg.HeaderTimeout
		timeout = 0
	}
	return &Client{
		client: &http.Client{
			Timeout:   timeout,
			Transport: transport,
		},
		config: cfg,
	}
}

func (c *Client) Do(req *http.Request) (*http.Response, error) {
	if c.config.UserAgent != "" {
		req.Header.Set("User-Agent", c.config.UserAgent)
	} else {
		req.Header.Set("User-Agent", "audioconv")
	}
	for k, v := range c.config.Headers {
		req.Header.Set(k, v)
	}
	return c.client.Do(req)
}
