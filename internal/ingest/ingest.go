package ingest

import (
	"strings"
)

// HostBlocklist is an immutable set of exact lowercase hostnames the URL
// acquirer refuses before any network I/O. Uploads are never checked against
// it since no host is involved.
type HostBlocklist map[string]struct{}

func NewHostBlocklist(hosts []string) HostBlocklist {
	set := make(HostBlocklist, len(hosts))
	for _, h := range hosts {
		set[strings.ToLower(h)] = struct{}{}
	}
	return set
}

func (b HostBlocklist) Contains(host string) bool {
	_, ok := b[strings.ToLower(host)]
	return ok
}

// Options configures an Acquirer. Zero values fall back to the defaults the
// service ships with.
type Options struct {
	Blocked         HostBlocklist
	AllowedPrefixes []string
	MaxBytes        int64
}

const (
	defaultMaxBytes = 200 * 1024 * 1024
	chunkSize       = 1024 * 1024
	fallbackExt     = ".bin"
)

var defaultAllowedPrefixes = []string{"audio/"}
