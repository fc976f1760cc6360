// Package meta provides read-only, best-effort metadata lookups against the
// streaming platforms the converter refuses to download from. It never
// touches the ingestion or conversion pipeline and creates no files.
package meta

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"path"
	"strings"

	"github.com/soundleaf/audioconv/internal/fetch"
	"github.com/soundleaf/audioconv/internal/logging"
)

// Metadata is the fixed shape rendered for every platform; absent fields
// stay empty and render as placeholders.
type Metadata struct {
	Source    string
	URL       string
	Title     string
	Author    string
	Thumbnail string
}

type oembedResponse struct {
	Title        string `json:"title"`
	AuthorName   string `json:"author_name"`
	ThumbnailURL string `json:"thumbnail_url"`
}

type itunesResponse struct {
	ResultCount int `json:"resultCount"`
	Results     []struct {
		TrackName      string `json:"trackName"`
		CollectionName string `json:"collectionName"`
		ArtistName     string `json:"artistName"`
		ArtworkUrl100  string `json:"artworkUrl100"`
	} `json:"results"`
}

// Endpoints are the public lookup APIs, overridable in tests.
type Endpoints struct {
	SpotifyOembed    string
	ITunesSearch     string
	YouTubeOembed    string
	SoundCloudOembed string
}

func DefaultEndpoints() Endpoints {
	return Endpoints{
		SpotifyOembed:    "https://open.spotify.com/oembed",
		ITunesSearch:     "https://itunes.apple.com/search",
		YouTubeOembed:    "https://www.youtube.com/oembed",
		SoundCloudOembed: "https://soundcloud.com/oembed",
	}
}

// Client resolves platform links to display metadata. Lookup failures are
// swallowed: the zero fields simply stay empty.
type Client struct {
	doer      fetch.Doer
	endpoints Endpoints
}

func NewClient(doer fetch.Doer, endpoints Endpoints) *Client {
	return &Client{doer: doer, endpoints: endpoints}
}

// Lookup fetches best-effort metadata for a platform link. The returned
// Metadata always carries the source host and original URL; the remaining
// fields are filled only when the platform lookup succeeds.
func (c *Client) Lookup(ctx context.Context, link string) Metadata {
	log := logging.Get("meta")
	data := Metadata{URL: link}
	parsed, err := url.Parse(link)
	if err != nil {
		return data
	}
	host := strings.ToLower(parsed.Hostname())
	data.Source = host

	switch {
	case strings.Contains(host, "open.spotify.com"):
		c.oembed(ctx, c.endpoints.SpotifyOembed, url.Values{"url": {link}}, &data)
	case strings.Contains(host, "music.apple.com"), strings.Contains(host, "itunes.apple.com"):
		c.itunes(ctx, parsed, &data)
	case strings.Contains(host, "youtube.com"), strings.Contains(host, "youtu.be"):
		c.oembed(ctx, c.endpoints.YouTubeOembed, url.Values{"url": {link}, "format": {"json"}}, &data)
	case strings.Contains(host, "soundcloud.com"):
		c.oembed(ctx, c.endpoints.SoundCloudOembed, url.Values{"url": {link}, "format": {"json"}}, &data)
	default:
		log.Debug().Str("host", host).Msg("No metadata provider for host")
	}
	return data
}

func (c *Client) oembed(ctx context.Context, endpoint string, params url.Values, data *Metadata) {
	var resp oembedResponse
	if err := c.getJSON(ctx, endpoint+"?"+params.Encode(), &resp); err != nil {
		logger := logging.Get("meta")
		logger.Debug().Str("endpoint", endpoint).Err(err).Msg("Metadata lookup failed")
		return
	}
	data.Title = resp.Title
	data.Author = resp.AuthorName
	data.Thumbnail = resp.ThumbnailURL
}

// itunes queries the iTunes Search API with the link's last path segment as
// a heuristic search term. Best-effort only.
func (c *Client) itunes(ctx context.Context, link *url.URL, data *Metadata) {
	term := strings.TrimSuffix(path.Base(link.Path), path.Ext(link.Path))
	params := url.Values{"term": {term}, "limit": {"1"}}
	var resp itunesResponse
	if err := c.getJSON(ctx, c.endpoints.ITunesSearch+"?"+params.Encode(), &resp); err != nil {
		logger := logging.Get("meta")
		logger.Debug().Str("term", term).Err(err).Msg("Metadata lookup failed")
		return
	}
	if resp.ResultCount == 0 || len(resp.Results) == 0 {
		return
	}
	it := resp.Results[0]
	data.Title = it.TrackName
	if data.Title == "" {
		data.Title = it.CollectionName
	}
	data.Author = it.ArtistName
	data.Thumbnail = it.ArtworkUrl100
}

func (c *Client) getJSON(ctx context.Context, rawURL string, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return fmt.Errorf("error creating request: %v", err)
	}
	resp, err := c.doer.Do(req)
	if err != nil {
		return fmt.Errorf("error fetching metadata: %v", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("API request failed with status code %d", resp.StatusCode)
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("error parsing response: %v", err)
	}
	return nil
}
