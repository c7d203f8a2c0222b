// Package apod is a client for the Astronomy Picture of the Day API.
package apod

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"
)

// DefaultBaseURL is the public APOD endpoint.
const DefaultBaseURL = "https://api.nasa.gov/planetary/apod"

const maxBodySize = 1 << 20

// ErrMalformedResponse is returned when the API answers 200 with a body
// that lacks the fields needed to display a picture.
var ErrMalformedResponse = errors.New("apod: malformed response")

// StatusError is returned for non-2xx responses.
type StatusError struct {
	StatusCode int
	Body       []byte
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("apod: unexpected status %d: %s", e.StatusCode, e.Body)
}

// Entry is a single day of the feed.
type Entry struct {
	Date         string `json:"date"`
	Title        string `json:"title"`
	Explanation  string `json:"explanation"`
	URL          string `json:"url"`
	HDURL        string `json:"hdurl,omitempty"`
	MediaType    string `json:"media_type"`
	ThumbnailURL string `json:"thumbnail_url,omitempty"`
}

// ImageURL returns a displayable image location, preferring the video
// thumbnail for non-image entries. It is empty when there is none.
func (e *Entry) ImageURL() string {
	if e.MediaType != "" && e.MediaType != "image" {
		return e.ThumbnailURL
	}
	return e.URL
}

// Config configures a Client.
type Config struct {
	BaseURL    string
	APIKey     string
	Timeout    time.Duration
	HTTPClient *http.Client
}

// Client fetches feed entries.
type Client struct {
	baseURL  string
	apiKey   string
	httpc    *http.Client
	scrubber *strings.Replacer
}

// NewClient creates a new APOD client
func NewClient(cfg Config) *Client {
	c := &Client{
		baseURL: cfg.BaseURL,
		apiKey:  cfg.APIKey,
		httpc:   cfg.HTTPClient,
	}
	if c.baseURL == "" {
		c.baseURL = DefaultBaseURL
	}
	if c.httpc == nil {
		timeout := cfg.Timeout
		if timeout <= 0 {
			timeout = 10 * time.Second
		}
		c.httpc = &http.Client{Timeout: timeout}
	}
	if c.apiKey != "" {
		c.scrubber = strings.NewReplacer(c.apiKey, "[REDACTED]")
	}
	return c
}

// Fetch retrieves the entry published on date (YYYY-MM-DD).
func (c *Client) Fetch(ctx context.Context, date string) (*Entry, error) {
	entry, err := c.fetch(ctx, date)
	if err != nil {
		return nil, c.scrub(err)
	}
	return entry, nil
}

func (c *Client) fetch(ctx context.Context, date string) (*Entry, error) {
	q := url.Values{}
	q.Set("api_key", c.apiKey)
	q.Set("date", date)
	q.Set("thumbs", "true")

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"?"+q.Encode(), nil)
	if err != nil {
		return nil, fmt.Errorf("failed to build request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	res, err := c.httpc.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch entry for %s: %w", date, err)
	}
	defer res.Body.Close()

	body, err := io.ReadAll(io.LimitReader(res.Body, maxBodySize))
	if err != nil {
		return nil, fmt.Errorf("failed to read response: %w", err)
	}

	if res.StatusCode < 200 || res.StatusCode > 299 {
		return nil, &StatusError{StatusCode: res.StatusCode, Body: body}
	}

	var entry Entry
	if err := json.Unmarshal(body, &entry); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedResponse, err)
	}
	if entry.URL == "" && entry.ThumbnailURL == "" {
		return nil, fmt.Errorf("%w: no url", ErrMalformedResponse)
	}

	return &entry, nil
}

type scrubbedError struct {
	err      error
	scrubber *strings.Replacer
}

func (e *scrubbedError) Error() string { return e.scrubber.Replace(e.err.Error()) }

func (e *scrubbedError) Unwrap() error { return e.err }

// scrub hides the API key, which net/http echoes back inside url.Error.
func (c *Client) scrub(err error) error {
	if c.scrubber == nil {
		return err
	}
	return &scrubbedError{err: err, scrubber: c.scrubber}
}
