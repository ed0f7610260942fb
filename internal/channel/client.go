package channel

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"
)

// Upstream failure kinds. All of them are retried and none reaches callers of Status.
var (
	ErrUpstreamStatus = errors.New("upstream returned non-success status")
	ErrMalformedBody  = errors.New("upstream returned malformed body")
)

// maxBodyBytes caps how much of an upstream document is read
const maxBodyBytes = 2 << 20

// Fetcher reads raw channel documents
type Fetcher interface {
	Fetch(ctx context.Context, version, handle string) (map[string]any, error)
	FetchClips(ctx context.Context, handle string) (map[string]any, error)
}

// Client talks to the channel API over plain HTTP
type Client struct {
	baseURL    string
	httpClient *http.Client
}

// NewClient creates a client rooted at baseURL (e.g. https://kick.com/api)
func NewClient(baseURL string, timeout time.Duration) *Client {
	if timeout <= 0 {
		timeout = DefaultHTTPTimeout
	}
	return &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{Timeout: timeout},
	}
}

// Fetch GETs /<version>/channels/<handle> and decodes the JSON object
func (c *Client) Fetch(ctx context.Context, version, handle string) (map[string]any, error) {
	endpoint := fmt.Sprintf("%s/%s/channels/%s", c.baseURL, version, url.PathEscape(handle))
	return c.getJSON(ctx, endpoint, version)
}

// FetchClips GETs /v2/channels/<handle>/clips. Only v2 serves clips.
func (c *Client) FetchClips(ctx context.Context, handle string) (map[string]any, error) {
	endpoint := fmt.Sprintf("%s/%s/channels/%s/clips", c.baseURL, APIVersionV2, url.PathEscape(handle))
	return c.getJSON(ctx, endpoint, APIVersionV2)
}

func (c *Client) getJSON(ctx context.Context, endpoint, version string) (map[string]any, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", HeaderUserAgent)
	req.Header.Set("Accept-Language", "en-US,en;q=0.9")
	req.Header.Set("Cache-Control", "no-cache")
	req.Header.Set("Referer", HeaderReferer)
	req.Header.Set("Origin", HeaderOrigin)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer func() {
		if err := resp.Body.Close(); err != nil {
			slog.Warn(LogMsgCloseBodyFailed, slog.Any("err", err))
		}
	}()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		// drain so the connection can be reused
		_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, maxBodyBytes))
		return nil, fmt.Errorf("%w: %d from %s", ErrUpstreamStatus, resp.StatusCode, version)
	}

	var raw map[string]any
	dec := json.NewDecoder(io.LimitReader(resp.Body, maxBodyBytes))
	dec.UseNumber()
	if err := dec.Decode(&raw); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedBody, err)
	}
	if raw == nil {
		return nil, fmt.Errorf("%w: null document", ErrMalformedBody)
	}
	return raw, nil
}
