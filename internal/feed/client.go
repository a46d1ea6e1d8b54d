package feed

import (
	"context"
	"io"
	"net/http"
	"time"

	"github.com/eldadfux/isAWSback/internal/constants"
)

// maxBodySize caps how much of a feed response is read (4MB).
const maxBodySize = 4 * 1024 * 1024

// Client fetches the raw incident feed over HTTP.
type Client struct {
	httpClient *http.Client
	url        string
	userAgent  string
	timeout    time.Duration
}

func NewClient(url, userAgent string, timeout time.Duration) *Client {
	return &Client{
		// The overall deadline lives on the per-fetch context; the
		// transport timeout is a backstop.
		httpClient: &http.Client{Timeout: timeout + time.Second},
		url:        url,
		userAgent:  userAgent,
		timeout:    timeout,
	}
}

// Fetch performs one bounded GET against the feed and returns the raw body
// together with the response Content-Type. The content type is a hint only;
// intermediaries are known to relabel this feed.
func (c *Client) Fetch(ctx context.Context) ([]byte, string, error) {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.url, nil)
	if err != nil {
		return nil, "", &NetworkError{URL: c.url, Err: err}
	}
	req.Header.Set(constants.HeaderAccept, constants.ContentTypeJSON)
	req.Header.Set(constants.HeaderAcceptCharset, "utf-8")
	req.Header.Set(constants.HeaderUserAgent, c.userAgent)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, "", &NetworkError{URL: c.url, Err: err}
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, maxBodySize))
		return nil, "", &NetworkError{URL: c.url, StatusCode: resp.StatusCode}
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodySize))
	if err != nil {
		return nil, "", &NetworkError{URL: c.url, Err: err}
	}

	return body, resp.Header.Get(constants.HeaderContentType), nil
}

// URL returns the configured feed endpoint.
func (c *Client) URL() string {
	return c.url
}
