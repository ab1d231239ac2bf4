// Package fetch retrieves index and content files over http, https and file URLs.
package fetch

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"time"
)

// Doer is the subset of *http.Client the fetcher needs.
type Doer interface {
	Do(req *http.Request) (*http.Response, error)
}

// StatusError reports a response that arrived but was not a success.
type StatusError struct {
	URL        string
	StatusCode int
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("fetching %s: status %d", e.URL, e.StatusCode)
}

// NetworkError reports a request that never produced a response.
type NetworkError struct {
	URL string
	Err error
}

func (e *NetworkError) Error() string {
	return fmt.Sprintf("fetching %s: %v", e.URL, e.Err)
}

func (e *NetworkError) Unwrap() error { return e.Err }

// Client fetches text bodies.
type Client struct {
	doer    Doer
	timeout time.Duration
}

// NewHTTPClient returns an *http.Client that also serves file:// URLs from the
// local filesystem.
func NewHTTPClient() *http.Client {
	t := http.DefaultTransport.(*http.Transport).Clone()
	t.RegisterProtocol("file", http.NewFileTransport(http.Dir("/")))
	return &http.Client{Transport: t}
}

// New returns a Client. A nil doer uses NewHTTPClient; a zero timeout means the
// caller's context alone bounds each request.
func New(doer Doer, timeout time.Duration) *Client {
	if doer == nil {
		doer = NewHTTPClient()
	}
	return &Client{doer: doer, timeout: timeout}
}

// Open issues a GET and returns the body of a 2xx response. The caller closes it.
func (c *Client) Open(ctx context.Context, url string) (io.ReadCloser, error) {
	cancel := func() {}
	if c.timeout > 0 {
		ctx, cancel = context.WithTimeout(ctx, c.timeout)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		cancel()
		return nil, fmt.Errorf("building request for %s: %w", url, err)
	}

	resp, err := c.doer.Do(req)
	if err != nil {
		cancel()
		return nil, &NetworkError{URL: url, Err: err}
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		resp.Body.Close()
		cancel()
		return nil, &StatusError{URL: url, StatusCode: resp.StatusCode}
	}

	return &cancelBody{ReadCloser: resp.Body, cancel: cancel}, nil
}

// Text fetches url and returns the whole body as a string.
func (c *Client) Text(ctx context.Context, url string) (string, error) {
	body, err := c.Open(ctx, url)
	if err != nil {
		return "", err
	}
	defer body.Close()

	data, err := io.ReadAll(body)
	if err != nil {
		return "", &NetworkError{URL: url, Err: err}
	}
	return string(data), nil
}

type cancelBody struct {
	io.ReadCloser
	cancel context.CancelFunc
}

func (b *cancelBody) Close() error {
	err := b.ReadCloser.Close()
	b.cancel()
	return err
}
