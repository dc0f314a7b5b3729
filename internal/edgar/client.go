// Package edgar talks to SEC EDGAR: a courteous HTTP client and the
// resolver that locates a filing's structured-data document.
//
// The SEC asks automated clients to identify themselves with a
// descriptive User-Agent and to keep request volume modest. Every
// request through Client is followed by a fixed pause.
package edgar

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"time"
)

// Client is an HTTP client for sec.gov with the courtesy headers and
// post-request delay EDGAR expects. All fetching is synchronous; the
// delay is a blocking sleep on the caller.
type Client struct {
	http      *http.Client
	userAgent string
	delay     time.Duration
}

// NewClient creates a Client. A zero timeout defaults to 15s.
func NewClient(userAgent string, timeout, delay time.Duration) *Client {
	if timeout == 0 {
		timeout = 15 * time.Second
	}
	return &Client{
		http:      &http.Client{Timeout: timeout},
		userAgent: userAgent,
		delay:     delay,
	}
}

// Get fetches a URL and returns the response body. The rate-discipline
// pause runs after every call, success or failure.
func (c *Client) Get(ctx context.Context, url string) ([]byte, error) {
	data, err := c.get(ctx, url)
	if c.delay > 0 {
		time.Sleep(c.delay)
	}
	return data, err
}

func (c *Client) get(ctx context.Context, url string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("User-Agent", c.userAgent)

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("request %s: %w", url, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("edgar returned %s for %s", resp.Status, url)
	}

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read response: %w", err)
	}
	return data, nil
}
