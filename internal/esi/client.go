// Package esi is the boundary client for the EVE Swagger Interface. It feeds
// the reference-data store and the per-owner record sets; the resolution core
// never talks to it directly.
package esi

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"sync"
	"time"
)

// Client is an HTTP client for ESI with bounded retry on rate limiting
// (420/429) and transient upstream failures.
type Client struct {
	baseURL    string
	token      string
	httpClient *http.Client
	maxRetries int
	baseDelay  time.Duration

	// group to category mapping is static game data and groups repeat
	// heavily within one asset set, so type lookups cache it per client.
	groupMu         sync.Mutex
	groupCategories map[int64]int64
}

// NewClient creates a new ESI client. The token is attached as a bearer
// credential to authenticated endpoints; pass empty for public-only use.
func NewClient(baseURL, token string, maxRetries int, baseDelay time.Duration) *Client {
	return &Client{
		baseURL:         baseURL,
		token:           token,
		httpClient:      &http.Client{Timeout: 30 * time.Second},
		maxRetries:      maxRetries,
		baseDelay:       baseDelay,
		groupCategories: map[int64]int64{},
	}
}

func retryable(status int) bool {
	switch status {
	case 420, http.StatusTooManyRequests,
		http.StatusBadGateway, http.StatusServiceUnavailable, http.StatusGatewayTimeout:
		return true
	}
	return false
}

// do performs one request with retry, returning the body and response headers.
func (c *Client) do(ctx context.Context, method, path string, payload []byte) ([]byte, http.Header, error) {
	url := c.baseURL + path

	var lastErr error
	for attempt := range c.maxRetries + 1 {
		var body io.Reader
		if payload != nil {
			body = bytes.NewReader(payload)
		}
		req, err := http.NewRequestWithContext(ctx, method, url, body)
		if err != nil {
			return nil, nil, fmt.Errorf("creating request: %w", err)
		}
		if payload != nil {
			req.Header.Set("Content-Type", "application/json")
		}
		if c.token != "" {
			req.Header.Set("Authorization", "Bearer "+c.token)
		}

		resp, err := c.httpClient.Do(req)
		if err != nil {
			return nil, nil, fmt.Errorf("executing request: %w", err)
		}

		respBody, err := io.ReadAll(resp.Body)
		resp.Body.Close()
		if err != nil {
			return nil, nil, fmt.Errorf("reading response: %w", err)
		}

		if resp.StatusCode == http.StatusOK {
			return respBody, resp.Header, nil
		}

		if retryable(resp.StatusCode) {
			lastErr = fmt.Errorf("HTTP %d at %s (attempt %d/%d)", resp.StatusCode, url, attempt+1, c.maxRetries+1)
			if attempt < c.maxRetries {
				delay := c.baseDelay * time.Duration(1<<uint(attempt))
				select {
				case <-ctx.Done():
					return nil, nil, ctx.Err()
				case <-time.After(delay):
				}
				continue
			}
			return nil, nil, lastErr
		}

		return nil, nil, fmt.Errorf("HTTP %d from %s: %s", resp.StatusCode, url, string(respBody))
	}

	return nil, nil, lastErr
}

// getJSON performs a GET request and unmarshals the JSON response.
func (c *Client) getJSON(ctx context.Context, path string, dest any) error {
	body, _, err := c.do(ctx, http.MethodGet, path, nil)
	if err != nil {
		return err
	}
	if err := json.Unmarshal(body, dest); err != nil {
		return fmt.Errorf("parsing JSON from %s: %w", path, err)
	}
	return nil
}

// postJSON performs a POST request with a JSON payload and unmarshals the response.
func (c *Client) postJSON(ctx context.Context, path string, payload, dest any) error {
	raw, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("encoding payload for %s: %w", path, err)
	}
	body, _, err := c.do(ctx, http.MethodPost, path, raw)
	if err != nil {
		return err
	}
	if err := json.Unmarshal(body, dest); err != nil {
		return fmt.Errorf("parsing JSON from %s: %w", path, err)
	}
	return nil
}

// getPaged fetches every page of a paginated endpoint, following the X-Pages
// response header, appending decoded entries via collect.
func getPaged[T any](ctx context.Context, c *Client, path string) ([]T, error) {
	var all []T
	page := 1
	for {
		sep := "?"
		if bytes.ContainsRune([]byte(path), '?') {
			sep = "&"
		}
		body, headers, err := c.do(ctx, http.MethodGet, fmt.Sprintf("%s%spage=%d", path, sep, page), nil)
		if err != nil {
			return nil, err
		}

		var entries []T
		if err := json.Unmarshal(body, &entries); err != nil {
			return nil, fmt.Errorf("parsing page %d of %s: %w", page, path, err)
		}
		all = append(all, entries...)

		pages, _ := strconv.Atoi(headers.Get("X-Pages"))
		if page >= pages || pages == 0 {
			return all, nil
		}
		page++
	}
}
