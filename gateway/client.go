// Package gateway is the typed client for the PCAS backend REST API. It owns
// request construction and error classification only: no retries, no caching
// and no batching happen here, so callers keep full control of concurrency
// and failure policy.
package gateway

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/google/uuid"

	"github.com/pcasconnect/campus/core"
)

// Client issues requests against one backend instance.
type Client struct {
	baseURL   string
	userAgent string
	http      *http.Client
}

func NewClient(conf *core.Config) *Client {
	return &Client{
		baseURL:   strings.TrimSuffix(conf.API.BaseURL, "/"),
		userAgent: fmt.Sprintf("%s-go/%s", "pcasconnect", conf.Build),
		http:      &http.Client{Timeout: conf.API.Timeout},
	}
}

// BaseURL returns the backend address the client talks to.
func (c *Client) BaseURL() string { return c.baseURL }

func (c *Client) get(ctx context.Context, path string, out interface{}) error {
	return c.do(ctx, http.MethodGet, path, nil, out)
}

func (c *Client) post(ctx context.Context, path string, body, out interface{}) error {
	return c.do(ctx, http.MethodPost, path, body, out)
}

func (c *Client) put(ctx context.Context, path string, body, out interface{}) error {
	return c.do(ctx, http.MethodPut, path, body, out)
}

func (c *Client) delete(ctx context.Context, path string, out interface{}) error {
	return c.do(ctx, http.MethodDelete, path, nil, out)
}

func (c *Client) do(ctx context.Context, method, path string, body, out interface{}) error {
	var reqBody io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		if err != nil {
			return newError(KindMalformedResponse, 0, "encoding request body", err)
		}
		reqBody = bytes.NewReader(raw)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reqBody)
	if err != nil {
		return newError(KindNetwork, 0, "building request", err)
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", c.userAgent)
	req.Header.Set("X-Request-ID", uuid.NewString())
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return newError(KindNetwork, 0, "request failed", err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return newError(KindNetwork, resp.StatusCode, "reading response", err)
	}

	switch {
	case resp.StatusCode == http.StatusUnauthorized || resp.StatusCode == http.StatusForbidden:
		return newError(KindAuthRejected, resp.StatusCode, errorMessage(raw, "authentication rejected"), nil)
	case resp.StatusCode >= 500:
		return newError(KindServerError, resp.StatusCode, errorMessage(raw, http.StatusText(resp.StatusCode)), nil)
	case resp.StatusCode >= 400:
		// business-rule rejections (404 unknown id, 400 bad payload, ...)
		return newError(KindServerError, resp.StatusCode, errorMessage(raw, http.StatusText(resp.StatusCode)), nil)
	}

	if out == nil {
		return nil
	}
	if err := json.Unmarshal(raw, out); err != nil {
		return newError(KindMalformedResponse, resp.StatusCode, "decoding response", err)
	}
	return nil
}
