// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package notion reads page block trees and database listings from the
// Notion REST API. Every request passes through a shared rate limiter and
// retries HTTP 429; any other failure is returned to the caller unchanged.
package notion

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/pdiddy/notion-export/internal/httputil"
	"github.com/pdiddy/notion-export/pkg/types"
)

const (
	// DefaultBaseURL is the public API root.
	DefaultBaseURL = "https://api.notion.com/v1"

	// DefaultVersion is the API version the response shapes below follow.
	DefaultVersion = "2022-06-28"

	// pageSize is the largest page the API serves.
	pageSize = 100
)

// Client is a minimal Notion API client. The zero value is not usable;
// construct with NewClient.
type Client struct {
	// BaseURL is the API root. Tests point it at an httptest server.
	BaseURL string

	http    *http.Client
	limiter *httputil.Limiter
	cfg     types.NotionConfig
}

// NewClient returns a client authenticated with cfg.APIKey. The limiter
// may be shared with other clients; nil disables pacing.
func NewClient(httpClient *http.Client, cfg types.NotionConfig, limiter *httputil.Limiter) *Client {
	if cfg.Version == "" {
		cfg.Version = DefaultVersion
	}
	return &Client{
		BaseURL: DefaultBaseURL,
		http:    httpClient,
		limiter: limiter,
		cfg:     cfg,
	}
}

// APIError is a non-success response from the API.
type APIError struct {
	StatusCode int    `json:"status"`
	Code       string `json:"code"`
	Message    string `json:"message"`
}

func (e *APIError) Error() string {
	if e.Code == "" {
		return fmt.Sprintf("notion API returned HTTP %d", e.StatusCode)
	}
	return fmt.Sprintf("notion API returned HTTP %d (%s): %s", e.StatusCode, e.Code, e.Message)
}

// do sends one request and decodes a 200 response body into out.
func (c *Client) do(ctx context.Context, method, path string, body any, out any) error {
	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("encoding request body: %w", err)
		}
		reader = bytes.NewReader(data)
	}

	reqURL := strings.TrimSuffix(c.BaseURL, "/") + path
	req, err := http.NewRequestWithContext(ctx, method, reqURL, reader)
	if err != nil {
		return fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Notion-Version", c.cfg.Version)
	req.Header.Set("Authorization", "Bearer "+c.cfg.APIKey)
	if c.cfg.UserAgent != "" {
		req.Header.Set("User-Agent", c.cfg.UserAgent)
	}

	resp, err := c.limiter.Do(ctx, c.http, req)
	if err != nil {
		return fmt.Errorf("%s %s: %w", method, path, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		apiErr := &APIError{StatusCode: resp.StatusCode}
		if data, readErr := io.ReadAll(io.LimitReader(resp.Body, 1<<16)); readErr == nil {
			json.Unmarshal(data, apiErr)
		}
		apiErr.StatusCode = resp.StatusCode
		return apiErr
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("parsing response from %s: %w", path, err)
	}
	return nil
}
