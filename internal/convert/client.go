// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package convert

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	"github.com/pdiddy/doc2md/internal/httputil"
	"github.com/pdiddy/doc2md/pkg/types"
)

const (
	convertPath = "/convert"
	// formField is the multipart part name the service reads the upload from.
	formField = "file"
)

// serviceResponse is the JSON body returned by POST /convert. The service
// sets markdown on success and error on failure, independent of HTTP status.
type serviceResponse struct {
	Markdown string `json:"markdown"`
	Error    string `json:"error"`
}

// Client converts documents by uploading them to the remote service.
type Client struct {
	baseURL   string
	userAgent string
	http      *http.Client
}

// NewClient creates a Client for the service at cfg.BaseURL. When hc is nil
// a client with cfg.Timeout is created.
func NewClient(cfg types.ServiceConfig, hc *http.Client) *Client {
	if hc == nil {
		hc = &http.Client{Timeout: cfg.Timeout}
	}
	baseURL := cfg.BaseURL
	if baseURL == "" {
		baseURL = types.DefaultBaseURL
	}
	return &Client{
		baseURL:   baseURL,
		userAgent: cfg.UserAgent,
		http:      hc,
	}
}

// Endpoint returns the full URL requests are posted to.
func (c *Client) Endpoint() string {
	return httputil.JoinURL(c.baseURL, convertPath)
}

// Convert issues exactly one POST {base_url}/convert with file as the single
// "file" part. It does not retry.
func (c *Client) Convert(ctx context.Context, file types.SelectedFile) (string, error) {
	req, err := httputil.NewUploadRequest(ctx, c.Endpoint(), formField, file.Name, file.Content)
	if err != nil {
		return "", err
	}
	if c.userAgent != "" {
		req.Header.Set("User-Agent", c.userAgent)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return "", fmt.Errorf("conversion request: %w", err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("reading response: %w", err)
	}

	var sr serviceResponse
	if err := json.Unmarshal(data, &sr); err != nil {
		return "", fmt.Errorf("parsing response (HTTP %d): %w", resp.StatusCode, err)
	}

	switch {
	case sr.Markdown != "":
		return sr.Markdown, nil
	case sr.Error != "":
		return "", &ServiceError{Message: sr.Error}
	default:
		return "", nil
	}
}
