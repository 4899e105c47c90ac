// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package httputil provides HTTP helpers for talking to the conversion service.
package httputil

import (
	"bytes"
	"context"
	"fmt"
	"mime/multipart"
	"net/http"
	"strings"
)

// JoinURL appends path to base, collapsing duplicate slashes at the seam.
func JoinURL(base, path string) string {
	return strings.TrimRight(base, "/") + "/" + strings.TrimLeft(path, "/")
}

// NewUploadRequest builds a POST request whose multipart/form-data body holds
// exactly one file part named field. The body is fully buffered so the
// request can be cloned and its length is known up front.
func NewUploadRequest(ctx context.Context, url, field, filename string, content []byte) (*http.Request, error) {
	var body bytes.Buffer
	mw := multipart.NewWriter(&body)

	part, err := mw.CreateFormFile(field, filename)
	if err != nil {
		return nil, fmt.Errorf("creating form part %q: %w", field, err)
	}
	if _, err := part.Write(content); err != nil {
		return nil, fmt.Errorf("writing form part %q: %w", field, err)
	}
	if err := mw.Close(); err != nil {
		return nil, fmt.Errorf("closing multipart body: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, &body)
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("Content-Type", mw.FormDataContentType())
	return req, nil
}
