// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package stubserver is a local stand-in for the remote conversion service.
// It speaks the same contract, POST /convert with a multipart "file" part
// answered by {"markdown": ...} or {"error": ...}, and converts only
// plain-text formats so workflows can be exercised offline.
package stubserver

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"net/http"
	"path/filepath"
	"strings"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/rs/zerolog"
)

// UnsupportedFormat is the error message returned for documents the stub
// cannot convert.
const UnsupportedFormat = "unsupported format"

const bodyLimit = "50M"

type convertResponse struct {
	Markdown *string `json:"markdown,omitempty"`
	Error    *string `json:"error,omitempty"`
}

func markdownBody(s string) convertResponse { return convertResponse{Markdown: &s} }
func errorBody(s string) convertResponse    { return convertResponse{Error: &s} }

// New returns an echo instance serving the stub routes.
func New(log zerolog.Logger) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true

	e.Use(middleware.RequestLoggerWithConfig(middleware.RequestLoggerConfig{
		LogURI:    true,
		LogStatus: true,
		LogMethod: true,
		LogError:  true,
		LogValuesFunc: func(c echo.Context, v middleware.RequestLoggerValues) error {
			ev := log.Info()
			if v.Error != nil {
				ev = log.Warn().Err(v.Error)
			}
			ev.Str("method", v.Method).Str("uri", v.URI).Int("status", v.Status).Msg("request")
			return nil
		},
	}))
	e.Use(middleware.Recover())
	e.Use(middleware.BodyLimit(bodyLimit))

	e.GET("/health", handleHealth)
	e.POST("/convert", handleConvert)
	return e
}

func handleHealth(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string]string{"status": "ok"})
}

// handleConvert answers service-level failures with a JSON error body. The
// real service does the same, sometimes with a 2xx status.
func handleConvert(c echo.Context) error {
	fh, err := c.FormFile("file")
	if err != nil {
		return c.JSON(http.StatusBadRequest, errorBody("no file provided"))
	}

	src, err := fh.Open()
	if err != nil {
		return c.JSON(http.StatusInternalServerError, errorBody("failed to open upload"))
	}
	defer src.Close()

	data, err := io.ReadAll(src)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, errorBody("failed to read upload"))
	}

	md, err := toMarkdown(fh.Filename, data)
	if err != nil {
		return c.JSON(http.StatusOK, errorBody(err.Error()))
	}
	return c.JSON(http.StatusOK, markdownBody(md))
}

var errUnsupported = errors.New(UnsupportedFormat)

// toMarkdown converts the formats the stub understands.
func toMarkdown(name string, data []byte) (string, error) {
	switch strings.ToLower(filepath.Ext(name)) {
	case ".md", ".markdown", ".txt":
		return string(data), nil
	case ".csv":
		return csvTable(data)
	default:
		return "", errUnsupported
	}
}

// csvTable renders CSV as a Markdown table whose first row is the header.
func csvTable(data []byte) (string, error) {
	r := csv.NewReader(strings.NewReader(string(data)))
	r.FieldsPerRecord = -1
	rows, err := r.ReadAll()
	if err != nil {
		return "", fmt.Errorf("invalid csv: %w", err)
	}
	if len(rows) == 0 {
		return "", nil
	}

	width := 0
	for _, row := range rows {
		width = max(width, len(row))
	}

	var b strings.Builder
	writeRow := func(cells []string) {
		b.WriteString("|")
		for i := 0; i < width; i++ {
			cell := ""
			if i < len(cells) {
				cell = strings.ReplaceAll(cells[i], "|", `\|`)
			}
			b.WriteString(" " + cell + " |")
		}
		b.WriteString("\n")
	}

	writeRow(rows[0])
	b.WriteString("|" + strings.Repeat(" --- |", width) + "\n")
	for _, row := range rows[1:] {
		writeRow(row)
	}
	return b.String(), nil
}

// Run serves on addr until ctx is cancelled, then shuts down gracefully.
func Run(ctx context.Context, e *echo.Echo, addr string) error {
	errCh := make(chan error, 1)
	go func() {
		if err := e.Start(addr); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := e.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutting down stub server: %w", err)
	}
	return nil
}
