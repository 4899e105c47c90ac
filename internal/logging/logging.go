// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package logging builds the process-wide structured logger.
package logging

import (
	"io"
	"os"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/pdiddy/doc2md/pkg/types"
)

const (
	FormatConsole = "console"
	FormatJSON    = "json"
)

// New returns a zerolog.Logger writing to out (stderr when nil). Unknown
// levels fall back to info.
func New(cfg types.LogConfig, out io.Writer) zerolog.Logger {
	if out == nil {
		out = os.Stderr
	}

	level, err := zerolog.ParseLevel(strings.ToLower(cfg.Level))
	if err != nil || cfg.Level == "" {
		level = zerolog.InfoLevel
	}

	var zl zerolog.Logger
	if cfg.Format == FormatJSON {
		zl = zerolog.New(out)
	} else {
		zl = zerolog.New(zerolog.ConsoleWriter{
			Out:        out,
			TimeFormat: time.RFC3339,
		})
	}

	return zl.Level(level).With().Timestamp().Str("service", "doc2md").Logger()
}
