// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package export saves displayed conversion text as a local Markdown file.
package export

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/afero"
)

const (
	// MediaType is the content type of exported artifacts.
	MediaType = "text/markdown; charset=utf-8"

	// fallbackBase names the artifact when the source file name is unknown.
	fallbackBase = "converted"
	extension    = ".md"
)

// BaseName strips the last dot-delimited extension segment from name:
// "report.final.docx" becomes "report.final". A name without an extension is
// returned unchanged. An empty name, or one that is nothing but an extension
// such as ".bashrc", yields "converted".
func BaseName(name string) string {
	if i := strings.LastIndex(name, "."); i >= 0 {
		ext := name[i+1:]
		if ext != "" && !strings.Contains(ext, "/") {
			name = name[:i]
		}
	}
	if name == "" {
		return fallbackBase
	}
	return name
}

// FileName returns the artifact name for a source file name.
func FileName(originalName string) string {
	return BaseName(originalName) + extension
}

// Exporter writes artifacts into a single output directory.
type Exporter struct {
	fs  afero.Fs
	dir string
}

// New creates an Exporter writing into dir on fs. A nil fs means the OS
// filesystem; an empty dir means the current directory.
func New(fs afero.Fs, dir string) *Exporter {
	if fs == nil {
		fs = afero.NewOsFs()
	}
	if dir == "" {
		dir = "."
	}
	return &Exporter{fs: fs, dir: dir}
}

// Path returns where Export would write the artifact for originalName.
func (e *Exporter) Path(originalName string) string {
	return filepath.Join(e.dir, FileName(originalName))
}

// Exists reports whether the artifact for originalName is already present.
func (e *Exporter) Exists(originalName string) bool {
	ok, err := afero.Exists(e.fs, e.Path(originalName))
	return err == nil && ok
}

// Export writes text byte-for-byte to {BaseName(originalName)}.md and returns
// the path. The content goes to a temporary file in the output directory
// that is renamed over the target, so repeated exports of the same text
// produce identical files. The temporary file is closed and removed on every
// failure path.
func (e *Exporter) Export(text, originalName string) (path string, err error) {
	if err := e.fs.MkdirAll(e.dir, 0o755); err != nil {
		return "", fmt.Errorf("creating output directory %s: %w", e.dir, err)
	}

	tmp, err := afero.TempFile(e.fs, e.dir, ".doc2md-*.tmp")
	if err != nil {
		return "", fmt.Errorf("creating temporary file: %w", err)
	}
	tmpName := tmp.Name()
	closed, saved := false, false
	defer func() {
		if !closed {
			tmp.Close()
		}
		if !saved {
			e.fs.Remove(tmpName)
		}
	}()

	if _, err := tmp.WriteString(text); err != nil {
		return "", fmt.Errorf("writing %s: %w", tmpName, err)
	}
	closed = true
	if err := tmp.Close(); err != nil {
		return "", fmt.Errorf("closing %s: %w", tmpName, err)
	}

	path = e.Path(originalName)
	if err := e.fs.Chmod(tmpName, 0o644); err != nil && !os.IsNotExist(err) {
		return "", fmt.Errorf("setting permissions on %s: %w", tmpName, err)
	}
	if err := e.fs.Rename(tmpName, path); err != nil {
		return "", fmt.Errorf("saving %s: %w", path, err)
	}
	saved = true
	return path, nil
}
