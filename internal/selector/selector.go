// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package selector resolves the single document a user picked or dropped and
// tracks the drag-over highlight.
package selector

import (
	"fmt"
	"path/filepath"
	"sync"

	"github.com/spf13/afero"

	"github.com/pdiddy/doc2md/pkg/types"
)

// Source is a user gesture that yields candidate file paths.
type Source interface {
	// Paths returns the files carried by the gesture, in order.
	Paths() []string
}

// PickEvent is an explicit file-pick gesture.
type PickEvent struct {
	Files []string
}

func (e PickEvent) Paths() []string { return e.Files }

// DropEvent is a drag-and-drop gesture. Handling it marks it default-prevented
// so the environment does not also open or navigate to the dropped file.
type DropEvent struct {
	Files     []string
	prevented bool
}

func (e *DropEvent) Paths() []string { return e.Files }

// PreventDefault suppresses the environment's default drop handling.
func (e *DropEvent) PreventDefault() { e.prevented = true }

// DefaultPrevented reports whether PreventDefault was called.
func (e *DropEvent) DefaultPrevented() bool { return e.prevented }

// Selector reads the chosen file from a filesystem.
type Selector struct {
	fs afero.Fs

	mu       sync.Mutex
	dragging bool
}

// New creates a Selector that reads files from fs. A nil fs means the OS
// filesystem.
func New(fs afero.Fs) *Selector {
	if fs == nil {
		fs = afero.NewOsFs()
	}
	return &Selector{fs: fs}
}

// DragEnter sets the drag highlight.
func (s *Selector) DragEnter() { s.setDragging(true) }

// DragLeave clears the drag highlight.
func (s *Selector) DragLeave() { s.setDragging(false) }

// Dragging reports whether a drag is hovering over the drop target.
func (s *Selector) Dragging() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.dragging
}

func (s *Selector) setDragging(v bool) {
	s.mu.Lock()
	s.dragging = v
	s.mu.Unlock()
}

// Resolve returns the first file carried by src. ok is false when src has no
// files, in which case nothing should change. A drop always clears the drag
// highlight and is marked default-prevented, even when it carries no files.
// No type or size check is made.
func (s *Selector) Resolve(src Source) (file types.SelectedFile, ok bool, err error) {
	if drop, isDrop := src.(*DropEvent); isDrop {
		drop.PreventDefault()
		s.setDragging(false)
	}

	paths := src.Paths()
	if len(paths) == 0 {
		return types.SelectedFile{}, false, nil
	}

	path := paths[0]
	content, err := afero.ReadFile(s.fs, path)
	if err != nil {
		return types.SelectedFile{}, false, fmt.Errorf("reading %s: %w", path, err)
	}

	return types.SelectedFile{
		Name:    filepath.Base(path),
		Content: content,
		Size:    int64(len(content)),
	}, true, nil
}
