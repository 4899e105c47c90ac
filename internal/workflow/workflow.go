// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package workflow owns the conversion state machine: one selected file, one
// in-flight request at most, and the result it produced.
//
//	Idle -> FileChosen -> Converting -> Completed | Failed
//	Completed | Failed -> FileChosen   (new selection, result discarded)
//
// Nothing returns to Idle once a file has been chosen.
package workflow

import (
	"context"
	"sync"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/pdiddy/doc2md/internal/convert"
	"github.com/pdiddy/doc2md/internal/export"
	"github.com/pdiddy/doc2md/internal/selector"
	"github.com/pdiddy/doc2md/pkg/types"
)

// Workflow is safe for concurrent use. Convert blocks for the duration of the
// remote request; SelectFile may be called from another goroutine meanwhile.
type Workflow struct {
	id        string
	selector  *selector.Selector
	converter convert.Converter
	exporter  *export.Exporter
	log       zerolog.Logger
	onChange  func(types.Snapshot)

	mu     sync.Mutex
	status types.WorkflowState
	file   *types.SelectedFile
	result *types.ConversionResult
	// generation increments on every selection. A request whose generation
	// is no longer current has its outcome discarded.
	generation uint64
	cancel     context.CancelFunc
}

// Option configures a Workflow.
type Option func(*Workflow)

// WithLogger sets the structured logger. The default discards everything.
func WithLogger(l zerolog.Logger) Option {
	return func(w *Workflow) { w.log = l }
}

// WithOnChange registers fn to receive a snapshot after every state change.
// fn runs on the goroutine that caused the change, outside the workflow lock.
func WithOnChange(fn func(types.Snapshot)) Option {
	return func(w *Workflow) { w.onChange = fn }
}

// New creates a Workflow in the Idle state.
func New(sel *selector.Selector, conv convert.Converter, exp *export.Exporter, opts ...Option) *Workflow {
	w := &Workflow{
		id:        uuid.New().String(),
		selector:  sel,
		converter: conv,
		exporter:  exp,
		log:       zerolog.Nop(),
		status:    types.StateIdle,
	}
	for _, opt := range opts {
		opt(w)
	}
	w.log = w.log.With().Str("workflow", w.id).Logger()
	return w
}

// ID returns the instance identifier used in logs.
func (w *Workflow) ID() string { return w.id }

// Snapshot returns a copy of the current state.
func (w *Workflow) Snapshot() types.Snapshot {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.snapshotLocked()
}

func (w *Workflow) snapshotLocked() types.Snapshot {
	s := types.Snapshot{
		ID:       w.id,
		Status:   w.status,
		Dragging: w.selector.Dragging(),
	}
	if w.file != nil {
		f := *w.file
		s.File = &f
	}
	if w.result != nil {
		r := *w.result
		s.Result = &r
	}
	return s
}

// DragEnter turns on the drop-target highlight.
func (w *Workflow) DragEnter() {
	w.selector.DragEnter()
	w.notify()
}

// DragLeave turns off the drop-target highlight.
func (w *Workflow) DragLeave() {
	w.selector.DragLeave()
	w.notify()
}

// SelectFile replaces the selected file with the first file carried by src
// and clears any result. It is allowed while a request is in flight; that
// request is cancelled and its outcome will be ignored. It reports false
// when src carried no files. A read error leaves the state unchanged.
func (w *Workflow) SelectFile(src selector.Source) (bool, error) {
	file, ok, err := w.selector.Resolve(src)
	if err != nil {
		w.log.Warn().Err(err).Msg("file selection failed")
		w.notify()
		return false, err
	}
	if !ok {
		w.notify()
		return false, nil
	}

	w.mu.Lock()
	if w.cancel != nil {
		w.cancel()
		w.cancel = nil
	}
	w.generation++
	w.file = &file
	w.result = nil
	w.transitionLocked(types.StateFileChosen)
	w.mu.Unlock()

	w.log.Info().Str("file", file.Name).Int64("bytes", file.Size).Msg("file selected")
	w.notify()
	return true, nil
}

// Convert sends the selected file to the conversion service and records the
// outcome. Without a selected file, or while another Convert is in flight,
// it does nothing and returns false. Otherwise it blocks until the request
// finishes and returns true, leaving the workflow Completed or Failed unless
// a newer selection superseded the request.
func (w *Workflow) Convert(ctx context.Context) bool {
	w.mu.Lock()
	if w.file == nil || w.status == types.StateConverting {
		status := w.status
		w.mu.Unlock()
		w.log.Debug().Str("status", string(status)).Msg("convert ignored")
		return false
	}
	if w.status.HasResult() {
		// A repeat conversion starts from a clean selection.
		w.result = nil
		w.transitionLocked(types.StateFileChosen)
	}
	gen := w.generation
	file := *w.file
	reqCtx, cancel := context.WithCancel(ctx)
	w.cancel = cancel
	w.transitionLocked(types.StateConverting)
	w.mu.Unlock()
	w.notify()

	markdown, err := w.converter.Convert(reqCtx, file)
	cancel()
	result := convert.Interpret(markdown, err)

	w.mu.Lock()
	if w.generation != gen {
		w.mu.Unlock()
		w.log.Info().Str("file", file.Name).Msg("discarding response for superseded selection")
		return true
	}
	w.cancel = nil
	w.result = &result
	if result.Kind == types.ResultMarkdown {
		w.transitionLocked(types.StateCompleted)
	} else {
		w.transitionLocked(types.StateFailed)
	}
	w.mu.Unlock()

	if err != nil {
		w.log.Warn().Err(err).Str("file", file.Name).Msg("conversion failed")
	} else {
		w.log.Info().Str("file", file.Name).Int("chars", len(markdown)).Msg("conversion completed")
	}
	w.notify()
	return true
}

// Export saves the displayed text as {base name}.md. It does nothing and
// returns ok=false when there is no text or a request is in flight. Both
// Markdown and Message results may be exported.
func (w *Workflow) Export() (path string, ok bool, err error) {
	w.mu.Lock()
	snap := w.snapshotLocked()
	w.mu.Unlock()

	if !snap.CanExport() {
		return "", false, nil
	}

	var name string
	if snap.File != nil {
		name = snap.File.Name
	}
	path, err = w.exporter.Export(snap.DisplayText(), name)
	if err != nil {
		w.log.Error().Err(err).Msg("export failed")
		return "", false, err
	}
	w.log.Info().Str("path", path).Str("kind", string(snap.Result.Kind)).Msg("result exported")
	return path, true, nil
}

func (w *Workflow) transitionLocked(to types.WorkflowState) {
	from := w.status
	w.status = to
	w.log.Debug().Str("from", string(from)).Str("to", string(to)).Msg("state transition")
}

func (w *Workflow) notify() {
	if w.onChange == nil {
		return
	}
	w.onChange(w.Snapshot())
}
