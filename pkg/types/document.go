// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

// SelectedFile is the one document a workflow currently holds.
type SelectedFile struct {
	// Name is the base name of the resolved file (e.g. "notes.pdf").
	Name string `json:"name" yaml:"name"`

	// Content is the raw document bytes sent to the conversion service.
	Content []byte `json:"-" yaml:"-"`

	// Size is the byte size of Content.
	Size int64 `json:"size" yaml:"size"`
}

// ResultKind tags the provenance of a ConversionResult.
type ResultKind string

const (
	// ResultMarkdown is text returned by the service on success.
	ResultMarkdown ResultKind = "markdown"
	// ResultMessage is a service error or a client-side failure description.
	ResultMessage ResultKind = "message"
)

// ConversionResult is the text produced by a finished convert attempt.
// Both kinds render identically; Kind only records where Text came from.
type ConversionResult struct {
	Kind ResultKind `json:"kind" yaml:"kind"`
	Text string     `json:"text" yaml:"text"`
}

// MarkdownResult wraps a successful service response body.
func MarkdownResult(text string) ConversionResult {
	return ConversionResult{Kind: ResultMarkdown, Text: text}
}

// MessageResult wraps an error message.
func MessageResult(text string) ConversionResult {
	return ConversionResult{Kind: ResultMessage, Text: text}
}

// WorkflowState is the status of a conversion workflow.
type WorkflowState string

const (
	StateIdle       WorkflowState = "idle"
	StateFileChosen WorkflowState = "file_chosen"
	StateConverting WorkflowState = "converting"
	StateCompleted  WorkflowState = "completed"
	StateFailed     WorkflowState = "failed"
)

// HasResult reports whether a ConversionResult exists in this state.
func (s WorkflowState) HasResult() bool {
	return s == StateCompleted || s == StateFailed
}

// Snapshot is an immutable copy of a workflow's state, used for rendering.
type Snapshot struct {
	// ID identifies the workflow instance in logs.
	ID string `json:"id" yaml:"id"`

	Status   WorkflowState     `json:"status" yaml:"status"`
	File     *SelectedFile     `json:"file,omitempty" yaml:"file,omitempty"`
	Result   *ConversionResult `json:"result,omitempty" yaml:"result,omitempty"`
	Dragging bool              `json:"dragging" yaml:"dragging"`
}

// DisplayText returns the result text shown to the user, or "".
func (s Snapshot) DisplayText() string {
	if s.Result == nil {
		return ""
	}
	return s.Result.Text
}

// CanConvert reports whether a convert request may be issued.
func (s Snapshot) CanConvert() bool {
	return s.File != nil && s.Status != StateConverting
}

// CanExport reports whether the displayed text may be saved.
func (s Snapshot) CanExport() bool {
	return s.DisplayText() != "" && s.Status != StateConverting
}
