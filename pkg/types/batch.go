// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

// ConversionStatus is the outcome of one file in a batch conversion run.
type ConversionStatus string

const (
	// ConversionSkipped means no request was made: the output already
	// existed or the service returned an empty result.
	ConversionSkipped ConversionStatus = "skipped"
	ConversionDone    ConversionStatus = "converted"
	ConversionFailed  ConversionStatus = "failed"
)

// BatchItem records the outcome for one input path.
type BatchItem struct {
	// Path is the input document path as given on the command line.
	Path string `json:"path" yaml:"path"`

	// Output is the exported .md path, empty unless Status is ConversionDone.
	Output string `json:"output,omitempty" yaml:"output,omitempty"`

	Status ConversionStatus `json:"status" yaml:"status"`

	// Message holds the failure text when Status is ConversionFailed.
	Message string `json:"message,omitempty" yaml:"message,omitempty"`
}
