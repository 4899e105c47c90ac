// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package convert

import (
	"errors"
	"fmt"
	"testing"

	"github.com/pdiddy/doc2md/pkg/types"
)

func TestInterpret(t *testing.T) {
	tests := []struct {
		name     string
		markdown string
		err      error
		want     types.ConversionResult
	}{
		{
			name:     "markdown is kept verbatim",
			markdown: "  # Title\n\nBody <b>\n",
			want:     types.MarkdownResult("  # Title\n\nBody <b>\n"),
		},
		{
			name: "empty markdown",
			want: types.MarkdownResult(""),
		},
		{
			name: "service error message verbatim",
			err:  &ServiceError{Message: "unsupported format"},
			want: types.MessageResult("unsupported format"),
		},
		{
			name: "wrapped service error still unwraps",
			err:  fmt.Errorf("outer: %w", &ServiceError{Message: "too large"}),
			want: types.MessageResult("too large"),
		},
		{
			name: "transport failure gets prefix",
			err:  errors.New("connection refused"),
			want: types.MessageResult("Error: connection refused"),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Interpret(tt.markdown, tt.err)
			if got != tt.want {
				t.Errorf("Interpret() = %+v, want %+v", got, tt.want)
			}
		})
	}
}
