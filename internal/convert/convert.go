// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package convert talks to the remote document-to-Markdown service and turns
// its responses into ConversionResults.
package convert

import (
	"context"
	"errors"

	"github.com/pdiddy/doc2md/pkg/types"
)

// Converter transforms a document into Markdown text. The remote service
// client implements it; tests substitute fakes.
type Converter interface {
	// Convert sends file for conversion and returns the Markdown text.
	// A semantic failure reported by the service is returned as *ServiceError;
	// any other error is a transport or parse failure.
	Convert(ctx context.Context, file types.SelectedFile) (string, error)
}

// ServiceError is a failure reported by the conversion service in its
// response body. Message is shown to the user verbatim.
type ServiceError struct {
	Message string
}

func (e *ServiceError) Error() string { return e.Message }

// transportPrefix precedes the description of client-side failures.
const transportPrefix = "Error: "

// Interpret maps the outcome of a Converter call to the result shown to the
// user. Exactly one of three cases applies: success yields the Markdown
// verbatim, a ServiceError yields its message verbatim, and anything else
// yields "Error: " followed by the error description.
func Interpret(markdown string, err error) types.ConversionResult {
	if err == nil {
		return types.MarkdownResult(markdown)
	}
	var se *ServiceError
	if errors.As(err, &se) {
		return types.MessageResult(se.Message)
	}
	return types.MessageResult(transportPrefix + err.Error())
}
