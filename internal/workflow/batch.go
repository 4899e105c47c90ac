// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package workflow

import (
	"context"
	"fmt"
	"io"
	"path/filepath"

	"github.com/pdiddy/doc2md/internal/selector"
	"github.com/pdiddy/doc2md/pkg/types"
)

// BatchResult holds the outcome of a batch conversion run.
type BatchResult struct {
	Items     []types.BatchItem
	Converted int
	Skipped   int
	Failed    int
}

// Total returns the total number of files processed.
func (r BatchResult) Total() int {
	return r.Converted + r.Skipped + r.Failed
}

// HasFailures reports whether any file failed conversion.
func (r BatchResult) HasFailures() bool {
	return r.Failed > 0
}

func (r *BatchResult) add(item types.BatchItem) {
	r.Items = append(r.Items, item)
	switch item.Status {
	case types.ConversionDone:
		r.Converted++
	case types.ConversionSkipped:
		r.Skipped++
	case types.ConversionFailed:
		r.Failed++
	}
}

// BatchOptions tunes ConvertBatch.
type BatchOptions struct {
	// SkipExisting skips inputs whose .md output already exists.
	SkipExisting bool
}

// ConvertBatch runs one fresh workflow per path, in order: select, convert,
// export. Only Completed results are exported; a Failed result counts as a
// failure and an empty result as skipped. Per-file status lines and a summary
// are written to out. Cancelling ctx stops the run before the next file.
func ConvertBatch(ctx context.Context, newWorkflow func() *Workflow, paths []string, opts BatchOptions, out io.Writer) BatchResult {
	var result BatchResult
	for _, p := range paths {
		if ctx.Err() != nil {
			fmt.Fprintf(out, "cancelled: %d file(s) not processed\n", len(paths)-result.Total())
			break
		}
		item := convertOne(ctx, newWorkflow(), p, opts)
		switch item.Status {
		case types.ConversionDone:
			fmt.Fprintf(out, "converted: %s -> %s\n", p, item.Output)
		case types.ConversionSkipped:
			fmt.Fprintf(out, "skipped: %s (%s)\n", p, item.Message)
		case types.ConversionFailed:
			fmt.Fprintf(out, "failed:  %s (%s)\n", p, item.Message)
		}
		result.add(item)
	}
	fmt.Fprintf(out, "\nBatch summary: %d converted, %d skipped, %d failed (total: %d)\n",
		result.Converted, result.Skipped, result.Failed, result.Total())
	return result
}

func convertOne(ctx context.Context, wf *Workflow, path string, opts BatchOptions) types.BatchItem {
	item := types.BatchItem{Path: path}

	if opts.SkipExisting && wf.exporter.Exists(filepath.Base(path)) {
		item.Status = types.ConversionSkipped
		item.Message = "already exists"
		return item
	}

	if _, err := wf.SelectFile(selector.PickEvent{Files: []string{path}}); err != nil {
		item.Status = types.ConversionFailed
		item.Message = err.Error()
		return item
	}

	wf.Convert(ctx)
	snap := wf.Snapshot()

	switch {
	case snap.Status == types.StateFailed:
		item.Status = types.ConversionFailed
		item.Message = snap.DisplayText()
	case !snap.CanExport():
		item.Status = types.ConversionSkipped
		item.Message = "empty result"
	default:
		out, _, err := wf.Export()
		if err != nil {
			item.Status = types.ConversionFailed
			item.Message = err.Error()
			return item
		}
		item.Status = types.ConversionDone
		item.Output = out
	}
	return item
}
