// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package workflow

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pdiddy/doc2md/internal/convert"
	"github.com/pdiddy/doc2md/internal/export"
	"github.com/pdiddy/doc2md/internal/selector"
	"github.com/pdiddy/doc2md/pkg/types"
)

// fakeConverter returns canned Markdown or an error.
type fakeConverter struct {
	markdown string
	err      error
	calls    int32
}

func (f *fakeConverter) Convert(_ context.Context, _ types.SelectedFile) (string, error) {
	atomic.AddInt32(&f.calls, 1)
	return f.markdown, f.err
}

// blockingConverter holds each request until release is closed or the
// request context is cancelled.
type blockingConverter struct {
	markdown string
	started  chan string
	release  chan struct{}
	calls    int32
}

func newBlockingConverter(markdown string) *blockingConverter {
	return &blockingConverter{
		markdown: markdown,
		started:  make(chan string, 8),
		release:  make(chan struct{}),
	}
}

func (b *blockingConverter) Convert(ctx context.Context, f types.SelectedFile) (string, error) {
	atomic.AddInt32(&b.calls, 1)
	b.started <- f.Name
	select {
	case <-ctx.Done():
		return "", ctx.Err()
	case <-b.release:
		return b.markdown, nil
	}
}

type fixture struct {
	fs afero.Fs
	wf *Workflow
}

func newFixture(t *testing.T, conv convert.Converter, opts ...Option) *fixture {
	t.Helper()
	fs := afero.NewMemMapFs()
	for name, content := range map[string]string{
		"/in/notes.pdf":  "%PDF notes",
		"/in/x.docx":     "PK docx",
		"/in/other.pptx": "PK pptx",
	} {
		require.NoError(t, afero.WriteFile(fs, name, []byte(content), 0o644))
	}
	wf := New(selector.New(fs), conv, export.New(fs, "/out"), opts...)
	return &fixture{fs: fs, wf: wf}
}

func (f *fixture) pick(t *testing.T, path string) {
	t.Helper()
	ok, err := f.wf.SelectFile(selector.PickEvent{Files: []string{path}})
	require.NoError(t, err)
	require.True(t, ok)
}

func waitStarted(t *testing.T, b *blockingConverter) string {
	t.Helper()
	select {
	case name := <-b.started:
		return name
	case <-time.After(2 * time.Second):
		t.Fatal("conversion never started")
		return ""
	}
}

func TestWorkflow_IdlePreconditions(t *testing.T) {
	conv := &fakeConverter{markdown: "x"}
	f := newFixture(t, conv)

	snap := f.wf.Snapshot()
	assert.Equal(t, types.StateIdle, snap.Status)
	assert.Nil(t, snap.File)
	assert.Nil(t, snap.Result)
	assert.False(t, snap.CanConvert())
	assert.False(t, snap.CanExport())

	assert.False(t, f.wf.Convert(context.Background()), "convert without a file is a no-op")
	assert.Equal(t, int32(0), atomic.LoadInt32(&conv.calls))

	_, ok, err := f.wf.Export()
	require.NoError(t, err)
	assert.False(t, ok)
	assert.Equal(t, types.StateIdle, f.wf.Snapshot().Status)
}

func TestWorkflow_EndToEndMarkdown(t *testing.T) {
	var requests int32
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&requests, 1)
		if r.URL.Path != "/convert" || r.Method != http.MethodPost {
			http.NotFound(w, r)
			return
		}
		io.WriteString(w, `{"markdown":"# Title\n\nBody"}`)
	}))
	defer ts.Close()

	client := convert.NewClient(types.ServiceConfig{BaseURL: ts.URL}, ts.Client())
	f := newFixture(t, client)

	f.pick(t, "/in/notes.pdf")
	assert.Equal(t, types.StateFileChosen, f.wf.Snapshot().Status)

	require.True(t, f.wf.Convert(context.Background()))
	snap := f.wf.Snapshot()
	assert.Equal(t, types.StateCompleted, snap.Status)
	assert.Equal(t, "# Title\n\nBody", snap.DisplayText())
	assert.Equal(t, types.ResultMarkdown, snap.Result.Kind)
	assert.Equal(t, int32(1), atomic.LoadInt32(&requests))

	path, ok, err := f.wf.Export()
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, "/out/notes.md", path)

	data, err := afero.ReadFile(f.fs, path)
	require.NoError(t, err)
	assert.Equal(t, "# Title\n\nBody", string(data))
}

func TestWorkflow_EndToEndServiceError(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		io.WriteString(w, `{"error":"unsupported format"}`)
	}))
	defer ts.Close()

	f := newFixture(t, convert.NewClient(types.ServiceConfig{BaseURL: ts.URL}, ts.Client()))
	f.pick(t, "/in/x.docx")
	require.True(t, f.wf.Convert(context.Background()))

	snap := f.wf.Snapshot()
	assert.Equal(t, types.StateFailed, snap.Status)
	assert.Equal(t, "unsupported format", snap.DisplayText())
	assert.Equal(t, types.ResultMessage, snap.Result.Kind)
	assert.True(t, snap.CanExport(), "message results remain exportable")

	path, ok, err := f.wf.Export()
	require.NoError(t, err)
	require.True(t, ok)
	data, err := afero.ReadFile(f.fs, path)
	require.NoError(t, err)
	assert.Equal(t, "/out/x.md", path)
	assert.Equal(t, "unsupported format", string(data))
}

func TestWorkflow_TransportError(t *testing.T) {
	f := newFixture(t, &fakeConverter{err: errors.New("dial tcp: connection refused")})
	f.pick(t, "/in/notes.pdf")
	require.True(t, f.wf.Convert(context.Background()))

	snap := f.wf.Snapshot()
	assert.Equal(t, types.StateFailed, snap.Status)
	assert.Equal(t, "Error: dial tcp: connection refused", snap.DisplayText())
}

func TestWorkflow_EmptyResult(t *testing.T) {
	f := newFixture(t, &fakeConverter{})
	f.pick(t, "/in/notes.pdf")
	require.True(t, f.wf.Convert(context.Background()))

	snap := f.wf.Snapshot()
	assert.Equal(t, types.StateCompleted, snap.Status)
	require.NotNil(t, snap.Result)
	assert.Equal(t, "", snap.DisplayText())
	assert.False(t, snap.CanExport())

	_, ok, err := f.wf.Export()
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestWorkflow_SingleFlight(t *testing.T) {
	conv := newBlockingConverter("done")
	f := newFixture(t, conv)
	f.pick(t, "/in/notes.pdf")

	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		assert.True(t, f.wf.Convert(context.Background()))
	}()
	waitStarted(t, conv)

	assert.Equal(t, types.StateConverting, f.wf.Snapshot().Status)
	assert.False(t, f.wf.Convert(context.Background()), "second convert is rejected")
	assert.False(t, f.wf.Snapshot().CanConvert())

	_, ok, err := f.wf.Export()
	require.NoError(t, err)
	assert.False(t, ok, "export is disabled while converting")

	close(conv.release)
	wg.Wait()

	assert.Equal(t, int32(1), atomic.LoadInt32(&conv.calls))
	assert.Equal(t, types.StateCompleted, f.wf.Snapshot().Status)
	assert.Equal(t, "done", f.wf.Snapshot().DisplayText())
}

func TestWorkflow_SingleFlightOverHTTP(t *testing.T) {
	var requests int32
	release := make(chan struct{})
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&requests, 1)
		<-release
		io.WriteString(w, `{"markdown":"ok"}`)
	}))
	defer ts.Close()

	f := newFixture(t, convert.NewClient(types.ServiceConfig{BaseURL: ts.URL}, ts.Client()))
	f.pick(t, "/in/notes.pdf")

	done := make(chan bool)
	go func() { done <- f.wf.Convert(context.Background()) }()
	require.Eventually(t, func() bool { return atomic.LoadInt32(&requests) == 1 }, 2*time.Second, 5*time.Millisecond)

	assert.False(t, f.wf.Convert(context.Background()))
	close(release)
	assert.True(t, <-done)
	assert.Equal(t, int32(1), atomic.LoadInt32(&requests))
}

func TestWorkflow_ReselectClearsResult(t *testing.T) {
	for _, tc := range []struct {
		name string
		conv convert.Converter
		want types.WorkflowState
	}{
		{"from completed", &fakeConverter{markdown: "# A"}, types.StateCompleted},
		{"from failed", &fakeConverter{err: errors.New("boom")}, types.StateFailed},
	} {
		t.Run(tc.name, func(t *testing.T) {
			f := newFixture(t, tc.conv)
			f.pick(t, "/in/notes.pdf")
			f.wf.Convert(context.Background())
			require.Equal(t, tc.want, f.wf.Snapshot().Status)

			f.pick(t, "/in/x.docx")
			snap := f.wf.Snapshot()
			assert.Equal(t, types.StateFileChosen, snap.Status)
			assert.Nil(t, snap.Result)
			assert.Equal(t, "x.docx", snap.File.Name)
			assert.False(t, snap.CanExport())
		})
	}
}

func TestWorkflow_StaleResponseDiscarded(t *testing.T) {
	conv := newBlockingConverter("stale markdown")
	f := newFixture(t, conv)
	f.pick(t, "/in/notes.pdf")

	done := make(chan bool)
	go func() { done <- f.wf.Convert(context.Background()) }()
	assert.Equal(t, "notes.pdf", waitStarted(t, conv))

	// Selecting during the request cancels it and discards its outcome.
	f.pick(t, "/in/other.pptx")
	assert.True(t, <-done)

	snap := f.wf.Snapshot()
	assert.Equal(t, types.StateFileChosen, snap.Status)
	assert.Nil(t, snap.Result)
	assert.Equal(t, "other.pptx", snap.File.Name)

	// The new selection converts normally.
	go func() { done <- f.wf.Convert(context.Background()) }()
	assert.Equal(t, "other.pptx", waitStarted(t, conv))
	close(conv.release)
	assert.True(t, <-done)
	assert.Equal(t, types.StateCompleted, f.wf.Snapshot().Status)
	assert.Equal(t, "stale markdown", f.wf.Snapshot().DisplayText())
}

func TestWorkflow_ReconvertRoutesThroughFileChosen(t *testing.T) {
	var mu sync.Mutex
	var seen []types.WorkflowState
	record := func(s types.Snapshot) {
		mu.Lock()
		defer mu.Unlock()
		if len(seen) == 0 || seen[len(seen)-1] != s.Status {
			seen = append(seen, s.Status)
		}
	}

	conv := &fakeConverter{markdown: "# again"}
	f := newFixture(t, conv, WithOnChange(record))
	f.pick(t, "/in/notes.pdf")
	require.True(t, f.wf.Convert(context.Background()))
	require.True(t, f.wf.Convert(context.Background()))

	mu.Lock()
	defer mu.Unlock()
	assert.Equal(t, []types.WorkflowState{
		types.StateFileChosen,
		types.StateConverting,
		types.StateCompleted,
		types.StateConverting,
		types.StateCompleted,
	}, seen)
	assert.Equal(t, int32(2), atomic.LoadInt32(&conv.calls))
	for _, s := range seen {
		assert.NotEqual(t, types.StateIdle, s, "no transition returns to Idle")
	}
}

func TestWorkflow_SelectFileNoopAndErrors(t *testing.T) {
	f := newFixture(t, &fakeConverter{markdown: "m"})
	f.pick(t, "/in/notes.pdf")
	f.wf.Convert(context.Background())
	before := f.wf.Snapshot()

	ok, err := f.wf.SelectFile(selector.PickEvent{})
	require.NoError(t, err)
	assert.False(t, ok)
	assert.Equal(t, before, f.wf.Snapshot(), "empty gesture changes nothing")

	ok, err = f.wf.SelectFile(selector.PickEvent{Files: []string{"/in/missing.pdf"}})
	assert.Error(t, err)
	assert.False(t, ok)
	assert.Equal(t, before, f.wf.Snapshot(), "unreadable file changes nothing")
}

func TestWorkflow_DragAndDrop(t *testing.T) {
	f := newFixture(t, &fakeConverter{markdown: "m"})

	f.wf.DragEnter()
	assert.True(t, f.wf.Snapshot().Dragging)
	f.wf.DragLeave()
	assert.False(t, f.wf.Snapshot().Dragging)

	f.wf.DragEnter()
	drop := &selector.DropEvent{Files: []string{"/in/x.docx", "/in/notes.pdf"}}
	ok, err := f.wf.SelectFile(drop)
	require.NoError(t, err)
	require.True(t, ok)

	snap := f.wf.Snapshot()
	assert.False(t, snap.Dragging)
	assert.True(t, drop.DefaultPrevented())
	assert.Equal(t, "x.docx", snap.File.Name)
	assert.Equal(t, types.StateFileChosen, snap.Status)
}

func TestWorkflow_ConvertHonorsCallerContext(t *testing.T) {
	conv := newBlockingConverter("never")
	f := newFixture(t, conv)
	f.pick(t, "/in/notes.pdf")

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan bool)
	go func() { done <- f.wf.Convert(ctx) }()
	waitStarted(t, conv)
	cancel()
	assert.True(t, <-done)

	snap := f.wf.Snapshot()
	assert.Equal(t, types.StateFailed, snap.Status)
	assert.Equal(t, "Error: "+context.Canceled.Error(), snap.DisplayText())
}
