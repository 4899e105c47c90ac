// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package present renders workflow snapshots to a terminal. Themes change
// colors only; every theme shows the same information.
package present

import (
	"fmt"
	"io"
	"strings"
	"sync"
	"time"

	"github.com/briandowns/spinner"
	"github.com/fatih/color"

	"github.com/pdiddy/doc2md/pkg/types"
)

// palette holds the colors a theme applies.
type palette struct {
	title  *color.Color
	accent *color.Color
	muted  *color.Color
	active *color.Color
}

func paletteFor(theme types.Theme) palette {
	switch theme {
	case types.ThemeLight:
		return palette{
			title:  color.New(color.FgBlue, color.Bold),
			accent: color.New(color.FgBlue),
			muted:  color.New(color.FgBlack),
			active: color.New(color.FgMagenta, color.Bold),
		}
	case types.ThemePlain:
		p := palette{
			title:  color.New(),
			accent: color.New(),
			muted:  color.New(),
			active: color.New(),
		}
		for _, c := range []*color.Color{p.title, p.accent, p.muted, p.active} {
			c.DisableColor()
		}
		return p
	default:
		return palette{
			title:  color.New(color.FgHiCyan, color.Bold),
			accent: color.New(color.FgHiBlue),
			muted:  color.New(color.FgHiBlack),
			active: color.New(color.FgHiMagenta, color.Bold),
		}
	}
}

var statusLabels = map[types.WorkflowState]string{
	types.StateIdle:       "waiting for a file",
	types.StateFileChosen: "ready to convert",
	types.StateConverting: "converting",
	types.StateCompleted:  "done",
	types.StateFailed:     "done",
}

// Renderer prints snapshots to out.
type Renderer struct {
	out     io.Writer
	palette palette

	mu      sync.Mutex
	spinner *spinner.Spinner
}

// Option configures a Renderer.
type Option func(*Renderer)

// WithSpinner animates a spinner on out while a conversion is in flight.
// Only enable it when out is a terminal.
func WithSpinner() Option {
	return func(r *Renderer) {
		s := spinner.New(spinner.CharSets[14], 100*time.Millisecond)
		s.Writer = r.out
		r.spinner = s
	}
}

// New creates a Renderer for theme.
func New(theme types.Theme, out io.Writer, opts ...Option) *Renderer {
	r := &Renderer{out: out, palette: paletteFor(theme)}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// View returns the text projection of s. It has no side effects.
func (r *Renderer) View(s types.Snapshot) string {
	p := r.palette
	var b strings.Builder

	fmt.Fprintf(&b, "%s %s\n", p.title.Sprint("Document to Markdown"), p.muted.Sprintf("[%s]", statusLabels[s.Status]))

	if s.Dragging {
		fmt.Fprintf(&b, "%s\n", p.active.Sprint("» drop the file to select it"))
	}

	if s.File != nil {
		fmt.Fprintf(&b, "file: %s %s\n", p.accent.Sprint(s.File.Name), p.muted.Sprintf("(%s)", humanSize(s.File.Size)))
	} else {
		fmt.Fprintf(&b, "file: %s\n", p.muted.Sprint("none (pick or drop a document)"))
	}

	fmt.Fprintf(&b, "actions: convert %s, download %s\n", r.toggle(s.CanConvert()), r.toggle(s.CanExport()))

	if s.Result != nil {
		fmt.Fprintf(&b, "%s\n", p.muted.Sprint("──── result ────"))
		b.WriteString(s.Result.Text)
		if !strings.HasSuffix(s.Result.Text, "\n") {
			b.WriteString("\n")
		}
	}
	return b.String()
}

func (r *Renderer) toggle(on bool) string {
	if on {
		return r.palette.accent.Sprint("[enabled]")
	}
	return r.palette.muted.Sprint("[disabled]")
}

// Render writes the view of s, starting or stopping the spinner to match
// the Converting state.
func (r *Renderer) Render(s types.Snapshot) {
	r.mu.Lock()
	defer r.mu.Unlock()

	converting := s.Status == types.StateConverting
	if r.spinner != nil {
		if converting && !r.spinner.Active() {
			name := ""
			if s.File != nil {
				name = s.File.Name
			}
			r.spinner.Suffix = " converting " + name
			r.spinner.Start()
			return
		}
		if !converting && r.spinner.Active() {
			r.spinner.Stop()
		}
		if converting {
			return
		}
	}
	fmt.Fprint(r.out, r.View(s))
}

// Notice prints a one-line message in the accent color.
func (r *Renderer) Notice(format string, args ...any) {
	r.mu.Lock()
	defer r.mu.Unlock()
	fmt.Fprintln(r.out, r.palette.accent.Sprintf(format, args...))
}

// Close stops the spinner if it is running.
func (r *Renderer) Close() {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.spinner != nil && r.spinner.Active() {
		r.spinner.Stop()
	}
}

func humanSize(n int64) string {
	const unit = 1024
	if n < unit {
		return fmt.Sprintf("%d B", n)
	}
	div, exp := int64(unit), 0
	for m := n / unit; m >= unit; m /= unit {
		div *= unit
		exp++
	}
	return fmt.Sprintf("%.1f %ciB", float64(n)/float64(div), "KMGTPE"[exp])
}
