package main

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"
	"strings"
	"sync"

	"github.com/fatih/color"
	"github.com/rs/zerolog"
	"github.com/spf13/afero"
	"github.com/spf13/cobra"

	"github.com/pdiddy/doc2md/internal/present"
	"github.com/pdiddy/doc2md/internal/selector"
	"github.com/pdiddy/doc2md/internal/workflow"
	"github.com/pdiddy/doc2md/pkg/types"
)

const sessionHelp = `commands:
  pick <file> [more...]   select a file (only the first is used)
  drag-enter | drag-leave toggle the drop-target highlight
  drop <file> [more...]   drop files onto the target (only the first is used)
  convert                 start converting the selected file in the background
  wait                    block until the running conversion finishes
  download                save the displayed text as {name}.md
  status                  show the current state
  help                    show this help
  quit                    leave (waits for a running conversion)`

var sessionCmd = &cobra.Command{
	Use:   "session",
	Short: "Interactively pick, convert, and download one document at a time",
	Long: `Session reads one command per line from stdin and renders the workflow
after every change. Conversion runs in the background, so a new file may be
picked while a request is in flight; the older response is then discarded.

` + sessionHelp,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		out := cmd.OutOrStdout()
		var opts []present.Option
		if out == os.Stdout && !color.NoColor {
			opts = append(opts, present.WithSpinner())
		}
		r := present.New(appConfig.Presentation.Theme, out, opts...)
		defer r.Close()
		return runSession(cmd.Context(), cmd.InOrStdin(), r, appConfig, afero.NewOsFs(), logger)
	},
}

func init() {
	rootCmd.AddCommand(sessionCmd)
}

// runSession drives one workflow from line-oriented commands on in until
// "quit" or end of input.
func runSession(ctx context.Context, in io.Reader, r *present.Renderer, cfg types.AppConfig, fs afero.Fs, log zerolog.Logger) error {
	wf := newWorkflowFactory(cfg, fs, log, workflow.WithOnChange(r.Render))()

	var inflight sync.WaitGroup
	defer inflight.Wait()

	r.Render(wf.Snapshot())

	sc := bufio.NewScanner(in)
	for sc.Scan() {
		fields := strings.Fields(sc.Text())
		if len(fields) == 0 {
			continue
		}
		verb, rest := fields[0], fields[1:]

		switch verb {
		case "pick":
			selectFile(wf, r, selector.PickEvent{Files: rest})
		case "drop":
			selectFile(wf, r, &selector.DropEvent{Files: rest})
		case "drag-enter":
			wf.DragEnter()
		case "drag-leave":
			wf.DragLeave()
		case "convert":
			if !wf.Snapshot().CanConvert() {
				r.Notice("convert is disabled")
				continue
			}
			inflight.Add(1)
			go func() {
				defer inflight.Done()
				wf.Convert(ctx)
			}()
		case "wait":
			inflight.Wait()
		case "download":
			path, ok, err := wf.Export()
			switch {
			case err != nil:
				r.Notice("download failed: %v", err)
			case !ok:
				r.Notice("download is disabled")
			default:
				r.Notice("saved %s", path)
			}
		case "status":
			r.Render(wf.Snapshot())
		case "help":
			r.Notice("%s", sessionHelp)
		case "quit", "exit":
			return nil
		default:
			r.Notice("unknown command %q (try help)", verb)
		}
	}
	if err := sc.Err(); err != nil {
		return fmt.Errorf("reading commands: %w", err)
	}
	return nil
}

func selectFile(wf *workflow.Workflow, r *present.Renderer, src selector.Source) {
	ok, err := wf.SelectFile(src)
	switch {
	case err != nil:
		r.Notice("could not select file: %v", err)
	case !ok:
		r.Notice("no file given")
	}
}
