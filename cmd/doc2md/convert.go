package main

import (
	"fmt"

	"github.com/rs/zerolog"
	"github.com/spf13/afero"
	"github.com/spf13/cobra"

	"github.com/pdiddy/doc2md/internal/convert"
	"github.com/pdiddy/doc2md/internal/export"
	"github.com/pdiddy/doc2md/internal/selector"
	"github.com/pdiddy/doc2md/internal/workflow"
	"github.com/pdiddy/doc2md/pkg/types"
)

var convertCmd = &cobra.Command{
	Use:   "convert [files...]",
	Short: "Convert documents to Markdown files",
	Long: `Convert uploads each file to the conversion service, one at a time, and
writes the returned Markdown to {out-dir}/{base name}.md. Files the service
rejects are reported and not written. The command fails when any file failed.`,
	Args: cobra.MinimumNArgs(1),
	RunE: runConvert,
}

func init() {
	convertCmd.Flags().Bool("skip-existing", false, "skip files whose .md output already exists")

	rootCmd.AddCommand(convertCmd)
}

func runConvert(cmd *cobra.Command, args []string) error {
	skip, _ := cmd.Flags().GetBool("skip-existing")

	factory := newWorkflowFactory(appConfig, afero.NewOsFs(), logger)
	result := workflow.ConvertBatch(cmd.Context(), factory, args, workflow.BatchOptions{SkipExisting: skip}, cmd.OutOrStdout())
	if result.HasFailures() {
		return fmt.Errorf("%d file(s) failed conversion", result.Failed)
	}
	return nil
}

// newWorkflowFactory returns a constructor for independent workflows that
// share one service client and output directory.
func newWorkflowFactory(cfg types.AppConfig, fs afero.Fs, log zerolog.Logger, opts ...workflow.Option) func() *workflow.Workflow {
	client := convert.NewClient(cfg.Service, nil)
	exp := export.New(fs, cfg.Export.OutDir)
	opts = append([]workflow.Option{workflow.WithLogger(log)}, opts...)
	return func() *workflow.Workflow {
		return workflow.New(selector.New(fs), client, exp, opts...)
	}
}
