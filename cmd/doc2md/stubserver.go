package main

import (
	"github.com/spf13/cobra"

	"github.com/pdiddy/doc2md/internal/stubserver"
)

var stubServerCmd = &cobra.Command{
	Use:   "stub-server",
	Short: "Run a local stand-in for the conversion service",
	Long: `stub-server serves POST /convert and GET /health with the same contract as
the remote service. Text, Markdown, and CSV files convert; every other format
gets {"error": "unsupported format"}. Point doc2md at it with
--base-url http://127.0.0.1:8080.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		addr, _ := cmd.Flags().GetString("addr")
		logger.Info().Str("addr", addr).Msg("stub conversion service listening")
		return stubserver.Run(cmd.Context(), stubserver.New(logger), addr)
	},
}

func init() {
	stubServerCmd.Flags().String("addr", "127.0.0.1:8080", "listen address")

	rootCmd.AddCommand(stubServerCmd)
}
