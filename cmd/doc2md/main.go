// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package main is the entry point for the doc2md CLI. doc2md uploads a local
// document to a remote conversion service, shows the Markdown it returns,
// and saves it next to the original name as {base name}.md.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/pdiddy/doc2md/internal/config"
	"github.com/pdiddy/doc2md/internal/logging"
	"github.com/pdiddy/doc2md/pkg/types"
)

// version is set at build time via ldflags.
var version = "dev"

// appConfig and logger are resolved once in PersistentPreRunE.
var (
	appConfig types.AppConfig
	logger    = zerolog.Nop()
)

// rootCmd is the base command for the doc2md CLI.
var rootCmd = &cobra.Command{
	Use:   "doc2md",
	Short: "Convert documents to Markdown with a remote conversion service",
	Long: `doc2md sends one document at a time to a conversion service
(POST {base_url}/convert) and saves the Markdown it returns as {name}.md.

Use "convert" for one-shot and batch conversion, "session" for an interactive
pick/convert/download loop, and "stub-server" to run a local stand-in for the
service. The service address comes from --base-url, DOC2MD_BASE_URL, a .env
file, or the config file, and falls back to the hosted default.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		envFile, _ := cmd.Flags().GetString("env-file")
		if err := config.LoadDotEnv(envFile); err != nil {
			return err
		}
		cfg, err := config.Resolve(viper.GetViper())
		if err != nil {
			return err
		}
		appConfig = cfg
		logger = logging.New(cfg.Log, os.Stderr)
		logger.Debug().Str("base_url", cfg.Service.BaseURL).Msg("configuration resolved")
		return nil
	},
}

func init() {
	cobra.OnInitialize(initConfig)

	pf := rootCmd.PersistentFlags()
	pf.String("config", "", "config file (default: ./doc2md.yaml or ~/.config/doc2md/doc2md.yaml)")
	pf.String("env-file", ".env", "dotenv file loaded before reading the environment")
	pf.String("base-url", "", "conversion service address (default "+types.DefaultBaseURL+")")
	pf.Duration("timeout", 0, "HTTP request timeout (default 2m)")
	pf.String("out-dir", "", "directory for exported .md files (default .)")
	pf.String("theme", "", "presentation theme: dark, light, or plain (default dark)")
	pf.String("log-level", "", "log level: debug, info, warn, error (default info)")
	pf.String("log-format", "", "log format: console or json (default console)")

	for key, flag := range map[string]string{
		config.KeyBaseURL:   "base-url",
		config.KeyTimeout:   "timeout",
		config.KeyOutDir:    "out-dir",
		config.KeyTheme:     "theme",
		config.KeyLogLevel:  "log-level",
		config.KeyLogFormat: "log-format",
	} {
		_ = viper.BindPFlag(key, pf.Lookup(flag))
	}
}

func initConfig() {
	cfgFile, _ := rootCmd.PersistentFlags().GetString("config")
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.SetConfigName("doc2md")
		viper.SetConfigType("yaml")
		viper.AddConfigPath(".")

		home, err := os.UserHomeDir()
		if err == nil {
			viper.AddConfigPath(filepath.Join(home, ".config", "doc2md"))
		}
	}

	config.Bind(viper.GetViper())

	if err := viper.ReadInConfig(); err == nil {
		fmt.Fprintln(os.Stderr, "Using config file:", viper.ConfigFileUsed())
	}
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	err := rootCmd.ExecuteContext(ctx)
	stop()
	if err != nil {
		os.Exit(1)
	}
}
