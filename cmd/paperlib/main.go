// Package main is the paperlib command line. Without a subcommand it opens
// the terminal UI; the subcommands script the same library.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/csheth/paperlib/internal/config"
	"github.com/csheth/paperlib/internal/logging"
)

// version is set at build time via ldflags.
var version = "dev"

// logToFile marks commands that own the terminal; they log to log.file.
const logToFile = "log-to-file"

var (
	cfg    config.Config
	logger = zap.NewNop()
)

var rootCmd = &cobra.Command{
	Use:   "paperlib",
	Short: "Search arXiv and keep a personal reading list",
	Long: `paperlib searches arXiv, keeps the papers you care about in three
buckets (want to read, reading, read) and summarizes them on demand.

Run without a subcommand to open the terminal UI. The subcommands cover the
same operations for scripts, plus an HTTP API (serve) and S3 backups.`,
	SilenceUsage:      true,
	Annotations:       map[string]string{logToFile: "true"},
	PersistentPreRunE: setup,
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		_ = logger.Sync()
	},
	RunE: runTUI,
}

func init() {
	flags := rootCmd.PersistentFlags()
	flags.String("config", "", "config file (default: ./paperlib.yaml or ~/.config/paperlib/config.yaml)")
	flags.String("env-file", ".env", "dotenv file loaded before the environment is read")
	flags.String("library", "", "library snapshot path (overrides library.path)")
	flags.String("store", "", "library backend: file or bolt (overrides library.store)")
	flags.String("log-level", "", "log level (overrides log.level)")

	_ = viper.BindPFlag("library.path", flags.Lookup("library"))
	_ = viper.BindPFlag("library.store", flags.Lookup("store"))
	_ = viper.BindPFlag("log.level", flags.Lookup("log-level"))

	addTUIFlags(rootCmd)
}

// setup loads the configuration and builds the logger before any command runs.
func setup(cmd *cobra.Command, args []string) error {
	cfgFile, _ := cmd.Flags().GetString("config")
	envFile, _ := cmd.Flags().GetString("env-file")

	loaded, err := config.Load(viper.GetViper(), cfgFile, envFile)
	if err != nil {
		return err
	}
	cfg = loaded
	if used := viper.ConfigFileUsed(); used != "" && cmd.Annotations[logToFile] == "" {
		fmt.Fprintln(os.Stderr, "Using config file:", used)
	}

	logFile := ""
	if cmd.Annotations[logToFile] != "" {
		logFile = cfg.Log.File
	}
	l, err := logging.New(cfg.Log.Level, logFile)
	if err != nil {
		return err
	}
	logger = l
	return nil
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
