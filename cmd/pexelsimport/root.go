package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"runtime"
	"syscall"

	"github.com/spf13/cobra"

	"pexelsimport/pkg/config"
	"pexelsimport/pkg/logger"
	"pexelsimport/pkg/ui"
)

var (
	// Version information
	version   = "1.0.0"
	gitCommit = "unknown"
	buildDate = "unknown"

	// Global flags
	configFile string
	logLevel   string
	logFile    string
	libraryDir string
	profile    string
	noColor    bool
	quiet      bool
	verbose    bool
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "pexelsimport",
	Short: "Import Pexels photos into a local media library",
	Long: `pexelsimport resolves Pexels photo IDs, photo page URLs or "random" into
downloadable image URLs and imports them into a local media library.

Photos can be imported at any of the sizes Pexels offers, or downsized to a
custom width and height. Single imports get a title derived from the photo
page and a description crediting the photographer and Pexels.`,
	Version:       fmt.Sprintf("%s (commit: %s, built: %s)", version, gitCommit, buildDate),
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		if quiet {
			ui.SetQuietMode(true)
		}
		if noColor {
			ui.SetColor(false)
		}
	},
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		ui.PrintError(err.Error())
		stop()
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&configFile, "config", "c", "", "config file (default is ./.pexelsimport.yaml or ~/.config/pexelsimport/config.yaml)")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "log level (debug, info, warn, error)")
	rootCmd.PersistentFlags().StringVar(&logFile, "log-file", "", "also write logs to this file")
	rootCmd.PersistentFlags().StringVar(&libraryDir, "library-dir", "", "media library directory")
	rootCmd.PersistentFlags().StringVar(&profile, "profile", "", "stored API key profile")
	rootCmd.PersistentFlags().BoolVar(&noColor, "no-color", false, "disable colored output")
	rootCmd.PersistentFlags().BoolVarP(&quiet, "quiet", "q", false, "suppress all output except errors and results")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "log debug output (same as --log-level debug)")

	rootCmd.SetVersionTemplate(`pexelsimport {{.Version}}
Go Version: ` + runtime.Version() + `
OS/Arch: ` + runtime.GOOS + `/` + runtime.GOARCH + `
`)

	rootCmd.CompletionOptions.DisableDefaultCmd = true
}

// globalFlags collects the persistent flags understood by config.MergeCommandLineFlags
func globalFlags() map[string]interface{} {
	level := logLevel
	if verbose {
		level = "debug"
	}
	return map[string]interface{}{
		"log-level":   level,
		"log-file":    logFile,
		"library-dir": libraryDir,
		"profile":     profile,
		"no-color":    noColor,
	}
}

// loadConfig loads the configuration and initializes the global logger from it
func loadConfig(extra map[string]interface{}) (*config.Config, error) {
	flags := globalFlags()
	for k, v := range extra {
		flags[k] = v
	}

	cfg, err := config.Load(configFile, flags)
	if err != nil {
		return nil, err
	}

	if err := logger.Initialize(&cfg.Logging); err != nil {
		return nil, fmt.Errorf("failed to initialize logger: %w", err)
	}
	return cfg, nil
}
