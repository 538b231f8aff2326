// SPDX-License-Identifier: MPL-2.0

package main

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/charmbracelet/fang"
	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/koentsje/enhancer/internal/config"
	"github.com/koentsje/enhancer/internal/issue"
)

var (
	// Version is the semantic version (set via -ldflags).
	Version = "dev"
	// Commit is the git commit hash (set via -ldflags).
	Commit = "unknown"
	// BuildDate is the build timestamp (set via -ldflags).
	BuildDate = "unknown"

	// verbose enables debug-level logging.
	verbose bool
	// cfgFile allows specifying a custom config file.
	cfgFile string

	// cfg is the resolved configuration, populated by initRootConfig
	// before any subcommand runs. cfgPath is the file it came from, or
	// empty when running on defaults.
	cfg     *config.Config
	cfgPath string

	// rootCmd represents the base command when called without any subcommands.
	rootCmd = &cobra.Command{
		Use:   "enhancer",
		Short: "A build-time bytecode enhancer for compiled class files",
		Long: TitleStyle.Render("enhancer") + SubtitleStyle.Render(" - A build-time bytecode enhancer") + `

enhancer rewrites compiled class files in place after compilation.
It discovers every selected type first, then applies association
management, dirty tracking, lazy initialization and extended
enhancement according to the configured capability flags.

Class files are selected with filesets: include and exclude glob
patterns rooted at the classes directory.

` + SubtitleStyle.Render("Examples:") + `
  enhancer run                        Enhance target/classes
  enhancer run --classes-dir build    Enhance a different output dir
  enhancer watch                      Re-enhance on class file changes
  enhancer config init                Create a default configuration`,
	}
)

func init() {
	cobra.OnInitialize(initRootConfig)

	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable verbose output")
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is $HOME/.config/enhancer/config.cue)")

	rootCmd.AddCommand(runCmd)
	rootCmd.AddCommand(watchCmd)
	rootCmd.AddCommand(configCmd)
}

// getVersionString returns a formatted version string for display.
func getVersionString() string {
	if Version == "dev" {
		return "dev (built from source)"
	}
	return fmt.Sprintf("%s (commit: %s, built: %s)", Version, Commit, BuildDate)
}

// execute runs the root command through fang. Called by main.main().
func execute() {
	if err := fang.Execute(
		context.Background(),
		rootCmd,
		fang.WithVersion(getVersionString()),
		fang.WithNotifySignal(os.Interrupt),
	); err != nil {
		var exitErr *ExitError
		if errors.As(err, &exitErr) {
			os.Exit(exitErr.Code)
		}
		os.Exit(1)
	}
}

// initRootConfig resolves the configuration before any subcommand runs.
func initRootConfig() {
	if cfgFile != "" {
		config.SetConfigFilePathOverride(cfgFile)
	}

	loaded, path, err := config.Load()
	if err != nil {
		// Config errors are surfaced but never hide the command output.
		fmt.Fprintln(os.Stderr, WarningStyle.Render("Warning: ")+formatErrorForDisplay(err, verbose))
	}
	if loaded == nil {
		loaded = config.DefaultConfig()
	}
	cfg = loaded
	cfgPath = path

	if !verbose {
		verbose = cfg.UI.Verbose
	}
}

// newLogger builds the logger used by the pipeline, honoring the
// verbose flag.
func newLogger() *log.Logger {
	logger := log.NewWithOptions(os.Stderr, log.Options{
		Prefix: "enhancer",
	})
	if verbose {
		logger.SetLevel(log.DebugLevel)
	}
	return logger
}

// formatErrorForDisplay formats an error for user display. Actionable
// errors render their suggestions; verbose mode shows the full chain.
func formatErrorForDisplay(err error, verboseMode bool) string {
	var ae *issue.ActionableError
	if errors.As(err, &ae) {
		return ae.Format(verboseMode)
	}
	return err.Error()
}
