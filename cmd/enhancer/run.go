// SPDX-License-Identifier: MPL-2.0

package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/koentsje/enhancer/internal/enhance"
	"github.com/koentsje/enhancer/internal/issue"
)

var (
	runClassesDir            string
	runAssociationManagement bool
	runDirtyTracking         bool
	runLazyInitialization    bool
	runExtendedEnhancement   bool

	runCmd = &cobra.Command{
		Use:   "run",
		Short: "Enhance the class files under the classes directory",
		Long: `Enhance the class files under the classes directory.

The run assembles the configured filesets, discovers every selected
type, then rewrites each class the transformer produces replacement
bytes for. File timestamps are restored after a rewrite so incremental
builds do not see the enhancement as a change.

A failure on a single class is logged and skipped; the run only fails
on assembly errors, a missing classes directory, or an unexpected
transformer error.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runEnhancement(cmd)
		},
	}
)

func init() {
	runCmd.Flags().StringVar(&runClassesDir, "classes-dir", "", "root directory of the compiled classes (default from config)")
	runCmd.Flags().BoolVar(&runAssociationManagement, "enable-association-management", false, "enable bidirectional association management")
	runCmd.Flags().BoolVar(&runDirtyTracking, "enable-dirty-tracking", false, "enable inline dirty tracking")
	runCmd.Flags().BoolVar(&runLazyInitialization, "enable-lazy-initialization", false, "enable lazy-loadable attributes")
	runCmd.Flags().BoolVar(&runExtendedEnhancement, "enable-extended-enhancement", false, "enable extended (non-entity) enhancement")
}

// effectiveRunConfig overlays the run flags that were explicitly set on
// top of the resolved configuration.
func effectiveRunConfig(cmd *cobra.Command) (classesDir string, flags enhance.Flags) {
	classesDir = cfg.ClassesDir
	if cmd.Flags().Changed("classes-dir") {
		classesDir = runClassesDir
	}

	flags = cfg.Flags()
	if cmd.Flags().Changed("enable-association-management") {
		flags.AssociationManagement = runAssociationManagement
	}
	if cmd.Flags().Changed("enable-dirty-tracking") {
		flags.DirtyTracking = runDirtyTracking
	}
	if cmd.Flags().Changed("enable-lazy-initialization") {
		flags.LazyInitialization = runLazyInitialization
	}
	if cmd.Flags().Changed("enable-extended-enhancement") {
		flags.ExtendedEnhancement = runExtendedEnhancement
	}
	return classesDir, flags
}

func runEnhancement(cmd *cobra.Command) error {
	logger := newLogger()
	classesDir, flags := effectiveRunConfig(cmd)

	for _, warning := range flags.DeprecationWarnings() {
		logger.Warn(warning)
	}

	if info, err := os.Stat(classesDir); err != nil || !info.IsDir() {
		renderIssue(issue.ClassesDirNotFoundId)
		return &ExitError{Code: 1, Err: fmt.Errorf("classes directory %q does not exist", classesDir)}
	}

	runner := &enhance.Runner{
		ClassesDir: classesDir,
		Rules:      cfg.FileSets,
		Flags:      flags,
		Logger:     logger,
	}

	summary, err := runner.Run()
	if err != nil {
		switch {
		case errors.Is(err, enhance.ErrAssembly):
			renderIssue(issue.FilesetInvalidId)
		case errors.Is(err, enhance.ErrUnexpectedTransform):
			renderIssue(issue.TransformerFailedId)
		}
		return &ExitError{Code: 1, Err: err}
	}

	fmt.Printf("%s %s\n",
		SuccessStyle.Render("✓"),
		fmt.Sprintf("%d selected, %d rewritten, %d unchanged, %d failed",
			summary.Selected, summary.Rewritten, summary.Unchanged, summary.Failed))
	return nil
}

// renderIssue writes the styled catalog entry for a fatal failure mode
// to stderr, ahead of the error that triggered it.
func renderIssue(id issue.Id) {
	rendered, err := issue.Get(id).Render("dark")
	if err == nil {
		fmt.Fprint(os.Stderr, rendered)
	}
}
