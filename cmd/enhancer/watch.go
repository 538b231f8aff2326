// SPDX-License-Identifier: MPL-2.0

package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/koentsje/enhancer/internal/watch"
)

var (
	watchDebounce time.Duration
	watchIgnore   []string

	watchCmd = &cobra.Command{
		Use:   "watch",
		Short: "Re-enhance class files whenever they change",
		Long: `Re-enhance class files whenever they change.

An enhancement run executes once immediately, then the classes
directory is watched for class file changes. Changes are debounced so
a compiler writing many files triggers a single re-run, and a run
already in progress is never overlapped.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runWatchMode(cmd)
		},
	}
)

func init() {
	watchCmd.Flags().DurationVar(&watchDebounce, "debounce", 0, "quiet period before a re-run (default 500ms)")
	watchCmd.Flags().StringSliceVar(&watchIgnore, "ignore", nil, "glob patterns that never trigger a re-run")

	watchCmd.Flags().StringVar(&runClassesDir, "classes-dir", "", "root directory of the compiled classes (default from config)")
	watchCmd.Flags().BoolVar(&runAssociationManagement, "enable-association-management", false, "enable bidirectional association management")
	watchCmd.Flags().BoolVar(&runDirtyTracking, "enable-dirty-tracking", false, "enable inline dirty tracking")
	watchCmd.Flags().BoolVar(&runLazyInitialization, "enable-lazy-initialization", false, "enable lazy-loadable attributes")
	watchCmd.Flags().BoolVar(&runExtendedEnhancement, "enable-extended-enhancement", false, "enable extended (non-entity) enhancement")
}

// runWatchMode runs the pipeline once, then re-runs it on class file
// changes until interrupted.
func runWatchMode(cmd *cobra.Command) error {
	classesDir, _ := effectiveRunConfig(cmd)

	fmt.Printf("%s Watch mode: initial enhancement of %s\n", CmdStyle.Render("→"), classesDir)
	if err := runEnhancement(cmd); err != nil {
		// An initial failure does not stop the watcher; the user may fix
		// the cause and recompile.
		fmt.Fprintf(os.Stderr, "%s Initial enhancement failed: %v\n", WarningStyle.Render("!"), err)
	}

	fmt.Printf("\n%s Watching for changes (Ctrl+C to stop)...\n\n", CmdStyle.Render("→"))

	w, err := watch.New(watch.Config{
		ClassesDir: classesDir,
		Ignore:     watchIgnore,
		Debounce:   watchDebounce,
		Logger:     newLogger(),
		OnChange: func(ctx context.Context, changed []string) error {
			fmt.Printf("%s Detected %d change(s). Re-enhancing...\n", CmdStyle.Render("→"), len(changed))
			if runErr := runEnhancement(cmd); runErr != nil {
				fmt.Fprintf(os.Stderr, "%s Enhancement failed: %v\n", WarningStyle.Render("!"), runErr)
			}
			fmt.Printf("\n%s Watching for changes...\n\n", CmdStyle.Render("→"))
			return nil
		},
	})
	if err != nil {
		return fmt.Errorf("failed to start watcher: %w", err)
	}
	return w.Run(cmd.Context())
}
