// SPDX-License-Identifier: MPL-2.0

package enhance

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/charmbracelet/log"

	"github.com/koentsje/enhancer/internal/classfile"
	"github.com/koentsje/enhancer/internal/fileset"
)

type (
	// Outcome is the tagged result of processing one class in the
	// enhancement phase. The phase loop inspects it to decide whether to
	// continue; only a fatal error from the transformer aborts the loop.
	Outcome int

	// Summary aggregates the per-class outcomes of one run.
	Summary struct {
		// Selected is the number of class files in the source set.
		Selected int
		// Skipped counts files that matched a fileset but are not class files.
		Skipped int
		// Rewritten counts classes whose replacement bytes were persisted.
		Rewritten int
		// Unchanged counts classes the transformer left as-is.
		Unchanged int
		// Failed counts classes with an isolated discovery or enhancement
		// failure. Failures do not fail the run.
		Failed int
	}

	// Runner drives the full pipeline over a classes directory:
	// source-set assembly, resolution-context construction, the type
	// discovery pass, then the enhancement pass. Runs are sequential and
	// single-threaded; the classes directory is treated as exclusively
	// owned for the duration of a run.
	Runner struct {
		// Transformer is the enhancement engine. Nil defaults to
		// NopTransformer. Ignored when NewTransformer is set.
		Transformer Transformer
		// NewTransformer, when set, builds the engine from the run's
		// resolution context once it exists. This is the seam for engines
		// that query the capability flags or resolve referenced classes
		// through Context.LoadClass.
		NewTransformer func(ctx *Context) Transformer
		// ClassesDir is the root directory of the compiled classes.
		ClassesDir string
		// Rules select the class files to process. Empty selects the
		// whole classes directory.
		Rules []fileset.Rule
		// Flags are the capability switches wired into the context.
		Flags Flags
		// Logger receives per-class outcome logging. Nil defaults to the
		// package default logger.
		Logger *log.Logger
	}
)

const (
	// OutcomeRewritten: replacement bytes were produced and persisted.
	OutcomeRewritten Outcome = iota
	// OutcomeUnchanged: the transformer returned no replacement bytes.
	OutcomeUnchanged
	// OutcomeFailed: an isolated per-class failure; the run continues.
	OutcomeFailed
)

var (
	// ErrAssembly tags fatal source-set assembly failures.
	ErrAssembly = errors.New("source set assembly failed")
	// ErrUnexpectedTransform tags fatal transformer errors, the ones that
	// are not a recoverable TransformationError and abort the run.
	ErrUnexpectedTransform = errors.New("unexpected transformer error")
)

// Run executes one full enhancement run. The returned error is non-nil
// only for fatal conditions: assembly failure, context construction
// failure, or an unexpected transformer error. Isolated per-class
// failures are reported through the Summary and the log instead.
func (r *Runner) Run() (Summary, error) {
	logger := r.Logger
	if logger == nil {
		logger = log.Default()
	}
	root, err := filepath.Abs(r.ClassesDir)
	if err != nil {
		return Summary{}, fmt.Errorf("resolve classes directory %q: %w", r.ClassesDir, err)
	}

	logger.Debug("assembling source set", "classes_dir", root)
	set, err := fileset.Assemble(r.Rules, root)
	if err != nil {
		return Summary{}, fmt.Errorf("%w: %w", ErrAssembly, err)
	}
	for _, path := range set.Skipped {
		logger.Debug("skipping non-class file", "file", path)
	}
	for _, path := range set.Files {
		logger.Info("added file to source set", "file", path)
	}

	summary := Summary{Selected: len(set.Files), Skipped: len(set.Skipped)}

	ctx, err := NewContext(root, r.Flags)
	if err != nil {
		return summary, fmt.Errorf("build resolution context: %w", err)
	}

	transformer := r.Transformer
	if r.NewTransformer != nil {
		transformer = r.NewTransformer(ctx)
	}
	if transformer == nil {
		transformer = NopTransformer{}
	}

	// All types must be discoverable before any class is rewritten: the
	// transformer's registry is populated here and queried during the
	// enhancement of any class.
	if err := r.discover(logger, transformer, ctx, set.Files, &summary); err != nil {
		return summary, err
	}

	if err := r.enhance(logger, transformer, ctx, set.Files, &summary); err != nil {
		return summary, err
	}

	logger.Info("enhancement run finished",
		"selected", summary.Selected,
		"rewritten", summary.Rewritten,
		"unchanged", summary.Unchanged,
		"failed", summary.Failed,
		"skipped", summary.Skipped)
	return summary, nil
}

// discover submits every class in the source set to the transformer's
// type discovery. Per-class read and transformation failures are
// isolated: they never abort discovery of the remaining classes, and
// never prevent the enhancement phase from running.
func (r *Runner) discover(logger *log.Logger, transformer Transformer, ctx *Context, files []string, summary *Summary) error {
	logger.Debug("starting type discovery")
	for _, path := range files {
		className, err := classfile.Name(ctx.Root(), path)
		if err != nil {
			logger.Error("unable to determine class name", "file", path, "error", err)
			summary.Failed++
			continue
		}

		code, err := ctx.readFile(path)
		if err != nil {
			logger.Error("unable to discover types: read failed", "class", className, "file", path, "error", err)
			summary.Failed++
			continue
		}

		if err := transformer.DiscoverTypes(className, code); err != nil {
			if isRecoverable(err) {
				logger.Error("unable to discover types", "class", className, "error", err)
				summary.Failed++
				continue
			}
			return fmt.Errorf("%w: type discovery aborted on %s: %w", ErrUnexpectedTransform, className, err)
		}
		logger.Debug("discovered types", "class", className)
	}
	logger.Debug("ending type discovery")
	return nil
}

// enhance runs the rewrite pass over the source set, in order. A class
// with an isolated failure is logged and skipped; an unexpected
// transformer error aborts the remaining batch.
func (r *Runner) enhance(logger *log.Logger, transformer Transformer, ctx *Context, files []string, summary *Summary) error {
	logger.Debug("starting class enhancement")
	for _, path := range files {
		outcome, err := r.enhanceClass(logger, transformer, ctx, path)
		if err != nil {
			return err
		}
		switch outcome {
		case OutcomeRewritten:
			summary.Rewritten++
		case OutcomeUnchanged:
			summary.Unchanged++
		case OutcomeFailed:
			summary.Failed++
		}
	}
	logger.Debug("ending class enhancement")
	return nil
}

// enhanceClass processes a single class: capture its timestamp, obtain
// the transformer's verdict, persist replacement bytes via safeRewrite,
// and restore the timestamp so the rewrite stays invisible to
// timestamp-based incremental builds. The returned error is non-nil
// only for the fatal (unexpected) failure class.
func (r *Runner) enhanceClass(logger *log.Logger, transformer Transformer, ctx *Context, path string) (Outcome, error) {
	className, err := classfile.Name(ctx.Root(), path)
	if err != nil {
		logger.Error("unable to determine class name", "file", path, "error", err)
		return OutcomeFailed, nil
	}

	info, err := os.Stat(path)
	if err != nil {
		logger.Error("unable to enhance class: stat failed", "class", className, "file", path, "error", err)
		return OutcomeFailed, nil
	}
	lastModified := info.ModTime()

	code, err := ctx.readFile(path)
	if err != nil {
		logger.Error("unable to enhance class: read failed", "class", className, "file", path, "error", err)
		return OutcomeFailed, nil
	}

	logger.Debug("enhancing class", "class", className)
	newCode, err := transformer.Enhance(className, code)
	if err != nil {
		if isRecoverable(err) {
			logger.Error("error while enhancing class", "class", className, "error", err)
			return OutcomeFailed, nil
		}
		return OutcomeFailed, fmt.Errorf("%w: enhancement aborted on %s: %w", ErrUnexpectedTransform, className, err)
	}

	if newCode == nil {
		logger.Info("class unchanged", "class", className)
		return OutcomeUnchanged, nil
	}

	rewrite := safeRewrite(logger, path, newCode)
	ctx.invalidate(path)

	// Restore the pre-run timestamp regardless of the rewrite outcome.
	// A failed restoration is logged, never escalated.
	if err := os.Chtimes(path, lastModified, lastModified); err != nil {
		logger.Warn("restoring last-modified time failed", "class", className, "file", path, "error", err)
	}

	if rewrite != Rewritten {
		logger.Error("persisting enhanced class failed", "class", className, "outcome", rewrite.String())
		return OutcomeFailed, nil
	}

	logger.Info("enhanced class", "class", className, "bytes", len(newCode), "mtime", lastModified.Format(time.RFC3339))
	return OutcomeRewritten, nil
}
