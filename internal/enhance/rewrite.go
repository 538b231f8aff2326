// SPDX-License-Identifier: MPL-2.0

package enhance

import (
	"os"

	"github.com/charmbracelet/log"
)

// RewriteOutcome is the terminal state of one safe-rewrite attempt.
type RewriteOutcome int

const (
	// Rewritten means the file now holds exactly the new bytes.
	Rewritten RewriteOutcome = iota
	// FailedClear means the old content could not be cleared. When the
	// delete itself failed the original bytes are still intact; when the
	// recreate after a successful delete failed, the file is gone.
	FailedClear
	// FailedWrite means the file was cleared but the new bytes could not
	// be fully written; it is left empty or truncated.
	FailedWrite
)

func (o RewriteOutcome) String() string {
	switch o {
	case Rewritten:
		return "rewritten"
	case FailedClear:
		return "failed to clear"
	case FailedWrite:
		return "failed to write"
	default:
		return "unknown"
	}
}

// safeRewrite replaces a class file's contents with code using the
// clear-then-write protocol: delete the file, recreate it empty, write
// the full byte sequence. Clearing first guarantees no stale trailing
// bytes survive when the new content is shorter than the old; a plain
// overwrite would not truncate.
//
// There is deliberately no backup-before-clear: a failure between the
// delete and the completed write can leave the file missing or
// truncated. That risk is accepted; the outcome tag makes it visible.
func safeRewrite(logger *log.Logger, path string, code []byte) RewriteOutcome {
	logger.Debug("clearing file contents", "file", path)
	if err := os.Remove(path); err != nil {
		logger.Error("unable to delete file", "file", path, "error", err)
		return FailedClear
	}

	f, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o644)
	if err != nil {
		logger.Error("unable to recreate file after delete", "file", path, "error", err)
		return FailedClear
	}

	if _, err := f.Write(code); err != nil {
		logger.Error("error writing bytes to file", "file", path, "error", err)
		_ = f.Close()
		return FailedWrite
	}
	if err := f.Close(); err != nil {
		logger.Error("error closing file after write", "file", path, "error", err)
		return FailedWrite
	}

	logger.Debug("bytes written to file", "file", path, "bytes", len(code))
	return Rewritten
}
