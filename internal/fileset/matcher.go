// SPDX-License-Identifier: MPL-2.0

package fileset

import (
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/bmatcuk/doublestar/v4"

	"github.com/koentsje/enhancer/internal/classfile"
)

// Resolve evaluates a single rule against the filesystem and returns the
// matching class files as absolute paths, in lexical walk order, plus the
// candidates that matched the patterns but are not class files.
//
// A missing or unreadable base directory is an error; a rule never
// resolves silently to an empty selection.
func Resolve(rule Rule, classesRoot string) (matched, skipped []string, err error) {
	base, err := filepath.Abs(rule.baseDir(classesRoot))
	if err != nil {
		return nil, nil, fmt.Errorf("resolve base directory %q: %w", rule.baseDir(classesRoot), err)
	}

	info, err := os.Stat(base)
	if err != nil {
		return nil, nil, fmt.Errorf("stat base directory %q: %w", base, err)
	}
	if !info.IsDir() {
		return nil, nil, fmt.Errorf("base directory %q is not a directory", base)
	}

	if err := validatePatterns(rule.Includes, "include"); err != nil {
		return nil, nil, err
	}
	if err := validatePatterns(rule.Excludes, "exclude"); err != nil {
		return nil, nil, err
	}

	walkErr := filepath.WalkDir(base, func(path string, d fs.DirEntry, walkDirErr error) error {
		if walkDirErr != nil {
			return walkDirErr
		}
		if d.IsDir() {
			return nil
		}

		rel, relErr := filepath.Rel(base, path)
		if relErr != nil {
			return relErr
		}
		// Normalise to forward slashes for consistent glob matching.
		normalized := filepath.ToSlash(rel)

		if !matchesAny(rule.Includes, normalized, true) {
			return nil
		}
		if matchesAny(rule.Excludes, normalized, false) {
			return nil
		}

		if !classfile.IsClassFile(path) {
			skipped = append(skipped, path)
			return nil
		}
		matched = append(matched, path)
		return nil
	})
	if walkErr != nil {
		return nil, nil, fmt.Errorf("traverse %q: %w", base, walkErr)
	}

	return matched, skipped, nil
}

// matchesAny reports whether rel matches at least one of the patterns.
// emptyMatches controls the behavior of an empty pattern list: includes
// default to "match all", excludes to "match none".
func matchesAny(patterns []string, rel string, emptyMatches bool) bool {
	if len(patterns) == 0 {
		return emptyMatches
	}
	for _, pat := range patterns {
		if ok, err := doublestar.Match(pat, rel); err == nil && ok {
			return true
		}
	}
	return false
}
