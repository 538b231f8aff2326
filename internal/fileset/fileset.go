// SPDX-License-Identifier: MPL-2.0

// Package fileset selects class files for enhancement.
//
// A Rule pairs a base directory with include/exclude glob patterns
// (doublestar-compatible: "**" crosses path segments, "*" stays within
// one). Assemble resolves one or more rules, in order, into a single
// deduplicated source set of absolute class-file paths.
package fileset

import (
	"fmt"

	"github.com/bmatcuk/doublestar/v4"
)

type (
	// Rule is one declarative selection of class files.
	Rule struct {
		// Dir is the base directory the patterns are evaluated against.
		// An empty value falls back to the classes root of the run.
		Dir string `json:"dir,omitempty" mapstructure:"dir"`

		// Includes are glob patterns a file must match at least one of.
		// An empty list matches every file.
		Includes []string `json:"includes,omitempty" mapstructure:"includes"`

		// Excludes are glob patterns that remove files from the selection.
		// An exclude always wins over a matching include.
		Excludes []string `json:"excludes,omitempty" mapstructure:"excludes"`
	}

	// SourceSet is the ordered, deduplicated result of assembling rules.
	// Files holds the selected class files in rule-evaluation order, then
	// match order within a rule. Skipped holds files that matched a rule's
	// patterns but do not carry the class-file suffix; they are reported
	// for diagnosability and never processed.
	SourceSet struct {
		Files   []string
		Skipped []string
	}
)

// DefaultRules returns the rule set used when none is configured:
// a single rule selecting the whole classes root.
func DefaultRules() []Rule {
	return []Rule{{}}
}

// validatePatterns checks every pattern eagerly so invalid globs fail
// before any filesystem traversal rather than silently never matching.
func validatePatterns(patterns []string, kind string) error {
	for _, pat := range patterns {
		if !doublestar.ValidatePattern(pat) {
			return fmt.Errorf("invalid %s pattern %q", kind, pat)
		}
	}
	return nil
}

func (r Rule) baseDir(classesRoot string) string {
	if r.Dir != "" {
		return r.Dir
	}
	return classesRoot
}
