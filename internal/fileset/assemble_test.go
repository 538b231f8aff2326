// SPDX-License-Identifier: MPL-2.0

package fileset

import (
	"path/filepath"
	"slices"
	"strings"
	"testing"
)

func TestAssemble_DeduplicatesAcrossOverlappingRules(t *testing.T) {
	t.Parallel()

	root := t.TempDir()
	writeFiles(t, root, "org/foo/Foo.class", "org/foo/Bar.class")

	rules := []Rule{
		{Includes: []string{"**/Foo.class"}},
		{}, // selects everything, overlapping the first rule
	}
	set, err := Assemble(rules, root)
	if err != nil {
		t.Fatalf("Assemble() error: %v", err)
	}

	// Foo first (rule 0), then Bar (rule 1); Foo not double-counted.
	want := []string{
		filepath.Join(root, "org", "foo", "Foo.class"),
		filepath.Join(root, "org", "foo", "Bar.class"),
	}
	if !slices.Equal(set.Files, want) {
		t.Errorf("Files = %v, want %v", set.Files, want)
	}
}

func TestAssemble_NoRulesSelectsWholeRoot(t *testing.T) {
	t.Parallel()

	root := t.TempDir()
	paths := writeFiles(t, root, "org/foo/Bar.class")

	set, err := Assemble(nil, root)
	if err != nil {
		t.Fatalf("Assemble() error: %v", err)
	}
	if !slices.Equal(set.Files, paths) {
		t.Errorf("Files = %v, want %v", set.Files, paths)
	}
}

func TestAssemble_RuleErrorIdentifiesRule(t *testing.T) {
	t.Parallel()

	root := t.TempDir()
	writeFiles(t, root, "A.class")

	rules := []Rule{
		{},
		{Dir: filepath.Join(root, "missing")},
	}
	_, err := Assemble(rules, root)
	if err == nil {
		t.Fatal("Assemble() with missing rule dir returned nil error")
	}
	if !strings.Contains(err.Error(), "fileset 1") {
		t.Errorf("error %q does not identify the failing rule", err)
	}
}

func TestAssemble_CollectsSkipped(t *testing.T) {
	t.Parallel()

	root := t.TempDir()
	writeFiles(t, root, "org/Bar.class", "readme.md")

	set, err := Assemble(nil, root)
	if err != nil {
		t.Fatalf("Assemble() error: %v", err)
	}
	if len(set.Skipped) != 1 || !strings.HasSuffix(set.Skipped[0], "readme.md") {
		t.Errorf("Skipped = %v, want the readme.md path", set.Skipped)
	}
}
