// SPDX-License-Identifier: MPL-2.0

package fileset

import "fmt"

// Assemble resolves every rule, in order, into a single source set.
// Paths reached through more than one rule are kept once, at the
// position of their first match.
//
// Assembly is all-or-nothing: the first rule that fails to traverse
// aborts the whole assembly, wrapped with the failing rule's position.
// Enhancing a silently incomplete selection would be worse than failing
// the run before anything has been rewritten.
func Assemble(rules []Rule, classesRoot string) (SourceSet, error) {
	if len(rules) == 0 {
		rules = DefaultRules()
	}

	var set SourceSet
	seen := make(map[string]struct{})

	for i, rule := range rules {
		matched, skipped, err := Resolve(rule, classesRoot)
		if err != nil {
			return SourceSet{}, fmt.Errorf("fileset %d (base %q): %w", i, rule.baseDir(classesRoot), err)
		}
		for _, path := range matched {
			if _, dup := seen[path]; dup {
				continue
			}
			seen[path] = struct{}{}
			set.Files = append(set.Files, path)
		}
		set.Skipped = append(set.Skipped, skipped...)
	}

	return set, nil
}
