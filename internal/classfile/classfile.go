// SPDX-License-Identifier: MPL-2.0

// Package classfile maps compiled class files to their dotted class names.
//
// A class file's identity is a pure function of the classes root and the
// file's path: the path relative to the root, with separators mapped to
// '.' and the .class suffix stripped. No filesystem access is performed.
package classfile

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"
)

// Suffix is the recognized artifact extension for compiled class files.
const Suffix = ".class"

// ErrNotClassFile is returned when a path does not carry the .class suffix.
var ErrNotClassFile = errors.New("not a class file")

// ErrOutsideRoot is returned when a path does not live under the classes root.
var ErrOutsideRoot = errors.New("path outside classes root")

// IsClassFile reports whether path names a class file by suffix.
func IsClassFile(path string) bool {
	return strings.HasSuffix(filepath.Base(path), Suffix)
}

// Name derives the fully qualified dotted class name for a class file
// under root, e.g. (root, root/org/foo/Bar.class) -> "org.foo.Bar".
func Name(root, path string) (string, error) {
	if !IsClassFile(path) {
		return "", fmt.Errorf("%w: %s", ErrNotClassFile, path)
	}

	rel, err := filepath.Rel(root, path)
	if err != nil {
		return "", fmt.Errorf("determine class name for %s: %w", path, err)
	}
	rel = filepath.ToSlash(rel)
	if rel == "." || strings.HasPrefix(rel, "../") {
		return "", fmt.Errorf("%w: %s is not under %s", ErrOutsideRoot, path, root)
	}

	rel = strings.TrimSuffix(rel, Suffix)
	return strings.ReplaceAll(rel, "/", "."), nil
}

// Path is the inverse of Name: it resolves a dotted class name to the
// file path that would hold its bytecode under root.
func Path(root, className string) string {
	return filepath.Join(root, filepath.FromSlash(strings.ReplaceAll(className, ".", "/"))+Suffix)
}
