// SPDX-License-Identifier: MPL-2.0

// Package enhance orchestrates build-time bytecode enhancement.
//
// Given a classes directory and a set of fileset rules, a Runner
// assembles the source set, builds an isolated resolution Context, and
// drives an opaque Transformer through two strictly ordered phases:
// type discovery over every selected class, then enhancement of every
// selected class. Replacement bytecode is persisted with a
// clear-then-write protocol and the file's original modification
// timestamp is restored, keeping rewrites invisible to timestamp-based
// incremental builds.
//
// Failures on individual classes (unreadable files, malformed
// bytecode) are isolated: they are logged and counted, and the run
// continues. Only assembly errors, context construction errors, and
// unexpected transformer errors abort a run.
package enhance
