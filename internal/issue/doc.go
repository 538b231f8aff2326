// SPDX-License-Identifier: MPL-2.0

// Package issue provides user-facing error context.
//
// ActionableError wraps failures with the attempted operation, the
// resource involved and fix suggestions; the Issue catalog holds
// longer, markdown-rendered help for the handful of failure modes a
// user can actually do something about.
package issue
