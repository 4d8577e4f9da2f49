// SPDX-License-Identifier: MPL-2.0

// Package issue provides actionable error handling with user-friendly messages.
//
// Errors raised while resolving modules, reading binaries or driving the
// packaging backend carry an operation, the resource involved and remediation
// hints. Fatal conditions additionally map to a Markdown issue page rendered
// with glamour by the CLI.
package issue
