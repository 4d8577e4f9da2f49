// SPDX-License-Identifier: MPL-2.0

// Package emitter turns a manifest into fpm invocations, one per target
// format. Argument construction is a pure function per backend; Emitter adds
// the filesystem checks and runs the packaging tool.
package emitter
