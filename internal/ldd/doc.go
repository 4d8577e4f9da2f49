// SPDX-License-Identifier: MPL-2.0

// Package ldd extracts versioned shared-library requirements from a compiled
// binary by parsing the "Version information" section of `ldd -v`.
//
// Only the section belonging to the inspected binary is considered; the
// sections ldd prints for each dependency's own requirements are dropped.
// Opaque version tokens such as GLIBC_PRIVATE are skipped, and when a library
// is required at several versions the highest one is kept.
package ldd
