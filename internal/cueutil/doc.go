// SPDX-License-Identifier: MPL-2.0

// Package cueutil compiles CUE documents against embedded schemas and decodes
// them into Go values. It backs both the packager configuration file and the
// extension catalog, which is plain JSON and therefore valid CUE.
package cueutil
