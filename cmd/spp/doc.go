// SPDX-License-Identifier: MPL-2.0

// Package cmd contains the spp command tree.
package cmd
