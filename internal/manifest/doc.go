// SPDX-License-Identifier: MPL-2.0

// Package manifest builds the format-neutral description of one package:
// what it provides, replaces and depends on, which files it installs and
// which maintainer scripts it runs.
//
// Each component is described by a Strategy looked up by name, with the
// shared-module strategy as the fallback. The Aggregator runs the strategy and
// merges in dependency resolution, load order and the runtime binary's
// library requirements. A Manifest is immutable once built.
package manifest
