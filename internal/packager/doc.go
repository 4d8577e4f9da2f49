// SPDX-License-Identifier: MPL-2.0

// Package packager drives one packaging run: it probes the host and the
// built runtime, builds a manifest for every requested component, allocates
// a revision and hands each manifest to the emitter once per format.
//
// Emission failures and missing assets are local to one package; contract
// violations (unknown components, missing catalog records, load-order
// cycles) are recorded as fatal while the remaining components are still
// processed. Run returns the joined errors after the whole set was handled.
package packager
