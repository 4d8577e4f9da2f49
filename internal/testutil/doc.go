// SPDX-License-Identifier: MPL-2.0

// Package testutil provides helpers shared by package tests: filesystem
// fixtures that fail the test on error, a controllable clock, and an
// exec.Cmd recorder that re-executes the test binary to stand in for ldd,
// php, uname and fpm.
package testutil
