// SPDX-License-Identifier: MPL-2.0

package cueutil

import "fmt"

// DefaultMaxFileSize bounds the size of documents accepted by ParseAndDecode.
// The upstream extension catalog is a few hundred kilobytes.
const DefaultMaxFileSize = 8 << 20

type (
	// Option configures ParseAndDecode.
	Option func(*options)

	options struct {
		filename    string
		maxFileSize int64
		concrete    bool
	}
)

func defaultOptions() options {
	return options{maxFileSize: DefaultMaxFileSize}
}

// WithFilename sets the name used in error messages.
func WithFilename(name string) Option {
	return func(o *options) { o.filename = name }
}

// WithMaxFileSize overrides DefaultMaxFileSize.
func WithMaxFileSize(n int64) Option {
	return func(o *options) { o.maxFileSize = n }
}

// WithConcrete requires every field to be concrete after unification.
func WithConcrete(concrete bool) Option {
	return func(o *options) { o.concrete = concrete }
}

// CheckFileSize rejects data longer than limit. A non-positive limit disables the check.
func CheckFileSize(data []byte, limit int64, filename string) error {
	if limit > 0 && int64(len(data)) > limit {
		return fmt.Errorf("%s: file size %d exceeds limit of %d bytes", filename, len(data), limit)
	}
	return nil
}
