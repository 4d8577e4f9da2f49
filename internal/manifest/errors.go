// SPDX-License-Identifier: MPL-2.0

package manifest

import (
	"errors"
	"fmt"
)

var (
	// ErrMissingComponent is wrapped by MissingComponentError.
	ErrMissingComponent = errors.New("component asset missing")
	// ErrUnknownComponent is returned for names that are neither a front-end,
	// devel, a tool nor a declared shared module.
	ErrUnknownComponent = errors.New("component not declared in build configuration")
)

// MissingComponentError reports a per-component asset whose absence means
// the component cannot be packaged. Other components are unaffected.
type MissingComponentError struct {
	Component string
	Asset     string
}

func (e *MissingComponentError) Error() string {
	return fmt.Sprintf("%s: required asset %s not found", e.Component, e.Asset)
}

func (e *MissingComponentError) Unwrap() error { return ErrMissingComponent }
