// SPDX-License-Identifier: MPL-2.0

package registry

import (
	"errors"
	"fmt"
)

const (
	// KindNormal is an ordinary loadable module.
	KindNormal Kind = "normal"
	// KindAddon is built into another module and never ships its own shared object.
	KindAddon Kind = "addon"
	// KindLoader must initialize before ordinary modules (zend_extension).
	KindLoader Kind = "loader"
)

// ErrMissingRecord is the sentinel wrapped by MissingRecordError.
var ErrMissingRecord = errors.New("no configuration record for module")

type (
	// Kind classifies how a module is loaded.
	Kind string

	// Module is one declared module. Values are immutable for the run.
	Module struct {
		Name string
		// Shared is true when the build produced <name>.so.
		Shared bool
		// Static is true when the module is compiled into the runtime binary.
		Static       bool
		Kind         Kind
		Dependencies []string
		Suggestions  []string
	}

	// MissingRecordError reports a module with no metadata record.
	MissingRecordError struct {
		Name string
	}
)

// Packageable reports whether the module ships as its own installable unit.
func (m *Module) Packageable() bool {
	return m.Shared && !m.Static && m.Kind != KindAddon
}

// IsLoader reports whether the module is a zend_extension.
func (m *Module) IsLoader() bool {
	return m.Kind == KindLoader
}

func (e *MissingRecordError) Error() string {
	return fmt.Sprintf("no configuration record for module %q", e.Name)
}

func (e *MissingRecordError) Unwrap() error { return ErrMissingRecord }
