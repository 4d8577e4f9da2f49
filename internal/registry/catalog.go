// SPDX-License-Identifier: MPL-2.0

package registry

import (
	_ "embed"
	"fmt"
	"os"

	"github.com/static-php/spc-packages/internal/cueutil"
)

//go:embed catalog_schema.cue
var catalogSchema []byte

type (
	// Catalog maps module names to their catalog entry.
	Catalog map[string]CatalogEntry

	// CatalogEntry is the packaging-relevant part of one ext.json entry.
	CatalogEntry struct {
		Type          string   `json:"type,omitempty"`
		Depends       []string `json:"ext-depends,omitempty"`
		DependsUnix   []string `json:"ext-depends-unix,omitempty"`
		DependsLinux  []string `json:"ext-depends-linux,omitempty"`
		Suggests      []string `json:"ext-suggests,omitempty"`
		SuggestsUnix  []string `json:"ext-suggests-unix,omitempty"`
		SuggestsLinux []string `json:"ext-suggests-linux,omitempty"`
		ZendExtension bool     `json:"zend-extension,omitempty"`
	}
)

// LoadCatalog reads ext.json, which is valid CUE, and validates it against
// the embedded schema.
func LoadCatalog(path string) (Catalog, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read catalog: %w", err)
	}
	return ParseCatalog(data, path)
}

// ParseCatalog decodes catalog data; filename is used in error messages.
func ParseCatalog(data []byte, filename string) (Catalog, error) {
	res, err := cueutil.ParseAndDecode[Catalog](catalogSchema, data, "#Catalog", cueutil.WithFilename(filename))
	if err != nil {
		return nil, err
	}
	return *res.Value, nil
}

func (e CatalogEntry) kind() Kind {
	switch {
	case e.Type == "addon":
		return KindAddon
	case e.ZendExtension:
		return KindLoader
	default:
		return KindNormal
	}
}

func (e CatalogEntry) dependencies() []string {
	return union(e.Depends, e.DependsUnix, e.DependsLinux)
}

func (e CatalogEntry) suggestions() []string {
	return union(e.Suggests, e.SuggestsUnix, e.SuggestsLinux)
}

// union concatenates lists keeping the first occurrence of each name.
func union(lists ...[]string) []string {
	var out []string
	seen := make(map[string]bool)
	for _, list := range lists {
		for _, name := range list {
			if name == "" || seen[name] {
				continue
			}
			seen[name] = true
			out = append(out, name)
		}
	}
	return out
}
