// SPDX-License-Identifier: MPL-2.0

package registry

import (
	"fmt"
	"strings"

	"github.com/spf13/viper"
)

const (
	craftStaticKey = "extensions"
	craftSharedKey = "shared-extensions"
	craftSapiKey   = "sapi"
)

// LoadDeclaration reads the build's craft.yml. Each of extensions,
// shared-extensions and sapi may be a YAML list or a comma-separated string.
func LoadDeclaration(path string) (Declaration, error) {
	v := viper.New()
	v.SetConfigFile(path)
	v.SetConfigType("yaml")
	if err := v.ReadInConfig(); err != nil {
		return Declaration{}, fmt.Errorf("read build configuration: %w", err)
	}

	var decl Declaration
	var err error
	if decl.Static, err = nameList(v, craftStaticKey); err != nil {
		return Declaration{}, err
	}
	if decl.Shared, err = nameList(v, craftSharedKey); err != nil {
		return Declaration{}, err
	}
	if decl.Sapis, err = nameList(v, craftSapiKey); err != nil {
		return Declaration{}, err
	}
	return decl, nil
}

func nameList(v *viper.Viper, key string) ([]string, error) {
	raw := v.Get(key)
	var parts []string
	switch val := raw.(type) {
	case nil:
		return nil, nil
	case string:
		parts = strings.Split(val, ",")
	case []any:
		for _, item := range val {
			s, ok := item.(string)
			if !ok {
				return nil, fmt.Errorf("%s: expected a list of names, found %T", key, item)
			}
			parts = append(parts, s)
		}
	default:
		return nil, fmt.Errorf("%s: expected a list or comma-separated string, found %T", key, raw)
	}

	var out []string
	seen := make(map[string]bool, len(parts))
	for _, p := range parts {
		name := strings.TrimSpace(p)
		if name == "" || seen[name] {
			continue
		}
		seen[name] = true
		out = append(out, name)
	}
	return out, nil
}
