// SPDX-License-Identifier: MPL-2.0

package packager

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/pelletier/go-toml/v2"
)

type report struct {
	PHPVersion   string    `toml:"php_version"`
	Architecture string    `toml:"architecture"`
	Duration     string    `toml:"duration"`
	Warnings     int       `toml:"warnings"`
	Packages     []Outcome `toml:"package"`
}

func writeReport(path string, s *Summary) error {
	data, err := toml.Marshal(report{
		PHPVersion:   s.PHPVersion,
		Architecture: s.Architecture,
		Duration:     s.Duration.String(),
		Warnings:     s.Warnings,
		Packages:     s.Outcomes,
	})
	if err != nil {
		return fmt.Errorf("encode run report: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("create report directory: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write run report: %w", err)
	}
	return nil
}

// ReadReport decodes a report written by Run.
func ReadReport(path string) ([]Outcome, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var r report
	if err := toml.Unmarshal(data, &r); err != nil {
		return nil, fmt.Errorf("decode run report %s: %w", path, err)
	}
	return r.Packages, nil
}
