// SPDX-License-Identifier: MPL-2.0

package iteration

import (
	"path/filepath"
	"testing"

	"github.com/static-php/spc-packages/internal/config"
	"github.com/static-php/spc-packages/internal/testutil"
)

func newDirs(t *testing.T) (rpm, deb string, dirs map[config.Format]string) {
	t.Helper()
	root := t.TempDir()
	rpm, deb = filepath.Join(root, "rpm"), filepath.Join(root, "deb")
	testutil.MustMkdirAll(t, rpm)
	testutil.MustMkdirAll(t, deb)
	return rpm, deb, map[config.Format]string{config.FormatRPM: rpm, config.FormatDEB: deb}
}

func TestNext(t *testing.T) {
	t.Parallel()

	key := Key{Name: "php-zts-gd", Version: "8.4.12", Architecture: "x86_64"}

	tests := []struct {
		name     string
		rpm      []string
		deb      []string
		override int
		want     int
	}{
		{name: "empty", want: 1},
		{
			name: "rpm revisions",
			rpm:  []string{"php-zts-gd-8.4.12-1.x86_64.rpm", "php-zts-gd-8.4.12-2.x86_64.rpm", "php-zts-gd-8.4.12-3.x86_64.rpm"},
			want: 4,
		},
		{
			name: "maximum across formats",
			rpm:  []string{"php-zts-gd-8.4.12-2.x86_64.rpm"},
			deb:  []string{"php-zts-gd_8.4.12-5_amd64.deb"},
			want: 6,
		},
		{
			name: "other keys ignored",
			rpm: []string{
				"php-zts-gd-8.4.11-9.x86_64.rpm",
				"php-zts-gd-8.4.12-9.aarch64.rpm",
				"php-zts-gd-devel-8.4.12-9.x86_64.rpm",
				"php-zts-gd-8.4.12-x.x86_64.rpm",
			},
			deb:  []string{"php-zts-gd_8.4.12-7_arm64.deb"},
			want: 1,
		},
		{
			name: "multi digit",
			rpm:  []string{"php-zts-gd-8.4.12-9.x86_64.rpm", "php-zts-gd-8.4.12-10.x86_64.rpm"},
			want: 11,
		},
		{
			name:     "override",
			rpm:      []string{"php-zts-gd-8.4.12-3.x86_64.rpm"},
			override: 2,
			want:     2,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			rpm, deb, dirs := newDirs(t)
			testutil.Touch(t, rpm, tt.rpm...)
			testutil.Touch(t, deb, tt.deb...)

			got, err := New(dirs, tt.override).Next(key)
			if err != nil {
				t.Fatalf("Next() error = %v", err)
			}
			if got != tt.want {
				t.Errorf("Next() = %d, want %d", got, tt.want)
			}
		})
	}
}

func TestNext_DebianConvention(t *testing.T) {
	t.Parallel()

	rpm, deb, dirs := newDirs(t)
	key := Key{Name: "php-zts-xdebug", Version: "3.4.5_84", Architecture: "aarch64"}
	testutil.Touch(t, rpm, "php-zts-xdebug-3.4.5_84-1.aarch64.rpm")
	testutil.Touch(t, deb, "php-zts-xdebug_3.4.5-3_arm64.deb")

	got, err := New(dirs, 0).Next(key)
	if err != nil {
		t.Fatalf("Next() error = %v", err)
	}
	if got != 4 {
		t.Errorf("Next() = %d, want 4", got)
	}
}

func TestNext_MissingDirectory(t *testing.T) {
	t.Parallel()

	dirs := map[config.Format]string{config.FormatRPM: filepath.Join(t.TempDir(), "absent")}
	got, err := New(dirs, 0).Next(Key{Name: "php-zts-cli", Version: "8.4.12", Architecture: "x86_64"})
	if err != nil {
		t.Fatalf("Next() error = %v", err)
	}
	if got != 1 {
		t.Errorf("Next() = %d, want 1", got)
	}
}

func TestArtifactName(t *testing.T) {
	t.Parallel()

	key := Key{Name: "php-zts-xdebug", Version: "3.4.5_84", Architecture: "x86_64"}
	if got := ArtifactName(config.FormatRPM, key, 2); got != "php-zts-xdebug-3.4.5_84-2.x86_64.rpm" {
		t.Errorf("rpm artifact = %q", got)
	}
	if got := ArtifactName(config.FormatDEB, key, 2); got != "php-zts-xdebug_3.4.5-2_amd64.deb" {
		t.Errorf("deb artifact = %q", got)
	}
	noarch := Key{Name: "php-zts-composer", Version: "2.8.1", Architecture: "noarch"}
	if got := ArtifactName(config.FormatDEB, noarch, 1); got != "php-zts-composer_2.8.1-1_all.deb" {
		t.Errorf("noarch deb artifact = %q", got)
	}
}
