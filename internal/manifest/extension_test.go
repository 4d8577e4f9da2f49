// SPDX-License-Identifier: MPL-2.0

package manifest

import (
	"testing"
)

func TestRewriteIni(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		in     string
		enable bool
		want   string
	}{
		{
			name:   "extension",
			in:     "; Enable gd\n;extension=gd\n",
			enable: true,
			want:   "; Enable gd\nextension=gd\n",
		},
		{
			name:   "zend extension with spacing",
			in:     "  ; zend_extension = opcache\nopcache.enable=1\n",
			enable: true,
			want:   "  zend_extension = opcache\nopcache.enable=1\n",
		},
		{
			name:   "disabled keeps comment",
			in:     ";extension=gd\n",
			enable: false,
			want:   ";extension=gd\n",
		},
		{
			name:   "settings untouched",
			in:     ";gd.jpeg_ignore_warning = 1\n",
			enable: true,
			want:   ";gd.jpeg_ignore_warning = 1\n",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			if got := string(RewriteIni([]byte(tt.in), tt.enable)); got != tt.want {
				t.Errorf("RewriteIni() = %q, want %q", got, tt.want)
			}
		})
	}
}
