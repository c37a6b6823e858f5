package pathutil

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestExpandHome(t *testing.T) {
	tests := []struct {
		path string
		want string
	}{
		{"~", "/home/dev/"},
		{"~/src/app", "/home/dev/src/app"},
		{"/abs/path", "/abs/path"},
		{"relative/~", "relative/~"},
		{"~other/src", "~other/src"},
		{"", ""},
	}
	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			assert.Equal(t, tt.want, ExpandHome(tt.path, "/home/dev/"))
		})
	}
}
