package matcher

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormalize(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"NOHEPA", "nohepa"},
		{"Tradiční čínská medicína", "tradicni cinska medicina"},
		{"Bolest hlavy – ze stresu", "bolest hlavy ze stresu"},
		{"  Bu   zhong\tyi qi wan ", "bu zhong yi qi wan"},
		{"PRAWTEIN® MOR GREEN", "prawtein mor green"},
		{"best-friend", "best friend"},
		{"", ""},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, Normalize(tt.in), "input %q", tt.in)
	}
}

func TestNormalizeEOBlend(t *testing.T) {
	assert.Equal(t, "nohepa", NormalizeEOBlend("NOHEPA esenciální olej"))
	assert.Equal(t, "nose", NormalizeEOBlend("NOSE EO"))
	assert.Equal(t, "golem", NormalizeEOBlend("GOLEM"))
}
