package ident

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParse(t *testing.T) {
	t.Parallel()

	tests := []struct {
		in   string
		want ID
	}{
		{"mod:gem", ID{"mod", "gem"}},
		{"stone", ID{"minecraft", "stone"}},
		{"mod:block/gem_ore", ID{"mod", "block/gem_ore"}},
		{"mod:a:b", ID{"mod", "a:b"}},
		{"", ID{"minecraft", ""}},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, Parse(tt.in), "input %q", tt.in)
	}
}

func TestBasename(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "mod:gem_ore", Parse("mod:block/gem_ore").Basename().String())
	assert.Equal(t, "mod:gem", Parse("mod:gem").Basename().String())
}

func TestVariant(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "mod:ore#top", Parse("mod:ore").Variant("top"))
}

func TestFlatten(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "block_gem_ore", Flatten("block/gem_ore"))
	assert.Equal(t, "gem", Flatten("gem"))
}
