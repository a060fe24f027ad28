package catalog

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestStorePut_FirstWriterWins(t *testing.T) {
	t.Parallel()

	s := NewStore()
	assert.True(t, s.Put("mod:gem", Entry{Path: "mod/item/gem.png", Category: Item}))
	assert.False(t, s.Put("mod:gem", Entry{Path: "other/item/gem.png", Category: Item}))

	e, ok := s.Get("mod:gem")
	assert.True(t, ok)
	assert.Equal(t, "mod/item/gem.png", e.Path)
}

func TestStorePut_Idempotent(t *testing.T) {
	t.Parallel()

	s := NewStore()
	e := Entry{Path: "mod/item/gem.png", Category: Item}
	s.Put("mod:gem", e)
	s.Put("mod:gem", e)

	assert.Equal(t, 1, s.Len())
	got, _ := s.Get("mod:gem")
	assert.Equal(t, e, got)
}

func TestStoreKeys_Sorted(t *testing.T) {
	t.Parallel()

	s := NewStore()
	s.Put("b:x", Entry{})
	s.Put("a:y", Entry{})
	s.Put("a:x", Entry{})

	assert.Equal(t, []string{"a:x", "a:y", "b:x"}, s.Keys())
}
