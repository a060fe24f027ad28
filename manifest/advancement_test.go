package manifest

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/packsmith/texatlas/internal/testutil"
	"github.com/packsmith/texatlas/jar"
)

func TestAdvancementIcons_Harvest(t *testing.T) {
	t.Parallel()

	buf := testutil.BuildArchive(t, []testutil.FileSpec{
		{Path: "data/mod/advancements/story/mine_gem.json", Data: []byte(`{
			"display": {"icon": {"item": "mod:gem"}, "title": "x"}
		}`)},
		{Path: "data/mod/advancements/root.json", Data: []byte(`{
			"display": {"icon": {"id": "mod:pickaxe"}}
		}`)},
		{Path: "data/mod/advancements/no_icon.json", Data: []byte(`{"display": {}}`)},
		{Path: "data/mod/advancements/broken.json", Data: []byte(`{not json`)},
		{Path: "data/mod/recipes/gem.json", Data: []byte(`{}`)},
	})
	a, err := jar.Parse(buf)
	require.NoError(t, err)

	ai := make(AdvancementIcons)
	ai.Harvest(a)

	assert.Equal(t, AdvancementIcons{
		"mod:story/mine_gem": "mod:gem",
		"mod:root":           "mod:pickaxe",
	}, ai)
}

func TestAdvancementIcons_FirstDocumentWins(t *testing.T) {
	t.Parallel()

	first, err := jar.Parse(testutil.BuildArchive(t, []testutil.FileSpec{
		{Path: "data/mod/advancements/root.json", Data: []byte(`{"display":{"icon":{"id":"mod:first"}}}`)},
	}))
	require.NoError(t, err)
	second, err := jar.Parse(testutil.BuildArchive(t, []testutil.FileSpec{
		{Path: "data/mod/advancements/root.json", Data: []byte(`{"display":{"icon":{"id":"mod:second"}}}`)},
	}))
	require.NoError(t, err)

	ai := make(AdvancementIcons)
	ai.Harvest(first)
	ai.Harvest(second)

	assert.Equal(t, "mod:first", ai["mod:root"])
}
