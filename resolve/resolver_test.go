package resolve

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/packsmith/texatlas/catalog"
	"github.com/packsmith/texatlas/internal/testutil"
	"github.com/packsmith/texatlas/jar"
)

func parseArchive(t *testing.T, files []testutil.FileSpec) *jar.Archive {
	t.Helper()
	a, err := jar.Parse(testutil.BuildArchive(t, files))
	require.NoError(t, err)
	return a
}

// touch creates an empty extracted texture so reference resolution can
// observe it on disk.
func touch(t *testing.T, outDir, rel string) {
	t.Helper()
	p := filepath.Join(outDir, filepath.FromSlash(rel))
	require.NoError(t, os.MkdirAll(filepath.Dir(p), 0o755))
	require.NoError(t, os.WriteFile(p, []byte("png"), 0o644))
}

func TestApply_FacePriorityAndVariants(t *testing.T) {
	t.Parallel()

	outDir := t.TempDir()
	touch(t, outDir, "mod/block/ore_top.png")
	touch(t, outDir, "mod/block/ore_side.png")

	a := parseArchive(t, []testutil.FileSpec{
		{Path: "assets/mod/models/block/ore.json", Data: []byte(`{
			"textures": {
				"particle": "#side",
				"top": "mod:block/ore_top",
				"side": "mod:block/ore_side"
			}
		}`)},
	})

	blocks := catalog.NewStore()
	r := NewResolver(outDir, catalog.NewStore(), blocks)
	r.ScanArchive(a)
	r.Apply()

	bare, ok := blocks.Get("mod:ore")
	require.True(t, ok)
	assert.Equal(t, "mod/block/ore_top.png", bare.Path)

	top, ok := blocks.Get("mod:ore#top")
	require.True(t, ok)
	assert.Equal(t, "mod/block/ore_top.png", top.Path)

	side, ok := blocks.Get("mod:ore#side")
	require.True(t, ok)
	assert.Equal(t, "mod/block/ore_side.png", side.Path)

	assert.False(t, blocks.Has("mod:ore#front"))
}

// A descriptor exposing only a side reference still yields a bare entry:
// the bare key falls back to any usable reference, while the #top variant
// stays absent because no named top role matched.
func TestApply_SideOnlyFallbackChain(t *testing.T) {
	t.Parallel()

	outDir := t.TempDir()
	touch(t, outDir, "mod/block/machine_side.png")

	a := parseArchive(t, []testutil.FileSpec{
		{Path: "assets/mod/models/block/machine.json", Data: []byte(`{
			"textures": {"side": "mod:block/machine_side"}
		}`)},
	})

	blocks := catalog.NewStore()
	r := NewResolver(outDir, catalog.NewStore(), blocks)
	r.ScanArchive(a)
	r.Apply()

	bare, ok := blocks.Get("mod:machine")
	require.True(t, ok)
	side, ok := blocks.Get("mod:machine#side")
	require.True(t, ok)
	assert.Equal(t, bare.Path, side.Path)
	assert.False(t, blocks.Has("mod:machine#top"))
	assert.False(t, blocks.Has("mod:machine#front"))
}

func TestApply_NeverOverwritesDirectTexture(t *testing.T) {
	t.Parallel()

	outDir := t.TempDir()
	touch(t, outDir, "mod/block/gem_model.png")

	a := parseArchive(t, []testutil.FileSpec{
		{Path: "assets/mod/models/block/gem.json", Data: []byte(`{
			"textures": {"top": "mod:block/gem_model"}
		}`)},
	})

	blocks := catalog.NewStore()
	blocks.Put("mod:gem", catalog.Entry{Path: "mod/block/gem.png", Category: catalog.Block})

	r := NewResolver(outDir, catalog.NewStore(), blocks)
	r.ScanArchive(a)
	r.Apply()

	bare, _ := blocks.Get("mod:gem")
	assert.Equal(t, "mod/block/gem.png", bare.Path)
	// Variant still resolves from the descriptor.
	top, ok := blocks.Get("mod:gem#top")
	require.True(t, ok)
	assert.Equal(t, "mod/block/gem_model.png", top.Path)
}

func TestApply_SecondLayoutCandidate(t *testing.T) {
	t.Parallel()

	outDir := t.TempDir()
	// Only the block/<basename> layout exists.
	touch(t, outDir, "mod/block/crate.png")

	a := parseArchive(t, []testutil.FileSpec{
		{Path: "assets/mod/models/block/crate.json", Data: []byte(`{
			"textures": {"all": "mod:deco/storage/crate"}
		}`)},
	})

	blocks := catalog.NewStore()
	r := NewResolver(outDir, catalog.NewStore(), blocks)
	r.ScanArchive(a)
	r.Apply()

	bare, ok := blocks.Get("mod:crate")
	require.True(t, ok)
	assert.Equal(t, "mod/block/crate.png", bare.Path)
}

func TestApply_UnresolvableReferenceWritesNothing(t *testing.T) {
	t.Parallel()

	a := parseArchive(t, []testutil.FileSpec{
		{Path: "assets/mod/models/block/ghost.json", Data: []byte(`{
			"textures": {"top": "mod:block/missing"}
		}`)},
	})

	blocks := catalog.NewStore()
	r := NewResolver(t.TempDir(), catalog.NewStore(), blocks)
	r.ScanArchive(a)
	r.Apply()

	assert.Equal(t, 0, blocks.Len())
}

func TestApply_RejectsTraversalReference(t *testing.T) {
	t.Parallel()

	// A file outside the output root that a ".." reference would reach.
	root := t.TempDir()
	outDir := filepath.Join(root, "out")
	touch(t, root, "secret.png")

	a := parseArchive(t, []testutil.FileSpec{
		{Path: "assets/mod/models/block/leak.json", Data: []byte(`{
			"textures": {"top": "mod:../../secret"}
		}`)},
	})

	blocks := catalog.NewStore()
	r := NewResolver(outDir, catalog.NewStore(), blocks)
	r.ScanArchive(a)
	r.Apply()

	assert.False(t, blocks.Has("mod:leak"))
	assert.False(t, blocks.Has("mod:leak#top"))
}

func TestScanArchive_FirstDescriptorWins(t *testing.T) {
	t.Parallel()

	outDir := t.TempDir()
	touch(t, outDir, "mod/block/first.png")
	touch(t, outDir, "mod/block/second.png")

	first := parseArchive(t, []testutil.FileSpec{
		{Path: "assets/mod/models/block/ore.json", Data: []byte(`{"textures":{"top":"mod:block/first"}}`)},
	})
	second := parseArchive(t, []testutil.FileSpec{
		{Path: "assets/mod/models/block/ore.json", Data: []byte(`{"textures":{"top":"mod:block/second"}}`)},
	})

	blocks := catalog.NewStore()
	r := NewResolver(outDir, catalog.NewStore(), blocks)
	r.ScanArchive(first)
	r.ScanArchive(second)
	r.Apply()

	bare, ok := blocks.Get("mod:ore")
	require.True(t, ok)
	assert.Equal(t, "mod/block/first.png", bare.Path)
}

func TestScanArchive_MalformedDescriptorSwallowed(t *testing.T) {
	t.Parallel()

	a := parseArchive(t, []testutil.FileSpec{
		{Path: "assets/mod/models/block/broken.json", Data: []byte(`{"textures": not json`)},
	})

	blocks := catalog.NewStore()
	r := NewResolver(t.TempDir(), catalog.NewStore(), blocks)
	r.ScanArchive(a)
	r.Apply()

	assert.Equal(t, 0, blocks.Len())
	assert.Equal(t, 1, r.Malformed())
}

func TestApply_HeadUVForEntityTexture(t *testing.T) {
	t.Parallel()

	a := parseArchive(t, []testutil.FileSpec{
		{Path: "assets/mod/geo/creature.geo.json", Data: []byte(`{
			"minecraft:geometry": [{
				"bones": [
					{"name": "body", "cubes": [{"uv": [16, 16], "size": [12, 12, 12]}]},
					{"name": "Head", "cubes": [{"uv": [0, 0], "size": [8, 8, 8]}]}
				]
			}]
		}`)},
	})

	blocks := catalog.NewStore()
	blocks.Put("mod:creature", catalog.Entry{Path: "mod/entity/creature.png", Category: catalog.Entity})

	r := NewResolver(t.TempDir(), catalog.NewStore(), blocks)
	r.ScanArchive(a)
	r.Apply()

	uv, ok := blocks.Get("mod:creature#head_uv")
	require.True(t, ok)
	assert.JSONEq(t, `{"u":0,"v":0,"size":[8,8,8]}`, uv.Path)
}

func TestApply_HeadUVRequiresEntityCategory(t *testing.T) {
	t.Parallel()

	a := parseArchive(t, []testutil.FileSpec{
		{Path: "assets/mod/geo/golem.geo.json", Data: []byte(`{
			"minecraft:geometry": [{"bones": [{"name": "head", "cubes": [{"uv": [0, 0]}]}]}]
		}`)},
	})

	blocks := catalog.NewStore()
	// Bare key resolved, but as a block texture, not an entity one.
	blocks.Put("mod:golem", catalog.Entry{Path: "mod/block/golem.png", Category: catalog.Block})

	r := NewResolver(t.TempDir(), catalog.NewStore(), blocks)
	r.ScanArchive(a)
	r.Apply()

	assert.False(t, blocks.Has("mod:golem#head_uv"))
}
