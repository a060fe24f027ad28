package jar

import (
	"archive/zip"
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/packsmith/texatlas/internal/testutil"
)

func TestParse_ListsEntriesInDirectoryOrder(t *testing.T) {
	t.Parallel()

	buf := testutil.BuildArchive(t, []testutil.FileSpec{
		{Path: "assets/mod/textures/item/gem.png", Data: []byte("gem")},
		{Path: "assets/mod/textures/block/ore.png", Data: []byte("ore"), Stored: true},
		{Path: "pack.mcmeta", Data: []byte(`{"pack":{}}`)},
	})

	a, err := Parse(buf)
	require.NoError(t, err)
	require.Equal(t, 3, a.Len())

	entries := a.Entries()
	assert.Equal(t, "assets/mod/textures/item/gem.png", entries[0].Path)
	assert.Equal(t, "assets/mod/textures/block/ore.png", entries[1].Path)
	assert.Equal(t, "pack.mcmeta", entries[2].Path)
	assert.Equal(t, MethodDeflate, entries[0].Method)
	assert.Equal(t, MethodStored, entries[1].Method)
}

func TestExtract_RoundTrip(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		stored bool
	}{
		{"stored", true},
		{"deflate", false},
	}
	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			want := bytes.Repeat([]byte("texture bytes "), 100)
			buf := testutil.BuildArchive(t, []testutil.FileSpec{
				{Path: "a.bin", Data: want, Stored: tt.stored},
			})

			a, err := Parse(buf)
			require.NoError(t, err)

			got, err := a.Extract(a.Entries()[0])
			require.NoError(t, err)
			assert.Equal(t, want, got)
		})
	}
}

// The reader must interoperate with archives produced by an independent
// writer, including ones that use streaming data descriptors.
func TestParse_StdlibWriterInterop(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)
	w, err := zw.Create("assets/mod/textures/item/gem.png")
	require.NoError(t, err)
	_, err = w.Write([]byte("gem pixels"))
	require.NoError(t, err)
	require.NoError(t, zw.Close())

	a, err := Parse(buf.Bytes())
	require.NoError(t, err)
	require.Equal(t, 1, a.Len())

	got, err := a.Extract(a.Entries()[0])
	require.NoError(t, err)
	assert.Equal(t, []byte("gem pixels"), got)
}

func TestParse_MissingDirectory(t *testing.T) {
	t.Parallel()

	_, err := Parse([]byte("not an archive at all"))
	assert.ErrorIs(t, err, ErrMissingDirectory)

	_, err = Parse(nil)
	assert.ErrorIs(t, err, ErrMissingDirectory)
}

func TestExtract_CorruptEntry(t *testing.T) {
	t.Parallel()

	buf := testutil.BuildArchive(t, []testutil.FileSpec{
		{Path: "a.bin", Data: []byte("payload payload payload")},
	})
	a, err := Parse(buf)
	require.NoError(t, err)

	t.Run("offset out of range", func(t *testing.T) {
		e := a.Entries()[0]
		e.HeaderOffset = uint32(len(buf))
		_, err := a.Extract(e)
		assert.ErrorIs(t, err, ErrCorrupt)
	})

	t.Run("truncated deflate stream", func(t *testing.T) {
		e := a.Entries()[0]
		require.Greater(t, e.CompressedSize, uint32(4))
		e.CompressedSize /= 2
		_, err := a.Extract(e)
		assert.ErrorIs(t, err, ErrDecompression)
	})

	t.Run("unsupported method", func(t *testing.T) {
		e := a.Entries()[0]
		e.Method = 12
		_, err := a.Extract(e)
		assert.ErrorIs(t, err, ErrMethod)
	})
}

func TestExtract_DoesNotMutateBuffer(t *testing.T) {
	t.Parallel()

	buf := testutil.BuildArchive(t, []testutil.FileSpec{
		{Path: "a.bin", Data: []byte("stored data"), Stored: true},
	})
	snapshot := bytes.Clone(buf)

	a, err := Parse(buf)
	require.NoError(t, err)

	content, err := a.Extract(a.Entries()[0])
	require.NoError(t, err)
	content[0] = 'X' // mutating the result must not reach the buffer

	assert.Equal(t, snapshot, buf)
}

func TestLocateDirectory_ScansFromTail(t *testing.T) {
	t.Parallel()

	buf := testutil.BuildArchive(t, []testutil.FileSpec{
		{Path: "a.bin", Data: []byte("x"), Stored: true},
	})
	off, err := locateDirectory(buf)
	require.NoError(t, err)
	assert.Equal(t, len(buf)-eocdSize, off)
}
