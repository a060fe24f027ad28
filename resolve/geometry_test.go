package resolve

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseGeometry_CoordinateArray(t *testing.T) {
	t.Parallel()

	uv, err := parseGeometry([]byte(`{
		"minecraft:geometry": [{
			"bones": [{"name": "skull", "cubes": [{"uv": [8, 4], "size": [8, 8, 8]}]}]
		}]
	}`))
	require.NoError(t, err)
	assert.Equal(t, HeadUV{U: 8, V: 4, Size: []int{8, 8, 8}}, uv)
}

func TestParseGeometry_PerFaceObject(t *testing.T) {
	t.Parallel()

	t.Run("north preferred", func(t *testing.T) {
		t.Parallel()

		uv, err := parseGeometry([]byte(`{
			"minecraft:geometry": [{
				"bones": [{"name": "head", "cubes": [{"uv": {
					"south": {"uv": [32, 32], "uv_size": [4, 4]},
					"north": {"uv": [16, 0], "uv_size": [8, 8]}
				}}]}]
			}]
		}`))
		require.NoError(t, err)
		assert.Equal(t, HeadUV{U: 16, V: 0, Size: []int{8, 8}}, uv)
	})

	t.Run("first available face", func(t *testing.T) {
		t.Parallel()

		uv, err := parseGeometry([]byte(`{
			"minecraft:geometry": [{
				"bones": [{"name": "head", "cubes": [{"uv": {
					"up": {"uv": [2, 3], "uv_size": [8, 8]}
				}}]}]
			}]
		}`))
		require.NoError(t, err)
		assert.Equal(t, HeadUV{U: 2, V: 3, Size: []int{8, 8}}, uv)
	})
}

func TestParseGeometry_FirstBoneFallback(t *testing.T) {
	t.Parallel()

	uv, err := parseGeometry([]byte(`{
		"minecraft:geometry": [{
			"bones": [{"name": "torso", "cubes": [{"uv": [4, 4], "size": [6, 6, 6]}]}]
		}]
	}`))
	require.NoError(t, err)
	assert.Equal(t, 4, uv.U)
}

func TestParseGeometry_LegacyKeyedForm(t *testing.T) {
	t.Parallel()

	uv, err := parseGeometry([]byte(`{
		"format_version": "1.8.0",
		"geometry.creature": {
			"bones": [{"name": "head", "cubes": [{"uv": [0, 16], "size": [8, 8, 8]}]}]
		}
	}`))
	require.NoError(t, err)
	assert.Equal(t, HeadUV{U: 0, V: 16, Size: []int{8, 8, 8}}, uv)
}

func TestParseGeometry_Errors(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		doc  string
	}{
		{"not json", `{"minecraft:geometry": [`},
		{"no bones", `{"minecraft:geometry": [{"bones": []}]}`},
		{"no cubes", `{"minecraft:geometry": [{"bones": [{"name": "head"}]}]}`},
		{"no uv", `{"minecraft:geometry": [{"bones": [{"name": "head", "cubes": [{}]}]}]}`},
	}
	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			_, err := parseGeometry([]byte(tt.doc))
			assert.Error(t, err)
		})
	}
}
