package resolve

import (
	"encoding/json"
	"errors"
	"strings"
)

var errNoUV = errors.New("resolve: geometry exposes no usable UV")

type geoDocument struct {
	Geometry []geoGeometry `json:"minecraft:geometry"`
}

type geoGeometry struct {
	Bones []geoBone `json:"bones"`
}

type geoBone struct {
	Name  string    `json:"name"`
	Cubes []geoCube `json:"cubes"`
}

type geoCube struct {
	UV   json.RawMessage `json:"uv"`
	Size []float64       `json:"size"`
}

type geoFace struct {
	UV     []float64 `json:"uv"`
	UVSize []float64 `json:"uv_size"`
}

// parseGeometry extracts the head UV record from a skinned-entity geometry
// descriptor. The bone named head/skull/face (case-insensitive) is
// preferred, else the first bone; its first cube supplies the UV, either as
// a 2-element coordinate array or as a per-face object (north face first,
// then south, then the first available face).
func parseGeometry(content []byte) (HeadUV, error) {
	geo, err := decodeGeometry(content)
	if err != nil {
		return HeadUV{}, err
	}

	bone, ok := headBone(geo.Bones)
	if !ok || len(bone.Cubes) == 0 {
		return HeadUV{}, errNoUV
	}
	return cubeUV(bone.Cubes[0])
}

// decodeGeometry handles both the modern "minecraft:geometry" array form
// and the legacy form keyed by "geometry.<name>" at the top level.
func decodeGeometry(content []byte) (geoGeometry, error) {
	var doc geoDocument
	if err := json.Unmarshal(content, &doc); err != nil {
		return geoGeometry{}, err
	}
	if len(doc.Geometry) > 0 {
		return doc.Geometry[0], nil
	}

	var legacy map[string]json.RawMessage
	if err := json.Unmarshal(content, &legacy); err != nil {
		return geoGeometry{}, err
	}
	for _, key := range sortedKeys(legacy) {
		if !strings.HasPrefix(key, "geometry.") {
			continue
		}
		var geo geoGeometry
		if err := json.Unmarshal(legacy[key], &geo); err != nil {
			continue
		}
		if len(geo.Bones) > 0 {
			return geo, nil
		}
	}
	return geoGeometry{}, errNoUV
}

func headBone(bones []geoBone) (geoBone, bool) {
	for _, b := range bones {
		switch strings.ToLower(b.Name) {
		case "head", "skull", "face":
			return b, true
		}
	}
	if len(bones) > 0 {
		return bones[0], true
	}
	return geoBone{}, false
}

func cubeUV(cube geoCube) (HeadUV, error) {
	if len(cube.UV) == 0 {
		return HeadUV{}, errNoUV
	}

	var coords []float64
	if err := json.Unmarshal(cube.UV, &coords); err == nil {
		if len(coords) < 2 {
			return HeadUV{}, errNoUV
		}
		return HeadUV{U: int(coords[0]), V: int(coords[1]), Size: toInts(cube.Size)}, nil
	}

	var faces map[string]geoFace
	if err := json.Unmarshal(cube.UV, &faces); err != nil {
		return HeadUV{}, err
	}
	face, ok := pickFace(faces)
	if !ok || len(face.UV) < 2 {
		return HeadUV{}, errNoUV
	}
	return HeadUV{U: int(face.UV[0]), V: int(face.UV[1]), Size: toInts(face.UVSize)}, nil
}

func pickFace(faces map[string]geoFace) (geoFace, bool) {
	if f, ok := faces["north"]; ok {
		return f, true
	}
	if f, ok := faces["south"]; ok {
		return f, true
	}
	for _, key := range sortedKeys(faces) {
		return faces[key], true
	}
	return geoFace{}, false
}

func toInts(fs []float64) []int {
	if len(fs) == 0 {
		return nil
	}
	out := make([]int, len(fs))
	for i, f := range fs {
		out[i] = int(f)
	}
	return out
}
