// Package resolve discovers textures for identifiers that have no direct
// texture file, by consulting secondary descriptor documents found in the
// same archives: block-model descriptors (which name per-face texture
// references) and skinned-entity geometry descriptors (which expose head
// UV coordinates).
//
// Descriptors are collected once across every archive, first document wins.
// Malformed documents are swallowed per-document; the identifier simply
// stays unresolved.
package resolve

import (
	"encoding/json"
	"io"
	"io/fs"
	"log/slog"
	"os"
	"path"
	"path/filepath"
	"regexp"
	"sort"
	"strings"

	"github.com/packsmith/texatlas/catalog"
	"github.com/packsmith/texatlas/internal/ident"
	"github.com/packsmith/texatlas/jar"
)

var (
	modelPattern = regexp.MustCompile(`^(?:[^/]+/)?assets/([^/]+)/models/block/([^/]+)\.json$`)
	geoPattern   = regexp.MustCompile(`^(?:[^/]+/)?assets/([^/]+)/geo/(?:.+/)?([^/]+)\.json$`)
)

// Face-role candidates tried in priority order. A reference starting with
// '#' is an internal alias and never usable directly.
var (
	topRoles   = []string{"top", "top_face", "up", "cap", "end", "all"}
	sideRoles  = []string{"side", "side_face", "north", "wall", "all"}
	frontRoles = []string{"front", "front_face", "south", "face", "all"}
)

// HeadUV is the UV/size record emitted for skinned entities under the
// #head_uv variant key.
type HeadUV struct {
	U    int   `json:"u"`
	V    int   `json:"v"`
	Size []int `json:"size,omitempty"`
}

// Resolver accumulates descriptor documents from archives and, once all
// sources are scanned, writes resolved entries back into the catalog
// stores.
type Resolver struct {
	outDir    string
	items     *catalog.Store
	blocks    *catalog.Store
	models    map[string]map[string]string
	geos      map[string]HeadUV
	malformed int
	logger    *slog.Logger
}

// Option configures a Resolver.
type Option func(*Resolver)

// WithLogger sets the logger used for per-document diagnostics.
func WithLogger(logger *slog.Logger) Option {
	return func(r *Resolver) {
		r.logger = logger
	}
}

// NewResolver creates a Resolver over the catalog stores. outDir is the
// extraction root used to check whether a referenced texture physically
// exists.
func NewResolver(outDir string, items, blocks *catalog.Store, opts ...Option) *Resolver {
	r := &Resolver{
		outDir: outDir,
		items:  items,
		blocks: blocks,
		models: make(map[string]map[string]string),
		geos:   make(map[string]HeadUV),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

func (r *Resolver) log() *slog.Logger {
	if r.logger == nil {
		return slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return r.logger
}

// Malformed returns the number of descriptor documents dropped due to
// parse failures.
func (r *Resolver) Malformed() int { return r.malformed }

// ScanArchive collects block-model and geometry descriptors from a.
// The first document seen for an identifier wins; later archives cannot
// replace it.
func (r *Resolver) ScanArchive(a *jar.Archive) {
	for _, e := range a.Entries() {
		if m := modelPattern.FindStringSubmatch(e.Path); m != nil {
			r.scanModel(a, e, m[1], m[2])
			continue
		}
		if m := geoPattern.FindStringSubmatch(e.Path); m != nil {
			r.scanGeometry(a, e, m[1], m[2])
		}
	}
}

func (r *Resolver) scanModel(a *jar.Archive, e jar.Entry, ns, name string) {
	id := ident.Key(ns, name)
	if _, ok := r.models[id]; ok {
		return
	}
	content, err := a.Extract(e)
	if err != nil {
		r.malformed++
		r.log().Debug("dropping model descriptor", "path", e.Path, "err", err)
		return
	}
	var doc struct {
		Textures map[string]string `json:"textures"`
	}
	if err := json.Unmarshal(content, &doc); err != nil || len(doc.Textures) == 0 {
		r.malformed++
		r.log().Debug("dropping model descriptor", "path", e.Path, "err", err)
		return
	}
	r.models[id] = doc.Textures
}

func (r *Resolver) scanGeometry(a *jar.Archive, e jar.Entry, ns, name string) {
	// Geometry files conventionally end in .geo.json; the identifier is
	// the name with both suffixes stripped.
	id := ident.Key(ns, strings.TrimSuffix(name, ".geo"))
	if _, ok := r.geos[id]; ok {
		return
	}
	content, err := a.Extract(e)
	if err != nil {
		r.malformed++
		r.log().Debug("dropping geometry descriptor", "path", e.Path, "err", err)
		return
	}
	uv, err := parseGeometry(content)
	if err != nil {
		r.malformed++
		r.log().Debug("dropping geometry descriptor", "path", e.Path, "err", err)
		return
	}
	r.geos[id] = uv
}

// Apply resolves every collected descriptor against the catalog and writes
// the results back. Direct texture entries are never overwritten; all
// writes are insert-if-absent.
func (r *Resolver) Apply() {
	for _, id := range sortedKeys(r.models) {
		r.applyModel(id, r.models[id])
	}
	for _, id := range sortedKeys(r.geos) {
		r.applyGeometry(id, r.geos[id])
	}
}

// applyModel writes the bare fallback entry (top face, kept for consumers
// that expect a single texture per identifier) and the per-face variant
// keys. Variant keys use only their named roles; the bare entry
// additionally falls back to the first usable reference anywhere in the
// textures mapping.
func (r *Resolver) applyModel(id string, textures map[string]string) {
	qid := ident.Parse(id)

	top, topOK := pickRole(textures, topRoles)
	side, sideOK := pickRole(textures, sideRoles)
	front, frontOK := pickRole(textures, frontRoles)

	bare, bareOK := top, topOK
	if !bareOK {
		bare, bareOK = anyReference(textures)
	}

	if bareOK {
		if p, ok := r.resolveReference(bare); ok {
			r.blocks.Put(id, catalog.Entry{Path: p, Category: catalog.Block})
		}
	}
	faces := []struct {
		role string
		ref  string
		ok   bool
	}{
		{"top", top, topOK},
		{"side", side, sideOK},
		{"front", front, frontOK},
	}
	for _, f := range faces {
		if !f.ok {
			continue
		}
		if p, ok := r.resolveReference(f.ref); ok {
			r.blocks.Put(qid.Variant(f.role), catalog.Entry{Path: p, Category: catalog.Block})
		}
	}
}

// applyGeometry writes the #head_uv variant, but only when the identifier
// already resolved to a texture under the entity category.
func (r *Resolver) applyGeometry(id string, uv HeadUV) {
	entry, ok := r.blocks.Get(id)
	if !ok || entry.Category != catalog.Entity {
		return
	}
	record, err := json.Marshal(uv)
	if err != nil {
		return
	}
	r.blocks.Put(ident.Parse(id).Variant("head_uv"), catalog.Entry{
		Path:     string(record),
		Category: catalog.Entity,
	})
}

// resolveReference maps a descriptor reference string to an extracted
// texture path, checking the two physical layouts in order: the reference
// path as-is under the namespace, then its basename under block/. The
// first candidate whose file exists wins.
func (r *Resolver) resolveReference(ref string) (string, bool) {
	rid := ident.Parse(ref)
	candidates := []string{
		path.Join(rid.Namespace, rid.Name) + ".png",
		path.Join(rid.Namespace, "block", path.Base(rid.Name)) + ".png",
	}
	for _, rel := range candidates {
		// Reference strings come from descriptor documents; a ".."
		// segment would probe (and admit) files outside the root.
		if !fs.ValidPath(rel) {
			continue
		}
		if _, err := os.Stat(filepath.Join(r.outDir, filepath.FromSlash(rel))); err == nil {
			return rel, true
		}
	}
	return "", false
}

// pickRole returns the first named role present with a non-alias value.
func pickRole(textures map[string]string, roles []string) (string, bool) {
	for _, role := range roles {
		if ref, ok := textures[role]; ok && !strings.HasPrefix(ref, "#") {
			return ref, true
		}
	}
	return "", false
}

// anyReference returns the first non-alias value in sorted-key order.
func anyReference(textures map[string]string) (string, bool) {
	for _, role := range sortedKeys(textures) {
		if ref := textures[role]; !strings.HasPrefix(ref, "#") {
			return ref, true
		}
	}
	return "", false
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
