// Package manifest merges the per-category catalog stores into the single
// canonical identifier→texture mapping persisted across runs, and answers
// identifier lookups for it.
package manifest

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/packsmith/texatlas/catalog"
	"github.com/packsmith/texatlas/internal/ident"
)

// Manifest is the canonical identifier→texture-path mapping. Variant keys
// ("ns:name#top", "ns:name#head_uv") map to their face path or serialized
// UV record.
type Manifest map[string]string

// Merge combines the block store overlaid by the item store. The item
// entry wins when the same bare identifier exists in both; block-only and
// variant-suffixed keys pass through untouched. All priority between
// sources was already settled by catalog population order, so this is the
// last and simplest step.
func Merge(blocks, items *catalog.Store) Manifest {
	m := make(Manifest, blocks.Len()+items.Len())
	for _, key := range blocks.Keys() {
		e, _ := blocks.Get(key)
		m[key] = e.Path
	}
	for _, key := range items.Keys() {
		e, _ := items.Get(key)
		m[key] = e.Path
	}
	return m
}

// Lookup resolves a raw identifier from quest data to a texture path.
// A path-like name is normalized to its bare basename, then fallback
// spellings are tried in order: the exact id, ns:basename, and
// ns:basename_item.
func (m Manifest) Lookup(raw string) (string, bool) {
	if p, ok := m[raw]; ok {
		return p, true
	}
	base := ident.Parse(raw).Basename()
	if p, ok := m[base.String()]; ok {
		return p, true
	}
	if p, ok := m[base.String()+"_item"]; ok {
		return p, true
	}
	return "", false
}

// Write persists the manifest as JSON with sorted keys, so re-running
// against unchanged inputs reproduces the file byte for byte. The write
// goes through a temp file and rename.
func (m Manifest) Write(path string) error {
	data, err := json.MarshalIndent(m, "", "  ")
	if err != nil {
		return fmt.Errorf("manifest: encode: %w", err)
	}
	return writeAtomic(path, append(data, '\n'))
}

// Load reads a manifest previously produced by Write.
func Load(path string) (Manifest, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var m Manifest
	if err := json.Unmarshal(data, &m); err != nil {
		return nil, fmt.Errorf("manifest: decode %s: %w", path, err)
	}
	return m, nil
}

func writeAtomic(path string, data []byte) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return err
	}
	tmp, err := os.CreateTemp(dir, ".texatlas-")
	if err != nil {
		return err
	}
	tmpPath := tmp.Name()
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpPath)
		return err
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpPath)
		return err
	}
	return os.Rename(tmpPath, path)
}
