// Package catalog discovers texture assets in mod containers and loose
// asset trees and registers them in identifier-keyed stores.
//
// Registration is strictly first-writer-wins: archives are scanned in
// priority order and an identifier claimed by an earlier source is never
// overwritten by a later one. Extracted files mirror their original
// namespace/category/subpath layout; flattening to the basename alone would
// silently collide unrelated mods that reuse a leaf name.
package catalog

import (
	"fmt"
	"io"
	"io/fs"
	"log/slog"
	"os"
	"path"
	"path/filepath"
	"regexp"

	"github.com/packsmith/texatlas/internal/ident"
	"github.com/packsmith/texatlas/jar"
)

// Archive entries may carry one extra nesting segment before assets/
// (some packages wrap their tree in a root directory).
var (
	texturePattern = regexp.MustCompile(`^(?:[^/]+/)?assets/([^/]+)/textures/(items?|blocks?|entity)/(.+)\.png$`)
	loosePattern   = regexp.MustCompile(`^([^/]+)/textures/(items?|blocks?|entity)/(.+)\.png$`)
)

// Builder walks texture sources and populates the per-category stores,
// extracting matched entries under its output root.
type Builder struct {
	outDir  string
	items   *Store
	blocks  *Store
	skipped int
	logger  *slog.Logger
}

// Option configures a Builder.
type Option func(*Builder)

// WithLogger sets the logger used for per-entry diagnostics.
func WithLogger(logger *slog.Logger) Option {
	return func(b *Builder) {
		b.logger = logger
	}
}

// NewBuilder creates a Builder extracting into outDir.
func NewBuilder(outDir string, opts ...Option) *Builder {
	b := &Builder{
		outDir: outDir,
		items:  NewStore(),
		blocks: NewStore(),
	}
	for _, opt := range opts {
		opt(b)
	}
	return b
}

func (b *Builder) log() *slog.Logger {
	if b.logger == nil {
		return slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return b.logger
}

// Items returns the item-category store.
func (b *Builder) Items() *Store { return b.items }

// Blocks returns the block-category store.
func (b *Builder) Blocks() *Store { return b.blocks }

// Skipped returns the number of entries dropped due to extraction failures.
func (b *Builder) Skipped() int { return b.skipped }

// AddArchive scans every entry of a, extracts the texture matches, and
// registers them. Corrupt entries are skipped and counted; the scan
// continues.
func (b *Builder) AddArchive(a *jar.Archive) error {
	for _, e := range a.Entries() {
		m := texturePattern.FindStringSubmatch(e.Path)
		if m == nil {
			continue
		}
		ns, cat, sub := m[1], parseCategory(m[2]), m[3]

		// Entry names are attacker-controlled; a ".." segment in the
		// namespace or subpath would clean to a destination outside the
		// output root.
		outRel := path.Join(ns, cat.Dir(), sub) + ".png"
		if !fs.ValidPath(outRel) {
			b.skipped++
			b.log().Warn("skipping traversal entry", "path", e.Path)
			continue
		}

		content, err := a.Extract(e)
		if err != nil {
			b.skipped++
			b.log().Warn("skipping corrupt entry", "path", e.Path, "err", err)
			continue
		}

		if err := b.writeIfAbsent(outRel, content); err != nil {
			return fmt.Errorf("extract %s: %w", e.Path, err)
		}
		b.register(cat, ns, sub, outRel)
	}
	return nil
}

// AddLooseTree walks already-loose image files under root, expecting the
// {namespace}/textures/... layout, and merges them under the same
// first-writer-wins rules. Loose files additionally register their literal
// resource-location string so quest data referring to a texture by exact
// path still resolves.
func (b *Builder) AddLooseTree(root string) error {
	return filepath.WalkDir(root, func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return nil
		}
		rel, err := filepath.Rel(root, p)
		if err != nil {
			return err
		}
		m := loosePattern.FindStringSubmatch(filepath.ToSlash(rel))
		if m == nil {
			return nil
		}
		ns, cat, sub := m[1], parseCategory(m[2]), m[3]

		outRel := path.Join(ns, cat.Dir(), sub) + ".png"
		if err := b.copyIfAbsent(p, outRel); err != nil {
			return fmt.Errorf("copy %s: %w", rel, err)
		}
		b.register(cat, ns, sub, outRel)

		// Literal resource-location key, extension stripped.
		literal := ident.Key(ns, path.Join("textures", m[2], sub))
		b.storeFor(cat).Put(literal, Entry{Path: outRel, Category: cat})
		return nil
	})
}

// register adds the bare basename key and, when different, the flattened
// subpath key. Entity textures must never shadow a more specific item or
// block texture: they land in the block store only when the bare name is
// still unclaimed in both stores.
func (b *Builder) register(cat Category, ns, sub, outRel string) {
	base := path.Base(sub)
	entry := Entry{Path: outRel, Category: cat}

	if cat == Entity {
		key := ident.Key(ns, base)
		if b.items.Has(key) || b.blocks.Has(key) {
			return
		}
		b.blocks.Put(key, entry)
		return
	}

	store := b.storeFor(cat)
	store.Put(ident.Key(ns, base), entry)
	if flat := ident.Flatten(sub); flat != base {
		store.Put(ident.Key(ns, flat), entry)
	}
}

func (b *Builder) storeFor(cat Category) *Store {
	if cat == Item {
		return b.items
	}
	return b.blocks
}

func parseCategory(dir string) Category {
	switch dir {
	case "item", "items":
		return Item
	case "block", "blocks":
		return Block
	default:
		return Entity
	}
}

// writeIfAbsent writes content to outRel under the output root unless the
// file already exists. Re-running extraction only fills gaps, which is the
// recovery mechanism after a partial run. Writes go through a temp file and
// rename so readers never observe partial content.
func (b *Builder) writeIfAbsent(outRel string, content []byte) error {
	dest := filepath.Join(b.outDir, filepath.FromSlash(outRel))
	if _, err := os.Stat(dest); err == nil {
		return nil
	}
	if err := os.MkdirAll(filepath.Dir(dest), 0o755); err != nil {
		return err
	}
	tmp, err := os.CreateTemp(filepath.Dir(dest), ".texatlas-")
	if err != nil {
		return err
	}
	tmpPath := tmp.Name()
	if _, err := tmp.Write(content); err != nil {
		tmp.Close()
		os.Remove(tmpPath)
		return err
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpPath)
		return err
	}
	return os.Rename(tmpPath, dest)
}

// copyIfAbsent copies the loose file at src to outRel under the output root.
func (b *Builder) copyIfAbsent(src, outRel string) error {
	dest := filepath.Join(b.outDir, filepath.FromSlash(outRel))
	if _, err := os.Stat(dest); err == nil {
		return nil
	}
	f, err := os.Open(src)
	if err != nil {
		return err
	}
	defer f.Close()
	content, err := io.ReadAll(f)
	if err != nil {
		return err
	}
	return b.writeIfAbsent(outRel, content)
}
