// Package texatlas extracts item, block, and entity textures from a
// modded game installation and resolves them into a flat identifier →
// texture-path manifest.
//
// The root package wires the stages together; each stage is usable on its
// own through the subpackages:
//   - jar: dependency-free ZIP reading (stored and raw-deflate entries)
//   - catalog: texture extraction and first-writer-wins key stores
//   - resolve: block-model and entity-geometry indirection
//   - manifest: store merging, lookup fallbacks, advancement icons
//   - atlas: fixed-grid sprite sheet packing
//   - quest: FTB-Quests SNBT parsing and icon working-set harvest
//
// # Quick Start
//
// Extract every texture under a mod directory and write the manifest:
//
//	p := texatlas.New("/srv/pack/mods", "./out",
//	    texatlas.WithBaseJar("/srv/pack/versions/1.20.1/1.20.1.jar"),
//	)
//	result, err := p.Run()
//	if err != nil {
//	    return err
//	}
//	path, ok := result.Manifest.Lookup("minecraft:iron_ingot")
//
// Mod archives are processed in sorted filename order; the first archive
// wins every key and path collision. The base-engine jar, when provided,
// is consulted last so mods override vanilla assets.
package texatlas
