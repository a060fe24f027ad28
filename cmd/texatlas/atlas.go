package main

import (
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/packsmith/texatlas/atlas"
	"github.com/packsmith/texatlas/manifest"
	"github.com/packsmith/texatlas/quest"
)

var (
	tileSize   int
	columns    int
	numWorkers int

	atlasCmd = &cobra.Command{
		Use:   "atlas",
		Short: "Pack quest icons into a sprite sheet",
		Long: `Atlas reads quests.json and manifest.json from the output directory,
resolves every icon-bearing identifier of the quests document to its
extracted texture, and packs the textures into atlas.png with the
placement table in atlas.json.

Identifiers with no manifest entry are skipped and reported; the atlas
still packs with the remaining icons.`,
		Args: cobra.NoArgs,
		RunE: runAtlas,
	}
)

func init() {
	atlasCmd.Flags().IntVar(&tileSize, "tile", atlas.DefaultTileSize, "tile edge length in pixels")
	atlasCmd.Flags().IntVar(&columns, "cols", atlas.DefaultColumns, "atlas column count")
	atlasCmd.Flags().IntVar(&numWorkers, "workers", 0, "resample workers (0 = GOMAXPROCS)")
}

func runAtlas(cmd *cobra.Command, args []string) error {
	logger := newLogger()

	quests, err := quest.Load(filepath.Join(outDir, "quests.json"))
	if err != nil {
		return err
	}
	m, err := manifest.Load(filepath.Join(outDir, "manifest.json"))
	if err != nil {
		return err
	}

	var icons []atlas.Icon
	unresolved := 0
	for _, id := range quests.WorkingSet() {
		rel, ok := m.Lookup(id)
		if !ok {
			logger.Debug("no texture for identifier", "id", id)
			unresolved++
			continue
		}
		icons = append(icons, atlas.Icon{ID: id, Path: filepath.Join(outDir, rel)})
	}

	packer := atlas.NewPacker(
		atlas.WithTileSize(tileSize),
		atlas.WithColumns(columns),
		atlas.WithWorkers(numWorkers),
		atlas.WithLogger(logger),
	)
	img, sheet, err := packer.Pack(icons)
	if err != nil {
		return err
	}
	if err := atlas.WriteImage(filepath.Join(outDir, "atlas.png"), img); err != nil {
		return err
	}
	if err := sheet.Write(filepath.Join(outDir, "atlas.json")); err != nil {
		return err
	}
	logger.Info("atlas written",
		"icons", len(sheet.Icons),
		"unresolved", unresolved,
		"skipped", packer.Skipped(),
		"width", sheet.Width,
		"height", sheet.Height,
	)
	return nil
}
