package main

import (
	"log/slog"
	"os"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"
)

var (
	verbose bool
	outDir  string

	rootCmd = &cobra.Command{
		Use:   "texatlas",
		Short: "Texture extraction and icon atlas packing for modpacks",
		Long: `texatlas reads the mod archives of a modded game installation and
produces the assets the quest-browsing front end needs: extracted
item, block, and entity textures, an identifier → texture manifest,
a parsed quests document, and packed icon atlases.

Typical sequence:
  texatlas extract ./mods              Extract textures and write manifest.json
  texatlas quests ./config/ftbquests/quests
                                       Parse SNBT chapters into quests.json
  texatlas atlas                       Pack quest icons into atlas.png`,
	}
)

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable debug output")
	rootCmd.PersistentFlags().StringVarP(&outDir, "out", "o", "out", "output directory")

	rootCmd.AddCommand(extractCmd, questsCmd, atlasCmd, advancementsCmd)
}

func newLogger() *slog.Logger {
	opts := log.Options{Prefix: "texatlas"}
	if verbose {
		opts.Level = log.DebugLevel
	}
	return slog.New(log.NewWithOptions(os.Stderr, opts))
}
