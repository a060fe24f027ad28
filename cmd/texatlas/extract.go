package main

import (
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/spf13/cobra"

	"github.com/packsmith/texatlas"
)

var (
	baseJar    string
	installDir string
	looseTrees []string

	extractCmd = &cobra.Command{
		Use:   "extract <mods-dir>",
		Short: "Extract textures from mod archives and write the manifest",
		Long: `Extract reads every .jar under the mod directory in sorted filename
order, copies item, block, and entity textures into the output
directory, resolves block-model and entity-geometry references, and
writes manifest.json plus advancements.json.

The base game jar is consulted after all mods. Pass it with --base-jar,
or point --install at the game directory to probe the conventional
launcher locations.`,
		Args: cobra.ExactArgs(1),
		RunE: runExtract,
	}
)

func init() {
	extractCmd.Flags().StringVar(&baseJar, "base-jar", "", "base game archive consulted after all mods")
	extractCmd.Flags().StringVar(&installDir, "install", "", "game install directory to probe for the base jar")
	extractCmd.Flags().StringArrayVar(&looseTrees, "loose", nil, "unpacked asset tree scanned after the mod archives (repeatable)")
}

func runExtract(cmd *cobra.Command, args []string) error {
	logger := newLogger()

	opts := []texatlas.Option{texatlas.WithLogger(logger)}
	base := baseJar
	if base == "" && installDir != "" {
		base = probeBaseJar(installDir)
		if base != "" {
			logger.Debug("probed base jar", "path", base)
		}
	}
	if base != "" {
		opts = append(opts, texatlas.WithBaseJar(base))
	}
	for _, root := range looseTrees {
		opts = append(opts, texatlas.WithLooseTree(root))
	}

	result, err := texatlas.New(args[0], outDir, opts...).Run()
	if err != nil {
		return err
	}
	logger.Info("extraction complete",
		"archives", result.Archives,
		"items", result.Items,
		"blocks", result.Blocks,
		"skipped", result.Skipped,
		"malformed", result.Malformed,
	)
	return nil
}

// probeBaseJar looks for the base game archive in the conventional
// launcher layouts: versions/<v>/<v>.jar (newest version name first),
// then the flat legacy locations.
func probeBaseJar(install string) string {
	versionsDir := filepath.Join(install, "versions")
	if entries, err := os.ReadDir(versionsDir); err == nil {
		var names []string
		for _, e := range entries {
			if e.IsDir() {
				names = append(names, e.Name())
			}
		}
		sort.Sort(sort.Reverse(sort.StringSlice(names)))
		for _, v := range names {
			candidate := filepath.Join(versionsDir, v, v+".jar")
			if fileExists(candidate) {
				return candidate
			}
		}
	}

	for _, rel := range []string{
		filepath.Join("bin", "minecraft.jar"),
		"minecraft.jar",
	} {
		candidate := filepath.Join(install, rel)
		if fileExists(candidate) {
			return candidate
		}
	}
	return ""
}

func fileExists(path string) bool {
	info, err := os.Stat(path)
	return err == nil && !info.IsDir() && strings.EqualFold(filepath.Ext(path), ".jar")
}
