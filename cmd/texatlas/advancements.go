package main

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/spf13/cobra"

	"github.com/packsmith/texatlas/jar"
	"github.com/packsmith/texatlas/manifest"
)

var advancementsCmd = &cobra.Command{
	Use:   "advancements <mods-dir>",
	Short: "Harvest advancement icon mappings without extracting textures",
	Long: `Advancements scans every mod archive for advancement definitions and
writes the advancement-id → icon-identifier mapping to
advancements.json. The extract command produces the same file; this
subcommand exists for refreshing the mapping without a full texture
pass.`,
	Args: cobra.ExactArgs(1),
	RunE: runAdvancements,
}

func runAdvancements(cmd *cobra.Command, args []string) error {
	logger := newLogger()

	entries, err := os.ReadDir(args[0])
	if err != nil {
		return fmt.Errorf("mods directory: %w", err)
	}
	var names []string
	for _, e := range entries {
		if !e.IsDir() && strings.EqualFold(filepath.Ext(e.Name()), ".jar") {
			names = append(names, e.Name())
		}
	}
	sort.Strings(names)

	icons := manifest.AdvancementIcons{}
	for _, name := range names {
		path := filepath.Join(args[0], name)
		a, err := jar.Open(path)
		if err != nil {
			logger.Warn("skipping unreadable archive", "path", path, "error", err)
			continue
		}
		icons.Harvest(a)
	}
	if err := icons.Write(filepath.Join(outDir, "advancements.json")); err != nil {
		return err
	}
	logger.Info("advancements written", "count", len(icons))
	return nil
}
