package main

import (
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/packsmith/texatlas/quest"
)

var questsCmd = &cobra.Command{
	Use:   "quests <quests-dir>",
	Short: "Parse SNBT quest chapters into quests.json",
	Long: `Quests parses the FTB-Quests configuration directory (the one
containing chapters/ and lang/en_us/) and writes quests.json to the
output directory. Language files are optional; chapter and quest
titles fall back to filename- and task-derived names.`,
	Args: cobra.ExactArgs(1),
	RunE: runQuests,
}

func runQuests(cmd *cobra.Command, args []string) error {
	logger := newLogger()

	f, err := quest.NewBuilder(quest.WithLogger(logger)).Build(args[0])
	if err != nil {
		return err
	}
	if err := f.Write(filepath.Join(outDir, "quests.json")); err != nil {
		return err
	}
	logger.Info("quests written",
		"chapters", f.Meta.TotalChapters,
		"quests", f.Meta.TotalQuests,
	)
	return nil
}
