// Command texatlas extracts textures from a modded game installation and
// packs quest icon atlases for the browsing application.
package main

import "os"

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
