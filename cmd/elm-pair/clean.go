package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/elm-pair/elm-pair/internal/daemonstatus"
	"github.com/elm-pair/elm-pair/internal/kb"
	"github.com/spf13/cobra"
)

var forceRescan bool

func init() {
	cleanCmd.Flags().BoolVar(&forceRescan, "rescan", false, "Also drop each project's index snapshot, forcing a full rescan on next start")
}

var cleanCmd = &cobra.Command{
	Use:   "clean",
	Short: "Remove status files and sockets left behind by dead daemons",
	RunE: func(cmd *cobra.Command, args []string) error {
		statuses, err := scanStatusFiles()
		if err != nil {
			return err
		}

		cleaned := 0
		for _, s := range statuses {
			if daemonstatus.IsProcessRunning(s.pid) {
				continue
			}
			fmt.Printf("Removing stale daemon for %s (PID %d was not running)\n", s.projectRoot, s.pid)
			_ = os.Remove(s.path)
			_ = os.Remove(strings.TrimSuffix(s.path, ".status") + ".sock")
			if forceRescan {
				_ = kb.RemoveSnapshot(filepath.Join(s.projectRoot, ".elm-pair", "index.db"))
			}
			cleaned++
		}

		if cleaned == 0 {
			fmt.Println("No stale daemons found.")
		} else {
			fmt.Printf("Cleaned %d stale daemon(s).\n", cleaned)
		}
		return nil
	},
}
