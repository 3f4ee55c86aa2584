package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/elm-pair/elm-pair/internal/daemonstatus"
	"github.com/spf13/cobra"
)

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List running elm-pair daemons",
	RunE: func(cmd *cobra.Command, args []string) error {
		statuses, err := scanStatusFiles()
		if err != nil {
			return err
		}
		if len(statuses) == 0 {
			fmt.Println("No running elm-pair daemons found.")
			return nil
		}

		fmt.Printf("%-10s %-50s %-10s %s\n", "PID", "PROJECT", "STATUS", "SOCKET")
		fmt.Println(strings.Repeat("-", 100))
		for _, s := range statuses {
			status := "running"
			if !daemonstatus.IsProcessRunning(s.pid) {
				status = "stale"
			}
			fmt.Printf("%-10d %-50s %-10s %s\n", s.pid, s.projectRoot, status, s.socketPath)
		}
		return nil
	},
}

type statusEntry struct {
	path        string
	pid         int
	socketPath  string
	projectRoot string
	generation  uint64
}

func scanStatusFiles() ([]statusEntry, error) {
	dir, err := runtimeDir()
	if err != nil {
		return nil, err
	}
	entries, err := os.ReadDir(dir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, err
	}

	var out []statusEntry
	for _, e := range entries {
		if !strings.HasSuffix(e.Name(), ".status") {
			continue
		}
		path := filepath.Join(dir, e.Name())
		pid, socketPath, projectRoot, gen, err := daemonstatus.Read(path)
		if err != nil {
			continue
		}
		out = append(out, statusEntry{path: path, pid: pid, socketPath: socketPath, projectRoot: projectRoot, generation: gen})
	}
	return out, nil
}
