package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var (
	// Version, Commit, and Date are overridden at build time via -ldflags,
	// the same pattern the teacher's mount.go uses for its own version info.
	Version = "dev"
	Commit  = "none"
	Date    = "unknown"
)

var (
	elmBinary   string
	introspect  bool
	quiet       bool
)

func init() {
	rootCmd.PersistentFlags().StringVar(&elmBinary, "elm-binary", "", "Path to the elm compiler (default: $ELM_BINARY_PATH or $PATH)")
	rootCmd.PersistentFlags().BoolVar(&introspect, "introspect", false, "Expose a read-only MCP introspection server over stdio")
	rootCmd.PersistentFlags().BoolVarP(&quiet, "quiet", "q", false, "Suppress informational output")

	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(versionCmd)
	rootCmd.AddCommand(listCmd)
	rootCmd.AddCommand(cleanCmd)
}

var rootCmd = &cobra.Command{
	Use:     "elm-pair [project-root]",
	Short:   "elm-pair: an artificial pair-programmer for Elm",
	Args:    cobra.MaximumNArgs(1),
	Version: fmt.Sprintf("%s (commit %s, built %s)", Version, Commit, Date),
	RunE:    runServe,
}

var serveCmd = &cobra.Command{
	Use:   "serve [project-root]",
	Short: "Run the daemon (the default when no subcommand is given)",
	Args:  cobra.MaximumNArgs(1),
	RunE:  runServe,
}

// Execute runs the root command, exiting non-zero on failure — an
// unrecoverable daemon-level fault per §7 exits the process for the editor
// extension to report, it never shows a dialog itself.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
