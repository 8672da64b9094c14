// Package cmd implements fastdl's cobra command tree, following the
// teacher's cmd/root.go shape: a root command plus verb subcommands,
// each wiring config/flags into the engine packages.
package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

// Version is set via ldflags during build.
var Version = "dev"

// exitCode carries the structured exit status (spec.md §9 via
// SPEC_FULL.md's three-tier refinement) out of a subcommand's RunE,
// since cobra itself only distinguishes "error" from "no error".
var exitCode int

var rootCmd = &cobra.Command{
	Use:     "fastdl",
	Short:   "A high-throughput parallel-chunk HTTP/HTTPS downloader",
	Long:    `fastdl splits range-capable downloads across multiple connections and runs a batch of URLs with bounded concurrency.`,
	Version: Version,
}

// Execute runs the command tree and returns the process's exit code:
// 0 full success, 1 if any URL in the batch failed (even if all of
// them did — the batch still ran), 2 if rootCmd.Execute itself errors
// on flag parsing or an invalid configuration before any URL runs, or
// if a subcommand ends with an empty result set.
func Execute() int {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 2
	}
	return exitCode
}

func init() {
	rootCmd.AddCommand(getCmd)
	rootCmd.AddCommand(lsCmd)
	rootCmd.SetVersionTemplate("fastdl version {{.Version}}\n")
}
