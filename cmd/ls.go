package cmd

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/surge-downloader/fastdl/internal/engine/types"
	"github.com/surge-downloader/fastdl/internal/report"
)

var lsCmd = &cobra.Command{
	Use:   "ls",
	Short: "Print a previously written batch report",
	Long:  `Replays a --report JSON file from a prior "fastdl get" run and prints its human-readable summary.`,
	RunE:  runLs,
}

func init() {
	lsCmd.Flags().String("report", "", "path to a JSON report written by fastdl get")
	lsCmd.MarkFlagRequired("report")
}

func runLs(cmd *cobra.Command, args []string) error {
	reportPath, _ := cmd.Flags().GetString("report")

	data, err := os.ReadFile(reportPath)
	if err != nil {
		return fmt.Errorf("reading report %q: %w", reportPath, err)
	}

	var results []types.Result
	if err := json.Unmarshal(data, &results); err != nil {
		return fmt.Errorf("parsing report %q: %w", reportPath, err)
	}

	report.Summary(os.Stdout, results)
	exitCode = report.ExitCode(results)
	return nil
}
