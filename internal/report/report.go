// Package report renders a completed batch's results as JSON (for
// --report) and as a human-readable summary printed to the terminal,
// following the teacher's choice of dustin/go-humanize for byte sizes.
package report

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/dustin/go-humanize"

	"github.com/surge-downloader/fastdl/internal/engine/types"
)

// WriteJSON marshals results as indented JSON to path.
func WriteJSON(path string, results []types.Result) error {
	data, err := json.MarshalIndent(results, "", "  ")
	if err != nil {
		return fmt.Errorf("encoding report: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("writing report %q: %w", path, err)
	}
	return nil
}

// Summary writes a one-line-per-URL human-readable summary plus a
// totals line to w.
func Summary(w io.Writer, results []types.Result) {
	var succeeded, failed int
	var totalBytes int64

	for _, r := range results {
		if r.Success {
			succeeded++
			totalBytes += r.BytesWritten
			fmt.Fprintf(w, "OK   %s (%s, %.1f MB/s)\n", r.Filename, humanize.Bytes(uint64(r.BytesWritten)), r.AverageMBps)
		} else {
			failed++
			fmt.Fprintf(w, "FAIL %s: %s\n", r.URL, r.Error)
		}
	}

	fmt.Fprintf(w, "%s\n", strings.Repeat("-", 40))
	fmt.Fprintf(w, "%d succeeded, %d failed, %s total\n", succeeded, failed, humanize.Bytes(uint64(totalBytes)))
}

// ExitCode maps a batch's results onto the three-tier exit status
// (SPEC_FULL.md §9): 0 when every URL succeeded, 1 when any URL
// failed — including every URL failing, which is still a batch that
// ran, not a configuration error. For a non-empty result set exit code
// 2 never comes from here; it comes from cmd.Execute's cobra-error
// path. An empty result set (no URLs were run, e.g. an empty report
// replayed by "fastdl ls") is the one case where ExitCode returns 2.
func ExitCode(results []types.Result) int {
	if len(results) == 0 {
		return 2
	}
	for _, r := range results {
		if !r.Success {
			return 1
		}
	}
	return 0
}
