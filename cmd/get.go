package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/surge-downloader/fastdl/internal/config"
	"github.com/surge-downloader/fastdl/internal/engine/batch"
	"github.com/surge-downloader/fastdl/internal/engine/transfer"
	"github.com/surge-downloader/fastdl/internal/progressui"
	"github.com/surge-downloader/fastdl/internal/report"
	"github.com/surge-downloader/fastdl/internal/urlsource"
	"github.com/surge-downloader/fastdl/internal/utils"
)

// keepDebugLogs is how many debug-*.log files CleanupLogs leaves
// behind in the logs directory after a verbose run.
const keepDebugLogs = 10

var getCmd = &cobra.Command{
	Use:   "get [urls...]",
	Short: "Download one or more URLs",
	Long:  `Runs the batch scheduler over the given URLs (or a --url-file list), splitting range-capable downloads across multiple connections.`,
	RunE:  runGet,
}

func init() {
	flags := getCmd.Flags()
	flags.String("config", "", "path to a YAML config file")
	flags.String("url-file", "", "file with one URL per line (takes precedence over positional URLs)")
	flags.StringP("output", "o", "", "output directory")
	flags.Int("connections", 0, "max concurrent connections per download")
	flags.Int("chunk-size-mb", 0, "preferred chunk size in MiB")
	flags.Int("timeout-seconds", 0, "per-request timeout in seconds")
	flags.Int("retries", 0, "per-chunk retry budget")
	flags.Int("max-concurrent", 0, "max concurrent whole downloads in a batch")
	flags.Bool("verbose", false, "show live per-URL progress bars")
	flags.String("report", "", "write a JSON report to this path")
}

func runGet(cmd *cobra.Command, args []string) error {
	flags := cmd.Flags()

	configPath, _ := flags.GetString("config")
	file, err := config.Load(configPath)
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}
	applyFlagOverrides(flags, &file)

	cfg := file.Engine()
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}

	urlFile, _ := flags.GetString("url-file")
	urls, err := urlsource.Load(urlFile, args)
	if err != nil {
		return fmt.Errorf("resolving URLs: %w", err)
	}

	outputDir := file.OutputDir
	if outputDir == "" {
		outputDir = "."
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	var progressCh chan transfer.ProgressEvent
	if cfg.Verbose {
		if err := config.EnsureDirs(); err != nil {
			return fmt.Errorf("preparing log directory: %w", err)
		}
		utils.CleanupLogs(keepDebugLogs)

		progressCh = make(chan transfer.ProgressEvent, 64)
		go func() {
			_ = progressui.Run(ctx, progressCh)
		}()
	}

	engine := transfer.New(cfg, progressCh)
	scheduler := batch.NewScheduler(engine, cfg, outputDir)

	results := scheduler.Run(ctx, urls)
	if progressCh != nil {
		close(progressCh)
	}

	report.Summary(os.Stdout, results)

	if reportPath, _ := flags.GetString("report"); reportPath != "" {
		if err := report.WriteJSON(reportPath, results); err != nil {
			return fmt.Errorf("writing report: %w", err)
		}
	}

	exitCode = report.ExitCode(results)
	return nil
}

// applyFlagOverrides mutates f in place for every flag the user
// actually set, leaving config-file or default values alone otherwise.
func applyFlagOverrides(flags *pflag.FlagSet, f *config.File) {
	if flags.Changed("output") {
		f.OutputDir, _ = flags.GetString("output")
	}
	if flags.Changed("connections") {
		f.Connections, _ = flags.GetInt("connections")
	}
	if flags.Changed("chunk-size-mb") {
		f.ChunkSizeMB, _ = flags.GetInt("chunk-size-mb")
	}
	if flags.Changed("timeout-seconds") {
		f.TimeoutSeconds, _ = flags.GetInt("timeout-seconds")
	}
	if flags.Changed("retries") {
		f.Retries, _ = flags.GetInt("retries")
	}
	if flags.Changed("max-concurrent") {
		f.MaxConcurrent, _ = flags.GetInt("max-concurrent")
	}
	if flags.Changed("verbose") {
		f.Verbose, _ = flags.GetBool("verbose")
	}
}
