package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"strconv"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/mrsinham/centroidwatch/cmd/centroidwatch/prompt"
	"github.com/mrsinham/centroidwatch/internal/config"
	"github.com/mrsinham/centroidwatch/internal/pairing"
	"github.com/mrsinham/centroidwatch/internal/pipeline"
	"github.com/mrsinham/centroidwatch/internal/report"
	"github.com/mrsinham/centroidwatch/internal/structures"
	"github.com/mrsinham/centroidwatch/internal/watcher"
)

var watchCmd = &cobra.Command{
	Use:   "watch",
	Short: "Monitor a folder and process RTSTRUCT/RTPLAN pairs as they arrive",
	Long: `Watch monitors a folder (non-recursively) for RTSTRUCT and RTPLAN files.
Files are paired by PatientID; a newer file of the same kind replaces the one
waiting. Each complete pair is processed once, in arrival order.

When interactive mode is neither set by flag, environment nor config file,
you are asked at startup.`,
	Args:    cobra.NoArgs,
	PreRunE: bindWatchFlags,
	RunE:    runWatch,
}

func init() {
	addWatchFlags(watchCmd)
	rootCmd.AddCommand(watchCmd)
}

func addWatchFlags(cmd *cobra.Command) {
	f := cmd.Flags()
	f.String("dir", "", fmt.Sprintf("folder to monitor (default %s)", config.DefaultWatchDir()))
	f.String("output", "", "report root folder (default: the monitored folder)")
	f.String("backup", "", "folder processed files are moved to (default: <dir>/backup)")
	f.Bool("interactive", false, "ask which structures to report when no seed or gold marker matches")
	f.Bool("scan-existing", false, "process files already present at startup")
}

// bindWatchFlags binds the flags of the running command, so root and watch
// can share keys.
func bindWatchFlags(cmd *cobra.Command, _ []string) error {
	for key, name := range map[string]string{
		config.KeyWatchDir:     "dir",
		config.KeyOutputDir:    "output",
		config.KeyBackupDir:    "backup",
		config.KeyInteractive:  "interactive",
		config.KeyScanExisting: "scan-existing",
	} {
		if fl := cmd.Flags().Lookup(name); fl != nil {
			if err := v.BindPFlag(key, fl); err != nil {
				return err
			}
		}
	}
	return nil
}

func runWatch(cmd *cobra.Command, _ []string) error {
	cfg, logger, err := loadConfig(v)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	p := prompt.New(os.Stdin, os.Stderr)
	if !cfg.InteractiveSet {
		cfg.Interactive, err = p.ConfirmInteractive(ctx)
		if err != nil {
			return fmt.Errorf("interactive prompt: %w", err)
		}
	}

	if err := os.MkdirAll(cfg.WatchDir, 0o755); err != nil {
		return fmt.Errorf("create watch folder: %w", err)
	}

	fmt.Fprint(os.Stderr, prompt.Banner("centroidwatch "+version, "Waiting for RTSTRUCT and RTPLAN files. Ctrl+C to stop.", []prompt.Setting{
		{Key: "Watching", Value: cfg.WatchDir},
		{Key: "Reports", Value: cfg.OutputDir},
		{Key: "Backup", Value: cfg.BackupDir},
		{Key: "Interactive", Value: strconv.FormatBool(cfg.Interactive)},
	}))

	var opts []structures.Option
	if cfg.Interactive {
		opts = append(opts, structures.WithSelector(p))
	}
	processor := pipeline.NewProcessor(
		structures.NewResolver(logger, opts...),
		report.NewWriter(cfg.OutputDir),
		cfg.BackupDir,
		logger,
	)

	exclude := []string{cfg.BackupDir}
	if filepath.Clean(cfg.OutputDir) != filepath.Clean(cfg.WatchDir) {
		exclude = append(exclude, cfg.OutputDir)
	}
	w, err := watcher.New(logger, exclude...)
	if err != nil {
		return fmt.Errorf("start watcher: %w", err)
	}
	defer w.Stop()

	engine := pairing.NewEngine(nil, pairing.NewSizePoller(cfg.Readiness.Interval, cfg.Readiness.Attempts, logger), processor, logger)
	monitor := pipeline.NewMonitor(cfg.WatchDir, w, engine, logger)
	monitor.ScanExisting = cfg.ScanExisting

	return run(ctx, monitor)
}

func run(ctx context.Context, m *pipeline.Monitor) error {
	if err := m.Run(ctx); err != nil {
		return fmt.Errorf("monitor %s: %w", m.Dir, err)
	}
	return nil
}
