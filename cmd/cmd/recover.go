package cmd

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/dustin/go-humanize"
	"github.com/ostafen/chkrecover/internal/config"
	"github.com/ostafen/chkrecover/internal/logger"
	"github.com/ostafen/chkrecover/internal/recovery"
	"github.com/spf13/cobra"
)

func DefineRecoverCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "recover",
		Short: "Recover CHK fragments by restoring their file type",
		Long: `The 'recover' command walks a source directory, identifies every file by its magic bytes
and gives it back the right extension. Recovered files are copied to the destination directory,
grouped by the year they were created, or renamed in place with --rename.
Every decision is written to a log file.`,
		Args:         cobra.NoArgs,
		SilenceUsage: true,
		RunE:         RunRecover,
	}

	cmd.Flags().StringP("src", "s", "", "directory containing the fragments to recover")
	cmd.Flags().StringP("dst", "d", "", "directory where recovered files are placed (not used with --rename)")
	cmd.Flags().BoolP("rename", "r", false, "rename files in place instead of copying them")
	cmd.Flags().StringP("log", "l", "", "path of the log file (default <src>/recovery_log_<timestamp>.txt)")
	cmd.Flags().Bool("dry-run", false, "log what would be done without touching any file")
	cmd.Flags().Bool("group-by-year", true, "place copied files under a directory named after their creation year")
	cmd.Flags().Bool("dedupe", false, "skip fragments whose content equals an already recovered one")
	cmd.Flags().Bool("only-chk", false, "only consider files with a .chk extension")
	cmd.Flags().String("min-size", "", "skip files smaller than this size (e.g. 4KB)")
	cmd.Flags().String("max-size", "", "skip files larger than this size (e.g. 2GiB)")
	cmd.Flags().StringSlice("signatures", nil, "YAML files with additional signatures")
	cmd.Flags().String("log-level", "INFO", "log file level: DEBUG, INFO, WARN or ERROR")
	cmd.Flags().BoolP("quiet", "q", false, "do not show the progress bar")

	_ = cmd.MarkFlagRequired("src")

	return cmd
}

func RunRecover(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}
	applyConfigDefaults(cmd, cfg.Recover)

	opts, err := parseRecoverOptions(cmd)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	_, err = recovery.Run(ctx, opts)
	return err
}

// applyConfigDefaults fills every flag the user did not set explicitly with
// the value from the config file or environment.
func applyConfigDefaults(cmd *cobra.Command, cfg config.RecoverConfig) {
	flags := cmd.Flags()

	setBool := func(name string, v *bool) {
		if v != nil && !flags.Changed(name) {
			_ = flags.Set(name, fmt.Sprint(*v))
		}
	}
	setString := func(name string, v *string) {
		if v != nil && !flags.Changed(name) {
			_ = flags.Set(name, *v)
		}
	}

	setBool("group-by-year", cfg.GroupByYear)
	setBool("dedupe", cfg.Dedupe)
	setBool("only-chk", cfg.OnlyCHK)
	setBool("quiet", cfg.Quiet)
	setString("min-size", cfg.MinSize)
	setString("max-size", cfg.MaxSize)
	setString("log-level", cfg.LogLevel)

	if len(cfg.Signatures) > 0 && !flags.Changed("signatures") {
		for _, path := range cfg.Signatures {
			_ = flags.Set("signatures", path)
		}
	}
}

func parseRecoverOptions(cmd *cobra.Command) (recovery.Options, error) {
	flags := cmd.Flags()

	src, _ := flags.GetString("src")
	dst, _ := flags.GetString("dst")
	rename, _ := flags.GetBool("rename")
	logFile, _ := flags.GetString("log")
	dryRun, _ := flags.GetBool("dry-run")
	groupByYear, _ := flags.GetBool("group-by-year")
	dedupe, _ := flags.GetBool("dedupe")
	onlyCHK, _ := flags.GetBool("only-chk")
	signatures, _ := flags.GetStringSlice("signatures")
	logLevel, _ := flags.GetString("log-level")
	quiet, _ := flags.GetBool("quiet")

	minSize, err := getBytes(cmd, "min-size")
	if err != nil {
		return recovery.Options{}, err
	}
	maxSize, err := getBytes(cmd, "max-size")
	if err != nil {
		return recovery.Options{}, err
	}

	return recovery.Options{
		Src:         src,
		Dst:         dst,
		Rename:      rename,
		LogFile:     logFile,
		DryRun:      dryRun,
		GroupByYear: groupByYear,
		Dedupe:      dedupe,
		OnlyCHK:     onlyCHK,
		MinSize:     minSize,
		MaxSize:     maxSize,
		Signatures:  signatures,
		LogLevel:    slogLevel(logger.ParseLevel(logLevel)),
		Quiet:       quiet,
	}, nil
}

// getBytes parses a human readable size flag. An empty value means no limit.
func getBytes(cmd *cobra.Command, name string) (int64, error) {
	s, _ := cmd.Flags().GetString(name)
	if s == "" {
		return 0, nil
	}

	v, err := humanize.ParseBytes(s)
	if err != nil {
		return 0, fmt.Errorf("invalid --%s: %w", name, err)
	}
	return int64(v), nil
}

func slogLevel(level logger.Level) slog.Level {
	switch level {
	case logger.DebugLevel:
		return slog.LevelDebug
	case logger.WarnLevel:
		return slog.LevelWarn
	case logger.ErrorLevel:
		return slog.LevelError
	}
	return slog.LevelInfo
}
