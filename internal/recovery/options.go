package recovery

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
)

var (
	ErrNoSource      = errors.New("source directory is required")
	ErrNoDestination = errors.New("destination directory is required unless renaming in place")
)

// Options configures a recovery run.
type Options struct {
	Src     string
	Dst     string
	Rename  bool
	LogFile string // defaults to DefaultLogPath(Src, now)
	DryRun  bool

	GroupByYear bool
	Dedupe      bool
	OnlyCHK     bool
	MinSize     int64 // zero means no limit
	MaxSize     int64 // zero means no limit

	Signatures []string // extra YAML signature files
	Window     int      // head and tail window size; zero means format.DefaultWindowSize
	LogLevel   slog.Level
	Quiet      bool

	// Out receives console output. Nil means os.Stdout.
	Out io.Writer
}

func (o *Options) Validate() error {
	if o.Src == "" {
		return ErrNoSource
	}

	finfo, err := os.Stat(o.Src)
	if err != nil {
		return fmt.Errorf("invalid source directory: %w", err)
	}
	if !finfo.IsDir() {
		return fmt.Errorf("source %q is not a directory", o.Src)
	}

	if !o.Rename {
		if o.Dst == "" {
			return ErrNoDestination
		}
		if absPath(o.Dst) == absPath(o.Src) {
			return fmt.Errorf("destination must differ from source")
		}
	}

	if o.MinSize < 0 || o.MaxSize < 0 {
		return fmt.Errorf("size limits must not be negative")
	}
	if o.MaxSize > 0 && o.MinSize > o.MaxSize {
		return fmt.Errorf("min size (%d) exceeds max size (%d)", o.MinSize, o.MaxSize)
	}
	return nil
}

func (o *Options) out() io.Writer {
	if o.Out == nil {
		return os.Stdout
	}
	return o.Out
}

func absPath(path string) string {
	absPath, err := filepath.Abs(path)
	if err != nil {
		return path
	}
	return absPath
}
