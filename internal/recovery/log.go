package recovery

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"
)

const logTimeLayout = "20060102_150405"

// DefaultLogPath returns <src>/recovery_log_YYYYMMDD_HHMMSS.txt.
func DefaultLogPath(src string, now time.Time) string {
	return filepath.Join(src, "recovery_log_"+now.Format(logTimeLayout)+".txt")
}

// setupLogger opens logFilePath for appending, creating its directory if
// needed, and returns a text logger writing to it. The caller closes the file.
func setupLogger(logFilePath string, minLevel slog.Level) (*slog.Logger, *os.File, error) {
	logDir := filepath.Dir(logFilePath)
	if err := os.MkdirAll(logDir, 0755); err != nil {
		return nil, nil, fmt.Errorf("failed to create log directory %q: %w", logDir, err)
	}

	f, err := os.OpenFile(logFilePath, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to open log file %q: %w", logFilePath, err)
	}

	handler := slog.NewTextHandler(f, &slog.HandlerOptions{
		Level: minLevel,
	})
	return slog.New(handler), f, nil
}

// FormatDurationHMS formats a time.Duration into HH:MM:SS string.
// Durations below one second keep their fraction.
func FormatDurationHMS(d time.Duration) string {
	if d < time.Second {
		return fmt.Sprintf("%.2fs", d.Seconds())
	}
	totalSeconds := int64(d.Seconds())

	hours := totalSeconds / 3600
	minutes := (totalSeconds % 3600) / 60
	seconds := totalSeconds % 60

	return fmt.Sprintf("%02d:%02d:%02d", hours, minutes, seconds)
}
