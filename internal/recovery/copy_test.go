package recovery

import (
	"errors"
	"log/slog"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestCopyFile(t *testing.T) {
	dir := t.TempDir()
	src := filepath.Join(dir, "FILE0000.CHK")
	require.NoError(t, os.WriteFile(src, []byte("GIF89a payload"), 0o644))

	mtime := time.Date(2012, time.May, 1, 12, 0, 0, 0, time.UTC)
	require.NoError(t, os.Chtimes(src, mtime, mtime))

	dst := filepath.Join(dir, "out", "2012", "FILE0000.gif")
	n, err := copyFile(src, dst)
	require.NoError(t, err)
	require.EqualValues(t, 14, n)

	data, err := os.ReadFile(dst)
	require.NoError(t, err)
	require.Equal(t, "GIF89a payload", string(data))

	finfo, err := os.Stat(dst)
	require.NoError(t, err)
	require.True(t, finfo.ModTime().Equal(mtime))

	// The source is left alone and no temporary file is left behind.
	_, err = os.Stat(src)
	require.NoError(t, err)
	entries, err := os.ReadDir(filepath.Dir(dst))
	require.NoError(t, err)
	require.Len(t, entries, 1)

	_, err = copyFile(src, dst)
	require.True(t, errors.Is(err, os.ErrExist))

	entries, err = os.ReadDir(filepath.Dir(dst))
	require.NoError(t, err)
	require.Len(t, entries, 1)
}

func TestMoveFile(t *testing.T) {
	dir := t.TempDir()
	src := filepath.Join(dir, "FILE0000.CHK")
	taken := filepath.Join(dir, "taken.png")
	require.NoError(t, os.WriteFile(src, []byte("a"), 0o644))
	require.NoError(t, os.WriteFile(taken, []byte("b"), 0o644))

	err := moveFile(src, taken)
	require.ErrorIs(t, err, os.ErrExist)

	data, err := os.ReadFile(taken)
	require.NoError(t, err)
	require.Equal(t, "b", string(data))

	dst := filepath.Join(dir, "FILE0000.png")
	require.NoError(t, moveFile(src, dst))
	_, err = os.Stat(src)
	require.ErrorIs(t, err, os.ErrNotExist)
}

func TestHashFile(t *testing.T) {
	dir := t.TempDir()
	a := filepath.Join(dir, "a")
	b := filepath.Join(dir, "b")
	c := filepath.Join(dir, "c")
	require.NoError(t, os.WriteFile(a, []byte("same"), 0o644))
	require.NoError(t, os.WriteFile(b, []byte("same"), 0o644))
	require.NoError(t, os.WriteFile(c, []byte("different"), 0o644))

	ha, err := hashFile(a)
	require.NoError(t, err)
	require.Len(t, ha, 64)

	hb, err := hashFile(b)
	require.NoError(t, err)
	hc, err := hashFile(c)
	require.NoError(t, err)

	require.Equal(t, ha, hb)
	require.NotEqual(t, ha, hc)

	_, err = hashFile(filepath.Join(dir, "missing"))
	require.Error(t, err)
}

func TestFormatDurationHMS(t *testing.T) {
	require.Equal(t, "0.25s", FormatDurationHMS(250*time.Millisecond))
	require.Equal(t, "00:00:05", FormatDurationHMS(5*time.Second))
	require.Equal(t, "01:01:01", FormatDurationHMS(time.Hour+time.Minute+time.Second))
	require.Equal(t, "26:00:00", FormatDurationHMS(26*time.Hour))
}

func TestDefaultLogPath(t *testing.T) {
	now := time.Date(2024, time.February, 3, 4, 5, 6, 0, time.Local)
	require.Equal(t,
		filepath.Join("src", "recovery_log_20240203_040506.txt"),
		DefaultLogPath("src", now),
	)
}

func TestSetupLogger(t *testing.T) {
	path := filepath.Join(t.TempDir(), "logs", "run.txt")

	log, f, err := setupLogger(path, slog.LevelWarn)
	require.NoError(t, err)

	log.Info("hidden")
	log.Warn("file looks truncated", "path", "FILE0001.CHK")
	require.NoError(t, f.Close())

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	require.NotContains(t, string(data), "hidden")
	require.Contains(t, string(data), `level=WARN msg="file looks truncated" path=FILE0001.CHK`)

	_, _, err = setupLogger(filepath.Join(path, "nested.txt"), slog.LevelInfo)
	require.Error(t, err)
}
