package recovery

import (
	"bufio"
	"encoding/hex"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/google/uuid"
	"github.com/zeebo/blake3"
)

const copyBufferSize = 1024 * 1024

// copyFile copies src into dstPath through a hidden temporary file in the
// same directory, so that dstPath never holds a partial copy. The source
// modification time is carried over.
func copyFile(src, dstPath string) (int64, error) {
	in, err := os.Open(src)
	if err != nil {
		return 0, err
	}
	defer in.Close()

	finfo, err := in.Stat()
	if err != nil {
		return 0, err
	}

	dir := filepath.Dir(dstPath)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return 0, fmt.Errorf("failed to create directory %q: %w", dir, err)
	}

	tmpName := fmt.Sprintf(".%s.%s.tmp", filepath.Base(dstPath), uuid.New().String()[:8])
	tmpPath := filepath.Join(dir, tmpName)

	out, err := os.OpenFile(tmpPath, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0644)
	if err != nil {
		return 0, fmt.Errorf("failed to create temp file %q: %w", tmpPath, err)
	}

	n, err := writeAll(out, in)
	if err != nil {
		os.Remove(tmpPath)
		return 0, fmt.Errorf("failed to copy %q: %w", src, err)
	}

	if err := os.Chtimes(tmpPath, finfo.ModTime(), finfo.ModTime()); err != nil {
		os.Remove(tmpPath)
		return 0, err
	}

	if err := moveFile(tmpPath, dstPath); err != nil {
		os.Remove(tmpPath)
		return 0, err
	}
	return n, nil
}

func writeAll(out *os.File, in io.Reader) (int64, error) {
	w := bufio.NewWriterSize(out, copyBufferSize)

	n, err := io.Copy(w, in)
	if err == nil {
		err = w.Flush()
	}
	if err == nil {
		err = out.Sync()
	}
	if cerr := out.Close(); err == nil {
		err = cerr
	}
	return n, err
}

// moveFile renames src to dstPath without replacing an existing file.
func moveFile(src, dstPath string) error {
	if _, err := os.Lstat(dstPath); err == nil {
		return fmt.Errorf("failed to rename %q: %w", src, os.ErrExist)
	}
	if err := os.Rename(src, dstPath); err != nil {
		return fmt.Errorf("failed to rename %q: %w", src, err)
	}
	return nil
}

// hashFile computes the BLAKE3 digest of the file at path, hex encoded.
func hashFile(path string) (string, error) {
	f, err := os.Open(path)
	if err != nil {
		return "", fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()

	h := blake3.New()
	buf := make([]byte, 32*1024)
	if _, err := io.CopyBuffer(h, f, buf); err != nil {
		return "", fmt.Errorf("hash %s: %w", path, err)
	}
	return hex.EncodeToString(h.Sum(nil)), nil
}
