package recovery

import (
	"io/fs"
	"log/slog"
	"path/filepath"
)

type candidate struct {
	path string
	size int64
}

// collect lists the regular files under src in lexical order. The log file
// and, when it is nested in src, the destination tree are left out.
// Unreadable directories are logged and skipped.
func collect(src, dst, logFile string, log *slog.Logger) ([]candidate, error) {
	var dstAbs, logAbs string
	if dst != "" {
		dstAbs = absPath(dst)
	}
	if logFile != "" {
		logAbs = absPath(logFile)
	}

	var files []candidate
	err := filepath.WalkDir(src, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			log.Warn("cannot read path", "path", path, "err", err)
			if d != nil && d.IsDir() && path != src {
				return filepath.SkipDir
			}
			return nil
		}

		if d.IsDir() {
			if dstAbs != "" && path != src && absPath(path) == dstAbs {
				return filepath.SkipDir
			}
			return nil
		}

		if !d.Type().IsRegular() {
			log.Debug("skipping non-regular file", "path", path, "type", d.Type().String())
			return nil
		}
		if logAbs != "" && absPath(path) == logAbs {
			return nil
		}

		finfo, err := d.Info()
		if err != nil {
			log.Warn("cannot stat file", "path", path, "err", err)
			return nil
		}
		files = append(files, candidate{path: path, size: finfo.Size()})
		return nil
	})
	return files, err
}
