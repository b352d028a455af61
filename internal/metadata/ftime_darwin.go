//go:build darwin

package metadata

import (
	"os"
	"syscall"
	"time"
)

func birthTime(_ string, finfo os.FileInfo) (time.Time, bool) {
	stat, ok := finfo.Sys().(*syscall.Stat_t)
	if !ok {
		return time.Time{}, false
	}
	return time.Unix(stat.Birthtimespec.Sec, stat.Birthtimespec.Nsec), true
}
