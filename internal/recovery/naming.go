package recovery

import (
	"fmt"
	"path/filepath"
	"strconv"
	"strings"
)

const chkExt = ".chk"

// IsCHK reports whether name carries the .chk extension, in any case.
func IsCHK(name string) bool {
	return strings.EqualFold(filepath.Ext(name), chkExt)
}

// HasExt reports whether name already ends with the extension ext (given
// without the dot), in any case.
func HasExt(name, ext string) bool {
	return strings.EqualFold(strings.TrimPrefix(filepath.Ext(name), "."), ext)
}

// TargetName returns the recovered file name: a trailing .chk is dropped and
// .ext appended. FILE0001.CHK becomes FILE0001.jpg, blob becomes blob.pdf.
func TargetName(name, ext string) string {
	if IsCHK(name) {
		name = name[:len(name)-len(chkExt)]
	}
	if name == "" {
		name = "recovered"
	}
	return name + "." + ext
}

// UniquePath joins dir and name, appending _1, _2, ... before the extension
// until exists reports a free path.
func UniquePath(dir, name string, exists func(path string) bool) string {
	path := filepath.Join(dir, name)
	if !exists(path) {
		return path
	}

	ext := filepath.Ext(name)
	stem := strings.TrimSuffix(name, ext)
	for i := 1; ; i++ {
		path = filepath.Join(dir, stem+"_"+strconv.Itoa(i)+ext)
		if !exists(path) {
			return path
		}
	}
}

const unknownYearDir = "unknown"

// YearDir returns the directory grouping files created in year. A zero year
// maps to "unknown".
func YearDir(dst string, year int) string {
	if year <= 0 {
		return filepath.Join(dst, unknownYearDir)
	}
	return filepath.Join(dst, fmt.Sprintf("%04d", year))
}
