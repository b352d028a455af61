package metadata

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"time"

	"github.com/ostafen/chkrecover/internal/format"
)

// Sources of Metadata.CreationTime.
const (
	SourceEXIF     = "exif"
	SourceBMFF     = "mvhd"
	SourcePDF      = "pdf-info"
	SourceArchive  = "archive-entry"
	SourceBirth    = "birth-time"
	SourceModified = "mod-time"
)

// Metadata holds the few properties of a recovered file worth logging.
// Zero fields were not found.
type Metadata struct {
	CreationTime time.Time
	TimeSource   string
	Duration     time.Duration
	Width        int
	Height       int
	Format       string
	Pages        int
	Entries      int
}

// Year returns the year of CreationTime, or 0 when it is unknown.
func (md Metadata) Year() int {
	if md.CreationTime.IsZero() {
		return 0
	}
	return md.CreationTime.Year()
}

func (md Metadata) LogValue() slog.Value {
	attrs := make([]slog.Attr, 0, 8)
	if !md.CreationTime.IsZero() {
		attrs = append(attrs,
			slog.Time("created", md.CreationTime),
			slog.String("time_source", md.TimeSource),
		)
	}
	if md.Format != "" {
		attrs = append(attrs, slog.String("format", md.Format))
	}
	if md.Width > 0 || md.Height > 0 {
		attrs = append(attrs, slog.String("dimensions", fmt.Sprintf("%dx%d", md.Width, md.Height)))
	}
	if md.Duration > 0 {
		attrs = append(attrs, slog.Duration("duration", md.Duration.Round(time.Millisecond)))
	}
	if md.Pages > 0 {
		attrs = append(attrs, slog.Int("pages", md.Pages))
	}
	if md.Entries > 0 {
		attrs = append(attrs, slog.Int("entries", md.Entries))
	}
	return slog.GroupValue(attrs...)
}

type extractor func(r io.ReaderAt, size int64, md *Metadata) error

var extractors = map[format.Kind]extractor{
	format.KindImage:    extractImage,
	format.KindEXIF:     extractEXIF,
	format.KindBMFF:     extractBMFF,
	format.KindRIFF:     extractRIFF,
	format.KindFLAC:     extractFLAC,
	format.KindPDF:      extractPDF,
	format.KindSevenZip: extractSevenZip,
}

// Extract reads the metadata of the file at path according to the kind of
// its match. When the content carries no creation time, it is taken from the
// filesystem. An extraction error is returned together with whatever was
// collected, fallback time included.
func Extract(path string, kind format.Kind) (Metadata, error) {
	f, err := os.Open(path)
	if err != nil {
		return Metadata{}, err
	}
	defer f.Close()

	finfo, err := f.Stat()
	if err != nil {
		return Metadata{}, err
	}

	var (
		md         Metadata
		extractErr error
	)
	if extract, ok := extractors[kind]; ok {
		if err := extract(f, finfo.Size(), &md); err != nil {
			extractErr = fmt.Errorf("%s metadata: %w", kind, err)
		}
	}

	if md.CreationTime.IsZero() {
		md.CreationTime, md.TimeSource = FileTime(path, finfo)
	}
	return md, extractErr
}

// FileTime returns the earliest of the birth and modification times of a
// file, and which of the two it is.
func FileTime(path string, finfo os.FileInfo) (time.Time, string) {
	mtime := finfo.ModTime()

	btime, ok := birthTime(path, finfo)
	if ok && !btime.IsZero() && btime.Before(mtime) {
		return btime, SourceBirth
	}
	return mtime, SourceModified
}
