package metadata

import (
	"errors"
	"io"

	"github.com/rwcarlsen/goexif/exif"
)

// extractEXIF reads the dimensions of a JPEG or TIFF image and, when an EXIF
// block is present, the time the picture was taken.
func extractEXIF(r io.ReaderAt, size int64, md *Metadata) error {
	imgErr := extractImage(r, size, md)

	x, err := exif.Decode(io.NewSectionReader(r, 0, size))
	if x == nil || (err != nil && exif.IsCriticalError(err)) {
		// Pictures without EXIF are common and not an error by themselves.
		return imgErr
	}

	// DateTime prefers DateTimeOriginal and falls back to DateTime.
	if t, err := x.DateTime(); err == nil && !t.IsZero() {
		md.CreationTime = t
		md.TimeSource = SourceEXIF
	}

	if md.Width == 0 || md.Height == 0 {
		w, werr := exifInt(x, exif.PixelXDimension)
		h, herr := exifInt(x, exif.PixelYDimension)
		if werr == nil && herr == nil {
			md.Width, md.Height = w, h
			imgErr = nil
		}
	}
	return imgErr
}

func exifInt(x *exif.Exif, name exif.FieldName) (int, error) {
	tag, err := x.Get(name)
	if err != nil {
		return 0, err
	}
	v, err := tag.Int(0)
	if err != nil {
		return 0, err
	}
	if v <= 0 {
		return 0, errors.New("non positive dimension")
	}
	return v, nil
}
