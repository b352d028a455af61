package metadata

import (
	"bytes"
	"encoding/binary"
	"errors"
	"fmt"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
	"io"

	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/tiff"
	_ "golang.org/x/image/webp"
)

var (
	psdMagic = []byte("8BPS")
	icoMagic = []byte{0x00, 0x00, 0x01, 0x00}
	curMagic = []byte{0x00, 0x00, 0x02, 0x00}
)

const (
	psdHeaderSize = 26
	icoHeaderSize = 6
	icoEntrySize  = 16
)

// extractImage reads the pixel dimensions from the image header without
// decoding any pixel data.
func extractImage(r io.ReaderAt, size int64, md *Metadata) error {
	var head [psdHeaderSize]byte
	n, err := r.ReadAt(head[:], 0)
	if err != nil && err != io.EOF {
		return err
	}

	switch {
	case bytes.HasPrefix(head[:n], psdMagic):
		return psdConfig(head[:n], md)
	case bytes.HasPrefix(head[:n], icoMagic), bytes.HasPrefix(head[:n], curMagic):
		return icoConfig(r, md)
	}

	cfg, name, err := image.DecodeConfig(io.NewSectionReader(r, 0, size))
	if err != nil {
		return fmt.Errorf("failed to decode image header: %w", err)
	}

	md.Width = cfg.Width
	md.Height = cfg.Height
	md.Format = name
	return nil
}

func psdConfig(head []byte, md *Metadata) error {
	if len(head) < psdHeaderSize {
		return io.ErrUnexpectedEOF
	}

	md.Height = int(binary.BigEndian.Uint32(head[14:18]))
	md.Width = int(binary.BigEndian.Uint32(head[18:22]))
	md.Format = "psd"
	return nil
}

// icoConfig reports the largest image of an icon directory. Entry sizes of
// zero stand for 256.
func icoConfig(r io.ReaderAt, md *Metadata) error {
	var hdr [icoHeaderSize]byte
	if _, err := r.ReadAt(hdr[:], 0); err != nil {
		return err
	}

	count := int(binary.LittleEndian.Uint16(hdr[4:6]))
	if count == 0 {
		return errors.New("empty icon directory")
	}

	entries := make([]byte, count*icoEntrySize)
	n, err := r.ReadAt(entries, icoHeaderSize)
	if err != nil && err != io.EOF {
		return err
	}

	for i := 0; i+icoEntrySize <= n; i += icoEntrySize {
		w, h := int(entries[i]), int(entries[i+1])
		if w == 0 {
			w = 256
		}
		if h == 0 {
			h = 256
		}
		if w*h > md.Width*md.Height {
			md.Width, md.Height = w, h
		}
	}

	if hdr[2] == 2 {
		md.Format = "cur"
	} else {
		md.Format = "ico"
	}
	return nil
}
