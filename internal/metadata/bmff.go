package metadata

import (
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"time"
)

// ISO-BMFF times count seconds from 1904-01-01 UTC.
var bmffEpoch = time.Date(1904, time.January, 1, 0, 0, 0, 0, time.UTC)

const (
	boxHeaderSize      = 8
	largeBoxHeaderSize = 16
	maxBoxDepth        = 8
	maxBoxRead         = 128
)

var errBadBox = errors.New("invalid box size")

type bmffParser struct {
	r  io.ReaderAt
	md *Metadata
}

// extractBMFF walks the box tree of MP4, QuickTime, 3GP and HEIF files
// looking for the movie header (creation time, duration), the first visual
// track header and the HEIF image spatial extents.
func extractBMFF(r io.ReaderAt, size int64, md *Metadata) error {
	p := &bmffParser{r: r, md: md}
	if err := p.walk(0, size, 0); err != nil && md.CreationTime.IsZero() && md.Width == 0 {
		return err
	}
	return nil
}

func (p *bmffParser) walk(off, end int64, depth int) error {
	if depth > maxBoxDepth {
		return nil
	}

	var hdr [largeBoxHeaderSize]byte
	for off+boxHeaderSize <= end {
		if _, err := p.r.ReadAt(hdr[:boxHeaderSize], off); err != nil {
			return fmt.Errorf("failed to read box header at %d: %w", off, err)
		}

		size := int64(binary.BigEndian.Uint32(hdr[0:4]))
		typ := string(hdr[4:8])
		hlen := int64(boxHeaderSize)

		switch size {
		case 0:
			size = end - off
		case 1:
			if _, err := p.r.ReadAt(hdr[boxHeaderSize:], off+boxHeaderSize); err != nil {
				return fmt.Errorf("failed to read box header at %d: %w", off, err)
			}
			size = int64(binary.BigEndian.Uint64(hdr[8:16]))
			hlen = largeBoxHeaderSize
		}

		if size < hlen {
			return fmt.Errorf("%w: %q at %d", errBadBox, typ, off)
		}
		// Truncated fragments keep whatever part of the box is present.
		boxEnd := min(off+size, end)
		body := off + hlen
		if body > boxEnd {
			return nil
		}

		var err error
		switch typ {
		case "moov", "trak", "mdia", "iprp", "ipco":
			err = p.walk(body, boxEnd, depth+1)
		case "meta":
			// FullBox: version and flags precede the children.
			err = p.walk(body+4, boxEnd, depth+1)
		case "mvhd":
			err = p.mvhd(body, boxEnd)
		case "tkhd":
			err = p.tkhd(body, boxEnd)
		case "ispe":
			err = p.ispe(body, boxEnd)
		}
		if err != nil {
			return err
		}

		off += size
	}
	return nil
}

func (p *bmffParser) read(off, end int64) ([]byte, error) {
	buf := make([]byte, min(end-off, maxBoxRead))
	n, err := p.r.ReadAt(buf, off)
	if err != nil && err != io.EOF {
		return nil, err
	}
	return buf[:n], nil
}

func (p *bmffParser) mvhd(off, end int64) error {
	b, err := p.read(off, end)
	if err != nil {
		return err
	}

	var created, timescale, duration uint64
	switch {
	case len(b) >= 32 && b[0] == 1:
		created = binary.BigEndian.Uint64(b[4:12])
		timescale = uint64(binary.BigEndian.Uint32(b[20:24]))
		duration = binary.BigEndian.Uint64(b[24:32])
	case len(b) >= 20:
		created = uint64(binary.BigEndian.Uint32(b[4:8]))
		timescale = uint64(binary.BigEndian.Uint32(b[12:16]))
		duration = uint64(binary.BigEndian.Uint32(b[16:20]))
	default:
		return fmt.Errorf("short mvhd box")
	}

	if created > 0 {
		p.md.CreationTime = bmffEpoch.Add(time.Duration(created) * time.Second)
		p.md.TimeSource = SourceBMFF
	}
	if timescale > 0 {
		p.md.Duration = time.Duration(float64(duration) / float64(timescale) * float64(time.Second))
	}
	return nil
}

// tkhd keeps the first track with a non zero presentation size. Audio
// tracks declare 0x0.
func (p *bmffParser) tkhd(off, end int64) error {
	if p.md.Width > 0 {
		return nil
	}

	b, err := p.read(off, end)
	if err != nil {
		return err
	}

	sizeAt := 76
	if len(b) > 0 && b[0] == 1 {
		sizeAt = 88
	}
	if len(b) < sizeAt+8 {
		return nil
	}

	// 16.16 fixed point.
	w := int(binary.BigEndian.Uint32(b[sizeAt:sizeAt+4]) >> 16)
	h := int(binary.BigEndian.Uint32(b[sizeAt+4:sizeAt+8]) >> 16)
	if w > 0 && h > 0 {
		p.md.Width, p.md.Height = w, h
	}
	return nil
}

func (p *bmffParser) ispe(off, end int64) error {
	b, err := p.read(off, end)
	if err != nil {
		return err
	}
	if len(b) < 12 {
		return nil
	}

	w := int(binary.BigEndian.Uint32(b[4:8]))
	h := int(binary.BigEndian.Uint32(b[8:12]))
	if w*h > p.md.Width*p.md.Height {
		p.md.Width, p.md.Height = w, h
	}
	return nil
}
