package metadata

import (
	"encoding/binary"
	"fmt"
	"io"
	"time"
)

const (
	flacMarkerSize     = 4
	flacBlockHeader    = 4
	flacStreamInfo     = 0
	flacStreamInfoSize = 34
)

// extractFLAC reads the mandatory STREAMINFO block, which always comes first.
func extractFLAC(r io.ReaderAt, _ int64, md *Metadata) error {
	var buf [flacMarkerSize + flacBlockHeader + flacStreamInfoSize]byte
	if _, err := r.ReadAt(buf[:], 0); err != nil {
		return fmt.Errorf("failed to read STREAMINFO: %w", err)
	}
	if string(buf[:flacMarkerSize]) != "fLaC" {
		return fmt.Errorf("missing fLaC marker")
	}

	blockType := buf[flacMarkerSize] & 0x7F
	if blockType != flacStreamInfo {
		return fmt.Errorf("first metadata block has type %d, expected STREAMINFO", blockType)
	}

	info := buf[flacMarkerSize+flacBlockHeader:]

	// 20 bits of sample rate, 3 of channels, 5 of bits per sample and 36 of
	// total samples, starting at byte 10.
	sampleRate := uint32(info[10])<<12 | uint32(info[11])<<4 | uint32(info[12])>>4
	totalSamples := uint64(info[13]&0x0F)<<32 | uint64(binary.BigEndian.Uint32(info[14:18]))

	md.Format = "flac"
	if sampleRate > 0 && totalSamples > 0 {
		md.Duration = time.Duration(float64(totalSamples) / float64(sampleRate) * float64(time.Second))
	}
	return nil
}
