// Copyright (c) 2025 Stefano Scafiti
//
// Permission is hereby granted, free of charge, to any person obtaining a copy
// of this software and associated documentation files (the "Software"), to deal
// in the Software without restriction, including without limitation the rights
// to use, copy, modify, merge, publish, distribute, sublicense, and/or sell
// copies of the Software, and to permit persons to whom the Software is
// furnished to do so, subject to the following conditions:
//
// The above copyright notice and this permission notice shall be included in
// all copies or substantial portions of the Software.
//
// THE SOFTWARE IS PROVIDED "AS IS", WITHOUT WARRANTY OF ANY KIND, EXPRESS OR
// IMPLIED, INCLUDING BUT NOT LIMITED TO THE WARRANTIES OF MERCHANTABILITY,
// FITNESS FOR A PARTICULAR PURPOSE AND NONINFRINGEMENT. IN NO EVENT SHALL THE
// AUTHORS OR COPYRIGHT HOLDERS BE LIABLE FOR ANY CLAIM, DAMAGES OR OTHER
// LIABILITY, WHETHER IN AN ACTION OF CONTRACT, TORT OR OTHERWISE, ARISING FROM,
// OUT OF OR IN CONNECTION WITH THE SOFTWARE OR THE USE OR OTHER DEALINGS IN
// THE SOFTWARE.
package metadata

import (
	"encoding/binary"
	"fmt"
	"io"
	"strings"
	"time"
)

const (
	riffHeaderSize  = 12 // "RIFF", size, form type
	chunkHeaderSize = 8  // chunk ID, chunk size
	minFmtChunkSize = 16 // PCM 'fmt ' payload
	avihSize        = 40
)

type riffInfo struct {
	byteRate uint32 // WAVE 'fmt '
	dataSize int64  // WAVE 'data', clamped to the bytes present

	usPerFrame  uint32 // AVI 'avih'
	totalFrames uint32
	width       uint32
	height      uint32
}

// extractRIFF walks the chunks of a WAVE or AVI file. The declared RIFF size
// is trusted only as far as the file actually extends, so truncated
// fragments still report what their headers promise.
func extractRIFF(r io.ReaderAt, size int64, md *Metadata) error {
	var hdr [riffHeaderSize]byte
	if _, err := r.ReadAt(hdr[:], 0); err != nil {
		return fmt.Errorf("failed to read RIFF header: %w", err)
	}
	if string(hdr[0:4]) != "RIFF" {
		return fmt.Errorf("missing RIFF signature")
	}

	// riffSize is the file size minus the 8 bytes of ID and size.
	riffSize := int64(binary.LittleEndian.Uint32(hdr[4:8]))
	end := min(riffSize+chunkHeaderSize, size)
	form := string(hdr[8:12])

	var info riffInfo
	if err := walkRIFF(r, riffHeaderSize, end, &info); err != nil {
		return err
	}

	md.Format = strings.ToLower(strings.TrimSpace(form))

	switch form {
	case "WAVE":
		if info.byteRate == 0 {
			return fmt.Errorf("missing 'fmt ' sub-chunk")
		}
		md.Duration = time.Duration(float64(info.dataSize) / float64(info.byteRate) * float64(time.Second))
	case "AVI ":
		if info.usPerFrame == 0 && info.width == 0 {
			return fmt.Errorf("missing 'avih' header")
		}
		md.Width = int(info.width)
		md.Height = int(info.height)
		md.Duration = time.Duration(info.totalFrames) * time.Duration(info.usPerFrame) * time.Microsecond
	}
	return nil
}

func walkRIFF(r io.ReaderAt, off, end int64, info *riffInfo) error {
	var hdr [chunkHeaderSize]byte

	for off+chunkHeaderSize <= end {
		if _, err := r.ReadAt(hdr[:], off); err != nil {
			return fmt.Errorf("failed to read chunk header at %d: %w", off, err)
		}

		chunkID := string(hdr[0:4])
		chunkSize := int64(binary.LittleEndian.Uint32(hdr[4:8]))
		body := off + chunkHeaderSize

		switch chunkID {
		case "fmt ":
			if chunkSize < minFmtChunkSize {
				return fmt.Errorf("unsupported 'fmt ' chunk size (%d)", chunkSize)
			}
			var buf [minFmtChunkSize]byte
			if _, err := r.ReadAt(buf[:], body); err != nil {
				return fmt.Errorf("failed to read 'fmt ' chunk data: %w", err)
			}
			info.byteRate = binary.LittleEndian.Uint32(buf[8:12])
		case "data":
			// A truncated data chunk holds only what is left of the file.
			info.dataSize = min(chunkSize, end-body)
		case "LIST":
			var listType [4]byte
			if _, err := r.ReadAt(listType[:], body); err != nil {
				return fmt.Errorf("failed to read list type: %w", err)
			}
			if string(listType[:]) == "hdrl" {
				if err := walkRIFF(r, body+4, min(body+chunkSize, end), info); err != nil {
					return err
				}
			}
		case "avih":
			var buf [avihSize]byte
			if _, err := r.ReadAt(buf[:], body); err != nil {
				return fmt.Errorf("failed to read 'avih' chunk data: %w", err)
			}
			info.usPerFrame = binary.LittleEndian.Uint32(buf[0:4])
			info.totalFrames = binary.LittleEndian.Uint32(buf[16:20])
			info.width = binary.LittleEndian.Uint32(buf[32:36])
			info.height = binary.LittleEndian.Uint32(buf[36:40])
		}

		// Chunks are padded to an even size.
		off = body + chunkSize + chunkSize&1
	}
	return nil
}
