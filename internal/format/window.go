package format

import (
	"fmt"
	"io"
	"os"
)

// DefaultWindowSize is how many bytes are read from each end of a file.
const DefaultWindowSize = 64 * 1024

// Sample holds the two ends of a file that identification looks at.
type Sample struct {
	Head []byte
	Tail []byte
	Size int64
}

// ReadSample reads up to window bytes from the start and from the end of r.
// When the whole file fits in one window, Tail aliases Head.
func ReadSample(r io.ReaderAt, size int64, window int) (Sample, error) {
	if window <= 0 {
		window = DefaultWindowSize
	}

	headLen := int(min(size, int64(window)))
	head := make([]byte, headLen)
	if _, err := r.ReadAt(head, 0); err != nil && err != io.EOF {
		return Sample{}, fmt.Errorf("failed to read file head: %w", err)
	}

	if size <= int64(window) {
		return Sample{Head: head, Tail: head, Size: size}, nil
	}

	tail := make([]byte, window)
	if _, err := r.ReadAt(tail, size-int64(window)); err != nil && err != io.EOF {
		return Sample{}, fmt.Errorf("failed to read file tail: %w", err)
	}
	return Sample{Head: head, Tail: tail, Size: size}, nil
}

// ReadSampleFile opens path and reads its sample.
func ReadSampleFile(path string, window int) (Sample, error) {
	f, err := os.Open(path)
	if err != nil {
		return Sample{}, err
	}
	defer f.Close()

	finfo, err := f.Stat()
	if err != nil {
		return Sample{}, err
	}
	return ReadSample(f, finfo.Size(), window)
}

// IdentifySample is a shorthand for r.Identify(s.Head, s.Tail).
func (r *Registry) IdentifySample(s Sample) (Match, error) {
	return r.Identify(s.Head, s.Tail)
}
