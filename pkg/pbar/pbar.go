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
package pbar

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/dustin/go-humanize"
)

const MinRefreshRate = time.Millisecond * 500

const barLength = 20

// ProgressBarState holds all the data needed to render the progress bar
type ProgressBarState struct {
	out io.Writer

	TotalFiles     int
	ProcessedFiles int
	RecoveredFiles int
	ProcessedBytes int64
	StartTime      time.Time
	LastUpdateTime time.Time
}

// NewProgressBarState initializes a new ProgressBarState
func NewProgressBarState(w io.Writer, totalFiles int) *ProgressBarState {
	return &ProgressBarState{
		out:        w,
		TotalFiles: totalFiles,
		StartTime:  time.Now(),
	}
}

// Add records one processed file.
func (pbs *ProgressBarState) Add(size int64, recovered bool) {
	pbs.ProcessedFiles++
	pbs.ProcessedBytes += size
	if recovered {
		pbs.RecoveredFiles++
	}
}

// Render updates and prints the progress bar line
func (pbs *ProgressBarState) Render(force bool) {
	if !force && time.Since(pbs.LastUpdateTime) < MinRefreshRate {
		return
	}
	pbs.LastUpdateTime = time.Now()

	percentage := 100.0
	if pbs.TotalFiles > 0 {
		percentage = float64(pbs.ProcessedFiles) / float64(pbs.TotalFiles) * 100
	}

	filledLen := int(float64(barLength) * percentage / 100)
	var bar string
	if filledLen >= barLength {
		bar = strings.Repeat("=", barLength)
	} else {
		bar = strings.Repeat("=", filledLen) + ">" + strings.Repeat(" ", barLength-filledLen-1)
	}

	elapsed := time.Since(pbs.StartTime).Seconds()

	var rate float64
	if elapsed > 0 {
		rate = float64(pbs.ProcessedBytes) / elapsed
	}

	var etaStr string
	if pbs.ProcessedFiles > 0 && elapsed > 0 {
		perFile := elapsed / float64(pbs.ProcessedFiles)
		etaSeconds := perFile * float64(pbs.TotalFiles-pbs.ProcessedFiles)
		etaStr = fmt.Sprintf("%02d:%02d:%02d remaining",
			int(etaSeconds/3600),
			int(etaSeconds/60)%60,
			int(etaSeconds)%60)
	} else {
		etaStr = "calculating..."
	}

	// \r moves the cursor to the beginning of the line; trailing spaces
	// clear leftovers of a previous longer line.
	fmt.Fprintf(pbs.out, "\r[INFO] Progress: [%s] %3.0f%% (%d/%d files) | Recovered: %d | @ %s/s [%s]    ",
		bar,
		percentage,
		pbs.ProcessedFiles,
		pbs.TotalFiles,
		pbs.RecoveredFiles,
		humanize.Bytes(uint64(rate)),
		etaStr)
}

// Finish moves to the next line after the bar is done.
func (pbs *ProgressBarState) Finish() {
	fmt.Fprintln(pbs.out)
}
