package metadata

import (
	"fmt"
	"io"

	"github.com/bodgit/sevenzip"
)

// extractSevenZip counts the archive entries and takes the newest entry
// modification time as the creation time of the archive. The header lives
// at the end of the archive, so truncated fragments fail here.
func extractSevenZip(r io.ReaderAt, size int64, md *Metadata) error {
	zr, err := sevenzip.NewReader(r, size)
	if err != nil {
		return fmt.Errorf("failed to open 7z archive: %w", err)
	}

	md.Format = "7z"
	md.Entries = len(zr.File)

	for _, f := range zr.File {
		if f.Modified.After(md.CreationTime) {
			md.CreationTime = f.Modified
		}
	}
	if !md.CreationTime.IsZero() {
		md.TimeSource = SourceArchive
	}
	return nil
}
