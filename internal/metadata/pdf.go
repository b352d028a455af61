package metadata

import (
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/ledongthuc/pdf"
)

// extractPDF reads the page count and the /CreationDate of the document
// information dictionary.
func extractPDF(r io.ReaderAt, size int64, md *Metadata) (err error) {
	// The parser panics on some malformed inputs, and truncated fragments
	// are exactly that.
	defer func() {
		if p := recover(); p != nil {
			err = fmt.Errorf("malformed PDF: %v", p)
		}
	}()

	doc, err := pdf.NewReader(r, size)
	if err != nil {
		return fmt.Errorf("failed to open PDF: %w", err)
	}

	md.Format = "pdf"
	md.Pages = doc.NumPage()

	created := doc.Trailer().Key("Info").Key("CreationDate").Text()
	if created == "" {
		return nil
	}

	t, err := ParsePDFDate(created)
	if err != nil {
		return err
	}
	md.CreationTime = t
	md.TimeSource = SourcePDF
	return nil
}

var pdfDateLayouts = map[int]string{
	4:  "2006",
	6:  "200601",
	8:  "20060102",
	10: "2006010215",
	12: "200601021504",
	14: "20060102150405",
}

// ParsePDFDate parses a PDF date string, D:YYYYMMDDHHmmSSOHH'mm', where
// every field after the year is optional. A missing offset means UTC.
func ParsePDFDate(s string) (time.Time, error) {
	s = strings.TrimPrefix(strings.TrimSpace(s), "D:")

	digits := len(s) - len(strings.TrimLeft(s, "0123456789"))
	layout, ok := pdfDateLayouts[digits]
	if !ok {
		return time.Time{}, fmt.Errorf("invalid PDF date %q", s)
	}

	t, err := time.ParseInLocation(layout, s[:digits], time.UTC)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid PDF date %q: %w", s, err)
	}

	zone := strings.ReplaceAll(s[digits:], "'", "")
	if zone == "" || zone == "Z" || len(zone) < 3 {
		return t, nil
	}

	sign := 1
	switch zone[0] {
	case '+':
	case '-':
		sign = -1
	default:
		return t, nil
	}

	hours, err := strconv.Atoi(zone[1:3])
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid PDF date offset %q", zone)
	}
	minutes := 0
	if len(zone) >= 5 {
		if minutes, err = strconv.Atoi(zone[3:5]); err != nil {
			return time.Time{}, fmt.Errorf("invalid PDF date offset %q", zone)
		}
	}

	loc := time.FixedZone("", sign*(hours*3600+minutes*60))
	return time.Date(t.Year(), t.Month(), t.Day(), t.Hour(), t.Minute(), t.Second(), 0, loc), nil
}
