package format

import (
	"bytes"
	"strings"
	"unicode/utf16"

	"github.com/cloudflare/ahocorasick"
)

// markerSet is a fixed list of byte markers searched for in one pass.
type markerSet struct {
	markers []string
	m       *ahocorasick.Matcher
}

func newMarkerSet(markers ...string) *markerSet {
	return &markerSet{
		markers: markers,
		m:       ahocorasick.NewStringMatcher(markers),
	}
}

// find reports which markers occur in any of the given windows. Windows are
// searched separately so that no marker is assembled across their boundary.
func (s *markerSet) find(windows ...[]byte) map[string]bool {
	found := make(map[string]bool)
	for _, w := range windows {
		if len(w) == 0 {
			continue
		}
		for _, idx := range s.m.Match(w) {
			found[s.markers[idx]] = true
		}
	}
	return found
}

const (
	zipContentTypes = "[Content_Types].xml"
	zipWord         = "word/"
	zipExcel        = "xl/"
	zipPowerPoint   = "ppt/"
	zipODText       = "mimetypeapplication/vnd.oasis.opendocument.text"
	zipODSheet      = "mimetypeapplication/vnd.oasis.opendocument.spreadsheet"
	zipODSlides     = "mimetypeapplication/vnd.oasis.opendocument.presentation"
	zipEPUB         = "mimetypeapplication/epub+zip"
	zipAndroid      = "AndroidManifest.xml"
	zipDex          = "classes.dex"
	zipJarManifest  = "META-INF/MANIFEST.MF"
)

var zipMarkers = newMarkerSet(
	zipContentTypes,
	zipWord,
	zipExcel,
	zipPowerPoint,
	zipODText,
	zipODSheet,
	zipODSlides,
	zipEPUB,
	zipAndroid,
	zipDex,
	zipJarManifest,
)

// refineZIP tells apart the ZIP based container formats. Member names appear
// in the local headers near the start of the archive and again in the
// central directory at its end.
func refineZIP(head, tail []byte) string {
	found := zipMarkers.find(head, tail)

	switch {
	case found[zipEPUB]:
		return "epub"
	case found[zipODText]:
		return "odt"
	case found[zipODSheet]:
		return "ods"
	case found[zipODSlides]:
		return "odp"
	case found[zipAndroid] || found[zipDex]:
		return "apk"
	case found[zipContentTypes] && found[zipWord]:
		return "docx"
	case found[zipContentTypes] && found[zipExcel]:
		return "xlsx"
	case found[zipContentTypes] && found[zipPowerPoint]:
		return "pptx"
	case found[zipJarManifest]:
		return "jar"
	}
	return ""
}

// refineOOXML handles the local header written by Office. Archives with that
// header but none of the known members are plain ZIP files.
func refineOOXML(head, tail []byte) string {
	if ext := refineZIP(head, tail); ext != "" {
		return ext
	}
	return "zip"
}

func utf16le(s string) string {
	var b strings.Builder
	for _, r := range utf16.Encode([]rune(s)) {
		b.WriteByte(byte(r))
		b.WriteByte(byte(r >> 8))
	}
	return b.String()
}

var (
	oleWordDocument = utf16le("WordDocument")
	oleWorkbook     = utf16le("Workbook")
	oleBook         = utf16le("Book")
	olePowerPoint   = utf16le("PowerPoint Document")
	oleOutlook      = utf16le("__substg1.0_")

	oleMarkers = newMarkerSet(oleWordDocument, oleWorkbook, oleBook, olePowerPoint, oleOutlook)
)

// refineOLE2 looks for well known stream names in the directory entries of a
// compound file. Names are stored as UTF-16LE. Checks run from the most to the
// least specific container, since documents embed each other.
func refineOLE2(head, tail []byte) string {
	found := oleMarkers.find(head, tail)

	switch {
	case found[oleOutlook]:
		return "msg"
	case found[oleWordDocument]:
		return "doc"
	case found[olePowerPoint]:
		return "ppt"
	case found[oleWorkbook] || found[oleBook]:
		return "xls"
	}
	return ""
}

func refineRIFF(head, _ []byte) string {
	if len(head) < 12 {
		return ""
	}

	switch string(head[8:12]) {
	case "WAVE":
		return "wav"
	case "AVI ":
		return "avi"
	case "WEBP":
		return "webp"
	case "RMID":
		return "rmi"
	case "ACON":
		return "ani"
	}
	return ""
}

func brandExt(brand string) string {
	switch {
	case brand == "qt  ":
		return "mov"
	case brand == "M4V " || brand == "M4VH" || brand == "M4VP":
		return "m4v"
	case brand == "M4A " || brand == "M4B ":
		return "m4a"
	case brand == "crx ":
		return "cr3"
	case brand == "avif" || brand == "avis":
		return "avif"
	case brand == "heic" || brand == "heix" || brand == "hevc" || brand == "hevx" ||
		brand == "mif1" || brand == "msf1":
		return "heic"
	case strings.HasPrefix(brand, "3gp"):
		return "3gp"
	case strings.HasPrefix(brand, "3g2"):
		return "3g2"
	case brand == "isom" || brand == "iso2" || brand == "iso4" || brand == "iso5" || brand == "iso6" ||
		brand == "mp41" || brand == "mp42" || brand == "avc1" || brand == "MSNV" ||
		brand == "XAVC" || brand == "dash" || brand == "f4v ":
		return "mp4"
	}
	return ""
}

// refineFtyp maps the ISO-BMFF major brand, or failing that the first known
// compatible brand, to an extension.
func refineFtyp(head, _ []byte) string {
	if len(head) < 12 {
		return ""
	}

	if ext := brandExt(string(head[8:12])); ext != "" {
		return ext
	}

	boxSize := int(uint32(head[0])<<24 | uint32(head[1])<<16 | uint32(head[2])<<8 | uint32(head[3]))
	end := min(boxSize, len(head))
	for i := 16; i+4 <= end; i += 4 {
		if ext := brandExt(string(head[i : i+4])); ext != "" {
			return ext
		}
	}
	return ""
}

func refinePostScript(head, _ []byte) string {
	line := head
	if i := bytes.IndexAny(line, "\r\n"); i >= 0 {
		line = line[:i]
	}
	if bytes.Contains(line, []byte("EPSF")) {
		return "eps"
	}
	return "ps"
}

// refineEBML reads the DocType element of the EBML header.
func refineEBML(head, _ []byte) string {
	hdr := head[:min(len(head), 64)]

	idx := bytes.Index(hdr, []byte{0x42, 0x82})
	if idx < 0 || idx+3 > len(hdr) {
		return ""
	}

	size := hdr[idx+2]
	if size&0x80 == 0 {
		return ""
	}
	n := int(size & 0x7F)
	start := idx + 3
	if start+n > len(hdr) {
		return ""
	}

	if string(hdr[start:start+n]) == "webm" {
		return "webm"
	}
	return "mkv"
}

var (
	asfVideoMedia = []byte{0xC0, 0xEF, 0x19, 0xBC, 0x4D, 0x5B, 0xCF, 0x11, 0xA8, 0xFD, 0x00, 0x80, 0x5F, 0x5C, 0xE7, 0x2B}
	asfAudioMedia = []byte{0x40, 0x9E, 0x69, 0xF8, 0x4D, 0x5B, 0xCF, 0x11, 0xA8, 0xFD, 0x00, 0x80, 0x5F, 0x5C, 0x44, 0x2B}
)

// refineASF checks the stream properties objects of the header for video or
// audio media types.
func refineASF(head, _ []byte) string {
	switch {
	case bytes.Contains(head, asfVideoMedia):
		return "wmv"
	case bytes.Contains(head, asfAudioMedia):
		return "wma"
	}
	return ""
}
