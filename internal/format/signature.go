package format

import (
	"encoding/hex"
	"fmt"
	"strings"
)

type Category string

const (
	CategoryImage      Category = "image"
	CategoryVideo      Category = "video"
	CategoryAudio      Category = "audio"
	CategoryDocument   Category = "document"
	CategoryArchive    Category = "archive"
	CategoryExecutable Category = "executable"
	CategoryFont       Category = "font"
	CategoryDatabase   Category = "database"
)

// Kind selects how metadata is extracted from a recognised file.
type Kind int

const (
	KindNone Kind = iota
	KindImage
	KindEXIF
	KindBMFF
	KindRIFF
	KindFLAC
	KindPDF
	KindSevenZip
)

var kindNames = [...]string{
	KindNone:     "none",
	KindImage:    "image",
	KindEXIF:     "exif",
	KindBMFF:     "bmff",
	KindRIFF:     "riff",
	KindFLAC:     "flac",
	KindPDF:      "pdf",
	KindSevenZip: "7z",
}

func (k Kind) String() string {
	if k >= 0 && int(k) < len(kindNames) {
		return kindNames[k]
	}
	return "unknown"
}

// ParseKind is the inverse of Kind.String. The empty string maps to KindNone.
func ParseKind(s string) (Kind, error) {
	if s == "" {
		return KindNone, nil
	}
	for k, name := range kindNames {
		if strings.EqualFold(name, s) {
			return Kind(k), nil
		}
	}
	return KindNone, fmt.Errorf("unknown metadata kind %q", s)
}

// Signature describes one file format: the magic byte sequences that
// identify it and where they sit in the file.
type Signature struct {
	Ext         string // extension without the dot, e.g. "jpg"
	Description string
	Category    Category
	Magic       [][]byte
	Offset      int    // position of Magic from the start of the file
	Trailer     []byte // expected last bytes of a complete file, if any
	Kind        Kind

	// Refine may return a more specific extension once the signature has
	// matched, by looking further into the head and tail windows. An empty
	// return keeps Ext.
	Refine func(head, tail []byte) string
}

// Match is the outcome of identifying a file.
type Match struct {
	Signature *Signature
	Ext       string
	Magic     []byte

	// TrailerOK is false when the signature declares a trailer and the file
	// does not end with it, which usually means the fragment is truncated.
	TrailerOK bool
}

func (m Match) Category() Category {
	return m.Signature.Category
}

func (m Match) Kind() Kind {
	return m.Signature.Kind
}

// MagicHex returns the matched magic in lowercase hex.
func (m Match) MagicHex() string {
	return hex.EncodeToString(m.Magic)
}
