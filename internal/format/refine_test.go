package format_test

import (
	"testing"

	"github.com/ostafen/chkrecover/internal/format"
	"github.com/stretchr/testify/require"
)

func cat(parts ...[]byte) []byte {
	var out []byte
	for _, p := range parts {
		out = append(out, p...)
	}
	return out
}

func utf16(s string) []byte {
	out := make([]byte, 0, 2*len(s))
	for i := 0; i < len(s); i++ {
		out = append(out, s[i], 0x00)
	}
	return out
}

func identify(t *testing.T, head, tail []byte) format.Match {
	t.Helper()

	m, err := format.BuildRegistry().Identify(head, tail)
	require.NoError(t, err)
	return m
}

func TestRefine_ZIP(t *testing.T) {
	ooxml := []byte{'P', 'K', 0x03, 0x04, 0x14, 0x00, 0x06, 0x00}
	plain := []byte{'P', 'K', 0x03, 0x04, 0x0A, 0x00, 0x00, 0x00}

	tests := []struct {
		name string
		head []byte
		tail []byte
		ext  string
	}{
		{"docx", cat(ooxml, []byte("..[Content_Types].xml..word/document.xml")), nil, "docx"},
		{"xlsx", cat(ooxml, []byte("..[Content_Types].xml")), []byte("xl/workbook.xml PK\x05\x06"), "xlsx"},
		{"pptx", cat(ooxml, []byte("[Content_Types].xml ppt/slides/slide1.xml")), nil, "pptx"},
		{"epub", cat(plain, []byte("..mimetypeapplication/epub+zipPK")), nil, "epub"},
		{"odt", cat(plain, []byte("..mimetypeapplication/vnd.oasis.opendocument.textPK")), nil, "odt"},
		{"ods", cat(plain, []byte("..mimetypeapplication/vnd.oasis.opendocument.spreadsheetPK")), nil, "ods"},
		{"apk", cat(plain, []byte("..AndroidManifest.xml")), nil, "apk"},
		{"jar", cat(plain, []byte("..META-INF/MANIFEST.MF")), nil, "jar"},
		{"plain", cat(plain, []byte("..photos/IMG_0001.JPG")), nil, "zip"},
		{"plain office header", cat(ooxml, []byte("..photos/IMG_0001.JPG")), []byte("photos/IMG_0001.JPG PK\x05\x06"), "zip"},
		// A member name split across the head and tail windows is not found.
		{"split", cat(plain, []byte("..[Content_")), []byte("Types].xml word/"), "zip"},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			require.Equal(t, tc.ext, identify(t, tc.head, tc.tail).Ext)
		})
	}
}

func TestRefine_DerivedSignature(t *testing.T) {
	head := cat([]byte{'P', 'K', 0x03, 0x04, 0x0A, 0x00}, []byte("mimetypeapplication/epub+zip"))

	m := identify(t, head, nil)
	require.Equal(t, "epub", m.Ext)
	require.Equal(t, "epub", m.Signature.Ext)
	require.Equal(t, format.CategoryDocument, m.Category())
	require.Equal(t, "504b0304", m.MagicHex())
}

func TestRefine_OLE2(t *testing.T) {
	ole := []byte{0xD0, 0xCF, 0x11, 0xE0, 0xA1, 0xB1, 0x1A, 0xE1}
	filler := make([]byte, 64)

	tests := []struct {
		name   string
		stream string
		ext    string
	}{
		{"word", "WordDocument", "doc"},
		{"excel", "Workbook", "xls"},
		{"powerpoint", "PowerPoint Document", "ppt"},
		{"outlook", "__substg1.0_0037001F", "msg"},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			head := cat(ole, filler, utf16("Root Entry"), filler, utf16(tc.stream))
			require.Equal(t, tc.ext, identify(t, head, head).Ext)
		})
	}

	// ASCII stream names are not directory entries.
	head := cat(ole, filler, []byte("Workbook"))
	require.Equal(t, "doc", identify(t, head, head).Ext)
}

func TestRefine_RIFF(t *testing.T) {
	riff := func(form string) []byte {
		return cat([]byte("RIFF\x24\x00\x00\x00"), []byte(form), []byte("fmt "))
	}

	require.Equal(t, "wav", identify(t, riff("WAVE"), nil).Ext)
	require.Equal(t, "avi", identify(t, riff("AVI "), nil).Ext)
	require.Equal(t, "webp", identify(t, riff("WEBP"), nil).Ext)
	require.Equal(t, "rmi", identify(t, riff("RMID"), nil).Ext)
	require.Equal(t, "ani", identify(t, riff("ACON"), nil).Ext)
	require.Equal(t, "riff", identify(t, riff("XXXX"), nil).Ext)
	require.Equal(t, "riff", identify(t, []byte("RIFF\x00\x00"), nil).Ext)

	m := identify(t, riff("WAVE"), nil)
	require.Equal(t, format.CategoryAudio, m.Category())
	require.Equal(t, format.KindRIFF, m.Kind())
}

func TestRefine_Ftyp(t *testing.T) {
	ftyp := func(major string, compat ...string) []byte {
		size := 16 + 4*len(compat)
		box := cat([]byte{0, 0, 0, byte(size)}, []byte("ftyp"), []byte(major), []byte{0, 0, 0, 0})
		for _, c := range compat {
			box = append(box, c...)
		}
		return append(box, "\x00\x00\x00\x08free"...)
	}

	tests := []struct {
		name string
		head []byte
		ext  string
	}{
		{"isom", ftyp("isom", "isom", "avc1"), "mp4"},
		{"quicktime", ftyp("qt  ", "qt  "), "mov"},
		{"m4a", ftyp("M4A ", "M4A ", "mp42"), "m4a"},
		{"heic", ftyp("heic", "mif1", "heic"), "heic"},
		{"heic compatible", ftyp("XXXX", "mif1", "heic"), "heic"},
		{"avif", ftyp("avif", "mif1"), "avif"},
		{"canon", ftyp("crx ", "crx "), "cr3"},
		{"3gp", ftyp("3gp5", "3gp5"), "3gp"},
		{"3g2", ftyp("3g2a"), "3g2"},
		{"unknown brand", ftyp("ZZZZ", "YYYY"), "mp4"},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			m := identify(t, tc.head, nil)
			require.Equal(t, tc.ext, m.Ext)
			require.Equal(t, format.KindBMFF, m.Kind())
		})
	}
}

func TestRefine_PostScript(t *testing.T) {
	require.Equal(t, "eps", identify(t, []byte("%!PS-Adobe-3.0 EPSF-3.0\n%%BoundingBox: 0 0 10 10\n"), nil).Ext)
	require.Equal(t, "ps", identify(t, []byte("%!PS-Adobe-3.0\n%%Title: EPSF notes\n"), nil).Ext)
}

func TestRefine_EBML(t *testing.T) {
	ebml := func(docType string) []byte {
		return cat(
			[]byte{0x1A, 0x45, 0xDF, 0xA3, 0x9F},
			[]byte{0x42, 0x86, 0x81, 0x01},
			[]byte{0x42, 0xF7, 0x81, 0x01},
			[]byte{0x42, 0x82, 0x80 | byte(len(docType))},
			[]byte(docType),
		)
	}

	require.Equal(t, "webm", identify(t, ebml("webm"), nil).Ext)
	require.Equal(t, "mkv", identify(t, ebml("matroska"), nil).Ext)
}

func TestRefine_ASF(t *testing.T) {
	header := []byte{
		0x30, 0x26, 0xB2, 0x75, 0x8E, 0x66, 0xCF, 0x11,
		0xA6, 0xD9, 0x00, 0xAA, 0x00, 0x62, 0xCE, 0x6C,
	}
	audio := []byte{0x40, 0x9E, 0x69, 0xF8, 0x4D, 0x5B, 0xCF, 0x11, 0xA8, 0xFD, 0x00, 0x80, 0x5F, 0x5C, 0x44, 0x2B}
	video := []byte{0xC0, 0xEF, 0x19, 0xBC, 0x4D, 0x5B, 0xCF, 0x11, 0xA8, 0xFD, 0x00, 0x80, 0x5F, 0x5C, 0xE7, 0x2B}
	filler := make([]byte, 32)

	require.Equal(t, "wma", identify(t, cat(header, filler, audio), nil).Ext)
	require.Equal(t, "wmv", identify(t, cat(header, filler, audio, filler, video), nil).Ext)
	require.Equal(t, "asf", identify(t, cat(header, filler), nil).Ext)
}
