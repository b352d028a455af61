package metadata_test

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"image"
	"image/jpeg"
	"image/png"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/ostafen/chkrecover/internal/format"
	"github.com/ostafen/chkrecover/internal/metadata"
	"github.com/stretchr/testify/require"
)

var oldTime = time.Date(2001, time.September, 9, 1, 46, 40, 0, time.UTC)

func writeFixture(t *testing.T, data []byte) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), "FILE0000.CHK")
	require.NoError(t, os.WriteFile(path, data, 0o644))
	require.NoError(t, os.Chtimes(path, oldTime, oldTime))
	return path
}

func encodePNG(t *testing.T, w, h int) []byte {
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, image.NewRGBA(image.Rect(0, 0, w, h))))
	return buf.Bytes()
}

func TestExtract_PNG(t *testing.T) {
	path := writeFixture(t, encodePNG(t, 3, 2))

	md, err := metadata.Extract(path, format.KindImage)
	require.NoError(t, err)
	require.Equal(t, 3, md.Width)
	require.Equal(t, 2, md.Height)
	require.Equal(t, "png", md.Format)

	require.True(t, md.CreationTime.Equal(oldTime))
	require.Equal(t, metadata.SourceModified, md.TimeSource)
	require.Equal(t, 2001, md.Year())
}

func TestExtract_JPEGWithoutEXIF(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, jpeg.Encode(&buf, image.NewGray(image.Rect(0, 0, 8, 4)), nil))

	md, err := metadata.Extract(writeFixture(t, buf.Bytes()), format.KindEXIF)
	require.NoError(t, err)
	require.Equal(t, 8, md.Width)
	require.Equal(t, 4, md.Height)
	require.Equal(t, metadata.SourceModified, md.TimeSource)
}

func TestExtract_BrokenImage(t *testing.T) {
	path := writeFixture(t, []byte("\x89PNG\r\n\x1a\ngarbage"))

	md, err := metadata.Extract(path, format.KindImage)
	require.Error(t, err)
	require.Contains(t, err.Error(), "image metadata")

	// The fallback time survives extraction errors.
	require.True(t, md.CreationTime.Equal(oldTime))
}

func TestExtract_PSD(t *testing.T) {
	hdr := make([]byte, 26)
	copy(hdr, "8BPS\x00\x01")
	binary.BigEndian.PutUint32(hdr[14:18], 600)
	binary.BigEndian.PutUint32(hdr[18:22], 800)

	md, err := metadata.Extract(writeFixture(t, hdr), format.KindImage)
	require.NoError(t, err)
	require.Equal(t, 800, md.Width)
	require.Equal(t, 600, md.Height)
	require.Equal(t, "psd", md.Format)
}

func TestExtract_ICO(t *testing.T) {
	data := []byte{0x00, 0x00, 0x01, 0x00, 0x02, 0x00}
	data = append(data, 16, 16, 0, 0, 1, 0, 32, 0, 0, 0, 0, 0, 0, 0, 0, 0)
	data = append(data, 0, 0, 0, 0, 1, 0, 32, 0, 0, 0, 0, 0, 0, 0, 0, 0)

	md, err := metadata.Extract(writeFixture(t, data), format.KindImage)
	require.NoError(t, err)
	require.Equal(t, 256, md.Width)
	require.Equal(t, 256, md.Height)
	require.Equal(t, "ico", md.Format)
}

func box(typ string, payload ...[]byte) []byte {
	body := bytes.Join(payload, nil)
	out := binary.BigEndian.AppendUint32(nil, uint32(8+len(body)))
	out = append(out, typ...)
	return append(out, body...)
}

func u32(v uint32) []byte {
	return binary.BigEndian.AppendUint32(nil, v)
}

func mp4Fixture(created time.Time) []byte {
	secs := uint32(created.Sub(time.Date(1904, 1, 1, 0, 0, 0, 0, time.UTC)) / time.Second)

	mvhd := bytes.Join([][]byte{
		{0, 0, 0, 0}, // version, flags
		u32(secs), u32(secs),
		u32(1000),  // timescale
		u32(90500), // duration
		make([]byte, 80),
	}, nil)

	tkhd := func(w, h uint32) []byte {
		b := make([]byte, 84)
		binary.BigEndian.PutUint32(b[76:80], w<<16)
		binary.BigEndian.PutUint32(b[80:84], h<<16)
		return b
	}

	return bytes.Join([][]byte{
		box("ftyp", []byte("isom"), u32(512), []byte("isomavc1")),
		box("moov",
			box("mvhd", mvhd),
			box("trak", box("tkhd", tkhd(0, 0))),
			box("trak", box("tkhd", tkhd(1920, 1080))),
		),
		box("mdat", make([]byte, 64)),
	}, nil)
}

func TestExtract_BMFF(t *testing.T) {
	created := time.Date(2019, time.July, 14, 10, 30, 0, 0, time.UTC)

	md, err := metadata.Extract(writeFixture(t, mp4Fixture(created)), format.KindBMFF)
	require.NoError(t, err)
	require.True(t, md.CreationTime.Equal(created))
	require.Equal(t, metadata.SourceBMFF, md.TimeSource)
	require.Equal(t, 90500*time.Millisecond, md.Duration)
	require.Equal(t, 1920, md.Width)
	require.Equal(t, 1080, md.Height)
}

func TestExtract_BMFFTruncated(t *testing.T) {
	created := time.Date(2019, time.July, 14, 10, 30, 0, 0, time.UTC)
	data := mp4Fixture(created)

	// Cut inside mdat: the movie header is still there.
	md, err := metadata.Extract(writeFixture(t, data[:len(data)-20]), format.KindBMFF)
	require.NoError(t, err)
	require.True(t, md.CreationTime.Equal(created))
}

func TestExtract_HEIFSpatialExtents(t *testing.T) {
	ispe := func(w, h uint32) []byte {
		return box("ispe", []byte{0, 0, 0, 0}, u32(w), u32(h))
	}

	data := bytes.Join([][]byte{
		box("ftyp", []byte("heic"), u32(0), []byte("mif1heic")),
		box("meta", []byte{0, 0, 0, 0},
			box("hdlr", make([]byte, 24)),
			box("iprp", box("ipco", ispe(320, 240), ispe(4032, 3024))),
		),
	}, nil)

	md, err := metadata.Extract(writeFixture(t, data), format.KindBMFF)
	require.NoError(t, err)
	require.Equal(t, 4032, md.Width)
	require.Equal(t, 3024, md.Height)
	require.Equal(t, metadata.SourceModified, md.TimeSource)
}

func le32(v uint32) []byte {
	return binary.LittleEndian.AppendUint32(nil, v)
}

func chunk(id string, payload ...[]byte) []byte {
	body := bytes.Join(payload, nil)
	out := append([]byte(id), le32(uint32(len(body)))...)
	out = append(out, body...)
	if len(body)%2 == 1 {
		out = append(out, 0)
	}
	return out
}

func riff(form string, chunks ...[]byte) []byte {
	body := append([]byte(form), bytes.Join(chunks, nil)...)
	return append(append([]byte("RIFF"), le32(uint32(len(body)))...), body...)
}

func TestExtract_WAV(t *testing.T) {
	fmtChunk := bytes.Join([][]byte{
		{1, 0, 1, 0},  // PCM, mono
		le32(8000),    // sample rate
		le32(16000),   // byte rate
		{2, 0, 16, 0}, // block align, bits per sample
	}, nil)

	data := riff("WAVE",
		chunk("LIST", []byte("INFOISFT"), le32(3), []byte("go\x00")),
		chunk("fmt ", fmtChunk),
		chunk("data", make([]byte, 32000)),
	)

	md, err := metadata.Extract(writeFixture(t, data), format.KindRIFF)
	require.NoError(t, err)
	require.Equal(t, 2*time.Second, md.Duration)
	require.Equal(t, "wave", md.Format)

	// Half of the samples are gone.
	md, err = metadata.Extract(writeFixture(t, data[:len(data)-16000]), format.KindRIFF)
	require.NoError(t, err)
	require.Equal(t, time.Second, md.Duration)
}

func TestExtract_AVI(t *testing.T) {
	avih := make([]byte, 56)
	binary.LittleEndian.PutUint32(avih[0:4], 40000) // 25 fps
	binary.LittleEndian.PutUint32(avih[16:20], 250)
	binary.LittleEndian.PutUint32(avih[32:36], 640)
	binary.LittleEndian.PutUint32(avih[36:40], 480)

	data := riff("AVI ",
		chunk("LIST", []byte("hdrl"), chunk("avih", avih)),
		chunk("LIST", []byte("movi"), make([]byte, 16)),
	)

	md, err := metadata.Extract(writeFixture(t, data), format.KindRIFF)
	require.NoError(t, err)
	require.Equal(t, 640, md.Width)
	require.Equal(t, 480, md.Height)
	require.Equal(t, 10*time.Second, md.Duration)
	require.Equal(t, "avi", md.Format)
}

func TestExtract_WAVWithoutFormat(t *testing.T) {
	data := riff("WAVE", chunk("data", make([]byte, 10)))

	_, err := metadata.Extract(writeFixture(t, data), format.KindRIFF)
	require.Error(t, err)
}

func TestExtract_FLAC(t *testing.T) {
	info := make([]byte, 34)
	// 44100 Hz, 2 channels, 16 bits, 88200 samples.
	rate, samples := uint32(44100), uint32(88200)
	info[10] = byte(rate >> 12)
	info[11] = byte(rate >> 4)
	info[12] = byte(rate<<4) | (1 << 1)
	info[13] = 0xF0
	binary.BigEndian.PutUint32(info[14:18], samples)

	data := append([]byte("fLaC"), 0x80, 0, 0, 34)
	data = append(data, info...)

	md, err := metadata.Extract(writeFixture(t, data), format.KindFLAC)
	require.NoError(t, err)
	require.Equal(t, 2*time.Second, md.Duration)
	require.Equal(t, "flac", md.Format)
}

// buildPDF lays out a minimal document with a correct cross-reference table.
func buildPDF(pages int, created string) []byte {
	kids := make([]string, pages)
	for i := range kids {
		kids[i] = fmt.Sprintf("%d 0 R", 4+i)
	}

	objs := []string{
		"<< /Type /Catalog /Pages 2 0 R >>",
		fmt.Sprintf("<< /Type /Pages /Kids [%s] /Count %d >>", strings.Join(kids, " "), pages),
		fmt.Sprintf("<< /Producer (test) /CreationDate (%s) >>", created),
	}
	for i := 0; i < pages; i++ {
		objs = append(objs, "<< /Type /Page /Parent 2 0 R /MediaBox [0 0 612 792] >>")
	}

	var buf bytes.Buffer
	buf.WriteString("%PDF-1.4\n")

	offsets := make([]int, len(objs))
	for i, obj := range objs {
		offsets[i] = buf.Len()
		fmt.Fprintf(&buf, "%d 0 obj\n%s\nendobj\n", i+1, obj)
	}

	xref := buf.Len()
	fmt.Fprintf(&buf, "xref\n0 %d\n0000000000 65535 f \n", len(objs)+1)
	for _, off := range offsets {
		fmt.Fprintf(&buf, "%010d 00000 n \n", off)
	}
	fmt.Fprintf(&buf, "trailer\n<< /Size %d /Root 1 0 R /Info 3 0 R >>\nstartxref\n%d\n%%%%EOF\n", len(objs)+1, xref)
	return buf.Bytes()
}

func TestExtract_PDF(t *testing.T) {
	path := writeFixture(t, buildPDF(3, "D:20210304050607+01'00'"))

	md, err := metadata.Extract(path, format.KindPDF)
	require.NoError(t, err)
	require.Equal(t, 3, md.Pages)
	require.Equal(t, metadata.SourcePDF, md.TimeSource)
	require.True(t, md.CreationTime.Equal(time.Date(2021, 3, 4, 4, 6, 7, 0, time.UTC)))
}

func TestExtract_TruncatedPDF(t *testing.T) {
	data := buildPDF(1, "D:2021")
	path := writeFixture(t, data[:len(data)/2])

	md, err := metadata.Extract(path, format.KindPDF)
	require.Error(t, err)
	require.Equal(t, metadata.SourceModified, md.TimeSource)
}

func TestExtract_TruncatedSevenZip(t *testing.T) {
	data := append([]byte{'7', 'z', 0xBC, 0xAF, 0x27, 0x1C, 0x00, 0x04}, make([]byte, 64)...)

	md, err := metadata.Extract(writeFixture(t, data), format.KindSevenZip)
	require.Error(t, err)
	require.True(t, md.CreationTime.Equal(oldTime))
}

func TestExtract_KindNone(t *testing.T) {
	md, err := metadata.Extract(writeFixture(t, []byte("MZ\x90\x00")), format.KindNone)
	require.NoError(t, err)
	require.Zero(t, md.Width)
	require.Equal(t, metadata.SourceModified, md.TimeSource)

	_, err = metadata.Extract(filepath.Join(t.TempDir(), "missing"), format.KindNone)
	require.Error(t, err)
}

func TestParsePDFDate(t *testing.T) {
	tests := []struct {
		in   string
		want time.Time
	}{
		{"D:2021", time.Date(2021, 1, 1, 0, 0, 0, 0, time.UTC)},
		{"D:202103", time.Date(2021, 3, 1, 0, 0, 0, 0, time.UTC)},
		{"D:20210304050607", time.Date(2021, 3, 4, 5, 6, 7, 0, time.UTC)},
		{"D:20210304050607Z", time.Date(2021, 3, 4, 5, 6, 7, 0, time.UTC)},
		{"D:20210304050607Z00'00'", time.Date(2021, 3, 4, 5, 6, 7, 0, time.UTC)},
		{"D:20210304050607-05'30'", time.Date(2021, 3, 4, 10, 36, 7, 0, time.UTC)},
		{"20210304050607+02", time.Date(2021, 3, 4, 3, 6, 7, 0, time.UTC)},
	}

	for _, tc := range tests {
		t.Run(tc.in, func(t *testing.T) {
			got, err := metadata.ParsePDFDate(tc.in)
			require.NoError(t, err)
			require.True(t, got.Equal(tc.want), "got %s", got)
		})
	}

	for _, in := range []string{"", "D:", "D:21", "D:2021030", "yesterday"} {
		_, err := metadata.ParsePDFDate(in)
		require.Error(t, err, in)
	}
}

func TestFileTime(t *testing.T) {
	path := writeFixture(t, []byte("x"))

	finfo, err := os.Stat(path)
	require.NoError(t, err)

	// The birth time of a fresh file is later than the backdated mtime.
	got, source := metadata.FileTime(path, finfo)
	require.True(t, got.Equal(oldTime))
	require.Equal(t, metadata.SourceModified, source)
}

func TestMetadata_LogValue(t *testing.T) {
	md := metadata.Metadata{
		CreationTime: oldTime,
		TimeSource:   metadata.SourceEXIF,
		Width:        640,
		Height:       480,
		Duration:     1500 * time.Millisecond,
	}

	var buf bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&buf, nil))
	logger.Info("recovered", "meta", md)

	out := buf.String()
	require.Contains(t, out, "meta.dimensions=640x480")
	require.Contains(t, out, "meta.time_source=exif")
	require.Contains(t, out, "meta.duration=1.5s")
	require.NotContains(t, out, "pages")

	require.Zero(t, metadata.Metadata{}.Year())
}
