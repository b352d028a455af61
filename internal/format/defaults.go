package format

var (
	jpegTrailer = []byte{0xFF, 0xD9}
	pngTrailer  = []byte{'I', 'E', 'N', 'D', 0xAE, 0x42, 0x60, 0x82}
	gifTrailer  = []byte{0x3B}
	pdfTrailer  = []byte("%%EOF")

	asfHeaderGUID = []byte{
		0x30, 0x26, 0xB2, 0x75, 0x8E, 0x66, 0xCF, 0x11,
		0xA6, 0xD9, 0x00, 0xAA, 0x00, 0x62, 0xCE, 0x6C,
	}
	ole2Header = []byte{0xD0, 0xCF, 0x11, 0xE0, 0xA1, 0xB1, 0x1A, 0xE1}
)

// DefaultSignatures is the built-in format table. Entries without Magic are
// only reachable through the Refine function of a container entry (ZIP, OLE2,
// RIFF, ISO-BMFF, EBML, ASF, PostScript); they still carry the description,
// category and metadata kind of the refined format.
var DefaultSignatures = []Signature{
	// Images
	{
		Ext:         "jpg",
		Description: "JPEG image",
		Category:    CategoryImage,
		Magic:       [][]byte{{0xFF, 0xD8, 0xFF}},
		Trailer:     jpegTrailer,
		Kind:        KindEXIF,
	},
	{
		Ext:         "png",
		Description: "Portable Network Graphics",
		Category:    CategoryImage,
		Magic:       [][]byte{[]byte("\x89PNG\r\n\x1a\n")},
		Trailer:     pngTrailer,
		Kind:        KindImage,
	},
	{
		Ext:         "gif",
		Description: "Graphics Interchange Format",
		Category:    CategoryImage,
		Magic:       [][]byte{[]byte("GIF87a"), []byte("GIF89a")},
		Trailer:     gifTrailer,
		Kind:        KindImage,
	},
	{
		Ext:         "bmp",
		Description: "Windows bitmap",
		Category:    CategoryImage,
		Magic:       [][]byte{[]byte("BM")},
		Kind:        KindImage,
	},
	{
		Ext:         "ico",
		Description: "Windows icon",
		Category:    CategoryImage,
		Magic:       [][]byte{{0x00, 0x00, 0x01, 0x00}},
		Kind:        KindImage,
	},
	{
		Ext:         "cur",
		Description: "Windows cursor",
		Category:    CategoryImage,
		Magic:       [][]byte{{0x00, 0x00, 0x02, 0x00}},
		Kind:        KindImage,
	},
	{
		Ext:         "tif",
		Description: "Tagged Image File Format",
		Category:    CategoryImage,
		Magic:       [][]byte{{0x49, 0x49, 0x2A, 0x00}, {0x4D, 0x4D, 0x00, 0x2A}},
		Kind:        KindEXIF,
	},
	{
		Ext:         "psd",
		Description: "Adobe Photoshop document",
		Category:    CategoryImage,
		Magic:       [][]byte{[]byte("8BPS")},
		Kind:        KindImage,
	},
	{
		Ext:         "jp2",
		Description: "JPEG 2000 image",
		Category:    CategoryImage,
		Magic:       [][]byte{{0x00, 0x00, 0x00, 0x0C, 0x6A, 0x50, 0x20, 0x20, 0x0D, 0x0A, 0x87, 0x0A}},
	},
	{
		Ext:         "bpg",
		Description: "Better Portable Graphics",
		Category:    CategoryImage,
		Magic:       [][]byte{{'B', 'P', 'G', 0xFB}},
	},
	{Ext: "webp", Description: "WebP image", Category: CategoryImage, Kind: KindImage},
	{Ext: "heic", Description: "High Efficiency Image File", Category: CategoryImage, Kind: KindBMFF},
	{Ext: "avif", Description: "AV1 Image File", Category: CategoryImage, Kind: KindBMFF},
	{Ext: "cr3", Description: "Canon raw image", Category: CategoryImage, Kind: KindBMFF},

	// Documents
	{
		Ext:         "pdf",
		Description: "Portable Document Format",
		Category:    CategoryDocument,
		Magic:       [][]byte{[]byte("%PDF")},
		Trailer:     pdfTrailer,
		Kind:        KindPDF,
	},
	{
		Ext:         "ps",
		Description: "PostScript document",
		Category:    CategoryDocument,
		Magic:       [][]byte{[]byte("%!PS")},
		Refine:      refinePostScript,
	},
	{Ext: "eps", Description: "Encapsulated PostScript", Category: CategoryDocument},
	{
		Ext:         "rtf",
		Description: "Rich Text Format",
		Category:    CategoryDocument,
		Magic:       [][]byte{[]byte(`{\rtf`)},
	},
	{
		Ext:         "doc",
		Description: "Microsoft Word 97-2003 document",
		Category:    CategoryDocument,
		Magic:       [][]byte{ole2Header},
		Refine:      refineOLE2,
	},
	{Ext: "xls", Description: "Microsoft Excel 97-2003 workbook", Category: CategoryDocument},
	{Ext: "ppt", Description: "Microsoft PowerPoint 97-2003 presentation", Category: CategoryDocument},
	{Ext: "msg", Description: "Microsoft Outlook message", Category: CategoryDocument},
	{
		Ext:         "docx",
		Description: "Microsoft Word document",
		Category:    CategoryDocument,
		Magic:       [][]byte{{'P', 'K', 0x03, 0x04, 0x14, 0x00, 0x06, 0x00}},
		Refine:      refineOOXML,
	},
	{Ext: "xlsx", Description: "Microsoft Excel workbook", Category: CategoryDocument},
	{Ext: "pptx", Description: "Microsoft PowerPoint presentation", Category: CategoryDocument},
	{Ext: "odt", Description: "OpenDocument text", Category: CategoryDocument},
	{Ext: "ods", Description: "OpenDocument spreadsheet", Category: CategoryDocument},
	{Ext: "odp", Description: "OpenDocument presentation", Category: CategoryDocument},
	{Ext: "epub", Description: "EPUB e-book", Category: CategoryDocument},

	// Archives
	{
		Ext:         "zip",
		Description: "ZIP archive",
		Category:    CategoryArchive,
		Magic: [][]byte{
			{'P', 'K', 0x03, 0x04},
			{'P', 'K', 0x05, 0x06},
			{'P', 'K', 0x07, 0x08},
		},
		Refine: refineZIP,
	},
	{Ext: "jar", Description: "Java archive", Category: CategoryArchive},
	{Ext: "apk", Description: "Android package", Category: CategoryArchive},
	{
		Ext:         "rar",
		Description: "RAR archive",
		Category:    CategoryArchive,
		Magic:       [][]byte{{'R', 'a', 'r', '!', 0x1A, 0x07}},
	},
	{
		Ext:         "gz",
		Description: "gzip compressed data",
		Category:    CategoryArchive,
		Magic:       [][]byte{{0x1F, 0x8B, 0x08}, {0x1F, 0x8B}},
	},
	{
		Ext:         "bz2",
		Description: "bzip2 compressed data",
		Category:    CategoryArchive,
		Magic:       [][]byte{[]byte("BZh")},
	},
	{
		Ext:         "xz",
		Description: "XZ compressed data",
		Category:    CategoryArchive,
		Magic:       [][]byte{{0xFD, '7', 'z', 'X', 'Z', 0x00}},
	},
	{
		Ext:         "7z",
		Description: "7-Zip archive",
		Category:    CategoryArchive,
		Magic:       [][]byte{{'7', 'z', 0xBC, 0xAF, 0x27, 0x1C}},
		Kind:        KindSevenZip,
	},
	{
		Ext:         "zst",
		Description: "Zstandard compressed data",
		Category:    CategoryArchive,
		Magic:       [][]byte{{0x28, 0xB5, 0x2F, 0xFD}},
	},
	{
		Ext:         "cab",
		Description: "Microsoft cabinet",
		Category:    CategoryArchive,
		Magic:       [][]byte{[]byte("MSCF")},
	},
	{
		Ext:         "tar",
		Description: "POSIX tar archive",
		Category:    CategoryArchive,
		Magic:       [][]byte{[]byte("ustar")},
		Offset:      257,
	},

	// Audio
	{
		Ext:         "mp3",
		Description: "MPEG audio layer III",
		Category:    CategoryAudio,
		Magic: [][]byte{
			[]byte("ID3"),
			{0xFF, 0xFB},
			{0xFF, 0xFA},
			{0xFF, 0xF3},
			{0xFF, 0xF2},
			{0xFF, 0xE3},
			{0xFF, 0xE2},
		},
	},
	{
		Ext:         "flac",
		Description: "Free Lossless Audio Codec",
		Category:    CategoryAudio,
		Magic:       [][]byte{[]byte("fLaC")},
		Kind:        KindFLAC,
	},
	{
		Ext:         "ogg",
		Description: "Ogg container",
		Category:    CategoryAudio,
		Magic:       [][]byte{[]byte("OggS")},
	},
	{
		Ext:         "mid",
		Description: "Standard MIDI file",
		Category:    CategoryAudio,
		Magic:       [][]byte{[]byte("MThd")},
	},
	{Ext: "wav", Description: "Waveform audio", Category: CategoryAudio, Kind: KindRIFF},
	{Ext: "wma", Description: "Windows Media audio", Category: CategoryAudio},
	{Ext: "m4a", Description: "MPEG-4 audio", Category: CategoryAudio, Kind: KindBMFF},
	{Ext: "rmi", Description: "RIFF MIDI", Category: CategoryAudio},

	// Video
	{
		Ext:         "riff",
		Description: "Resource Interchange File Format",
		Category:    CategoryVideo,
		Magic:       [][]byte{[]byte("RIFF")},
		Kind:        KindRIFF,
		Refine:      refineRIFF,
	},
	{Ext: "avi", Description: "Audio Video Interleave", Category: CategoryVideo, Kind: KindRIFF},
	{Ext: "ani", Description: "Windows animated cursor", Category: CategoryImage},
	{
		Ext:         "mp4",
		Description: "MPEG-4 video",
		Category:    CategoryVideo,
		Magic:       [][]byte{[]byte("ftyp")},
		Offset:      4,
		Kind:        KindBMFF,
		Refine:      refineFtyp,
	},
	{Ext: "mov", Description: "QuickTime movie", Category: CategoryVideo, Kind: KindBMFF},
	{Ext: "m4v", Description: "iTunes video", Category: CategoryVideo, Kind: KindBMFF},
	{Ext: "3gp", Description: "3GPP multimedia", Category: CategoryVideo, Kind: KindBMFF},
	{Ext: "3g2", Description: "3GPP2 multimedia", Category: CategoryVideo, Kind: KindBMFF},
	{
		Ext:         "mkv",
		Description: "Matroska video",
		Category:    CategoryVideo,
		Magic:       [][]byte{{0x1A, 0x45, 0xDF, 0xA3}},
		Refine:      refineEBML,
	},
	{Ext: "webm", Description: "WebM video", Category: CategoryVideo},
	{
		Ext:         "flv",
		Description: "Flash video",
		Category:    CategoryVideo,
		Magic:       [][]byte{{'F', 'L', 'V', 0x01}},
	},
	{
		Ext:         "mpg",
		Description: "MPEG program stream",
		Category:    CategoryVideo,
		Magic:       [][]byte{{0x00, 0x00, 0x01, 0xBA}, {0x00, 0x00, 0x01, 0xB3}},
	},
	{
		Ext:         "asf",
		Description: "Advanced Systems Format",
		Category:    CategoryVideo,
		Magic:       [][]byte{asfHeaderGUID},
		Refine:      refineASF,
	},
	{Ext: "wmv", Description: "Windows Media video", Category: CategoryVideo},

	// Executables
	{
		Ext:         "exe",
		Description: "DOS/Windows executable",
		Category:    CategoryExecutable,
		Magic:       [][]byte{[]byte("MZ")},
	},
	{
		Ext:         "elf",
		Description: "ELF executable",
		Category:    CategoryExecutable,
		Magic:       [][]byte{{0x7F, 'E', 'L', 'F'}},
	},
	{
		Ext:         "class",
		Description: "Java class file",
		Category:    CategoryExecutable,
		Magic:       [][]byte{{0xCA, 0xFE, 0xBA, 0xBE}},
	},
	{
		Ext:         "wasm",
		Description: "WebAssembly binary",
		Category:    CategoryExecutable,
		Magic:       [][]byte{{0x00, 'a', 's', 'm'}},
	},

	// Fonts
	{
		Ext:         "ttf",
		Description: "TrueType font",
		Category:    CategoryFont,
		Magic:       [][]byte{{0x00, 0x01, 0x00, 0x00}},
	},
	{
		Ext:         "otf",
		Description: "OpenType font",
		Category:    CategoryFont,
		Magic:       [][]byte{[]byte("OTTO")},
	},
	{
		Ext:         "woff",
		Description: "Web Open Font Format",
		Category:    CategoryFont,
		Magic:       [][]byte{[]byte("wOFF")},
	},
	{
		Ext:         "woff2",
		Description: "Web Open Font Format 2",
		Category:    CategoryFont,
		Magic:       [][]byte{[]byte("wOF2")},
	},

	// Databases
	{
		Ext:         "sqlite",
		Description: "SQLite 3 database",
		Category:    CategoryDatabase,
		Magic:       [][]byte{[]byte("SQLite format 3\x00")},
	},
}
