package recovery_test

import (
	"path/filepath"
	"testing"

	"github.com/ostafen/chkrecover/internal/recovery"
	"github.com/stretchr/testify/require"
)

func TestTargetName(t *testing.T) {
	tests := []struct {
		name string
		ext  string
		want string
	}{
		{"FILE0001.CHK", "jpg", "FILE0001.jpg"},
		{"file0001.chk", "png", "file0001.png"},
		{"FILE0001.Chk", "pdf", "FILE0001.pdf"},
		{"blob", "pdf", "blob.pdf"},
		{"notes.txt", "docx", "notes.txt.docx"},
		{"archive.chk.chk", "zip", "archive.chk.zip"},
		{".chk", "gif", "recovered.gif"},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			require.Equal(t, tc.want, recovery.TargetName(tc.name, tc.ext))
		})
	}
}

func TestHasExt(t *testing.T) {
	require.True(t, recovery.HasExt("photo.JPG", "jpg"))
	require.True(t, recovery.HasExt("a.b.pdf", "pdf"))
	require.False(t, recovery.HasExt("photo.jpeg", "jpg"))
	require.False(t, recovery.HasExt("jpg", "jpg"))
	require.False(t, recovery.HasExt("FILE0000.CHK", "jpg"))
}

func TestIsCHK(t *testing.T) {
	require.True(t, recovery.IsCHK("FILE0000.CHK"))
	require.True(t, recovery.IsCHK("file0000.chk"))
	require.False(t, recovery.IsCHK("FILE0000.CHK.bak"))
	require.False(t, recovery.IsCHK("chk"))
}

func TestUniquePath(t *testing.T) {
	taken := map[string]bool{}
	exists := func(path string) bool { return taken[path] }

	dir := filepath.Join("out", "2020")

	first := recovery.UniquePath(dir, "FILE0000.jpg", exists)
	require.Equal(t, filepath.Join(dir, "FILE0000.jpg"), first)
	taken[first] = true

	second := recovery.UniquePath(dir, "FILE0000.jpg", exists)
	require.Equal(t, filepath.Join(dir, "FILE0000_1.jpg"), second)
	taken[second] = true

	third := recovery.UniquePath(dir, "FILE0000.jpg", exists)
	require.Equal(t, filepath.Join(dir, "FILE0000_2.jpg"), third)
}

func TestYearDir(t *testing.T) {
	require.Equal(t, filepath.Join("dst", "2019"), recovery.YearDir("dst", 2019))
	require.Equal(t, filepath.Join("dst", "0999"), recovery.YearDir("dst", 999))
	require.Equal(t, filepath.Join("dst", "unknown"), recovery.YearDir("dst", 0))
}
