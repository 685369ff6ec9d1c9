package classifier

import (
	"testing"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestResolve_KnownExtensions(t *testing.T) {
	table := DefaultTable()

	testCases := []struct {
		filename string
		expected string
	}{
		{"photo.jpg", "Images"},
		{"photo.JPEG", "Images"},
		{"Scan.Png", "Images"},
		{"clip.mkv", "Videos"},
		{"report.PDF", "Documents"},
		{"notes.txt", "Documents"},
		{"song.mp3", "Music"},
		{"backup.tar.gz", "Archives"},
		{"main.py", "Code"},
		{"index.HTML", "Code"},
	}

	for _, tc := range testCases {
		t.Run(tc.filename, func(t *testing.T) {
			assert.Equal(t, tc.expected, Resolve(tc.filename, table))
		})
	}
}

func TestResolve_LeadingDotNames(t *testing.T) {
	table := DefaultTable()

	// 扩展名取最后一个点开始的部分，只有一个前导点的文件名整体就是扩展名
	assert.Equal(t, "Images", Resolve(".jpg", table))
	assert.Equal(t, "Images", Resolve("..png", table))
	assert.Equal(t, Others, Resolve("a.", table))
	assert.Equal(t, Others, Resolve(".", table))
}

func TestResolve_FallsBackToOthers(t *testing.T) {
	table := DefaultTable()

	for _, name := range []string{"c.xyz", "README", "archive.", "Makefile", ".bashrc", "doc.docx.bak"} {
		assert.Equal(t, Others, Resolve(name, table), name)
	}
}

func TestResolve_FirstMatchWins(t *testing.T) {
	table := Table{
		{Name: "First", Extensions: []string{".dup"}},
		{Name: "Second", Extensions: []string{".dup", ".two"}},
	}

	assert.Equal(t, "First", Resolve("a.dup", table))
	assert.Equal(t, "Second", Resolve("a.two", table))
}

func TestResolve_Deterministic(t *testing.T) {
	table := DefaultTable()
	first := table.Resolve("holiday.MOV")
	for i := 0; i < 10; i++ {
		assert.Equal(t, first, table.Resolve("holiday.MOV"))
	}
	assert.Equal(t, "Videos", first)
}

func TestTable_Names(t *testing.T) {
	names := DefaultTable().Names()
	assert.Equal(t, []string{"Images", "Videos", "Documents", "Music", "Archives", "Code", Others}, names)
}

func TestTable_Normalize(t *testing.T) {
	table, err := Table{
		{Name: " Ebooks ", Extensions: []string{"EPUB", ".Mobi", "epub", " ", "."}},
	}.Normalize()
	require.NoError(t, err)
	require.Len(t, table, 1)
	assert.Equal(t, "Ebooks", table[0].Name)
	assert.Equal(t, []string{".epub", ".mobi"}, table[0].Extensions)
	assert.Equal(t, "Ebooks", table.Resolve("book.EPUB"))
}

func TestTable_NormalizeRejectsInvalid(t *testing.T) {
	testCases := []struct {
		name  string
		table Table
	}{
		{"empty", Table{}},
		{"blank name", Table{{Name: "  "}}},
		{"reserved", Table{{Name: "others", Extensions: []string{".x"}}}},
		{"path separator", Table{{Name: "a/b", Extensions: []string{".x"}}}},
		{"duplicate", Table{{Name: "A"}, {Name: "A"}}},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := tc.table.Normalize()
			assert.Error(t, err)
		})
	}
}

func TestDetectType(t *testing.T) {
	fs := afero.NewMemMapFs()

	testCases := []struct {
		filename string
		content  string
		mime     string
	}{
		{"test.jpg", "\xff\xd8\xff\xe0\x00\x10JFIF", "image/jpeg"},
		{"test.png", "\x89PNG\r\n\x1a\n", "image/png"},
		{"test.pdf", "%PDF-1.4", "application/pdf"},
		{"test.zip", "PK\x03\x04", "application/zip"},
		{"plain.txt", "random content", "unknown"},
		{"empty.bin", "", "unknown"},
	}

	for _, tc := range testCases {
		t.Run(tc.filename, func(t *testing.T) {
			require.NoError(t, afero.WriteFile(fs, "/data/"+tc.filename, []byte(tc.content), 0644))

			mime, err := MIME(fs, "/data/"+tc.filename)
			require.NoError(t, err)
			assert.Equal(t, tc.mime, mime)
		})
	}
}

func TestDetectType_MissingFile(t *testing.T) {
	_, err := DetectType(afero.NewMemMapFs(), "/missing.jpg")
	assert.Error(t, err)
}
