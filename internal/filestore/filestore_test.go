package filestore

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := New(t.TempDir())
	require.NoError(t, err)
	return s
}

func TestSaveModel(t *testing.T) {
	s := newTestStore(t)

	url, err := s.SaveModel(7, "fraiseuse.GLB", strings.NewReader("glTF"))
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(url, URLPrefix+"/machines/7/"))
	assert.True(t, strings.HasSuffix(url, ".glb"), "extension lowercased: %s", url)
	assert.True(t, s.Exists(url))

	disk, ok := s.DiskPath(url)
	require.True(t, ok)
	data, err := os.ReadFile(disk)
	require.NoError(t, err)
	assert.Equal(t, "glTF", string(data))
}

func TestSaveModelRejectsWrongExtension(t *testing.T) {
	s := newTestStore(t)
	_, err := s.SaveModel(1, "model.stl", strings.NewReader("x"))
	assert.ErrorIs(t, err, ErrUnsupportedFileType)
	_, err = s.SaveModel(1, "noext", strings.NewReader("x"))
	assert.ErrorIs(t, err, ErrUnsupportedFileType)
}

func TestSaveDocumentAllowList(t *testing.T) {
	s := newTestStore(t)

	for _, name := range []string{"manual.pdf", "photo.JPG", "notes.txt", "sheet.xlsx"} {
		_, err := s.SaveDocument(2, name, strings.NewReader("doc"))
		assert.NoError(t, err, name)
	}
	for _, name := range []string{"tool.exe", "script.sh", "model.glb"} {
		_, err := s.SaveDocument(2, name, strings.NewReader("doc"))
		assert.ErrorIs(t, err, ErrUnsupportedFileType, name)
	}
}

func TestGeneratedNamesNeverCollide(t *testing.T) {
	s := newTestStore(t)
	u1, err := s.SaveDocument(3, "a.pdf", strings.NewReader("1"))
	require.NoError(t, err)
	u2, err := s.SaveDocument(3, "a.pdf", strings.NewReader("2"))
	require.NoError(t, err)
	assert.NotEqual(t, u1, u2)
}

func TestRemoveIsIdempotent(t *testing.T) {
	s := newTestStore(t)
	url, err := s.SaveDocument(4, "doc.pdf", strings.NewReader("doc"))
	require.NoError(t, err)

	require.NoError(t, s.Remove(url))
	assert.False(t, s.Exists(url))
	assert.NoError(t, s.Remove(url), "second remove must not error")
}

func TestDiskPathRefusesEscapes(t *testing.T) {
	s := newTestStore(t)

	_, ok := s.DiskPath("/elsewhere/x.glb")
	assert.False(t, ok, "paths outside the URL prefix are refused")

	disk, ok := s.DiskPath(URLPrefix + "/machines/1/../../../etc/passwd")
	require.True(t, ok)
	rel, err := filepath.Rel(s.Root(), disk)
	require.NoError(t, err)
	assert.False(t, strings.HasPrefix(rel, ".."), "dot-dot segments must stay inside root, got %s", disk)
}

func TestRemoveAllForMachine(t *testing.T) {
	s := newTestStore(t)
	u1, err := s.SaveModel(5, "m.glb", strings.NewReader("x"))
	require.NoError(t, err)
	u2, err := s.SaveDocument(5, "d.pdf", strings.NewReader("y"))
	require.NoError(t, err)

	require.NoError(t, s.RemoveAllForMachine(5))
	assert.False(t, s.Exists(u1))
	assert.False(t, s.Exists(u2))
}
