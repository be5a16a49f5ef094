package upload

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/SergeyParamoshkin/writerhub/internal/model"
)

func fixedStore(t *testing.T, maxSize int64) *Store {
	t.Helper()

	s := NewStore(t.TempDir(), "/uploads/", maxSize)
	s.now = func() time.Time { return time.UnixMilli(1700000000000) }

	return s
}

func TestCleanFilename(t *testing.T) {
	cases := map[string]string{
		"cover.png":              "cover.png",
		"  cover.png ":           "cover.png",
		"../../etc/passwd":       "passwd",
		`C:\Users\jane\logo.jpg`: "logo.jpg",
	}
	for in, want := range cases {
		got, err := CleanFilename(in)
		require.NoError(t, err, in)
		assert.Equal(t, want, got, in)
	}

	for _, in := range []string{"", "   ", "/", ".."} {
		_, err := CleanFilename(in)
		assert.True(t, errors.Is(err, model.ErrValidation), in)
	}
}

func TestSave(t *testing.T) {
	s := fixedStore(t, 1024)

	ref, err := s.Save("cover.png", strings.NewReader("png-bytes"))
	require.NoError(t, err)
	assert.Equal(t, "/uploads/1700000000000-cover.png", ref)

	data, err := os.ReadFile(filepath.Join(s.Dir, "1700000000000-cover.png"))
	require.NoError(t, err)
	assert.Equal(t, "png-bytes", string(data))
}

func TestSave_CollisionGetsUniqueName(t *testing.T) {
	s := fixedStore(t, 1024)

	first, err := s.Save("cover.png", strings.NewReader("one"))
	require.NoError(t, err)

	second, err := s.Save("cover.png", strings.NewReader("two"))
	require.NoError(t, err)

	assert.NotEqual(t, first, second)
	assert.True(t, strings.HasPrefix(second, "/uploads/1700000000000-"))
	assert.True(t, strings.HasSuffix(second, "-cover.png"))
}

func TestSave_TooLarge(t *testing.T) {
	s := fixedStore(t, 4)

	_, err := s.Save("cover.png", strings.NewReader("12345"))
	assert.True(t, errors.Is(err, model.ErrValidation))

	entries, err := os.ReadDir(s.Dir)
	require.NoError(t, err)
	assert.Empty(t, entries)
}

func TestRemove(t *testing.T) {
	s := fixedStore(t, 1024)

	ref, err := s.Save("cover.png", strings.NewReader("png-bytes"))
	require.NoError(t, err)

	require.NoError(t, s.Remove(ref))
	_, err = os.Stat(filepath.Join(s.Dir, "1700000000000-cover.png"))
	assert.True(t, os.IsNotExist(err))

	assert.NoError(t, s.Remove(ref), "already gone")
	assert.NoError(t, s.Remove("https://cdn.example.com/cover.png"), "external reference")
	assert.NoError(t, s.Remove("/uploads/../secret"), "escaping reference")
}
