package assets_test

import (
	"bytes"
	"context"
	"errors"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"mediwallet/internal/assets"
	"mediwallet/internal/domain"
)

type MockMirror struct {
	mock.Mock
}

func (m *MockMirror) Upload(ctx context.Context, name, path string) error {
	return m.Called(ctx, name, path).Error(0)
}

func (m *MockMirror) Delete(ctx context.Context, name string) error {
	return m.Called(ctx, name).Error(0)
}

func TestSaveImageCopiesAndKeepsSource(t *testing.T) {
	tmp := t.TempDir()
	src := filepath.Join(tmp, "capture.PNG")
	require.NoError(t, os.WriteFile(src, []byte("pixels"), 0o644))

	mgr := assets.NewManager(filepath.Join(tmp, "test_images"))
	dest, err := mgr.SaveImage(context.Background(), src)
	require.NoError(t, err)

	assert.True(t, filepath.IsAbs(dest))
	assert.Equal(t, mgr.Dir(), filepath.Dir(dest))
	assert.True(t, strings.HasPrefix(filepath.Base(dest), "test_"))
	assert.Equal(t, ".png", filepath.Ext(dest))

	data, err := os.ReadFile(dest)
	require.NoError(t, err)
	assert.Equal(t, "pixels", string(data))

	_, err = os.Stat(src)
	assert.NoError(t, err, "source must be left in place")
}

func TestSaveImageNamesAreUnique(t *testing.T) {
	mgr := assets.NewManager(t.TempDir())
	seen := map[string]bool{}
	for i := 0; i < 20; i++ {
		p, err := mgr.SaveImageFrom(context.Background(), strings.NewReader("x"), "")
		require.NoError(t, err)
		assert.Equal(t, assets.DefaultExt, filepath.Ext(p))
		assert.False(t, seen[p])
		seen[p] = true
	}
}

func TestSaveImageMissingSource(t *testing.T) {
	mgr := assets.NewManager(t.TempDir())
	_, err := mgr.SaveImage(context.Background(), filepath.Join(t.TempDir(), "nope.jpg"))
	assert.ErrorIs(t, err, domain.ErrAssetCopy)
}

type failingReader struct{}

func (failingReader) Read([]byte) (int, error) { return 0, errors.New("device gone") }

func TestSaveImageRemovesPartialFile(t *testing.T) {
	dir := t.TempDir()
	mgr := assets.NewManager(dir)
	_, err := mgr.SaveImageFrom(context.Background(), io.MultiReader(bytes.NewReader([]byte("half")), failingReader{}), ".jpg")
	assert.ErrorIs(t, err, domain.ErrAssetCopy)

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Empty(t, entries)
}

func TestDeleteToleratesMissingAndForeignPaths(t *testing.T) {
	ctx := context.Background()
	tmp := t.TempDir()
	mgr := assets.NewManager(filepath.Join(tmp, "assets"))

	p, err := mgr.SaveImageFrom(ctx, strings.NewReader("x"), ".jpg")
	require.NoError(t, err)
	require.NoError(t, mgr.Delete(ctx, p))
	require.NoError(t, mgr.Delete(ctx, p))
	_, err = os.Stat(p)
	assert.True(t, os.IsNotExist(err))

	foreign := filepath.Join(tmp, "keep.txt")
	require.NoError(t, os.WriteFile(foreign, []byte("keep"), 0o644))
	require.NoError(t, mgr.Delete(ctx, foreign))
	_, err = os.Stat(foreign)
	assert.NoError(t, err)
}

func TestTotalSize(t *testing.T) {
	ctx := context.Background()
	mgr := assets.NewManager(filepath.Join(t.TempDir(), "missing"))
	assert.Zero(t, mgr.TotalSize())

	_, err := mgr.SaveImageFrom(ctx, strings.NewReader("abc"), ".jpg")
	require.NoError(t, err)
	_, err = mgr.SaveImageFrom(ctx, strings.NewReader("defgh"), ".jpg")
	require.NoError(t, err)
	assert.Equal(t, int64(8), mgr.TotalSize())
}

func TestOpen(t *testing.T) {
	mgr := assets.NewManager(t.TempDir())
	p, err := mgr.SaveImageFrom(context.Background(), strings.NewReader("img"), ".jpg")
	require.NoError(t, err)

	f, err := mgr.Open(p)
	require.NoError(t, err)
	data, err := io.ReadAll(f.Content)
	f.Content.Close()
	require.NoError(t, err)
	assert.Equal(t, "img", string(data))
	assert.Equal(t, filepath.Base(p), f.Name)

	_, err = mgr.Open("../etc/passwd")
	assert.ErrorIs(t, err, domain.ErrNotFound)
	_, err = mgr.Open("test_missing.jpg")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestMirrorFailuresDoNotFailLocalOps(t *testing.T) {
	ctx := context.Background()
	mirror := new(MockMirror)
	mirror.On("Upload", mock.Anything, mock.AnythingOfType("string"), mock.AnythingOfType("string")).Return(errors.New("s3 down"))
	mirror.On("Delete", mock.Anything, mock.AnythingOfType("string")).Return(errors.New("s3 down"))

	mgr := assets.NewManager(t.TempDir(), assets.WithMirror(mirror))
	p, err := mgr.SaveImageFrom(ctx, strings.NewReader("x"), ".jpg")
	require.NoError(t, err)
	require.NoError(t, mgr.Delete(ctx, p))

	mirror.AssertNumberOfCalls(t, "Upload", 1)
	mirror.AssertCalled(t, "Delete", mock.Anything, filepath.Base(p))
}
