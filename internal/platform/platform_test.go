package platform_test

import (
	"context"
	"errors"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"mediwallet/internal/config"
	"mediwallet/internal/domain"
	"mediwallet/internal/platform"
)

func TestResolveUnsupported(t *testing.T) {
	called := false
	b, err := platform.Resolve(platform.Capabilities{LocalStorage: false}, func() (domain.Backend, error) {
		called = true
		return nil, errors.New("should not be built")
	}, nil)
	require.NoError(t, err)
	assert.False(t, called)
	assert.True(t, platform.IsUnsupported(b))

	ctx := context.Background()
	assert.NoError(t, b.Initialize(ctx))
	assert.NoError(t, b.Close())

	_, err = b.AddTestResult(ctx, domain.NewTestResult{TestType: "x", ImagePath: "y"})
	assert.ErrorIs(t, err, domain.ErrPlatformUnsupported)
	_, _, err = b.AddTestResultWithImage(ctx, domain.NewTestResult{TestType: "x"}, domain.ImageSource{Path: "y"})
	assert.ErrorIs(t, err, domain.ErrPlatformUnsupported)
	_, err = b.GetAllTestResults(ctx)
	assert.ErrorIs(t, err, domain.ErrPlatformUnsupported)
	_, err = b.SaveImage(ctx, "/tmp/x.jpg")
	assert.ErrorIs(t, err, domain.ErrPlatformUnsupported)
	_, err = b.SendMessage(ctx, "a", "b", "hi")
	assert.ErrorIs(t, err, domain.ErrPlatformUnsupported)
	assert.ErrorIs(t, b.MarkAsRead(ctx, "a", "b"), domain.ErrPlatformUnsupported)
	_, err = b.CreateShare(ctx, domain.NewShare{})
	assert.ErrorIs(t, err, domain.ErrPlatformUnsupported)
	_, err = b.GetDatabaseStats(ctx)
	assert.ErrorIs(t, err, domain.ErrPlatformUnsupported)
}

func TestResolveNativeBuildError(t *testing.T) {
	_, err := platform.Resolve(platform.Capabilities{LocalStorage: true}, func() (domain.Backend, error) {
		return nil, errors.New("boom")
	}, nil)
	assert.EqualError(t, err, "boom")
}

func TestOpenNativeSQLite(t *testing.T) {
	dir := t.TempDir()
	cfg := &config.Config{
		Database: config.DatabaseConfig{Driver: config.DriverSQLite, Path: filepath.Join(dir, "db", "records.db")},
		Assets:   config.AssetsConfig{Dir: filepath.Join(dir, "images")},
		Platform: config.PlatformConfig{LocalStorage: true},
		Share:    config.ShareConfig{Secret: "s", MaxDuration: 48 * time.Hour},
		AI:       config.AIConfig{StubMode: true, Timeout: time.Second},
	}
	ctx := context.Background()
	b, err := platform.Open(ctx, cfg, nil)
	require.NoError(t, err)
	defer b.Close()
	assert.False(t, platform.IsUnsupported(b))

	path, err := b.SaveImageFrom(ctx, strings.NewReader("img"), ".jpg")
	require.NoError(t, err)
	id, err := b.AddTestResult(ctx, domain.NewTestResult{TestType: "blood", ImagePath: path})
	require.NoError(t, err)

	text, err := b.AnalyzeTestResult(ctx, id, true)
	require.NoError(t, err)
	assert.NotEmpty(t, text)

	stats, err := b.GetDatabaseStats(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, stats.TotalTests)
	assert.Equal(t, int64(3), stats.TotalSize)

	require.NoError(t, b.DeleteTestResult(ctx, id))
	require.NoError(t, b.DeleteTestResult(ctx, id))
	got, err := b.GetTestResultByID(ctx, id)
	require.NoError(t, err)
	assert.Nil(t, got)
}
