// Package assets stores test result images in an app-owned directory.
package assets

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"

	"mediwallet/internal/domain"
)

// DefaultExt is used when the source carries no file extension.
const DefaultExt = ".jpg"

// Mirror receives copies of stored assets. Failures are logged by the
// Manager and never fail the local operation.
type Mirror interface {
	Upload(ctx context.Context, name, path string) error
	Delete(ctx context.Context, name string) error
}

type Manager struct {
	dir    string
	mirror Mirror
	logger *slog.Logger
}

type Option func(*Manager)

func WithMirror(m Mirror) Option {
	return func(mgr *Manager) { mgr.mirror = m }
}

func WithLogger(l *slog.Logger) Option {
	return func(mgr *Manager) {
		if l != nil {
			mgr.logger = l
		}
	}
}

// NewManager returns a Manager rooted at dir. The directory is created on
// first save, not here.
func NewManager(dir string, opts ...Option) *Manager {
	if abs, err := filepath.Abs(dir); err == nil {
		dir = abs
	}
	m := &Manager{dir: dir, logger: slog.Default()}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

func (m *Manager) Dir() string { return m.dir }

// SaveImage copies the file at sourcePath into the asset directory and
// returns the durable path. The source is left in place.
func (m *Manager) SaveImage(ctx context.Context, sourcePath string) (string, error) {
	src, err := os.Open(sourcePath)
	if err != nil {
		return "", fmt.Errorf("%w: open source: %v", domain.ErrAssetCopy, err)
	}
	defer src.Close()
	return m.SaveImageFrom(ctx, src, filepath.Ext(sourcePath))
}

// SaveImageFrom writes r into a new asset named test_<uuidv7><ext>.
func (m *Manager) SaveImageFrom(ctx context.Context, r io.Reader, ext string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	if err := os.MkdirAll(m.dir, 0o755); err != nil {
		return "", fmt.Errorf("%w: create asset dir: %v", domain.ErrAssetCopy, err)
	}

	id, err := uuid.NewV7()
	if err != nil {
		return "", fmt.Errorf("%w: generate name: %v", domain.ErrAssetCopy, err)
	}
	name := "test_" + id.String() + normalizeExt(ext)
	dest := filepath.Join(m.dir, name)

	if err := writeFile(dest, r); err != nil {
		_ = os.Remove(dest)
		return "", fmt.Errorf("%w: %v", domain.ErrAssetCopy, err)
	}
	m.logger.Debug("asset saved", "path", dest)

	if m.mirror != nil {
		if err := m.mirror.Upload(ctx, name, dest); err != nil {
			m.logger.Warn("asset mirror upload failed", "name", name, "error", err)
		}
	}
	return dest, nil
}

func writeFile(dest string, r io.Reader) error {
	out, err := os.OpenFile(dest, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o644)
	if err != nil {
		return fmt.Errorf("create asset: %w", err)
	}
	if _, err := io.Copy(out, r); err != nil {
		out.Close()
		return fmt.Errorf("copy asset: %w", err)
	}
	if err := out.Sync(); err != nil {
		out.Close()
		return fmt.Errorf("sync asset: %w", err)
	}
	return out.Close()
}

// Delete removes a stored asset. Missing files are not an error, and paths
// outside the asset directory are never touched.
func (m *Manager) Delete(ctx context.Context, path string) error {
	if path == "" {
		return nil
	}
	name, ok := m.owned(path)
	if !ok {
		m.logger.Warn("refusing to delete asset outside asset dir", "path", path)
		return nil
	}
	err := os.Remove(filepath.Join(m.dir, name))
	if err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("delete asset: %w", err)
	}
	if m.mirror != nil {
		if err := m.mirror.Delete(ctx, name); err != nil {
			m.logger.Warn("asset mirror delete failed", "name", name, "error", err)
		}
	}
	return nil
}

// TotalSize sums the sizes of regular files in the asset directory. An
// unreadable or missing directory counts as zero.
func (m *Manager) TotalSize() int64 {
	entries, err := os.ReadDir(m.dir)
	if err != nil {
		if !errors.Is(err, fs.ErrNotExist) {
			m.logger.Warn("asset dir unreadable", "dir", m.dir, "error", err)
		}
		return 0
	}
	var total int64
	for _, e := range entries {
		if !e.Type().IsRegular() {
			continue
		}
		info, err := e.Info()
		if err != nil {
			continue
		}
		total += info.Size()
	}
	return total
}

// Open opens the stored asset at path. Only files directly inside the asset
// directory can be opened.
func (m *Manager) Open(path string) (*domain.ImageFile, error) {
	name, ok := m.owned(path)
	if !ok {
		return nil, domain.ErrNotFound
	}
	f, err := os.Open(filepath.Join(m.dir, name))
	if errors.Is(err, fs.ErrNotExist) {
		return nil, domain.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("open asset: %w", err)
	}
	info, err := f.Stat()
	if err != nil {
		f.Close()
		return nil, fmt.Errorf("stat asset: %w", err)
	}
	if !info.Mode().IsRegular() {
		f.Close()
		return nil, domain.ErrNotFound
	}
	return &domain.ImageFile{Name: name, ModTime: info.ModTime(), Content: f}, nil
}

// owned resolves path to a base name inside the asset directory. Bare names
// are taken relative to the directory.
func (m *Manager) owned(path string) (string, bool) {
	name := filepath.Base(path)
	if name == "." || name == string(filepath.Separator) || name == ".." {
		return "", false
	}
	if name == path {
		return name, true
	}
	abs, err := filepath.Abs(path)
	if err != nil || filepath.Dir(abs) != m.dir {
		return "", false
	}
	return name, true
}

func normalizeExt(ext string) string {
	ext = strings.ToLower(strings.TrimSpace(ext))
	if ext == "" || ext == "." {
		return DefaultExt
	}
	if !strings.HasPrefix(ext, ".") {
		ext = "." + ext
	}
	if strings.ContainsAny(ext, `/\`) {
		return DefaultExt
	}
	return ext
}
