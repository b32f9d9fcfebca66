package fsxlocal

import (
	"bytes"
	"context"
	"errors"
	"io"
	"io/fs"
	"mime"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/Abraxas-365/mockup2html/errx"
	"github.com/Abraxas-365/mockup2html/fsx"
)

// FileSystem stores files below a root directory
type FileSystem struct {
	root string
}

var (
	_ fsx.FileSystem = (*FileSystem)(nil)
	_ fsx.Locator    = (*FileSystem)(nil)
)

// New creates the root directory if needed
func New(root string) (*FileSystem, error) {
	abs, err := filepath.Abs(root)
	if err != nil {
		return nil, fsx.Registry().NewWithCause(fsx.ErrInvalidPath, err).WithDetail("root", root)
	}
	if err := os.MkdirAll(abs, 0o755); err != nil {
		return nil, fsx.Registry().NewWithCause(fsx.ErrWriteFailed, err).WithDetail("root", abs)
	}
	return &FileSystem{root: abs}, nil
}

// Root returns the absolute root directory
func (f *FileSystem) Root() string {
	return f.root
}

// resolve maps a slash separated path inside the root; ".." cannot escape
func (f *FileSystem) resolve(p string) string {
	clean := path.Clean("/" + filepath.ToSlash(p))
	return filepath.Join(f.root, filepath.FromSlash(strings.TrimPrefix(clean, "/")))
}

func (f *FileSystem) wrap(err error, code errx.Code, p string) error {
	if errors.Is(err, fs.ErrNotExist) {
		return fsx.Registry().NewWithCause(fsx.ErrNotFound, err).WithDetail("path", p)
	}
	return fsx.Registry().NewWithCause(code, err).WithDetail("path", p)
}

func (f *FileSystem) ReadFile(ctx context.Context, p string) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	data, err := os.ReadFile(f.resolve(p))
	if err != nil {
		return nil, f.wrap(err, fsx.ErrReadFailed, p)
	}
	return data, nil
}

func (f *FileSystem) ReadFileStream(ctx context.Context, p string) (io.ReadCloser, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	file, err := os.Open(f.resolve(p))
	if err != nil {
		return nil, f.wrap(err, fsx.ErrReadFailed, p)
	}
	return file, nil
}

func (f *FileSystem) Stat(ctx context.Context, p string) (fsx.FileInfo, error) {
	if err := ctx.Err(); err != nil {
		return fsx.FileInfo{}, err
	}
	info, err := os.Stat(f.resolve(p))
	if err != nil {
		return fsx.FileInfo{}, f.wrap(err, fsx.ErrReadFailed, p)
	}
	return toFileInfo(info), nil
}

func (f *FileSystem) List(ctx context.Context, p string) ([]fsx.FileInfo, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	entries, err := os.ReadDir(f.resolve(p))
	if err != nil {
		return nil, f.wrap(err, fsx.ErrReadFailed, p)
	}

	infos := make([]fsx.FileInfo, 0, len(entries))
	for _, entry := range entries {
		info, err := entry.Info()
		if err != nil {
			continue
		}
		infos = append(infos, toFileInfo(info))
	}
	return infos, nil
}

func (f *FileSystem) WriteFile(ctx context.Context, p string, data []byte) error {
	return f.WriteFileStream(ctx, p, bytes.NewReader(data))
}

// WriteFileStream writes through a temp file so readers never see a
// partial file
func (f *FileSystem) WriteFileStream(ctx context.Context, p string, r io.Reader) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	target := f.resolve(p)
	if err := os.MkdirAll(filepath.Dir(target), 0o755); err != nil {
		return f.wrap(err, fsx.ErrWriteFailed, p)
	}

	tmp, err := os.CreateTemp(filepath.Dir(target), ".upload-*")
	if err != nil {
		return f.wrap(err, fsx.ErrWriteFailed, p)
	}
	defer os.Remove(tmp.Name())

	if _, err := io.Copy(tmp, r); err != nil {
		tmp.Close()
		return f.wrap(err, fsx.ErrWriteFailed, p)
	}
	if err := tmp.Close(); err != nil {
		return f.wrap(err, fsx.ErrWriteFailed, p)
	}
	if err := os.Rename(tmp.Name(), target); err != nil {
		return f.wrap(err, fsx.ErrWriteFailed, p)
	}
	return nil
}

func (f *FileSystem) CreateDir(ctx context.Context, p string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if err := os.MkdirAll(f.resolve(p), 0o755); err != nil {
		return f.wrap(err, fsx.ErrWriteFailed, p)
	}
	return nil
}

func (f *FileSystem) DeleteFile(ctx context.Context, p string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if err := os.Remove(f.resolve(p)); err != nil {
		return f.wrap(err, fsx.ErrDeleteFailed, p)
	}
	return nil
}

func (f *FileSystem) DeleteDir(ctx context.Context, p string, recursive bool) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	target := f.resolve(p)
	if target == f.root {
		return fsx.Registry().New(fsx.ErrInvalidPath).WithDetail("path", p)
	}

	var err error
	if recursive {
		err = os.RemoveAll(target)
	} else {
		err = os.Remove(target)
	}
	if err != nil {
		return f.wrap(err, fsx.ErrDeleteFailed, p)
	}
	return nil
}

func (f *FileSystem) Join(elem ...string) string {
	return path.Join(elem...)
}

func (f *FileSystem) Exists(ctx context.Context, p string) (bool, error) {
	_, err := f.Stat(ctx, p)
	if fsx.IsNotFound(err) {
		return false, nil
	}
	return err == nil, err
}

// Location returns a file:// URL for p
func (f *FileSystem) Location(p string) string {
	return "file://" + filepath.ToSlash(f.resolve(p))
}

func toFileInfo(info fs.FileInfo) fsx.FileInfo {
	return fsx.FileInfo{
		Name:        info.Name(),
		Size:        info.Size(),
		ModTime:     info.ModTime(),
		IsDir:       info.IsDir(),
		ContentType: mime.TypeByExtension(filepath.Ext(info.Name())),
	}
}
