package fsx

import (
	"context"
	"io"
	"net/http"
	"sync"
	"time"

	"github.com/Abraxas-365/mockup2html/errx"
)

var (
	fsErrors = errx.NewRegistry("FS")

	ErrNotFound     = fsErrors.Register("NOT_FOUND", errx.TypeNotFound, http.StatusNotFound, "File not found")
	ErrReadFailed   = fsErrors.Register("READ_FAILED", errx.TypeSystem, http.StatusInternalServerError, "Failed to read file")
	ErrWriteFailed  = fsErrors.Register("WRITE_FAILED", errx.TypeSystem, http.StatusInternalServerError, "Failed to write file")
	ErrDeleteFailed = fsErrors.Register("DELETE_FAILED", errx.TypeSystem, http.StatusInternalServerError, "Failed to delete file")
	ErrInvalidPath  = fsErrors.Register("INVALID_PATH", errx.TypeValidation, http.StatusBadRequest, "Invalid path")
)

// Registry exposes the package error registry to implementations
func Registry() *errx.Registry {
	return fsErrors
}

// IsNotFound reports whether err is a missing file
func IsNotFound(err error) bool {
	return errx.IsCode(err, ErrNotFound)
}

// FileInfo represents information about a file
type FileInfo struct {
	Name        string            // Base name of the file
	Size        int64             // File size in bytes
	ModTime     time.Time         // Modification time
	IsDir       bool              // Is a directory
	ContentType string            // MIME type (when available)
	Metadata    map[string]string // Additional metadata
}

// FileSystem defines the interface for file operations
type FileSystem interface {
	// Read operations
	ReadFile(ctx context.Context, path string) ([]byte, error)
	ReadFileStream(ctx context.Context, path string) (io.ReadCloser, error)
	Stat(ctx context.Context, path string) (FileInfo, error)
	List(ctx context.Context, path string) ([]FileInfo, error)

	// Write operations
	WriteFile(ctx context.Context, path string, data []byte) error
	WriteFileStream(ctx context.Context, path string, r io.Reader) error
	CreateDir(ctx context.Context, path string) error

	// Delete operations
	DeleteFile(ctx context.Context, path string) error
	DeleteDir(ctx context.Context, path string, recursive bool) error

	// Path operations
	Join(elem ...string) string
	Exists(ctx context.Context, path string) (bool, error)
}

// Locator is implemented by file systems that can name where a path lives
// (s3://bucket/key, file:///abs/path)
type Locator interface {
	Location(path string) string
}

// ProgressFunc receives the bytes written so far and the expected total
type ProgressFunc func(done, total int64)

// ProgressReader reports reads to a ProgressFunc
type ProgressReader struct {
	r        io.Reader
	total    int64
	done     int64
	mu       sync.Mutex
	progress ProgressFunc
}

// NewProgressReader wraps r; total is the expected size
func NewProgressReader(r io.Reader, total int64, fn ProgressFunc) *ProgressReader {
	return &ProgressReader{r: r, total: total, progress: fn}
}

func (p *ProgressReader) Read(b []byte) (int, error) {
	n, err := p.r.Read(b)
	if n > 0 && p.progress != nil {
		p.mu.Lock()
		p.done += int64(n)
		done := p.done
		p.mu.Unlock()
		p.progress(done, p.total)
	}
	return n, err
}

// Seek allows SDKs that rewind bodies for retries or checksums to do so.
// Progress restarts from the new offset.
func (p *ProgressReader) Seek(offset int64, whence int) (int64, error) {
	s, ok := p.r.(io.Seeker)
	if !ok {
		return 0, errx.New("underlying reader is not seekable", errx.TypeInternal)
	}
	pos, err := s.Seek(offset, whence)
	if err == nil {
		p.mu.Lock()
		p.done = pos
		p.mu.Unlock()
	}
	return pos, err
}
