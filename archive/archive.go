package archive

import (
	"bytes"
	"context"
	"net/http"
	"path"
	"strings"
	"sync"

	"golang.org/x/sync/semaphore"

	"github.com/Abraxas-365/mockup2html/errx"
	"github.com/Abraxas-365/mockup2html/fsx"
	"github.com/Abraxas-365/mockup2html/imagesrc"
	"github.com/Abraxas-365/mockup2html/logx"
)

const (
	ImageDir = "images"
	CodeDir  = "code"
)

var (
	archiveErrors = errx.NewRegistry("ARCHIVE")

	ErrUploadFailed = archiveErrors.Register("UPLOAD_FAILED", errx.TypeSystem, http.StatusBadGateway, "Archival upload failed")
)

// Option configures an Archiver
type Option func(*Archiver)

// WithBaseURL makes locations public URLs (CDN or bucket website) instead
// of storage URIs
func WithBaseURL(baseURL string) Option {
	return func(a *Archiver) {
		a.baseURL = strings.TrimRight(baseURL, "/")
	}
}

// WithMaxInFlight caps the number of uploads writing at the same time.
// Transfers over the cap queue in their goroutine.
func WithMaxInFlight(n int64) Option {
	return func(a *Archiver) {
		if n > 0 {
			a.sem = semaphore.NewWeighted(n)
		}
	}
}

// Archiver copies uploaded images and generated documents to the object
// store. Writes run in the background and are never awaited by the caller
// that started them.
type Archiver struct {
	fs      fsx.FileSystem
	baseURL string
	sem     *semaphore.Weighted
	wg      sync.WaitGroup
}

// New creates an Archiver writing to fs
func New(fs fsx.FileSystem, opts ...Option) *Archiver {
	a := &Archiver{fs: fs}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// ArchiveImage stores the original upload under images/<name>
func (a *Archiver) ArchiveImage(ctx context.Context, img *imagesrc.Image) *Transfer {
	return a.start(ctx, path.Join(ImageDir, img.Name), img.Data, "image")
}

// ArchiveDocument stores generated markup under code/<filename>
func (a *Archiver) ArchiveDocument(ctx context.Context, filename, text string) *Transfer {
	return a.start(ctx, path.Join(CodeDir, path.Base(filename)), []byte(text), "file")
}

// Wait blocks until every started transfer has ended or ctx is done
func (a *Archiver) Wait(ctx context.Context) error {
	done := make(chan struct{})
	go func() {
		a.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (a *Archiver) start(ctx context.Context, dst string, data []byte, kind string) *Transfer {
	t := newTransfer(dst)

	// the caller's request may end long before the upload does
	ctx = context.WithoutCancel(ctx)

	a.wg.Add(1)
	go func() {
		defer a.wg.Done()

		if a.sem != nil {
			if err := a.sem.Acquire(ctx, 1); err != nil {
				t.finish(Location{Path: dst}, archiveErrors.NewWithCause(ErrUploadFailed, err).WithDetail("path", dst))
				return
			}
			defer a.sem.Release(1)
		}

		body := fsx.NewProgressReader(bytes.NewReader(data), int64(len(data)), func(done, total int64) {
			t.report(done, total)
			logx.Debug("Upload is %.0f%% done", Progress{Done: done, Total: total}.Percent())
		})

		if err := a.fs.WriteFileStream(ctx, dst, body); err != nil {
			logx.Error("%s not uploaded because %v", kind, err)
			t.finish(Location{Path: dst}, archiveErrors.NewWithCause(ErrUploadFailed, err).WithDetail("path", dst))
			return
		}

		loc := Location{Path: dst, URL: a.locate(dst)}
		logx.Info("File available at %s", loc.URL)
		t.finish(loc, nil)
	}()

	return t
}

func (a *Archiver) locate(p string) string {
	if a.baseURL != "" {
		return a.baseURL + "/" + p
	}
	if l, ok := a.fs.(fsx.Locator); ok {
		return l.Location(p)
	}
	return p
}
