package imagesrc

import (
	"bytes"
	"context"
	"encoding/base64"
	"io"
	"mime"
	"net/http"
	"path"
	"strings"

	"github.com/Abraxas-365/mockup2html/errx"
	"github.com/Abraxas-365/mockup2html/fsx"
)

var (
	imageErrors = errx.NewRegistry("IMAGE")

	ErrEmpty      = imageErrors.Register("EMPTY", errx.TypeValidation, http.StatusBadRequest, "Image is empty")
	ErrReadFailed = imageErrors.Register("READ_FAILED", errx.TypeSystem, http.StatusInternalServerError, "Failed to read image")
	ErrBadDataURI = imageErrors.Register("BAD_DATA_URI", errx.TypeValidation, http.StatusBadRequest, "Invalid data URI")
)

// Image is a user supplied file, held fully in memory
type Image struct {
	Name        string `json:"name"`
	ContentType string `json:"content_type"`
	Data        []byte `json:"-"`
}

// Size returns the payload size in bytes
func (i *Image) Size() int64 {
	return int64(len(i.Data))
}

// Reader returns a fresh reader over the payload
func (i *Image) Reader() io.Reader {
	return bytes.NewReader(i.Data)
}

// DataURI encodes the image as data:<type>;base64,<payload>
func (i *Image) DataURI() string {
	return "data:" + i.ContentType + ";base64," + base64.StdEncoding.EncodeToString(i.Data)
}

// Load reads r to the end. There is no size limit.
func Load(r io.Reader, name string) (*Image, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, imageErrors.NewWithCause(ErrReadFailed, err).WithDetail("name", name)
	}
	return New(name, data)
}

// New wraps bytes already in memory
func New(name string, data []byte) (*Image, error) {
	if len(data) == 0 {
		return nil, imageErrors.New(ErrEmpty).WithDetail("name", name)
	}
	return &Image{
		Name:        path.Base(strings.ReplaceAll(name, "\\", "/")),
		ContentType: DetectContentType(name, data),
		Data:        data,
	}, nil
}

// ReadFile loads an image stored on fs
func ReadFile(ctx context.Context, fs fsx.FileSystem, p string) (*Image, error) {
	data, err := fs.ReadFile(ctx, p)
	if err != nil {
		return nil, imageErrors.NewWithCause(ErrReadFailed, err).WithDetail("path", p)
	}
	return New(p, data)
}

// DetectContentType sniffs the payload and falls back on the extension
func DetectContentType(name string, data []byte) string {
	sniffed := http.DetectContentType(data)
	if strings.HasPrefix(sniffed, "image/") {
		return sniffed
	}
	if byExt := mime.TypeByExtension(strings.ToLower(path.Ext(name))); byExt != "" {
		return byExt
	}
	return sniffed
}

// FromDataURI decodes a base64 data URI back into an image, used when a
// session is restored from the cache
func FromDataURI(name, uri string) (*Image, error) {
	meta, payload, ok := strings.Cut(strings.TrimPrefix(uri, "data:"), ",")
	if !ok || !strings.HasPrefix(uri, "data:") || !strings.HasSuffix(meta, ";base64") {
		return nil, imageErrors.New(ErrBadDataURI).WithDetail("name", name)
	}

	data, err := base64.StdEncoding.DecodeString(payload)
	if err != nil {
		return nil, imageErrors.NewWithCause(ErrBadDataURI, err).WithDetail("name", name)
	}
	if len(data) == 0 {
		return nil, imageErrors.New(ErrEmpty).WithDetail("name", name)
	}

	return &Image{
		Name:        name,
		ContentType: strings.TrimSuffix(meta, ";base64"),
		Data:        data,
	}, nil
}
