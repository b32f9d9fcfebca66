package project

import (
	"context"
	"fmt"
	"path"
	"strings"
	"time"

	"github.com/Abraxas-365/mockup2html/fsx"
)

type Format string

const (
	FormatText Format = "txt"
	FormatHTML Format = "html"
)

// Formats lists every format a download offers, text first
var Formats = []Format{FormatText, FormatHTML}

// ParseFormat accepts "txt", "text" and "html" in any case
func ParseFormat(s string) (Format, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "txt", "text":
		return FormatText, nil
	case "html", "htm":
		return FormatHTML, nil
	}
	return "", projectErrors.New(ErrInvalidFormat).WithDetail("format", s)
}

func (f Format) ContentType() string {
	if f == FormatHTML {
		return "text/html; charset=utf-8"
	}
	return "text/plain; charset=utf-8"
}

// File is one offered download
type File struct {
	Name     string `json:"name"`
	Format   Format `json:"format"`
	Content  string `json:"-"`
	Location string `json:"location,omitempty"`
}

// FileName returns output_<epoch-millis>.<ext>
func FileName(at time.Time, f Format) string {
	return fmt.Sprintf("output_%d.%s", at.UnixMilli(), f)
}

// Downloader hands a generated file to the user and returns where it went
type Downloader interface {
	Offer(ctx context.Context, f File) (string, error)
}

// FSDownloader saves offered files into a directory of a file system
type FSDownloader struct {
	fs  fsx.FileSystem
	dir string
}

var _ Downloader = (*FSDownloader)(nil)

func NewFSDownloader(fs fsx.FileSystem, dir string) *FSDownloader {
	return &FSDownloader{fs: fs, dir: dir}
}

func (d *FSDownloader) Offer(ctx context.Context, f File) (string, error) {
	p := path.Base(f.Name)
	if d.dir != "" && d.dir != "." {
		p = d.fs.Join(d.dir, p)
	}
	if err := d.fs.WriteFile(ctx, p, []byte(f.Content)); err != nil {
		return "", err
	}
	if l, ok := d.fs.(fsx.Locator); ok {
		return l.Location(p), nil
	}
	return p, nil
}
